package core

import "strings"

// Draft is user input for a transaction before it is given an id.
// Amount and Date stay raw strings until Transaction parses them.
type Draft struct {
	Title    string
	Amount   string
	Category string
	Date     string
	Type     TransactionType
}

// Patch holds the fields an edit changes; nil means keep the stored value.
// Type may be set but must equal the stored type.
type Patch struct {
	Title    *string
	Amount   *string
	Category *string
	Date     *string
	Type     *TransactionType
}

// DraftFromFields is the single place where loosely named form or storage
// fields become a Draft. "price" is accepted as an alias of "amount", an
// explicit "amount" wins, and a missing type means expense.
func DraftFromFields(fields map[string]string) Draft {
	get := func(key string) string {
		return strings.TrimSpace(fields[key])
	}

	amount := get("amount")
	if amount == "" {
		amount = get("price")
	}

	typ := TransactionType(strings.ToLower(get("type")))
	if typ == "" {
		typ = Expense
	}

	return Draft{
		Title:    get("title"),
		Amount:   amount,
		Category: get("category"),
		Date:     get("date"),
		Type:     typ,
	}
}

// Transaction parses and validates the draft, stamping it with id.
func (d Draft) Transaction(id string) (Transaction, error) {
	if strings.TrimSpace(d.Title) == "" {
		return Transaction{}, fieldErr("title", ErrEmptyTitle)
	}
	if strings.TrimSpace(d.Amount) == "" {
		return Transaction{}, fieldErr("amount", ErrInvalidAmount)
	}
	cents, err := ParseDecimalToCents(d.Amount)
	if err != nil {
		return Transaction{}, fieldErr("amount", err)
	}
	if strings.TrimSpace(d.Category) == "" {
		return Transaction{}, fieldErr("category", ErrEmptyCategory)
	}
	date, err := ParseDate(d.Date)
	if err != nil {
		return Transaction{}, fieldErr("date", err)
	}
	if !d.Type.IsValid() {
		return Transaction{}, fieldErr("type", ErrInvalidType)
	}

	t := Transaction{
		ID:       id,
		Title:    strings.TrimSpace(d.Title),
		Amount:   Money{Cents: cents},
		Category: strings.TrimSpace(d.Category),
		Date:     date,
		Type:     d.Type,
	}
	return t, t.Validate()
}

// Apply returns t with the patch merged in. t itself is left untouched.
func (p Patch) Apply(t Transaction) (Transaction, error) {
	if p.Type != nil && *p.Type != t.Type {
		return Transaction{}, fieldErr("type", ErrTypeChange)
	}

	d := Draft{
		Title:    t.Title,
		Amount:   t.Amount.String(),
		Category: t.Category,
		Date:     t.Date.String(),
		Type:     t.Type,
	}
	if p.Title != nil {
		d.Title = *p.Title
	}
	if p.Amount != nil {
		d.Amount = *p.Amount
	}
	if p.Category != nil {
		d.Category = *p.Category
	}
	if p.Date != nil {
		d.Date = *p.Date
	}
	return d.Transaction(t.ID)
}

// IsEmpty reports whether the patch changes nothing.
func (p Patch) IsEmpty() bool {
	return p.Title == nil && p.Amount == nil && p.Category == nil && p.Date == nil && p.Type == nil
}
