// Package metrics derives display values from a ledger snapshot.
//
// Every function is pure and recomputes from the snapshot it is given.
// Divisions guard their denominator, so no result is ever NaN or Inf.
package metrics

import (
	"cmp"
	"math"
	"slices"

	"wallet/internal/core"
	"wallet/internal/ledger"
)

// DefaultTopN is how many categories TopCategories shows by default.
const DefaultTopN = 5

// CategoryShare is a category total with its share of all expenses.
type CategoryShare struct {
	Name    string
	Amount  core.Money
	Percent int
}

// Summary bundles every derived value a front end renders.
type Summary struct {
	TotalIncome         core.Money
	TotalExpenses       core.Money
	NetBalance          core.Money
	IncomeSharePercent  float64
	ExpenseSharePercent float64
	TopCategories       []CategoryShare
	Recent              []core.Transaction
}

// TotalIncome is the opening balance plus all income.
func TotalIncome(s ledger.Snapshot) core.Money {
	total := s.OpeningBalance
	for _, tx := range s.Transactions {
		if tx.IsIncome() {
			total = total.Add(tx.Amount)
		}
	}
	return total
}

// TotalExpenses sums all expenses.
func TotalExpenses(s ledger.Snapshot) core.Money {
	var total core.Money
	for _, tx := range s.Transactions {
		if tx.IsExpense() {
			total = total.Add(tx.Amount)
		}
	}
	return total
}

// NetBalance is TotalIncome minus TotalExpenses.
func NetBalance(s ledger.Snapshot) core.Money {
	return TotalIncome(s).Sub(TotalExpenses(s))
}

// IncomeSharePercent is the part of total income still unspent.
func IncomeSharePercent(s ledger.Snapshot) float64 {
	return sharePercent(NetBalance(s), TotalIncome(s))
}

// ExpenseSharePercent is the part of total income spent.
func ExpenseSharePercent(s ledger.Snapshot) float64 {
	return sharePercent(TotalExpenses(s), TotalIncome(s))
}

// sharePercent returns part/whole*100 clamped to [0, 100], or 0 when whole
// is not positive.
func sharePercent(part, whole core.Money) float64 {
	if whole.Cents <= 0 {
		return 0
	}
	p := float64(part.Cents) / float64(whole.Cents) * 100
	if math.IsNaN(p) || p < 0 {
		return 0
	}
	return math.Min(p, 100)
}

// GroupByCategory sums expenses per category, in order of first appearance.
func GroupByCategory(s ledger.Snapshot) []core.CategoryAmount {
	var out []core.CategoryAmount
	pos := make(map[string]int)
	for _, tx := range s.Transactions {
		if !tx.IsExpense() {
			continue
		}
		i, ok := pos[tx.Category]
		if !ok {
			i = len(out)
			pos[tx.Category] = i
			out = append(out, core.CategoryAmount{Name: tx.Category})
		}
		out[i].Amount = out[i].Amount.Add(tx.Amount)
	}
	return out
}

// TopCategories returns the n biggest expense categories. Equal totals keep
// the order in which the categories first appeared.
func TopCategories(s ledger.Snapshot, n int) []core.CategoryAmount {
	if n <= 0 {
		return []core.CategoryAmount{}
	}
	groups := GroupByCategory(s)
	slices.SortStableFunc(groups, func(a, b core.CategoryAmount) int {
		return cmp.Compare(b.Amount.Cents, a.Amount.Cents)
	})
	if len(groups) > n {
		groups = groups[:n]
	}
	return groups
}

// CategoryPercent is categoryTotal as a rounded percentage of totalExpenses.
func CategoryPercent(categoryTotal, totalExpenses core.Money) int {
	if totalExpenses.Cents <= 0 {
		return 0
	}
	return int(math.Round(float64(categoryTotal.Cents) / float64(totalExpenses.Cents) * 100))
}

// RecentTransactions returns all transactions newest first. Transactions on
// the same date keep their stored order.
func RecentTransactions(s ledger.Snapshot) []core.Transaction {
	out := slices.Clone(s.Transactions)
	slices.SortStableFunc(out, func(a, b core.Transaction) int {
		return b.Date.Compare(a.Date.Time)
	})
	return out
}

// Summarize computes every view at once with the top n categories.
func Summarize(s ledger.Snapshot, n int) Summary {
	expenses := TotalExpenses(s)

	top := TopCategories(s, n)
	shares := make([]CategoryShare, len(top))
	for i, c := range top {
		shares[i] = CategoryShare{
			Name:    c.Name,
			Amount:  c.Amount,
			Percent: CategoryPercent(c.Amount, expenses),
		}
	}

	return Summary{
		TotalIncome:         TotalIncome(s),
		TotalExpenses:       expenses,
		NetBalance:          NetBalance(s),
		IncomeSharePercent:  IncomeSharePercent(s),
		ExpenseSharePercent: ExpenseSharePercent(s),
		TopCategories:       shares,
		Recent:              RecentTransactions(s),
	}
}
