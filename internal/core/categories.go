package core

// ExpenseCategories are the choices offered when recording an expense.
var ExpenseCategories = []string{
	"Food",
	"Housing",
	"Transportation",
	"Utilities",
	"Healthcare",
	"Entertainment",
	"Shopping",
	"Education",
	"Personal Care",
	"Travel",
	"Debt",
	"Gifts",
	"Bills",
	"Other",
}

// IncomeCategories are the choices offered when recording income.
var IncomeCategories = []string{
	"Salary",
	"Freelance",
	"Business",
	"Investments",
	"Dividends",
	"Rental",
	"Gifts",
	"Refunds",
	"Other",
}

// CategoriesFor returns a copy of the catalog for the given type.
// The ledger itself accepts categories outside the catalog.
func CategoriesFor(t TransactionType) []string {
	var src []string
	switch t {
	case Income:
		src = IncomeCategories
	case Expense:
		src = ExpenseCategories
	}
	return append([]string(nil), src...)
}

// IsKnownCategory reports whether category is in the catalog for t.
func IsKnownCategory(t TransactionType, category string) bool {
	for _, c := range CategoriesFor(t) {
		if c == category {
			return true
		}
	}
	return false
}
