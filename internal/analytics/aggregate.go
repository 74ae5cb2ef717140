package analytics

import (
	"sort"
	"time"

	"github.com/Blue-Davinci/WealthWise/internal/data"
	"github.com/shopspring/decimal"
)

var (
	hundred = decimal.NewFromInt(100)
	oneDay  = 24 * time.Hour
)

// CategoryTotals maps a normalized category to its summed expense amount.
type CategoryTotals map[string]decimal.Decimal

// Categories returns the keys in sorted order so callers iterate
// deterministically.
func (c CategoryTotals) Categories() []string {
	keys := make([]string, 0, len(c))
	for k := range c {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Get returns the total for category, or zero when it is absent.
func (c CategoryTotals) Get(category string) decimal.Decimal {
	if v, ok := c[category]; ok {
		return v
	}
	return decimal.Zero
}

// inRange reports whether t falls in [start, end].
func inRange(t, start, end time.Time) bool {
	return !t.Before(start) && !t.After(end)
}

// SumByType sums the amount of every record of type t dated within
// [start, end]. An empty match yields zero.
func SumByType(records []*data.Transaction, t data.TransactionType, start, end time.Time) decimal.Decimal {
	total := decimal.Zero
	for _, r := range records {
		if r == nil || r.Type != t || !inRange(r.Date, start, end) {
			continue
		}
		total = total.Add(r.Amount)
	}
	return total
}

// Income is SumByType for income records.
func Income(records []*data.Transaction, start, end time.Time) decimal.Decimal {
	return SumByType(records, data.TransactionTypeIncome, start, end)
}

// Expenses is SumByType for expense records.
func Expenses(records []*data.Transaction, start, end time.Time) decimal.Decimal {
	return SumByType(records, data.TransactionTypeExpense, start, end)
}

// ExpensesByCategory groups expense amounts within [start, end] by
// category. Categories with no expenses in the window are absent.
func ExpensesByCategory(records []*data.Transaction, start, end time.Time) CategoryTotals {
	totals := make(CategoryTotals)
	for _, r := range records {
		if r == nil || r.Type != data.TransactionTypeExpense || !inRange(r.Date, start, end) {
			continue
		}
		category := data.NormalizeCategory(r.Category)
		totals[category] = totals.Get(category).Add(r.Amount)
	}
	return totals
}

// DailyAverage spreads the expenses in [start, end] over the window's
// length in whole days, never fewer than one.
func DailyAverage(records []*data.Transaction, start, end time.Time) decimal.Decimal {
	return Expenses(records, start, end).Div(decimal.NewFromInt(int64(spanDays(start, end))))
}

// spanDays is ceil((end-start)/1 day), floored at 1.
func spanDays(start, end time.Time) int {
	d := end.Sub(start)
	days := int(d / oneDay)
	if d%oneDay > 0 {
		days++
	}
	if days < 1 {
		return 1
	}
	return days
}

// PercentageChange compares current against previous. A zero previous
// yields 100 when current is positive and 0 otherwise.
func PercentageChange(current, previous decimal.Decimal) decimal.Decimal {
	if previous.IsZero() {
		if current.IsPositive() {
			return hundred
		}
		return decimal.Zero
	}
	return current.Sub(previous).Div(previous).Mul(hundred)
}

// SavingsRate is the share of income left after expenses, as a
// percentage. It is negative when spending exceeds income and 0 when
// there is no income.
func SavingsRate(income, expenses decimal.Decimal) decimal.Decimal {
	if income.IsZero() {
		return decimal.Zero
	}
	return income.Sub(expenses).Div(income).Mul(hundred)
}
