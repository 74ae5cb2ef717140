package analytics

import (
	"sort"

	"github.com/Blue-Davinci/WealthWise/internal/data"
	"github.com/shopspring/decimal"
)

var trailingMonths = decimal.NewFromInt(3)

// CategoryPattern compares one category's spend this month against last
// month and the trailing three-month average.
type CategoryPattern struct {
	Category      string
	CurrentMonth  decimal.Decimal
	LastMonth     decimal.Decimal
	ThreeMonthAvg decimal.Decimal
	ChangeVsLast  decimal.Decimal
	ChangeVsAvg   decimal.Decimal
}

type PatternReport struct {
	Categories        []CategoryPattern
	CurrentMonthTotal decimal.Decimal
	LastMonthTotal    decimal.Decimal
	ThreeMonthAverage decimal.Decimal
}

// SpendingPatterns lists every category that had expenses in the trailing
// three months, largest current-month spend first.
func SpendingPatterns(records []*data.Transaction, w DateWindow) PatternReport {
	current := ExpensesByCategory(records, w.CurrentMonthStart, w.CurrentMonthEnd)
	last := ExpensesByCategory(records, w.LastMonthStart, w.LastMonthEnd)
	trailing := ExpensesByCategory(records, w.ThreeMonthsAgo, w.CurrentMonthEnd)

	names := make(map[string]struct{})
	for _, totals := range []CategoryTotals{current, last, trailing} {
		for k := range totals {
			names[k] = struct{}{}
		}
	}

	patterns := make([]CategoryPattern, 0, len(names))
	for name := range names {
		avg := trailing.Get(name).Div(trailingMonths)
		cur := current.Get(name)
		patterns = append(patterns, CategoryPattern{
			Category:      name,
			CurrentMonth:  cur,
			LastMonth:     last.Get(name),
			ThreeMonthAvg: avg,
			ChangeVsLast:  PercentageChange(cur, last.Get(name)),
			ChangeVsAvg:   PercentageChange(cur, avg),
		})
	}
	sort.Slice(patterns, func(i, j int) bool {
		if c := patterns[i].CurrentMonth.Cmp(patterns[j].CurrentMonth); c != 0 {
			return c > 0
		}
		return patterns[i].Category < patterns[j].Category
	})

	return PatternReport{
		Categories:        patterns,
		CurrentMonthTotal: Expenses(records, w.CurrentMonthStart, w.CurrentMonthEnd),
		LastMonthTotal:    Expenses(records, w.LastMonthStart, w.LastMonthEnd),
		ThreeMonthAverage: Expenses(records, w.ThreeMonthsAgo, w.CurrentMonthEnd).Div(trailingMonths),
	}
}
