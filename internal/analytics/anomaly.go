package analytics

import (
	"sort"
	"time"

	"github.com/Blue-Davinci/WealthWise/internal/data"
	"github.com/shopspring/decimal"
)

// anomalyFactor is how many times the mean an expense must exceed.
var anomalyFactor = decimal.NewFromInt(3)

// FindAnomalies returns the expenses dated within [start, end] whose amount
// is strictly greater than three times the window's mean expense. Records
// keep their input order.
func FindAnomalies(records []*data.Transaction, start, end time.Time) []*data.Transaction {
	var expenses []*data.Transaction
	total := decimal.Zero
	for _, r := range records {
		if r == nil || r.Type != data.TransactionTypeExpense || !inRange(r.Date, start, end) {
			continue
		}
		expenses = append(expenses, r)
		total = total.Add(r.Amount)
	}
	if len(expenses) == 0 {
		return nil
	}

	threshold := total.Div(decimal.NewFromInt(int64(len(expenses)))).Mul(anomalyFactor)
	var anomalies []*data.Transaction
	for _, e := range expenses {
		if e.Amount.GreaterThan(threshold) {
			anomalies = append(anomalies, e)
		}
	}
	return anomalies
}

// LargestFirst returns a copy of records ordered by amount descending.
// Equal amounts are ordered by the most recent date first.
func LargestFirst(records []*data.Transaction) []*data.Transaction {
	sorted := make([]*data.Transaction, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		if c := sorted[i].Amount.Cmp(sorted[j].Amount); c != 0 {
			return c > 0
		}
		return sorted[i].Date.After(sorted[j].Date)
	})
	return sorted
}
