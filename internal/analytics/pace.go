package analytics

import (
	"github.com/Blue-Davinci/WealthWise/internal/data"
	"github.com/shopspring/decimal"
)

// PaceTier is the single classification of a budget's spending pace. The
// insight generator and the burn-rate forecast both read it.
type PaceTier int

const (
	PaceExceeded PaceTier = iota
	PaceBurning
	PaceOverPace
	PaceAhead
	PaceHealthy
	PaceExcellent
)

// BudgetStatus is the externally reported severity of a budget.
type BudgetStatus string

const (
	BudgetStatusExceeded  BudgetStatus = "exceeded"
	BudgetStatusDanger    BudgetStatus = "danger"
	BudgetStatusWarning   BudgetStatus = "warning"
	BudgetStatusHealthy   BudgetStatus = "healthy"
	BudgetStatusExcellent BudgetStatus = "excellent"
)

var (
	burningThreshold   = decimal.NewFromInt(-40)
	overPaceThreshold  = decimal.NewFromInt(-20)
	aheadThreshold     = decimal.NewFromInt(-10)
	excellentThreshold = decimal.NewFromInt(30)
)

// ClassifyPace maps a budget's usage percentage and pace performance onto
// a tier. Exceeding the limit wins over any pace reading.
func ClassifyPace(percentage, performance decimal.Decimal) PaceTier {
	switch {
	case percentage.GreaterThanOrEqual(hundred):
		return PaceExceeded
	case performance.LessThan(burningThreshold):
		return PaceBurning
	case performance.LessThan(overPaceThreshold):
		return PaceOverPace
	case performance.LessThan(aheadThreshold):
		return PaceAhead
	case performance.GreaterThan(excellentThreshold):
		return PaceExcellent
	default:
		return PaceHealthy
	}
}

// Status collapses the tier onto the five reported statuses.
func (t PaceTier) Status() BudgetStatus {
	switch t {
	case PaceExceeded:
		return BudgetStatusExceeded
	case PaceBurning, PaceOverPace:
		return BudgetStatusDanger
	case PaceAhead:
		return BudgetStatusWarning
	case PaceExcellent:
		return BudgetStatusExcellent
	default:
		return BudgetStatusHealthy
	}
}

// severity orders statuses from most to least urgent.
func (s BudgetStatus) severity() int {
	switch s {
	case BudgetStatusExceeded:
		return 0
	case BudgetStatusDanger:
		return 1
	case BudgetStatusWarning:
		return 2
	case BudgetStatusHealthy:
		return 3
	default:
		return 4
	}
}

// BudgetPace is the time-proportional reading of one budget over its
// current period.
type BudgetPace struct {
	Budget                   *data.Budget
	Category                 string
	Period                   PeriodWindow
	Limit                    decimal.Decimal
	Spent                    decimal.Decimal
	Remaining                decimal.Decimal
	Percentage               decimal.Decimal
	ExpectedSpend            decimal.Decimal
	Performance              decimal.Decimal
	DailyBurnRate            decimal.Decimal
	ProjectedTotal           decimal.Decimal
	RecommendedDailySpending decimal.Decimal
	// DaysUntilExhausted is nil when nothing has been spent yet.
	DaysUntilExhausted *decimal.Decimal
	Tier               PaceTier
}

// BudgetSpent sums the expenses matching budget's category inside its
// current period.
func BudgetSpent(budget *data.Budget, records []*data.Transaction, w DateWindow) decimal.Decimal {
	period := w.PeriodWindow(budget.Period)
	category := data.NormalizeCategory(budget.Category)
	spent := decimal.Zero
	for _, r := range records {
		if r == nil || r.Type != data.TransactionTypeExpense || !inRange(r.Date, period.Start, period.End) {
			continue
		}
		if data.NormalizeCategory(r.Category) == category {
			spent = spent.Add(r.Amount)
		}
	}
	return spent
}

// NewBudgetPace evaluates budget against the expense records.
func NewBudgetPace(budget *data.Budget, records []*data.Transaction, w DateWindow) BudgetPace {
	period := w.PeriodWindow(budget.Period)
	spent := BudgetSpent(budget, records, w)
	limit := budget.Limit

	p := BudgetPace{
		Budget:    budget,
		Category:  data.NormalizeCategory(budget.Category),
		Period:    period,
		Limit:     limit,
		Spent:     spent,
		Remaining: limit.Sub(spent),
	}

	switch {
	case limit.IsPositive():
		p.Percentage = spent.Div(limit).Mul(hundred)
	case spent.IsPositive():
		p.Percentage = hundred
	default:
		p.Percentage = decimal.Zero
	}

	if limit.IsPositive() {
		p.ExpectedSpend = limit.Div(decimal.NewFromInt(int64(period.TotalDays))).Mul(decimal.NewFromInt(int64(period.DaysElapsed)))
	}
	if p.ExpectedSpend.IsPositive() {
		p.Performance = p.ExpectedSpend.Sub(spent).Div(p.ExpectedSpend).Mul(hundred)
	}

	elapsed := period.DaysElapsed
	if elapsed < 1 {
		elapsed = 1
	}
	p.DailyBurnRate = spent.Div(decimal.NewFromInt(int64(elapsed)))
	p.ProjectedTotal = p.DailyBurnRate.Mul(decimal.NewFromInt(int64(period.TotalDays)))
	if p.DailyBurnRate.IsPositive() {
		days := p.Remaining.Div(p.DailyBurnRate)
		p.DaysUntilExhausted = &days
	}
	// An overspent budget yields a negative daily allowance.
	if period.DaysRemaining > 0 {
		p.RecommendedDailySpending = p.Remaining.Div(decimal.NewFromInt(int64(period.DaysRemaining)))
	}

	p.Tier = ClassifyPace(p.Percentage, p.Performance)
	return p
}

// BudgetPaces evaluates every budget in input order.
func BudgetPaces(budgets []*data.Budget, records []*data.Transaction, w DateWindow) []BudgetPace {
	paces := make([]BudgetPace, 0, len(budgets))
	for _, b := range budgets {
		if b == nil {
			continue
		}
		paces = append(paces, NewBudgetPace(b, records, w))
	}
	return paces
}
