package analytics

import (
	"strings"
	"time"

	"github.com/Blue-Davinci/WealthWise/internal/data"
	"github.com/shopspring/decimal"
)

var (
	subScoreMax      = decimal.NewFromInt(25)
	savingsFullRate  = decimal.NewFromInt(30)
	totalScoreMax    = decimal.NewFromInt(100)
	diversifiedTypes = 3
)

// Rates maps a currency code to the multiplier that converts one unit of
// it into the base currency. Missing currencies convert at 1.
type Rates map[string]decimal.Decimal

// ToBase converts amount from currency into the base currency.
func (r Rates) ToBase(currency string, amount decimal.Decimal) decimal.Decimal {
	if rate, ok := r[strings.ToUpper(strings.TrimSpace(currency))]; ok && rate.IsPositive() {
		return amount.Mul(rate)
	}
	return amount
}

// Breakdown carries the four 0-25 sub-scores.
type Breakdown struct {
	Savings     decimal.Decimal
	Budget      decimal.Decimal
	Goals       decimal.Decimal
	Investments decimal.Decimal
}

// Total is the rounded sum clamped to [0,100].
func (b Breakdown) Total() int {
	sum := b.Savings.Add(b.Budget).Add(b.Goals).Add(b.Investments)
	return int(clamp(sum, decimal.Zero, totalScoreMax).Round(0).IntPart())
}

// HealthMetrics are the current-month figures reported with the score.
type HealthMetrics struct {
	SavingsRate     decimal.Decimal
	MonthlyIncome   decimal.Decimal
	MonthlyExpenses decimal.Decimal
	MonthlySavings  decimal.Decimal
	DaysElapsed     int
	DaysRemaining   int
}

// InvestmentScore is the investment sub-score along with the figures it
// was derived from.
type InvestmentScore struct {
	Score                decimal.Decimal
	ROI                  decimal.Decimal
	ROIScore             decimal.Decimal
	DiversificationScore decimal.Decimal
	Types                int
	TypesList            []string
	TotalInvested        decimal.Decimal
	TotalCurrentValue    decimal.Decimal
	HasInvestments       bool
}

// HealthScore is the composite financial health reading.
type HealthScore struct {
	Score      int
	Breakdown  Breakdown
	Metrics    HealthMetrics
	Investment InvestmentScore
}

// Snapshot is everything one request fetched for a user.
type Snapshot struct {
	Transactions []*data.Transaction
	Budgets      []*data.Budget
	Goals        []*data.Goal
	Investments  []*data.Investment
	Rates        Rates
}

// ComputeHealthScore combines savings, budget adherence, goal progress and
// investment performance into a 0-100 score.
func ComputeHealthScore(s Snapshot, w DateWindow) HealthScore {
	income := Income(s.Transactions, w.CurrentMonthStart, w.CurrentMonthEnd)
	expenses := Expenses(s.Transactions, w.CurrentMonthStart, w.CurrentMonthEnd)
	savingsRate := SavingsRate(income, expenses)
	investment := ScoreInvestments(s.Investments, s.Rates)

	breakdown := Breakdown{
		Savings:     SavingsSubScore(savingsRate),
		Budget:      scaleToSubScore(BudgetHealth(BudgetPaces(s.Budgets, s.Transactions, w))),
		Goals:       scaleToSubScore(GoalHealth(s.Goals, w)),
		Investments: investment.Score,
	}

	return HealthScore{
		Score:     breakdown.Total(),
		Breakdown: breakdown,
		Metrics: HealthMetrics{
			SavingsRate:     savingsRate,
			MonthlyIncome:   income,
			MonthlyExpenses: expenses,
			MonthlySavings:  income.Sub(expenses),
			DaysElapsed:     w.DaysElapsedInMonth,
			DaysRemaining:   w.DaysRemainingInMonth,
		},
		Investment: investment,
	}
}

// SavingsSubScore gives full credit at a 30% savings rate and scales
// linearly below it. Negative rates score 0.
func SavingsSubScore(savingsRate decimal.Decimal) decimal.Decimal {
	return clamp(savingsRate.Div(savingsFullRate).Mul(subScoreMax), decimal.Zero, subScoreMax)
}

// scaleToSubScore maps a 0-100 health figure onto 0-25.
func scaleToSubScore(health decimal.Decimal) decimal.Decimal {
	return clamp(health.Div(hundred).Mul(subScoreMax), decimal.Zero, subScoreMax)
}

// paceStep is one rung of the pace-to-score ladder.
type paceStep struct {
	min   decimal.Decimal
	score decimal.Decimal
}

var paceLadder = []paceStep{
	{decimal.NewFromInt(50), decimal.NewFromInt(100)},
	{decimal.NewFromInt(30), decimal.NewFromInt(95)},
	{decimal.NewFromInt(10), decimal.NewFromInt(85)},
	{decimal.NewFromInt(0), decimal.NewFromInt(75)},
	{decimal.NewFromInt(-10), decimal.NewFromInt(65)},
	{decimal.NewFromInt(-20), decimal.NewFromInt(50)},
	{decimal.NewFromInt(-40), decimal.NewFromInt(30)},
}

var paceFloorScore = decimal.NewFromInt(10)

// PaceScore maps a pace performance percentage to 0-100. Higher
// performance never scores lower.
func PaceScore(performance decimal.Decimal) decimal.Decimal {
	for _, step := range paceLadder {
		if performance.GreaterThanOrEqual(step.min) {
			return step.score
		}
	}
	return paceFloorScore
}

// BudgetHealth averages the per-budget pace scores. A budget at or over
// its limit scores 0. No budgets means no contribution.
func BudgetHealth(paces []BudgetPace) decimal.Decimal {
	if len(paces) == 0 {
		return decimal.Zero
	}
	total := decimal.Zero
	for _, p := range paces {
		if p.Tier == PaceExceeded {
			continue
		}
		total = total.Add(PaceScore(p.Performance))
	}
	return total.Div(decimal.NewFromInt(int64(len(paces))))
}

// GoalHealth averages how well each goal's savings track the time elapsed
// toward its deadline. No goals means no contribution.
func GoalHealth(goals []*data.Goal, w DateWindow) decimal.Decimal {
	total := decimal.Zero
	counted := 0
	for _, g := range goals {
		if g == nil {
			continue
		}
		counted++
		total = total.Add(goalScore(g, w))
	}
	if counted == 0 {
		return decimal.Zero
	}
	return total.Div(decimal.NewFromInt(int64(counted)))
}

func goalScore(g *data.Goal, w DateWindow) decimal.Decimal {
	if g.IsAchieved() {
		return totalScoreMax
	}
	created := g.CreatedAt
	if created.IsZero() {
		created = w.CurrentMonthStart
	}
	totalDays := ceilDays(g.Deadline.Time.Sub(created))
	elapsed := ceilDays(w.Now.Sub(created))
	if elapsed > totalDays {
		elapsed = totalDays
	}

	expected := g.TargetAmount.Mul(decimal.NewFromInt(int64(elapsed))).Div(decimal.NewFromInt(int64(totalDays)))
	if !expected.IsPositive() {
		return totalScoreMax
	}
	performance := g.SavedAmount.Sub(expected).Div(expected).Mul(hundred)
	return PaceScore(performance)
}

// ceilDays rounds d up to whole days, never below 1.
func ceilDays(d time.Duration) int {
	if d <= 0 {
		return 1
	}
	return spanDays(time.Time{}, time.Time{}.Add(d))
}

type roiStep struct {
	min   decimal.Decimal
	score decimal.Decimal
}

var roiLadder = []roiStep{
	{decimal.NewFromInt(30), decimal.NewFromInt(15)},
	{decimal.NewFromInt(20), decimal.NewFromInt(13)},
	{decimal.NewFromInt(10), decimal.NewFromInt(11)},
	{decimal.NewFromInt(5), decimal.NewFromInt(9)},
	{decimal.NewFromInt(0), decimal.NewFromInt(7)},
	{decimal.NewFromInt(-5), decimal.NewFromInt(5)},
	{decimal.NewFromInt(-10), decimal.NewFromInt(3)},
	{decimal.NewFromInt(-20), decimal.NewFromInt(2)},
}

// ROIScore maps a return percentage onto 0-15.
func ROIScore(roi decimal.Decimal) decimal.Decimal {
	for _, step := range roiLadder {
		if roi.GreaterThanOrEqual(step.min) {
			return step.score
		}
	}
	return decimal.Zero
}

// DiversificationScore rewards holding several asset categories.
func DiversificationScore(types int) decimal.Decimal {
	switch {
	case types >= diversifiedTypes:
		return decimal.NewFromInt(10)
	case types == 2:
		return decimal.NewFromInt(7)
	case types == 1:
		return decimal.NewFromInt(3)
	default:
		return decimal.Zero
	}
}

// InvestmentCategory folds the free-form category labels users pick onto
// a stable set of asset classes.
func InvestmentCategory(category string) string {
	c := strings.TrimSpace(category)
	switch strings.ToLower(c) {
	case "stock", "stocks":
		return "Stocks"
	case "usa", "us stock", "us stocks", "usa stock", "usa stocks":
		return "USA Stocks"
	case "india", "indian stock", "indian stocks", "india stock", "india stocks":
		return "India Stocks"
	case "crypto", "cryptocurrency":
		return "Cryptocurrency"
	case "":
		return "Others"
	}
	return c
}

// ScoreInvestments computes ROI over base-currency values and the number of
// distinct asset categories held.
func ScoreInvestments(investments []*data.Investment, rates Rates) InvestmentScore {
	s := InvestmentScore{
		TypesList: []string{},
	}
	seen := make(map[string]bool)
	for _, inv := range investments {
		if inv == nil {
			continue
		}
		s.HasInvestments = true
		s.TotalInvested = s.TotalInvested.Add(rates.ToBase(inv.Currency, inv.Cost()))
		s.TotalCurrentValue = s.TotalCurrentValue.Add(rates.ToBase(inv.Currency, inv.Value()))

		category := InvestmentCategory(inv.Category)
		if !seen[category] {
			seen[category] = true
			s.TypesList = append(s.TypesList, category)
		}
	}
	if !s.HasInvestments {
		return s
	}

	// A portfolio with no cost basis earns no ROI points.
	if s.TotalInvested.IsPositive() {
		s.ROI = s.TotalCurrentValue.Sub(s.TotalInvested).Div(s.TotalInvested).Mul(hundred).Round(2)
		s.ROIScore = ROIScore(s.ROI)
	}
	s.Types = len(s.TypesList)
	s.DiversificationScore = DiversificationScore(s.Types)
	s.Score = decimal.Min(subScoreMax, s.ROIScore.Add(s.DiversificationScore))
	return s
}

func clamp(v, lo, hi decimal.Decimal) decimal.Decimal {
	if v.LessThan(lo) {
		return lo
	}
	if v.GreaterThan(hi) {
		return hi
	}
	return v
}
