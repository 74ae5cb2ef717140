package analytics

import (
	"fmt"
	"sort"
	"time"

	"github.com/Blue-Davinci/WealthWise/internal/data"
	"github.com/shopspring/decimal"
)

//==============================================================================
// CASH FLOW
//==============================================================================

// TimelinePoint is a projected balance on a given date.
type TimelinePoint struct {
	Date    time.Time
	Balance decimal.Decimal
	Label   string
}

type CashflowForecast struct {
	Balance             decimal.Decimal
	MonthIncome         decimal.Decimal
	MonthExpenses       decimal.Decimal
	DailyAvgSpending    decimal.Decimal
	PredictedExpenses   decimal.Decimal
	PredictedIncome     decimal.Decimal
	PredictedEndBalance decimal.Decimal
	DaysRemaining       int
	Timeline            []TimelinePoint
	UpcomingExpenses    decimal.Decimal
	UpcomingIncome      decimal.Decimal
	UpcomingCount       int
}

// ForecastCashflow projects the month-end balance by extrapolating the
// month-to-date daily spend and adding recurring items still due this
// month.
func ForecastCashflow(records []*data.Transaction, w DateWindow) CashflowForecast {
	f := CashflowForecast{
		Balance:          Income(records, Epoch, w.Today).Sub(Expenses(records, Epoch, w.Today)),
		MonthIncome:      Income(records, w.CurrentMonthStart, w.Today),
		MonthExpenses:    Expenses(records, w.CurrentMonthStart, w.Today),
		DailyAvgSpending: DailyAverage(records, w.CurrentMonthStart, w.Today),
		DaysRemaining:    w.DaysRemainingInMonth,
	}

	for _, r := range records {
		if r == nil || !r.IsRecurring() || r.NextDate == nil || !inRange(*r.NextDate, w.Today, w.CurrentMonthEnd) {
			continue
		}
		f.UpcomingCount++
		switch r.Type {
		case data.TransactionTypeExpense:
			f.UpcomingExpenses = f.UpcomingExpenses.Add(r.Amount)
		case data.TransactionTypeIncome:
			f.UpcomingIncome = f.UpcomingIncome.Add(r.Amount)
		}
	}

	remaining := decimal.NewFromInt(int64(w.DaysRemainingInMonth))
	f.PredictedExpenses = f.DailyAvgSpending.Mul(remaining).Add(f.UpcomingExpenses)
	f.PredictedIncome = f.UpcomingIncome
	f.PredictedEndBalance = f.Balance.Sub(f.PredictedExpenses).Add(f.PredictedIncome)

	f.Timeline = []TimelinePoint{{Date: w.Today, Balance: f.Balance, Label: "Today"}}
	for _, cp := range []struct {
		days  int
		label string
	}{{7, "1 Week"}, {14, "2 Weeks"}} {
		if w.DaysRemainingInMonth < cp.days {
			continue
		}
		f.Timeline = append(f.Timeline, TimelinePoint{
			Date:    w.Today.AddDate(0, 0, cp.days),
			Balance: f.Balance.Sub(f.DailyAvgSpending.Mul(decimal.NewFromInt(int64(cp.days)))),
			Label:   cp.label,
		})
	}
	f.Timeline = append(f.Timeline, TimelinePoint{Date: w.CurrentMonthEnd, Balance: f.PredictedEndBalance, Label: "Month End"})
	return f
}

//==============================================================================
// BUDGET BURN RATE
//==============================================================================

type BudgetForecast struct {
	BudgetPace
	Status  BudgetStatus
	Message string
}

type BurnRateReport struct {
	Budgets       []BudgetForecast
	DaysElapsed   int
	DaysRemaining int
	TotalBudgets  int
	Exceeded      int
	AtRisk        int
	Healthy       int
}

var goodPaceThreshold = decimal.NewFromInt(10)

// ForecastBurnRate evaluates every budget's pace and orders them most
// urgent first.
func ForecastBurnRate(budgets []*data.Budget, records []*data.Transaction, w DateWindow) BurnRateReport {
	report := BurnRateReport{
		Budgets:       []BudgetForecast{},
		DaysElapsed:   w.DaysElapsedInMonth,
		DaysRemaining: w.DaysRemainingInMonth,
	}
	for _, p := range BudgetPaces(budgets, records, w) {
		bf := BudgetForecast{BudgetPace: p, Status: p.Tier.Status(), Message: burnRateMessage(p)}
		report.Budgets = append(report.Budgets, bf)
		switch bf.Status {
		case BudgetStatusExceeded:
			report.Exceeded++
		case BudgetStatusDanger:
			report.AtRisk++
		case BudgetStatusHealthy, BudgetStatusExcellent:
			report.Healthy++
		}
	}
	sort.SliceStable(report.Budgets, func(i, j int) bool {
		return report.Budgets[i].Status.severity() < report.Budgets[j].Status.severity()
	})
	report.TotalBudgets = len(report.Budgets)
	return report
}

func burnRateMessage(p BudgetPace) string {
	switch p.Tier {
	case PaceExceeded:
		return fmt.Sprintf("Budget exceeded by %s", money(p.Spent.Sub(p.Limit)))
	case PaceBurning:
		msg := fmt.Sprintf("Burning %s%% faster than expected!", pct(p.Performance.Abs()))
		if day, ok := exhaustionDay(p); ok {
			msg += fmt.Sprintf(" Will exceed budget by Day %d", day)
		}
		return msg
	case PaceOverPace:
		return fmt.Sprintf("Spending too fast (%s%% over pace). Reduce to %s/day", pct(p.Performance.Abs()), money(p.RecommendedDailySpending))
	case PaceAhead:
		return fmt.Sprintf("Slightly over pace. %s%% used with %d days remaining", pct(p.Percentage), p.Period.DaysRemaining)
	case PaceExcellent:
		return fmt.Sprintf("Excellent control! %s%% under pace with %s buffer", pct(p.Performance.Abs()), money(p.Remaining))
	}
	if p.Performance.GreaterThanOrEqual(goodPaceThreshold) && p.Limit.IsPositive() {
		return fmt.Sprintf("Good pace. On track to finish at %s (%s%% of budget)", money(p.ProjectedTotal), pct(p.ProjectedTotal.Div(p.Limit).Mul(hundred)))
	}
	return fmt.Sprintf("On track to finish at %s", money(p.ProjectedTotal))
}

//==============================================================================
// GOALS
//==============================================================================

type GoalStatus string

const (
	GoalStatusAchieved GoalStatus = "achieved"
	GoalStatusBehind   GoalStatus = "behind"
	GoalStatusAhead    GoalStatus = "ahead"
	GoalStatusOnTrack  GoalStatus = "on-track"
)

// projectionMonth is the fixed month length used by goal projections.
const projectionMonth = 30 * 24 * time.Hour

// maxProjectionDays bounds how far out a completion date is projected.
const maxProjectionDays = 100 * 365

type GoalForecast struct {
	Goal                   *data.Goal
	Progress               decimal.Decimal
	Remaining              decimal.Decimal
	MonthsRemaining        int
	RequiredMonthlySavings decimal.Decimal
	CurrentMonthlySavings  decimal.Decimal
	// MonthsToComplete is nil when the goal is achieved or there is no
	// positive savings trend to project from.
	MonthsToComplete    *decimal.Decimal
	PredictedCompletion *time.Time
	Status              GoalStatus
	Message             string
}

type GoalsReport struct {
	Goals             []GoalForecast
	TotalGoals        int
	Achieved          int
	OnTrack           int
	Behind            int
	AvgMonthlySavings decimal.Decimal
}

// AverageMonthlySavings is the trailing three-month net savings per month.
func AverageMonthlySavings(records []*data.Transaction, w DateWindow) decimal.Decimal {
	net := Income(records, w.ThreeMonthsAgo, w.Today).Sub(Expenses(records, w.ThreeMonthsAgo, w.Today))
	return net.Div(trailingMonths)
}

// ForecastGoals projects each goal's completion from the trailing savings
// rate.
func ForecastGoals(goals []*data.Goal, records []*data.Transaction, w DateWindow) GoalsReport {
	avg := AverageMonthlySavings(records, w)
	report := GoalsReport{Goals: []GoalForecast{}, AvgMonthlySavings: avg}
	for _, g := range goals {
		if g == nil {
			continue
		}
		gf := forecastGoal(g, avg, w)
		report.Goals = append(report.Goals, gf)
		switch gf.Status {
		case GoalStatusAchieved:
			report.Achieved++
		case GoalStatusBehind:
			report.Behind++
		default:
			report.OnTrack++
		}
	}
	report.TotalGoals = len(report.Goals)
	return report
}

func forecastGoal(g *data.Goal, avg decimal.Decimal, w DateWindow) GoalForecast {
	gf := GoalForecast{
		Goal:                  g,
		Progress:              g.Progress(),
		Remaining:             g.Remaining(),
		MonthsRemaining:       monthsUntil(w.Today, g.Deadline.Time),
		CurrentMonthlySavings: avg,
	}
	if gf.MonthsRemaining > 0 {
		gf.RequiredMonthlySavings = gf.Remaining.Div(decimal.NewFromInt(int64(gf.MonthsRemaining)))
	} else {
		gf.RequiredMonthlySavings = gf.Remaining
	}

	if g.IsAchieved() {
		gf.Status = GoalStatusAchieved
		gf.Message = "Goal achieved! 🎉"
		return gf
	}

	if avg.IsPositive() {
		months := gf.Remaining.Div(avg)
		gf.MonthsToComplete = &months
		days := months.Mul(decimal.NewFromInt(int64(projectionMonth / oneDay))).Ceil().IntPart()
		if days <= maxProjectionDays {
			at := w.Today.AddDate(0, 0, int(days))
			gf.PredictedCompletion = &at
		}
	}

	monthsRemaining := decimal.NewFromInt(int64(gf.MonthsRemaining))
	switch {
	case gf.MonthsToComplete == nil:
		gf.Status = GoalStatusBehind
		gf.Message = "No savings surplus in the last 3 months to reach this goal"
	case gf.MonthsToComplete.GreaterThan(monthsRemaining):
		gf.Status = GoalStatusBehind
		late := gf.MonthsToComplete.Sub(monthsRemaining).Round(0)
		gf.Message = fmt.Sprintf("Will be %s month(s) late at current savings rate", late.String())
	case gf.MonthsToComplete.LessThan(monthsRemaining):
		gf.Status = GoalStatusAhead
		early := monthsRemaining.Sub(*gf.MonthsToComplete).Round(0)
		gf.Message = fmt.Sprintf("Will complete %s month(s) early!", early.String())
	default:
		gf.Status = GoalStatusOnTrack
		gf.Message = fmt.Sprintf("On track to complete by %s", g.Deadline.Format(data.DateLayout))
	}
	return gf
}

// monthsUntil is ceil((deadline-today)/30 days), never negative.
func monthsUntil(today, deadline time.Time) int {
	d := deadline.Sub(today)
	if d <= 0 {
		return 0
	}
	months := int(d / projectionMonth)
	if d%projectionMonth > 0 {
		months++
	}
	return months
}
