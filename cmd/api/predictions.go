package main

import (
	"net/http"

	"github.com/Blue-Davinci/WealthWise/internal/analytics"
	"github.com/Blue-Davinci/WealthWise/internal/data"
	"github.com/shopspring/decimal"
)

//==============================================================================================================
// PREDICTION HANDLERS
//==============================================================================================================

const (
	// noProjection is written in place of a projection that has no value,
	// such as days until exhaustion when nothing is being spent.
	noProjection = 999
	// unknownDate is written in place of a completion date that cannot be projected.
	unknownDate = "Unknown"
)

type timelinePoint struct {
	Date    string  `json:"date"`
	Balance float64 `json:"balance"`
	Label   string  `json:"label"`
}

// getCashflowPredictionHandler() projects the month-end balance from the month-to-date
// spending rate and the recurring items still due this month.
func (app *application) getCashflowPredictionHandler(w http.ResponseWriter, r *http.Request) {
	snapshot, err := app.loadSnapshot(r, app.contextGetUser(r).ID, snapshotParts{})
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}
	forecast := analytics.ForecastCashflow(snapshot.Transactions, analytics.NewDateWindow(app.clock()))

	timeline := make([]timelinePoint, 0, len(forecast.Timeline))
	for _, point := range forecast.Timeline {
		timeline = append(timeline, timelinePoint{
			Date:    point.Date.Format(data.DateLayout),
			Balance: money(point.Balance),
			Label:   point.Label,
		})
	}
	err = app.writeJSON(w, http.StatusOK, envelope{
		"current": map[string]float64{
			"balance":       money(forecast.Balance),
			"monthIncome":   money(forecast.MonthIncome),
			"monthExpenses": money(forecast.MonthExpenses),
		},
		"predictions": map[string]any{
			"dailyAvgSpending":    money(forecast.DailyAvgSpending),
			"predictedExpenses":   money(forecast.PredictedExpenses),
			"predictedIncome":     money(forecast.PredictedIncome),
			"predictedEndBalance": money(forecast.PredictedEndBalance),
			"daysRemaining":       forecast.DaysRemaining,
		},
		"timeline": timeline,
		"upcomingRecurring": map[string]any{
			"expenses": money(forecast.UpcomingExpenses),
			"income":   money(forecast.UpcomingIncome),
			"count":    forecast.UpcomingCount,
		},
	}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

type budgetBurnRate struct {
	Category                 string  `json:"category"`
	Limit                    float64 `json:"limit"`
	Spent                    float64 `json:"spent"`
	Remaining                float64 `json:"remaining"`
	Percentage               float64 `json:"percentage"`
	DailyBurnRate            float64 `json:"dailyBurnRate"`
	ExpectedSpend            float64 `json:"expectedSpend"`
	Performance              float64 `json:"performance"`
	RecommendedDailySpending float64 `json:"recommendedDailySpending"`
	ProjectedTotal           float64 `json:"projectedTotal"`
	DaysUntilExhausted       float64 `json:"daysUntilExhausted"`
	Status                   string  `json:"status"`
	Message                  string  `json:"message"`
}

// getBudgetBurnRateHandler() paces every budget against its period and orders them most
// urgent first.
func (app *application) getBudgetBurnRateHandler(w http.ResponseWriter, r *http.Request) {
	snapshot, err := app.loadSnapshot(r, app.contextGetUser(r).ID, snapshotParts{budgets: true})
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}
	report := analytics.ForecastBurnRate(snapshot.Budgets, snapshot.Transactions, analytics.NewDateWindow(app.clock()))

	budgets := make([]budgetBurnRate, 0, len(report.Budgets))
	for _, b := range report.Budgets {
		budgets = append(budgets, budgetBurnRate{
			Category:                 b.Category,
			Limit:                    money(b.Limit),
			Spent:                    money(b.Spent),
			Remaining:                money(b.Remaining),
			Percentage:               money(b.Percentage),
			DailyBurnRate:            money(b.DailyBurnRate),
			ExpectedSpend:            money(b.ExpectedSpend),
			Performance:              money(b.Performance),
			RecommendedDailySpending: money(b.RecommendedDailySpending),
			ProjectedTotal:           money(b.ProjectedTotal),
			DaysUntilExhausted:       projection(b.DaysUntilExhausted),
			Status:                   string(b.Status),
			Message:                  b.Message,
		})
	}
	err = app.writeJSON(w, http.StatusOK, envelope{
		"budgets": budgets,
		"summary": map[string]int{
			"daysElapsed":   report.DaysElapsed,
			"daysRemaining": report.DaysRemaining,
			"totalBudgets":  report.TotalBudgets,
			"exceeded":      report.Exceeded,
			"atRisk":        report.AtRisk,
			"healthy":       report.Healthy,
		},
	}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

type goalPrediction struct {
	Name                   string  `json:"name"`
	Target                 float64 `json:"target"`
	Saved                  float64 `json:"saved"`
	Remaining              float64 `json:"remaining"`
	Progress               float64 `json:"progress"`
	Deadline               string  `json:"deadline"`
	MonthsRemaining        int     `json:"monthsRemaining"`
	RequiredMonthlySavings float64 `json:"requiredMonthlySavings"`
	CurrentMonthlySavings  float64 `json:"currentMonthlySavings"`
	// PredictedCompletionDate is null for achieved goals.
	PredictedCompletionDate *string `json:"predictedCompletionDate"`
	Status                  string  `json:"status"`
	Message                 string  `json:"message"`
}

// getGoalPredictionsHandler() projects when each goal will be reached at the trailing
// three-month savings rate.
func (app *application) getGoalPredictionsHandler(w http.ResponseWriter, r *http.Request) {
	snapshot, err := app.loadSnapshot(r, app.contextGetUser(r).ID, snapshotParts{goals: true})
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}
	report := analytics.ForecastGoals(snapshot.Goals, snapshot.Transactions, analytics.NewDateWindow(app.clock()))

	goals := make([]goalPrediction, 0, len(report.Goals))
	for _, g := range report.Goals {
		prediction := goalPrediction{
			Name:                   g.Goal.Name,
			Target:                 money(g.Goal.TargetAmount),
			Saved:                  money(g.Goal.SavedAmount),
			Remaining:              money(g.Remaining),
			Progress:               money(g.Progress),
			Deadline:               formatDate(g.Goal.Deadline),
			MonthsRemaining:        g.MonthsRemaining,
			RequiredMonthlySavings: money(g.RequiredMonthlySavings),
			CurrentMonthlySavings:  money(g.CurrentMonthlySavings),
			Status:                 string(g.Status),
			Message:                g.Message,
		}
		if g.Status != analytics.GoalStatusAchieved {
			date := unknownDate
			if g.PredictedCompletion != nil {
				date = g.PredictedCompletion.Format(data.DateLayout)
			}
			prediction.PredictedCompletionDate = &date
		}
		goals = append(goals, prediction)
	}
	err = app.writeJSON(w, http.StatusOK, envelope{
		"goals": goals,
		"summary": map[string]any{
			"totalGoals":        report.TotalGoals,
			"achieved":          report.Achieved,
			"onTrack":           report.OnTrack,
			"behind":            report.Behind,
			"avgMonthlySavings": money(report.AvgMonthlySavings),
		},
	}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// projection writes an optional projection, falling back to noProjection.
func projection(d *decimal.Decimal) float64 {
	if d == nil {
		return noProjection
	}
	return money(*d)
}
