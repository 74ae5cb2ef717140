package main

import (
	"net/http"

	"github.com/Blue-Davinci/WealthWise/internal/analytics"
	"github.com/Blue-Davinci/WealthWise/internal/data"
)

//==============================================================================================================
// ANALYTICS HANDLERS
//==============================================================================================================

// snapshotParts selects which of a user's collections a handler needs.
type snapshotParts struct {
	budgets     bool
	goals       bool
	investments bool
}

// loadSnapshot() reads the records one analytics request works on. Transactions are
// always loaded. Any store failure aborts the whole request, so no partial analytics
// are ever computed.
func (app *application) loadSnapshot(r *http.Request, userID string, parts snapshotParts) (analytics.Snapshot, error) {
	var (
		s   analytics.Snapshot
		err error
	)
	ctx := r.Context()
	if s.Transactions, err = app.models.Transactions.GetAllForUser(ctx, userID); err != nil {
		return s, err
	}
	if parts.budgets {
		if s.Budgets, err = app.models.Budgets.GetAllForUser(ctx, userID); err != nil {
			return s, err
		}
	}
	if parts.goals {
		if s.Goals, err = app.models.Goals.GetAllForUser(ctx, userID); err != nil {
			return s, err
		}
	}
	if parts.investments {
		if s.Investments, err = app.models.Investments.GetAllForUser(ctx, userID); err != nil {
			return s, err
		}
		s.Rates = app.loadRates(ctx)
	}
	return s, nil
}

// getHealthScoreHandler() returns the 0-100 financial health score with its four
// sub-scores and the figures behind them.
func (app *application) getHealthScoreHandler(w http.ResponseWriter, r *http.Request) {
	snapshot, err := app.loadSnapshot(r, app.contextGetUser(r).ID, snapshotParts{budgets: true, goals: true, investments: true})
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}
	health := analytics.ComputeHealthScore(snapshot, analytics.NewDateWindow(app.clock()))

	typesList := health.Investment.TypesList
	if typesList == nil {
		typesList = []string{}
	}
	err = app.writeJSON(w, http.StatusOK, envelope{
		"score": health.Score,
		"breakdown": map[string]float64{
			"savings":     money(health.Breakdown.Savings),
			"budget":      money(health.Breakdown.Budget),
			"goals":       money(health.Breakdown.Goals),
			"investments": money(health.Breakdown.Investments),
		},
		"metrics": map[string]any{
			"savingsRate":     money(health.Metrics.SavingsRate),
			"monthlyIncome":   money(health.Metrics.MonthlyIncome),
			"monthlyExpenses": money(health.Metrics.MonthlyExpenses),
			"monthlySavings":  money(health.Metrics.MonthlySavings),
			"daysElapsed":     health.Metrics.DaysElapsed,
			"daysRemaining":   health.Metrics.DaysRemaining,
		},
		"investmentMetrics": map[string]any{
			"roi":                  money(health.Investment.ROI),
			"roiScore":             money(health.Investment.ROIScore),
			"diversificationScore": money(health.Investment.DiversificationScore),
			"types":                health.Investment.Types,
			"typesList":            typesList,
			"totalInvested":        money(health.Investment.TotalInvested),
			"totalCurrentValue":    money(health.Investment.TotalCurrentValue),
		},
	}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// getInsightsHandler() returns at most six rule-based insights along with how many rules fired.
func (app *application) getInsightsHandler(w http.ResponseWriter, r *http.Request) {
	snapshot, err := app.loadSnapshot(r, app.contextGetUser(r).ID, snapshotParts{budgets: true, investments: true})
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}
	report := analytics.GenerateInsights(snapshot, analytics.NewDateWindow(app.clock()))
	insights := report.Insights
	if insights == nil {
		insights = []analytics.Insight{}
	}
	err = app.writeJSON(w, http.StatusOK, envelope{"insights": insights, "totalInsights": report.Total}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

type categoryComparison struct {
	Category      string  `json:"category"`
	CurrentMonth  float64 `json:"currentMonth"`
	LastMonth     float64 `json:"lastMonth"`
	ThreeMonthAvg float64 `json:"threeMonthAvg"`
	ChangeVsLast  float64 `json:"changeVsLast"`
	ChangeVsAvg   float64 `json:"changeVsAvg"`
}

// getSpendingPatternsHandler() compares each category's spend this month with last month
// and the trailing three-month average.
func (app *application) getSpendingPatternsHandler(w http.ResponseWriter, r *http.Request) {
	snapshot, err := app.loadSnapshot(r, app.contextGetUser(r).ID, snapshotParts{})
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}
	report := analytics.SpendingPatterns(snapshot.Transactions, analytics.NewDateWindow(app.clock()))
	comparison := make([]categoryComparison, 0, len(report.Categories))
	for _, c := range report.Categories {
		comparison = append(comparison, categoryComparison{
			Category:      c.Category,
			CurrentMonth:  money(c.CurrentMonth),
			LastMonth:     money(c.LastMonth),
			ThreeMonthAvg: money(c.ThreeMonthAvg),
			ChangeVsLast:  money(c.ChangeVsLast),
			ChangeVsAvg:   money(c.ChangeVsAvg),
		})
	}
	err = app.writeJSON(w, http.StatusOK, envelope{
		"categoryComparison": comparison,
		"totals": map[string]float64{
			"currentMonth":      money(report.CurrentMonthTotal),
			"lastMonth":         money(report.LastMonthTotal),
			"threeMonthAverage": money(report.ThreeMonthAverage),
		},
	}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// formatDate renders a calendar date the way the data layer stores one.
func formatDate(d data.DateOnly) string {
	if d.IsZero() {
		return ""
	}
	return d.Format(data.DateLayout)
}
