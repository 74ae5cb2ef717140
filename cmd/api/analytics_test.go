package main

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Blue-Davinci/WealthWise/internal/data"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestHealthScore_incomeOnly(t *testing.T) {
	app := newTestApplication(t)
	ts := newTestServer(t, app.routes())
	user, token := createTestUser(t, app, "health@example.com")
	seedTransaction(t, app, user.ID, data.TransactionTypeIncome, 50000, "Salary", day(2025, 4, 3))

	code, body := ts.doJSON(t, http.MethodGet, "/v1/analytics/health-score", token, nil)
	require.Equal(t, http.StatusOK, code)

	assert.Equal(t, float64(25), body["score"])
	breakdown := body["breakdown"].(map[string]any)
	assert.Equal(t, float64(25), breakdown["savings"])
	assert.Equal(t, float64(0), breakdown["budget"])
	assert.Equal(t, float64(0), breakdown["goals"])
	assert.Equal(t, float64(0), breakdown["investments"])

	metrics := body["metrics"].(map[string]any)
	assert.Equal(t, float64(100), metrics["savingsRate"])
	assert.Equal(t, float64(50000), metrics["monthlyIncome"])
	assert.Equal(t, float64(15), metrics["daysElapsed"])
	assert.Equal(t, float64(15), metrics["daysRemaining"])

	investment := body["investmentMetrics"].(map[string]any)
	assert.Equal(t, []any{}, investment["typesList"])
}

func TestHealthScore_noData(t *testing.T) {
	app := newTestApplication(t)
	ts := newTestServer(t, app.routes())
	_, token := createTestUser(t, app, "empty@example.com")

	code, body := ts.doJSON(t, http.MethodGet, "/v1/analytics/health-score", token, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, float64(0), body["score"])
}

func TestInsights(t *testing.T) {
	app := newTestApplication(t)
	ts := newTestServer(t, app.routes())
	user, token := createTestUser(t, app, "insights@example.com")
	seedTransaction(t, app, user.ID, data.TransactionTypeIncome, 50000, "Salary", day(2025, 4, 1))
	seedTransaction(t, app, user.ID, data.TransactionTypeExpense, 2000, "Food", day(2025, 4, 5))

	code, body := ts.doJSON(t, http.MethodGet, "/v1/analytics/insights", token, nil)
	require.Equal(t, http.StatusOK, code)
	insights, ok := body["insights"].([]any)
	require.True(t, ok, "insights must be a list")
	assert.LessOrEqual(t, len(insights), 6)
	assert.GreaterOrEqual(t, body["totalInsights"].(float64), float64(len(insights)))
}

func TestSpendingPatterns(t *testing.T) {
	app := newTestApplication(t)
	ts := newTestServer(t, app.routes())
	user, token := createTestUser(t, app, "patterns@example.com")
	seedTransaction(t, app, user.ID, data.TransactionTypeExpense, 300, "Food", day(2025, 4, 2))
	seedTransaction(t, app, user.ID, data.TransactionTypeExpense, 200, "Food", day(2025, 3, 2))

	code, body := ts.doJSON(t, http.MethodGet, "/v1/analytics/patterns", token, nil)
	require.Equal(t, http.StatusOK, code)

	comparison := body["categoryComparison"].([]any)
	require.Len(t, comparison, 1)
	food := comparison[0].(map[string]any)
	assert.Equal(t, "Food", food["category"])
	assert.Equal(t, float64(300), food["currentMonth"])
	assert.Equal(t, float64(200), food["lastMonth"])
	assert.Equal(t, float64(50), food["changeVsLast"])

	totals := body["totals"].(map[string]any)
	assert.Equal(t, float64(300), totals["currentMonth"])
	assert.Equal(t, float64(200), totals["lastMonth"])
}

func TestBudgetBurnRate_spendingTooFast(t *testing.T) {
	app := newTestApplication(t)
	ts := newTestServer(t, app.routes())
	user, token := createTestUser(t, app, "burn@example.com")
	require.NoError(t, app.models.Budgets.Insert(context.Background(), &data.Budget{
		UserID: user.ID, Category: "Food", Limit: decimal.NewFromInt(3000), Period: data.BudgetPeriodMonthly,
	}))
	seedTransaction(t, app, user.ID, data.TransactionTypeExpense, 2000, "Food", day(2025, 4, 5))

	code, body := ts.doJSON(t, http.MethodGet, "/v1/predictions/budget-burnrate", token, nil)
	require.Equal(t, http.StatusOK, code)

	budgets := body["budgets"].([]any)
	require.Len(t, budgets, 1)
	food := budgets[0].(map[string]any)
	assert.Equal(t, "danger", food["status"])
	assert.Equal(t, float64(1500), food["expectedSpend"])
	assert.Equal(t, -33.33, food["performance"])
	assert.Equal(t, 7.5, food["daysUntilExhausted"])
	assert.Contains(t, food["message"], "Spending too fast")

	summary := body["summary"].(map[string]any)
	assert.Equal(t, float64(1), summary["totalBudgets"])
	assert.Equal(t, float64(1), summary["atRisk"])
	assert.Equal(t, float64(15), summary["daysElapsed"])
}

func TestBudgetBurnRate_nothingSpent(t *testing.T) {
	app := newTestApplication(t)
	ts := newTestServer(t, app.routes())
	user, token := createTestUser(t, app, "idle@example.com")
	require.NoError(t, app.models.Budgets.Insert(context.Background(), &data.Budget{
		UserID: user.ID, Category: "Gifts", Limit: decimal.NewFromInt(500), Period: data.BudgetPeriodMonthly,
	}))

	code, body := ts.doJSON(t, http.MethodGet, "/v1/predictions/budget-burnrate", token, nil)
	require.Equal(t, http.StatusOK, code)
	gifts := body["budgets"].([]any)[0].(map[string]any)
	assert.Equal(t, float64(noProjection), gifts["daysUntilExhausted"])
}

func TestGoalPredictions(t *testing.T) {
	app := newTestApplication(t)
	ts := newTestServer(t, app.routes())
	user, token := createTestUser(t, app, "goals@example.com")
	ctx := context.Background()
	require.NoError(t, app.models.Goals.Insert(ctx, &data.Goal{
		UserID: user.ID, Name: "Emergency Fund", TargetAmount: decimal.NewFromInt(100000), SavedAmount: decimal.NewFromInt(100000),
		Deadline: data.DateOnly{Time: day(2025, 12, 31)}, Priority: data.GoalPriorityHigh,
	}))
	require.NoError(t, app.models.Goals.Insert(ctx, &data.Goal{
		UserID: user.ID, Name: "Car", TargetAmount: decimal.NewFromInt(50000),
		Deadline: data.DateOnly{Time: day(2026, 4, 15)}, Priority: data.GoalPriorityLow,
	}))

	code, body := ts.doJSON(t, http.MethodGet, "/v1/predictions/goals", token, nil)
	require.Equal(t, http.StatusOK, code)

	goals := body["goals"].([]any)
	require.Len(t, goals, 2)
	byName := map[string]map[string]any{}
	for _, g := range goals {
		goal := g.(map[string]any)
		byName[goal["name"].(string)] = goal
	}

	fund := byName["Emergency Fund"]
	assert.Equal(t, "achieved", fund["status"])
	assert.Equal(t, float64(100), fund["progress"])
	assert.Nil(t, fund["predictedCompletionDate"])

	car := byName["Car"]
	assert.Equal(t, "behind", car["status"])
	assert.Equal(t, unknownDate, car["predictedCompletionDate"])
	assert.Equal(t, "2026-04-15", car["deadline"])

	summary := body["summary"].(map[string]any)
	assert.Equal(t, float64(2), summary["totalGoals"])
	assert.Equal(t, float64(1), summary["achieved"])
	assert.Equal(t, float64(1), summary["behind"])
}

func TestCashflowPrediction(t *testing.T) {
	app := newTestApplication(t)
	ts := newTestServer(t, app.routes())
	user, token := createTestUser(t, app, "cashflow@example.com")
	seedTransaction(t, app, user.ID, data.TransactionTypeIncome, 30000, "Salary", day(2025, 4, 1))
	seedTransaction(t, app, user.ID, data.TransactionTypeExpense, 1500, "Food", day(2025, 4, 10))

	code, body := ts.doJSON(t, http.MethodGet, "/v1/predictions/cashflow", token, nil)
	require.Equal(t, http.StatusOK, code)

	current := body["current"].(map[string]any)
	assert.Equal(t, float64(28500), current["balance"])
	assert.Equal(t, float64(1500), current["monthExpenses"])

	predictions := body["predictions"].(map[string]any)
	assert.Equal(t, float64(100), predictions["dailyAvgSpending"])
	assert.Equal(t, float64(15), predictions["daysRemaining"])
	assert.Equal(t, float64(27000), predictions["predictedEndBalance"])

	var dates, labels []string
	for _, p := range body["timeline"].([]any) {
		point := p.(map[string]any)
		dates = append(dates, point["date"].(string))
		labels = append(labels, point["label"].(string))
	}
	assert.Equal(t, []string{"2025-04-15", "2025-04-22", "2025-04-29", "2025-04-30"}, dates)
	assert.Equal(t, []string{"Today", "1 Week", "2 Weeks", "Month End"}, labels)
}

func TestAnalytics_requireAuthentication(t *testing.T) {
	app := newTestApplication(t)
	ts := newTestServer(t, app.routes())

	paths := []string{
		"/v1/analytics/health-score",
		"/v1/analytics/insights",
		"/v1/analytics/patterns",
		"/v1/predictions/cashflow",
		"/v1/predictions/budget-burnrate",
		"/v1/predictions/goals",
	}
	for _, path := range paths {
		t.Run(path, func(t *testing.T) {
			code, _, _ := ts.do(t, http.MethodGet, path, "", nil)
			assert.Equal(t, http.StatusUnauthorized, code)
		})
	}
}

func TestHealthScore_storeFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := data.NewMockDocumentStore(ctrl)
	store.EXPECT().Find(gomock.Any(), data.CollectionTransactions, gomock.Any()).Return(nil, errors.New("connection reset"))

	app := newTestApplication(t)
	app.store = store
	app.models = data.NewModels(store)

	req := httptest.NewRequest(http.MethodGet, "/v1/analytics/health-score", nil)
	req = app.contextSetUser(req, &data.User{ID: "u1", Activated: true})
	rr := httptest.NewRecorder()
	app.getHealthScoreHandler(rr, req)

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Contains(t, rr.Body.String(), "the server encountered a problem")
	assert.NotContains(t, rr.Body.String(), "connection reset")
}
