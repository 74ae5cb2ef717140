package main

import (
	"net/http"
	"testing"

	"github.com/Blue-Davinci/WealthWise/internal/data"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBudgets(t *testing.T) {
	app := newTestApplication(t)
	ts := newTestServer(t, app.routes())
	user, token := createTestUser(t, app, "budgets@example.com")
	seedTransaction(t, app, user.ID, data.TransactionTypeExpense, 750, "Food", day(2025, 4, 4))
	seedTransaction(t, app, user.ID, data.TransactionTypeExpense, 400, "Food", day(2025, 3, 20))

	code, body := ts.doJSON(t, http.MethodPost, "/v1/budgets", token, map[string]any{"category": "food", "limit": 3000})
	require.Equal(t, http.StatusCreated, code, body)
	budget := body["budget"].(map[string]any)
	id := budget["id"].(string)
	assert.Equal(t, "Food", budget["category"])
	assert.Equal(t, "Monthly", budget["period"])

	code, body = ts.doJSON(t, http.MethodPost, "/v1/budgets", token, map[string]any{"category": "FOOD", "limit": 100})
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, data.ErrDuplicateBudgetCategory.Error(), body["error"])

	code, body = ts.doJSON(t, http.MethodGet, "/v1/budgets", token, nil)
	require.Equal(t, http.StatusOK, code)
	budgets := body["budgets"].([]any)
	require.Len(t, budgets, 1)
	listed := budgets[0].(map[string]any)
	assert.Equal(t, "750", listed["spent"], "only the current period counts")
	assert.Equal(t, "2250", listed["remaining"])
	assert.Equal(t, "25", listed["percentage"])

	code, body = ts.doJSON(t, http.MethodPatch, "/v1/budgets/"+id, token, map[string]any{"period": "Fortnightly"})
	assert.Equal(t, http.StatusUnprocessableEntity, code, body)

	code, body = ts.doJSON(t, http.MethodPatch, "/v1/budgets/"+id, token, map[string]any{"limit": "1500", "period": "Weekly"})
	require.Equal(t, http.StatusOK, code, body)
	assert.Equal(t, "1500", body["budget"].(map[string]any)["limit"])

	code, _ = ts.doJSON(t, http.MethodDelete, "/v1/budgets/"+id, token, nil)
	assert.Equal(t, http.StatusOK, code)
	code, _ = ts.doJSON(t, http.MethodDelete, "/v1/budgets/"+id, token, nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestGoals(t *testing.T) {
	app := newTestApplication(t)
	ts := newTestServer(t, app.routes())
	_, token := createTestUser(t, app, "goalcrud@example.com")

	code, body := ts.doJSON(t, http.MethodPost, "/v1/goals", token, map[string]any{
		"name":          "Holiday",
		"target_amount": 2000,
		"saved_amount":  500,
		"deadline":      "2025-12-01",
	})
	require.Equal(t, http.StatusCreated, code, body)
	goal := body["goal"].(map[string]any)
	id := goal["id"].(string)
	assert.Equal(t, "25", goal["progress"])
	assert.Equal(t, "1500", goal["remaining"])
	assert.Equal(t, data.DefaultGoalColor, goal["color"])
	assert.Equal(t, "medium", goal["priority"])
	assert.Equal(t, "2025-12-01", goal["deadline"])
	assert.Equal(t, false, goal["is_achieved"])

	code, body = ts.doJSON(t, http.MethodPost, "/v1/goals/"+id+"/contributions", token, map[string]any{"amount": 1500})
	require.Equal(t, http.StatusOK, code, body)
	goal = body["goal"].(map[string]any)
	assert.Equal(t, "2000", goal["saved_amount"])
	assert.Equal(t, true, goal["is_achieved"])

	code, _ = ts.doJSON(t, http.MethodPost, "/v1/goals/"+id+"/contributions", token, map[string]any{"amount": -5})
	assert.Equal(t, http.StatusUnprocessableEntity, code)

	code, body = ts.doJSON(t, http.MethodPatch, "/v1/goals/"+id, token, map[string]any{"color": "blue"})
	assert.Equal(t, http.StatusUnprocessableEntity, code, body)

	code, body = ts.doJSON(t, http.MethodPatch, "/v1/goals/"+id, token, map[string]any{"target_amount": 4000, "priority": "high"})
	require.Equal(t, http.StatusOK, code, body)
	goal = body["goal"].(map[string]any)
	assert.Equal(t, "50", goal["progress"])
	assert.Equal(t, "high", goal["priority"])

	code, body = ts.doJSON(t, http.MethodGet, "/v1/goals", token, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, body["goals"], 1)

	code, _ = ts.doJSON(t, http.MethodDelete, "/v1/goals/"+id, token, nil)
	assert.Equal(t, http.StatusOK, code)
	code, _ = ts.doJSON(t, http.MethodPost, "/v1/goals/"+id+"/contributions", token, map[string]any{"amount": 1})
	assert.Equal(t, http.StatusNotFound, code)
}

func TestInvestments(t *testing.T) {
	app := newTestApplication(t)
	ts := newTestServer(t, app.routes())
	_, token := createTestUser(t, app, "investor@example.com")

	code, body := ts.doJSON(t, http.MethodPost, "/v1/investments", token, map[string]any{
		"name":          "Apple",
		"ticker":        "aapl",
		"category":      "Stocks",
		"quantity":      10,
		"buy_price":     150,
		"current_price": 180,
		"exchange":      "nasdaq",
		"currency":      "usd",
	})
	require.Equal(t, http.StatusCreated, code, body)
	investment := body["investment"].(map[string]any)
	id := investment["id"].(string)
	assert.Equal(t, "AAPL", investment["ticker"])
	assert.Equal(t, "USD", investment["currency"])
	assert.Equal(t, "1500", investment["cost"])
	assert.Equal(t, "1800", investment["value"])
	assert.Equal(t, "300", investment["profit_loss"])

	code, body = ts.doJSON(t, http.MethodPost, "/v1/investments", token, map[string]any{
		"name": "Gold", "ticker": "GLD", "category": "Commodities", "quantity": 1, "buy_price": 100, "current_price": 90,
	})
	require.Equal(t, http.StatusCreated, code, body)
	assert.Equal(t, "INR", body["investment"].(map[string]any)["currency"], "missing currency means the base currency")

	code, body = ts.doJSON(t, http.MethodPatch, "/v1/investments/"+id, token, map[string]any{"current_price": 120})
	require.Equal(t, http.StatusOK, code, body)
	assert.Equal(t, "-300", body["investment"].(map[string]any)["profit_loss"])

	code, body = ts.doJSON(t, http.MethodGet, "/v1/investments", token, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, body["investments"], 2)

	// Live rates are not configured so USD converts at the fallback rate.
	code, body = ts.doJSON(t, http.MethodGet, "/v1/analytics/health-score", token, nil)
	require.Equal(t, http.StatusOK, code)
	metrics := body["investmentMetrics"].(map[string]any)
	assert.Equal(t, float64(1500*91.5+100), metrics["totalInvested"])
	assert.ElementsMatch(t, []any{"Stocks", "Commodities"}, metrics["typesList"])

	code, _ = ts.doJSON(t, http.MethodDelete, "/v1/investments/"+id, token, nil)
	assert.Equal(t, http.StatusOK, code)
	code, _ = ts.doJSON(t, http.MethodPatch, "/v1/investments/"+id, token, map[string]any{"name": "gone"})
	assert.Equal(t, http.StatusNotFound, code)
}
