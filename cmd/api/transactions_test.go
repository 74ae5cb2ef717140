package main

import (
	"context"
	"net/http"
	"testing"

	"github.com/Blue-Davinci/WealthWise/internal/data"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransactions_CRUD(t *testing.T) {
	app := newTestApplication(t)
	ts := newTestServer(t, app.routes())
	_, token := createTestUser(t, app, "crud@example.com")

	code, body := ts.doJSON(t, http.MethodPost, "/v1/transactions", token, map[string]any{
		"title":    "Groceries",
		"type":     "expense",
		"amount":   "45.50",
		"category": "  food ",
		"date":     "2025-04-10",
	})
	require.Equal(t, http.StatusCreated, code, body)
	created := body["transaction"].(map[string]any)
	id := created["id"].(string)
	require.NotEmpty(t, id)
	assert.Equal(t, "Food", created["category"])
	assert.Equal(t, "45.5", created["amount"])
	assert.Equal(t, "None", created["recurrence"])
	assert.Nil(t, created["next_date"])

	code, body = ts.doJSON(t, http.MethodGet, "/v1/transactions/"+id, token, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Groceries", body["transaction"].(map[string]any)["title"])

	code, body = ts.doJSON(t, http.MethodPatch, "/v1/transactions/"+id, token, map[string]any{"amount": 60, "title": "Weekly shop"})
	require.Equal(t, http.StatusOK, code, body)
	updated := body["transaction"].(map[string]any)
	assert.Equal(t, "60", updated["amount"])
	assert.Equal(t, "Weekly shop", updated["title"])
	assert.Equal(t, "Food", updated["category"])

	code, body = ts.doJSON(t, http.MethodDelete, "/v1/transactions/"+id, token, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "transaction deleted successfully", body["message"])

	code, _ = ts.doJSON(t, http.MethodGet, "/v1/transactions/"+id, token, nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestTransactions_createValidation(t *testing.T) {
	app := newTestApplication(t)
	ts := newTestServer(t, app.routes())
	_, token := createTestUser(t, app, "validate@example.com")

	tests := []struct {
		name      string
		body      any
		wantCode  int
		wantField string
	}{
		{
			name:      "missing title",
			body:      map[string]any{"type": "expense", "amount": 10, "date": "2025-04-10"},
			wantCode:  http.StatusUnprocessableEntity,
			wantField: "title",
		},
		{
			name:      "non positive amount",
			body:      map[string]any{"title": "x", "type": "expense", "amount": 0, "date": "2025-04-10"},
			wantCode:  http.StatusUnprocessableEntity,
			wantField: "amount",
		},
		{
			name:      "unknown type",
			body:      map[string]any{"title": "x", "type": "transfer", "amount": 10, "date": "2025-04-10"},
			wantCode:  http.StatusUnprocessableEntity,
			wantField: "type",
		},
		{
			name:      "bad recurrence",
			body:      map[string]any{"title": "x", "type": "income", "amount": 10, "date": "2025-04-10", "recurrence": "Hourly"},
			wantCode:  http.StatusUnprocessableEntity,
			wantField: "recurrence",
		},
		{
			name:     "unknown field",
			body:     map[string]any{"title": "x", "colour": "red"},
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "malformed json",
			body:     `{"title": "x",`,
			wantCode: http.StatusBadRequest,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, body := ts.doJSON(t, http.MethodPost, "/v1/transactions", token, tt.body)
			assert.Equal(t, tt.wantCode, code)
			if tt.wantField != "" {
				errs, ok := body["error"].(map[string]any)
				require.True(t, ok, body)
				assert.Contains(t, errs, tt.wantField)
			}
		})
	}
}

func TestTransactions_otherUsersRecordsAreHidden(t *testing.T) {
	app := newTestApplication(t)
	ts := newTestServer(t, app.routes())
	owner, _ := createTestUser(t, app, "owner@example.com")
	_, intruder := createTestUser(t, app, "intruder@example.com")
	tx := seedTransaction(t, app, owner.ID, data.TransactionTypeExpense, 100, "Food", day(2025, 4, 2))

	for _, method := range []string{http.MethodGet, http.MethodPatch, http.MethodDelete} {
		var body any
		if method == http.MethodPatch {
			body = map[string]any{"title": "mine now"}
		}
		code, _, _ := ts.do(t, method, "/v1/transactions/"+tx.ID, intruder, body)
		assert.Equal(t, http.StatusNotFound, code, method)
	}

	code, body := ts.doJSON(t, http.MethodGet, "/v1/transactions", intruder, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Empty(t, body["transactions"])
}

func TestTransactions_listFiltersAndPaginates(t *testing.T) {
	app := newTestApplication(t)
	ts := newTestServer(t, app.routes())
	user, token := createTestUser(t, app, "list@example.com")
	seedTransaction(t, app, user.ID, data.TransactionTypeIncome, 5000, "Salary", day(2025, 4, 1))
	seedTransaction(t, app, user.ID, data.TransactionTypeExpense, 300, "Food", day(2025, 4, 3))
	seedTransaction(t, app, user.ID, data.TransactionTypeExpense, 120, "Food", day(2025, 4, 8))
	seedTransaction(t, app, user.ID, data.TransactionTypeExpense, 900, "Rent", day(2025, 3, 28))

	code, body := ts.doJSON(t, http.MethodGet, "/v1/transactions?type=expense&category=food", token, nil)
	require.Equal(t, http.StatusOK, code)
	list := body["transactions"].([]any)
	require.Len(t, list, 2)
	assert.Equal(t, "120", list[0].(map[string]any)["amount"], "newest first by default")

	code, body = ts.doJSON(t, http.MethodGet, "/v1/transactions?start_date=2025-04-01&end_date=2025-04-08&sort=-amount", token, nil)
	require.Equal(t, http.StatusOK, code)
	list = body["transactions"].([]any)
	require.Len(t, list, 3)
	assert.Equal(t, "5000", list[0].(map[string]any)["amount"])

	code, body = ts.doJSON(t, http.MethodGet, "/v1/transactions?page=2&page_size=3", token, nil)
	require.Equal(t, http.StatusOK, code)
	require.Len(t, body["transactions"], 1)
	metadata := body["metadata"].(map[string]any)
	assert.Equal(t, float64(2), metadata["current_page"])
	assert.Equal(t, float64(2), metadata["last_page"])
	assert.Equal(t, float64(4), metadata["total_records"])
}

func TestTransactions_listValidation(t *testing.T) {
	app := newTestApplication(t)
	ts := newTestServer(t, app.routes())
	_, token := createTestUser(t, app, "badlist@example.com")

	for _, query := range []string{
		"?type=transfer",
		"?sort=title",
		"?page=0",
		"?start_date=2025-13-45",
		"?start_date=2025-04-10&end_date=2025-04-01",
	} {
		code, _, _ := ts.do(t, http.MethodGet, "/v1/transactions"+query, token, nil)
		assert.Equal(t, http.StatusUnprocessableEntity, code, query)
	}
}

func TestTransactions_listSpawnsDueRecurring(t *testing.T) {
	app := newTestApplication(t)
	ts := newTestServer(t, app.routes())
	user, token := createTestUser(t, app, "recurring@example.com")

	code, body := ts.doJSON(t, http.MethodPost, "/v1/transactions", token, map[string]any{
		"title":      "Rent",
		"type":       "expense",
		"amount":     1200,
		"category":   "Housing",
		"date":       "2025-02-10",
		"recurrence": "Monthly",
	})
	require.Equal(t, http.StatusCreated, code, body)
	assert.Contains(t, body["transaction"].(map[string]any)["next_date"], "2025-03-10")

	code, body = ts.doJSON(t, http.MethodGet, "/v1/transactions?sort=date", token, nil)
	require.Equal(t, http.StatusOK, code)
	list := body["transactions"].([]any)
	require.Len(t, list, 3)

	var recurringCount int
	for i, want := range []string{"2025-02-10", "2025-03-10", "2025-04-10"} {
		item := list[i].(map[string]any)
		assert.Contains(t, item["date"], want)
		if item["recurrence"] != "None" {
			recurringCount++
			assert.Contains(t, item["next_date"], "2025-05-10")
		}
	}
	assert.Equal(t, 1, recurringCount, "only the latest occurrence carries the series")

	// A second listing finds nothing new to spawn.
	all, err := app.models.Transactions.GetAllForUser(context.Background(), user.ID)
	require.NoError(t, err)
	code, _ = ts.doJSON(t, http.MethodGet, "/v1/transactions", token, nil)
	require.Equal(t, http.StatusOK, code)
	again, err := app.models.Transactions.GetAllForUser(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Len(t, again, len(all))
}

func TestTransactions_updateRecurrenceResetsNextDate(t *testing.T) {
	app := newTestApplication(t)
	ts := newTestServer(t, app.routes())
	user, token := createTestUser(t, app, "rescheduled@example.com")
	tx := seedTransaction(t, app, user.ID, data.TransactionTypeIncome, 100, "Salary", day(2025, 4, 20))

	code, body := ts.doJSON(t, http.MethodPatch, "/v1/transactions/"+tx.ID, token, map[string]any{"recurrence": "Weekly"})
	require.Equal(t, http.StatusOK, code, body)
	assert.Contains(t, body["transaction"].(map[string]any)["next_date"], "2025-04-27")

	code, body = ts.doJSON(t, http.MethodPatch, "/v1/transactions/"+tx.ID, token, map[string]any{"recurrence": "None"})
	require.Equal(t, http.StatusOK, code, body)
	assert.Nil(t, body["transaction"].(map[string]any)["next_date"])
}
