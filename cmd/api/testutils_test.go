package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Blue-Davinci/WealthWise/internal/data"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// testNow is mid-April so the month is split 15 days elapsed, 15 remaining.
var testNow = time.Date(2025, 4, 15, 12, 0, 0, 0, time.UTC)

func newTestApplication(t *testing.T) *application {
	t.Helper()
	var cfg config
	cfg.env = "testing"
	cfg.api.name = "WealthWise"
	cfg.api.defaultcurrency = "INR"
	cfg.fx.fallbackUSDRate = 91.5
	cfg.limiter.enabled = false
	cfg.limit.recurringTrackerBatchLimit = 100
	cfg.cors.trustedOrigins = []string{"http://localhost:5173"}

	store := data.NewMemoryStore()
	return &application{
		config:      cfg,
		logger:      zap.NewNop(),
		models:      data.NewModels(store),
		store:       store,
		http_client: NewClient(time.Second, 0),
		clock:       func() time.Time { return testNow },
	}
}

type testServer struct {
	*httptest.Server
}

func newTestServer(t *testing.T, h http.Handler) *testServer {
	ts := httptest.NewServer(h)
	t.Cleanup(ts.Close)
	return &testServer{ts}
}

// do sends a request with an optional JSON body and bearer token and returns
// the status code and raw body.
func (ts *testServer) do(t *testing.T, method, path, token string, body any) (int, http.Header, []byte) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		switch b := body.(type) {
		case string:
			reader = bytes.NewBufferString(b)
		default:
			js, err := json.Marshal(b)
			require.NoError(t, err)
			reader = bytes.NewReader(js)
		}
	}
	req, err := http.NewRequest(method, ts.URL+path, reader)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rs, err := ts.Client().Do(req)
	require.NoError(t, err)
	defer rs.Body.Close()
	raw, err := io.ReadAll(rs.Body)
	require.NoError(t, err)
	return rs.StatusCode, rs.Header, raw
}

// doJSON is do with the body decoded into a generic map.
func (ts *testServer) doJSON(t *testing.T, method, path, token string, body any) (int, map[string]any) {
	t.Helper()
	code, _, raw := ts.do(t, method, path, token, body)
	var out map[string]any
	require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	return code, out
}

// createTestUser stores an activated user and returns it with a fresh
// authentication token.
func createTestUser(t *testing.T, app *application, email string) (*data.User, string) {
	t.Helper()
	user := &data.User{Name: "Test User", Email: email, Activated: true}
	require.NoError(t, user.Password.Set("pa55word1234"))
	require.NoError(t, app.models.Users.Insert(context.Background(), user))
	token, err := app.models.Tokens.New(context.Background(), user.ID, data.DefaultTokenExpiryTime, data.ScopeAuthentication)
	require.NoError(t, err)
	return user, token.Plaintext
}

func seedTransaction(t *testing.T, app *application, userID string, typ data.TransactionType, amount float64, category string, on time.Time) *data.Transaction {
	t.Helper()
	tx := &data.Transaction{
		UserID:   userID,
		Title:    category + " entry",
		Type:     typ,
		Amount:   decimal.NewFromFloat(amount),
		Category: category,
		Date:     on,
	}
	tx.Prepare()
	require.NoError(t, app.models.Transactions.Insert(context.Background(), tx))
	return tx
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
