package main

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthcheck(t *testing.T) {
	app := newTestApplication(t)
	ts := newTestServer(t, app.routes())

	code, body := ts.doJSON(t, http.MethodGet, "/v1/healthcheck", "", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "available", body["status"])
	info := body["system_info"].(map[string]any)
	assert.Equal(t, "testing", info["environment"])
	assert.Equal(t, "INR", info["base_currency"])
}

func TestRegisterLoginLogout(t *testing.T) {
	app := newTestApplication(t)
	ts := newTestServer(t, app.routes())

	code, body := ts.doJSON(t, http.MethodPost, "/v1/users", "", map[string]any{
		"name": "Asha", "email": "asha@example.com", "password": "pa55word1234",
	})
	require.Equal(t, http.StatusCreated, code, body)
	user := body["user"].(map[string]any)
	assert.Equal(t, "asha@example.com", user["email"])
	assert.Equal(t, true, user["activated"])
	assert.NotContains(t, user, "password")

	code, body = ts.doJSON(t, http.MethodPost, "/v1/users", "", map[string]any{
		"name": "Asha Again", "email": "asha@example.com", "password": "pa55word1234",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	assert.Contains(t, body["error"], "email")

	code, _ = ts.doJSON(t, http.MethodPost, "/v1/api/authentication", "", map[string]any{
		"email": "asha@example.com", "password": "wrong-password",
	})
	assert.Equal(t, http.StatusUnauthorized, code)

	code, body = ts.doJSON(t, http.MethodPost, "/v1/api/authentication", "", map[string]any{
		"email": "asha@example.com", "password": "pa55word1234",
	})
	require.Equal(t, http.StatusCreated, code, body)
	token := body["api_key"].(map[string]any)["token"].(string)
	require.Len(t, token, 26)

	code, _ = ts.doJSON(t, http.MethodGet, "/v1/goals", token, nil)
	assert.Equal(t, http.StatusOK, code)

	code, body = ts.doJSON(t, http.MethodDelete, "/v1/api/authentication", token, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "you have been logged out", body["message"])

	code, _ = ts.doJSON(t, http.MethodGet, "/v1/goals", token, nil)
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestAuthentication_unknownEmail(t *testing.T) {
	app := newTestApplication(t)
	ts := newTestServer(t, app.routes())

	code, _ := ts.doJSON(t, http.MethodPost, "/v1/api/authentication", "", map[string]any{
		"email": "nobody@example.com", "password": "pa55word1234",
	})
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestProtectedRoutes_rejectBadTokens(t *testing.T) {
	app := newTestApplication(t)
	ts := newTestServer(t, app.routes())

	tests := []struct {
		name  string
		token string
	}{
		{name: "malformed", token: "short"},
		{name: "unknown", token: "ABCDEFGHIJKLMNOPQRSTUVWXYZ"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, header, _ := ts.do(t, http.MethodGet, "/v1/transactions", tt.token, nil)
			assert.Equal(t, http.StatusUnauthorized, code)
			assert.Equal(t, "Bearer", header.Get("WWW-Authenticate"))
		})
	}

	code, _, _ := ts.do(t, http.MethodGet, "/v1/transactions", "", nil)
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestRouting_notFoundAndMethodNotAllowed(t *testing.T) {
	app := newTestApplication(t)
	ts := newTestServer(t, app.routes())

	code, body := ts.doJSON(t, http.MethodGet, "/v1/nowhere", "", nil)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "the requested resource could not be found", body["error"])

	code, _ = ts.doJSON(t, http.MethodPut, "/v1/healthcheck", "", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, code)
}
