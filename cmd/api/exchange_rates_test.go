package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Blue-Davinci/WealthWise/internal/data"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRatesUpstream(t *testing.T, status int, body string) *httptest.Server {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/test-key/latest/INR", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestLoadRates_fromUpstream(t *testing.T) {
	upstream := newRatesUpstream(t, http.StatusOK,
		`{"result":"success","base_code":"INR","conversion_rates":{"INR":1,"USD":0.0125,"EUR":0.01,"XXX":0}}`)
	app := newTestApplication(t)
	app.config.api.apikeys.exchangerates.key = "test-key"
	app.config.api.apikeys.exchangerates.url = upstream.URL

	rates := app.loadRates(context.Background())
	assert.True(t, rates["USD"].Equal(decimal.NewFromInt(80)), rates["USD"].String())
	assert.True(t, rates["EUR"].Equal(decimal.NewFromInt(100)))
	assert.True(t, rates["INR"].Equal(decimal.NewFromInt(1)))
	assert.NotContains(t, rates, "XXX", "zero quotes are skipped")
}

func TestLoadRates_fallbacks(t *testing.T) {
	tests := []struct {
		name     string
		key      string
		status   int
		body     string
		wantUSD  string
		currency string
	}{
		{name: "no api key", wantUSD: "91.5", currency: "INR"},
		{name: "upstream error", key: "test-key", status: http.StatusInternalServerError, body: `{}`, wantUSD: "91.5", currency: "INR"},
		{name: "upstream refused", key: "test-key", status: http.StatusOK, body: `{"result":"error","error-type":"invalid-key"}`, wantUSD: "91.5", currency: "INR"},
		{name: "empty rates", key: "test-key", status: http.StatusOK, body: `{"result":"success","conversion_rates":{}}`, wantUSD: "91.5", currency: "INR"},
		{name: "usd base", wantUSD: "1", currency: "USD"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newTestApplication(t)
			app.config.api.defaultcurrency = tt.currency
			if tt.key != "" {
				upstream := newRatesUpstream(t, tt.status, tt.body)
				app.config.api.apikeys.exchangerates.key = tt.key
				app.config.api.apikeys.exchangerates.url = upstream.URL
			}
			rates := app.loadRates(context.Background())
			require.Contains(t, rates, "USD")
			assert.Equal(t, tt.wantUSD, rates["USD"].String())
			assert.True(t, rates[tt.currency].Equal(decimal.NewFromInt(1)))
		})
	}
}

func TestGetAndSaveAvailableCurrencies_withoutRedis(t *testing.T) {
	upstream := newRatesUpstream(t, http.StatusOK, `{"result":"success","base_code":"INR","conversion_rates":{"USD":0.0125}}`)
	app := newTestApplication(t)
	app.config.api.apikeys.exchangerates.key = "test-key"
	app.config.api.apikeys.exchangerates.url = upstream.URL

	rates, err := app.getAndSaveAvailableCurrencies(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "INR", rates.BaseCode)
	assert.Equal(t, 0.0125, rates.ConversionRates["USD"])

	_, err = app.getCurrenciesFromRedis(context.Background())
	assert.ErrorIs(t, err, data.ErrFailedToGetCurrency)
}
