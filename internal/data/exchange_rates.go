package data

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	APIExchangeCacheTTL = 12 * time.Hour
)

const (
	RedisCurrencyRatesKey = "currency_rates"
)

// CurrencyRates represents the structure of the JSON response from the API on currencies.
// Each conversion rate is how many units of that currency one unit of BaseCode buys.
type CurrencyRates struct {
	Result          string             `json:"result"`
	Documentation   string             `json:"documentation"`
	TermsOfUse      string             `json:"terms_of_use"`
	TimeLastUpdate  int64              `json:"time_last_update_unix"`
	TimeNextUpdate  int64              `json:"time_next_update_unix"`
	BaseCode        string             `json:"base_code"`
	ConversionRates map[string]float64 `json:"conversion_rates"`
}

// ToBaseMultipliers inverts the quoted rates so that each currency maps to
// the factor converting one unit of it into BaseCode. Zero or negative
// quotes are skipped.
func (c CurrencyRates) ToBaseMultipliers() map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal, len(c.ConversionRates))
	for currency, rate := range c.ConversionRates {
		if rate <= 0 {
			continue
		}
		out[strings.ToUpper(currency)] = decimal.NewFromInt(1).DivRound(decimal.NewFromFloat(rate), 8)
	}
	return out
}
