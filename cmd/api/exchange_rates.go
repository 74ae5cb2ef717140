package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/Blue-Davinci/WealthWise/internal/analytics"
	"github.com/Blue-Davinci/WealthWise/internal/data"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// loadRates returns the multipliers converting investment currencies into
// the base currency. Rates come from Redis when cached, then from the
// exchange-rate API, and finally from the configured fallback.
func (app *application) loadRates(ctx context.Context) analytics.Rates {
	if app.config.api.apikeys.exchangerates.key == "" {
		return app.fallbackRates()
	}
	if app.RedisDB != nil {
		cached, err := app.getCurrenciesFromRedis(ctx)
		switch {
		case err == nil:
			return app.withBase(cached.ToBaseMultipliers())
		case !errors.Is(err, data.ErrFailedToGetCurrency):
			app.logger.Warn("reading cached currency rates", zap.Error(err))
		}
	}
	rates, err := app.getAndSaveAvailableCurrencies(ctx)
	if err != nil {
		app.logger.Warn("using fallback currency rates", zap.Error(err))
		return app.fallbackRates()
	}
	return app.withBase(rates.ToBaseMultipliers())
}

// fallbackRates knows only the configured USD rate. Every other currency
// converts at 1.
func (app *application) fallbackRates() analytics.Rates {
	rates := analytics.Rates{}
	if !strings.EqualFold(app.config.api.defaultcurrency, "USD") && app.config.fx.fallbackUSDRate > 0 {
		rates["USD"] = decimal.NewFromFloat(app.config.fx.fallbackUSDRate)
	}
	return app.withBase(rates)
}

func (app *application) withBase(rates map[string]decimal.Decimal) analytics.Rates {
	out := analytics.Rates(rates)
	out[strings.ToUpper(app.config.api.defaultcurrency)] = decimal.NewFromInt(1)
	return out
}

// getAndSaveAvailableCurrencies() gets the available currencies from the exchange rate API
// and caches them in Redis when it is enabled.
func (app *application) getAndSaveAvailableCurrencies(ctx context.Context) (data.CurrencyRates, error) {
	url := fmt.Sprintf("%s/%s/latest/%s", app.config.api.apikeys.exchangerates.url,
		app.config.api.apikeys.exchangerates.key, strings.ToUpper(app.config.api.defaultcurrency))
	currencies, err := GETRequest[data.CurrencyRates](ctx, app.http_client, url, nil)
	if err != nil {
		return data.CurrencyRates{}, err
	}
	if currencies.Result != "" && currencies.Result != "success" {
		return data.CurrencyRates{}, fmt.Errorf("%w: upstream result %q", data.ErrFailedToGetCurrency, currencies.Result)
	}
	if len(currencies.ConversionRates) == 0 {
		return data.CurrencyRates{}, data.ErrFailedToGetCurrency
	}
	if app.RedisDB != nil {
		if err := app.saveCurrenciesToRedis(ctx, currencies); err != nil {
			app.logger.Warn("caching currency rates", zap.Error(err))
		}
	}
	return currencies, nil
}

// saveCurrenciesToRedis() saves the quoted rates in one hash, keyed by currency,
// and lets the hash expire after APIExchangeCacheTTL.
func (app *application) saveCurrenciesToRedis(ctx context.Context, rates data.CurrencyRates) error {
	values := make(map[string]any, len(rates.ConversionRates))
	for currency, rate := range rates.ConversionRates {
		values[strings.ToUpper(currency)] = strconv.FormatFloat(rate, 'f', -1, 64)
	}
	pipe := app.RedisDB.TxPipeline()
	pipe.HSet(ctx, data.RedisCurrencyRatesKey, values)
	pipe.Expire(ctx, data.RedisCurrencyRatesKey, data.APIExchangeCacheTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("%w: %v", data.ErrFailedToSaveRecordToRedis, err)
	}
	return nil
}

// getCurrenciesFromRedis() reads the cached hash back. An empty hash, or no
// Redis at all, is reported as ErrFailedToGetCurrency.
func (app *application) getCurrenciesFromRedis(ctx context.Context) (data.CurrencyRates, error) {
	if app.RedisDB == nil {
		return data.CurrencyRates{}, data.ErrFailedToGetCurrency
	}
	values, err := app.RedisDB.HGetAll(ctx, data.RedisCurrencyRatesKey).Result()
	if err != nil {
		return data.CurrencyRates{}, err
	}
	if len(values) == 0 {
		return data.CurrencyRates{}, data.ErrFailedToGetCurrency
	}
	rates := data.CurrencyRates{
		BaseCode:        strings.ToUpper(app.config.api.defaultcurrency),
		ConversionRates: make(map[string]float64, len(values)),
	}
	for currency, raw := range values {
		rate, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			continue
		}
		rates.ConversionRates[currency] = rate
	}
	return rates, nil
}

// verifyCurrencyInRedis() checks if a currency exists in REDIS.
func (app *application) verifyCurrencyInRedis(ctx context.Context, currency string) error {
	exists, err := app.RedisDB.HExists(ctx, data.RedisCurrencyRatesKey, strings.ToUpper(currency)).Result()
	if err != nil {
		return err
	}
	if !exists {
		return data.ErrFailedToGetCurrency
	}
	app.logger.Info("Currency exists in Redis", zap.String("currency", currency))
	return nil
}
