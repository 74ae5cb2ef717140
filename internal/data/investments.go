package data

import (
	"context"
	"strings"
	"time"

	"github.com/Blue-Davinci/WealthWise/internal/validator"
	"github.com/shopspring/decimal"
)

type InvestmentModel struct {
	Store DocumentStore
}

const DefaultInvestmentDBContextTimeout = 5 * time.Second

type Investment struct {
	ID           string          `json:"id"`
	UserID       string          `json:"user_id"`
	Name         string          `json:"name"`
	Ticker       string          `json:"ticker"`
	Category     string          `json:"category"`
	Quantity     decimal.Decimal `json:"quantity"`
	BuyPrice     decimal.Decimal `json:"buy_price"`
	CurrentPrice decimal.Decimal `json:"current_price"`
	Exchange     string          `json:"exchange"`
	Currency     string          `json:"currency"`
	Date         DateOnly        `json:"date"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// EnrichedInvestment carries the position's cost, value and profit.
type EnrichedInvestment struct {
	*Investment
	Cost       decimal.Decimal `json:"cost"`
	Value      decimal.Decimal `json:"value"`
	ProfitLoss decimal.Decimal `json:"profit_loss"`
}

func (i *Investment) Enrich() EnrichedInvestment {
	return EnrichedInvestment{Investment: i, Cost: i.Cost(), Value: i.Value(), ProfitLoss: i.ProfitLoss()}
}

// Cost is what the position was bought for.
func (i *Investment) Cost() decimal.Decimal {
	return i.Quantity.Mul(i.BuyPrice)
}

// Value is the position at its current price. A missing quote is read as
// the buy price.
func (i *Investment) Value() decimal.Decimal {
	price := i.CurrentPrice
	if !price.IsPositive() {
		price = i.BuyPrice
	}
	return i.Quantity.Mul(price)
}

func (i *Investment) ProfitLoss() decimal.Decimal {
	return i.Value().Sub(i.Cost())
}

// Prepare normalizes the position. An empty currency is taken to be
// baseCurrency.
func (i *Investment) Prepare(baseCurrency string) {
	i.Name = SanitizeText(i.Name)
	i.Ticker = strings.ToUpper(strings.TrimSpace(i.Ticker))
	i.Category = SanitizeText(i.Category)
	i.Exchange = strings.ToUpper(SanitizeText(i.Exchange))
	i.Currency = strings.ToUpper(strings.TrimSpace(i.Currency))
	if i.Currency == "" {
		i.Currency = strings.ToUpper(baseCurrency)
	}
}

func ValidateInvestment(v *validator.Validator, i *Investment) {
	v.Check(i.Name != "", "name", "must be provided")
	v.Check(len(i.Name) <= 100, "name", "must not be more than 100 characters")
	v.Check(i.Ticker != "", "ticker", "must be provided")
	v.Check(len(i.Ticker) <= 20, "ticker", "must not be more than 20 characters")
	v.Check(validator.Matches(i.Ticker, validator.TickerRX), "ticker", "must contain only letters, numbers, dots or dashes")
	v.Check(i.Category != "", "category", "must be provided")
	v.Check(i.Quantity.IsPositive(), "quantity", "must be greater than zero")
	v.Check(i.BuyPrice.IsPositive(), "buy_price", "must be greater than zero")
	v.Check(!i.CurrentPrice.IsNegative(), "current_price", "must not be negative")
	v.Check(validator.Matches(i.Currency, validator.CurrencyRX), "currency", "must be a 3 letter currency code")
}

func (m InvestmentModel) Insert(ctx context.Context, i *Investment) error {
	ctx, cancel := contextGenerator(ctx, DefaultInvestmentDBContextTimeout)
	defer cancel()
	now := time.Now().UTC()
	i.ID = newID()
	i.CreatedAt = now
	i.UpdatedAt = now
	if i.Date.IsZero() {
		i.Date = DateOnly{now.Truncate(24 * time.Hour)}
	}
	doc, err := toDocument(i)
	if err != nil {
		return err
	}
	return m.Store.Insert(ctx, CollectionInvestments, i.ID, doc)
}

func (m InvestmentModel) Get(ctx context.Context, userID, id string) (*Investment, error) {
	ctx, cancel := contextGenerator(ctx, DefaultInvestmentDBContextTimeout)
	defer cancel()
	return getOwned[Investment](ctx, m.Store, CollectionInvestments, id, userID)
}

func (m InvestmentModel) Update(ctx context.Context, i *Investment) error {
	ctx, cancel := contextGenerator(ctx, DefaultInvestmentDBContextTimeout)
	defer cancel()
	i.UpdatedAt = time.Now().UTC()
	doc, err := toDocument(i)
	if err != nil {
		return err
	}
	return m.Store.Replace(ctx, CollectionInvestments, i.ID, doc)
}

func (m InvestmentModel) Delete(ctx context.Context, userID, id string) error {
	ctx, cancel := contextGenerator(ctx, DefaultInvestmentDBContextTimeout)
	defer cancel()
	if _, err := getOwned[Investment](ctx, m.Store, CollectionInvestments, id, userID); err != nil {
		return err
	}
	return m.Store.Delete(ctx, CollectionInvestments, id)
}

func (m InvestmentModel) GetAllForUser(ctx context.Context, userID string) ([]*Investment, error) {
	ctx, cancel := contextGenerator(ctx, DefaultInvestmentDBContextTimeout)
	defer cancel()
	return findAll[Investment](ctx, m.Store, CollectionInvestments, ByUser(userID))
}
