package data

import (
	"context"
	"errors"
	"time"

	"github.com/Blue-Davinci/WealthWise/internal/validator"
	"github.com/shopspring/decimal"
)

type BudgetModel struct {
	Store DocumentStore
}

const DefaultBudgetDBContextTimeout = 5 * time.Second

type BudgetPeriod string

const (
	BudgetPeriodWeekly  BudgetPeriod = "Weekly"
	BudgetPeriodMonthly BudgetPeriod = "Monthly"
	BudgetPeriodYearly  BudgetPeriod = "Yearly"
)

type Budget struct {
	ID        string          `json:"id"`
	UserID    string          `json:"user_id"`
	Category  string          `json:"category"`
	Limit     decimal.Decimal `json:"limit"`
	Period    BudgetPeriod    `json:"period"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// EnrichedBudget is a budget with its live spend over the current period.
type EnrichedBudget struct {
	*Budget
	Spent      decimal.Decimal `json:"spent"`
	Remaining  decimal.Decimal `json:"remaining"`
	Percentage decimal.Decimal `json:"percentage"`
}

func (b *Budget) Prepare() {
	b.Category = NormalizeCategory(b.Category)
	if b.Period == "" {
		b.Period = BudgetPeriodMonthly
	}
}

func ValidateBudget(v *validator.Validator, b *Budget) {
	v.Check(b.Category != "", "category", "must be provided")
	v.Check(len(b.Category) <= 50, "category", "must not be more than 50 characters")
	v.Check(b.Limit.IsPositive(), "limit", "must be greater than zero")
	v.Check(b.Limit.LessThanOrEqual(decimal.NewFromInt(999_999_999)), "limit", "must not exceed 999,999,999")
	v.Check(validator.PermittedValue(b.Period, BudgetPeriodWeekly, BudgetPeriodMonthly, BudgetPeriodYearly), "period", "must be one of Weekly, Monthly, Yearly")
}

// Insert saves a new budget. Only one budget per category is allowed.
func (m BudgetModel) Insert(ctx context.Context, b *Budget) error {
	ctx, cancel := contextGenerator(ctx, DefaultBudgetDBContextTimeout)
	defer cancel()
	if err := m.ensureUniqueCategory(ctx, b); err != nil {
		return err
	}
	now := time.Now().UTC()
	b.ID = newID()
	b.CreatedAt = now
	b.UpdatedAt = now
	doc, err := toDocument(b)
	if err != nil {
		return err
	}
	return duplicateCategory(m.Store.Insert(ctx, CollectionBudgets, b.ID, doc))
}

func (m BudgetModel) Get(ctx context.Context, userID, id string) (*Budget, error) {
	ctx, cancel := contextGenerator(ctx, DefaultBudgetDBContextTimeout)
	defer cancel()
	return getOwned[Budget](ctx, m.Store, CollectionBudgets, id, userID)
}

func (m BudgetModel) Update(ctx context.Context, b *Budget) error {
	ctx, cancel := contextGenerator(ctx, DefaultBudgetDBContextTimeout)
	defer cancel()
	if err := m.ensureUniqueCategory(ctx, b); err != nil {
		return err
	}
	b.UpdatedAt = time.Now().UTC()
	doc, err := toDocument(b)
	if err != nil {
		return err
	}
	return duplicateCategory(m.Store.Replace(ctx, CollectionBudgets, b.ID, doc))
}

func (m BudgetModel) Delete(ctx context.Context, userID, id string) error {
	ctx, cancel := contextGenerator(ctx, DefaultBudgetDBContextTimeout)
	defer cancel()
	if _, err := getOwned[Budget](ctx, m.Store, CollectionBudgets, id, userID); err != nil {
		return err
	}
	return m.Store.Delete(ctx, CollectionBudgets, id)
}

func (m BudgetModel) GetAllForUser(ctx context.Context, userID string) ([]*Budget, error) {
	ctx, cancel := contextGenerator(ctx, DefaultBudgetDBContextTimeout)
	defer cancel()
	return findAll[Budget](ctx, m.Store, CollectionBudgets, ByUser(userID))
}

// ensureUniqueCategory rejects b when another budget of the same user
// already covers its category. The check and the write are not atomic;
// PostgresStore backs it with a unique index, the other stores do not.
func (m BudgetModel) ensureUniqueCategory(ctx context.Context, b *Budget) error {
	existing, err := findAll[Budget](ctx, m.Store, CollectionBudgets, ByUser(b.UserID))
	if err != nil {
		return err
	}
	for _, other := range existing {
		if other.ID != b.ID && NormalizeCategory(other.Category) == NormalizeCategory(b.Category) {
			return ErrDuplicateBudgetCategory
		}
	}
	return nil
}

// duplicateCategory reports a store-level unique violation on a budget as
// the category clash it is.
func duplicateCategory(err error) error {
	if errors.Is(err, ErrDuplicateRecord) {
		return ErrDuplicateBudgetCategory
	}
	return err
}
