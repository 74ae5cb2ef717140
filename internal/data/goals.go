package data

import (
	"context"
	"time"

	"github.com/Blue-Davinci/WealthWise/internal/validator"
	"github.com/shopspring/decimal"
)

type GoalModel struct {
	Store DocumentStore
}

const DefaultGoalDBContextTimeout = 5 * time.Second

type GoalPriority string

const (
	GoalPriorityLow    GoalPriority = "low"
	GoalPriorityMedium GoalPriority = "medium"
	GoalPriorityHigh   GoalPriority = "high"
)

// DefaultGoalColor is used when a goal is saved without a color.
const DefaultGoalColor = "#3B82F6"

var hundredPercent = decimal.NewFromInt(100)

type Goal struct {
	ID           string          `json:"id"`
	UserID       string          `json:"user_id"`
	Name         string          `json:"name"`
	TargetAmount decimal.Decimal `json:"target_amount"`
	SavedAmount  decimal.Decimal `json:"saved_amount"`
	Deadline     DateOnly        `json:"deadline"`
	Color        string          `json:"color"`
	Description  string          `json:"description"`
	Priority     GoalPriority    `json:"priority"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// EnrichedGoal carries the derived progress figures.
type EnrichedGoal struct {
	*Goal
	Progress   decimal.Decimal `json:"progress"`
	Remaining  decimal.Decimal `json:"remaining"`
	IsAchieved bool            `json:"is_achieved"`
}

func (g *Goal) Enrich() EnrichedGoal {
	return EnrichedGoal{Goal: g, Progress: g.Progress().Round(2), Remaining: g.Remaining(), IsAchieved: g.IsAchieved()}
}

// Progress is saved/target as a percentage, capped at 100.
func (g *Goal) Progress() decimal.Decimal {
	if !g.TargetAmount.IsPositive() {
		return hundredPercent
	}
	return decimal.Min(hundredPercent, g.SavedAmount.Div(g.TargetAmount).Mul(hundredPercent))
}

// Remaining is how much is left to save, never negative.
func (g *Goal) Remaining() decimal.Decimal {
	return decimal.Max(decimal.Zero, g.TargetAmount.Sub(g.SavedAmount))
}

func (g *Goal) IsAchieved() bool {
	return g.SavedAmount.GreaterThanOrEqual(g.TargetAmount)
}

func (g *Goal) Prepare() {
	g.Name = SanitizeText(g.Name)
	g.Description = SanitizeText(g.Description)
	if g.Color == "" {
		g.Color = DefaultGoalColor
	}
	if g.Priority == "" {
		g.Priority = GoalPriorityMedium
	}
}

func ValidateGoal(v *validator.Validator, g *Goal) {
	v.Check(g.Name != "", "name", "must be provided")
	v.Check(len(g.Name) <= 100, "name", "must not be more than 100 characters")
	v.Check(g.TargetAmount.IsPositive(), "target_amount", "must be greater than zero")
	v.Check(g.TargetAmount.LessThanOrEqual(decimal.NewFromInt(999_999_999)), "target_amount", "must not exceed 999,999,999")
	v.Check(!g.SavedAmount.IsNegative(), "saved_amount", "must not be negative")
	v.Check(!g.Deadline.IsZero(), "deadline", "must be provided in YYYY-MM-DD format")
	v.Check(validator.Matches(g.Color, validator.HexColorRX), "color", "must be a hex color like #3B82F6")
	v.Check(len(g.Description) <= 500, "description", "must not be more than 500 characters")
	v.Check(validator.PermittedValue(g.Priority, GoalPriorityLow, GoalPriorityMedium, GoalPriorityHigh), "priority", "must be one of low, medium, high")
}

// ValidateContribution checks an amount added to a goal's savings.
func ValidateContribution(v *validator.Validator, amount decimal.Decimal) {
	v.Check(amount.IsPositive(), "amount", "must be greater than zero")
}

func (m GoalModel) Insert(ctx context.Context, g *Goal) error {
	ctx, cancel := contextGenerator(ctx, DefaultGoalDBContextTimeout)
	defer cancel()
	now := time.Now().UTC()
	g.ID = newID()
	g.CreatedAt = now
	g.UpdatedAt = now
	doc, err := toDocument(g)
	if err != nil {
		return err
	}
	return m.Store.Insert(ctx, CollectionGoals, g.ID, doc)
}

func (m GoalModel) Get(ctx context.Context, userID, id string) (*Goal, error) {
	ctx, cancel := contextGenerator(ctx, DefaultGoalDBContextTimeout)
	defer cancel()
	return getOwned[Goal](ctx, m.Store, CollectionGoals, id, userID)
}

func (m GoalModel) Update(ctx context.Context, g *Goal) error {
	ctx, cancel := contextGenerator(ctx, DefaultGoalDBContextTimeout)
	defer cancel()
	g.UpdatedAt = time.Now().UTC()
	doc, err := toDocument(g)
	if err != nil {
		return err
	}
	return m.Store.Replace(ctx, CollectionGoals, g.ID, doc)
}

func (m GoalModel) Delete(ctx context.Context, userID, id string) error {
	ctx, cancel := contextGenerator(ctx, DefaultGoalDBContextTimeout)
	defer cancel()
	if _, err := getOwned[Goal](ctx, m.Store, CollectionGoals, id, userID); err != nil {
		return err
	}
	return m.Store.Delete(ctx, CollectionGoals, id)
}

func (m GoalModel) GetAllForUser(ctx context.Context, userID string) ([]*Goal, error) {
	ctx, cancel := contextGenerator(ctx, DefaultGoalDBContextTimeout)
	defer cancel()
	return findAll[Goal](ctx, m.Store, CollectionGoals, ByUser(userID))
}
