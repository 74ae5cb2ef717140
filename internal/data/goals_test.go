package data

import (
	"testing"
	"time"

	"github.com/Blue-Davinci/WealthWise/internal/validator"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestGoal_Progress(t *testing.T) {
	tests := []struct {
		name         string
		target       int64
		saved        int64
		wantProgress decimal.Decimal
		wantLeft     decimal.Decimal
		wantAchieved bool
	}{
		{name: "Half way", target: 1000, saved: 500, wantProgress: decimal.NewFromInt(50), wantLeft: decimal.NewFromInt(500)},
		{name: "Nothing saved", target: 1000, saved: 0, wantProgress: decimal.Zero, wantLeft: decimal.NewFromInt(1000)},
		{name: "Over saved caps at 100", target: 1000, saved: 1500, wantProgress: decimal.NewFromInt(100), wantLeft: decimal.Zero, wantAchieved: true},
		{name: "Zero target", target: 0, saved: 0, wantProgress: decimal.NewFromInt(100), wantLeft: decimal.Zero, wantAchieved: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := &Goal{TargetAmount: decimal.NewFromInt(tt.target), SavedAmount: decimal.NewFromInt(tt.saved)}
			assert.True(t, g.Progress().Equal(tt.wantProgress), "Progress() = %v", g.Progress())
			assert.True(t, g.Remaining().Equal(tt.wantLeft), "Remaining() = %v", g.Remaining())
			assert.Equal(t, tt.wantAchieved, g.IsAchieved())
		})
	}
}

func TestValidateGoal(t *testing.T) {
	g := &Goal{Name: "Emergency fund", TargetAmount: decimal.NewFromInt(10000), Deadline: DateOnly{time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)}}
	g.Prepare()
	v := validator.New()
	ValidateGoal(v, g)
	assert.True(t, v.Valid(), "unexpected errors: %v", v.Errors)
	assert.Equal(t, DefaultGoalColor, g.Color)
	assert.Equal(t, GoalPriorityMedium, g.Priority)

	bad := &Goal{Name: "", Color: "blue", Priority: "urgent", SavedAmount: decimal.NewFromInt(-1)}
	v = validator.New()
	ValidateGoal(v, bad)
	for _, field := range []string{"name", "target_amount", "saved_amount", "deadline", "color", "priority"} {
		assert.Contains(t, v.Errors, field)
	}
}

func TestInvestment_Value(t *testing.T) {
	inv := &Investment{Quantity: decimal.NewFromInt(10), BuyPrice: decimal.NewFromInt(100)}
	assert.True(t, inv.Cost().Equal(decimal.NewFromInt(1000)))
	// No quote yet, so the position is worth what was paid.
	assert.True(t, inv.Value().Equal(decimal.NewFromInt(1000)))
	assert.True(t, inv.ProfitLoss().IsZero())

	inv.CurrentPrice = decimal.NewFromInt(120)
	assert.True(t, inv.Value().Equal(decimal.NewFromInt(1200)))
	assert.True(t, inv.ProfitLoss().Equal(decimal.NewFromInt(200)))

	inv.Prepare("inr")
	assert.Equal(t, "INR", inv.Currency)
}
