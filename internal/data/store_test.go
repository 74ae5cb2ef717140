package data

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestMemoryStore_Contract(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	require.NoError(t, store.Insert(ctx, CollectionBudgets, "b1", Document{"user_id": "u1", "category": "Food"}))
	require.NoError(t, store.Insert(ctx, CollectionBudgets, "b2", Document{"user_id": "u2", "category": "Rent"}))
	require.NoError(t, store.Insert(ctx, CollectionBudgets, "b3", Document{"user_id": "u1", "category": "Travel"}))

	err := store.Insert(ctx, CollectionBudgets, "b1", Document{"user_id": "u1"})
	assert.ErrorIs(t, err, ErrDuplicateRecord)

	doc, err := store.Get(ctx, CollectionBudgets, "b2")
	require.NoError(t, err)
	assert.Equal(t, "Rent", doc["category"])

	// Mutating a returned document must not leak into the store.
	doc["category"] = "Changed"
	again, err := store.Get(ctx, CollectionBudgets, "b2")
	require.NoError(t, err)
	assert.Equal(t, "Rent", again["category"])

	found, err := store.Find(ctx, CollectionBudgets, ByUser("u1"))
	require.NoError(t, err)
	require.Len(t, found, 2)
	assert.Equal(t, "Food", found[0]["category"])
	assert.Equal(t, "Travel", found[1]["category"])

	found, err = store.Find(ctx, CollectionBudgets, ByUser("u1", Filter{Field: "category", Op: OpNotEqual, Value: "Food"}))
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Travel", found[0]["category"])

	require.NoError(t, store.Replace(ctx, CollectionBudgets, "b1", Document{"user_id": "u1", "category": "Groceries"}))
	assert.ErrorIs(t, store.Replace(ctx, CollectionBudgets, "missing", Document{}), ErrGeneralRecordNotFound)

	require.NoError(t, store.Delete(ctx, CollectionBudgets, "b1"))
	assert.ErrorIs(t, store.Delete(ctx, CollectionBudgets, "b1"), ErrGeneralRecordNotFound)
	_, err = store.Get(ctx, CollectionBudgets, "b1")
	assert.ErrorIs(t, err, ErrGeneralRecordNotFound)

	found, err = store.Find(ctx, CollectionBudgets, ByUser("u1"))
	require.NoError(t, err)
	require.Len(t, found, 1)
}

func TestMemoryStore_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	store := NewMemoryStore()
	assert.ErrorIs(t, store.Insert(ctx, CollectionGoals, "g1", Document{}), context.Canceled)
	_, err := store.Find(ctx, CollectionGoals, Query{})
	assert.ErrorIs(t, err, context.Canceled)
}

func Test_coerceNumber(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  string
	}{
		{name: "Float", value: 12.5, want: "12.5"},
		{name: "Int", value: 7, want: "7"},
		{name: "Numeric string", value: " 42.10 ", want: "42.1"},
		{name: "Nil", value: nil, want: "0"},
		{name: "Non numeric string", value: "abc", want: "0"},
		{name: "Bool", value: true, want: "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := coerceNumber(tt.value); got != tt.want {
				t.Errorf("coerceNumber() = %v, want %v", got, tt.want)
			}
		})
	}
}

func Test_fromDocument_coercesNumericFields(t *testing.T) {
	doc := Document{
		"id":            "g1",
		"name":          "Laptop",
		"target_amount": "1000",
		"saved_amount":  nil,
	}
	goal, err := fromDocument[Goal](CollectionGoals, doc)
	require.NoError(t, err)
	assert.True(t, goal.TargetAmount.Equal(decimal.NewFromInt(1000)))
	assert.True(t, goal.SavedAmount.IsZero())

	inv, err := fromDocument[Investment](CollectionInvestments, Document{"quantity": "lots", "buy_price": 10.0})
	require.NoError(t, err)
	assert.True(t, inv.Quantity.IsZero())
	assert.True(t, inv.BuyPrice.Equal(decimal.NewFromInt(10)))
}

func Test_getOwned_otherUserIsNotFound(t *testing.T) {
	ctx := context.Background()
	models := NewModels(NewMemoryStore())
	budget := &Budget{UserID: "owner", Category: "Food", Limit: decimal.NewFromInt(100), Period: BudgetPeriodMonthly}
	require.NoError(t, models.Budgets.Insert(ctx, budget))

	_, err := models.Budgets.Get(ctx, "intruder", budget.ID)
	assert.ErrorIs(t, err, ErrGeneralRecordNotFound)
	assert.ErrorIs(t, models.Budgets.Delete(ctx, "intruder", budget.ID), ErrGeneralRecordNotFound)

	got, err := models.Budgets.Get(ctx, "owner", budget.ID)
	require.NoError(t, err)
	assert.Equal(t, "Food", got.Category)
}

func TestFindAll_storeFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := NewMockDocumentStore(ctrl)
	boom := errors.New("connection reset")
	store.EXPECT().
		Find(gomock.Any(), CollectionTransactions, ByUser("u1")).
		Return(nil, boom)

	_, err := TransactionModel{Store: store}.GetAllForUser(context.Background(), "u1")
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
}
