package analytics

import (
	"time"

	"github.com/Blue-Davinci/WealthWise/internal/data"
	"github.com/shopspring/decimal"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func dec(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v)
}

func expense(amount float64, category string, on time.Time) *data.Transaction {
	return &data.Transaction{Type: data.TransactionTypeExpense, Amount: dec(amount), Category: category, Date: on, Recurrence: data.RecurrenceNone}
}

func income(amount float64, on time.Time) *data.Transaction {
	return &data.Transaction{Type: data.TransactionTypeIncome, Amount: dec(amount), Category: "Salary", Date: on, Recurrence: data.RecurrenceNone}
}

func monthlyBudget(category string, limit float64) *data.Budget {
	return &data.Budget{Category: category, Limit: dec(limit), Period: data.BudgetPeriodMonthly}
}
