package data

import (
	"errors"
)

var (
	ErrGeneralRecordNotFound     = errors.New("finance record not found")
	ErrGeneralEditConflict       = errors.New("edit conflict")
	ErrDuplicateRecord           = errors.New("duplicate record")
	ErrDuplicateBudgetCategory   = errors.New("a budget for this category already exists")
	ErrFailedToSaveRecordToRedis = errors.New("failed to save record to redis")
	ErrFailedToGetCurrency       = errors.New("failed to get currency rates")
)

type Models struct {
	Users        UserModel
	Tokens       TokenModel
	Transactions TransactionModel
	Budgets      BudgetModel
	Goals        GoalModel
	Investments  InvestmentModel
}

func NewModels(store DocumentStore) Models {
	return Models{
		Users:        UserModel{Store: store},
		Tokens:       TokenModel{Store: store},
		Transactions: TransactionModel{Store: store},
		Budgets:      BudgetModel{Store: store},
		Goals:        GoalModel{Store: store},
		Investments:  InvestmentModel{Store: store},
	}
}
