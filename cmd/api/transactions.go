package main

import (
	"errors"
	"net/http"

	"github.com/Blue-Davinci/WealthWise/internal/data"
	"github.com/Blue-Davinci/WealthWise/internal/validator"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

//==============================================================================================================
// TRANSACTION HANDLERS
//==============================================================================================================

// createNewTransactionHandler() records an income or expense. Recurring transactions get their
// next occurrence computed from the transaction date.
func (app *application) createNewTransactionHandler(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Title       string               `json:"title"`
		Description string               `json:"description"`
		Type        data.TransactionType `json:"type"`
		Amount      decimal.Decimal      `json:"amount"`
		Category    string               `json:"category"`
		Date        data.DateOnly        `json:"date"`
		Recurrence  data.Recurrence      `json:"recurrence"`
	}
	err := app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	transaction := &data.Transaction{
		UserID:      app.contextGetUser(r).ID,
		Title:       input.Title,
		Description: input.Description,
		Type:        input.Type,
		Amount:      input.Amount,
		Category:    input.Category,
		Date:        input.Date.Time,
		Recurrence:  input.Recurrence,
	}
	transaction.Prepare()
	v := validator.New()
	if data.ValidateTransaction(v, transaction); !v.Valid() {
		app.failedValidationResponse(w, r, v.Errors)
		return
	}
	err = app.models.Transactions.Insert(r.Context(), transaction)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}
	err = app.writeJSON(w, http.StatusCreated, envelope{"transaction": transaction}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// getTransactionsForUserHandler() lists the user's transactions, paginated and filtered by
// type, category and date range. Any recurring occurrences that have come due are spawned
// first so the listing is current even between scheduler runs.
func (app *application) getTransactionsForUserHandler(w http.ResponseWriter, r *http.Request) {
	var input struct {
		filter data.TransactionFilter
		data.Filters
	}
	v := validator.New()
	qs := r.URL.Query()
	input.filter.Type = data.TransactionType(app.readString(qs, "type", ""))
	input.filter.Category = app.readString(qs, "category", "")
	input.filter.Start = app.readDate(qs, "start_date", false, v)
	input.filter.End = app.readDate(qs, "end_date", true, v)
	input.Filters.Page = app.readInt(qs, "page", 1, v)
	input.Filters.PageSize = app.readInt(qs, "page_size", 20, v)
	input.Filters.Sort = app.readString(qs, "sort", "-date")
	input.Filters.SortSafelist = []string{"date", "amount", "-date", "-amount"}

	v.Check(input.filter.Type == "" || validator.PermittedValue(input.filter.Type, data.TransactionTypeIncome, data.TransactionTypeExpense),
		"type", "must be either income or expense")
	if input.filter.Start != nil && input.filter.End != nil {
		v.Check(!input.filter.End.Before(*input.filter.Start), "end_date", "must not be before start_date")
	}
	if data.ValidateFilters(v, input.Filters); !v.Valid() {
		app.failedValidationResponse(w, r, v.Errors)
		return
	}

	user := app.contextGetUser(r)
	if err := app.spawnDueRecurringForUser(r, user.ID); err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}
	transactions, metadata, err := app.models.Transactions.GetForUser(r.Context(), user.ID, input.filter, input.Filters)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}
	err = app.writeJSON(w, http.StatusOK, envelope{"transactions": transactions, "metadata": metadata}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// spawnDueRecurringForUser() materializes the caller's due recurring transactions.
func (app *application) spawnDueRecurringForUser(r *http.Request, userID string) error {
	now := app.clock()
	due, err := app.models.Transactions.GetDueRecurring(r.Context(), userID, now, 0)
	if err != nil {
		return err
	}
	for _, transaction := range due {
		spawned, err := app.models.Transactions.SpawnDueRecurring(r.Context(), transaction, now)
		if err != nil {
			return err
		}
		app.logger.Info("spawned recurring transactions", zap.String("transaction_id", transaction.ID), zap.Int("count", spawned))
	}
	return nil
}

func (app *application) getTransactionByIDHandler(w http.ResponseWriter, r *http.Request) {
	transactionID, err := app.readIDParam(r, "transactionID")
	if err != nil {
		app.notFoundResponse(w, r)
		return
	}
	transaction, err := app.models.Transactions.Get(r.Context(), app.contextGetUser(r).ID, transactionID)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrGeneralRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}
	err = app.writeJSON(w, http.StatusOK, envelope{"transaction": transaction}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// updateTransactionHandler() applies a partial update. Changing the date or the recurrence
// recomputes the next occurrence.
func (app *application) updateTransactionHandler(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Title       *string               `json:"title"`
		Description *string               `json:"description"`
		Type        *data.TransactionType `json:"type"`
		Amount      *decimal.Decimal      `json:"amount"`
		Category    *string               `json:"category"`
		Date        *data.DateOnly        `json:"date"`
		Recurrence  *data.Recurrence      `json:"recurrence"`
	}
	transactionID, err := app.readIDParam(r, "transactionID")
	if err != nil {
		app.notFoundResponse(w, r)
		return
	}
	transaction, err := app.models.Transactions.Get(r.Context(), app.contextGetUser(r).ID, transactionID)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrGeneralRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}
	err = app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if input.Title != nil {
		transaction.Title = *input.Title
	}
	if input.Description != nil {
		transaction.Description = *input.Description
	}
	if input.Type != nil {
		transaction.Type = *input.Type
	}
	if input.Amount != nil {
		transaction.Amount = *input.Amount
	}
	if input.Category != nil {
		transaction.Category = *input.Category
	}
	if input.Date != nil {
		transaction.Date = input.Date.Time
		transaction.NextDate = nil
	}
	if input.Recurrence != nil {
		transaction.Recurrence = *input.Recurrence
		transaction.NextDate = nil
	}
	transaction.Prepare()
	v := validator.New()
	if data.ValidateTransaction(v, transaction); !v.Valid() {
		app.failedValidationResponse(w, r, v.Errors)
		return
	}
	err = app.models.Transactions.Update(r.Context(), transaction)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrGeneralRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}
	err = app.writeJSON(w, http.StatusOK, envelope{"transaction": transaction}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) deleteTransactionHandler(w http.ResponseWriter, r *http.Request) {
	transactionID, err := app.readIDParam(r, "transactionID")
	if err != nil {
		app.notFoundResponse(w, r)
		return
	}
	err = app.models.Transactions.Delete(r.Context(), app.contextGetUser(r).ID, transactionID)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrGeneralRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}
	err = app.writeJSON(w, http.StatusOK, envelope{"message": "transaction deleted successfully"}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}
