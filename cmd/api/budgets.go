package main

import (
	"errors"
	"net/http"

	"github.com/Blue-Davinci/WealthWise/internal/analytics"
	"github.com/Blue-Davinci/WealthWise/internal/data"
	"github.com/Blue-Davinci/WealthWise/internal/validator"
	"github.com/shopspring/decimal"
)

//==============================================================================================================
// BUDGET HANDLERS
//==============================================================================================================

// createNewBudgetHandler() is a handler function that handles the creation of a Budget.
// A user may hold one budget per category, so a clash is reported as a 409.
func (app *application) createNewBudgetHandler(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Category string            `json:"category"`
		Limit    decimal.Decimal   `json:"limit"`
		Period   data.BudgetPeriod `json:"period"`
	}
	err := app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	budget := &data.Budget{
		UserID:   app.contextGetUser(r).ID,
		Category: input.Category,
		Limit:    input.Limit,
		Period:   input.Period,
	}
	budget.Prepare()
	v := validator.New()
	if data.ValidateBudget(v, budget); !v.Valid() {
		app.failedValidationResponse(w, r, v.Errors)
		return
	}
	err = app.models.Budgets.Insert(r.Context(), budget)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrDuplicateBudgetCategory):
			app.conflictResponse(w, r, err)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}
	err = app.writeJSON(w, http.StatusCreated, envelope{"budget": budget}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// getBudgetsForUserHandler() returns every budget with what has been spent against it in
// its current Weekly, Monthly or Yearly period.
func (app *application) getBudgetsForUserHandler(w http.ResponseWriter, r *http.Request) {
	user := app.contextGetUser(r)
	budgets, err := app.models.Budgets.GetAllForUser(r.Context(), user.ID)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}
	transactions, err := app.models.Transactions.GetAllForUser(r.Context(), user.ID)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}
	window := analytics.NewDateWindow(app.clock())
	enriched := make([]data.EnrichedBudget, 0, len(budgets))
	for _, budget := range budgets {
		pace := analytics.NewBudgetPace(budget, transactions, window)
		enriched = append(enriched, data.EnrichedBudget{
			Budget:     budget,
			Spent:      pace.Spent.Round(2),
			Remaining:  pace.Remaining.Round(2),
			Percentage: pace.Percentage.Round(2),
		})
	}
	err = app.writeJSON(w, http.StatusOK, envelope{"budgets": enriched}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// updateBudgetHandler() is a handler function that handles the updating of a Budget.
func (app *application) updateBudgetHandler(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Category *string            `json:"category"`
		Limit    *decimal.Decimal   `json:"limit"`
		Period   *data.BudgetPeriod `json:"period"`
	}
	budgetID, err := app.readIDParam(r, "budgetID")
	if err != nil {
		app.notFoundResponse(w, r)
		return
	}
	budget, err := app.models.Budgets.Get(r.Context(), app.contextGetUser(r).ID, budgetID)
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
	if input.Category != nil {
		budget.Category = *input.Category
	}
	if input.Limit != nil {
		budget.Limit = *input.Limit
	}
	if input.Period != nil {
		budget.Period = *input.Period
	}
	budget.Prepare()
	v := validator.New()
	if data.ValidateBudget(v, budget); !v.Valid() {
		app.failedValidationResponse(w, r, v.Errors)
		return
	}
	err = app.models.Budgets.Update(r.Context(), budget)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrDuplicateBudgetCategory):
			app.conflictResponse(w, r, err)
		case errors.Is(err, data.ErrGeneralRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}
	err = app.writeJSON(w, http.StatusOK, envelope{"budget": budget}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// deleteBudgetByIDHandler() is a handler function that handles the deletion of a Budget.
func (app *application) deleteBudgetByIDHandler(w http.ResponseWriter, r *http.Request) {
	budgetID, err := app.readIDParam(r, "budgetID")
	if err != nil {
		app.notFoundResponse(w, r)
		return
	}
	err = app.models.Budgets.Delete(r.Context(), app.contextGetUser(r).ID, budgetID)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrGeneralRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}
	err = app.writeJSON(w, http.StatusOK, envelope{"message": "budget deleted successfully"}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}
