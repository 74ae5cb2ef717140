package main

import (
	"errors"
	"net/http"

	"github.com/Blue-Davinci/WealthWise/internal/data"
	"github.com/Blue-Davinci/WealthWise/internal/validator"
	"github.com/shopspring/decimal"
)

//==============================================================================================================
// INVESTMENT HANDLERS
//==============================================================================================================

// createNewInvestmentHandler() records a holding. Prices are entered by the user; a missing
// currency is taken to be the base currency.
func (app *application) createNewInvestmentHandler(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Name         string          `json:"name"`
		Ticker       string          `json:"ticker"`
		Category     string          `json:"category"`
		Quantity     decimal.Decimal `json:"quantity"`
		BuyPrice     decimal.Decimal `json:"buy_price"`
		CurrentPrice decimal.Decimal `json:"current_price"`
		Exchange     string          `json:"exchange"`
		Currency     string          `json:"currency"`
		Date         data.DateOnly   `json:"date"`
	}
	err := app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	investment := &data.Investment{
		UserID:       app.contextGetUser(r).ID,
		Name:         input.Name,
		Ticker:       input.Ticker,
		Category:     input.Category,
		Quantity:     input.Quantity,
		BuyPrice:     input.BuyPrice,
		CurrentPrice: input.CurrentPrice,
		Exchange:     input.Exchange,
		Currency:     input.Currency,
		Date:         input.Date,
	}
	investment.Prepare(app.config.api.defaultcurrency)
	v := validator.New()
	if data.ValidateInvestment(v, investment); !v.Valid() {
		app.failedValidationResponse(w, r, v.Errors)
		return
	}
	err = app.models.Investments.Insert(r.Context(), investment)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}
	err = app.writeJSON(w, http.StatusCreated, envelope{"investment": investment.Enrich()}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) getInvestmentsForUserHandler(w http.ResponseWriter, r *http.Request) {
	investments, err := app.models.Investments.GetAllForUser(r.Context(), app.contextGetUser(r).ID)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}
	enriched := make([]data.EnrichedInvestment, 0, len(investments))
	for _, investment := range investments {
		enriched = append(enriched, investment.Enrich())
	}
	err = app.writeJSON(w, http.StatusOK, envelope{"investments": enriched}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) updateInvestmentHandler(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Name         *string          `json:"name"`
		Ticker       *string          `json:"ticker"`
		Category     *string          `json:"category"`
		Quantity     *decimal.Decimal `json:"quantity"`
		BuyPrice     *decimal.Decimal `json:"buy_price"`
		CurrentPrice *decimal.Decimal `json:"current_price"`
		Exchange     *string          `json:"exchange"`
		Currency     *string          `json:"currency"`
		Date         *data.DateOnly   `json:"date"`
	}
	investmentID, err := app.readIDParam(r, "investmentID")
	if err != nil {
		app.notFoundResponse(w, r)
		return
	}
	investment, err := app.models.Investments.Get(r.Context(), app.contextGetUser(r).ID, investmentID)
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
	if input.Name != nil {
		investment.Name = *input.Name
	}
	if input.Ticker != nil {
		investment.Ticker = *input.Ticker
	}
	if input.Category != nil {
		investment.Category = *input.Category
	}
	if input.Quantity != nil {
		investment.Quantity = *input.Quantity
	}
	if input.BuyPrice != nil {
		investment.BuyPrice = *input.BuyPrice
	}
	if input.CurrentPrice != nil {
		investment.CurrentPrice = *input.CurrentPrice
	}
	if input.Exchange != nil {
		investment.Exchange = *input.Exchange
	}
	if input.Currency != nil {
		investment.Currency = *input.Currency
	}
	if input.Date != nil {
		investment.Date = *input.Date
	}
	investment.Prepare(app.config.api.defaultcurrency)
	v := validator.New()
	if data.ValidateInvestment(v, investment); !v.Valid() {
		app.failedValidationResponse(w, r, v.Errors)
		return
	}
	err = app.models.Investments.Update(r.Context(), investment)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrGeneralRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}
	err = app.writeJSON(w, http.StatusOK, envelope{"investment": investment.Enrich()}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) deleteInvestmentHandler(w http.ResponseWriter, r *http.Request) {
	investmentID, err := app.readIDParam(r, "investmentID")
	if err != nil {
		app.notFoundResponse(w, r)
		return
	}
	err = app.models.Investments.Delete(r.Context(), app.contextGetUser(r).ID, investmentID)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrGeneralRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}
	err = app.writeJSON(w, http.StatusOK, envelope{"message": "investment deleted successfully"}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}
