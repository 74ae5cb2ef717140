package main

import (
	"errors"
	"net/http"

	"github.com/Blue-Davinci/WealthWise/internal/data"
	"github.com/Blue-Davinci/WealthWise/internal/validator"
	"github.com/shopspring/decimal"
)

//==============================================================================================================
// GOAL HANDLERS
//==============================================================================================================

func (app *application) createNewGoalHandler(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Name         string            `json:"name"`
		TargetAmount decimal.Decimal   `json:"target_amount"`
		SavedAmount  decimal.Decimal   `json:"saved_amount"`
		Deadline     data.DateOnly     `json:"deadline"`
		Color        string            `json:"color"`
		Description  string            `json:"description"`
		Priority     data.GoalPriority `json:"priority"`
	}
	err := app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	goal := &data.Goal{
		UserID:       app.contextGetUser(r).ID,
		Name:         input.Name,
		TargetAmount: input.TargetAmount,
		SavedAmount:  input.SavedAmount,
		Deadline:     input.Deadline,
		Color:        input.Color,
		Description:  input.Description,
		Priority:     input.Priority,
	}
	goal.Prepare()
	v := validator.New()
	if data.ValidateGoal(v, goal); !v.Valid() {
		app.failedValidationResponse(w, r, v.Errors)
		return
	}
	err = app.models.Goals.Insert(r.Context(), goal)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}
	err = app.writeJSON(w, http.StatusCreated, envelope{"goal": goal.Enrich()}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// getGoalsForUserHandler() lists goals with their progress, remaining amount and whether
// they have been reached.
func (app *application) getGoalsForUserHandler(w http.ResponseWriter, r *http.Request) {
	goals, err := app.models.Goals.GetAllForUser(r.Context(), app.contextGetUser(r).ID)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}
	enriched := make([]data.EnrichedGoal, 0, len(goals))
	for _, goal := range goals {
		enriched = append(enriched, goal.Enrich())
	}
	err = app.writeJSON(w, http.StatusOK, envelope{"goals": enriched}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) updateGoalHandler(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Name         *string            `json:"name"`
		TargetAmount *decimal.Decimal   `json:"target_amount"`
		SavedAmount  *decimal.Decimal   `json:"saved_amount"`
		Deadline     *data.DateOnly     `json:"deadline"`
		Color        *string            `json:"color"`
		Description  *string            `json:"description"`
		Priority     *data.GoalPriority `json:"priority"`
	}
	goal, ok := app.goalFromRequest(w, r)
	if !ok {
		return
	}
	err := app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if input.Name != nil {
		goal.Name = *input.Name
	}
	if input.TargetAmount != nil {
		goal.TargetAmount = *input.TargetAmount
	}
	if input.SavedAmount != nil {
		goal.SavedAmount = *input.SavedAmount
	}
	if input.Deadline != nil {
		goal.Deadline = *input.Deadline
	}
	if input.Color != nil {
		goal.Color = *input.Color
	}
	if input.Description != nil {
		goal.Description = *input.Description
	}
	if input.Priority != nil {
		goal.Priority = *input.Priority
	}
	goal.Prepare()
	v := validator.New()
	if data.ValidateGoal(v, goal); !v.Valid() {
		app.failedValidationResponse(w, r, v.Errors)
		return
	}
	app.saveGoal(w, r, goal)
}

// createGoalContributionHandler() adds an amount to the goal's savings.
func (app *application) createGoalContributionHandler(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Amount decimal.Decimal `json:"amount"`
	}
	goal, ok := app.goalFromRequest(w, r)
	if !ok {
		return
	}
	err := app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	v := validator.New()
	if data.ValidateContribution(v, input.Amount); !v.Valid() {
		app.failedValidationResponse(w, r, v.Errors)
		return
	}
	goal.SavedAmount = goal.SavedAmount.Add(input.Amount)
	app.saveGoal(w, r, goal)
}

func (app *application) deleteGoalHandler(w http.ResponseWriter, r *http.Request) {
	goalID, err := app.readIDParam(r, "goalID")
	if err != nil {
		app.notFoundResponse(w, r)
		return
	}
	err = app.models.Goals.Delete(r.Context(), app.contextGetUser(r).ID, goalID)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrGeneralRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}
	err = app.writeJSON(w, http.StatusOK, envelope{"message": "goal deleted successfully"}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// goalFromRequest() loads the caller's goal named by the goalID URL parameter. It writes
// the error response itself and reports false when there is nothing to continue with.
func (app *application) goalFromRequest(w http.ResponseWriter, r *http.Request) (*data.Goal, bool) {
	goalID, err := app.readIDParam(r, "goalID")
	if err != nil {
		app.notFoundResponse(w, r)
		return nil, false
	}
	goal, err := app.models.Goals.Get(r.Context(), app.contextGetUser(r).ID, goalID)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrGeneralRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return nil, false
	}
	return goal, true
}

func (app *application) saveGoal(w http.ResponseWriter, r *http.Request, goal *data.Goal) {
	err := app.models.Goals.Update(r.Context(), goal)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrGeneralRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}
	err = app.writeJSON(w, http.StatusOK, envelope{"goal": goal.Enrich()}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}
