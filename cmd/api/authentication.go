package main

import (
	"errors"
	"net/http"

	"github.com/Blue-Davinci/WealthWise/internal/data"
	"github.com/Blue-Davinci/WealthWise/internal/validator"
)

// createAuthenticationApiKeyHandler() is the main endpoint responsible for creating a new authentication
// token for the user. We accept a users email and password, validate them, and then check if the user
// exists. If the password matches, we generate a new api key with a 72-hour expiry time and the scope
// 'authentication'.
func (app *application) createAuthenticationApiKeyHandler(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	err := app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	v := validator.New()
	data.ValidateEmail(v, input.Email)
	data.ValidatePasswordPlaintext(v, input.Password)
	if !v.Valid() {
		app.failedValidationResponse(w, r, v.Errors)
		return
	}
	user, err := app.models.Users.GetByEmail(r.Context(), input.Email)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrGeneralRecordNotFound):
			app.invalidCredentialsResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}
	if !user.Activated {
		app.inactiveAccountResponse(w, r)
		return
	}
	match, err := user.Password.Matches(input.Password)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}
	if !match {
		app.invalidCredentialsResponse(w, r)
		return
	}
	bearer_token, err := app.models.Tokens.New(r.Context(), user.ID, data.DefaultTokenExpiryTime, data.ScopeAuthentication)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}
	err = app.writeJSON(w, http.StatusCreated, envelope{
		"api_key": bearer_token,
		"user": map[string]string{
			"id":    user.ID,
			"name":  user.Name,
			"email": user.Email,
		},
	}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// deleteAuthenticationApiKeyHandler() logs the caller out by revoking every
// authentication token they hold.
func (app *application) deleteAuthenticationApiKeyHandler(w http.ResponseWriter, r *http.Request) {
	user := app.contextGetUser(r)
	err := app.models.Tokens.DeleteAllForUser(r.Context(), data.ScopeAuthentication, user.ID)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}
	err = app.writeJSON(w, http.StatusOK, envelope{"message": "you have been logged out"}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}
