package main

import (
	"net/http"
)

// healthcheckHandler() reports that the API is up along with its environment and version.
func (app *application) healthcheckHandler(w http.ResponseWriter, r *http.Request) {
	env := envelope{
		"status": "available",
		"system_info": map[string]string{
			"environment":   app.config.env,
			"version":       version,
			"api_name":      app.config.api.name,
			"base_currency": app.config.api.defaultcurrency,
		},
	}
	err := app.writeJSON(w, http.StatusOK, env, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}
