package main

import (
	"context"
	"net/http"

	"github.com/Blue-Davinci/WealthWise/internal/data"
)

// contextKey keeps our context keys apart from other packages' keys.
type contextKey string

const userContextKey = contextKey("user")

// contextSetUser returns a copy of r carrying user.
func (app *application) contextSetUser(r *http.Request, user *data.User) *http.Request {
	ctx := context.WithValue(r.Context(), userContextKey, user)
	return r.WithContext(ctx)
}

// contextGetUser retrieves the User struct from the request context. It is only
// called where we expect a user to be present, so a missing value panics.
func (app *application) contextGetUser(r *http.Request) *data.User {
	user, ok := r.Context().Value(userContextKey).(*data.User)
	if !ok {
		panic("missing user value in request context")
	}
	return user
}
