package main

import (
	"expvar"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/justinas/alice"
)

// routes() is a method that returns a http.Handler that contains all the routes for the application
func (app *application) routes() http.Handler {
	router := chi.NewRouter()
	router.NotFound(app.notFoundResponse)
	router.MethodNotAllowed(app.methodNotAllowedResponse)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   app.config.cors.trustedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "PATCH"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"link", "Content-Disposition"},
		AllowCredentials: false,
		MaxAge:           300, // Maximum value not ignored by any of major browsers
	}))
	//Use alice to make a global middleware chain.
	globalMiddleware := alice.New(app.metrics, app.recoverPanic, app.rateLimit, app.authenticate).Then

	// dynamic protected middleware
	dynamicMiddleware := alice.New(app.requireAuthenticatedUser, app.requireActivatedUser)

	router.Use(globalMiddleware)

	v1Router := chi.NewRouter()
	v1Router.NotFound(app.notFoundResponse)
	v1Router.MethodNotAllowed(app.methodNotAllowedResponse)

	v1Router.Get("/healthcheck", app.healthcheckHandler)
	v1Router.Method(http.MethodGet, "/debug/vars", expvar.Handler())
	v1Router.Mount("/users", app.userRoutes())
	v1Router.Mount("/api", app.apiKeyRoutes(&dynamicMiddleware))
	v1Router.With(dynamicMiddleware.Then).Mount("/transactions", app.transactionRoutes())
	v1Router.With(dynamicMiddleware.Then).Mount("/budgets", app.budgetRoutes())
	v1Router.With(dynamicMiddleware.Then).Mount("/goals", app.goalRoutes())
	v1Router.With(dynamicMiddleware.Then).Mount("/investments", app.investmentRoutes())
	v1Router.With(dynamicMiddleware.Then).Mount("/analytics", app.analyticsRoutes())
	v1Router.With(dynamicMiddleware.Then).Mount("/predictions", app.predictionRoutes())

	router.Mount("/v1", v1Router)
	return router
}

// userRoutes() is a method that returns a chi.Router that contains all the routes for the users
func (app *application) userRoutes() chi.Router {
	userRoutes := chi.NewRouter()
	userRoutes.Post("/", app.registerUserHandler)
	return userRoutes
}

// apiKeyRoutes() is a method that returns a chi.Router that contains all the routes for the api keys
func (app *application) apiKeyRoutes(dynamicMiddleware *alice.Chain) chi.Router {
	apiKeyRoutes := chi.NewRouter()
	apiKeyRoutes.Post("/authentication", app.createAuthenticationApiKeyHandler)
	// logout
	apiKeyRoutes.With(dynamicMiddleware.Then).Delete("/authentication", app.deleteAuthenticationApiKeyHandler)
	return apiKeyRoutes
}

func (app *application) transactionRoutes() chi.Router {
	transactionRoutes := chi.NewRouter()
	transactionRoutes.Get("/", app.getTransactionsForUserHandler)
	transactionRoutes.Post("/", app.createNewTransactionHandler)
	transactionRoutes.Get("/export", app.exportTransactionsHandler)
	transactionRoutes.Get("/{transactionID}", app.getTransactionByIDHandler)
	transactionRoutes.Patch("/{transactionID}", app.updateTransactionHandler)
	transactionRoutes.Delete("/{transactionID}", app.deleteTransactionHandler)
	return transactionRoutes
}

// budgetRoutes() is a method that returns a chi.Router that contains all the routes for the budgets
func (app *application) budgetRoutes() chi.Router {
	budgetRoutes := chi.NewRouter()
	budgetRoutes.Get("/", app.getBudgetsForUserHandler)
	budgetRoutes.Post("/", app.createNewBudgetHandler)
	budgetRoutes.Patch("/{budgetID}", app.updateBudgetHandler)
	budgetRoutes.Delete("/{budgetID}", app.deleteBudgetByIDHandler)
	return budgetRoutes
}

// goalRoutes() is a method that returns a chi.Router that contains all the routes for the goals
func (app *application) goalRoutes() chi.Router {
	goalRoutes := chi.NewRouter()
	goalRoutes.Get("/", app.getGoalsForUserHandler)
	goalRoutes.Post("/", app.createNewGoalHandler)
	goalRoutes.Patch("/{goalID}", app.updateGoalHandler)
	goalRoutes.Delete("/{goalID}", app.deleteGoalHandler)
	goalRoutes.Post("/{goalID}/contributions", app.createGoalContributionHandler)
	return goalRoutes
}

func (app *application) investmentRoutes() chi.Router {
	investmentRoutes := chi.NewRouter()
	investmentRoutes.Get("/", app.getInvestmentsForUserHandler)
	investmentRoutes.Post("/", app.createNewInvestmentHandler)
	investmentRoutes.Patch("/{investmentID}", app.updateInvestmentHandler)
	investmentRoutes.Delete("/{investmentID}", app.deleteInvestmentHandler)
	return investmentRoutes
}

func (app *application) analyticsRoutes() chi.Router {
	analyticsRoutes := chi.NewRouter()
	analyticsRoutes.Get("/health-score", app.getHealthScoreHandler)
	analyticsRoutes.Get("/insights", app.getInsightsHandler)
	analyticsRoutes.Get("/patterns", app.getSpendingPatternsHandler)
	return analyticsRoutes
}

func (app *application) predictionRoutes() chi.Router {
	predictionRoutes := chi.NewRouter()
	predictionRoutes.Get("/cashflow", app.getCashflowPredictionHandler)
	predictionRoutes.Get("/budget-burnrate", app.getBudgetBurnRateHandler)
	predictionRoutes.Get("/goals", app.getGoalPredictionsHandler)
	return predictionRoutes
}
