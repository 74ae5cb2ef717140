package main

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// trackRecurringTransactionsHandler() is a cronjob method that materializes due
// recurring transactions on the configured interval.
func (app *application) trackRecurringTransactionsHandler() {
	app.logger.Info("Starting the recurring transaction tracking handler..", zap.String("time", app.clock().String()))
	trackingInterval := app.config.limit.recurringTrackerInterval

	_, err := app.config.scheduler.trackRecurringTransactions.AddFunc(trackingInterval, app.trackRecurringTransactions)
	if err != nil {
		app.logger.Error("Error adding [trackRecurringTransactions] to scheduler", zap.Error(err))
	}
	// Run the tracking first before starting the cron
	app.trackRecurringTransactions()
	app.config.scheduler.trackRecurringTransactions.Start()
}

// trackRecurringTransactions() is the method called by the cronjob. It fetches up to
// the batch limit of recurring transactions whose next date has passed, across all
// users, and spawns every occurrence each of them owes.
func (app *application) trackRecurringTransactions() {
	now := app.clock()
	app.logger.Info("Tracking recurring transactions", zap.String("time", now.String()))
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	due, err := app.models.Transactions.GetDueRecurring(ctx, "", now, app.config.limit.recurringTrackerBatchLimit)
	if err != nil {
		app.logger.Error("Error fetching due recurring transactions", zap.Error(err))
		return
	}
	spawned, failed := 0, 0
	for _, transaction := range due {
		n, err := app.models.Transactions.SpawnDueRecurring(ctx, transaction, now)
		spawned += n
		if err != nil {
			failed++
			app.logger.Error("Error spawning recurring transaction",
				zap.String("transaction_id", transaction.ID), zap.String("user_id", transaction.UserID), zap.Error(err))
		}
	}
	app.logger.Info("Recurring transactions tracked",
		zap.Int("due", len(due)), zap.Int("spawned", spawned), zap.Int("failed", failed))
}
