package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// shutdownTimeout bounds how long in-flight requests get after a signal.
const shutdownTimeout = 20 * time.Second

func (app *application) server() error {
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", app.config.port),
		Handler:      app.routes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
	shutdownChan := make(chan error)
	go app.awaitShutdown(srv, shutdownChan)

	app.logger.Info("starting server", zap.String("addr", srv.Addr), zap.String("env", app.config.env),
		zap.String("store", app.config.store), zap.String("base_currency", app.config.api.defaultcurrency))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	// ListenAndServe returns as soon as Shutdown starts, so wait for the
	// shutdown goroutine to report how it went.
	if err := <-shutdownChan; err != nil {
		return err
	}
	app.logger.Info("stopped server", zap.String("addr", srv.Addr))
	return nil
}

// awaitShutdown blocks until SIGINT or SIGTERM, then drains the server,
// background tasks and schedulers in that order.
func (app *application) awaitShutdown(srv *http.Server, shutdownChan chan<- error) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	s := <-quit
	app.logger.Info("shutting down server", zap.String("signal", s.String()))

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		shutdownChan <- err
		return
	}
	app.logger.Info("completing background tasks...", zap.String("addr", srv.Addr))
	app.wg.Wait()
	app.stopCronJobs(app.config.scheduler.trackRecurringTransactions)
	shutdownChan <- nil
}

// stopCronJobs() stops the given schedulers and waits for running jobs to finish.
func (app *application) stopCronJobs(cronJobs ...*cron.Cron) {
	app.logger.Info("stopping cron jobs..", zap.Int("count", len(cronJobs)))
	for _, cronJob := range cronJobs {
		if cronJob == nil {
			continue
		}
		ctx := cronJob.Stop()
		<-ctx.Done()
	}
}
