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
	"github.com/thirukguru/aws-wastesweep/shared/logger"
	"github.com/thirukguru/aws-wastesweep/shared/metrics"
)

const shutdownTimeout = 5 * time.Second

// runScheduled runs a sweep on every tick of the cron schedule until the
// process is interrupted. Overlapping ticks are skipped.
func (a *app) runScheduled(ctx context.Context) error {
	schedule, err := cron.ParseStandard(a.flags.Schedule)
	if err != nil {
		return fmt.Errorf("invalid --schedule %q: %w", a.flags.Schedule, err)
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if a.flags.MetricsAddr != "" {
		srv := a.metricsServer()
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				a.log.ErrorWithErr(err, "metrics server stopped")
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
		a.log.With("addr", a.flags.MetricsAddr).Info("serving metrics")
	}

	cl := cronLogger{log: a.log}
	c := cron.New(cron.WithLogger(cl), cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)))
	c.Schedule(schedule, cron.FuncJob(func() { a.scheduledRun(ctx) }))
	c.Start()

	a.log.WithFields(map[string]interface{}{
		"schedule": a.flags.Schedule,
		"next_run": schedule.Next(time.Now()).Format(time.RFC3339),
	}).Info("scheduler started")

	<-ctx.Done()

	a.log.Info("stopping scheduler")
	<-c.Stop().Done()

	return nil
}

func (a *app) scheduledRun(ctx context.Context) {
	status, err := a.runOnce(ctx)
	if err != nil {
		a.log.ErrorWithErr(err, "scheduled run failed")
		return
	}

	if err := a.out.RenderStatus(status); err != nil {
		a.log.ErrorWithErr(err, "failed to print run status")
	}
}

func (a *app) metricsServer() *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler(a.registry))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	return &http.Server{
		Addr:              a.flags.MetricsAddr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
}

// cronLogger adapts the application logger to cron.Logger.
type cronLogger struct {
	log *logger.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.WithFields(pairs(keysAndValues)).Debug(msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.WithFields(pairs(keysAndValues)).ErrorWithErr(err, msg)
}

func pairs(keysAndValues []interface{}) map[string]interface{} {
	fields := make(map[string]interface{}, len(keysAndValues)/2)
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		key, ok := keysAndValues[i].(string)
		if !ok {
			key = fmt.Sprint(keysAndValues[i])
		}
		fields[key] = keysAndValues[i+1]
	}
	return fields
}
