package jobs

import (
	"context"
	"time"

	"github.com/hibiken/asynq"
	pkglogger "github.com/mediaportal/portal-backend/pkg/logger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	jobsEnqueuedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jobs_enqueued_total",
			Help: "Total number of enqueued background jobs",
		},
		[]string{"type", "status"},
	)

	jobsProcessedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jobs_processed_total",
			Help: "Total number of processed background jobs",
		},
		[]string{"type", "status"},
	)

	jobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "job_duration_seconds",
			Help:    "Background job duration in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"type"},
	)
)

// Instrument is an asynq middleware that logs and counts every job execution
func Instrument(next asynq.Handler) asynq.Handler {
	return asynq.HandlerFunc(func(ctx context.Context, t *asynq.Task) error {
		start := time.Now()
		err := next.ProcessTask(ctx, t)
		elapsed := time.Since(start)

		jobDuration.WithLabelValues(t.Type()).Observe(elapsed.Seconds())
		retry, _ := asynq.GetRetryCount(ctx)
		log := pkglogger.GetLogger()
		if err != nil {
			jobsProcessedTotal.WithLabelValues(t.Type(), "failed").Inc()
			log.Warn().
				Err(err).
				Str("type", t.Type()).
				Int("retry", retry).
				Dur("elapsed", elapsed).
				Msg("job failed")
			return err
		}
		jobsProcessedTotal.WithLabelValues(t.Type(), "ok").Inc()
		log.Debug().
			Str("type", t.Type()).
			Int("retry", retry).
			Dur("elapsed", elapsed).
			Msg("job done")
		return nil
	})
}

// ReportFailure is the server error handler; it fires on every failed attempt
func ReportFailure(ctx context.Context, t *asynq.Task, err error) {
	retry, _ := asynq.GetRetryCount(ctx)
	maxRetry, _ := asynq.GetMaxRetry(ctx)
	ev := pkglogger.GetLogger().Error().
		Err(err).
		Str("type", t.Type()).
		Int("retry", retry).
		Int("max_retry", maxRetry)
	if retry >= maxRetry {
		jobsProcessedTotal.WithLabelValues(t.Type(), "exhausted").Inc()
		ev.Msg("job exhausted its retries")
		return
	}
	ev.Msg("job attempt failed")
}
