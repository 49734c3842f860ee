package jobs

import (
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	pkglogger "github.com/mediaportal/portal-backend/pkg/logger"
	"github.com/rs/zerolog"
)

// ServerConfig tunes the worker
type ServerConfig struct {
	Concurrency int
	Backoff     time.Duration
}

// NewServer builds the asynq worker server
func NewServer(opt asynq.RedisConnOpt, cfg ServerConfig) *asynq.Server {
	return asynq.NewServer(opt, asynq.Config{
		Concurrency:     cfg.Concurrency,
		Queues:          QueueWeights,
		RetryDelayFunc:  ExponentialBackoff(cfg.Backoff),
		ErrorHandler:    asynq.ErrorHandlerFunc(ReportFailure),
		Logger:          zerologAdapter{},
		ShutdownTimeout: 10 * time.Second,
	})
}

// zerologAdapter routes asynq's internal logs to the service logger
type zerologAdapter struct{}

func (zerologAdapter) log() zerolog.Logger { return pkglogger.Component("asynq") }

func (a zerologAdapter) Debug(args ...interface{}) {
	l := a.log()
	l.Debug().Msg(fmt.Sprint(args...))
}

func (a zerologAdapter) Info(args ...interface{}) {
	l := a.log()
	l.Info().Msg(fmt.Sprint(args...))
}

func (a zerologAdapter) Warn(args ...interface{}) {
	l := a.log()
	l.Warn().Msg(fmt.Sprint(args...))
}

func (a zerologAdapter) Error(args ...interface{}) {
	l := a.log()
	l.Error().Msg(fmt.Sprint(args...))
}

func (a zerologAdapter) Fatal(args ...interface{}) {
	l := a.log()
	l.Fatal().Msg(fmt.Sprint(args...))
}
