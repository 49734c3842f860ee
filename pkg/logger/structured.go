package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

const serviceName = "portal-backend"

var zlog zerolog.Logger

// InitStructured 환경에 맞는 출력 형식으로 전역 로거를 다시 만든다
// local/dev 는 사람이 읽는 콘솔, 그 외는 JSON 한 줄
func InitStructured(env string) {
	var w io.Writer = os.Stdout
	switch env {
	case "", "local", "dev", "development", "test":
		w = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	}

	zlog = zerolog.New(w).With().
		Timestamp().
		Str("service", serviceName).
		Str("env", env).
		Logger()

	zerolog.TimeFieldFormat = time.RFC3339
}

// GetLogger returns the global zerolog logger
func GetLogger() *zerolog.Logger {
	return &zlog
}

// ForRequest tags a child logger with the request id and, when known, the caller
func ForRequest(requestID string, userID uint64) zerolog.Logger {
	ctx := zlog.With().Str("request_id", requestID)
	if userID != 0 {
		ctx = ctx.Uint64("user_id", userID)
	}
	return ctx.Logger()
}

// Component returns a logger tagged with a component name (worker, scheduler, hub)
func Component(name string) zerolog.Logger {
	return zlog.With().Str("component", name).Logger()
}
