package logger

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
)

func init() {
	// Usable before InitStructured is called (tests, CLI).
	zlog = zerolog.New(os.Stdout).With().Timestamp().Str("service", serviceName).Logger()
}

// Init sets the global log level from a string (debug, info, warn, error)
func Init(level string) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
	zerolog.DurationFieldUnit = time.Millisecond
}

// Info printf-style info log used during bootstrap
func Info(format string, args ...interface{}) {
	zlog.Info().Msg(fmt.Sprintf(format, args...))
}

// Warn printf-style warning log
func Warn(format string, args ...interface{}) {
	zlog.Warn().Msg(fmt.Sprintf(format, args...))
}

// Error printf-style error log
func Error(format string, args ...interface{}) {
	zlog.Error().Msg(fmt.Sprintf(format, args...))
}
