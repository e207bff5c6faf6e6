/*
Package logx wraps zerolog behind a small set of package-level helpers.

It owns the global logger configuration: console output at debug level during
development, JSON at info level otherwise. All call sites use either the
structured Logger() instance or the Info/Warn/Error/Fatal shorthands.
*/
package logx

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// InitGlobalLogger configures the process-wide zerolog instance.
// Development gets a human-readable console writer at debug level;
// any other environment gets JSON at info level.
func InitGlobalLogger(isDevelopment bool) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	if isDevelopment {
		logger = logger.Output(zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.RFC3339,
		})
		logger = logger.Level(zerolog.DebugLevel)
	} else {
		logger = logger.Level(zerolog.InfoLevel)
	}

	log.Logger = logger.With().Caller().Logger()
}

// Logger returns the global zerolog.Logger.
func Logger() *zerolog.Logger {
	return &log.Logger
}

// pairs rejects an odd-length key-value list so zerolog never panics on it.
func pairs(level string, fields []any) []any {
	if len(fields)%2 != 0 {
		Logger().Warn().
			Int("fields_count", len(fields)).
			Str("log_level", level).
			Msg("logx called with an odd number of fields, dropping them")
		return nil
	}
	return fields
}

// Info logs at info level with optional key-value fields.
func Info(msg string, fields ...any) {
	Logger().Info().
		Fields(pairs("info", fields)).
		CallerSkipFrame(1).
		Msg(msg)
}

// Warn logs at warn level with optional key-value fields.
func Warn(msg string, fields ...any) {
	Logger().Warn().
		Fields(pairs("warn", fields)).
		CallerSkipFrame(1).
		Msg(msg)
}

// Error logs an error with optional key-value fields.
func Error(err error, msg string, fields ...any) {
	Logger().Error().
		Err(err).
		Fields(pairs("error", fields)).
		CallerSkipFrame(1).
		Msg(msg)
}

// Fatal logs an error and terminates the process.
func Fatal(err error, msg string, fields ...any) {
	Logger().Fatal().
		Err(err).
		Fields(pairs("fatal", fields)).
		CallerSkipFrame(1).
		Msg(msg)
}
