package logger

import (
	"os"

	"github.com/rs/zerolog"
)

// Init sets up a plain console logger so boot-time messages are visible
// before the environment is known. InitStructured replaces the writer once
// config is loaded.
func Init() {
	zlog = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
}

// Info logs a printf-style info message
func Info(format string, args ...interface{}) {
	zlog.Info().Msgf(format, args...)
}

// Warn logs a printf-style warning message
func Warn(format string, args ...interface{}) {
	zlog.Warn().Msgf(format, args...)
}

// Error logs a printf-style error message
func Error(format string, args ...interface{}) {
	zlog.Error().Msgf(format, args...)
}

// Debug logs a printf-style debug message
func Debug(format string, args ...interface{}) {
	zlog.Debug().Msgf(format, args...)
}
