package log

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var Logger zerolog.Logger

func init() {
	Configure(os.Stderr, zerolog.WarnLevel, false)
}

// Configure replaces the package logger. Reports go to stdout, so logs default to stderr.
// With structured set, events are emitted as JSON lines instead of console text.
func Configure(out io.Writer, level zerolog.Level, structured bool) {
	if !structured {
		out = zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: "15:04:05",
		}
	}

	Logger = zerolog.New(out).
		With().
		Timestamp().
		Str("app", "hostcheck").
		Logger()

	SetLevel(level)
}

// ParseLevel maps a level name to a zerolog level, defaulting to warn.
func ParseLevel(name string) (zerolog.Level, error) {
	if strings.TrimSpace(name) == "" {
		return zerolog.WarnLevel, nil
	}
	return zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(name)))
}

// Info logs an info message.
func Info() *zerolog.Event {
	return Logger.Info()
}

// Error logs an error message.
func Error() *zerolog.Event {
	return Logger.Error()
}

// Warn logs a warning message.
func Warn() *zerolog.Event {
	return Logger.Warn()
}

// Debug logs a debug message.
func Debug() *zerolog.Event {
	return Logger.Debug()
}

// SetLevel changes the level of the package logger and the global zerolog logger.
func SetLevel(level zerolog.Level) {
	Logger = Logger.Level(level)

	// Set global logger
	log.Logger = Logger
}
