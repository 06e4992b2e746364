// Package logger provides the application's logging interface and its
// zerolog-backed implementations.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/pkgerrors"
)

// Logger defines the interface for logging throughout the application.
// Different implementations can be used for different contexts (console, silent, structured, etc.)
type Logger interface {
	Info(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	Debug(msg string, args ...interface{})
}

// Options configures a ConsoleLogger.
type Options struct {
	Level     string
	Format    string // "console" or "json"
	Component string
	Writer    io.Writer
}

// ConsoleLogger writes leveled logs through zerolog. Messages keep the
// printf style of the Logger interface.
type ConsoleLogger struct {
	log zerolog.Logger
}

// NewConsoleLogger returns a human-readable info-level logger on stderr.
func NewConsoleLogger() *ConsoleLogger {
	return New(Options{Level: "info", Format: "console"})
}

// New builds a logger from options. Unknown levels fall back to info.
func New(opt Options) *ConsoleLogger {
	zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack
	zerolog.TimeFieldFormat = time.RFC3339Nano

	var w io.Writer = os.Stderr
	if opt.Writer != nil {
		w = opt.Writer
	}
	if strings.ToLower(opt.Format) != "json" {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}

	ctx := zerolog.New(w).Level(ParseLevel(opt.Level)).With().Timestamp()
	if opt.Component != "" {
		ctx = ctx.Str("component", opt.Component)
	}
	return &ConsoleLogger{log: ctx.Logger()}
}

// Zerolog exposes the underlying logger for structured call sites such as
// the HTTP access log.
func (c *ConsoleLogger) Zerolog() *zerolog.Logger {
	return &c.log
}

// Named returns a child logger tagged with a component.
func (c *ConsoleLogger) Named(component string) *ConsoleLogger {
	return &ConsoleLogger{log: c.log.With().Str("component", component).Logger()}
}

func (c *ConsoleLogger) Info(msg string, args ...interface{}) {
	c.log.Info().Msg(format(msg, args))
}

func (c *ConsoleLogger) Error(msg string, args ...interface{}) {
	c.log.Error().Msg(format(msg, args))
}

func (c *ConsoleLogger) Debug(msg string, args ...interface{}) {
	c.log.Debug().Msg(format(msg, args))
}

// ParseLevel maps a level name onto zerolog. Unknown names mean info.
func ParseLevel(s string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

func format(msg string, args []interface{}) string {
	if len(args) == 0 {
		return msg
	}
	return fmt.Sprintf(msg, args...)
}

// SilentLogger discards all log messages.
// Used when running in TUI mode to prevent log output from interfering with the display.
type SilentLogger struct{}

func NewSilentLogger() *SilentLogger {
	return &SilentLogger{}
}

func (s *SilentLogger) Info(msg string, args ...interface{})  {}
func (s *SilentLogger) Error(msg string, args ...interface{}) {}
func (s *SilentLogger) Debug(msg string, args ...interface{}) {}
