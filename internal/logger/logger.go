// Package logger builds the service-wide slog.Logger. Development runs
// get human-readable text at debug level; everything else gets JSON at
// info level for log aggregation.
package logger

import (
	"io"
	"log/slog"
	"os"
)

// Option configures logger creation.
type Option func(*settings)

type settings struct {
	level  slog.Level
	json   bool
	output io.Writer
	attrs  []slog.Attr
}

// WithLevel sets the minimum level.
func WithLevel(l slog.Level) Option {
	return func(s *settings) { s.level = l }
}

// WithOutput sets a custom output destination, ignoring nil writers.
func WithOutput(w io.Writer) Option {
	return func(s *settings) {
		if w != nil {
			s.output = w
		}
	}
}

// WithAttr adds static attributes to every record.
func WithAttr(attrs ...slog.Attr) Option {
	return func(s *settings) { s.attrs = append(s.attrs, attrs...) }
}

// WithDevelopment switches to text output at debug level.
func WithDevelopment() Option {
	return func(s *settings) {
		s.json = false
		s.level = slog.LevelDebug
	}
}

// New creates a configured slog.Logger tagged with the service name.
func New(service string, opts ...Option) *slog.Logger {
	s := &settings{
		level:  slog.LevelInfo,
		json:   true,
		output: os.Stdout,
	}
	for _, opt := range opts {
		opt(s)
	}

	handlerOpts := &slog.HandlerOptions{Level: s.level}
	var handler slog.Handler
	if s.json {
		handler = slog.NewJSONHandler(s.output, handlerOpts)
	} else {
		handler = slog.NewTextHandler(s.output, handlerOpts)
	}

	attrs := append([]slog.Attr{slog.String("service", service)}, s.attrs...)
	return slog.New(handler.WithAttrs(attrs))
}
