// Package log builds logr loggers for programs using consecution.
package log

import (
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/go-logr/logr"
	"github.com/go-logr/zerologr"
	"github.com/lmittmann/tint"
	"github.com/rs/zerolog"
)

type Format string

const (
	// FormatConsole is human-readable zerolog output.
	FormatConsole Format = "console"
	// FormatJSON is one zerolog JSON object per line.
	FormatJSON Format = "json"
	// FormatTint is colored slog output.
	FormatTint Format = "tint"
)

type config struct {
	format    Format
	verbosity int
	out       io.Writer
	noColor   bool
}

type Option func(*config)

var WithFormat = func(f Format) Option {
	return func(c *config) {
		c.format = f
	}
}

// WithVerbosity enables V(n) logs up to v. 0 logs Info only.
var WithVerbosity = func(v int) Option {
	return func(c *config) {
		c.verbosity = v
	}
}

var WithOutput = func(w io.Writer) Option {
	return func(c *config) {
		c.out = w
	}
}

var WithNoColor = func() Option {
	return func(c *config) {
		c.noColor = true
	}
}

// New returns a logger. Inside Kubernetes it defaults to JSON on stderr,
// elsewhere to console output on stdout.
func New(opts ...Option) logr.Logger {
	c := config{format: FormatConsole, out: os.Stdout}
	if os.Getenv("KUBERNETES_SERVICE_HOST") != "" {
		c.format, c.out = FormatJSON, os.Stderr
	}
	for _, opt := range opts {
		opt(&c)
	}

	switch c.format {
	case FormatTint:
		h := tint.NewHandler(c.out, &tint.Options{
			Level:      slog.Level(-c.verbosity),
			TimeFormat: time.TimeOnly,
			NoColor:    c.noColor,
		})
		return logr.FromSlogHandler(h)
	case FormatJSON:
		return zerologr.New(zeroLogger(c.out, c.verbosity))
	default:
		out := zerolog.ConsoleWriter{Out: c.out, TimeFormat: "2006-01-02T15:04:05.999Z07:00", NoColor: c.noColor}
		return zerologr.New(zeroLogger(out, c.verbosity))
	}
}

func zeroLogger(out io.Writer, verbosity int) *zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339Nano
	zerologr.NameFieldName = "logger"
	zerologr.NameSeparator = "/"

	// zerologr logs V(n) at zerolog level 1-n: V(0) is Info, V(1) Debug.
	logger := zerolog.New(out).Level(zerolog.Level(1 - verbosity)).With().Timestamp().Logger()
	return &logger
}
