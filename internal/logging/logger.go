// Package logging builds the structured diagnostic logger and the encryption observer that writes to it.
package logging

import (
	"io"
	"log/slog"

	"github.com/idelchi/envenc/internal/encryption"
)

// New creates a logger writing to w.
// level: "debug", "info", "warn", "error" (defaults to "info")
// format: "json" or "text" (defaults to "text")
func New(level, format string, w io.Writer) *slog.Logger {
	var logLevel slog.Level

	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{
		Level: logLevel,
	}

	var handler slog.Handler

	if format == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	return slog.New(handler)
}

// Observer reports file operations to a logger.
type Observer struct {
	logger *slog.Logger
	// deleting suppresses the reminder to remove plaintext inputs, as they are removed anyway.
	deleting bool
}

// NewObserver returns an Observer logging to logger.
func NewObserver(logger *slog.Logger, deleting bool) *Observer {
	return &Observer{logger: logger, deleting: deleting}
}

// Succeeded implements encryption.Observer.
func (o *Observer) Succeeded(event encryption.Event) {
	o.logger.Info("file "+string(event.Op)+"ed",
		slog.String("input", event.Input),
		slog.String("output", event.Output),
		slog.String("algorithm", event.Algorithm),
		slog.Int64("size", event.Size),
	)

	if event.Op == encryption.OpEncrypt && !o.deleting {
		o.logger.Warn("delete the plaintext input for production use", slog.String("input", event.Input))
	}
}

// Failed implements encryption.Observer.
func (o *Observer) Failed(event encryption.Event, err error) {
	o.logger.Error("file "+string(event.Op)+" failed",
		slog.String("input", event.Input),
		slog.String("output", event.Output),
		slog.String("algorithm", event.Algorithm),
		slog.String("error", err.Error()),
	)
}
