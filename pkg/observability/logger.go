// Package observability provides structured logging for couplint.
package observability

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
)

const (
	attrService = "service"
	attrVersion = "version"

	serviceName = "couplint"
)

// Config controls logger construction.
type Config struct {
	// Level is one of debug, info, warn, error.
	Level string

	// Format is text or json.
	Format string

	// Version is stamped onto every record when set.
	Version string
}

// NewLogger builds the process logger writing to w.
func NewLogger(cfg Config, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: ParseLevel(cfg.Level)}

	var inner slog.Handler
	if strings.EqualFold(cfg.Format, "json") {
		inner = slog.NewJSONHandler(w, opts)
	} else {
		inner = slog.NewTextHandler(w, opts)
	}

	return slog.New(NewServiceHandler(inner, cfg.Version))
}

// ParseLevel maps a level name to its slog level, defaulting to info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// ServiceHandler is an [slog.Handler] that stamps service metadata onto
// every log record. The attributes are pre-attached at construction so they
// stay at the top level even when groups are used.
type ServiceHandler struct {
	inner slog.Handler
}

// NewServiceHandler wraps an [slog.Handler] with service metadata.
func NewServiceHandler(inner slog.Handler, version string) *ServiceHandler {
	attrs := []slog.Attr{slog.String(attrService, serviceName)}

	if version != "" {
		attrs = append(attrs, slog.String(attrVersion, version))
	}

	return &ServiceHandler{inner: inner.WithAttrs(attrs)}
}

// Enabled delegates to the inner handler.
func (sh *ServiceHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return sh.inner.Enabled(ctx, level)
}

// Handle delegates to the inner handler.
func (sh *ServiceHandler) Handle(ctx context.Context, record slog.Record) error {
	err := sh.inner.Handle(ctx, record)
	if err != nil {
		return fmt.Errorf("service handler: %w", err)
	}

	return nil
}

// WithAttrs returns a new ServiceHandler with additional attributes on the
// inner handler.
func (sh *ServiceHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &ServiceHandler{inner: sh.inner.WithAttrs(attrs)}
}

// WithGroup returns a new ServiceHandler with a group prefix on the inner
// handler.
func (sh *ServiceHandler) WithGroup(name string) slog.Handler {
	return &ServiceHandler{inner: sh.inner.WithGroup(name)}
}
