// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package portal

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// nopHandler is a slog.Handler that silently discards all log records.
// The Enabled method returns false so the caller skips message formatting
// entirely, which keeps the per-render-step trace free when disabled.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

// newNopLogger creates a logger that silently discards all output.
func newNopLogger() *slog.Logger { return slog.New(nopHandler{}) }

// loggerPtr stores the active logger.
var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(newNopLogger())
}

// SetLogger configures the logger for portal and its sub-packages.
// By default, portal produces no log output. Pass nil to restore the
// default silent behavior.
//
// Log levels used by portal:
//   - [slog.LevelDebug]: per render step trace (depth, pool index, recursion tree)
//   - [slog.LevelInfo]: channel activation and deactivation, target pool invalidation
//   - [slog.LevelWarn]: configuration errors (over-full channels, unknown channels)
//   - [slog.LevelError]: backend render failures
//
// Example:
//
//	portal.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = newNopLogger()
	}
	loggerPtr.Store(l)
}

// Logger returns the current logger used by portal.
// The softcam backend calls this to share the same configuration.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}
