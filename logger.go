package canvas

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// nopHandler is a slog.Handler that silently discards all log records.
// The Enabled method returns false so the caller skips message formatting
// entirely, making disabled logging effectively zero-cost.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

func newNopLogger() *slog.Logger { return slog.New(nopHandler{}) }

// loggerPtr stores the active logger.
var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(newNopLogger())
}

// SetLogger configures the logger for canvas and all its sub-packages.
// By default, canvas produces no log output. Pass nil to restore the
// silent default.
//
// Log levels used:
//   - [slog.LevelDebug]: command execution, undo/redo, gesture boundaries,
//     ignored out-of-range indices
//   - [slog.LevelInfo]: document lifecycle (new canvas, project loaded or saved)
//   - [slog.LevelWarn]: tolerated failures (corrupt layer skipped on load)
//
// Example:
//
//	canvas.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = newNopLogger()
	}
	loggerPtr.Store(l)
}

// Logger returns the current logger used by canvas.
// Sub-packages (history, command, tool, editor, checkpoint) call this to
// share the same configuration.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}
