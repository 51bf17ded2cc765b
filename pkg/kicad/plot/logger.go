package plot

import (
	"context"
	"log/slog"
	"sync/atomic"
)

type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

var loggerPtr atomic.Pointer[slog.Logger]

var hooks []func(*slog.Logger)

func init() {
	loggerPtr.Store(slog.New(nopHandler{}))
}

// SetLogger configures the logger for plot and the packages that
// registered with OnSetLogger. By default nothing is logged; pass nil to
// restore that.
//
// Warnings are emitted for unresolved library symbols, unknown theme
// names, font fallbacks and text at angles that are not multiples of 90°.
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(nopHandler{})
	}
	loggerPtr.Store(l)
	for _, h := range hooks {
		h(l)
	}
}

// OnSetLogger registers fn to receive every logger passed to SetLogger.
// It must be called from package init.
func OnSetLogger(fn func(*slog.Logger)) {
	hooks = append(hooks, fn)
}

// Logger returns the active logger.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}
