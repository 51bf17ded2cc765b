package render

import (
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/OpenTraceLab/kiplot/pkg/kicad/canvas"
	"github.com/OpenTraceLab/kiplot/pkg/kicad/plot"
)

type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(slog.New(nopHandler{}))
	plot.OnSetLogger(func(l *slog.Logger) { loggerPtr.Store(l) })
	plot.OnSetLogger(canvas.SetLogger)
}

func logger() *slog.Logger {
	return loggerPtr.Load()
}
