package logging

import (
	"context"
	"log/slog"
)

// sink pairs a handler with the lowest level it should receive. The handler's
// own level still applies; min only narrows it.
type sink struct {
	handler slog.Handler
	min     slog.Level
}

func (s sink) accepts(ctx context.Context, level slog.Level) bool {
	return level >= s.min && s.handler.Enabled(ctx, level)
}

// teeHandler delivers each record to every sink that accepts its level.
type teeHandler struct {
	sinks []sink
}

func newTeeHandler(sinks ...sink) slog.Handler {
	kept := make([]sink, 0, len(sinks))
	for _, s := range sinks {
		if s.handler != nil {
			kept = append(kept, s)
		}
	}
	if len(kept) == 0 {
		return NoopHandler{}
	}
	return &teeHandler{sinks: kept}
}

func (h *teeHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, s := range h.sinks {
		if s.accepts(ctx, level) {
			return true
		}
	}
	return false
}

func (h *teeHandler) Handle(ctx context.Context, record slog.Record) error {
	var firstErr error
	for _, s := range h.sinks {
		if !s.accepts(ctx, record.Level) {
			continue
		}
		if err := s.handler.Handle(ctx, record.Clone()); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (h *teeHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return h.derive(func(next slog.Handler) slog.Handler { return next.WithAttrs(attrs) })
}

func (h *teeHandler) WithGroup(name string) slog.Handler {
	return h.derive(func(next slog.Handler) slog.Handler { return next.WithGroup(name) })
}

func (h *teeHandler) derive(fn func(slog.Handler) slog.Handler) slog.Handler {
	next := make([]sink, len(h.sinks))
	for i, s := range h.sinks {
		next[i] = sink{handler: fn(s.handler), min: s.min}
	}
	return &teeHandler{sinks: next}
}
