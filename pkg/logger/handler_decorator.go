package logger

import (
	"context"
	"log/slog"
	"strings"
)

// Redacted replaces the value of masked attributes.
const Redacted = "[REDACTED]"

// DefaultRedactedKeys are masked by every logger built with New.
// Matching is case-insensitive.
var DefaultRedactedKeys = []string{"password", "secret", "client_secret", "pin", "token", "access_token"}

// ContextExtractor extracts a slog attribute from context.
type ContextExtractor func(ctx context.Context) (slog.Attr, bool)

// LogHandlerDecorator wraps a slog.Handler, injects attributes from context and
// masks credential-bearing attributes.
type LogHandlerDecorator struct {
	next       slog.Handler
	extractors []ContextExtractor
	redact     map[string]struct{}
}

// NewLogHandlerDecorator creates a new decorated handler. Nil extractors are dropped.
func NewLogHandlerDecorator(next slog.Handler, redactKeys []string, extractors ...ContextExtractor) slog.Handler {
	clean := make([]ContextExtractor, 0, len(extractors))
	for _, ex := range extractors {
		if ex != nil {
			clean = append(clean, ex)
		}
	}
	redact := make(map[string]struct{}, len(redactKeys))
	for _, k := range redactKeys {
		redact[strings.ToLower(k)] = struct{}{}
	}
	return &LogHandlerDecorator{next: next, extractors: clean, redact: redact}
}

func (h *LogHandlerDecorator) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h *LogHandlerDecorator) Handle(ctx context.Context, rec slog.Record) error {
	if len(h.extractors) == 0 && len(h.redact) == 0 {
		return h.next.Handle(ctx, rec)
	}

	out := slog.NewRecord(rec.Time, rec.Level, rec.Message, rec.PC)
	rec.Attrs(func(a slog.Attr) bool {
		out.AddAttrs(h.mask(a))
		return true
	})
	for _, ex := range h.extractors {
		if attr, ok := ex(ctx); ok {
			out.AddAttrs(h.mask(attr))
		}
	}
	return h.next.Handle(ctx, out)
}

func (h *LogHandlerDecorator) WithAttrs(attrs []slog.Attr) slog.Handler {
	masked := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		masked[i] = h.mask(a)
	}
	return &LogHandlerDecorator{
		next:       h.next.WithAttrs(masked),
		extractors: h.extractors,
		redact:     h.redact,
	}
}

func (h *LogHandlerDecorator) WithGroup(name string) slog.Handler {
	return &LogHandlerDecorator{
		next:       h.next.WithGroup(name),
		extractors: h.extractors,
		redact:     h.redact,
	}
}

func (h *LogHandlerDecorator) mask(a slog.Attr) slog.Attr {
	if len(h.redact) == 0 {
		return a
	}
	if _, ok := h.redact[strings.ToLower(a.Key)]; ok {
		return slog.String(a.Key, Redacted)
	}
	if a.Value.Kind() == slog.KindGroup {
		group := a.Value.Group()
		masked := make([]slog.Attr, len(group))
		for i, ga := range group {
			masked[i] = h.mask(ga)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(masked...)}
	}
	return a
}
