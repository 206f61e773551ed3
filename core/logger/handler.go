package logger

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
)

type logFormat string

const (
	formatJSON logFormat = "json"
	formatKV   logFormat = "kv"

	timeFormatMillis = "2006-01-02T15:04:05.000Z07:00"
)

// newBaseHandler builds a std slog handler that renders the shared log schema:
// ts/level keys, millisecond timestamps, durations as integer *_ms fields.
func newBaseHandler(w io.Writer, format logFormat, level slog.Leveler) slog.Handler {
	opts := &slog.HandlerOptions{Level: level, ReplaceAttr: replaceAttr}
	if format == formatJSON {
		return slog.NewJSONHandler(w, opts)
	}
	return slog.NewTextHandler(w, opts)
}

func replaceAttr(groups []string, a slog.Attr) slog.Attr {
	if len(groups) == 0 {
		switch a.Key {
		case slog.TimeKey:
			return slog.String("ts", a.Value.Time().UTC().Format(timeFormatMillis))
		case slog.MessageKey:
			if a.Value.String() == "" {
				return slog.Attr{}
			}
			return a
		}
	}
	if a.Value.Kind() == slog.KindDuration {
		return slog.Int64(durationKey(a.Key), RoundMS(a.Value.Duration()).Milliseconds())
	}
	return a
}

func durationKey(key string) string {
	switch {
	case key == "duration":
		return "duration_ms"
	case strings.HasSuffix(key, "_ms"):
		return key
	default:
		return key + "_ms"
	}
}

// contextHandler injects correlation fields carried in context and promotes
// the record message to the event field.
type contextHandler struct {
	next         slog.Handler
	hasComponent bool
}

func newContextHandler(next slog.Handler) *contextHandler {
	return &contextHandler{next: next}
}

func (h *contextHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h *contextHandler) Handle(ctx context.Context, r slog.Record) error {
	present := make(map[string]struct{}, r.NumAttrs())
	r.Attrs(func(a slog.Attr) bool {
		present[a.Key] = struct{}{}
		return true
	})

	out := slog.NewRecord(r.Time, r.Level, "", r.PC)
	if !h.hasComponent {
		if _, ok := present["component"]; !ok {
			out.AddAttrs(slog.String("component", ComponentApp))
		}
	}
	if _, ok := present["event"]; !ok {
		event := r.Message
		if event == "" {
			event = "unknown"
		}
		out.AddAttrs(slog.String("event", event))
	}
	r.Attrs(func(a slog.Attr) bool {
		out.AddAttrs(a)
		return true
	})
	out.AddAttrs(contextAttrs(ctx, present)...)
	return h.next.Handle(ctx, out)
}

func (h *contextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *h
	clone.next = h.next.WithAttrs(attrs)
	for _, a := range attrs {
		if a.Key == "component" {
			clone.hasComponent = true
		}
	}
	return &clone
}

func (h *contextHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	clone := *h
	clone.next = h.next.WithGroup(name)
	return &clone
}

func contextAttrs(ctx context.Context, present map[string]struct{}) []slog.Attr {
	if ctx == nil {
		return nil
	}
	var attrs []slog.Attr
	add := func(key string, a slog.Attr) {
		if _, ok := present[key]; ok {
			return
		}
		attrs = append(attrs, a)
	}
	m := MetaFrom(ctx)
	if m.RID != "" {
		add("rid", slog.String("rid", CompactRID(m.RID)))
	}
	if m.UpdateID != 0 {
		add("update_id", slog.Int("update_id", m.UpdateID))
	}
	if m.UserID != 0 {
		add("user_id", slog.Int64("user_id", m.UserID))
	}
	if m.ChatID != 0 {
		add("chat_id", slog.Int64("chat_id", m.ChatID))
	}
	if m.Handler != "" {
		add("handler", slog.String("handler", m.Handler))
	}
	return attrs
}

// fanoutHandler writes every record to each handler that accepts its level.
type fanoutHandler []slog.Handler

func (f fanoutHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range f {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (f fanoutHandler) Handle(ctx context.Context, r slog.Record) error {
	var errs []error
	for _, h := range f {
		if !h.Enabled(ctx, r.Level) {
			continue
		}
		if err := h.Handle(ctx, r.Clone()); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (f fanoutHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	out := make(fanoutHandler, len(f))
	for i, h := range f {
		out[i] = h.WithAttrs(attrs)
	}
	return out
}

func (f fanoutHandler) WithGroup(name string) slog.Handler {
	out := make(fanoutHandler, len(f))
	for i, h := range f {
		out[i] = h.WithGroup(name)
	}
	return out
}
