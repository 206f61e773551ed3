package router

import (
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"strings"
	"time"

	tele "gopkg.in/telebot.v4"

	"github.com/dunyajewellery/catalogbot/core/logger"
	tghelpers "github.com/dunyajewellery/catalogbot/core/telegram/helpers"
	"github.com/dunyajewellery/catalogbot/core/telegram/middleware"
)

// summarize wraps h so each invocation ends with one handler.handled line.
func summarize(name string, h tele.HandlerFunc) tele.HandlerFunc {
	return func(c tele.Context) error {
		return run(c, name, time.Now(), h)
	}
}

// run tags the update context with name, calls h and logs the result.
func run(c tele.Context, name string, start time.Time, h tele.HandlerFunc, extras ...slog.Attr) error {
	tghelpers.WithHandler(c, name)
	err := h(c)
	status := "ok"
	if err != nil {
		status = "fail"
	}
	summary(c, name, start, status, err, extras...)
	return err
}

// skip logs an update that no handler claimed.
func skip(c tele.Context, name string, start time.Time, extras ...slog.Attr) {
	summary(c, name, start, "skip", nil, extras...)
}

func summary(c tele.Context, name string, start time.Time, status string, err error, extras ...slog.Attr) {
	ctx := tghelpers.WithHandler(c, name)
	msgs, kb := middleware.GetCounters(c)

	attrs := append([]slog.Attr{
		slog.String("status", status),
		slog.Int("messages", msgs),
		slog.Bool("kb", kb),
		slog.Int64("took_ms", logger.RoundMS(time.Since(start)).Milliseconds()),
	}, extras...)

	level := slog.LevelInfo
	if err != nil {
		level = slog.LevelError
		attrs = append(attrs,
			slog.String("err", logger.SanitizeLimit(err.Error(), 256)),
			slog.String("err_code", deriveErrorCode(err)),
		)
	}
	logger.LogEvent(ctx, logger.Component(logger.ComponentTG), level, "handler.handled", attrs...)
}

func normalizeHandlerName(name string) string {
	name = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(name), "/"))
	if name == "" {
		return "unknown"
	}
	return strings.ReplaceAll(name, " ", "_")
}

// deriveErrorCode labels err for log filtering: an explicit Code(), the Bot
// API status as TG_<code>, or the type name of the innermost error.
func deriveErrorCode(err error) string {
	if err == nil {
		return ""
	}
	var coded interface{ Code() string }
	if errors.As(err, &coded) {
		if code := strings.TrimSpace(coded.Code()); code != "" {
			return strings.ToUpper(strings.ReplaceAll(code, " ", "_"))
		}
	}
	var tgErr *tele.Error
	if errors.As(err, &tgErr) {
		return fmt.Sprintf("TG_%d", tgErr.Code)
	}
	for inner := errors.Unwrap(err); inner != nil; inner = errors.Unwrap(err) {
		err = inner
	}
	t := reflect.TypeOf(err)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Name() == "" {
		return "UNKNOWN_ERROR"
	}
	return strings.ToUpper(t.Name())
}
