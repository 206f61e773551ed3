package logger

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/dunyajewellery/catalogbot/core/buildinfo"
	coreconfig "github.com/dunyajewellery/catalogbot/core/config"
)

// Component names shared by every package that logs.
const (
	ComponentApp     = "app"
	ComponentTG      = "tg"
	ComponentTGWire  = "tg.wire"
	ComponentDB      = "db"
	ComponentMigrate = "db.migrate"
	ComponentSeed    = "db.seed"
	ComponentAPI     = "api"
	ComponentForm    = "form"
	ComponentStore   = "store"
)

var (
	initOnce   sync.Once
	shutdownMu sync.Mutex
	shutdowned bool
	logClosers []io.Closer

	levelVar slog.LevelVar

	// L is the base logger. It writes text to stderr until InitLogger runs.
	L *slog.Logger

	// DB logs database events.
	DB *slog.Logger
	// TG logs Telegram transport events.
	TG *slog.Logger
	// MIG logs database migration events.
	MIG *slog.Logger
	// TWire logs Telegram wiring steps.
	TWire *slog.Logger
	// SEED logs reference data seeding.
	SEED *slog.Logger
	// API logs HTTP API events.
	API *slog.Logger
)

func init() {
	install(slog.New(newContextHandler(newBaseHandler(os.Stderr, formatKV, &levelVar))))
}

func install(base *slog.Logger) {
	L = base
	DB = L.With("component", ComponentDB)
	TG = L.With("component", ComponentTG)
	MIG = L.With("component", ComponentMigrate)
	TWire = L.With("component", ComponentTGWire)
	SEED = L.With("component", ComponentSeed)
	API = L.With("component", ComponentAPI)
}

// InitLogger configures the global structured logger. Only the first call has effect.
func InitLogger(cfg *coreconfig.Config) error {
	var initErr error
	initOnce.Do(func() {
		format := selectFormat(cfg)
		levelVar.Set(selectLevel(cfg))

		handlers := []slog.Handler{newBaseHandler(os.Stdout, format, &levelVar)}
		if cfg != nil {
			if f, err := openSink(cfg.Logging.Dir, cfg.Logging.BotFile); err != nil {
				initErr = err
				return
			} else if f != nil {
				logClosers = append(logClosers, f)
				handlers = append(handlers, newBaseHandler(f, format, &levelVar))
			}
			if f, err := openSink(cfg.Logging.Dir, cfg.Logging.ErrorsFile); err != nil {
				initErr = err
				return
			} else if f != nil {
				logClosers = append(logClosers, f)
				handlers = append(handlers, newBaseHandler(f, format, slog.LevelError))
			}
		}

		var base slog.Handler = handlers[0]
		if len(handlers) > 1 {
			base = fanoutHandler(handlers)
		}
		logger := slog.New(newContextHandler(base))
		install(logger)
		slog.SetDefault(logger)
		logStartup(cfg)
	})
	return initErr
}

func openSink(dir, file string) (*os.File, error) {
	dir, file = strings.TrimSpace(dir), strings.TrimSpace(file)
	if dir == "" || file == "" {
		return nil, nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("logger: create log dir %s: %w", dir, err)
	}
	path := filepath.Join(dir, file)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("logger: open log file %s: %w", path, err)
	}
	return f, nil
}

func logStartup(cfg *coreconfig.Config) {
	attrs := []slog.Attr{
		slog.String("event", "startup"),
		slog.String("go_version", runtime.Version()),
		slog.String("build_version", buildinfo.Version),
		slog.String("build_commit", buildinfo.Commit),
		slog.String("build_time", buildinfo.Date),
		slog.String("cfg_profile", selectProfile(cfg)),
	}
	L.LogAttrs(context.Background(), slog.LevelInfo, "startup", attrs...)
}

// Shutdown closes opened file sinks.
func Shutdown() error {
	shutdownMu.Lock()
	defer shutdownMu.Unlock()
	if shutdowned {
		return nil
	}
	shutdowned = true

	var errs []error
	for _, c := range logClosers {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func selectFormat(cfg *coreconfig.Config) logFormat {
	if cfg == nil {
		return formatJSON
	}
	switch strings.ToLower(strings.TrimSpace(cfg.Logging.Format)) {
	case "kv", "text", "pretty":
		return formatKV
	case "json":
		return formatJSON
	}
	// Human-friendly output for debug/dev profiles.
	if p := selectProfile(cfg); p == "debug" || p == "dev" {
		return formatKV
	}
	return formatJSON
}

func selectLevel(cfg *coreconfig.Config) slog.Level {
	if cfg == nil {
		return slog.LevelInfo
	}
	switch strings.ToLower(strings.TrimSpace(cfg.Logging.Level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func selectProfile(cfg *coreconfig.Config) string {
	if cfg == nil {
		return "prod"
	}
	if profile := strings.TrimSpace(cfg.Logging.Profile); profile != "" {
		return strings.ToLower(profile)
	}
	return "prod"
}

// DebugEnabled reports whether debug records are currently emitted.
func DebugEnabled() bool {
	return levelVar.Level() <= slog.LevelDebug
}

// LogEvent logs attrs with the event attribute placed first.
// A nil logg falls back to the logger stored in ctx.
func LogEvent(ctx context.Context, logg *slog.Logger, level slog.Level, event string, attrs ...slog.Attr) {
	if logg == nil {
		logg = FromContext(ctx)
	}
	if event != "" {
		attrs = append([]slog.Attr{slog.String("event", event)}, attrs...)
	}
	logg.LogAttrs(ctx, level, "", attrs...)
}

// Component returns a logger scoped to the named component.
func Component(name string) *slog.Logger {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return L
	}
	return L.With("component", trimmed)
}

// Event logs with component scope.
func Event(ctx context.Context, component string, level slog.Level, event string, attrs ...slog.Attr) {
	LogEvent(ctx, Component(component), level, event, attrs...)
}

// Debug logs a debug-level event for the given component.
func Debug(ctx context.Context, component, event string, attrs ...slog.Attr) {
	Event(ctx, component, slog.LevelDebug, event, attrs...)
}

// Info logs an info-level event for the given component.
func Info(ctx context.Context, component, event string, attrs ...slog.Attr) {
	Event(ctx, component, slog.LevelInfo, event, attrs...)
}

// Warn logs a warn-level event for the given component.
func Warn(ctx context.Context, component, event string, attrs ...slog.Attr) {
	Event(ctx, component, slog.LevelWarn, event, attrs...)
}

// Error logs an error-level event for the given component.
func Error(ctx context.Context, component, event string, attrs ...slog.Attr) {
	Event(ctx, component, slog.LevelError, event, attrs...)
}
