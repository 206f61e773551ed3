// Package cmd runs a bot process: config, bootstrap, the Telegram loop and
// graceful shutdown on SIGINT or SIGTERM.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dunyajewellery/catalogbot/core/buildinfo"
	coreconfig "github.com/dunyajewellery/catalogbot/core/config"
	"github.com/dunyajewellery/catalogbot/core/logger"
	coretelegram "github.com/dunyajewellery/catalogbot/core/telegram"
)

// ConfigCarrier is an application config that embeds the core section.
type ConfigCarrier interface {
	CoreConfig() *coreconfig.Config
}

// TelegramApp is what Bootstrap hands back to the runner.
// Close releases what Bootstrap acquired and runs after the bot stops.
type TelegramApp interface {
	TelegramRunOptions() (coretelegram.RunOptions, error)
	Close() error
}

// Options describe how to load configuration, bootstrap the app, and run the bot.
type Options struct {
	// ConfigEnvVar names the variable holding the config path; CONFIG_PATH by default.
	ConfigEnvVar      string
	DefaultConfigPath string

	LoadConfig func(path string) (ConfigCarrier, error)
	Bootstrap  func(ctx context.Context, cfg ConfigCarrier) (TelegramApp, error)

	// ShutdownLogger and RunTelegram default to the core implementations.
	ShutdownLogger func() error
	RunTelegram    func(ctx context.Context, opts coretelegram.RunOptions) error
}

func (o Options) configPath() (string, error) {
	env := o.ConfigEnvVar
	if env == "" {
		env = "CONFIG_PATH"
	}
	if p := os.Getenv(env); p != "" {
		return p, nil
	}
	if o.DefaultConfigPath != "" {
		return o.DefaultConfigPath, nil
	}
	return "", fmt.Errorf("cmd: config path not provided via %s or DefaultConfigPath", env)
}

// Run loads configuration, bootstraps the app and blocks in the Telegram
// loop until a termination signal arrives.
func Run(opts Options) error {
	if opts.LoadConfig == nil || opts.Bootstrap == nil {
		return errors.New("cmd: LoadConfig and Bootstrap are required")
	}
	if opts.ShutdownLogger == nil {
		opts.ShutdownLogger = logger.Shutdown
	}
	if opts.RunTelegram == nil {
		opts.RunTelegram = coretelegram.RunTelegram
	}

	path, err := opts.configPath()
	if err != nil {
		return err
	}
	log.Printf("catalogbot %s: loading config %s", buildinfo.String(), path)
	cfg, err := opts.LoadConfig(path)
	if err != nil {
		return fmt.Errorf("cmd: failed to load config: %w", err)
	}
	if cfg.CoreConfig() == nil {
		return errors.New("cmd: loaded config is missing core configuration")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	startedAt := time.Now()
	app, err := opts.Bootstrap(ctx, cfg)
	if err != nil {
		return fmt.Errorf("cmd: bootstrap failed: %w", err)
	}
	defer func() {
		if cerr := app.Close(); cerr != nil {
			logger.L.Warn("close failed",
				slog.String("component", logger.ComponentApp),
				slog.String("event", "close"),
				slog.String("err", cerr.Error()),
			)
		}
		if lerr := opts.ShutdownLogger(); lerr != nil {
			log.Printf("logger shutdown error: %v", lerr)
		}
	}()

	runOpts, err := app.TelegramRunOptions()
	if err != nil {
		return fmt.Errorf("cmd: telegram options build failed: %w", err)
	}
	runOpts.OnStart = announceReady(runOpts.OnStart, startedAt)
	runOpts.OnStop = announceShutdown(runOpts.OnStop)

	return opts.RunTelegram(ctx, runOpts)
}

type hook = func(ctx context.Context, rt coretelegram.Runtime) error

func announceReady(next hook, startedAt time.Time) hook {
	return func(ctx context.Context, rt coretelegram.Runtime) error {
		if next != nil {
			if err := next(ctx, rt); err != nil {
				return err
			}
		}
		logger.Component(logger.ComponentApp).Info("app ready",
			slog.String("event", "ready"),
			slog.String("version", buildinfo.Version),
			slog.Duration("startup_duration", logger.Took(startedAt)),
		)
		return nil
	}
}

func announceShutdown(next hook) hook {
	return func(ctx context.Context, rt coretelegram.Runtime) error {
		logger.Component(logger.ComponentApp).Info("shutting down...",
			slog.String("event", "shutdown"),
		)
		if next == nil {
			return nil
		}
		return next(ctx, rt)
	}
}
