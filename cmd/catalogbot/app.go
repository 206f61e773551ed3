package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/dunyajewellery/catalogbot/core/bootstrap"
	"github.com/dunyajewellery/catalogbot/core/cmd"
	"github.com/dunyajewellery/catalogbot/core/logger"
	tg "github.com/dunyajewellery/catalogbot/core/telegram"
	"github.com/dunyajewellery/catalogbot/core/telegram/helpers"
	"github.com/dunyajewellery/catalogbot/core/telegram/middleware"
	"github.com/dunyajewellery/catalogbot/core/telegram/sender"
	"github.com/dunyajewellery/catalogbot/core/telegram/state"
	"github.com/dunyajewellery/catalogbot/internal/api"
	"github.com/dunyajewellery/catalogbot/internal/bot"
	"github.com/dunyajewellery/catalogbot/internal/config"
	"github.com/dunyajewellery/catalogbot/internal/form"
	"github.com/dunyajewellery/catalogbot/internal/storage"
)

func loadConfig(path string) (cmd.ConfigCarrier, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// app holds everything bootstrapApp acquired.
type app struct {
	cfg      *config.Config
	db       *sqlx.DB
	store    *storage.Store
	sessions *state.Memory[*form.Session]
	bot      *bot.Bot
	registry *tg.Registry
	api      *api.Server

	stopSweep context.CancelFunc
}

func bootstrapApp(ctx context.Context, carrier cmd.ConfigCarrier) (cmd.TelegramApp, error) {
	cfg, ok := carrier.(*config.Config)
	if !ok {
		return nil, fmt.Errorf("unexpected config type %T", carrier)
	}

	res, err := bootstrap.Run(ctx, bootstrap.Options{
		Config:   cfg.CoreConfig(),
		Database: cfg.Database,
		Seeders: []bootstrap.Seeder{
			bootstrap.SeederFunc(func(ctx context.Context, db *sqlx.DB) error {
				_, err := storage.SeedDefaultContact(ctx, storage.New(db).Contacts, cfg.Shop.DefaultContact)
				return err
			}),
		},
	})
	if err != nil {
		return nil, err
	}

	a := &app{cfg: cfg, db: res.DB, store: storage.New(res.DB)}
	if err := a.wire(); err != nil {
		_ = a.Close()
		return nil, err
	}

	sweepCtx, cancel := context.WithCancel(context.Background())
	a.stopSweep = cancel
	go a.sessions.Run(sweepCtx)

	return a, nil
}

func (a *app) wire() error {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	reg.MustRegister(form.Collectors()...)
	reg.MustRegister(middleware.Collectors()...)
	reg.MustRegister(sender.Collectors()...)

	helpers.SetSender(sender.New(sender.Options{MaxRetries: 3}))

	a.sessions = state.NewMemory[*form.Session](state.MemoryOptions{
		IdleTimeout: a.cfg.Form.IdleTimeout,
		OnExpire:    form.ObserveExpired,
	})

	isAdmin := a.cfg.Telegram.IsAdmin
	engine, err := form.New(form.Options{
		Store:                a.sessions,
		Products:             a.store.Products,
		Contacts:             a.store.Contacts,
		IsAdmin:              isAdmin,
		ClearOnCommitFailure: a.cfg.Form.ClearOnCommitFailure,
	})
	if err != nil {
		return err
	}

	a.bot, err = bot.New(bot.Options{
		Engine:          engine,
		Products:        a.store.Products,
		Contacts:        a.store.Contacts,
		IsAdmin:         isAdmin,
		FallbackContact: a.cfg.Shop.FallbackContact.Contact(),
	})
	if err != nil {
		return err
	}

	a.registry = tg.NewRegistry()
	if err := a.bot.Register(a.registry); err != nil {
		return err
	}

	if a.cfg.API.Enabled {
		a.api, err = api.New(api.Options{
			Addr:     a.cfg.API.Addr(),
			AppName:  a.cfg.API.AppName,
			Products: a.store.Products,
			Contacts: a.store.Contacts,
			Ping:     a.store.Ping,
			Gatherer: reg,
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// TelegramRunOptions assembles middlewares, routes and lifecycle hooks.
func (a *app) TelegramRunOptions() (tg.RunOptions, error) {
	core := a.cfg.CoreConfig()
	return tg.RunOptions{
		Config:      core,
		Registry:    a.registry,
		Middlewares: tg.DefaultMiddlewares(core, a.bot.OnRateLimited),
		Routes:      a.bot.Routes(a.registry),
		OnStart:     a.onStart,
		OnStop:      a.onStop,
	}, nil
}

func (a *app) onStart(ctx context.Context, _ tg.Runtime) error {
	if a.api == nil {
		logger.Info(ctx, logger.ComponentApp, "api.disabled")
		return nil
	}
	go func() {
		if err := a.api.Listen(); err != nil {
			logger.Error(context.Background(), logger.ComponentApp, "api.failed",
				slog.String("err", err.Error()),
			)
		}
	}()
	return nil
}

func (a *app) onStop(ctx context.Context, _ tg.Runtime) error {
	if a.api == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, a.cfg.API.ShutdownTimeout)
	defer cancel()
	return a.api.Shutdown(ctx)
}

// Close stops the session sweeper and releases the database handle.
func (a *app) Close() error {
	if a.stopSweep != nil {
		a.stopSweep()
	}
	if a.db == nil {
		return nil
	}
	return a.db.Close()
}
