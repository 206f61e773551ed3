package cmd

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	coreconfig "github.com/dunyajewellery/catalogbot/core/config"
	coretelegram "github.com/dunyajewellery/catalogbot/core/telegram"
)

type testConfig struct{ core *coreconfig.Config }

func (c testConfig) CoreConfig() *coreconfig.Config { return c.core }

type testApp struct {
	closed bool
	events []string
}

func (a *testApp) TelegramRunOptions() (coretelegram.RunOptions, error) {
	return coretelegram.RunOptions{
		OnStart: func(context.Context, coretelegram.Runtime) error {
			a.events = append(a.events, "start")
			return nil
		},
		OnStop: func(context.Context, coretelegram.Runtime) error {
			a.events = append(a.events, "stop")
			return nil
		},
	}, nil
}

func (a *testApp) Close() error {
	a.closed = true
	return nil
}

func TestRunWiresLifecycle(t *testing.T) {
	t.Setenv("CATALOGBOT_TEST_CONFIG", "config.yaml")
	app := &testApp{}
	var gotPath string

	err := Run(Options{
		ConfigEnvVar: "CATALOGBOT_TEST_CONFIG",
		LoadConfig: func(path string) (ConfigCarrier, error) {
			gotPath = path
			return testConfig{core: &coreconfig.Config{}}, nil
		},
		Bootstrap: func(context.Context, ConfigCarrier) (TelegramApp, error) {
			return app, nil
		},
		ShutdownLogger: func() error { return nil },
		RunTelegram: func(ctx context.Context, opts coretelegram.RunOptions) error {
			if err := opts.OnStart(ctx, coretelegram.Runtime{}); err != nil {
				return err
			}
			return opts.OnStop(ctx, coretelegram.Runtime{})
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "config.yaml", gotPath)
	assert.Equal(t, []string{"start", "stop"}, app.events)
	assert.True(t, app.closed)
}

func TestRunRequiresHooks(t *testing.T) {
	assert.Error(t, Run(Options{}))
}

func TestRunReportsBootstrapFailure(t *testing.T) {
	boom := errors.New("db down")
	err := Run(Options{
		DefaultConfigPath: "config.yaml",
		LoadConfig: func(string) (ConfigCarrier, error) {
			return testConfig{core: &coreconfig.Config{}}, nil
		},
		Bootstrap: func(context.Context, ConfigCarrier) (TelegramApp, error) {
			return nil, boom
		},
	})
	assert.ErrorIs(t, err, boom)
}
