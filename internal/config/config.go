// Package config loads the catalog bot configuration: the shared core
// settings plus database, HTTP API, form engine and shop defaults.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"

	coreconfig "github.com/dunyajewellery/catalogbot/core/config"
	coredatabase "github.com/dunyajewellery/catalogbot/core/database"
	"github.com/dunyajewellery/catalogbot/internal/storage"
)

const (
	defaultAppName     = "Dunya Jewellery API"
	defaultAPIHost     = "0.0.0.0"
	defaultAPIPort     = 8000
	defaultIdleTimeout = 30 * time.Minute
)

// APIConfig configures the read-only HTTP API.
type APIConfig struct {
	Enabled bool   `yaml:"enabled" envconfig:"API_ENABLED"`
	Host    string `yaml:"host" envconfig:"HOST"`
	Port    int    `yaml:"port" envconfig:"PORT"`
	AppName string `yaml:"app_name" envconfig:"APP_NAME"`
	// ShutdownTimeout bounds graceful shutdown of in-flight requests.
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"API_SHUTDOWN_TIMEOUT"`
}

// Addr returns the listen address.
func (a APIConfig) Addr() string {
	return fmt.Sprintf("%s:%d", a.Host, a.Port)
}

// FormConfig tunes the conversational form engine.
type FormConfig struct {
	// IdleTimeout drops sessions without input for this long; 0 disables expiry.
	IdleTimeout time.Duration `yaml:"idle_timeout" envconfig:"FORM_IDLE_TIMEOUT"`
	// ClearOnCommitFailure drops the session when saving the record fails.
	ClearOnCommitFailure bool `yaml:"clear_on_commit_failure" envconfig:"FORM_CLEAR_ON_COMMIT_FAILURE"`
}

// ShopConfig holds storefront contact defaults.
type ShopConfig struct {
	// DefaultContact is inserted when the contacts table is empty.
	DefaultContact storage.DefaultContact `yaml:"default_contact" ignored:"true"`
	// FallbackContact is shown to customers while no active contact exists.
	FallbackContact storage.DefaultContact `yaml:"fallback_contact" ignored:"true"`
}

// Config is the full application configuration.
type Config struct {
	coreconfig.Config `yaml:",inline"`

	Database coredatabase.Config `yaml:"database"`
	API      APIConfig           `yaml:"api"`
	Form     FormConfig          `yaml:"form"`
	Shop     ShopConfig          `yaml:"shop"`
}

// CoreConfig exposes the shared core section.
func (c *Config) CoreConfig() *coreconfig.Config {
	return &c.Config
}

// Defaults returns the configuration used before the file and environment
// are applied.
func Defaults() Config {
	shopContact := storage.DefaultContact{
		Telegram:  "dunya_jewellery",
		Phones:    []string{"+998901234567"},
		Instagram: "dunya_jewellery",
	}
	return Config{
		API: APIConfig{
			Enabled:         true,
			Host:            defaultAPIHost,
			Port:            defaultAPIPort,
			AppName:         defaultAppName,
			ShutdownTimeout: 5 * time.Second,
		},
		Form: FormConfig{IdleTimeout: defaultIdleTimeout},
		Shop: ShopConfig{
			DefaultContact:  shopContact,
			FallbackContact: shopContact,
		},
	}
}

// Load reads .env (when present), the YAML file at path and the environment,
// then validates the result.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	cfg := Defaults()
	if err := coreconfig.Decode(path, &cfg); err != nil {
		return nil, err
	}
	if err := cfg.Normalize(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Normalize validates every section and fills remaining defaults.
func (c *Config) Normalize() error {
	if err := coreconfig.Normalize(&c.Config); err != nil {
		return err
	}
	if err := c.Database.Normalize(); err != nil {
		return err
	}

	if strings.TrimSpace(c.API.Host) == "" {
		c.API.Host = defaultAPIHost
	}
	if c.API.Port == 0 {
		c.API.Port = defaultAPIPort
	}
	if c.API.Port < 0 || c.API.Port > 65535 {
		return fmt.Errorf("api.port %d out of range", c.API.Port)
	}
	if strings.TrimSpace(c.API.AppName) == "" {
		c.API.AppName = defaultAppName
	}
	if c.API.ShutdownTimeout <= 0 {
		c.API.ShutdownTimeout = 5 * time.Second
	}

	if c.Form.IdleTimeout < 0 {
		return fmt.Errorf("form.idle_timeout must be >= 0")
	}
	return nil
}
