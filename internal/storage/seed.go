package storage

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/dunyajewellery/catalogbot/core/logger"
	"github.com/dunyajewellery/catalogbot/internal/catalog"
)

// DefaultContact describes the contact inserted into an empty database.
type DefaultContact struct {
	Label     string   `yaml:"label"`
	Telegram  string   `yaml:"telegram"`
	Phones    []string `yaml:"phones"`
	Instagram string   `yaml:"instagram"`
}

// SeedDefaultContact inserts def when no contact exists yet.
// It reports whether a row was inserted.
func SeedDefaultContact(ctx context.Context, repo catalog.ContactRepository, def DefaultContact) (bool, error) {
	n, err := repo.Count(ctx)
	if err != nil {
		return false, err
	}
	if n > 0 {
		logger.SEED.Debug("contacts present",
			slog.String("event", "seed.skip"),
			slog.Int("count", n),
		)
		return false, nil
	}

	c := def.Contact()
	if err := repo.Create(ctx, &c); err != nil {
		return false, fmt.Errorf("seed default contact: %w", err)
	}
	logger.SEED.Info("default contact created",
		slog.String("event", "seed.contact"),
		slog.Int64("contact_id", c.ID),
	)
	return true, nil
}

// Contact converts d into an active, unsaved contact record.
func (d DefaultContact) Contact() catalog.Contact {
	label := d.Label
	if label == "" {
		label = catalog.DefaultContactLabel
	}
	return catalog.Contact{
		Label:             label,
		TelegramUsername:  optional(d.Telegram),
		PhoneNumbers:      append([]string{}, d.Phones...),
		InstagramUsername: optional(d.Instagram),
		IsActive:          true,
	}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
