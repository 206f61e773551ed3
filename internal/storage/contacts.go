package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/dunyajewellery/catalogbot/internal/catalog"
)

const contactColumns = `id, label, telegram_username, phone_numbers, instagram_username, is_active, created_at, updated_at`

type contactRow struct {
	ID                int64     `db:"id"`
	Label             string    `db:"label"`
	TelegramUsername  *string   `db:"telegram_username"`
	PhoneNumbers      string    `db:"phone_numbers"`
	InstagramUsername *string   `db:"instagram_username"`
	IsActive          bool      `db:"is_active"`
	CreatedAt         time.Time `db:"created_at"`
	UpdatedAt         time.Time `db:"updated_at"`
}

func (r contactRow) toContact() catalog.Contact {
	return catalog.Contact{
		ID:                r.ID,
		Label:             r.Label,
		TelegramUsername:  r.TelegramUsername,
		PhoneNumbers:      splitList(r.PhoneNumbers),
		InstagramUsername: r.InstagramUsername,
		IsActive:          r.IsActive,
		CreatedAt:         r.CreatedAt,
		UpdatedAt:         r.UpdatedAt,
	}
}

// ContactRepo stores contacts.
type ContactRepo struct {
	db  *sqlx.DB
	now func() time.Time
}

var _ catalog.ContactRepository = (*ContactRepo)(nil)

// Create inserts c and fills its id and timestamps.
func (r *ContactRepo) Create(ctx context.Context, c *catalog.Contact) error {
	now := r.now()
	q := r.db.Rebind(`INSERT INTO contacts (label, telegram_username, phone_numbers, instagram_username, is_active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?) RETURNING id`)
	var id int64
	err := r.db.QueryRowxContext(ctx, q,
		c.Label, c.TelegramUsername, joinList(c.PhoneNumbers), c.InstagramUsername, c.IsActive, now, now,
	).Scan(&id)
	if err != nil {
		return fmt.Errorf("insert contact: %w", err)
	}
	c.ID, c.CreatedAt, c.UpdatedAt = id, now, now
	return nil
}

// FindByID loads a contact.
func (r *ContactRepo) FindByID(ctx context.Context, id int64) (*catalog.Contact, error) {
	var row contactRow
	q := r.db.Rebind(`SELECT ` + contactColumns + ` FROM contacts WHERE id = ?`)
	if err := r.db.GetContext(ctx, &row, q, id); err != nil {
		return nil, notFound(err)
	}
	c := row.toContact()
	return &c, nil
}

// Update overwrites every editable field of c. Phone numbers are replaced wholesale.
func (r *ContactRepo) Update(ctx context.Context, c *catalog.Contact) error {
	now := r.now()
	q := r.db.Rebind(`UPDATE contacts
		SET label = ?, telegram_username = ?, phone_numbers = ?, instagram_username = ?, is_active = ?, updated_at = ?
		WHERE id = ?`)
	err := exactlyOne(r.db.ExecContext(ctx, q,
		c.Label, c.TelegramUsername, joinList(c.PhoneNumbers), c.InstagramUsername, c.IsActive, now, c.ID,
	))
	if err != nil {
		return fmt.Errorf("update contact %d: %w", c.ID, err)
	}
	c.UpdatedAt = now
	return nil
}

// Delete removes a contact.
func (r *ContactRepo) Delete(ctx context.Context, id int64) error {
	q := r.db.Rebind(`DELETE FROM contacts WHERE id = ?`)
	if err := exactlyOne(r.db.ExecContext(ctx, q, id)); err != nil {
		return fmt.Errorf("delete contact %d: %w", id, err)
	}
	return nil
}

// List returns all contacts ordered by id.
func (r *ContactRepo) List(ctx context.Context) ([]catalog.Contact, error) {
	var rows []contactRow
	q := `SELECT ` + contactColumns + ` FROM contacts ORDER BY id`
	if err := r.db.SelectContext(ctx, &rows, q); err != nil {
		return nil, fmt.Errorf("list contacts: %w", err)
	}
	out := make([]catalog.Contact, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toContact())
	}
	return out, nil
}

// Primary returns the first active contact, the one shown to customers.
func (r *ContactRepo) Primary(ctx context.Context) (*catalog.Contact, error) {
	var row contactRow
	q := r.db.Rebind(`SELECT ` + contactColumns + ` FROM contacts WHERE is_active = ? ORDER BY id LIMIT 1`)
	if err := r.db.GetContext(ctx, &row, q, true); err != nil {
		return nil, notFound(err)
	}
	c := row.toContact()
	return &c, nil
}

// Count returns the number of stored contacts.
func (r *ContactRepo) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM contacts`); err != nil {
		return 0, fmt.Errorf("count contacts: %w", err)
	}
	return n, nil
}
