// Package storage implements the catalog repositories on top of sqlx.
//
// Queries are written once with '?' placeholders and rebound for the active
// driver, so the same code serves Postgres and SQLite. List-valued fields are
// stored as comma separated TEXT columns.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/dunyajewellery/catalogbot/internal/catalog"
)

// Store bundles the repositories backed by one database handle.
type Store struct {
	db       *sqlx.DB
	Products *ProductRepo
	Contacts *ContactRepo
}

// New wires repositories over db.
func New(db *sqlx.DB) *Store {
	return &Store{
		db:       db,
		Products: &ProductRepo{db: db, now: utcNow},
		Contacts: &ContactRepo{db: db, now: utcNow},
	}
}

// Ping verifies the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// DriverName reports the sqlx driver in use.
func (s *Store) DriverName() string {
	return s.db.DriverName()
}

func utcNow() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

func exactlyOne(res sql.Result, err error) error {
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return catalog.ErrNotFound
	}
	return nil
}

func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return catalog.ErrNotFound
	}
	return err
}

func joinSizes(sizes []float64) string {
	parts := make([]string, 0, len(sizes))
	for _, s := range sizes {
		parts = append(parts, strconv.FormatFloat(s, 'f', -1, 64))
	}
	return strings.Join(parts, ",")
}

func splitSizes(raw string) ([]float64, error) {
	parts := splitList(raw)
	sizes := make([]float64, 0, len(parts))
	for _, p := range parts {
		v, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return nil, fmt.Errorf("decode sizes %q: %w", raw, err)
		}
		sizes = append(sizes, v)
	}
	return sizes, nil
}

func joinList(items []string) string {
	return strings.Join(items, ",")
}

func splitList(raw string) []string {
	out := []string{}
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
