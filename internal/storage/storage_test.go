package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	coredatabase "github.com/dunyajewellery/catalogbot/core/database"
	"github.com/dunyajewellery/catalogbot/internal/catalog"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	cfg := coredatabase.Config{
		Driver:        coredatabase.DriverSQLite,
		Path:          filepath.Join(t.TempDir(), "catalog.db"),
		MigrationsDir: filepath.Join("..", "..", "migrations"),
	}
	require.NoError(t, coredatabase.RunMigrations(cfg))

	db, err := coredatabase.ConnectContext(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return New(db)
}

func strPtr(s string) *string { return &s }

func TestProductLifecycle(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	p := &catalog.Product{
		Title:    "Gold Ring",
		Sizes:    []float64{16.5, 17},
		ImageIDs: []string{"AgAD-1", "AgAD-2"},
		IsActive: true,
	}
	require.NoError(t, s.Products.Create(ctx, p))
	require.NotZero(t, p.ID)

	got, err := s.Products.FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Gold Ring", got.Title)
	assert.Nil(t, got.Description)
	assert.Equal(t, []float64{16.5, 17}, got.Sizes)
	assert.Equal(t, []string{"AgAD-1", "AgAD-2"}, got.ImageIDs)
	assert.True(t, got.IsActive)

	got.Description = strPtr("18k")
	got.Sizes = nil
	got.ImageIDs = []string{"AgAD-3"}
	require.NoError(t, s.Products.Update(ctx, got))

	again, err := s.Products.FindByID(ctx, p.ID)
	require.NoError(t, err)
	require.NotNil(t, again.Description)
	assert.Equal(t, "18k", *again.Description)
	assert.Empty(t, again.Sizes)
	assert.Equal(t, []string{"AgAD-3"}, again.ImageIDs)

	require.NoError(t, s.Products.SetActive(ctx, p.ID, false))
	active, err := s.Products.List(ctx, true)
	require.NoError(t, err)
	assert.Empty(t, active)
	all, err := s.Products.List(ctx, false)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	require.NoError(t, s.Products.Delete(ctx, p.ID))
	_, err = s.Products.FindByID(ctx, p.ID)
	assert.ErrorIs(t, err, catalog.ErrNotFound)
}

func TestProductMissingRowsReportNotFound(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	err := s.Products.Update(ctx, &catalog.Product{ID: 404, Title: "x"})
	assert.True(t, errors.Is(err, catalog.ErrNotFound))
	assert.ErrorIs(t, s.Products.Delete(ctx, 404), catalog.ErrNotFound)
	assert.ErrorIs(t, s.Products.SetActive(ctx, 404, true), catalog.ErrNotFound)
}

func TestContactLifecycle(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	_, err := s.Contacts.Primary(ctx)
	require.ErrorIs(t, err, catalog.ErrNotFound)

	c := &catalog.Contact{
		Label:            "Asosiy",
		TelegramUsername: strPtr("dunya_jewellery"),
		PhoneNumbers:     []string{"+998901234567", "+998331234567"},
		IsActive:         true,
	}
	require.NoError(t, s.Contacts.Create(ctx, c))

	primary, err := s.Contacts.Primary(ctx)
	require.NoError(t, err)
	assert.Equal(t, c.ID, primary.ID)
	assert.Equal(t, []string{"+998901234567", "+998331234567"}, primary.PhoneNumbers)
	assert.Nil(t, primary.InstagramUsername)

	primary.PhoneNumbers = []string{"+998977654321"}
	primary.InstagramUsername = strPtr("dunya")
	require.NoError(t, s.Contacts.Update(ctx, primary))

	got, err := s.Contacts.FindByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"+998977654321"}, got.PhoneNumbers)
	require.NotNil(t, got.InstagramUsername)
	assert.Equal(t, "dunya", *got.InstagramUsername)

	n, err := s.Contacts.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	require.NoError(t, s.Contacts.Delete(ctx, c.ID))
	assert.ErrorIs(t, s.Contacts.Delete(ctx, c.ID), catalog.ErrNotFound)
}

func TestSeedDefaultContactOnlyOnce(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	def := DefaultContact{Telegram: "dunya_jewellery", Phones: []string{"+998901234567"}, Instagram: "dunya_jewellery"}

	inserted, err := SeedDefaultContact(ctx, s.Contacts, def)
	require.NoError(t, err)
	assert.True(t, inserted)

	inserted, err = SeedDefaultContact(ctx, s.Contacts, def)
	require.NoError(t, err)
	assert.False(t, inserted)

	all, err := s.Contacts.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, catalog.DefaultContactLabel, all[0].Label)
}

func TestListCodecs(t *testing.T) {
	assert.Equal(t, "16.5,17", joinSizes([]float64{16.5, 17}))
	sizes, err := splitSizes("16.5, 17,")
	require.NoError(t, err)
	assert.Equal(t, []float64{16.5, 17}, sizes)

	_, err = splitSizes("abc")
	assert.Error(t, err)
	assert.Empty(t, splitList(""))
}
