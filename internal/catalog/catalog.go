// Package catalog holds the storefront records managed by the bot.
package catalog

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a record with the requested id does not exist.
var ErrNotFound = errors.New("catalog: record not found")

// Product is a single jewelry item.
type Product struct {
	ID          int64
	Title       string
	Description *string
	Sizes       []float64
	ImageIDs    []string
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Contact is a set of channels customers use to reach the shop.
type Contact struct {
	ID                int64
	Label             string
	TelegramUsername  *string
	PhoneNumbers      []string
	InstagramUsername *string
	IsActive          bool
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// DefaultContactLabel names the contact seeded on first start.
const DefaultContactLabel = "Asosiy"

// ProductRepository persists products.
type ProductRepository interface {
	Create(ctx context.Context, p *Product) error
	FindByID(ctx context.Context, id int64) (*Product, error)
	Update(ctx context.Context, p *Product) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, activeOnly bool) ([]Product, error)
	SetActive(ctx context.Context, id int64, active bool) error
}

// ContactRepository persists contacts.
type ContactRepository interface {
	Create(ctx context.Context, c *Contact) error
	FindByID(ctx context.Context, id int64) (*Contact, error)
	Update(ctx context.Context, c *Contact) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context) ([]Contact, error)
	Primary(ctx context.Context) (*Contact, error)
	Count(ctx context.Context) (int, error)
}

// Clone returns a deep copy of p.
func (p Product) Clone() Product {
	out := p
	if p.Description != nil {
		d := *p.Description
		out.Description = &d
	}
	out.Sizes = append([]float64(nil), p.Sizes...)
	out.ImageIDs = append([]string(nil), p.ImageIDs...)
	return out
}

// Clone returns a deep copy of c.
func (c Contact) Clone() Contact {
	out := c
	if c.TelegramUsername != nil {
		v := *c.TelegramUsername
		out.TelegramUsername = &v
	}
	if c.InstagramUsername != nil {
		v := *c.InstagramUsername
		out.InstagramUsername = &v
	}
	out.PhoneNumbers = append([]string(nil), c.PhoneNumbers...)
	return out
}
