package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/dunyajewellery/catalogbot/internal/catalog"
)

const productColumns = `id, title, description, sizes, image_ids, is_active, created_at, updated_at`

type productRow struct {
	ID          int64     `db:"id"`
	Title       string    `db:"title"`
	Description *string   `db:"description"`
	Sizes       string    `db:"sizes"`
	ImageIDs    string    `db:"image_ids"`
	IsActive    bool      `db:"is_active"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

func (r productRow) toProduct() (catalog.Product, error) {
	sizes, err := splitSizes(r.Sizes)
	if err != nil {
		return catalog.Product{}, err
	}
	return catalog.Product{
		ID:          r.ID,
		Title:       r.Title,
		Description: r.Description,
		Sizes:       sizes,
		ImageIDs:    splitList(r.ImageIDs),
		IsActive:    r.IsActive,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}, nil
}

// ProductRepo stores products.
type ProductRepo struct {
	db  *sqlx.DB
	now func() time.Time
}

var _ catalog.ProductRepository = (*ProductRepo)(nil)

// Create inserts p and fills its id and timestamps.
func (r *ProductRepo) Create(ctx context.Context, p *catalog.Product) error {
	now := r.now()
	q := r.db.Rebind(`INSERT INTO products (title, description, sizes, image_ids, is_active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?) RETURNING id`)
	var id int64
	err := r.db.QueryRowxContext(ctx, q,
		p.Title, p.Description, joinSizes(p.Sizes), joinList(p.ImageIDs), p.IsActive, now, now,
	).Scan(&id)
	if err != nil {
		return fmt.Errorf("insert product: %w", err)
	}
	p.ID, p.CreatedAt, p.UpdatedAt = id, now, now
	return nil
}

// FindByID loads a product regardless of its active flag.
func (r *ProductRepo) FindByID(ctx context.Context, id int64) (*catalog.Product, error) {
	var row productRow
	q := r.db.Rebind(`SELECT ` + productColumns + ` FROM products WHERE id = ?`)
	if err := r.db.GetContext(ctx, &row, q, id); err != nil {
		return nil, notFound(err)
	}
	p, err := row.toProduct()
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Update overwrites every editable field of p.
func (r *ProductRepo) Update(ctx context.Context, p *catalog.Product) error {
	now := r.now()
	q := r.db.Rebind(`UPDATE products
		SET title = ?, description = ?, sizes = ?, image_ids = ?, is_active = ?, updated_at = ?
		WHERE id = ?`)
	err := exactlyOne(r.db.ExecContext(ctx, q,
		p.Title, p.Description, joinSizes(p.Sizes), joinList(p.ImageIDs), p.IsActive, now, p.ID,
	))
	if err != nil {
		return fmt.Errorf("update product %d: %w", p.ID, err)
	}
	p.UpdatedAt = now
	return nil
}

// SetActive toggles the visibility of a product for customers.
func (r *ProductRepo) SetActive(ctx context.Context, id int64, active bool) error {
	q := r.db.Rebind(`UPDATE products SET is_active = ?, updated_at = ? WHERE id = ?`)
	if err := exactlyOne(r.db.ExecContext(ctx, q, active, r.now(), id)); err != nil {
		return fmt.Errorf("set product %d active: %w", id, err)
	}
	return nil
}

// Delete removes a product.
func (r *ProductRepo) Delete(ctx context.Context, id int64) error {
	q := r.db.Rebind(`DELETE FROM products WHERE id = ?`)
	if err := exactlyOne(r.db.ExecContext(ctx, q, id)); err != nil {
		return fmt.Errorf("delete product %d: %w", id, err)
	}
	return nil
}

// List returns products ordered by id, optionally only active ones.
func (r *ProductRepo) List(ctx context.Context, activeOnly bool) ([]catalog.Product, error) {
	q := `SELECT ` + productColumns + ` FROM products`
	var args []any
	if activeOnly {
		q += ` WHERE is_active = ?`
		args = append(args, true)
	}
	q += ` ORDER BY id`

	var rows []productRow
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(q), args...); err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	out := make([]catalog.Product, 0, len(rows))
	for _, row := range rows {
		p, err := row.toProduct()
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}
