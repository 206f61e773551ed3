package api

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/dunyajewellery/catalogbot/core/buildinfo"
	"github.com/dunyajewellery/catalogbot/internal/catalog"
)

const pingTimeout = 2 * time.Second

type handlers struct {
	appName  string
	products catalog.ProductRepository
	contacts catalog.ContactRepository
	ping     func(ctx context.Context) error
}

type productResponse struct {
	ID              int64     `json:"id"`
	Title           string    `json:"title"`
	Description     *string   `json:"description"`
	Sizes           []float64 `json:"sizes"`
	TelegramFileIDs []string  `json:"telegram_file_ids"`
	IsActive        bool      `json:"is_active"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func newProductResponse(p catalog.Product) productResponse {
	out := productResponse{
		ID:              p.ID,
		Title:           p.Title,
		Description:     p.Description,
		Sizes:           p.Sizes,
		TelegramFileIDs: p.ImageIDs,
		IsActive:        p.IsActive,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
	if out.Sizes == nil {
		out.Sizes = []float64{}
	}
	if out.TelegramFileIDs == nil {
		out.TelegramFileIDs = []string{}
	}
	return out
}

type contactResponse struct {
	ID                int64     `json:"id"`
	Label             string    `json:"label"`
	TelegramUsername  *string   `json:"telegram_username"`
	PhoneNumbers      []string  `json:"phone_numbers"`
	InstagramUsername *string   `json:"instagram_username"`
	IsActive          bool      `json:"is_active"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

func newContactResponse(c catalog.Contact) contactResponse {
	phones := c.PhoneNumbers
	if phones == nil {
		phones = []string{}
	}
	return contactResponse{
		ID:                c.ID,
		Label:             c.Label,
		TelegramUsername:  c.TelegramUsername,
		PhoneNumbers:      phones,
		InstagramUsername: c.InstagramUsername,
		IsActive:          c.IsActive,
		CreatedAt:         c.CreatedAt,
		UpdatedAt:         c.UpdatedAt,
	}
}

func (h *handlers) root(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"message": h.appName,
		"status":  "running",
		"version": buildinfo.Version,
	})
}

func (h *handlers) health(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), pingTimeout)
	defer cancel()

	if err := h.ping(ctx); err != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"status":   "unhealthy",
			"app":      h.appName,
			"database": "unavailable",
		})
	}
	return c.JSON(fiber.Map{
		"status":   "healthy",
		"app":      h.appName,
		"database": "ok",
	})
}

func (h *handlers) listProducts(c *fiber.Ctx) error {
	products, err := h.products.List(c.UserContext(), true)
	if err != nil {
		return err
	}
	out := make([]productResponse, 0, len(products))
	for _, p := range products {
		out = append(out, newProductResponse(p))
	}
	return c.JSON(out)
}

func (h *handlers) getProduct(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid product id")
	}
	p, err := h.products.FindByID(c.UserContext(), id)
	if errors.Is(err, catalog.ErrNotFound) {
		return fiber.NewError(fiber.StatusNotFound, "Product not found")
	}
	if err != nil {
		return err
	}
	return c.JSON(newProductResponse(*p))
}

func (h *handlers) contact(c *fiber.Ctx) error {
	ct, err := h.contacts.Primary(c.UserContext())
	if errors.Is(err, catalog.ErrNotFound) {
		return fiber.NewError(fiber.StatusNotFound, "Contact not found")
	}
	if err != nil {
		return err
	}
	return c.JSON(newContactResponse(*ct))
}
