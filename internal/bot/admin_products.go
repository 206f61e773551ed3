package bot

import (
	"errors"
	"fmt"
	"log/slog"

	tele "gopkg.in/telebot.v4"

	"github.com/dunyajewellery/catalogbot/core/logger"
	"github.com/dunyajewellery/catalogbot/core/telegram/callbacks"
	"github.com/dunyajewellery/catalogbot/core/telegram/format"
	"github.com/dunyajewellery/catalogbot/core/telegram/helpers"
	"github.com/dunyajewellery/catalogbot/internal/catalog"
)

func (b *Bot) adminProducts(c tele.Context) error {
	products, err := b.products.List(helpers.BuildContext(c), false)
	if err != nil {
		return b.fail(c, "list products", err)
	}
	if len(products) == 0 {
		return helpers.EditOrSendMD(c, msgNoProductsAdmin, addProductKeyboard())
	}
	return helpers.EditOrSendMD(c, productListText(products), productListKeyboard(products))
}

// loadProduct resolves the product named by the callback payload. found is
// false when the user was already told the product is gone.
func (b *Bot) loadProduct(c tele.Context) (p *catalog.Product, found bool, err error) {
	productID, err := callbacks.PayloadInt64(c)
	if err != nil {
		return nil, false, helpers.SendMD(c, msgProductNotFound)
	}
	p, err = b.products.FindByID(helpers.BuildContext(c), productID)
	if errors.Is(err, catalog.ErrNotFound) {
		return nil, false, helpers.SendMD(c, msgProductNotFound)
	}
	if err != nil {
		return nil, false, b.fail(c, "load product", err)
	}
	return p, true, nil
}

func (b *Bot) adminProduct(c tele.Context) error {
	p, ok, err := b.loadProduct(c)
	if !ok {
		return err
	}
	control := fmt.Sprintf(msgProductControl, format.MD(p.Title))
	return b.sendProductCard(c, *p, productForAdmin(*p), control, func() *tele.ReplyMarkup {
		return productAdminKeyboard(*p)
	})
}

func (b *Bot) toggleProduct(c tele.Context) error {
	p, ok, err := b.loadProduct(c)
	if !ok {
		return err
	}
	ctx := helpers.BuildContext(c)
	active := !p.IsActive
	if err := b.products.SetActive(ctx, p.ID, active); err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			return helpers.SendMD(c, msgProductNotFound)
		}
		return b.fail(c, "toggle product", err)
	}
	logger.Info(ctx, logger.ComponentTG, "product.toggled",
		slog.Int64("product_id", p.ID),
		slog.Bool("active", active),
	)

	tpl := msgProductHidden
	if active {
		tpl = msgProductShown
	}
	p.IsActive = active
	return helpers.SendMD(c, fmt.Sprintf(tpl, format.MD(p.Title)), productAdminKeyboard(*p))
}

func (b *Bot) confirmDeleteProduct(c tele.Context) error {
	p, ok, err := b.loadProduct(c)
	if !ok {
		return err
	}
	return helpers.SendMD(c, fmt.Sprintf(msgDeleteConfirm, format.MD(p.Title)), deleteProductKeyboard(p.ID))
}

func (b *Bot) deleteProduct(c tele.Context) error {
	p, ok, err := b.loadProduct(c)
	if !ok {
		return err
	}
	ctx := helpers.BuildContext(c)
	if err := b.products.Delete(ctx, p.ID); err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			return helpers.EditOrSendMD(c, msgProductNotFound)
		}
		return b.fail(c, "delete product", err)
	}
	logger.Info(ctx, logger.ComponentTG, "product.deleted", slog.Int64("product_id", p.ID))
	return helpers.EditOrSendMD(c, fmt.Sprintf(msgProductDeleted, format.MD(p.Title)))
}

func (b *Bot) cancelDelete(c tele.Context) error {
	return helpers.EditOrSendMD(c, msgDeleteCancelled)
}
