package bot

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	tele "gopkg.in/telebot.v4"

	"github.com/dunyajewellery/catalogbot/core/logger"
	"github.com/dunyajewellery/catalogbot/core/telegram/callbacks"
	"github.com/dunyajewellery/catalogbot/core/telegram/format"
	"github.com/dunyajewellery/catalogbot/core/telegram/helpers"
	"github.com/dunyajewellery/catalogbot/core/telegram/sender"
	"github.com/dunyajewellery/catalogbot/internal/catalog"
)

// sendProductCard sends p with its photos. A single photo carries caption and
// keyboard; an album carries the caption and is followed by control with the
// keyboard. Photos Telegram rejects degrade to a text card.
func (b *Bot) sendProductCard(c tele.Context, p catalog.Product, caption, control string, markup func() *tele.ReplyMarkup) error {
	var err error
	switch len(p.ImageIDs) {
	case 0:
		return helpers.SendMD(c, caption, markup())
	case 1:
		err = helpers.SendPhotoMD(c, p.ImageIDs[0], caption, markup())
	default:
		if err = helpers.SendAlbumMD(c, p.ImageIDs, caption); err == nil {
			return helpers.SendMD(c, control, markup())
		}
	}
	if err == nil || sender.StatusCode(err) != http.StatusBadRequest {
		return err
	}
	logger.Warn(helpers.BuildContext(c), logger.ComponentTG, "product.media_invalid",
		slog.Int64("product_id", p.ID),
		slog.Int("images", len(p.ImageIDs)),
		slog.String("err", logger.SanitizeLimit(err.Error(), 256)),
	)
	return helpers.SendMD(c, caption+"\n\n"+msgInvalidImages, markup())
}

func (b *Bot) clientProducts(c tele.Context) error {
	products, err := b.products.List(helpers.BuildContext(c), true)
	if err != nil {
		return b.fail(c, "list products", err)
	}
	if len(products) == 0 {
		return helpers.EditOrSendMD(c, msgNoProductsClient, clientBackKeyboard())
	}
	if err := helpers.EditOrSendMD(c, msgClientProducts); err != nil {
		return err
	}
	for _, p := range products {
		p := p
		control := fmt.Sprintf(msgProductOrderLine, format.MD(p.Title))
		err := b.sendProductCard(c, p, productForClient(p), control, func() *tele.ReplyMarkup {
			return orderKeyboard(p.ID)
		})
		if err != nil {
			return err
		}
	}
	return helpers.SendMD(c, msgProductsShown, clientAfterProductsKeyboard())
}

// shopContact returns the contact shown to customers.
func (b *Bot) shopContact(c tele.Context) (catalog.Contact, error) {
	ct, err := b.contacts.Primary(helpers.BuildContext(c))
	switch {
	case errors.Is(err, catalog.ErrNotFound):
		return b.fallback, nil
	case err != nil:
		return catalog.Contact{}, err
	}
	return *ct, nil
}

func (b *Bot) clientContact(c tele.Context) error {
	ct, err := b.shopContact(c)
	if err != nil {
		return b.fail(c, "load contact", err)
	}
	return helpers.EditOrSendMD(c, contactForClient(ct), clientBackKeyboard())
}

// order answers the order button. The button usually sits under a photo, so
// the answer is a new message rather than an edit.
func (b *Bot) order(c tele.Context) error {
	productID, err := callbacks.PayloadInt64(c)
	if err != nil {
		return helpers.SendMD(c, msgProductNotFound)
	}
	ctx := helpers.BuildContext(c)

	p, err := b.products.FindByID(ctx, productID)
	if err != nil && !errors.Is(err, catalog.ErrNotFound) {
		return b.fail(c, "load product", err)
	}
	ct, err := b.shopContact(c)
	if err != nil {
		return b.fail(c, "load contact", err)
	}

	logger.Info(ctx, logger.ComponentTG, "order.requested",
		slog.Int64("product_id", productID),
		slog.Bool("product_found", p != nil),
	)
	return helpers.SendMD(c, orderText(productID, p, ct), clientBackKeyboard())
}

func (b *Bot) backToMain(c tele.Context) error {
	return helpers.EditOrSendMD(c, msgClientWelcome, clientMainKeyboard())
}
