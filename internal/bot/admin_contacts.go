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

func (b *Bot) adminContacts(c tele.Context) error {
	contacts, err := b.contacts.List(helpers.BuildContext(c))
	if err != nil {
		return b.fail(c, "list contacts", err)
	}
	if len(contacts) == 0 {
		return helpers.EditOrSendMD(c, msgNoContactsAdmin, addContactKeyboard())
	}
	return helpers.EditOrSendMD(c, contactListText(contacts), contactListKeyboard(contacts))
}

func (b *Bot) loadContact(c tele.Context) (ct *catalog.Contact, found bool, err error) {
	contactID, err := callbacks.PayloadInt64(c)
	if err != nil {
		return nil, false, helpers.SendMD(c, msgContactNotFound)
	}
	ct, err = b.contacts.FindByID(helpers.BuildContext(c), contactID)
	if errors.Is(err, catalog.ErrNotFound) {
		return nil, false, helpers.SendMD(c, msgContactNotFound)
	}
	if err != nil {
		return nil, false, b.fail(c, "load contact", err)
	}
	return ct, true, nil
}

func (b *Bot) adminContact(c tele.Context) error {
	ct, ok, err := b.loadContact(c)
	if !ok {
		return err
	}
	return helpers.EditOrSendMD(c, contactForAdmin(*ct), contactAdminKeyboard(*ct, true))
}

// editContactMenu shows the primary contact with its field edit buttons.
func (b *Bot) editContactMenu(c tele.Context) error {
	ct, err := b.contacts.Primary(helpers.BuildContext(c))
	if errors.Is(err, catalog.ErrNotFound) {
		return helpers.SendMD(c, msgContactNotFound, addContactKeyboard())
	}
	if err != nil {
		return b.fail(c, "load contact", err)
	}
	text := msgEditContactStart + "\n\n" + contactForAdmin(*ct)
	return helpers.SendMD(c, text, contactAdminKeyboard(*ct, false))
}

func (b *Bot) confirmDeleteContact(c tele.Context) error {
	ct, ok, err := b.loadContact(c)
	if !ok {
		return err
	}
	return helpers.SendMD(c, fmt.Sprintf(msgDeleteContactConfirm, format.MD(ct.Label)), deleteContactKeyboard(ct.ID))
}

func (b *Bot) deleteContact(c tele.Context) error {
	ct, ok, err := b.loadContact(c)
	if !ok {
		return err
	}
	ctx := helpers.BuildContext(c)
	if err := b.contacts.Delete(ctx, ct.ID); err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			return helpers.EditOrSendMD(c, msgContactNotFound)
		}
		return b.fail(c, "delete contact", err)
	}
	logger.Info(ctx, logger.ComponentTG, "contact.deleted", slog.Int64("contact_id", ct.ID))
	return helpers.EditOrSendMD(c, fmt.Sprintf(msgContactDeleted, format.MD(ct.Label)))
}
