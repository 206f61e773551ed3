package bot

import (
	"errors"
	"strings"

	tele "gopkg.in/telebot.v4"

	"github.com/dunyajewellery/catalogbot/core/telegram/callbacks"
	"github.com/dunyajewellery/catalogbot/core/telegram/helpers"
	"github.com/dunyajewellery/catalogbot/internal/catalog"
	"github.com/dunyajewellery/catalogbot/internal/form"
)

// Active reports whether the sender is mid-workflow.
func (b *Bot) Active(userID int64) bool {
	return b.engine.Active(userID)
}

// HandleText feeds a text message to the sender's workflow. Slash commands
// that reach here are not registered and are not taken as field values.
func (b *Bot) HandleText(c tele.Context) error {
	if strings.HasPrefix(strings.TrimSpace(c.Text()), "/") {
		return helpers.SendMD(c, msgFormCommand)
	}
	return b.feed(c, form.Text(c.Text()))
}

// HandlePhoto feeds the largest size of a photo to the sender's workflow.
func (b *Bot) HandlePhoto(c tele.Context) error {
	msg := c.Message()
	if msg == nil || msg.Photo == nil {
		return nil
	}
	return b.feed(c, form.Photo(msg.Photo.FileID))
}

func (b *Bot) formKeep(c tele.Context) error {
	return b.feed(c, form.Keep())
}

func (b *Bot) formDone(c tele.Context) error {
	return b.feed(c, form.Text("tayyor"))
}

func (b *Bot) feed(c tele.Context, in form.Input) error {
	if c.Sender() == nil {
		return nil
	}
	userID := c.Sender().ID
	r := b.engine.Handle(helpers.BuildContext(c), userID, in)
	if r.Outcome == form.OutcomeIgnored {
		if c.Callback() != nil {
			return helpers.SendMD(c, msgNoActiveForm)
		}
		return nil
	}
	return b.sendReply(c, r)
}

func (b *Bot) sendReply(c tele.Context, r form.Reply) error {
	retained := r.Outcome == form.OutcomeFailed && b.engine.Active(c.Sender().ID)
	text := replyText(r, retained)
	if text == "" {
		return nil
	}
	if markup := replyMarkup(r, retained); markup != nil {
		return helpers.SendMD(c, text, markup)
	}
	return helpers.SendMD(c, text)
}

// started renders the outcome of a workflow start call.
func (b *Bot) started(c tele.Context, r form.Reply, err error, notFound string) error {
	switch {
	case errors.Is(err, form.ErrAccessDenied):
		return b.denied(c)
	case errors.Is(err, catalog.ErrNotFound):
		return helpers.SendMD(c, notFound)
	case err != nil:
		return b.fail(c, "start form", err)
	}
	return b.sendReply(c, r)
}

func (b *Bot) startAddProduct(c tele.Context) error {
	r, err := b.engine.StartCreateProduct(helpers.BuildContext(c), c.Sender().ID)
	return b.started(c, r, err, msgProductNotFound)
}

func (b *Bot) startEditProduct(c tele.Context) error {
	productID, err := callbacks.PayloadInt64(c)
	if err != nil {
		return helpers.SendMD(c, msgProductNotFound)
	}
	r, err := b.engine.StartEditProduct(helpers.BuildContext(c), c.Sender().ID, productID)
	return b.started(c, r, err, msgProductNotFound)
}

func (b *Bot) startAddContact(c tele.Context) error {
	r, err := b.engine.StartCreateContact(helpers.BuildContext(c), c.Sender().ID)
	return b.started(c, r, err, msgContactNotFound)
}

func (b *Bot) startEditContact(c tele.Context) error {
	contactID, err := callbacks.PayloadInt64(c)
	if err != nil {
		return helpers.SendMD(c, msgContactNotFound)
	}
	r, err := b.engine.StartEditContact(helpers.BuildContext(c), c.Sender().ID, contactID)
	return b.started(c, r, err, msgContactNotFound)
}

func (b *Bot) startEditContactField(c tele.Context) error {
	contactID, field, err := callbacks.PayloadIDAndField(c)
	if err != nil {
		return helpers.SendMD(c, msgContactNotFound)
	}
	r, err := b.engine.StartEditContactField(helpers.BuildContext(c), c.Sender().ID, contactID, form.Field(field))
	if errors.Is(err, form.ErrUnknownField) {
		return helpers.SendMD(c, msgErrorOccurred)
	}
	return b.started(c, r, err, msgContactNotFound)
}

func (b *Bot) cancel(c tele.Context) error {
	if c.Sender() == nil || !b.engine.Cancel(helpers.BuildContext(c), c.Sender().ID) {
		return helpers.SendMD(c, msgNothingToCancel)
	}
	if b.senderIsAdmin(c) {
		return helpers.SendMD(c, msgFormCancelled, adminReplyKeyboard())
	}
	return helpers.SendMD(c, msgFormCancelled)
}

func (b *Bot) formCancel(c tele.Context) error {
	if c.Sender() == nil || !b.engine.Cancel(helpers.BuildContext(c), c.Sender().ID) {
		return helpers.EditOrSendMD(c, msgNothingToCancel)
	}
	return helpers.EditOrSendMD(c, msgFormCancelled)
}
