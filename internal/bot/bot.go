// Package bot is the Telegram face of the catalog: client browsing, admin
// management screens and the glue between chat updates and the form engine.
package bot

import (
	"errors"
	"fmt"
	"log/slog"

	tele "gopkg.in/telebot.v4"

	"github.com/dunyajewellery/catalogbot/core/logger"
	tg "github.com/dunyajewellery/catalogbot/core/telegram"
	"github.com/dunyajewellery/catalogbot/core/telegram/commands"
	"github.com/dunyajewellery/catalogbot/core/telegram/helpers"
	"github.com/dunyajewellery/catalogbot/core/telegram/middleware"
	"github.com/dunyajewellery/catalogbot/core/telegram/router"
	"github.com/dunyajewellery/catalogbot/internal/catalog"
	"github.com/dunyajewellery/catalogbot/internal/form"
)

// Options wires the bot to the engine and repositories.
type Options struct {
	Engine   *form.Engine
	Products catalog.ProductRepository
	Contacts catalog.ContactRepository
	IsAdmin  func(userID int64) bool
	// FallbackContact is shown to customers while no active contact exists.
	FallbackContact catalog.Contact
}

// Bot owns the chat handlers.
type Bot struct {
	engine   *form.Engine
	products catalog.ProductRepository
	contacts catalog.ContactRepository
	isAdmin  func(int64) bool
	fallback catalog.Contact
}

var _ router.Form = (*Bot)(nil)

// New validates opts.
func New(opts Options) (*Bot, error) {
	switch {
	case opts.Engine == nil:
		return nil, errors.New("bot: nil form engine")
	case opts.Products == nil || opts.Contacts == nil:
		return nil, errors.New("bot: nil repository")
	case opts.IsAdmin == nil:
		return nil, errors.New("bot: nil admin check")
	}
	return &Bot{
		engine:   opts.Engine,
		products: opts.Products,
		contacts: opts.Contacts,
		isAdmin:  opts.IsAdmin,
		fallback: opts.FallbackContact,
	}, nil
}

// Register adds every command, callback and the text fallback to reg.
func (b *Bot) Register(reg *tg.Registry) error {
	cmds := []struct {
		name string
		cmd  commands.Command
	}{
		{"/start", commands.Command{Handler: b.start, Description: "Asosiy menyu"}},
		{"/help", commands.Command{Handler: b.help, Description: "Yordam"}},
		{"/cancel", commands.Command{Handler: b.cancel, Description: "Joriy amalni bekor qilish", Visibility: commands.Hidden}},
		{"/add", commands.Command{Handler: b.startAddProduct, Description: "Mahsulot qo'shish", Visibility: commands.Admin}},
		{"/add_contact", commands.Command{Handler: b.startAddContact, Description: "Kontakt qo'shish", Visibility: commands.Admin}},
		{"/edit_contact", commands.Command{Handler: b.editContactMenu, Description: "Kontakt tahrirlash", Visibility: commands.Admin}},
	}
	var errs []error
	for _, c := range cmds {
		errs = append(errs, reg.RegisterCommand(c.name, c.cmd))
	}

	client := map[string]tele.HandlerFunc{
		cbViewProducts: b.clientProducts,
		cbContact:      b.clientContact,
		cbBackToMain:   b.backToMain,
		cbOrder:        b.order,
		cbCancelDelete: b.cancelDelete,
		cbFormCancel:   b.formCancel,
	}
	admin := map[string]tele.HandlerFunc{
		cbAdminProducts:     b.adminProducts,
		cbAdminAdd:          b.startAddProduct,
		cbViewProduct:       b.adminProduct,
		cbEditProduct:       b.startEditProduct,
		cbToggleProduct:     b.toggleProduct,
		cbDeleteProduct:     b.confirmDeleteProduct,
		cbConfirmDelete:     b.deleteProduct,
		cbAdminContacts:     b.adminContacts,
		cbAdminAddContact:   b.startAddContact,
		cbViewContact:       b.adminContact,
		cbEditContact:       b.startEditContact,
		cbEditContactFld:    b.startEditContactField,
		cbDeleteContact:     b.confirmDeleteContact,
		cbConfirmDelContact: b.deleteContact,
		cbFormKeep:          b.formKeep,
		cbFormDone:          b.formDone,
	}

	for key, h := range client {
		errs = append(errs, reg.RegisterCallback(key, h))
	}
	guard := middleware.AdminOnlyMiddleware(b.adminOptions())
	for key, h := range admin {
		errs = append(errs, reg.RegisterCallback(key, guard(h)))
	}
	reg.SetTextFallback(b.menuButton)
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("bot: register handlers: %w", err)
	}
	return nil
}

// Routes builds the command, callback and message routes over reg.
func (b *Bot) Routes(reg *tg.Registry) []tg.Route {
	routes := router.CommandRoutes(reg, router.CommandRouteOptions{
		IsAdmin:       b.isAdmin,
		OnAdminReject: b.denied,
	})
	routes = append(routes, router.CallbackRoute(reg, router.CallbackOptions{}))
	return append(routes, router.TextRoutes(b, reg, router.TextOptions{
		UnknownText: b.unknownText,
	})...)
}

func (b *Bot) adminOptions() middleware.AdminOptions {
	return middleware.AdminOptions{IsAdmin: b.isAdmin, OnReject: b.denied}
}

// OnRateLimited answers updates dropped by the rate limiter.
func (b *Bot) OnRateLimited(c tele.Context) error {
	if c.Callback() != nil {
		return c.Respond(&tele.CallbackResponse{Text: msgRateLimited})
	}
	return nil
}

func (b *Bot) denied(c tele.Context) error {
	return helpers.SendMD(c, msgAccessDenied)
}

func (b *Bot) senderIsAdmin(c tele.Context) bool {
	return c.Sender() != nil && b.isAdmin(c.Sender().ID)
}

// fail reports a generic error to the user and hands err back to the router
// for logging.
func (b *Bot) fail(c tele.Context, op string, err error) error {
	logger.Warn(helpers.BuildContext(c), logger.ComponentTG, "handler.failed",
		slog.String("op", op),
		slog.String("err", logger.SanitizeLimit(err.Error(), 256)),
	)
	if sendErr := helpers.SendMD(c, msgErrorOccurred); sendErr != nil {
		return errors.Join(err, sendErr)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func (b *Bot) start(c tele.Context) error {
	if b.senderIsAdmin(c) {
		return helpers.SendMD(c, msgAdminWelcome, adminReplyKeyboard())
	}
	return helpers.SendMD(c, msgClientWelcome, clientMainKeyboard())
}

func (b *Bot) help(c tele.Context) error {
	if b.senderIsAdmin(c) {
		return helpers.SendMD(c, msgAdminHelp)
	}
	return helpers.SendMD(c, msgClientHelp)
}

// menuButton handles reply keyboard labels typed outside a workflow.
func (b *Bot) menuButton(c tele.Context) error {
	admin := b.senderIsAdmin(c)
	switch c.Text() {
	case btnProducts:
		if admin {
			return b.adminProducts(c)
		}
		return b.clientProducts(c)
	case btnContact:
		if admin {
			return b.adminContacts(c)
		}
		return b.clientContact(c)
	}
	return b.unknownText(c)
}

func (b *Bot) unknownText(c tele.Context) error {
	if b.senderIsAdmin(c) {
		return helpers.SendMD(c, msgUnknownText, adminReplyKeyboard())
	}
	return helpers.SendMD(c, msgUnknownText, clientMainKeyboard())
}
