package router

import (
	"time"

	tele "gopkg.in/telebot.v4"

	tg "github.com/dunyajewellery/catalogbot/core/telegram"
	"github.com/dunyajewellery/catalogbot/core/telegram/middleware"
)

// Form is the conversational input handler that owns text and photos while
// a user is mid-workflow.
type Form interface {
	Active(userID int64) bool
	HandleText(c tele.Context) error
	HandlePhoto(c tele.Context) error
}

// TextOptions controls fallback behaviour for text and photo updates.
type TextOptions struct {
	UnknownText  tele.HandlerFunc
	UnknownPhoto tele.HandlerFunc
}

// TextRoutes builds the OnText and OnPhoto handlers. Active form sessions take
// precedence; otherwise text is matched against registered commands, then the
// registry fallback, then UnknownText.
func TextRoutes(form Form, reg *tg.Registry, opts TextOptions) []tg.Route {
	inForm := func(c tele.Context) bool {
		return form != nil && c.Sender() != nil && form.Active(c.Sender().ID)
	}

	textHandler := func(c tele.Context) error {
		start := time.Now()

		if inForm(c) {
			return run(c, "form.text", start, form.HandleText)
		}

		if reg != nil {
			if key, cmd, ok := reg.LookupCommand(c.Text()); ok && !cmd.AdminOnly() {
				return run(c, "command."+normalizeHandlerName(key), start, cmd.Handler)
			}
			if fb := reg.TextFallback(); fb != nil {
				return run(c, "fallback", start, fb)
			}
		}

		if opts.UnknownText != nil {
			return run(c, "unknown_text", start, opts.UnknownText)
		}

		skip(c, "unknown_text", start)
		return nil
	}

	photoHandler := func(c tele.Context) error {
		start := time.Now()
		if inForm(c) {
			return run(c, "form.photo", start, form.HandlePhoto)
		}
		if opts.UnknownPhoto != nil {
			return run(c, "unexpected_photo", start, opts.UnknownPhoto)
		}
		skip(c, "unexpected_photo", start)
		return nil
	}

	return []tg.Route{
		{
			Endpoint: tele.OnText,
			Handler:  middleware.RecoverMiddleware(middleware.LoggerMiddleware(textHandler)),
		},
		{
			Endpoint: tele.OnPhoto,
			Handler:  middleware.RecoverMiddleware(middleware.LoggerMiddleware(photoHandler)),
		},
	}
}
