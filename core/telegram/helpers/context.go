package helpers

import (
	"context"

	tele "gopkg.in/telebot.v4"

	"github.com/dunyajewellery/catalogbot/core/logger"
)

const logCtxKey = "catalogbot.log_ctx"

// BuildContext returns the logging context of the update behind c. The first
// call derives it from the update, chat and sender ids and caches it on c.
func BuildContext(c tele.Context) context.Context {
	if ctx, ok := c.Get(logCtxKey).(context.Context); ok {
		return ctx
	}

	var userID, chatID int64
	if u := c.Sender(); u != nil {
		userID = u.ID
	}
	if ch := c.Chat(); ch != nil {
		chatID = ch.ID
	}
	updateID := c.Update().ID

	ctx := logger.WithRID(context.Background(), logger.BuildRID(updateID, chatID, userID))
	ctx = logger.WithUpdateMeta(ctx, updateID, userID, chatID)
	ctx = logger.WithLogger(ctx, logger.Component(logger.ComponentTG))
	c.Set(logCtxKey, ctx)
	return ctx
}

// WithHandler names the handler on the cached context and returns it.
func WithHandler(c tele.Context, handler string) context.Context {
	ctx := logger.WithHandler(BuildContext(c), handler)
	c.Set(logCtxKey, ctx)
	return ctx
}
