package telegram

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tele "gopkg.in/telebot.v4"

	"github.com/dunyajewellery/catalogbot/core/telegram/commands"
)

func noop(tele.Context) error { return nil }

func TestRegistryCommands(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.RegisterCommand("/start", commands.Command{Handler: noop, Description: "Boshlash"}))
	require.NoError(t, reg.RegisterCommand("/add", commands.Command{Handler: noop, Description: "Yangi mahsulot", Visibility: commands.Admin}))
	require.NoError(t, reg.RegisterCommand("/debug", commands.Command{Handler: noop, Description: "debug", Visibility: commands.Hidden}))
	assert.Error(t, reg.RegisterCommand("cancel", commands.Command{Handler: noop, Description: "no slash"}))
	assert.Error(t, reg.RegisterCommand("/help", commands.Command{Handler: noop}))
	assert.Error(t, reg.RegisterCommand("/start", commands.Command{Handler: noop, Description: "dup"}))

	public := reg.ListCommands(false)
	require.Len(t, public, 1)
	assert.Equal(t, "start", public[0].Text)
	assert.Equal(t, "Boshlash", public[0].Description)

	admin := reg.ListCommands(true)
	require.Len(t, admin, 2)
	assert.Equal(t, "add", admin[0].Text)

	all := reg.Commands()
	require.Len(t, all, 3)
	assert.Equal(t, "/add", all[0].Name)
	assert.Equal(t, "/debug", all[1].Name)

	key, cmd, ok := reg.LookupCommand("add")
	require.True(t, ok)
	assert.Equal(t, "/add", key)
	assert.True(t, cmd.AdminOnly())

	key, _, ok = reg.LookupCommand("/start@dunya_bot hello")
	require.True(t, ok)
	assert.Equal(t, "/start", key)

	_, _, ok = reg.LookupCommand("/cancel")
	assert.False(t, ok)
}

func TestRegistryCallbacks(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.RegisterCallback("view_product", noop))
	assert.Error(t, reg.RegisterCallback("view_product", noop))
	assert.Error(t, reg.RegisterCallback("", noop))

	_, ok := reg.GetCallback("view_product")
	assert.True(t, ok)
	assert.Equal(t, []string{"view_product"}, reg.ListCallbacks())
	assert.NotNil(t, reg.CallbackNotFound())
}
