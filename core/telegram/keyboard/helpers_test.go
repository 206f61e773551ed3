package keyboard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGridSplitsRowsAndAppendsFooter(t *testing.T) {
	buttons := []InlineBtn{
		Btn("1", "view", "1"), Btn("2", "view", "2"), Btn("3", "view", "3"),
		Btn("4", "view", "4"),
	}
	m := Grid(buttons, 3, []InlineBtn{Btn("➕", "add", "")})

	require.Len(t, m.InlineKeyboard, 3)
	assert.Len(t, m.InlineKeyboard[0], 3)
	assert.Len(t, m.InlineKeyboard[1], 1)
	assert.Equal(t, "➕", m.InlineKeyboard[2][0].Text)
	assert.Equal(t, "view", m.InlineKeyboard[0][0].Unique)
	assert.Equal(t, "1", m.InlineKeyboard[0][0].Data)
}

func TestInlineDropsEmptyRows(t *testing.T) {
	m := Inline(nil, []InlineBtn{Btn("a", "a", "")}, []InlineBtn{})
	require.Len(t, m.InlineKeyboard, 1)
}

func TestColumnAndCancel(t *testing.T) {
	m := Column(CancelBtn("form_cancel"), CancelBtn("x", "Yo'q"))
	require.Len(t, m.InlineKeyboard, 2)
	assert.Equal(t, defaultCancelText, m.InlineKeyboard[0][0].Text)
	assert.Equal(t, "Yo'q", m.InlineKeyboard[1][0].Text)
}

func TestReplyButtons(t *testing.T) {
	m := ReplyButtons([]string{"💍 Mahsulotlar", "📞 Bog'lanish"})
	require.Len(t, m.ReplyKeyboard, 1)
	assert.Equal(t, "📞 Bog'lanish", m.ReplyKeyboard[0][1].Text)
	assert.True(t, m.ResizeKeyboard)
}
