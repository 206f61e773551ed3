// Package keyboard builds reply and inline markups from plain button specs.
package keyboard

import tele "gopkg.in/telebot.v4"

// InlineBtn describes one callback button. Unique is the registry key and
// Data the payload telebot appends after it.
type InlineBtn struct {
	Text   string
	Unique string
	Data   string
}

// Btn is shorthand for an InlineBtn literal.
func Btn(text, unique, data string) InlineBtn {
	return InlineBtn{Text: text, Unique: unique, Data: data}
}

const defaultCancelText = "❌ Bekor qilish"

// ReplyButtons builds a resized reply keyboard from rows of labels.
func ReplyButtons(rows ...[]string) *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{ResizeKeyboard: true}
	keyboard := make([]tele.Row, 0, len(rows))
	for _, row := range rows {
		buttons := make([]tele.Btn, 0, len(row))
		for _, label := range row {
			buttons = append(buttons, markup.Text(label))
		}
		keyboard = append(keyboard, markup.Row(buttons...))
	}
	markup.Reply(keyboard...)
	return markup
}

// Inline builds an inline keyboard from rows of buttons. Empty rows are dropped.
func Inline(rows ...[]InlineBtn) *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{}
	inline := make([][]tele.InlineButton, 0, len(rows))
	for _, row := range rows {
		if len(row) == 0 {
			continue
		}
		r := make([]tele.InlineButton, len(row))
		for j, btn := range row {
			r[j] = *markup.Data(btn.Text, btn.Unique, btn.Data).Inline()
		}
		inline = append(inline, r)
	}
	markup.InlineKeyboard = inline
	return markup
}

// Column places every button on its own row.
func Column(buttons ...InlineBtn) *tele.ReplyMarkup {
	rows := make([][]InlineBtn, 0, len(buttons))
	for _, b := range buttons {
		rows = append(rows, []InlineBtn{b})
	}
	return Inline(rows...)
}

// Grid lays buttons out n per row and appends footer rows below them.
func Grid(buttons []InlineBtn, n int, footer ...[]InlineBtn) *tele.ReplyMarkup {
	if n < 1 {
		n = 1
	}
	rows := make([][]InlineBtn, 0, len(buttons)/n+1+len(footer))
	for i := 0; i < len(buttons); i += n {
		end := min(i+n, len(buttons))
		rows = append(rows, buttons[i:end])
	}
	rows = append(rows, footer...)
	return Inline(rows...)
}

// CancelBtn returns a cancel button bound to unique; label overrides the
// default text when set.
func CancelBtn(unique string, label ...string) InlineBtn {
	text := defaultCancelText
	if len(label) > 0 && label[0] != "" {
		text = label[0]
	}
	return InlineBtn{Text: text, Unique: unique}
}
