package callbacks

import (
	"testing"

	"github.com/stretchr/testify/assert"
	tele "gopkg.in/telebot.v4"
)

func TestParseCallbackData(t *testing.T) {
	cases := []struct {
		name         string
		cb           *tele.Callback
		key, payload string
	}{
		{"nil", nil, "", ""},
		{"raw with payload", &tele.Callback{Data: "\fview_product|12"}, "view_product", "12"},
		{"raw without payload", &tele.Callback{Data: "\fproducts"}, "products", ""},
		{"payload with separator", &tele.Callback{Data: "\fedit_contact_field|3|phones"}, "edit_contact_field", "3|phones"},
		{"routed by unique", &tele.Callback{Unique: "delete_product", Data: "7"}, "delete_product", "7"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			key, payload := ParseCallbackData(tc.cb)
			assert.Equal(t, tc.key, key)
			assert.Equal(t, tc.payload, payload)
		})
	}
}
