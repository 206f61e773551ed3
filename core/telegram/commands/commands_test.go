package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidName(t *testing.T) {
	for _, name := range []string{"/start", "/add_contact", "/a1"} {
		assert.True(t, ValidName(name), name)
	}
	for _, name := range []string{"start", "/", "/Start", "/add-contact", "/this_name_is_far_too_long_for_telegram"} {
		assert.False(t, ValidName(name), name)
	}
}

func TestVisibility(t *testing.T) {
	pub := Command{Visibility: Public}
	adm := Command{Visibility: Admin}
	hid := Command{Visibility: Hidden}

	assert.True(t, pub.Listed(false))
	assert.False(t, adm.Listed(false))
	assert.True(t, adm.Listed(true))
	assert.False(t, hid.Listed(true))

	assert.True(t, adm.AdminOnly())
	assert.False(t, hid.AdminOnly())
}
