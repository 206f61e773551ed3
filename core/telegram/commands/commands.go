// Package commands describes the slash commands a bot offers.
package commands

import (
	"regexp"

	tele "gopkg.in/telebot.v4"
)

// Visibility decides who sees a command in the menu and who may run it.
type Visibility int

const (
	// Public commands are listed and runnable for everyone.
	Public Visibility = iota
	// Admin commands are listed in admin chats only and reject other users.
	Admin
	// Hidden commands run for everyone but stay out of the menu.
	Hidden
)

// Command is a registered slash command.
type Command struct {
	Handler     tele.HandlerFunc
	Description string
	Visibility  Visibility
}

// AdminOnly reports whether non-admins are rejected.
func (c Command) AdminOnly() bool { return c.Visibility == Admin }

// Listed reports whether the command belongs in the menu shown to a user.
func (c Command) Listed(admin bool) bool {
	switch c.Visibility {
	case Hidden:
		return false
	case Admin:
		return admin
	}
	return true
}

var nameRe = regexp.MustCompile(`^/[a-z0-9_]{1,32}$`)

// ValidName reports whether name is a slash command Telegram accepts in a
// bot menu: a slash, then 1 to 32 lowercase letters, digits or underscores.
func ValidName(name string) bool {
	return nameRe.MatchString(name)
}
