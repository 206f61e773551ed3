// Package state keeps per-user conversation sessions for Telegram bots.
// Stores are keyed by Telegram user id and know nothing about the session shape.
package state
