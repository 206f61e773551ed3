package router

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	tele "gopkg.in/telebot.v4"
)

type codedErr struct{}

func (codedErr) Error() string { return "coded" }
func (codedErr) Code() string  { return "not found" }

type pathError struct{}

func (*pathError) Error() string { return "path" }

func TestNormalizeHandlerName(t *testing.T) {
	assert.Equal(t, "add_contact", normalizeHandlerName("/Add_Contact"))
	assert.Equal(t, "edit_contact_field", normalizeHandlerName(" edit contact field "))
	assert.Equal(t, "unknown", normalizeHandlerName(""))
}

func TestDeriveErrorCode(t *testing.T) {
	assert.Equal(t, "", deriveErrorCode(nil))
	assert.Equal(t, "NOT_FOUND", deriveErrorCode(codedErr{}))
	assert.Equal(t, "PATHERROR", deriveErrorCode(&pathError{}))
	assert.Equal(t, "ERRORSTRING", deriveErrorCode(errors.New("x")))
	assert.Equal(t, "NOT_FOUND", deriveErrorCode(fmt.Errorf("load: %w", codedErr{})))
	assert.Equal(t, "PATHERROR", deriveErrorCode(fmt.Errorf("open: %w", &pathError{})))
	assert.Equal(t, "TG_403", deriveErrorCode(fmt.Errorf("send: %w", &tele.Error{Code: 403, Description: "blocked"})))
}
