package bot

import (
	"fmt"
	"strconv"

	tele "gopkg.in/telebot.v4"

	"github.com/dunyajewellery/catalogbot/core/telegram/keyboard"
	"github.com/dunyajewellery/catalogbot/internal/catalog"
	"github.com/dunyajewellery/catalogbot/internal/form"
)

// Callback keys. Record ids travel as the payload.
const (
	cbViewProducts = "view_products"
	cbContact      = "contact"
	cbBackToMain   = "back_to_main"
	cbOrder        = "order"

	cbAdminProducts     = "admin_products"
	cbAdminAdd          = "admin_add"
	cbViewProduct       = "view_product"
	cbEditProduct       = "edit_product"
	cbToggleProduct     = "toggle_product"
	cbDeleteProduct     = "delete_product"
	cbConfirmDelete     = "confirm_delete"
	cbCancelDelete      = "cancel_delete"
	cbAdminContacts     = "admin_contacts"
	cbAdminAddContact   = "admin_add_contact"
	cbViewContact       = "view_contact"
	cbEditContact       = "edit_contact"
	cbEditContactFld    = "edit_contact_field"
	cbDeleteContact     = "delete_contact"
	cbConfirmDelContact = "confirm_delete_contact"

	cbFormKeep   = "form_keep"
	cbFormDone   = "form_done"
	cbFormCancel = "form_cancel"
)

func id(v int64) string { return strconv.FormatInt(v, 10) }

func statusIcon(active bool) string {
	if active {
		return "✅"
	}
	return "❌"
}

func adminReplyKeyboard() *tele.ReplyMarkup {
	return keyboard.ReplyButtons([]string{btnProducts, btnContact})
}

func clientMainKeyboard() *tele.ReplyMarkup {
	return keyboard.Column(
		keyboard.Btn(btnProducts, cbViewProducts, ""),
		keyboard.Btn(btnContact, cbContact, ""),
	)
}

func clientBackKeyboard() *tele.ReplyMarkup {
	return keyboard.Column(keyboard.Btn(btnBackMain, cbBackToMain, ""))
}

func clientAfterProductsKeyboard() *tele.ReplyMarkup {
	return keyboard.Inline([]keyboard.InlineBtn{
		keyboard.Btn(btnContact, cbContact, ""),
		keyboard.Btn(btnBackMain, cbBackToMain, ""),
	})
}

func orderKeyboard(productID int64) *tele.ReplyMarkup {
	return keyboard.Column(keyboard.Btn(btnOrder, cbOrder, id(productID)))
}

func productListKeyboard(products []catalog.Product) *tele.ReplyMarkup {
	buttons := make([]keyboard.InlineBtn, 0, len(products))
	for _, p := range products {
		text := fmt.Sprintf("%s %d", statusIcon(p.IsActive), p.ID)
		buttons = append(buttons, keyboard.Btn(text, cbViewProduct, id(p.ID)))
	}
	return keyboard.Grid(buttons, 3, []keyboard.InlineBtn{keyboard.Btn(btnAddNew, cbAdminAdd, "")})
}

func productAdminKeyboard(p catalog.Product) *tele.ReplyMarkup {
	toggle := btnDeactivate
	if !p.IsActive {
		toggle = btnActivate
	}
	return keyboard.Column(
		keyboard.Btn(btnBackToList, cbAdminProducts, ""),
		keyboard.Btn(btnEdit, cbEditProduct, id(p.ID)),
		keyboard.Btn(toggle, cbToggleProduct, id(p.ID)),
		keyboard.Btn(btnDelete, cbDeleteProduct, id(p.ID)),
	)
}

func deleteProductKeyboard(productID int64) *tele.ReplyMarkup {
	return keyboard.Column(
		keyboard.Btn(btnConfirmDelete, cbConfirmDelete, id(productID)),
		keyboard.Btn(btnCancelDelete, cbCancelDelete, ""),
	)
}

func contactListKeyboard(contacts []catalog.Contact) *tele.ReplyMarkup {
	buttons := make([]keyboard.InlineBtn, 0, len(contacts))
	for _, c := range contacts {
		text := fmt.Sprintf("%s %d - %s", statusIcon(c.IsActive), c.ID, c.Label)
		buttons = append(buttons, keyboard.Btn(text, cbViewContact, id(c.ID)))
	}
	return keyboard.Grid(buttons, 2, []keyboard.InlineBtn{keyboard.Btn(btnAddContact, cbAdminAddContact, "")})
}

func contactFieldPayload(contactID int64, f form.Field) string {
	return id(contactID) + "|" + string(f)
}

// contactAdminKeyboard carries the full edit, one button per single field
// edit and delete. withBack adds a return to the contact list.
func contactAdminKeyboard(c catalog.Contact, withBack bool) *tele.ReplyMarkup {
	var back []keyboard.InlineBtn
	if withBack {
		back = []keyboard.InlineBtn{keyboard.Btn(btnBackToList, cbAdminContacts, "")}
	}
	return keyboard.Inline(
		back,
		[]keyboard.InlineBtn{keyboard.Btn(btnEdit, cbEditContact, id(c.ID))},
		[]keyboard.InlineBtn{
			keyboard.Btn(btnEditTelegram, cbEditContactFld, contactFieldPayload(c.ID, form.FieldTelegram)),
			keyboard.Btn(btnEditPhones, cbEditContactFld, contactFieldPayload(c.ID, form.FieldPhones)),
			keyboard.Btn(btnEditInstagram, cbEditContactFld, contactFieldPayload(c.ID, form.FieldInstagram)),
		},
		[]keyboard.InlineBtn{keyboard.Btn(btnDelete, cbDeleteContact, id(c.ID))},
	)
}

func deleteContactKeyboard(contactID int64) *tele.ReplyMarkup {
	return keyboard.Column(
		keyboard.Btn(btnConfirmDelete, cbConfirmDelContact, id(contactID)),
		keyboard.Btn(btnCancelDelete, cbCancelDelete, ""),
	)
}

func addContactKeyboard() *tele.ReplyMarkup {
	return keyboard.Column(keyboard.Btn(btnAddContact, cbAdminAddContact, ""))
}

func addProductKeyboard() *tele.ReplyMarkup {
	return keyboard.Column(keyboard.Btn(btnAddNew, cbAdminAdd, ""))
}

// formKeyboard is attached to every form prompt. Text steps of edits offer
// keep; the images step offers done instead.
func formKeyboard(p *form.Prompt) *tele.ReplyMarkup {
	var row []keyboard.InlineBtn
	switch {
	case p == nil:
	case p.Field == form.FieldImages:
		row = append(row, keyboard.Btn(btnDone, cbFormDone, ""))
	case p.Kind.IsEdit():
		row = append(row, keyboard.Btn(btnKeep, cbFormKeep, ""))
	}
	return keyboard.Inline(row, []keyboard.InlineBtn{keyboard.CancelBtn(cbFormCancel, btnCancelForm)})
}
