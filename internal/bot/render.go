package bot

import (
	"errors"
	"fmt"
	"strings"

	tele "gopkg.in/telebot.v4"

	"github.com/dunyajewellery/catalogbot/core/telegram/format"
	"github.com/dunyajewellery/catalogbot/internal/catalog"
	"github.com/dunyajewellery/catalogbot/internal/form"
	"github.com/dunyajewellery/catalogbot/internal/validate"
)

const (
	adminDescLimit = 100
	adminDescKeep  = 97
)

func descriptionOr(p catalog.Product, def string) string {
	desc := format.DerefString(p.Description, "")
	if desc == "" {
		return def
	}
	return desc
}

func sizesOr(sizes []float64, def string) string {
	if len(sizes) == 0 {
		return def
	}
	return validate.FormatSizes(sizes)
}

func truncateRunes(s string, limit, keep int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:keep]) + "..."
}

func productForClient(p catalog.Product) string {
	return fmt.Sprintf(tplProductClient,
		format.MD(p.Title),
		format.MD(descriptionOr(p, defaultDescription)),
		sizesOr(p.Sizes, defaultSizes),
	)
}

func productForAdmin(p catalog.Product) string {
	desc := truncateRunes(descriptionOr(p, defaultDescription), adminDescLimit, adminDescKeep)
	return fmt.Sprintf(tplProductAdmin,
		statusIcon(p.IsActive),
		format.MD(p.Title),
		format.MD(desc),
		sizesOr(p.Sizes, defaultAdminSizes),
		len(p.ImageIDs),
		p.ID,
	)
}

func productListText(products []catalog.Product) string {
	var b strings.Builder
	b.WriteString(msgAllProducts + "\n\n")
	for _, p := range products {
		fmt.Fprintf(&b, tplProductListRow, statusIcon(p.IsActive), p.ID, format.MD(p.Title))
	}
	fmt.Fprintf(&b, msgProductsTotal, len(products))
	return b.String()
}

func handleOr(h *string, prefix, def string) string {
	v := format.DerefString(h, "")
	if v == "" {
		return def
	}
	return format.MD(prefix + v)
}

func contactForAdmin(c catalog.Contact) string {
	phones := valueMissing
	if len(c.PhoneNumbers) > 0 {
		phones = format.MD(strings.Join(c.PhoneNumbers, ", "))
	}
	return fmt.Sprintf(tplContactAdmin,
		format.MD(c.Label),
		handleOr(c.TelegramUsername, "@", valueMissing),
		phones,
		handleOr(c.InstagramUsername, "https://instagram.com/", valueMissing),
		c.ID,
	)
}

func contactListText(contacts []catalog.Contact) string {
	var b strings.Builder
	b.WriteString(msgContactsHeader + "\n\n")
	for _, c := range contacts {
		fmt.Fprintf(&b, tplContactListRow, statusIcon(c.IsActive), c.ID, format.MD(c.Label))
	}
	fmt.Fprintf(&b, msgContactsTotal, len(contacts))
	return b.String()
}

func writePhones(b *strings.Builder, phones []string) {
	switch len(phones) {
	case 0:
	case 1:
		fmt.Fprintf(b, "📱 Telefon: %s\n", phones[0])
	default:
		b.WriteString("📱 Telefonlar:\n")
		for _, p := range phones {
			fmt.Fprintf(b, "  • %s\n", p)
		}
	}
}

func writeHandles(b *strings.Builder, c catalog.Contact, telegram, instagram bool) {
	if tg := format.DerefString(c.TelegramUsername, ""); telegram && tg != "" {
		fmt.Fprintf(b, "💬 Telegram: @%s\n", format.MD(tg))
	}
	if ig := format.DerefString(c.InstagramUsername, ""); instagram && ig != "" {
		fmt.Fprintf(b, "📷 Instagram: https://instagram.com/%s\n", format.MD(ig))
	}
}

func contactForClient(c catalog.Contact) string {
	var b strings.Builder
	b.WriteString(msgClientContactHeader)
	writeHandles(&b, c, true, false)
	writePhones(&b, c.PhoneNumbers)
	writeHandles(&b, c, false, true)
	return strings.TrimRight(b.String(), "\n")
}

// orderText names the product (when it still exists) and lists how to reach
// the shop, phones first.
func orderText(productID int64, p *catalog.Product, c catalog.Contact) string {
	var b strings.Builder
	if p != nil {
		fmt.Fprintf(&b, msgOrderHeader, format.MD(p.Title), productID)
	} else {
		fmt.Fprintf(&b, msgOrderHeaderNoTitle, productID)
	}
	writePhones(&b, c.PhoneNumbers)
	writeHandles(&b, c, true, true)
	return strings.TrimRight(b.String(), "\n")
}

func currentOrNone(p *form.Prompt) string {
	if !p.HasCurrent || p.Current == "" {
		return currentValueNone
	}
	return format.MD(p.Current)
}

// promptText renders the question for p. started selects the longer
// greeting sent when a workflow begins.
func promptText(p *form.Prompt, started bool) string {
	if p == nil {
		return ""
	}
	if started {
		switch p.Kind {
		case form.KindCreateProduct:
			return msgAddProductStart
		case form.KindCreateContact:
			return msgAddContactStart
		case form.KindEditProduct:
			return fmt.Sprintf(msgEditProductStart, format.MD(p.Current)) + fieldPrompt(p)
		case form.KindEditContact:
			return fmt.Sprintf(msgEditContactLabel, format.MD(p.Current)) + fieldPrompt(p)
		}
	}
	return fieldPrompt(p)
}

func fieldPrompt(p *form.Prompt) string {
	edit := p.Kind.IsEdit()
	pick := func(create, editTpl string) string {
		if !edit {
			return create
		}
		return fmt.Sprintf(editTpl, currentOrNone(p))
	}
	switch p.Field {
	case form.FieldTitle:
		return pick(msgEnterTitle, msgEditTitle)
	case form.FieldDescription:
		return pick(msgEnterDesc, msgEditDesc)
	case form.FieldSizes:
		return pick(msgEnterSizes, msgEditSizes)
	case form.FieldImages:
		if edit {
			return fmt.Sprintf(msgEditImages, p.ImageCount)
		}
		return msgEnterImages
	case form.FieldLabel:
		return pick(msgEnterLabel, msgEditLabel)
	case form.FieldTelegram:
		return pick(msgEnterTelegram, msgEditTelegram)
	case form.FieldPhones:
		return pick(msgEnterPhones, msgEditPhones)
	case form.FieldInstagram:
		return pick(msgEnterInstagram, msgEditInstagram)
	}
	return ""
}

// errorHint maps a rejected input to the hint shown above the re-prompt.
func errorHint(err error) string {
	var sizeErr *validate.SizeError
	var phoneErr *validate.PhoneError
	switch {
	case errors.As(err, &sizeErr):
		return msgInvalidSizes
	case errors.As(err, &phoneErr):
		return fmt.Sprintf(msgInvalidPhones, format.MD(strings.Join(phoneErr.Invalid, ", ")))
	case errors.Is(err, form.ErrTitleTooShort):
		return msgTitleTooShort
	case errors.Is(err, form.ErrLabelRequired):
		return msgLabelRequired
	case errors.Is(err, form.ErrKeepUnavailable):
		return msgKeepUnavailable
	case errors.Is(err, form.ErrPhotoExpected):
		return msgPhotoExpected
	case errors.Is(err, form.ErrTextExpected):
		return msgTextExpected
	}
	return msgErrorOccurred
}

func isProductKind(k form.Kind) bool {
	return k == form.KindCreateProduct || k == form.KindEditProduct
}

// replyText renders an engine reply. retained reports whether the session
// survived a failed commit.
func replyText(r form.Reply, retained bool) string {
	switch r.Outcome {
	case form.OutcomeStarted:
		return promptText(r.Prompt, true)
	case form.OutcomeAdvanced:
		return promptText(r.Prompt, false)
	case form.OutcomeCollected:
		text := fmt.Sprintf(msgImageAdded, r.ImageCount)
		if r.Replaced {
			text = msgImagesReplaced + "\n" + text
		}
		return text
	case form.OutcomeRejected:
		return errorHint(r.Err) + "\n\n" + promptText(r.Prompt, false)
	case form.OutcomeCommitted:
		return committedText(r)
	case form.OutcomeNotFound:
		if isProductKind(r.Kind) {
			return msgProductNotFound
		}
		return msgContactNotFound
	case form.OutcomeFailed:
		if retained {
			return msgSaveFailed + "\n" + msgSaveRetry
		}
		return msgSaveFailed
	}
	return ""
}

func committedText(r form.Reply) string {
	switch {
	case r.Product != nil && r.Created:
		return fmt.Sprintf(msgProductCreated, format.MD(r.Product.Title), r.Product.ID)
	case r.Product != nil:
		return fmt.Sprintf(msgProductUpdated, format.MD(r.Product.Title))
	case r.Contact != nil && r.Created:
		return fmt.Sprintf(msgContactCreated, format.MD(r.Contact.Label), r.Contact.ID)
	}
	return msgContactUpdated
}

// replyMarkup picks the keyboard sent with a reply; nil when the workflow ended.
func replyMarkup(r form.Reply, retained bool) *tele.ReplyMarkup {
	switch r.Outcome {
	case form.OutcomeStarted, form.OutcomeAdvanced, form.OutcomeRejected:
		return formKeyboard(r.Prompt)
	case form.OutcomeCollected:
		return formKeyboard(&form.Prompt{Kind: r.Kind, Field: form.FieldImages})
	case form.OutcomeFailed:
		if retained {
			return formKeyboard(nil)
		}
	}
	return nil
}
