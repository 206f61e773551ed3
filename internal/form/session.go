// Package form drives multi-step data entry for catalog records.
//
// A session belongs to one user and walks a fixed sequence of fields. Each
// inbound text, photo or keep action is validated against the current field;
// accepted input advances the sequence and the record is written only when the
// terminal field is accepted.
package form

import (
	"time"

	"github.com/google/uuid"

	"github.com/dunyajewellery/catalogbot/internal/catalog"
)

// Kind identifies a workflow.
type Kind string

const (
	KindCreateProduct    Kind = "create_product"
	KindEditProduct      Kind = "edit_product"
	KindCreateContact    Kind = "create_contact"
	KindEditContact      Kind = "edit_contact"
	KindEditContactField Kind = "edit_contact_field"
)

// IsEdit reports whether the workflow starts from an existing record.
func (k Kind) IsEdit() bool {
	return k == KindEditProduct || k == KindEditContact || k == KindEditContactField
}

// Field names a step of a workflow.
type Field string

const (
	FieldTitle       Field = "title"
	FieldDescription Field = "description"
	FieldSizes       Field = "sizes"
	FieldImages      Field = "images"

	FieldLabel     Field = "label"
	FieldTelegram  Field = "telegram"
	FieldPhones    Field = "phones"
	FieldInstagram Field = "instagram"
)

var (
	productSteps = []Field{FieldTitle, FieldDescription, FieldSizes, FieldImages}
	contactSteps = []Field{FieldLabel, FieldTelegram, FieldPhones, FieldInstagram}
)

// Session is the in-progress state of one user's workflow.
type Session struct {
	ID        uuid.UUID
	UserID    int64
	Kind      Kind
	StartedAt time.Time
	Flow      Flow
}

// Step returns the field the session is waiting for.
func (s *Session) Step() Field {
	return s.Flow.step()
}

// Flow is the workflow specific part of a session:
// *ProductFlow, *ContactFlow or *ContactFieldFlow.
type Flow interface {
	step() Field
}

// ProductFlow collects a product across title, description, sizes and images.
type ProductFlow struct {
	Index int
	// Baseline is the record being edited; nil when creating.
	Baseline *catalog.Product
	// Draft starts as a copy of Baseline and receives accepted values.
	Draft catalog.Product
	// ImagesReplaced is set once the first photo of an edit cleared the old images.
	ImagesReplaced bool
}

func (f *ProductFlow) step() Field { return productSteps[f.Index] }

// ContactFlow collects a contact across label, telegram, phones and instagram.
type ContactFlow struct {
	Index    int
	Baseline *catalog.Contact
	Draft    catalog.Contact
}

func (f *ContactFlow) step() Field { return contactSteps[f.Index] }

// ContactFieldFlow edits a single field of an existing contact.
type ContactFieldFlow struct {
	Field    Field
	Baseline catalog.Contact
}

func (f *ContactFieldFlow) step() Field { return f.Field }

// InputKind classifies inbound messages.
type InputKind int

const (
	InputText InputKind = iota
	InputPhoto
	// InputKeep asks to keep the current value of the field being edited.
	InputKeep
)

// Input is one inbound event addressed to a session.
type Input struct {
	Kind    InputKind
	Text    string
	PhotoID string
}

// Text wraps a text message.
func Text(s string) Input { return Input{Kind: InputText, Text: s} }

// Photo wraps a photo reference.
func Photo(fileID string) Input { return Input{Kind: InputPhoto, PhotoID: fileID} }

// Keep is the explicit keep-current-value action.
func Keep() Input { return Input{Kind: InputKeep} }

// Outcome classifies what the engine did with an input.
type Outcome int

const (
	// OutcomeIgnored means the user had no session.
	OutcomeIgnored Outcome = iota
	OutcomeStarted
	OutcomeAdvanced
	// OutcomeCollected means a photo was appended; the step is unchanged.
	OutcomeCollected
	// OutcomeRejected means validation failed; the step is unchanged.
	OutcomeRejected
	OutcomeCommitted
	OutcomeNotFound
	OutcomeFailed
)

var outcomeNames = map[Outcome]string{
	OutcomeIgnored:   "ignored",
	OutcomeStarted:   "started",
	OutcomeAdvanced:  "advanced",
	OutcomeCollected: "collected",
	OutcomeRejected:  "rejected",
	OutcomeCommitted: "committed",
	OutcomeNotFound:  "not_found",
	OutcomeFailed:    "failed",
}

func (o Outcome) String() string {
	if s, ok := outcomeNames[o]; ok {
		return s
	}
	return "unknown"
}

// Prompt asks the user for a field. For edits it carries the current value.
type Prompt struct {
	UserID int64
	Kind   Kind
	Field  Field
	// Current is the baseline value rendered for display; empty when unset.
	Current    string
	HasCurrent bool
	// ImageCount is the number of baseline images for the images step.
	ImageCount int
}

// Reply is the engine's answer to a start call or an input.
type Reply struct {
	Outcome Outcome
	Kind    Kind
	Prompt  *Prompt
	Err     error

	Product *catalog.Product
	Contact *catalog.Contact
	Created bool

	ImageCount int
	Replaced   bool
}
