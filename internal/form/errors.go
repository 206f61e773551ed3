package form

import "errors"

var (
	// ErrAccessDenied is returned when a non-admin tries to start a workflow.
	ErrAccessDenied = errors.New("form: access denied")
	// ErrUnknownField is returned for single-field edits of unsupported fields.
	ErrUnknownField = errors.New("form: unknown field")

	ErrTitleTooShort   = errors.New("form: title must be at least 2 characters")
	ErrLabelRequired   = errors.New("form: label must not be empty")
	ErrKeepUnavailable = errors.New("form: nothing to keep while creating")
	ErrPhotoExpected   = errors.New("form: send a photo or the done word")
	ErrTextExpected    = errors.New("form: text expected")
)
