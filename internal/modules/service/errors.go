package service

import "errors"

// Validation failures, surfaced to the caller with a field-level message
// before any state is touched.
var (
	ErrTitleRequired    = errors.New("title is required")
	ErrDatesOutOfOrder  = errors.New("end date must be after start date")
	ErrInvalidStatus    = errors.New("invalid status")
	ErrScheduledInPast  = errors.New("scheduled requires a start date in the future")
	ErrInvalidCurrency  = errors.New("currency must be one of BRL, USD, EUR")
	ErrInvalidReview    = errors.New("invalid review status")
	ErrEditalNotOpen    = errors.New("edital is not accepting projects")
)

// ErrNotFound covers both a record that does not exist and a draft hidden
// from the caller; the two are deliberately indistinguishable so draft
// content never leaks through probing.
var ErrNotFound = errors.New("not found")
