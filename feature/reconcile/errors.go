package reconcile

import "errors"

var (
	// ErrSheetNotFound is returned when the sheet id does not exist.
	ErrSheetNotFound = errors.New("reconciliation sheet not found")

	// ErrInvalidSlot rejects snapshot slots other than system1/system2.
	ErrInvalidSlot = errors.New("invalid snapshot slot")

	// ErrInvalidTarget rejects recount extension against a session that is
	// closed, not a recount, or tied to a different sheet.
	ErrInvalidTarget = errors.New("target session is not an open recount for this sheet")

	// ErrNoProducts rejects recount requests with an empty selection.
	ErrNoProducts = errors.New("at least one product must be selected")
)
