package counting

import "errors"

var (
	// ErrInvalidQuantity rejects negative amounts and quantities before
	// anything is written; a malformed request never touches the ledger.
	ErrInvalidQuantity = errors.New("quantity cannot be negative")

	// ErrInvalidNumber rejects session numbers outside the 1..3 tags.
	ErrInvalidNumber = errors.New("session number must be 1, 2 or 3")

	// ErrItemNotFound is returned by SetAbsolute and Remove when the
	// (session, product) pair was never counted or already removed.
	ErrItemNotFound = errors.New("count item not found")

	// ErrSessionNotFound is returned when the session id does not exist.
	ErrSessionNotFound = errors.New("count session not found")

	// ErrSessionNotOpen is returned when a mutation or transition targets
	// a finalized or cancelled session.
	ErrSessionNotOpen = errors.New("count session is not open")

	// ErrNotRecount is returned when scope extension targets an ordinary
	// session. Only recount sessions change scope after creation.
	ErrNotRecount = errors.New("only recount sessions can extend their scope")
)
