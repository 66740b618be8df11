package catalog

import "errors"

// ErrProductNotFound is returned when no catalog product matches the
// requested id or search term.
var ErrProductNotFound = errors.New("product not found")
