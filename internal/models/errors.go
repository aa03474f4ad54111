package models

import "errors"

// ErrNotFound is returned when a referenced branch or product does not exist.
// Handlers map it to a 404.
var ErrNotFound = errors.New("record not found")
