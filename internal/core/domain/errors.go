// internal/core/domain/errors.go
package domain

import "errors"

// Domain errors. Callers branch on these with errors.Is; the wrapped
// message carries the offending id for logs.
var (
	// ErrItemNotFound indicates the referenced item is not in the document
	ErrItemNotFound = errors.New("item not found")

	// ErrDuplicateID indicates an insert would collide with an existing item
	ErrDuplicateID = errors.New("duplicate item id")

	// ErrItemSold indicates the operation is invalid for a sold item
	ErrItemSold = errors.New("item is already sold")

	// ErrReorderMismatch indicates the supplied ordering is not exactly
	// the current active set
	ErrReorderMismatch = errors.New("reorder set mismatch")

	// ErrInvalidItem indicates the item failed domain validation
	ErrInvalidItem = errors.New("invalid item")
)
