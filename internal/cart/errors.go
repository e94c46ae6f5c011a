package cart

import "errors"

var (
	// ErrAuthRequired is returned when a mutation needs a logged-in user.
	ErrAuthRequired = errors.New("cart: login required")

	ErrItemNotFound    = errors.New("cart: item not found")
	ErrInvalidProduct  = errors.New("cart: invalid product")
	ErrClearIncomplete = errors.New("cart: some items could not be removed remotely")
)
