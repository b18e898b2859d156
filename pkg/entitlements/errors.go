package entitlements

import "errors"

var (
	// ErrInvalidUserID rejects malformed user ids before any external
	// call is made.
	ErrInvalidUserID = errors.New("invalid user id")
)
