package models

import "errors"

// Domain errors that can be returned by repositories
var (
	// ErrDuplicateReference indicates a payment with the same transaction_ref already exists
	ErrDuplicateReference = errors.New("duplicate transaction reference")

	// ErrNotFound indicates the requested entity was not found
	ErrNotFound = errors.New("not found")

	// ErrStatusConflict indicates a conditional update found the row in a different status
	ErrStatusConflict = errors.New("payment status changed concurrently")
)
