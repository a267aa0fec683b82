package models

import "github.com/google/uuid"

// Principal is the authenticated caller of a request.
type Principal struct {
	Email string
	Name  string
	Role  string
	ID    uuid.UUID
}
