package service

import (
	"encoding/json"
	"fmt"
)

// ServiceError represents a business logic error with a code. Detail carries
// the provider payload for gateway failures.
type ServiceError struct {
	Err     error
	Message string
	Code    string
	Detail  json.RawMessage
}

func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for errors.Is/As support
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// Common error codes
const (
	ErrCodeInvalidInput       = "invalid_input"
	ErrCodeUnauthenticated    = "unauthenticated"
	ErrCodeCarNotFound        = "car_not_found"
	ErrCodePaymentNotFound    = "payment_not_found"
	ErrCodeReferenceExhausted = "reference_exhausted"
	ErrCodeGatewayUnavailable = "gateway_unavailable"
	ErrCodeGatewayRejected    = "gateway_rejected"
	ErrCodeGatewayDeclined    = "gateway_declined"
	ErrCodeInternalError      = "internal_error"
)

func internalError(message string, err error) *ServiceError {
	return &ServiceError{
		Code:    ErrCodeInternalError,
		Message: message,
		Err:     err,
	}
}
