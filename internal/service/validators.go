package service

import (
	"fmt"
	"net/mail"
	"regexp"
	"strings"

	"github.com/benx421/carmarket/internal/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var phonePattern = regexp.MustCompile(`^\+?[0-9]{9,15}$`)

// CreatePaymentRequest is the raw create-payment input. Amount is kept as its
// JSON number text so no precision is lost before validation.
type CreatePaymentRequest struct {
	CarID  string
	Amount string
	Phone  string
}

// ValidatedPayment holds the normalized create-payment input
type ValidatedPayment struct {
	Amount decimal.Decimal
	Phone  string
	CarID  uuid.UUID
}

// ValidateCreatePayment checks a create request before anything is looked up
// or written.
func ValidateCreatePayment(principal *models.Principal, req CreatePaymentRequest, maxAmount decimal.Decimal) (*ValidatedPayment, error) {
	if principal == nil || principal.ID == uuid.Nil {
		return nil, &ServiceError{
			Code:    ErrCodeUnauthenticated,
			Message: "user not authenticated",
		}
	}

	carID, err := ValidateCarID(req.CarID)
	if err != nil {
		return nil, &ServiceError{Code: ErrCodeInvalidInput, Message: err.Error()}
	}

	amount, err := ValidateAmount(req.Amount, maxAmount)
	if err != nil {
		return nil, &ServiceError{Code: ErrCodeInvalidInput, Message: err.Error()}
	}

	phone, err := ValidatePhone(req.Phone)
	if err != nil {
		return nil, &ServiceError{Code: ErrCodeInvalidInput, Message: err.Error()}
	}

	return &ValidatedPayment{
		CarID:  carID,
		Amount: amount,
		Phone:  phone,
	}, nil
}

// ValidateCarID parses a car identifier
func ValidateCarID(raw string) (uuid.UUID, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return uuid.Nil, fmt.Errorf("valid car ID is required")
	}

	id, err := uuid.Parse(raw)
	if err != nil || id == uuid.Nil {
		return uuid.Nil, fmt.Errorf("valid car ID is required")
	}
	return id, nil
}

// ValidateAmount parses a positive amount with at most two decimal places
// that does not exceed maxAmount.
func ValidateAmount(raw string, maxAmount decimal.Decimal) (decimal.Decimal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return decimal.Zero, fmt.Errorf("invalid amount: amount is required")
	}

	amount, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount: %q is not a number", raw)
	}

	if !amount.IsPositive() {
		return decimal.Zero, fmt.Errorf("invalid amount: must be greater than 0")
	}

	if !amount.Equal(amount.Round(2)) {
		return decimal.Zero, fmt.Errorf("invalid amount: at most 2 decimal places allowed")
	}

	if amount.GreaterThan(maxAmount) {
		return decimal.Zero, fmt.Errorf("invalid amount: must not exceed %s", maxAmount.StringFixed(2))
	}

	return amount, nil
}

// ValidatePhone normalizes an optional phone number. Spaces and dashes are
// dropped; what remains must be 9-15 digits with an optional leading '+'.
func ValidatePhone(raw string) (string, error) {
	phone := strings.NewReplacer(" ", "", "-", "").Replace(strings.TrimSpace(raw))
	if phone == "" {
		return "", nil
	}

	if !phonePattern.MatchString(phone) {
		return "", fmt.Errorf("invalid phone: must be 9-15 digits with an optional leading +")
	}
	return phone, nil
}

// IsDeliverableEmail reports whether email is a bare address with a dotted domain
func IsDeliverableEmail(email string) bool {
	if email == "" || strings.ContainsAny(email, " \t") {
		return false
	}

	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return false
	}

	_, domain, ok := strings.Cut(addr.Address, "@")
	return ok && strings.Contains(strings.Trim(domain, "."), ".")
}
