// Package apperr holds the error taxonomy shared by the domain services.
// Handlers translate these into HTTP responses; services never write to the transport.
package apperr

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation reports malformed input such as a bad cart entry, price or quantity.
	ErrValidation = errors.New("validation error")
	// ErrPolicyViolation reports a password that breaks the registration policy.
	ErrPolicyViolation = errors.New("password policy violation")
	// ErrDuplicateAccount reports a registration for an email that already exists.
	ErrDuplicateAccount = errors.New("account already exists")
	// ErrAuthentication covers bad credentials and locked accounts alike.
	ErrAuthentication = errors.New("invalid email or password")
	// ErrNotFound reports an unknown order, book or user.
	ErrNotFound = errors.New("not found")
	// ErrEmptyCart reports a checkout attempted with no lines.
	ErrEmptyCart = errors.New("cart is empty")
	// ErrPaymentDeclined reports a charge refused by the payment gateway.
	ErrPaymentDeclined = errors.New("payment declined")
	// ErrConflict reports a uniqueness clash other than accounts, e.g. a duplicate book title.
	ErrConflict = errors.New("conflict")
	// ErrForbidden reports an authenticated caller without the required role.
	ErrForbidden = errors.New("forbidden")
)

// ValidationError names the offending field or entry.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("validation error: %s", e.Reason)
	}
	return fmt.Sprintf("validation error: %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// Invalid is shorthand for a *ValidationError.
func Invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// PolicyViolation names the unmet password rule.
type PolicyViolation struct {
	Rule string
}

func (e *PolicyViolation) Error() string {
	return fmt.Sprintf("password policy violation: %s", e.Rule)
}

func (e *PolicyViolation) Is(target error) bool { return target == ErrPolicyViolation }

// PaymentDeclined carries the gateway's message for a refused charge.
type PaymentDeclined struct {
	Message string
}

func (e *PaymentDeclined) Error() string { return e.Message }

func (e *PaymentDeclined) Is(target error) bool { return target == ErrPaymentDeclined }
