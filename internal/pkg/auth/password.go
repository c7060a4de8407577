// internal/pkg/auth/password.go
package auth

import (
	"fmt"
	"unicode"

	"github.com/your-org/bookstore-backend/internal/pkg/apperr"
	"golang.org/x/crypto/bcrypt"
)

// Password policy rules, reported verbatim in a PolicyViolation.
const (
	RuleMinLength = "password must be at least 8 characters long"
	RuleDigit     = "password must contain at least one digit"
	RuleLower     = "password must contain at least one lowercase letter"
	RuleUpper     = "password must contain at least one uppercase letter"
	RuleMaxLength = "password must be at most 72 bytes long"

	minPasswordLength = 8
	// bcrypt only accepts this many bytes of input.
	maxPasswordBytes = 72
)

// PasswordManager handles password operations
type PasswordManager struct {
	cost int
}

// NewPasswordManager creates a new password manager. A cost outside bcrypt's range falls back to the default.
func NewPasswordManager(cost int) *PasswordManager {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &PasswordManager{cost: cost}
}

// HashPassword hashes a password using bcrypt. It does not apply the policy, but a
// password bcrypt cannot hash is still reported as a PolicyViolation.
func (p *PasswordManager) HashPassword(password string) (string, error) {
	if len(password) > maxPasswordBytes {
		return "", &apperr.PolicyViolation{Rule: RuleMaxLength}
	}
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(password), p.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}

	return string(hashedBytes), nil
}

// VerifyPassword reports whether password matches hash.
func (p *PasswordManager) VerifyPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// ValidatePassword checks the registration policy and returns a *apperr.PolicyViolation
// naming the first rule the password breaks.
func ValidatePassword(password string) error {
	if len([]rune(password)) < minPasswordLength {
		return &apperr.PolicyViolation{Rule: RuleMinLength}
	}
	if len(password) > maxPasswordBytes {
		return &apperr.PolicyViolation{Rule: RuleMaxLength}
	}

	var (
		hasUpper  bool
		hasLower  bool
		hasNumber bool
	)

	for _, char := range password {
		switch {
		case unicode.IsUpper(char):
			hasUpper = true
		case unicode.IsLower(char):
			hasLower = true
		case unicode.IsDigit(char):
			hasNumber = true
		}
	}

	if !hasNumber {
		return &apperr.PolicyViolation{Rule: RuleDigit}
	}
	if !hasLower {
		return &apperr.PolicyViolation{Rule: RuleLower}
	}
	if !hasUpper {
		return &apperr.PolicyViolation{Rule: RuleUpper}
	}

	return nil
}
