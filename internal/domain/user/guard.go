// internal/domain/user/guard.go
package user

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/your-org/bookstore-backend/internal/pkg/apperr"
	"github.com/your-org/bookstore-backend/internal/pkg/auth"
)

// PasswordHasher is the opaque hashing primitive.
type PasswordHasher interface {
	HashPassword(password string) (string, error)
	VerifyPassword(password, hash string) bool
}

// RegisterRequest represents registration data
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Address  string `json:"address"`
}

type attempts struct {
	failures int
	locked   bool
}

// Guard verifies credentials and owns the per-email failure counters.
// After maxAttempts consecutive failures an account stays locked until ResetLockout.
type Guard struct {
	repo        Repository
	hasher      PasswordHasher
	maxAttempts int
	log         *logrus.Logger

	mu       sync.Mutex
	counters map[string]*attempts
}

// NewGuard creates an account guard
func NewGuard(repo Repository, hasher PasswordHasher, maxAttempts int, log *logrus.Logger) *Guard {
	if maxAttempts < 1 {
		maxAttempts = 5
	}
	return &Guard{
		repo:        repo,
		hasher:      hasher,
		maxAttempts: maxAttempts,
		log:         log,
		counters:    make(map[string]*attempts),
	}
}

// Register creates a user account. A taken email fails with ErrDuplicateAccount
// before the password policy is looked at.
func (g *Guard) Register(ctx context.Context, req RegisterRequest) (*User, error) {
	u, err := createAccount(ctx, g.repo, g.hasher, req, RoleUser)
	if err != nil {
		return nil, err
	}
	g.log.WithField("email", u.Email).Info("Account registered")
	return u, nil
}

// Authenticate checks credentials. Every failure, including a locked account,
// is reported as ErrAuthentication.
func (g *Guard) Authenticate(ctx context.Context, email, password string) (*User, error) {
	email = NormalizeEmail(email)

	if g.IsLocked(email) {
		g.log.WithField("email", email).Warn("Login attempt on locked account")
		return nil, apperr.ErrAuthentication
	}

	u, err := g.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, apperr.ErrAuthentication
		}
		return nil, err
	}

	if !g.hasher.VerifyPassword(password, u.PasswordHash) {
		if g.recordFailure(email) {
			g.log.WithField("email", email).Warn("Account locked after repeated failed logins")
		}
		return nil, apperr.ErrAuthentication
	}

	g.ResetLockout(email)
	return u, nil
}

// ResetLockout clears the failure counter and unlocks the account.
func (g *Guard) ResetLockout(email string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.counters, NormalizeEmail(email))
}

// IsLocked reports whether the account is locked.
func (g *Guard) IsLocked(email string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	c, ok := g.counters[NormalizeEmail(email)]
	return ok && c.locked
}

// FailedAttempts returns the consecutive failure count.
func (g *Guard) FailedAttempts(email string) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	if c, ok := g.counters[NormalizeEmail(email)]; ok {
		return c.failures
	}
	return 0
}

// recordFailure bumps the counter and reports whether this failure locked the account.
func (g *Guard) recordFailure(email string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	c, ok := g.counters[email]
	if !ok {
		c = &attempts{}
		g.counters[email] = c
	}
	c.failures++
	if !c.locked && c.failures >= g.maxAttempts {
		c.locked = true
		return true
	}
	return false
}

func createAccount(ctx context.Context, repo Repository, hasher PasswordHasher, req RegisterRequest, role Role) (*User, error) {
	email := NormalizeEmail(req.Email)
	if email == "" || !strings.Contains(email, "@") {
		return nil, apperr.Invalid("email", "must be a valid email address")
	}

	_, err := repo.FindByEmail(ctx, email)
	if err == nil {
		return nil, fmt.Errorf("user %s: %w", email, apperr.ErrDuplicateAccount)
	}
	if !errors.Is(err, apperr.ErrNotFound) {
		return nil, err
	}

	if err := auth.ValidatePassword(req.Password); err != nil {
		return nil, err
	}

	hash, err := hasher.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	u := &User{
		Email:        email,
		PasswordHash: hash,
		Name:         strings.TrimSpace(req.Name),
		Address:      strings.TrimSpace(req.Address),
		Role:         role,
	}
	if err := repo.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}
