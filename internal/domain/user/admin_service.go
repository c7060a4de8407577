// internal/domain/user/admin_service.go
package user

import (
	"context"

	"github.com/sirupsen/logrus"
	"github.com/your-org/bookstore-backend/internal/pkg/apperr"
)

// AdminService handles account administration
type AdminService struct {
	repo   Repository
	hasher PasswordHasher
	guard  *Guard
	log    *logrus.Logger
}

// NewAdminService creates a new admin service
func NewAdminService(repo Repository, hasher PasswordHasher, guard *Guard, log *logrus.Logger) *AdminService {
	return &AdminService{
		repo:   repo,
		hasher: hasher,
		guard:  guard,
		log:    log,
	}
}

// CreateUserRequest represents an admin-created account
type CreateUserRequest struct {
	RegisterRequest
	Role string `json:"role"`
}

// UserSummary is a user row in the admin listing
type UserSummary struct {
	User
	Locked         bool `json:"locked"`
	FailedAttempts int  `json:"failed_attempts"`
}

// GetUsers lists accounts with their lockout state
func (s *AdminService) GetUsers(ctx context.Context) ([]UserSummary, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]UserSummary, 0, len(users))
	for _, u := range users {
		out = append(out, UserSummary{
			User:           u,
			Locked:         s.guard.IsLocked(u.Email),
			FailedAttempts: s.guard.FailedAttempts(u.Email),
		})
	}
	return out, nil
}

// CreateUser creates an account with any role. The password policy still applies.
func (s *AdminService) CreateUser(ctx context.Context, req CreateUserRequest, adminEmail string) (*User, error) {
	role := RoleUser
	if req.Role != "" {
		parsed, err := ParseRole(req.Role)
		if err != nil {
			return nil, invalidRole(err)
		}
		role = parsed
	}

	u, err := createAccount(ctx, s.repo, s.hasher, req.RegisterRequest, role)
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{"email": u.Email, "role": u.Role, "admin": adminEmail}).Info("Account created by admin")
	return u, nil
}

// AssignRole changes an account's role
func (s *AdminService) AssignRole(ctx context.Context, email, role, adminEmail string) (*User, error) {
	parsed, err := ParseRole(role)
	if err != nil {
		return nil, invalidRole(err)
	}

	u, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	u.Role = parsed
	if err := s.repo.Update(ctx, u); err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{"email": u.Email, "role": u.Role, "admin": adminEmail}).Info("Role assigned")
	return u, nil
}

// UnlockUser resets the lockout for an existing account
func (s *AdminService) UnlockUser(ctx context.Context, email, adminEmail string) error {
	u, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return err
	}
	s.guard.ResetLockout(u.Email)
	s.log.WithFields(logrus.Fields{"email": u.Email, "admin": adminEmail}).Info("Account unlocked")
	return nil
}

func invalidRole(err error) error {
	return apperr.Invalid("role", "%s", err.Error())
}
