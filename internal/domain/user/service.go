// internal/domain/user/service.go
package user

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/your-org/bookstore-backend/internal/pkg/apperr"
)

// Service handles profile reads and edits and legacy account loading
type Service struct {
	repo   Repository
	hasher PasswordHasher
	log    *logrus.Logger
}

// NewService creates a new user service
func NewService(repo Repository, hasher PasswordHasher, log *logrus.Logger) *Service {
	return &Service{
		repo:   repo,
		hasher: hasher,
		log:    log,
	}
}

// UpdateProfileRequest represents profile update data
type UpdateProfileRequest struct {
	Name    *string `json:"name"`
	Address *string `json:"address"`
}

// GetProfile returns the account for email
func (s *Service) GetProfile(ctx context.Context, email string) (*User, error) {
	return s.repo.FindByEmail(ctx, email)
}

// UpdateProfile changes display name and address. Email and role are not editable here.
func (s *Service) UpdateProfile(ctx context.Context, email string, req UpdateProfileRequest) (*User, error) {
	u, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		u.Name = strings.TrimSpace(*req.Name)
	}
	if req.Address != nil {
		u.Address = strings.TrimSpace(*req.Address)
	}

	if err := s.repo.Update(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// LoadLegacy imports legacy account records, mapping their role/is_admin pair onto Role.
// Existing emails are skipped. Legacy passwords are hashed as-is without the policy check.
func (s *Service) LoadLegacy(ctx context.Context, records []LegacyRecord) (int, error) {
	created := 0
	for _, rec := range records {
		email := NormalizeEmail(rec.Email)
		_, err := s.repo.FindByEmail(ctx, email)
		if err == nil {
			continue
		}
		if !errors.Is(err, apperr.ErrNotFound) {
			return created, err
		}

		hash, err := s.hasher.HashPassword(rec.Password)
		if err != nil {
			return created, fmt.Errorf("failed to hash password for %s: %w", email, err)
		}

		u := &User{
			Email:        email,
			PasswordHash: hash,
			Name:         rec.Name,
			Address:      rec.Address,
			Role:         RoleFromLegacy(rec.Role, rec.IsAdmin),
		}
		if err := s.repo.Create(ctx, u); err != nil {
			return created, err
		}
		created++
	}

	if created > 0 {
		s.log.WithField("count", created).Info("Loaded legacy accounts")
	}
	return created, nil
}

// DemoAccounts are the seed accounts for development and testing.
func DemoAccounts() []LegacyRecord {
	return []LegacyRecord{
		{Email: "demo@bookstore.com", Password: "demo123", Name: "Demo User", Address: "123 Demo Street, Demo City, DC 12345"},
		{Email: "admin@bookstore.com", Password: "Admin123!", Name: "Admin User", Address: "1 Admin Way", IsAdmin: true},
		{Email: "reviewer@bookstore.com", Password: "Review123!", Name: "Reviewer User", Address: "2 Review Road", Role: "reviewer"},
		{Email: "user@bookstore.com", Password: "User123!", Name: "Normal User", Address: "3 Customer Court", Role: "user"},
	}
}
