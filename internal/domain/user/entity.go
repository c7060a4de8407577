// internal/domain/user/entity.go
package user

import (
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
)

// Role is the single authority for what an account may do.
type Role string

const (
	RoleUser     Role = "user"
	RoleReviewer Role = "reviewer"
	RoleAdmin    Role = "admin"
)

// ParseRole validates a role name.
func ParseRole(s string) (Role, error) {
	switch r := Role(strings.ToLower(strings.TrimSpace(s))); r {
	case RoleUser, RoleReviewer, RoleAdmin:
		return r, nil
	default:
		return "", fmt.Errorf("unknown role %q", s)
	}
}

// User represents an account
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Email        string    `gorm:"uniqueIndex;not null;size:255" json:"email"`
	PasswordHash string    `gorm:"not null;size:255" json:"-"`
	Name         string    `gorm:"size:255" json:"name"`
	Address      string    `gorm:"size:500" json:"address"`
	Role         Role      `gorm:"size:20;not null;default:'user'" json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TableName overrides the table name for User
func (User) TableName() string {
	return "users"
}

// BeforeCreate normalises the email and defaults the role.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	u.Email = NormalizeEmail(u.Email)
	if u.Role == "" {
		u.Role = RoleUser
	}
	return nil
}

// HasRole reports whether the user holds any of roles.
func (u *User) HasRole(roles ...Role) bool {
	for _, r := range roles {
		if u.Role == r {
			return true
		}
	}
	return false
}

// IsAdmin is a shorthand for HasRole(RoleAdmin).
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// GetDisplayName returns the name, or the email when no name is set
func (u *User) GetDisplayName() string {
	if name := strings.TrimSpace(u.Name); name != "" {
		return name
	}
	return u.Email
}

// NormalizeEmail trims and lower-cases an email so lookups are case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// LegacyRecord is an account as stored by older data sets, which carried an
// is_admin flag next to the role string.
type LegacyRecord struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Address  string `json:"address"`
	Role     string `json:"role"`
	IsAdmin  bool   `json:"is_admin"`
}

// RoleFromLegacy maps a legacy role/is_admin pair onto a Role.
// The admin flag wins; an unknown or empty role becomes RoleUser.
func RoleFromLegacy(role string, isAdmin bool) Role {
	if isAdmin {
		return RoleAdmin
	}
	parsed, err := ParseRole(role)
	if err != nil {
		return RoleUser
	}
	return parsed
}
