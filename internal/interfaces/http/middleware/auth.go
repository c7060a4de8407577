// internal/interfaces/http/middleware/auth.go
package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/your-org/bookstore-backend/internal/domain/user"
	"github.com/your-org/bookstore-backend/internal/pkg/auth"
)

const (
	ctxUserEmail   = "user_email"
	ctxUserRole    = "user_role"
	ctxTokenClaims = "token_claims"
)

// AccountLookup resolves the account behind a token so role changes apply immediately.
type AccountLookup interface {
	FindByEmail(ctx context.Context, email string) (*user.User, error)
}

// Authenticator validates session tokens from the Authorization header or the session cookie
type Authenticator struct {
	jwt      *auth.JWTManager
	accounts AccountLookup
	cookie   string
}

// NewAuthenticator creates the session token middleware factory
func NewAuthenticator(jwtManager *auth.JWTManager, accounts AccountLookup, cookieName string) *Authenticator {
	return &Authenticator{
		jwt:      jwtManager,
		accounts: accounts,
		cookie:   cookieName,
	}
}

func (a *Authenticator) token(c *gin.Context) string {
	if header := c.GetHeader("Authorization"); header != "" {
		return auth.ExtractTokenFromHeader(header)
	}
	if cookie, err := c.Cookie(a.cookie); err == nil {
		return cookie
	}
	return ""
}

// resolve validates the token and loads the current account.
func (a *Authenticator) resolve(c *gin.Context) bool {
	tokenString := a.token(c)
	if tokenString == "" {
		return false
	}

	claims, err := a.jwt.ValidateToken(tokenString)
	if err != nil {
		return false
	}

	account, err := a.accounts.FindByEmail(c.Request.Context(), claims.Email)
	if err != nil {
		return false
	}

	c.Set(ctxUserEmail, account.Email)
	c.Set(ctxUserRole, account.Role)
	c.Set(ctxTokenClaims, claims)
	return true
}

// Required rejects requests without a valid session
func (a *Authenticator) Required() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !a.resolve(c) {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Authentication required",
			})
			c.Abort()
			return
		}
		c.Next()
	}
}

// Optional attaches the account when a valid session is present and lets guests through
func (a *Authenticator) Optional() gin.HandlerFunc {
	return func(c *gin.Context) {
		a.resolve(c)
		c.Next()
	}
}

// RequireRole ensures the authenticated account holds one of roles
func RequireRole(roles ...user.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := GetUserEmailFromContext(c); !ok {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Authentication required",
			})
			c.Abort()
			return
		}

		if !HasRole(c, roles...) {
			c.JSON(http.StatusForbidden, gin.H{
				"error": "Insufficient permissions",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

// GetUserEmailFromContext extracts user email from gin context
func GetUserEmailFromContext(c *gin.Context) (string, bool) {
	email, exists := c.Get(ctxUserEmail)
	if !exists {
		return "", false
	}
	s, ok := email.(string)
	return s, ok
}

// GetRoleFromContext extracts the account role from gin context
func GetRoleFromContext(c *gin.Context) (user.Role, bool) {
	role, exists := c.Get(ctxUserRole)
	if !exists {
		return "", false
	}
	r, ok := role.(user.Role)
	return r, ok
}

// HasRole reports whether the request's account holds any of roles
func HasRole(c *gin.Context, roles ...user.Role) bool {
	current, ok := GetRoleFromContext(c)
	if !ok {
		return false
	}
	for _, r := range roles {
		if current == r {
			return true
		}
	}
	return false
}
