// internal/interfaces/http/handlers/session.go
package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/your-org/bookstore-backend/internal/config"
)

// Sessions manages the session token cookie and the guest cart cookie.
type Sessions struct {
	cfg config.SessionConfig
}

// NewSessions creates the cookie helper
func NewSessions(cfg config.SessionConfig) *Sessions {
	return &Sessions{cfg: cfg}
}

func (s *Sessions) setCookie(c *gin.Context, name, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(name, value, maxAge, "/", s.cfg.CookieDomain, s.cfg.CookieSecure, s.cfg.CookieHTTPOnly)
}

// CartID returns the request's cart session id, issuing a new one when missing or malformed.
func (s *Sessions) CartID(c *gin.Context) string {
	if id := s.ExistingCartID(c); id != "" {
		return id
	}
	id := uuid.NewString()
	s.setCookie(c, s.cfg.CartCookie, id, int(s.cfg.CartTTL/time.Second))
	// later reads in the same request must see the new id
	c.Request.AddCookie(&http.Cookie{Name: s.cfg.CartCookie, Value: id})
	return id
}

// ExistingCartID returns the cart session id without issuing one.
func (s *Sessions) ExistingCartID(c *gin.Context) string {
	id, err := c.Cookie(s.cfg.CartCookie)
	if err != nil {
		return ""
	}
	if _, err := uuid.Parse(id); err != nil {
		return ""
	}
	return id
}

// SetToken stores the signed session token
func (s *Sessions) SetToken(c *gin.Context, token string, expiresAt time.Time) {
	s.setCookie(c, s.cfg.TokenCookie, token, int(time.Until(expiresAt)/time.Second))
}

// ClearToken removes the session token
func (s *Sessions) ClearToken(c *gin.Context) {
	s.setCookie(c, s.cfg.TokenCookie, "", -1)
}
