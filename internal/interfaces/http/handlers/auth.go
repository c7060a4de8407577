// internal/interfaces/http/handlers/auth.go
package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/your-org/bookstore-backend/internal/domain/user"
	"github.com/your-org/bookstore-backend/internal/pkg/auth"
)

// LoginRequest represents login credentials
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// AuthResponse is returned after a successful login or registration
type AuthResponse struct {
	User      *user.User `json:"user"`
	Token     string     `json:"token"`
	ExpiresAt time.Time  `json:"expires_at"`
}

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	guard    *user.Guard
	jwt      *auth.JWTManager
	sessions *Sessions
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(guard *user.Guard, jwtManager *auth.JWTManager, sessions *Sessions) *AuthHandler {
	return &AuthHandler{
		guard:    guard,
		jwt:      jwtManager,
		sessions: sessions,
	}
}

// Register handles POST /auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req user.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	account, err := h.guard.Register(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	response, ok := h.startSession(c, account)
	if !ok {
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "User registered successfully",
		"data":    response,
	})
}

// Login handles POST /auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	account, err := h.guard.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	response, ok := h.startSession(c, account)
	if !ok {
		return
	}

	respondOK(c, "Login successful", response)
}

// Logout handles POST /auth/logout. The token is stateless, so this only clears the cookie.
func (h *AuthHandler) Logout(c *gin.Context) {
	h.sessions.ClearToken(c)
	c.JSON(http.StatusOK, gin.H{
		"message": "Logged out successfully",
	})
}

func (h *AuthHandler) startSession(c *gin.Context, account *user.User) (*AuthResponse, bool) {
	token, expiresAt, err := h.jwt.GenerateSessionToken(account.Email, string(account.Role))
	if err != nil {
		respondError(c, err)
		return nil, false
	}
	h.sessions.SetToken(c, token, expiresAt)

	return &AuthResponse{
		User:      account,
		Token:     token,
		ExpiresAt: expiresAt,
	}, true
}
