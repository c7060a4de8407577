package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/your-org/bookstore-backend/internal/config"
	"github.com/your-org/bookstore-backend/internal/pkg/apperr"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestRespondError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		body   map[string]string
	}{
		{"validation", apperr.Invalid("entries[0]", "price is not numeric"), http.StatusBadRequest, map[string]string{"field": "entries[0]"}},
		{"policy", &apperr.PolicyViolation{Rule: "password must contain at least one digit"}, http.StatusBadRequest, map[string]string{"rule": "password must contain at least one digit"}},
		{"empty cart", apperr.ErrEmptyCart, http.StatusBadRequest, map[string]string{"error": "Your cart is empty"}},
		{"auth", apperr.ErrAuthentication, http.StatusUnauthorized, map[string]string{"error": "invalid email or password"}},
		{"forbidden", apperr.ErrForbidden, http.StatusForbidden, nil},
		{"not found", fmt.Errorf("order x: %w", apperr.ErrNotFound), http.StatusNotFound, nil},
		{"duplicate", fmt.Errorf("user a: %w", apperr.ErrDuplicateAccount), http.StatusConflict, map[string]string{"error": "Email already exists"}},
		{"conflict", apperr.ErrConflict, http.StatusConflict, nil},
		{"declined", &apperr.PaymentDeclined{Message: "Payment failed: Invalid card number"}, http.StatusPaymentRequired, map[string]string{"error": "Payment failed: Invalid card number"}},
		{"deadline", fmt.Errorf("load cart: %w", context.DeadlineExceeded), http.StatusGatewayTimeout, nil},
		{"unknown", errors.New("disk on fire"), http.StatusInternalServerError, map[string]string{"error": "Internal server error"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			respondError(c, tt.err)

			assert.Equal(t, tt.status, w.Code)
			var body map[string]string
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			for k, v := range tt.body {
				assert.Equal(t, v, body[k], k)
			}
			assert.NotContains(t, w.Body.String(), "disk on fire")
		})
	}
}

func newSessions() *Sessions {
	return NewSessions(config.SessionConfig{
		TokenCookie:    "access_token",
		CartCookie:     "session_id",
		CookieHTTPOnly: true,
		CartTTL:        7 * 24 * time.Hour,
	})
}

func TestSessionsCartID(t *testing.T) {
	s := newSessions()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/cart", nil)

	assert.Empty(t, s.ExistingCartID(c))
	id := s.CartID(c)
	_, err := uuid.Parse(id)
	require.NoError(t, err)
	assert.Equal(t, id, s.CartID(c))

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "session_id", cookies[0].Name)
	assert.Equal(t, id, cookies[0].Value)
	assert.Equal(t, 7*24*3600, cookies[0].MaxAge)
	assert.Equal(t, http.SameSiteLaxMode, cookies[0].SameSite)
}

func TestSessionsRejectsForgedCartID(t *testing.T) {
	s := newSessions()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/cart", nil)
	c.Request.AddCookie(&http.Cookie{Name: "session_id", Value: "../../etc/passwd"})

	assert.Empty(t, s.ExistingCartID(c))
	assert.NotEqual(t, "../../etc/passwd", s.CartID(c))
}

func TestSessionsToken(t *testing.T) {
	s := newSessions()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	s.SetToken(c, "signed", time.Now().Add(time.Hour))

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "signed", cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)
	assert.InDelta(t, 3600, cookies[0].MaxAge, 2)
}
