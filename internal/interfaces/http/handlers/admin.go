// internal/interfaces/http/handlers/admin.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/your-org/bookstore-backend/internal/domain/user"
	"github.com/your-org/bookstore-backend/internal/interfaces/http/middleware"
)

// AssignRoleRequest represents a role change
type AssignRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

// UserAdminHandler handles admin user management endpoints
type UserAdminHandler struct {
	admin *user.AdminService
}

// NewUserAdminHandler creates a new user admin handler
func NewUserAdminHandler(admin *user.AdminService) *UserAdminHandler {
	return &UserAdminHandler{admin: admin}
}

// GetUsers handles GET /admin/users
func (h *UserAdminHandler) GetUsers(c *gin.Context) {
	users, err := h.admin.GetUsers(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, "Users retrieved successfully", gin.H{
		"users": users,
		"total": len(users),
	})
}

// CreateUser handles POST /admin/users
func (h *UserAdminHandler) CreateUser(c *gin.Context) {
	adminEmail, _ := middleware.GetUserEmailFromContext(c)

	var req user.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	created, err := h.admin.CreateUser(c.Request.Context(), req, adminEmail)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "User created successfully",
		"data":    created,
	})
}

// AssignRole handles PUT /admin/users/:email/role
func (h *UserAdminHandler) AssignRole(c *gin.Context) {
	adminEmail, _ := middleware.GetUserEmailFromContext(c)

	var req AssignRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	updated, err := h.admin.AssignRole(c.Request.Context(), c.Param("email"), req.Role, adminEmail)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, "User role updated successfully", updated)
}

// UnlockUser handles POST /admin/users/:email/unlock
func (h *UserAdminHandler) UnlockUser(c *gin.Context) {
	adminEmail, _ := middleware.GetUserEmailFromContext(c)

	if err := h.admin.UnlockUser(c.Request.Context(), c.Param("email"), adminEmail); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "User unlocked successfully",
	})
}
