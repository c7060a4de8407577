// internal/interfaces/http/handlers/catalog.go
package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/your-org/bookstore-backend/internal/domain/catalog"
)

// CatalogHandler handles book endpoints
type CatalogHandler struct {
	books *catalog.Service
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(books *catalog.Service) *CatalogHandler {
	return &CatalogHandler{books: books}
}

// ListBooksPlain handles GET /api/books and returns a bare JSON array
func (h *CatalogHandler) ListBooksPlain(c *gin.Context) {
	books, err := h.books.ListBooks(c.Request.Context(), catalog.ListRequest{})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, books)
}

// ListBooks handles GET /books
func (h *CatalogHandler) ListBooks(c *gin.Context) {
	var req catalog.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid query parameters",
			"details": err.Error(),
		})
		return
	}

	books, err := h.books.ListBooks(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, "Books retrieved successfully", gin.H{
		"books": books,
		"count": len(books),
	})
}

// GetBook handles GET /books/:id
func (h *CatalogHandler) GetBook(c *gin.Context) {
	id, ok := bookID(c)
	if !ok {
		return
	}

	book, err := h.books.GetBook(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, "Book retrieved successfully", book)
}

// Categories handles GET /categories
func (h *CatalogHandler) Categories(c *gin.Context) {
	categories, err := h.books.Categories(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, "Categories retrieved successfully", categories)
}

// CreateBook handles POST /admin/books
func (h *CatalogHandler) CreateBook(c *gin.Context) {
	var req catalog.CreateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	book, err := h.books.CreateBook(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Book created successfully",
		"data":    book,
	})
}

// UpdateBook handles PUT /admin/books/:id
func (h *CatalogHandler) UpdateBook(c *gin.Context) {
	id, ok := bookID(c)
	if !ok {
		return
	}

	var req catalog.UpdateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	book, err := h.books.UpdateBook(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, "Book updated successfully", book)
}

// DeleteBook handles DELETE /admin/books/:id
func (h *CatalogHandler) DeleteBook(c *gin.Context) {
	id, ok := bookID(c)
	if !ok {
		return
	}

	if err := h.books.DeleteBook(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Book deleted successfully",
	})
}

func bookID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid book ID",
		})
		return 0, false
	}
	return uint(id), true
}
