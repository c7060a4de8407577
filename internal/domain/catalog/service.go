// internal/domain/catalog/service.go
package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/your-org/bookstore-backend/internal/domain/pricing"
	"github.com/your-org/bookstore-backend/internal/pkg/apperr"
	"github.com/your-org/bookstore-backend/internal/pkg/events"
	"gorm.io/gorm"
)

// Service handles catalogue reads and admin edits
type Service struct {
	db        *gorm.DB
	publisher events.Publisher
	log       *logrus.Logger
}

// NewService creates a new catalogue service
func NewService(db *gorm.DB, publisher events.Publisher, log *logrus.Logger) *Service {
	return &Service{
		db:        db,
		publisher: publisher,
		log:       log,
	}
}

// ListRequest represents catalogue query parameters
type ListRequest struct {
	Search   string `form:"q"`
	Category string `form:"category"`
}

// CreateBookRequest represents book creation data
type CreateBookRequest struct {
	Title    string           `json:"title" binding:"required"`
	Category string           `json:"category" binding:"required"`
	Price    *decimal.Decimal `json:"price"`
	Image    string           `json:"image"`
}

// UpdateBookRequest represents a partial book edit
type UpdateBookRequest struct {
	Title    *string          `json:"title"`
	Category *string          `json:"category"`
	Price    *decimal.Decimal `json:"price"`
	Image    *string          `json:"image"`
}

// ListBooks returns books ordered by title, optionally filtered by category and a search term
// matched against title and category.
func (s *Service) ListBooks(ctx context.Context, req ListRequest) ([]Book, error) {
	query := s.db.WithContext(ctx).Model(&Book{})

	if category := strings.TrimSpace(req.Category); category != "" {
		query = query.Where("category = ?", category)
	}

	if search := strings.TrimSpace(req.Search); search != "" {
		like := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(title) LIKE ? OR LOWER(category) LIKE ?", like, like)
	}

	var books []Book
	if err := query.Order("title ASC").Find(&books).Error; err != nil {
		return nil, fmt.Errorf("failed to list books: %w", err)
	}
	return books, nil
}

// Categories returns the distinct categories in alphabetical order.
func (s *Service) Categories(ctx context.Context) ([]string, error) {
	var categories []string
	err := s.db.WithContext(ctx).Model(&Book{}).
		Distinct("category").
		Order("category ASC").
		Pluck("category", &categories).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

// GetBook returns a book by id.
func (s *Service) GetBook(ctx context.Context, id uint) (*Book, error) {
	var book Book
	if err := s.db.WithContext(ctx).First(&book, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("book %d: %w", id, apperr.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get book: %w", err)
	}
	return &book, nil
}

// GetBookByTitle returns a book by its exact title.
func (s *Service) GetBookByTitle(ctx context.Context, title string) (*Book, error) {
	var book Book
	if err := s.db.WithContext(ctx).Where("title = ?", title).First(&book).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("book %q: %w", title, apperr.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get book: %w", err)
	}
	return &book, nil
}

// CreateBook adds a book to the catalogue.
func (s *Service) CreateBook(ctx context.Context, req CreateBookRequest) (*Book, error) {
	book := Book{
		Title:    strings.TrimSpace(req.Title),
		Category: strings.TrimSpace(req.Category),
		Image:    strings.TrimSpace(req.Image),
	}
	if req.Price == nil {
		return nil, apperr.Invalid("price", "is required")
	}
	book.Price = pricing.Round2(*req.Price)
	if book.Image == "" {
		book.Image = DefaultImage
	}

	if err := validate(&book); err != nil {
		return nil, err
	}
	if err := s.ensureTitleFree(ctx, book.Title, 0); err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).Create(&book).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("title %q: %w", book.Title, apperr.ErrConflict)
		}
		return nil, fmt.Errorf("failed to create book: %w", err)
	}

	s.log.WithFields(logrus.Fields{"book_id": book.ID, "title": book.Title}).Info("Book created")
	s.emit(ctx, events.TopicBookCreated, book.ID, &book)
	return &book, nil
}

// UpdateBook applies an admin edit.
func (s *Service) UpdateBook(ctx context.Context, id uint, req UpdateBookRequest) (*Book, error) {
	book, err := s.GetBook(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		book.Title = strings.TrimSpace(*req.Title)
	}
	if req.Category != nil {
		book.Category = strings.TrimSpace(*req.Category)
	}
	if req.Price != nil {
		book.Price = pricing.Round2(*req.Price)
	}
	if req.Image != nil {
		book.Image = strings.TrimSpace(*req.Image)
		if book.Image == "" {
			book.Image = DefaultImage
		}
	}

	if err := validate(book); err != nil {
		return nil, err
	}
	if err := s.ensureTitleFree(ctx, book.Title, book.ID); err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).Save(book).Error; err != nil {
		return nil, fmt.Errorf("failed to update book: %w", err)
	}

	s.emit(ctx, events.TopicBookUpdated, book.ID, book)
	return book, nil
}

// DeleteBook removes a book. Recorded orders keep their own line snapshots.
func (s *Service) DeleteBook(ctx context.Context, id uint) error {
	result := s.db.WithContext(ctx).Delete(&Book{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete book: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("book %d: %w", id, apperr.ErrNotFound)
	}

	s.emit(ctx, events.TopicBookDeleted, id, map[string]uint{"id": id})
	return nil
}

// SeedDefaults inserts the default catalogue entries that are not present yet.
func (s *Service) SeedDefaults(ctx context.Context) (int, error) {
	created := 0
	for _, book := range DefaultBooks() {
		var count int64
		if err := s.db.WithContext(ctx).Model(&Book{}).Where("title = ?", book.Title).Count(&count).Error; err != nil {
			return created, fmt.Errorf("failed to check book %q: %w", book.Title, err)
		}
		if count > 0 {
			continue
		}
		if err := s.db.WithContext(ctx).Create(&book).Error; err != nil {
			return created, fmt.Errorf("failed to seed book %q: %w", book.Title, err)
		}
		created++
	}
	return created, nil
}

func (s *Service) ensureTitleFree(ctx context.Context, title string, selfID uint) error {
	var existing Book
	err := s.db.WithContext(ctx).Where("title = ?", title).First(&existing).Error
	if err == nil && existing.ID != selfID {
		return fmt.Errorf("title %q: %w", title, apperr.ErrConflict)
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to check title: %w", err)
	}
	return nil
}

func (s *Service) emit(ctx context.Context, topic string, id uint, payload any) {
	key := fmt.Sprint(id)
	if err := s.publisher.Publish(ctx, topic, key, payload); err != nil {
		s.log.WithError(err).WithField("topic", topic).Warn("Failed to publish catalogue event")
	}
}

func validate(book *Book) error {
	if book.Title == "" {
		return apperr.Invalid("title", "is required")
	}
	if book.Category == "" {
		return apperr.Invalid("category", "is required")
	}
	if book.Price.IsNegative() {
		return apperr.Invalid("price", "must be non-negative")
	}
	return nil
}
