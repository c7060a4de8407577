// internal/domain/cart/service.go
package cart

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/your-org/bookstore-backend/internal/domain/catalog"
	"github.com/your-org/bookstore-backend/internal/domain/pricing"
)

// BookFinder resolves the book being added so the cart captures its current price.
type BookFinder interface {
	GetBook(ctx context.Context, id uint) (*catalog.Book, error)
}

// Service handles session cart operations
type Service struct {
	store Store
	books BookFinder
	log   *logrus.Logger
}

// NewService creates a new cart service
func NewService(store Store, books BookFinder, log *logrus.Logger) *Service {
	return &Service{
		store: store,
		books: books,
		log:   log,
	}
}

// CartResponse represents the cart with totals
type CartResponse struct {
	SessionID  string         `json:"session_id"`
	Items      []Line         `json:"items"`
	TotalItems int            `json:"total_items"`
	IsEmpty    bool           `json:"is_empty"`
	Totals     pricing.Totals `json:"totals"`
}

// AddToCartRequest represents add to cart data
type AddToCartRequest struct {
	BookID   uint `json:"book_id" binding:"required"`
	Quantity int  `json:"quantity" binding:"lte=999"`
}

// UpdateCartItemRequest represents a quantity change
type UpdateCartItemRequest struct {
	Title    string `json:"title" binding:"required"`
	Quantity int    `json:"quantity" binding:"lte=999"`
}

// GetCart returns the session cart with its totals
func (s *Service) GetCart(ctx context.Context, sessionID string) (*CartResponse, error) {
	cart, err := s.store.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return s.respond(cart), nil
}

// Load returns the raw session cart.
func (s *Service) Load(ctx context.Context, sessionID string) (*Cart, error) {
	return s.store.Load(ctx, sessionID)
}

// AddToCart adds a catalogue book to the cart. Quantities below one are raised to one.
func (s *Service) AddToCart(ctx context.Context, sessionID string, req AddToCartRequest) (*CartResponse, error) {
	book, err := s.books.GetBook(ctx, req.BookID)
	if err != nil {
		return nil, err
	}

	qty := max(req.Quantity, 1)

	cart, err := s.store.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := cart.Add(book.Title, book.Price, qty); err != nil {
		return nil, fmt.Errorf("failed to add %q: %w", book.Title, err)
	}
	if err := s.store.Save(ctx, cart); err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{"session_id": sessionID, "title": book.Title, "quantity": qty}).Debug("Added to cart")
	return s.respond(cart), nil
}

// UpdateCartItem sets a line's quantity; zero or less removes it.
func (s *Service) UpdateCartItem(ctx context.Context, sessionID string, req UpdateCartItemRequest) (*CartResponse, error) {
	cart, err := s.store.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := cart.Update(req.Title, req.Quantity); err != nil {
		return nil, fmt.Errorf("cart item %q: %w", req.Title, err)
	}
	if err := s.store.Save(ctx, cart); err != nil {
		return nil, err
	}
	return s.respond(cart), nil
}

// RemoveFromCart drops a title from the cart.
func (s *Service) RemoveFromCart(ctx context.Context, sessionID, title string) (*CartResponse, error) {
	cart, err := s.store.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	cart.Remove(title)
	if err := s.store.Save(ctx, cart); err != nil {
		return nil, err
	}
	return s.respond(cart), nil
}

// ClearCart empties the session cart.
func (s *Service) ClearCart(ctx context.Context, sessionID string) error {
	return s.store.Delete(ctx, sessionID)
}

func (s *Service) respond(cart *Cart) *CartResponse {
	return &CartResponse{
		SessionID:  cart.SessionID,
		Items:      cart.Snapshot(),
		TotalItems: cart.TotalItems(),
		IsEmpty:    cart.IsEmpty(),
		Totals:     undiscounted.ComputeLines(cart.PricingLines(), nil),
	}
}
