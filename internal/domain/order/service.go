// internal/domain/order/service.go
package order

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/your-org/bookstore-backend/internal/domain/cart"
	"github.com/your-org/bookstore-backend/internal/domain/pricing"
	"github.com/your-org/bookstore-backend/internal/domain/user"
	"github.com/your-org/bookstore-backend/internal/pkg/apperr"
)

const maxIDAttempts = 3

// Recorder turns a priced cart snapshot into an order record. It never clears the cart.
type Recorder struct {
	repo   Repository
	engine *pricing.Engine
	log    *logrus.Logger
	newID  func() string
	now    func() time.Time
}

// NewRecorder creates a new order recorder
func NewRecorder(repo Repository, engine *pricing.Engine, log *logrus.Logger) *Recorder {
	return &Recorder{
		repo:   repo,
		engine: engine,
		log:    log,
		newID:  uuid.NewString,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// CreateOrderInput is everything needed to record an order
type CreateOrderInput struct {
	Lines         []cart.Line
	DiscountCodes []string
	Shipping      ShippingInfo
	Payment       PaymentResult
	UserEmail     string
	SessionID     string
}

// CreateOrder records an order. An empty snapshot fails with ErrEmptyCart and stores nothing.
// Totals come from the snapshot so they cannot drift with later catalogue changes.
func (r *Recorder) CreateOrder(ctx context.Context, in CreateOrderInput) (*Order, error) {
	lines := make([]cart.Line, 0, len(in.Lines))
	for _, line := range in.Lines {
		if line.Qty > 0 {
			lines = append(lines, line)
		}
	}
	if len(lines) == 0 {
		return nil, apperr.ErrEmptyCart
	}

	priced := make([]pricing.Line, 0, len(lines))
	for _, line := range lines {
		priced = append(priced, pricing.Line{Title: line.Title, Price: line.Price, Qty: line.Qty})
	}
	totals := r.engine.ComputeLines(priced, in.DiscountCodes)

	id, err := r.freshID(ctx)
	if err != nil {
		return nil, err
	}

	o := &Order{
		ID:            id,
		UserEmail:     user.NormalizeEmail(in.UserEmail),
		SessionID:     in.SessionID,
		Status:        OrderStatusConfirmed,
		Subtotal:      totals.Subtotal,
		Discount:      totals.Discount,
		Total:         totals.Total,
		DiscountCodes: strings.Join(totals.AppliedCodes, ","),
		Shipping:      in.Shipping,
		Payment:       in.Payment,
		CreatedAt:     r.now(),
		Lines:         make([]OrderLine, 0, len(totals.LineItems)),
	}
	for i, item := range totals.LineItems {
		o.Lines = append(o.Lines, OrderLine{
			OrderID:   id,
			Position:  i,
			Title:     item.Title,
			Price:     item.Price,
			Quantity:  item.Qty,
			LineTotal: item.LineTotal,
		})
	}

	if err := r.repo.Create(ctx, o); err != nil {
		return nil, err
	}

	r.log.WithFields(logrus.Fields{
		"order_id": o.ID,
		"user":     o.UserEmail,
		"total":    o.Total.StringFixed(2),
		"items":    o.TotalItems(),
	}).Info("Order recorded")

	return o, nil
}

// GetOrder returns an order by id
func (r *Recorder) GetOrder(ctx context.Context, id string) (*Order, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("order %s: %w", id, apperr.ErrNotFound)
	}
	return r.repo.FindByID(ctx, id)
}

// GetOrdersForUser returns the user's order history ordered by creation time
func (r *Recorder) GetOrdersForUser(ctx context.Context, email string) ([]Order, error) {
	email = user.NormalizeEmail(email)
	if email == "" {
		return []Order{}, nil
	}
	return r.repo.ListByUser(ctx, email)
}

func (r *Recorder) freshID(ctx context.Context) (string, error) {
	for attempt := 0; attempt < maxIDAttempts; attempt++ {
		id := r.newID()
		exists, err := r.repo.Exists(ctx, id)
		if err != nil {
			return "", err
		}
		if !exists {
			return id, nil
		}
		r.log.WithField("order_id", id).Warn("Order id collision, regenerating")
	}
	return "", fmt.Errorf("could not generate a unique order id after %d attempts", maxIDAttempts)
}
