// internal/domain/checkout/service.go
package checkout

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/your-org/bookstore-backend/internal/domain/cart"
	"github.com/your-org/bookstore-backend/internal/domain/order"
	"github.com/your-org/bookstore-backend/internal/domain/payment"
	"github.com/your-org/bookstore-backend/internal/domain/pricing"
	"github.com/your-org/bookstore-backend/internal/pkg/apperr"
	"github.com/your-org/bookstore-backend/internal/pkg/email"
	"github.com/your-org/bookstore-backend/internal/pkg/events"
)

// CartProvider loads and clears session carts
type CartProvider interface {
	Load(ctx context.Context, sessionID string) (*cart.Cart, error)
	ClearCart(ctx context.Context, sessionID string) error
}

// OrderRecorder persists confirmed orders
type OrderRecorder interface {
	CreateOrder(ctx context.Context, in order.CreateOrderInput) (*order.Order, error)
}

// Notifier sends the order confirmation on a best effort basis
type Notifier interface {
	NotifyOrderConfirmation(ctx context.Context, data email.OrderConfirmationData)
}

// Service handles checkout business logic
type Service struct {
	carts     CartProvider
	engine    *pricing.Engine
	gateway   payment.Gateway
	orders    OrderRecorder
	notifier  Notifier
	publisher events.Publisher
	log       *logrus.Logger
}

// NewService creates a new checkout service
func NewService(
	carts CartProvider,
	engine *pricing.Engine,
	gateway payment.Gateway,
	orders OrderRecorder,
	notifier Notifier,
	publisher events.Publisher,
	log *logrus.Logger,
) *Service {
	return &Service{
		carts:     carts,
		engine:    engine,
		gateway:   gateway,
		orders:    orders,
		notifier:  notifier,
		publisher: publisher,
		log:       log,
	}
}

// CheckoutRequest represents checkout data. Discount codes may come as a list,
// a comma separated string, or both.
type CheckoutRequest struct {
	Shipping      order.ShippingInfo    `json:"shipping" binding:"required"`
	Payment       payment.ChargeRequest `json:"payment" binding:"required"`
	DiscountCodes []string              `json:"discount_codes"`
	DiscountCode  string                `json:"discount_code"`
}

// Codes merges both discount code fields.
func (r CheckoutRequest) Codes() []string {
	return pricing.SplitCodes(append(append([]string{}, r.DiscountCodes...), r.DiscountCode)...)
}

// Quote represents the priced session cart
type Quote struct {
	Items      []cart.Line    `json:"items"`
	TotalItems int            `json:"total_items"`
	IsEmpty    bool           `json:"is_empty"`
	Totals     pricing.Totals `json:"totals"`
}

// OrderPlaced is the payload of the order.placed event
type OrderPlaced struct {
	OrderID       string   `json:"order_id"`
	UserEmail     string   `json:"user_email,omitempty"`
	Total         string   `json:"total"`
	Items         int      `json:"items"`
	DiscountCodes []string `json:"discount_codes,omitempty"`
	TransactionID string   `json:"transaction_id"`
}

// Quote prices the session cart with the given discount codes.
func (s *Service) Quote(ctx context.Context, sessionID string, codes []string) (*Quote, error) {
	c, err := s.carts.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return &Quote{
		Items:      c.Snapshot(),
		TotalItems: c.TotalItems(),
		IsEmpty:    c.IsEmpty(),
		Totals:     s.engine.ComputeLines(c.PricingLines(), codes),
	}, nil
}

// Checkout charges the session cart and records the order.
// A declined payment returns ErrPaymentDeclined, records nothing and keeps the cart.
func (s *Service) Checkout(ctx context.Context, sessionID, userEmail string, req CheckoutRequest) (*order.Order, error) {
	c, err := s.carts.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if c.IsEmpty() {
		return nil, apperr.ErrEmptyCart
	}

	codes := req.Codes()
	totals := s.engine.ComputeLines(c.PricingLines(), codes)

	charge := req.Payment
	charge.Amount = totals.Total
	result, err := s.gateway.Charge(ctx, charge)
	if err != nil {
		return nil, fmt.Errorf("payment: %w", err)
	}
	if !result.Success {
		return nil, &apperr.PaymentDeclined{Message: result.Message}
	}

	o, err := s.orders.CreateOrder(ctx, order.CreateOrderInput{
		Lines:         c.Snapshot(),
		DiscountCodes: codes,
		Shipping:      req.Shipping,
		Payment: order.PaymentResult{
			Success:       result.Success,
			Message:       result.Message,
			TransactionID: result.TransactionID,
			CardLast4:     result.CardLast4,
		},
		UserEmail: userEmail,
		SessionID: sessionID,
	})
	if err != nil {
		// the charge went through; the transaction id is needed to reconcile it
		s.log.WithFields(logrus.Fields{
			"transaction_id": result.TransactionID,
			"session_id":     sessionID,
		}).WithError(err).Error("Payment captured but order was not recorded")
		return nil, fmt.Errorf("failed to record order: %w", err)
	}

	if err := s.carts.ClearCart(ctx, sessionID); err != nil {
		s.log.WithField("order_id", o.ID).WithError(err).Warn("Failed to clear cart after checkout")
	}

	s.notifier.NotifyOrderConfirmation(ctx, confirmationData(o))

	if err := s.publisher.Publish(ctx, events.TopicOrderPlaced, o.ID, OrderPlaced{
		OrderID:       o.ID,
		UserEmail:     o.UserEmail,
		Total:         o.Total.StringFixed(2),
		Items:         o.TotalItems(),
		DiscountCodes: o.Codes(),
		TransactionID: o.Payment.TransactionID,
	}); err != nil {
		s.log.WithField("order_id", o.ID).WithError(err).Warn("Failed to publish order event")
	}

	s.log.WithFields(logrus.Fields{
		"order_id":       o.ID,
		"transaction_id": o.Payment.TransactionID,
		"total":          o.Total.StringFixed(2),
	}).Info("Checkout completed")

	return o, nil
}

func confirmationData(o *order.Order) email.OrderConfirmationData {
	items := make([]email.OrderItem, 0, len(o.Lines))
	for _, line := range o.Lines {
		items = append(items, email.OrderItem{
			Title:    line.Title,
			Quantity: line.Quantity,
			Price:    line.Price.StringFixed(2),
			Total:    line.LineTotal.StringFixed(2),
		})
	}

	return email.OrderConfirmationData{
		EmailTemplateData: email.EmailTemplateData{
			UserName:  o.Shipping.Name,
			UserEmail: o.Shipping.Email,
		},
		OrderNumber:   o.ID,
		OrderDate:     o.CreatedAt.Format("2006-01-02 15:04:05"),
		Subtotal:      o.Subtotal.StringFixed(2),
		Discount:      o.Discount.StringFixed(2),
		OrderTotal:    o.Total.StringFixed(2),
		DiscountCodes: o.Codes(),
		TransactionID: o.Payment.TransactionID,
		Items:         items,
		ShippingAddress: email.Address{
			Name:    o.Shipping.Name,
			Address: o.Shipping.Address,
			City:    o.Shipping.City,
			ZipCode: o.Shipping.ZipCode,
		},
	}
}
