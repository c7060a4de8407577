// internal/domain/order/entity.go
package order

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus represents the order status
type OrderStatus string

// Orders are recorded once, after payment succeeds, and never change afterwards.
const OrderStatusConfirmed OrderStatus = "confirmed"

// ShippingInfo is the delivery address captured at checkout
type ShippingInfo struct {
	Name    string `gorm:"size:255" json:"name" binding:"required"`
	Email   string `gorm:"size:255" json:"email" binding:"required,email"`
	Address string `gorm:"size:500" json:"address" binding:"required"`
	City    string `gorm:"size:100" json:"city" binding:"required"`
	ZipCode string `gorm:"size:20" json:"zip_code" binding:"required"`
}

// PaymentResult is what the gateway reported. Only the last four card digits are kept.
type PaymentResult struct {
	Success       bool   `json:"success"`
	Message       string `gorm:"size:255" json:"message"`
	TransactionID string `gorm:"size:64" json:"transaction_id"`
	CardLast4     string `gorm:"size:4" json:"card_last4"`
}

// Order represents a recorded checkout
type Order struct {
	ID            string          `gorm:"primaryKey;size:36" json:"order_id"`
	UserEmail     string          `gorm:"size:255;index:idx_orders_user_created,priority:1" json:"user_email,omitempty"`
	SessionID     string          `gorm:"size:64;index" json:"-"`
	Status        OrderStatus     `gorm:"size:20;not null" json:"status"`
	Subtotal      decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"subtotal"`
	Discount      decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"discount"`
	Total         decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"total"`
	DiscountCodes string          `gorm:"size:255" json:"discount_codes"`
	Shipping      ShippingInfo    `gorm:"embedded;embeddedPrefix:shipping_" json:"shipping"`
	Payment       PaymentResult   `gorm:"embedded;embeddedPrefix:payment_" json:"payment"`
	CreatedAt     time.Time       `gorm:"index:idx_orders_user_created,priority:2" json:"created_at"`

	Lines []OrderLine `gorm:"foreignKey:OrderID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"lines"`
}

// OrderLine is a copy of a cart line taken at checkout
type OrderLine struct {
	ID        uint            `gorm:"primaryKey" json:"-"`
	OrderID   string          `gorm:"size:36;not null;index" json:"-"`
	Position  int             `gorm:"not null" json:"-"`
	Title     string          `gorm:"size:255;not null" json:"title"`
	Price     decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"price"`
	Quantity  int             `gorm:"not null" json:"quantity"`
	LineTotal decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"line_total"`
}

// TableName overrides the table name
func (Order) TableName() string {
	return "orders"
}

// TableName overrides the table name
func (OrderLine) TableName() string {
	return "order_lines"
}

// Codes returns the applied discount codes.
func (o *Order) Codes() []string {
	if o.DiscountCodes == "" {
		return nil
	}
	return strings.Split(o.DiscountCodes, ",")
}

// TotalItems is the sum of line quantities.
func (o *Order) TotalItems() int {
	total := 0
	for _, line := range o.Lines {
		total += line.Quantity
	}
	return total
}

// VisibleTo reports whether the caller may view the order: its owner, an admin or
// reviewer, or the guest session that placed it.
func (o *Order) VisibleTo(email string, staff bool, sessionID string) bool {
	switch {
	case staff:
		return true
	case o.UserEmail != "" && o.UserEmail == email:
		return true
	case o.UserEmail == "" && o.SessionID != "" && o.SessionID == sessionID:
		return true
	}
	return false
}
