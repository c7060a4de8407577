// internal/domain/payment/gateway.go
package payment

import (
	"context"
	"crypto/rand"
	"fmt"
	"io"
	"math/big"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/your-org/bookstore-backend/internal/config"
	"github.com/your-org/bookstore-backend/internal/pkg/apperr"
)

const (
	MessageSuccess  = "Payment processed successfully"
	MessageDeclined = "Payment failed: Invalid card number"

	MethodCard   = "card"
	MethodPayPal = "paypal"
)

// ChargeRequest carries the card details submitted at checkout. It is never persisted.
type ChargeRequest struct {
	CardNumber    string          `json:"card_number" binding:"required"`
	ExpiryDate    string          `json:"expiry_date"`
	CVV           string          `json:"cvv"`
	PaymentMethod string          `json:"payment_method"`
	Amount        decimal.Decimal `json:"-"`
}

// Result is the gateway's answer
type Result struct {
	Success       bool   `json:"success"`
	Message       string `json:"message"`
	TransactionID string `json:"transaction_id,omitempty"`
	CardLast4     string `json:"card_last4"`
}

// Gateway charges a payment
type Gateway interface {
	Charge(ctx context.Context, req ChargeRequest) (Result, error)
}

// MockGateway declines cards ending in a fixed suffix and approves everything else.
type MockGateway struct {
	declineSuffix string
	random        io.Reader
	log           *logrus.Logger
}

// NewMockGateway creates a new mock payment gateway
func NewMockGateway(cfg config.PaymentConfig, log *logrus.Logger) *MockGateway {
	return &MockGateway{
		declineSuffix: cfg.DeclineSuffix,
		random:        rand.Reader,
		log:           log,
	}
}

// Charge runs the mock payment. A decline is a normal Result, not an error;
// errors are reserved for malformed requests.
func (g *MockGateway) Charge(ctx context.Context, req ChargeRequest) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	card := stripSeparators(req.CardNumber)
	if card == "" {
		return Result{}, apperr.Invalid("card_number", "is required")
	}
	if !allDigits(card) {
		return Result{}, apperr.Invalid("card_number", "must contain only digits")
	}
	if req.Amount.IsNegative() {
		return Result{}, apperr.Invalid("amount", "must be non-negative")
	}
	switch strings.ToLower(req.PaymentMethod) {
	case "", MethodCard, MethodPayPal:
	default:
		return Result{}, apperr.Invalid("payment_method", "unsupported method %q", req.PaymentMethod)
	}

	result := Result{CardLast4: LastFour(card)}

	if g.declineSuffix != "" && strings.HasSuffix(card, g.declineSuffix) {
		result.Message = MessageDeclined
		g.log.WithFields(logrus.Fields{
			"card_last4": result.CardLast4,
			"amount":     req.Amount.StringFixed(2),
		}).Warn("Payment declined")
		return result, nil
	}

	txn, err := g.transactionID()
	if err != nil {
		return Result{}, fmt.Errorf("failed to generate transaction id: %w", err)
	}
	result.Success = true
	result.Message = MessageSuccess
	result.TransactionID = txn

	g.log.WithFields(logrus.Fields{
		"transaction_id": txn,
		"card_last4":     result.CardLast4,
		"amount":         req.Amount.StringFixed(2),
	}).Info("Payment processed")

	return result, nil
}

// transactionID is "TXN" followed by six random digits, never starting with zero.
func (g *MockGateway) transactionID() (string, error) {
	n, err := rand.Int(g.random, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("TXN%d", n.Int64()+100000), nil
}

// LastFour returns the last four digits of a card number.
func LastFour(card string) string {
	card = stripSeparators(card)
	if len(card) <= 4 {
		return card
	}
	return card[len(card)-4:]
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func stripSeparators(s string) string {
	return strings.Map(func(r rune) rune {
		if r == ' ' || r == '-' {
			return -1
		}
		return r
	}, s)
}
