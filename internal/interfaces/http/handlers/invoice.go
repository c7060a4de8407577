// internal/interfaces/http/handlers/invoice.go
package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/your-org/bookstore-backend/internal/domain/order"
	"github.com/your-org/bookstore-backend/internal/pkg/pdf"
)

// InvoiceGenerator renders an order as a PDF
type InvoiceGenerator interface {
	GenerateInvoice(o *order.Order) (*bytes.Buffer, error)
}

// InvoiceHandler serves order invoices
type InvoiceHandler struct {
	orders   *OrderHandler
	invoices InvoiceGenerator
}

// NewInvoiceHandler creates a new invoice handler
func NewInvoiceHandler(orders *OrderHandler, invoices InvoiceGenerator) *InvoiceHandler {
	return &InvoiceHandler{
		orders:   orders,
		invoices: invoices,
	}
}

// DownloadInvoice handles GET /orders/:id/invoice
func (h *InvoiceHandler) DownloadInvoice(c *gin.Context) {
	o, ok := h.orders.visibleOrder(c)
	if !ok {
		return
	}

	buf, err := h.invoices.GenerateInvoice(o)
	if errors.Is(err, pdf.ErrDisabled) {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error": "Invoice generation is disabled",
		})
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}

	filename := fmt.Sprintf("%s.pdf", pdf.InvoiceNumber(o))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}
