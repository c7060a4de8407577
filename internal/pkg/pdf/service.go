// internal/pkg/pdf/service.go
package pdf

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"time"

	"github.com/SebastiaanKlippert/go-wkhtmltopdf"
	"github.com/your-org/bookstore-backend/internal/config"
	"github.com/your-org/bookstore-backend/internal/domain/order"
)

// ErrDisabled is returned when invoice rendering is switched off.
var ErrDisabled = errors.New("invoice generation is disabled")

var invoiceTmpl = template.Must(template.New("invoice").Parse(invoiceTemplate))

// Service handles PDF generation
type Service struct {
	config config.InvoiceConfig
	now    func() time.Time
}

// NewService creates a new PDF service
func NewService(cfg config.InvoiceConfig) *Service {
	return &Service{
		config: cfg,
		now:    time.Now,
	}
}

// Enabled reports whether invoices can be generated.
func (s *Service) Enabled() bool {
	return s.config.Enabled
}

// GenerateInvoice generates a PDF invoice for an order. It needs the wkhtmltopdf binary.
func (s *Service) GenerateInvoice(o *order.Order) (*bytes.Buffer, error) {
	if !s.config.Enabled {
		return nil, ErrDisabled
	}

	htmlContent, err := s.generateHTML(s.invoiceData(o))
	if err != nil {
		return nil, fmt.Errorf("failed to generate HTML: %w", err)
	}

	pdfg, err := wkhtmltopdf.NewPDFGenerator()
	if err != nil {
		return nil, fmt.Errorf("failed to create PDF generator: %w", err)
	}

	pdfg.Dpi.Set(300)
	pdfg.Orientation.Set(wkhtmltopdf.OrientationPortrait)
	pdfg.PageSize.Set(wkhtmltopdf.PageSizeA4)

	page := wkhtmltopdf.NewPageReader(bytes.NewReader([]byte(htmlContent)))
	page.FooterRight.Set("[page]")
	page.FooterFontSize.Set(9)
	pdfg.AddPage(page)

	if err := pdfg.Create(); err != nil {
		return nil, fmt.Errorf("failed to create PDF: %w", err)
	}

	return bytes.NewBuffer(pdfg.Bytes()), nil
}

// InvoiceNumber derives the invoice number from the order id.
func InvoiceNumber(o *order.Order) string {
	id := o.ID
	if len(id) > 8 {
		id = id[:8]
	}
	return fmt.Sprintf("INV-%s", id)
}

func (s *Service) invoiceData(o *order.Order) InvoiceData {
	return InvoiceData{
		InvoiceNumber: InvoiceNumber(o),
		InvoiceDate:   s.now().Format("January 2, 2006"),
		StoreName:     s.config.StoreName,
		Order:         o,
	}
}

func (s *Service) generateHTML(data InvoiceData) (string, error) {
	var buf bytes.Buffer
	if err := invoiceTmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}
	return buf.String(), nil
}

// InvoiceData represents the data passed to the invoice template
type InvoiceData struct {
	InvoiceNumber string       `json:"invoice_number"`
	InvoiceDate   string       `json:"invoice_date"`
	StoreName     string       `json:"store_name"`
	Order         *order.Order `json:"order"`
}

const invoiceTemplate = `<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>Invoice {{.InvoiceNumber}}</title>
    <style>
        body { font-family: Arial, sans-serif; padding: 20px; color: #333; }
        .header { border-bottom: 2px solid #eee; margin-bottom: 30px; padding-bottom: 20px; }
        .invoice-title { font-size: 28px; font-weight: bold; color: #2563eb; }
        .items-table { width: 100%; border-collapse: collapse; margin-bottom: 30px; }
        .items-table th, .items-table td { border: 1px solid #ddd; padding: 10px 8px; text-align: left; }
        .items-table .num { text-align: right; width: 90px; }
        .totals { float: right; width: 300px; }
        .totals td { padding: 6px; text-align: right; }
        .total-row { font-size: 18px; font-weight: bold; }
        .footer { clear: both; margin-top: 50px; text-align: center; color: #666; font-size: 12px; }
    </style>
</head>
<body>
    <div class="header">
        <h1>{{.StoreName}}</h1>
        <div class="invoice-title">INVOICE</div>
        <p><strong>Invoice #:</strong> {{.InvoiceNumber}}</p>
        <p><strong>Invoice Date:</strong> {{.InvoiceDate}}</p>
        <p><strong>Order #:</strong> {{.Order.ID}}</p>
        <p><strong>Order Date:</strong> {{.Order.CreatedAt.Format "January 2, 2006"}}</p>
        <p><strong>Status:</strong> {{.Order.Status}}</p>
    </div>

    <div>
        <strong>Ship To:</strong>
        <p>{{.Order.Shipping.Name}}<br>{{.Order.Shipping.Address}}<br>{{.Order.Shipping.City}} {{.Order.Shipping.ZipCode}}<br>{{.Order.Shipping.Email}}</p>
        <p>Paid by card ending {{.Order.Payment.CardLast4}} ({{.Order.Payment.TransactionID}})</p>
    </div>

    <table class="items-table">
        <thead>
            <tr><th>Title</th><th class="num">Qty</th><th class="num">Price</th><th class="num">Total</th></tr>
        </thead>
        <tbody>
            {{range .Order.Lines}}
            <tr>
                <td>{{.Title}}</td>
                <td class="num">{{.Quantity}}</td>
                <td class="num">${{.Price.StringFixed 2}}</td>
                <td class="num">${{.LineTotal.StringFixed 2}}</td>
            </tr>
            {{end}}
        </tbody>
    </table>

    <table class="totals">
        <tr><td>Subtotal:</td><td>${{.Order.Subtotal.StringFixed 2}}</td></tr>
        {{if .Order.Discount.IsPositive}}<tr><td>Discount{{with .Order.DiscountCodes}} ({{.}}){{end}}:</td><td>-${{.Order.Discount.StringFixed 2}}</td></tr>{{end}}
        <tr class="total-row"><td>Total:</td><td>${{.Order.Total.StringFixed 2}}</td></tr>
    </table>

    <div class="footer">
        <p>Thank you for shopping with {{.StoreName}}!</p>
    </div>
</body>
</html>
`
