// internal/domain/analytics/service.go
package analytics

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/your-org/bookstore-backend/internal/domain/pricing"
)

const (
	defaultDays = 30
	maxDays     = 365
	topBooks    = 10
)

// Service computes sales figures from recorded orders
type Service struct {
	db  *gorm.DB
	now func() time.Time
}

// NewService creates a new analytics service
func NewService(db *gorm.DB) *Service {
	return &Service{
		db:  db,
		now: func() time.Time { return time.Now().UTC() },
	}
}

// SalesSummary represents the admin dashboard figures for a trailing window
type SalesSummary struct {
	Days              int             `json:"days"`
	TotalOrders       int64           `json:"total_orders"`
	TotalItems        int64           `json:"total_items"`
	TotalRevenue      decimal.Decimal `json:"total_revenue"`
	TotalDiscount     decimal.Decimal `json:"total_discount"`
	AverageOrderValue decimal.Decimal `json:"average_order_value"`
	GuestOrders       int64           `json:"guest_orders"`
	TotalUsers        int64           `json:"total_users"`
	TotalBooks        int64           `json:"total_books"`
	TopBooks          []BookSales     `json:"top_books"`
	SalesByCategory   []CategorySales `json:"sales_by_category"`
	DailyRevenue      []DailyRevenue  `json:"daily_revenue"`
}

// BookSales is one row of the best-seller list
type BookSales struct {
	Title    string          `json:"title"`
	Quantity int64           `json:"quantity"`
	Revenue  decimal.Decimal `json:"revenue"`
}

// CategorySales aggregates line revenue by catalogue category. Books deleted since
// the order was placed are reported under "Unknown".
type CategorySales struct {
	Category string          `json:"category"`
	Quantity int64           `json:"quantity"`
	Revenue  decimal.Decimal `json:"revenue"`
}

// DailyRevenue is one day of the revenue series
type DailyRevenue struct {
	Date    string          `json:"date"`
	Orders  int64           `json:"orders"`
	Revenue decimal.Decimal `json:"revenue"`
}

type orderTotals struct {
	Orders   int64
	Revenue  decimal.Decimal
	Discount decimal.Decimal
}

// GetSalesSummary aggregates the orders placed in the last days days.
// Days outside 1..365 fall back to 30.
func (s *Service) GetSalesSummary(ctx context.Context, days int) (*SalesSummary, error) {
	if days <= 0 || days > maxDays {
		days = defaultDays
	}
	now := s.now()
	since := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, -(days - 1))
	db := s.db.WithContext(ctx)

	summary := &SalesSummary{Days: days}

	var totals orderTotals
	err := db.Table("orders").
		Select("COUNT(*) AS orders, COALESCE(SUM(total), 0) AS revenue, COALESCE(SUM(discount), 0) AS discount").
		Where("created_at >= ?", since).
		Scan(&totals).Error
	if err != nil {
		return nil, fmt.Errorf("failed to total orders: %w", err)
	}
	summary.TotalOrders = totals.Orders
	summary.TotalRevenue = pricing.Round2(totals.Revenue)
	summary.TotalDiscount = pricing.Round2(totals.Discount)
	if totals.Orders > 0 {
		summary.AverageOrderValue = pricing.Round2(totals.Revenue.Div(decimal.NewFromInt(totals.Orders)))
	}

	if err := db.Table("orders").Where("created_at >= ? AND (user_email = '' OR user_email IS NULL)", since).
		Count(&summary.GuestOrders).Error; err != nil {
		return nil, fmt.Errorf("failed to count guest orders: %w", err)
	}
	if err := db.Table("users").Count(&summary.TotalUsers).Error; err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}
	if err := db.Table("books").Count(&summary.TotalBooks).Error; err != nil {
		return nil, fmt.Errorf("failed to count books: %w", err)
	}

	if err := s.topBooks(db, since, summary); err != nil {
		return nil, err
	}
	if err := s.salesByCategory(db, since, summary); err != nil {
		return nil, err
	}
	if err := s.dailyRevenue(db, since, summary); err != nil {
		return nil, err
	}

	return summary, nil
}

func (s *Service) topBooks(db *gorm.DB, since time.Time, summary *SalesSummary) error {
	summary.TopBooks = []BookSales{}
	err := db.Table("order_lines").
		Select("order_lines.title AS title, SUM(order_lines.quantity) AS quantity, SUM(order_lines.line_total) AS revenue").
		Joins("JOIN orders ON orders.id = order_lines.order_id").
		Where("orders.created_at >= ?", since).
		Group("order_lines.title").
		Order("quantity DESC, title ASC").
		Limit(topBooks).
		Scan(&summary.TopBooks).Error
	if err != nil {
		return fmt.Errorf("failed to rank books: %w", err)
	}

	for i := range summary.TopBooks {
		summary.TopBooks[i].Revenue = pricing.Round2(summary.TopBooks[i].Revenue)
	}
	var items int64
	if err := db.Table("order_lines").
		Select("COALESCE(SUM(order_lines.quantity), 0)").
		Joins("JOIN orders ON orders.id = order_lines.order_id").
		Where("orders.created_at >= ?", since).
		Scan(&items).Error; err != nil {
		return fmt.Errorf("failed to count items: %w", err)
	}
	summary.TotalItems = items
	return nil
}

func (s *Service) salesByCategory(db *gorm.DB, since time.Time, summary *SalesSummary) error {
	summary.SalesByCategory = []CategorySales{}
	err := db.Table("order_lines").
		Select("COALESCE(books.category, 'Unknown') AS category, SUM(order_lines.quantity) AS quantity, SUM(order_lines.line_total) AS revenue").
		Joins("JOIN orders ON orders.id = order_lines.order_id").
		Joins("LEFT JOIN books ON books.title = order_lines.title").
		Where("orders.created_at >= ?", since).
		Group("COALESCE(books.category, 'Unknown')").
		Order("revenue DESC").
		Scan(&summary.SalesByCategory).Error
	if err != nil {
		return fmt.Errorf("failed to group sales by category: %w", err)
	}

	for i := range summary.SalesByCategory {
		summary.SalesByCategory[i].Revenue = pricing.Round2(summary.SalesByCategory[i].Revenue)
	}
	return nil
}

// dailyRevenue buckets orders by UTC day in Go; date functions differ between postgres and sqlite.
func (s *Service) dailyRevenue(db *gorm.DB, since time.Time, summary *SalesSummary) error {
	var rows []struct {
		CreatedAt time.Time
		Total     decimal.Decimal
	}
	if err := db.Table("orders").Select("created_at, total").Where("created_at >= ?", since).Scan(&rows).Error; err != nil {
		return fmt.Errorf("failed to load daily revenue: %w", err)
	}

	buckets := make(map[string]*DailyRevenue)
	for _, row := range rows {
		day := row.CreatedAt.UTC().Format(time.DateOnly)
		bucket, ok := buckets[day]
		if !ok {
			bucket = &DailyRevenue{Date: day, Revenue: decimal.Zero}
			buckets[day] = bucket
		}
		bucket.Orders++
		bucket.Revenue = bucket.Revenue.Add(row.Total)
	}

	summary.DailyRevenue = make([]DailyRevenue, 0, len(buckets))
	for _, bucket := range buckets {
		bucket.Revenue = pricing.Round2(bucket.Revenue)
		summary.DailyRevenue = append(summary.DailyRevenue, *bucket)
	}
	sort.Slice(summary.DailyRevenue, func(i, j int) bool {
		return summary.DailyRevenue[i].Date < summary.DailyRevenue[j].Date
	})
	return nil
}
