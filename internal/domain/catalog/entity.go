// internal/domain/catalog/entity.go
package catalog

import (
	"time"

	"github.com/shopspring/decimal"
)

// DefaultImage is used when a book is created without one.
const DefaultImage = "/static/images/default-book.jpg"

// Book is a catalogue entry. Title is the natural key.
type Book struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	Title     string          `gorm:"uniqueIndex;not null;size:255" json:"title"`
	Category  string          `gorm:"index;not null;size:100" json:"category"`
	Price     decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"price"`
	Image     string          `gorm:"size:500" json:"image"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// TableName overrides the table name
func (Book) TableName() string {
	return "books"
}

// DefaultBooks is the catalogue seeded into an empty store.
func DefaultBooks() []Book {
	return []Book{
		{Title: "The Great Gatsby", Category: "Fiction", Price: decimal.RequireFromString("10.99"), Image: "/static/images/books/the_great_gatsby.jpg"},
		{Title: "1984", Category: "Dystopia", Price: decimal.RequireFromString("8.99"), Image: "/static/images/books/1984.jpg"},
		{Title: "I Ching", Category: "Traditional", Price: decimal.RequireFromString("18.99"), Image: "/static/images/books/I-Ching-cover.png"},
		{Title: "Moby Dick", Category: "Adventure", Price: decimal.RequireFromString("12.49"), Image: "/static/images/books/moby_dick.jpg"},
	}
}
