package catalog

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/your-org/bookstore-backend/internal/pkg/apperr"
	"github.com/your-org/bookstore-backend/internal/pkg/events"
	"github.com/your-org/bookstore-backend/internal/pkg/logger"
)

func initTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&Book{}))
	return db
}

func newSeededService(t *testing.T) *Service {
	t.Helper()
	log := logger.Discard()
	svc := NewService(initTestDB(t), events.NewLogPublisher(log), log)
	created, err := svc.SeedDefaults(context.Background())
	require.NoError(t, err)
	require.Equal(t, 4, created)
	return svc
}

func titles(books []Book) []string {
	out := make([]string, 0, len(books))
	for _, b := range books {
		out = append(out, b.Title)
	}
	return out
}

func price(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func TestSeedDefaultsIsIdempotent(t *testing.T) {
	svc := newSeededService(t)

	created, err := svc.SeedDefaults(context.Background())
	require.NoError(t, err)
	assert.Zero(t, created)

	books, err := svc.ListBooks(context.Background(), ListRequest{})
	require.NoError(t, err)
	assert.Equal(t, []string{"1984", "I Ching", "Moby Dick", "The Great Gatsby"}, titles(books))
}

func TestListBooksFilters(t *testing.T) {
	svc := newSeededService(t)
	ctx := context.Background()

	tests := []struct {
		name string
		req  ListRequest
		want []string
	}{
		{"search title", ListRequest{Search: "moby"}, []string{"Moby Dick"}},
		{"search category", ListRequest{Search: "DYSTOP"}, []string{"1984"}},
		{"category filter", ListRequest{Category: "Fiction"}, []string{"The Great Gatsby"}},
		{"category and search", ListRequest{Category: "Fiction", Search: "moby"}, []string{}},
		{"no match", ListRequest{Search: "tolkien"}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			books, err := svc.ListBooks(ctx, tt.req)
			require.NoError(t, err)
			assert.Equal(t, tt.want, titles(books))
		})
	}
}

func TestCategories(t *testing.T) {
	svc := newSeededService(t)

	categories, err := svc.Categories(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Adventure", "Dystopia", "Fiction", "Traditional"}, categories)
}

func TestCreateBook(t *testing.T) {
	svc := newSeededService(t)
	ctx := context.Background()

	book, err := svc.CreateBook(ctx, CreateBookRequest{Title: " Dune ", Category: "Science Fiction", Price: price("9.995")})
	require.NoError(t, err)
	assert.Equal(t, "Dune", book.Title)
	assert.Equal(t, DefaultImage, book.Image)
	assert.True(t, decimal.RequireFromString("10.00").Equal(book.Price))

	found, err := svc.GetBookByTitle(ctx, "Dune")
	require.NoError(t, err)
	assert.Equal(t, book.ID, found.ID)

	_, err = svc.CreateBook(ctx, CreateBookRequest{Title: "Dune", Category: "Again", Price: price("1")})
	assert.ErrorIs(t, err, apperr.ErrConflict)

	_, err = svc.CreateBook(ctx, CreateBookRequest{Title: "Free", Category: "X", Price: price("-1")})
	assert.ErrorIs(t, err, apperr.ErrValidation)

	_, err = svc.CreateBook(ctx, CreateBookRequest{Title: "No price", Category: "X"})
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestUpdateAndDeleteBook(t *testing.T) {
	svc := newSeededService(t)
	ctx := context.Background()

	gatsby, err := svc.GetBookByTitle(ctx, "The Great Gatsby")
	require.NoError(t, err)

	category := "Classics"
	updated, err := svc.UpdateBook(ctx, gatsby.ID, UpdateBookRequest{Category: &category, Price: price("11.50")})
	require.NoError(t, err)
	assert.Equal(t, "Classics", updated.Category)

	reloaded, err := svc.GetBook(ctx, gatsby.ID)
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("11.50").Equal(reloaded.Price))

	taken := "1984"
	_, err = svc.UpdateBook(ctx, gatsby.ID, UpdateBookRequest{Title: &taken})
	assert.ErrorIs(t, err, apperr.ErrConflict)

	require.NoError(t, svc.DeleteBook(ctx, gatsby.ID))
	_, err = svc.GetBook(ctx, gatsby.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	assert.ErrorIs(t, svc.DeleteBook(ctx, gatsby.ID), apperr.ErrNotFound)
}
