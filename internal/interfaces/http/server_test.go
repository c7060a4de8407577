package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/your-org/bookstore-backend/internal/config"
	"github.com/your-org/bookstore-backend/internal/domain/order"
	"github.com/your-org/bookstore-backend/internal/domain/user"
	"github.com/your-org/bookstore-backend/internal/infrastructure/database/gormdb"
	"github.com/your-org/bookstore-backend/internal/pkg/auth"
	"github.com/your-org/bookstore-backend/internal/pkg/events"
	"github.com/your-org/bookstore-backend/internal/pkg/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const reviewsRSS = `<?xml version="1.0"?><rss version="2.0"><channel><title>Reviews</title>
<item><title>A fine read</title><link>https://example.com/1</link><description>Loved it</description></item>
<item><title>Not for me</title><link>https://example.com/2</link><description>Meh</description></item>
</channel></rss>`

type fakeInvoices struct{}

func (fakeInvoices) GenerateInvoice(o *order.Order) (*bytes.Buffer, error) {
	return bytes.NewBufferString("%PDF-1.4 " + o.ID), nil
}

type testApp struct {
	handler  http.Handler
	services *Services
	db       *gorm.DB
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	ctx := context.Background()
	log := logger.Discard()

	feedSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		_, _ = w.Write([]byte(reviewsRSS))
	}))
	t.Cleanup(feedSrv.Close)

	cfg := config.FromEnv()
	cfg.App.Environment = config.EnvTesting
	cfg.JWT.Secret = strings.Repeat("k", 32)
	cfg.Security.BcryptCost = 4
	cfg.Security.MaxFailedAttempts = 3
	cfg.Security.RateLimitPerMinute = 1000
	cfg.Email.Provider = "log"
	cfg.Feeds.Sources = map[string]string{"reviews": feedSrv.URL + "/rss"}
	cfg.Discounts.Codes = map[string]float64{"SAVE10": 0.10, "WELCOME20": 0.20}
	cfg.Payment.DeclineSuffix = "1111"

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(gormdb.Models()...))

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	services, err := NewServices(cfg, db, rdb, events.NewLogPublisher(log), log)
	require.NoError(t, err)
	services.Invoices = fakeInvoices{}

	_, err = services.Catalog.SeedDefaults(ctx)
	require.NoError(t, err)
	_, err = services.Users.LoadLegacy(ctx, user.DemoAccounts())
	require.NoError(t, err)

	server := NewServer(cfg, db, rdb, services, log)
	return &testApp{handler: server.Handler(), services: services, db: db}
}

type request struct {
	method  string
	path    string
	body    any
	token   string
	cookies []*http.Cookie
}

func (a *testApp) do(t *testing.T, r request) *httptest.ResponseRecorder {
	t.Helper()
	var body bytes.Buffer
	if r.body != nil {
		if raw, ok := r.body.(string); ok {
			body.WriteString(raw)
		} else {
			require.NoError(t, json.NewEncoder(&body).Encode(r.body))
		}
	}
	req := httptest.NewRequest(r.method, r.path, &body)
	req.Header.Set("Content-Type", "application/json")
	if r.token != "" {
		req.Header.Set("Authorization", "Bearer "+r.token)
	}
	for _, c := range r.cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	a.handler.ServeHTTP(w, req)
	return w
}

type envelope struct {
	Message string          `json:"message"`
	Error   string          `json:"error"`
	Field   string          `json:"field"`
	Rule    string          `json:"rule"`
	Data    json.RawMessage `json:"data"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return env
}

func cookieNamed(w *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func (a *testApp) bookID(t *testing.T, title string) uint {
	t.Helper()
	book, err := a.services.Catalog.GetBookByTitle(context.Background(), title)
	require.NoError(t, err)
	return book.ID
}

func (a *testApp) login(t *testing.T, email, password string) string {
	t.Helper()
	w := a.do(t, request{method: http.MethodPost, path: "/api/v1/auth/login", body: gin.H{"email": email, "password": password}})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var data struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &data))
	require.NotEmpty(t, data.Token)
	return data.Token
}

// fillCart adds two Gatsbys and one 1984 to a fresh guest cart and returns its cookie.
func (a *testApp) fillCart(t *testing.T) *http.Cookie {
	t.Helper()
	w := a.do(t, request{method: http.MethodPost, path: "/api/v1/cart/items", body: gin.H{"book_id": a.bookID(t, "The Great Gatsby"), "quantity": 2}})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	session := cookieNamed(w, "session_id")
	require.NotNil(t, session)

	w = a.do(t, request{method: http.MethodPost, path: "/api/v1/cart/items", body: gin.H{"book_id": a.bookID(t, "1984")}, cookies: []*http.Cookie{session}})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	return session
}

func checkoutBody(card string, codes ...string) gin.H {
	return gin.H{
		"shipping": gin.H{
			"name":     "Ada Reader",
			"email":    "ada@example.com",
			"address":  "1 Library Lane",
			"city":     "Booktown",
			"zip_code": "12345",
		},
		"payment": gin.H{
			"card_number": card,
			"expiry_date": "12/30",
			"cvv":         "123",
		},
		"discount_code": strings.Join(codes, ","),
	}
}

type totals struct {
	Subtotal     decimal.Decimal `json:"subtotal"`
	Discount     decimal.Decimal `json:"discount"`
	Total        decimal.Decimal `json:"total"`
	AppliedCodes []string        `json:"applied_codes"`
}

func TestHealth(t *testing.T) {
	app := newTestApp(t)

	w := app.do(t, request{method: http.MethodGet, path: "/health"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var body struct {
		Status string            `json:"status"`
		Checks map[string]string `json:"checks"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body.Status)
	assert.Equal(t, map[string]string{"database": "ok", "redis": "ok"}, body.Checks)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestCatalogEndpoints(t *testing.T) {
	app := newTestApp(t)

	w := app.do(t, request{method: http.MethodGet, path: "/api/books"})
	require.Equal(t, http.StatusOK, w.Code)
	var books []struct {
		Title string          `json:"title"`
		Price decimal.Decimal `json:"price"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &books))
	require.Len(t, books, 4)
	assert.Equal(t, "1984", books[0].Title)
	assert.Equal(t, "The Great Gatsby", books[3].Title)
	assert.Equal(t, "10.99", books[3].Price.StringFixed(2))

	w = app.do(t, request{method: http.MethodGet, path: "/api/v1/books?q=moby"})
	require.Equal(t, http.StatusOK, w.Code)
	var listed struct {
		Count int `json:"count"`
	}
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &listed))
	assert.Equal(t, 1, listed.Count)

	w = app.do(t, request{method: http.MethodGet, path: "/api/v1/books/9999"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = app.do(t, request{method: http.MethodGet, path: "/api/v1/books/abc"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = app.do(t, request{method: http.MethodGet, path: "/api/v1/categories"})
	require.Equal(t, http.StatusOK, w.Code)
	var categories []string
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &categories))
	assert.Len(t, categories, 4)
}

func TestPricingQuote(t *testing.T) {
	app := newTestApp(t)

	w := app.do(t, request{method: http.MethodPost, path: "/api/v1/pricing/quote", body: `{
		"entries": [{"title": "The Great Gatsby", "price": 10.99, "qty": 2}, [8.99, 1]],
		"codes": ["save10"],
		"discount_code": "WELCOME20"
	}`})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var got totals
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &got))
	assert.Equal(t, "30.97", got.Subtotal.StringFixed(2))
	assert.Equal(t, "22.30", got.Total.StringFixed(2))
	assert.Equal(t, "8.67", got.Discount.StringFixed(2))
	assert.Equal(t, []string{"SAVE10", "WELCOME20"}, got.AppliedCodes)

	w = app.do(t, request{method: http.MethodPost, path: "/api/v1/pricing/quote", body: `{"entries": [[10.99, 1], "junk"]}`})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "entries[1]", decode(t, w).Field)

	w = app.do(t, request{method: http.MethodPost, path: "/api/v1/pricing/quote", body: `{"entries": [[10.99, -1]]}`})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGuestCheckout(t *testing.T) {
	app := newTestApp(t)
	session := app.fillCart(t)
	cookies := []*http.Cookie{session}

	w := app.do(t, request{method: http.MethodGet, path: "/api/v1/checkout/quote?codes=SAVE10,WELCOME20", cookies: cookies})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var quote struct {
		TotalItems int    `json:"total_items"`
		Totals     totals `json:"totals"`
	}
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &quote))
	assert.Equal(t, 3, quote.TotalItems)
	assert.Equal(t, "22.30", quote.Totals.Total.StringFixed(2))

	w = app.do(t, request{method: http.MethodPost, path: "/api/v1/checkout", body: checkoutBody("4242 4242 4242 4242", "save10"), cookies: cookies})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var placed struct {
		OrderID string          `json:"order_id"`
		Total   decimal.Decimal `json:"total"`
		Payment struct {
			TransactionID string `json:"transaction_id"`
			CardLast4     string `json:"card_last4"`
		} `json:"payment"`
	}
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &placed))
	assert.Equal(t, "27.87", placed.Total.StringFixed(2))
	assert.Equal(t, "4242", placed.Payment.CardLast4)
	assert.Regexp(t, `^TXN\d{6}$`, placed.Payment.TransactionID)
	assert.NotContains(t, w.Body.String(), "4242 4242 4242 4242")

	w = app.do(t, request{method: http.MethodGet, path: "/api/v1/cart", cookies: cookies})
	require.Equal(t, http.StatusOK, w.Code)
	var cartBody struct {
		IsEmpty bool `json:"is_empty"`
	}
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &cartBody))
	assert.True(t, cartBody.IsEmpty)

	orderPath := "/api/v1/orders/" + placed.OrderID
	w = app.do(t, request{method: http.MethodGet, path: orderPath, cookies: cookies})
	assert.Equal(t, http.StatusOK, w.Code)

	w = app.do(t, request{method: http.MethodGet, path: orderPath})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = app.do(t, request{method: http.MethodGet, path: orderPath, token: app.login(t, "reviewer@bookstore.com", "Review123!")})
	assert.Equal(t, http.StatusOK, w.Code)

	w = app.do(t, request{method: http.MethodGet, path: orderPath + "/invoice", cookies: cookies})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "INV-"+placed.OrderID[:8])

	w = app.do(t, request{method: http.MethodGet, path: "/api/v1/admin/stats?days=7", token: app.login(t, "reviewer@bookstore.com", "Review123!")})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var stats struct {
		TotalOrders  int64           `json:"total_orders"`
		GuestOrders  int64           `json:"guest_orders"`
		TotalRevenue decimal.Decimal `json:"total_revenue"`
	}
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &stats))
	assert.EqualValues(t, 1, stats.TotalOrders)
	assert.EqualValues(t, 1, stats.GuestOrders)
	assert.Equal(t, "27.87", stats.TotalRevenue.StringFixed(2))

	w = app.do(t, request{method: http.MethodGet, path: "/api/v1/admin/stats?days=400", token: app.login(t, "admin@bookstore.com", "Admin123!")})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCheckoutDeclinedKeepsCart(t *testing.T) {
	app := newTestApp(t)
	session := app.fillCart(t)
	cookies := []*http.Cookie{session}

	w := app.do(t, request{method: http.MethodPost, path: "/api/v1/checkout", body: checkoutBody("4000-0000-0000-1111"), cookies: cookies})
	require.Equal(t, http.StatusPaymentRequired, w.Code, w.Body.String())
	assert.Equal(t, "Payment failed: Invalid card number", decode(t, w).Error)

	var count int64
	require.NoError(t, app.db.Model(&order.Order{}).Count(&count).Error)
	assert.Zero(t, count)

	w = app.do(t, request{method: http.MethodGet, path: "/api/v1/cart", cookies: cookies})
	var cartBody struct {
		TotalItems int `json:"total_items"`
	}
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &cartBody))
	assert.Equal(t, 3, cartBody.TotalItems)
}

func TestCheckoutEmptyCart(t *testing.T) {
	app := newTestApp(t)

	w := app.do(t, request{method: http.MethodPost, path: "/api/v1/checkout", body: checkoutBody("4242424242424242")})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Your cart is empty", decode(t, w).Error)

	w = app.do(t, request{method: http.MethodPost, path: "/api/v1/checkout", body: gin.H{"payment": gin.H{"card_number": "4242"}}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCartEndpoints(t *testing.T) {
	app := newTestApp(t)
	session := app.fillCart(t)
	cookies := []*http.Cookie{session}

	w := app.do(t, request{method: http.MethodPut, path: "/api/v1/cart/items", body: gin.H{"title": "1984", "quantity": 4}, cookies: cookies})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = app.do(t, request{method: http.MethodPut, path: "/api/v1/cart/items", body: gin.H{"title": "Dune", "quantity": 1}, cookies: cookies})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = app.do(t, request{method: http.MethodPut, path: "/api/v1/cart/items", body: gin.H{"title": "1984", "quantity": 1000}, cookies: cookies})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = app.do(t, request{method: http.MethodPost, path: "/api/v1/cart/items", body: gin.H{"book_id": 1, "quantity": math.MaxInt64}, cookies: cookies})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = app.do(t, request{method: http.MethodDelete, path: "/api/v1/cart/items/The%20Great%20Gatsby", cookies: cookies})
	require.Equal(t, http.StatusOK, w.Code)
	var cartBody struct {
		Items []struct {
			Title    string `json:"title"`
			Quantity int    `json:"quantity"`
		} `json:"items"`
		TotalItems int `json:"total_items"`
	}
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &cartBody))
	require.Len(t, cartBody.Items, 1)
	assert.Equal(t, "1984", cartBody.Items[0].Title)
	assert.Equal(t, 4, cartBody.TotalItems)

	w = app.do(t, request{method: http.MethodPost, path: "/api/v1/cart/items", body: gin.H{"book_id": 9999}, cookies: cookies})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = app.do(t, request{method: http.MethodDelete, path: "/api/v1/cart", cookies: cookies})
	require.Equal(t, http.StatusOK, w.Code)

	w = app.do(t, request{method: http.MethodGet, path: "/api/v1/cart", cookies: cookies})
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &cartBody))
	assert.Zero(t, cartBody.TotalItems)
}

func TestRegisterLoginAndAccount(t *testing.T) {
	app := newTestApp(t)

	w := app.do(t, request{method: http.MethodPost, path: "/api/v1/auth/register", body: gin.H{"email": "New@Example.com", "password": "short"}})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.NotEmpty(t, decode(t, w).Rule)

	w = app.do(t, request{method: http.MethodPost, path: "/api/v1/auth/register", body: gin.H{"email": "long@example.com", "password": "Aa1" + strings.Repeat("x", 80)}})
	require.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
	assert.Equal(t, auth.RuleMaxLength, decode(t, w).Rule)

	w = app.do(t, request{method: http.MethodPost, path: "/api/v1/auth/register", body: gin.H{"email": "New@Example.com", "password": "Str0ngPass", "name": "New Reader"}})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	tokenCookie := cookieNamed(w, "access_token")
	require.NotNil(t, tokenCookie)
	assert.True(t, tokenCookie.HttpOnly)

	w = app.do(t, request{method: http.MethodPost, path: "/api/v1/auth/register", body: gin.H{"email": "new@example.com", "password": ""}})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = app.do(t, request{method: http.MethodGet, path: "/api/v1/account", cookies: []*http.Cookie{tokenCookie}})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var profile struct {
		Email string `json:"email"`
		Role  string `json:"role"`
	}
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &profile))
	assert.Equal(t, "new@example.com", profile.Email)
	assert.Equal(t, "user", profile.Role)

	token := app.login(t, "NEW@example.com", "Str0ngPass")
	w = app.do(t, request{method: http.MethodPut, path: "/api/v1/account", token: token, body: gin.H{"address": "9 Elm Street"}})
	require.Equal(t, http.StatusOK, w.Code)
	var updated struct {
		Name    string `json:"name"`
		Address string `json:"address"`
	}
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &updated))
	assert.Equal(t, "New Reader", updated.Name)
	assert.Equal(t, "9 Elm Street", updated.Address)

	w = app.do(t, request{method: http.MethodGet, path: "/api/v1/account"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = app.do(t, request{method: http.MethodPost, path: "/api/v1/auth/logout"})
	require.Equal(t, http.StatusOK, w.Code)
	cleared := cookieNamed(w, "access_token")
	require.NotNil(t, cleared)
	assert.Empty(t, cleared.Value)
}

func TestOrderHistory(t *testing.T) {
	app := newTestApp(t)
	token := app.login(t, "user@bookstore.com", "User123!")

	for i := 0; i < 2; i++ {
		session := app.fillCart(t)
		w := app.do(t, request{method: http.MethodPost, path: "/api/v1/checkout", token: token, body: checkoutBody("4242424242424242"), cookies: []*http.Cookie{session}})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	}

	w := app.do(t, request{method: http.MethodGet, path: "/api/v1/account/orders", token: token})
	require.Equal(t, http.StatusOK, w.Code)
	var history struct {
		Orders []struct {
			OrderID   string          `json:"order_id"`
			UserEmail string          `json:"user_email"`
			Total     decimal.Decimal `json:"total"`
		} `json:"orders"`
		Count int `json:"count"`
	}
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &history))
	require.Equal(t, 2, history.Count)
	assert.Equal(t, "user@bookstore.com", history.Orders[0].UserEmail)
	assert.Equal(t, "30.97", history.Orders[0].Total.StringFixed(2))

	w = app.do(t, request{method: http.MethodGet, path: "/api/v1/orders/" + history.Orders[0].OrderID, token: app.login(t, "demo@bookstore.com", "demo123")})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = app.do(t, request{method: http.MethodGet, path: "/api/v1/orders/" + history.Orders[1].OrderID, token: token})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestLoginLockout(t *testing.T) {
	app := newTestApp(t)
	admin := app.login(t, "admin@bookstore.com", "Admin123!")

	for i := 0; i < 3; i++ {
		w := app.do(t, request{method: http.MethodPost, path: "/api/v1/auth/login", body: gin.H{"email": "demo@bookstore.com", "password": "wrong"}})
		require.Equal(t, http.StatusUnauthorized, w.Code)
	}

	w := app.do(t, request{method: http.MethodPost, path: "/api/v1/auth/login", body: gin.H{"email": "demo@bookstore.com", "password": "demo123"}})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = app.do(t, request{method: http.MethodPost, path: "/api/v1/admin/users/demo@bookstore.com/unlock", token: admin})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	app.login(t, "demo@bookstore.com", "demo123")
}

func TestAdminAuthorization(t *testing.T) {
	app := newTestApp(t)
	admin := app.login(t, "admin@bookstore.com", "Admin123!")
	reviewer := app.login(t, "reviewer@bookstore.com", "Review123!")
	customer := app.login(t, "user@bookstore.com", "User123!")

	w := app.do(t, request{method: http.MethodGet, path: "/api/v1/admin/users"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = app.do(t, request{method: http.MethodGet, path: "/api/v1/admin/users", token: customer})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = app.do(t, request{method: http.MethodGet, path: "/api/v1/admin/users", token: reviewer})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = app.do(t, request{method: http.MethodGet, path: "/api/v1/admin/users", token: admin})
	require.Equal(t, http.StatusOK, w.Code)
	var users struct {
		Total int `json:"total"`
	}
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &users))
	assert.Equal(t, 4, users.Total)

	w = app.do(t, request{method: http.MethodGet, path: "/api/v1/admin/books", token: reviewer})
	assert.Equal(t, http.StatusOK, w.Code)

	newBook := gin.H{"title": "Dune", "category": "Science Fiction", "price": "9.99"}
	w = app.do(t, request{method: http.MethodPost, path: "/api/v1/admin/books", token: reviewer, body: newBook})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = app.do(t, request{method: http.MethodPost, path: "/api/v1/admin/books", token: admin, body: newBook})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created struct {
		ID uint `json:"id"`
	}
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &created))

	w = app.do(t, request{method: http.MethodPost, path: "/api/v1/admin/books", token: admin, body: newBook})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = app.do(t, request{method: http.MethodPut, path: fmt.Sprintf("/api/v1/admin/books/%d", created.ID), token: admin, body: gin.H{"price": "-1"}})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = app.do(t, request{method: http.MethodDelete, path: fmt.Sprintf("/api/v1/admin/books/%d", created.ID), token: admin})
	assert.Equal(t, http.StatusOK, w.Code)

	// role changes apply to tokens already issued
	w = app.do(t, request{method: http.MethodPut, path: "/api/v1/admin/users/user@bookstore.com/role", token: admin, body: gin.H{"role": "reviewer"}})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	w = app.do(t, request{method: http.MethodGet, path: "/api/v1/admin/books", token: customer})
	assert.Equal(t, http.StatusOK, w.Code)

	w = app.do(t, request{method: http.MethodPut, path: "/api/v1/admin/users/user@bookstore.com/role", token: admin, body: gin.H{"role": "superuser"}})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = app.do(t, request{method: http.MethodPost, path: "/api/v1/admin/users", token: admin, body: gin.H{"email": "staff@bookstore.com", "password": "Staff123!", "role": "admin"}})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	app.login(t, "staff@bookstore.com", "Staff123!")
}

func TestFeeds(t *testing.T) {
	app := newTestApp(t)
	admin := app.login(t, "admin@bookstore.com", "Admin123!")

	w := app.do(t, request{method: http.MethodGet, path: "/api/v1/feeds/reviews"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var feedBody struct {
		Items []struct {
			Title string `json:"title"`
			Link  string `json:"link"`
		} `json:"items"`
	}
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &feedBody))
	require.Len(t, feedBody.Items, 2)
	assert.Equal(t, "A fine read", feedBody.Items[0].Title)

	w = app.do(t, request{method: http.MethodGet, path: "/api/v1/feeds/unknown"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = app.do(t, request{method: http.MethodPut, path: "/api/v1/admin/feeds", token: admin, body: gin.H{"sources": []gin.H{{"name": "news", "url": "ftp://example.com"}}}})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = app.do(t, request{method: http.MethodPut, path: "/api/v1/admin/feeds", token: admin, body: gin.H{"sources": []gin.H{{"name": "News", "url": "https://example.com/news.xml"}}}})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = app.do(t, request{method: http.MethodGet, path: "/api/v1/admin/feeds", token: admin})
	require.Equal(t, http.StatusOK, w.Code)
	var sources []struct {
		Name string `json:"name"`
	}
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &sources))
	require.Len(t, sources, 1)
	assert.Equal(t, "news", sources[0].Name)
}
