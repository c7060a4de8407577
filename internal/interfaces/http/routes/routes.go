// internal/interfaces/http/routes/routes.go
package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/your-org/bookstore-backend/internal/domain/user"
	"github.com/your-org/bookstore-backend/internal/interfaces/http/handlers"
	"github.com/your-org/bookstore-backend/internal/interfaces/http/middleware"
)

// Handlers groups every HTTP handler the API exposes
type Handlers struct {
	Auth     *handlers.AuthHandler
	Account  *handlers.AccountHandler
	Catalog  *handlers.CatalogHandler
	Cart     *handlers.CartHandler
	Pricing  *handlers.PricingHandler
	Checkout *handlers.CheckoutHandler
	Order    *handlers.OrderHandler
	Invoice  *handlers.InvoiceHandler
	Feed     *handlers.FeedHandler
	Admin    *handlers.UserAdminHandler
	Stats    *handlers.AnalyticsHandler
}

// SetupAuthRoutes sets up authentication related routes
func SetupAuthRoutes(rg *gin.RouterGroup, h *Handlers) {
	auth := rg.Group("/auth")
	{
		auth.POST("/register", h.Auth.Register)
		auth.POST("/login", h.Auth.Login)
		auth.POST("/logout", h.Auth.Logout)
	}
}

// SetupAccountRoutes sets up routes for the signed-in user
func SetupAccountRoutes(rg *gin.RouterGroup, h *Handlers, authn *middleware.Authenticator) {
	account := rg.Group("/account")
	account.Use(authn.Required())
	{
		account.GET("", h.Account.GetProfile)
		account.PUT("", h.Account.UpdateProfile)
		account.GET("/orders", h.Account.GetOrders)
	}
}

// SetupCatalogRoutes sets up public book routes
func SetupCatalogRoutes(rg *gin.RouterGroup, h *Handlers) {
	books := rg.Group("/books")
	{
		books.GET("", h.Catalog.ListBooks)
		books.GET("/:id", h.Catalog.GetBook)
	}
	rg.GET("/categories", h.Catalog.Categories)
}

// SetupCartRoutes sets up session cart routes
func SetupCartRoutes(rg *gin.RouterGroup, h *Handlers) {
	cart := rg.Group("/cart")
	{
		cart.GET("", h.Cart.GetCart)
		cart.DELETE("", h.Cart.ClearCart)
		cart.POST("/items", h.Cart.AddToCart)
		cart.PUT("/items", h.Cart.UpdateCartItem)
		cart.DELETE("/items/:title", h.Cart.RemoveFromCart)
	}
}

// SetupPricingRoutes sets up the stateless pricing routes
func SetupPricingRoutes(rg *gin.RouterGroup, h *Handlers) {
	rg.POST("/pricing/quote", h.Pricing.Quote)
}

// SetupCheckoutRoutes sets up checkout and order routes. Guests may use both.
func SetupCheckoutRoutes(rg *gin.RouterGroup, h *Handlers, authn *middleware.Authenticator) {
	checkout := rg.Group("/checkout")
	checkout.Use(authn.Optional())
	{
		checkout.GET("/quote", h.Checkout.Quote)
		checkout.POST("", h.Checkout.Checkout)
	}

	orders := rg.Group("/orders")
	orders.Use(authn.Optional())
	{
		orders.GET("/:id", h.Order.GetOrder)
		orders.GET("/:id/invoice", h.Invoice.DownloadInvoice)
	}
}

// SetupFeedRoutes sets up public RSS routes
func SetupFeedRoutes(rg *gin.RouterGroup, h *Handlers) {
	rg.GET("/feeds/:name", h.Feed.GetFeed)
}

// SetupAdminRoutes sets up admin routes. Reviewers get read access to the book list and sales figures.
func SetupAdminRoutes(rg *gin.RouterGroup, h *Handlers, authn *middleware.Authenticator) {
	admin := rg.Group("/admin")
	admin.Use(authn.Required())

	staff := admin.Group("")
	staff.Use(middleware.RequireRole(user.RoleAdmin, user.RoleReviewer))
	{
		staff.GET("/books", h.Catalog.ListBooks)
		staff.GET("/stats", h.Stats.GetSalesSummary)
	}

	adminOnly := admin.Group("")
	adminOnly.Use(middleware.RequireRole(user.RoleAdmin))
	{
		adminOnly.POST("/books", h.Catalog.CreateBook)
		adminOnly.PUT("/books/:id", h.Catalog.UpdateBook)
		adminOnly.DELETE("/books/:id", h.Catalog.DeleteBook)

		adminOnly.GET("/users", h.Admin.GetUsers)
		adminOnly.POST("/users", h.Admin.CreateUser)
		adminOnly.PUT("/users/:email/role", h.Admin.AssignRole)
		adminOnly.POST("/users/:email/unlock", h.Admin.UnlockUser)

		adminOnly.GET("/feeds", h.Feed.GetSources)
		adminOnly.PUT("/feeds", h.Feed.UpdateSources)
	}
}

// SetupRoutes sets up all /api/v1 routes
func SetupRoutes(rg *gin.RouterGroup, h *Handlers, authn *middleware.Authenticator) {
	SetupAuthRoutes(rg, h)
	SetupAccountRoutes(rg, h, authn)
	SetupCatalogRoutes(rg, h)
	SetupCartRoutes(rg, h)
	SetupPricingRoutes(rg, h)
	SetupCheckoutRoutes(rg, h, authn)
	SetupFeedRoutes(rg, h)
	SetupAdminRoutes(rg, h, authn)
}
