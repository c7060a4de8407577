// internal/interfaces/http/server.go
package http

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/your-org/bookstore-backend/internal/config"
	"github.com/your-org/bookstore-backend/internal/domain/analytics"
	"github.com/your-org/bookstore-backend/internal/domain/cart"
	"github.com/your-org/bookstore-backend/internal/domain/catalog"
	"github.com/your-org/bookstore-backend/internal/domain/checkout"
	"github.com/your-org/bookstore-backend/internal/domain/feed"
	"github.com/your-org/bookstore-backend/internal/domain/order"
	"github.com/your-org/bookstore-backend/internal/domain/payment"
	"github.com/your-org/bookstore-backend/internal/domain/pricing"
	"github.com/your-org/bookstore-backend/internal/domain/user"
	"github.com/your-org/bookstore-backend/internal/infrastructure/database/gormdb"
	"github.com/your-org/bookstore-backend/internal/interfaces/http/handlers"
	"github.com/your-org/bookstore-backend/internal/interfaces/http/middleware"
	"github.com/your-org/bookstore-backend/internal/interfaces/http/routes"
	"github.com/your-org/bookstore-backend/internal/pkg/auth"
	"github.com/your-org/bookstore-backend/internal/pkg/email"
	"github.com/your-org/bookstore-backend/internal/pkg/events"
	"github.com/your-org/bookstore-backend/internal/pkg/pdf"
)

// Services holds the domain services behind the HTTP API
type Services struct {
	Catalog  *catalog.Service
	Carts    *cart.Service
	Engine   *pricing.Engine
	Guard    *user.Guard
	Users    *user.Service
	Admin    *user.AdminService
	Orders   *order.Recorder
	Checkout *checkout.Service
	Feeds    *feed.Service
	Invoices handlers.InvoiceGenerator
	Sales    *analytics.Service
}

// NewServices wires the domain services from configuration
func NewServices(cfg *config.Config, db *gorm.DB, redisClient *redis.Client, publisher events.Publisher, log *logrus.Logger) (*Services, error) {
	mailer, err := email.NewEmailService(cfg.Email, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create email service: %w", err)
	}

	engine := pricing.NewEngine(pricing.NewPolicy(cfg.Discounts.Codes))
	books := catalog.NewService(db, publisher, log)
	carts := cart.NewService(cart.NewRedisStore(redisClient, cfg.Session.CartTTL), books, log)
	orders := order.NewRecorder(order.NewGormRepository(db), engine, log)

	accounts := user.NewGormRepository(db)
	hasher := auth.NewPasswordManager(cfg.Security.BcryptCost)
	guard := user.NewGuard(accounts, hasher, cfg.Security.MaxFailedAttempts, log)

	return &Services{
		Catalog:  books,
		Carts:    carts,
		Engine:   engine,
		Guard:    guard,
		Users:    user.NewService(accounts, hasher, log),
		Admin:    user.NewAdminService(accounts, hasher, guard, log),
		Orders:   orders,
		Checkout: checkout.NewService(carts, engine, payment.NewMockGateway(cfg.Payment, log), orders, mailer, publisher, log),
		Feeds:    feed.NewService(redisClient, cfg.Feeds, log),
		Invoices: pdf.NewService(cfg.Invoice),
		Sales:    analytics.NewService(db),
	}, nil
}

// Server represents the HTTP server
type Server struct {
	config      *config.Config
	log         *logrus.Logger
	gin         *gin.Engine
	httpServer  *http.Server
	db          *gorm.DB
	redisClient *redis.Client
	services    *Services
	jwt         *auth.JWTManager
}

// NewServer creates a new HTTP server instance
func NewServer(cfg *config.Config, db *gorm.DB, redisClient *redis.Client, services *Services, log *logrus.Logger) *Server {
	return &Server{
		config:      cfg,
		log:         log,
		db:          db,
		redisClient: redisClient,
		services:    services,
		jwt:         auth.NewJWTManager(cfg),
	}
}

// Handler builds the gin engine on first use
func (s *Server) Handler() http.Handler {
	if s.gin == nil {
		if s.config.IsProduction() {
			gin.SetMode(gin.ReleaseMode)
		}
		s.gin = gin.New()
		if err := s.gin.SetTrustedProxies(s.config.Security.TrustedProxies); err != nil {
			s.log.WithError(err).Warn("Invalid trusted proxy list, trusting none")
			_ = s.gin.SetTrustedProxies(nil)
		}
		s.setupMiddleware()
		s.setupRoutes()
	}
	return s.gin
}

// Start starts the HTTP server and blocks until it stops
func (s *Server) Start() error {
	s.httpServer = &http.Server{
		Addr:         ":" + s.config.Server.Port,
		Handler:      s.Handler(),
		ReadTimeout:  s.config.Server.ReadTimeout,
		WriteTimeout: s.config.Server.WriteTimeout,
		IdleTimeout:  s.config.Server.IdleTimeout,
	}

	s.log.WithFields(logrus.Fields{
		"port": s.config.Server.Port,
		"api":  fmt.Sprintf("http://localhost:%s/api/v1", s.config.Server.Port),
	}).Info("HTTP server starting")

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start HTTP server: %w", err)
	}
	return nil
}

// Stop gracefully stops the HTTP server
func (s *Server) Stop(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	s.log.Info("Shutting down HTTP server")

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown HTTP server: %w", err)
	}

	s.log.Info("HTTP server stopped gracefully")
	return nil
}

func (s *Server) setupMiddleware() {
	s.gin.Use(gin.Recovery())
	s.gin.Use(middleware.RequestID())
	s.gin.Use(middleware.Logger(s.log))
	s.gin.Use(middleware.CORS(s.config.Security))
	s.gin.Use(middleware.SecurityHeaders())
	s.gin.Use(middleware.RateLimit(s.config.Security.RateLimitPerMinute, s.redisClient, s.log))
	s.gin.Use(middleware.RequestSizeLimit(s.config.Server.MaxBodyBytes))
	s.gin.Use(middleware.Timeout(s.config.Server.RequestTimeout))
}

func (s *Server) setupRoutes() {
	health := handlers.NewHealthHandler(s.config, map[string]handlers.Probe{
		"database": func(ctx context.Context) error { return gormdb.Ping(ctx, s.db) },
		"redis":    func(ctx context.Context) error { return s.redisClient.Ping(ctx).Err() },
	})
	s.gin.GET("/health", health.Health)
	s.gin.GET("/ready", health.Ready)

	sessions := handlers.NewSessions(s.config.Session)
	orderHandler := handlers.NewOrderHandler(s.services.Orders, sessions)
	h := &routes.Handlers{
		Auth:     handlers.NewAuthHandler(s.services.Guard, s.jwt, sessions),
		Account:  handlers.NewAccountHandler(s.services.Users, s.services.Orders),
		Catalog:  handlers.NewCatalogHandler(s.services.Catalog),
		Cart:     handlers.NewCartHandler(s.services.Carts, sessions),
		Pricing:  handlers.NewPricingHandler(s.services.Engine),
		Checkout: handlers.NewCheckoutHandler(s.services.Checkout, sessions),
		Order:    orderHandler,
		Invoice:  handlers.NewInvoiceHandler(orderHandler, s.services.Invoices),
		Feed:     handlers.NewFeedHandler(s.services.Feeds),
		Admin:    handlers.NewUserAdminHandler(s.services.Admin),
		Stats:    handlers.NewAnalyticsHandler(s.services.Sales),
	}

	authn := middleware.NewAuthenticator(s.jwt, user.NewGormRepository(s.db), s.config.Session.TokenCookie)

	// storefront clients read the catalogue without the response envelope
	s.gin.GET("/api/books", h.Catalog.ListBooksPlain)

	routes.SetupRoutes(s.gin.Group("/api/v1"), h, authn)

	if s.config.IsDevelopment() {
		s.gin.GET("/", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"message":     s.config.App.Name + " API",
				"version":     s.config.App.Version,
				"environment": s.config.App.Environment,
				"health":      "/health",
				"endpoints": gin.H{
					"auth":     "/api/v1/auth",
					"books":    "/api/v1/books",
					"cart":     "/api/v1/cart",
					"checkout": "/api/v1/checkout",
					"orders":   "/api/v1/orders",
					"feeds":    "/api/v1/feeds",
					"admin":    "/api/v1/admin",
				},
			})
		})
	}
}
