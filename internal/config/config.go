// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	EnvDevelopment = "development"
	EnvTesting     = "testing"
	EnvProduction  = "production"

	// DevelopmentSecret is the fallback signing secret; production refuses to start with it.
	DevelopmentSecret = "dev-only-not-secure-bookstore-session-secret"
)

// Config holds all configuration for the bookstore
type Config struct {
	App       AppConfig
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	JWT       JWTConfig
	Session   SessionConfig
	Security  SecurityConfig
	Discounts DiscountConfig
	Payment   PaymentConfig
	Email     EmailConfig
	Feeds     FeedConfig
	Events    EventConfig
	Invoice   InvoiceConfig
	Logging   LoggingConfig
}

// AppConfig contains application-level configuration
type AppConfig struct {
	Name        string
	Version     string
	Environment string
	Debug       bool
	SeedData    bool
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port           string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	RequestTimeout time.Duration
	MaxBodyBytes   int64
}

// DatabaseConfig contains database connection configuration.
// Driver is either "postgres" or "sqlite".
type DatabaseConfig struct {
	Driver       string
	SQLitePath   string
	Host         string
	Port         string
	Name         string
	User         string
	Password     string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
	MaxLifetime  time.Duration
}

// RedisConfig contains Redis configuration
type RedisConfig struct {
	Host         string
	Port         string
	Password     string
	DB           int
	PoolSize     int
	MinIdleConns int
}

// JWTConfig contains session token configuration
type JWTConfig struct {
	Secret          string
	SessionLifetime time.Duration
	Issuer          string
}

// SessionConfig contains cookie settings for the session and guest cart cookies
type SessionConfig struct {
	TokenCookie    string
	CartCookie     string
	CookieSecure   bool
	CookieHTTPOnly bool
	CookieDomain   string
	CartTTL        time.Duration
}

// SecurityConfig contains security-related configuration
type SecurityConfig struct {
	BcryptCost         int
	MaxFailedAttempts  int
	RateLimitPerMinute int
	CORSAllowedOrigins []string
	CORSAllowedMethods []string
	CORSAllowedHeaders []string
	TrustedProxies     []string
}

// DiscountConfig maps an upper-case discount code to its fractional rate.
type DiscountConfig struct {
	Codes map[string]float64
}

// PaymentConfig configures the mock payment gateway
type PaymentConfig struct {
	DeclineSuffix string
}

// EmailConfig contains email service configuration
type EmailConfig struct {
	Provider  string
	FromEmail string
	FromName  string
	SMTPHost  string
	SMTPPort  int
	SMTPUser  string
	SMTPPass  string
}

// FeedConfig contains RSS feed configuration
type FeedConfig struct {
	Sources      map[string]string
	CacheTTL     time.Duration
	FetchTimeout time.Duration
	MaxItems     int
}

// EventConfig contains the event bus configuration. No brokers means events are only logged.
type EventConfig struct {
	Brokers     []string
	TopicPrefix string
}

// InvoiceConfig contains invoice PDF configuration
type InvoiceConfig struct {
	Enabled   bool
	StoreName string
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string
	Format string
}

// Load loads configuration from environment variables and .env file
func Load() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found, using environment variables")
	}

	config := FromEnv()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// FromEnv builds the configuration from the process environment without validating it.
func FromEnv() *Config {
	env := getEnv("APP_ENV", EnvDevelopment)
	production := env == EnvProduction

	return &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", "Bookstore"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
			Environment: env,
			Debug:       getEnvAsBool("APP_DEBUG", !production),
			SeedData:    getEnvAsBool("SEED_DATA", !production),
		},
		Server: ServerConfig{
			Port:           getEnv("APP_PORT", "8080"),
			ReadTimeout:    getEnvAsDuration("SERVER_READ_TIMEOUT", 30*time.Second),
			WriteTimeout:   getEnvAsDuration("SERVER_WRITE_TIMEOUT", 30*time.Second),
			IdleTimeout:    getEnvAsDuration("SERVER_IDLE_TIMEOUT", 60*time.Second),
			RequestTimeout: getEnvAsDuration("SERVER_REQUEST_TIMEOUT", 15*time.Second),
			MaxBodyBytes:   getEnvAsInt64("SERVER_MAX_BODY_BYTES", 1<<20),
		},
		Database: DatabaseConfig{
			Driver:       getEnv("DB_DRIVER", "sqlite"),
			SQLitePath:   getEnv("DB_SQLITE_PATH", "bookstore.db"),
			Host:         getEnv("DB_HOST", "localhost"),
			Port:         getEnv("DB_PORT", "5432"),
			Name:         getEnv("DB_NAME", "bookstore"),
			User:         getEnv("DB_USER", "bookstore"),
			Password:     getEnv("DB_PASSWORD", "bookstore"),
			SSLMode:      getEnv("DB_SSL_MODE", "disable"),
			MaxOpenConns: getEnvAsInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns: getEnvAsInt("DB_MAX_IDLE_CONNS", 5),
			MaxLifetime:  getEnvAsDuration("DB_MAX_LIFETIME", 300*time.Second),
		},
		Redis: RedisConfig{
			Host:         getEnv("REDIS_HOST", "localhost"),
			Port:         getEnv("REDIS_PORT", "6379"),
			Password:     getEnv("REDIS_PASSWORD", ""),
			DB:           getEnvAsInt("REDIS_DB", 0),
			PoolSize:     getEnvAsInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: getEnvAsInt("REDIS_MIN_IDLE_CONNS", 2),
		},
		JWT: JWTConfig{
			Secret:          getEnv("SECRET_KEY", DevelopmentSecret),
			SessionLifetime: getEnvAsDuration("SESSION_LIFETIME", 7*24*time.Hour),
			Issuer:          getEnv("JWT_ISSUER", "bookstore"),
		},
		Session: SessionConfig{
			TokenCookie:    getEnv("SESSION_TOKEN_COOKIE", "access_token"),
			CartCookie:     getEnv("SESSION_CART_COOKIE", "session_id"),
			CookieSecure:   getEnvAsBool("SESSION_COOKIE_SECURE", production),
			CookieHTTPOnly: getEnvAsBool("SESSION_COOKIE_HTTPONLY", true),
			CookieDomain:   getEnv("SESSION_COOKIE_DOMAIN", ""),
			CartTTL:        getEnvAsDuration("CART_TTL", 7*24*time.Hour),
		},
		Security: SecurityConfig{
			BcryptCost:         getEnvAsInt("BCRYPT_COST", 12),
			MaxFailedAttempts:  getEnvAsInt("MAX_FAILED_ATTEMPTS", 5),
			RateLimitPerMinute: getEnvAsInt("RATE_LIMIT_PER_MINUTE", 120),
			CORSAllowedOrigins: getEnvAsSlice("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
			CORSAllowedMethods: getEnvAsSlice("CORS_ALLOWED_METHODS", []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
			CORSAllowedHeaders: getEnvAsSlice("CORS_ALLOWED_HEADERS", []string{"Origin", "Content-Type", "Accept", "Authorization"}),
			TrustedProxies:     getEnvAsSlice("TRUSTED_PROXIES", []string{}),
		},
		Discounts: DiscountConfig{
			Codes: getEnvAsRateMap("DISCOUNT_CODES", map[string]float64{"SAVE10": 0.10, "WELCOME20": 0.20}),
		},
		Payment: PaymentConfig{
			DeclineSuffix: getEnv("PAYMENT_DECLINE_SUFFIX", "1111"),
		},
		Email: EmailConfig{
			Provider:  getEnv("EMAIL_PROVIDER", "log"),
			FromEmail: getEnv("FROM_EMAIL", "orders@bookstore.local"),
			FromName:  getEnv("FROM_NAME", "Bookstore"),
			SMTPHost:  getEnv("SMTP_HOST", ""),
			SMTPPort:  getEnvAsInt("SMTP_PORT", 587),
			SMTPUser:  getEnv("SMTP_USER", ""),
			SMTPPass:  getEnv("SMTP_PASS", ""),
		},
		Feeds: FeedConfig{
			Sources: getEnvAsStringMap("FEED_SOURCES", map[string]string{
				"reviews": "https://www.goodreads.com/review/recent_reviews.rss",
				"authors": "https://www.theguardian.com/books/books+tone/features/rss",
			}),
			CacheTTL:     getEnvAsDuration("FEED_CACHE_TTL", 5*time.Minute),
			FetchTimeout: getEnvAsDuration("FEED_FETCH_TIMEOUT", 10*time.Second),
			MaxItems:     getEnvAsInt("FEED_MAX_ITEMS", 5),
		},
		Events: EventConfig{
			Brokers:     getEnvAsSlice("KAFKA_BROKERS", []string{}),
			TopicPrefix: getEnv("KAFKA_TOPIC_PREFIX", "bookstore"),
		},
		Invoice: InvoiceConfig{
			Enabled:   getEnvAsBool("INVOICE_PDF_ENABLED", true),
			StoreName: getEnv("INVOICE_STORE_NAME", "Bookstore"),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	switch c.App.Environment {
	case EnvDevelopment, EnvTesting, EnvProduction:
	default:
		return fmt.Errorf("APP_ENV must be one of development, testing, production; got %q", c.App.Environment)
	}

	if len(c.JWT.Secret) < 32 {
		return fmt.Errorf("SECRET_KEY must be at least 32 characters long")
	}

	if c.IsProduction() {
		if c.JWT.Secret == DevelopmentSecret {
			return fmt.Errorf("SECRET_KEY must be set via environment in production")
		}
		if !c.Session.CookieSecure {
			return fmt.Errorf("SESSION_COOKIE_SECURE must be enabled in production")
		}
	}

	switch c.Database.Driver {
	case "sqlite":
		if c.Database.SQLitePath == "" {
			return fmt.Errorf("DB_SQLITE_PATH is required for the sqlite driver")
		}
	case "postgres":
		if c.Database.Host == "" || c.Database.Name == "" || c.Database.User == "" {
			return fmt.Errorf("DB_HOST, DB_NAME and DB_USER are required for the postgres driver")
		}
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.Database.Driver)
	}

	if c.Redis.Host == "" {
		return fmt.Errorf("REDIS_HOST is required")
	}

	if c.Server.Port == "" {
		return fmt.Errorf("APP_PORT is required")
	}

	if c.Security.MaxFailedAttempts < 1 {
		return fmt.Errorf("MAX_FAILED_ATTEMPTS must be positive")
	}

	for code, rate := range c.Discounts.Codes {
		if rate < 0 || rate > 1 {
			return fmt.Errorf("discount %s has rate %v outside [0, 1]", code, rate)
		}
	}

	return nil
}

// IsDevelopment returns true if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == EnvDevelopment
}

// IsProduction returns true if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == EnvProduction
}

// GetDatabaseDSN returns the postgres connection string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// GetRedisAddr returns the Redis address
func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", c.Redis.Host, c.Redis.Port)
}

// Helper functions for environment variable parsing

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		var out []string
		for _, part := range strings.Split(value, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
		return out
	}
	return defaultValue
}

// getEnvAsRateMap parses "CODE:0.10,OTHER:0.2". Malformed pairs are skipped.
func getEnvAsRateMap(key string, defaultValue map[string]float64) map[string]float64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	rates, err := ParseRates(value)
	if err != nil {
		fmt.Printf("Ignoring %s: %v\n", key, err)
		return defaultValue
	}
	return rates
}

// ParseRates parses a comma separated CODE:rate list. Codes are upper-cased.
func ParseRates(value string) (map[string]float64, error) {
	rates := make(map[string]float64)
	for _, pair := range strings.Split(value, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		code, raw, ok := strings.Cut(pair, ":")
		if !ok {
			return nil, fmt.Errorf("discount entry %q is not CODE:rate", pair)
		}
		rate, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return nil, fmt.Errorf("discount entry %q: %w", pair, err)
		}
		rates[strings.ToUpper(strings.TrimSpace(code))] = rate
	}
	return rates, nil
}

// getEnvAsStringMap parses "name=url,name2=url2".
func getEnvAsStringMap(key string, defaultValue map[string]string) map[string]string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	out := make(map[string]string)
	for _, pair := range strings.Split(value, ",") {
		name, target, ok := strings.Cut(strings.TrimSpace(pair), "=")
		if !ok || name == "" || target == "" {
			continue
		}
		out[strings.TrimSpace(name)] = strings.TrimSpace(target)
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
