// internal/infrastructure/database/gormdb/migration.go
package gormdb

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/your-org/bookstore-backend/internal/domain/catalog"
	"github.com/your-org/bookstore-backend/internal/domain/order"
	"github.com/your-org/bookstore-backend/internal/domain/user"
	"gorm.io/gorm"
)

// BookSeeder inserts the default catalogue
type BookSeeder interface {
	SeedDefaults(ctx context.Context) (int, error)
}

// AccountLoader inserts accounts from legacy records
type AccountLoader interface {
	LoadLegacy(ctx context.Context, records []user.LegacyRecord) (int, error)
}

// Migration handles database migrations
type Migration struct {
	db  *gorm.DB
	log *logrus.Logger
}

// NewMigration creates a new migration instance
func NewMigration(db *gorm.DB, log *logrus.Logger) *Migration {
	return &Migration{
		db:  db,
		log: log,
	}
}

// Models lists every persisted model in dependency order.
func Models() []interface{} {
	return []interface{}{
		&catalog.Book{},
		&user.User{},
		&order.Order{},
		&order.OrderLine{},
	}
}

// RunAutoMigrations runs GORM auto-migrations for all models
func (m *Migration) RunAutoMigrations(ctx context.Context) error {
	m.log.Info("Running database auto-migrations")

	for _, model := range Models() {
		m.log.Debugf("Migrating model: %T", model)
		if err := m.db.WithContext(ctx).AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate model %T: %w", model, err)
		}
	}

	m.log.Info("Database auto-migrations completed")
	return nil
}

// SeedInitialData inserts the default books and the demo accounts. Existing rows are kept.
func (m *Migration) SeedInitialData(ctx context.Context, books BookSeeder, accounts AccountLoader) error {
	createdBooks, err := books.SeedDefaults(ctx)
	if err != nil {
		return fmt.Errorf("failed to seed books: %w", err)
	}

	createdUsers, err := accounts.LoadLegacy(ctx, user.DemoAccounts())
	if err != nil {
		return fmt.Errorf("failed to seed users: %w", err)
	}

	m.log.WithFields(logrus.Fields{
		"books": createdBooks,
		"users": createdUsers,
	}).Info("Initial data seeded")
	return nil
}

// DropAllTables drops every table, children first.
func (m *Migration) DropAllTables(ctx context.Context) error {
	m.log.Warn("Dropping all database tables")

	models := Models()
	for i := len(models) - 1; i >= 0; i-- {
		if err := m.db.WithContext(ctx).Migrator().DropTable(models[i]); err != nil {
			return fmt.Errorf("failed to drop table for %T: %w", models[i], err)
		}
	}
	return nil
}
