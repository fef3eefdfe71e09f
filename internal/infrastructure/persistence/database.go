package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/erp/ledger/internal/infrastructure/config"
	"github.com/erp/ledger/internal/infrastructure/persistence/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Database wraps the GORM DB handle with lifecycle helpers
type Database struct {
	db *gorm.DB
}

// NewDatabase connects to PostgreSQL and configures the connection pool
func NewDatabase(cfg *config.DatabaseConfig) (*Database, error) {
	gormConfig := &gorm.Config{
		SkipDefaultTransaction: true,
		PrepareStmt:            true,
		// Driver errors become gorm sentinels (ErrDuplicatedKey etc.) so the
		// repositories can map them to domain errors
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Warn),
	}

	db, err := gorm.Open(postgres.Open(cfg.DSN()), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetime) * time.Minute)
	sqlDB.SetConnMaxIdleTime(time.Duration(cfg.ConnMaxIdleTime) * time.Minute)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Database{db: db}, nil
}

// DB returns the underlying GORM handle
func (d *Database) DB() *gorm.DB {
	return d.db
}

// Migrate runs schema migrations for all persistence models
func (d *Database) Migrate() error {
	if err := d.db.AutoMigrate(
		&models.ChartOfAccountModel{},
		&models.AccountingPeriodModel{},
		&models.JournalEntryModel{},
		&models.JournalLineModel{},
		&models.PostingRuleModel{},
		&models.PostingRuleLineModel{},
		&models.OutboxEntryModel{},
	); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}

	// One active rule per event type. AutoMigrate cannot express a partial
	// unique index, so it is created directly.
	if err := d.db.Exec(
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_posting_rules_active_event_type
		 ON posting_rules (event_type) WHERE is_active`,
	).Error; err != nil {
		return fmt.Errorf("failed to create active rule index: %w", err)
	}

	return nil
}

// Transaction executes the given function within a database transaction
func (d *Database) Transaction(fn func(tx *gorm.DB) error) error {
	return d.db.Transaction(fn)
}

// Ping checks database connectivity
func (d *Database) Ping(ctx context.Context) error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Stats returns connection pool statistics
func (d *Database) Stats() (sql.DBStats, error) {
	sqlDB, err := d.db.DB()
	if err != nil {
		return sql.DBStats{}, err
	}
	return sqlDB.Stats(), nil
}

// Close closes the database connection
func (d *Database) Close() error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
