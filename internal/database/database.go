package database

import (
	"fmt"
	"strings"
	"time"

	"github.com/sjperalta/fintera-ledger/internal/models"
	pkgLogger "github.com/sjperalta/fintera-ledger/pkg/logger"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

const sqlitePrefix = "sqlite://"

// Connect opens the ledger database. URLs starting with sqlite:// use an
// embedded SQLite file, anything else is treated as a PostgreSQL DSN.
func Connect(databaseURL, environment string) (*gorm.DB, error) {
	// Configure GORM logger
	logLevel := logger.Silent
	if environment != "production" {
		logLevel = logger.Info
	}

	gormLogger := pkgLogger.NewGormLogger(
		logLevel,
		200*time.Millisecond,
	)

	isSQLite := strings.HasPrefix(databaseURL, sqlitePrefix)
	var dialector gorm.Dialector
	if isSQLite {
		dialector = sqlite.Open(strings.TrimPrefix(databaseURL, sqlitePrefix))
	} else {
		dialector = postgres.Open(databaseURL)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:                 gormLogger,
		SkipDefaultTransaction: true,
		PrepareStmt:            !isSQLite,
		TranslateError:         true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Get underlying SQL database
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	// Configure connection pool
	if isSQLite {
		// SQLite allows a single writer; one connection keeps transactions serialized.
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxIdleConns(5)
		sqlDB.SetMaxOpenConns(50)
		sqlDB.SetConnMaxLifetime(time.Hour)
		sqlDB.SetConnMaxIdleTime(5 * time.Minute)
	}

	// Verify connection
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

// Migrate creates or updates every ledger table
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.Account{},
		&models.FiscalPeriod{},
		&models.CurrentFiscalPeriod{},
		&models.Transaction{},
		&models.TransactionEntry{},
		&models.TaxCode{},
		&models.Invoice{},
		&models.InvoiceLineItem{},
		&models.Payment{},
		&models.Budget{},
		&models.Reconciliation{},
		&models.ReconciliationItem{},
		&models.AuditLog{},
		&models.AnalyticsCache{},
		&models.AnalyticsCacheGeneration{},
	); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.AnalyticsCacheGeneration{ID: models.AnalyticsGenerationID}).Error; err != nil {
		return fmt.Errorf("failed to seed analytics cache generation: %w", err)
	}
	return nil
}

// Close releases the underlying connection pool
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
