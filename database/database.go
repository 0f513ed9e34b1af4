// Package database öffnet die GORM-Verbindung (PostgreSQL im Betrieb,
// SQLite für lokale Entwicklung und Tests) und migriert das Schema.
package database

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"screen-ai/config"
	"screen-ai/metrics"
	"screen-ai/models"

	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// Open verbindet sich je nach DB_DRIVER mit PostgreSQL oder SQLite.
func Open(cfg *config.Config, log *zap.Logger) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.DBDriver {
	case "postgres":
		dialector = postgres.Open(cfg.DSN())
	case "sqlite":
		dialector = sqlite.Open(SQLiteDSN(cfg.SQLitePath))
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}

	db, err := OpenDialector(dialector)
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if cfg.DBDriver == "sqlite" {
		// SQLite verträgt nur einen Schreiber.
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(cfg.DBMaxOpenConns)
		sqlDB.SetMaxIdleConns(cfg.DBMaxIdleConns)
	}

	if err := metrics.RegisterGORMCallbacks(db); err != nil {
		return nil, err
	}
	log.Info("Database connection established", zap.String("driver", cfg.DBDriver))
	return db, nil
}

// OpenDialector öffnet eine Verbindung mit den gemeinsamen GORM-Einstellungen.
func OpenDialector(dialector gorm.Dialector) (*gorm.DB, error) {
	return gorm.Open(dialector, &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
}

// SQLiteDSN schaltet Fremdschlüssel ein; ohne sie greifen die Kaskaden nicht.
func SQLiteDSN(path string) string {
	if strings.Contains(path, "_foreign_keys") {
		return path
	}
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_foreign_keys=1"
}

// Migrate legt alle Tabellen, Indizes und Constraints an.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(models.All()...)
}

// Ping prüft, ob die Datenbank erreichbar ist.
func Ping(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// IsUniqueViolation erkennt Verletzungen eines Unique-Index, egal ob GORM den
// Fehler übersetzt hat oder der Treiberfehler durchgereicht wurde.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// IsForeignKeyViolation erkennt verletzte Fremdschlüssel (z.B. RESTRICT beim Löschen).
func IsForeignKeyViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgForeignKeyViolation
	}
	return strings.Contains(err.Error(), "FOREIGN KEY constraint failed")
}
