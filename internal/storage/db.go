package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/XSAM/otelsql"
	_ "github.com/go-sql-driver/mysql"
	"github.com/mookkammal/storefront/internal/logger"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

// OpenMySQL connects to MySQL through the otelsql wrapper
func OpenMySQL(ctx context.Context, dsn, serviceName string) (*sql.DB, error) {
	db, err := openInstrumented(ctx, "mysql", dsn, serviceName)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)
	return db, nil
}

// OpenSQLite opens an embedded SQLite file. One connection serialises writers
// and keeps ":memory:" databases consistent.
func OpenSQLite(ctx context.Context, path, serviceName string) (*sql.DB, error) {
	db, err := openInstrumented(ctx, "sqlite", path, serviceName)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	return db, nil
}

func openInstrumented(ctx context.Context, driver, dsn, serviceName string) (*sql.DB, error) {
	driverName, err := otelsql.Register(driver,
		otelsql.WithAttributes(
			attribute.String("db.system", driver),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to register otelsql: %w", err)
	}

	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if err := otelsql.RegisterDBStatsMetrics(db, otelsql.WithAttributes(
		attribute.String("db.system", driver),
		attribute.String("service.name", serviceName),
	)); err != nil {
		logger.Warn(ctx, "failed to register otelsql stats metrics", zap.Error(err))
	}
	return db, nil
}
