package storage

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mookkammal/storefront/internal/logger"
	"go.uber.org/zap"
)

//go:embed schema/*.sql
var schemaFS embed.FS

// Dialect holds the statements that differ between SQL engines
type Dialect struct {
	Name       string
	schemaFile string
	upsert     string
	stamp      func(time.Time) any
}

var (
	DialectMySQL = Dialect{
		Name:       "mysql",
		schemaFile: "schema/mysql.sql",
		upsert: `INSERT INTO kv_store (k, v, updated_at) VALUES (?, ?, ?)
			ON DUPLICATE KEY UPDATE v = VALUES(v), updated_at = VALUES(updated_at)`,
		stamp: func(t time.Time) any { return t },
	}
	DialectSQLite = Dialect{
		Name:       "sqlite",
		schemaFile: "schema/sqlite.sql",
		upsert: `INSERT INTO kv_store (k, v, updated_at) VALUES (?, ?, ?)
			ON CONFLICT(k) DO UPDATE SET v = excluded.v, updated_at = excluded.updated_at`,
		stamp: func(t time.Time) any { return t.Format(time.RFC3339Nano) },
	}
)

const selectValue = `SELECT v FROM kv_store WHERE k = ?`

// SQLStore keeps blobs in the kv_store table
type SQLStore struct {
	db      *sql.DB
	dialect Dialect
	now     func() time.Time
}

// NewSQLStore wraps an open database. Call InitSchema before first use on a
// fresh database.
func NewSQLStore(db *sql.DB, dialect Dialect) *SQLStore {
	return &SQLStore{db: db, dialect: dialect, now: time.Now}
}

func (s *SQLStore) Get(ctx context.Context, key string) ([]byte, error) {
	var value string
	err := s.db.QueryRowContext(ctx, selectValue, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return []byte(value), nil
}

func (s *SQLStore) Put(ctx context.Context, key string, value []byte) error {
	if _, err := s.db.ExecContext(ctx, s.dialect.upsert, key, string(value), s.dialect.stamp(s.now().UTC())); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}

func (s *SQLStore) Close() error {
	return s.db.Close()
}

// InitSchema creates the kv_store table if it does not exist. Statements are
// executed one by one.
func (s *SQLStore) InitSchema(ctx context.Context) error {
	schemaSQL, err := schemaFS.ReadFile(s.dialect.schemaFile)
	if err != nil {
		return fmt.Errorf("failed to read %s schema: %w", s.dialect.Name, err)
	}

	for i, stmt := range splitSQLStatements(string(schemaSQL)) {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to execute statement %d: %w\nStatement: %s", i+1, err, stmt)
		}
	}

	logger.Info(ctx, "Database schema initialized", zap.String("dialect", s.dialect.Name))
	return nil
}

// splitSQLStatements drops -- comment lines and splits on semicolons
func splitSQLStatements(sql string) []string {
	lines := strings.Split(sql, "\n")
	var cleanedLines []string
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed != "" && !strings.HasPrefix(trimmed, "--") {
			cleanedLines = append(cleanedLines, line)
		}
	}

	var result []string
	for _, stmt := range strings.Split(strings.Join(cleanedLines, "\n"), ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt != "" {
			result = append(result, stmt)
		}
	}
	return result
}
