package storage

import (
	"context"
	"fmt"

	"github.com/mookkammal/storefront/internal/logger"
	"github.com/mookkammal/storefront/internal/metrics"
	"github.com/mookkammal/storefront/pkg/config"
	"go.uber.org/zap"
)

// Open builds the backend named by cfg.StorageDriver, instrumented with m
func Open(ctx context.Context, cfg *config.Config, m *metrics.AppMetrics) (Store, error) {
	var (
		s   Store
		err error
	)

	switch cfg.StorageDriver {
	case "memory":
		s = NewMemoryStore()
	case "sqlite":
		s, err = openSQL(ctx, DialectSQLite, cfg.SQLitePath, cfg.OTELServiceName)
	case "mysql":
		s, err = openSQL(ctx, DialectMySQL, cfg.GetDSN(), cfg.OTELServiceName)
	case "redis":
		client, cerr := OpenRedis(ctx, cfg.RedisURL)
		if cerr != nil {
			return nil, cerr
		}
		s = NewRedisStore(client)
	case "mongo":
		client, cerr := OpenMongo(ctx, cfg.MongoURI)
		if cerr != nil {
			return nil, cerr
		}
		s = NewMongoStore(client.Database(cfg.MongoDatabase).Collection(cfg.MongoCollection), client)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "Storage ready", zap.String("driver", cfg.StorageDriver))
	return Instrument(s, cfg.StorageDriver, m), nil
}

func openSQL(ctx context.Context, dialect Dialect, source, serviceName string) (Store, error) {
	open := OpenSQLite
	if dialect.Name == DialectMySQL.Name {
		open = OpenMySQL
	}
	db, err := open(ctx, source, serviceName)
	if err != nil {
		return nil, err
	}

	s := NewSQLStore(db, dialect)
	if err := s.InitSchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}
