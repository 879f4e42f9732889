package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg := LoadConfig()

	assert.Equal(t, "sqlite", cfg.StorageDriver)
	assert.Equal(t, "mookkammal_", cfg.StorageKeyPrefix)
	assert.Equal(t, "TEXTILES", cfg.DefaultVertical)
	assert.Equal(t, "active", cfg.CartScope)
	assert.Equal(t, 20*time.Second, cfg.AdvisorTimeout)
	assert.Equal(t, 30, cfg.AdvisorRatePerMinute)
	assert.False(t, cfg.MetricsEnabled)
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "redis")
	t.Setenv("CART_SCOPE", "any")
	t.Setenv("REPORT_NOOPS", "yes")
	t.Setenv("ADVISOR_TIMEOUT", "5s")
	t.Setenv("ADVISOR_RATE_PER_MINUTE", "not-a-number")
	t.Setenv("OTEL_EXPORTER_OTLP_INSECURE", "false")

	cfg := LoadConfig()

	assert.Equal(t, "redis", cfg.StorageDriver)
	assert.Equal(t, "any", cfg.CartScope)
	assert.True(t, cfg.ReportNoOps)
	assert.Equal(t, 5*time.Second, cfg.AdvisorTimeout)
	assert.Equal(t, 30, cfg.AdvisorRatePerMinute)
	assert.False(t, cfg.OTELExporterOTLPInsecure)
}

func TestGetDSN(t *testing.T) {
	cfg := &Config{DBUser: "shop", DBPassword: "pw", DBHost: "db", DBPort: "3306", DBName: "mookkammal"}
	assert.Equal(t, "shop:pw@tcp(db:3306)/mookkammal?parseTime=true&charset=utf8mb4", cfg.GetDSN())
}
