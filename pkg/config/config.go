package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration from environment variables
type Config struct {
	// Application
	AppEnv          string
	DefaultVertical string
	CartScope       string // active or any
	ReportNoOps     bool

	// Storage
	StorageDriver    string // memory, sqlite, mysql, redis or mongo
	StorageKeyPrefix string
	SQLitePath       string
	RedisURL         string
	MongoURI         string
	MongoDatabase    string
	MongoCollection  string

	// Database
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	// Advisor
	GeminiAPIKey         string
	AdvisorFastModel     string
	AdvisorProModel      string
	AdvisorTimeout       time.Duration
	AdvisorRatePerMinute int
	AdvisorTipCacheTTL   time.Duration

	// OpenTelemetry
	MetricsEnabled            bool
	OTELExporterOTLPEndpoint  string
	OTELExporterOTLPHeaders   string // For SigNoz Cloud: signoz-ingestion-key=<key>
	OTELExporterOTLPInsecure  bool   // true for http://, false for https://
	OTELServiceName           string
	OTELServiceVersion        string
	OTELDeploymentEnvironment string
}

// LoadConfig loads configuration from .env file and environment variables with defaults
func LoadConfig() *Config {
	// .env is optional; only complain when it exists but cannot be parsed
	if err := godotenv.Load(); err != nil {
		if _, ok := err.(*os.PathError); !ok {
			log.Printf("Warning: Error loading .env file: %v", err)
		}
	}

	return &Config{
		// Application
		AppEnv:          getEnv("APP_ENV", "development"),
		DefaultVertical: getEnv("DEFAULT_VERTICAL", "TEXTILES"),
		CartScope:       getEnv("CART_SCOPE", "active"),
		ReportNoOps:     getEnvBool("REPORT_NOOPS", false),

		// Storage
		StorageDriver:    getEnv("STORAGE_DRIVER", "sqlite"),
		StorageKeyPrefix: getEnv("STORAGE_KEY_PREFIX", "mookkammal_"),
		SQLitePath:       getEnv("SQLITE_PATH", "storefront.db"),
		RedisURL:         getEnv("REDIS_URL", "redis://localhost:6379/0"),
		MongoURI:         getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase:    getEnv("MONGO_DATABASE", "mookkammal"),
		MongoCollection:  getEnv("MONGO_COLLECTION", "storefront_state"),

		// Database
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "3306"),
		DBUser:     getEnv("DB_USER", "root"),
		DBPassword: getEnv("DB_PASSWORD", "password"),
		DBName:     getEnv("DB_NAME", "mookkammal"),

		// Advisor
		GeminiAPIKey:         getEnv("GEMINI_API_KEY", ""),
		AdvisorFastModel:     getEnv("ADVISOR_FAST_MODEL", "gemini-3-flash-preview"),
		AdvisorProModel:      getEnv("ADVISOR_PRO_MODEL", "gemini-3-pro-preview"),
		AdvisorTimeout:       getEnvDuration("ADVISOR_TIMEOUT", 20*time.Second),
		AdvisorRatePerMinute: getEnvInt("ADVISOR_RATE_PER_MINUTE", 30),
		AdvisorTipCacheTTL:   getEnvDuration("ADVISOR_TIP_CACHE_TTL", 10*time.Minute),

		// OpenTelemetry
		MetricsEnabled:            getEnvBool("METRICS_ENABLED", false),
		OTELExporterOTLPEndpoint:  getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4318"),
		OTELExporterOTLPHeaders:   getEnv("OTEL_EXPORTER_OTLP_HEADERS", ""),
		OTELExporterOTLPInsecure:  getEnvBool("OTEL_EXPORTER_OTLP_INSECURE", true),
		OTELServiceName:           getEnv("OTEL_SERVICE_NAME", "mookkammal-storefront"),
		OTELServiceVersion:        getEnv("OTEL_SERVICE_VERSION", "1.0.0"),
		OTELDeploymentEnvironment: getEnv("OTEL_DEPLOYMENT_ENVIRONMENT", "development"),
	}
}

// GetDSN returns the MySQL DSN string
func (c *Config) GetDSN() string {
	return c.DBUser + ":" + c.DBPassword + "@tcp(" + c.DBHost + ":" + c.DBPort + ")/" + c.DBName + "?parseTime=true&charset=utf8mb4"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if value == "true" || value == "1" || value == "yes" {
			return true
		}
		return false
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
		log.Printf("Warning: %s=%q is not an integer, using %d", key, value, defaultValue)
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
		log.Printf("Warning: %s=%q is not a duration, using %s", key, value, defaultValue)
	}
	return defaultValue
}
