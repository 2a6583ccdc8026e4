package configs

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Источники данных каталога, избранного и истории поиска.
const (
	BackendStatic   = "static"
	BackendRecords  = "records"
	BackendPostgres = "postgres"
)

type ListingConfig struct {
	Backend string
	// FavoritesToggleLock - "shared" или "per_property"
	FavoritesToggleLock string
	LoadTimeout         time.Duration
	ViewerIdleTTL       time.Duration
	SweepInterval       time.Duration
	// MaxViewers - предел числа состояний посетителей в памяти, 0 - без предела
	MaxViewers        int
	PageSize          int
	SearchHistoryKept int
}

type DBconfig struct {
	URL         string
	AutoMigrate bool
}

type RecordsAPIConfig struct {
	URL       string
	ProjectID string
	APIKey    string
	Timeout   time.Duration
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	CacheTTL time.Duration
}

type RabbitMQConfig struct {
	URL string
}

type AuthConfig struct {
	JWTSecret string
}

type RESTconfig struct {
	PORT           string
	AllowedOrigins []string
}

type StdoutLogConfig struct {
	Level string
}

type FluentBitConfig struct {
	Host    string
	Port    int
	Enabled bool
	Level   string
}

// AppConfig хранит всю конфигурацию приложения
type AppConfig struct {
	AppName      string
	Listing      ListingConfig
	Database     DBconfig
	Records      RecordsAPIConfig
	Redis        RedisConfig
	RabbitMQ     RabbitMQConfig
	Auth         AuthConfig
	Rest         RESTconfig
	FluentBit    FluentBitConfig
	StdoutLogger StdoutLogConfig
}

// LoadConfig загружает конфигурацию из переменных окружения.
// Файл .env необязателен: без него используются только переменные окружения.
func LoadConfig(envPath ...string) (*AppConfig, error) {
	var err error
	if len(envPath) > 0 {
		err = godotenv.Load(envPath[0])
	} else {
		err = godotenv.Load()
	}
	if err != nil {
		log.Printf("Info: Could not load .env file (path: %v): %v. Using environment only.\n", envPath, err)
	}

	cfg := &AppConfig{}

	cfg.AppName = getEnvAsString("APP_NAME", "listing-service")

	cfg.Listing.Backend = strings.ToLower(getEnvAsString("BACKEND_SOURCE", BackendStatic))
	cfg.Listing.FavoritesToggleLock = getEnvAsString("FAVORITES_TOGGLE_LOCK", "shared")
	cfg.Listing.LoadTimeout = getEnvAsDuration("LOAD_TIMEOUT", 15*time.Second)
	cfg.Listing.ViewerIdleTTL = getEnvAsDuration("VIEWER_IDLE_TTL", 30*time.Minute)
	cfg.Listing.SweepInterval = getEnvAsDuration("VIEWER_SWEEP_INTERVAL", time.Minute)
	cfg.Listing.MaxViewers = getEnvAsInt("VIEWER_MAX_COUNT", 10000)
	cfg.Listing.PageSize = getEnvAsInt("CATALOG_PAGE_SIZE", 20)
	cfg.Listing.SearchHistoryKept = getEnvAsInt("SEARCH_HISTORY_KEPT", 20)

	switch cfg.Listing.Backend {
	case BackendStatic:
	case BackendRecords:
		cfg.Records.URL = os.Getenv("RECORDS_API_URL")
		if cfg.Records.URL == "" {
			return nil, fmt.Errorf("RECORDS_API_URL environment variable is required for BACKEND_SOURCE=records")
		}
		cfg.Records.ProjectID = os.Getenv("RECORDS_PROJECT_ID")
		cfg.Records.APIKey = os.Getenv("RECORDS_API_KEY")
		cfg.Records.Timeout = getEnvAsDuration("RECORDS_API_TIMEOUT", 10*time.Second)
	case BackendPostgres:
		cfg.Database.URL = os.Getenv("DATABASE_URL")
		if cfg.Database.URL == "" {
			return nil, fmt.Errorf("DATABASE_URL environment variable is required for BACKEND_SOURCE=postgres")
		}
		cfg.Database.AutoMigrate = getEnvAsBool("DB_AUTO_MIGRATE", true)
	default:
		return nil, fmt.Errorf("unknown BACKEND_SOURCE %q", cfg.Listing.Backend)
	}

	switch cfg.Listing.FavoritesToggleLock {
	case "shared", "per_property":
	default:
		return nil, fmt.Errorf("unknown FAVORITES_TOGGLE_LOCK %q", cfg.Listing.FavoritesToggleLock)
	}

	cfg.Auth.JWTSecret = os.Getenv("JWT_SECRET")
	if cfg.Auth.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET environment variable is required")
	}

	// Redis и RabbitMQ необязательны: без адреса сервис работает без них
	cfg.Redis.Addr = os.Getenv("REDIS_ADDR")
	cfg.Redis.Password = os.Getenv("REDIS_PASSWORD")
	cfg.Redis.DB = getEnvAsInt("REDIS_DB", 0)
	cfg.Redis.CacheTTL = getEnvAsDuration("CATALOG_CACHE_TTL", time.Minute)

	cfg.RabbitMQ.URL = os.Getenv("RABBITMQ_URL")

	cfg.Rest.PORT = getEnvAsString("PORT", "8080")
	cfg.Rest.AllowedOrigins = splitList(getEnvAsString("CORS_ALLOWED_ORIGINS", "http://localhost:3000"))

	cfg.FluentBit.Enabled = getEnvAsBool("FLUENTBIT_ENABLED", false)
	if cfg.FluentBit.Enabled {
		cfg.FluentBit.Host = os.Getenv("FLUENTBIT_HOST")
		if cfg.FluentBit.Host == "" {
			log.Println("WARNING: FLUENTBIT_ENABLED is true, but FLUENTBIT_HOST is not set. Disabling Fluent Bit.")
			cfg.FluentBit.Enabled = false
		}

		cfg.FluentBit.Port = getEnvAsInt("FLUENTBIT_PORT", 24224)
		cfg.FluentBit.Level = getEnvAsString("FLUENTBIT_LOG_LEVEL", "info")
	}

	cfg.StdoutLogger.Level = getEnvAsString("STDOUT_LOG_LEVEL", "debug")

	return cfg, nil
}

func getEnvAsString(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}

	valueInt, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Warning: Environment variable %s (value: %s) could not be parsed as int: %v. Using default value: %d\n", key, valueStr, err, defaultValue)
		return defaultValue
	}
	return valueInt
}

// getEnvAsBool читает переменную окружения как bool или возвращает значение по умолчанию
func getEnvAsBool(key string, defaultValue bool) bool {
	valStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	valBool, err := strconv.ParseBool(valStr)
	if err != nil {
		log.Printf("Warning: Environment variable %s (value: %s) could not be parsed as bool: %v. Using default value: %t\n", key, valStr, err, defaultValue)
		return defaultValue
	}
	return valBool
}

// getEnvAsDuration понимает "15s", "2m" и т.п.; "0" отключает ограничение.
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	if valStr == "0" {
		return 0
	}
	val, err := time.ParseDuration(valStr)
	if err != nil || val < 0 {
		log.Printf("Warning: Environment variable %s (value: %s) could not be parsed as duration: %v. Using default value: %s\n", key, valStr, err, defaultValue)
		return defaultValue
	}
	return val
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
