package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"gopkg.in/yaml.v3"
)

// Store drivers
const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMongo    = "mongo"
)

type Config struct {
	Port        string
	Environment string
	TablePrefix string
	CORSOrigins string

	// Store selection
	StoreDriver   string
	DatabaseURL   string
	SQLitePath    string
	MongoURI      string
	MongoDatabase string

	// Domain tuning
	VersionRollover int
	UserCacheSize   int

	// Logging
	LogLevel    string
	LogDir      string
	LogMaxFiles int
}

// fileConfig is the optional YAML overlay named by DOCUM_CONFIG. Environment
// variables take precedence over values from the file.
type fileConfig struct {
	Port            string `yaml:"port"`
	Environment     string `yaml:"environment"`
	TablePrefix     string `yaml:"table_prefix"`
	CORSOrigins     string `yaml:"cors_origins"`
	StoreDriver     string `yaml:"store_driver"`
	DatabaseURL     string `yaml:"database_url"`
	SQLitePath      string `yaml:"sqlite_path"`
	MongoURI        string `yaml:"mongo_uri"`
	MongoDatabase   string `yaml:"mongo_database"`
	VersionRollover int    `yaml:"version_rollover"`
	UserCacheSize   int    `yaml:"user_cache_size"`
	LogLevel        string `yaml:"log_level"`
	LogDir          string `yaml:"log_dir"`
	LogMaxFiles     int    `yaml:"log_max_files"`
}

// Load reads configuration from the environment, overlaid on the YAML file
// named by DOCUM_CONFIG when set.
func Load() (*Config, error) {
	var file fileConfig
	if path := os.Getenv("DOCUM_CONFIG"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	env := getEnv("ENVIRONMENT", or(file.Environment, "dev"))

	rollover, err := getEnvInt("VERSION_ROLLOVER", orInt(file.VersionRollover, DefaultVersionRollover))
	if err != nil {
		return nil, err
	}
	cacheSize, err := getEnvInt("USER_CACHE_SIZE", orInt(file.UserCacheSize, 256))
	if err != nil {
		return nil, err
	}
	maxFiles, err := getEnvInt("LOG_MAX_FILES", orInt(file.LogMaxFiles, 10))
	if err != nil {
		return nil, err
	}

	return &Config{
		Port:            getEnv("PORT", or(file.Port, "8080")),
		Environment:     env,
		TablePrefix:     getTablePrefix(env, file.TablePrefix),
		CORSOrigins:     getEnv("CORS_ORIGINS", or(file.CORSOrigins, "http://localhost:3000")),
		StoreDriver:     getEnv("STORE_DRIVER", or(file.StoreDriver, DriverSQLite)),
		DatabaseURL:     getEnv("DATABASE_URL", file.DatabaseURL),
		SQLitePath:      getEnv("SQLITE_PATH", or(file.SQLitePath, "docum.db")),
		MongoURI:        getEnv("MONGO_URI", file.MongoURI),
		MongoDatabase:   getEnv("MONGO_DATABASE", or(file.MongoDatabase, "docum")),
		VersionRollover: rollover,
		UserCacheSize:   cacheSize,
		LogLevel:        getEnv("LOG_LEVEL", or(file.LogLevel, defaultLogLevel(env))),
		LogDir:          getEnv("LOG_DIR", file.LogDir),
		LogMaxFiles:     maxFiles,
	}, nil
}

// Validate implements validation.Validatable
func (c *Config) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required),
		validation.Field(&c.StoreDriver, validation.Required,
			validation.In(DriverMemory, DriverSQLite, DriverPostgres, DriverMongo)),
		validation.Field(&c.DatabaseURL,
			validation.When(c.StoreDriver == DriverPostgres, validation.Required)),
		validation.Field(&c.SQLitePath,
			validation.When(c.StoreDriver == DriverSQLite, validation.Required)),
		validation.Field(&c.MongoURI,
			validation.When(c.StoreDriver == DriverMongo, validation.Required)),
		validation.Field(&c.MongoDatabase,
			validation.When(c.StoreDriver == DriverMongo, validation.Required)),
		validation.Field(&c.VersionRollover, validation.Required, validation.Min(1)),
		validation.Field(&c.UserCacheSize, validation.Min(0)),
		validation.Field(&c.LogLevel, validation.In("debug", "info", "warn", "error")),
		validation.Field(&c.LogMaxFiles, validation.Min(1)),
	)
}

// SlogLevel returns the configured log level
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// defaultLogLevel returns the default log level based on environment
func defaultLogLevel(env string) string {
	if env == "dev" {
		return "debug"
	}
	return "info"
}

// getTablePrefix returns the table prefix based on environment
func getTablePrefix(env, fromFile string) string {
	// Allow manual override via TABLE_PREFIX env var
	if prefix := os.Getenv("TABLE_PREFIX"); prefix != "" {
		return prefix
	}
	if fromFile != "" {
		return fromFile
	}

	// Auto-generate based on environment
	switch env {
	case "prod":
		return "prod_"
	case "test":
		return "test_"
	default:
		return "dev_"
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return n, nil
}

func or(value, fallback string) string {
	if value != "" {
		return value
	}
	return fallback
}

func orInt(value, fallback int) int {
	if value != 0 {
		return value
	}
	return fallback
}
