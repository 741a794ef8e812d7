package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Port                    string
	Env                     string
	DatabaseDriver          string
	PostgresConnStr         string
	SQLitePath              string
	MongoURI                string
	MongoDatabase           string
	JWTSecret               string
	JWTTTL                  time.Duration
	AllowedEmailDomain      string
	MinPasswordLength       int
	MaxInterests            int
	StrictCatalog           bool
	FirebaseCredentialsPath string
	MetricsPort             string
	LogLevel                string
	LogFile                 string
	AuthRateLimit           float64
}

const devJWTSecret = "slugconnect-dev-secret-change-me"

// Load reads .env (if present) and the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, assuming environment variables are set.")
	}
	return FromViper(newViper())
}

func newViper() *viper.Viper {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("PORT", "8080")
	v.SetDefault("ENV", "development")
	v.SetDefault("DATABASE_DRIVER", "postgres")
	v.SetDefault("SQLITE_PATH", "slugconnect.db")
	v.SetDefault("MONGO_DATABASE", "slugconnect")
	v.SetDefault("JWT_TTL_HOURS", 72)
	v.SetDefault("ALLOWED_EMAIL_DOMAIN", "ucsc.edu")
	v.SetDefault("MIN_PASSWORD_LENGTH", 6)
	v.SetDefault("MAX_INTERESTS", 10)
	v.SetDefault("STRICT_CATALOG", false)
	v.SetDefault("METRICS_PORT", "9090")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("AUTH_RATE_LIMIT", 5)
	return v
}

// FromViper builds a Config from v and checks it.
func FromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Port:                    v.GetString("PORT"),
		Env:                     strings.ToLower(v.GetString("ENV")),
		DatabaseDriver:          strings.ToLower(v.GetString("DATABASE_DRIVER")),
		PostgresConnStr:         v.GetString("POSTGRES_CONN_STR"),
		SQLitePath:              v.GetString("SQLITE_PATH"),
		MongoURI:                v.GetString("MONGO_URI"),
		MongoDatabase:           v.GetString("MONGO_DATABASE"),
		JWTSecret:               v.GetString("JWT_SECRET"),
		JWTTTL:                  time.Duration(v.GetInt("JWT_TTL_HOURS")) * time.Hour,
		AllowedEmailDomain:      strings.ToLower(v.GetString("ALLOWED_EMAIL_DOMAIN")),
		MinPasswordLength:       v.GetInt("MIN_PASSWORD_LENGTH"),
		MaxInterests:            v.GetInt("MAX_INTERESTS"),
		StrictCatalog:           v.GetBool("STRICT_CATALOG"),
		FirebaseCredentialsPath: v.GetString("FIREBASE_CREDENTIALS_PATH"),
		MetricsPort:             v.GetString("METRICS_PORT"),
		LogLevel:                strings.ToLower(v.GetString("LOG_LEVEL")),
		LogFile:                 v.GetString("LOG_FILE"),
		AuthRateLimit:           v.GetFloat64("AUTH_RATE_LIMIT"),
	}

	switch cfg.DatabaseDriver {
	case "postgres":
		if cfg.PostgresConnStr == "" {
			return nil, fmt.Errorf("POSTGRES_CONN_STR environment variable not set")
		}
	case "sqlite":
	default:
		return nil, fmt.Errorf("unsupported DATABASE_DRIVER %q", cfg.DatabaseDriver)
	}

	if cfg.IsProduction() {
		if len(cfg.JWTSecret) < 32 {
			return nil, fmt.Errorf("JWT secret is too short (%d chars), must be at least 32 characters in production", len(cfg.JWTSecret))
		}
	} else if cfg.JWTSecret == "" {
		cfg.JWTSecret = devJWTSecret
	}

	if cfg.JWTTTL <= 0 {
		return nil, fmt.Errorf("JWT_TTL_HOURS must be positive")
	}
	if cfg.MaxInterests <= 0 {
		return nil, fmt.Errorf("MAX_INTERESTS must be positive")
	}
	return cfg, nil
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}
