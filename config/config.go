package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/DhavalSuthar-24/crickpro/internal/telemetry"
	"github.com/glebarez/sqlite"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type Config struct {
	App struct {
		Env         string `env:"APP_ENV" envDefault:"development"`
		Port        string `env:"PORT"    envDefault:"8088"`
		FrontendURL string `env:"FRONTEND_URL" envDefault:"http://localhost:3000"`
	}
	DB struct {
		Driver     string `env:"DB_DRIVER"   envDefault:"sqlite"` // postgres | sqlite
		Host       string `env:"DB_HOST"     envDefault:"localhost"`
		Port       string `env:"DB_PORT"     envDefault:"5432"`
		User       string `env:"DB_USER"     envDefault:"postgres"`
		Password   string `env:"DB_PASSWORD" envDefault:"password"`
		Name       string `env:"DB_NAME"     envDefault:"crickpro"`
		SSLMode    string `env:"DB_SSLMODE"  envDefault:"disable"`
		SQLitePath string `env:"SQLITE_PATH" envDefault:"crickpro.db"`
	}
	JWT struct {
		AccessTokenSecret        string `env:"JWT_ACCESS_TOKEN_SECRET"  envDefault:"supersecret"`
		AccessTokenExpiryMinutes int    `env:"JWT_ACCESS_TOKEN_EXPIRY_MINUTES" envDefault:"15"`
		RefreshTokenSecret       string `env:"JWT_REFRESH_TOKEN_SECRET" envDefault:"supersecretrefresh"`
		RefreshTokenExpiryDays   int    `env:"JWT_REFRESH_TOKEN_EXPIRY_DAYS"   envDefault:"7"`
	}
	Commentary struct {
		APIKey        string        `env:"GEMINI_API_KEY"` // falls back to API_KEY
		Model         string        `env:"COMMENTARY_MODEL" envDefault:"gemini-2.5-flash"`
		Timeout       time.Duration `env:"COMMENTARY_TIMEOUT" envDefault:"8s"`
		RatePerMinute int           `env:"COMMENTARY_RATE_PER_MINUTE" envDefault:"30"`
	}
	Match struct {
		PersistTimeout     time.Duration `env:"PERSIST_TIMEOUT" envDefault:"5s"`
		SessionIdleTimeout time.Duration `env:"SESSION_IDLE_TIMEOUT" envDefault:"30m"`
	}
	Log struct {
		Level string `env:"LOG_LEVEL" envDefault:"info"`
	}
	// Admin account seeded on first start when both are set.
	Admin struct {
		Email    string `env:"ADMIN_EMAIL"`
		Password string `env:"ADMIN_PASSWORD"`
	}
}

var (
	appConfig *Config
	appDB     *gorm.DB
	once      sync.Once
	initErr   error
)

// LoadConfig reads configuration from the environment, after loading a .env
// file if one exists.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		telemetry.Debugf("No .env file loaded, relying on system environment variables.")
	}

	cfg := &Config{}

	cfg.App.Env = getEnv("APP_ENV", "development")
	cfg.App.Port = getEnv("PORT", "8088")
	cfg.App.FrontendURL = getEnv("FRONTEND_URL", "http://localhost:3000")

	cfg.DB.Driver = strings.ToLower(getEnv("DB_DRIVER", "sqlite"))
	cfg.DB.Host = getEnv("DB_HOST", "localhost")
	cfg.DB.Port = getEnv("DB_PORT", "5432")
	cfg.DB.User = getEnv("DB_USER", "postgres")
	cfg.DB.Password = getEnv("DB_PASSWORD", "password")
	cfg.DB.Name = getEnv("DB_NAME", "crickpro")
	cfg.DB.SSLMode = getEnv("DB_SSLMODE", "disable")
	cfg.DB.SQLitePath = getEnv("SQLITE_PATH", "crickpro.db")
	if cfg.DB.Driver != "postgres" && cfg.DB.Driver != "sqlite" {
		return nil, fmt.Errorf("invalid DB_DRIVER %q: expected postgres or sqlite", cfg.DB.Driver)
	}

	cfg.JWT.AccessTokenSecret = getEnv("JWT_ACCESS_TOKEN_SECRET", "your-very-strong-access-secret")
	cfg.JWT.RefreshTokenSecret = getEnv("JWT_REFRESH_TOKEN_SECRET", "your-very-strong-refresh-secret")

	var err error
	cfg.JWT.AccessTokenExpiryMinutes, err = getEnvAsInt("JWT_ACCESS_TOKEN_EXPIRY_MINUTES", 15)
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_ACCESS_TOKEN_EXPIRY_MINUTES: %w", err)
	}
	cfg.JWT.RefreshTokenExpiryDays, err = getEnvAsInt("JWT_REFRESH_TOKEN_EXPIRY_DAYS", 7)
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_REFRESH_TOKEN_EXPIRY_DAYS: %w", err)
	}

	cfg.Commentary.APIKey = getEnv("GEMINI_API_KEY", "")
	if cfg.Commentary.APIKey == "" {
		cfg.Commentary.APIKey = getEnv("API_KEY", "")
	}
	cfg.Commentary.Model = getEnv("COMMENTARY_MODEL", "gemini-2.5-flash")
	cfg.Commentary.Timeout, err = getEnvAsDuration("COMMENTARY_TIMEOUT", 8*time.Second)
	if err != nil {
		return nil, fmt.Errorf("invalid COMMENTARY_TIMEOUT: %w", err)
	}
	cfg.Commentary.RatePerMinute, err = getEnvAsInt("COMMENTARY_RATE_PER_MINUTE", 30)
	if err != nil {
		return nil, fmt.Errorf("invalid COMMENTARY_RATE_PER_MINUTE: %w", err)
	}

	cfg.Match.PersistTimeout, err = getEnvAsDuration("PERSIST_TIMEOUT", 5*time.Second)
	if err != nil {
		return nil, fmt.Errorf("invalid PERSIST_TIMEOUT: %w", err)
	}
	cfg.Match.SessionIdleTimeout, err = getEnvAsDuration("SESSION_IDLE_TIMEOUT", 30*time.Minute)
	if err != nil {
		return nil, fmt.Errorf("invalid SESSION_IDLE_TIMEOUT: %w", err)
	}

	cfg.Log.Level = getEnv("LOG_LEVEL", "info")
	cfg.Admin.Email = getEnv("ADMIN_EMAIL", "")
	cfg.Admin.Password = getEnv("ADMIN_PASSWORD", "")

	if cfg.JWT.AccessTokenSecret == "your-very-strong-access-secret" || cfg.JWT.RefreshTokenSecret == "your-very-strong-refresh-secret" {
		telemetry.Warnf("Using default JWT secrets. Set JWT_ACCESS_TOKEN_SECRET and JWT_REFRESH_TOKEN_SECRET for production.")
	}
	if cfg.DB.Driver == "postgres" && cfg.DB.Password == "password" && cfg.App.Env == "production" {
		telemetry.Warnf("Using default DB password in production. Set DB_PASSWORD.")
	}
	if cfg.Commentary.APIKey == "" {
		telemetry.Infof("No GEMINI_API_KEY set, commentary will use stock phrases.")
	}

	return cfg, nil
}

// ConnectDB opens the database selected by DB_DRIVER.
func ConnectDB(cfg Config) (*gorm.DB, error) {
	gormConfig := &gorm.Config{}
	if cfg.App.Env == "development" {
		gormConfig.Logger = logger.Default.LogMode(logger.Info)
	} else {
		gormConfig.Logger = logger.Default.LogMode(logger.Silent)
	}

	var dialector gorm.Dialector
	switch cfg.DB.Driver {
	case "postgres":
		dsn := fmt.Sprintf(
			"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
			cfg.DB.Host,
			cfg.DB.User,
			cfg.DB.Password,
			cfg.DB.Name,
			cfg.DB.Port,
			cfg.DB.SSLMode,
		)
		dialector = postgres.Open(dsn)
	default:
		dialector = sqlite.Open(cfg.DB.SQLitePath)
	}

	gormDB, err := gorm.Open(dialector, gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s database: %w", cfg.DB.Driver, err)
	}
	if cfg.DB.Driver == "sqlite" {
		// sqlite allows one writer; keep gorm from opening competing connections.
		sqlDB, err := gormDB.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to get sqlite handle: %w", err)
		}
		sqlDB.SetMaxOpenConns(1)
	}

	telemetry.Infof("Connected to %s database", cfg.DB.Driver)
	return gormDB, nil
}

// Initialize loads the configuration and connects to the database once.
func Initialize() (*Config, *gorm.DB, error) {
	once.Do(func() {
		cfg, err := LoadConfig()
		if err != nil {
			initErr = fmt.Errorf("failed to load configuration: %w", err)
			return
		}
		telemetry.Init(telemetry.ParseLogLevel(cfg.Log.Level))

		db, err := ConnectDB(*cfg)
		if err != nil {
			initErr = fmt.Errorf("failed to connect to database during initialization: %w", err)
			return
		}
		appConfig, appDB = cfg, db
	})
	return appConfig, appDB, initErr
}

// AccessTokenTTL is the access token lifetime.
func (c *Config) AccessTokenTTL() time.Duration {
	return time.Duration(c.JWT.AccessTokenExpiryMinutes) * time.Minute
}

// RefreshTokenTTL is the refresh token lifetime.
func (c *Config) RefreshTokenTTL() time.Duration {
	return time.Duration(c.JWT.RefreshTokenExpiryDays) * 24 * time.Hour
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) (int, error) {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return fallback, nil
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return fallback, fmt.Errorf("env var %s: expected integer, got '%s'", key, valueStr)
	}
	return value, nil
}

func getEnvAsDuration(key string, fallback time.Duration) (time.Duration, error) {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return fallback, nil
	}
	if secs, err := strconv.Atoi(valueStr); err == nil {
		return time.Duration(secs) * time.Second, nil
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return fallback, fmt.Errorf("env var %s: expected duration, got '%s'", key, valueStr)
	}
	return value, nil
}
