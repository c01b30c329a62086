package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Rhymond/go-money"
	"github.com/kelseyhightower/envconfig"

	"github.com/MrJamesThe3rd/pocket/internal/database"
)

const StoreMemory = "memory"

type Config struct {
	App struct {
		Name     string `envconfig:"APP_NAME" default:"Pocket"`
		Port     int    `envconfig:"PORT" default:"8080"`
		Currency string `envconfig:"CURRENCY" default:"USD"`
		LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
	}

	Store struct {
		// Driver is sqlite, postgres or memory.
		Driver string `envconfig:"STORE_DRIVER" default:"sqlite"`
		Path   string `envconfig:"STORE_PATH" default:"./data/pocket.db"`
		Key    string `envconfig:"STORE_KEY" default:"financeData"`
	}

	DB struct {
		Host     string `envconfig:"DB_HOST" default:"localhost"`
		Port     int    `envconfig:"DB_PORT" default:"5432"`
		User     string `envconfig:"DB_USER" default:"postgres"`
		Password string `envconfig:"DB_PASSWORD" default:""`
		Name     string `envconfig:"DB_NAME" default:"pocket"`
	}

	Server struct {
		Timeout        time.Duration `envconfig:"SERVER_TIMEOUT" default:"30s"`
		AllowedOrigins []string      `envconfig:"ALLOWED_ORIGINS" default:"http://localhost:3000"`
	}

	Auth struct {
		// Requests are unauthenticated when Secret is empty.
		Secret   string        `envconfig:"AUTH_SECRET"`
		TokenTTL time.Duration `envconfig:"AUTH_TOKEN_TTL" default:"24h"`
	}

	Backup struct {
		Dir     string `envconfig:"BACKUP_DIR" default:"./backups"`
		MaxSize int64  `envconfig:"BACKUP_MAX_SIZE" default:"10485760"`
	}
}

func (c *Config) ConnectionString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.DB.User, c.DB.Password, c.DB.Host, c.DB.Port, c.DB.Name)
}

// DSN returns the data source name for the configured SQL driver.
func (c *Config) DSN() string {
	if database.Driver(c.Store.Driver) == database.DriverPostgres {
		return c.ConnectionString()
	}

	return database.SQLiteDSN(c.Store.Path)
}

func (c *Config) LogLevel() slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.App.LogLevel)); err != nil {
		return slog.LevelInfo
	}

	return lvl
}

func (c *Config) Validate() error {
	var errs []error

	switch c.Store.Driver {
	case string(database.DriverSQLite), string(database.DriverPostgres), StoreMemory:
	default:
		errs = append(errs, fmt.Errorf("STORE_DRIVER must be sqlite, postgres or memory, got %q", c.Store.Driver))
	}

	if c.Store.Driver == string(database.DriverSQLite) && strings.TrimSpace(c.Store.Path) == "" {
		errs = append(errs, errors.New("STORE_PATH is required for sqlite"))
	}

	if money.GetCurrency(c.App.Currency) == nil {
		errs = append(errs, fmt.Errorf("CURRENCY %q is not an ISO 4217 code", c.App.Currency))
	}

	if c.Backup.MaxSize <= 0 {
		errs = append(errs, errors.New("BACKUP_MAX_SIZE must be positive"))
	}

	if c.Auth.Secret != "" && c.Auth.TokenTTL <= 0 {
		errs = append(errs, errors.New("AUTH_TOKEN_TTL must be positive"))
	}

	return errors.Join(errs...)
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}
