// Package config loads settings from flags, PORTFOLIO_* environment
// variables and an optional .env file.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/ardanlabs/conf/v3"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

// Prefix is the environment variable prefix.
const Prefix = "PORTFOLIO"

// Storage drivers.
const (
	DriverSQLite = "sqlite"
	DriverMongo  = "mongo"
)

// Upload backends.
const (
	UploadDisk = "disk"
	UploadS3   = "s3"
)

// ErrHelpWanted is returned by Load when --help or --version was given.
// The usage text is in the error message.
var ErrHelpWanted = errors.New("help wanted")

// Config holds all configuration for the application.
type Config struct {
	conf.Version
	Web struct {
		Addr               string        `conf:"default:0.0.0.0:8080"`
		ReadTimeout        time.Duration `conf:"default:30s"`
		WriteTimeout       time.Duration `conf:"default:60s"`
		IdleTimeout        time.Duration `conf:"default:120s"`
		ShutdownTimeout    time.Duration `conf:"default:10s"`
		MaxUploadMB        int64         `conf:"default:32"`
		RateLimitPerMinute int           `conf:"default:300"`
		CORSAllowedOrigins string        `conf:"default:*"`
		Development        bool          `conf:"default:false"`
	}
	DB struct {
		Driver        string `conf:"default:sqlite"`
		Path          string `conf:"default:portfolio.sqlite3"`
		MongoURI      string `conf:"default:mongodb://localhost:27017,noprint"`
		MongoDatabase string `conf:"default:portfolio"`
	}
	Auth struct {
		JWTSecret     string        `conf:"noprint"`
		TokenTTL      time.Duration `conf:"default:24h"`
		BcryptCost    int           `conf:"default:10"`
		AdminUsername string        `conf:"default:admin"`
		AdminEmail    string        `conf:"default:admin@localhost"`
	}
	Upload struct {
		Backend         string `conf:"default:disk"`
		Dir             string `conf:"default:public/uploads"`
		S3Bucket        string
		S3Region        string `conf:"default:us-east-1"`
		S3Endpoint      string
		S3Prefix        string `conf:"default:uploads"`
		S3PublicBaseURL string
	}
	SMTP struct {
		Host     string
		Port     int           `conf:"default:587"`
		Username string
		Password string        `conf:"noprint"`
		From     string        `conf:"default:noreply@localhost"`
		Timeout  time.Duration `conf:"default:15s"`
	}
	Log struct {
		Level string `conf:"default:info"`
		File  string
	}
}

// Load reads .env (if present), then flags and environment variables.
func Load(build string) (*Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		Version: conf.Version{
			Build: build,
			Desc:  "City portfolio catalog",
		},
	}
	help, err := conf.Parse(Prefix, &cfg)
	if err != nil {
		if errors.Is(err, conf.ErrHelpWanted) {
			return nil, fmt.Errorf("%w\n%s", ErrHelpWanted, help)
		}
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// String renders the configuration with secrets masked.
func (c *Config) String() string {
	out, err := conf.String(c)
	if err != nil {
		return fmt.Sprintf("config: %v", err)
	}
	return out
}

// Validate checks enum fields and settings that depend on each other.
func (c *Config) Validate() error {
	var errs []string

	switch c.DB.Driver {
	case DriverSQLite:
		if c.DB.Path == "" {
			errs = append(errs, "db path is required for the sqlite driver")
		}
	case DriverMongo:
		if c.DB.MongoURI == "" || c.DB.MongoDatabase == "" {
			errs = append(errs, "mongo uri and database are required for the mongo driver")
		}
	default:
		errs = append(errs, fmt.Sprintf("db driver must be %q or %q, got %q", DriverSQLite, DriverMongo, c.DB.Driver))
	}

	switch c.Upload.Backend {
	case UploadDisk:
		if c.Upload.Dir == "" {
			errs = append(errs, "upload dir is required for the disk backend")
		}
	case UploadS3:
		if c.Upload.S3Bucket == "" {
			errs = append(errs, "upload s3 bucket is required for the s3 backend")
		}
	default:
		errs = append(errs, fmt.Sprintf("upload backend must be %q or %q, got %q", UploadDisk, UploadS3, c.Upload.Backend))
	}

	if c.Auth.BcryptCost < bcrypt.MinCost || c.Auth.BcryptCost > bcrypt.MaxCost {
		errs = append(errs, fmt.Sprintf("auth bcrypt cost must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost))
	}
	if c.Auth.JWTSecret != "" && len(c.Auth.JWTSecret) < 32 {
		errs = append(errs, "auth jwt secret must be at least 32 bytes")
	}
	if c.Auth.AdminUsername == "" {
		errs = append(errs, "auth admin username is required")
	}
	if c.Web.MaxUploadMB <= 0 {
		errs = append(errs, "web max upload must be positive")
	}
	if c.Web.RateLimitPerMinute <= 0 {
		errs = append(errs, "web rate limit must be positive")
	}
	if _, err := c.LogLevel(); err != nil {
		errs = append(errs, err.Error())
	}

	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("invalid config: %s", strings.Join(errs, "; "))
}

// LogLevel parses Log.Level.
func (c *Config) LogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return 0, fmt.Errorf("log level %q: must be debug, info, warn or error", c.Log.Level)
	}
	return level, nil
}

// SMTPEnabled reports whether a relay is configured.
func (c *Config) SMTPEnabled() bool {
	return c.SMTP.Host != ""
}
