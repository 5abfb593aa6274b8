// Package app builds the application context shared by the HTML and JSON
// routers.
package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/erazemk/portfolio/internal/auth"
	"github.com/erazemk/portfolio/internal/catalog"
	"github.com/erazemk/portfolio/internal/config"
	"github.com/erazemk/portfolio/internal/db"
	"github.com/erazemk/portfolio/internal/mailer"
	"github.com/erazemk/portfolio/internal/metrics"
	"github.com/erazemk/portfolio/internal/store"
	"github.com/erazemk/portfolio/internal/store/mongostore"
	"github.com/erazemk/portfolio/internal/store/sqlite"
	"github.com/erazemk/portfolio/internal/upload"
)

// UploadsURLPrefix is where the disk backend's files are served.
const UploadsURLPrefix = "/uploads"

// App holds shared infrastructure and services. It is built once in main
// and passed to server.NewRouter, which hands it to the web and api routers.
type App struct {
	Config  *config.Config
	Store   store.Store
	Uploads upload.Store
	Mailer  mailer.Sender
	Metrics *metrics.Metrics
	Catalog *catalog.Service
	Auth    *auth.Service

	// UploadDir is set when uploads are served from local disk.
	UploadDir string
}

// New opens the configured store and backends and wires the services.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	st, err := openStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	uploads, uploadDir, err := openUploads(ctx, cfg)
	if err != nil {
		st.Close()
		return nil, err
	}

	var sender mailer.Sender = mailer.LogSender{}
	if cfg.SMTPEnabled() {
		sender, err = mailer.NewSMTPSender(mailer.SMTPConfig{
			Host:     cfg.SMTP.Host,
			Port:     cfg.SMTP.Port,
			Username: cfg.SMTP.Username,
			Password: cfg.SMTP.Password,
			From:     cfg.SMTP.From,
			Timeout:  cfg.SMTP.Timeout,
		})
		if err != nil {
			st.Close()
			return nil, err
		}
	} else {
		slog.Warn("no smtp host configured, welcome emails will only be logged")
	}

	secret := cfg.Auth.JWTSecret
	if secret == "" {
		secret, err = st.GetJWTSecret(ctx)
		if err != nil {
			st.Close()
			return nil, err
		}
	}

	return Assemble(cfg, st, uploads, sender, secret, uploadDir), nil
}

// Assemble wires services around already-open backends.
func Assemble(cfg *config.Config, st store.Store, uploads upload.Store, sender mailer.Sender, secret, uploadDir string) *App {
	m := metrics.New()
	return &App{
		Config:    cfg,
		Store:     st,
		Uploads:   uploads,
		Mailer:    sender,
		Metrics:   m,
		Catalog:   catalog.New(st, st, uploads, m),
		UploadDir: uploadDir,
		Auth: &auth.Service{
			Users:      st,
			Tokens:     st,
			Mailer:     sender,
			Secret:     secret,
			BcryptCost: cfg.Auth.BcryptCost,
			TokenTTL:   cfg.Auth.TokenTTL,
		},
	}
}

// Close releases the store.
func (a *App) Close() error {
	return a.Store.Close()
}

func openStore(ctx context.Context, cfg *config.Config) (store.Store, error) {
	switch cfg.DB.Driver {
	case config.DriverMongo:
		st, err := mongostore.Open(ctx, cfg.DB.MongoURI, cfg.DB.MongoDatabase)
		if err != nil {
			return nil, err
		}
		slog.Info("database ready", "driver", "mongo", "database", cfg.DB.MongoDatabase)
		return st, nil
	default:
		database, err := db.Open(cfg.DB.Path)
		if err != nil {
			return nil, err
		}
		if err := db.EnsureSchema(database); err != nil {
			database.Close()
			return nil, err
		}
		slog.Info("database ready", "driver", "sqlite", "path", cfg.DB.Path)
		return sqlite.New(database), nil
	}
}

func openUploads(ctx context.Context, cfg *config.Config) (upload.Store, string, error) {
	switch cfg.Upload.Backend {
	case config.UploadS3:
		s3, err := upload.NewS3(ctx, upload.S3Config{
			Bucket:        cfg.Upload.S3Bucket,
			Region:        cfg.Upload.S3Region,
			Endpoint:      cfg.Upload.S3Endpoint,
			Prefix:        cfg.Upload.S3Prefix,
			PublicBaseURL: cfg.Upload.S3PublicBaseURL,
		})
		if err != nil {
			return nil, "", err
		}
		slog.Info("using s3 uploads", "bucket", cfg.Upload.S3Bucket, "region", cfg.Upload.S3Region)
		return s3, "", nil
	default:
		disk, err := upload.NewDisk(cfg.Upload.Dir, UploadsURLPrefix)
		if err != nil {
			return nil, "", fmt.Errorf("preparing uploads: %w", err)
		}
		slog.Info("using disk uploads", "dir", cfg.Upload.Dir)
		return disk, cfg.Upload.Dir, nil
	}
}
