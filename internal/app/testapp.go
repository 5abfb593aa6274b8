package app

import (
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/erazemk/portfolio/internal/config"
	"github.com/erazemk/portfolio/internal/db"
	"github.com/erazemk/portfolio/internal/mailer"
	"github.com/erazemk/portfolio/internal/store/sqlite"
	"github.com/erazemk/portfolio/internal/upload"
)

// TestSecret signs tokens issued by NewTestApp.
const TestSecret = "test-secret"

// NewTestApp wires an App over an in-memory database and a temporary
// upload directory. A nil sender logs messages instead of sending them.
func NewTestApp(t *testing.T, sender mailer.Sender) *App {
	t.Helper()

	var cfg config.Config
	cfg.DB.Driver = config.DriverSQLite
	cfg.DB.Path = "test.sqlite3"
	cfg.Upload.Backend = config.UploadDisk
	cfg.Upload.Dir = t.TempDir()
	cfg.Auth.BcryptCost = bcrypt.MinCost
	cfg.Auth.AdminUsername = "admin"
	cfg.Auth.AdminEmail = "admin@example.com"
	cfg.Web.MaxUploadMB = 4
	cfg.Web.RateLimitPerMinute = 10000
	cfg.Web.CORSAllowedOrigins = "*"
	cfg.Log.Level = "info"

	uploads, err := upload.NewDisk(cfg.Upload.Dir, UploadsURLPrefix)
	if err != nil {
		t.Fatalf("preparing test uploads: %v", err)
	}
	if sender == nil {
		sender = mailer.LogSender{}
	}

	return Assemble(&cfg, sqlite.New(db.NewTestDB(t)), uploads, sender, TestSecret, cfg.Upload.Dir)
}
