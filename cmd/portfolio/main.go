package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/erazemk/portfolio/internal/app"
	"github.com/erazemk/portfolio/internal/config"
	"github.com/erazemk/portfolio/internal/server"
)

// build is set at link time.
var build = "develop"

// levelRouter is a slog.Handler that routes records below ERROR to stdout
// and ERROR+ to stderr.
type levelRouter struct {
	level  slog.Leveler
	stdout slog.Handler
	stderr slog.Handler
}

func (lr *levelRouter) Enabled(_ context.Context, level slog.Level) bool {
	return level >= lr.level.Level()
}

func (lr *levelRouter) Handle(ctx context.Context, r slog.Record) error {
	if r.Level >= slog.LevelError {
		return lr.stderr.Handle(ctx, r)
	}
	return lr.stdout.Handle(ctx, r)
}

func (lr *levelRouter) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &levelRouter{
		level:  lr.level,
		stdout: lr.stdout.WithAttrs(attrs),
		stderr: lr.stderr.WithAttrs(attrs),
	}
}

func (lr *levelRouter) WithGroup(name string) slog.Handler {
	return &levelRouter{
		level:  lr.level,
		stdout: lr.stdout.WithGroup(name),
		stderr: lr.stderr.WithGroup(name),
	}
}

func newLevelRouter(level slog.Level, stdout, stderr io.Writer) *levelRouter {
	opts := &slog.HandlerOptions{Level: level}
	return &levelRouter{
		level:  level,
		stdout: slog.NewTextHandler(stdout, opts),
		stderr: slog.NewTextHandler(stderr, opts),
	}
}

// setupLogger installs the default logger. If logPath is non-empty, all
// levels are also written to that file. The returned cleanup closes it.
func setupLogger(level slog.Level, logPath string) (func(), error) {
	cleanup := func() {}

	stdoutW := io.Writer(os.Stdout)
	stderrW := io.Writer(os.Stderr)

	if logPath != "" {
		f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("opening log file: %w", err)
		}
		cleanup = func() { f.Close() }
		stdoutW = io.MultiWriter(os.Stdout, f)
		stderrW = io.MultiWriter(os.Stderr, f)
	}

	slog.SetDefault(slog.New(newLevelRouter(level, stdoutW, stderrW)))
	return cleanup, nil
}

func main() {
	if err := run(); err != nil {
		slog.Error("startup failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(build)
	if err != nil {
		if errors.Is(err, config.ErrHelpWanted) {
			fmt.Println(strings.TrimPrefix(err.Error(), config.ErrHelpWanted.Error()+"\n"))
			return nil
		}
		return err
	}

	level, err := cfg.LogLevel()
	if err != nil {
		return err
	}
	closeLog, err := setupLogger(level, cfg.Log.File)
	if err != nil {
		return err
	}
	defer closeLog()

	slog.Info("starting", "build", build)
	slog.Debug("configuration\n" + cfg.String())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		slog.Info("closing database")
		if err := a.Close(); err != nil {
			slog.Error("failed to close database", "error", err)
		}
	}()

	password, err := a.Auth.EnsureAdmin(ctx, cfg.Auth.AdminUsername, cfg.Auth.AdminEmail)
	if err != nil {
		return fmt.Errorf("bootstrapping admin: %w", err)
	}
	if password != "" {
		printAdminCreated(cfg.Auth.AdminUsername, password)
	}

	handler, err := server.NewRouter(a)
	if err != nil {
		return fmt.Errorf("setting up routes: %w", err)
	}
	srv := server.New(a, handler)

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server started", "addr", cfg.Web.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		slog.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Web.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
	}
	slog.Info("server stopped")
	return nil
}

// printAdminCreated prints the bootstrap credentials once.
func printAdminCreated(username, password string) {
	fmt.Println("Admin account created:")
	fmt.Printf("  Username: %s\n", username)
	fmt.Printf("  Password: %s\n", password)
	fmt.Println()
	fmt.Println("Save this password, it is not shown again.")
	fmt.Println()
}
