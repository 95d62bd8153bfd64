package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/jmoiron/sqlx"
	"github.com/stapply-ai/agent/internal/db"
	"github.com/stapply-ai/agent/internal/utils"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

// ErrDataDirLocked means another server instance owns the data dir.
var ErrDataDirLocked = errors.New("data dir is locked by another instance")

type Server struct {
	config   *Config
	services *Services
	server   *http.Server
	sqlite   *sqlx.DB
	lock     *flock.Flock

	runCancel context.CancelFunc
}

func New(config *Config) (*Server, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("server config: %w", err)
	}

	// Absolute from here on, so the lock and db paths survive cwd changes.
	dataDir, err := utils.ResolvePath(config.DataDir)
	if err != nil {
		return nil, fmt.Errorf("resolve data dir: %w", err)
	}
	config.DataDir = dataDir

	if err := utils.EnsureDir(config.DataDir); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	sqliteDB, err := db.NewSqliteDB(db.WithPath(config.DatabasePath()))
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	services, err := NewServices(config, sqliteDB)
	if err != nil {
		return nil, err
	}

	return &Server{
		config:   config,
		services: services,
		sqlite:   sqliteDB,
		lock:     flock.New(filepath.Join(config.DataDir, "agent.lock")),
		server: &http.Server{
			Addr:    config.Addr(),
			Handler: SetupRoutes(config, services),
		},
	}, nil
}

func (s *Server) Start(ctx context.Context) error {
	slog.Info("agent server start", "config", s.config)
	defer slog.Info("agent server stop")

	locked, err := s.lock.TryLock()
	if err != nil {
		return fmt.Errorf("lock data dir: %w", err)
	}
	if !locked {
		return ErrDataDirLocked
	}

	// Workers outlive the signal context so a SIGINT drains the queue
	// instead of aborting mid-session. Stop cancels this after Shutdown.
	runCtx, runCancel := context.WithCancel(context.Background())
	s.runCancel = runCancel

	eg, egCtx := errgroup.WithContext(ctx)

	eg.Go(func() error {
		if err := s.services.Start(runCtx); err != nil {
			return fmt.Errorf("failed to start services: %w", err)
		}
		return nil
	})

	eg.Go(func() error {
		if err := s.runHTTPServer(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		slog.Info("http server stopped")
		return nil
	})

	eg.Go(func() error {
		<-egCtx.Done()
		slog.Info("received interrupt signal, stopping server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		return s.Stop(shutdownCtx)
	})

	if err := eg.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		slog.Error("agent server failure", "error", err)
		return err
	}
	return nil
}

func (s *Server) Stop(ctx context.Context) error {
	if err := s.server.Shutdown(ctx); err != nil {
		slog.Warn("http server shutdown", "error", err)
	}

	if err := s.services.Shutdown(ctx); err != nil {
		slog.Warn("services shutdown", "error", err)
	}

	if s.runCancel != nil {
		s.runCancel()
	}

	if err := s.sqlite.Close(); err != nil {
		return fmt.Errorf("close database: %w", err)
	}

	return s.unlock()
}

func (s *Server) runHTTPServer() error {
	if s.config.HTTP.CertFile != "" && s.config.HTTP.KeyFile != "" {
		slog.Info("server start tls", "addr", s.config.Addr())
		return s.server.ListenAndServeTLS(s.config.HTTP.CertFile, s.config.HTTP.KeyFile)
	}
	slog.Info("server start http", "addr", s.config.Addr())
	return s.server.ListenAndServe()
}

func (s *Server) unlock() error {
	if !s.lock.Locked() {
		return nil
	}
	if err := s.lock.Unlock(); err != nil {
		return fmt.Errorf("unlock data dir: %w", err)
	}
	return os.Remove(s.lock.Path())
}
