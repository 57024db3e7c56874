package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/pe-program/backend/internal/models"
	"github.com/pe-program/backend/internal/router"
	"github.com/pe-program/backend/internal/schedule"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the API server",
		Long: `Run the API server.

Configuration is read from the environment:

  API_URL             public URL of the API, used for links (required)
  PORT                port to listen on (default 8080)
  DATABASE_URL        postgres:// DSN. If unset, SQLite in DATA_DIR is used
  DATA_DIR            directory of the SQLite database (default data)
  SCHEDULE_FILE       poverty schedule YAML, reloaded on change
  SERVER_TIMEOUT      read and write timeout of the server (default 60s)
  CORS_ALLOW_ORIGINS  space separated list of allowed CORS origins
  ENABLE_PPROF        set to true to serve /debug/pprof
  GIN_MODE            debug or release (default release)
  LOG_FORMAT          human or json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd.Context())
		},
	}
}

// dsn returns the database DSN from the environment.
func dsn() (string, error) {
	if dsn, ok := os.LookupEnv("DATABASE_URL"); ok && dsn != "" {
		return dsn, nil
	}

	dataDir := "data"
	if dir, ok := os.LookupEnv("DATA_DIR"); ok && dir != "" {
		dataDir = dir
	}

	err := os.MkdirAll(dataDir, os.ModePerm)
	if err != nil {
		return "", fmt.Errorf("could not create data directory: %w", err)
	}

	return filepath.Join(dataDir, "gorm.db"), nil
}

// apiURL parses the API_URL environment variable.
func apiURL() (*url.URL, error) {
	value, ok := os.LookupEnv("API_URL")
	if !ok || value == "" {
		return nil, errors.New("environment variable API_URL must be set")
	}

	u, err := url.Parse(value)
	if err != nil {
		return nil, fmt.Errorf("environment variable API_URL must be a valid URL: %w", err)
	}

	return u, nil
}

func serverTimeout() (time.Duration, error) {
	value, ok := os.LookupEnv("SERVER_TIMEOUT")
	if !ok || value == "" {
		return 60 * time.Second, nil
	}

	timeout, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid SERVER_TIMEOUT: %w", err)
	}

	return timeout, nil
}

func serve(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	u, err := apiURL()
	if err != nil {
		return err
	}

	timeout, err := serverTimeout()
	if err != nil {
		return err
	}

	dsn, err := dsn()
	if err != nil {
		return err
	}

	err = models.Connect(dsn)
	if err != nil {
		return err
	}

	if path, ok := os.LookupEnv("SCHEDULE_FILE"); ok && path != "" {
		err = schedule.Watch(ctx, path)
		if err != nil {
			return err
		}
	}

	r, teardown, err := router.Config(u)
	defer teardown()
	if err != nil {
		return err
	}
	router.AttachRoutes(r.Group("/"))

	port := "8080"
	if p, ok := os.LookupEnv("PORT"); ok && p != "" {
		port = p
	}

	server := &http.Server{
		Addr:         ":" + port,
		Handler:      r,
		ReadTimeout:  timeout,
		WriteTimeout: timeout,
	}

	errs := make(chan error, 1)
	go func() {
		log.Info().Str("addr", server.Addr).Str("version", router.Version()).Msg("starting server")
		errs <- server.ListenAndServe()
	}()

	select {
	case err := <-errs:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	return server.Shutdown(shutdownCtx)
}
