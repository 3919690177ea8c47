package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/glossalab/glossa"
	"github.com/glossalab/glossa/infrastructure/api"
	"github.com/glossalab/glossa/infrastructure/source"
	"github.com/glossalab/glossa/internal/config"
	"github.com/glossalab/glossa/internal/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

func serveCmd() *cobra.Command {
	var (
		envFile  string
		host     string
		port     int
		theme    string
		textFile string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the annotation server",
		Long: `Start the web UI and HTTP API server.

Configuration is loaded in the following order (later sources override earlier):
  1. Default values
  2. .env file (if --env-file specified or .env exists in current directory)
  3. Environment variables
  4. Command line flags

Environment variables:
  HOST              Server host to bind to (default: 0.0.0.0)
  PORT              Server port to listen on (default: 8080)
  LOG_LEVEL         Log level: DEBUG, INFO, WARN, ERROR (default: INFO)
  LOG_FORMAT        Log format: pretty, json (default: pretty)
  THEME             Presentation theme (default: plain)
  TEXT_FILE         Text or PDF file preloaded into the session
  API_KEYS          Comma-separated list of valid API keys. When set,
                    mutating API calls require one; the embedded web UI
                    is meant for keyless local runs.

  NOTE_*            Note suggestion AI service configuration
    BASE_URL        Base URL (e.g., https://api.openai.com/v1)
    MODEL           Model identifier (e.g., gpt-4o-mini)
    API_KEY         API key for authentication
    TIMEOUT         Request timeout in seconds (default: 30)
    MAX_RETRIES     Retry attempts (default: 2)
    MAX_TOKENS      Token limit per suggestion (default: 120)`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(envFile, host, port, theme, textFile)
		},
	}

	cmd.Flags().StringVar(&envFile, "env-file", "", "Path to .env file (default: .env in current directory)")
	cmd.Flags().StringVar(&host, "host", "", "Server host to bind to (default: 0.0.0.0)")
	cmd.Flags().IntVar(&port, "port", 0, "Server port to listen on (default: 8080)")
	cmd.Flags().StringVar(&theme, "theme", "", "Presentation theme (default: plain)")
	cmd.Flags().StringVar(&textFile, "file", "", "Text or PDF file to preload into the session")

	return cmd
}

func runServe(envFile, host string, port int, theme, textFile string) error {
	cfg, err := loadConfig(envFile)
	if err != nil {
		return err
	}

	// Apply command line overrides (flags take precedence over env vars)
	cfg = applyServeOverrides(cfg, host, port, theme, textFile)

	addr := cfg.Addr()

	logger := log.Configure(cfg)
	slogger := logger.Slog()

	attrs := append([]slog.Attr{slog.String("version", version)}, cfg.LogAttrs()...)
	slogger.LogAttrs(context.Background(), slog.LevelInfo, "starting glossa", attrs...)

	client, err := glossa.New(
		glossa.WithConfig(cfg),
		glossa.WithLogger(slogger),
	)
	if err != nil {
		return fmt.Errorf("create glossa client: %w", err)
	}
	defer func() {
		if err := client.Close(); err != nil {
			slogger.Error("failed to close glossa client", slog.Any("error", err))
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if path := cfg.TextFile(); path != "" {
		if err := client.SetTextFrom(ctx, source.FromFile(path)); err != nil {
			return fmt.Errorf("preload text: %w", err)
		}
		slogger.Info("text preloaded", slog.String("path", path))
	}

	// Create API server with the client's session
	apiServer := api.NewAPIServer(client, cfg.APIKeys())
	router := apiServer.Router()
	apiServer.MountRoutes()

	// Health check endpoints
	router.Get("/health", healthHandler)
	router.Get("/healthz", healthHandler)

	// Documentation routes
	docsRouter := apiServer.DocsRouter("/docs/openapi.json")
	router.Mount("/docs", docsRouter.Routes())

	// Web views at the root; API and docs paths take precedence.
	webRouter, err := api.NewWebRouter(client)
	if err != nil {
		return fmt.Errorf("create web router: %w", err)
	}
	router.Mount("/", webRouter.Routes())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	// Create standalone server for custom router
	server := api.NewServer(addr, slogger)
	server.Router().Mount("/", router)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return apiServer.Hub().Run(ctx)
	})
	g.Go(func() error {
		slogger.Info("starting server", slog.String("addr", addr))
		return server.Start()
	})
	g.Go(func() error {
		select {
		case <-sigChan:
			slogger.Info("shutting down server")
		case <-ctx.Done():
		}
		cancel()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer shutdownCancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

func healthHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"healthy"}`))
}

// applyServeOverrides applies command line flag overrides to the config.
func applyServeOverrides(cfg config.AppConfig, host string, port int, theme, textFile string) config.AppConfig {
	var opts []config.AppConfigOption

	if host != "" {
		opts = append(opts, config.WithHost(host))
	}
	if port != 0 {
		opts = append(opts, config.WithPort(port))
	}
	if theme != "" {
		opts = append(opts, config.WithTheme(theme))
	}
	if textFile != "" {
		opts = append(opts, config.WithTextFile(textFile))
	}

	return cfg.Apply(opts...)
}
