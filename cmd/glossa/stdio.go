package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/glossalab/glossa"
	"github.com/glossalab/glossa/infrastructure/source"
	"github.com/glossalab/glossa/internal/log"
	"github.com/glossalab/glossa/internal/mcp"
	"github.com/spf13/cobra"
)

func stdioCmd() *cobra.Command {
	var envFile string

	cmd := &cobra.Command{
		Use:   "stdio",
		Short: "Start MCP server on stdio",
		Long: `Start the MCP (Model Context Protocol) server on stdio.

This lets AI assistants drive the annotation session: set the text,
manage highlights, and run the quiz. Configuration is loaded from
environment variables and .env file.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStdio(envFile)
		},
	}

	cmd.Flags().StringVar(&envFile, "env-file", "", "Path to .env file")

	return cmd
}

func runStdio(envFile string) error {
	cfg, err := loadConfig(envFile)
	if err != nil {
		return err
	}

	// Log to stderr; stdout carries the MCP protocol.
	logger := log.NewLoggerWithWriter(os.Stderr, cfg.LogFormat(), cfg.LogLevel())
	slogger := logger.Slog()

	slogger.Info("starting MCP server", slog.String("version", version))

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

	if path := cfg.TextFile(); path != "" {
		if err := client.SetTextFrom(context.Background(), source.FromFile(path)); err != nil {
			return fmt.Errorf("preload text: %w", err)
		}
		slogger.Info("text preloaded", slog.String("path", path))
	}

	mcpServer := mcp.NewServer(client, nil, version, slogger)

	return mcpServer.ServeStdio()
}
