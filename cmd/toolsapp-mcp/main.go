package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"toolsapp/internal/app"
	"toolsapp/internal/domain"
	"toolsapp/internal/infra/mcpserver"
)

type mcpOptions struct {
	configPath    string
	favoritesPath string
	profile       string
	logLevel      string
}

func main() {
	opts := mcpOptions{configPath: "configs/toolsapp.yaml"}

	root := &cobra.Command{
		Use:          "toolsapp-mcp",
		Short:        "MCP stdio server exposing catalog search and suggestions",
		Version:      app.Version + " (" + app.Build + ")",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), opts)
		},
	}
	root.Flags().StringVar(&opts.configPath, "config", opts.configPath, "path to config file")
	root.Flags().StringVar(&opts.favoritesPath, "favorites", "", "favorites store path (overrides favorites.path)")
	root.Flags().StringVar(&opts.profile, "profile", "", "favorites profile")
	root.Flags().StringVar(&opts.logLevel, "log-level", "warn", "log level; logs go to stderr")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}

func run(parent context.Context, opts mcpOptions) error {
	if parent == nil {
		parent = context.Background()
	}
	if opts.profile != "" {
		if err := domain.ValidateProfileName(opts.profile); err != nil {
			return err
		}
	}
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// stdout carries the protocol; production config logs to stderr.
	logger, err := app.BuildLogger(app.LoggerOptions{Level: opts.logLevel})
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	offline, err := app.OpenOffline(ctx, app.OfflineConfig{
		ConfigPath:    opts.configPath,
		FavoritesPath: opts.favoritesPath,
	}, logger)
	if err != nil {
		return err
	}
	defer offline.Close()

	server, err := mcpserver.NewServer(
		app.NewMCPStoreFunc(offline.Registry, opts.profile),
		offline.Suggester,
		offline.Builder,
		mcpserver.Options{Name: "toolsapp", Version: app.Version},
		logger,
	)
	if err != nil {
		return err
	}
	logger.Info("mcp server starting", zap.String("config", opts.configPath))
	return mcpserver.Run(ctx, server)
}
