package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"toolsapp/internal/app"
)

type serveOptions struct {
	configPath    string
	listenAddress string
	watch         bool
	metrics       bool
	healthz       bool
	logLevel      string
	development   bool
	logger        *zap.Logger
}

func main() {
	opts := &serveOptions{
		configPath: "configs/toolsapp.yaml",
		logger:     zap.NewNop(),
	}
	root := newRootCmd(opts)
	if err := root.Execute(); err != nil {
		opts.logger.Error("command failed", zap.Error(err))
		os.Exit(1)
	}
}

func newRootCmd(opts *serveOptions) *cobra.Command {
	root := &cobra.Command{
		Use:          "toolsappd",
		Short:        "Developer tools catalog daemon",
		Version:      app.Version + " (" + app.Build + ")",
		SilenceUsage: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			logger, err := app.BuildLogger(app.LoggerOptions{
				Level:       opts.logLevel,
				Development: opts.development,
			})
			if err != nil {
				return err
			}
			opts.logger = logger
			return nil
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			_ = opts.logger.Sync()
		},
	}

	root.PersistentFlags().StringVar(&opts.configPath, "config", opts.configPath, "path to config file")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	root.PersistentFlags().BoolVar(&opts.development, "dev", false, "human readable development logging")

	root.AddCommand(
		newServeCmd(opts),
		newValidateCmd(opts),
	)

	return root
}

func newServeCmd(opts *serveOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the catalog API and the app shell",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signalAwareContext(cmd.Context())
			defer cancel()

			cfg := app.ServeConfig{
				ConfigPath:    opts.configPath,
				ListenAddress: opts.listenAddress,
				Watch:         opts.watch,
			}
			observability := &app.ObservabilityOptions{}
			if cmd.Flags().Changed("metrics") {
				observability.MetricsEnabled = &opts.metrics
			}
			if cmd.Flags().Changed("healthz") {
				observability.HealthzEnabled = &opts.healthz
			}
			cfg.Observability = observability

			return app.New(opts.logger).Serve(ctx, cfg)
		},
	}

	cmd.Flags().StringVar(&opts.listenAddress, "listen", "", "API listen address (overrides http.listenAddress)")
	cmd.Flags().BoolVar(&opts.watch, "watch", false, "reload the catalog when the config or a locale bundle changes")
	cmd.Flags().BoolVar(&opts.metrics, "metrics", true, "serve /metrics")
	cmd.Flags().BoolVar(&opts.healthz, "healthz", true, "serve /healthz")

	return cmd
}

func newValidateCmd(opts *serveOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate the config file and locale bundles",
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.New(opts.logger).ValidateConfig(cmd.Context(), app.ValidateConfig{
				ConfigPath: opts.configPath,
			})
		},
	}

	return cmd
}

func signalAwareContext(parent context.Context) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithCancel(parent)

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		defer signal.Stop(signals)
		select {
		case <-signals:
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, cancel
}
