package main

import (
	"context"
	"errors"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"toolsapp/internal/app"
	"toolsapp/internal/app/toolstore"
	"toolsapp/internal/domain"
)

type cliOptions struct {
	configPath    string
	favoritesPath string
	profile       string
	locale        string
	jsonOutput    bool
	verbose       bool
	logger        *zap.Logger
}

func newRootCommand() *cobra.Command {
	opts := cliOptions{
		configPath: "configs/toolsapp.yaml",
		logger:     zap.NewNop(),
	}

	root := &cobra.Command{
		Use:           "toolsctl",
		Short:         "Query the developer tools catalog from the command line",
		Version:       app.Version + " (" + app.Build + ")",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			applyRootFlagBindings(cmd, &opts)
			if !opts.verbose {
				return nil
			}
			logger, err := app.BuildLogger(app.LoggerOptions{Development: true})
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
	root.PersistentFlags().StringVar(&opts.favoritesPath, "favorites", "", "favorites store path (overrides favorites.path)")
	root.PersistentFlags().StringVar(&opts.profile, "profile", "", "favorites profile")
	root.PersistentFlags().StringVar(&opts.locale, "lang", "", "display locale")
	root.PersistentFlags().BoolVar(&opts.jsonOutput, "json", false, "output JSON")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "log to stderr")

	root.AddCommand(
		newToolsCmd(&opts),
		newCategoriesCmd(&opts),
		newSearchCmd(&opts),
		newSuggestCmd(&opts),
		newMetaCmd(&opts),
		newFavoritesCmd(&opts),
		newValidateCmd(&opts),
		newServiceCmd(&opts),
	)

	return root
}

func applyRootFlagBindings(cmd *cobra.Command, opts *cliOptions) {
	flags := cmd.Flags()
	flags.Visit(func(f *pflag.Flag) {
		switch f.Name {
		case "config":
			opts.configPath, _ = flags.GetString("config")
		case "favorites":
			opts.favoritesPath, _ = flags.GetString("favorites")
		case "profile":
			opts.profile, _ = flags.GetString("profile")
		case "lang":
			opts.locale, _ = flags.GetString("lang")
		case "json":
			opts.jsonOutput, _ = flags.GetBool("json")
		case "verbose":
			opts.verbose, _ = flags.GetBool("verbose")
		}
	})
}

// withOffline opens the catalog for one command and closes it afterwards.
func withOffline(ctx context.Context, opts *cliOptions, fn func(*app.Offline) error) error {
	offline, err := app.OpenOffline(ctx, app.OfflineConfig{
		ConfigPath:    opts.configPath,
		FavoritesPath: opts.favoritesPath,
	}, opts.logger)
	if err != nil {
		return err
	}
	defer offline.Close()
	return fn(offline)
}

// withStore is withOffline for commands that read one profile and locale.
func withStore(ctx context.Context, opts *cliOptions, fn func(*app.Offline, *toolstore.Store) error) error {
	return withOffline(ctx, opts, func(o *app.Offline) error {
		store, err := o.Store(ctx, opts.profile, opts.locale)
		if errors.Is(err, domain.ErrInvalidProfile) {
			return exitWith(2, err.Error())
		}
		if err != nil {
			return err
		}
		return fn(o, store)
	})
}
