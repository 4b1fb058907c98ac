package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"toolsapp/internal/app"
	"toolsapp/internal/app/toolstore"
	"toolsapp/internal/domain"
	"toolsapp/internal/infra/search"
	"toolsapp/internal/infra/seo"
	"toolsapp/internal/infra/suggest"
)

func newToolsCmd(opts *cliOptions) *cobra.Command {
	var onlyNew bool
	cmd := &cobra.Command{
		Use:   "tools",
		Short: "List the catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withStore(cmd.Context(), opts, func(_ *app.Offline, store *toolstore.Store) error {
				if onlyNew {
					return printTools(store.NewTools(), opts.jsonOutput)
				}
				return printTools(store.Tools(), opts.jsonOutput)
			})
		},
	}
	cmd.Flags().BoolVar(&onlyNew, "new", false, "only tools flagged as new")
	return cmd
}

func newCategoriesCmd(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List tools grouped by category",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withStore(cmd.Context(), opts, func(_ *app.Offline, store *toolstore.Store) error {
				return printCategories(store.ToolsByCategory(), opts.jsonOutput)
			})
		},
	}
}

func newSearchCmd(opts *cliOptions) *cobra.Command {
	var (
		limit int
		all   bool
	)
	cmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Fuzzy search the catalog",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if limit < 0 {
				return exitWith(2, "--limit must be >= 0")
			}
			query := ""
			if len(args) == 1 {
				query = args[0]
			}
			return withStore(cmd.Context(), opts, func(_ *app.Offline, store *toolstore.Store) error {
				results := store.Search(search.Query{
					Text:        query,
					FilterEmpty: !all,
					Limit:       limit,
				})
				if len(results) == 0 && !opts.jsonOutput {
					return exitSilent(1)
				}
				return printTools(results, opts.jsonOutput)
			})
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum number of results (0 = no limit)")
	cmd.Flags().BoolVar(&all, "all", false, "an empty query returns the whole catalog")
	return cmd
}

func newSuggestCmd(opts *cliOptions) *cobra.Command {
	var exclude string
	cmd := &cobra.Command{
		Use:   "suggest [content|-]",
		Short: "Suggest tools for a piece of content; - reads stdin",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			content := args[0]
			if content == "-" {
				data, err := io.ReadAll(os.Stdin)
				if err != nil {
					return fmt.Errorf("read stdin: %w", err)
				}
				content = string(data)
			}
			return withStore(cmd.Context(), opts, func(o *app.Offline, store *toolstore.Store) error {
				suggestions := o.Suggester.Analyze(content, exclude, store)
				return printSuggestions(suggestions, suggest.HighConfidence(suggestions), opts.jsonOutput)
			})
		},
	}
	cmd.Flags().StringVar(&exclude, "exclude", "", "path of the current tool, never suggested")
	return cmd
}

func newMetaCmd(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "meta <route>",
		Short: "Show the page metadata rendered for a route",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd.Context(), opts, func(o *app.Offline, store *toolstore.Store) error {
				return printMeta(seo.Resolve(o.Builder, store, args[0]), opts.jsonOutput)
			})
		},
	}
}

func newFavoritesCmd(opts *cliOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "favorites",
		Short: "Manage favorite tools",
	}

	show := func(store *toolstore.Store) error {
		return printFavorites(store.Profile(), store.FavoriteEntries(), store.FavoriteTools(), opts.jsonOutput)
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List favorites",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return withStore(cmd.Context(), opts, func(_ *app.Offline, store *toolstore.Store) error {
					return show(store)
				})
			},
		},
		&cobra.Command{
			Use:   "add <path>...",
			Short: "Add tools to favorites",
			Args:  cobra.MinimumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return withStore(cmd.Context(), opts, func(_ *app.Offline, store *toolstore.Store) error {
					tools, err := resolveTools(store, args)
					if err != nil {
						return err
					}
					for _, tool := range tools {
						store.AddToolToFavorites(tool)
					}
					return show(store)
				})
			},
		},
		&cobra.Command{
			Use:   "remove <path>...",
			Short: "Remove tools from favorites",
			Args:  cobra.MinimumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return withStore(cmd.Context(), opts, func(_ *app.Offline, store *toolstore.Store) error {
					tools, err := resolveTools(store, args)
					if err != nil {
						return err
					}
					for _, tool := range tools {
						store.RemoveToolFromFavorites(tool)
					}
					return show(store)
				})
			},
		},
		&cobra.Command{
			Use:   "reorder <path>...",
			Short: "Replace favorites with the given tools, in order",
			Args:  cobra.ArbitraryArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return withStore(cmd.Context(), opts, func(_ *app.Offline, store *toolstore.Store) error {
					tools, err := resolveTools(store, args)
					if err != nil {
						return err
					}
					store.UpdateFavoriteTools(tools)
					return show(store)
				})
			},
		},
	)
	return cmd
}

func newValidateCmd(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate the config file and locale bundles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := app.New(opts.logger).ValidateConfig(cmd.Context(), app.ValidateConfig{ConfigPath: opts.configPath}); err != nil {
				return exitWith(2, err.Error())
			}
			if !opts.jsonOutput {
				fmt.Fprintln(stdout, "ok")
				return nil
			}
			return writeJSON(map[string]any{"valid": true})
		},
	}
}

func resolveTools(store domain.ToolLookup, paths []string) ([]domain.Tool, error) {
	tools := make([]domain.Tool, 0, len(paths))
	for _, path := range paths {
		if !strings.HasPrefix(path, "/") {
			path = "/" + path
		}
		tool, ok := store.ToolByPath(path)
		if !ok {
			return nil, exitWith(3, fmt.Sprintf("unknown tool %s", path))
		}
		tools = append(tools, tool)
	}
	return tools, nil
}
