package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"toolsapp/internal/infra/daemon"
)

type serviceArgs struct {
	logPath       string
	binaryPath    string
	listenAddress string
}

type serviceAction struct {
	use    string
	short  string
	done   string
	action func(*daemon.Manager, context.Context) (daemon.Status, error)
}

func newServiceCmd(opts *cliOptions) *cobra.Command {
	args := &serviceArgs{}
	cmd := &cobra.Command{
		Use:   "service",
		Short: "Manage toolsappd as a user service",
	}
	cmd.PersistentFlags().StringVar(&args.logPath, "log-file", "", "path to the service log file (optional)")
	cmd.PersistentFlags().StringVar(&args.binaryPath, "binary", "", "path to the toolsappd binary (optional)")
	cmd.PersistentFlags().StringVar(&args.listenAddress, "listen", "", "override http.listenAddress")

	actions := []serviceAction{
		{"install", "Install the service", "installed", (*daemon.Manager).Install},
		{"uninstall", "Remove the service", "uninstalled", (*daemon.Manager).Uninstall},
		{"start", "Start the service", "started", (*daemon.Manager).Start},
		{"stop", "Stop the service", "stopped", (*daemon.Manager).Stop},
		{"status", "Show the service status", "status", (*daemon.Manager).Status},
	}
	for _, action := range actions {
		cmd.AddCommand(newServiceActionCmd(opts, args, action))
	}
	return cmd
}

func newServiceActionCmd(opts *cliOptions, args *serviceArgs, action serviceAction) *cobra.Command {
	return &cobra.Command{
		Use:   action.use,
		Short: action.short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			manager, err := newServiceManager(opts, args)
			if err != nil {
				return err
			}
			status, err := action.action(manager, cmd.Context())
			switch {
			case errors.Is(err, daemon.ErrNotInstalled):
				if fallback, statusErr := manager.Status(cmd.Context()); statusErr == nil {
					status = fallback
				}
				_ = printServiceStatus("not installed", status, opts.jsonOutput)
				return exitSilent(4)
			case errors.Is(err, daemon.ErrUnsupported):
				return exitWith(5, err.Error())
			case err != nil:
				return err
			}
			if err := printServiceStatus(action.done, status, opts.jsonOutput); err != nil {
				return err
			}
			if action.use == "status" && !status.Running {
				return exitSilent(3)
			}
			return nil
		},
	}
}

func newServiceManager(opts *cliOptions, args *serviceArgs) (*daemon.Manager, error) {
	env := map[string]string{}
	if opts.favoritesPath != "" {
		env["TOOLSAPP_FAVORITES_PATH"] = opts.favoritesPath
	}
	return daemon.NewManager(daemon.Options{
		BinaryPath:    args.binaryPath,
		ConfigPath:    opts.configPath,
		ListenAddress: args.listenAddress,
		LogPath:       args.logPath,
		Env:           env,
	})
}

func printServiceStatus(action string, status daemon.Status, jsonOutput bool) error {
	if jsonOutput {
		return writeJSON(map[string]any{
			"action": action,
			"status": status,
		})
	}
	state := "stopped"
	if status.Running {
		state = "running"
	}
	if !status.Installed {
		state = "not installed"
	}
	fmt.Fprintf(stdout, "%s: %s (%s)\n", action, status.ServiceName, state)
	if status.ConfigPath != "" {
		fmt.Fprintf(stdout, "config: %s\n", status.ConfigPath)
	}
	if status.LogPath != "" {
		fmt.Fprintf(stdout, "log: %s\n", status.LogPath)
	}
	return nil
}
