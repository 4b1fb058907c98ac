//go:build darwin

package daemon

import (
	"context"
	"errors"
	"fmt"
	"html"
	"os"
	"path/filepath"
	"strings"
)

const launchdLabel = "app.toolsapp.daemon"

func platformServiceName() string {
	return launchdLabel
}

func platformInstall(_ context.Context, _ *Manager, spec serviceSpec) error {
	plistPath, err := launchdPlistPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(plistPath), 0o755); err != nil {
		return err
	}
	return os.WriteFile(plistPath, []byte(renderLaunchdPlist(spec)), 0o644)
}

func platformUninstall(ctx context.Context, m *Manager) error {
	plistPath, err := launchdPlistPath()
	if err != nil {
		return err
	}
	if err := requireInstalled(plistPath); err != nil {
		if errors.Is(err, ErrNotInstalled) {
			return nil
		}
		return err
	}
	_ = runLaunchctl(ctx, m.runner, "bootout", launchdDomain(), launchdLabel)
	if err := os.Remove(plistPath); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func platformStart(ctx context.Context, m *Manager) error {
	plistPath, err := launchdPlistPath()
	if err != nil {
		return err
	}
	if err := requireInstalled(plistPath); err != nil {
		return err
	}
	if !launchdLoaded(ctx, m.runner) {
		if err := runLaunchctl(ctx, m.runner, "bootstrap", launchdDomain(), plistPath); err != nil {
			return err
		}
	}
	return runLaunchctl(ctx, m.runner, "kickstart", "-k", launchdTarget())
}

func platformStop(ctx context.Context, m *Manager) error {
	plistPath, err := launchdPlistPath()
	if err != nil {
		return err
	}
	if err := requireInstalled(plistPath); err != nil {
		return err
	}
	if err := runLaunchctl(ctx, m.runner, "stop", launchdTarget()); err != nil && !errors.Is(err, ErrNotRunning) {
		return err
	}
	return nil
}

func platformStatus(ctx context.Context, m *Manager) (bool, bool, error) {
	plistPath, err := launchdPlistPath()
	if err != nil {
		return false, false, err
	}
	if err := requireInstalled(plistPath); err != nil {
		if errors.Is(err, ErrNotInstalled) {
			return false, false, nil
		}
		return false, false, err
	}
	output, exitCode, err := m.runner(ctx, "launchctl", "print", launchdTarget())
	if err != nil || exitCode != 0 {
		return true, false, nil
	}
	running := strings.Contains(output, "state = running") || strings.Contains(output, "pid =")
	return true, running, nil
}

func launchdPlistPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, "Library", "LaunchAgents", launchdLabel+".plist"), nil
}

func launchdDomain() string {
	return fmt.Sprintf("gui/%d", os.Getuid())
}

func launchdTarget() string {
	return launchdDomain() + "/" + launchdLabel
}

func launchdLoaded(ctx context.Context, runner CommandRunner) bool {
	output, exitCode, err := runner(ctx, "launchctl", "print", launchdTarget())
	if err != nil || exitCode != 0 {
		return false
	}
	return strings.Contains(output, "service =") || strings.Contains(output, "state =")
}

func renderLaunchdPlist(spec serviceSpec) string {
	var b strings.Builder
	str := func(indent, value string) {
		b.WriteString(indent + "<string>" + html.EscapeString(value) + "</string>\n")
	}
	key := func(indent, value string) {
		b.WriteString(indent + "<key>" + html.EscapeString(value) + "</key>\n")
	}

	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	b.WriteString(`<!DOCTYPE plist PUBLIC "-//Apple//DTD PLIST 1.0//EN" "http://www.apple.com/DTDs/PropertyList-1.0.dtd">` + "\n")
	b.WriteString(`<plist version="1.0">` + "\n")
	b.WriteString("<dict>\n")
	key("  ", "Label")
	str("  ", launchdLabel)
	key("  ", "ProgramArguments")
	b.WriteString("  <array>\n")
	str("    ", spec.binaryPath)
	for _, arg := range spec.args() {
		str("    ", arg)
	}
	b.WriteString("  </array>\n")
	key("  ", "RunAtLoad")
	b.WriteString("  <true/>\n")
	key("  ", "KeepAlive")
	b.WriteString("  <false/>\n")
	if keys := spec.envKeys(); len(keys) > 0 {
		key("  ", "EnvironmentVariables")
		b.WriteString("  <dict>\n")
		for _, name := range keys {
			key("    ", name)
			str("    ", spec.env[name])
		}
		b.WriteString("  </dict>\n")
	}
	if spec.logPath != "" {
		key("  ", "StandardOutPath")
		str("  ", spec.logPath)
		key("  ", "StandardErrorPath")
		str("  ", spec.logPath)
	}
	b.WriteString("</dict>\n")
	b.WriteString("</plist>\n")
	return b.String()
}

func runLaunchctl(ctx context.Context, runner CommandRunner, args ...string) error {
	output, exitCode, err := runner(ctx, "launchctl", args...)
	if err == nil {
		return nil
	}
	if strings.Contains(output, "No such process") {
		return ErrNotRunning
	}
	return formatCommandError("launchctl", args, output, err, exitCode)
}
