//go:build linux

package daemon

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

const systemdServiceName = "toolsappd.service"

func platformServiceName() string {
	return systemdServiceName
}

func platformInstall(ctx context.Context, m *Manager, spec serviceSpec) error {
	unitPath, err := systemdUnitPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(unitPath), 0o755); err != nil {
		return err
	}
	if err := os.WriteFile(unitPath, []byte(renderSystemdUnit(spec)), 0o644); err != nil {
		return err
	}
	if err := systemctl(ctx, m.runner, "daemon-reload"); err != nil {
		return err
	}
	return systemctl(ctx, m.runner, "enable", systemdServiceName)
}

func platformUninstall(ctx context.Context, m *Manager) error {
	unitPath, err := systemdUnitPath()
	if err != nil {
		return err
	}
	if err := requireInstalled(unitPath); err != nil {
		if errors.Is(err, ErrNotInstalled) {
			return nil
		}
		return err
	}
	_ = systemctl(ctx, m.runner, "disable", "--now", systemdServiceName)
	if err := os.Remove(unitPath); err != nil && !os.IsNotExist(err) {
		return err
	}
	return systemctl(ctx, m.runner, "daemon-reload")
}

func platformStart(ctx context.Context, m *Manager) error {
	unitPath, err := systemdUnitPath()
	if err != nil {
		return err
	}
	if err := requireInstalled(unitPath); err != nil {
		return err
	}
	return systemctl(ctx, m.runner, "start", systemdServiceName)
}

func platformStop(ctx context.Context, m *Manager) error {
	unitPath, err := systemdUnitPath()
	if err != nil {
		return err
	}
	if err := requireInstalled(unitPath); err != nil {
		return err
	}
	return systemctl(ctx, m.runner, "stop", systemdServiceName)
}

func platformStatus(ctx context.Context, m *Manager) (bool, bool, error) {
	unitPath, err := systemdUnitPath()
	if err != nil {
		return false, false, err
	}
	if err := requireInstalled(unitPath); err != nil {
		if errors.Is(err, ErrNotInstalled) {
			return false, false, nil
		}
		return false, false, err
	}
	args := []string{"--user", "is-active", systemdServiceName}
	output, exitCode, err := m.runner(ctx, "systemctl", args...)
	switch state := strings.TrimSpace(output); {
	case err == nil && state == "active":
		return true, true, nil
	case exitCode == 3 || state == "inactive" || state == "failed":
		return true, false, nil
	case exitCode == 4 || state == "unknown":
		return false, false, nil
	case err != nil:
		return true, false, formatCommandError("systemctl", args, output, err, exitCode)
	}
	return true, false, nil
}

func systemctl(ctx context.Context, runner CommandRunner, args ...string) error {
	return runCommand(ctx, runner, "systemctl", append([]string{"--user"}, args...)...)
}

func systemdUnitPath() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "systemd", "user", systemdServiceName), nil
}

func renderSystemdUnit(spec serviceSpec) string {
	var b strings.Builder
	b.WriteString("[Unit]\n")
	b.WriteString("Description=toolsapp catalog server\n")
	b.WriteString("After=network.target\n\n")

	b.WriteString("[Service]\n")
	b.WriteString("Type=simple\n")
	b.WriteString("ExecStart=" + escapeSystemdArg(spec.binaryPath))
	for _, arg := range spec.args() {
		b.WriteString(" " + escapeSystemdArg(arg))
	}
	b.WriteString("\n")
	for _, key := range spec.envKeys() {
		b.WriteString("Environment=" + strconv.Quote(key+"="+spec.env[key]) + "\n")
	}
	if spec.logPath != "" {
		b.WriteString("StandardOutput=append:" + spec.logPath + "\n")
		b.WriteString("StandardError=append:" + spec.logPath + "\n")
	}
	b.WriteString("Restart=on-failure\n")
	b.WriteString("RestartSec=2\n\n")

	b.WriteString("[Install]\n")
	b.WriteString("WantedBy=default.target\n")
	return b.String()
}

func escapeSystemdArg(value string) string {
	if value == "" {
		return `""`
	}
	if strings.ContainsAny(value, " \t\n\"\\") {
		return strconv.Quote(value)
	}
	return value
}
