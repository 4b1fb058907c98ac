package daemon

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
)

var (
	ErrNotInstalled       = errors.New("service not installed")
	ErrNotRunning         = errors.New("service not running")
	ErrUnsupported        = errors.New("service manager unsupported")
	ErrExecutableNotFound = errors.New("toolsappd executable not found")
)

const defaultBinaryName = "toolsappd"

// Status reports the user-level service that runs toolsappd.
type Status struct {
	Installed     bool   `json:"installed"`
	Running       bool   `json:"running"`
	ServiceName   string `json:"serviceName"`
	ConfigPath    string `json:"configPath,omitempty"`
	ListenAddress string `json:"listenAddress,omitempty"`
	LogPath       string `json:"logPath,omitempty"`
}

type Options struct {
	BinaryPath    string
	ConfigPath    string
	ListenAddress string
	LogPath       string
	// Env is exported into the service environment, e.g. to fill ${VAR}
	// references of the config file.
	Env    map[string]string
	Runner CommandRunner
}

type CommandRunner func(ctx context.Context, name string, args ...string) (string, int, error)

// Manager installs and controls toolsappd as a systemd user unit on Linux or
// a launchd agent on macOS.
type Manager struct {
	binaryPath    string
	configPath    string
	listenAddress string
	logPath       string
	env           map[string]string
	runner        CommandRunner
}

// serviceSpec is what gets rendered into the unit or plist.
type serviceSpec struct {
	binaryPath    string
	configPath    string
	listenAddress string
	logPath       string
	env           map[string]string
}

func (s serviceSpec) args() []string {
	args := []string{"serve", "--config", s.configPath}
	if s.listenAddress != "" {
		args = append(args, "--listen", s.listenAddress)
	}
	return args
}

// envKeys returns the environment keys in a stable order.
func (s serviceSpec) envKeys() []string {
	keys := make([]string, 0, len(s.env))
	for key := range s.env {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func NewManager(opts Options) (*Manager, error) {
	configPath, err := normalizePath(opts.ConfigPath)
	if err != nil {
		return nil, err
	}
	logPath, err := normalizePath(opts.LogPath)
	if err != nil {
		return nil, err
	}
	runner := opts.Runner
	if runner == nil {
		runner = execCommand
	}
	env := make(map[string]string, len(opts.Env))
	for key, val := range opts.Env {
		if key = strings.TrimSpace(key); key != "" {
			env[key] = val
		}
	}
	return &Manager{
		binaryPath:    strings.TrimSpace(opts.BinaryPath),
		configPath:    configPath,
		listenAddress: strings.TrimSpace(opts.ListenAddress),
		logPath:       logPath,
		env:           env,
		runner:        runner,
	}, nil
}

func (m *Manager) Install(ctx context.Context) (Status, error) {
	spec, err := m.spec()
	if err != nil {
		return Status{}, err
	}
	if err := platformInstall(ctx, m, spec); err != nil {
		return Status{}, err
	}
	return m.status(ctx)
}

func (m *Manager) Uninstall(ctx context.Context) (Status, error) {
	if err := platformUninstall(ctx, m); err != nil {
		return Status{}, err
	}
	return m.status(ctx)
}

func (m *Manager) Start(ctx context.Context) (Status, error) {
	if err := platformStart(ctx, m); err != nil {
		return Status{}, err
	}
	return m.status(ctx)
}

func (m *Manager) Stop(ctx context.Context) (Status, error) {
	if err := platformStop(ctx, m); err != nil {
		return Status{}, err
	}
	return m.status(ctx)
}

func (m *Manager) Status(ctx context.Context) (Status, error) {
	return m.status(ctx)
}

func (m *Manager) status(ctx context.Context) (Status, error) {
	installed, running, err := platformStatus(ctx, m)
	if err != nil {
		return Status{}, err
	}
	return Status{
		Installed:     installed,
		Running:       running,
		ServiceName:   platformServiceName(),
		ConfigPath:    m.configPath,
		ListenAddress: m.listenAddress,
		LogPath:       m.logPath,
	}, nil
}

func (m *Manager) spec() (serviceSpec, error) {
	if m.configPath == "" {
		return serviceSpec{}, errors.New("config path is required")
	}
	binaryPath, err := resolveBinaryPath(m.binaryPath)
	if err != nil {
		return serviceSpec{}, err
	}
	if err := ensureLogDir(m.logPath); err != nil {
		return serviceSpec{}, err
	}
	return serviceSpec{
		binaryPath:    binaryPath,
		configPath:    m.configPath,
		listenAddress: m.listenAddress,
		logPath:       m.logPath,
		env:           m.env,
	}, nil
}

func normalizePath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", nil
	}
	return filepath.Abs(filepath.Clean(trimmed))
}

func ensureLogDir(path string) error {
	if path == "" {
		return nil
	}
	return os.MkdirAll(filepath.Dir(path), 0o755)
}

// resolveBinaryPath looks for the daemon as given, on PATH, then next to the
// running executable.
func resolveBinaryPath(path string) (string, error) {
	name := strings.TrimSpace(path)
	if name == "" {
		name = defaultBinaryName
	}
	if isFile(name) {
		return filepath.Abs(name)
	}
	if resolved, err := exec.LookPath(name); err == nil {
		return resolved, nil
	}
	if execPath, err := os.Executable(); err == nil {
		candidate := filepath.Join(filepath.Dir(execPath), filepath.Base(name))
		if isFile(candidate) {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrExecutableNotFound, name)
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func execCommand(ctx context.Context, name string, args ...string) (string, int, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	output, err := cmd.CombinedOutput()
	exitCode := 0
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			exitCode = exitErr.ExitCode()
		} else {
			exitCode = -1
		}
	}
	return string(output), exitCode, err
}

func runCommand(ctx context.Context, runner CommandRunner, name string, args ...string) error {
	output, exitCode, err := runner(ctx, name, args...)
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) {
		return err
	}
	return formatCommandError(name, args, output, err, exitCode)
}

func formatCommandError(name string, args []string, output string, err error, exitCode int) error {
	cmdline := strings.Join(append([]string{name}, args...), " ")
	if output = strings.TrimSpace(output); output != "" {
		return fmt.Errorf("%s failed (exit=%d): %s", cmdline, exitCode, output)
	}
	return fmt.Errorf("%s failed: %w", cmdline, err)
}

// requireInstalled returns ErrNotInstalled when the service file is missing.
func requireInstalled(path string) error {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return ErrNotInstalled
		}
		return err
	}
	return nil
}
