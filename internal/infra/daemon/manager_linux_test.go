//go:build linux

package daemon

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

type fakeRunner struct {
	calls  []string
	output string
	code   int
}

func (r *fakeRunner) Run(_ context.Context, name string, args ...string) (string, int, error) {
	r.calls = append(r.calls, strings.Join(append([]string{name}, args...), " "))
	return r.output, r.code, nil
}

func fakeBinary(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "toolsappd")
	require.NoError(t, os.WriteFile(path, nil, 0o755))
	return path
}

func TestManagerInstall_WritesUnitAndRunsCommands(t *testing.T) {
	tempDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tempDir)
	bin := fakeBinary(t, tempDir)

	runner := &fakeRunner{output: "inactive", code: 3}
	manager, err := NewManager(Options{
		BinaryPath:    bin,
		ConfigPath:    "/etc/toolsapp/toolsapp.yaml",
		ListenAddress: "127.0.0.1:8080",
		LogPath:       filepath.Join(tempDir, "logs", "toolsappd.log"),
		Env:           map[string]string{"TOOLSAPP_FAVORITES_PATH": "/var/lib/toolsapp/favorites.db"},
		Runner:        runner.Run,
	})
	require.NoError(t, err)

	status, err := manager.Install(context.Background())
	require.NoError(t, err)
	require.True(t, status.Installed)
	require.False(t, status.Running)
	require.Equal(t, systemdServiceName, status.ServiceName)

	unitBytes, err := os.ReadFile(filepath.Join(tempDir, "systemd", "user", systemdServiceName))
	require.NoError(t, err)
	unit := string(unitBytes)
	require.Contains(t, unit, "ExecStart="+bin+" serve --config /etc/toolsapp/toolsapp.yaml --listen 127.0.0.1:8080")
	require.Contains(t, unit, `Environment="TOOLSAPP_FAVORITES_PATH=/var/lib/toolsapp/favorites.db"`)
	require.Contains(t, unit, "StandardOutput=append:"+filepath.Join(tempDir, "logs", "toolsappd.log"))
	require.DirExists(t, filepath.Join(tempDir, "logs"))

	require.GreaterOrEqual(t, len(runner.calls), 2)
	require.Equal(t, "systemctl --user daemon-reload", runner.calls[0])
	require.Equal(t, "systemctl --user enable "+systemdServiceName, runner.calls[1])
}

func TestManagerInstall_MissingBinary(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	manager, err := NewManager(Options{
		BinaryPath: filepath.Join(t.TempDir(), "nope"),
		ConfigPath: "toolsapp.yaml",
		Runner:     (&fakeRunner{}).Run,
	})
	require.NoError(t, err)

	_, err = manager.Install(context.Background())
	require.ErrorIs(t, err, ErrExecutableNotFound)
}

func TestManagerStatus_NotInstalled(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	manager, err := NewManager(Options{Runner: (&fakeRunner{}).Run})
	require.NoError(t, err)

	status, err := manager.Status(context.Background())
	require.NoError(t, err)
	require.False(t, status.Installed)
	require.False(t, status.Running)

	_, err = manager.Start(context.Background())
	require.ErrorIs(t, err, ErrNotInstalled)
}

func TestManagerStatus_Active(t *testing.T) {
	tempDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tempDir)
	unitPath := filepath.Join(tempDir, "systemd", "user", systemdServiceName)
	require.NoError(t, os.MkdirAll(filepath.Dir(unitPath), 0o755))
	require.NoError(t, os.WriteFile(unitPath, []byte("[Unit]\n"), 0o644))

	manager, err := NewManager(Options{Runner: (&fakeRunner{output: "active\n"}).Run})
	require.NoError(t, err)

	status, err := manager.Status(context.Background())
	require.NoError(t, err)
	require.True(t, status.Installed)
	require.True(t, status.Running)
}
