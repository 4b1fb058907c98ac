//go:build darwin

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
	calls []string
}

func (r *fakeRunner) Run(_ context.Context, name string, args ...string) (string, int, error) {
	r.calls = append(r.calls, strings.Join(append([]string{name}, args...), " "))
	return "", 1, os.ErrNotExist
}

func TestManagerInstall_WritesPlist(t *testing.T) {
	tempDir := t.TempDir()
	t.Setenv("HOME", tempDir)

	binPath := filepath.Join(tempDir, "toolsappd")
	require.NoError(t, os.WriteFile(binPath, nil, 0o755))

	manager, err := NewManager(Options{
		BinaryPath:    binPath,
		ConfigPath:    filepath.Join(tempDir, "toolsapp.yaml"),
		ListenAddress: "127.0.0.1:8080",
		LogPath:       filepath.Join(tempDir, "toolsappd.log"),
		Env:           map[string]string{"TOOLSAPP_BASE_URL": "https://tools.example.com"},
		Runner:        (&fakeRunner{}).Run,
	})
	require.NoError(t, err)

	status, err := manager.Install(context.Background())
	require.NoError(t, err)
	require.True(t, status.Installed)
	require.False(t, status.Running)

	plistBytes, err := os.ReadFile(filepath.Join(tempDir, "Library", "LaunchAgents", launchdLabel+".plist"))
	require.NoError(t, err)
	plist := string(plistBytes)
	require.Contains(t, plist, "<string>"+binPath+"</string>")
	require.Contains(t, plist, "<string>--listen</string>")
	require.Contains(t, plist, "<key>TOOLSAPP_BASE_URL</key>")
	require.Contains(t, plist, "StandardOutPath")
}

func TestManagerStatus_NotInstalled(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	manager, err := NewManager(Options{Runner: (&fakeRunner{}).Run})
	require.NoError(t, err)

	status, err := manager.Status(context.Background())
	require.NoError(t, err)
	require.False(t, status.Installed)
	require.False(t, status.Running)
}
