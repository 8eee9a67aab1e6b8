package cli

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/inkdash/internal/core/services"
)

// testEnv is a config directory with a dashboard that needs no network.
type testEnv struct {
	dir      string
	dataDir  string
	pngPath  string
	watchDir string
}

func newTestEnv(t *testing.T, extra string) *testEnv {
	t.Helper()
	dir := t.TempDir()
	env := &testEnv{
		dir:      dir,
		dataDir:  filepath.Join(dir, "data"),
		pngPath:  filepath.Join(dir, "out", "frame.png"),
		watchDir: filepath.Join(dir, "presses"),
	}
	cfg := fmt.Sprintf(`[dashboard]
default_screen = "system"
data_dir = %q
render_backoff = "1s"
render_timeout = "10s"

[display]
driver = "png"
png_path = %q

[buttons]
driver = "none"
watch_dir = %q
debounce = "0s"

[screens.artwork]
enabled = false

[screens.quotes]
enabled = false

[screens.weather]
enabled = false
%s`, env.dataDir, env.pngPath, env.watchDir, extra)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(cfg), 0o600))
	return env
}

// execute runs the root command with args and captures its output.
func execute(t *testing.T, ctx context.Context, args ...string) (string, error) {
	t.Helper()
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		configDir = ""
		verbose = false
		snapshotOut = ""
		historyLimit = services.DefaultHistoryLimit
		historySessions = false
		runDisplay, runButtons, runScreen = "", "", ""
		for _, c := range rootCmd.Commands() {
			c.SetContext(nil)
		}
	})

	err := rootCmd.ExecuteContext(ctx)
	return buf.String(), err
}
