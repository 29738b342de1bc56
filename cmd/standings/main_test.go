package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

const testStandings = `Rank,Player,Rating_Mu,Rating_Sigma,Wins,Draws,Losses,Games,Win_Rate
1,Alice Smith,30.5,1.2,9,0,1,10,0.9
2,Bob,27,2,5,2,3,10,0.5
3,Carol,25,2.5,2,0,8,10,0.2
`

// writeFixture lays out a data directory and config file and returns the
// config path.
func writeFixture(t *testing.T) string {
	t.Helper()
	for _, key := range []string{"STANDINGS_PATH", "PROFILE_DIR", "HTTP_ADDR", "PORT", "WATCH_ENABLED", "LOG_LEVEL", "LOG_FORMAT", "ENV"} {
		t.Setenv(key, "")
	}

	dir := t.TempDir()
	profiles := filepath.Join(dir, "profiles")
	require.NoError(t, os.Mkdir(profiles, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "standings.csv"), []byte(testStandings), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(profiles, "alice_smith.yml"), []byte("model: claude\nstrategy: aggressive\n"), 0o644))

	cfg := "data:\n  standings_path: " + filepath.Join(dir, "standings.csv") +
		"\n  profile_dir: " + profiles + "\nobservability:\n  log_level: error\n"
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(cfg), 0o644))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	app := newCLI()
	app.Writer = &out
	app.ErrWriter = &errOut
	app.ExitErrHandler = func(*cli.Context, error) {}
	err := app.RunContext(context.Background(), append([]string{"standings"}, args...))
	return out.String(), err
}

func TestPrintCommand(t *testing.T) {
	cfg := writeFixture(t)

	out, err := run(t, "--config", cfg, "print", "--sort", "winRate", "--pin", "Carol")
	require.NoError(t, err)
	require.Contains(t, out, "claude")
	require.Contains(t, out, "N/A")

	carol := strings.Index(out, "Carol")
	alice := strings.Index(out, "Alice Smith")
	bob := strings.Index(out, "Bob")
	require.True(t, carol < alice && alice < bob, "pinned first, then by win rate")

	out, err = run(t, "--config", cfg, "print", "--q", "BO")
	require.NoError(t, err)
	require.Contains(t, out, "Bob")
	require.NotContains(t, out, "Alice")

	_, err = run(t, "--config", cfg, "print", "--sort", "height")
	require.Error(t, err)
}

func TestExportCommand(t *testing.T) {
	cfg := writeFixture(t)
	dir := filepath.Join(t.TempDir(), "site")

	out, err := run(t, "--config", cfg, "export", "--out", dir)
	require.NoError(t, err)
	require.Contains(t, out, "Wrote")
	require.FileExists(t, filepath.Join(dir, "index.html"))
	require.FileExists(t, filepath.Join(dir, "players", "alice-smith.html"))
}

func TestWorkbookCommand(t *testing.T) {
	cfg := writeFixture(t)
	path := filepath.Join(t.TempDir(), "out.xlsx")

	out, err := run(t, "--config", cfg, "workbook", "--out", path)
	require.NoError(t, err)
	require.Contains(t, out, "Wrote 3 players")
	require.FileExists(t, path)
}

func TestLoadFailureIsReported(t *testing.T) {
	cfg := writeFixture(t)
	t.Setenv("STANDINGS_PATH", filepath.Join(t.TempDir(), "missing.csv"))

	_, err := run(t, "--config", cfg, "print")
	require.ErrorContains(t, err, "failed to read standings file")
}
