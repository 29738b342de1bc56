package standingsexport

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	standingsservice "github.com/Black-And-White-Club/standings-board/app/modules/standings/application"
	standingsdomain "github.com/Black-And-White-Club/standings-board/app/modules/standings/domain"
	"github.com/Black-And-White-Club/standings-board/app/modules/standings/infrastructure/views"
	"github.com/brianvoe/gofakeit/v7"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.opentelemetry.io/otel/trace/noop"
)

func testSnapshot() *standingsservice.Snapshot {
	return &standingsservice.Snapshot{
		ID:       "snap-1",
		LoadedAt: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
		Source:   "final_standings.csv",
		Entries: []standingsdomain.Entry{
			{
				Player: standingsdomain.Player{Rank: 1, Name: "Alice Smith", RatingMu: 30, RatingSigma: 1, Wins: 9, Losses: 1, Games: 10, WinRate: 0.9},
				Profile: standingsdomain.Profile{
					Model:       "openai gpt-4o",
					ModelParams: []standingsdomain.Param{{Key: "temperature", Value: "0.7"}},
					Source:      "Alice_Smith.yaml",
					Raw:         map[string]any{},
				},
			},
			{
				Player:  standingsdomain.Player{Rank: 2, Name: "Bob", RatingMu: 27.5, RatingSigma: 2, Wins: 5, Draws: 2, Losses: 3, Games: 10, WinRate: 0.5},
				Profile: standingsdomain.NoProfile(),
			},
		},
	}
}

func TestSiteExporter_Export(t *testing.T) {
	renderer, err := views.NewRenderer()
	require.NoError(t, err)
	exporter := NewSiteExporter(renderer, slog.New(slog.NewTextHandler(io.Discard, nil)), noop.NewTracerProvider().Tracer("test"))

	dir := filepath.Join(t.TempDir(), "site")
	report, err := exporter.Export(context.Background(), testSnapshot(), dir)
	require.NoError(t, err)

	// 3 orderings + 2 players + 3 charts, per theme, plus stylesheet and JSON.
	require.Len(t, report.Files, 2*(3+2+3)+2)
	for _, rel := range []string{
		"index.html", "by-win-rate.html", "by-mu.html", "index-dark.html",
		"players/alice-smith.html", "players/bob-dark.html",
		"charts/winrate-light.png", "charts/games-dark.png",
		"style.css", "standings.json",
	} {
		require.Contains(t, report.Files, rel)
		require.FileExists(t, filepath.Join(dir, filepath.FromSlash(rel)))
	}

	index, err := os.ReadFile(filepath.Join(dir, "index.html"))
	require.NoError(t, err)
	html := string(index)
	require.Contains(t, html, `href="players/alice-smith.html"`)
	require.Contains(t, html, `src="charts/rating-light.png"`)
	require.Contains(t, html, `href="index-dark.html"`)
	require.NotContains(t, html, `name="q"`, "search needs a server")
	require.NotContains(t, html, "pin-btn")
	require.NotContains(t, html, "EventSource")

	player, err := os.ReadFile(filepath.Join(dir, "players", "alice-smith-dark.html"))
	require.NoError(t, err)
	require.Contains(t, string(player), "Alice Smith — Rank #1")
	require.Contains(t, string(player), `href="../style.css"`)
	require.Contains(t, string(player), `href="../players/alice-smith.html"`)

	png, err := os.ReadFile(filepath.Join(dir, "charts", "games-light.png"))
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(png, []byte("\x89PNG")))

	raw, err := os.ReadFile(filepath.Join(dir, "standings.json"))
	require.NoError(t, err)
	var decoded standingsservice.Snapshot
	require.NoError(t, json.Unmarshal(raw, &decoded))
	require.Equal(t, "snap-1", decoded.ID)
	require.Len(t, decoded.Entries, 2)
}

func TestSiteExporter_ExportCancelled(t *testing.T) {
	renderer, err := views.NewRenderer()
	require.NoError(t, err)
	exporter := NewSiteExporter(renderer, slog.New(slog.NewTextHandler(io.Discard, nil)), noop.NewTracerProvider().Tracer("test"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = exporter.Export(ctx, testSnapshot(), t.TempDir())
	require.ErrorIs(t, err, context.Canceled)
}

func TestWriteWorkbook(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteWorkbook(&buf, testSnapshot().Entries))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	require.Equal(t, []string{StandingsSheet, ParamsSheet}, f.GetSheetList())

	rows, err := f.GetRows(StandingsSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	require.Equal(t, "Player", rows[0][1])
	require.Equal(t, "Alice Smith", rows[1][1])
	require.Equal(t, "openai gpt-4o", rows[1][2])
	require.Equal(t, "N/A", rows[2][2])

	winRate, err := f.GetCellValue(StandingsSheet, "J3", excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	require.Equal(t, "0.5", winRate)

	params, err := f.GetRows(ParamsSheet)
	require.NoError(t, err)
	require.Equal(t, [][]string{{"Player", "Key", "Value"}, {"Alice Smith", "temperature", "0.7"}}, params)
}

func TestWriteWorkbook_NoParamsSheet(t *testing.T) {
	var buf bytes.Buffer
	entries := []standingsdomain.Entry{{
		Player:  standingsdomain.Player{Rank: 1, Name: gofakeit.Name(), Games: 3, Wins: 3, WinRate: 1},
		Profile: standingsdomain.NoProfile(),
	}}
	require.NoError(t, WriteWorkbook(&buf, entries))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()
	require.Equal(t, []string{StandingsSheet}, f.GetSheetList())
}

func TestSaveWorkbook(t *testing.T) {
	path := filepath.Join(t.TempDir(), "standings.xlsx")
	require.NoError(t, SaveWorkbook(path, testSnapshot().Entries))
	require.FileExists(t, path)

	require.Error(t, SaveWorkbook(filepath.Join(t.TempDir(), "missing", "out.xlsx"), nil))
}

func TestRenderTable(t *testing.T) {
	rows := standingsservice.BuildLeaderboard(testSnapshot().Entries, standingsservice.ViewOptions{Pinned: "Bob"})
	out := RenderTable(rows)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Greater(t, len(lines), 4)
	require.Contains(t, out, "Win Rate")
	require.Contains(t, out, "27.5 ± 2")
	require.Contains(t, out, "90.0%")

	bob := strings.Index(out, "Bob")
	alice := strings.Index(out, "Alice Smith")
	require.True(t, bob >= 0 && alice >= 0)
	require.Less(t, bob, alice, "pinned player is listed first")

	require.Equal(t, "No players match.\n", RenderTable(nil))
}
