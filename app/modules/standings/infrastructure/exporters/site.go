package standingsexport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	standingsservice "github.com/Black-And-White-Club/standings-board/app/modules/standings/application"
	standingsdomain "github.com/Black-And-White-Club/standings-board/app/modules/standings/domain"
	"github.com/Black-And-White-Club/standings-board/app/modules/standings/infrastructure/views"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var themes = []standingsdomain.Theme{standingsdomain.ThemeLight, standingsdomain.ThemeDark}

// SiteReport lists what an export wrote, relative to its directory.
type SiteReport struct {
	Dir   string
	Files []string
}

// SiteExporter writes a snapshot as a browsable static site.
type SiteExporter struct {
	renderer *views.Renderer
	logger   *slog.Logger
	tracer   trace.Tracer
}

// NewSiteExporter creates a new SiteExporter.
func NewSiteExporter(renderer *views.Renderer, logger *slog.Logger, tracer trace.Tracer) *SiteExporter {
	return &SiteExporter{
		renderer: renderer,
		logger:   logger,
		tracer:   tracer,
	}
}

// Export writes one leaderboard page per ordering and theme, one page per
// player and theme, every chart in both themes, the stylesheet and
// standings.json into dir.
func (e *SiteExporter) Export(ctx context.Context, snap *standingsservice.Snapshot, dir string) (*SiteReport, error) {
	ctx, span := e.tracer.Start(ctx, "SiteExporter.Export", trace.WithAttributes(
		attribute.String("dir", dir),
		attribute.Int("players", len(snap.Entries)),
	))
	defer span.End()

	for _, sub := range []string{"", "players", "charts"} {
		if err := os.MkdirAll(filepath.Join(dir, sub), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create export directory: %w", err)
		}
	}

	w := &siteWriter{dir: dir, report: &SiteReport{Dir: dir}}
	slugs := views.Slugs(snap.Names())
	stats := standingsservice.ComputeStats(snap.Entries)

	for _, theme := range themes {
		for _, key := range standingsdomain.SortKeys {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			opts := standingsservice.ViewOptions{Sort: key}
			var buf bytes.Buffer
			err := e.renderer.RenderIndex(&buf, views.IndexPage{
				Theme:      theme,
				Options:    opts,
				Rows:       standingsservice.BuildLeaderboard(snap.Entries, opts),
				Total:      len(snap.Entries),
				SnapshotID: snap.ID,
				LoadedAt:   snap.LoadedAt,
				Charts:     standingsservice.ChartKinds,
				Links:      views.FileLinks{SortKey: key, Theme: theme, Slugs: slugs},
			})
			if err != nil {
				return nil, fmt.Errorf("failed to render %s: %w", views.PageFile(key, theme), err)
			}
			if err := w.write(views.PageFile(key, theme), buf.Bytes()); err != nil {
				return nil, err
			}
		}

		for _, entry := range snap.Entries {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			var buf bytes.Buffer
			err := e.renderer.RenderPlayer(&buf, views.PlayerPage{
				Theme:   theme,
				Details: standingsservice.BuildPlayerDetails(entry),
				Links:   views.FileLinks{Theme: theme, Slugs: slugs, PlayerName: entry.Name, Prefix: "../"},
			})
			if err != nil {
				return nil, fmt.Errorf("failed to render player %q: %w", entry.Name, err)
			}
			rel := filepath.Join("players", views.PlayerFile(slugs[entry.Name], theme))
			if err := w.write(rel, buf.Bytes()); err != nil {
				return nil, err
			}
		}

		for _, kind := range standingsservice.ChartKinds {
			png, err := standingsservice.RenderChart(kind, stats, standingsservice.PaletteFor(theme))
			if err != nil {
				return nil, fmt.Errorf("failed to render %s chart: %w", kind, err)
			}
			if err := w.write(filepath.Join("charts", views.ChartFile(kind, theme)), png); err != nil {
				return nil, err
			}
		}
	}

	css, err := fs.ReadFile(views.Static(), "style.css")
	if err != nil {
		return nil, fmt.Errorf("failed to read stylesheet: %w", err)
	}
	if err := w.write("style.css", css); err != nil {
		return nil, err
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode standings: %w", err)
	}
	if err := w.write("standings.json", data); err != nil {
		return nil, err
	}

	e.logger.InfoContext(ctx, "Exported static site",
		slog.String("dir", dir),
		slog.Int("files", len(w.report.Files)),
		slog.String("snapshot_id", snap.ID),
	)
	return w.report, nil
}

type siteWriter struct {
	dir    string
	report *SiteReport
}

func (w *siteWriter) write(rel string, data []byte) error {
	if err := os.WriteFile(filepath.Join(w.dir, rel), data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", rel, err)
	}
	w.report.Files = append(w.report.Files, filepath.ToSlash(rel))
	return nil
}
