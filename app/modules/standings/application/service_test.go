package standingsservice

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	standingsdomain "github.com/Black-And-White-Club/standings-board/app/modules/standings/domain"
	"github.com/Black-And-White-Club/standings-board/app/modules/standings/infrastructure/parsers"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"
)

const standingsCSV = `Rank,Player,Rating_Mu,Rating_Sigma,Wins,Draws,Losses,Games,Win_Rate
1,Alice,30.5,1.2,8,1,1,10,0.8
2,Bob,28,1.5,6,2,2,10,0.6
`

func newTestService(source StandingsSource, enricher Enricher, metrics Metrics) *StandingsService {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := NewStandingsService(source, parsers.NewFactory(), enricher, logger, noop.NewTracerProvider().Tracer("test"), metrics)
	svc.now = func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) }
	return svc
}

func TestStandingsService_Load(t *testing.T) {
	metrics := &FakeMetrics{}
	enricher := &FakeEnricher{
		EnrichFunc: func(ctx context.Context, players []standingsdomain.Player) ([]standingsdomain.Entry, error) {
			entries := make([]standingsdomain.Entry, len(players))
			for i, p := range players {
				entries[i] = standingsdomain.Entry{Player: p, Profile: standingsdomain.NoProfile()}
			}
			entries[0].Profile = standingsdomain.Profile{Model: "gpt-4", Raw: map[string]any{}}
			return entries, nil
		},
	}
	svc := newTestService(NewFakeSource("standings.csv", standingsCSV), enricher, metrics)

	_, err := svc.Snapshot()
	require.ErrorIs(t, err, ErrNotLoaded)

	snap, err := svc.Load(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, snap.ID)
	require.Equal(t, "standings.csv", snap.Source)
	require.Equal(t, time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC), snap.LoadedAt)
	require.Equal(t, []string{"Alice", "Bob"}, snap.Names())
	require.Equal(t, 1, snap.Matched())

	current, err := svc.Snapshot()
	require.NoError(t, err)
	require.Same(t, snap, current)

	require.Equal(t, []error{nil}, metrics.reloads)
	require.Equal(t, 2, metrics.players)
	require.Equal(t, 1, metrics.matched)
}

func TestStandingsService_FailedReloadKeepsSnapshot(t *testing.T) {
	metrics := &FakeMetrics{}
	source := NewFakeSource("standings.csv", standingsCSV)
	svc := newTestService(source, &FakeEnricher{}, metrics)

	first, err := svc.Load(context.Background())
	require.NoError(t, err)

	source.ReadFunc = func(ctx context.Context) ([]byte, error) {
		return []byte("Rank,Player\n1,Alice,extra\nnot-a-number,Bob\n"), nil
	}
	_, err = svc.Reload(context.Background())
	require.ErrorContains(t, err, "failed to parse standings")

	current, err := svc.Snapshot()
	require.NoError(t, err)
	require.Same(t, first, current)
	require.Len(t, metrics.reloads, 2)
	require.Error(t, metrics.reloads[1])
}

func TestStandingsService_LoadErrors(t *testing.T) {
	readErr := errors.New("disk gone")
	enrichErr := errors.New("context canceled")

	tests := []struct {
		name     string
		source   *FakeSource
		enricher *FakeEnricher
		wantErr  error
		wantText string
	}{
		{
			name: "read failure",
			source: &FakeSource{name: "standings.csv", ReadFunc: func(ctx context.Context) ([]byte, error) {
				return nil, readErr
			}},
			enricher: &FakeEnricher{},
			wantErr:  readErr,
		},
		{
			name:     "unsupported extension",
			source:   NewFakeSource("standings.json", "{}"),
			enricher: &FakeEnricher{},
			wantErr:  parsers.ErrUnsupportedFormat,
		},
		{
			name:     "empty file",
			source:   NewFakeSource("standings.csv", ""),
			enricher: &FakeEnricher{},
			wantErr:  parsers.ErrEmptyStandings,
		},
		{
			name:   "enrich failure",
			source: NewFakeSource("standings.csv", standingsCSV),
			enricher: &FakeEnricher{EnrichFunc: func(ctx context.Context, players []standingsdomain.Player) ([]standingsdomain.Entry, error) {
				return nil, enrichErr
			}},
			wantErr:  enrichErr,
			wantText: "failed to enrich standings",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestService(tt.source, tt.enricher, nil)
			_, err := svc.Load(context.Background())
			require.ErrorIs(t, err, tt.wantErr)
			if tt.wantText != "" {
				require.ErrorContains(t, err, tt.wantText)
			}
			_, err = svc.Snapshot()
			require.ErrorIs(t, err, ErrNotLoaded)
		})
	}
}

func TestStandingsService_SubscribersSeeEachReload(t *testing.T) {
	svc := newTestService(NewFakeSource("standings.csv", standingsCSV), &FakeEnricher{}, nil)

	var seen []string
	svc.Subscribe(func(s *Snapshot) { seen = append(seen, s.ID) })

	first, err := svc.Load(context.Background())
	require.NoError(t, err)
	second, err := svc.Reload(context.Background())
	require.NoError(t, err)

	require.NotEqual(t, first.ID, second.ID)
	require.Equal(t, []string{first.ID, second.ID}, seen)
}

func TestStandingsService_PlayerDetails(t *testing.T) {
	svc := newTestService(NewFakeSource("standings.csv", standingsCSV), &FakeEnricher{}, nil)

	_, err := svc.PlayerDetails(context.Background(), "Alice")
	require.ErrorIs(t, err, ErrNotLoaded)

	_, err = svc.Load(context.Background())
	require.NoError(t, err)

	details, err := svc.PlayerDetails(context.Background(), "Alice")
	require.NoError(t, err)
	require.Equal(t, "Alice — Rank #1", details.Heading)
	require.Equal(t, "30.5 ± 1.2", details.Rating)
	require.Equal(t, "80.0%", details.WinRate)
	require.Equal(t, "8W / 1D / 1L", details.Record)
	require.Empty(t, details.Model)

	_, err = svc.PlayerDetails(context.Background(), "Alcie")
	require.ErrorIs(t, err, ErrPlayerNotFound)
	var notFound *PlayerNotFoundError
	require.ErrorAs(t, err, &notFound)
	require.Equal(t, []string{"Alice"}, notFound.Suggestions)
	require.Contains(t, err.Error(), "did you mean Alice")
}
