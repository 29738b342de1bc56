package standingsservice

import (
	"context"
	"sync"

	standingsdomain "github.com/Black-And-White-Club/standings-board/app/modules/standings/domain"
)

// ------------------------
// Fake Standings Source
// ------------------------

type FakeSource struct {
	name     string
	ReadFunc func(ctx context.Context) ([]byte, error)
	reads    int
}

func NewFakeSource(name, body string) *FakeSource {
	return &FakeSource{
		name: name,
		ReadFunc: func(ctx context.Context) ([]byte, error) {
			return []byte(body), nil
		},
	}
}

func (f *FakeSource) Name() string { return f.name }

func (f *FakeSource) Read(ctx context.Context) ([]byte, error) {
	f.reads++
	return f.ReadFunc(ctx)
}

// ------------------------
// Fake Enricher
// ------------------------

type FakeEnricher struct {
	EnrichFunc func(ctx context.Context, players []standingsdomain.Player) ([]standingsdomain.Entry, error)
}

func (f *FakeEnricher) Enrich(ctx context.Context, players []standingsdomain.Player) ([]standingsdomain.Entry, error) {
	if f.EnrichFunc != nil {
		return f.EnrichFunc(ctx, players)
	}
	entries := make([]standingsdomain.Entry, len(players))
	for i, p := range players {
		entries[i] = standingsdomain.Entry{Player: p, Profile: standingsdomain.NoProfile()}
	}
	return entries, nil
}

// ------------------------
// Fake Metrics
// ------------------------

type FakeMetrics struct {
	mu      sync.Mutex
	reloads []error
	players int
	matched int
	renders []string
}

func (f *FakeMetrics) RecordReload(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reloads = append(f.reloads, err)
}

func (f *FakeMetrics) SetSnapshotSize(players, matched int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.players, f.matched = players, matched
}

func (f *FakeMetrics) RecordChartRender(kind, theme string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.renders = append(f.renders, kind+"/"+theme)
}

// Interface assertions
var (
	_ StandingsSource = (*FakeSource)(nil)
	_ Enricher        = (*FakeEnricher)(nil)
	_ Metrics         = (*FakeMetrics)(nil)
	_ Service         = (*StandingsService)(nil)
)
