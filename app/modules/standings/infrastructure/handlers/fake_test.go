package standingshandlers

import (
	"context"

	standingsservice "github.com/Black-And-White-Club/standings-board/app/modules/standings/application"
	standingsdomain "github.com/Black-And-White-Club/standings-board/app/modules/standings/domain"
)

// ------------------------
// Fake Standings Service
// ------------------------

type FakeService struct {
	trace []string

	LoadFunc          func(ctx context.Context) (*standingsservice.Snapshot, error)
	ReloadFunc        func(ctx context.Context) (*standingsservice.Snapshot, error)
	SnapshotFunc      func() (*standingsservice.Snapshot, error)
	PlayerDetailsFunc func(ctx context.Context, name string) (*standingsservice.PlayerDetails, error)
	RenderChartFunc   func(ctx context.Context, kind standingsservice.ChartKind, theme standingsdomain.Theme) ([]byte, error)
}

func NewFakeService() *FakeService {
	return &FakeService{trace: []string{}}
}

func (f *FakeService) record(step string) {
	f.trace = append(f.trace, step)
}

func (f *FakeService) Trace() []string {
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

func (f *FakeService) Load(ctx context.Context) (*standingsservice.Snapshot, error) {
	f.record("Load")
	if f.LoadFunc != nil {
		return f.LoadFunc(ctx)
	}
	return nil, standingsservice.ErrNotLoaded
}

func (f *FakeService) Reload(ctx context.Context) (*standingsservice.Snapshot, error) {
	f.record("Reload")
	if f.ReloadFunc != nil {
		return f.ReloadFunc(ctx)
	}
	return nil, standingsservice.ErrNotLoaded
}

func (f *FakeService) Snapshot() (*standingsservice.Snapshot, error) {
	f.record("Snapshot")
	if f.SnapshotFunc != nil {
		return f.SnapshotFunc()
	}
	return nil, standingsservice.ErrNotLoaded
}

func (f *FakeService) PlayerDetails(ctx context.Context, name string) (*standingsservice.PlayerDetails, error) {
	f.record("PlayerDetails")
	if f.PlayerDetailsFunc != nil {
		return f.PlayerDetailsFunc(ctx, name)
	}
	return nil, &standingsservice.PlayerNotFoundError{Name: name}
}

func (f *FakeService) RenderChart(ctx context.Context, kind standingsservice.ChartKind, theme standingsdomain.Theme) ([]byte, error) {
	f.record("RenderChart")
	if f.RenderChartFunc != nil {
		return f.RenderChartFunc(ctx, kind, theme)
	}
	return []byte("png"), nil
}

func (f *FakeService) Subscribe(fn func(*standingsservice.Snapshot)) {
	f.record("Subscribe")
}

// ------------------------
// Fake Request Recorder
// ------------------------

type FakeRecorder struct {
	routes   []string
	statuses []int
}

func (f *FakeRecorder) RecordHTTPRequest(route string, status int) {
	f.routes = append(f.routes, route)
	f.statuses = append(f.statuses, status)
}

// Interface assertions
var (
	_ standingsservice.Service = (*FakeService)(nil)
	_ RequestRecorder          = (*FakeRecorder)(nil)
)
