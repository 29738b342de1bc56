package standingsservice

import (
	"context"

	standingsdomain "github.com/Black-And-White-Club/standings-board/app/modules/standings/domain"
)

// Service defines the contract for standings operations.
type Service interface {
	// Load performs the initial read of the standings and profiles.
	Load(ctx context.Context) (*Snapshot, error)
	// Reload re-reads everything. On failure the previous snapshot stays live.
	Reload(ctx context.Context) (*Snapshot, error)
	// Snapshot returns the current snapshot or ErrNotLoaded.
	Snapshot() (*Snapshot, error)

	PlayerDetails(ctx context.Context, name string) (*PlayerDetails, error)
	RenderChart(ctx context.Context, kind ChartKind, theme standingsdomain.Theme) ([]byte, error)

	// Subscribe registers fn to be called after every successful (re)load.
	Subscribe(fn func(*Snapshot))
}

// StandingsSource supplies the raw standings file.
type StandingsSource interface {
	// Name is the file name; its extension selects the parser.
	Name() string
	Read(ctx context.Context) ([]byte, error)
}

// Enricher attaches profiles to parsed players.
type Enricher interface {
	Enrich(ctx context.Context, players []standingsdomain.Player) ([]standingsdomain.Entry, error)
}

// Metrics is the subset of the metrics bundle the service reports to.
type Metrics interface {
	RecordReload(err error)
	SetSnapshotSize(players, matched int)
	RecordChartRender(kind, theme string)
}
