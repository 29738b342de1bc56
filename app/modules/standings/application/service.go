package standingsservice

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Black-And-White-Club/standings-board/app/modules/standings/infrastructure/parsers"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// StandingsService implements the Service interface.
type StandingsService struct {
	source   StandingsSource
	parsers  parsers.ParserFactory
	enricher Enricher
	logger   *slog.Logger
	tracer   trace.Tracer
	metrics  Metrics
	now      func() time.Time

	current atomic.Pointer[Snapshot]

	// loadMu serializes loads so subscribers see snapshots in order.
	loadMu      sync.Mutex
	subMu       sync.RWMutex
	subscribers []func(*Snapshot)
}

// NewStandingsService creates a new StandingsService. metrics may be nil.
func NewStandingsService(
	source StandingsSource,
	factory parsers.ParserFactory,
	enricher Enricher,
	logger *slog.Logger,
	tracer trace.Tracer,
	metrics Metrics,
) *StandingsService {
	if logger == nil {
		logger = slog.Default()
	}
	return &StandingsService{
		source:   source,
		parsers:  factory,
		enricher: enricher,
		logger:   logger,
		tracer:   tracer,
		metrics:  metrics,
		now:      time.Now,
	}
}

// Load implements Service.
func (s *StandingsService) Load(ctx context.Context) (*Snapshot, error) {
	return s.load(ctx, "StandingsService.Load")
}

// Reload implements Service.
func (s *StandingsService) Reload(ctx context.Context) (*Snapshot, error) {
	return s.load(ctx, "StandingsService.Reload")
}

// Snapshot implements Service.
func (s *StandingsService) Snapshot() (*Snapshot, error) {
	snap := s.current.Load()
	if snap == nil {
		return nil, ErrNotLoaded
	}
	return snap, nil
}

// Subscribe implements Service.
func (s *StandingsService) Subscribe(fn func(*Snapshot)) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	s.subscribers = append(s.subscribers, fn)
}

func (s *StandingsService) load(ctx context.Context, operation string) (*Snapshot, error) {
	ctx, span := s.tracer.Start(ctx, operation, trace.WithAttributes(
		attribute.String("source", s.source.Name()),
	))
	defer span.End()

	s.loadMu.Lock()
	defer s.loadMu.Unlock()

	snap, err := s.build(ctx)
	if s.metrics != nil {
		s.metrics.RecordReload(err)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.logger.ErrorContext(ctx, "Failed to load standings",
			slog.String("operation", operation),
			slog.String("source", s.source.Name()),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	s.current.Store(snap)
	matched := snap.Matched()
	if s.metrics != nil {
		s.metrics.SetSnapshotSize(len(snap.Entries), matched)
	}
	span.SetAttributes(
		attribute.String("snapshot.id", snap.ID),
		attribute.Int("players", len(snap.Entries)),
	)
	s.logger.InfoContext(ctx, "Standings loaded",
		slog.String("operation", operation),
		slog.String("snapshot_id", snap.ID),
		slog.Int("players", len(snap.Entries)),
		slog.Int("profiles", matched),
	)

	s.subMu.RLock()
	subscribers := slices.Clone(s.subscribers)
	s.subMu.RUnlock()
	for _, fn := range subscribers {
		fn(snap)
	}
	return snap, nil
}

func (s *StandingsService) build(ctx context.Context) (*Snapshot, error) {
	data, err := s.source.Read(ctx)
	if err != nil {
		return nil, err
	}

	parser, err := s.parsers.GetParser(s.source.Name())
	if err != nil {
		return nil, err
	}

	players, err := parser.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse standings: %w", err)
	}

	entries, err := s.enricher.Enrich(ctx, players)
	if err != nil {
		return nil, fmt.Errorf("failed to enrich standings: %w", err)
	}

	return &Snapshot{
		ID:       uuid.NewString(),
		LoadedAt: s.now().UTC(),
		Source:   s.source.Name(),
		Entries:  entries,
	}, nil
}
