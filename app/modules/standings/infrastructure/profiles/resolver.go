package profiles

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"

	standingsdomain "github.com/Black-And-White-Club/standings-board/app/modules/standings/domain"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gopkg.in/yaml.v3"
)

// Lookup outcomes reported to Metrics, one per Resolve. Invalid means no
// candidate matched and at least one candidate file could not be decoded.
const (
	OutcomeMatched = "matched"
	OutcomeMissing = "missing"
	OutcomeInvalid = "invalid"
)

var errNotMapping = errors.New("profile document is not a mapping")

// Metrics records profile lookup outcomes.
type Metrics interface {
	RecordProfileLookup(outcome string)
}

// Resolver matches players to profile files.
type Resolver struct {
	store   Store
	logger  *slog.Logger
	tracer  trace.Tracer
	metrics Metrics
}

// NewResolver creates a Resolver. metrics may be nil.
func NewResolver(store Store, logger *slog.Logger, tracer trace.Tracer, metrics Metrics) *Resolver {
	return &Resolver{
		store:   store,
		logger:  logger,
		tracer:  tracer,
		metrics: metrics,
	}
}

// Resolve returns the profile of the first attempt that reads and decodes to
// a mapping. When nothing matches it returns NoProfile and a nil error; only
// context cancellation is reported as an error.
func (r *Resolver) Resolve(ctx context.Context, name string) (standingsdomain.Profile, error) {
	ctx, span := r.tracer.Start(ctx, "Resolver.Resolve", trace.WithAttributes(
		attribute.String("player", name),
	))
	defer span.End()

	outcome := OutcomeMissing
	for _, file := range Attempts(name) {
		if err := ctx.Err(); err != nil {
			return standingsdomain.NoProfile(), err
		}

		data, err := r.store.ReadFile(file)
		if err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				r.logger.DebugContext(ctx, "Profile file unreadable",
					slog.String("file", file),
					slog.String("error", err.Error()),
				)
			}
			continue
		}

		doc, err := decode(data)
		if err != nil {
			outcome = OutcomeInvalid
			r.logger.DebugContext(ctx, "Skipping undecodable profile",
				slog.String("player", name),
				slog.String("file", file),
				slog.String("error", err.Error()),
			)
			continue
		}

		profile := Extract(doc)
		profile.Source = file
		span.SetAttributes(attribute.String("profile.file", file))
		r.record(OutcomeMatched)
		return profile, nil
	}

	r.record(outcome)
	return standingsdomain.NoProfile(), nil
}

// Enrich resolves a profile for each player, preserving order.
func (r *Resolver) Enrich(ctx context.Context, players []standingsdomain.Player) ([]standingsdomain.Entry, error) {
	ctx, span := r.tracer.Start(ctx, "Resolver.Enrich", trace.WithAttributes(
		attribute.Int("players", len(players)),
	))
	defer span.End()

	entries := make([]standingsdomain.Entry, 0, len(players))
	matched := 0
	for _, p := range players {
		profile, err := r.Resolve(ctx, p.Name)
		if err != nil {
			return nil, fmt.Errorf("enrich %q: %w", p.Name, err)
		}
		if profile.Matched() {
			matched++
		}
		entries = append(entries, standingsdomain.Entry{Player: p, Profile: profile})
	}

	r.logger.InfoContext(ctx, "Enriched standings with profiles",
		slog.Int("players", len(players)),
		slog.Int("matched", matched),
	)
	return entries, nil
}

func (r *Resolver) record(outcome string) {
	if r.metrics != nil {
		r.metrics.RecordProfileLookup(outcome)
	}
}

func decode(data []byte) (map[string]any, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	m, ok := asMap(doc)
	if !ok {
		return nil, errNotMapping
	}
	return m, nil
}
