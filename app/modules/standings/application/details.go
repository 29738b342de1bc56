package standingsservice

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	standingsdomain "github.com/Black-And-White-Club/standings-board/app/modules/standings/domain"
	"github.com/agnivade/levenshtein"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const maxSuggestions = 3

// PlayerDetails is the content of the player detail view.
type PlayerDetails struct {
	Heading     string                  `json:"heading"`
	Name        string                  `json:"player"`
	Rank        int                     `json:"rank"`
	Rating      string                  `json:"rating"`
	WinRate     string                  `json:"win_rate"`
	Record      string                  `json:"record"`
	TotalGames  int                     `json:"total_games"`
	Model       string                  `json:"model,omitempty"`
	ModelParams []standingsdomain.Param `json:"model_params,omitempty"`
	Strategy    string                  `json:"strategy,omitempty"`
	Prompt      string                  `json:"prompt,omitempty"`
	Source      string                  `json:"source,omitempty"`
}

// BuildPlayerDetails formats an entry for the detail view. The model is left
// empty when no profile names one.
func BuildPlayerDetails(e standingsdomain.Entry) *PlayerDetails {
	d := &PlayerDetails{
		Heading:     fmt.Sprintf("%s — Rank #%d", e.Name, e.Rank),
		Name:        e.Name,
		Rank:        e.Rank,
		Rating:      e.RatingLabel(),
		WinRate:     e.WinRateLabel(),
		Record:      e.RecordLabel(),
		TotalGames:  e.Games,
		ModelParams: e.Profile.ModelParams,
		Strategy:    e.Profile.Strategy,
		Prompt:      strings.TrimSpace(e.Profile.Prompt),
		Source:      e.Profile.Source,
	}
	if model := e.ModelLabel(); model != standingsdomain.NoModel {
		d.Model = model
	}
	return d
}

// PlayerDetails implements Service.
func (s *StandingsService) PlayerDetails(ctx context.Context, name string) (*PlayerDetails, error) {
	_, span := s.tracer.Start(ctx, "StandingsService.PlayerDetails", trace.WithAttributes(
		attribute.String("player", name),
	))
	defer span.End()

	snap, err := s.Snapshot()
	if err != nil {
		return nil, err
	}

	entry, ok := snap.Find(name)
	if !ok {
		return nil, &PlayerNotFoundError{
			Name:        name,
			Suggestions: Suggest(snap.Names(), name, maxSuggestions),
		}
	}
	return BuildPlayerDetails(entry), nil
}

// Suggest returns up to limit names close to query, closest first. A name
// qualifies when it contains the query or is within a third of the query's
// length in edit distance (at least two edits).
func Suggest(names []string, query string, limit int) []string {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" || limit <= 0 {
		return nil
	}

	maxDistance := utf8.RuneCountInString(q) / 3
	if maxDistance < 2 {
		maxDistance = 2
	}

	type candidate struct {
		name     string
		distance int
	}
	var candidates []candidate
	for _, name := range names {
		lower := strings.ToLower(name)
		d := levenshtein.ComputeDistance(q, lower)
		if d <= maxDistance || strings.Contains(lower, q) {
			candidates = append(candidates, candidate{name: name, distance: d})
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].distance != candidates[j].distance {
			return candidates[i].distance < candidates[j].distance
		}
		return candidates[i].name < candidates[j].name
	})

	if len(candidates) > limit {
		candidates = candidates[:limit]
	}
	out := make([]string, len(candidates))
	for i, c := range candidates {
		out[i] = c.name
	}
	return out
}
