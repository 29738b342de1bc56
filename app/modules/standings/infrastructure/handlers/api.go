package standingshandlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	standingsservice "github.com/Black-And-White-Club/standings-board/app/modules/standings/application"
	standingsdomain "github.com/Black-And-White-Club/standings-board/app/modules/standings/domain"
)

// StandingsResponse is the body of GET /api/standings.
type StandingsResponse struct {
	SnapshotID string                  `json:"snapshot_id"`
	LoadedAt   time.Time               `json:"loaded_at"`
	Sort       standingsdomain.SortKey `json:"sort"`
	Pinned     string                  `json:"pinned,omitempty"`
	Query      string                  `json:"query,omitempty"`
	Total      int                     `json:"total"`
	Rows       []standingsservice.Row  `json:"rows"`
	Stats      standingsservice.Stats  `json:"stats"`
}

// ReloadResponse is the body of a successful POST /api/reload.
type ReloadResponse struct {
	SnapshotID string    `json:"snapshot_id"`
	LoadedAt   time.Time `json:"loaded_at"`
	Players    int       `json:"players"`
	Profiles   int       `json:"profiles"`
}

// HandleStandingsAPI returns the leaderboard rows for the requested view.
// The ETag is the snapshot ID so clients can poll cheaply.
func (h *StandingsHandlers) HandleStandingsAPI(w http.ResponseWriter, r *http.Request) {
	_, span := h.tracer.Start(r.Context(), "StandingsHandlers.HandleStandingsAPI")
	defer span.End()

	state, err := parseViewState(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	snap, err := h.service.Snapshot()
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	etag := `"` + snap.ID + `"`
	w.Header().Set("ETag", etag)
	if r.Header.Get("If-None-Match") == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	rows := standingsservice.BuildLeaderboard(snap.Entries, state.options)
	writeJSON(w, http.StatusOK, StandingsResponse{
		SnapshotID: snap.ID,
		LoadedAt:   snap.LoadedAt,
		Sort:       state.options.Sort,
		Pinned:     state.options.Pinned,
		Query:      state.options.Query,
		Total:      len(snap.Entries),
		Rows:       rows,
		Stats:      standingsservice.ComputeStats(snap.Entries),
	})
}

// HandlePlayerAPI returns one player's details as JSON.
func (h *StandingsHandlers) HandlePlayerAPI(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "StandingsHandlers.HandlePlayerAPI")
	defer span.End()

	name, err := playerParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid player name"})
		return
	}

	details, err := h.service.PlayerDetails(ctx, name)
	var notFound *standingsservice.PlayerNotFoundError
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, details)
	case errors.As(err, &notFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: notFound.Error(), Suggestions: notFound.Suggestions})
	default:
		h.writeServiceError(w, r, err)
	}
}

// HandleReload re-reads the standings. On failure the previous snapshot
// keeps being served.
func (h *StandingsHandlers) HandleReload(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "StandingsHandlers.HandleReload")
	defer span.End()

	snap, err := h.service.Reload(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "Reload requested over HTTP failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, ReloadResponse{
		SnapshotID: snap.ID,
		LoadedAt:   snap.LoadedAt,
		Players:    len(snap.Entries),
		Profiles:   snap.Matched(),
	})
}
