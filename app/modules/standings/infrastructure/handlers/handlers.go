package standingshandlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	standingsservice "github.com/Black-And-White-Club/standings-board/app/modules/standings/application"
	standingsdomain "github.com/Black-And-White-Club/standings-board/app/modules/standings/domain"
	"github.com/Black-And-White-Club/standings-board/app/modules/standings/infrastructure/views"
	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel/trace"
)

// StandingsHandlers implements the Handlers interface.
type StandingsHandlers struct {
	service  standingsservice.Service
	renderer *views.Renderer
	logger   *slog.Logger
	tracer   trace.Tracer
	live     bool
}

// NewStandingsHandlers creates a new StandingsHandlers instance. live adds
// the reload listener to served pages.
func NewStandingsHandlers(
	service standingsservice.Service,
	renderer *views.Renderer,
	logger *slog.Logger,
	tracer trace.Tracer,
	live bool,
) Handlers {
	return &StandingsHandlers{
		service:  service,
		renderer: renderer,
		logger:   logger,
		tracer:   tracer,
		live:     live,
	}
}

// viewState is the page state carried in the query string.
type viewState struct {
	options standingsservice.ViewOptions
	theme   standingsdomain.Theme
	player  string
}

func parseViewState(r *http.Request) (viewState, error) {
	q := r.URL.Query()
	sortKey, err := standingsdomain.ParseSortKey(q.Get("sort"))
	if err != nil {
		return viewState{}, err
	}
	return viewState{
		options: standingsservice.ViewOptions{
			Sort:   sortKey,
			Pinned: q.Get("pin"),
			Query:  q.Get("q"),
		},
		theme:  standingsdomain.ParseTheme(q.Get("theme")),
		player: q.Get("player"),
	}, nil
}

// HandleIndex renders the leaderboard page.
func (h *StandingsHandlers) HandleIndex(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "StandingsHandlers.HandleIndex")
	defer span.End()

	state, err := parseViewState(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	snap, err := h.service.Snapshot()
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	page := views.IndexPage{
		Theme:      state.theme,
		Options:    state.options,
		Rows:       standingsservice.BuildLeaderboard(snap.Entries, state.options),
		Total:      len(snap.Entries),
		SnapshotID: snap.ID,
		LoadedAt:   snap.LoadedAt,
		Charts:     standingsservice.ChartKinds,
		Searchable: true,
		Live:       h.live,
	}

	if state.player != "" {
		details, err := h.service.PlayerDetails(ctx, state.player)
		switch {
		case err == nil:
			page.Modal = details
		case errors.Is(err, standingsservice.ErrPlayerNotFound):
			h.logger.DebugContext(ctx, "Ignoring unknown player in modal", slog.String("player", state.player))
			state.player = ""
		default:
			h.writeServiceError(w, r, err)
			return
		}
	}
	page.Links = views.QueryLinks{Options: state.options, Theme: state.theme, OpenPlayer: state.player}

	var buf bytes.Buffer
	if err := h.renderer.RenderIndex(&buf, page); err != nil {
		h.logger.ErrorContext(ctx, "Failed to render leaderboard", slog.String("error", err.Error()))
		http.Error(w, "failed to render page", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes())
}

// HandlePlayerPage renders the standalone player page.
func (h *StandingsHandlers) HandlePlayerPage(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "StandingsHandlers.HandlePlayerPage")
	defer span.End()

	name, err := playerParam(r)
	if err != nil {
		http.Error(w, "invalid player name", http.StatusBadRequest)
		return
	}
	theme := standingsdomain.ParseTheme(r.URL.Query().Get("theme"))
	page := views.PlayerPage{
		Theme: theme,
		Live:  h.live,
		Links: views.QueryLinks{Theme: theme},
	}

	status := http.StatusOK
	details, err := h.service.PlayerDetails(ctx, name)
	var notFound *standingsservice.PlayerNotFoundError
	switch {
	case err == nil:
		page.Details = details
	case errors.As(err, &notFound):
		page.NotFound = notFound
		status = http.StatusNotFound
	default:
		h.writeServiceError(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := h.renderer.RenderPlayer(&buf, page); err != nil {
		h.logger.ErrorContext(ctx, "Failed to render player page", slog.String("error", err.Error()))
		http.Error(w, "failed to render page", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	w.Write(buf.Bytes())
}

// HandleChart serves a chart PNG for the requested theme.
func (h *StandingsHandlers) HandleChart(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "StandingsHandlers.HandleChart")
	defer span.End()

	kind, err := standingsservice.ParseChartKind(chi.URLParam(r, "kind"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	theme := standingsdomain.ParseTheme(r.URL.Query().Get("theme"))

	snap, err := h.service.Snapshot()
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	etag := `"` + snap.ID + "-" + string(kind) + "-" + string(theme) + `"`
	if r.Header.Get("If-None-Match") == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	png, err := h.service.RenderChart(ctx, kind, theme)
	if err != nil {
		h.logger.ErrorContext(ctx, "Failed to render chart",
			slog.String("kind", string(kind)),
			slog.String("error", err.Error()),
		)
		h.writeServiceError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("ETag", etag)
	w.Write(png)
}

// HandleHealth reports whether a snapshot is being served.
func (h *StandingsHandlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	if _, err := h.service.Snapshot(); err != nil {
		http.Error(w, "standings not loaded", http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte("ok"))
}

// playerParam decodes the {name} segment. Routing must run on the escaped
// path (see EscapedPathMiddleware) for names containing '%' or '/'.
func playerParam(r *http.Request) (string, error) {
	return url.PathUnescape(chi.URLParam(r, "name"))
}

// writeServiceError maps service errors onto status codes. HTML routes get a
// plain text body; /api routes get JSON.
func (h *StandingsHandlers) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, standingsservice.ErrNotLoaded):
		status = http.StatusServiceUnavailable
	case errors.Is(err, standingsservice.ErrPlayerNotFound), errors.Is(err, standingsservice.ErrUnknownChart):
		status = http.StatusNotFound
	}
	if isAPI(r) {
		writeJSON(w, status, errorResponse{Error: err.Error()})
		return
	}
	http.Error(w, err.Error(), status)
}

func isAPI(r *http.Request) bool {
	return strings.HasPrefix(r.URL.Path, "/api/")
}

type errorResponse struct {
	Error       string   `json:"error"`
	Suggestions []string `json:"suggestions,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
