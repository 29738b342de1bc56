package standingshandlers

import "net/http"

// Handlers serves the standings pages, charts and JSON API.
type Handlers interface {
	HandleIndex(w http.ResponseWriter, r *http.Request)
	HandlePlayerPage(w http.ResponseWriter, r *http.Request)
	HandleChart(w http.ResponseWriter, r *http.Request)
	HandleStandingsAPI(w http.ResponseWriter, r *http.Request)
	HandlePlayerAPI(w http.ResponseWriter, r *http.Request)
	HandleReload(w http.ResponseWriter, r *http.Request)
	HandleHealth(w http.ResponseWriter, r *http.Request)
}
