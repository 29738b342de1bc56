package views

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"time"

	standingsservice "github.com/Black-And-White-Club/standings-board/app/modules/standings/application"
	standingsdomain "github.com/Black-And-White-Club/standings-board/app/modules/standings/domain"
)

//go:embed templates/*.html static/*
var assets embed.FS

// Static returns the stylesheet and other files pages reference.
func Static() fs.FS {
	sub, err := fs.Sub(assets, "static")
	if err != nil {
		panic(err)
	}
	return sub
}

// Links builds every href a page needs. Served pages encode state in the
// query string; exported pages link between static files. An empty string
// hides the control.
type Links interface {
	Home() string
	Sort(key standingsdomain.SortKey) string
	Pin(name string) string
	Player(name string) string
	PlayerPage(name string) string
	Close() string
	ToggleTheme() string
	Chart(kind standingsservice.ChartKind) string
	Stylesheet() string
}

// IndexPage is the data of the leaderboard page.
type IndexPage struct {
	Theme      standingsdomain.Theme
	Options    standingsservice.ViewOptions
	Rows       []standingsservice.Row
	Total      int
	SnapshotID string
	LoadedAt   time.Time
	Charts     []standingsservice.ChartKind
	Modal      *standingsservice.PlayerDetails
	Searchable bool
	Live       bool
	Links      Links
}

// SortKeys lists the sort buttons.
func (p IndexPage) SortKeys() []standingsdomain.SortKey {
	return standingsdomain.SortKeys
}

// ActiveSort is the effective ordering, rank when unset.
func (p IndexPage) ActiveSort() standingsdomain.SortKey {
	if p.Options.Sort == "" {
		return standingsdomain.SortByRank
	}
	return p.Options.Sort
}

// PlayerPage is the data of the standalone player page.
type PlayerPage struct {
	Theme    standingsdomain.Theme
	Details  *standingsservice.PlayerDetails
	NotFound *standingsservice.PlayerNotFoundError
	Live     bool
	Links    Links
}

// Renderer executes the page templates.
type Renderer struct {
	index  *template.Template
	player *template.Template
}

// NewRenderer parses the embedded templates.
func NewRenderer() (*Renderer, error) {
	index, err := parse("templates/index.html")
	if err != nil {
		return nil, err
	}
	player, err := parse("templates/player.html")
	if err != nil {
		return nil, err
	}
	return &Renderer{index: index, player: player}, nil
}

func parse(page string) (*template.Template, error) {
	funcs := template.FuncMap{
		"timestamp": func(t time.Time) string {
			if t.IsZero() {
				return ""
			}
			return t.UTC().Format("2006-01-02 15:04:05 MST")
		},
	}
	tmpl, err := template.New("layout.html").Funcs(funcs).ParseFS(assets, "templates/layout.html", "templates/details.html", page)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", page, err)
	}
	return tmpl, nil
}

// RenderIndex writes the leaderboard page.
func (r *Renderer) RenderIndex(w io.Writer, page IndexPage) error {
	return r.index.ExecuteTemplate(w, "layout.html", page)
}

// RenderPlayer writes the player page.
func (r *Renderer) RenderPlayer(w io.Writer, page PlayerPage) error {
	return r.player.ExecuteTemplate(w, "layout.html", page)
}
