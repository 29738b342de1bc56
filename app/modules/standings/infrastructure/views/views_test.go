package views

import (
	"bytes"
	"io/fs"
	"testing"
	"time"

	standingsservice "github.com/Black-And-White-Club/standings-board/app/modules/standings/application"
	standingsdomain "github.com/Black-And-White-Club/standings-board/app/modules/standings/domain"
	"github.com/stretchr/testify/require"
)

func testEntries() []standingsdomain.Entry {
	return []standingsdomain.Entry{
		{
			Player:  standingsdomain.Player{Rank: 1, Name: "Alice", RatingMu: 30, RatingSigma: 1.5, Wins: 9, Losses: 1, Games: 10, WinRate: 0.9},
			Profile: standingsdomain.Profile{Model: "gpt-4o", Prompt: "  be <bold>  ", Raw: map[string]any{}},
		},
		{
			Player:  standingsdomain.Player{Rank: 2, Name: "Bob & Co", RatingMu: 25, RatingSigma: 2, Wins: 5, Losses: 5, Games: 10, WinRate: 0.5},
			Profile: standingsdomain.NoProfile(),
		},
	}
}

func TestQueryLinks(t *testing.T) {
	links := QueryLinks{
		Options:    standingsservice.ViewOptions{Sort: standingsdomain.SortByMu, Pinned: "Bob", Query: " al "},
		Theme:      standingsdomain.ThemeDark,
		OpenPlayer: "Alice",
	}

	tests := []struct {
		name string
		got  string
		want string
	}{
		{name: "home keeps theme only", got: links.Home(), want: "/?theme=dark"},
		{name: "sort drops modal", got: links.Sort(standingsdomain.SortByRank), want: "/?pin=Bob&q=al&theme=dark"},
		{name: "pin same player unpins", got: links.Pin("Bob"), want: "/?q=al&sort=mu&theme=dark"},
		{name: "pin other player", got: links.Pin("Alice"), want: "/?pin=Alice&q=al&sort=mu&theme=dark"},
		{name: "player opens modal", got: links.Player("Bob & Co"), want: "/?pin=Bob&player=Bob+%26+Co&q=al&sort=mu&theme=dark"},
		{name: "close drops modal", got: links.Close(), want: "/?pin=Bob&q=al&sort=mu&theme=dark"},
		{name: "toggle keeps modal", got: links.ToggleTheme(), want: "/?pin=Bob&player=Alice&q=al&sort=mu"},
		{name: "chart follows theme", got: links.Chart(standingsservice.ChartGames), want: "/charts/games.png?theme=dark"},
		{name: "player page escapes", got: links.PlayerPage("Bob & Co/2"), want: "/players/Bob%20&%20Co%2F2?theme=dark"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, tt.got)
		})
	}

	require.Equal(t, "/", QueryLinks{}.Home())
}

func TestRenderer_RenderIndex(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)

	entries := testEntries()
	opts := standingsservice.ViewOptions{Pinned: "Bob & Co"}
	details := standingsservice.BuildPlayerDetails(entries[0])

	var buf bytes.Buffer
	err = r.RenderIndex(&buf, IndexPage{
		Theme:      standingsdomain.ThemeLight,
		Options:    opts,
		Rows:       standingsservice.BuildLeaderboard(entries, opts),
		Total:      len(entries),
		LoadedAt:   time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
		Charts:     standingsservice.ChartKinds,
		Modal:      details,
		Searchable: true,
		Live:       true,
		Links:      QueryLinks{Options: opts, Theme: standingsdomain.ThemeLight, OpenPlayer: "Alice"},
	})
	require.NoError(t, err)
	html := buf.String()

	require.Contains(t, html, `data-theme="light"`)
	require.Contains(t, html, `<tr class="pinned rank-2">`)
	require.Contains(t, html, `<tr class="rank-1 high-winrate">`)
	require.Contains(t, html, "Bob &amp; Co")
	require.Contains(t, html, ">Unpin</a>")
	require.Contains(t, html, "30 ± 1.5")
	require.Contains(t, html, "90.0%")
	require.Contains(t, html, standingsdomain.NoModel)
	require.Contains(t, html, `aria-hidden="false"`)
	require.Contains(t, html, "Alice — Rank #1")
	require.Contains(t, html, "be &lt;bold&gt;")
	require.Contains(t, html, "/charts/winrate.png?theme=light")
	require.Contains(t, html, "2 of 2 players")
	require.Contains(t, html, "new EventSource")
	require.Less(t, bytes.Index(buf.Bytes(), []byte("Bob &amp; Co")), bytes.Index(buf.Bytes(), []byte(">Alice<")))
}

func TestRenderer_RenderIndex_NoMatches(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)

	opts := standingsservice.ViewOptions{Query: "zzz"}
	var buf bytes.Buffer
	require.NoError(t, r.RenderIndex(&buf, IndexPage{
		Theme:      standingsdomain.ThemeDark,
		Options:    opts,
		Rows:       standingsservice.BuildLeaderboard(testEntries(), opts),
		Total:      2,
		Searchable: true,
		Links:      QueryLinks{Options: opts, Theme: standingsdomain.ThemeDark},
	}))
	html := buf.String()
	require.Contains(t, html, "No players match.")
	require.Contains(t, html, `aria-hidden="true"`)
	require.Contains(t, html, `value="zzz"`)
	require.NotContains(t, html, "EventSource")
}

func TestRenderer_RenderPlayer(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)

	t.Run("details", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, r.RenderPlayer(&buf, PlayerPage{
			Theme:   standingsdomain.ThemeLight,
			Details: standingsservice.BuildPlayerDetails(testEntries()[0]),
			Links:   QueryLinks{},
		}))
		require.Contains(t, buf.String(), "<strong>Model:</strong> gpt-4o")
		require.Contains(t, buf.String(), "<title>Alice · Final Standings</title>")
	})

	t.Run("not found", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, r.RenderPlayer(&buf, PlayerPage{
			Theme:    standingsdomain.ThemeLight,
			NotFound: &standingsservice.PlayerNotFoundError{Name: "Alicia", Suggestions: []string{"Alice"}},
			Links:    QueryLinks{},
		}))
		require.Contains(t, buf.String(), "Player not found")
		require.Contains(t, buf.String(), `href="/players/Alice"`)
	})
}

func TestStatic(t *testing.T) {
	data, err := fs.ReadFile(Static(), "style.css")
	require.NoError(t, err)
	require.Contains(t, string(data), `[data-theme="dark"]`)
}

func TestFileLinks(t *testing.T) {
	slugs := Slugs([]string{"Alice", "Bob & Co"})
	root := FileLinks{SortKey: standingsdomain.SortByWinRate, Theme: standingsdomain.ThemeDark, Slugs: slugs}
	player := FileLinks{Theme: standingsdomain.ThemeLight, Slugs: slugs, PlayerName: "Bob & Co", Prefix: "../"}

	tests := []struct {
		name string
		got  string
		want string
	}{
		{name: "home", got: root.Home(), want: "index-dark.html"},
		{name: "sort", got: root.Sort(standingsdomain.SortByMu), want: "by-mu-dark.html"},
		{name: "pin hidden", got: root.Pin("Alice"), want: ""},
		{name: "close hidden", got: root.Close(), want: ""},
		{name: "player row", got: root.Player("Bob & Co"), want: "players/bob-co-dark.html"},
		{name: "unknown player", got: root.PlayerPage("Zed"), want: ""},
		{name: "toggle page", got: root.ToggleTheme(), want: "by-win-rate.html"},
		{name: "chart", got: root.Chart(standingsservice.ChartRating), want: "charts/rating-dark.png"},
		{name: "player home", got: player.Home(), want: "../index.html"},
		{name: "player toggle", got: player.ToggleTheme(), want: "../players/bob-co-dark.html"},
		{name: "player stylesheet", got: player.Stylesheet(), want: "../style.css"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, tt.got)
		})
	}
}

func TestSlugs(t *testing.T) {
	got := Slugs([]string{"Alice Smith", "alice_smith", "  ", "Ünïcode!", "Alice Smith"})
	require.Equal(t, map[string]string{
		"Alice Smith": "alice-smith",
		"alice_smith": "alice-smith-2",
		"  ":          "player",
		"Ünïcode!":    "n-code",
	}, got)
}
