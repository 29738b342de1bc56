package views

import (
	"net/url"
	"strconv"
	"strings"

	standingsservice "github.com/Black-And-White-Club/standings-board/app/modules/standings/application"
	standingsdomain "github.com/Black-And-White-Club/standings-board/app/modules/standings/domain"
)

// QueryLinks links a served page to its variations through query parameters
// on "/". Defaults are omitted so the plain leaderboard stays at "/".
type QueryLinks struct {
	Options standingsservice.ViewOptions
	Theme      standingsdomain.Theme
	OpenPlayer string
}

// Home implements Links.
func (l QueryLinks) Home() string {
	return pageURL(standingsservice.ViewOptions{}, l.Theme, "")
}

// Sort implements Links.
func (l QueryLinks) Sort(key standingsdomain.SortKey) string {
	opts := l.Options
	opts.Sort = key
	return pageURL(opts, l.Theme, "")
}

// Pin implements Links.
func (l QueryLinks) Pin(name string) string {
	opts := l.Options
	opts.Pinned = standingsservice.TogglePin(opts.Pinned, name)
	return pageURL(opts, l.Theme, "")
}

// Player implements Links.
func (l QueryLinks) Player(name string) string {
	return pageURL(l.Options, l.Theme, name)
}

// PlayerPage implements Links.
func (l QueryLinks) PlayerPage(name string) string {
	u := "/players/" + url.PathEscape(name)
	if l.Theme == standingsdomain.ThemeDark {
		u += "?theme=dark"
	}
	return u
}

// Close implements Links.
func (l QueryLinks) Close() string {
	return pageURL(l.Options, l.Theme, "")
}

// ToggleTheme implements Links.
func (l QueryLinks) ToggleTheme() string {
	return pageURL(l.Options, l.Theme.Toggle(), l.OpenPlayer)
}

// Chart implements Links.
func (l QueryLinks) Chart(kind standingsservice.ChartKind) string {
	return "/charts/" + string(kind) + ".png?theme=" + string(l.Theme)
}

// Stylesheet implements Links.
func (l QueryLinks) Stylesheet() string {
	return "/static/style.css"
}

func pageURL(opts standingsservice.ViewOptions, theme standingsdomain.Theme, player string) string {
	v := url.Values{}
	if opts.Sort != "" && opts.Sort != standingsdomain.SortByRank {
		v.Set("sort", string(opts.Sort))
	}
	if opts.Pinned != "" {
		v.Set("pin", opts.Pinned)
	}
	if q := strings.TrimSpace(opts.Query); q != "" {
		v.Set("q", q)
	}
	if theme == standingsdomain.ThemeDark {
		v.Set("theme", string(theme))
	}
	if player != "" {
		v.Set("player", player)
	}
	if len(v) == 0 {
		return "/"
	}
	return "/?" + v.Encode()
}

// FileLinks links exported pages to each other as relative file paths. Pinning
// and the modal need a server, so those controls are hidden.
type FileLinks struct {
	SortKey    standingsdomain.SortKey
	Theme      standingsdomain.Theme
	Slugs      map[string]string
	PlayerName string // set on player pages
	Prefix     string // "../" under players/
}

// Home implements Links.
func (l FileLinks) Home() string {
	return l.Prefix + PageFile(standingsdomain.SortByRank, l.Theme)
}

// Sort implements Links.
func (l FileLinks) Sort(key standingsdomain.SortKey) string {
	return l.Prefix + PageFile(key, l.Theme)
}

// Pin implements Links.
func (l FileLinks) Pin(string) string { return "" }

// Player implements Links.
func (l FileLinks) Player(name string) string {
	return l.PlayerPage(name)
}

// PlayerPage implements Links.
func (l FileLinks) PlayerPage(name string) string {
	return l.playerFile(name, l.Theme)
}

// Close implements Links.
func (l FileLinks) Close() string { return "" }

// ToggleTheme implements Links.
func (l FileLinks) ToggleTheme() string {
	if l.PlayerName != "" {
		return l.playerFile(l.PlayerName, l.Theme.Toggle())
	}
	return l.Prefix + PageFile(l.SortKey, l.Theme.Toggle())
}

// Chart implements Links.
func (l FileLinks) Chart(kind standingsservice.ChartKind) string {
	return l.Prefix + "charts/" + ChartFile(kind, l.Theme)
}

// Stylesheet implements Links.
func (l FileLinks) Stylesheet() string {
	return l.Prefix + "style.css"
}

func (l FileLinks) playerFile(name string, theme standingsdomain.Theme) string {
	slug, ok := l.Slugs[name]
	if !ok {
		return ""
	}
	return l.Prefix + "players/" + PlayerFile(slug, theme)
}

// PageFile names the exported leaderboard page for an ordering and theme.
func PageFile(key standingsdomain.SortKey, theme standingsdomain.Theme) string {
	base := "index"
	switch key {
	case standingsdomain.SortByWinRate:
		base = "by-win-rate"
	case standingsdomain.SortByMu:
		base = "by-mu"
	}
	return themed(base, theme) + ".html"
}

// PlayerFile names an exported player page inside players/.
func PlayerFile(slug string, theme standingsdomain.Theme) string {
	return themed(slug, theme) + ".html"
}

// ChartFile names an exported chart inside charts/.
func ChartFile(kind standingsservice.ChartKind, theme standingsdomain.Theme) string {
	return string(kind) + "-" + string(theme) + ".png"
}

func themed(base string, theme standingsdomain.Theme) string {
	if theme == standingsdomain.ThemeDark {
		return base + "-dark"
	}
	return base
}

// Slugs maps each name to a file-safe slug. Collisions get a numeric suffix
// in standings order.
func Slugs(names []string) map[string]string {
	out := make(map[string]string, len(names))
	used := make(map[string]bool, len(names))
	for _, name := range names {
		if _, ok := out[name]; ok {
			continue
		}
		base := slugify(name)
		slug := base
		for n := 2; used[slug]; n++ {
			slug = base + "-" + strconv.Itoa(n)
		}
		used[slug] = true
		out[name] = slug
	}
	return out
}

func slugify(name string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(name) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if dash && b.Len() > 0 {
				b.WriteByte('-')
			}
			b.WriteRune(r)
			dash = false
			continue
		}
		dash = true
	}
	if b.Len() == 0 {
		return "player"
	}
	return b.String()
}
