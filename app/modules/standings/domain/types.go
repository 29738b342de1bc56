package standingsdomain

import (
	"fmt"
	"strconv"
	"strings"
)

// SortKey selects the ordering of the leaderboard.
type SortKey string

const (
	SortByRank    SortKey = "rank"
	SortByWinRate SortKey = "winRate"
	SortByMu      SortKey = "mu"
)

// SortKeys lists every supported ordering in display order.
var SortKeys = []SortKey{SortByRank, SortByWinRate, SortByMu}

// ParseSortKey maps a query value onto a SortKey. An empty value is rank.
func ParseSortKey(s string) (SortKey, error) {
	switch strings.TrimSpace(s) {
	case "", string(SortByRank):
		return SortByRank, nil
	case string(SortByWinRate), "win_rate", "winrate":
		return SortByWinRate, nil
	case string(SortByMu), "rating":
		return SortByMu, nil
	default:
		return "", fmt.Errorf("unknown sort key %q", s)
	}
}

// Label is the human-readable button label.
func (k SortKey) Label() string {
	switch k {
	case SortByWinRate:
		return "Win Rate"
	case SortByMu:
		return "Rating"
	default:
		return "Rank"
	}
}

// Theme is the colour scheme used by pages and charts.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// ParseTheme returns ThemeDark for "dark" and ThemeLight for anything else.
func ParseTheme(s string) Theme {
	if strings.EqualFold(strings.TrimSpace(s), string(ThemeDark)) {
		return ThemeDark
	}
	return ThemeLight
}

// Toggle flips between light and dark.
func (t Theme) Toggle() Theme {
	if t == ThemeDark {
		return ThemeLight
	}
	return ThemeDark
}

// FormatNumber prints a float with the shortest representation, so 25 stays
// "25" and 25.31 stays "25.31".
func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
