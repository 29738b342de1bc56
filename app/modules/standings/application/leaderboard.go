package standingsservice

import (
	"fmt"
	"sort"
	"strings"

	standingsdomain "github.com/Black-And-White-Club/standings-board/app/modules/standings/domain"
)

// HighWinRateThreshold is the win rate above which a row is highlighted.
const HighWinRateThreshold = 0.8

// ViewOptions is the table state: ordering, pinned player and search text.
type ViewOptions struct {
	Sort   standingsdomain.SortKey
	Pinned string
	Query  string
}

// Row is one rendered line of the leaderboard table.
type Row struct {
	standingsdomain.Entry
	Pinned      bool `json:"pinned"`
	HighWinRate bool `json:"high_win_rate"`
}

// Podium reports whether the row is in the top three.
func (r Row) Podium() bool {
	return r.Rank >= 1 && r.Rank <= 3
}

// Classes returns the CSS classes of the row, space separated.
func (r Row) Classes() string {
	var classes []string
	if r.Pinned {
		classes = append(classes, "pinned")
	}
	if r.Podium() {
		classes = append(classes, fmt.Sprintf("rank-%d", r.Rank))
	}
	if r.HighWinRate {
		classes = append(classes, "high-winrate")
	}
	return strings.Join(classes, " ")
}

// PinLabel is the text of the row's pin button.
func (r Row) PinLabel() string {
	if r.Pinned {
		return "Unpin"
	}
	return "Pin"
}

// BuildLeaderboard sorts, pins and filters entries. The input is not
// modified.
func BuildLeaderboard(entries []standingsdomain.Entry, opts ViewOptions) []Row {
	sorted := make([]standingsdomain.Entry, len(entries))
	copy(sorted, entries)
	SortEntries(sorted, opts.Sort)

	if opts.Pinned != "" {
		for i, e := range sorted {
			if e.Name == opts.Pinned {
				pinned := sorted[i]
				copy(sorted[1:i+1], sorted[:i])
				sorted[0] = pinned
				break
			}
		}
	}

	query := strings.ToLower(strings.TrimSpace(opts.Query))
	rows := make([]Row, 0, len(sorted))
	for _, e := range sorted {
		if query != "" && !strings.Contains(strings.ToLower(e.Name), query) {
			continue
		}
		rows = append(rows, Row{
			Entry:       e,
			Pinned:      opts.Pinned != "" && e.Name == opts.Pinned,
			HighWinRate: e.WinRate > HighWinRateThreshold,
		})
	}
	return rows
}

// SortEntries orders entries in place. Rank ascends; win rate and rating
// descend. Ties keep their input order.
func SortEntries(entries []standingsdomain.Entry, key standingsdomain.SortKey) {
	switch key {
	case standingsdomain.SortByWinRate:
		sort.SliceStable(entries, func(i, j int) bool {
			return entries[i].WinRate > entries[j].WinRate
		})
	case standingsdomain.SortByMu:
		sort.SliceStable(entries, func(i, j int) bool {
			return entries[i].RatingMu > entries[j].RatingMu
		})
	default:
		sort.SliceStable(entries, func(i, j int) bool {
			return entries[i].Rank < entries[j].Rank
		})
	}
}

// TogglePin returns the pinned name after clicking the pin button of name.
func TogglePin(current, name string) string {
	if current == name {
		return ""
	}
	return name
}
