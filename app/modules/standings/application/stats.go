package standingsservice

import standingsdomain "github.com/Black-And-White-Club/standings-board/app/modules/standings/domain"

// Stats holds the chart series in standings order. WinRates are fractions.
type Stats struct {
	Names    []string  `json:"names"`
	WinRates []float64 `json:"win_rates"`
	Mus      []float64 `json:"mus"`
	Sigmas   []float64 `json:"sigmas"`
	Wins     []int     `json:"wins"`
	Draws    []int     `json:"draws"`
	Losses   []int     `json:"losses"`
}

// Len is the number of players in the series.
func (s Stats) Len() int {
	return len(s.Names)
}

// ComputeStats extracts the chart series from entries.
func ComputeStats(entries []standingsdomain.Entry) Stats {
	n := len(entries)
	stats := Stats{
		Names:    make([]string, n),
		WinRates: make([]float64, n),
		Mus:      make([]float64, n),
		Sigmas:   make([]float64, n),
		Wins:     make([]int, n),
		Draws:    make([]int, n),
		Losses:   make([]int, n),
	}
	for i, e := range entries {
		stats.Names[i] = e.Name
		stats.WinRates[i] = e.WinRate
		stats.Mus[i] = e.RatingMu
		stats.Sigmas[i] = e.RatingSigma
		stats.Wins[i] = e.Wins
		stats.Draws[i] = e.Draws
		stats.Losses[i] = e.Losses
	}
	return stats
}
