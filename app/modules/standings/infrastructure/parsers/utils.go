package parsers

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"

	standingsdomain "github.com/Black-And-White-Club/standings-board/app/modules/standings/domain"
)

var (
	// ErrUnsupportedFormat is returned by the factory for unknown extensions.
	ErrUnsupportedFormat = errors.New("unsupported standings file type")
	// ErrEmptyStandings is returned when a file has no header or no player rows.
	ErrEmptyStandings = errors.New("standings file is empty")
	// ErrMissingColumn is returned when a required column is absent.
	ErrMissingColumn = errors.New("required column missing")
)

// Header aliases, matched after normalization.
var (
	rankColumns    = []string{"Rank", "Position", "Pos", "#"}
	playerColumns  = []string{"Player", "Name", "Player Name", "Username", "Agent"}
	muColumns      = []string{"Rating_Mu", "Mu", "Rating"}
	sigmaColumns   = []string{"Rating_Sigma", "Sigma"}
	winsColumns    = []string{"Wins", "W"}
	drawsColumns   = []string{"Draws", "D", "Ties"}
	lossesColumns  = []string{"Losses", "L"}
	gamesColumns   = []string{"Games", "Games Played", "Played", "Matches"}
	winRateColumns = []string{"Win_Rate", "WinRate", "Win %", "Win Pct"}
)

// normalizeHeader lowercases and removes spaces, underscores and hyphens
func normalizeHeader(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.NewReplacer(" ", "", "_", "", "-", "").Replace(s)
}

// findColumn searches for a column by multiple possible names (case-insensitive)
// Removes spaces, underscores, and hyphens for normalization
func findColumn(header []string, possibleNames []string) int {
	for _, name := range possibleNames {
		nameLower := strings.ToLower(name)
		nameNorm := normalizeHeader(name)
		for i, col := range header {
			colLower := strings.ToLower(strings.TrimSpace(col))
			if colLower == nameLower || normalizeHeader(col) == nameNorm {
				return i
			}
		}
	}
	return -1
}

// preprocessCSVData cleans CSV data and auto-detects delimiter
// Returns: cleaned string, delimiter rune, error
func preprocessCSVData(data []byte) (string, rune, error) {
	// Strip UTF-8 BOM if present (0xEF, 0xBB, 0xBF)
	data = bytes.TrimPrefix(data, []byte{0xEF, 0xBB, 0xBF})
	if len(bytes.TrimSpace(data)) == 0 {
		return "", ',', ErrEmptyStandings
	}

	cleaned := strings.ReplaceAll(string(data), "\r\n", "\n")

	// Auto-detect delimiter: count commas vs tabs in first 5 lines
	lines := strings.SplitN(cleaned, "\n", 6)
	sampleSize := min(5, len(lines))

	commaCount := 0
	tabCount := 0
	for i := 0; i < sampleSize; i++ {
		commaCount += strings.Count(lines[i], ",")
		tabCount += strings.Count(lines[i], "\t")
	}

	delimiter := ','
	if tabCount > commaCount {
		delimiter = '\t'
	}

	return cleaned, delimiter, nil
}

// isBlankRow reports whether every cell of the row is whitespace
func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

type columnMap struct {
	rank, player, mu, sigma, wins, draws, losses, games, winRate int
}

func mapColumns(header []string) (columnMap, error) {
	cols := columnMap{
		rank:    findColumn(header, rankColumns),
		player:  findColumn(header, playerColumns),
		mu:      findColumn(header, muColumns),
		sigma:   findColumn(header, sigmaColumns),
		wins:    findColumn(header, winsColumns),
		draws:   findColumn(header, drawsColumns),
		losses:  findColumn(header, lossesColumns),
		games:   findColumn(header, gamesColumns),
		winRate: findColumn(header, winRateColumns),
	}
	if cols.rank < 0 {
		return cols, fmt.Errorf("%w: Rank", ErrMissingColumn)
	}
	if cols.player < 0 {
		return cols, fmt.Errorf("%w: Player", ErrMissingColumn)
	}
	return cols, nil
}

// record is one row of the source file with its 1-based line number.
type record struct {
	line   int
	fields []string
}

// parseRows turns a header row plus data rows into players sorted by rank.
// Blank rows are skipped; the first non-blank row is the header.
func parseRows(records []record) ([]standingsdomain.Player, error) {
	records = slices.DeleteFunc(slices.Clone(records), func(r record) bool {
		return isBlankRow(r.fields)
	})
	if len(records) < 2 {
		return nil, ErrEmptyStandings
	}

	cols, err := mapColumns(records[0].fields)
	if err != nil {
		return nil, err
	}

	players := make([]standingsdomain.Player, 0, len(records)-1)
	for _, rec := range records[1:] {
		line, row := rec.line, rec.fields
		name := strings.TrimSpace(cell(row, cols.player))
		if name == "" {
			continue
		}

		p := standingsdomain.Player{Name: name}
		fields := []struct {
			col    int
			column string
			set    func(float64)
		}{
			{cols.rank, "Rank", func(v float64) { p.Rank = toInt(v) }},
			{cols.mu, "Rating_Mu", func(v float64) { p.RatingMu = v }},
			{cols.sigma, "Rating_Sigma", func(v float64) { p.RatingSigma = v }},
			{cols.wins, "Wins", func(v float64) { p.Wins = toInt(v) }},
			{cols.draws, "Draws", func(v float64) { p.Draws = toInt(v) }},
			{cols.losses, "Losses", func(v float64) { p.Losses = toInt(v) }},
			{cols.games, "Games", func(v float64) { p.Games = toInt(v) }},
		}
		for _, f := range fields {
			v, err := parseNumber(cell(row, f.col))
			if err != nil {
				return nil, fmt.Errorf("invalid %s for player %q at line %d: %w", f.column, name, line, err)
			}
			f.set(v)
		}

		rate, err := parseWinRate(cell(row, cols.winRate))
		if err != nil {
			return nil, fmt.Errorf("invalid Win_Rate for player %q at line %d: %w", name, line, err)
		}
		p.WinRate = rate

		if cols.games < 0 {
			p.Games = p.Wins + p.Draws + p.Losses
		}

		players = append(players, p)
	}

	if len(players) == 0 {
		return nil, ErrEmptyStandings
	}

	slices.SortStableFunc(players, func(a, b standingsdomain.Player) int {
		return a.Rank - b.Rank
	})

	return players, nil
}

// cell returns the trimmed value at idx, or "" when the column is absent
func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// parseNumber mirrors a lenient numeric conversion: empty is zero
func parseNumber(val string) (float64, error) {
	val = strings.TrimSpace(val)
	if val == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return 0, fmt.Errorf("non-numeric value: %q", val)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("non-finite value: %q", val)
	}
	return v, nil
}

// parseWinRate accepts a fraction ("0.625") or a percentage ("62.5%")
func parseWinRate(val string) (float64, error) {
	val = strings.TrimSpace(val)
	if pct, ok := strings.CutSuffix(val, "%"); ok {
		v, err := parseNumber(pct)
		if err != nil {
			return 0, err
		}
		return v / 100, nil
	}
	return parseNumber(val)
}

func toInt(v float64) int {
	return int(math.Round(v))
}
