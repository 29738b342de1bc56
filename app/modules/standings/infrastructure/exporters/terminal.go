package standingsexport

import (
	"strconv"

	standingsservice "github.com/Black-And-White-Club/standings-board/app/modules/standings/application"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

var (
	borderStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	headerStyle  = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle    = lipgloss.NewStyle().Padding(0, 1)
	pinnedStyle  = cellStyle.Bold(true).Foreground(lipgloss.Color("39"))
	highWinStyle = cellStyle.Foreground(lipgloss.Color("42"))
	podiumStyles = map[int]lipgloss.Style{
		1: cellStyle.Foreground(lipgloss.Color("220")),
		2: cellStyle.Foreground(lipgloss.Color("250")),
		3: cellStyle.Foreground(lipgloss.Color("173")),
	}
)

const winRateCol = 8

// RenderTable draws the leaderboard rows as a terminal table. Pinned rows are
// marked with an asterisk.
func RenderTable(rows []standingsservice.Row) string {
	if len(rows) == 0 {
		return "No players match.\n"
	}

	data := make([][]string, len(rows))
	for i, r := range rows {
		pin := ""
		if r.Pinned {
			pin = "*"
		}
		data[i] = []string{
			pin,
			strconv.Itoa(r.Rank),
			r.Name,
			r.ModelLabel(),
			r.RatingLabel(),
			strconv.Itoa(r.Wins),
			strconv.Itoa(r.Draws),
			strconv.Itoa(r.Losses),
			r.WinRateLabel(),
		}
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(borderStyle).
		BorderHeader(true).
		BorderRow(false).
		Headers("", "Rank", "Player", "Model", "Rating", "W", "D", "L", "Win Rate").
		Rows(data...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow || row >= len(rows) {
				return headerStyle
			}
			r := rows[row]
			switch {
			case r.Pinned:
				return pinnedStyle
			case col == winRateCol && r.HighWinRate:
				return highWinStyle
			}
			if s, ok := podiumStyles[r.Rank]; ok {
				return s
			}
			return cellStyle
		})

	return t.Render() + "\n"
}
