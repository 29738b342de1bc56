package standingsexport

import (
	"fmt"
	"io"
	"os"

	standingsdomain "github.com/Black-And-White-Club/standings-board/app/modules/standings/domain"
	"github.com/xuri/excelize/v2"
)

const (
	StandingsSheet = "Standings"
	ParamsSheet    = "Model Params"
)

var workbookHeaders = []any{
	"Rank", "Player", "Model", "Rating Mu", "Rating Sigma",
	"Wins", "Draws", "Losses", "Games", "Win Rate", "Strategy", "Profile",
}

// WriteWorkbook writes the enriched standings as an .xlsx workbook. Model
// parameters go to a second sheet when any profile has them.
func WriteWorkbook(w io.Writer, entries []standingsdomain.Entry) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", StandingsSheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}
	if err := f.SetSheetRow(StandingsSheet, "A1", &workbookHeaders); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for i, e := range entries {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []any{
			e.Rank, e.Name, e.ModelLabel(), e.RatingMu, e.RatingSigma,
			e.Wins, e.Draws, e.Losses, e.Games, e.WinRate, e.Profile.Strategy, e.Profile.Source,
		}
		if err := f.SetSheetRow(StandingsSheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	if err := styleStandings(f, len(entries)); err != nil {
		return err
	}
	if err := writeParams(f, entries); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// SaveWorkbook writes the workbook to path.
func SaveWorkbook(path string, entries []standingsdomain.Entry) error {
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create workbook: %w", err)
	}
	if err := WriteWorkbook(out, entries); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

func styleStandings(f *excelize.File, rows int) error {
	lastCol, err := excelize.ColumnNumberToName(len(workbookHeaders))
	if err != nil {
		return err
	}

	header, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(StandingsSheet, "A1", lastCol+"1", header); err != nil {
		return err
	}

	if rows > 0 {
		// Built-in format 10 is "0.00%".
		percent, err := f.NewStyle(&excelize.Style{NumFmt: 10})
		if err != nil {
			return err
		}
		if err := f.SetCellStyle(StandingsSheet, "J2", fmt.Sprintf("J%d", rows+1), percent); err != nil {
			return err
		}
	}

	if err := f.SetColWidth(StandingsSheet, "B", "C", 24); err != nil {
		return err
	}
	if err := f.SetPanes(StandingsSheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return err
	}
	return f.AutoFilter(StandingsSheet, fmt.Sprintf("A1:%s%d", lastCol, rows+1), nil)
}

func writeParams(f *excelize.File, entries []standingsdomain.Entry) error {
	var rows [][]any
	for _, e := range entries {
		for _, p := range e.Profile.ModelParams {
			rows = append(rows, []any{e.Name, p.Key, p.Value})
		}
	}
	if len(rows) == 0 {
		return nil
	}

	if _, err := f.NewSheet(ParamsSheet); err != nil {
		return fmt.Errorf("failed to add params sheet: %w", err)
	}
	if err := f.SetSheetRow(ParamsSheet, "A1", &[]any{"Player", "Key", "Value"}); err != nil {
		return err
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(ParamsSheet, cell, &row); err != nil {
			return err
		}
	}
	return nil
}
