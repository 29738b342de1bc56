package parsers

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	standingsdomain "github.com/Black-And-White-Club/standings-board/app/modules/standings/domain"
)

// CSVParser parses CSV (or tab separated) standings files
type CSVParser struct{}

// NewCSVParser creates a new CSV parser
func NewCSVParser() *CSVParser {
	return &CSVParser{}
}

// Parse parses CSV data and returns the players ordered by rank
func (p *CSVParser) Parse(data []byte) ([]standingsdomain.Player, error) {
	cleaned, delimiter, err := preprocessCSVData(data)
	if err != nil {
		return nil, err
	}

	reader := csv.NewReader(strings.NewReader(cleaned))
	reader.Comma = delimiter
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	var records []record
	for {
		fields, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV: %w", err)
		}
		line, _ := reader.FieldPos(0)
		records = append(records, record{line: line, fields: fields})
	}

	return parseRows(records)
}
