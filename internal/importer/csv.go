package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"unicode"
)

// CSVImporter reads one ingredient per row into an "Ingredients" list. A
// first row without any digits is taken as a header and skipped.
type CSVImporter struct{}

func (p *CSVImporter) Import(r io.Reader, filename string) (*Document, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}

	doc := &Document{Title: baseTitle(filename)}
	if len(records) > 1 && isHeaderRow(records[0]) {
		records = records[1:]
	}

	var items []string
	for _, row := range records {
		var cells []string
		for _, cell := range row {
			if cell = strings.TrimSpace(cell); cell != "" {
				cells = append(cells, cell)
			}
		}
		if len(cells) > 0 {
			items = append(items, "- "+strings.Join(cells, " "))
		}
	}
	if len(items) == 0 {
		return doc, nil
	}

	doc.Markdown = joinBlocks([]string{"## Ingredients", strings.Join(items, "\n")})
	return doc, nil
}

func isHeaderRow(row []string) bool {
	for _, cell := range row {
		if strings.ContainsFunc(cell, unicode.IsDigit) {
			return false
		}
	}
	return true
}
