package importer

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"ukorgs/models"
)

// DecodeWorkbook reads the first sheet of an xlsx workbook into spreadsheet
// records. The first non-empty row is taken as the header; every later row
// becomes one record keyed by header text.
func DecodeWorkbook(r io.Reader) ([]models.RawRecord, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, fmt.Errorf("no sheets found in workbook")
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows from sheet %q: %w", sheetName, err)
	}

	headerIdx := -1
	for i, row := range rows {
		if !emptyRow(row) {
			headerIdx = i
			break
		}
	}
	if headerIdx < 0 || headerIdx == len(rows)-1 {
		return nil, fmt.Errorf("workbook sheet %q has no data rows", sheetName)
	}

	headers := make([]string, len(rows[headerIdx]))
	for i, h := range rows[headerIdx] {
		headers[i] = strings.TrimSpace(h)
	}

	var records []models.RawRecord
	for rowIdx := headerIdx + 1; rowIdx < len(rows); rowIdx++ {
		row := rows[rowIdx]
		if emptyRow(row) {
			continue
		}

		fields := make(map[string]string, len(headers))
		for col, header := range headers {
			if header == "" || col >= len(row) {
				continue
			}
			value := strings.TrimSpace(row[col])
			if value != "" {
				fields[header] = value
			}
		}
		if len(fields) == 0 {
			continue
		}
		records = append(records, models.SpreadsheetRecord{Row: fields, RowIndex: rowIdx})
	}

	return records, nil
}

func emptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
