package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"ukorgs/models"
)

// WriteReviewWorkbook writes an xlsx workbook for manual conflict review:
// one row per candidate value, grouped by conflict, so reviewers can see
// every source's claim side by side.
func WriteReviewWorkbook(result models.ProcessingResult, filename string) error {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Conflicts"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{
		"Conflict ID", "Organisation ID", "Organisation Name", "Field",
		"Source", "Value", "Retrieved At", "Resolved",
	}
	for col, header := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return fmt.Errorf("failed to compute header cell: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return fmt.Errorf("failed to write header: %w", err)
		}
	}

	names := make(map[string]string, len(result.Organisations))
	for _, org := range result.Organisations {
		names[org.ID] = org.Name
	}

	row := 2
	for _, conflict := range result.Conflicts {
		for _, value := range conflict.Values {
			cells := []any{
				conflict.ID,
				conflict.OrganisationID,
				names[conflict.OrganisationID],
				conflict.Field,
				string(value.Source),
				fmt.Sprintf("%v", value.Value),
				value.RetrievedAt.Format("2006-01-02 15:04:05"),
				conflict.Resolved(),
			}
			for col, cellValue := range cells {
				cell, err := excelize.CoordinatesToCellName(col+1, row)
				if err != nil {
					return fmt.Errorf("failed to compute cell name: %w", err)
				}
				if err := f.SetCellValue(sheet, cell, cellValue); err != nil {
					return fmt.Errorf("failed to write conflict row: %w", err)
				}
			}
			row++
		}
	}

	if err := f.SaveAs(filename); err != nil {
		return fmt.Errorf("failed to save review workbook: %w", err)
	}
	return nil
}
