package history

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/kasetgo/kaset/internal/domain/models"
)

const xlsxSheetName = "History"

// ExportXLSX renders the records as an Excel workbook with the same column
// order as the CSV export.
func ExportXLSX(records []models.HarvestRecord) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	index, err := f.NewSheet(xlsxSheetName)
	if err != nil {
		return nil, fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("drop default sheet: %w", err)
	}

	header := make([]interface{}, len(csvHeader))
	for i, h := range csvHeader {
		header[i] = h
	}
	if err := f.SetSheetRow(xlsxSheetName, "A1", &header); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}

	for i, rec := range records {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, fmt.Errorf("cell name: %w", err)
		}

		row := []interface{}{
			formatDate(rec.PlantDate),
			formatDate(rec.ActualHarvestDate),
			formatText(rec.VegetableName),
			rec.Quantity,
			rec.AmountKg,
			rec.Income,
			rec.Expense,
			rec.Profit(),
		}
		if err := f.SetSheetRow(xlsxSheetName, cell, &row); err != nil {
			return nil, fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("serialize workbook: %w", err)
	}
	return buf.Bytes(), nil
}
