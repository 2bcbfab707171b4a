package history

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/kasetgo/kaset/internal/domain/models"
)

func TestExportXLSXRoundTrip(t *testing.T) {
	records := []models.HarvestRecord{
		record("p1", "lettuce", time.Date(2024, time.January, 20, 0, 0, 0, 0, time.UTC), 1500, 300),
		record("p1", "tomato", time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC), 900, 200),
	}

	data, err := ExportXLSX(records)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows(xlsxSheetName)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, []string{"plantDate", "harvestDate", "vegetable", "quantity", "amountKg", "income", "expense", "profit"}, rows[0])
	assert.Equal(t, "2024-01-20", rows[1][0])
	assert.Equal(t, "lettuce", rows[1][2])
	assert.Equal(t, "tomato", rows[2][2])
}

func TestExportXLSXEmptyInput(t *testing.T) {
	data, err := ExportXLSX(nil)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows(xlsxSheetName)
	require.NoError(t, err)
	require.Len(t, rows, 1)
}
