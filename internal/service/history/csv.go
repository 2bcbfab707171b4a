package history

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/kasetgo/kaset/internal/domain/models"
)

var errNotConfigured = errors.New("exporter not configured")

// The CSV layout is an external contract: downstream spreadsheet tooling
// depends on this exact column order and escaping.
var csvHeader = []string{"plantDate", "harvestDate", "vegetable", "quantity", "amountKg", "income", "expense", "profit"}

const (
	dateLayout  = "2006-01-02"
	placeholder = "-"
)

// ExportCSV renders the records as CSV. Every field passes through the same
// quote-escaping, dates use the 2006-01-02 layout, money and weight carry two
// decimals, and missing values render as "-". The output parses back losslessly
// with any standard CSV reader.
func ExportCSV(records []models.HarvestRecord) string {
	var b strings.Builder

	writeRow(&b, csvHeader)
	for _, rec := range records {
		writeRow(&b, recordFields(rec))
	}
	return b.String()
}

func recordFields(rec models.HarvestRecord) []string {
	return []string{
		formatDate(rec.PlantDate),
		formatDate(rec.ActualHarvestDate),
		formatText(rec.VegetableName),
		strconv.Itoa(rec.Quantity),
		formatAmount(rec.AmountKg),
		formatAmount(rec.Income),
		formatAmount(rec.Expense),
		formatAmount(rec.Profit()),
	}
}

func writeRow(b *strings.Builder, fields []string) {
	for i, field := range fields {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(escapeField(field))
	}
	b.WriteByte('\n')
}

// escapeField is the single escaping path for every cell: always quoted, with
// embedded quotes doubled.
func escapeField(field string) string {
	return `"` + strings.ReplaceAll(field, `"`, `""`) + `"`
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return placeholder
	}
	return t.Format(dateLayout)
}

func formatText(s string) string {
	if s == "" {
		return placeholder
	}
	return s
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
