package sheets

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/kasetgo/kaset/internal/config"
	"github.com/kasetgo/kaset/internal/domain/models"
)

// Exporter appends harvest history rows to the farm's bookkeeping spreadsheet.
type Exporter interface {
	AppendRows(ctx context.Context, rows [][]interface{}) error
}

// GoogleSheetExporter implements Exporter using the official Google Sheets API.
type GoogleSheetExporter struct {
	service       *sheetsapi.Service
	spreadsheetID string
	historyRange  string
	logger        *zap.Logger
}

// NewGoogleSheetExporter builds a Google Sheets backed exporter instance.
func NewGoogleSheetExporter(ctx context.Context, cfg config.SheetsConfig, logger *zap.Logger) (Exporter, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	service, err := sheetsapi.NewService(ctx, option.WithCredentialsFile(cfg.CredentialsPath), option.WithScopes(sheetsapi.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize sheets client: %w", err)
	}

	return &GoogleSheetExporter{
		service:       service,
		spreadsheetID: cfg.SpreadsheetID,
		historyRange:  cfg.HistoryRange,
		logger:        logger,
	}, nil
}

// AppendRows appends the provided rows after the current contents of the
// history range.
func (e *GoogleSheetExporter) AppendRows(ctx context.Context, rows [][]interface{}) error {
	if len(rows) == 0 {
		return nil
	}

	payload := &sheetsapi.ValueRange{Values: rows}

	call := e.service.Spreadsheets.Values.Append(e.spreadsheetID, e.historyRange, payload).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx)

	if _, err := call.Do(); err != nil {
		return &models.DependencyError{Dependency: "google-sheets", Err: fmt.Errorf("append rows into range %s: %w", e.historyRange, err)}
	}

	e.logger.Debug("rows appended to sheet", zap.String("range", e.historyRange), zap.Int("rows", len(rows)))
	return nil
}
