package sheets

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/mamadbah2/stockyard/internal/config"
	"github.com/mamadbah2/stockyard/internal/domain/models"
)

const dateLayout = "2006-01-02"

// Exporter appends portfolio valuation rows to a spreadsheet.
type Exporter interface {
	AppendSnapshot(ctx context.Context, snapshot models.PortfolioValuation) error
}

// GoogleSheetExporter implements Exporter using the official Google Sheets API.
type GoogleSheetExporter struct {
	service       *sheetsapi.Service
	spreadsheetID string
	snapshotRange string
	logger        *zap.Logger
}

// NewGoogleSheetExporter builds a Google Sheets backed snapshot exporter.
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
		snapshotRange: cfg.SnapshotRange,
		logger:        logger,
	}, nil
}

// AppendSnapshot writes one row per herd valuation plus a totals row.
func (e *GoogleSheetExporter) AppendSnapshot(ctx context.Context, snapshot models.PortfolioValuation) error {
	if e.snapshotRange == "" {
		return fmt.Errorf("snapshot range must not be empty")
	}

	date := snapshot.ValuedAt.Format(dateLayout)

	rows := make([][]interface{}, 0, len(snapshot.Herds)+1)
	for _, v := range snapshot.Herds {
		rows = append(rows, []interface{}{
			date,
			v.HerdID,
			v.HerdName,
			v.ProjectedWeightKg,
			v.PricePerKg,
			v.PriceSource,
			v.GrossValue,
			v.NetValue,
			v.CostToCarry,
			v.NetRealizableValue,
		})
	}
	rows = append(rows, []interface{}{
		date,
		"TOTAL",
		"",
		"",
		"",
		"",
		snapshot.TotalGrossValue,
		snapshot.TotalNetValue,
		snapshot.TotalCostToCarry,
		snapshot.TotalNetRealizableValue,
	})

	payload := &sheetsapi.ValueRange{Values: rows}

	call := e.service.Spreadsheets.Values.Append(e.spreadsheetID, e.snapshotRange, payload).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx)

	if _, err := call.Do(); err != nil {
		return fmt.Errorf("append snapshot rows into range %s: %w", e.snapshotRange, err)
	}

	e.logger.Debug("snapshot exported to sheet", zap.String("range", e.snapshotRange), zap.Int("rows", len(rows)))
	return nil
}
