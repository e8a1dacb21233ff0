package sheets

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/mamadbah2/loftkeeper/internal/config"
	"github.com/mamadbah2/loftkeeper/internal/domain/models"
)

// ReportsRange is the sheet range daily reports are appended to.
const ReportsRange = "Reports!A:J"

// ReportSheet appends daily reports to a Google spreadsheet.
type ReportSheet struct {
	service       *sheetsapi.Service
	spreadsheetID string
	logger        *zap.Logger
}

// NewReportSheet builds a Google Sheets client from a service account file.
func NewReportSheet(ctx context.Context, cfg config.SheetsConfig, logger *zap.Logger) (*ReportSheet, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	service, err := sheetsapi.NewService(ctx, option.WithCredentialsFile(cfg.CredentialsPath), option.WithScopes(sheetsapi.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize sheets client: %w", err)
	}

	return &ReportSheet{
		service:       service,
		spreadsheetID: cfg.SpreadsheetID,
		logger:        logger,
	}, nil
}

// reportRow lays a report out over the ten columns of ReportsRange.
func reportRow(report models.DailyReport) []interface{} {
	return []interface{}{
		report.Date,
		report.UserID,
		report.Lofts,
		report.Birds,
		report.ActiveBirds,
		report.TasksDue,
		report.TasksCompleted,
		report.ActivePairings,
		report.EggsIncubating,
		report.LowStockItems,
	}
}

// AppendReport adds report as a new row at the end of ReportsRange.
func (r *ReportSheet) AppendReport(ctx context.Context, report models.DailyReport) error {
	payload := &sheetsapi.ValueRange{Values: [][]interface{}{reportRow(report)}}

	call := r.service.Spreadsheets.Values.Append(r.spreadsheetID, ReportsRange, payload).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx)

	if _, err := call.Do(); err != nil {
		return fmt.Errorf("append row into range %s: %w", ReportsRange, err)
	}

	r.logger.Debug("report row appended", zap.String("user_id", report.UserID), zap.String("date", report.Date))
	return nil
}
