// Package sheets is the Google Sheets export sink. It creates one
// spreadsheet per export with a tab per section, writes the aggregated
// rows, applies header formatting, and returns the document URL. Any API
// failure fails the export as a whole; there is no partial-tab recovery.
package sheets

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/Alexico1969/project-stem-grader/internal/config"
	"github.com/Alexico1969/project-stem-grader/internal/infrastructure"
	apperrors "github.com/Alexico1969/project-stem-grader/internal/errors"
	"github.com/Alexico1969/project-stem-grader/pkg/contracts/domain"
)

// Exporter exports grade workbooks to Google Sheets.
type Exporter struct {
	service *sheets.Service
	logger  *slog.Logger
}

// NewExporter builds a Sheets client from the configured credentials file.
// The file must hold service-account credentials with spreadsheet scope.
func NewExporter(ctx context.Context, cfg config.SheetsConfig, logger *slog.Logger) (*Exporter, error) {
	if logger == nil {
		logger = infrastructure.GetLogger()
	}

	if _, err := os.Stat(cfg.CredentialsFile); err != nil {
		return nil, apperrors.NewConfigError("sheets credentials file not found", err).
			WithContext("path", cfg.CredentialsFile)
	}

	service, err := sheets.NewService(ctx, option.WithCredentialsFile(cfg.CredentialsFile))
	if err != nil {
		return nil, apperrors.NewNetworkError("failed to create sheets service", err)
	}

	return &Exporter{
		service: service,
		logger:  logger.With(slog.String("component", "sheets_exporter")),
	}, nil
}

// Export creates the spreadsheet, writes every tab, applies formatting,
// and returns the document URL.
func (e *Exporter) Export(ctx context.Context, export *domain.GradeExport) (string, error) {
	e.logger.InfoContext(ctx, "exporting to google sheets",
		slog.String("title", export.Title),
		slog.String("label", export.Label),
		slog.Int("tabs", len(export.SectionOrder)))

	spreadsheetID, err := e.createSpreadsheet(ctx, export)
	if err != nil {
		return "", apperrors.NewExportError("failed to create spreadsheet", err)
	}

	for _, section := range export.SectionOrder {
		tab := domain.TabName(section)
		values := tabValues(export, export.Sections[section], tab)

		_, err := e.service.Spreadsheets.Values.Update(spreadsheetID, fmt.Sprintf("'%s'!A1", tab),
			&sheets.ValueRange{Values: values}).
			ValueInputOption("RAW").
			Context(ctx).
			Do()
		if err != nil {
			return "", apperrors.NewExportError("failed to write sheet data", err).
				WithContext("tab", tab)
		}
	}

	if err := e.formatSheets(ctx, spreadsheetID, export); err != nil {
		// Formatting failures do not invalidate the written data
		e.logger.WarnContext(ctx, "sheet formatting failed",
			slog.String("spreadsheet_id", spreadsheetID),
			slog.String("error", err.Error()))
	}

	url := fmt.Sprintf("https://docs.google.com/spreadsheets/d/%s", spreadsheetID)
	e.logger.InfoContext(ctx, "export complete", slog.String("url", url))
	return url, nil
}

// createSpreadsheet creates the document with one pre-built tab per
// section so value writes can address tabs by title.
func (e *Exporter) createSpreadsheet(ctx context.Context, export *domain.GradeExport) (string, error) {
	var tabs []*sheets.Sheet
	for i, section := range export.SectionOrder {
		tabs = append(tabs, &sheets.Sheet{
			Properties: &sheets.SheetProperties{
				Title:   domain.TabName(section),
				SheetId: int64(i),
			},
		})
	}

	created, err := e.service.Spreadsheets.Create(&sheets.Spreadsheet{
		Properties: &sheets.SpreadsheetProperties{Title: export.Title},
		Sheets:     tabs,
	}).Fields("spreadsheetId").Context(ctx).Do()
	if err != nil {
		return "", err
	}

	return created.SpreadsheetId, nil
}

// tabValues builds one tab's cell grid: title, section, optional legend,
// blank row, then Submitted and Not submitted blocks under shared headers.
func tabValues(export *domain.GradeExport, rows domain.SectionRows, tab string) [][]interface{} {
	var data [][]interface{}

	data = append(data, []interface{}{export.Title})
	data = append(data, []interface{}{fmt.Sprintf("Section: %s", tab)})
	if export.Kind == domain.ExportSubchapter {
		data = append(data, []interface{}{"Legend:", "Blank cell = no submission"})
	}
	data = append(data, []interface{}{})

	header := export.Header()

	data = append(data, []interface{}{"Submitted"})
	data = append(data, header)
	for _, row := range rows.Submitted {
		data = append(data, row.Values())
	}

	data = append(data, []interface{}{})
	data = append(data, []interface{}{"Not submitted"})
	data = append(data, header)
	for _, row := range rows.NotSubmitted {
		data = append(data, row.Values())
	}

	return data
}

// formatSheets bolds the heading rows, shades the column-header band, and
// auto-resizes the used columns on every tab.
func (e *Exporter) formatSheets(ctx context.Context, spreadsheetID string, export *domain.GradeExport) error {
	headerRows := int64(4)
	if export.Kind == domain.ExportSubchapter {
		headerRows = 5 // legend row shifts everything down one
	}
	columns := int64(len(export.Assignments) + 3)

	var requests []*sheets.Request
	for i := range export.SectionOrder {
		sheetID := int64(i)

		requests = append(requests, &sheets.Request{
			RepeatCell: &sheets.RepeatCellRequest{
				Range: &sheets.GridRange{
					SheetId:       sheetID,
					StartRowIndex: 0,
					EndRowIndex:   headerRows + 1,
				},
				Cell: &sheets.CellData{
					UserEnteredFormat: &sheets.CellFormat{
						TextFormat: &sheets.TextFormat{Bold: true, FontSize: 12},
					},
				},
				Fields: "userEnteredFormat.textFormat",
			},
		})

		requests = append(requests, &sheets.Request{
			RepeatCell: &sheets.RepeatCellRequest{
				Range: &sheets.GridRange{
					SheetId:       sheetID,
					StartRowIndex: headerRows,
					EndRowIndex:   headerRows + 1,
				},
				Cell: &sheets.CellData{
					UserEnteredFormat: &sheets.CellFormat{
						TextFormat: &sheets.TextFormat{Bold: true},
						BackgroundColor: &sheets.Color{
							Red:   0.9,
							Green: 0.9,
							Blue:  0.9,
						},
					},
				},
				Fields: "userEnteredFormat.textFormat,userEnteredFormat.backgroundColor",
			},
		})

		requests = append(requests, &sheets.Request{
			AutoResizeDimensions: &sheets.AutoResizeDimensionsRequest{
				Dimensions: &sheets.DimensionRange{
					SheetId:    sheetID,
					Dimension:  "COLUMNS",
					StartIndex: 0,
					EndIndex:   columns,
				},
			},
		})
	}

	_, err := e.service.Spreadsheets.BatchUpdate(spreadsheetID,
		&sheets.BatchUpdateSpreadsheetRequest{Requests: requests}).
		Context(ctx).
		Do()
	return err
}
