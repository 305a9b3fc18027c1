package exporter

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/xuri/excelize/v2"

	"github.com/Alexico1969/project-stem-grader/internal/config"
	"github.com/Alexico1969/project-stem-grader/internal/infrastructure"
	"github.com/Alexico1969/project-stem-grader/pkg/contracts/domain"
)

// WorkbookWriter writes a grade export as a single xlsx workbook with one
// sheet per section, mirroring the Google Sheets tab layout for offline use.
type WorkbookWriter struct {
	paths  *config.Paths
	logger *slog.Logger
}

// NewWorkbookWriter creates a new workbook writer instance
func NewWorkbookWriter(paths *config.Paths, logger *slog.Logger) *WorkbookWriter {
	if logger == nil {
		logger = infrastructure.GetLogger()
	}
	return &WorkbookWriter{paths: paths, logger: logger}
}

// WriteExport writes the export workbook and returns its path.
func (w *WorkbookWriter) WriteExport(ctx context.Context, export *domain.GradeExport) (string, error) {
	if err := os.MkdirAll(w.paths.ExportsDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create exports directory: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	for i, section := range export.SectionOrder {
		tab := domain.TabName(section)
		if i == 0 {
			// excelize starts with one default sheet; rename it
			if err := f.SetSheetName(f.GetSheetName(0), tab); err != nil {
				return "", fmt.Errorf("failed to name sheet %s: %w", tab, err)
			}
		} else {
			if _, err := f.NewSheet(tab); err != nil {
				return "", fmt.Errorf("failed to create sheet %s: %w", tab, err)
			}
		}

		if err := w.writeTab(f, tab, export, export.Sections[section]); err != nil {
			return "", err
		}
	}

	path := w.paths.ExportPath(sanitizeFilename(export.Title) + ".xlsx")
	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("failed to save workbook: %w", err)
	}

	w.logger.InfoContext(ctx, "wrote xlsx export",
		slog.String("label", export.Label),
		slog.String("path", path))

	return path, nil
}

// writeTab lays out one sheet the same way the Sheets sink does: title and
// section rows, legend for sub-chapter exports, then the submitted and
// not-submitted blocks each under the shared column header.
func (w *WorkbookWriter) writeTab(f *excelize.File, tab string, export *domain.GradeExport, rows domain.SectionRows) error {
	line := 1
	write := func(values []interface{}) error {
		cell, err := excelize.CoordinatesToCellName(1, line)
		if err != nil {
			return err
		}
		line++
		return f.SetSheetRow(tab, cell, &values)
	}

	if err := write([]interface{}{export.Title}); err != nil {
		return fmt.Errorf("failed to write sheet %s: %w", tab, err)
	}
	if err := write([]interface{}{fmt.Sprintf("Section: %s", tab)}); err != nil {
		return fmt.Errorf("failed to write sheet %s: %w", tab, err)
	}
	if export.Kind == domain.ExportSubchapter {
		if err := write([]interface{}{"Legend:", "Blank cell = no submission"}); err != nil {
			return fmt.Errorf("failed to write sheet %s: %w", tab, err)
		}
	}
	if err := write(nil); err != nil {
		return fmt.Errorf("failed to write sheet %s: %w", tab, err)
	}

	blocks := []struct {
		title string
		rows  []domain.Row
	}{
		{"Submitted", rows.Submitted},
		{"Not submitted", rows.NotSubmitted},
	}

	for _, block := range blocks {
		if err := write([]interface{}{block.title}); err != nil {
			return fmt.Errorf("failed to write sheet %s: %w", tab, err)
		}
		if err := write(export.Header()); err != nil {
			return fmt.Errorf("failed to write sheet %s: %w", tab, err)
		}
		for _, row := range block.rows {
			if err := write(row.Values()); err != nil {
				return fmt.Errorf("failed to write sheet %s: %w", tab, err)
			}
		}
		if err := write(nil); err != nil {
			return fmt.Errorf("failed to write sheet %s: %w", tab, err)
		}
	}

	return nil
}
