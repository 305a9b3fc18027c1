package exporter

import (
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/Alexico1969/project-stem-grader/internal/config"
	"github.com/Alexico1969/project-stem-grader/internal/infrastructure"
	"github.com/Alexico1969/project-stem-grader/pkg/contracts/domain"
)

// CSVWriter writes a grade export as one CSV file per section tab.
type CSVWriter struct {
	paths  *config.Paths
	logger *slog.Logger
}

// NewCSVWriter creates a new CSV writer instance
func NewCSVWriter(paths *config.Paths, logger *slog.Logger) *CSVWriter {
	if logger == nil {
		logger = infrastructure.GetLogger()
	}
	return &CSVWriter{paths: paths, logger: logger}
}

// WriteExport writes every tab of the export to the exports directory and
// returns the created file paths. File names follow
// "<label> - <tab name>.csv".
func (w *CSVWriter) WriteExport(ctx context.Context, export *domain.GradeExport) ([]string, error) {
	if err := os.MkdirAll(w.paths.ExportsDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create exports directory: %w", err)
	}

	var files []string
	for _, section := range export.SectionOrder {
		rows := export.Sections[section]
		name := fmt.Sprintf("%s - %s.csv", sanitizeFilename(export.Label), domain.TabName(section))
		path := w.paths.ExportPath(name)

		if err := w.writeTab(path, export, rows); err != nil {
			return nil, err
		}
		files = append(files, path)
	}

	w.logger.InfoContext(ctx, "wrote CSV export",
		slog.String("label", export.Label),
		slog.Int("files", len(files)))

	return files, nil
}

// writeTab writes one section's CSV: header line, the submitted block,
// a blank line, then the not-submitted block.
func (w *CSVWriter) writeTab(path string, export *domain.GradeExport, rows domain.SectionRows) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	// UTF-8 BOM so Excel recognizes the encoding
	if _, err := file.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
		return fmt.Errorf("failed to write BOM: %w", err)
	}

	writer := csv.NewWriter(file)
	defer writer.Flush()

	header := append([]string{"Last Name", "First Name"}, export.Assignments...)
	header = append(header, "Total")
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write headers: %w", err)
	}

	for _, row := range rows.Submitted {
		if err := writer.Write(rowStrings(row)); err != nil {
			return fmt.Errorf("failed to write record: %w", err)
		}
	}

	if len(rows.NotSubmitted) > 0 {
		blank := make([]string, len(header))
		if err := writer.Write(blank); err != nil {
			return fmt.Errorf("failed to write separator: %w", err)
		}
		for _, row := range rows.NotSubmitted {
			if err := writer.Write(rowStrings(row)); err != nil {
				return fmt.Errorf("failed to write record: %w", err)
			}
		}
	}

	return writer.Error()
}

func rowStrings(row domain.Row) []string {
	out := make([]string, 0, len(row.Cells)+3)
	out = append(out, row.LastName, row.FirstName)
	for _, cell := range row.Cells {
		out = append(out, cellString(cell))
	}
	return append(out, strconv.FormatFloat(row.Total, 'f', -1, 64))
}

func cellString(cell interface{}) string {
	switch v := cell.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", v)
	}
}

func sanitizeFilename(name string) string {
	replacer := strings.NewReplacer("/", "-", "\\", "-", ":", "-", "*", "", "?", "", "\"", "", "<", "", ">", "", "|", "")
	return replacer.Replace(name)
}
