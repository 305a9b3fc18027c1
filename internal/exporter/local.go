package exporter

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/Alexico1969/project-stem-grader/internal/config"
	"github.com/Alexico1969/project-stem-grader/internal/infrastructure"
	"github.com/Alexico1969/project-stem-grader/pkg/contracts/domain"
)

// LocalSink writes exports to the local exports directory instead of
// Google Sheets. It produces both an xlsx workbook and per-tab CSV files
// and reports the workbook path as the export location.
type LocalSink struct {
	workbook *WorkbookWriter
	csv      *CSVWriter
	logger   *slog.Logger
}

// NewLocalSink creates a sink backed by the local filesystem.
func NewLocalSink(paths *config.Paths, logger *slog.Logger) *LocalSink {
	if logger == nil {
		logger = infrastructure.GetLogger()
	}
	return &LocalSink{
		workbook: NewWorkbookWriter(paths, logger),
		csv:      NewCSVWriter(paths, logger),
		logger:   logger.With(slog.String("component", "local_sink")),
	}
}

// Export writes the workbook and CSV files and returns the workbook path.
func (s *LocalSink) Export(ctx context.Context, export *domain.GradeExport) (string, error) {
	files, err := s.csv.WriteExport(ctx, export)
	if err != nil {
		return "", err
	}

	path, err := s.workbook.WriteExport(ctx, export)
	if err != nil {
		return "", err
	}

	s.logger.InfoContext(ctx, "local export written",
		slog.String("workbook", path),
		slog.String("csv_files", strconv.Itoa(len(files))))

	return path, nil
}
