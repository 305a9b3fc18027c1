package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/Alexico1969/project-stem-grader/internal/config"
	"github.com/Alexico1969/project-stem-grader/internal/infrastructure"
	"github.com/Alexico1969/project-stem-grader/internal/gradebook"
	"github.com/Alexico1969/project-stem-grader/pkg/contracts/domain"
)

// ExportSink consumes a grade export and returns a location reference for
// the created document. Implemented by the Google Sheets exporter; tests
// substitute a fake.
type ExportSink interface {
	Export(ctx context.Context, export *domain.GradeExport) (string, error)
}

// GradebookService owns the loaded grade-table and roster snapshots and
// implements the lookup and export operations.
type GradebookService struct {
	table   *gradebook.Table
	rosters *gradebook.Rosters
	sink    ExportSink
	logger  *slog.Logger
}

// NewGradebookService loads the grade table (fatal when missing) and the
// per-section rosters (each optional), returning a ready service. The sink
// may be nil when spreadsheet export is disabled.
func NewGradebookService(ctx context.Context, cfg config.GradebookConfig, paths *config.Paths, sink ExportSink, logger *slog.Logger) (*GradebookService, error) {
	if logger == nil {
		logger = infrastructure.GetLogger()
	}

	table, err := gradebook.LoadTableFile(paths.GradesFile)
	if err != nil {
		return nil, fmt.Errorf("load grade table: %w", err)
	}

	rosters := gradebook.LoadRosters(ctx, cfg.Sections, paths.RosterPath, logger)

	logger.InfoContext(ctx, "gradebook loaded",
		slog.Int("students", len(table.Students)),
		slog.Int("assignments", len(table.Assignments)),
		slog.Any("sections", cfg.Sections))

	return &GradebookService{
		table:   table,
		rosters: rosters,
		sink:    sink,
		logger:  logger.With(slog.String("component", "gradebook_service")),
	}, nil
}

// NewGradebookServiceFromSnapshots builds a service over already-loaded
// snapshots. Used by tests and by callers that parse rows themselves.
func NewGradebookServiceFromSnapshots(table *gradebook.Table, rosters *gradebook.Rosters, sink ExportSink, logger *slog.Logger) *GradebookService {
	if logger == nil {
		logger = infrastructure.GetLogger()
	}
	return &GradebookService{
		table:   table,
		rosters: rosters,
		sink:    sink,
		logger:  logger.With(slog.String("component", "gradebook_service")),
	}
}

// Assignments returns the assignment names in source header order.
func (s *GradebookService) Assignments() []string {
	return s.table.Assignments
}

// SubChapters returns the distinct assignment-name prefixes.
func (s *GradebookService) SubChapters() []string {
	return s.table.SubChapters()
}

// Students returns every student name in display order, sorted.
func (s *GradebookService) Students() []string {
	return s.table.DisplayNames()
}

// GradeResult is the answer to a single (student, assignment) lookup.
type GradeResult struct {
	Student    string `json:"student"`
	StudentID  string `json:"student_id"`
	Assignment string `json:"assignment"`
	Grade      string `json:"grade"`
	Submitted  bool   `json:"submitted"`
}

// LookupGrade finds one student's grade on one assignment. The student
// name may be in either supported form; matching follows the same
// exact-then-loose policy as section resolution.
func (s *GradebookService) LookupGrade(ctx context.Context, studentName, assignment string) (*GradeResult, error) {
	if !s.hasAssignment(assignment) {
		return nil, ErrAssignmentNotFound
	}

	student := s.table.FindStudent(studentName)
	if student == nil {
		return nil, ErrStudentNotFound
	}

	grade := student.Grade(assignment)
	return &GradeResult{
		Student:    gradebook.DisplayOrder(student.RawName),
		StudentID:  student.ID,
		Assignment: assignment,
		Grade:      grade.String(),
		Submitted:  !grade.IsAbsent(),
	}, nil
}

// Assignment categories, checked in order; first substring hit wins.
var gradeCategories = []string{"Lesson Practice", "Code Practice", "Assignment", "Quiz", "Test"}

// CategoryGrades is one category block of a student's grade report.
type CategoryGrades struct {
	Category string      `json:"category"`
	Grades   []GradeItem `json:"grades"`
}

// GradeItem is one graded assignment.
type GradeItem struct {
	Assignment string `json:"assignment"`
	Grade      string `json:"grade"`
}

// StudentGradesResult is a student's full grade report, grouped by
// assignment category.
type StudentGradesResult struct {
	Student    string           `json:"student"`
	StudentID  string           `json:"student_id"`
	Section    string           `json:"section"`
	Categories []CategoryGrades `json:"categories"`
	Completed  int              `json:"completed"`
}

// StudentGrades collects every non-absent grade a student has, grouped
// into the platform's assignment categories in assignment header order.
func (s *GradebookService) StudentGrades(ctx context.Context, studentName string) (*StudentGradesResult, error) {
	student := s.table.FindStudent(studentName)
	if student == nil {
		return nil, ErrStudentNotFound
	}

	grouped := make(map[string][]GradeItem)
	completed := 0
	for _, assignment := range s.table.Assignments {
		grade := student.Grade(assignment)
		if grade.IsAbsent() {
			continue
		}
		completed++
		category := categorize(assignment)
		grouped[category] = append(grouped[category], GradeItem{
			Assignment: assignment,
			Grade:      grade.String(),
		})
	}

	result := &StudentGradesResult{
		Student:   gradebook.DisplayOrder(student.RawName),
		StudentID: student.ID,
		Section:   gradebook.SectionOrDefault(student.RawName, s.rosters),
		Completed: completed,
	}
	for _, category := range append(gradeCategories, "Other") {
		if items := grouped[category]; len(items) > 0 {
			result.Categories = append(result.Categories, CategoryGrades{
				Category: category,
				Grades:   items,
			})
		}
	}

	return result, nil
}

func categorize(assignment string) string {
	for _, category := range gradeCategories {
		if strings.Contains(assignment, category) {
			return category
		}
	}
	return "Other"
}

// SectionGradeRow is one student's line in an assignment report: blank
// grade when nothing was submitted so the student still appears.
type SectionGradeRow struct {
	LastName  string `json:"last_name"`
	FirstName string `json:"first_name"`
	Grade     string `json:"grade"`
}

// SectionGrades is one section's slice of an assignment report.
type SectionGrades struct {
	Section string            `json:"section"`
	Rows    []SectionGradeRow `json:"rows"`
}

// AssignmentGradesResult is the full per-section report for one
// assignment. Statistics is nil when no numeric grade exists.
type AssignmentGradesResult struct {
	Assignment string                `json:"assignment"`
	Sections   []SectionGrades       `json:"sections"`
	Students   int                   `json:"students"`
	Statistics *gradebook.Statistics `json:"statistics,omitempty"`
}

// AssignmentGrades groups every student's grade on one assignment by
// resolved section, sorted by last name, with overall numeric statistics.
func (s *GradebookService) AssignmentGrades(ctx context.Context, assignment string) (*AssignmentGradesResult, error) {
	if !s.hasAssignment(assignment) {
		return nil, ErrAssignmentNotFound
	}

	agg := gradebook.Aggregate(s.table, gradebook.ExactFilter(assignment), s.rosters)

	result := &AssignmentGradesResult{Assignment: assignment}
	for _, section := range agg.SectionOrder {
		bucket := agg.Sections[section]
		rows := make([]SectionGradeRow, 0, len(bucket.Submitted)+len(bucket.NotSubmitted))
		for _, row := range mergeByLastName(bucket.Submitted, bucket.NotSubmitted) {
			grade := ""
			if len(row.Cells) > 0 {
				grade = row.Cells[0].String()
			}
			rows = append(rows, SectionGradeRow{
				LastName:  row.LastName,
				FirstName: row.FirstName,
				Grade:     grade,
			})
		}
		result.Students += len(rows)
		result.Sections = append(result.Sections, SectionGrades{Section: section, Rows: rows})
	}

	if stats, ok := agg.Statistics(); ok {
		result.Statistics = &stats
	}

	return result, nil
}

// mergeByLastName recombines the submitted/not-submitted split into one
// last-name-sorted list for display surfaces that show blanks inline.
func mergeByLastName(submitted, notSubmitted []gradebook.AggregatedRow) []gradebook.AggregatedRow {
	merged := make([]gradebook.AggregatedRow, 0, len(submitted)+len(notSubmitted))
	i, j := 0, 0
	for i < len(submitted) && j < len(notSubmitted) {
		if strings.ToLower(submitted[i].LastName) <= strings.ToLower(notSubmitted[j].LastName) {
			merged = append(merged, submitted[i])
			i++
		} else {
			merged = append(merged, notSubmitted[j])
			j++
		}
	}
	merged = append(merged, submitted[i:]...)
	return append(merged, notSubmitted[j:]...)
}

// ExportResult reports a finished export.
type ExportResult struct {
	ExportID string `json:"export_id"`
	Label    string `json:"label"`
	URL      string `json:"url"`
}

// ExportAssignment exports one assignment's grades to the sink, one tab
// per section.
func (s *GradebookService) ExportAssignment(ctx context.Context, assignment string) (*ExportResult, error) {
	if s.sink == nil {
		return nil, ErrExportDisabled
	}
	if !s.hasAssignment(assignment) {
		return nil, ErrAssignmentNotFound
	}

	export := s.BuildExport(domain.ExportAssignment, assignment,
		fmt.Sprintf("Assignment Grades - %s", assignment),
		gradebook.ExactFilter(assignment))

	return s.runExport(ctx, export)
}

// ExportSubchapter exports every assignment sharing the prefix, one tab
// per section, each split into submitted and not-submitted blocks.
func (s *GradebookService) ExportSubchapter(ctx context.Context, prefix string) (*ExportResult, error) {
	if s.sink == nil {
		return nil, ErrExportDisabled
	}

	prefix = strings.TrimSpace(prefix)
	if len(s.table.MatchingAssignments(prefix)) == 0 {
		return nil, ErrNoAssignments
	}

	export := s.BuildExport(domain.ExportSubchapter, prefix,
		fmt.Sprintf("Subchapter %s Grades", prefix),
		gradebook.PrefixFilter(prefix))

	return s.runExport(ctx, export)
}

func (s *GradebookService) runExport(ctx context.Context, export *domain.GradeExport) (*ExportResult, error) {
	exportID := uuid.NewString()
	s.logger.InfoContext(ctx, "starting export",
		slog.String("export_id", exportID),
		slog.String("kind", string(export.Kind)),
		slog.String("label", export.Label))

	url, err := s.sink.Export(ctx, export)
	if err != nil {
		s.logger.ErrorContext(ctx, "export failed",
			slog.String("export_id", exportID),
			slog.String("error", err.Error()))
		return nil, err
	}

	return &ExportResult{
		ExportID: exportID,
		Label:    export.Label,
		URL:      url,
	}, nil
}

// BuildExport aggregates the table under the filter and shapes the result
// into the sink contract. Exposed so local exporters (CSV, xlsx) can share
// the exact payload the Sheets sink receives.
func (s *GradebookService) BuildExport(kind domain.ExportKind, label, title string, filter gradebook.AssignmentFilter) *domain.GradeExport {
	agg := gradebook.Aggregate(s.table, filter, s.rosters)

	export := &domain.GradeExport{
		Kind:         kind,
		Title:        title,
		Label:        label,
		Assignments:  agg.Assignments,
		SectionOrder: agg.SectionOrder,
		Sections:     make(map[string]domain.SectionRows, len(agg.SectionOrder)),
	}

	for _, section := range agg.SectionOrder {
		bucket := agg.Sections[section]
		export.Sections[section] = domain.SectionRows{
			Submitted:    toRows(bucket.Submitted),
			NotSubmitted: toRows(bucket.NotSubmitted),
		}
	}

	return export
}

func toRows(rows []gradebook.AggregatedRow) []domain.Row {
	out := make([]domain.Row, 0, len(rows))
	for _, row := range rows {
		cells := make([]interface{}, 0, len(row.Cells))
		for _, cell := range row.Cells {
			cells = append(cells, cell.Value())
		}
		out = append(out, domain.Row{
			LastName:  row.LastName,
			FirstName: row.FirstName,
			Cells:     cells,
			Total:     row.Total,
		})
	}
	return out
}

func (s *GradebookService) hasAssignment(assignment string) bool {
	for _, a := range s.table.Assignments {
		if a == assignment {
			return true
		}
	}
	return false
}
