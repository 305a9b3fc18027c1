package http

import (
	"context"

	"github.com/Alexico1969/project-stem-grader/internal/services"
)

// GradebookServiceInterface defines the service surface the HTTP handlers
// need. Handlers depend on this rather than the concrete service so tests
// can substitute fakes.
type GradebookServiceInterface interface {
	Assignments() []string
	SubChapters() []string
	Students() []string
	LookupGrade(ctx context.Context, studentName, assignment string) (*services.GradeResult, error)
	StudentGrades(ctx context.Context, studentName string) (*services.StudentGradesResult, error)
	AssignmentGrades(ctx context.Context, assignment string) (*services.AssignmentGradesResult, error)
	ExportAssignment(ctx context.Context, assignment string) (*services.ExportResult, error)
	ExportSubchapter(ctx context.Context, prefix string) (*services.ExportResult, error)
}
