package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alexico1969/project-stem-grader/internal/gradebook"
	"github.com/Alexico1969/project-stem-grader/pkg/contracts/domain"
)

// fakeSink records the export payload it receives.
type fakeSink struct {
	lastExport *domain.GradeExport
	url        string
	err        error
}

func (f *fakeSink) Export(ctx context.Context, export *domain.GradeExport) (string, error) {
	f.lastExport = export
	if f.err != nil {
		return "", f.err
	}
	return f.url, nil
}

func newTestService(t *testing.T, sink ExportSink) *GradebookService {
	t.Helper()
	table, err := gradebook.LoadTable([][]string{
		{"Student", "ID", "A", "B", "C", "1.4 Lesson Practice", "1.4 Code Practice", "1.12 Quiz", "Unit 1 Test"},
		{"Points Possible", "", "", "", "", "10", "10", "20", "100"},
		{"Smith, Jane", "1001", "", "", "", "10", "", "18", "92"},
		{"Mantaring, Riley", "1002", "", "", "", "", "Excused", "15", ""},
		{"Ghost, Casper", "1003", "", "", "", "", "", "", ""},
	})
	require.NoError(t, err)

	rosters := gradebook.NewRosters([]string{"F2", "F5"}, map[string][]string{
		"F2": {"Jane Smith"},
		"F5": {"Riley Sky Mantaring"},
	})

	return NewGradebookServiceFromSnapshots(table, rosters, sink, nil)
}

func TestLookupGrade(t *testing.T) {
	svc := newTestService(t, nil)
	ctx := context.Background()

	result, err := svc.LookupGrade(ctx, "Jane Smith", "1.4 Lesson Practice")
	require.NoError(t, err)
	assert.Equal(t, "Jane Smith", result.Student)
	assert.Equal(t, "1001", result.StudentID)
	assert.Equal(t, "10", result.Grade)
	assert.True(t, result.Submitted)

	// absent cell: found, but not submitted
	result, err = svc.LookupGrade(ctx, "Smith, Jane", "1.4 Code Practice")
	require.NoError(t, err)
	assert.Equal(t, "", result.Grade)
	assert.False(t, result.Submitted)

	_, err = svc.LookupGrade(ctx, "Nobody Here", "1.4 Lesson Practice")
	assert.ErrorIs(t, err, ErrStudentNotFound)

	_, err = svc.LookupGrade(ctx, "Jane Smith", "No Such Assignment")
	assert.ErrorIs(t, err, ErrAssignmentNotFound)
}

func TestStudentGrades(t *testing.T) {
	svc := newTestService(t, nil)

	result, err := svc.StudentGrades(context.Background(), "Riley Sky Mantaring")
	require.NoError(t, err)

	assert.Equal(t, "Riley Mantaring", result.Student)
	assert.Equal(t, "F5", result.Section)
	assert.Equal(t, 2, result.Completed)

	// categories appear in fixed order, empty ones omitted
	require.Len(t, result.Categories, 2)
	assert.Equal(t, "Code Practice", result.Categories[0].Category)
	assert.Equal(t, "Excused", result.Categories[0].Grades[0].Grade)
	assert.Equal(t, "Quiz", result.Categories[1].Category)

	_, err = svc.StudentGrades(context.Background(), "Nobody Here")
	assert.ErrorIs(t, err, ErrStudentNotFound)
}

func TestStudentGradesCategoryOrder(t *testing.T) {
	svc := newTestService(t, nil)

	result, err := svc.StudentGrades(context.Background(), "Jane Smith")
	require.NoError(t, err)

	var categories []string
	for _, c := range result.Categories {
		categories = append(categories, c.Category)
	}
	assert.Equal(t, []string{"Lesson Practice", "Quiz", "Test"}, categories)
}

func TestAssignmentGrades(t *testing.T) {
	svc := newTestService(t, nil)

	result, err := svc.AssignmentGrades(context.Background(), "1.12 Quiz")
	require.NoError(t, err)

	assert.Equal(t, "1.12 Quiz", result.Assignment)
	assert.Equal(t, 3, result.Students)
	require.Len(t, result.Sections, 3)
	assert.Equal(t, "F2", result.Sections[0].Section)
	assert.Equal(t, "18", result.Sections[0].Rows[0].Grade)

	// unmatched student appears with a blank grade in Other
	other := result.Sections[2]
	assert.Equal(t, "Other", other.Section)
	require.Len(t, other.Rows, 1)
	assert.Equal(t, "Ghost", other.Rows[0].LastName)
	assert.Equal(t, "", other.Rows[0].Grade)

	require.NotNil(t, result.Statistics)
	assert.Equal(t, 2, result.Statistics.Count)
	assert.InDelta(t, 16.5, result.Statistics.Mean, 0.001)

	_, err = svc.AssignmentGrades(context.Background(), "No Such Assignment")
	assert.ErrorIs(t, err, ErrAssignmentNotFound)
}

func TestExportAssignment(t *testing.T) {
	sink := &fakeSink{url: "https://docs.google.com/spreadsheets/d/test"}
	svc := newTestService(t, sink)

	result, err := svc.ExportAssignment(context.Background(), "1.12 Quiz")
	require.NoError(t, err)
	assert.Equal(t, sink.url, result.URL)
	assert.NotEmpty(t, result.ExportID)
	assert.Equal(t, "1.12 Quiz", result.Label)

	export := sink.lastExport
	require.NotNil(t, export)
	assert.Equal(t, domain.ExportAssignment, export.Kind)
	assert.Equal(t, "Assignment Grades - 1.12 Quiz", export.Title)
	assert.Equal(t, []string{"1.12 Quiz"}, export.Assignments)
	assert.Equal(t, []string{"F2", "F5", "Other"}, export.SectionOrder)
	assert.Equal(t,
		[]interface{}{"Last Name", "First Name", "1.12 Quiz", "Total"},
		export.Header())

	f2 := export.Sections["F2"]
	require.Len(t, f2.Submitted, 1)
	assert.Equal(t, []interface{}{"Smith", "Jane", 18.0, 18.0}, f2.Submitted[0].Values())
}

func TestExportAssignmentErrors(t *testing.T) {
	sink := &fakeSink{url: "x"}
	svc := newTestService(t, sink)

	_, err := svc.ExportAssignment(context.Background(), "No Such Assignment")
	assert.ErrorIs(t, err, ErrAssignmentNotFound)

	svc = newTestService(t, nil)
	_, err = svc.ExportAssignment(context.Background(), "1.12 Quiz")
	assert.ErrorIs(t, err, ErrExportDisabled)
}

func TestExportAssignmentSinkFailure(t *testing.T) {
	sinkErr := errors.New("sheets unavailable")
	sink := &fakeSink{err: sinkErr}
	svc := newTestService(t, sink)

	_, err := svc.ExportAssignment(context.Background(), "1.12 Quiz")
	assert.ErrorIs(t, err, sinkErr)
}

func TestExportSubchapter(t *testing.T) {
	sink := &fakeSink{url: "https://docs.google.com/spreadsheets/d/test"}
	svc := newTestService(t, sink)

	result, err := svc.ExportSubchapter(context.Background(), "1.4")
	require.NoError(t, err)
	assert.Equal(t, "1.4", result.Label)

	export := sink.lastExport
	require.NotNil(t, export)
	assert.Equal(t, domain.ExportSubchapter, export.Kind)
	assert.Equal(t, "Subchapter 1.4 Grades", export.Title)
	assert.Equal(t, []string{"1.4 Lesson Practice", "1.4 Code Practice"}, export.Assignments)

	// text grade is a submission with zero numeric total
	f5 := export.Sections["F5"]
	require.Len(t, f5.Submitted, 1)
	assert.Equal(t, []interface{}{"Mantaring", "Riley", "", "Excused", 0.0}, f5.Submitted[0].Values())
}

func TestExportSubchapterNoMatches(t *testing.T) {
	sink := &fakeSink{url: "x"}
	svc := newTestService(t, sink)

	_, err := svc.ExportSubchapter(context.Background(), "9.9")
	assert.ErrorIs(t, err, ErrNoAssignments)
	assert.Nil(t, sink.lastExport)
}

func TestAssignmentsAndSubChapters(t *testing.T) {
	svc := newTestService(t, nil)

	assert.Equal(t,
		[]string{"1.4 Lesson Practice", "1.4 Code Practice", "1.12 Quiz", "Unit 1 Test"},
		svc.Assignments())
	assert.Equal(t, []string{"1.4", "1.12", "Unit"}, svc.SubChapters())
	assert.Equal(t, []string{"Casper Ghost", "Jane Smith", "Riley Mantaring"}, svc.Students())
}
