package exporter

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alexico1969/project-stem-grader/internal/config"
	"github.com/Alexico1969/project-stem-grader/pkg/contracts/domain"
)

func testExport() *domain.GradeExport {
	return &domain.GradeExport{
		Kind:         domain.ExportAssignment,
		Title:        "Assignment Grades - 1.4 Quiz",
		Label:        "1.4 Quiz",
		Assignments:  []string{"1.4 Quiz"},
		SectionOrder: []string{"F2", "Other"},
		Sections: map[string]domain.SectionRows{
			"F2": {
				Submitted: []domain.Row{
					{LastName: "Smith", FirstName: "Jane", Cells: []interface{}{18.0}, Total: 18},
				},
				NotSubmitted: []domain.Row{
					{LastName: "Doe", FirstName: "John", Cells: []interface{}{""}, Total: 0},
				},
			},
			"Other": {
				Submitted: []domain.Row{
					{LastName: "Ghost", FirstName: "Casper", Cells: []interface{}{"Excused"}, Total: 0},
				},
			},
		},
	}
}

func testPaths(t *testing.T) *config.Paths {
	t.Helper()
	return &config.Paths{ExportsDir: t.TempDir()}
}

func TestCSVWriterWriteExport(t *testing.T) {
	paths := testPaths(t)
	writer := NewCSVWriter(paths, nil)

	files, err := writer.WriteExport(context.Background(), testExport())
	require.NoError(t, err)
	require.Len(t, files, 2)

	assert.Equal(t, "1.4 Quiz - F2 Section.csv", filepath.Base(files[0]))
	assert.Equal(t, "1.4 Quiz - Other Students.csv", filepath.Base(files[1]))

	raw, err := os.ReadFile(files[0])
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(raw), "\xEF\xBB\xBF"), "file carries a UTF-8 BOM")

	reader := csv.NewReader(strings.NewReader(strings.TrimPrefix(string(raw), "\xEF\xBB\xBF")))
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	require.NoError(t, err)

	require.Len(t, rows, 4)
	assert.Equal(t, []string{"Last Name", "First Name", "1.4 Quiz", "Total"}, rows[0])
	assert.Equal(t, []string{"Smith", "Jane", "18", "18"}, rows[1])
	assert.Equal(t, []string{"", "", "", ""}, rows[2], "blank separator before the not-submitted block")
	assert.Equal(t, []string{"Doe", "John", "", "0"}, rows[3])
}

func TestCSVWriterNoNotSubmittedBlock(t *testing.T) {
	paths := testPaths(t)
	writer := NewCSVWriter(paths, nil)

	files, err := writer.WriteExport(context.Background(), testExport())
	require.NoError(t, err)

	raw, err := os.ReadFile(files[1])
	require.NoError(t, err)

	reader := csv.NewReader(strings.NewReader(strings.TrimPrefix(string(raw), "\xEF\xBB\xBF")))
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2, "no separator when every student submitted")
	assert.Equal(t, []string{"Ghost", "Casper", "Excused", "0"}, rows[1])
}

func TestSanitizeFilename(t *testing.T) {
	assert.Equal(t, "1.4 Quiz", sanitizeFilename("1.4 Quiz"))
	assert.Equal(t, "a-b-c", sanitizeFilename("a/b:c"))
	assert.Equal(t, "what", sanitizeFilename("what?"))
}

func TestLocalSinkExport(t *testing.T) {
	paths := testPaths(t)
	sink := NewLocalSink(paths, nil)

	location, err := sink.Export(context.Background(), testExport())
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(location, ".xlsx"))

	_, err = os.Stat(location)
	assert.NoError(t, err)
}
