package exporter

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/Alexico1969/project-stem-grader/pkg/contracts/domain"
)

func TestWorkbookWriterWriteExport(t *testing.T) {
	paths := testPaths(t)
	writer := NewWorkbookWriter(paths, nil)

	path, err := writer.WriteExport(context.Background(), testExport())
	require.NoError(t, err)
	assert.Equal(t, "Assignment Grades - 1.4 Quiz.xlsx", filepath.Base(path))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.ElementsMatch(t, []string{"F2 Section", "Other Students"}, f.GetSheetList())

	rows, err := f.GetRows("F2 Section")
	require.NoError(t, err)

	// title, section, blank, "Submitted", header, Jane, blank,
	// "Not submitted", header, John
	require.GreaterOrEqual(t, len(rows), 10)
	assert.Equal(t, "Assignment Grades - 1.4 Quiz", rows[0][0])
	assert.Equal(t, "Section: F2 Section", rows[1][0])
	assert.Equal(t, "Submitted", rows[3][0])
	assert.Equal(t, []string{"Last Name", "First Name", "1.4 Quiz", "Total"}, rows[4])
	assert.Equal(t, "Smith", rows[5][0])
	assert.Equal(t, "Not submitted", rows[7][0])
	assert.Equal(t, "Doe", rows[9][0])
}

func TestWorkbookWriterSubchapterLegend(t *testing.T) {
	paths := testPaths(t)
	writer := NewWorkbookWriter(paths, nil)

	export := testExport()
	export.Kind = domain.ExportSubchapter
	export.Title = "Subchapter 1.4 Grades"

	path, err := writer.WriteExport(context.Background(), export)
	require.NoError(t, err)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("F2 Section")
	require.NoError(t, err)
	require.Greater(t, len(rows), 2)
	assert.Equal(t, "Legend:", rows[2][0])
}
