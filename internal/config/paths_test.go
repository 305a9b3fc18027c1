package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveAgainst(t *testing.T) {
	assert.Equal(t, filepath.Join("/base", "grades.csv"), resolveAgainst("/base", "grades.csv"))
	assert.Equal(t, "/abs/grades.csv", resolveAgainst("/base", "/abs/grades.csv"))
}

func TestPathsHelpers(t *testing.T) {
	p := &Paths{
		ExecutableDir: "/base",
		ExportsDir:    "/base/exports",
		LogsDir:       "/base/logs",
		cfg:           GradebookConfig{RosterTemplate: "%s - names.csv"},
	}

	assert.Equal(t, filepath.Join("/base", "F2 - names.csv"), p.RosterPath("F2"))
	assert.Equal(t, filepath.Join("/base/exports", "out.xlsx"), p.ExportPath("out.xlsx"))
	assert.Equal(t, filepath.Join("/base/logs", "grader.log"), p.GetLogPath("grader.log"))
}

func TestEnsureDirectories(t *testing.T) {
	dir := t.TempDir()
	p := &Paths{
		ExportsDir: filepath.Join(dir, "exports"),
		LogsDir:    filepath.Join(dir, "logs"),
	}

	require.NoError(t, p.EnsureDirectories())
	assert.DirExists(t, p.ExportsDir)
	assert.DirExists(t, p.LogsDir)
}
