package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// Paths resolves configured file locations against the executable
// directory, so the binaries behave the same regardless of the working
// directory they are launched from.
type Paths struct {
	ExecutableDir string
	GradesFile    string
	ExportsDir    string
	LogsDir       string

	cfg GradebookConfig
}

// GetPaths resolves all paths for the given gradebook configuration.
func GetPaths(cfg GradebookConfig) (*Paths, error) {
	exe, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("failed to get executable path: %v", err)
	}
	exe, err = filepath.EvalSymlinks(exe)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve executable symlinks: %v", err)
	}
	exeDir := filepath.Dir(exe)

	return &Paths{
		ExecutableDir: exeDir,
		GradesFile:    resolveAgainst(exeDir, cfg.GradesFile),
		ExportsDir:    resolveAgainst(exeDir, cfg.ExportsDir),
		LogsDir:       filepath.Join(exeDir, "logs"),
		cfg:           cfg,
	}, nil
}

// RosterPath returns the resolved roster file path for one section.
func (p *Paths) RosterPath(section string) string {
	return resolveAgainst(p.ExecutableDir, p.cfg.RosterPath(section))
}

// ExportPath returns a path inside the exports directory.
func (p *Paths) ExportPath(filename string) string {
	return filepath.Join(p.ExportsDir, filename)
}

// GetLogPath returns a path inside the logs directory.
func (p *Paths) GetLogPath(filename string) string {
	return filepath.Join(p.LogsDir, filename)
}

// EnsureDirectories creates the writable directories if missing. Input
// locations (grades file, rosters) are deliberately not created: their
// absence is meaningful to the loaders.
func (p *Paths) EnsureDirectories() error {
	for _, dir := range []string{p.ExportsDir, p.LogsDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

func resolveAgainst(base, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(base, path)
}
