package gradebook

import (
	"context"
	"encoding/csv"
	"log/slog"
	"os"
	"strings"

	apperrors "github.com/Alexico1969/project-stem-grader/internal/errors"
)

// Rosters holds the per-section enrollment lists. Sections preserves the
// configured order, which is also the resolver's iteration (and tie-break)
// order. Names within a section keep file order.
type Rosters struct {
	Sections []string
	names    map[string][]string
}

// NewRosters builds a roster set from already-loaded name lists. Sections
// absent from the map get an empty list.
func NewRosters(sections []string, names map[string][]string) *Rosters {
	r := &Rosters{
		Sections: append([]string(nil), sections...),
		names:    make(map[string][]string, len(sections)),
	}
	for _, section := range sections {
		r.names[section] = append([]string(nil), names[section]...)
	}
	return r
}

// Names returns the roster for a section, empty when none was loaded.
func (r *Rosters) Names(section string) []string {
	return r.names[section]
}

// LoadRosterFile reads one roster: one name per row in the first column,
// blank rows skipped, and a header row whose first cell case-insensitively
// equals "name" skipped as well.
func LoadRosterFile(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, apperrors.NewStorageError("failed to open roster file", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, apperrors.NewParsingError("failed to read roster file", err)
	}

	var names []string
	for _, row := range rows {
		if len(row) == 0 {
			continue
		}
		name := strings.TrimSpace(row[0])
		if name == "" || strings.EqualFold(name, "name") {
			continue
		}
		names = append(names, name)
	}
	return names, nil
}

// LoadRosters loads every section's roster via pathFor. A missing or
// unreadable file is not an error: the section simply has an empty roster,
// logged at warn level so bad paths still show up.
func LoadRosters(ctx context.Context, sections []string, pathFor func(section string) string, logger *slog.Logger) *Rosters {
	if logger == nil {
		logger = slog.Default()
	}

	names := make(map[string][]string, len(sections))
	for _, section := range sections {
		path := pathFor(section)
		list, err := LoadRosterFile(path)
		if err != nil {
			logger.WarnContext(ctx, "roster file unavailable, section gets empty roster",
				slog.String("section", section),
				slog.String("path", path),
				slog.String("error", err.Error()))
			continue
		}
		names[section] = list
		logger.InfoContext(ctx, "roster loaded",
			slog.String("section", section),
			slog.Int("names", len(list)))
	}

	rosters := NewRosters(sections, names)
	rosters.warnDuplicates(ctx, logger)
	return rosters
}

// Duplicates reports normalized names appearing in more than one section
// roster, mapped to the sections that carry them in section order. Correct
// data has none; the resolver tolerates them with first-section-wins.
func (r *Rosters) Duplicates() map[string][]string {
	owners := make(map[string][]string)
	for _, section := range r.Sections {
		seen := make(map[string]bool)
		for _, name := range r.names[section] {
			key := Normalize(name)
			if seen[key] {
				continue
			}
			seen[key] = true
			owners[key] = append(owners[key], section)
		}
	}

	dups := make(map[string][]string)
	for name, sections := range owners {
		if len(sections) > 1 {
			dups[name] = sections
		}
	}
	return dups
}

func (r *Rosters) warnDuplicates(ctx context.Context, logger *slog.Logger) {
	for name, sections := range r.Duplicates() {
		logger.WarnContext(ctx, "name appears in multiple section rosters, first section wins",
			slog.String("name", name),
			slog.Any("sections", sections))
	}
}
