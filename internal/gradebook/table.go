package gradebook

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/xuri/excelize/v2"

	apperrors "github.com/Alexico1969/project-stem-grader/internal/errors"
)

// metadataColumns is the number of leading student-metadata columns in a
// grade export: name, id, and three platform columns the loader ignores.
const metadataColumns = 5

// StudentRecord is one row of the grade export. RawName is kept verbatim,
// typically "Last, First" as exported by the course platform.
type StudentRecord struct {
	RawName string
	ID      string
	Grades  map[string]Grade
}

// Grade looks up one assignment's grade. Assignments missing from a short
// source row read as absent.
func (s *StudentRecord) Grade(assignment string) Grade {
	if g, ok := s.Grades[assignment]; ok {
		return g
	}
	return Grade{Kind: GradeAbsent}
}

// Table is the immutable in-memory form of a grade export. Assignments keeps
// the source header order; Students keeps the source row order.
type Table struct {
	Assignments []string
	Students    []StudentRecord
}

// LoadTable builds a Table from raw rows. The first row is the header
// (metadata columns then one column per assignment), the second row is the
// points-possible row and is discarded, and every following row is one
// student. Rows whose first cell is blank after trimming are skipped. Short
// rows are tolerated: trailing assignments simply read as absent.
func LoadTable(rows [][]string) (*Table, error) {
	if len(rows) < 2 {
		return nil, apperrors.NewParsingError("grade export needs a header row and a points row", nil)
	}

	header := rows[0]
	if len(header) < metadataColumns {
		return nil, apperrors.NewParsingError(
			fmt.Sprintf("grade export header has %d columns, need at least %d", len(header), metadataColumns), nil)
	}

	table := &Table{Assignments: append([]string(nil), header[metadataColumns:]...)}

	// rows[1] is points-possible, not student data
	for _, row := range rows[2:] {
		if len(row) == 0 || strings.TrimSpace(row[0]) == "" {
			continue
		}

		record := StudentRecord{
			RawName: strings.TrimSpace(row[0]),
			Grades:  make(map[string]Grade, len(table.Assignments)),
		}
		if len(row) > 1 {
			record.ID = row[1]
		}

		for i, assignment := range table.Assignments {
			col := i + metadataColumns
			if col < len(row) {
				record.Grades[assignment] = ParseGrade(row[col])
			} else {
				record.Grades[assignment] = Grade{Kind: GradeAbsent}
			}
		}

		table.Students = append(table.Students, record)
	}

	return table, nil
}

// LoadTableFile reads a grade export from disk, accepting either a CSV file
// or an xlsx workbook (first sheet) keyed on the file extension. A missing
// file is a storage error: the grade table is mandatory for a session.
func LoadTableFile(path string) (*Table, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		return loadTableXLSX(path)
	default:
		return loadTableCSV(path)
	}
}

func loadTableCSV(path string) (*Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, apperrors.NewStorageError("failed to open grade export", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1 // rows may be short
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, apperrors.NewParsingError("failed to read grade export CSV", err)
	}

	return LoadTable(rows)
}

func loadTableXLSX(path string) (*Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, apperrors.NewStorageError("failed to open grade export workbook", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, apperrors.NewParsingError("grade export workbook has no sheets", nil)
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, apperrors.NewParsingError("failed to read grade export sheet", err)
	}

	return LoadTable(rows)
}

// DisplayNames returns every student's name flipped into display order and
// sorted, the list offered to callers for selection.
func (t *Table) DisplayNames() []string {
	names := make([]string, 0, len(t.Students))
	for _, s := range t.Students {
		names = append(names, DisplayOrder(s.RawName))
	}
	sort.Strings(names)
	return names
}

// FindStudent locates a student record by name using the same two-stage
// policy as section resolution: exact normalized match on the display-order
// form first, then the loose {first, last} token-set match. Returns nil when
// no record matches.
func (t *Table) FindStudent(name string) *StudentRecord {
	want := Normalize(DisplayOrder(name))

	for i := range t.Students {
		student := &t.Students[i]
		have := Normalize(DisplayOrder(student.RawName))

		if want == have {
			return student
		}
		if looseEqual(want, have) {
			return student
		}
	}
	return nil
}

// SubChapters lists the distinct leading tokens of assignment names in
// first-appearance order, e.g. "1.4" from "1.4 Lesson Practice".
func (t *Table) SubChapters() []string {
	seen := make(map[string]bool)
	var prefixes []string
	for _, a := range t.Assignments {
		fields := strings.Fields(a)
		if len(fields) == 0 {
			continue
		}
		tok := fields[0]
		if !seen[tok] {
			seen[tok] = true
			prefixes = append(prefixes, tok)
		}
	}
	return prefixes
}

// MatchingAssignments returns, in header order, every assignment whose
// trimmed name starts with the given prefix. This is a raw string-prefix
// test: prefix "1.1" also selects "1.12 Quiz". Kept that loose on purpose;
// the selection prefixes offered by SubChapters are whole leading tokens,
// so in practice collisions only occur between genuinely overlapping
// chapter numbers.
func (t *Table) MatchingAssignments(prefix string) []string {
	var matching []string
	for _, a := range t.Assignments {
		if strings.HasPrefix(strings.TrimSpace(a), prefix) {
			matching = append(matching, a)
		}
	}
	return matching
}
