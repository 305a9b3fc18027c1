// Package domain defines the contracts shared between the gradebook core
// and its export sinks. A sink consumes a GradeExport and either returns a
// location reference for the created document or fails as a whole; the
// core never interprets the reference.
package domain

import "fmt"

// ExportKind distinguishes single-assignment exports from sub-chapter
// bulk exports.
type ExportKind string

const (
	ExportAssignment ExportKind = "assignment"
	ExportSubchapter ExportKind = "subchapter"
)

// Row is one student line of an export tab:
// last name, first name, one cell per assignment, numeric total.
// Cells hold float64 for numeric grades, string for literal text grades,
// and "" for no submission.
type Row struct {
	LastName  string        `json:"last_name"`
	FirstName string        `json:"first_name"`
	Cells     []interface{} `json:"cells"`
	Total     float64       `json:"total"`
}

// Values flattens the row into a sheet line.
func (r Row) Values() []interface{} {
	out := make([]interface{}, 0, len(r.Cells)+3)
	out = append(out, r.LastName, r.FirstName)
	out = append(out, r.Cells...)
	return append(out, r.Total)
}

// SectionRows partitions a section's rows by submission status.
type SectionRows struct {
	Submitted    []Row `json:"submitted"`
	NotSubmitted []Row `json:"not_submitted"`
}

// GradeExport is the complete payload handed to an export sink: one tab
// per section (plus the unmatched bucket), shared column headers, and a
// label used in sheet titles.
type GradeExport struct {
	Kind         ExportKind            `json:"kind"`
	Title        string                `json:"title"`
	Label        string                `json:"label"`
	Assignments  []string              `json:"assignments"`
	SectionOrder []string              `json:"section_order"`
	Sections     map[string]SectionRows `json:"sections"`
}

// Header returns the column header line shared by every tab.
func (e *GradeExport) Header() []interface{} {
	header := make([]interface{}, 0, len(e.Assignments)+3)
	header = append(header, "Last Name", "First Name")
	for _, a := range e.Assignments {
		header = append(header, a)
	}
	return append(header, "Total")
}

// TabName maps a section code to its sheet tab title. The unmatched
// bucket keeps the historical "Other Students" title.
func TabName(section string) string {
	if section == "Other" {
		return "Other Students"
	}
	return fmt.Sprintf("%s Section", section)
}
