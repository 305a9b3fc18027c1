package gradebook

import (
	"strconv"
	"strings"
)

// GradeKind discriminates the three states a grade cell can be in.
type GradeKind int

const (
	// GradeAbsent marks a cell with no submission. Distinct from a grade
	// of zero: an absent cell contributes nothing to totals and flags the
	// row as not submitted.
	GradeAbsent GradeKind = iota
	// GradeNumeric is a cell that parsed as a float.
	GradeNumeric
	// GradeText is a non-blank cell that failed numeric parsing, such as
	// "Missing" or "Excused". Kept verbatim rather than discarded.
	GradeText
)

// Grade is a tagged variant holding one grade cell. Exactly one of Number
// or Text is meaningful, selected by Kind.
type Grade struct {
	Kind   GradeKind
	Number float64
	Text   string
}

// ParseGrade converts a raw cell into a Grade. Whitespace is trimmed first;
// an empty cell becomes GradeAbsent, a parseable number becomes GradeNumeric,
// and anything else is preserved as GradeText.
func ParseGrade(cell string) Grade {
	trimmed := strings.TrimSpace(cell)
	if trimmed == "" {
		return Grade{Kind: GradeAbsent}
	}
	if n, err := strconv.ParseFloat(trimmed, 64); err == nil {
		return Grade{Kind: GradeNumeric, Number: n}
	}
	return Grade{Kind: GradeText, Text: trimmed}
}

// Numeric returns the grade value and true when the grade is numeric.
func (g Grade) Numeric() (float64, bool) {
	if g.Kind == GradeNumeric {
		return g.Number, true
	}
	return 0, false
}

// IsAbsent reports whether the cell held no submission.
func (g Grade) IsAbsent() bool {
	return g.Kind == GradeAbsent
}

// String renders the grade for display and export: numeric grades without
// trailing zeros, text grades verbatim, absent grades as the empty string.
func (g Grade) String() string {
	switch g.Kind {
	case GradeNumeric:
		return strconv.FormatFloat(g.Number, 'f', -1, 64)
	case GradeText:
		return g.Text
	default:
		return ""
	}
}

// Value returns the representation handed to spreadsheet sinks: float64 for
// numeric grades, the literal string for text grades, and "" for absent
// cells so the student still appears on the exported roster.
func (g Grade) Value() interface{} {
	switch g.Kind {
	case GradeNumeric:
		return g.Number
	case GradeText:
		return g.Text
	default:
		return ""
	}
}
