package gradebook

import (
	"sort"
	"strings"

	"github.com/montanaflynn/stats"
)

// AssignmentFilter selects which assignments participate in an aggregation.
type AssignmentFilter func(name string) bool

// ExactFilter matches a single assignment by name.
func ExactFilter(assignment string) AssignmentFilter {
	return func(name string) bool { return name == assignment }
}

// PrefixFilter matches every assignment whose trimmed name starts with the
// sub-chapter prefix. Raw string-prefix semantics, same as
// Table.MatchingAssignments.
func PrefixFilter(prefix string) AssignmentFilter {
	return func(name string) bool { return strings.HasPrefix(strings.TrimSpace(name), prefix) }
}

// AggregatedRow is one student's slice of an aggregation: split name, the
// grade cells in assignment order, and the numeric total. Non-numeric and
// absent cells contribute zero to the total without erroring.
type AggregatedRow struct {
	LastName  string
	FirstName string
	Cells     []Grade
	Total     float64
}

// Values flattens the row for a spreadsheet sink:
// [last, first, cell..., total].
func (r AggregatedRow) Values() []interface{} {
	out := make([]interface{}, 0, len(r.Cells)+3)
	out = append(out, r.LastName, r.FirstName)
	for _, c := range r.Cells {
		out = append(out, c.Value())
	}
	return append(out, r.Total)
}

// Strings renders the row for CSV export.
func (r AggregatedRow) Strings() []string {
	out := make([]string, 0, len(r.Cells)+3)
	out = append(out, r.LastName, r.FirstName)
	for _, c := range r.Cells {
		out = append(out, c.String())
	}
	return append(out, formatTotal(r.Total))
}

// SectionBucket partitions one section's rows by whether the student
// submitted anything in the filtered assignment set.
type SectionBucket struct {
	Submitted    []AggregatedRow
	NotSubmitted []AggregatedRow
}

// Aggregation is the result of grouping a grade table by resolved section.
// SectionOrder is the roster section order followed by SectionOther;
// Assignments is the filtered assignment list in source header order.
type Aggregation struct {
	Assignments  []string
	SectionOrder []string
	Sections     map[string]*SectionBucket
}

// Aggregate folds every student in the table into per-section buckets.
// Each student is resolved against the rosters (SectionOther when
// unmatched), their name split into (last, first), and one cell appended
// per filtered assignment in stable header order. A row lands in Submitted
// when at least one filtered cell is non-absent. Rows within each bucket
// are sorted by last name for repeatable output.
func Aggregate(table *Table, filter AssignmentFilter, rosters *Rosters) *Aggregation {
	agg := &Aggregation{
		SectionOrder: append(append([]string(nil), rosters.Sections...), SectionOther),
		Sections:     make(map[string]*SectionBucket),
	}
	for _, section := range agg.SectionOrder {
		agg.Sections[section] = &SectionBucket{}
	}

	for _, a := range table.Assignments {
		if filter(a) {
			agg.Assignments = append(agg.Assignments, a)
		}
	}

	for i := range table.Students {
		student := &table.Students[i]
		section := SectionOrDefault(student.RawName, rosters)

		last, first := SplitName(student.RawName)
		row := AggregatedRow{
			LastName:  last,
			FirstName: first,
			Cells:     make([]Grade, 0, len(agg.Assignments)),
		}

		submitted := false
		for _, assignment := range agg.Assignments {
			g := student.Grade(assignment)
			if !g.IsAbsent() {
				submitted = true
			}
			if n, ok := g.Numeric(); ok {
				row.Total += n
			}
			row.Cells = append(row.Cells, g)
		}

		bucket := agg.Sections[section]
		if submitted {
			bucket.Submitted = append(bucket.Submitted, row)
		} else {
			bucket.NotSubmitted = append(bucket.NotSubmitted, row)
		}
	}

	for _, bucket := range agg.Sections {
		sortRows(bucket.Submitted)
		sortRows(bucket.NotSubmitted)
	}

	return agg
}

func sortRows(rows []AggregatedRow) {
	sort.SliceStable(rows, func(i, j int) bool {
		return strings.ToLower(rows[i].LastName) < strings.ToLower(rows[j].LastName)
	})
}

// Statistics summarizes the numeric grades in an aggregation.
type Statistics struct {
	Count int     `json:"count"`
	Mean  float64 `json:"mean"`
	Max   float64 `json:"max"`
	Min   float64 `json:"min"`
}

// Statistics computes count, mean, max, and min over every numeric grade
// cell across all buckets, submitted or not. The second return is false
// when no numeric grade exists, in which case callers skip the summary.
func (a *Aggregation) Statistics() (Statistics, bool) {
	var numeric []float64
	for _, section := range a.SectionOrder {
		bucket := a.Sections[section]
		for _, rows := range [][]AggregatedRow{bucket.Submitted, bucket.NotSubmitted} {
			for _, row := range rows {
				for _, cell := range row.Cells {
					if n, ok := cell.Numeric(); ok {
						numeric = append(numeric, n)
					}
				}
			}
		}
	}
	if len(numeric) == 0 {
		return Statistics{}, false
	}

	mean, _ := stats.Mean(numeric)
	max, _ := stats.Max(numeric)
	min, _ := stats.Min(numeric)
	return Statistics{
		Count: len(numeric),
		Mean:  mean,
		Max:   max,
		Min:   min,
	}, true
}

func formatTotal(total float64) string {
	g := Grade{Kind: GradeNumeric, Number: total}
	return g.String()
}
