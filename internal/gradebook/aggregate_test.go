package gradebook

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func aggregateFixture(t *testing.T) (*Table, *Rosters) {
	t.Helper()
	table, err := LoadTable([][]string{
		{"Student", "ID", "A", "B", "C", "1.4 Lesson Practice", "1.4 Code Practice", "1.4 Quiz", "1.12 Quiz"},
		{"Points Possible", "", "", "", "", "10", "10", "20", "20"},
		{"Smith, Jane", "1001", "", "", "", "10", "", "5", "18"},
		{"Mantaring, Riley", "1002", "", "", "", "", "Excused", "", "15"},
		{"Doe, John", "1003", "", "", "", "", "", "", ""},
		{"Ghost, Casper", "1004", "", "", "", "8", "", "", ""},
	})
	require.NoError(t, err)

	rosters := NewRosters([]string{"F2", "F5"}, map[string][]string{
		"F2": {"Jane Smith", "John Doe"},
		"F5": {"Riley Sky Mantaring"},
	})
	return table, rosters
}

func TestAggregatePrefix(t *testing.T) {
	table, rosters := aggregateFixture(t)

	agg := Aggregate(table, PrefixFilter("1.4"), rosters)

	assert.Equal(t, []string{"1.4 Lesson Practice", "1.4 Code Practice", "1.4 Quiz"}, agg.Assignments)
	assert.Equal(t, []string{"F2", "F5", "Other"}, agg.SectionOrder)

	f2 := agg.Sections["F2"]
	require.Len(t, f2.Submitted, 1)
	require.Len(t, f2.NotSubmitted, 1)

	// numeric cells sum; absent cells contribute nothing
	jane := f2.Submitted[0]
	assert.Equal(t, "Smith", jane.LastName)
	assert.Equal(t, "Jane", jane.FirstName)
	assert.Equal(t, 15.0, jane.Total)

	// all-absent student still appears, in the not-submitted bucket
	assert.Equal(t, "Doe", f2.NotSubmitted[0].LastName)
	assert.Equal(t, 0.0, f2.NotSubmitted[0].Total)

	// text grade counts as a submission but adds nothing to the total
	f5 := agg.Sections["F5"]
	require.Len(t, f5.Submitted, 1)
	assert.Equal(t, "Mantaring", f5.Submitted[0].LastName)
	assert.Equal(t, 0.0, f5.Submitted[0].Total)

	// unmatched student lands in Other
	other := agg.Sections["Other"]
	require.Len(t, other.Submitted, 1)
	assert.Equal(t, "Ghost", other.Submitted[0].LastName)
}

func TestAggregateExact(t *testing.T) {
	table, rosters := aggregateFixture(t)

	agg := Aggregate(table, ExactFilter("1.12 Quiz"), rosters)

	assert.Equal(t, []string{"1.12 Quiz"}, agg.Assignments)

	f2 := agg.Sections["F2"]
	require.Len(t, f2.Submitted, 1)
	assert.Equal(t, 18.0, f2.Submitted[0].Total)
	require.Len(t, f2.NotSubmitted, 1)
}

func TestAggregateSortsByLastName(t *testing.T) {
	table, err := LoadTable([][]string{
		{"Student", "ID", "A", "B", "C", "1.4 Quiz"},
		{"Points Possible", "", "", "", "", "20"},
		{"zimmer, Amy", "1", "", "", "", "1"},
		{"Adams, Bea", "2", "", "", "", "2"},
		{"Miller, Cal", "3", "", "", "", "3"},
	})
	require.NoError(t, err)

	rosters := NewRosters(nil, nil)
	agg := Aggregate(table, ExactFilter("1.4 Quiz"), rosters)

	rows := agg.Sections[SectionOther].Submitted
	require.Len(t, rows, 3)
	assert.Equal(t, "Adams", rows[0].LastName)
	assert.Equal(t, "Miller", rows[1].LastName)
	assert.Equal(t, "zimmer", rows[2].LastName, "sorting is case insensitive")
}

func TestAggregatedRowValues(t *testing.T) {
	row := AggregatedRow{
		LastName:  "Smith",
		FirstName: "Jane",
		Cells: []Grade{
			{Kind: GradeNumeric, Number: 10},
			{Kind: GradeAbsent},
			{Kind: GradeText, Text: "Excused"},
		},
		Total: 10,
	}

	assert.Equal(t, []interface{}{"Smith", "Jane", 10.0, "", "Excused", 10.0}, row.Values())
	assert.Equal(t, []string{"Smith", "Jane", "10", "", "Excused", "10"}, row.Strings())
}

func TestStatistics(t *testing.T) {
	table, rosters := aggregateFixture(t)

	agg := Aggregate(table, PrefixFilter("1.4"), rosters)
	stats, ok := agg.Statistics()
	require.True(t, ok)

	// numeric cells: 10, 5 (Jane), 8 (Casper)
	assert.Equal(t, 3, stats.Count)
	assert.InDelta(t, 7.6667, stats.Mean, 0.001)
	assert.Equal(t, 10.0, stats.Max)
	assert.Equal(t, 5.0, stats.Min)
}

func TestStatisticsNoNumericGrades(t *testing.T) {
	table, err := LoadTable([][]string{
		{"Student", "ID", "A", "B", "C", "1.4 Quiz"},
		{"Points Possible", "", "", "", "", "20"},
		{"Smith, Jane", "1", "", "", "", "Excused"},
	})
	require.NoError(t, err)

	agg := Aggregate(table, ExactFilter("1.4 Quiz"), NewRosters(nil, nil))
	_, ok := agg.Statistics()
	assert.False(t, ok)
}
