package gradebook

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseGrade(t *testing.T) {
	tests := []struct {
		name string
		cell string
		want Grade
	}{
		{"empty is absent", "", Grade{Kind: GradeAbsent}},
		{"whitespace is absent", "  \t ", Grade{Kind: GradeAbsent}},
		{"integer", "10", Grade{Kind: GradeNumeric, Number: 10}},
		{"decimal", "9.5", Grade{Kind: GradeNumeric, Number: 9.5}},
		{"padded number", " 7 ", Grade{Kind: GradeNumeric, Number: 7}},
		{"text preserved", "Excused", Grade{Kind: GradeText, Text: "Excused"}},
		{"padded text trimmed", " Missing ", Grade{Kind: GradeText, Text: "Missing"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseGrade(tt.cell))
		})
	}
}

func TestGradeString(t *testing.T) {
	assert.Equal(t, "", Grade{Kind: GradeAbsent}.String())
	assert.Equal(t, "10", Grade{Kind: GradeNumeric, Number: 10}.String())
	assert.Equal(t, "9.5", Grade{Kind: GradeNumeric, Number: 9.5}.String())
	assert.Equal(t, "Excused", Grade{Kind: GradeText, Text: "Excused"}.String())
}

func TestGradeNumeric(t *testing.T) {
	n, ok := Grade{Kind: GradeNumeric, Number: 42}.Numeric()
	assert.True(t, ok)
	assert.Equal(t, 42.0, n)

	_, ok = Grade{Kind: GradeText, Text: "Missing"}.Numeric()
	assert.False(t, ok)

	_, ok = Grade{Kind: GradeAbsent}.Numeric()
	assert.False(t, ok)
}

func TestGradeValue(t *testing.T) {
	assert.Equal(t, 10.0, Grade{Kind: GradeNumeric, Number: 10}.Value())
	assert.Equal(t, "Excused", Grade{Kind: GradeText, Text: "Excused"}.Value())
	assert.Equal(t, "", Grade{Kind: GradeAbsent}.Value())
}

func TestParseGradeZeroIsNotAbsent(t *testing.T) {
	g := ParseGrade("0")
	assert.False(t, g.IsAbsent())
	n, ok := g.Numeric()
	assert.True(t, ok)
	assert.Equal(t, 0.0, n)
}
