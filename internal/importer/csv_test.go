package importer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSplitFields(t *testing.T) {
	tests := []struct {
		name string
		line string
		want []string
	}{
		{
			name: "plain fields",
			line: "2024-03-01;SHELL;85,50",
			want: []string{"2024-03-01", "SHELL", "85,50"},
		},
		{
			name: "quoted field with delimiter inside",
			line: `2024-03-01;"ACME; CONSEIL";120,00`,
			want: []string{"2024-03-01", "ACME; CONSEIL", "120,00"},
		},
		{
			name: "fields trimmed of quotes and spaces",
			line: ` "2024-03-01" ; " SHELL " ;85,50`,
			want: []string{"2024-03-01", "SHELL", "85,50"},
		},
		{
			name: "interior quotes dropped",
			line: `2024-03-01;AB"CD"EF;85,50`,
			want: []string{"2024-03-01", "ABCDEF", "85,50"},
		},
		{
			name: "unclosed quote makes the rest literal",
			line: `2024-03-01;AB"CD;85,50`,
			want: []string{"2024-03-01", "ABCD;85,50"},
		},
		{
			name: "trailing empty field",
			line: "2024-03-01;SHELL;85,50;",
			want: []string{"2024-03-01", "SHELL", "85,50", ""},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, splitFields(tt.line, ';'))
		})
	}
}

func TestParseDate(t *testing.T) {
	want := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)

	for _, input := range []string{"2024-03-15", "15/03/2024", "15-03-2024", "2024/03/15"} {
		got, ok := parseDate(input)
		assert.True(t, ok, input)
		assert.Equal(t, want, got, input)
	}

	// Ambiguous dates resolve day-first.
	got, ok := parseDate("03/04/2024")
	assert.True(t, ok)
	assert.Equal(t, time.Date(2024, 4, 3, 0, 0, 0, 0, time.UTC), got)

	// US layout only applies when day-first is impossible.
	got, ok = parseDate("03/15/2024")
	assert.True(t, ok)
	assert.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), got)

	_, ok = parseDate("pas une date")
	assert.False(t, ok)
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		input string
		want  float64
	}{
		{"85,50", 85.50},
		{"85.50", 85.50},
		{"1 240,00", 1240.00},
		{"-42,10", -42.10},
		{"", 0},
		{"n/a", 0},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, parseAmount(tt.input), 1e-9, tt.input)
	}
}
