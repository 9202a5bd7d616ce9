package period

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestParserParse(t *testing.T) {
	tests := []struct {
		name     string
		dayFirst bool
		input    string
		expected time.Time
	}{
		{"Day first dashes", true, "15-03-2024", date(2024, time.March, 15)},
		{"Day first ambiguous", true, "05-03-2024", date(2024, time.March, 5)},
		{"Month first ambiguous", false, "05-03-2024", date(2024, time.May, 3)},
		{"Month first falls back to day first", false, "15-03-2024", date(2024, time.March, 15)},
		{"ISO", true, "2024-03-15", date(2024, time.March, 15)},
		{"ISO with time", true, "2024-03-15 00:00:00", date(2024, time.March, 15)},
		{"Dotted", true, "15.03.2024", date(2024, time.March, 15)},
		{"Slashed", true, "15/03/2024", date(2024, time.March, 15)},
		{"Month name", true, "15-Mar-2024", date(2024, time.March, 15)},
		{"Surrounding whitespace", true, "  15-03-2024 ", date(2024, time.March, 15)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parser{DayFirst: tt.dayFirst}.Parse(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestParserRejects(t *testing.T) {
	inputs := []string{"", "forecast", "100", "30012345", "4001234567", "abc", "1.5", "32-01-2024"}

	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			_, err := Parser{DayFirst: true}.Parse(in)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrDateParse))
		})
	}
}

func TestIsDigits(t *testing.T) {
	tests := []struct {
		input    string
		expected bool
	}{
		{"100", true},
		{"0", true},
		{"", false},
		{"1.5", false},
		{"-1", false},
		{"12a", false},
		{" 12", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, IsDigits(tt.input), "IsDigits(%q)", tt.input)
	}
}

func TestISOKey(t *testing.T) {
	tests := []struct {
		name     string
		input    time.Time
		expected string
	}{
		{"Mid March", date(2024, time.March, 15), "2024-11"},
		{"First ISO week", date(2024, time.January, 1), "2024-01"},
		{"Belongs to next ISO year", date(2024, time.December, 30), "2025-01"},
		{"Belongs to previous ISO year", date(2021, time.January, 1), "2020-53"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ISOKey(tt.input))
		})
	}
}

func TestUSKey(t *testing.T) {
	tests := []struct {
		name     string
		input    time.Time
		expected string
	}{
		{"Mid March", date(2024, time.March, 15), "2024-10"},
		{"Before first Sunday", date(2024, time.January, 1), "2024-00"},
		{"First Sunday", date(2024, time.January, 7), "2024-01"},
		{"Year starting on Sunday", date(2023, time.January, 1), "2023-01"},
		{"Last day of year", date(2024, time.December, 31), "2024-52"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, USKey(tt.input))
		})
	}
}

func TestFormatTermDate(t *testing.T) {
	assert.Equal(t, "05-03-2024", FormatTermDate(date(2024, time.March, 5)))
}
