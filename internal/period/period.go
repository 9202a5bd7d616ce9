package period

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrDateParse marks a value that is not a calendar date. Callers treat it as
// a null date, never as a fatal error.
var ErrDateParse = errors.New("unparseable date")

const TermDateLayout = "02-01-2006"

var isoLayouts = []string{
	"2006-1-2",
	"2006-1-2 15:04:05",
	"2006-1-2 15:04",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"2006/1/2",
	"2006/1/2 15:04:05",
	"2-Jan-2006",
	"2 Jan 2006",
	"Jan 2, 2006",
	"January 2, 2006",
}

var dayFirstLayouts = []string{
	"2-1-2006",
	"2-1-2006 15:04:05",
	"2-1-2006 15:04",
	"2.1.2006",
	"2.1.2006 15:04",
	"2/1/2006",
	"2/1/2006 15:04",
}

var monthFirstLayouts = []string{
	"1-2-2006",
	"1-2-2006 15:04:05",
	"1-2-2006 15:04",
	"1.2.2006",
	"1.2.2006 15:04",
	"1/2/2006",
	"1/2/2006 15:04",
}

// Parser turns date-shaped strings into dates. DayFirst decides how ambiguous
// numeric forms like 05-03-2024 are read; the other order is tried afterwards.
type Parser struct {
	DayFirst bool
}

func (p Parser) layouts() []string {
	ordered := make([]string, 0, len(isoLayouts)+len(dayFirstLayouts)+len(monthFirstLayouts))
	ordered = append(ordered, isoLayouts...)
	if p.DayFirst {
		ordered = append(ordered, dayFirstLayouts...)
		return append(ordered, monthFirstLayouts...)
	}
	ordered = append(ordered, monthFirstLayouts...)
	return append(ordered, dayFirstLayouts...)
}

// Parse returns the date s denotes. Strings made only of digits are never dates;
// they belong to quantities, references and item numbers.
func (p Parser) Parse(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" || IsDigits(s) {
		return time.Time{}, fmt.Errorf("%q: %w", s, ErrDateParse)
	}

	for _, layout := range p.layouts() {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("%q: %w", s, ErrDateParse)
}

// IsDigits reports whether s is non-empty and made only of ASCII digits.
func IsDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// ISOKey formats t as YYYY-WW using the ISO-8601 year and week.
func ISOKey(t time.Time) string {
	year, week := t.ISOWeek()
	return fmt.Sprintf("%d-%02d", year, week)
}

// USKey formats t as YYYY-WW where weeks start on Sunday and the days before
// the first Sunday of the year are week 00 (strftime %U).
func USKey(t time.Time) string {
	return fmt.Sprintf("%d-%02d", t.Year(), USWeek(t))
}

func USWeek(t time.Time) int {
	yday := t.YearDay() - 1
	return (yday + 7 - int(t.Weekday())) / 7
}

func FormatTermDate(t time.Time) string {
	return t.Format(TermDateLayout)
}
