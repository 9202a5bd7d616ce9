// Package classifier infers the meaning of schedule cells from their shape.
//
// Schedule exports carry no usable headers and their column order drifts between
// exports, so each cell is matched against an ordered list of rules. A cell is
// claimed by the first rule whose field is still unset and whose predicate
// matches; cells nobody claims are dropped.
package classifier

import (
	"strconv"
	"strings"
	"time"

	"github.com/nconklindev/dateline/internal/period"
	"github.com/nconklindev/dateline/internal/types"
)

const (
	ItemNumberLength = 10
	ItemNumberPrefix = "4"
	ReferenceLength  = 8
	ReferencePrefix  = "3"
	ForecastToken    = "forecast"
)

type Field int

const (
	FieldItemNumber Field = iota
	FieldTermDate
	FieldOrderQuantity
	FieldReference
)

func (f Field) String() string {
	switch f {
	case FieldItemNumber:
		return "item_number"
	case FieldTermDate:
		return "term_date"
	case FieldOrderQuantity:
		return "order_quantity"
	case FieldReference:
		return "reference"
	}
	return "unknown"
}

// Accumulator holds the fields claimed so far in one row.
type Accumulator struct {
	ItemNumber    string
	TermDate      *time.Time
	OrderQuantity *int64
	Reference     string
	PeriodKey     string

	claimed [4]bool
}

func (a *Accumulator) Claimed(f Field) bool {
	return a.claimed[f]
}

func (a *Accumulator) Record() types.ScheduleRecord {
	return types.ScheduleRecord{
		ItemNumber:    a.ItemNumber,
		TermDate:      a.TermDate,
		OrderQuantity: a.OrderQuantity,
		Reference:     a.Reference,
		PeriodKey:     a.PeriodKey,
	}
}

// Rule pairs a field with the test a cell must pass to fill it. Assign is only
// called after Match returned true for the same cell.
type Rule struct {
	Field  Field
	Match  func(c types.Cell, acc *Accumulator) bool
	Assign func(c types.Cell, acc *Accumulator)
}

type Classifier struct {
	rules []Rule
}

// New builds the schedule rule set. Order matters: quantity is only considered
// once a term date has been claimed.
func New(dates period.Parser) *Classifier {
	return &Classifier{rules: []Rule{
		{
			Field: FieldItemNumber,
			Match: func(c types.Cell, _ *Accumulator) bool { return IsItemNumber(c.String()) },
			Assign: func(c types.Cell, acc *Accumulator) {
				acc.ItemNumber = c.String()
			},
		},
		{
			Field: FieldTermDate,
			Match: func(c types.Cell, _ *Accumulator) bool {
				_, ok := CellDate(c, dates)
				return ok
			},
			Assign: func(c types.Cell, acc *Accumulator) {
				t, _ := CellDate(c, dates)
				acc.TermDate = &t
				acc.PeriodKey = period.ISOKey(t)
			},
		},
		{
			Field: FieldOrderQuantity,
			Match: func(c types.Cell, acc *Accumulator) bool {
				return acc.Claimed(FieldTermDate) && IsQuantity(c.String())
			},
			Assign: func(c types.Cell, acc *Accumulator) {
				n, _ := strconv.ParseInt(c.String(), 10, 64)
				acc.OrderQuantity = &n
			},
		},
		{
			Field: FieldReference,
			Match: func(c types.Cell, _ *Accumulator) bool { return IsReference(c.String()) },
			Assign: func(c types.Cell, acc *Accumulator) {
				acc.Reference = c.String()
			},
		},
	}}
}

func (c *Classifier) Rules() []Rule {
	return c.rules
}

// Classify scans row left to right and returns the fields it could claim.
func (c *Classifier) Classify(row types.Row) types.ScheduleRecord {
	var acc Accumulator

	for _, cell := range row {
		if cell.IsEmpty() {
			continue
		}
		for _, rule := range c.rules {
			if acc.claimed[rule.Field] || !rule.Match(cell, &acc) {
				continue
			}
			rule.Assign(cell, &acc)
			acc.claimed[rule.Field] = true
			break
		}
	}

	return acc.Record()
}

// IsItemNumber checks for a ten character code starting with 4.
func IsItemNumber(s string) bool {
	return len(s) == ItemNumberLength && strings.HasPrefix(s, ItemNumberPrefix)
}

// IsReference accepts an eight character code starting with 3, or the forecast token.
func IsReference(s string) bool {
	if s == ForecastToken {
		return true
	}
	return len(s) == ReferenceLength && strings.HasPrefix(s, ReferencePrefix)
}

// IsQuantity accepts digit-only strings that fit an int64.
func IsQuantity(s string) bool {
	if !period.IsDigits(s) {
		return false
	}
	_, err := strconv.ParseInt(s, 10, 64)
	return err == nil
}

// CellDate returns the date a cell holds, either natively or as parseable text.
// Numbers are never dates here; spreadsheet decoders already turned
// date-formatted numbers into date cells.
func CellDate(c types.Cell, dates period.Parser) (time.Time, bool) {
	switch c.Kind {
	case types.CellDate:
		return c.Time, true
	case types.CellString:
		t, err := dates.Parse(c.Text)
		if err != nil {
			return time.Time{}, false
		}
		return t, true
	}
	return time.Time{}, false
}
