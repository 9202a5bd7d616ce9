package types

import (
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

type CellKind int

const (
	CellEmpty CellKind = iota
	CellString
	CellNumber
	CellDate
)

// Cell is a single decoded value. Decoders set exactly one of Text, Number or Time
// according to Kind.
type Cell struct {
	Kind   CellKind
	Text   string
	Number float64
	Time   time.Time
}

func StringCell(s string) Cell {
	if s == "" {
		return Cell{}
	}
	return Cell{Kind: CellString, Text: s}
}

func NumberCell(n float64) Cell {
	return Cell{Kind: CellNumber, Number: n}
}

func DateCell(t time.Time) Cell {
	return Cell{Kind: CellDate, Time: t}
}

func (c Cell) IsEmpty() bool {
	return c.Kind == CellEmpty
}

// String returns the canonical text form every shape check works against.
// Integral numbers print without a decimal point so 4001234567 stays ten characters.
func (c Cell) String() string {
	switch c.Kind {
	case CellString:
		return c.Text
	case CellNumber:
		if c.Number == float64(int64(c.Number)) {
			return strconv.FormatInt(int64(c.Number), 10)
		}
		return strconv.FormatFloat(c.Number, 'f', -1, 64)
	case CellDate:
		return c.Time.Format("2006-01-02 15:04:05")
	}
	return ""
}

type Row []Cell

type Table struct {
	Headers []string
	Rows    []Row
}

type ScheduleRecord struct {
	ItemNumber    string
	TermDate      *time.Time
	OrderQuantity *int64
	Reference     string
	PeriodKey     string
}

type OrderRecord struct {
	CustomerID         string
	CustomerPO         string
	CONumber           string
	Line               string
	ItemNumber         string
	ItemDescription    string
	CustomerItemNumber string
	OrderQty           decimal.NullDecimal
	OpenQty            decimal.NullDecimal
	PromisedDelivery   *time.Time
	PeriodKey          string
}

type Verdict string

const (
	VerdictUnchanged         Verdict = "unchanged"
	VerdictChanged           Verdict = "changed"
	VerdictReferenceNotFound Verdict = "reference_not_found"
)

// Label is the text written to the report for v.
func (v Verdict) Label() string {
	switch v {
	case VerdictUnchanged:
		return "Unchanged"
	case VerdictChanged:
		return "Date changed"
	case VerdictReferenceNotFound:
		return "Reference not found"
	}
	return string(v)
}

// NoMatchFound is recorded as the order period when a reference has no order.
const NoMatchFound = "No match found"

type ReconciliationRecord struct {
	ItemNumber     string
	Reference      string
	SchedulePeriod string
	OrderPeriod    string
	Verdict        Verdict
}

type Summary struct {
	ScheduleRows      int
	OrderRows         int
	Unchanged         int
	Changed           int
	ReferenceNotFound int
}

type Report struct {
	Schedule       []ScheduleRecord
	Orders         []OrderRecord
	Reconciliation []ReconciliationRecord
	Summary        Summary
}
