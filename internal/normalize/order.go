package normalize

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/nconklindev/dateline/internal/period"
	"github.com/nconklindev/dateline/internal/types"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// ErrSchemaMismatch is returned when the order export lacks a required column.
var ErrSchemaMismatch = errors.New("order export schema mismatch")

const (
	ColCustomerID         = "CustID"
	ColCustomerPO         = "Customer PONumber"
	ColCONumber           = "CONumber"
	ColLine               = "Ln"
	ColItemNumber         = "Item Number"
	ColItemDescription    = "Item Description"
	ColCustomerItemNumber = "Cust Item Number"
	ColOrderQty           = "OrderQty"
	ColOpenQty            = "Open Qty"
	ColPromisedDelivery   = "PromDlvry"
)

// OrderColumns lists the order export columns in output order.
var OrderColumns = []string{
	ColCustomerID,
	ColCustomerPO,
	ColCONumber,
	ColLine,
	ColItemNumber,
	ColItemDescription,
	ColCustomerItemNumber,
	ColOrderQty,
	ColOpenQty,
	ColPromisedDelivery,
}

// Orders selects the order columns, keeps the configured customer and sorts by
// period key. Rows whose delivery date cannot be read keep a nil date and an
// empty key, and sort after every dated row.
func Orders(table *types.Table, cfg Config, dates period.Parser) ([]types.OrderRecord, error) {
	if table == nil {
		return nil, fmt.Errorf("%w: no table", ErrSchemaMismatch)
	}

	idx, err := columnIndex(table.Headers)
	if err != nil {
		return nil, err
	}

	var records []types.OrderRecord
	for _, row := range table.Rows {
		get := func(col string) types.Cell {
			i := idx[col]
			if i < len(row) {
				return row[i]
			}
			return types.Cell{}
		}

		rec := types.OrderRecord{
			CustomerID:         get(ColCustomerID).String(),
			CustomerPO:         get(ColCustomerPO).String(),
			CONumber:           get(ColCONumber).String(),
			Line:               get(ColLine).String(),
			ItemNumber:         get(ColItemNumber).String(),
			ItemDescription:    get(ColItemDescription).String(),
			CustomerItemNumber: get(ColCustomerItemNumber).String(),
			OrderQty:           quantity(get(ColOrderQty)),
			OpenQty:            quantity(get(ColOpenQty)),
		}

		if rec.CustomerID != cfg.CustomerID {
			continue
		}

		if due, ok := deliveryDate(get(ColPromisedDelivery), dates); ok {
			rec.PromisedDelivery = &due
			rec.PeriodKey = period.USKey(due)
		}

		records = append(records, rec)
	}

	sort.SliceStable(records, func(i, j int) bool {
		a, b := records[i].PeriodKey, records[j].PeriodKey
		if a == "" || b == "" {
			return a != "" && b == ""
		}
		return a < b
	})

	return records, nil
}

func columnIndex(headers []string) (map[string]int, error) {
	idx := make(map[string]int, len(OrderColumns))
	for i, h := range headers {
		h = strings.TrimSpace(h)
		if _, seen := idx[h]; !seen {
			idx[h] = i
		}
	}

	var missing []string
	for _, col := range OrderColumns {
		if _, ok := idx[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing columns %s", ErrSchemaMismatch, strings.Join(missing, ", "))
	}

	return idx, nil
}

func quantity(c types.Cell) decimal.NullDecimal {
	switch c.Kind {
	case types.CellNumber:
		return decimal.NewNullDecimal(decimal.NewFromFloat(c.Number))
	case types.CellString:
		d, err := decimal.NewFromString(strings.TrimSpace(c.Text))
		if err != nil {
			return decimal.NullDecimal{}
		}
		return decimal.NewNullDecimal(d)
	}
	return decimal.NullDecimal{}
}

func deliveryDate(c types.Cell, dates period.Parser) (time.Time, bool) {
	switch c.Kind {
	case types.CellDate:
		return c.Time, true
	case types.CellNumber:
		t, err := excelize.ExcelDateToTime(c.Number, false)
		if err != nil {
			return time.Time{}, false
		}
		return t, true
	case types.CellString:
		t, err := dates.Parse(c.Text)
		if err != nil {
			return time.Time{}, false
		}
		return t, true
	}
	return time.Time{}, false
}
