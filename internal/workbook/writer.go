package workbook

import (
	"context"
	"fmt"
	"os"

	"github.com/nconklindev/dateline/internal/normalize"
	"github.com/nconklindev/dateline/internal/period"
	"github.com/nconklindev/dateline/internal/types"

	"github.com/xuri/excelize/v2"
)

const (
	ScheduleSheet       = "PINGRM"
	OrderSheet          = "HF"
	ReconciliationSheet = "Reconciliation"

	tableStyle = "TableStyleMedium2"
	colWidth   = 18
)

var (
	ScheduleHeaders       = []string{"Item Number", "Term Date", "Order Quantity", "Reference", "Year Week"}
	OrderHeaders          = append(append([]string(nil), normalize.OrderColumns...), "Year-Week")
	ReconciliationHeaders = []string{"Item Number", "Reference", "Schedule Year Week", "Order Year Week", "Status"}
)

// Writer renders a report into a new workbook on disk.
type Writer struct {
	cfg OutputConfig
}

func NewWriter(cfg OutputConfig) *Writer {
	return &Writer{cfg: cfg}
}

// Render builds the workbook in memory and only then claims an output file,
// so a failed build leaves nothing behind. It returns the written path.
func (w *Writer) Render(ctx context.Context, report *types.Report) (string, error) {
	f, err := Build(report)
	if err != nil {
		return "", err
	}
	defer f.Close()

	if err := ctx.Err(); err != nil {
		return "", err
	}

	name := w.cfg.Name
	if name == "" {
		name = "Processed_Data.xlsx"
	}

	out, path, err := reserveOutput(w.cfg.Dir, name)
	if err != nil {
		return "", err
	}

	if err := f.Write(out); err != nil {
		out.Close()
		os.Remove(path)
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	if err := out.Close(); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("close %s: %w", path, err)
	}

	return path, nil
}

// Build lays out the schedule, order and reconciliation sheets.
func Build(report *types.Report) (*excelize.File, error) {
	f := excelize.NewFile()

	if err := f.SetSheetName(f.GetSheetName(0), ScheduleSheet); err != nil {
		f.Close()
		return nil, err
	}
	for _, name := range []string{OrderSheet, ReconciliationSheet} {
		if _, err := f.NewSheet(name); err != nil {
			f.Close()
			return nil, err
		}
	}

	steps := []func(*excelize.File, *types.Report) error{
		writeSchedule,
		writeOrders,
		writeReconciliation,
	}
	for _, step := range steps {
		if err := step(f, report); err != nil {
			f.Close()
			return nil, err
		}
	}

	f.SetActiveSheet(0)
	return f, nil
}

func writeSchedule(f *excelize.File, report *types.Report) error {
	rows := make([][]interface{}, 0, len(report.Schedule))
	for _, r := range report.Schedule {
		var termDate, quantity interface{}
		if r.TermDate != nil {
			termDate = period.FormatTermDate(*r.TermDate)
		}
		if r.OrderQuantity != nil {
			quantity = *r.OrderQuantity
		}
		rows = append(rows, []interface{}{r.ItemNumber, termDate, quantity, r.Reference, r.PeriodKey})
	}
	return writeSheet(f, ScheduleSheet, "ScheduleTable", ScheduleHeaders, rows)
}

func writeOrders(f *excelize.File, report *types.Report) error {
	rows := make([][]interface{}, 0, len(report.Orders))
	for _, r := range report.Orders {
		var due interface{}
		if r.PromisedDelivery != nil {
			due = *r.PromisedDelivery
		}
		rows = append(rows, []interface{}{
			r.CustomerID,
			r.CustomerPO,
			r.CONumber,
			r.Line,
			r.ItemNumber,
			r.ItemDescription,
			r.CustomerItemNumber,
			quantityValue(r.OrderQty.Valid, r.OrderQty.Decimal.InexactFloat64()),
			quantityValue(r.OpenQty.Valid, r.OpenQty.Decimal.InexactFloat64()),
			due,
			r.PeriodKey,
		})
	}
	if err := writeSheet(f, OrderSheet, "OrderTable", OrderHeaders, rows); err != nil {
		return err
	}
	if len(rows) == 0 {
		return nil
	}

	dateFmt := "dd-mm-yyyy"
	style, err := f.NewStyle(&excelize.Style{CustomNumFmt: &dateFmt})
	if err != nil {
		return err
	}
	col, err := excelize.ColumnNumberToName(len(normalize.OrderColumns))
	if err != nil {
		return err
	}
	return f.SetCellStyle(OrderSheet, col+"2", fmt.Sprintf("%s%d", col, len(rows)+1), style)
}

func writeReconciliation(f *excelize.File, report *types.Report) error {
	rows := make([][]interface{}, 0, len(report.Reconciliation))
	for _, r := range report.Reconciliation {
		rows = append(rows, []interface{}{r.ItemNumber, r.Reference, r.SchedulePeriod, r.OrderPeriod, r.Verdict.Label()})
	}
	if err := writeSheet(f, ReconciliationSheet, "ReconciliationTable", ReconciliationHeaders, rows); err != nil {
		return err
	}

	changed, err := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#FFC7CE"}, Pattern: 1},
		Font: &excelize.Font{Color: "#9C0006"},
	})
	if err != nil {
		return err
	}
	statusCol, err := excelize.ColumnNumberToName(len(ReconciliationHeaders))
	if err != nil {
		return err
	}
	for i, r := range report.Reconciliation {
		if r.Verdict != types.VerdictChanged {
			continue
		}
		cell := fmt.Sprintf("%s%d", statusCol, i+2)
		if err := f.SetCellStyle(ReconciliationSheet, cell, cell, changed); err != nil {
			return err
		}
	}
	return nil
}

func writeSheet(f *excelize.File, sheet, table string, headers []string, rows [][]interface{}) error {
	header := make([]interface{}, len(headers))
	for i, h := range headers {
		header[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}

	for i := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &rows[i]); err != nil {
			return err
		}
	}

	lastCol, err := excelize.ColumnNumberToName(len(headers))
	if err != nil {
		return err
	}
	if err := f.SetColWidth(sheet, "A", lastCol, colWidth); err != nil {
		return err
	}

	if len(rows) == 0 {
		return nil
	}

	showStripes := true
	return f.AddTable(sheet, &excelize.Table{
		Range:          fmt.Sprintf("A1:%s%d", lastCol, len(rows)+1),
		Name:           table,
		StyleName:      tableStyle,
		ShowRowStripes: &showStripes,
	})
}

func quantityValue(valid bool, v float64) interface{} {
	if !valid {
		return nil
	}
	return v
}
