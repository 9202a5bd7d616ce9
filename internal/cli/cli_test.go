package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/nconklindev/dateline/internal/normalize"
	"github.com/nconklindev/dateline/internal/pipeline"
	"github.com/nconklindev/dateline/internal/types"
	"github.com/nconklindev/dateline/internal/workbook"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func writeOrders(t *testing.T, path string) {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)

	header := make([]interface{}, len(normalize.OrderColumns))
	for i, h := range normalize.OrderColumns {
		header[i] = h
	}
	require.NoError(t, f.SetSheetRow(sheet, "A1", &header))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]interface{}{
		"PINGRM", "30012345", "11", "1", "4001234568", "Bracket", "C-2", 20, 20, "14-03-2024",
	}))
	require.NoError(t, f.SetSheetRow(sheet, "A3", &[]interface{}{
		"PINGRM", "30055555", "12", "1", "4001234569", "Bolt", "C-3", 5, 5, "21-03-2024",
	}))
	require.NoError(t, f.SaveAs(path))
}

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRootCmd_Headless(t *testing.T) {
	dir := t.TempDir()
	schedule := filepath.Join(dir, "schedule.csv")
	orders := filepath.Join(dir, "orders.xlsx")
	outDir := filepath.Join(dir, "out")
	require.NoError(t, os.Mkdir(outDir, 0o755))

	// 15-03-2024 falls in ISO week 11; the order's 14-03-2024 is US week 10.
	require.NoError(t, os.WriteFile(schedule, []byte("PINGRM export\n"+
		"4001234568;30012345;15-03-2024;20\n"+
		"4001234569;30055555;21-03-2024;5\n"), 0o644))
	writeOrders(t, orders)

	out, err := runCommand(t,
		"--schedule", schedule,
		"--order", orders,
		"--output-dir", outDir,
		"--env-dir", dir,
	)
	require.NoError(t, err)

	artifact := filepath.Join(outDir, "Processed_Data.xlsx")
	assert.FileExists(t, artifact)
	assert.Contains(t, out, artifact)
	assert.Contains(t, out, types.VerdictChanged.Label())

	f, err := excelize.OpenFile(artifact)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(workbook.ReconciliationSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"4001234568", "30012345", "2024-11", "2024-10", "Date changed"}, rows[1])
	assert.Equal(t, []string{"4001234569", "30055555", "2024-12", "2024-11", "Date changed"}, rows[2])
}

func TestRootCmd_MissingSourceIsNotAnError(t *testing.T) {
	dir := t.TempDir()
	schedule := filepath.Join(dir, "schedule.csv")
	require.NoError(t, os.WriteFile(schedule, []byte("title\n"), 0o644))

	out, err := runCommand(t,
		"--schedule", schedule,
		"--output-dir", dir,
		"--env-dir", dir,
	)

	require.NoError(t, err)
	assert.Empty(t, out)
	assert.NoFileExists(t, filepath.Join(dir, "Processed_Data.xlsx"))
}

func TestRootCmd_SchemaMismatchFails(t *testing.T) {
	dir := t.TempDir()
	schedule := filepath.Join(dir, "schedule.csv")
	orders := filepath.Join(dir, "orders.xlsx")
	require.NoError(t, os.WriteFile(schedule, []byte("title\n4001234568;30012345;15-03-2024;20\n"), 0o644))

	f := excelize.NewFile()
	require.NoError(t, f.SetSheetRow(f.GetSheetName(0), "A1", &[]interface{}{"CustID", "PO"}))
	require.NoError(t, f.SetSheetRow(f.GetSheetName(0), "A2", &[]interface{}{"PINGRM", "30012345"}))
	require.NoError(t, f.SaveAs(orders))
	require.NoError(t, f.Close())

	_, err := runCommand(t,
		"--schedule", schedule,
		"--order", orders,
		"--output-dir", dir,
		"--env-dir", dir,
	)

	assert.ErrorIs(t, err, normalize.ErrSchemaMismatch)
	assert.NoFileExists(t, filepath.Join(dir, "Processed_Data.xlsx"))
}

func TestRenderSummary(t *testing.T) {
	res := &pipeline.Result{
		Artifact: "Processed_Data.xlsx",
		Report: &types.Report{
			Summary: types.Summary{ScheduleRows: 4, OrderRows: 3, Unchanged: 2, Changed: 1, ReferenceNotFound: 1},
		},
	}

	out := renderSummary(res)

	assert.Contains(t, out, "Written to Processed_Data.xlsx")
	assert.Contains(t, out, "Unchanged")
	assert.Contains(t, out, "Date changed")
	assert.Contains(t, out, "Reference not found")
	assert.Contains(t, out, "4 / 3")
}

func TestRenderSummary_Nil(t *testing.T) {
	assert.Empty(t, renderSummary(nil))
	assert.Empty(t, renderSummary(&pipeline.Result{}))
}

