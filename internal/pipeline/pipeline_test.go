package pipeline

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/nconklindev/dateline/internal/normalize"
	"github.com/nconklindev/dateline/internal/period"
	"github.com/nconklindev/dateline/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSources struct {
	schedule    *types.Table
	orders      *types.Table
	scheduleErr error
	orderErr    error
}

func (f fakeSources) ScheduleTable(context.Context) (*types.Table, error) {
	return f.schedule, f.scheduleErr
}

func (f fakeSources) OrderTable(context.Context) (*types.Table, error) {
	return f.orders, f.orderErr
}

type fakeRenderer struct {
	calls   int
	reports []*types.Report
}

func (r *fakeRenderer) Render(_ context.Context, report *types.Report) (string, error) {
	r.calls++
	r.reports = append(r.reports, report)
	return fmt.Sprintf("out_%d.xlsx", r.calls), nil
}

func strRow(values ...string) types.Row {
	row := make(types.Row, len(values))
	for i, v := range values {
		row[i] = types.StringCell(v)
	}
	return row
}

func sources() fakeSources {
	return fakeSources{
		schedule: &types.Table{Rows: []types.Row{
			strRow("4001234567", "forecast", "15-03-2024", "100"),
			strRow("4001234568", "30012345", "15-03-2024", "20"),
			strRow("4001234569", "30099999", "01-04-2024", "5"),
		}},
		orders: &types.Table{
			Headers: normalize.OrderColumns,
			Rows: []types.Row{
				strRow("PINGRM", "30012345", "10", "1", "4001234568", "Bracket", "C-2", "20", "20", "12-03-2024"),
				strRow("PINGRM", "30012345", "11", "1", "4001234568", "Bracket", "C-2", "20", "20", "15-03-2024"),
				strRow("OTHER", "30099999", "12", "1", "4001234569", "Bolt", "C-3", "5", "5", "01-04-2024"),
			},
		},
	}
}

func options() Options {
	return Options{
		Normalize: normalize.Config{CustomerID: "PINGRM"},
		Dates:     period.Parser{DayFirst: true},
	}
}

func TestRun_ProducesReport(t *testing.T) {
	renderer := &fakeRenderer{}

	res, err := Run(context.Background(), sources(), renderer, options())

	require.NoError(t, err)
	assert.Equal(t, "out_1.xlsx", res.Artifact)
	assert.NotEmpty(t, res.RunID)
	require.Equal(t, 1, renderer.calls)

	report := res.Report
	require.Len(t, report.Schedule, 3)
	require.Len(t, report.Orders, 2)
	require.Len(t, report.Reconciliation, 3)

	// 15-03-2024 is ISO week 11 but US week 10, so the keys never agree for
	// the same date.
	assert.Equal(t, types.VerdictReferenceNotFound, report.Reconciliation[0].Verdict)
	assert.Equal(t, types.VerdictChanged, report.Reconciliation[1].Verdict)
	assert.Equal(t, "2024-10", report.Reconciliation[1].OrderPeriod)
	assert.Equal(t, types.VerdictReferenceNotFound, report.Reconciliation[2].Verdict)

	assert.Equal(t, types.Summary{ScheduleRows: 3, OrderRows: 2, Changed: 1, ReferenceNotFound: 2}, report.Summary)
}

func TestRun_Idempotent(t *testing.T) {
	renderer := &fakeRenderer{}

	first, err := Run(context.Background(), sources(), renderer, options())
	require.NoError(t, err)
	second, err := Run(context.Background(), sources(), renderer, options())
	require.NoError(t, err)

	assert.Equal(t, first.Report, second.Report)
	assert.NotEqual(t, first.RunID, second.RunID)
}

func TestRun_AbortsWithoutRendering(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*fakeSources)
		target error
	}{
		{
			name:   "Schedule not selected",
			mutate: func(s *fakeSources) { s.scheduleErr = fmt.Errorf("schedule: %w", ErrSourceNotSelected) },
			target: ErrSourceNotSelected,
		},
		{
			name:   "Orders not selected",
			mutate: func(s *fakeSources) { s.orderErr = fmt.Errorf("orders: %w", ErrSourceNotSelected) },
			target: ErrSourceNotSelected,
		},
		{
			name: "Schema mismatch",
			mutate: func(s *fakeSources) {
				s.orders = &types.Table{Headers: []string{"CustID"}, Rows: []types.Row{strRow("PINGRM")}}
			},
			target: normalize.ErrSchemaMismatch,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := sources()
			tt.mutate(&src)
			renderer := &fakeRenderer{}

			res, err := Run(context.Background(), src, renderer, options())

			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.target))
			assert.Nil(t, res)
			assert.Zero(t, renderer.calls)
		})
	}
}

func TestRun_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	renderer := &fakeRenderer{}

	_, err := Run(ctx, sources(), renderer, options())

	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, renderer.calls)
}

func TestRun_ReportsProgress(t *testing.T) {
	progress := make(chan float64, stages)
	opts := options()
	opts.Progress = progress

	_, err := Run(context.Background(), sources(), &fakeRenderer{}, opts)
	require.NoError(t, err)
	close(progress)

	var got []float64
	for p := range progress {
		got = append(got, p)
	}
	assert.Equal(t, []float64{0.2, 0.4, 0.6, 0.8, 1}, got)
}
