// Package pipeline runs one reconciliation from source tables to rendered report.
//
// A run is strictly sequential: both sources are decoded, normalized,
// reconciled and only then handed to the renderer. Any fatal error stops the
// run before rendering, so a failed run never leaves a partial artifact.
package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/nconklindev/dateline/internal/classifier"
	"github.com/nconklindev/dateline/internal/normalize"
	"github.com/nconklindev/dateline/internal/period"
	"github.com/nconklindev/dateline/internal/reconcile"
	"github.com/nconklindev/dateline/internal/types"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrSourceNotSelected is returned when either input was not provided.
var ErrSourceNotSelected = errors.New("source not selected")

// Sources supplies the decoded schedule and order tables.
type Sources interface {
	ScheduleTable(ctx context.Context) (*types.Table, error)
	OrderTable(ctx context.Context) (*types.Table, error)
}

// Renderer persists a finished report and returns where it was written.
type Renderer interface {
	Render(ctx context.Context, report *types.Report) (string, error)
}

type Options struct {
	Logger    *zap.Logger
	Normalize normalize.Config
	Dates     period.Parser
	// Progress receives values in [0,1] as stages finish. Sends never block.
	Progress chan<- float64
}

type Result struct {
	RunID    string
	Artifact string
	Report   *types.Report
}

const stages = 5

// Run executes the whole pipeline once.
func Run(ctx context.Context, sources Sources, renderer Renderer, opts Options) (*Result, error) {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	runID := uuid.NewString()
	log = log.With(zap.String("run_id", runID))

	report, err := Build(ctx, sources, opts, log)
	if err != nil {
		return nil, err
	}

	log.Info("rendering report")
	artifact, err := renderer.Render(ctx, report)
	if err != nil {
		return nil, fmt.Errorf("render report: %w", err)
	}
	reportProgress(opts.Progress, stages)

	log.Info("report written",
		zap.String("path", artifact),
		zap.Int("unchanged", report.Summary.Unchanged),
		zap.Int("changed", report.Summary.Changed),
		zap.Int("reference_not_found", report.Summary.ReferenceNotFound),
	)

	return &Result{RunID: runID, Artifact: artifact, Report: report}, nil
}

// Build produces the report without rendering it.
func Build(ctx context.Context, sources Sources, opts Options, log *zap.Logger) (*types.Report, error) {
	if log == nil {
		log = zap.NewNop()
	}

	log.Info("loading schedule source")
	scheduleTable, err := sources.ScheduleTable(ctx)
	if err != nil {
		return nil, err
	}
	reportProgress(opts.Progress, 1)

	log.Info("loading order source")
	orderTable, err := sources.OrderTable(ctx)
	if err != nil {
		return nil, err
	}
	reportProgress(opts.Progress, 2)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	schedule := normalize.Schedule(scheduleTable, classifier.New(opts.Dates))
	log.Debug("schedule normalized", zap.Int("rows", len(schedule)))

	orders, err := normalize.Orders(orderTable, opts.Normalize, opts.Dates)
	if err != nil {
		return nil, err
	}
	log.Debug("orders normalized",
		zap.Int("rows", len(orders)),
		zap.String("customer_id", opts.Normalize.CustomerID),
	)
	reportProgress(opts.Progress, 3)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	results := reconcile.Reconcile(schedule, orders)
	reportProgress(opts.Progress, 4)

	return &types.Report{
		Schedule:       schedule,
		Orders:         orders,
		Reconciliation: results,
		Summary:        reconcile.Summarize(schedule, orders, results),
	}, nil
}

func reportProgress(ch chan<- float64, stage int) {
	if ch == nil {
		return
	}
	select {
	case ch <- float64(stage) / stages:
	default:
	}
}
