package workbook

import (
	"context"
	"fmt"

	"github.com/nconklindev/dateline/internal/pipeline"
	"github.com/nconklindev/dateline/internal/types"
)

// FileSources reads both exports from paths picked by the user.
type FileSources struct {
	Reader       *Reader
	SchedulePath string
	OrderPath    string
}

func (s FileSources) ScheduleTable(ctx context.Context) (*types.Table, error) {
	if s.SchedulePath == "" {
		return nil, fmt.Errorf("schedule: %w", pipeline.ErrSourceNotSelected)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	table, err := s.Reader.ReadSchedule(s.SchedulePath)
	if err != nil {
		return nil, fmt.Errorf("read schedule %s: %w", s.SchedulePath, err)
	}
	return table, nil
}

func (s FileSources) OrderTable(ctx context.Context) (*types.Table, error) {
	if s.OrderPath == "" {
		return nil, fmt.Errorf("orders: %w", pipeline.ErrSourceNotSelected)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	table, err := s.Reader.ReadOrders(s.OrderPath)
	if err != nil {
		return nil, fmt.Errorf("read orders %s: %w", s.OrderPath, err)
	}
	return table, nil
}
