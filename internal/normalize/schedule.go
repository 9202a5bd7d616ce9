package normalize

import (
	"github.com/nconklindev/dateline/internal/classifier"
	"github.com/nconklindev/dateline/internal/types"
)

// Schedule classifies every row of the schedule table, one record per row, in
// input order.
func Schedule(table *types.Table, c *classifier.Classifier) []types.ScheduleRecord {
	if table == nil {
		return nil
	}

	records := make([]types.ScheduleRecord, 0, len(table.Rows))
	for _, row := range table.Rows {
		records = append(records, c.Classify(row))
	}
	return records
}
