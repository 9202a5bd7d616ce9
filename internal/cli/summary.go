package cli

import (
	"fmt"
	"strconv"

	"github.com/nconklindev/dateline/internal/pipeline"
	"github.com/nconklindev/dateline/internal/types"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

func renderSummary(res *pipeline.Result) string {
	if res == nil || res.Report == nil {
		return ""
	}
	sum := res.Report.Summary

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.SetTitle(fmt.Sprintf("Written to %s", res.Artifact))
	tw.AppendHeader(table.Row{"Status", "Rows"})
	tw.AppendRows([]table.Row{
		{types.VerdictUnchanged.Label(), strconv.Itoa(sum.Unchanged)},
		{types.VerdictChanged.Label(), strconv.Itoa(sum.Changed)},
		{types.VerdictReferenceNotFound.Label(), strconv.Itoa(sum.ReferenceNotFound)},
	})
	tw.AppendFooter(table.Row{"Schedule / orders", fmt.Sprintf("%d / %d", sum.ScheduleRows, sum.OrderRows)})
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignLeft, AlignHeader: text.AlignLeft},
		{Number: 2, Align: text.AlignRight, AlignHeader: text.AlignLeft, AlignFooter: text.AlignRight},
	})

	return tw.Render()
}
