package main

import (
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// sourceRow is one line of the upload progress table.
type sourceRow struct {
	label    string
	pending  int
	uploaded int
}

// renderSourceTable renders per-source upload progress with a computed
// total column. Counts are right-aligned, the source label stays left.
func renderSourceTable(rows []sourceRow) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"Source", "Pending", "Uploaded", "Total"})

	for _, row := range rows {
		tw.AppendRow(table.Row{
			row.label,
			strconv.Itoa(row.pending),
			strconv.Itoa(row.uploaded),
			strconv.Itoa(row.pending + row.uploaded),
		})
	}

	configs := make([]table.ColumnConfig, 0, 4)
	for i := 1; i <= 4; i++ {
		align := text.AlignRight
		if i == 1 {
			align = text.AlignLeft
		}
		configs = append(configs, table.ColumnConfig{
			Number:      i,
			Align:       align,
			AlignHeader: text.AlignLeft,
		})
	}
	tw.SetColumnConfigs(configs)

	return tw.Render()
}
