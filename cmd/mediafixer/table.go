package main

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// countRow is one label/value line in a summary table.
type countRow struct {
	label string
	count int
}

// renderCounts renders a two-column table of labelled counts with the
// numeric column right-aligned.
func renderCounts(title string, rows []countRow) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{title, "Count"})

	for _, row := range rows {
		tw.AppendRow(table.Row{row.label, row.count})
	}

	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignLeft, AlignHeader: text.AlignLeft},
		{Number: 2, Align: text.AlignRight, AlignHeader: text.AlignLeft},
	})
	return tw.Render()
}
