package main

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"subpost/internal/workflow"
)

func renderTable(headers []string, rows [][]string) string {
	columns := len(headers)
	if columns == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, columns)
	for i := range columns {
		header[i] = headers[i]
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, columns)
		for i := range columns {
			if i < len(row) {
				r[i] = row[i]
			}
		}
		tw.AppendRow(r)
	}

	columnConfigs := make([]table.ColumnConfig, 0, columns)
	for i := range columns {
		columnConfigs = append(columnConfigs, table.ColumnConfig{
			Number:      i + 1,
			Align:       text.AlignLeft,
			AlignHeader: text.AlignLeft,
		})
	}
	tw.SetColumnConfigs(columnConfigs)

	return tw.Render()
}

func printResult(out io.Writer, result workflow.Result) {
	fmt.Fprintf(out, "\n✅ %s post written to %s\n", result.Kind, result.Path)
	for _, img := range result.Images {
		fmt.Fprintf(out, "   image: %s\n", img)
	}

	rows := make([][]string, 0, len(result.Links))
	for _, link := range result.Links {
		status := "ok"
		if link.Placeholder {
			status = "placeholder"
		}
		rows = append(rows, []string{link.Destination, link.URL, status})
	}
	if len(rows) > 0 {
		fmt.Fprintln(out, renderTable([]string{"Destination", "Link", "Status"}, rows))
	}
	if result.Degraded() {
		fmt.Fprintln(out, "⚠️  Some short links could not be created. Replace the placeholders before publishing.")
	}
}
