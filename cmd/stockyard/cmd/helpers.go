package cmd

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"

	"github.com/stockyardhq/stockyard/pkg/inventory"
)

// timeRound keeps elapsed durations readable in command output.
const timeRound = 10 * time.Millisecond

// inr formats a rupee amount for terminal output.
func inr(v float64) string {
	s := fmt.Sprintf("%.2f", v)
	return "₹" + strings.TrimSuffix(s, ".00")
}

// renderTable writes rows as an aligned terminal table.
func renderTable(w io.Writer, headers []string, rows [][]string) error {
	table := tablewriter.NewTable(w)

	hs := make([]any, len(headers))
	for i, h := range headers {
		hs[i] = h
	}
	table.Header(hs...)

	for _, row := range rows {
		cells := make([]any, len(row))
		for i, c := range row {
			cells[i] = c
		}
		if err := table.Append(cells...); err != nil {
			return err
		}
	}
	return table.Render()
}

// itemRows renders items into the standard listing columns.
func itemRows(items []inventory.Item) [][]string {
	rows := make([][]string, 0, len(items))
	for _, item := range items {
		rows = append(rows, []string{
			item.PartNumber,
			truncate(item.Description, 48),
			item.Brand,
			item.Category,
			inr(item.ListPrice),
			fmt.Sprintf("%d", item.Quantity),
			item.StockStatus(),
		})
	}
	return rows
}

var itemHeaders = []string{"Part Number", "Description", "Brand", "Category", "Price", "Qty", "Status"}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
