package batch

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// Columns are the report headers, in order.
var Columns = []string{"Family", "N_Abstracts", "N_Matches", "Peak_MEM", "Time"}

// Table renders rows as a bordered text table. The table is built once from
// the finished row list.
func Table(rows []Row) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, len(Columns))
	for i, c := range Columns {
		header[i] = c
	}
	tw.AppendHeader(header)

	for _, r := range rows {
		tw.AppendRow(table.Row{
			r.Family,
			r.NAbstracts,
			r.NMatches,
			fmt.Sprintf("%.2f", r.PeakMemMiB),
			fmt.Sprintf("%.2f", r.TimeSeconds),
		})
	}

	configs := make([]table.ColumnConfig, 0, len(Columns))
	for i := range Columns {
		align := text.AlignRight
		if i == 0 {
			align = text.AlignLeft
		}
		configs = append(configs, table.ColumnConfig{
			Number:      i + 1,
			Align:       align,
			AlignHeader: text.AlignLeft,
		})
	}
	tw.SetColumnConfigs(configs)

	return tw.Render()
}

// Totals sums abstracts, matches and time across rows; memory is the maximum.
func Totals(rows []Row) Row {
	total := Row{Family: "total"}
	for _, r := range rows {
		total.NAbstracts += r.NAbstracts
		total.NMatches += r.NMatches
		total.TimeSeconds += r.TimeSeconds
		if r.PeakMemMiB > total.PeakMemMiB {
			total.PeakMemMiB = r.PeakMemMiB
		}
	}
	return total
}
