// Package trends renders stored run history as console tables.
package trends

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/thirukguru/aws-wastesweep/service/storage"
)

const timestampLayout = "2006-01-02 15:04"

// RenderRunsTable prints recent runs, newest first.
func RenderRunsTable(w io.Writer, runs []storage.RunSummary) {
	if len(runs) == 0 {
		fmt.Fprintln(w, "No runs recorded")
		return
	}

	t := newTable(w)
	t.AppendHeader(table.Row{"Run", "Account", "Time", "Regions", "Failed", "Findings", "Savings/Mo", "Status"})
	for _, r := range runs {
		t.AppendRow(table.Row{
			r.RunID,
			r.AccountID,
			r.RunTimestamp.Local().Format(timestampLayout),
			r.RegionsScanned,
			r.RegionsFailed,
			r.TotalFindings,
			"$" + r.Total.StringFixed(2),
			r.Status,
		})
	}
	t.Render()
}

// RenderFindingsTable prints the findings recorded by one run.
func RenderFindingsTable(w io.Writer, runID int64, findings []storage.FindingSnapshot) {
	fmt.Fprintf(w, "\nRun %d\n", runID)
	if len(findings) == 0 {
		fmt.Fprintln(w, "No findings recorded")
		return
	}

	t := newTable(w)
	t.AppendHeader(table.Row{"Type", "Region", "Resource", "Name", "Est. Save/Mo", "Status"})
	for _, f := range findings {
		t.AppendRow(table.Row{f.Kind, f.Region, f.ResourceID, f.DisplayName, "$" + f.MonthlyCost.StringFixed(2), f.Status})
	}
	t.SetColumnConfigs([]table.ColumnConfig{{Number: 5, Align: text.AlignRight}})
	t.Render()
}

// RenderTrendTable prints an ASCII table of daily savings.
func RenderTrendTable(w io.Writer, points []storage.TrendPoint) {
	if len(points) == 0 {
		fmt.Fprintln(w, "No trend data available")
		return
	}

	t := newTable(w)
	t.AppendHeader(table.Row{"Date", "Runs", "Findings", "Savings/Mo"})
	for _, p := range points {
		t.AppendRow(table.Row{p.Date, p.Runs, p.TotalFindings, fmt.Sprintf("$%.2f", p.Savings)})
	}
	t.Render()
}

// RenderComparisonTable prints comparison summary for two runs.
func RenderComparisonTable(w io.Writer, cmp *storage.RunComparison) {
	if cmp == nil {
		fmt.Fprintln(w, "No comparison data available")
		return
	}

	fmt.Fprintf(w, "\nRun Comparison (%d -> %d)\n", cmp.RunID1, cmp.RunID2)
	t := newTable(w)
	t.AppendHeader(table.Row{"New", "Resolved", "Persistent"})
	t.AppendRow(table.Row{cmp.NewFindings, cmp.Resolved, cmp.Persistent})
	t.Render()
}

func newTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleRounded)

	return t
}
