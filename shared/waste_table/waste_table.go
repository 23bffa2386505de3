// Package wastetable renders waste findings as console tables.
package wastetable

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/thirukguru/aws-wastesweep/model"
	"github.com/thirukguru/aws-wastesweep/shared/console"
)

// DrawWasteTable renders the ranked findings followed by the savings total
// and the regions that could not be scanned.
func DrawWasteTable(w io.Writer, input model.RenderReportInput) {
	highlight := headlineColor()
	report := input.Report

	if len(report.Findings) == 0 {
		fmt.Fprintf(w, "\n%s\n", text.FgGreen.Sprint("✅ No waste found"))
		drawFailedRegions(w, input.FailedRegions)
		return
	}

	fmt.Fprintf(w, "\n💸 AWS Waste Report")
	if input.AccountID != "" {
		fmt.Fprintf(w, " (account %s)", input.AccountID)
	}
	fmt.Fprintf(w, "\n   %d findings across %d regions\n", len(report.Findings), input.RegionsScanned)

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"Type", "Region", "Resource", "Name", "Details", "Est. Save/Mo"})
	for _, f := range report.Findings {
		t.AppendRow(table.Row{
			kindColor(f.Kind).Sprint(string(f.Kind)),
			f.Region,
			f.ResourceID,
			f.DisplayName,
			f.Details,
			"$" + f.EstimatedMonthlyCost.StringFixed(2),
		})
	}
	t.AppendFooter(table.Row{"", "", "", "", "TOTAL", highlight.Sprint("$" + report.Total.StringFixed(2))})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 6, Align: text.AlignRight, AlignFooter: text.AlignRight},
	})
	t.SetStyle(table.StyleRounded)
	t.Render()

	drawFailedRegions(w, input.FailedRegions)
}

func drawFailedRegions(w io.Writer, regions []string) {
	if len(regions) == 0 {
		return
	}

	fmt.Fprintf(w, "\n%s\n", text.FgYellow.Sprint("⚠️  Not scanned due to errors:"))
	for _, region := range regions {
		fmt.Fprintf(w, "   • %s\n", region)
	}
}

func kindColor(kind model.Kind) text.Colors {
	switch kind {
	case model.KindIdleLoadBalancer, model.KindStoppedInstance:
		return text.Colors{text.FgHiRed}
	case model.KindUnattachedVolume, model.KindOrphanSnapshot:
		return text.Colors{text.FgYellow}
	default:
		return text.Colors{text.FgCyan}
	}
}

// Yellow is unreadable on blue consoles.
func headlineColor() text.Colors {
	if console.IsBlueBackground() {
		return text.Colors{text.Bold, text.FgHiWhite}
	}

	return text.Colors{text.Bold, text.FgHiYellow}
}
