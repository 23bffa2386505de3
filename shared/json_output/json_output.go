// Package jsonoutput renders run results as JSON documents.
package jsonoutput

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/thirukguru/aws-wastesweep/model"
)

// WasteReportJSON is the machine-readable form of a waste report.
type WasteReportJSON struct {
	AccountID      string             `json:"account_id,omitempty"`
	GeneratedAt    string             `json:"generated_at"`
	RegionsScanned int                `json:"regions_scanned"`
	FailedRegions  []string           `json:"failed_regions"`
	HasFindings    bool               `json:"has_findings"`
	Summary        WasteSummaryJSON   `json:"summary"`
	Findings       []WasteFindingJSON `json:"findings"`
}

// WasteSummaryJSON aggregates findings per kind.
type WasteSummaryJSON struct {
	TotalFindings         int            `json:"total_findings"`
	PotentialMonthlySaves string         `json:"potential_monthly_savings"`
	ByKind                map[string]int `json:"by_kind"`
}

// WasteFindingJSON is one finding with its cost formatted to cents.
type WasteFindingJSON struct {
	Type        string `json:"type"`
	Region      string `json:"region"`
	ResourceID  string `json:"resource_id"`
	Name        string `json:"name"`
	Details     string `json:"details"`
	MonthlyCost string `json:"monthly_cost"`
}

// OutputReportJSON writes the report for one run as indented JSON.
func OutputReportJSON(w io.Writer, input model.RenderReportInput) error {
	generatedAt := input.Report.GeneratedAt
	if generatedAt.IsZero() {
		generatedAt = time.Now()
	}

	return writeJSON(w, BuildWasteReport(input, generatedAt.UTC().Format(time.RFC3339)))
}

// BuildWasteReport builds the JSON report model.
func BuildWasteReport(input model.RenderReportInput, generatedAt string) WasteReportJSON {
	findings := make([]WasteFindingJSON, 0, len(input.Report.Findings))
	byKind := make(map[string]int)

	for _, f := range input.Report.Findings {
		byKind[string(f.Kind)]++
		findings = append(findings, WasteFindingJSON{
			Type:        string(f.Kind),
			Region:      f.Region,
			ResourceID:  f.ResourceID,
			Name:        f.DisplayName,
			Details:     f.Details,
			MonthlyCost: f.EstimatedMonthlyCost.StringFixed(2),
		})
	}

	failed := input.FailedRegions
	if failed == nil {
		failed = []string{}
	}

	return WasteReportJSON{
		AccountID:      input.AccountID,
		GeneratedAt:    generatedAt,
		RegionsScanned: input.RegionsScanned,
		FailedRegions:  failed,
		HasFindings:    len(findings) > 0,
		Summary: WasteSummaryJSON{
			TotalFindings:         len(findings),
			PotentialMonthlySaves: input.Report.Total.StringFixed(2),
			ByKind:                byKind,
		},
		Findings: findings,
	}
}

// OutputStatusJSON writes the run status as a single JSON line.
func OutputStatusJSON(w io.Writer, status model.RunStatus) error {
	data, err := json.Marshal(status)
	if err != nil {
		return fmt.Errorf("failed to marshal run status: %w", err)
	}

	_, err = fmt.Fprintln(w, string(data))

	return err
}

func writeJSON(w io.Writer, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, string(data))

	return err
}
