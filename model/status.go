package model

import "github.com/shopspring/decimal"

// Run status values returned to the trigger.
const (
	StatusReportSent = "Report Sent"
	StatusClean      = "Clean"
)

// RunStatus is the structured result of one end-to-end run.
type RunStatus struct {
	Status  string   `json:"status"`
	Savings *float64 `json:"savings,omitempty"`
}

// CleanStatus is returned when no region produced a finding.
func CleanStatus() RunStatus {
	return RunStatus{Status: StatusClean}
}

// ReportSentStatus is returned after a report was delivered.
func ReportSentStatus(total decimal.Decimal) RunStatus {
	savings := total.Round(2).InexactFloat64()

	return RunStatus{Status: StatusReportSent, Savings: &savings}
}
