package model

// RenderReportInput is what the console renderers draw for one run.
type RenderReportInput struct {
	AccountID      string   `json:"account_id,omitempty"`
	Report         Report   `json:"report"`
	RegionsScanned int      `json:"regions_scanned"`
	FailedRegions  []string `json:"failed_regions,omitempty"`
}
