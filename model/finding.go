package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Kind identifies the category of waste a finding belongs to.
type Kind string

// Finding kinds. The values double as the report's display labels.
const (
	KindUnattachedVolume Kind = "Unattached EBS"
	KindUnusedFloatingIP Kind = "Unused EIP"
	KindStoppedInstance  Kind = "Stopped EC2"
	KindIdleLoadBalancer Kind = "Idle Load Balancer"
	KindOrphanSnapshot   Kind = "Orphan Snapshot"
)

// AllKinds lists every kind in probe order.
var AllKinds = []Kind{
	KindUnattachedVolume,
	KindUnusedFloatingIP,
	KindStoppedInstance,
	KindIdleLoadBalancer,
	KindOrphanSnapshot,
}

// Finding is one detected waste item.
type Finding struct {
	Kind                 Kind            `json:"kind"`
	Region               string          `json:"region"`
	ResourceID           string          `json:"resource_id"`
	DisplayName          string          `json:"display_name"`
	Details              string          `json:"details"`
	EstimatedMonthlyCost decimal.Decimal `json:"estimated_monthly_cost"`
}

// RegionResult is the outcome of scanning a single region.
// A failed region carries Err and no findings.
type RegionResult struct {
	Region   string
	Findings []Finding
	Err      error
	Duration time.Duration
}

// Failed reports whether the region scan ended in an error.
func (r RegionResult) Failed() bool {
	return r.Err != nil
}

// CollectFindings concatenates the findings of all successful regions
// in result order.
func CollectFindings(results []RegionResult) []Finding {
	var findings []Finding
	for _, result := range results {
		if result.Failed() {
			continue
		}
		findings = append(findings, result.Findings...)
	}

	return findings
}

// FailedRegions returns the names of regions whose scan failed.
func FailedRegions(results []RegionResult) []string {
	var regions []string
	for _, result := range results {
		if result.Failed() {
			regions = append(regions, result.Region)
		}
	}

	return regions
}

// Report is the ranked, totalled set of findings for one run.
type Report struct {
	Findings    []Finding       `json:"findings"`
	Total       decimal.Decimal `json:"total_monthly_savings"`
	GeneratedAt time.Time       `json:"generated_at"`
	Subject     string          `json:"subject"`
	Document    string          `json:"-"`
}
