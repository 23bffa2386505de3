// Package report ranks findings, totals their cost and renders the report document.
package report

import (
	"fmt"
	"slices"
	"time"

	"github.com/shopspring/decimal"
	"github.com/thirukguru/aws-wastesweep/model"
	htmloutput "github.com/thirukguru/aws-wastesweep/shared/html_output"
)

// NewService creates a report generator. now defaults to time.Now.
func NewService(now func() time.Time) Service {
	if now == nil {
		now = time.Now
	}
	return &service{now: now}
}

// Generate sorts findings by cost, highest first, keeping the incoming order
// among equal costs, and renders the HTML document and email subject.
func (s *service) Generate(findings []model.Finding, opts ...Option) (model.Report, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	sorted := SortByCost(findings)
	total := Total(sorted)
	generatedAt := s.now()

	data := htmloutput.ReportData{
		GeneratedAt:   generatedAt.Format("2006-01-02"),
		Total:         total.StringFixed(2),
		FailedRegions: o.failedRegions,
	}
	for _, f := range sorted {
		data.Rows = append(data.Rows, htmloutput.Row{
			Kind:        string(f.Kind),
			Region:      f.Region,
			ResourceID:  f.ResourceID,
			DisplayName: f.DisplayName,
			Details:     f.Details,
			Cost:        f.EstimatedMonthlyCost.StringFixed(2),
		})
	}

	document, err := htmloutput.GenerateHTMLReport(data)
	if err != nil {
		return model.Report{}, err
	}

	return model.Report{
		Findings:    sorted,
		Total:       total,
		GeneratedAt: generatedAt,
		Subject:     Subject(total),
		Document:    document,
	}, nil
}

// SortByCost returns a copy of findings ordered by cost descending. Ties keep their input order.
func SortByCost(findings []model.Finding) []model.Finding {
	sorted := slices.Clone(findings)
	slices.SortStableFunc(sorted, func(a, b model.Finding) int {
		return b.EstimatedMonthlyCost.Cmp(a.EstimatedMonthlyCost)
	})
	return sorted
}

// Total sums the estimated monthly cost of findings.
func Total(findings []model.Finding) decimal.Decimal {
	total := decimal.Zero
	for _, f := range findings {
		total = total.Add(f.EstimatedMonthlyCost)
	}
	return total
}

// Subject is the email subject line for a report with the given total.
func Subject(total decimal.Decimal) string {
	return fmt.Sprintf("💸 AWS Waste Report: $%s Potential Savings", total.StringFixed(2))
}
