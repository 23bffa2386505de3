package report

import (
	"time"

	"github.com/thirukguru/aws-wastesweep/model"
)

type service struct {
	now func() time.Time
}

// Service is the interface for building the waste report.
type Service interface {
	Generate(findings []model.Finding, opts ...Option) (model.Report, error)
}

type options struct {
	failedRegions []string
}

// Option adjusts a single report.
type Option func(*options)

// WithFailedRegions lists regions that could not be scanned in the report footer.
func WithFailedRegions(regions []string) Option {
	return func(o *options) {
		o.failedRegions = regions
	}
}
