// Package probe provides the per-resource waste detectors run in every region.
package probe

import (
	"time"

	"github.com/thirukguru/aws-wastesweep/model"
)

// Options configures the default probe set.
type Options struct {
	Pricing           model.PriceTable
	Estimator         StoppedInstanceEstimator
	EnforceStoppedAge bool
	Now               func() time.Time
}

// All returns the five probes in the order a region is scanned.
func All(opts Options) []Probe {
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	estimator := opts.Estimator
	if estimator == nil {
		estimator = AverageVolumeSize{Pricing: opts.Pricing}
	}

	var instanceOpts []StoppedInstancesOption
	if opts.EnforceStoppedAge {
		instanceOpts = append(instanceOpts, WithMinimumStoppedAge(now))
	}

	return []Probe{
		NewUnattachedVolumes(opts.Pricing),
		NewUnusedAddresses(opts.Pricing),
		NewStoppedInstances(opts.Pricing, estimator, instanceOpts...),
		NewIdleLoadBalancers(opts.Pricing),
		NewOrphanSnapshots(opts.Pricing, now),
	}
}
