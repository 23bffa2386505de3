package probe

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/thirukguru/aws-wastesweep/model"
)

var transitionReasonRegex = regexp.MustCompile(`\(([^)]+)\)`)

type stoppedInstances struct {
	pricing   model.PriceTable
	estimator StoppedInstanceEstimator
	enforce   bool
	now       func() time.Time
}

// StoppedInstancesOption configures the stopped instance probe.
type StoppedInstancesOption func(*stoppedInstances)

// WithMinimumStoppedAge skips instances stopped for less than the price
// table's StoppedInstanceAgeDays. Instances whose stop time cannot be
// determined are still reported.
func WithMinimumStoppedAge(now func() time.Time) StoppedInstancesOption {
	return func(p *stoppedInstances) {
		p.enforce = true
		p.now = now
	}
}

// NewStoppedInstances reports stopped instances, priced by the storage they keep attached.
func NewStoppedInstances(pricing model.PriceTable, estimator StoppedInstanceEstimator, opts ...StoppedInstancesOption) Probe {
	p := &stoppedInstances{pricing: pricing, estimator: estimator, now: time.Now}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *stoppedInstances) Kind() model.Kind {
	return model.KindStoppedInstance
}

func (p *stoppedInstances) Detect(ctx context.Context, target Target) ([]model.Finding, error) {
	var findings []model.Finding

	paginator := ec2.NewDescribeInstancesPaginator(target.EC2, &ec2.DescribeInstancesInput{
		Filters: []ec2types.Filter{
			{Name: aws.String("instance-state-name"), Values: []string{string(ec2types.InstanceStateNameStopped)}},
		},
	})

	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to describe instances: %w", err)
		}

		for _, reservation := range page.Reservations {
			for _, instance := range reservation.Instances {
				if instance.State == nil || instance.State.Name != ec2types.InstanceStateNameStopped {
					continue
				}
				if instance.InstanceId == nil {
					return nil, fmt.Errorf("%w: instance without id", ErrMalformedResponse)
				}
				if p.enforce && p.stoppedRecently(instance) {
					continue
				}

				cost, err := p.estimator.Estimate(ctx, target, instance)
				if err != nil {
					return nil, fmt.Errorf("failed to estimate storage of %s: %w", aws.ToString(instance.InstanceId), err)
				}

				findings = append(findings, model.Finding{
					Kind:                 model.KindStoppedInstance,
					Region:               target.Region,
					ResourceID:           aws.ToString(instance.InstanceId),
					DisplayName:          displayName(instance.Tags),
					Details:              "Stopped (Paying for EBS)",
					EstimatedMonthlyCost: cost,
				})
			}
		}
	}

	return findings, nil
}

func (p *stoppedInstances) stoppedRecently(instance ec2types.Instance) bool {
	stoppedAt, err := ParseTransitionDate(aws.ToString(instance.StateTransitionReason))
	if err != nil {
		return false
	}

	threshold := time.Duration(p.pricing.StoppedInstanceAgeDays) * 24 * time.Hour
	return p.now().Sub(stoppedAt) < threshold
}

// ParseTransitionDate extracts the timestamp from a state transition reason
// such as "User initiated (2024-01-02 15:04:05 GMT)".
func ParseTransitionDate(reason string) (time.Time, error) {
	matches := transitionReasonRegex.FindStringSubmatch(reason)
	if len(matches) < 2 {
		return time.Time{}, fmt.Errorf("no date found in string: %s", reason)
	}

	return time.Parse("2006-01-02 15:04:05 MST", matches[1])
}
