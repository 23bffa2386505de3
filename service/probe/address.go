package probe

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/thirukguru/aws-wastesweep/model"
)

type unusedAddresses struct {
	pricing model.PriceTable
}

// NewUnusedAddresses reports Elastic IPs that are not associated with anything.
func NewUnusedAddresses(pricing model.PriceTable) Probe {
	return &unusedAddresses{pricing: pricing}
}

func (p *unusedAddresses) Kind() model.Kind {
	return model.KindUnusedFloatingIP
}

func (p *unusedAddresses) Detect(ctx context.Context, target Target) ([]model.Finding, error) {
	// DescribeAddresses is not paginated.
	out, err := target.EC2.DescribeAddresses(ctx, &ec2.DescribeAddressesInput{})
	if err != nil {
		return nil, fmt.Errorf("failed to describe addresses: %w", err)
	}

	var findings []model.Finding
	for _, addr := range out.Addresses {
		if addr.AssociationId != nil {
			continue
		}
		if addr.PublicIp == nil {
			return nil, fmt.Errorf("%w: address without public ip", ErrMalformedResponse)
		}

		findings = append(findings, model.Finding{
			Kind:                 model.KindUnusedFloatingIP,
			Region:               target.Region,
			ResourceID:           aws.ToString(addr.PublicIp),
			DisplayName:          displayName(addr.Tags),
			Details:              "Idle Static IP",
			EstimatedMonthlyCost: p.pricing.FloatingIPMonth,
		})
	}

	return findings, nil
}
