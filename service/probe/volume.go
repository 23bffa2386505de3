package probe

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/thirukguru/aws-wastesweep/model"
)

type unattachedVolumes struct {
	pricing model.PriceTable
}

// NewUnattachedVolumes reports block volumes that are attached to nothing.
func NewUnattachedVolumes(pricing model.PriceTable) Probe {
	return &unattachedVolumes{pricing: pricing}
}

func (p *unattachedVolumes) Kind() model.Kind {
	return model.KindUnattachedVolume
}

func (p *unattachedVolumes) Detect(ctx context.Context, target Target) ([]model.Finding, error) {
	var findings []model.Finding

	paginator := ec2.NewDescribeVolumesPaginator(target.EC2, &ec2.DescribeVolumesInput{
		Filters: []ec2types.Filter{
			{Name: aws.String("status"), Values: []string{string(ec2types.VolumeStateAvailable)}},
		},
	})

	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to describe volumes: %w", err)
		}

		for _, vol := range page.Volumes {
			if vol.State != ec2types.VolumeStateAvailable {
				continue
			}
			if vol.VolumeId == nil || vol.Size == nil {
				return nil, fmt.Errorf("%w: volume without id or size", ErrMalformedResponse)
			}

			size := aws.ToInt32(vol.Size)
			findings = append(findings, model.Finding{
				Kind:                 model.KindUnattachedVolume,
				Region:               target.Region,
				ResourceID:           aws.ToString(vol.VolumeId),
				DisplayName:          displayName(vol.Tags),
				Details:              fmt.Sprintf("%d GB", size),
				EstimatedMonthlyCost: p.pricing.VolumeCost(size),
			})
		}
	}

	return findings, nil
}
