package probe

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/shopspring/decimal"
	"github.com/thirukguru/aws-wastesweep/model"
)

// StoppedInstanceEstimator prices the block storage a stopped instance keeps paying for.
type StoppedInstanceEstimator interface {
	Estimate(ctx context.Context, target Target, instance ec2types.Instance) (decimal.Decimal, error)
}

// Estimation modes accepted by NewStoppedInstanceEstimator.
const (
	EstimateAverage   = "average"
	EstimateDescribed = "described"
)

// NewStoppedInstanceEstimator returns the estimator for mode.
func NewStoppedInstanceEstimator(mode string, pricing model.PriceTable) (StoppedInstanceEstimator, error) {
	switch mode {
	case "", EstimateAverage:
		return AverageVolumeSize{Pricing: pricing}, nil
	case EstimateDescribed:
		return DescribedVolumeSize{Pricing: pricing}, nil
	default:
		return nil, fmt.Errorf("unknown stopped instance estimate %q", mode)
	}
}

// AverageVolumeSize charges every EBS mapping as one volume of the price
// table's assumed average size.
type AverageVolumeSize struct {
	Pricing model.PriceTable
}

func (e AverageVolumeSize) Estimate(_ context.Context, _ Target, instance ec2types.Instance) (decimal.Decimal, error) {
	return e.Pricing.VolumeCost(e.Pricing.AssumedVolumeSizeGB).Mul(decimal.NewFromInt(int64(len(attachedVolumeIDs(instance))))), nil
}

// DescribedVolumeSize looks up the attached volumes and prices their real
// size. Volumes the lookup does not return are priced at the average size.
type DescribedVolumeSize struct {
	Pricing model.PriceTable
}

func (e DescribedVolumeSize) Estimate(ctx context.Context, target Target, instance ec2types.Instance) (decimal.Decimal, error) {
	ids := attachedVolumeIDs(instance)
	if len(ids) == 0 {
		return decimal.Zero, nil
	}

	var lookup []string
	for _, id := range ids {
		if id != "" {
			lookup = append(lookup, id)
		}
	}

	sizes := make(map[string]int32, len(lookup))
	// A volume-id filter tolerates volumes deleted since the instance was
	// described, where VolumeIds would fail the whole call.
	paginator := ec2.NewDescribeVolumesPaginator(target.EC2, &ec2.DescribeVolumesInput{
		Filters: []ec2types.Filter{{Name: aws.String("volume-id"), Values: lookup}},
	})
	for len(lookup) > 0 && paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return decimal.Zero, fmt.Errorf("failed to describe attached volumes: %w", err)
		}
		for _, vol := range page.Volumes {
			if vol.VolumeId != nil && vol.Size != nil {
				sizes[aws.ToString(vol.VolumeId)] = aws.ToInt32(vol.Size)
			}
		}
	}

	total := decimal.Zero
	for _, id := range ids {
		size, ok := sizes[id]
		if !ok {
			size = e.Pricing.AssumedVolumeSizeGB
		}
		total = total.Add(e.Pricing.VolumeCost(size))
	}

	return total, nil
}

// attachedVolumeIDs lists the EBS mappings of an instance. Mappings without
// a volume id still count as attached storage and are returned as "".
func attachedVolumeIDs(instance ec2types.Instance) []string {
	var ids []string
	for _, mapping := range instance.BlockDeviceMappings {
		if mapping.Ebs == nil {
			continue
		}
		ids = append(ids, aws.ToString(mapping.Ebs.VolumeId))
	}
	return ids
}
