package probe

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/thirukguru/aws-wastesweep/model"
)

type orphanSnapshots struct {
	pricing model.PriceTable
	now     func() time.Time
}

// NewOrphanSnapshots reports owned snapshots that no owned image references
// and that are older than the price table's SnapshotAgeDays.
func NewOrphanSnapshots(pricing model.PriceTable, now func() time.Time) Probe {
	if now == nil {
		now = time.Now
	}
	return &orphanSnapshots{pricing: pricing, now: now}
}

func (p *orphanSnapshots) Kind() model.Kind {
	return model.KindOrphanSnapshot
}

func (p *orphanSnapshots) Detect(ctx context.Context, target Target) ([]model.Finding, error) {
	referenced, err := referencedSnapshots(ctx, target)
	if err != nil {
		return nil, err
	}

	now := p.now()
	var findings []model.Finding

	paginator := ec2.NewDescribeSnapshotsPaginator(target.EC2, &ec2.DescribeSnapshotsInput{
		OwnerIds: []string{target.AccountID},
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to describe snapshots: %w", err)
		}

		for _, snap := range page.Snapshots {
			if snap.SnapshotId == nil || snap.StartTime == nil || snap.VolumeSize == nil {
				return nil, fmt.Errorf("%w: snapshot without id, start time or size", ErrMalformedResponse)
			}

			id := aws.ToString(snap.SnapshotId)
			if _, ok := referenced[id]; ok {
				continue
			}

			age := AgeInDays(now, aws.ToTime(snap.StartTime))
			if age <= p.pricing.SnapshotAgeDays {
				continue
			}

			size := aws.ToInt32(snap.VolumeSize)
			findings = append(findings, model.Finding{
				Kind:                 model.KindOrphanSnapshot,
				Region:               target.Region,
				ResourceID:           id,
				DisplayName:          displayName(snap.Tags),
				Details:              fmt.Sprintf("%d GB (> %d days)", size, age),
				EstimatedMonthlyCost: p.pricing.SnapshotCost(size),
			})
		}
	}

	return findings, nil
}

// referencedSnapshots collects the snapshot ids backing the account's own images.
func referencedSnapshots(ctx context.Context, target Target) (map[string]struct{}, error) {
	referenced := make(map[string]struct{})

	paginator := ec2.NewDescribeImagesPaginator(target.EC2, &ec2.DescribeImagesInput{
		Owners: []string{target.AccountID},
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to describe images: %w", err)
		}

		for _, image := range page.Images {
			for _, mapping := range image.BlockDeviceMappings {
				if mapping.Ebs == nil || mapping.Ebs.SnapshotId == nil {
					continue
				}
				referenced[aws.ToString(mapping.Ebs.SnapshotId)] = struct{}{}
			}
		}
	}

	return referenced, nil
}

// AgeInDays returns the whole days elapsed between start and now, never negative.
func AgeInDays(now, start time.Time) int {
	if !now.After(start) {
		return 0
	}
	return int(now.Sub(start) / (24 * time.Hour))
}
