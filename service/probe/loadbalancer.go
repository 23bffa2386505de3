package probe

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	elbv2 "github.com/aws/aws-sdk-go-v2/service/elasticloadbalancingv2"
	elbtypes "github.com/aws/aws-sdk-go-v2/service/elasticloadbalancingv2/types"
	"github.com/thirukguru/aws-wastesweep/model"
)

type idleLoadBalancers struct {
	pricing model.PriceTable
}

// NewIdleLoadBalancers reports load balancers without a single healthy or
// initializing target in any of their target groups.
func NewIdleLoadBalancers(pricing model.PriceTable) Probe {
	return &idleLoadBalancers{pricing: pricing}
}

func (p *idleLoadBalancers) Kind() model.Kind {
	return model.KindIdleLoadBalancer
}

func (p *idleLoadBalancers) Detect(ctx context.Context, target Target) ([]model.Finding, error) {
	var findings []model.Finding

	paginator := elbv2.NewDescribeLoadBalancersPaginator(target.ELB, &elbv2.DescribeLoadBalancersInput{})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to describe load balancers: %w", err)
		}

		for _, lb := range page.LoadBalancers {
			if lb.LoadBalancerArn == nil || lb.LoadBalancerName == nil {
				return nil, fmt.Errorf("%w: load balancer without arn or name", ErrMalformedResponse)
			}

			active, err := p.hasActiveTarget(ctx, target.ELB, aws.ToString(lb.LoadBalancerArn))
			if err != nil {
				return nil, err
			}
			if active {
				continue
			}

			findings = append(findings, model.Finding{
				Kind:                 model.KindIdleLoadBalancer,
				Region:               target.Region,
				ResourceID:           aws.ToString(lb.LoadBalancerName),
				DisplayName:          Placeholder,
				Details:              "No Healthy Targets",
				EstimatedMonthlyCost: p.pricing.LoadBalancerMonth,
			})
		}
	}

	return findings, nil
}

func (p *idleLoadBalancers) hasActiveTarget(ctx context.Context, client ELBClientAPI, lbArn string) (bool, error) {
	paginator := elbv2.NewDescribeTargetGroupsPaginator(client, &elbv2.DescribeTargetGroupsInput{
		LoadBalancerArn: aws.String(lbArn),
	})

	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return false, fmt.Errorf("failed to describe target groups of %s: %w", lbArn, err)
		}

		for _, tg := range page.TargetGroups {
			health, err := client.DescribeTargetHealth(ctx, &elbv2.DescribeTargetHealthInput{
				TargetGroupArn: tg.TargetGroupArn,
			})
			if err != nil {
				return false, fmt.Errorf("failed to describe target health of %s: %w", aws.ToString(tg.TargetGroupArn), err)
			}

			for _, desc := range health.TargetHealthDescriptions {
				if desc.TargetHealth == nil {
					continue
				}
				switch desc.TargetHealth.State {
				case elbtypes.TargetHealthStateEnumHealthy, elbtypes.TargetHealthStateEnumInitial:
					return true, nil
				}
			}
		}
	}

	return false, nil
}
