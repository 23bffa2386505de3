package probe

import (
	"context"
	"errors"

	"github.com/aws/aws-sdk-go-v2/service/ec2"
	elbv2 "github.com/aws/aws-sdk-go-v2/service/elasticloadbalancingv2"
	"github.com/thirukguru/aws-wastesweep/model"
)

// ErrMalformedResponse is returned when a provider response lacks a field a probe depends on.
var ErrMalformedResponse = errors.New("malformed provider response")

// EC2ClientAPI is the interface for the AWS EC2 client methods used by the probes.
type EC2ClientAPI interface {
	DescribeVolumes(ctx context.Context, params *ec2.DescribeVolumesInput, optFns ...func(*ec2.Options)) (*ec2.DescribeVolumesOutput, error)
	DescribeAddresses(ctx context.Context, params *ec2.DescribeAddressesInput, optFns ...func(*ec2.Options)) (*ec2.DescribeAddressesOutput, error)
	DescribeInstances(ctx context.Context, params *ec2.DescribeInstancesInput, optFns ...func(*ec2.Options)) (*ec2.DescribeInstancesOutput, error)
	DescribeSnapshots(ctx context.Context, params *ec2.DescribeSnapshotsInput, optFns ...func(*ec2.Options)) (*ec2.DescribeSnapshotsOutput, error)
	DescribeImages(ctx context.Context, params *ec2.DescribeImagesInput, optFns ...func(*ec2.Options)) (*ec2.DescribeImagesOutput, error)
}

// ELBClientAPI is the interface for the AWS ELBv2 client methods used by the probes.
type ELBClientAPI interface {
	DescribeLoadBalancers(ctx context.Context, params *elbv2.DescribeLoadBalancersInput, optFns ...func(*elbv2.Options)) (*elbv2.DescribeLoadBalancersOutput, error)
	DescribeTargetGroups(ctx context.Context, params *elbv2.DescribeTargetGroupsInput, optFns ...func(*elbv2.Options)) (*elbv2.DescribeTargetGroupsOutput, error)
	DescribeTargetHealth(ctx context.Context, params *elbv2.DescribeTargetHealthInput, optFns ...func(*elbv2.Options)) (*elbv2.DescribeTargetHealthOutput, error)
}

// Target is the region-scoped context a probe runs against.
type Target struct {
	Region    string
	AccountID string
	EC2       EC2ClientAPI
	ELB       ELBClientAPI
}

// Probe detects one kind of waste in a single region.
type Probe interface {
	Kind() model.Kind
	Detect(ctx context.Context, target Target) ([]model.Finding, error)
}
