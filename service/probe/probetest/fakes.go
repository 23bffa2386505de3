// Package probetest provides in-memory EC2 and ELBv2 clients for tests.
package probetest

import (
	"context"
	"slices"
	"strconv"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"
	elbv2 "github.com/aws/aws-sdk-go-v2/service/elasticloadbalancingv2"
	elbtypes "github.com/aws/aws-sdk-go-v2/service/elasticloadbalancingv2/types"
)

// EC2 serves canned describe responses. Filters are ignored except
// "volume-id" on DescribeVolumes; probes are expected to re-check resource
// state themselves.
type EC2 struct {
	Volumes      []ec2types.Volume
	Addresses    []ec2types.Address
	Reservations []ec2types.Reservation
	Snapshots    []ec2types.Snapshot
	Images       []ec2types.Image

	// Err, when set, is returned by every call.
	Err error
	// Errs overrides Err per operation name, e.g. "DescribeImages".
	Errs map[string]error
	// PageSize splits list responses into pages when positive.
	PageSize int

	mu               sync.Mutex
	calls            map[string]int
	snapshotOwnerIDs []string
	imageOwners      []string
	volumeIDLookups  [][]string
}

func (f *EC2) record(op string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.calls == nil {
		f.calls = make(map[string]int)
	}
	f.calls[op]++

	if err, ok := f.Errs[op]; ok {
		return err
	}
	return f.Err
}

// Calls returns how often op was invoked.
func (f *EC2) Calls(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[op]
}

// SnapshotOwnerIDs returns the owner filter of the last DescribeSnapshots call.
func (f *EC2) SnapshotOwnerIDs() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.snapshotOwnerIDs
}

// ImageOwners returns the owner filter of the last DescribeImages call.
func (f *EC2) ImageOwners() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.imageOwners
}

// VolumeIDLookups returns the volume-id filter values of every DescribeVolumes call that set one.
func (f *EC2) VolumeIDLookups() [][]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.volumeIDLookups
}

func (f *EC2) DescribeVolumes(_ context.Context, params *ec2.DescribeVolumesInput, _ ...func(*ec2.Options)) (*ec2.DescribeVolumesOutput, error) {
	if err := f.record("DescribeVolumes"); err != nil {
		return nil, err
	}

	volumes := f.Volumes
	if ids, ok := filterValues(params.Filters, "volume-id"); ok {
		f.mu.Lock()
		f.volumeIDLookups = append(f.volumeIDLookups, slices.Clone(ids))
		f.mu.Unlock()

		volumes = nil
		for _, vol := range f.Volumes {
			if slices.Contains(ids, aws.ToString(vol.VolumeId)) {
				volumes = append(volumes, vol)
			}
		}
	}

	items, next := page(volumes, params.NextToken, f.PageSize)
	return &ec2.DescribeVolumesOutput{Volumes: items, NextToken: next}, nil
}

func (f *EC2) DescribeAddresses(_ context.Context, _ *ec2.DescribeAddressesInput, _ ...func(*ec2.Options)) (*ec2.DescribeAddressesOutput, error) {
	if err := f.record("DescribeAddresses"); err != nil {
		return nil, err
	}
	return &ec2.DescribeAddressesOutput{Addresses: f.Addresses}, nil
}

func (f *EC2) DescribeInstances(_ context.Context, params *ec2.DescribeInstancesInput, _ ...func(*ec2.Options)) (*ec2.DescribeInstancesOutput, error) {
	if err := f.record("DescribeInstances"); err != nil {
		return nil, err
	}
	items, next := page(f.Reservations, params.NextToken, f.PageSize)
	return &ec2.DescribeInstancesOutput{Reservations: items, NextToken: next}, nil
}

func (f *EC2) DescribeSnapshots(_ context.Context, params *ec2.DescribeSnapshotsInput, _ ...func(*ec2.Options)) (*ec2.DescribeSnapshotsOutput, error) {
	if err := f.record("DescribeSnapshots"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	f.snapshotOwnerIDs = slices.Clone(params.OwnerIds)
	f.mu.Unlock()

	items, next := page(f.Snapshots, params.NextToken, f.PageSize)
	return &ec2.DescribeSnapshotsOutput{Snapshots: items, NextToken: next}, nil
}

func (f *EC2) DescribeImages(_ context.Context, params *ec2.DescribeImagesInput, _ ...func(*ec2.Options)) (*ec2.DescribeImagesOutput, error) {
	if err := f.record("DescribeImages"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	f.imageOwners = slices.Clone(params.Owners)
	f.mu.Unlock()

	items, next := page(f.Images, params.NextToken, f.PageSize)
	return &ec2.DescribeImagesOutput{Images: items, NextToken: next}, nil
}

// ELB serves canned ELBv2 responses keyed by ARN.
type ELB struct {
	LoadBalancers []elbtypes.LoadBalancer
	// TargetGroups maps a load balancer ARN to its target groups.
	TargetGroups map[string][]elbtypes.TargetGroup
	// TargetHealth maps a target group ARN to its target health.
	TargetHealth map[string][]elbtypes.TargetHealthDescription

	Err  error
	Errs map[string]error

	mu    sync.Mutex
	calls map[string]int
}

func (f *ELB) record(op string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.calls == nil {
		f.calls = make(map[string]int)
	}
	f.calls[op]++

	if err, ok := f.Errs[op]; ok {
		return err
	}
	return f.Err
}

// Calls returns how often op was invoked.
func (f *ELB) Calls(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[op]
}

func (f *ELB) DescribeLoadBalancers(_ context.Context, _ *elbv2.DescribeLoadBalancersInput, _ ...func(*elbv2.Options)) (*elbv2.DescribeLoadBalancersOutput, error) {
	if err := f.record("DescribeLoadBalancers"); err != nil {
		return nil, err
	}
	return &elbv2.DescribeLoadBalancersOutput{LoadBalancers: f.LoadBalancers}, nil
}

func (f *ELB) DescribeTargetGroups(_ context.Context, params *elbv2.DescribeTargetGroupsInput, _ ...func(*elbv2.Options)) (*elbv2.DescribeTargetGroupsOutput, error) {
	if err := f.record("DescribeTargetGroups"); err != nil {
		return nil, err
	}
	return &elbv2.DescribeTargetGroupsOutput{TargetGroups: f.TargetGroups[aws.ToString(params.LoadBalancerArn)]}, nil
}

func (f *ELB) DescribeTargetHealth(_ context.Context, params *elbv2.DescribeTargetHealthInput, _ ...func(*elbv2.Options)) (*elbv2.DescribeTargetHealthOutput, error) {
	if err := f.record("DescribeTargetHealth"); err != nil {
		return nil, err
	}
	return &elbv2.DescribeTargetHealthOutput{TargetHealthDescriptions: f.TargetHealth[aws.ToString(params.TargetGroupArn)]}, nil
}

func filterValues(filters []ec2types.Filter, name string) ([]string, bool) {
	for _, f := range filters {
		if aws.ToString(f.Name) == name {
			return f.Values, true
		}
	}
	return nil, false
}

// page slices items using the token as a numeric offset.
func page[T any](items []T, token *string, size int) ([]T, *string) {
	if size <= 0 {
		return items, nil
	}

	start := 0
	if token != nil {
		start, _ = strconv.Atoi(*token)
	}
	if start >= len(items) {
		return nil, nil
	}

	end := min(start+size, len(items))
	if end == len(items) {
		return items[start:end], nil
	}
	return items[start:end], aws.String(strconv.Itoa(end))
}
