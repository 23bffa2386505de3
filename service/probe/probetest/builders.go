package probetest

import (
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"
	elbtypes "github.com/aws/aws-sdk-go-v2/service/elasticloadbalancingv2/types"
)

// NameTags builds a tag list carrying a Name tag.
func NameTags(name string) []ec2types.Tag {
	return []ec2types.Tag{{Key: aws.String("Name"), Value: aws.String(name)}}
}

// AvailableVolume builds an unattached volume.
func AvailableVolume(id string, sizeGB int32, tags ...ec2types.Tag) ec2types.Volume {
	return ec2types.Volume{
		VolumeId: aws.String(id),
		Size:     aws.Int32(sizeGB),
		State:    ec2types.VolumeStateAvailable,
		Tags:     tags,
	}
}

// AttachedVolume builds an in-use volume.
func AttachedVolume(id string, sizeGB int32) ec2types.Volume {
	return ec2types.Volume{
		VolumeId: aws.String(id),
		Size:     aws.Int32(sizeGB),
		State:    ec2types.VolumeStateInUse,
	}
}

// Snapshot builds a snapshot started at start.
func Snapshot(id string, sizeGB int32, start time.Time) ec2types.Snapshot {
	return ec2types.Snapshot{
		SnapshotId: aws.String(id),
		VolumeSize: aws.Int32(sizeGB),
		StartTime:  aws.Time(start),
	}
}

// ImageUsing builds an image backed by the given snapshots.
func ImageUsing(snapshotIDs ...string) ec2types.Image {
	image := ec2types.Image{ImageId: aws.String("ami-" + snapshotIDs[0])}
	for _, id := range snapshotIDs {
		image.BlockDeviceMappings = append(image.BlockDeviceMappings, ec2types.BlockDeviceMapping{
			Ebs: &ec2types.EbsBlockDevice{SnapshotId: aws.String(id)},
		})
	}
	return image
}

// StoppedInstance builds a stopped instance with one EBS mapping per volume id.
func StoppedInstance(id string, volumeIDs ...string) ec2types.Instance {
	instance := ec2types.Instance{
		InstanceId: aws.String(id),
		State:      &ec2types.InstanceState{Name: ec2types.InstanceStateNameStopped},
	}
	for _, vol := range volumeIDs {
		instance.BlockDeviceMappings = append(instance.BlockDeviceMappings, ec2types.InstanceBlockDeviceMapping{
			Ebs: &ec2types.EbsInstanceBlockDevice{VolumeId: aws.String(vol)},
		})
	}
	return instance
}

// LoadBalancer builds a load balancer whose ARN is derived from its name.
func LoadBalancer(name string) elbtypes.LoadBalancer {
	return elbtypes.LoadBalancer{
		LoadBalancerName: aws.String(name),
		LoadBalancerArn:  aws.String("arn:lb/" + name),
	}
}

// TargetGroup builds a target group with the given ARN.
func TargetGroup(arn string) elbtypes.TargetGroup {
	return elbtypes.TargetGroup{TargetGroupArn: aws.String(arn)}
}

// Targets builds target health descriptions in the given states.
func Targets(states ...elbtypes.TargetHealthStateEnum) []elbtypes.TargetHealthDescription {
	var out []elbtypes.TargetHealthDescription
	for _, state := range states {
		out = append(out, elbtypes.TargetHealthDescription{
			TargetHealth: &elbtypes.TargetHealth{State: state},
		})
	}
	return out
}
