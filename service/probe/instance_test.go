package probe

import (
	"context"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thirukguru/aws-wastesweep/model"
	"github.com/thirukguru/aws-wastesweep/service/probe/probetest"
)

func TestStoppedInstancesAverageEstimate(t *testing.T) {
	pricing := model.DefaultPriceTable()
	running := probetest.StoppedInstance("i-running", "vol-r")
	running.State = &ec2types.InstanceState{Name: ec2types.InstanceStateNameRunning}

	tagged := probetest.StoppedInstance("i-1", "vol-a", "vol-b")
	tagged.Tags = probetest.NameTags("legacy-api")

	client := &probetest.EC2{Reservations: []ec2types.Reservation{
		{Instances: []ec2types.Instance{tagged, running}},
		{Instances: []ec2types.Instance{probetest.StoppedInstance("i-2")}},
	}}

	p := NewStoppedInstances(pricing, AverageVolumeSize{Pricing: pricing})
	findings, err := p.Detect(context.Background(), Target{Region: "eu-west-1", EC2: client})
	require.NoError(t, err)
	require.Len(t, findings, 2)

	assert.Equal(t, "i-1", findings[0].ResourceID)
	assert.Equal(t, "legacy-api", findings[0].DisplayName)
	assert.Equal(t, "Stopped (Paying for EBS)", findings[0].Details)
	// two mappings at 30 GB each
	assert.Equal(t, "4.80", findings[0].EstimatedMonthlyCost.StringFixed(2))

	assert.Equal(t, "i-2", findings[1].ResourceID)
	assert.True(t, findings[1].EstimatedMonthlyCost.IsZero())
}

func TestStoppedInstancesDescribedEstimate(t *testing.T) {
	pricing := model.DefaultPriceTable()
	client := &probetest.EC2{
		Volumes: []ec2types.Volume{probetest.AttachedVolume("vol-a", 200)},
		Reservations: []ec2types.Reservation{
			{Instances: []ec2types.Instance{probetest.StoppedInstance("i-1", "vol-a", "vol-gone")}},
		},
	}

	p := NewStoppedInstances(pricing, DescribedVolumeSize{Pricing: pricing})
	findings, err := p.Detect(context.Background(), Target{Region: "eu-west-1", EC2: client})
	require.NoError(t, err)
	require.Len(t, findings, 1)

	// 200 GB described + 30 GB assumed for the volume the lookup did not return
	assert.Equal(t, "18.40", findings[0].EstimatedMonthlyCost.StringFixed(2))
	assert.Equal(t, [][]string{{"vol-a", "vol-gone"}}, client.VolumeIDLookups())
}

func TestStoppedInstancesMinimumAge(t *testing.T) {
	now := time.Date(2024, 3, 20, 12, 0, 0, 0, time.UTC)
	pricing := model.DefaultPriceTable()

	recent := probetest.StoppedInstance("i-recent", "vol-1")
	recent.StateTransitionReason = aws.String("User initiated (2024-03-18 09:00:00 GMT)")
	old := probetest.StoppedInstance("i-old", "vol-2")
	old.StateTransitionReason = aws.String("User initiated (2024-02-01 09:00:00 GMT)")
	unknown := probetest.StoppedInstance("i-unknown", "vol-3")

	client := &probetest.EC2{Reservations: []ec2types.Reservation{
		{Instances: []ec2types.Instance{recent, old, unknown}},
	}}

	t.Run("disabled by default", func(t *testing.T) {
		findings, err := NewStoppedInstances(pricing, AverageVolumeSize{Pricing: pricing}).
			Detect(context.Background(), Target{EC2: client})
		require.NoError(t, err)
		assert.Len(t, findings, 3)
	})

	t.Run("enforced", func(t *testing.T) {
		p := NewStoppedInstances(pricing, AverageVolumeSize{Pricing: pricing}, WithMinimumStoppedAge(func() time.Time { return now }))
		findings, err := p.Detect(context.Background(), Target{EC2: client})
		require.NoError(t, err)
		require.Len(t, findings, 2)
		assert.Equal(t, "i-old", findings[0].ResourceID)
		assert.Equal(t, "i-unknown", findings[1].ResourceID)
	})
}

func TestParseTransitionDate(t *testing.T) {
	got, err := ParseTransitionDate("User initiated (2024-01-02 15:04:05 GMT)")
	require.NoError(t, err)
	assert.Equal(t, 2024, got.Year())
	assert.Equal(t, time.January, got.Month())
	assert.Equal(t, 2, got.Day())

	_, err = ParseTransitionDate("Server.ScheduledStop")
	assert.Error(t, err)
}
