package probe

import (
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/stretchr/testify/assert"
	"github.com/thirukguru/aws-wastesweep/model"
)

func TestResolveTag(t *testing.T) {
	tests := []struct {
		name     string
		tags     map[string]string
		key      string
		fallback string
		want     string
	}{
		{"present", map[string]string{"Name": "db"}, "Name", "-", "db"},
		{"absent", map[string]string{"env": "prod"}, "Name", "-", "-"},
		{"nil map", nil, "Name", "unnamed", "unnamed"},
		{"present but empty", map[string]string{"Name": ""}, "Name", "-", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveTag(tt.tags, tt.key, tt.fallback))
		})
	}
}

func TestDisplayNameSkipsKeylessTags(t *testing.T) {
	tags := []ec2types.Tag{
		{Value: aws.String("orphan value")},
		{Key: aws.String("Name"), Value: aws.String("api")},
	}
	assert.Equal(t, "api", displayName(tags))
	assert.Equal(t, Placeholder, displayName(nil))
}

func TestAllProbeOrder(t *testing.T) {
	probes := All(Options{Pricing: model.DefaultPriceTable()})

	var kinds []model.Kind
	for _, p := range probes {
		kinds = append(kinds, p.Kind())
	}
	assert.Equal(t, model.AllKinds, kinds)
}

func TestNewStoppedInstanceEstimator(t *testing.T) {
	pricing := model.DefaultPriceTable()

	e, err := NewStoppedInstanceEstimator("", pricing)
	assert.NoError(t, err)
	assert.IsType(t, AverageVolumeSize{}, e)

	e, err = NewStoppedInstanceEstimator(EstimateDescribed, pricing)
	assert.NoError(t, err)
	assert.IsType(t, DescribedVolumeSize{}, e)

	_, err = NewStoppedInstanceEstimator("exact", pricing)
	assert.Error(t, err)
}
