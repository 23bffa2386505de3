package scanner

import (
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	elbv2 "github.com/aws/aws-sdk-go-v2/service/elasticloadbalancingv2"
	"github.com/thirukguru/aws-wastesweep/service/probe"
)

type awsClients struct {
	cfg aws.Config
}

// NewAWSClientFactory returns a factory that derives region-scoped SDK clients from cfg.
func NewAWSClientFactory(cfg aws.Config) ClientFactory {
	return &awsClients{cfg: cfg}
}

func (f *awsClients) ForRegion(region string) (probe.EC2ClientAPI, probe.ELBClientAPI) {
	ec2Client := ec2.NewFromConfig(f.cfg, func(o *ec2.Options) {
		o.Region = region
	})
	elbClient := elbv2.NewFromConfig(f.cfg, func(o *elbv2.Options) {
		o.Region = region
	})
	return ec2Client, elbClient
}
