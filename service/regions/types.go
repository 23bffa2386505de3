package regions

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/thirukguru/aws-wastesweep/shared/logger"
)

// EC2ClientAPI is the interface for the AWS EC2 client methods used by the service.
type EC2ClientAPI interface {
	DescribeRegions(ctx context.Context, params *ec2.DescribeRegionsInput, optFns ...func(*ec2.Options)) (*ec2.DescribeRegionsOutput, error)
}

type service struct {
	client   EC2ClientAPI
	fallback []string
	log      *logger.Logger
}

// Service is the interface for region enumeration.
type Service interface {
	ListRegions(ctx context.Context) []string
}
