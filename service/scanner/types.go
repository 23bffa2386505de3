package scanner

import (
	"context"
	"sync"

	"github.com/thirukguru/aws-wastesweep/model"
	"github.com/thirukguru/aws-wastesweep/service/probe"
	awssts "github.com/thirukguru/aws-wastesweep/service/sts"
	"github.com/thirukguru/aws-wastesweep/shared/logger"
)

// ClientFactory builds region-scoped clients.
type ClientFactory interface {
	ForRegion(region string) (probe.EC2ClientAPI, probe.ELBClientAPI)
}

type service struct {
	clients  ClientFactory
	identity awssts.Service
	probes   []probe.Probe
	log      *logger.Logger

	accountOnce sync.Once
	accountID   string
	accountErr  error
}

// Service is the interface for scanning a single region.
type Service interface {
	Scan(ctx context.Context, region string) model.RegionResult
	AccountID(ctx context.Context) (string, error)
}
