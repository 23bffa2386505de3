package orchestrator

import (
	"context"
	"time"

	"github.com/thirukguru/aws-wastesweep/model"
	"github.com/thirukguru/aws-wastesweep/service/notifier"
	"github.com/thirukguru/aws-wastesweep/service/output"
	"github.com/thirukguru/aws-wastesweep/service/regions"
	"github.com/thirukguru/aws-wastesweep/service/report"
	"github.com/thirukguru/aws-wastesweep/service/scanner"
	"github.com/thirukguru/aws-wastesweep/service/storage"
	"github.com/thirukguru/aws-wastesweep/shared/logger"
	"github.com/thirukguru/aws-wastesweep/shared/metrics"
)

// DefaultMaxParallel is the number of regions scanned at once.
const DefaultMaxParallel = 10

// Dependencies wires the services a run needs. Storage, Metrics and Output
// are optional.
type Dependencies struct {
	Regions     regions.Service
	Scanner     scanner.Service
	Report      report.Service
	Notifier    notifier.Service
	Storage     storage.Service
	Metrics     *metrics.Recorder
	Output      output.Service
	Log         *logger.Logger
	MaxParallel int
	Version     string
	Now         func() time.Time
}

type service struct {
	regions     regions.Service
	scanner     scanner.Service
	report      report.Service
	notifier    notifier.Service
	storage     storage.Service
	metrics     *metrics.Recorder
	output      output.Service
	log         *logger.Logger
	maxParallel int
	version     string
	now         func() time.Time
}

// Service is the interface for orchestrator service.
type Service interface {
	Run(ctx context.Context) (model.RunStatus, error)
	ScanAll(ctx context.Context, regions []string) []model.RegionResult
}
