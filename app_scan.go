package main

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/thirukguru/aws-wastesweep/model"
	awsconfig "github.com/thirukguru/aws-wastesweep/service/aws_config"
	"github.com/thirukguru/aws-wastesweep/service/config"
	"github.com/thirukguru/aws-wastesweep/service/notifier"
	"github.com/thirukguru/aws-wastesweep/service/orchestrator"
	"github.com/thirukguru/aws-wastesweep/service/output"
	"github.com/thirukguru/aws-wastesweep/service/probe"
	"github.com/thirukguru/aws-wastesweep/service/regions"
	"github.com/thirukguru/aws-wastesweep/service/report"
	"github.com/thirukguru/aws-wastesweep/service/scanner"
	"github.com/thirukguru/aws-wastesweep/service/storage"
	awssts "github.com/thirukguru/aws-wastesweep/service/sts"
	"github.com/thirukguru/aws-wastesweep/shared/logger"
	"github.com/thirukguru/aws-wastesweep/shared/metrics"
	"github.com/thirukguru/aws-wastesweep/shared/spinner"
)

type app struct {
	flags       model.Flags
	cfg         *config.Config
	version     model.VersionInfo
	log         *logger.Logger
	awsCfg      aws.Config
	notifier    notifier.Service
	store       storage.Service
	registry    *prometheus.Registry
	metrics     *metrics.Recorder
	out         output.Service
	interactive bool
}

func newApp(ctx context.Context, flags model.Flags, cfg *config.Config, versionInfo model.VersionInfo, log *logger.Logger, interactive bool) (*app, error) {
	awsCfg, err := awsconfig.NewService(interactive).GetAWSCfg(ctx, cfg.Scan.ControlRegion, flags.Profile)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	notifierService, err := notifier.New(cfg.Notification, awsCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to configure notifier: %w", err)
	}

	var store storage.Service
	if cfg.History.Enabled {
		store, err = storage.NewService(cfg.History.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize storage: %w", err)
		}
	}

	registry := prometheus.NewRegistry()

	return &app{
		flags:       flags,
		cfg:         cfg,
		version:     versionInfo,
		log:         log,
		awsCfg:      awsCfg,
		notifier:    notifierService,
		store:       store,
		registry:    registry,
		metrics:     metrics.NewRecorder(registry),
		out:         output.NewService(flags.Output),
		interactive: interactive,
	}, nil
}

func (a *app) close() {
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			a.log.ErrorWithErr(err, "failed to close history database")
		}
	}
}

// newOrchestrator wires a fresh pipeline. Each run gets its own scanner so
// the cached account id never outlives a run.
func (a *app) newOrchestrator() (orchestrator.Service, error) {
	pricing := model.DefaultPriceTable()

	estimator, err := probe.NewStoppedInstanceEstimator(a.cfg.Scan.StoppedInstanceEstimate, pricing)
	if err != nil {
		return nil, err
	}

	probes := probe.All(probe.Options{
		Pricing:           pricing,
		Estimator:         estimator,
		EnforceStoppedAge: a.cfg.Scan.EnforceStoppedAge,
	})

	var out output.Service
	if !a.scheduled() {
		out = a.out
	}

	return orchestrator.NewService(orchestrator.Dependencies{
		Regions:     a.regionService(),
		Scanner:     scanner.NewService(scanner.NewAWSClientFactory(a.awsCfg), awssts.NewService(a.awsCfg), probes, a.log),
		Report:      report.NewService(nil),
		Notifier:    a.notifier,
		Storage:     a.store,
		Metrics:     a.metrics,
		Output:      out,
		Log:         a.log,
		MaxParallel: a.cfg.Scan.MaxParallel,
		Version:     a.version.Version,
	}), nil
}

func (a *app) regionService() regions.Service {
	return resolveRegionService(a.flags, a.cfg, func() regions.EC2ClientAPI {
		return ec2.NewFromConfig(a.awsCfg, func(o *ec2.Options) {
			o.Region = a.cfg.Scan.ControlRegion
		})
	}, a.log)
}

// resolveRegionService prefers an explicit --regions list over discovery.
func resolveRegionService(flags model.Flags, cfg *config.Config, controlClient func() regions.EC2ClientAPI, log *logger.Logger) regions.Service {
	if explicit := regions.Dedupe(flags.Regions); len(explicit) > 0 {
		return regions.NewStatic(explicit)
	}
	return regions.NewService(controlClient(), cfg.Scan.FallbackRegions, log)
}

func (a *app) scheduled() bool {
	return a.flags.Schedule != ""
}

func (a *app) runOnce(ctx context.Context) (model.RunStatus, error) {
	orch, err := a.newOrchestrator()
	if err != nil {
		return model.RunStatus{}, err
	}

	if a.interactive && !a.scheduled() && a.out.Format() == output.FormatTable {
		spinner.StartSpinner()
		defer spinner.StopSpinner()
	}

	return orch.Run(ctx)
}
