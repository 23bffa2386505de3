// Package orchestrator coordinates a sweep across every region and delivers
// the resulting report.
package orchestrator

import (
	"context"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/thirukguru/aws-wastesweep/model"
	"github.com/thirukguru/aws-wastesweep/service/report"
	"github.com/thirukguru/aws-wastesweep/shared/logger"
	"golang.org/x/sync/errgroup"
)

const statusError = "error"

// NewService creates a new orchestrator service.
func NewService(deps Dependencies) Service {
	if deps.Log == nil {
		deps.Log = logger.Nop()
	}
	if deps.MaxParallel <= 0 {
		deps.MaxParallel = DefaultMaxParallel
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}

	return &service{
		regions:     deps.Regions,
		scanner:     deps.Scanner,
		report:      deps.Report,
		notifier:    deps.Notifier,
		storage:     deps.Storage,
		metrics:     deps.Metrics,
		output:      deps.Output,
		log:         deps.Log,
		maxParallel: deps.MaxParallel,
		version:     deps.Version,
		now:         deps.Now,
	}
}

// ScanAll scans every region with at most maxParallel scans in flight.
// Results keep the order of regions. A region that fails or panics yields a
// failed result and never stops the others.
func (s *service) ScanAll(ctx context.Context, regions []string) []model.RegionResult {
	results := make([]model.RegionResult, len(regions))

	var g errgroup.Group
	g.SetLimit(s.maxParallel)

	for i, region := range regions {
		g.Go(func() error {
			results[i] = s.scanRegion(ctx, region)
			return nil
		})
	}

	_ = g.Wait()

	return results
}

func (s *service) scanRegion(ctx context.Context, region string) (result model.RegionResult) {
	start := s.now()

	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("panic while scanning %s: %v", region, r)
			s.log.WithFields(map[string]interface{}{
				"region": region,
				"stack":  string(debug.Stack()),
			}).ErrorWithErr(err, "region scan panicked")
			result = model.RegionResult{Region: region, Err: err, Duration: s.now().Sub(start)}
		}
	}()

	return s.scanner.Scan(ctx, region)
}

// Run performs one end-to-end sweep. Only a failed delivery or a report that
// cannot be rendered is returned as an error; region failures are absorbed.
func (s *service) Run(ctx context.Context) (model.RunStatus, error) {
	start := s.now()

	regionList := s.regions.ListRegions(ctx)
	s.log.Infof("scanning %d regions", len(regionList))

	results := s.ScanAll(ctx, regionList)
	for _, result := range results {
		s.metrics.ObserveRegion(result)
	}

	findings := model.CollectFindings(results)
	failed := model.FailedRegions(results)
	if len(failed) > 0 {
		s.log.With("failed_regions", failed).Warnf("%d of %d regions could not be scanned", len(failed), len(regionList))
	}

	run := runRecord{regions: len(regionList), failed: failed, findings: findings}

	if len(findings) == 0 {
		s.log.Info("clean, no waste found")
		status := model.CleanStatus()
		run.status = status.Status
		s.render(ctx, model.RenderReportInput{RegionsScanned: len(regionList), FailedRegions: failed})
		s.persist(ctx, run, start)
		s.metrics.ObserveRun(status.Status, 0, s.now().Sub(start))
		return status, nil
	}

	rpt, err := s.report.Generate(findings, report.WithFailedRegions(failed))
	if err != nil {
		s.metrics.ObserveRun(statusError, 0, s.now().Sub(start))
		return model.RunStatus{}, fmt.Errorf("failed to generate waste report: %w", err)
	}
	run.report = rpt

	s.render(ctx, model.RenderReportInput{Report: rpt, RegionsScanned: len(regionList), FailedRegions: failed})

	if err := s.notifier.Send(ctx, rpt.Subject, rpt.Document); err != nil {
		s.log.ErrorWithErr(err, "failed to deliver waste report")
		s.metrics.ObserveRun(statusError, 0, s.now().Sub(start))
		return model.RunStatus{}, fmt.Errorf("failed to deliver waste report: %w", err)
	}

	status := model.ReportSentStatus(rpt.Total)
	run.status = status.Status
	s.log.WithFields(map[string]interface{}{
		"findings": len(rpt.Findings),
		"savings":  rpt.Total.StringFixed(2),
	}).Info("waste report sent")

	s.persist(ctx, run, start)
	s.metrics.ObserveRun(status.Status, *status.Savings, s.now().Sub(start))

	return status, nil
}

func (s *service) render(ctx context.Context, input model.RenderReportInput) {
	if s.output == nil {
		return
	}

	if accountID, err := s.scanner.AccountID(ctx); err == nil {
		input.AccountID = accountID
	}

	if err := s.output.RenderReport(input); err != nil {
		s.log.ErrorWithErr(err, "failed to render report")
	}
}
