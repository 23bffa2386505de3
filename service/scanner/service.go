// Package scanner runs every probe against one region.
package scanner

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/smithy-go"
	"github.com/thirukguru/aws-wastesweep/model"
	"github.com/thirukguru/aws-wastesweep/service/probe"
	awssts "github.com/thirukguru/aws-wastesweep/service/sts"
	"github.com/thirukguru/aws-wastesweep/shared/logger"
)

// NewService creates a region scanner running probes in the given order.
func NewService(clients ClientFactory, identity awssts.Service, probes []probe.Probe, log *logger.Logger) Service {
	if log == nil {
		log = logger.Nop()
	}
	return &service{
		clients:  clients,
		identity: identity,
		probes:   probes,
		log:      log,
	}
}

// AccountID resolves the caller's account once and reuses the answer,
// including a failure, for the lifetime of the scanner.
func (s *service) AccountID(ctx context.Context) (string, error) {
	s.accountOnce.Do(func() {
		s.accountID, s.accountErr = s.identity.GetAccountID(ctx)
	})
	return s.accountID, s.accountErr
}

// Scan runs the probes sequentially. The first error aborts the region and
// discards whatever the earlier probes found.
func (s *service) Scan(ctx context.Context, region string) model.RegionResult {
	start := time.Now()
	log := s.log.With("region", region)

	accountID, err := s.AccountID(ctx)
	if err != nil {
		return s.fail(log, region, start, "", fmt.Errorf("failed to resolve account: %w", err))
	}

	ec2Client, elbClient := s.clients.ForRegion(region)
	target := probe.Target{
		Region:    region,
		AccountID: accountID,
		EC2:       ec2Client,
		ELB:       elbClient,
	}

	var findings []model.Finding
	for _, p := range s.probes {
		found, err := p.Detect(ctx, target)
		if err != nil {
			return s.fail(log, region, start, p.Kind(), fmt.Errorf("%s: %w", p.Kind(), err))
		}
		findings = append(findings, found...)
	}

	log.WithFields(map[string]interface{}{
		"findings":    len(findings),
		"duration_ms": time.Since(start).Milliseconds(),
	}).Debug("region scanned")

	return model.RegionResult{
		Region:   region,
		Findings: findings,
		Duration: time.Since(start),
	}
}

func (s *service) fail(log *logger.Logger, region string, start time.Time, kind model.Kind, err error) model.RegionResult {
	fields := map[string]interface{}{}
	if kind != "" {
		fields["probe"] = string(kind)
	}
	if code := APIErrorCode(err); code != "" {
		fields["aws_error_code"] = code
	}
	log.WithFields(fields).WithError(err).Warn("region scan failed")

	return model.RegionResult{
		Region:   region,
		Err:      err,
		Duration: time.Since(start),
	}
}

// APIErrorCode returns the AWS error code carried by err, if any.
func APIErrorCode(err error) string {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return apiErr.ErrorCode()
	}
	return ""
}
