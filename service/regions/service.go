// Package regions lists the regions a sweep should cover.
package regions

import (
	"context"
	"slices"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/thirukguru/aws-wastesweep/shared/logger"
)

// NewService creates a region enumerator. client must be pinned to the
// control region; fallback is returned whenever discovery yields nothing.
func NewService(client EC2ClientAPI, fallback []string, log *logger.Logger) Service {
	if log == nil {
		log = logger.Nop()
	}
	return &service{client: client, fallback: Dedupe(fallback), log: log}
}

// ListRegions returns the enabled regions of the account, or the fallback
// list when discovery fails.
func (s *service) ListRegions(ctx context.Context) []string {
	out, err := s.client.DescribeRegions(ctx, &ec2.DescribeRegionsInput{})
	if err != nil {
		s.log.WithError(err).WithFields(map[string]interface{}{"fallback": s.fallback}).
			Warn("region discovery failed, using fallback regions")
		return slices.Clone(s.fallback)
	}

	names := make([]string, 0, len(out.Regions))
	for _, r := range out.Regions {
		names = append(names, aws.ToString(r.RegionName))
	}

	discovered := Dedupe(names)
	if len(discovered) == 0 {
		s.log.With("fallback", s.fallback).Warn("region discovery returned no regions, using fallback regions")
		return slices.Clone(s.fallback)
	}

	s.log.Debugf("discovered %d regions", len(discovered))
	return discovered
}

// Dedupe trims region names and drops blanks and repeats, keeping first-seen order.
func Dedupe(input []string) []string {
	out := make([]string, 0, len(input))
	for _, r := range input {
		r = strings.TrimSpace(r)
		if r == "" || slices.Contains(out, r) {
			continue
		}
		out = append(out, r)
	}
	return out
}

type staticService struct {
	regions []string
}

// NewStatic returns an enumerator that always yields the given regions.
func NewStatic(regions []string) Service {
	return &staticService{regions: Dedupe(regions)}
}

func (s *staticService) ListRegions(context.Context) []string {
	return slices.Clone(s.regions)
}
