package storage

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/thirukguru/aws-wastesweep/model"
)

// Service defines run history persistence and queries.
type Service interface {
	SaveRun(ctx context.Context, input SaveRunInput) (int64, error)
	GetRecentRuns(ctx context.Context, accountID string, limit int) ([]RunSummary, error)
	ListFindings(ctx context.Context, runID int64) ([]FindingSnapshot, error)
	CompareRuns(ctx context.Context, runID1, runID2 int64) (*RunComparison, error)
	GetSavingsTrend(ctx context.Context, accountID string, days int) ([]TrendPoint, error)
	Vacuum(ctx context.Context) error
	PurgeOlderThan(ctx context.Context, days int) (int64, error)
	Close() error
}

// SaveRunInput is the payload saved for a completed run.
type SaveRunInput struct {
	RunUUID        string
	AccountID      string
	RegionsScanned int
	FailedRegions  []string
	Status         string
	Total          decimal.Decimal
	DurationSec    int64
	Version        string
	Findings       []model.Finding
}

// RunSummary provides compact run metadata.
type RunSummary struct {
	RunID          int64
	RunUUID        string
	AccountID      string
	RunTimestamp   time.Time
	RegionsScanned int
	RegionsFailed  int
	TotalFindings  int
	Total          decimal.Decimal
	Status         string
	Version        string
}

// FindingSnapshot is a finding as recorded by one run.
type FindingSnapshot struct {
	FindingHash string
	Kind        string
	Region      string
	ResourceID  string
	DisplayName string
	MonthlyCost decimal.Decimal
	Status      string
}

// RunComparison holds diff details between two runs.
type RunComparison struct {
	RunID1         int64
	RunID2         int64
	NewFindings    int
	Resolved       int
	Persistent     int
	NewHashes      []string
	ResolvedHashes []string
}

// TrendPoint is a daily aggregate of potential savings.
type TrendPoint struct {
	Date          string  `json:"date"`
	Runs          int     `json:"runs"`
	TotalFindings int     `json:"total_findings"`
	Savings       float64 `json:"savings"`
}
