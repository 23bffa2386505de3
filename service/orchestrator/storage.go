package orchestrator

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/thirukguru/aws-wastesweep/model"
	"github.com/thirukguru/aws-wastesweep/service/storage"
)

type runRecord struct {
	regions  int
	failed   []string
	findings []model.Finding
	report   model.Report
	status   string
}

// persist stores the run when history is enabled. Failures are logged only.
func (s *service) persist(ctx context.Context, run runRecord, start time.Time) {
	if s.storage == nil {
		return
	}

	accountID, err := s.scanner.AccountID(ctx)
	if err != nil {
		s.log.WithError(err).Warn("skipping run history, account is unknown")
		return
	}

	findings := run.report.Findings
	if findings == nil {
		findings = run.findings
	}

	runID, err := s.storage.SaveRun(ctx, storage.SaveRunInput{
		RunUUID:        uuid.NewString(),
		AccountID:      accountID,
		RegionsScanned: run.regions,
		FailedRegions:  run.failed,
		Status:         run.status,
		Total:          run.report.Total,
		DurationSec:    int64(s.now().Sub(start).Seconds()),
		Version:        s.version,
		Findings:       findings,
	})
	if err != nil {
		s.log.ErrorWithErr(err, "failed to persist run history")
		return
	}

	s.log.With("run_id", runID).Debug("run history saved")
}
