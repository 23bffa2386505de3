// Package storage persists run history in a local SQLite database.
package storage

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/thirukguru/aws-wastesweep/model"
	_ "modernc.org/sqlite"
)

const defaultDBPath = "~/.aws-wastesweep/history.db"

// NewService creates a SQLite-backed storage service.
func NewService(dbPath string) (Service, error) {
	resolved, err := resolvePath(dbPath)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(resolved), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", resolved)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite db: %w", err)
	}
	db.SetMaxOpenConns(1)
	if _, err := db.Exec("PRAGMA foreign_keys = ON;"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}
	if _, err := db.Exec(schemaV1); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}

	return &service{db: db, dbPath: resolved}, nil
}

type service struct {
	db     *sql.DB
	dbPath string
}

func resolvePath(p string) (string, error) {
	if strings.TrimSpace(p) == "" {
		p = defaultDBPath
	}
	if strings.HasPrefix(p, "~/") || p == "~" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to resolve home dir: %w", err)
		}
		if p == "~" {
			p = home
		} else {
			p = filepath.Join(home, p[2:])
		}
	}
	return filepath.Clean(p), nil
}

// FindingHash identifies a resource across runs by kind, region and id.
func FindingHash(f model.Finding) string {
	sum := sha256.Sum256([]byte(string(f.Kind) + "|" + f.Region + "|" + f.ResourceID))
	return hex.EncodeToString(sum[:8])
}

func (s *service) SaveRun(ctx context.Context, input SaveRunInput) (runID int64, err error) {
	if input.AccountID == "" {
		return 0, errors.New("account id is required")
	}
	if input.Status == "" {
		return 0, errors.New("status is required")
	}
	if input.RunUUID == "" {
		input.RunUUID = uuid.NewString()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	res, err := tx.ExecContext(ctx, `
		INSERT INTO runs (
			run_uuid, account_id, run_duration, regions_scanned, regions_failed, failed_regions,
			total_findings, total_monthly_cost, status, cli_version
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, input.RunUUID, input.AccountID, input.DurationSec, input.RegionsScanned, len(input.FailedRegions),
		strings.Join(input.FailedRegions, ","), len(input.Findings), input.Total.StringFixed(2),
		input.Status, input.Version)
	if err != nil {
		return 0, err
	}
	runID, err = res.LastInsertId()
	if err != nil {
		return 0, err
	}

	if err = s.saveFindingsTx(ctx, tx, runID, input); err != nil {
		return 0, err
	}

	if err = tx.Commit(); err != nil {
		return 0, err
	}
	return runID, nil
}

// saveFindingsTx upserts the run's findings as OPEN and resolves every open
// finding of the account the run no longer reports, except in regions the run
// failed to scan.
func (s *service) saveFindingsTx(ctx context.Context, tx *sql.Tx, runID int64, input SaveRunInput) error {
	seen := make([]string, 0, len(input.Findings))
	now := time.Now().UTC().Format(time.RFC3339Nano)

	for _, f := range input.Findings {
		hash := FindingHash(f)
		seen = append(seen, hash)
		cost := f.EstimatedMonthlyCost.StringFixed(2)

		_, err := tx.ExecContext(ctx, `
			INSERT INTO findings (
				account_id, finding_hash, kind, region, resource_id, display_name, details,
				monthly_cost, first_seen, last_seen, status
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 'OPEN')
			ON CONFLICT(account_id, finding_hash) DO UPDATE SET
				display_name=excluded.display_name,
				details=excluded.details,
				monthly_cost=excluded.monthly_cost,
				last_seen=excluded.last_seen,
				resolved_at=NULL,
				status='OPEN'
		`, input.AccountID, hash, string(f.Kind), f.Region, f.ResourceID, f.DisplayName, f.Details,
			cost, now, now)
		if err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO run_findings(run_id, finding_hash, kind, region, resource_id, display_name, monthly_cost, status)
			VALUES (?, ?, ?, ?, ?, ?, ?, 'OPEN')
		`, runID, hash, string(f.Kind), f.Region, f.ResourceID, f.DisplayName, cost)
		if err != nil {
			return err
		}
	}

	// Nothing was actually scanned, so nothing can be known to be gone.
	if len(input.FailedRegions) > 0 && input.RegionsScanned <= len(input.FailedRegions) {
		return nil
	}

	query := `
		UPDATE findings SET status='RESOLVED', resolved_at=?, last_seen=?
		WHERE account_id=? AND status='OPEN'`
	args := []any{now, now, input.AccountID}
	if len(seen) > 0 {
		query += fmt.Sprintf(" AND finding_hash NOT IN (%s)", placeholders(len(seen)))
		for _, h := range seen {
			args = append(args, h)
		}
	}
	// Findings in regions that failed to scan stay open.
	if len(input.FailedRegions) > 0 {
		query += fmt.Sprintf(" AND region NOT IN (%s)", placeholders(len(input.FailedRegions)))
		for _, r := range input.FailedRegions {
			args = append(args, r)
		}
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return err
	}

	_, err := tx.ExecContext(ctx, `
		INSERT INTO run_findings(run_id, finding_hash, kind, region, resource_id, display_name, monthly_cost, status)
		SELECT ?, finding_hash, kind, region, resource_id, display_name, monthly_cost, status
		FROM findings WHERE account_id=? AND status='RESOLVED' AND resolved_at=?
	`, runID, input.AccountID, now)
	return err
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}

func (s *service) GetRecentRuns(ctx context.Context, accountID string, limit int) ([]RunSummary, error) {
	if limit <= 0 {
		limit = 10
	}
	query := `
		SELECT run_id, run_uuid, account_id, run_timestamp, regions_scanned, regions_failed,
			total_findings, total_monthly_cost, status, COALESCE(cli_version, '')
		FROM runs
	`
	args := []any{}
	if accountID != "" {
		query += " WHERE account_id=?"
		args = append(args, accountID)
	}
	query += " ORDER BY run_timestamp DESC, run_id DESC LIMIT ?"
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	runs := []RunSummary{}
	for rows.Next() {
		var r RunSummary
		if err := rows.Scan(&r.RunID, &r.RunUUID, &r.AccountID, &r.RunTimestamp, &r.RegionsScanned,
			&r.RegionsFailed, &r.TotalFindings, &r.Total, &r.Status, &r.Version); err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

func (s *service) ListFindings(ctx context.Context, runID int64) ([]FindingSnapshot, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT finding_hash, kind, region, resource_id, COALESCE(display_name, ''), monthly_cost, status
		FROM run_findings WHERE run_id=?
		ORDER BY status ASC, CAST(monthly_cost AS REAL) DESC, id ASC
	`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []FindingSnapshot{}
	for rows.Next() {
		var f FindingSnapshot
		if err := rows.Scan(&f.FindingHash, &f.Kind, &f.Region, &f.ResourceID, &f.DisplayName, &f.MonthlyCost, &f.Status); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

func (s *service) CompareRuns(ctx context.Context, runID1, runID2 int64) (*RunComparison, error) {
	first, err := s.openHashesByRun(ctx, runID1)
	if err != nil {
		return nil, err
	}
	second, err := s.openHashesByRun(ctx, runID2)
	if err != nil {
		return nil, err
	}

	cmp := &RunComparison{RunID1: runID1, RunID2: runID2}
	for _, h := range second {
		if _, ok := first[h]; !ok {
			cmp.NewHashes = append(cmp.NewHashes, h)
		}
	}
	for _, h := range first {
		if _, ok := second[h]; ok {
			cmp.Persistent++
		} else {
			cmp.ResolvedHashes = append(cmp.ResolvedHashes, h)
		}
	}
	cmp.NewFindings = len(cmp.NewHashes)
	cmp.Resolved = len(cmp.ResolvedHashes)
	return cmp, nil
}

func (s *service) openHashesByRun(ctx context.Context, runID int64) (map[string]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT DISTINCT finding_hash FROM run_findings WHERE run_id=? AND status='OPEN'`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := map[string]string{}
	for rows.Next() {
		var h string
		if err := rows.Scan(&h); err != nil {
			return nil, err
		}
		out[h] = h
	}
	return out, rows.Err()
}

func (s *service) GetSavingsTrend(ctx context.Context, accountID string, days int) ([]TrendPoint, error) {
	if days <= 0 {
		days = 30
	}
	query := `
		SELECT
			DATE(run_timestamp) AS day,
			COUNT(*),
			MAX(total_findings),
			MAX(CAST(total_monthly_cost AS REAL))
		FROM runs
		WHERE run_timestamp >= DATETIME('now', ?)
	`
	args := []any{fmt.Sprintf("-%d day", days)}
	if accountID != "" {
		query += " AND account_id=?"
		args = append(args, accountID)
	}
	query += " GROUP BY DATE(run_timestamp) ORDER BY day ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	points := []TrendPoint{}
	for rows.Next() {
		var p TrendPoint
		if err := rows.Scan(&p.Date, &p.Runs, &p.TotalFindings, &p.Savings); err != nil {
			return nil, err
		}
		points = append(points, p)
	}
	return points, rows.Err()
}

func (s *service) Vacuum(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, "VACUUM")
	return err
}

func (s *service) PurgeOlderThan(ctx context.Context, days int) (int64, error) {
	if days <= 0 {
		return 0, errors.New("days must be > 0")
	}
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM runs WHERE run_timestamp < DATETIME('now', ?)
	`, fmt.Sprintf("-%d day", days))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (s *service) Close() error {
	return s.db.Close()
}
