package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/thirukguru/aws-wastesweep/model"
	"github.com/thirukguru/aws-wastesweep/service/storage"
)

type mockStorage struct {
	points   []storage.TrendPoint
	runs     []storage.RunSummary
	cmp      *storage.RunComparison
	compared [2]int64
	purged   int
	vacuumed bool
}

func (m *mockStorage) SaveRun(context.Context, storage.SaveRunInput) (int64, error) {
	return 0, nil
}
func (m *mockStorage) GetRecentRuns(_ context.Context, _ string, limit int) ([]storage.RunSummary, error) {
	if limit < len(m.runs) {
		return m.runs[:limit], nil
	}
	return m.runs, nil
}
func (m *mockStorage) ListFindings(context.Context, int64) ([]storage.FindingSnapshot, error) {
	return []storage.FindingSnapshot{{Kind: "Unused EIP", Region: "us-east-1", ResourceID: "203.0.113.9", MonthlyCost: decimal.RequireFromString("3.65"), Status: "OPEN"}}, nil
}
func (m *mockStorage) CompareRuns(_ context.Context, runID1, runID2 int64) (*storage.RunComparison, error) {
	m.compared = [2]int64{runID1, runID2}
	return m.cmp, nil
}
func (m *mockStorage) GetSavingsTrend(context.Context, string, int) ([]storage.TrendPoint, error) {
	return m.points, nil
}
func (m *mockStorage) Vacuum(context.Context) error {
	m.vacuumed = true
	return nil
}
func (m *mockStorage) PurgeOlderThan(_ context.Context, days int) (int64, error) {
	m.purged = days
	return 3, nil
}
func (m *mockStorage) Close() error { return nil }

func TestRunTrendWorkflowExports(t *testing.T) {
	tmp := t.TempDir()
	jsonPath := filepath.Join(tmp, "trends.json")
	csvPath := filepath.Join(tmp, "trends.csv")

	store := &mockStorage{points: []storage.TrendPoint{
		{Date: "2026-02-10", Runs: 2, TotalFindings: 5, Savings: 42.5},
		{Date: "2026-02-11", Runs: 1, TotalFindings: 4, Savings: 30},
	}}

	var out bytes.Buffer
	err := runTrendWorkflow(context.Background(), store, historyOptions{Days: 30, ExportJSON: jsonPath, ExportCSV: csvPath}, &out)
	if err != nil {
		t.Fatalf("runTrendWorkflow failed: %v", err)
	}
	if !strings.Contains(out.String(), "$42.50") {
		t.Fatalf("trend table missing savings: %s", out.String())
	}

	jsonBytes, err := os.ReadFile(jsonPath)
	if err != nil {
		t.Fatalf("failed reading exported json: %v", err)
	}
	var decoded []storage.TrendPoint
	if err := json.Unmarshal(jsonBytes, &decoded); err != nil {
		t.Fatalf("invalid json export: %v", err)
	}
	if len(decoded) != 2 || decoded[0].Date != "2026-02-10" {
		t.Fatalf("unexpected json export content: %+v", decoded)
	}

	csvBytes, err := os.ReadFile(csvPath)
	if err != nil {
		t.Fatalf("failed reading exported csv: %v", err)
	}
	csv := string(csvBytes)
	if !strings.HasPrefix(csv, "date,runs,total_findings,savings\n") {
		t.Fatalf("unexpected csv header: %s", csv)
	}
	if !strings.Contains(csv, "2026-02-11,1,4,30.00") {
		t.Fatalf("csv content missing expected row: %s", csv)
	}
}

func TestDispatchHistory(t *testing.T) {
	store := &mockStorage{
		runs: []storage.RunSummary{{RunID: 9, RunTimestamp: time.Now()}, {RunID: 8, RunTimestamp: time.Now().Add(-time.Hour)}},
		cmp:  &storage.RunComparison{RunID1: 8, RunID2: 9, NewFindings: 1, Resolved: 2, Persistent: 3},
	}
	ctx := context.Background()
	opts := historyOptions{Limit: 10, Days: 14}

	var out bytes.Buffer
	if err := dispatchHistory(ctx, store, []string{"compare"}, opts, &out); err != nil {
		t.Fatalf("compare failed: %v", err)
	}
	if store.compared != [2]int64{8, 9} {
		t.Fatalf("expected older run first, got %v", store.compared)
	}

	if err := dispatchHistory(ctx, store, []string{"compare", "3", "5"}, opts, &out); err != nil {
		t.Fatalf("compare with ids failed: %v", err)
	}
	if store.compared != [2]int64{3, 5} {
		t.Fatalf("unexpected compared ids: %v", store.compared)
	}

	out.Reset()
	if err := dispatchHistory(ctx, store, []string{"purge"}, opts, &out); err != nil {
		t.Fatalf("purge failed: %v", err)
	}
	if store.purged != 14 || !strings.Contains(out.String(), "Purged 3 runs") {
		t.Fatalf("unexpected purge result: days=%d out=%q", store.purged, out.String())
	}

	if err := dispatchHistory(ctx, store, []string{"vacuum"}, opts, &out); err != nil || !store.vacuumed {
		t.Fatalf("vacuum failed: %v", err)
	}

	out.Reset()
	if err := dispatchHistory(ctx, store, []string{"show", "9"}, opts, &out); err != nil {
		t.Fatalf("show failed: %v", err)
	}
	if !strings.Contains(out.String(), "203.0.113.9") {
		t.Fatalf("show output missing finding: %s", out.String())
	}

	for _, args := range [][]string{{"show"}, {"show", "abc"}, {"compare", "1"}, {"explode"}} {
		if err := dispatchHistory(ctx, store, args, opts, &out); err == nil {
			t.Fatalf("expected error for %v", args)
		}
	}
}

func TestRunHistoryCommandAgainstSQLite(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "history.db")

	store, err := storage.NewService(dbPath)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	_, err = store.SaveRun(context.Background(), storage.SaveRunInput{
		AccountID:      "123456789012",
		RegionsScanned: 2,
		Status:         model.StatusReportSent,
		Total:          decimal.RequireFromString("10.50"),
		Findings: []model.Finding{
			{Kind: model.KindUnattachedVolume, Region: "us-east-1", ResourceID: "vol-1", DisplayName: "-", EstimatedMonthlyCost: decimal.NewFromInt(8)},
		},
	})
	if err != nil {
		t.Fatalf("save run: %v", err)
	}
	store.Close()

	var out bytes.Buffer
	if err := runHistoryCommand([]string{"list", "--db-path", dbPath}, &out); err != nil {
		t.Fatalf("history list failed: %v", err)
	}
	if !strings.Contains(out.String(), "123456789012") || !strings.Contains(out.String(), "$10.50") {
		t.Fatalf("unexpected history list output: %s", out.String())
	}

	if err := runHistoryCommand([]string{"--db-path", dbPath}, &out); err == nil {
		t.Fatal("expected usage error without a subcommand")
	}
}

func TestDashboardHandler(t *testing.T) {
	store := &mockStorage{
		runs:   []storage.RunSummary{{RunID: 1, AccountID: "123456789012", RunTimestamp: time.Now(), Total: decimal.RequireFromString("4.2"), Status: "Report Sent"}},
		points: []storage.TrendPoint{{Date: "2026-02-10", Runs: 1, Savings: 4.2}},
	}
	h := dashboardHandler(store, "")

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	if rr.Code != http.StatusOK || !strings.Contains(rr.Body.String(), "$4.20") {
		t.Fatalf("unexpected dashboard page: %d %s", rr.Code, rr.Body.String())
	}

	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/findings", nil))
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without run_id, got %d", rr.Code)
	}

	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/findings?run_id=1", nil))
	if rr.Code != http.StatusOK || !strings.Contains(rr.Body.String(), "203.0.113.9") {
		t.Fatalf("unexpected findings response: %d %s", rr.Code, rr.Body.String())
	}

	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/trends", nil))
	if ct := rr.Header().Get("Content-Type"); !strings.Contains(ct, "application/json") {
		t.Fatalf("unexpected content type: %s", ct)
	}
}

func TestWriteJSON(t *testing.T) {
	rr := httptest.NewRecorder()
	writeJSON(rr, map[string]string{"status": "ok"}, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}

	rr = httptest.NewRecorder()
	writeJSON(rr, nil, context.DeadlineExceeded)
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 for error path, got %d", rr.Code)
	}
}
