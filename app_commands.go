package main

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/thirukguru/aws-wastesweep/service/storage"
	"github.com/thirukguru/aws-wastesweep/shared/trends"
)

// openStore is a variable to allow substituting storage in tests.
var openStore = storage.NewService

func runStorageCommand(cmd string, args []string, w io.Writer) error {
	switch cmd {
	case "history":
		return runHistoryCommand(args, w)
	case "dashboard":
		return runDashboardCommand(args, w)
	default:
		return fmt.Errorf("unsupported command: %s", cmd)
	}
}

type historyOptions struct {
	AccountID  string
	Limit      int
	Days       int
	ExportJSON string
	ExportCSV  string
}

func runHistoryCommand(args []string, w io.Writer) error {
	fs := pflag.NewFlagSet("history", pflag.ContinueOnError)
	dbPath := fs.String("db-path", "", "SQLite database path")
	accountID := fs.String("account-id", "", "AWS account ID filter")
	limit := fs.Int("limit", 10, "Number of runs to list")
	days := fs.Int("days", 30, "Days covered by trend, or retained by purge")
	exportJSON := fs.String("export-json", "", "Export trend output as JSON to file path")
	exportCSV := fs.String("export-csv", "", "Export trend output as CSV to file path")
	if err := fs.Parse(args); err != nil {
		return err
	}
	rest := fs.Args()
	if len(rest) == 0 {
		return fmt.Errorf("usage: aws-wastesweep history <list|show|trend|compare|purge|vacuum>")
	}

	store, err := openStore(*dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	opts := historyOptions{
		AccountID:  *accountID,
		Limit:      *limit,
		Days:       *days,
		ExportJSON: *exportJSON,
		ExportCSV:  *exportCSV,
	}

	return dispatchHistory(context.Background(), store, rest, opts, w)
}

func dispatchHistory(ctx context.Context, store storage.Service, rest []string, opts historyOptions, w io.Writer) error {
	switch sub := rest[0]; sub {
	case "list":
		runs, err := store.GetRecentRuns(ctx, opts.AccountID, opts.Limit)
		if err != nil {
			return err
		}
		trends.RenderRunsTable(w, runs)
		return nil
	case "show":
		if len(rest) < 2 {
			return fmt.Errorf("usage: aws-wastesweep history show <run-id>")
		}
		runID, err := strconv.ParseInt(rest[1], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid run id %q: %w", rest[1], err)
		}
		findings, err := store.ListFindings(ctx, runID)
		if err != nil {
			return err
		}
		trends.RenderFindingsTable(w, runID, findings)
		return nil
	case "trend":
		return runTrendWorkflow(ctx, store, opts, w)
	case "compare":
		return runCompare(ctx, store, rest[1:], opts, w)
	case "purge":
		count, err := store.PurgeOlderThan(ctx, opts.Days)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "Purged %d runs\n", count)
		return nil
	case "vacuum":
		return store.Vacuum(ctx)
	default:
		return fmt.Errorf("unsupported history command: %s", sub)
	}
}

// runCompare diffs two runs; without ids it compares the two most recent.
func runCompare(ctx context.Context, store storage.Service, ids []string, opts historyOptions, w io.Writer) error {
	var runID1, runID2 int64

	switch len(ids) {
	case 0:
		runs, err := store.GetRecentRuns(ctx, opts.AccountID, 2)
		if err != nil {
			return err
		}
		if len(runs) < 2 {
			return fmt.Errorf("need at least two stored runs to compare")
		}
		runID1, runID2 = runs[1].RunID, runs[0].RunID
	case 2:
		var err error
		if runID1, err = strconv.ParseInt(ids[0], 10, 64); err != nil {
			return fmt.Errorf("invalid run id %q: %w", ids[0], err)
		}
		if runID2, err = strconv.ParseInt(ids[1], 10, 64); err != nil {
			return fmt.Errorf("invalid run id %q: %w", ids[1], err)
		}
	default:
		return fmt.Errorf("usage: aws-wastesweep history compare [<run-id> <run-id>]")
	}

	cmp, err := store.CompareRuns(ctx, runID1, runID2)
	if err != nil {
		return err
	}
	trends.RenderComparisonTable(w, cmp)

	return nil
}

func runTrendWorkflow(ctx context.Context, store storage.Service, opts historyOptions, w io.Writer) error {
	points, err := store.GetSavingsTrend(ctx, opts.AccountID, opts.Days)
	if err != nil {
		return err
	}
	trends.RenderTrendTable(w, points)

	if strings.TrimSpace(opts.ExportJSON) != "" {
		b, err := json.MarshalIndent(points, "", "  ")
		if err != nil {
			return err
		}
		if err := os.WriteFile(opts.ExportJSON, b, 0o644); err != nil {
			return err
		}
	}

	if strings.TrimSpace(opts.ExportCSV) != "" {
		f, err := os.Create(opts.ExportCSV)
		if err != nil {
			return err
		}
		defer f.Close()

		cw := csv.NewWriter(f)
		_ = cw.Write([]string{"date", "runs", "total_findings", "savings"})
		for _, p := range points {
			_ = cw.Write([]string{p.Date, strconv.Itoa(p.Runs), strconv.Itoa(p.TotalFindings), strconv.FormatFloat(p.Savings, 'f', 2, 64)})
		}
		cw.Flush()
		if err := cw.Error(); err != nil {
			return err
		}
	}

	return nil
}

var dashboardPage = template.Must(template.New("dashboard").Parse(`<!doctype html>
<html lang="en">
<head>
  <meta charset="utf-8" />
  <title>aws-wastesweep dashboard</title>
  <style>
    body { font-family: sans-serif; margin: 24px; color: #1f2937; }
    table { border-collapse: collapse; margin-top: 8px; }
    th, td { border: 1px solid #e5e7eb; padding: 6px 10px; text-align: left; }
    th { background: #f9fafb; }
    td.num { text-align: right; }
  </style>
</head>
<body>
  <h1>AWS Waste Sweep</h1>
  <h3>Recent runs</h3>
  <table>
    <tr><th>Run</th><th>Account</th><th>Time</th><th>Regions</th><th>Failed</th><th>Findings</th><th>Savings/Mo</th><th>Status</th></tr>
    {{- range .Runs}}
    <tr><td>{{.RunID}}</td><td>{{.AccountID}}</td><td>{{.RunTimestamp.Format "2006-01-02 15:04"}}</td><td class="num">{{.RegionsScanned}}</td><td class="num">{{.RegionsFailed}}</td><td class="num">{{.TotalFindings}}</td><td class="num">${{.Total.StringFixed 2}}</td><td>{{.Status}}</td></tr>
    {{- else}}
    <tr><td colspan="8"><em>No runs recorded.</em></td></tr>
    {{- end}}
  </table>
  <h3>Daily savings</h3>
  <table>
    <tr><th>Date</th><th>Runs</th><th>Findings</th><th>Savings/Mo</th></tr>
    {{- range .Trend}}
    <tr><td>{{.Date}}</td><td class="num">{{.Runs}}</td><td class="num">{{.TotalFindings}}</td><td class="num">{{printf "$%.2f" .Savings}}</td></tr>
    {{- end}}
  </table>
  <p>JSON: <code>/api/runs</code>, <code>/api/trends</code>, <code>/api/findings?run_id=N</code></p>
</body>
</html>`))

func runDashboardCommand(args []string, w io.Writer) error {
	fs := pflag.NewFlagSet("dashboard", pflag.ContinueOnError)
	dbPath := fs.String("db-path", "", "SQLite database path")
	port := fs.Int("port", 8080, "Dashboard HTTP port")
	accountID := fs.String("account-id", "", "AWS account ID filter")
	if err := fs.Parse(args); err != nil {
		return err
	}

	store, err := openStore(*dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	addr := fmt.Sprintf(":%d", *port)
	fmt.Fprintf(w, "Dashboard running on http://localhost%s\n", addr)

	srv := &http.Server{
		Addr:              addr,
		Handler:           dashboardHandler(store, *accountID),
		ReadHeaderTimeout: 5 * time.Second,
	}
	return srv.ListenAndServe()
}

func dashboardHandler(store storage.Service, accountID string) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		runs, err := store.GetRecentRuns(r.Context(), accountID, 20)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		points, err := store.GetSavingsTrend(r.Context(), accountID, 30)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_ = dashboardPage.Execute(w, struct {
			Runs  []storage.RunSummary
			Trend []storage.TrendPoint
		}{runs, points})
	})
	mux.HandleFunc("/api/trends", func(w http.ResponseWriter, r *http.Request) {
		points, err := store.GetSavingsTrend(r.Context(), accountID, 30)
		writeJSON(w, points, err)
	})
	mux.HandleFunc("/api/runs", func(w http.ResponseWriter, r *http.Request) {
		runs, err := store.GetRecentRuns(r.Context(), accountID, 50)
		writeJSON(w, runs, err)
	})
	mux.HandleFunc("/api/findings", func(w http.ResponseWriter, r *http.Request) {
		runIDStr := r.URL.Query().Get("run_id")
		if runIDStr == "" {
			http.Error(w, "run_id is required", http.StatusBadRequest)
			return
		}
		runID, err := strconv.ParseInt(runIDStr, 10, 64)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		findings, err := store.ListFindings(r.Context(), runID)
		writeJSON(w, findings, err)
	})

	return mux
}

func writeJSON(w http.ResponseWriter, v any, err error) {
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
