// Package flag parses the command line.
package flag

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/thirukguru/aws-wastesweep/model"
)

// NewService creates a new flag service.
func NewService() Service {
	return &service{}
}

// GetParsedFlags parses and returns the command-line flags.
func (s *service) GetParsedFlags() (model.Flags, error) {
	profile := pflag.StringP("profile", "p", "", "AWS profile to use")
	region := pflag.StringP("region", "r", "", "AWS region for credentials and control-plane calls")
	regions := pflag.String("regions", "", "Comma-separated AWS regions to scan instead of discovering them")
	version := pflag.BoolP("version", "v", false, "Show version information")
	output := pflag.StringP("output", "o", "table", "Console output format (table, json, html or none)")
	outputFile := pflag.StringP("output-file", "f", "", "Write the HTML report to this path (file notifier)")
	notify := pflag.String("notify", "", "Notification channel (ses, sns or file); overrides NOTIFY_CHANNEL")
	store := pflag.Bool("store", false, "Persist runs in local SQLite database")
	dbPath := pflag.String("db-path", "", "Custom SQLite database path (default ~/.aws-wastesweep/history.db)")
	schedule := pflag.String("schedule", "", "Cron expression; run repeatedly until interrupted")
	metricsAddr := pflag.String("metrics-addr", "", "Serve Prometheus metrics on this address in scheduled mode")
	maxParallel := pflag.Int("max-parallel", 0, "Regions scanned concurrently (0 uses MAX_PARALLEL_REGIONS)")
	logLevel := pflag.String("log-level", "", "Log level (debug, info, warn, error); overrides LOG_LEVEL")
	logFormat := pflag.String("log-format", "", "Log format (json or console); overrides LOG_FORMAT")

	pflag.Parse()

	if *maxParallel < 0 {
		return model.Flags{}, fmt.Errorf("--max-parallel must not be negative, got %d", *maxParallel)
	}

	var parsedRegions []string
	if *regions != "" {
		for _, r := range strings.Split(*regions, ",") {
			r = strings.TrimSpace(r)
			if r != "" {
				parsedRegions = append(parsedRegions, r)
			}
		}
	}

	flags := model.Flags{
		Profile:     *profile,
		Region:      *region,
		Regions:     parsedRegions,
		Version:     *version,
		Output:      *output,
		OutputFile:  *outputFile,
		Notify:      *notify,
		Store:       *store,
		DBPath:      *dbPath,
		Schedule:    *schedule,
		MetricsAddr: *metricsAddr,
		MaxParallel: *maxParallel,
		LogLevel:    *logLevel,
		LogFormat:   *logFormat,
	}

	return flags, nil
}
