// Package main is the entry point for the aws-wastesweep application.
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/thirukguru/aws-wastesweep/model"
	"github.com/thirukguru/aws-wastesweep/service/config"
	"github.com/thirukguru/aws-wastesweep/service/flag"
	"github.com/thirukguru/aws-wastesweep/service/output"
	"github.com/thirukguru/aws-wastesweep/shared/banner"
	"github.com/thirukguru/aws-wastesweep/shared/logger"
	"golang.org/x/term"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "history", "dashboard":
			return runStorageCommand(os.Args[1], os.Args[2:], os.Stdout)
		}
	}

	flags, err := flag.NewService().GetParsedFlags()
	if err != nil {
		return fmt.Errorf("failed to parse flags: %w", err)
	}

	versionInfo := model.VersionInfo{Version: version, Commit: commit, Date: date}
	if flags.Version {
		printVersion(os.Stdout, versionInfo)
		return nil
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	applyFlagOverrides(cfg, flags)
	if err := cfg.Notification.Validate(); err != nil {
		return fmt.Errorf("invalid notification settings: %w", err)
	}

	log := logger.New(logger.Config{Level: cfg.Logging.Level, Format: cfg.Logging.Format})
	interactive := term.IsTerminal(int(os.Stdout.Fd()))

	ctx := context.Background()
	a, err := newApp(ctx, flags, cfg, versionInfo, log, interactive)
	if err != nil {
		return err
	}
	defer a.close()

	if flags.Schedule != "" {
		return a.runScheduled(ctx)
	}

	if interactive && output.ParseFormat(flags.Output) == output.FormatTable {
		banner.DrawBannerTitle()
	}

	status, err := a.runOnce(ctx)
	if err != nil {
		return err
	}

	return a.out.RenderStatus(status)
}

// applyFlagOverrides lets command line flags win over the environment.
func applyFlagOverrides(cfg *config.Config, flags model.Flags) {
	if flags.Notify != "" {
		cfg.Notification.Channel = flags.Notify
	}
	if flags.OutputFile != "" {
		cfg.Notification.OutputPath = flags.OutputFile
	}
	if flags.Region != "" {
		cfg.Scan.ControlRegion = flags.Region
	}
	if flags.MaxParallel > 0 {
		cfg.Scan.MaxParallel = flags.MaxParallel
	}
	if flags.Store {
		cfg.History.Enabled = true
	}
	if flags.DBPath != "" {
		cfg.History.Path = flags.DBPath
	}
	if flags.LogLevel != "" {
		cfg.Logging.Level = flags.LogLevel
	}
	if flags.LogFormat != "" {
		cfg.Logging.Format = flags.LogFormat
	}
}

func printVersion(w io.Writer, info model.VersionInfo) {
	fmt.Fprintf(w, "aws-wastesweep %s\n", info.Version)
	fmt.Fprintf(w, "commit: %s\n", info.Commit)
	fmt.Fprintf(w, "built at: %s\n", info.Date)
}
