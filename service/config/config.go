// Package config loads runtime settings from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Notification channels.
const (
	ChannelSES  = "ses"
	ChannelSNS  = "sns"
	ChannelFile = "file"
)

// Stopped-instance cost estimation modes.
const (
	EstimateAverage   = "average"
	EstimateDescribed = "described"
)

// DefaultFallbackRegions is used when region discovery fails.
var DefaultFallbackRegions = []string{"us-east-1", "ap-south-1", "eu-west-1"}

// Config holds all application configuration
type Config struct {
	Notification NotificationConfig
	Scan         ScanConfig
	History      HistoryConfig
	Logging      LoggingConfig
}

// NotificationConfig describes where the report is delivered.
type NotificationConfig struct {
	Channel    string
	Sender     string
	Recipient  string
	Region     string
	TopicARN   string
	OutputPath string
}

// ScanConfig tunes region discovery and the probes.
type ScanConfig struct {
	ControlRegion           string
	FallbackRegions         []string
	MaxParallel             int
	StoppedInstanceEstimate string
	EnforceStoppedAge       bool
}

// HistoryConfig controls the local run history database.
type HistoryConfig struct {
	Enabled bool
	Path    string
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string
	Format string // json or console
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	cfg := &Config{
		Notification: NotificationConfig{
			Channel:   strings.ToLower(getEnv("NOTIFY_CHANNEL", ChannelSES)),
			Sender:    getEnv("SENDER_EMAIL", ""),
			Recipient: getEnv("RECIPIENT_EMAIL", ""),
			Region:    getEnv("SES_REGION", "ap-southeast-1"),
			TopicARN:  getEnv("SNS_TOPIC_ARN", ""),
		},
		Scan: ScanConfig{
			ControlRegion:           getEnv("CONTROL_REGION", "us-east-1"),
			FallbackRegions:         getEnvAsList("FALLBACK_REGIONS", DefaultFallbackRegions),
			MaxParallel:             getEnvAsInt("MAX_PARALLEL_REGIONS", 10),
			StoppedInstanceEstimate: strings.ToLower(getEnv("STOPPED_INSTANCE_ESTIMATE", EstimateAverage)),
			EnforceStoppedAge:       getEnvAsBool("ENFORCE_STOPPED_AGE", false),
		},
		History: HistoryConfig{
			Enabled: getEnvAsBool("HISTORY_ENABLED", false),
			Path:    getEnv("HISTORY_DB_PATH", ""),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate validates the scan settings. Notification settings are checked
// separately once command line overrides are applied.
func (c *Config) Validate() error {
	if c.Scan.MaxParallel < 1 {
		return fmt.Errorf("MAX_PARALLEL_REGIONS must be positive, got %d", c.Scan.MaxParallel)
	}

	if len(c.Scan.FallbackRegions) == 0 {
		return fmt.Errorf("FALLBACK_REGIONS must name at least one region")
	}

	switch c.Scan.StoppedInstanceEstimate {
	case EstimateAverage, EstimateDescribed:
	default:
		return fmt.Errorf("unsupported STOPPED_INSTANCE_ESTIMATE: %s", c.Scan.StoppedInstanceEstimate)
	}

	return nil
}

// Validate checks that the selected channel has its destination configured.
func (n NotificationConfig) Validate() error {
	switch n.Channel {
	case ChannelSES:
		if n.Sender == "" || n.Recipient == "" {
			return fmt.Errorf("SENDER_EMAIL and RECIPIENT_EMAIL are required for the ses channel")
		}
	case ChannelSNS:
		if n.TopicARN == "" {
			return fmt.Errorf("SNS_TOPIC_ARN is required for the sns channel")
		}
	case ChannelFile:
		if n.OutputPath == "" {
			return fmt.Errorf("an output file is required for the file channel")
		}
	default:
		return fmt.Errorf("unsupported NOTIFY_CHANNEL: %s", n.Channel)
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsList(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return append([]string(nil), defaultValue...)
	}

	var values []string
	for _, v := range strings.Split(valueStr, ",") {
		if v = strings.TrimSpace(v); v != "" {
			values = append(values, v)
		}
	}
	return values
}
