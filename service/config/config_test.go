package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	for _, key := range []string{
		"NOTIFY_CHANNEL", "SENDER_EMAIL", "RECIPIENT_EMAIL", "SES_REGION", "SNS_TOPIC_ARN",
		"CONTROL_REGION", "FALLBACK_REGIONS", "MAX_PARALLEL_REGIONS", "STOPPED_INSTANCE_ESTIMATE",
		"ENFORCE_STOPPED_AGE", "HISTORY_ENABLED", "HISTORY_DB_PATH", "LOG_LEVEL", "LOG_FORMAT",
	} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ChannelSES, cfg.Notification.Channel)
	assert.Equal(t, "ap-southeast-1", cfg.Notification.Region)
	assert.Equal(t, "us-east-1", cfg.Scan.ControlRegion)
	assert.Equal(t, []string{"us-east-1", "ap-south-1", "eu-west-1"}, cfg.Scan.FallbackRegions)
	assert.Equal(t, 10, cfg.Scan.MaxParallel)
	assert.Equal(t, EstimateAverage, cfg.Scan.StoppedInstanceEstimate)
	assert.False(t, cfg.Scan.EnforceStoppedAge)
	assert.False(t, cfg.History.Enabled)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("NOTIFY_CHANNEL", "SNS")
	t.Setenv("SNS_TOPIC_ARN", "arn:aws:sns:us-east-1:123456789012:waste")
	t.Setenv("FALLBACK_REGIONS", " eu-central-1 , ,us-west-2")
	t.Setenv("MAX_PARALLEL_REGIONS", "4")
	t.Setenv("STOPPED_INSTANCE_ESTIMATE", "described")
	t.Setenv("ENFORCE_STOPPED_AGE", "true")
	t.Setenv("HISTORY_ENABLED", "1")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ChannelSNS, cfg.Notification.Channel)
	assert.Equal(t, []string{"eu-central-1", "us-west-2"}, cfg.Scan.FallbackRegions)
	assert.Equal(t, 4, cfg.Scan.MaxParallel)
	assert.Equal(t, EstimateDescribed, cfg.Scan.StoppedInstanceEstimate)
	assert.True(t, cfg.Scan.EnforceStoppedAge)
	assert.True(t, cfg.History.Enabled)
	assert.NoError(t, cfg.Notification.Validate())
}

func TestLoadRejectsInvalidScanSettings(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("MAX_PARALLEL_REGIONS", "0")

	_, err := Load()
	assert.ErrorContains(t, err, "MAX_PARALLEL_REGIONS")

	t.Setenv("MAX_PARALLEL_REGIONS", "")
	t.Setenv("STOPPED_INSTANCE_ESTIMATE", "exact")
	_, err = Load()
	assert.ErrorContains(t, err, "STOPPED_INSTANCE_ESTIMATE")
}

func TestNotificationValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     NotificationConfig
		wantErr string
	}{
		{"ses complete", NotificationConfig{Channel: ChannelSES, Sender: "a@example.com", Recipient: "b@example.com"}, ""},
		{"ses missing recipient", NotificationConfig{Channel: ChannelSES, Sender: "a@example.com"}, "RECIPIENT_EMAIL"},
		{"sns missing topic", NotificationConfig{Channel: ChannelSNS}, "SNS_TOPIC_ARN"},
		{"file missing path", NotificationConfig{Channel: ChannelFile}, "output file"},
		{"file complete", NotificationConfig{Channel: ChannelFile, OutputPath: "report.html"}, ""},
		{"unknown channel", NotificationConfig{Channel: "pager"}, "unsupported"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}
