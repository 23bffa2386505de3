package jsonoutput

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thirukguru/aws-wastesweep/model"
)

func TestBuildWasteReport(t *testing.T) {
	input := model.RenderReportInput{
		AccountID: "123456789012",
		Report: model.Report{
			Findings: []model.Finding{
				{Kind: model.KindUnattachedVolume, Region: "us-east-1", ResourceID: "vol-1", DisplayName: "-", Details: "100 GB", EstimatedMonthlyCost: decimal.NewFromInt(8)},
				{Kind: model.KindUnattachedVolume, Region: "us-west-2", ResourceID: "vol-2", DisplayName: "-", Details: "10 GB", EstimatedMonthlyCost: decimal.RequireFromString("0.8")},
				{Kind: model.KindUnusedFloatingIP, Region: "us-east-1", ResourceID: "203.0.113.1", DisplayName: "-", Details: "Idle Static IP", EstimatedMonthlyCost: decimal.RequireFromString("3.65")},
			},
			Total: decimal.RequireFromString("12.45"),
		},
		RegionsScanned: 4,
	}

	got := BuildWasteReport(input, "2024-06-01T00:00:00Z")

	assert.True(t, got.HasFindings)
	assert.Equal(t, 3, got.Summary.TotalFindings)
	assert.Equal(t, "12.45", got.Summary.PotentialMonthlySaves)
	assert.Equal(t, map[string]int{"Unattached EBS": 2, "Unused EIP": 1}, got.Summary.ByKind)
	assert.Equal(t, "0.80", got.Findings[1].MonthlyCost)
	assert.Equal(t, []string{}, got.FailedRegions)
}

func TestOutputReportJSON(t *testing.T) {
	input := model.RenderReportInput{
		Report:         model.Report{GeneratedAt: time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)},
		RegionsScanned: 1,
		FailedRegions:  []string{"ap-east-1"},
	}

	var buf bytes.Buffer
	require.NoError(t, OutputReportJSON(&buf, input))

	var decoded WasteReportJSON
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "2024-06-01T09:00:00Z", decoded.GeneratedAt)
	assert.False(t, decoded.HasFindings)
	assert.Equal(t, "0.00", decoded.Summary.PotentialMonthlySaves)
	assert.Equal(t, []string{"ap-east-1"}, decoded.FailedRegions)
}

func TestOutputStatusJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, OutputStatusJSON(&buf, model.ReportSentStatus(decimal.RequireFromString("10.5"))))
	assert.Equal(t, "{\"status\":\"Report Sent\",\"savings\":10.5}\n", buf.String())

	buf.Reset()
	require.NoError(t, OutputStatusJSON(&buf, model.CleanStatus()))
	assert.Equal(t, "{\"status\":\"Clean\"}\n", buf.String())
}
