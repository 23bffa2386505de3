package wastetable

import (
	"bytes"
	"testing"

	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/thirukguru/aws-wastesweep/model"
)

func TestDrawWasteTable(t *testing.T) {
	text.DisableColors()
	defer text.EnableColors()

	input := model.RenderReportInput{
		AccountID: "123456789012",
		Report: model.Report{
			Findings: []model.Finding{
				{Kind: model.KindUnattachedVolume, Region: "us-east-1", ResourceID: "vol-1", DisplayName: "data", Details: "100 GB", EstimatedMonthlyCost: decimal.NewFromInt(8)},
				{Kind: model.KindOrphanSnapshot, Region: "us-east-1", ResourceID: "snap-1", DisplayName: "-", Details: "50 GB (> 45 days)", EstimatedMonthlyCost: decimal.RequireFromString("2.5")},
			},
			Total: decimal.RequireFromString("10.5"),
		},
		RegionsScanned: 2,
		FailedRegions:  []string{"eu-west-1"},
	}

	var buf bytes.Buffer
	DrawWasteTable(&buf, input)
	out := buf.String()

	assert.Contains(t, out, "account 123456789012")
	assert.Contains(t, out, "2 findings across 2 regions")
	assert.Contains(t, out, "vol-1")
	assert.Contains(t, out, "$8.00")
	assert.Contains(t, out, "$2.50")
	assert.Contains(t, out, "$10.50")
	assert.Contains(t, out, "Not scanned due to errors:")
	assert.Contains(t, out, "eu-west-1")
}

func TestDrawWasteTableEmpty(t *testing.T) {
	text.DisableColors()
	defer text.EnableColors()

	var buf bytes.Buffer
	DrawWasteTable(&buf, model.RenderReportInput{RegionsScanned: 3})

	assert.Contains(t, buf.String(), "No waste found")
	assert.NotContains(t, buf.String(), "Not scanned")
}
