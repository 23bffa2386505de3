// Package htmloutput renders the waste report as a self-contained HTML email.
package htmloutput

import (
	"bytes"
	"fmt"
	"html/template"
)

// ReportData contains all data needed for HTML report generation
type ReportData struct {
	GeneratedAt   string
	Total         string
	Rows          []Row
	FailedRegions []string
}

// Row is one finding as it appears in the table.
type Row struct {
	Kind        string
	Region      string
	ResourceID  string
	DisplayName string
	Details     string
	Cost        string
}

var reportTemplate = template.Must(template.New("report").Parse(htmlTemplate))

// GenerateHTMLReport generates a complete HTML report from the provided data
func GenerateHTMLReport(data ReportData) (string, error) {
	var buf bytes.Buffer
	if err := reportTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render HTML report: %w", err)
	}
	return buf.String(), nil
}

// Styles are inline because most mail clients drop <style> blocks.
const htmlTemplate = `<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"><title>AWS Waste Report</title></head>
<body style="font-family: Arial, Helvetica, sans-serif; color: #232f3e; margin: 0; padding: 24px; background: #f4f6f8;">
<div style="max-width: 900px; margin: 0 auto; background: #ffffff; border-radius: 6px; padding: 24px;">
  <h2 style="margin: 0 0 4px 0;">AWS Waste Report</h2>
  <p style="margin: 0 0 16px 0; color: #687078;">Generated: {{.GeneratedAt}}</p>
  <div style="background: #e9f7ef; border-left: 6px solid #1d8102; padding: 14px 18px; font-size: 18px; font-weight: bold; margin-bottom: 20px;">
    &#x1F4B0; POTENTIAL MONTHLY SAVINGS: ${{.Total}}
  </div>
  <table style="width: 100%; border-collapse: collapse; font-size: 14px;">
    <thead>
      <tr style="background: #232f3e; color: #ffffff; text-align: left;">
        <th style="padding: 8px;">Type</th>
        <th style="padding: 8px;">Region</th>
        <th style="padding: 8px;">Resource / Name</th>
        <th style="padding: 8px;">Details</th>
        <th style="padding: 8px; text-align: right;">Est. Save/Mo</th>
      </tr>
    </thead>
    <tbody>
    {{- range .Rows}}
      <tr style="border-bottom: 1px solid #eaeded;">
        <td style="padding: 8px;">{{.Kind}}</td>
        <td style="padding: 8px;">{{.Region}}</td>
        <td style="padding: 8px;"><strong>{{.ResourceID}}</strong><br><span style="color: #687078;">{{.DisplayName}}</span></td>
        <td style="padding: 8px;">{{.Details}}</td>
        <td style="padding: 8px; text-align: right; color: #d13212; font-weight: bold;">${{.Cost}}</td>
      </tr>
    {{- end}}
    </tbody>
  </table>
  {{- if .FailedRegions}}
  <p style="margin-top: 16px; color: #8a6d3b;">Not scanned due to errors: {{range $i, $r := .FailedRegions}}{{if $i}}, {{end}}{{$r}}{{end}}</p>
  {{- end}}
  <p style="margin-top: 20px; font-size: 12px; color: #687078;">Estimates use average list prices and may differ from your bill. Nothing was modified.</p>
</div>
</body>
</html>
`
