package output

import (
	"io"

	"github.com/thirukguru/aws-wastesweep/model"
	jsonoutput "github.com/thirukguru/aws-wastesweep/shared/json_output"
	"github.com/thirukguru/aws-wastesweep/shared/spinner"
	wastetable "github.com/thirukguru/aws-wastesweep/shared/waste_table"
)

// Format represents the output format type
type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
	FormatHTML  Format = "html"
	FormatNone  Format = "none"
)

// Renderer defines the interface for drawing reports
type Renderer interface {
	DrawWasteTable(w io.Writer, input model.RenderReportInput)
	OutputReportJSON(w io.Writer, input model.RenderReportInput) error
	OutputStatusJSON(w io.Writer, status model.RunStatus) error
	StopSpinner()
}

type realRenderer struct{}

func (r *realRenderer) DrawWasteTable(w io.Writer, input model.RenderReportInput) {
	wastetable.DrawWasteTable(w, input)
}

func (r *realRenderer) OutputReportJSON(w io.Writer, input model.RenderReportInput) error {
	return jsonoutput.OutputReportJSON(w, input)
}

func (r *realRenderer) OutputStatusJSON(w io.Writer, status model.RunStatus) error {
	return jsonoutput.OutputStatusJSON(w, status)
}

func (r *realRenderer) StopSpinner() {
	spinner.StopSpinner()
}

type service struct {
	format   Format
	out      io.Writer
	renderer Renderer
}

// Service renders run results to the console.
type Service interface {
	Format() Format
	RenderReport(input model.RenderReportInput) error
	RenderStatus(status model.RunStatus) error
	StopSpinner()
}
