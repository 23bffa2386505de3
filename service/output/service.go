// Package output provides a service for rendering results to the console.
package output

import (
	"fmt"
	"io"
	"os"

	"github.com/thirukguru/aws-wastesweep/model"
)

// NewService creates a new output service writing to stdout.
func NewService(format string) Service {
	return NewServiceWithRenderer(format, os.Stdout, &realRenderer{})
}

// NewServiceWithRenderer creates an output service with explicit sink and renderer.
func NewServiceWithRenderer(format string, out io.Writer, renderer Renderer) Service {
	return &service{
		format:   ParseFormat(format),
		out:      out,
		renderer: renderer,
	}
}

// ParseFormat maps a flag value to a Format, defaulting to table.
func ParseFormat(format string) Format {
	switch Format(format) {
	case FormatJSON, FormatHTML, FormatNone:
		return Format(format)
	default:
		return FormatTable
	}
}

func (s *service) Format() Format {
	return s.format
}

func (s *service) RenderReport(input model.RenderReportInput) error {
	s.renderer.StopSpinner()

	switch s.format {
	case FormatNone:
		return nil
	case FormatJSON:
		return s.renderer.OutputReportJSON(s.out, input)
	case FormatHTML:
		if input.Report.Document == "" {
			return nil
		}
		_, err := fmt.Fprintln(s.out, input.Report.Document)
		return err
	}

	s.renderer.DrawWasteTable(s.out, input)

	return nil
}

func (s *service) RenderStatus(status model.RunStatus) error {
	s.renderer.StopSpinner()

	return s.renderer.OutputStatusJSON(s.out, status)
}

func (s *service) StopSpinner() {
	s.renderer.StopSpinner()
}
