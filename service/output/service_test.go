package output

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thirukguru/aws-wastesweep/model"
)

type recordingRenderer struct {
	tables   int
	reports  int
	statuses []model.RunStatus
	stops    int
	jsonErr  error
}

func (r *recordingRenderer) DrawWasteTable(w io.Writer, _ model.RenderReportInput) {
	r.tables++
	io.WriteString(w, "table") //nolint:errcheck
}

func (r *recordingRenderer) OutputReportJSON(_ io.Writer, _ model.RenderReportInput) error {
	r.reports++
	return r.jsonErr
}

func (r *recordingRenderer) OutputStatusJSON(_ io.Writer, status model.RunStatus) error {
	r.statuses = append(r.statuses, status)
	return nil
}

func (r *recordingRenderer) StopSpinner() {
	r.stops++
}

func TestParseFormat(t *testing.T) {
	assert.Equal(t, FormatTable, ParseFormat(""))
	assert.Equal(t, FormatTable, ParseFormat("yaml"))
	assert.Equal(t, FormatJSON, ParseFormat("json"))
	assert.Equal(t, FormatHTML, ParseFormat("html"))
	assert.Equal(t, FormatNone, ParseFormat("none"))
}

func TestRenderReportDispatch(t *testing.T) {
	input := model.RenderReportInput{Report: model.Report{Document: "<html></html>"}}

	t.Run("table", func(t *testing.T) {
		r := &recordingRenderer{}
		var buf bytes.Buffer
		require.NoError(t, NewServiceWithRenderer("table", &buf, r).RenderReport(input))
		assert.Equal(t, 1, r.tables)
		assert.Equal(t, 1, r.stops)
		assert.Equal(t, "table", buf.String())
	})

	t.Run("json", func(t *testing.T) {
		r := &recordingRenderer{jsonErr: errors.New("broken pipe")}
		err := NewServiceWithRenderer("json", io.Discard, r).RenderReport(input)
		assert.EqualError(t, err, "broken pipe")
		assert.Equal(t, 1, r.reports)
		assert.Zero(t, r.tables)
	})

	t.Run("html", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, NewServiceWithRenderer("html", &buf, &recordingRenderer{}).RenderReport(input))
		assert.Equal(t, "<html></html>\n", buf.String())
	})

	t.Run("none", func(t *testing.T) {
		r := &recordingRenderer{}
		var buf bytes.Buffer
		require.NoError(t, NewServiceWithRenderer("none", &buf, r).RenderReport(input))
		assert.Empty(t, buf.String())
		assert.Zero(t, r.tables+r.reports)
	})
}

func TestRenderStatus(t *testing.T) {
	r := &recordingRenderer{}
	svc := NewServiceWithRenderer("none", io.Discard, r)

	require.NoError(t, svc.RenderStatus(model.CleanStatus()))
	assert.Equal(t, []model.RunStatus{model.CleanStatus()}, r.statuses)
	assert.Equal(t, 1, r.stops)
}
