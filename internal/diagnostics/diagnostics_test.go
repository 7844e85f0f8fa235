package diagnostics_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aledsdavies/helpdoc/core/sourcepos"
	"github.com/aledsdavies/helpdoc/internal/diagnostics"
)

func testRange() sourcepos.Range {
	return sourcepos.Range{
		File:  "test",
		Begin: sourcepos.Pos{Row: 1, Col: 2, Offset: 1},
		End:   sourcepos.Pos{Row: 3, Col: 4, Offset: 20},
	}
}

// TestDiagnosticStringFormat pins the exact wire format the original tool
// emits: "error in <file>(<row>:<col> - <row>:<col>): <message>".
func TestDiagnosticStringFormat(t *testing.T) {
	d := diagnostics.Diagnostic{Range: testRange(), Message: "boom"}
	assert.Equal(t, "error in test(1:2 - 3:4): boom", d.String())
}

func TestDiagnosticStringWithSuggestion(t *testing.T) {
	d := diagnostics.Diagnostic{Range: testRange(), Message: "boom", Suggestion: "--output"}
	assert.Equal(t, "error in test(1:2 - 3:4): boom (did you mean '--output'?)", d.String())
}

func TestCollectorBuffersInOrder(t *testing.T) {
	c := &diagnostics.Collector{}
	assert.True(t, c.Empty())

	c.Report(testRange(), "first %d", 1)
	c.ReportSuggest(testRange(), "prog", "second %d", 2)

	require.Len(t, c.Diagnostics, 2)
	assert.False(t, c.Empty())
	assert.Equal(t, "first 1", c.Diagnostics[0].Message)
	assert.Equal(t, "second 2", c.Diagnostics[1].Message)
	assert.Equal(t, "prog", c.Diagnostics[1].Suggestion)
}

func TestWriterWritesOneLinePerDiagnostic(t *testing.T) {
	var buf bytes.Buffer
	w := diagnostics.Writer{W: &buf}

	w.Report(testRange(), "boom")
	w.Report(testRange(), "bang")

	assert.Equal(t, "error in test(1:2 - 3:4): boom\nerror in test(1:2 - 3:4): bang\n", buf.String())
}

func TestTeeFansOutToEverySink(t *testing.T) {
	a := &diagnostics.Collector{}
	b := &diagnostics.Collector{}
	tee := diagnostics.Tee{a, b}

	tee.Report(testRange(), "boom")
	tee.ReportSuggest(testRange(), "prog", "bang")

	require.Len(t, a.Diagnostics, 2)
	require.Len(t, b.Diagnostics, 2)
	assert.Equal(t, a.Diagnostics, b.Diagnostics)
}
