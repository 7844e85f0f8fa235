// Package diagnostics provides the write-only sink that the parser and
// checker append human-readable problems to.
//
// Each diagnostic renders as "error in <file>(<row>:<col> - <row>:<col>):
// <message>". The sink is injected rather than hard-wired to stderr so
// tests can capture diagnostics and the CLI can both stream and count them.
package diagnostics

import (
	"fmt"
	"io"

	"github.com/aledsdavies/helpdoc/core/sourcepos"
)

// Diagnostic is one reported problem, anchored to a source range. Suggestion
// is optional enrichment (a fuzzy-matched "did you mean") layered on top of
// the base message.
type Diagnostic struct {
	Range      sourcepos.Range
	Message    string
	Suggestion string
}

// String renders the diagnostic in its single-line wire format, with an
// optional suggestion appended in parentheses.
func (d Diagnostic) String() string {
	s := fmt.Sprintf("error in %s(%d:%d - %d:%d): %s",
		d.Range.File, d.Range.Begin.Row, d.Range.Begin.Col, d.Range.End.Row, d.Range.End.Col, d.Message)
	if d.Suggestion != "" {
		s += fmt.Sprintf(" (did you mean '%s'?)", d.Suggestion)
	}
	return s
}

// Sink accepts diagnostics as they're produced. Append-only; safe to call
// with arbitrary formatted messages.
type Sink interface {
	Report(r sourcepos.Range, format string, args ...any)
	ReportSuggest(r sourcepos.Range, suggestion string, format string, args ...any)
}

// Collector is a Sink that buffers diagnostics in memory, for callers (tests,
// the CLI counting issues, downstream consumers) that want the full list
// rather than a live stream.
type Collector struct {
	Diagnostics []Diagnostic
}

// Report appends a formatted diagnostic.
func (c *Collector) Report(r sourcepos.Range, format string, args ...any) {
	c.Diagnostics = append(c.Diagnostics, Diagnostic{Range: r, Message: fmt.Sprintf(format, args...)})
}

// ReportSuggest appends a formatted diagnostic carrying a suggestion.
func (c *Collector) ReportSuggest(r sourcepos.Range, suggestion string, format string, args ...any) {
	c.Diagnostics = append(c.Diagnostics, Diagnostic{Range: r, Message: fmt.Sprintf(format, args...), Suggestion: suggestion})
}

// Empty reports whether no diagnostics have been collected.
func (c *Collector) Empty() bool {
	return len(c.Diagnostics) == 0
}

// Writer is a Sink that writes each diagnostic immediately to an io.Writer,
// one line per diagnostic.
type Writer struct {
	W io.Writer
}

// Report formats and writes one diagnostic line.
func (w Writer) Report(r sourcepos.Range, format string, args ...any) {
	d := Diagnostic{Range: r, Message: fmt.Sprintf(format, args...)}
	fmt.Fprintln(w.W, d.String())
}

// ReportSuggest formats and writes one diagnostic line carrying a suggestion.
func (w Writer) ReportSuggest(r sourcepos.Range, suggestion string, format string, args ...any) {
	d := Diagnostic{Range: r, Message: fmt.Sprintf(format, args...), Suggestion: suggestion}
	fmt.Fprintln(w.W, d.String())
}

// Tee fans out to multiple sinks, e.g. a Collector for tests plus a Writer
// for stderr.
type Tee []Sink

// Report forwards the diagnostic to every sink in order.
func (t Tee) Report(r sourcepos.Range, format string, args ...any) {
	for _, s := range t {
		s.Report(r, format, args...)
	}
}

// ReportSuggest forwards the suggestion-enriched diagnostic to every sink.
func (t Tee) ReportSuggest(r sourcepos.Range, suggestion string, format string, args ...any) {
	for _, s := range t {
		s.ReportSuggest(r, suggestion, format, args...)
	}
}
