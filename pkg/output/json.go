package output

import (
	"context"
	"encoding/json"
	"io"

	"github.com/ccollicutt/secparse/pkg/search"
)

// Report is the JSON document written by JSONFormatter.
type Report struct {
	RecordType string        `json:"record_type"`
	Summarized bool          `json:"summarized"`
	Entries    *[]string     `json:"entries,omitempty"`
	Lines      *[]string     `json:"lines,omitempty"`
	Stats      *search.Stats `json:"stats,omitempty"`
}

// NewReport converts a search result. Summarized results carry Lines, all
// others carry Entries.
func NewReport(result *search.Result, withStats bool) *Report {
	report := &Report{
		RecordType: result.RecordType.String(),
		Summarized: result.Summarized,
	}
	if result.Summarized {
		lines := nonNil(result.Lines)
		report.Lines = &lines
	} else {
		entries := nonNil(result.Entries.Strings())
		report.Entries = &entries
	}
	if withStats {
		stats := result.Stats
		report.Stats = &stats
	}
	return report
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// JSONFormatter formats results as JSON.
type JSONFormatter struct {
	opts FormatOptions
}

// NewJSONFormatter creates a new JSON formatter with the given options.
func NewJSONFormatter(opts FormatOptions) *JSONFormatter {
	return &JSONFormatter{opts: opts}
}

// Name returns the format name.
func (f *JSONFormatter) Name() string {
	return "json"
}

// Format renders the result as indented JSON.
func (f *JSONFormatter) Format(ctx context.Context, result *search.Result, w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)
	return encoder.Encode(NewReport(result, f.opts.Verbose))
}
