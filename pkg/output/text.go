package output

import (
	"bufio"
	"context"
	"io"

	"github.com/ccollicutt/secparse/pkg/search"
)

// TextFormatter writes summary lines one per line, or raw entries separated
// by a blank line.
type TextFormatter struct {
	opts FormatOptions
}

// NewTextFormatter creates a new text formatter with the given options.
func NewTextFormatter(opts FormatOptions) *TextFormatter {
	return &TextFormatter{opts: opts}
}

// Name returns the format name.
func (f *TextFormatter) Name() string {
	return "text"
}

// Format renders the result as text. An empty result writes nothing.
func (f *TextFormatter) Format(ctx context.Context, result *search.Result, w io.Writer) error {
	bw := bufio.NewWriter(w)

	if result.Summarized {
		for _, line := range result.Lines {
			bw.WriteString(line)
			bw.WriteByte('\n')
		}
		return bw.Flush()
	}

	for _, e := range result.Entries {
		if err := ctx.Err(); err != nil {
			return err
		}
		bw.WriteString(string(e))
		bw.WriteByte('\n')
	}
	return bw.Flush()
}
