// Package output renders search results as plain text or JSON.
package output

import (
	"context"
	"fmt"
	"io"

	"github.com/ccollicutt/secparse/pkg/search"
)

// Formatter renders search results in a specific format.
type Formatter interface {
	// Format renders the result to the given writer.
	Format(ctx context.Context, result *search.Result, w io.Writer) error

	// Name returns the format name (text, json).
	Name() string
}

// FormatOptions controls formatter behavior.
type FormatOptions struct {
	// Verbose adds stage counters to JSON output.
	Verbose bool
}

// New returns the formatter registered under name.
func New(name string, opts FormatOptions) (Formatter, error) {
	switch name {
	case "text", "":
		return NewTextFormatter(opts), nil
	case "json":
		return NewJSONFormatter(opts), nil
	default:
		return nil, fmt.Errorf("unknown output format: %s", name)
	}
}
