package detector

import (
	"regexp"

	"github.com/ccollicutt/secparse/pkg/parser"
)

// LineSignature is a record-start pattern that identifies a line-oriented
// encoding.
type LineSignature struct {
	Name       string         // Human-readable name
	Format     parser.Format  // Format reported when this signature wins
	Pattern    *regexp.Regexp // Compiled regex (set during init)
	PatternStr string         // Pattern string for display
	Example    string         // Example record-start line
}

// DefaultSignatures returns the line signatures to count. On equal counts
// the earlier signature wins.
func DefaultSignatures() []*LineSignature {
	signatures := []*LineSignature{
		{
			Name:       "moquery",
			Format:     parser.FormatMoquery,
			PatternStr: parser.DefaultMarkerPattern,
			Example:    "# fault.Inst",
		},
		{
			Name:       "bracketed text",
			Format:     parser.FormatText,
			PatternStr: parser.DefaultDelimiterPattern,
			Example:    "[1 2021-01-02T03:04:05]",
		},
	}

	for _, s := range signatures {
		s.Pattern = regexp.MustCompile(s.PatternStr)
	}

	return signatures
}
