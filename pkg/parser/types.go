// Package parser converts raw record dumps into entry sequences.
//
// Three encodings are understood: marker-delimited text (moquery output or
// any text with a section delimiter), XML and JSON. All of them produce
// entries with the same textual shape, so later stages never need to know
// where an entry came from.
package parser

import "fmt"

// Format names an input encoding.
type Format string

const (
	// FormatMoquery is moquery text output with "# <class>" headers (default).
	FormatMoquery Format = "moquery"
	// FormatText is any text split by a section delimiter.
	FormatText Format = "text"
	// FormatXML is moquery XML output.
	FormatXML Format = "xml"
	// FormatJSON is moquery JSON output.
	FormatJSON Format = "json"
	// FormatAuto sniffs the encoding of each input before parsing it.
	FormatAuto Format = "auto"
)

// Default record-start patterns for the text formats.
const (
	DefaultMarkerPattern    = `^#[ \t]+[\w]+`
	DefaultDelimiterPattern = `^[ \t]*\[[0-9]+ [^\]]+\]`
)

// MaxDepth bounds tree traversal. Deeper nodes indicate a malformed or
// cyclic tree.
const MaxDepth = 10000

// Formats lists every accepted format name.
var Formats = []Format{FormatMoquery, FormatText, FormatXML, FormatJSON, FormatAuto}

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	for _, f := range Formats {
		if string(f) == s {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown input format %q (use moquery, text, xml, json or auto)", s)
}
