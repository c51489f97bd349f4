package parser

import (
	"context"
	"io"

	"github.com/ccollicutt/secparse/pkg/entry"
)

// Normalizer turns one input stream into entries.
// The whole stream is consumed before Normalize returns.
type Normalizer interface {
	Normalize(ctx context.Context, r io.Reader) (entry.Sequence, error)
}

// Sniffer guesses the encoding of an input from its first bytes.
type Sniffer interface {
	Sniff(sample []byte) Format
}
