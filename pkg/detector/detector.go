// Package detector guesses the encoding of a record dump from a sample of
// its content.
package detector

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/ccollicutt/secparse/pkg/parser"
)

// maxSampleBytes bounds how much of a file DetectFromFile reads.
const maxSampleBytes = 64 * 1024

var utf8BOM = []byte("\xef\xbb\xbf")

// DetectionResult holds the result of analyzing a sample.
type DetectionResult struct {
	Format       parser.Format // Best guess
	Confidence   float64       // 0.0 to 1.0
	SampledLines int           // Non-blank lines inspected
	MarkerLines  int           // Lines matching the winning signature
	Matches      []SignatureMatch
}

// SignatureMatch is the count for one line signature.
type SignatureMatch struct {
	Signature  *LineSignature
	MatchCount int
	SampleLine string
}

// Detector classifies record dumps. It implements parser.Sniffer.
type Detector struct {
	signatures []*LineSignature
	sampleSize int
}

// Option configures the Detector.
type Option func(*Detector)

// WithSampleSize sets the number of lines to sample (default 100).
func WithSampleSize(n int) Option {
	return func(d *Detector) {
		if n > 0 {
			d.sampleSize = n
		}
	}
}

// New creates a new Detector with the default signatures.
func New(opts ...Option) *Detector {
	d := &Detector{
		signatures: DefaultSignatures(),
		sampleSize: 100,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Sniff returns the most likely format of sample.
func (d *Detector) Sniff(sample []byte) parser.Format {
	return d.DetectFromBytes(sample).Format
}

// DetectFromFile reads the head of a file and classifies it.
func (d *Detector) DetectFromFile(ctx context.Context, path string) (*DetectionResult, error) {
	// #nosec G304 - path is provided by user via CLI
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	sample, err := io.ReadAll(io.LimitReader(f, maxSampleBytes))
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return d.DetectFromBytes(sample), nil
}

// DetectFromBytes classifies a sample. Documents opening with '<' are XML
// and with '{' or '[' JSON; anything else is the line format whose record
// start pattern matches the most sampled lines, or moquery with zero
// confidence when none match.
func (d *Detector) DetectFromBytes(sample []byte) *DetectionResult {
	trimmed := bytes.TrimLeft(bytes.TrimPrefix(sample, utf8BOM), " \t\r\n")

	if len(trimmed) > 0 {
		switch trimmed[0] {
		case '<':
			return &DetectionResult{Format: parser.FormatXML, Confidence: 1}
		case '{', '[':
			return &DetectionResult{Format: parser.FormatJSON, Confidence: 1}
		}
	}

	result := &DetectionResult{Format: parser.FormatMoquery}

	matches := make([]SignatureMatch, len(d.signatures))
	for i, s := range d.signatures {
		matches[i].Signature = s
	}

	for _, raw := range bytes.Split(trimmed, []byte("\n")) {
		if result.SampledLines >= d.sampleSize {
			break
		}
		line := string(bytes.TrimRight(raw, "\r"))
		if len(bytes.TrimSpace(raw)) == 0 {
			continue
		}
		result.SampledLines++

		for i, s := range d.signatures {
			if !s.Pattern.MatchString(line) {
				continue
			}
			if matches[i].MatchCount == 0 {
				matches[i].SampleLine = line
			}
			matches[i].MatchCount++
		}
	}

	best := -1
	for i, m := range matches {
		if m.MatchCount > 0 && (best < 0 || m.MatchCount > matches[best].MatchCount) {
			best = i
		}
	}
	result.Matches = matches

	if best < 0 {
		return result
	}

	result.Format = matches[best].Signature.Format
	result.MarkerLines = matches[best].MatchCount
	result.Confidence = float64(result.MarkerLines) / float64(result.SampledLines)
	return result
}
