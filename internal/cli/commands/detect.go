package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/secparse/pkg/detector"
	"github.com/ccollicutt/secparse/pkg/parser"
	"github.com/ccollicutt/secparse/pkg/retro"
)

// DetectOptions holds command-line options for the detect command.
type DetectOptions struct {
	Output     string
	SampleSize int
	ShowAll    bool
}

// NewDetectCommand creates the detect command.
func NewDetectCommand(global *GlobalOptions) *cobra.Command {
	opts := &DetectOptions{}

	cmd := &cobra.Command{
		Use:   "detect <file>",
		Short: "Detect the encoding and record type of a dump",
		Long: `Sample a file to guess whether it holds moquery text, bracketed text,
XML or JSON, then normalize it and report the entry count and the record
type retro mode would use.

Example:
  secparse detect faults.xml
  secparse detect -o json events.txt`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDetect(cmd, args, global, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "text", "Output format (text|json)")
	cmd.Flags().IntVarP(&opts.SampleSize, "sample", "n", 100, "Number of lines to sample")
	cmd.Flags().BoolVarP(&opts.ShowAll, "all", "a", false, "Show every line signature, not just the winner")

	return cmd
}

// DetectReport is the outcome of the detect command.
type DetectReport struct {
	File         string  `json:"file"`
	Format       string  `json:"format"`
	Confidence   float64 `json:"confidence"`
	SampledLines int     `json:"sampled_lines"`
	MarkerLines  int     `json:"marker_lines"`
	Entries      int     `json:"entries"`
	RecordType   string  `json:"record_type"`

	Matches []DetectMatch `json:"matches,omitempty"`
}

// DetectMatch is the sampling result for one line signature.
type DetectMatch struct {
	Name       string `json:"name"`
	Pattern    string `json:"pattern"`
	Example    string `json:"example"`
	MatchCount int    `json:"match_count"`
	SampleLine string `json:"sample_line,omitempty"`
}

// detectMatches lists the winning signature first. Without showAll only the
// winner is kept; there is none for XML, JSON or an unmatched sample.
func detectMatches(result *detector.DetectionResult, showAll bool) []DetectMatch {
	var winner, rest []DetectMatch
	for _, m := range result.Matches {
		dm := DetectMatch{
			Name:       m.Signature.Name,
			Pattern:    m.Signature.PatternStr,
			Example:    m.Signature.Example,
			MatchCount: m.MatchCount,
			SampleLine: m.SampleLine,
		}
		if winner == nil && m.MatchCount > 0 && m.MatchCount == result.MarkerLines &&
			m.Signature.Format == result.Format {
			winner = append(winner, dm)
			continue
		}
		rest = append(rest, dm)
	}
	if !showAll {
		return winner
	}
	return append(winner, rest...)
}

func runDetect(cmd *cobra.Command, args []string, global *GlobalOptions, opts *DetectOptions) error {
	path := args[0]
	e, err := global.setup(cmd)
	if err != nil {
		return err
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return fmt.Errorf("input file not found: %s", path)
	}

	d := detector.New(detector.WithSampleSize(opts.SampleSize))
	result, err := d.DetectFromFile(e.ctx, path)
	if err != nil {
		return fmt.Errorf("detection failed: %w", err)
	}

	loader, err := parser.NewLoader(result.Format,
		parser.WithStartPattern(e.cfg.Input.CompiledDelimiter()),
		parser.WithAllowEmptyLines(e.cfg.Input.AllowEmpty),
		parser.WithLogger(e.logger),
	)
	if err != nil {
		return err
	}
	seq, err := loader.LoadFiles(e.ctx, []string{path})
	if err != nil {
		return err
	}

	report := DetectReport{
		File:         path,
		Format:       string(result.Format),
		Confidence:   result.Confidence,
		SampledLines: result.SampledLines,
		MarkerLines:  result.MarkerLines,
		Entries:      len(seq),
		RecordType:   retro.Unknown.String(),
		Matches:      detectMatches(result, opts.ShowAll),
	}
	if len(seq) > 0 {
		report.RecordType = retro.Detect(seq[0]).String()
	}

	w := cmd.OutOrStdout()
	switch opts.Output {
	case "json":
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(report)
	default:
		writeDetectText(w, report)
		return nil
	}
}

func writeDetectText(w io.Writer, r DetectReport) {
	fmt.Fprintln(w, "=== Input Format Detection ===")
	fmt.Fprintln(w)
	fmt.Fprintf(w, "File: %s\n", r.File)
	fmt.Fprintf(w, "Detected Format: %s\n", r.Format)
	if r.Format == string(parser.FormatMoquery) || r.Format == string(parser.FormatText) {
		fmt.Fprintf(w, "Confidence: %.1f%% (%d/%d lines are record starts)\n",
			r.Confidence*100, r.MarkerLines, r.SampledLines)
	}
	fmt.Fprintf(w, "Entries: %d\n", r.Entries)
	fmt.Fprintf(w, "Record type: %s\n", r.RecordType)

	if len(r.Matches) == 0 {
		return
	}
	if best := r.Matches[0]; best.MatchCount == r.MarkerLines && best.MatchCount > 0 {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "Sample match:\n  %s\n", best.SampleLine)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "--- Line signatures ---")
	for i, m := range r.Matches {
		fmt.Fprintf(w, "%d. %s (%d lines)\n", i+1, m.Name, m.MatchCount)
		fmt.Fprintf(w, "   pattern: '%s'\n", m.Pattern)
		fmt.Fprintf(w, "   example: %s\n", m.Example)
	}
}
