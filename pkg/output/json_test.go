package output

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/ccollicutt/secparse/pkg/entry"
	"github.com/ccollicutt/secparse/pkg/retro"
	"github.com/ccollicutt/secparse/pkg/search"
)

func TestNewJSONFormatter(t *testing.T) {
	f := NewJSONFormatter(FormatOptions{})
	if f == nil {
		t.Fatal("NewJSONFormatter() returned nil")
	}
	if f.Name() != "json" {
		t.Errorf("Name() = %q, want %q", f.Name(), "json")
	}
}

func decode(t *testing.T, data []byte) map[string]json.RawMessage {
	t.Helper()
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("Output is not valid JSON: %v", err)
	}
	return doc
}

func TestJSONFormatter_Format_Entries(t *testing.T) {
	result := &search.Result{
		Entries: entry.Sequence{"# fvTenant\nname            : a&b\n"},
		Stats:   search.Stats{Entries: 3, Output: 1},
	}

	var buf bytes.Buffer
	if err := NewJSONFormatter(FormatOptions{}).Format(context.Background(), result, &buf); err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	doc := decode(t, buf.Bytes())
	if _, ok := doc["lines"]; ok {
		t.Error("unsummarized output has lines key")
	}
	if _, ok := doc["stats"]; ok {
		t.Error("stats present without verbose")
	}
	var entries []string
	if err := json.Unmarshal(doc["entries"], &entries); err != nil || len(entries) != 1 {
		t.Fatalf("entries = %s, want one entry", doc["entries"])
	}
	if string(doc["record_type"]) != `"unknown"` {
		t.Errorf("record_type = %s, want \"unknown\"", doc["record_type"])
	}
	if !strings.Contains(buf.String(), "a&b") {
		t.Errorf("output = %q, want unescaped ampersand", buf.String())
	}
}

func TestJSONFormatter_Format_Lines(t *testing.T) {
	result := &search.Result{
		Summarized: true,
		RecordType: retro.Fault,
		Lines:      []string{"a", "b"},
	}

	var buf bytes.Buffer
	if err := NewJSONFormatter(FormatOptions{Verbose: true}).Format(context.Background(), result, &buf); err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	var parsed struct {
		RecordType string        `json:"record_type"`
		Summarized bool          `json:"summarized"`
		Lines      []string      `json:"lines"`
		Entries    []string      `json:"entries"`
		Stats      *search.Stats `json:"stats"`
	}
	if err := json.Unmarshal(buf.Bytes(), &parsed); err != nil {
		t.Fatalf("Output is not valid JSON: %v", err)
	}
	if parsed.RecordType != "fault" || !parsed.Summarized {
		t.Errorf("header = %q/%v, want fault/true", parsed.RecordType, parsed.Summarized)
	}
	if len(parsed.Lines) != 2 || parsed.Entries != nil {
		t.Errorf("lines = %v entries = %v, want two lines only", parsed.Lines, parsed.Entries)
	}
	if parsed.Stats == nil {
		t.Error("stats missing in verbose output")
	}
}

func TestJSONFormatter_Format_Empty(t *testing.T) {
	var buf bytes.Buffer
	if err := NewJSONFormatter(FormatOptions{}).Format(context.Background(), &search.Result{}, &buf); err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	doc := decode(t, buf.Bytes())
	if string(doc["entries"]) != "[]" {
		t.Errorf("entries = %s, want []", doc["entries"])
	}
}
