package parser

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/ccollicutt/secparse/pkg/entry"
)

// fixedSniffer always reports the same format.
type fixedSniffer Format

func (s fixedSniffer) Sniff([]byte) Format { return Format(s) }

func TestParseFormat(t *testing.T) {
	for _, f := range Formats {
		got, err := ParseFormat(string(f))
		if err != nil || got != f {
			t.Errorf("ParseFormat(%q) = %q, %v", f, got, err)
		}
	}
	if _, err := ParseFormat("yaml"); err == nil {
		t.Error("ParseFormat(yaml) expected error")
	}
}

func TestNewLoader_Errors(t *testing.T) {
	if _, err := NewLoader("csv"); err == nil {
		t.Error("NewLoader(csv) expected error")
	}
	if _, err := NewLoader(FormatAuto); err == nil {
		t.Error("NewLoader(auto) without sniffer expected error")
	}
	if _, err := NewLoader(FormatText, WithDelimiter("[unclosed")); err == nil {
		t.Error("NewLoader() expected error for invalid delimiter")
	}
}

func TestLoader_LoadFiles_Concatenates(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "first.txt")
	second := filepath.Join(dir, "second.txt")
	if err := os.WriteFile(first, []byte("# a\nv: 1\n\n# b\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(second, []byte("# c\n"), 0644); err != nil {
		t.Fatal(err)
	}

	l, err := NewLoader(FormatMoquery)
	if err != nil {
		t.Fatalf("NewLoader() error = %v", err)
	}
	seq, err := l.LoadFiles(context.Background(), []string{second, first})
	if err != nil {
		t.Fatalf("LoadFiles() error = %v", err)
	}

	want := entry.Sequence{"# c\n", "# a\nv: 1\n", "# b\n"}
	assertSequence(t, seq, want)
}

func TestLoader_LoadFiles_MissingFile(t *testing.T) {
	l, err := NewLoader(FormatMoquery)
	if err != nil {
		t.Fatalf("NewLoader() error = %v", err)
	}
	_, err = l.LoadFiles(context.Background(), []string{"/nonexistent/records.txt"})
	if err == nil {
		t.Fatal("LoadFiles() expected error for missing file")
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("LoadFiles() error = %v, want os.ErrNotExist", err)
	}
}

func TestLoader_LoadFiles_StructuralErrorAborts(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.json")
	bad := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(good, []byte(`{"imdata": [{"a": {"attributes": {}}}]}`), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(bad, []byte(`{"imdata": [{"a": {}}]}`), 0644); err != nil {
		t.Fatal(err)
	}

	l, err := NewLoader(FormatJSON)
	if err != nil {
		t.Fatalf("NewLoader() error = %v", err)
	}
	seq, err := l.LoadFiles(context.Background(), []string{good, bad})
	if !errors.Is(err, entry.ErrStructural) {
		t.Fatalf("LoadFiles() error = %v, want ErrStructural", err)
	}
	if seq != nil {
		t.Errorf("LoadFiles() returned partial result %q", seq)
	}
	if !strings.Contains(err.Error(), bad) {
		t.Errorf("LoadFiles() error = %v, want it to name %s", err, bad)
	}
}

func TestLoader_Load_Auto(t *testing.T) {
	l, err := NewLoader(FormatAuto, WithSniffer(fixedSniffer(FormatXML)))
	if err != nil {
		t.Fatalf("NewLoader() error = %v", err)
	}
	seq, err := l.Load(context.Background(), strings.NewReader(`<eventRecord code="E1"/>`), "stdin")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	assertSequence(t, seq, entry.Sequence{"# eventRecord\ncode            : E1\n"})
}

func TestLoader_Load_CustomDelimiter(t *testing.T) {
	l, err := NewLoader(FormatText, WithDelimiter(`^---`), WithAllowEmptyLines(true))
	if err != nil {
		t.Fatalf("NewLoader() error = %v", err)
	}
	seq, err := l.Load(context.Background(), strings.NewReader("--- one\na\n\nb\n--- two\nc\n"), "stdin")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	assertSequence(t, seq, entry.Sequence{"--- one\na\n\nb\n", "--- two\nc\n"})
}

func TestLoader_Load_StartPattern(t *testing.T) {
	re := regexp.MustCompile(`^=+$`)
	input := "==\na\n==\nb\n"

	l, err := NewLoader(FormatText, WithStartPattern(re))
	if err != nil {
		t.Fatalf("NewLoader() error = %v", err)
	}
	seq, err := l.Load(context.Background(), strings.NewReader(input), "stdin")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	assertSequence(t, seq, entry.Sequence{"==\na\n", "==\nb\n"})

	l, err = NewLoader(FormatText, WithStartPattern(re), WithDelimiter(`^a$`))
	if err != nil {
		t.Fatalf("NewLoader() error = %v", err)
	}
	seq, err = l.Load(context.Background(), strings.NewReader(input), "stdin")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	assertSequence(t, seq, entry.Sequence{"a\n==\nb\n"})
}

func TestLoader_Load_DefaultTextDelimiter(t *testing.T) {
	l, err := NewLoader(FormatText)
	if err != nil {
		t.Fatalf("NewLoader() error = %v", err)
	}
	seq, err := l.Load(context.Background(), strings.NewReader("# ignored\n[12 show version]\nv1\n"), "stdin")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	assertSequence(t, seq, entry.Sequence{"[12 show version]\nv1\n"})
}
