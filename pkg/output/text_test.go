package output

import (
	"bytes"
	"context"
	"testing"

	"github.com/ccollicutt/secparse/pkg/entry"
	"github.com/ccollicutt/secparse/pkg/retro"
	"github.com/ccollicutt/secparse/pkg/search"
)

func TestNewTextFormatter(t *testing.T) {
	f := NewTextFormatter(FormatOptions{})
	if f == nil {
		t.Fatal("NewTextFormatter() returned nil")
	}
	if f.Name() != "text" {
		t.Errorf("Name() = %q, want %q", f.Name(), "text")
	}
}

func TestTextFormatter_Format(t *testing.T) {
	tests := []struct {
		name   string
		result *search.Result
		want   string
	}{
		{
			name: "entries separated by blank line",
			result: &search.Result{Entries: entry.Sequence{
				"# fvTenant\nname            : a\n",
				"# fvTenant\nname            : b\n",
			}},
			want: "# fvTenant\nname            : a\n\n# fvTenant\nname            : b\n\n",
		},
		{
			name: "summary lines",
			result: &search.Result{
				Summarized: true,
				RecordType: retro.Event,
				Lines:      []string{"one", "", "two"},
			},
			want: "one\n\ntwo\n",
		},
		{
			name:   "empty",
			result: &search.Result{},
			want:   "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := NewTextFormatter(FormatOptions{}).Format(context.Background(), tt.result, &buf); err != nil {
				t.Fatalf("Format() error = %v", err)
			}
			if buf.String() != tt.want {
				t.Errorf("Format() = %q, want %q", buf.String(), tt.want)
			}
		})
	}
}

func TestNew(t *testing.T) {
	for _, name := range []string{"text", "json"} {
		f, err := New(name, FormatOptions{})
		if err != nil {
			t.Fatalf("New(%q) error = %v", name, err)
		}
		if f.Name() != name {
			t.Errorf("Name() = %q, want %q", f.Name(), name)
		}
	}

	if _, err := New("yaml", FormatOptions{}); err == nil {
		t.Error("New(yaml) error = nil, want error")
	}
}
