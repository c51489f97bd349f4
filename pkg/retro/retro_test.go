package retro

import (
	"strings"
	"testing"

	"github.com/ccollicutt/secparse/pkg/entry"
)

func record(tag string, attrs ...string) entry.Entry {
	b := entry.NewBuilder(tag)
	for i := 0; i+1 < len(attrs); i += 2 {
		b.Attr(attrs[i], attrs[i+1])
	}
	return b.Entry()
}

func TestDetect(t *testing.T) {
	tests := []struct {
		name string
		e    entry.Entry
		want RecordType
	}{
		{"event", entry.Entry("# eventRecord\ncreated         : x\n"), Event},
		{"aaa", entry.Entry("# aaaModLR\n"), AccountAction},
		{"fault record", entry.Entry("# faultRecord\n"), Fault},
		{"fault inst", entry.Entry("# faultInst\n"), Fault},
		{"other", entry.Entry("# fvTenant\n"), Unknown},
		{"marker past header", entry.Entry("# fvTenant\ndescr           : # eventRecord\n"), Unknown},
		{"empty", entry.Entry(""), Unknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Detect(tt.e); got != tt.want {
				t.Errorf("Detect() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRecordTypeString(t *testing.T) {
	want := map[RecordType]string{Unknown: "unknown", Event: "event", AccountAction: "aaa", Fault: "fault"}
	for typ, s := range want {
		if typ.String() != s {
			t.Errorf("String() = %q, want %q", typ.String(), s)
		}
	}
}

func TestSummarizeEventPartial(t *testing.T) {
	seq := entry.Sequence{"# eventRecord\ncreated         : 2021-01-02T03:04:05\nseverity        : warn\n"}

	lines, err := Summarize(seq, Event, Options{})
	if err != nil {
		t.Fatalf("Summarize() error = %v", err)
	}
	if len(lines) != 1 {
		t.Fatalf("Summarize() returned %d lines, want 1", len(lines))
	}
	want := `2021-01-02 03:04:05 warn unknown %unknown: ""unknown""`
	if lines[0] != want {
		t.Errorf("line = %q, want %q", lines[0], want)
	}
}

func TestSummarizeEvent(t *testing.T) {
	e := record("eventRecord",
		"created", "2021-01-02T03:04:05.123+00:00",
		"severity", "info",
		"trig", "config",
		"affected", "uni/tn-a",
		"descr", "Tenant a created",
		"changeSet", "name:a",
	)

	lines, err := Summarize(entry.Sequence{e}, Event, Options{})
	if err != nil {
		t.Fatalf("Summarize() error = %v", err)
	}
	want := `2021-01-02 03:04:05.123 info config %uni/tn-a: ""Tenant a created"" == name:a`
	if lines[0] != want {
		t.Errorf("line = %q, want %q", lines[0], want)
	}
}

func TestSummarizeAccountAction(t *testing.T) {
	e := record("aaaModLR",
		"created", "2022-05-06T07:08:09.000+00:00",
		"user", "remote_user-admin",
		"affected", "uni/tn-b",
		"descr", "deleted",
	)

	lines, err := Summarize(entry.Sequence{e}, AccountAction, Options{})
	if err != nil {
		t.Fatalf("Summarize() error = %v", err)
	}
	want := `2022-05-06 07:08:09.000 admin %uni/tn-b: ""deleted""`
	if lines[0] != want {
		t.Errorf("line = %q, want %q", lines[0], want)
	}
}

func fault(ind string) entry.Entry {
	return record("faultRecord",
		"created", "2023-01-01T00:00:00.000+00:00",
		"ind", ind,
		"code", "F0532",
		"origSeverity", "major",
		"severity", "cleared",
		"lc", "retaining",
		"affected", "topology/pod-1",
		"descr", "port down",
	)
}

func TestSummarizeFault(t *testing.T) {
	lines, err := Summarize(entry.Sequence{fault("modification")}, Fault, Options{})
	if err != nil {
		t.Fatalf("Summarize() error = %v", err)
	}
	want := `2023-01-01 00:00:00.000 F0532 'retaining' major/cleared %topology/pod-1: ""port down""`
	if lines[0] != want {
		t.Errorf("line = %q, want %q", lines[0], want)
	}
}

func TestSummarizeFaultDeletions(t *testing.T) {
	seq := entry.Sequence{fault("creation"), fault("deletion"), fault("modification")}

	hidden, _ := Summarize(seq, Fault, Options{})
	if len(hidden) != 2 {
		t.Errorf("without deletions got %d lines, want 2", len(hidden))
	}

	shown, _ := Summarize(seq, Fault, Options{ShowDeletions: true})
	if len(shown) != 3 {
		t.Errorf("with deletions got %d lines, want 3", len(shown))
	}
}

func TestSummarizeTruncation(t *testing.T) {
	long := strings.Repeat("a", 39) + strings.Repeat("b", 20)

	tests := []struct {
		name     string
		typ      RecordType
		tag      string
		affected string
		full     bool
		want     string
	}{
		{"event long", Event, "eventRecord", long, false, "%..." + long[:40] + ":"},
		{"event exactly limit", Event, "eventRecord", long[:40], false, "%..." + long[:40] + ":"},
		{"event below limit", Event, "eventRecord", long[:39], false, "%" + long[:39] + ":"},
		{"event full", Event, "eventRecord", long, true, "%" + long + ":"},
		{"aaa long", AccountAction, "aaaModLR", long + "cc", false, "%" + (long + "cc")[:50] + "...:"},
		{"aaa below limit", AccountAction, "aaaModLR", long[:49], false, "%" + long[:49] + ":"},
		{"fault long", Fault, "faultRecord", long, false, "%..." + long[:40] + ":"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := record(tt.tag, "affected", tt.affected)
			lines, err := Summarize(entry.Sequence{e}, tt.typ, Options{Full: tt.full})
			if err != nil {
				t.Fatalf("Summarize() error = %v", err)
			}
			if !strings.Contains(lines[0], tt.want) {
				t.Errorf("line = %q, want it to contain %q", lines[0], tt.want)
			}
		})
	}
}

func TestSummarizeMisalignedIgnored(t *testing.T) {
	seq := entry.Sequence{"# eventRecord\nseverity : warn\n"}

	lines, _ := Summarize(seq, Event, Options{})
	if !strings.HasPrefix(lines[0], "unknown unknown") {
		t.Errorf("line = %q, want misaligned severity ignored", lines[0])
	}
}

func TestSummarizeChangeSet(t *testing.T) {
	blank := entry.Sequence{entry.Entry("# aaaModLR\n" + entry.FormatAttr("changeSet", ""))}
	lines, _ := Summarize(blank, AccountAction, Options{})
	if strings.Contains(lines[0], "==") {
		t.Errorf("line = %q, want blank changeSet omitted", lines[0])
	}

	set := entry.Sequence{entry.Entry("# aaaModLR\n" + entry.FormatAttr("changeSet", "descr (Old: a, New: b)"))}
	lines, _ = Summarize(set, AccountAction, Options{})
	if !strings.HasSuffix(lines[0], " == descr (Old: a, New: b)") {
		t.Errorf("line = %q, want changeSet suffix", lines[0])
	}
}

func TestSummarizeMarkerResetsFields(t *testing.T) {
	e := entry.Entry("# eventRecord\n" + entry.FormatAttr("severity", "warn") +
		"# eventRecord\n" + entry.FormatAttr("trig", "oper"))

	lines, _ := Summarize(entry.Sequence{e}, Event, Options{})
	want := `unknown unknown oper %unknown: ""unknown""`
	if lines[0] != want {
		t.Errorf("line = %q, want %q", lines[0], want)
	}
}

func TestSummarizeUnknown(t *testing.T) {
	if _, err := Summarize(entry.Sequence{"# fvTenant\n"}, Unknown, Options{}); err != ErrUnknownRecordType {
		t.Errorf("Summarize() error = %v, want %v", err, ErrUnknownRecordType)
	}
}

func TestSpace(t *testing.T) {
	lines := []string{
		"2021-01-02 03:04:05.000 a",
		"2021-01-02 03:04:06.000 b",
		"no timestamp",
		"2021-01-02 03:04:09.000 c",
		"2021-01-02 03:05:00.000 d",
		"2021-01-02 03:04:59.000 e",
	}
	want := []string{
		"2021-01-02 03:04:05.000 a",
		"2021-01-02 03:04:06.000 b",
		"no timestamp",
		"",
		"2021-01-02 03:04:09.000 c",
		"",
		"2021-01-02 03:05:00.000 d",
		"2021-01-02 03:04:59.000 e",
	}

	got := Space(lines)
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Errorf("Space() = %q, want %q", got, want)
	}
}

func TestSpaceAcrossMidnight(t *testing.T) {
	got := Space([]string{"2021-01-01 23:59:59 a", "2021-01-02 00:00:00 b"})
	if len(got) != 2 {
		t.Errorf("Space() = %q, want no separator for a one second gap", got)
	}
}

func TestSpaceFirstLine(t *testing.T) {
	got := Space([]string{"2021-01-01 00:00:00 a"})
	if len(got) != 1 || got[0] == "" {
		t.Errorf("Space() = %q, want single line", got)
	}
}

func TestMonth(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"2021-01-02 rest of line", "2021 Jan 02 rest of line"},
		{"2021-12-31 03:04:05.000 x", "2021 Dec 31 03:04:05.000 x"},
		{"2021-13-01 bad month", "2021-13-01 bad month"},
		{"2021-00-01 bad month", "2021-00-01 bad month"},
		{"not a date", "not a date"},
		{"2021-06-15", "2021 Jun 15 "},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := Month(tt.in); got != tt.want {
				t.Errorf("Month(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestSummarizePostPasses(t *testing.T) {
	seq := entry.Sequence{
		record("eventRecord", "created", "2021-03-01T10:00:00.000+00:00"),
		record("eventRecord", "created", "2021-03-01T10:00:10.000+00:00"),
	}

	lines, err := Summarize(seq, Event, Options{Space: true, Month: true})
	if err != nil {
		t.Fatalf("Summarize() error = %v", err)
	}
	if len(lines) != 3 {
		t.Fatalf("Summarize() = %q, want 3 lines", lines)
	}
	if !strings.HasPrefix(lines[0], "2021 Mar 01 10:00:00.000") {
		t.Errorf("line[0] = %q, want month rewritten", lines[0])
	}
	if lines[1] != "" {
		t.Errorf("line[1] = %q, want separator", lines[1])
	}
}
