package records

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

var (
	capeShell = Shell{
		Group:        "Capes",
		AssetType:    "CAPE",
		Identifier:   "s1",
		URLKey:       strings.Repeat("a", 32),
		OriginalSize: 2048,
	}
	combPiece = Chicken{
		ObjectName:   "Rooster",
		PieceLabel:   "comb",
		URLKey:       strings.Repeat("b", 32),
		OriginalSize: 7,
	}
)

func TestWrite_Format(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, []Shell{capeShell}, []Chicken{combPiece}); err != nil {
		t.Fatalf("Write: %v", err)
	}
	want := "shell|Capes - CAPE|s1|aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa|2048\n" +
		"chicken|Rooster|comb|bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb|7\n"
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Fatalf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestWrite_EveryLineHasFiveFields(t *testing.T) {
	shells := []Shell{capeShell, {Group: "NO SET", AssetType: "COOP", Identifier: "s2", URLKey: strings.Repeat("c", 32)}}
	chickens := []Chicken{combPiece, {ObjectName: "Hen", PieceLabel: "shortkey", URLKey: "https://cdn/shortkey"}}

	var buf bytes.Buffer
	if err := Write(&buf, shells, chickens); err != nil {
		t.Fatalf("Write: %v", err)
	}
	out := buf.String()
	if !strings.HasSuffix(out, "\n") {
		t.Fatalf("output must be newline-terminated")
	}
	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected 4 lines, got %d", len(lines))
	}
	for i, line := range lines {
		fields := strings.Split(line, Delimiter)
		if len(fields) != FieldCount {
			t.Fatalf("line %d: expected %d fields, got %d: %q", i, FieldCount, len(fields), line)
		}
		wantKind := KindShell
		if i >= len(shells) {
			wantKind = KindChicken
		}
		if fields[0] != wantKind {
			t.Fatalf("line %d: kind %q want %q", i, fields[0], wantKind)
		}
	}
}

func TestWrite_Empty(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, nil, nil); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if buf.Len() != 0 {
		t.Fatalf("expected no output, got %q", buf.String())
	}
}

func TestWriteFile_Truncates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shells.txt")
	if err := os.WriteFile(path, []byte(strings.Repeat("stale\n", 100)), 0o644); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if err := WriteFile(path, []Shell{capeShell}, nil); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if want := "shell|Capes - CAPE|s1|aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa|2048\n"; string(got) != want {
		t.Fatalf("file content: got %q want %q", got, want)
	}
	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("temporary files left behind: %v", entries)
	}
}

func TestWriteTypes(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteTypes(&buf, []string{"CAPE", "COOP"}, []string{"Rooster"}); err != nil {
		t.Fatalf("WriteTypes: %v", err)
	}
	want := "shell_type|CAPE\nshell_type|COOP\nchicken_type|Rooster\n"
	if buf.String() != want {
		t.Fatalf("got %q want %q", buf.String(), want)
	}
}

func TestRead_RoundTripsWriterOutput(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, []Shell{capeShell}, []Chicken{combPiece}); err != nil {
		t.Fatalf("Write: %v", err)
	}
	got, err := Read(&buf)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	want := []Entry{
		{Kind: KindShell, Label: "Capes - CAPE", ID: "s1", Key: capeShell.URLKey, Size: 2048},
		{Kind: KindChicken, Label: "Rooster", ID: "comb", Key: combPiece.URLKey, Size: 7},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("entries mismatch (-want +got):\n%s", diff)
	}
}

func TestRead_Errors(t *testing.T) {
	for name, in := range map[string]string{
		"too few fields":  "shell|a|b|c\n",
		"too many fields": "shell|a|b|c|1|extra\n",
		"bad size":        "chicken|a|b|c|big\n",
		"negative size":   "chicken|a|b|c|-1\n",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := Read(strings.NewReader("shell|x - COOP|id|key|1\n" + in))
			if err == nil {
				t.Fatalf("expected error")
			}
			if !strings.Contains(err.Error(), "line 2") {
				t.Fatalf("error should name the line: %v", err)
			}
		})
	}
}

func TestRead_SkipsBlankLinesAndCR(t *testing.T) {
	got, err := Read(strings.NewReader("\nshell|x - COOP|id|key|1\r\n\n"))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(got) != 1 || got[0].Size != 1 {
		t.Fatalf("unexpected entries: %+v", got)
	}
}

func TestSearch(t *testing.T) {
	entries := []Entry{
		{Kind: KindShell, Label: "Capes - CAPE", ID: "s1", Key: "k1", Size: 10},
		{Kind: KindChicken, Label: "Rooster", ID: "comb", Key: "k2", Size: 20},
		{Kind: "shell_type", Label: "cape", ID: "", Key: "", Size: 0},
		{Kind: KindShell, Label: "Barns - SHACK", ID: "s3", Key: "k3", Size: 30},
	}
	got := Search(entries, "CaPe")
	if len(got) != 1 || got[0].ID != "s1" {
		t.Fatalf("Search(CaPe): %+v", got)
	}
	got = Search(entries, "k")
	if len(got) != 3 {
		t.Fatalf("Search(k): expected 3 matches, got %+v", got)
	}
	if got := Search(entries, "nothing-matches"); len(got) != 0 {
		t.Fatalf("expected no matches, got %+v", got)
	}
}

func TestSummarize(t *testing.T) {
	s := Summarize([]Entry{
		{Kind: KindShell, Size: 10},
		{Kind: KindShell, Size: 5},
		{Kind: KindChicken, Size: 1},
		{Kind: "shell_type", Size: 99},
	})
	want := Summary{Shells: 2, Chickens: 1, ShellBytes: 15, ChickenBytes: 1}
	if diff := cmp.Diff(want, s); diff != "" {
		t.Fatalf("summary mismatch (-want +got):\n%s", diff)
	}
	if s.TotalBytes() != 16 {
		t.Fatalf("TotalBytes: %d", s.TotalBytes())
	}
}

func TestHumanSize(t *testing.T) {
	for n, want := range map[uint64]string{
		0:          "0.00 B",
		1023:       "1023.00 B",
		1024:       "1.00 KB",
		2048:       "2.00 KB",
		1536:       "1.50 KB",
		5 << 20:    "5.00 MB",
		3 << 30:    "3.00 GB",
		1 << 62:    "4.00 EB",
		^uint64(0): "16.00 EB",
	} {
		if got := HumanSize(n); got != want {
			t.Fatalf("HumanSize(%d): got %q want %q", n, got, want)
		}
	}
}

func TestDownloadURL(t *testing.T) {
	e := Entry{Kind: KindShell, ID: "s1", Key: "abc"}
	if got := DownloadURL("https://auxbrain.com/dlc/shells/", e); got != "https://auxbrain.com/dlc/shells/s1_abc.rpoz" {
		t.Fatalf("DownloadURL: %q", got)
	}
	if got := DownloadURL("https://mirror.example/dlc", e); got != "https://mirror.example/dlc/s1_abc.rpoz" {
		t.Fatalf("DownloadURL without slash: %q", got)
	}
}
