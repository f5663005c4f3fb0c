package logbook

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestTailReturnsRecentLines(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "curation.log")
	book, err := New(path, "CURATION")
	if err != nil {
		t.Fatalf("new logbook: %v", err)
	}
	for i := 0; i < 5; i++ {
		book.Info("entry-%d", i)
	}
	lines := book.Tail(3)
	if len(lines) != 3 {
		t.Fatalf("len(lines) = %d, want 3", len(lines))
	}
	for idx, want := range []string{"entry-2", "entry-3", "entry-4"} {
		if !strings.Contains(lines[idx], want) {
			t.Fatalf("line %d = %q, missing %s", idx, lines[idx], want)
		}
	}
}

func TestEntriesCarrySourceAndLevel(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "curation.log")
	book, err := New(path, "CURATION")
	if err != nil {
		t.Fatalf("new logbook: %v", err)
	}
	book.Error("score request failed for %s", "img_001.png")
	book.Success("approved %s", "img_002.png")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	content := string(data)
	if !strings.Contains(content, "[CURATION]") {
		t.Fatalf("entries missing source tag: %q", content)
	}
	if !strings.Contains(content, "ERROR") || !strings.Contains(content, "OK") {
		t.Fatalf("entries missing levels: %q", content)
	}
}

func TestNilLogbookIsSafe(t *testing.T) {
	var book *Logbook
	book.Info("ignored")
	if lines := book.Tail(5); lines != nil {
		t.Fatalf("nil logbook tail = %v, want nil", lines)
	}
}
