package app

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestWriteSidecar(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ep.nfo")

	loc := OutputLocation{
		Season:  1,
		Episode: 10,
		Aired:   time.Date(2024, 1, 10, 5, 0, 0, 0, time.UTC),
	}
	if err := WriteSidecar(path, "Ep <A> & B", "some \"plot\"", loc); err != nil {
		t.Fatalf("WriteSidecar: %v", err)
	}

	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	got := string(b)

	if !strings.HasPrefix(got, `<?xml version="1.0" encoding="utf-8" standalone="yes"?>`) {
		t.Fatalf("missing xml header: %q", got)
	}
	for _, want := range []string{
		"<title>Ep &lt;A&gt; &amp; B</title>",
		"<aired>2024-01-10</aired>",
		"<season>1</season>",
		"<episode>10</episode>",
	} {
		if !strings.Contains(got, want) {
			t.Fatalf("sidecar missing %q:\n%s", want, got)
		}
	}
	if strings.Contains(got, "<A>") {
		t.Fatalf("title not escaped:\n%s", got)
	}
}
