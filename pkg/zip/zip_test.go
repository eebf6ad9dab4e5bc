package zip

import (
	"archive/zip"
	"bytes"
	"io"
	"testing"
)

func TestArchiveRoundTrip(t *testing.T) {
	data := Archive([]Entry{
		{Name: "pack.json", Data: []byte(`{"title":"x"}`)},
		{Name: "", Data: []byte("skipped")},
		{Name: "premise.txt", Data: []byte("A drowned chapel.")},
	})

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("open archive: %v", err)
	}
	if len(zr.File) != 2 {
		t.Fatalf("entries = %d, want 2", len(zr.File))
	}
	rc, err := zr.File[1].Open()
	if err != nil {
		t.Fatalf("open entry: %v", err)
	}
	defer rc.Close()
	content, _ := io.ReadAll(rc)
	if string(content) != "A drowned chapel." {
		t.Fatalf("content = %q", content)
	}
}

func TestArchiveEmpty(t *testing.T) {
	data := Archive(nil)
	if _, err := zip.NewReader(bytes.NewReader(data), int64(len(data))); err != nil {
		t.Fatalf("empty archive should still be valid: %v", err)
	}
}
