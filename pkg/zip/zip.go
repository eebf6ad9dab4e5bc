// Package zip bundles campaign artifacts into a single downloadable archive.
package zip

import (
	"archive/zip"
	"bytes"
)

// Entry is one named file inside the archive.
type Entry struct {
	Name string
	Data []byte
}

// Archive writes the entries into an in-memory zip. Entries that fail to be
// added are skipped rather than aborting the whole archive.
func Archive(entries []Entry) []byte {
	buf := &bytes.Buffer{}
	zw := zip.NewWriter(buf)
	for _, entry := range entries {
		if entry.Name == "" {
			continue
		}
		w, err := zw.Create(entry.Name)
		if err != nil {
			continue
		}
		_, _ = w.Write(entry.Data)
	}
	_ = zw.Close()
	return buf.Bytes()
}
