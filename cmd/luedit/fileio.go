package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// document is an LU file as read from disk. The BOM is kept aside so that
// edits see clean text and writes put it back.
type document struct {
	path    string
	content string
	bom     bool
	mode    os.FileMode
}

// readDocument reads path, or stdin when path is "-".
func readDocument(path string, stdin io.Reader) (*document, error) {
	var (
		data []byte
		err  error
	)
	mode := os.FileMode(0o644)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		// #nosec G304 -- path is provided by the user
		data, err = os.ReadFile(path)
		if err == nil {
			if info, statErr := os.Stat(path); statErr == nil {
				mode = info.Mode().Perm()
			}
		}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	doc := &document{path: path, mode: mode}
	if bytes.HasPrefix(data, utf8BOM) {
		doc.bom = true
		data = data[len(utf8BOM):]
	}
	doc.content = string(data)
	return doc, nil
}

// bytes returns content as it should be written, with the BOM restored.
func (d *document) bytes(content string) []byte {
	if !d.bom {
		return []byte(content)
	}
	out := make([]byte, 0, len(utf8BOM)+len(content))
	out = append(out, utf8BOM...)
	return append(out, content...)
}

// lockDocument takes an exclusive advisory lock next to path for a
// read-modify-write cycle. The lock file is left in place.
func lockDocument(path string) (*flock.Flock, error) {
	lock := flock.New(path + ".lock")
	if err := lock.Lock(); err != nil {
		return nil, fmt.Errorf("failed to lock %s: %w", path, err)
	}
	return lock, nil
}

// writeDocument replaces the file atomically: the new content goes to a
// temporary file in the same directory which is then renamed over path.
func writeDocument(d *document, content string) error {
	dir := filepath.Dir(d.path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(d.path)+".*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(d.bytes(content)); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write %s: %w", tmpName, err)
	}
	if err := tmp.Chmod(d.mode); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to chmod %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", tmpName, err)
	}
	if err := os.Rename(tmpName, d.path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", d.path, err)
	}
	return nil
}
