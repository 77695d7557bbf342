package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

const archiveTimeLayout = "20060102-150405"

// FileArchive writes each raw weather payload to its own file named
// <yyyyMMdd-HHmmss>-<station id>.json. Files are never overwritten.
type FileArchive struct {
	dir string
}

// NewFileArchive creates an archive rooted at dir. The directory is created
// on first write.
func NewFileArchive(dir string) *FileArchive {
	return &FileArchive{dir: dir}
}

// Save writes raw as an indented JSON snapshot and returns its path.
func (a *FileArchive) Save(stationID string, at time.Time, raw []byte) (string, error) {
	if err := os.MkdirAll(a.dir, 0o755); err != nil {
		return "", fmt.Errorf("create archive dir: %w", err)
	}

	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "    "); err != nil {
		// Keep the bytes as received rather than lose the snapshot.
		buf.Reset()
		buf.Write(raw)
	}

	name := fmt.Sprintf("%s-%s.json", at.Format(archiveTimeLayout), stationID)
	path := filepath.Join(a.dir, name)

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("create snapshot: %w", err)
	}
	if _, err := f.Write(buf.Bytes()); err != nil {
		f.Close()
		return "", fmt.Errorf("write snapshot: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close snapshot: %w", err)
	}
	return path, nil
}
