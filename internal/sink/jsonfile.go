package sink

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"go.veldt.dev/clipjot/internal/record"
)

// JSONFile persists records as one growing JSON array: read the stored
// records, append the new one, rewrite the file. The rewrite goes through a
// temp file and rename so a crash mid-write never truncates the history.
type JSONFile struct {
	mu   sync.Mutex
	path string
}

// NewJSONFile returns a sink appending to the array at path. The file is
// created on first write.
func NewJSONFile(path string) *JSONFile {
	return &JSONFile{path: path}
}

// Path returns the file this sink writes to.
func (s *JSONFile) Path() string { return s.path }

// Write implements Sink.
func (s *JSONFile) Write(rec record.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, err := s.load()
	if err != nil {
		return err
	}
	stored = append(stored, rec)

	out, err := json.MarshalIndent(stored, "", "  ")
	if err != nil {
		return fmt.Errorf("jsonfile: encode: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".clipjot-*")
	if err != nil {
		return fmt.Errorf("jsonfile: %w", err)
	}
	if _, err := tmp.Write(out); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("jsonfile: write: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("jsonfile: close: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("jsonfile: rename: %w", err)
	}
	return nil
}

// load reads the existing array. A missing or empty file yields nil; a
// corrupt file is logged and replaced rather than wedging the sink forever.
func (s *JSONFile) load() ([]record.Record, error) {
	raw, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("jsonfile: read: %w", err)
	}
	if len(raw) == 0 {
		return nil, nil
	}
	var stored []record.Record
	if err := json.Unmarshal(raw, &stored); err != nil {
		slog.Warn("clipboard history file corrupt, starting fresh",
			"path", s.path, "err", err)
		return nil, nil
	}
	return stored, nil
}
