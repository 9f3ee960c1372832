package build

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"
)

// Record is what one pre-build changed in the project. It lets a later
// clean undo a batch build that never reached its post-build step.
type Record struct {
	Platform  string    `json:"platform"`
	Batch     bool      `json:"batch"`
	Manifests []string  `json:"manifests,omitempty"`
	Templates []string  `json:"templates,omitempty"`
	BuildTime time.Time `json:"build_time"`
}

// LoadRecord reads the record at path.
func LoadRecord(path string) (*Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

func saveRecord(path string, rec *Record) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func removeRecord(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}
