package jsonfile

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"rankboard/core"
)

// Entry is the on-disk shape of one roster line.
type Entry struct {
	Name  string `json:"name"`
	Score int64  `json:"score"`
}

// Source reads a roster from a JSON array file such as
//
//	[{"name": "Ayesha", "score": 75}, {"name": "Thilina", "score": 82}]
//
// The file is read on every Load so edits are picked up without a restart.
type Source struct {
	path string
}

func New(path string) (*Source, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("roster file path cannot be empty")
	}
	return &Source{path: filepath.Clean(path)}, nil
}

func (s *Source) Path() string { return s.path }

func (s *Source) Load(ctx context.Context) ([]*core.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	b, err := os.ReadFile(s.path)
	if err != nil {
		return nil, err
	}
	var entries []Entry
	if err := json.Unmarshal(b, &entries); err != nil {
		return nil, fmt.Errorf("parse roster %s: %w", s.path, err)
	}
	out := make([]*core.Record, 0, len(entries))
	for i, e := range entries {
		if strings.TrimSpace(e.Name) == "" {
			return nil, fmt.Errorf("roster %s: entry %d has an empty name", s.path, i)
		}
		out = append(out, core.NewRecord(e.Name, e.Score))
	}
	return out, nil
}

// Write stores records as a roster file, creating parent directories.
// It writes to a temporary file first and renames it into place.
func Write(path string, records []*core.Record) error {
	entries := make([]Entry, len(records))
	for i, r := range records {
		entries[i] = Entry{Name: r.Name(), Score: r.Score()}
	}
	b, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
