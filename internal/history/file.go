package history

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
)

// FileStore persists the record as a UTF-8 JSON object file mapping profile
// ID to an array of item IDs. Saves go through a temp file and an atomic
// rename so a crash mid-write cannot corrupt existing history.
type FileStore struct {
	path string
	log  *slog.Logger
}

// FileOption configures a FileStore.
type FileOption func(*FileStore)

// WithFileLogger sets a custom logger.
func WithFileLogger(l *slog.Logger) FileOption {
	return func(s *FileStore) {
		s.log = l
	}
}

// NewFileStore creates a store backed by the JSON file at path.
func NewFileStore(path string, opts ...FileOption) *FileStore {
	s := &FileStore{path: path, log: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load reads the history file. A missing or unparseable file yields an empty
// record: history is an optimization, not a precondition.
func (s *FileStore) Load(_ context.Context) (Record, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.log.Warn("history file unreadable, starting empty",
				"path", s.path, "error", err)
		}
		return Record{}, nil
	}

	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		s.log.Warn("history file corrupt, starting empty",
			"path", s.path, "error", err)
		return Record{}, nil
	}
	if rec == nil {
		rec = Record{}
	}
	return rec, nil
}

// Save writes the record via write-temp-then-rename.
func (s *FileStore) Save(_ context.Context, rec Record) error {
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling history: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil { //nolint:gosec // history is not sensitive
		return fmt.Errorf("writing history temp file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replacing history file: %w", err)
	}
	return nil
}

// Close is a no-op for the file backend.
func (s *FileStore) Close() {}
