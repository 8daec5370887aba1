package store

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
)

// StoreFileName is the flat idempotency record at the data root.
const StoreFileName = "processed_videos.json"

type storeFile struct {
	VideoIDs []string `json:"video_ids"`
}

// ProcessedStore keeps the set of already-handled video IDs, persisted as an
// indented JSON file so runs can be diffed and repaired by hand.
type ProcessedStore struct {
	path   string
	ids    map[string]struct{}
	logger *slog.Logger
}

// Load reads the store from dataRoot. A missing or corrupt file yields an
// empty set; a pipeline run must never be blocked by state it can rebuild.
func Load(dataRoot string, logger *slog.Logger) *ProcessedStore {
	s := &ProcessedStore{
		path:   filepath.Join(dataRoot, StoreFileName),
		ids:    map[string]struct{}{},
		logger: logger,
	}

	raw, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.warn("cannot read processed store, starting empty", "path", s.path, "error", err)
		}
		return s
	}

	var file storeFile
	if err := json.Unmarshal(raw, &file); err != nil {
		s.warn("corrupt processed store, starting empty", "path", s.path, "error", err)
		return s
	}

	for _, id := range file.VideoIDs {
		if id != "" {
			s.ids[id] = struct{}{}
		}
	}
	return s
}

// Contains reports whether a video ID completed the pipeline in an earlier run.
func (s *ProcessedStore) Contains(id string) bool {
	_, ok := s.ids[id]
	return ok
}

// Mark records a video ID in memory; Flush makes it durable.
func (s *ProcessedStore) Mark(id string) {
	s.ids[id] = struct{}{}
}

// Len returns the number of recorded IDs.
func (s *ProcessedStore) Len() int {
	return len(s.ids)
}

// Flush persists the current set, replacing prior state. The write goes
// through a temp file and rename so a crash never leaves a truncated store.
func (s *ProcessedStore) Flush() error {
	ids := make([]string, 0, len(s.ids))
	for id := range s.ids {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	raw, err := json.MarshalIndent(storeFile{VideoIDs: ids}, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal processed store: %w", err)
	}
	raw = append(raw, '\n')

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create data root: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return fmt.Errorf("write processed store: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace processed store: %w", err)
	}
	return nil
}

func (s *ProcessedStore) warn(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Warn(msg, args...)
	}
}
