package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/rs/zerolog"
)

// FileStore keeps the history mapping in a single indented JSON file,
// rewritten in full on every mutation.
type FileStore struct {
	path    string
	entries map[string]HistoryEntry
	logger  zerolog.Logger
}

// NewFileStore constructs a file-backed history store.
func NewFileStore(path string, logger zerolog.Logger) *FileStore {
	return &FileStore{
		path:    path,
		entries: make(map[string]HistoryEntry),
		logger:  logger.With().Str("component", "history_file").Logger(),
	}
}

// Load reads the history file. A missing or unreadable file yields an
// empty mapping; the only cost of starting fresh is one first-seen pass.
func (s *FileStore) Load(_ context.Context) error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Warn().Err(err).Str("path", s.path).Msg("history file unreadable; starting empty")
		}
		s.entries = make(map[string]HistoryEntry)
		return nil
	}

	entries := make(map[string]HistoryEntry)
	if err := json.Unmarshal(data, &entries); err != nil {
		s.logger.Warn().Err(err).Str("path", s.path).Msg("history file corrupt; starting empty")
		s.entries = make(map[string]HistoryEntry)
		return nil
	}

	for url, entry := range entries {
		if !entry.Valid() {
			s.logger.Warn().Str("url", url).Int64("price", entry.Price).
				Msg("history entry out of bounds; dropped")
			delete(entries, url)
		}
	}

	s.entries = entries
	return nil
}

// Get returns the stored entry for a URL.
func (s *FileStore) Get(url string) (HistoryEntry, bool) {
	entry, ok := s.entries[url]
	return entry, ok
}

// Put replaces the entry for its URL and rewrites the whole file.
func (s *FileStore) Put(_ context.Context, entry HistoryEntry) error {
	s.entries[entry.URL] = entry

	data, err := json.MarshalIndent(s.entries, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal history: %w", err)
	}

	// Write-then-rename so a crash mid-write never clobbers the
	// previously confirmed history.
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write history file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace history file: %w", err)
	}
	return nil
}

// Entries returns a copy of the current mapping.
func (s *FileStore) Entries() map[string]HistoryEntry {
	out := make(map[string]HistoryEntry, len(s.entries))
	for url, entry := range s.entries {
		out[url] = entry
	}
	return out
}

// Close is a no-op for the file store.
func (s *FileStore) Close() {}

var _ HistoryStore = (*FileStore)(nil)
