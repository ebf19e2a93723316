// Package learning persists the phrase-to-action cache that makes the
// engine improve over time. The store is a single JSON file keyed by
// lowercased phrase; it is read wholesale at startup and rewritten
// wholesale on every mutation, which is fine at the scale of a personal
// learned vocabulary.
package learning

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/doeshing/droidai/internal/domain"
	"github.com/doeshing/droidai/internal/ports"
)

// FileStore implements ports.LearningStore on a JSON file.
type FileStore struct {
	path   string
	logger ports.Logger

	mu      sync.RWMutex
	entries map[string]domain.LearnedEntry
}

var _ ports.LearningStore = (*FileStore)(nil)

// NewFileStore loads the cache at path. A missing file is an empty cache;
// so is a corrupt one, because losing learned phrases only costs
// re-learning, while refusing to start costs the whole assistant.
func NewFileStore(path string, logger ports.Logger) *FileStore {
	s := &FileStore{path: path, logger: logger, entries: map[string]domain.LearnedEntry{}}

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Warn("learning cache unreadable, starting empty", map[string]interface{}{
				"path": path, "error": err.Error(),
			})
		}
		return s
	}

	var raw map[string]domain.LearnedEntry
	if err := json.Unmarshal(data, &raw); err != nil {
		logger.Warn("learning cache corrupt, starting empty", map[string]interface{}{
			"path": path, "error": err.Error(),
		})
		return s
	}
	s.entries = raw
	return s
}

// Lookup returns the entry for an exact lowercased phrase.
func (s *FileStore) Lookup(phrase string) (domain.LearnedEntry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[strings.ToLower(phrase)]
	if ok {
		e.Phrase = strings.ToLower(phrase)
	}
	return e, ok
}

// Store upserts an entry and rewrites the file.
func (s *FileStore) Store(entry domain.LearnedEntry) error {
	phrase := strings.ToLower(strings.TrimSpace(entry.Phrase))
	if phrase == "" {
		return fmt.Errorf("learning: empty phrase")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[phrase] = entry
	return s.flushLocked()
}

// Forget removes a phrase and reports whether it was present.
func (s *FileStore) Forget(phrase string) bool {
	phrase = strings.ToLower(strings.TrimSpace(phrase))

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.entries[phrase]; !ok {
		return false
	}
	delete(s.entries, phrase)
	if err := s.flushLocked(); err != nil {
		s.logger.Warn("learning cache write failed", map[string]interface{}{"error": err.Error()})
	}
	return true
}

// Entries returns all entries sorted by phrase.
func (s *FileStore) Entries() []domain.LearnedEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.LearnedEntry, 0, len(s.entries))
	for phrase, e := range s.entries {
		e.Phrase = phrase
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Phrase < out[j].Phrase })
	return out
}

// IndexPairs flattens the cache into index documents: the phrase itself
// plus every recorded example, all under the namespaced cache label.
func (s *FileStore) IndexPairs() []domain.IndexPair {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var pairs []domain.IndexPair
	for phrase, e := range s.entries {
		label := domain.CachedLabel(phrase)
		pairs = append(pairs, domain.IndexPair{Label: label, Phrase: phrase})
		for _, example := range e.Examples {
			example = strings.ToLower(strings.TrimSpace(example))
			if example != "" && example != phrase {
				pairs = append(pairs, domain.IndexPair{Label: label, Phrase: example})
			}
		}
	}
	return pairs
}

// Count returns the number of learned phrases.
func (s *FileStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

func (s *FileStore) flushLocked() error {
	if err := os.MkdirAll(filepath.Dir(s.path), domain.DirectoryPermissions); err != nil {
		return fmt.Errorf("create cache directory: %w", err)
	}
	data, err := json.MarshalIndent(s.entries, "", "  ")
	if err != nil {
		return fmt.Errorf("encode learning cache: %w", err)
	}
	if err := os.WriteFile(s.path, data, domain.DataFilePermissions); err != nil {
		return fmt.Errorf("write learning cache: %w", err)
	}
	return nil
}
