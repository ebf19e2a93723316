// Package shortcuts persists user-taught app-name aliases ("insta" for
// com.instagram.android) in a JSON file.
package shortcuts

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

type mapping struct {
	Package string `json:"package"`
	Label   string `json:"label,omitempty"`
}

// FileStore implements ports.ShortcutStore on a JSON file.
type FileStore struct {
	path   string
	logger ports.Logger

	mu       sync.RWMutex
	mappings map[string]mapping
}

var _ ports.ShortcutStore = (*FileStore)(nil)

// NewFileStore loads the shortcut file at path; missing or corrupt files
// start empty.
func NewFileStore(path string, logger ports.Logger) *FileStore {
	s := &FileStore{path: path, logger: logger, mappings: map[string]mapping{}}
	data, err := os.ReadFile(path)
	if err != nil {
		return s
	}
	if err := json.Unmarshal(data, &s.mappings); err != nil {
		logger.Warn("shortcut file corrupt, starting empty", map[string]interface{}{
			"path": path, "error": err.Error(),
		})
		s.mappings = map[string]mapping{}
	}
	return s
}

// Teach records or overwrites one alias.
func (s *FileStore) Teach(shortcut, pkg, label string) error {
	shortcut = strings.ToLower(strings.TrimSpace(shortcut))
	if shortcut == "" || pkg == "" {
		return fmt.Errorf("shortcuts: shortcut and package are required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.mappings[shortcut] = mapping{Package: pkg, Label: label}
	return s.flushLocked()
}

// Forget removes an alias and reports whether it existed.
func (s *FileStore) Forget(shortcut string) bool {
	shortcut = strings.ToLower(strings.TrimSpace(shortcut))

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.mappings[shortcut]; !ok {
		return false
	}
	delete(s.mappings, shortcut)
	if err := s.flushLocked(); err != nil {
		s.logger.Warn("shortcut file write failed", map[string]interface{}{"error": err.Error()})
	}
	return true
}

// Resolve returns the package for an alias.
func (s *FileStore) Resolve(shortcut string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.mappings[strings.ToLower(strings.TrimSpace(shortcut))]
	return m.Package, ok
}

// Mappings returns alias-to-package pairs for display.
func (s *FileStore) Mappings() map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]string, len(s.mappings))
	for shortcut, m := range s.mappings {
		out[shortcut] = m.Package
	}
	return out
}

// AliasesFor returns every alias pointing at pkg, sorted.
func (s *FileStore) AliasesFor(pkg string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var aliases []string
	for shortcut, m := range s.mappings {
		if m.Package == pkg {
			aliases = append(aliases, shortcut)
		}
	}
	sort.Strings(aliases)
	return aliases
}

func (s *FileStore) flushLocked() error {
	if err := os.MkdirAll(filepath.Dir(s.path), domain.DirectoryPermissions); err != nil {
		return fmt.Errorf("create shortcut directory: %w", err)
	}
	data, err := json.MarshalIndent(s.mappings, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(s.path, data, domain.DataFilePermissions); err != nil {
		return fmt.Errorf("write shortcuts: %w", err)
	}
	return nil
}
