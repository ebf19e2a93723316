package learning

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/doeshing/droidai/internal/domain"
)

type nopLogger struct{}

func (nopLogger) Debug(string, map[string]interface{})        {}
func (nopLogger) Info(string, map[string]interface{})         {}
func (nopLogger) Warn(string, map[string]interface{})         {}
func (nopLogger) Error(string, error, map[string]interface{}) {}

func cachePath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "learned_actions.json")
}

func TestStoreAndReload(t *testing.T) {
	path := cachePath(t)
	s := NewFileStore(path, nopLogger{})

	entry := domain.LearnedEntry{
		Phrase:    "blast it",
		Action:    domain.ActionVolumeUp,
		Slots:     domain.Slots{Amount: 15},
		Source:    domain.SourceLLM,
		Examples:  []string{"blast it"},
		Timestamp: time.Now().UTC(),
	}
	if err := s.Store(entry); err != nil {
		t.Fatalf("Store: %v", err)
	}

	// A fresh store must see what the first one wrote.
	reloaded := NewFileStore(path, nopLogger{})
	got, ok := reloaded.Lookup("blast it")
	if !ok {
		t.Fatal("Lookup miss after reload")
	}
	if got.Action != domain.ActionVolumeUp || got.Slots.Amount != 15 || got.Source != domain.SourceLLM {
		t.Fatalf("reloaded entry = %+v", got)
	}
}

func TestLookupIsCaseInsensitive(t *testing.T) {
	s := NewFileStore(cachePath(t), nopLogger{})
	if err := s.Store(domain.LearnedEntry{Phrase: "Do The Thing", Action: domain.ActionHome}); err != nil {
		t.Fatalf("Store: %v", err)
	}
	if _, ok := s.Lookup("DO THE THING"); !ok {
		t.Fatal("Lookup should normalize case")
	}
}

func TestForget(t *testing.T) {
	s := NewFileStore(cachePath(t), nopLogger{})
	if err := s.Store(domain.LearnedEntry{Phrase: "zonk", Action: domain.ActionBack}); err != nil {
		t.Fatalf("Store: %v", err)
	}
	if !s.Forget("zonk") {
		t.Fatal("Forget = false, want true")
	}
	if s.Forget("zonk") {
		t.Fatal("second Forget = true, want false")
	}
	if s.Count() != 0 {
		t.Fatalf("Count = %d, want 0", s.Count())
	}
}

func TestCorruptFileStartsEmpty(t *testing.T) {
	path := cachePath(t)
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	s := NewFileStore(path, nopLogger{})
	if s.Count() != 0 {
		t.Fatalf("Count = %d, want 0 for corrupt file", s.Count())
	}
	// The store must still accept writes afterwards.
	if err := s.Store(domain.LearnedEntry{Phrase: "zonk", Action: domain.ActionBack}); err != nil {
		t.Fatalf("Store after corrupt load: %v", err)
	}
}

func TestIndexPairsIncludeExamples(t *testing.T) {
	s := NewFileStore(cachePath(t), nopLogger{})
	err := s.Store(domain.LearnedEntry{
		Phrase:   "crank it",
		Action:   domain.ActionVolumeUp,
		Examples: []string{"crank it", "Crank it way up"},
	})
	if err != nil {
		t.Fatalf("Store: %v", err)
	}

	pairs := s.IndexPairs()
	if len(pairs) != 2 {
		t.Fatalf("IndexPairs = %v, want phrase plus one distinct example", pairs)
	}
	for _, p := range pairs {
		if p.Label != domain.CachedLabel("crank it") {
			t.Fatalf("Label = %q", p.Label)
		}
	}
}

func TestStoreRejectsEmptyPhrase(t *testing.T) {
	s := NewFileStore(cachePath(t), nopLogger{})
	if err := s.Store(domain.LearnedEntry{Phrase: "  ", Action: domain.ActionBack}); err == nil {
		t.Fatal("Store accepted empty phrase")
	}
}
