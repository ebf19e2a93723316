package domain

import (
	"strings"
	"time"
)

// Entry sources for the learning cache.
const (
	SourceLLM        = "llm"
	SourceUser       = "user"
	SourceCorrection = "correction"
)

// CachedLabelPrefix namespaces learned phrases inside the TF-IDF index so
// they can be told apart from built-in knowledge-base labels. Resolving a
// cached label requires a second lookup back into the learning cache.
const CachedLabelPrefix = "CACHED:"

// LearnedEntry is one phrase-to-action mapping in the learning cache.
type LearnedEntry struct {
	Phrase    string    `json:"-"`
	Action    Action    `json:"action"`
	Slots     Slots     `json:"params"`
	Source    string    `json:"source"`
	Examples  []string  `json:"examples,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// IndexPair is one (label, phrase) document fed to the TF-IDF index.
type IndexPair struct {
	Label  string
	Phrase string
}

// CachedLabel wraps a learned phrase in the index namespace.
func CachedLabel(phrase string) string {
	return CachedLabelPrefix + phrase
}

// CachedPhrase extracts the phrase from a namespaced label. ok is false
// when the label is a built-in knowledge-base label.
func CachedPhrase(label string) (string, bool) {
	if !strings.HasPrefix(label, CachedLabelPrefix) {
		return "", false
	}
	return label[len(CachedLabelPrefix):], true
}
