// Package ports defines the interfaces (ports) for the hexagonal architecture.
//
// This package establishes the contract between the application core and
// external adapters (infrastructure). The intent engine depends only on
// these abstractions; the adb transport, the Ollama runtime, and the
// on-disk stores are all replaceable behind them.
package ports

import (
	"context"

	"github.com/doeshing/droidai/internal/domain"
)

// ConfigProvider loads the latest configuration from persistent storage.
// Implementations typically read from ~/.droidai/config.yaml.
type ConfigProvider interface {
	Load(context.Context) (domain.Config, error)
}

// Classifier is the tier-2 language-model boundary. Availability is probed
// once at construction and then consulted as plain data; an unavailable
// classifier is a degraded mode, not an error.
type Classifier interface {
	Available() bool
	// Classify returns the suggested action with generic slots, or nil when
	// the model produced nothing usable. The action is already validated
	// against the closed enumeration; a nil result covers parse failures,
	// unknown labels, and transport errors alike.
	Classify(ctx context.Context, utterance string) (*Classification, error)
}

// Classification is a validated tier-2 result.
type Classification struct {
	Action domain.Action
	Slots  domain.Slots
}

// LearningStore is the tier-3 persistent phrase cache. Lookup is exact
// match only; fuzziness is the TF-IDF index's job once IndexPairs are fed
// into it.
type LearningStore interface {
	Lookup(phrase string) (domain.LearnedEntry, bool)
	Store(entry domain.LearnedEntry) error
	Forget(phrase string) bool
	Entries() []domain.LearnedEntry
	IndexPairs() []domain.IndexPair
	Count() int
}

// DeviceDriver executes primitive operations against the connected device.
type DeviceDriver interface {
	Launch(ctx context.Context, pkg string) error
	ForceStop(ctx context.Context, pkg string) error
	Tap(ctx context.Context, x, y int) error
	TypeText(ctx context.Context, text string) error
	Scroll(ctx context.Context, direction domain.Direction) error
	Swipe(ctx context.Context, direction domain.Direction) error
	Keyevent(ctx context.Context, keycode string) error
	Wake(ctx context.Context) error
	Back(ctx context.Context) error
	Home(ctx context.Context) error
	CloseAll(ctx context.Context) error
	ScreenSize(ctx context.Context) (int, int, error)
	CurrentApp(ctx context.Context) (string, error)
	Screenshot(ctx context.Context, dest string) error
}

// AppCatalog resolves human app names to package identifiers.
type AppCatalog interface {
	Resolve(ctx context.Context, name string) (pkg string, label string, err error)
	Candidates(ctx context.Context, name string, limit int) ([]AppCandidate, error)
	Reindex(ctx context.Context) (int, error)
}

// AppCandidate is one ranked app match.
type AppCandidate struct {
	Package string
	Label   string
	Score   int
}

// Perception locates and describes on-screen UI elements. droidai ships a
// uiautomator-backed implementation; OCR or vision-model backends can
// replace it behind this interface.
type Perception interface {
	// FindElement returns the tap point of the element best matching query.
	// position selects the N-th match (1-based, -1 for last, 0 for best).
	FindElement(ctx context.Context, query string, position int) (x, y int, found bool, err error)
	DescribeScreen(ctx context.Context) (string, error)
}

// ShortcutStore persists user-taught app-name shortcuts. This is a sibling
// learning store, distinct from the intent LearningStore: it maps names to
// packages, not phrases to actions.
type ShortcutStore interface {
	Teach(shortcut, pkg, label string) error
	Forget(shortcut string) bool
	Resolve(shortcut string) (pkg string, ok bool)
	Mappings() map[string]string
	AliasesFor(pkg string) []string
}

// HistoryRepository persists resolution records.
type HistoryRepository interface {
	Save(record domain.HistoryRecord) error
	Records(limit int, search string) ([]domain.HistoryRecord, error)
	Clear() error
}

// ContextCollector snapshots device state (foreground app, screen size)
// used as resolution hints. Absence of a device yields an empty snapshot.
type ContextCollector interface {
	Collect(ctx context.Context) domain.ContextSnapshot
}

// Logger provides structured logging abstraction for the application layer.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, err error, fields map[string]interface{})
}
