// Package intent implements the tiered natural-language resolution cascade:
// learned-phrase cache, regex fast paths, TF-IDF similarity matching, and an
// optional local language model, in that order of cost.
package intent

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/doeshing/droidai/internal/domain"
	"github.com/doeshing/droidai/internal/infrastructure/match"
	"github.com/doeshing/droidai/internal/ports"
)

// Engine resolves utterances to structured Commands. All dependencies are
// injected; the engine holds no global state and is safe for concurrent use.
type Engine struct {
	store      ports.LearningStore
	classifier ports.Classifier
	logger     ports.Logger
	extractor  Extractor

	confident float64
	uncertain float64
	floor     float64
	topK      int

	mu    sync.RWMutex // guards index
	index *match.Index

	statsMu sync.Mutex
	stats   domain.IntentStats
}

// NewEngine builds an Engine and its initial TF-IDF index from the built-in
// knowledge base plus every phrase already in the learning store.
func NewEngine(cfg domain.IntentConfig, defaultMessagingApp string, store ports.LearningStore, classifier ports.Classifier, logger ports.Logger) *Engine {
	e := &Engine{
		store:      store,
		classifier: classifier,
		logger:     logger,
		extractor:  NewExtractor(defaultMessagingApp),
		confident:  cfg.ConfidentThreshold,
		uncertain:  cfg.UncertainThreshold,
		floor:      cfg.FloorThreshold,
		topK:       cfg.TopK,
	}
	if e.confident <= 0 {
		e.confident = domain.DefaultConfidentThreshold
	}
	if e.uncertain <= 0 {
		e.uncertain = domain.DefaultUncertainThreshold
	}
	if e.floor <= 0 {
		e.floor = domain.DefaultFloorThreshold
	}
	if e.topK <= 0 {
		e.topK = domain.DefaultMatchTopK
	}
	e.rebuildIndex()
	return e
}

// rebuildIndex rebuilds the whole index from scratch and swaps it in. The
// corpus is small enough that wholesale rebuilds beat incremental updates
// in both simplicity and IDF correctness.
func (e *Engine) rebuildIndex() {
	docs := match.KnowledgeDocuments()
	for _, pair := range e.store.IndexPairs() {
		docs = append(docs, match.Document{Label: pair.Label, Phrase: pair.Phrase})
	}
	ix := match.BuildIndex(docs)

	e.mu.Lock()
	e.index = ix
	e.mu.Unlock()
}

func (e *Engine) currentIndex() *match.Index {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.index
}

// Understand resolves one utterance. It returns nil when nothing in any
// tier could make sense of the input; callers treat nil as "ask the user to
// rephrase", never as an error.
func (e *Engine) Understand(ctx context.Context, utterance string) *domain.Resolution {
	raw := strings.TrimSpace(utterance)
	if raw == "" {
		return nil
	}
	lower := strings.ToLower(raw)

	// Tier 3 first: an exact learned phrase outranks everything.
	if res := e.cacheHit(raw, lower); res != nil {
		e.count(func(s *domain.IntentStats) { s.CacheHits++ })
		return res
	}

	if res := e.resolveCompound(ctx, raw); res != nil {
		e.count(func(s *domain.IntentStats) { s.Tier1++ })
		return res
	}

	res := e.classifySingle(ctx, raw, lower)
	switch {
	case res == nil:
		e.count(func(s *domain.IntentStats) { s.Misses++ })
	case res.Tier == domain.TierCache:
		e.count(func(s *domain.IntentStats) { s.CacheHits++ })
	case res.Tier == domain.TierLLM:
		e.count(func(s *domain.IntentStats) { s.Tier2++ })
	default:
		e.count(func(s *domain.IntentStats) { s.Tier1++ })
	}
	return res
}

// cacheHit resolves an exact learned phrase, or nil when none is stored.
func (e *Engine) cacheHit(raw, lower string) *domain.Resolution {
	entry, ok := e.store.Lookup(lower)
	if !ok {
		return nil
	}
	cmd := e.extractor.Extract(entry.Action, raw, &entry.Slots)
	e.logger.Debug("cache hit", map[string]interface{}{"phrase": lower, "action": string(entry.Action)})
	return &domain.Resolution{Command: cmd, Tier: domain.TierCache, Score: 1.0}
}

// resolveCompound detects multi-step utterances and fans each part out
// through the single-utterance cascade. At least two parts must resolve;
// otherwise the whole utterance is handed back to single classification,
// which usually does better with the full phrasing intact.
func (e *Engine) resolveCompound(ctx context.Context, raw string) *domain.Resolution {
	parts := SplitCompound(raw)
	if len(parts) < 2 {
		return nil
	}

	var resolved []string
	for _, part := range parts {
		sub := e.classifySingle(ctx, part, strings.ToLower(part))
		if sub != nil {
			resolved = append(resolved, part)
		}
	}
	if len(resolved) < 2 {
		e.logger.Warn("compound split abandoned", map[string]interface{}{
			"utterance": raw, "parts": len(parts), "resolved": len(resolved),
		})
		return nil
	}
	if len(resolved) < len(parts) {
		// Degraded: the unresolvable parts are silently dropped from the
		// plan, which can surprise the user. Surface it in the log at least.
		e.logger.Warn("compound step dropped", map[string]interface{}{
			"utterance": raw, "parts": len(parts), "resolved": len(resolved),
		})
	}

	cmd := domain.NewCommand(domain.ActionMultiStep)
	cmd.Query = strings.Join(resolved, domain.MultiStepSeparator)
	return &domain.Resolution{Command: cmd, Tier: domain.TierMatch, Score: 1.0}
}

// classifySingle runs the per-utterance cascade: exact cache, fast paths,
// TF-IDF, then the language model depending on the confidence band. The
// cache lookup repeats the one in Understand so compound sub-utterances
// consult learned phrases too.
func (e *Engine) classifySingle(ctx context.Context, raw, lower string) *domain.Resolution {
	if res := e.cacheHit(raw, lower); res != nil {
		return res
	}
	if cmd, ok := matchFastPath(lower); ok {
		return &domain.Resolution{Command: cmd, Tier: domain.TierFastPath, Score: 1.0}
	}

	matches := e.currentIndex().Query(lower, e.topK)
	var best match.Match
	if len(matches) > 0 {
		best = matches[0]
	}

	switch {
	case best.Score >= e.confident:
		return e.resolveMatch(best, raw)

	case best.Score >= e.uncertain:
		// Uncertain band: let the model break the tie, fall back to the
		// lexical match when it cannot.
		if res := e.consultModel(ctx, raw, lower); res != nil {
			return res
		}
		return e.resolveMatch(best, raw)

	default:
		if res := e.consultModel(ctx, raw, lower); res != nil {
			return res
		}
		if best.Score >= e.floor {
			res := e.resolveMatch(best, raw)
			if res != nil {
				res.Tier = domain.TierFallback
			}
			return res
		}
		return nil
	}
}

// resolveMatch turns an index match into a resolution, following the
// cache indirection for learned labels.
func (e *Engine) resolveMatch(m match.Match, raw string) *domain.Resolution {
	if phrase, cached := domain.CachedPhrase(m.Label); cached {
		entry, ok := e.store.Lookup(phrase)
		if !ok {
			// Stale index entry; the store lost the phrase since the last
			// rebuild. Treat as a miss rather than guessing.
			e.logger.Warn("stale cache label in index", map[string]interface{}{"phrase": phrase})
			return nil
		}
		cmd := e.extractor.Extract(entry.Action, raw, &entry.Slots)
		return &domain.Resolution{Command: cmd, Tier: domain.TierMatch, Score: m.Score}
	}

	cmd := e.extractor.Extract(domain.Action(m.Label), raw, nil)
	return &domain.Resolution{Command: cmd, Tier: domain.TierMatch, Score: m.Score}
}

// consultModel asks the tier-2 classifier and, on success, promotes the
// answer into the learning cache so the next occurrence resolves lexically.
func (e *Engine) consultModel(ctx context.Context, raw, lower string) *domain.Resolution {
	if e.classifier == nil || !e.classifier.Available() {
		return nil
	}

	cls, err := e.classifier.Classify(ctx, raw)
	if err != nil {
		e.logger.Warn("classifier error", map[string]interface{}{"error": err.Error()})
		return nil
	}
	if cls == nil {
		return nil
	}

	e.learn(domain.LearnedEntry{
		Phrase:    lower,
		Action:    cls.Action,
		Slots:     cls.Slots,
		Source:    domain.SourceLLM,
		Examples:  []string{raw},
		Timestamp: time.Now().UTC(),
	})

	cmd := e.extractor.Extract(cls.Action, raw, &cls.Slots)
	return &domain.Resolution{Command: cmd, Tier: domain.TierLLM, Score: 1.0}
}

func (e *Engine) learn(entry domain.LearnedEntry) {
	if err := e.store.Store(entry); err != nil {
		e.logger.Warn("learning store write failed", map[string]interface{}{"error": err.Error()})
		return
	}
	e.rebuildIndex()
	e.logger.Info("learned phrase", map[string]interface{}{
		"phrase": entry.Phrase, "action": string(entry.Action), "source": entry.Source,
	})
}

// TeachAction records an explicit user-taught phrase-to-action mapping.
// Teaching always overwrites: the user correcting the engine is the highest
// authority in the system.
func (e *Engine) TeachAction(phrase string, action domain.Action, slots domain.Slots) error {
	phrase = strings.ToLower(strings.TrimSpace(phrase))
	if phrase == "" {
		return fmt.Errorf("teach: empty phrase")
	}
	if !match.KnownLabel(action) {
		return fmt.Errorf("teach: unknown action %q", action)
	}
	source := domain.SourceUser
	if _, exists := e.store.Lookup(phrase); exists {
		source = domain.SourceCorrection
	}
	e.learn(domain.LearnedEntry{
		Phrase:    phrase,
		Action:    action,
		Slots:     slots,
		Source:    source,
		Timestamp: time.Now().UTC(),
	})
	return nil
}

// ForgetAction removes a learned phrase. It reports whether the phrase was
// present.
func (e *Engine) ForgetAction(phrase string) bool {
	phrase = strings.ToLower(strings.TrimSpace(phrase))
	if !e.store.Forget(phrase) {
		return false
	}
	e.rebuildIndex()
	e.logger.Info("forgot phrase", map[string]interface{}{"phrase": phrase})
	return true
}

// Learned returns every learned phrase entry, for display.
func (e *Engine) Learned() []domain.LearnedEntry {
	return e.store.Entries()
}

// IndexSize returns the number of documents currently indexed.
func (e *Engine) IndexSize() int {
	return e.currentIndex().Len()
}

// ClassifierAvailable reports whether the tier-2 model answered its probe.
func (e *Engine) ClassifierAvailable() bool {
	return e.classifier != nil && e.classifier.Available()
}

// Stats returns a copy of the lifetime tier counters.
func (e *Engine) Stats() domain.IntentStats {
	e.statsMu.Lock()
	defer e.statsMu.Unlock()
	return e.stats
}

func (e *Engine) count(f func(*domain.IntentStats)) {
	e.statsMu.Lock()
	f(&e.stats)
	e.statsMu.Unlock()
}
