package domain

// Tier identifies which layer of the cascade produced a resolution.
type Tier string

const (
	TierCache    Tier = "cache"
	TierFastPath Tier = "fastpath"
	TierMatch    Tier = "tfidf"
	TierLLM      Tier = "llm"
	TierFallback Tier = "fallback"
)

// Resolution is the result of understanding one utterance.
type Resolution struct {
	Command Command
	Tier    Tier
	Score   float64
}

// IntentStats tracks process-lifetime tier usage. Incremented exactly once
// per top-level understand call; reset only by process restart.
type IntentStats struct {
	Tier1     int
	Tier2     int
	CacheHits int
	Misses    int
}

// Total returns the number of counted understand calls.
func (s IntentStats) Total() int {
	return s.Tier1 + s.Tier2 + s.CacheHits + s.Misses
}
