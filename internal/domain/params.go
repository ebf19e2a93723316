package domain

// Slots is the generic slot map shape used at the LLM-response boundary and
// in persisted cache entries. Everything downstream of that boundary works
// with the typed per-family views below so the extractor can switch
// exhaustively instead of probing keys.
type Slots struct {
	App     string `json:"app,omitempty"`
	Contact string `json:"contact,omitempty"`
	Message string `json:"message,omitempty"`
	Query   string `json:"query,omitempty"`
	Amount  int    `json:"amount,omitempty"`
}

// IsZero reports whether no slot carries a value.
func (s Slots) IsZero() bool {
	return s == Slots{}
}

// VolumeHints carries an explicit step count for volume actions.
type VolumeHints struct {
	Steps int
}

// AppHints carries a target application name.
type AppHints struct {
	Target string
}

// MessageHints carries messaging slots.
type MessageHints struct {
	Contact string
	Message string
	App     string
}

// SearchHints carries search slots.
type SearchHints struct {
	Query string
	App   string
}

// Volume returns the volume-family view. ok is false when no amount was
// provided.
func (s Slots) Volume() (VolumeHints, bool) {
	if s.Amount <= 0 {
		return VolumeHints{}, false
	}
	return VolumeHints{Steps: s.Amount}, true
}

// TargetApp returns the app-target view. ok is false when no app was named.
func (s Slots) TargetApp() (AppHints, bool) {
	if s.App == "" {
		return AppHints{}, false
	}
	return AppHints{Target: s.App}, true
}

// MessageSlots returns the messaging view. ok is false when no contact was
// named; a message without a recipient is not actionable.
func (s Slots) MessageSlots() (MessageHints, bool) {
	if s.Contact == "" {
		return MessageHints{}, false
	}
	return MessageHints{Contact: s.Contact, Message: s.Message, App: s.App}, true
}

// SearchSlots returns the search view. ok is false when no query was given.
func (s Slots) SearchSlots() (SearchHints, bool) {
	if s.Query == "" {
		return SearchHints{}, false
	}
	return SearchHints{Query: s.Query, App: s.App}, true
}
