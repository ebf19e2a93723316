package domain

import "strings"

// MultiStepSeparator joins sub-utterances in a MULTI_STEP command's Query.
const MultiStepSeparator = "|"

// Command is the engine's output contract: one structured, executable
// device operation. It is constructed once per resolved utterance and
// handed straight to the execution layer.
//
// Every non-zero field must be meaningful for its Action; the parameter
// extractor guarantees this per action and never emits contradictory
// fields (e.g. coordinates without action TAP).
type Command struct {
	Action    Action    `json:"action"`
	Query     string    `json:"query,omitempty"`
	Package   string    `json:"package,omitempty"`
	Direction Direction `json:"direction,omitempty"`
	Amount    int       `json:"amount"`
	Text      string    `json:"text,omitempty"`
	X         int       `json:"x,omitempty"`
	Y         int       `json:"y,omitempty"`
}

// NewCommand builds a Command with the default amount of 1.
func NewCommand(action Action) Command {
	return Command{Action: action, Amount: 1}
}

// Steps splits a MULTI_STEP command's query back into its ordered
// sub-utterances. Returns nil for any other action.
func (c Command) Steps() []string {
	if c.Action != ActionMultiStep || c.Query == "" {
		return nil
	}
	parts := strings.Split(c.Query, MultiStepSeparator)
	steps := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			steps = append(steps, p)
		}
	}
	return steps
}

// HasPoint reports whether the command carries explicit tap coordinates.
func (c Command) HasPoint() bool {
	return c.Action == ActionTap && (c.X != 0 || c.Y != 0)
}
