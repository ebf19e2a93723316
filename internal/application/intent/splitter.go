package intent

import "strings"

// separators are tried in priority order; only the first one that yields a
// valid split is used.
var separators = []string{" and then ", " then ", " and ", " after that "}

// modifierWords as a lone right half modify the left action instead of
// starting a new one ("write hi and send" stays one command).
var modifierWords = map[string]struct{}{
	"send": {}, "enter": {}, "submit": {}, "search": {},
}

// backRefVerbs combined with a trailing pronoun refer back to the left
// half's target ("find like on screen and tap it" is one action).
var backRefVerbs = map[string]struct{}{
	"tap": {}, "click": {}, "select": {}, "press": {}, "hit": {}, "open": {},
}

var pronouns = map[string]struct{}{
	"it": {}, "that": {}, "this": {},
}

// commandVerbs: a right half only counts as a new command when it starts
// with one of these. Guards against splitting on incidental "and" inside a
// single instruction.
var commandVerbs = map[string]struct{}{
	// app control
	"open": {}, "launch": {}, "start": {}, "go": {}, "switch": {}, "close": {}, "kill": {}, "exit": {},
	// typing
	"type": {}, "write": {}, "enter": {}, "input": {},
	// messaging
	"send": {}, "message": {}, "text": {}, "tell": {}, "chat": {},
	// search
	"search": {}, "look": {}, "find": {}, "google": {}, "youtube": {},
	// screen interaction
	"click": {}, "tap": {}, "press": {}, "select": {}, "hit": {},
	// scrolling
	"scroll": {}, "swipe": {},
	// media
	"play": {}, "pause": {}, "stop": {}, "skip": {}, "next": {}, "previous": {}, "resume": {},
	// navigation
	"back": {}, "home": {},
	// volume and system
	"mute": {}, "unmute": {}, "volume": {},
	"increase": {}, "decrease": {}, "raise": {}, "lower": {}, "reduce": {},
	"turn": {}, "set": {}, "max": {}, "crank": {}, "boost": {}, "pump": {},
	// learning
	"teach": {}, "forget": {},
	// brightness
	"dim": {}, "brighten": {},
	// screenshot
	"screenshot": {}, "capture": {},
}

// SplitCompound detects multi-action utterances and splits them into
// ordered sub-utterances:
//
//	"open chrome and search cats" -> ["open chrome", "search cats"]
//	"write hello and send"        -> nil (send modifies the left action)
//	"find like on screen and tap it" -> nil (refers to the same target)
//
// Returns nil when no valid split is found.
func SplitCompound(utterance string) []string {
	trimmed := strings.TrimSpace(utterance)
	lower := strings.ToLower(trimmed)

	for _, sep := range separators {
		idx := strings.Index(lower, sep)
		if idx < 0 {
			continue
		}
		left := strings.TrimSpace(trimmed[:idx])
		right := strings.TrimSpace(trimmed[idx+len(sep):])
		if left == "" || right == "" {
			continue
		}

		rightWords := strings.Fields(strings.ToLower(right))
		first := rightWords[0]

		// Lone modifier word: "send"/"enter"/"submit"/"search" finish the
		// left command rather than starting a new one.
		if len(rightWords) == 1 {
			if _, mod := modifierWords[first]; mod {
				continue
			}
		}

		// "tap it" / "click that": back-reference to the same target.
		if len(rightWords) == 2 {
			if _, pron := pronouns[rightWords[1]]; pron {
				if _, verb := backRefVerbs[first]; verb {
					continue
				}
			}
		}

		if _, verb := commandVerbs[first]; verb {
			return []string{left, right}
		}
	}
	return nil
}
