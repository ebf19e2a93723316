package intent

import (
	"regexp"
	"strings"

	"github.com/doeshing/droidai/internal/domain"
)

// Tier-0 fast paths: a short ordered list of unambiguous, high-precision
// patterns checked before the statistical matcher. TF-IDF mis-ranks these
// because their token overlap with the knowledge base is sparse ("tap on
// 4th mail" shares almost nothing with any example). First match wins and
// short-circuits straight to the extractor's result.
var (
	// "search for X on the screen and tap it" / "find X and click": screen
	// interaction, not an app search.
	screenSearchPattern = regexp.MustCompile(
		`(?:search\s+for|find|look\s+for)\s+(?:the\s+)?(.+?)(?:\s+on\s+(?:the\s+)?screen|\s+and\s+(?:tap|click|press|select)\b)`)

	// Action verb + ordinal + item type: "tap on 4th mail", "select first video".
	ordinalActionPattern = regexp.MustCompile(
		`^(?:tap|click|select|open|press|hit|choose)\s+` +
			`(?:on\s+)?(?:the\s+)?` +
			`(?:first|second|third|fourth|fifth|last|\d+(?:st|nd|rd|th))\s+` +
			`(.+)`)

	ordinalVerbPrefix = regexp.MustCompile(
		`^(?:tap|click|select|open|press|hit|choose)\s+(?:on\s+)?(?:the\s+)?`)

	// Bare ordinals: "4th mail", "first video".
	bareOrdinalPattern = regexp.MustCompile(
		`^(?:the\s+)?` +
			`(first|second|third|fourth|fifth|last|\d+(?:st|nd|rd|th))\s+` +
			`(\S.*)`)

	trailingButton = regexp.MustCompile(`\s+button\s*$`)
	trailingIcon   = regexp.MustCompile(`\s+icon\s*$`)
)

// matchFastPath checks the tier-0 patterns against the lowercased
// utterance. ok is false when no pattern applies.
func matchFastPath(lower string) (domain.Command, bool) {
	if m := screenSearchPattern.FindStringSubmatch(lower); m != nil {
		target := strings.TrimSpace(m[1])
		target = strings.TrimSpace(trailingButton.ReplaceAllString(target, ""))
		target = strings.TrimSpace(trailingIcon.ReplaceAllString(target, ""))
		cmd := domain.NewCommand(domain.ActionVisionQuery)
		cmd.Query = target
		return cmd, true
	}

	if ordinalActionPattern.MatchString(lower) {
		target := strings.TrimSpace(ordinalVerbPrefix.ReplaceAllString(lower, ""))
		cmd := domain.NewCommand(domain.ActionVisionQuery)
		cmd.Query = target
		return cmd, true
	}

	if m := bareOrdinalPattern.FindStringSubmatch(lower); m != nil {
		cmd := domain.NewCommand(domain.ActionVisionQuery)
		cmd.Query = m[1] + " " + m[2]
		return cmd, true
	}

	return domain.Command{}, false
}
