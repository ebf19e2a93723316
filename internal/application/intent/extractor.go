package intent

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/doeshing/droidai/internal/domain"
)

// Extractor turns a resolved action label plus the raw utterance (and
// optional classifier slot hints) into the final structured Command.
//
// Extraction is a pure function keyed on the action label. Each action
// family has a fixed, ordered rule list: first match wins, ordered by
// specificity. Extraction never fails for a recognized label; at worst the
// whole utterance becomes the query or text, since a vague target beats a
// crash.
type Extractor struct {
	// DefaultMessagingApp fills the app slot when a messaging utterance
	// does not name one.
	DefaultMessagingApp string
}

// NewExtractor builds an Extractor with the given messaging default
// (falls back to "whatsapp").
func NewExtractor(defaultMessagingApp string) Extractor {
	if defaultMessagingApp == "" {
		defaultMessagingApp = "whatsapp"
	}
	return Extractor{DefaultMessagingApp: defaultMessagingApp}
}

// noParamActions resolve to a bare Command carrying only the action.
var noParamActions = map[domain.Action]struct{}{
	domain.ActionExit: {}, domain.ActionWake: {}, domain.ActionBack: {},
	domain.ActionHome: {}, domain.ActionCloseAll: {}, domain.ActionCloseApp: {},
	domain.ActionReindexApps: {},
	domain.ActionListMappings: {}, domain.ActionMediaPlay: {},
	domain.ActionMediaPause: {}, domain.ActionMediaPlayPause: {},
	domain.ActionMediaNext: {}, domain.ActionMediaPrevious: {},
	domain.ActionTapSend: {}, domain.ActionScreenshot: {},
}

var keyeventNames = []struct {
	name string
	code string
}{
	{"enter", "KEYCODE_ENTER"},
	{"tab", "KEYCODE_TAB"},
	{"escape", "KEYCODE_ESCAPE"},
	{"delete", "KEYCODE_DEL"},
	{"backspace", "KEYCODE_DEL"},
	{"space", "KEYCODE_SPACE"},
}

var (
	digitPattern    = regexp.MustCompile(`(\d+)`)
	tapCoordPattern = regexp.MustCompile(`(\d{2,4})\s+(\d{2,4})`)
	appFillerWords  = regexp.MustCompile(`\b(the|app|application|up|my)\b`)

	typeSendTail  = regexp.MustCompile(`(?i)\s+(?:and|then)\s+(?:hit\s+send|send(?:\s+it)?)\s*$`)
	typeEnterTail = regexp.MustCompile(`(?i)\s+and\s+(?:press\s+enter|enter|search|submit)\s*$`)

	// Messaging templates, first match wins, ordered by specificity.
	sendToPattern   = regexp.MustCompile(`(?:send|tell)\s+(.+?)\s+to\s+(.+?)(?:\s+(?:on|in)\s+(.+))?$`)
	textContactMsg  = regexp.MustCompile(`(?:text|message)\s+(\S+)\s+(.+?)(?:\s+(?:on|in)\s+(\S+))?\s*$`)
	sayingPattern   = regexp.MustCompile(`(?:message|text|dm)\s+(\S+)\s+(?:saying|that)\s+(.+)$`)
	chatWithPattern = regexp.MustCompile(`(?:chat\s+with|chat|message|text|dm)\s+(.+?)(?:\s+(?:on|in)\s+(\S+))?\s*$`)
	whatsappDirect  = regexp.MustCompile(`(?:whatsapp|wa)\s+(\S+)\s*(.*)`)

	// Search templates.
	searchInPattern   = regexp.MustCompile(`(?:search|look up|find)\s+(.+?)\s+(?:on|in)\s+(.+)$`)
	engineQueryStyle  = regexp.MustCompile(`(youtube|google)\s+(?:search\s+)?(.+)$`)
	plainSearchSuffix = regexp.MustCompile(`(?:search|look up)\s+(?:for\s+)?(.+)$`)

	// Content position templates.
	contentInPattern = regexp.MustCompile(`(?:play|open|watch)\s+(.+?)\s+(?:on|in)\s+(.+)$`)

	// Vision target: "search for X on the screen"/"find X and tap it", with
	// the open-ended tail allowed when the verb alone signals a screen find.
	visionSearchPattern = regexp.MustCompile(
		`(?:search\s+for|find|look\s+for)\s+(?:the\s+)?(.+?)(?:\s+on\s+(?:the\s+)?screen|\s+and\s+(?:tap|click|press|select)\b|\s*$)`)
	visionVerbPrefix = regexp.MustCompile(`^(?:on\s+)?(?:the\s+)?`)

	uiVerbPrefix = regexp.MustCompile(`^(?:click|tap|press|select|choose|hit|open)\s+(?:on\s+)?(?:the\s+)?`)

	// Trailing context phrases removed from UI targets, in order.
	uiFillerPatterns = []*regexp.Regexp{
		regexp.MustCompile(`\s+the\s+youtube\s+channel.*$`),
		regexp.MustCompile(`\s+the\s+channel.*$`),
		regexp.MustCompile(`\s+this\s+youtube\s+channel.*$`),
		regexp.MustCompile(`\s+this\s+channel.*$`),
		regexp.MustCompile(`\s+to\s+(?:this|the)\s+(?:channel|video|page|post|account).*$`),
		regexp.MustCompile(`\s+to\s+this\s*$`),
		regexp.MustCompile(`\s+to\s+the\s*$`),
		regexp.MustCompile(`\s+to\s+it\s*$`),
		regexp.MustCompile(`\s+(?:this|the)\s+(?:video|post|page|image|photo|story|reel|comment|account).*$`),
		regexp.MustCompile(`\s+this\s*$`),
		regexp.MustCompile(`\s+it\s*$`),
		regexp.MustCompile(`\s+them\s*$`),
		regexp.MustCompile(`\s+button\s*$`),
		regexp.MustCompile(`\s+icon\s*$`),
		regexp.MustCompile(`\s+on\s+(?:this|the)\s+.*$`),
	}

	trailingPreps = []*regexp.Regexp{
		regexp.MustCompile(`\s+to\s*$`),
		regexp.MustCompile(`\s+on\s*$`),
		regexp.MustCompile(`\s+in\s*$`),
	}
)

var ordinalWords = []struct {
	word string
	pos  int
}{
	{"first", 1}, {"second", 2}, {"third", 3}, {"fourth", 4}, {"fifth", 5},
}

// Extract builds the Command for a classified action. hints, when present,
// are classifier-extracted slots used in preference to re-parsing the text.
func (e Extractor) Extract(action domain.Action, utterance string, hints *domain.Slots) domain.Command {
	raw := strings.TrimSpace(utterance)
	lower := strings.ToLower(raw)

	if _, bare := noParamActions[action]; bare {
		return domain.NewCommand(action)
	}

	switch action {
	case domain.LabelVolumeMax:
		// The device volume primitive is relative; "max" is approximated
		// with a large fixed step count.
		cmd := domain.NewCommand(domain.ActionVolumeUp)
		cmd.Amount = domain.MaxVolumeSteps
		return cmd

	case domain.LabelVolumeMin:
		cmd := domain.NewCommand(domain.ActionVolumeDown)
		cmd.Amount = domain.MaxVolumeSteps
		return cmd

	case domain.LabelVolumeMute, domain.LabelVolumeUnmute:
		// Android exposes mute as a toggle keycode.
		cmd := domain.NewCommand(domain.ActionKeyevent)
		cmd.Query = "KEYCODE_VOLUME_MUTE"
		return cmd

	case domain.ActionVolumeUp, domain.ActionVolumeDown:
		return e.extractVolume(action, lower, hints)

	case domain.ActionBrightnessUp, domain.ActionBrightnessDown:
		return domain.NewCommand(action)

	case domain.LabelScrollDown, domain.LabelScrollUp, domain.LabelScrollLeft, domain.LabelScrollRight:
		return extractScroll(action, lower)

	case domain.LabelSwipeLeft, domain.LabelSwipeRight:
		cmd := domain.NewCommand(domain.ActionSwipe)
		cmd.Direction = directionOf(action)
		return cmd

	case domain.ActionTeachLast:
		// "call that browser time" names the phrase; a bare "remember this"
		// leaves Query empty and the executor reports what to say instead.
		cmd := domain.NewCommand(domain.ActionTeachLast)
		cmd.Query = afterVerb(lower, []string{
			"call that", "call this", "save that as", "save this as",
			"remember that as", "remember this as",
		})
		return cmd

	case domain.ActionOpenApp:
		return e.extractOpenApp(raw, lower, hints)

	case domain.ActionFindApp:
		cmd := domain.NewCommand(domain.ActionFindApp)
		cmd.Query = fallback(afterVerb(lower, []string{"find", "search for app", "look for", "where is"}), raw)
		return cmd

	case domain.ActionTypeText:
		cmd := domain.NewCommand(domain.ActionTypeText)
		cmd.Text = fallback(afterVerb(lower, []string{"type", "write", "enter", "input", "put"}), raw)
		return cmd

	case domain.ActionTypeAndSend:
		text := afterVerb(lower, []string{"write", "type", "send"})
		if text != "" {
			text = strings.TrimSpace(typeSendTail.ReplaceAllString(text, ""))
		}
		cmd := domain.NewCommand(domain.ActionTypeAndSend)
		cmd.Text = fallback(text, raw)
		return cmd

	case domain.ActionTypeAndEnter:
		text := afterVerb(lower, []string{"type", "enter"})
		if text != "" {
			text = strings.TrimSpace(typeEnterTail.ReplaceAllString(text, ""))
		}
		cmd := domain.NewCommand(domain.ActionTypeAndEnter)
		cmd.Text = fallback(text, raw)
		return cmd

	case domain.ActionSendMessage:
		if hints != nil {
			if msg, ok := hints.MessageSlots(); ok {
				cmd := domain.NewCommand(domain.ActionSendMessage)
				cmd.Query = msg.Contact
				cmd.Text = msg.Message
				cmd.Package = fallback(msg.App, e.DefaultMessagingApp)
				return cmd
			}
		}
		return e.extractSendMessage(raw, lower)

	case domain.ActionSearchInApp:
		if hints != nil {
			if s, ok := hints.SearchSlots(); ok {
				cmd := domain.NewCommand(domain.ActionSearchInApp)
				cmd.Query = s.Query
				cmd.Text = s.App
				return cmd
			}
		}
		return extractSearch(raw, lower)

	case domain.ActionOpenContentInApp:
		return extractContent(raw, lower)

	case domain.ActionTap:
		cmd := domain.NewCommand(domain.ActionTap)
		if m := tapCoordPattern.FindStringSubmatch(lower); m != nil {
			cmd.X = atoi(m[1])
			cmd.Y = atoi(m[2])
		}
		return cmd

	case domain.ActionVisionQuery:
		return extractVisionQuery(raw, lower)

	case domain.ActionScreenInfo:
		cmd := domain.NewCommand(domain.ActionScreenInfo)
		cmd.Query = raw
		return cmd

	case domain.ActionFindVisual:
		cmd := domain.NewCommand(domain.ActionFindVisual)
		cmd.Query = fallback(afterVerb(lower, []string{"find", "locate", "look for", "where is"}), raw)
		return cmd

	case domain.ActionTeachCustom:
		return extractTeach(lower)

	case domain.ActionForgetMapping:
		cmd := domain.NewCommand(domain.ActionForgetMapping)
		cmd.Query = fallback(afterVerb(lower, []string{"forget", "unlearn", "remove mapping", "delete"}), raw)
		return cmd

	case domain.ActionKeyevent:
		cmd := domain.NewCommand(domain.ActionKeyevent)
		cmd.Query = "KEYCODE_ENTER"
		for _, kv := range keyeventNames {
			if strings.Contains(lower, kv.name) {
				cmd.Query = kv.code
				break
			}
		}
		return cmd
	}

	// Unknown-but-accepted label: carry the whole utterance as the query.
	cmd := domain.NewCommand(action)
	cmd.Query = raw
	return cmd
}

func (e Extractor) extractVolume(action domain.Action, lower string, hints *domain.Slots) domain.Command {
	cmd := domain.NewCommand(action)
	cmd.Amount = domain.DefaultVolumeSteps
	if hints != nil {
		if v, ok := hints.Volume(); ok {
			cmd.Amount = v.Steps
			return cmd
		}
	}
	if m := digitPattern.FindStringSubmatch(lower); m != nil {
		cmd.Amount = atoi(m[1])
		return cmd
	}
	for _, w := range []string{"more", "lot", "much"} {
		if strings.Contains(lower, w) {
			cmd.Amount = domain.EmphasisVolumeSteps
			return cmd
		}
	}
	return cmd
}

func extractScroll(action domain.Action, lower string) domain.Command {
	cmd := domain.NewCommand(domain.ActionScroll)
	cmd.Direction = directionOf(action)
	switch {
	case strings.Contains(lower, "twice"), strings.Contains(lower, "two"):
		cmd.Amount = 2
	case strings.Contains(lower, "more"), strings.Contains(lower, "lot"):
		cmd.Amount = 3
	}
	if m := digitPattern.FindStringSubmatch(lower); m != nil {
		cmd.Amount = atoi(m[1])
	}
	return cmd
}

func (e Extractor) extractOpenApp(raw, lower string, hints *domain.Slots) domain.Command {
	cmd := domain.NewCommand(domain.ActionOpenApp)
	if hints != nil {
		if app, ok := hints.TargetApp(); ok {
			cmd.Query = app.Target
			return cmd
		}
	}
	app := afterVerb(lower, []string{"open", "launch", "start", "go to", "switch to", "run", "take me to"})
	if app != "" {
		app = strings.TrimSpace(appFillerWords.ReplaceAllString(app, ""))
		app = strings.Join(strings.Fields(app), " ")
	}
	cmd.Query = fallback(app, raw)
	return cmd
}

func (e Extractor) extractSendMessage(raw, lower string) domain.Command {
	cmd := domain.NewCommand(domain.ActionSendMessage)
	cmd.Package = e.DefaultMessagingApp

	// "send hello to anna on whatsapp"
	if m := sendToPattern.FindStringSubmatch(lower); m != nil {
		cmd.Query = strings.TrimSpace(m[2])
		cmd.Text = strings.TrimSpace(m[1])
		if m[3] != "" {
			cmd.Package = strings.TrimSpace(m[3])
		}
		return cmd
	}
	// "text anna hello on whatsapp" / "text anna hello"
	if m := textContactMsg.FindStringSubmatch(lower); m != nil {
		cmd.Query = strings.TrimSpace(m[1])
		cmd.Text = strings.TrimSpace(m[2])
		if m[3] != "" {
			cmd.Package = strings.TrimSpace(m[3])
		}
		return cmd
	}
	// "message mom saying hello"
	if m := sayingPattern.FindStringSubmatch(lower); m != nil {
		cmd.Query = strings.TrimSpace(m[1])
		cmd.Text = strings.TrimSpace(m[2])
		return cmd
	}
	// "chat with mom" / "chat mom" / "dm john"
	if m := chatWithPattern.FindStringSubmatch(lower); m != nil {
		cmd.Query = strings.TrimSpace(m[1])
		if m[2] != "" {
			cmd.Package = strings.TrimSpace(m[2])
		}
		return cmd
	}
	// "whatsapp anna good morning"
	if m := whatsappDirect.FindStringSubmatch(lower); m != nil {
		cmd.Query = strings.TrimSpace(m[1])
		cmd.Text = strings.TrimSpace(m[2])
		cmd.Package = "whatsapp"
		return cmd
	}

	cmd.Query = raw
	return cmd
}

func extractSearch(raw, lower string) domain.Command {
	cmd := domain.NewCommand(domain.ActionSearchInApp)
	if m := searchInPattern.FindStringSubmatch(lower); m != nil {
		cmd.Query = strings.TrimSpace(m[1])
		cmd.Text = strings.TrimSpace(m[2])
		return cmd
	}
	if m := engineQueryStyle.FindStringSubmatch(lower); m != nil {
		cmd.Query = strings.TrimSpace(m[2])
		cmd.Text = strings.TrimSpace(m[1])
		return cmd
	}
	if m := plainSearchSuffix.FindStringSubmatch(lower); m != nil {
		cmd.Query = strings.TrimSpace(m[1])
		return cmd
	}
	cmd.Query = raw
	return cmd
}

func extractContent(raw, lower string) domain.Command {
	cmd := domain.NewCommand(domain.ActionOpenContentInApp)
	for _, o := range ordinalWords {
		if strings.Contains(lower, o.word) {
			cmd.Amount = o.pos
			break
		}
	}
	if strings.Contains(lower, "last") {
		cmd.Amount = -1
	}
	if m := contentInPattern.FindStringSubmatch(lower); m != nil {
		cmd.Query = strings.TrimSpace(m[1])
		cmd.Text = strings.TrimSpace(m[2])
		return cmd
	}
	cmd.Query = raw
	return cmd
}

func extractVisionQuery(raw, lower string) domain.Command {
	cmd := domain.NewCommand(domain.ActionVisionQuery)

	// "search for like on the screen and tap it" -> "like"
	if m := visionSearchPattern.FindStringSubmatch(lower); m != nil {
		target := strings.TrimSpace(m[1])
		target = strings.TrimSpace(trailingButton.ReplaceAllString(target, ""))
		target = strings.TrimSpace(trailingIcon.ReplaceAllString(target, ""))
		cmd.Query = fallback(target, raw)
		return cmd
	}

	// "click subscribe" / "tap on the menu"
	if target := afterVerb(lower, []string{"click", "tap", "press", "select", "choose", "hit"}); target != "" {
		cmd.Query = strings.TrimSpace(visionVerbPrefix.ReplaceAllString(target, ""))
		return cmd
	}

	// No action verb: natural speech like "subscribe to this channel".
	cmd.Query = fallback(extractUITarget(lower), raw)
	return cmd
}

// extractUITarget pulls the clickable element name out of natural speech:
//
//	"subscribe the youtube channel" -> "subscribe"
//	"like this video"               -> "like"
//	"hit the like button"           -> "like"
//
// Strategy: strip leading verbs and trailing context phrases, then cap to
// at most two words; UI element names are short.
func extractUITarget(lower string) string {
	t := strings.TrimSpace(uiVerbPrefix.ReplaceAllString(lower, ""))
	for _, p := range uiFillerPatterns {
		t = strings.TrimSpace(p.ReplaceAllString(t, ""))
	}
	for _, p := range trailingPreps {
		t = strings.TrimSpace(p.ReplaceAllString(t, ""))
	}
	words := strings.Fields(t)
	if len(words) > 2 {
		t = strings.Join(words[:2], " ")
	}
	if t == "" {
		return lower
	}
	return t
}

func extractTeach(lower string) domain.Command {
	rest := afterVerb(lower, []string{"teach", "remember", "when i say"})
	if rest == "" {
		return domain.NewCommand(domain.ActionTeachLast)
	}
	parts := strings.Fields(rest)
	if len(parts) >= 2 {
		cmd := domain.NewCommand(domain.ActionTeachCustom)
		cmd.Query = parts[0]
		cmd.Text = strings.Join(parts[1:], " ")
		return cmd
	}
	cmd := domain.NewCommand(domain.ActionTeachShortcut)
	cmd.Query = parts[0]
	return cmd
}

// afterVerb returns the text following the first matching trigger verb.
// Verbs are tried longest first so "search for app" wins over "search".
func afterVerb(text string, verbs []string) string {
	ordered := make([]string, len(verbs))
	copy(ordered, verbs)
	sort.SliceStable(ordered, func(i, j int) bool { return len(ordered[i]) > len(ordered[j]) })
	for _, verb := range ordered {
		re := verbPattern(verb)
		if m := re.FindStringSubmatch(text); m != nil {
			return strings.TrimSpace(m[1])
		}
	}
	return ""
}

var verbPatternCache sync.Map // verb -> *regexp.Regexp

func verbPattern(verb string) *regexp.Regexp {
	if cached, ok := verbPatternCache.Load(verb); ok {
		return cached.(*regexp.Regexp)
	}
	re := regexp.MustCompile(`\b` + regexp.QuoteMeta(verb) + `\s+(.+)`)
	verbPatternCache.Store(verb, re)
	return re
}

func directionOf(label domain.Action) domain.Direction {
	parts := strings.SplitN(string(label), "_", 2)
	if len(parts) != 2 {
		return domain.DirectionDown
	}
	return domain.Direction(parts[1])
}

func fallback(value, def string) string {
	if value == "" {
		return def
	}
	return value
}

func atoi(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}
