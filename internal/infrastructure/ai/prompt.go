package ai

import (
	"strings"
	"sync"

	"github.com/doeshing/droidai/internal/domain"
)

// actionDescriptions gives the model one line per label. Kept in sync with
// the matcher's knowledge base; the classifier rejects any label missing
// from it anyway.
var actionDescriptions = []struct {
	action domain.Action
	desc   string
}{
	{domain.ActionOpenApp, "open or launch an application"},
	{domain.ActionFindApp, "search the installed app list"},
	{domain.ActionCloseApp, "close the current application"},
	{domain.ActionCloseAll, "close all recent applications"},
	{domain.ActionReindexApps, "refresh the installed app index"},
	{domain.ActionSendMessage, "send a chat message to a contact"},
	{domain.ActionSearchInApp, "search for something inside an app"},
	{domain.ActionOpenContentInApp, "open or play specific content in an app"},
	{domain.ActionTypeText, "type text into the focused field"},
	{domain.ActionTypeAndSend, "type text then press the send button"},
	{domain.ActionTypeAndEnter, "type text then press enter"},
	{domain.ActionTapSend, "press the send button"},
	{domain.ActionTap, "tap at screen coordinates"},
	{domain.ActionVisionQuery, "find and tap a named element on screen"},
	{domain.ActionFindVisual, "locate an element on screen without tapping"},
	{domain.ActionScreenInfo, "describe what is on the screen"},
	{domain.LabelScrollDown, "scroll the screen down"},
	{domain.LabelScrollUp, "scroll the screen up"},
	{domain.LabelScrollLeft, "scroll the screen left"},
	{domain.LabelScrollRight, "scroll the screen right"},
	{domain.LabelSwipeLeft, "swipe to the left"},
	{domain.LabelSwipeRight, "swipe to the right"},
	{domain.ActionVolumeUp, "raise the volume"},
	{domain.ActionVolumeDown, "lower the volume"},
	{domain.LabelVolumeMax, "set volume to maximum"},
	{domain.LabelVolumeMin, "set volume to minimum"},
	{domain.LabelVolumeMute, "mute the sound"},
	{domain.LabelVolumeUnmute, "unmute the sound"},
	{domain.ActionMediaPlay, "start media playback"},
	{domain.ActionMediaPause, "pause media playback"},
	{domain.ActionMediaPlayPause, "toggle media playback"},
	{domain.ActionMediaNext, "skip to the next track"},
	{domain.ActionMediaPrevious, "go back to the previous track"},
	{domain.ActionBrightnessUp, "increase screen brightness"},
	{domain.ActionBrightnessDown, "decrease screen brightness"},
	{domain.ActionBack, "press the back button"},
	{domain.ActionHome, "go to the home screen"},
	{domain.ActionWake, "wake the device"},
	{domain.ActionKeyevent, "press a hardware or keyboard key"},
	{domain.ActionScreenshot, "take a screenshot"},
	{domain.ActionTeachLast, "remember the last command under a new phrase"},
	{domain.ActionTeachCustom, "teach a custom phrase"},
	{domain.ActionForgetMapping, "forget a learned phrase"},
	{domain.ActionListMappings, "list learned phrases"},
	{domain.ActionExit, "exit the assistant"},
}

var (
	promptOnce sync.Once
	prompt     string
)

// classifierSystemPrompt renders the classification instructions. Built
// once; the action list never changes at runtime.
func classifierSystemPrompt() string {
	promptOnce.Do(func() {
		var b strings.Builder
		b.WriteString("You classify a phone voice command into exactly one action.\n")
		b.WriteString("Actions:\n")
		for _, d := range actionDescriptions {
			b.WriteString("- ")
			b.WriteString(string(d.action))
			b.WriteString(": ")
			b.WriteString(d.desc)
			b.WriteString("\n")
		}
		b.WriteString("\nReply with only a JSON object: ")
		b.WriteString(`{"action": "ACTION_NAME", "params": {}}` + "\n")
		b.WriteString("params may carry: app, contact, message, query, amount.\n")
		b.WriteString("No explanation, no markdown.")
		prompt = b.String()
	})
	return prompt
}
