package match

import (
	"sort"

	"github.com/doeshing/droidai/internal/domain"
)

// knowledgeBase maps each action label to its example phrases. This is the
// immutable built-in corpus; only the learning cache adds documents at
// runtime. Every label here maps to at least one phrase.
var knowledgeBase = map[domain.Action][]string{
	// Navigation
	domain.ActionExit: {
		"exit", "quit", "stop agent", "close agent", "shut down agent",
		"bye", "goodbye", "end session", "terminate agent",
	},
	domain.ActionWake: {
		"wake", "wake up", "turn on screen", "wake screen",
		"light up screen", "activate screen", "screen on",
	},
	domain.ActionBack: {
		"back", "go back", "previous", "navigate back",
		"return", "press back", "go to previous", "go previous",
	},
	domain.ActionHome: {
		"home", "go home", "home screen", "main screen",
		"go to home", "press home", "go to home screen",
	},
	domain.ActionCloseAll: {
		"close all", "close all apps", "clear recent", "clear recents",
		"close everything", "kill all apps", "clear all apps",
	},
	domain.ActionCloseApp: {
		"close it", "close this", "close this app", "close app",
		"close the app", "close current app", "kill this app",
		"exit app", "exit this app", "quit app",
	},

	// Volume
	domain.ActionVolumeUp: {
		"volume up", "louder", "increase volume", "make it louder",
		"turn up volume", "raise volume", "more volume",
		"increase sound", "crank it up", "sound louder",
		"turn it up", "boost volume", "pump up volume",
	},
	domain.ActionVolumeDown: {
		"volume down", "quieter", "decrease volume", "make it quieter",
		"turn down volume", "lower volume", "less volume",
		"decrease sound", "reduce volume", "softer",
		"turn it down", "not so loud",
	},
	domain.LabelVolumeMax: {
		"max volume", "maximum volume", "full volume", "volume max",
		"volume full", "blast it", "loudest", "loudest possible",
		"all the way up", "volume all the way up", "volume 100",
		"as loud as it goes", "crank it all the way",
		"max the volume", "put volume to maximum",
		"full blast", "set volume to max", "turn it all the way up",
	},
	domain.LabelVolumeMin: {
		"minimum volume", "volume minimum", "lowest volume",
		"volume to lowest", "barely audible",
	},
	domain.LabelVolumeMute: {
		"mute", "sound off", "silence", "be quiet", "shut up",
		"turn off sound", "mute sound", "mute volume", "volume mute",
		"no sound", "go silent", "silent mode", "sound mute",
		"mute audio", "kill sound", "quiet", "hush",
	},
	domain.LabelVolumeUnmute: {
		"unmute", "sound on", "turn on sound", "unmute sound",
		"unmute volume", "restore sound", "bring back sound",
	},

	// Media
	domain.ActionMediaPlay: {
		"play", "play music", "resume", "resume music",
		"start playing", "continue playing", "unpause",
		"resume playback", "put on some music", "play something",
	},
	domain.ActionMediaPause: {
		"pause", "pause music", "stop music", "stop playing",
		"hold music", "pause playback",
	},
	domain.ActionMediaPlayPause: {
		"play pause", "toggle play", "play or pause", "toggle playback",
	},
	domain.ActionMediaNext: {
		"next", "next song", "next track", "skip", "skip song",
		"skip track", "play next", "skip this", "change song",
	},
	domain.ActionMediaPrevious: {
		"previous", "previous song", "previous track",
		"go back song", "last song", "play previous", "previous please",
	},

	// Scrolling
	domain.LabelScrollDown: {
		"scroll down", "scroll", "go down", "page down",
		"more content", "keep scrolling", "scroll more",
	},
	domain.LabelScrollUp: {
		"scroll up", "go up", "page up", "scroll to top",
		"back up", "scroll back up",
	},
	domain.LabelScrollLeft:  {"scroll left", "go left"},
	domain.LabelScrollRight: {"scroll right", "go right"},
	domain.LabelSwipeLeft: {
		"swipe left", "swipe away", "dismiss", "next page",
	},
	domain.LabelSwipeRight: {
		"swipe right", "previous page", "swipe back",
	},

	// App management
	domain.ActionOpenApp: {
		"open youtube", "open whatsapp", "open chrome", "open settings",
		"open gmail", "open spotify", "open camera", "open instagram",
		"open telegram", "open maps", "open calculator", "open calendar",
		"open phone", "open contacts", "open gallery", "open photos",
		"launch youtube", "launch whatsapp", "launch chrome",
		"launch spotify", "launch camera",
		"start youtube", "start spotify",
		"go to youtube", "go to whatsapp", "go to chrome",
		"go to instagram", "go to settings",
		"run youtube", "switch to whatsapp", "switch to chrome",
		"open the app", "take me to youtube", "take me to whatsapp",
		"take me to my messages", "take me to my photos",
		"show me my gallery", "show me my contacts",
	},
	domain.ActionFindApp: {
		"find youtube", "find gmail", "find spotify",
		"search for app gmail", "look for spotify",
		"where is chrome", "do i have whatsapp",
	},
	domain.ActionReindexApps: {
		"reindex apps", "refresh apps", "reload apps",
		"rescan apps", "update app list",
	},

	// Typing
	domain.ActionTypeText: {
		"type hello", "write hello world", "enter text",
		"input something", "type this",
	},
	domain.ActionTypeAndSend: {
		"write hello and send", "type hello and send",
		"write good morning and hit send",
		"type thanks then send", "type hi and send it",
	},
	domain.ActionTypeAndEnter: {
		"type hello and enter", "type hello and press enter",
		"enter hello and submit", "type cats and search",
	},
	domain.ActionTapSend: {
		"send", "hit send", "press send", "tap send",
		"send it", "send message", "submit",
	},

	// Messaging
	domain.ActionSendMessage: {
		"send hello to mom", "send hi to mom on whatsapp",
		"send good morning to anna on whatsapp",
		"send good morning to anna in whatsapp",
		"text anna hello on whatsapp", "text anna hello in whatsapp",
		"message mom saying hello", "message mom",
		"text mom hello", "text mom", "text john",
		"text dad good morning",
		"tell mom i am coming", "tell dad hello",
		"whatsapp mom hello", "whatsapp dad",
		"chat with mom", "chat mom", "chat with john",
		"dm mom", "dm john hello",
		"send a message to mom", "message john on whatsapp",
	},

	// Search
	domain.ActionSearchInApp: {
		"search cats on youtube", "search for cats",
		"search cats in chrome", "look up weather",
		"find cats on youtube", "google cats",
		"youtube search funny videos", "search recipes",
		"search for news", "look up restaurants",
		"i want to watch something funny",
		"show me trending stuff",
	},
	domain.ActionOpenContentInApp: {
		"play first video on youtube", "open second video on youtube",
		"watch third video on youtube", "play first song on spotify",
		"first video on youtube", "second video on youtube",
		"open first post on instagram", "play first reel on instagram",
	},

	// Screen interaction
	domain.ActionTap: {
		"tap 540 1200", "click 100 200", "press 300 400", "touch 540 960",
	},
	domain.ActionVisionQuery: {
		"click subscribe", "tap the subscribe button",
		"click on the red button", "tap the first video",
		"press the menu icon", "select the option",
		"click the thumbnail", "tap the link",
		"hit the like button", "choose option two",
		"click the play button", "tap the share icon",
		"subscribe", "subscribe to this channel",
		"subscribe the channel",
		"like this video", "like the video", "like it",
		"dislike this video", "dislike",
		"share this video", "share this", "share it",
		"save this video", "save this", "save it",
		"comment on this video", "add a comment",
		"follow this account", "follow", "follow them",
		"unfollow", "unsubscribe",
		"download this", "download the video",
		"report this", "report this video",
		"add to playlist", "save to playlist",
		"turn on notifications", "ring the bell", "hit the bell icon",
		"select the first video", "select the second video",
		"select the third video", "first video", "second video",
		"third video", "first post", "second post",
		"select the first item", "select the second item",
		"click on the first one", "click the second one",
		"open the first video", "open the second video",
		"tap on 4th mail", "click the 3rd email", "select 2nd result",
		"tap on 1st item", "open the 5th link",
		"tap on the 4th one", "click the 3rd one",
		"select the 4th mail", "open 3rd message",
		"first mail", "second email", "third message",
		"first result", "second link", "first option",
		"tap the first mail", "click the second email",
		"select first result", "open second link",
	},
	domain.ActionScreenInfo: {
		"what do you see", "describe screen", "what is on screen",
		"tell me what you see", "what is visible",
		"describe what is on screen", "read the screen",
		"analyze screen", "what app is this", "where am i",
	},
	domain.ActionFindVisual: {
		"find subscribe on screen", "locate the button",
		"where is the search bar", "look for settings icon",
	},

	// Learning
	domain.ActionTeachLast: {
		"teach", "remember this", "learn this",
		"call that checking the news", "save that as my morning routine",
	},
	domain.ActionTeachCustom: {
		"teach google chrome", "teach music spotify",
		"remember google as chrome",
		"when i say browser open chrome",
	},
	domain.ActionForgetMapping: {
		"forget google", "unlearn browser",
		"remove mapping music", "delete shortcut",
	},
	domain.ActionListMappings: {
		"list mappings", "show mappings", "my mappings", "mappings",
		"what have you learned", "show shortcuts",
	},

	// Keyevent
	domain.ActionKeyevent: {
		"press enter", "press tab", "press escape",
		"press delete", "press backspace", "press space",
	},

	// System
	domain.ActionBrightnessUp: {
		"brightness up", "brighter", "increase brightness",
		"more brightness", "screen brighter",
	},
	domain.ActionBrightnessDown: {
		"brightness down", "dimmer", "decrease brightness",
		"less brightness", "screen dimmer", "dim screen",
	},
	domain.ActionScreenshot: {
		"screenshot", "take screenshot", "capture screen",
		"screen capture", "take a screenshot",
	},
}

// KnowledgeDocuments flattens the built-in knowledge base into index
// documents in sorted label order, so document positions (and therefore
// tie-breaking between equal scores) are stable across rebuilds.
func KnowledgeDocuments() []Document {
	var docs []Document
	for _, label := range Labels() {
		for _, phrase := range knowledgeBase[label] {
			docs = append(docs, Document{Label: string(label), Phrase: phrase})
		}
	}
	return docs
}

// KnownLabel reports whether label is part of the built-in knowledge base,
// i.e. a valid classification target.
func KnownLabel(label domain.Action) bool {
	_, ok := knowledgeBase[label]
	return ok
}

// Labels returns every knowledge-base label in sorted order.
func Labels() []domain.Action {
	labels := make([]domain.Action, 0, len(knowledgeBase))
	for label := range knowledgeBase {
		labels = append(labels, label)
	}
	sort.Slice(labels, func(i, j int) bool { return labels[i] < labels[j] })
	return labels
}
