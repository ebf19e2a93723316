// Package domain defines core business entities and value objects for droidai.
//
// The domain layer is independent of infrastructure concerns and represents
// pure business logic and data structures. This file contains the closed
// action enumeration shared by the intent engine and the execution layer.
package domain

// Action identifies a device operation the execution layer knows how to run.
//
// The enumeration is closed: the LLM classifier must validate any suggested
// action against it before the result is trusted.
type Action string

// Command actions emitted by the parameter extractor.
const (
	// Navigation
	ActionBack     Action = "BACK"
	ActionHome     Action = "HOME"
	ActionWake     Action = "WAKE"
	ActionExit     Action = "EXIT"
	ActionCloseAll Action = "CLOSE_ALL"
	ActionCloseApp Action = "CLOSE_APP"

	// App control
	ActionOpenApp     Action = "OPEN_APP"
	ActionFindApp     Action = "FIND_APP"
	ActionReindexApps Action = "REINDEX_APPS"

	// Direct input
	ActionTap      Action = "TAP"
	ActionTypeText Action = "TYPE_TEXT"
	ActionScroll   Action = "SCROLL"
	ActionSwipe    Action = "SWIPE"
	ActionKeyevent Action = "KEYEVENT"

	// Media
	ActionMediaPlay      Action = "MEDIA_PLAY"
	ActionMediaPause     Action = "MEDIA_PAUSE"
	ActionMediaPlayPause Action = "MEDIA_PLAY_PAUSE"
	ActionMediaNext      Action = "MEDIA_NEXT"
	ActionMediaPrevious  Action = "MEDIA_PREVIOUS"

	// Volume
	ActionVolumeUp   Action = "VOLUME_UP"
	ActionVolumeDown Action = "VOLUME_DOWN"

	// Perception-delegated
	ActionVisionQuery Action = "VISION_QUERY"
	ActionScreenInfo  Action = "SCREEN_INFO"
	ActionFindVisual  Action = "FIND_VISUAL"

	// Multi-step
	ActionMultiStep Action = "MULTI_STEP"

	// Messaging / content workflows
	ActionSendMessage      Action = "SEND_MESSAGE"
	ActionSearchInApp      Action = "SEARCH_IN_APP"
	ActionOpenContentInApp Action = "OPEN_CONTENT_IN_APP"
	ActionTypeAndSend      Action = "TYPE_AND_SEND"
	ActionTapSend          Action = "TAP_SEND"
	ActionTypeAndEnter     Action = "TYPE_AND_ENTER"

	// Teaching
	ActionTeachLast     Action = "TEACH_LAST"
	ActionTeachCustom   Action = "TEACH_CUSTOM"
	ActionTeachShortcut Action = "TEACH_SHORTCUT"
	ActionForgetMapping Action = "FORGET_MAPPING"
	ActionListMappings  Action = "LIST_MAPPINGS"

	// System
	ActionBrightnessUp   Action = "BRIGHTNESS_UP"
	ActionBrightnessDown Action = "BRIGHTNESS_DOWN"
	ActionScreenshot     Action = "SCREENSHOT"
)

// Classification-only labels. They appear in the knowledge base and in
// classifier output, but the parameter extractor rewrites them into the
// command actions above (e.g. VOLUME_MAX becomes VOLUME_UP with a large
// step count, SCROLL_DOWN becomes SCROLL with direction DOWN).
const (
	LabelVolumeMax    Action = "VOLUME_MAX"
	LabelVolumeMin    Action = "VOLUME_MIN"
	LabelVolumeMute   Action = "VOLUME_MUTE"
	LabelVolumeUnmute Action = "VOLUME_UNMUTE"
	LabelScrollDown   Action = "SCROLL_DOWN"
	LabelScrollUp     Action = "SCROLL_UP"
	LabelScrollLeft   Action = "SCROLL_LEFT"
	LabelScrollRight  Action = "SCROLL_RIGHT"
	LabelSwipeLeft    Action = "SWIPE_LEFT"
	LabelSwipeRight   Action = "SWIPE_RIGHT"
)

// Direction is a scroll/swipe direction.
type Direction string

const (
	DirectionUp    Direction = "UP"
	DirectionDown  Direction = "DOWN"
	DirectionLeft  Direction = "LEFT"
	DirectionRight Direction = "RIGHT"
)
