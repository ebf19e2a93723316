package domain

// Config mirrors ~/.droidai/config.yaml.
type Config struct {
	ConfigFormatVersion string           `yaml:"config_format_version"`
	Preferences         Preferences      `yaml:"preferences"`
	Classifier          ClassifierConfig `yaml:"classifier"`
	Intent              IntentConfig     `yaml:"intent"`
	Device              DeviceConfig     `yaml:"device"`
	History             HistoryConfig    `yaml:"history"`
}

// Preferences captures user-level toggles.
type Preferences struct {
	DefaultMessagingApp string `yaml:"default_messaging_app"`
	ConfirmDestructive  bool   `yaml:"confirm_destructive"`
}

// ClassifierConfig describes the local chat endpoint used for tier-2
// classification. The endpoint only needs to speak the OpenAI-compatible
// /v1/chat/completions shape; Ollama does.
type ClassifierConfig struct {
	Endpoint       string `yaml:"endpoint"`
	ModelID        string `yaml:"model_id"`
	MaxTokens      int    `yaml:"max_tokens"`
	TimeoutSeconds int    `yaml:"timeout"`
}

// IntentConfig tunes the resolution cascade. The thresholds are
// empirically chosen magic numbers; treat them as configuration rather
// than behavior to lock down.
type IntentConfig struct {
	ConfidentThreshold float64 `yaml:"confident_threshold"`
	UncertainThreshold float64 `yaml:"uncertain_threshold"`
	FloorThreshold     float64 `yaml:"floor_threshold"`
	TopK               int     `yaml:"top_k"`
	CachePath          string  `yaml:"cache_path"`
}

// DeviceConfig locates the debug bridge.
type DeviceConfig struct {
	AdbPath   string `yaml:"adb_path"`
	Serial    string `yaml:"serial"`
	TapJitter int    `yaml:"tap_jitter"`
}

// HistoryConfig controls resolution history persistence.
type HistoryConfig struct {
	Enabled    bool `yaml:"enabled"`
	RetainDays int  `yaml:"retain_days"`
}
