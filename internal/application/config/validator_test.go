package config

import (
	"testing"

	"github.com/doeshing/droidai/internal/domain"
)

func validConfig() domain.Config {
	return domain.Config{
		Classifier: domain.ClassifierConfig{
			Endpoint:       "http://localhost:11434/v1/chat/completions",
			ModelID:        "qwen2.5:0.5b",
			MaxTokens:      100,
			TimeoutSeconds: 30,
		},
		Intent: domain.IntentConfig{
			ConfidentThreshold: 0.65,
			UncertainThreshold: 0.35,
			FloorThreshold:     0.15,
			TopK:               3,
			CachePath:          "/tmp/learned_actions.json",
		},
		Device:  domain.DeviceConfig{AdbPath: "adb"},
		History: domain.HistoryConfig{Enabled: true, RetainDays: 30},
	}
}

func TestValidateAcceptsHydratedConfig(t *testing.T) {
	if err := Validate(validConfig()); err != nil {
		t.Fatalf("Validate() = %v, want nil", err)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*domain.Config)
	}{
		{"bad endpoint", func(c *domain.Config) { c.Classifier.Endpoint = "not a url" }},
		{"zero max tokens", func(c *domain.Config) { c.Classifier.MaxTokens = 0 }},
		{"threshold out of range", func(c *domain.Config) { c.Intent.ConfidentThreshold = 1.5 }},
		{"thresholds misordered", func(c *domain.Config) { c.Intent.FloorThreshold = 0.9 }},
		{"zero top_k", func(c *domain.Config) { c.Intent.TopK = 0 }},
		{"empty cache path", func(c *domain.Config) { c.Intent.CachePath = " " }},
		{"empty adb path", func(c *domain.Config) { c.Device.AdbPath = "" }},
		{"negative jitter", func(c *domain.Config) { c.Device.TapJitter = -1 }},
		{"negative retain days", func(c *domain.Config) { c.History.RetainDays = -1 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validConfig()
			tc.mutate(&cfg)
			if Validate(cfg) == nil {
				t.Fatalf("Validate() accepted %s", tc.name)
			}
		})
	}
}
