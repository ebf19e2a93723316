// Package config validates loaded configuration before the rest of the
// application trusts it.
package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/doeshing/droidai/internal/domain"
)

// Validate ensures config structure is consistent. It runs after defaults
// are hydrated, so zero values here mean the user wrote them explicitly.
func Validate(cfg domain.Config) error {
	if err := validateClassifier(cfg.Classifier); err != nil {
		return err
	}
	if err := validateIntent(cfg.Intent); err != nil {
		return err
	}
	if err := validateDevice(cfg.Device); err != nil {
		return err
	}
	if err := validateHistory(cfg.History); err != nil {
		return err
	}
	return nil
}

func validateClassifier(c domain.ClassifierConfig) error {
	u, err := url.Parse(c.Endpoint)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("classifier.endpoint %q is not a valid URL", c.Endpoint)
	}
	if c.MaxTokens <= 0 {
		return fmt.Errorf("classifier.max_tokens must be > 0")
	}
	if c.TimeoutSeconds <= 0 {
		return fmt.Errorf("classifier.timeout must be > 0")
	}
	return nil
}

func validateIntent(i domain.IntentConfig) error {
	for name, v := range map[string]float64{
		"intent.confident_threshold": i.ConfidentThreshold,
		"intent.uncertain_threshold": i.UncertainThreshold,
		"intent.floor_threshold":     i.FloorThreshold,
	} {
		if v <= 0 || v > 1 {
			return fmt.Errorf("%s must be in (0, 1], got %g", name, v)
		}
	}
	if i.FloorThreshold > i.UncertainThreshold || i.UncertainThreshold > i.ConfidentThreshold {
		return fmt.Errorf("intent thresholds must be ordered floor <= uncertain <= confident")
	}
	if i.TopK <= 0 {
		return fmt.Errorf("intent.top_k must be > 0")
	}
	if strings.TrimSpace(i.CachePath) == "" {
		return fmt.Errorf("intent.cache_path must be set")
	}
	return nil
}

func validateDevice(d domain.DeviceConfig) error {
	if strings.TrimSpace(d.AdbPath) == "" {
		return fmt.Errorf("device.adb_path must be set")
	}
	if d.TapJitter < 0 {
		return fmt.Errorf("device.tap_jitter must be >= 0")
	}
	return nil
}

func validateHistory(h domain.HistoryConfig) error {
	if h.RetainDays < 0 {
		return fmt.Errorf("history.retain_days must be >= 0")
	}
	return nil
}
