// Package config loads the YAML configuration file, writing the embedded
// default on first run.
package config

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/doeshing/droidai/assets"
	appconfig "github.com/doeshing/droidai/internal/application/config"
	"github.com/doeshing/droidai/internal/domain"
	"github.com/doeshing/droidai/internal/pkg/filesystem"
	"github.com/doeshing/droidai/internal/ports"
)

// FileLoader loads YAML configuration from ~/.droidai/config.yaml
// (overridable via DROIDAI_CONFIG or an explicit path).
type FileLoader struct {
	overridePath string
}

var _ ports.ConfigProvider = (*FileLoader)(nil)

// NewFileLoader builds a new loader. path overrides all other sources
// when non-empty.
func NewFileLoader(path string) *FileLoader {
	return &FileLoader{overridePath: path}
}

// Load implements ports.ConfigProvider.
func (l *FileLoader) Load(context.Context) (domain.Config, error) {
	path := l.resolvePath()
	if err := os.MkdirAll(filepath.Dir(path), domain.DirectoryPermissions); err != nil {
		return domain.Config{}, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			if err := os.WriteFile(path, assets.DefaultConfigYAML, domain.SecureFilePermissions); err != nil {
				return domain.Config{}, err
			}
			data = assets.DefaultConfigYAML
		} else {
			return domain.Config{}, err
		}
	}

	var cfg domain.Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return domain.Config{}, err
	}
	cfg = hydrateDefaults(cfg)
	if err := appconfig.Validate(cfg); err != nil {
		return domain.Config{}, err
	}
	return cfg, nil
}

// Path returns the resolved configuration file path.
func (l *FileLoader) Path() string {
	return l.resolvePath()
}

func (l *FileLoader) resolvePath() string {
	if l.overridePath != "" {
		return filesystem.ExpandPath(l.overridePath)
	}
	if custom := os.Getenv("DROIDAI_CONFIG"); custom != "" {
		return filesystem.ExpandPath(custom)
	}
	return filepath.Join(filesystem.UserHomeDir(), ".droidai", "config.yaml")
}

// hydrateDefaults fills zero values so hand-edited partial configs still
// behave.
func hydrateDefaults(cfg domain.Config) domain.Config {
	if cfg.ConfigFormatVersion == "" {
		cfg.ConfigFormatVersion = "1"
	}
	if cfg.Preferences.DefaultMessagingApp == "" {
		cfg.Preferences.DefaultMessagingApp = "whatsapp"
	}
	if cfg.Classifier.Endpoint == "" {
		cfg.Classifier.Endpoint = "http://localhost:11434/v1/chat/completions"
	}
	if cfg.Classifier.ModelID == "" {
		cfg.Classifier.ModelID = "qwen2.5:0.5b"
	}
	if cfg.Classifier.MaxTokens == 0 {
		cfg.Classifier.MaxTokens = domain.DefaultClassifierMaxTokens
	}
	if cfg.Classifier.TimeoutSeconds == 0 {
		cfg.Classifier.TimeoutSeconds = 30
	}
	if cfg.Intent.ConfidentThreshold == 0 {
		cfg.Intent.ConfidentThreshold = domain.DefaultConfidentThreshold
	}
	if cfg.Intent.UncertainThreshold == 0 {
		cfg.Intent.UncertainThreshold = domain.DefaultUncertainThreshold
	}
	if cfg.Intent.FloorThreshold == 0 {
		cfg.Intent.FloorThreshold = domain.DefaultFloorThreshold
	}
	if cfg.Intent.TopK == 0 {
		cfg.Intent.TopK = domain.DefaultMatchTopK
	}
	if cfg.Intent.CachePath == "" {
		cfg.Intent.CachePath = filepath.Join(filesystem.UserHomeDir(), ".droidai", "learned_actions.json")
	} else {
		cfg.Intent.CachePath = filesystem.ExpandPath(cfg.Intent.CachePath)
	}
	if cfg.Device.AdbPath == "" {
		cfg.Device.AdbPath = "adb"
	}
	if cfg.Device.TapJitter == 0 {
		cfg.Device.TapJitter = domain.DefaultTapJitter
	}
	if cfg.History.RetainDays == 0 {
		cfg.History.RetainDays = domain.DefaultHistoryRetainDays
	}
	return cfg
}
