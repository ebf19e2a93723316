// Package app wires application services with infrastructure adapters.
package app

import (
	"context"
	"path/filepath"

	"github.com/doeshing/droidai/internal/application/dispatch"
	"github.com/doeshing/droidai/internal/application/doctor"
	"github.com/doeshing/droidai/internal/application/intent"
	"github.com/doeshing/droidai/internal/domain"
	"github.com/doeshing/droidai/internal/infrastructure/adb"
	"github.com/doeshing/droidai/internal/infrastructure/ai"
	"github.com/doeshing/droidai/internal/infrastructure/apps"
	"github.com/doeshing/droidai/internal/infrastructure/config"
	contextcollector "github.com/doeshing/droidai/internal/infrastructure/context"
	"github.com/doeshing/droidai/internal/infrastructure/history"
	"github.com/doeshing/droidai/internal/infrastructure/learning"
	"github.com/doeshing/droidai/internal/infrastructure/perception"
	"github.com/doeshing/droidai/internal/infrastructure/shortcuts"
	"github.com/doeshing/droidai/internal/pkg/logger"
	"github.com/doeshing/droidai/internal/ports"
)

// Container holds the wired dependency graph.
type Container struct {
	Config       domain.Config
	ConfigLoader *config.FileLoader

	Engine    *intent.Engine
	Executor  *dispatch.Executor
	Dispatch  *dispatch.Service
	Doctor    *doctor.Service
	Collector ports.ContextCollector

	Client    *adb.Client
	Driver    ports.DeviceDriver
	Catalog   ports.AppCatalog
	Shortcuts ports.ShortcutStore
	Learning  ports.LearningStore
	History   ports.HistoryRepository
	Logger    ports.Logger
}

// BuildContainer constructs the dependency graph.
func BuildContainer(ctx context.Context, verbose bool) (*Container, error) {
	cfgLoader := config.NewFileLoader("")
	cfg, err := cfgLoader.Load(ctx)
	if err != nil {
		return nil, err
	}
	base := filepath.Dir(cfgLoader.Path())

	log := logger.NewStd(verbose)

	client := adb.NewClient(cfg.Device, log)
	driver := adb.NewDriver(client, cfg.Device.TapJitter, log)
	catalog := apps.NewCatalog(client, filepath.Join(base, "app_labels.json"), log)
	shortcutStore := shortcuts.NewFileStore(filepath.Join(base, "shortcuts.json"), log)
	learningStore := learning.NewFileStore(cfg.Intent.CachePath, log)
	classifier := ai.NewOllamaClassifier(cfg.Classifier, log)
	uiPerception := perception.NewUIAutomator(client, log)
	collector := contextcollector.NewDeviceCollector(driver, cfg.Device.Serial, log)

	var historyStore ports.HistoryRepository
	if cfg.History.Enabled {
		historyStore = history.NewSQLiteStore(filepath.Join(base, "history", "history.db"))
	}

	engine := intent.NewEngine(cfg.Intent, cfg.Preferences.DefaultMessagingApp, learningStore, classifier, log)

	executor := dispatch.NewExecutor(engine, driver, catalog, uiPerception, shortcutStore, log)
	executor.ScreenshotDir = filepath.Join(base, "screenshots")

	dispatchService := dispatch.NewService(engine, executor, historyStore, cfg.History.Enabled, log)

	doctorService := &doctor.Service{
		ConfigProvider: cfgLoader,
		Device:         client,
		Classifier:     classifier,
		Learning:       learningStore,
		History:        historyStore,
	}

	return &Container{
		Config:       cfg,
		ConfigLoader: cfgLoader,
		Engine:       engine,
		Executor:     executor,
		Dispatch:     dispatchService,
		Doctor:       doctorService,
		Collector:    collector,
		Client:       client,
		Driver:       driver,
		Catalog:      catalog,
		Shortcuts:    shortcutStore,
		Learning:     learningStore,
		History:      historyStore,
		Logger:       log,
	}, nil
}
