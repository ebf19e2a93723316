// Package doctor runs environment diagnostics: adb, device, config,
// classifier, and the learning stores.
package doctor

import (
	"context"
	"fmt"
	"os"
	"os/exec"

	"github.com/doeshing/droidai/internal/domain"
	"github.com/doeshing/droidai/internal/ports"
)

// DeviceProber is the slice of the adb client the doctor needs.
type DeviceProber interface {
	Connected(ctx context.Context) bool
	Path() string
}

// Service runs environment diagnostics.
type Service struct {
	ConfigProvider ports.ConfigProvider
	Device         DeviceProber
	Classifier     ports.Classifier
	Learning       ports.LearningStore
	History        ports.HistoryRepository
}

// Run executes checks and returns a report. Only a broken config is a
// hard error; everything else degrades.
func (s *Service) Run(ctx context.Context) (domain.HealthReport, error) {
	var checks []domain.HealthCheck

	cfg, err := s.ConfigProvider.Load(ctx)
	if err != nil {
		checks = append(checks, fail("Config file", fmt.Sprintf("load failed: %v", err)))
		return domain.HealthReport{Checks: checks}, err
	}
	checks = append(checks, ok("Config file", fmt.Sprintf("format version %s", cfg.ConfigFormatVersion)))

	checks = append(checks, s.adbCheck(ctx))
	checks = append(checks, s.classifierCheck(cfg))
	checks = append(checks, s.learningCheck(cfg))
	checks = append(checks, s.historyCheck())

	return domain.HealthReport{Checks: checks}, nil
}

func (s *Service) adbCheck(ctx context.Context) domain.HealthCheck {
	if s.Device == nil {
		return warn("Device", "adb client not initialized")
	}
	if _, err := exec.LookPath(s.Device.Path()); err != nil {
		return fail("Device", fmt.Sprintf("adb binary %q not found; install platform-tools", s.Device.Path()))
	}
	if !s.Device.Connected(ctx) {
		return warn("Device", "no device attached or authorized; check the USB debugging prompt")
	}
	return ok("Device", "connected and authorized")
}

func (s *Service) classifierCheck(cfg domain.Config) domain.HealthCheck {
	if s.Classifier == nil {
		return warn("Classifier", "not initialized")
	}
	if !s.Classifier.Available() {
		return warn("Classifier", fmt.Sprintf("%s unreachable; unusual phrasings will miss", cfg.Classifier.Endpoint))
	}
	return ok("Classifier", fmt.Sprintf("%s via %s", cfg.Classifier.ModelID, cfg.Classifier.Endpoint))
}

func (s *Service) learningCheck(cfg domain.Config) domain.HealthCheck {
	if s.Learning == nil {
		return warn("Learning cache", "not initialized")
	}
	if _, err := os.Stat(cfg.Intent.CachePath); os.IsNotExist(err) {
		return ok("Learning cache", "empty (nothing learned yet)")
	}
	return ok("Learning cache", fmt.Sprintf("%d learned phrases", s.Learning.Count()))
}

func (s *Service) historyCheck() domain.HealthCheck {
	if s.History == nil {
		return warn("History", "disabled")
	}
	records, err := s.History.Records(1, "")
	if err != nil {
		return warn("History", err.Error())
	}
	if len(records) == 0 {
		return ok("History", "empty")
	}
	return ok("History", fmt.Sprintf("last entry %s", records[0].Timestamp.Format(domain.TimestampFormat)))
}

func ok(name, details string) domain.HealthCheck {
	return domain.HealthCheck{Name: name, Status: domain.HealthOK, Details: details}
}

func warn(name, details string) domain.HealthCheck {
	return domain.HealthCheck{Name: name, Status: domain.HealthWarn, Details: details}
}

func fail(name, details string) domain.HealthCheck {
	return domain.HealthCheck{Name: name, Status: domain.HealthError, Details: details}
}
