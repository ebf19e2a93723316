// Package contextcollector snapshots device state used as resolution and
// execution hints.
package contextcollector

import (
	"context"

	"github.com/doeshing/droidai/internal/domain"
	"github.com/doeshing/droidai/internal/ports"
)

// DeviceCollector implements ports.ContextCollector against the device
// driver. Collection is best-effort: a disconnected device yields an
// empty snapshot, never an error, because resolution must work offline.
type DeviceCollector struct {
	driver ports.DeviceDriver
	serial string
	logger ports.Logger
}

var _ ports.ContextCollector = (*DeviceCollector)(nil)

func NewDeviceCollector(driver ports.DeviceDriver, serial string, logger ports.Logger) *DeviceCollector {
	return &DeviceCollector{driver: driver, serial: serial, logger: logger}
}

// Collect gathers the foreground app and screen dimensions.
func (c *DeviceCollector) Collect(ctx context.Context) domain.ContextSnapshot {
	snapshot := domain.ContextSnapshot{Serial: c.serial}

	app, err := c.driver.CurrentApp(ctx)
	if err != nil {
		c.logger.Debug("foreground app unavailable", map[string]interface{}{"error": err.Error()})
		return snapshot
	}
	snapshot.CurrentApp = app

	if w, h, err := c.driver.ScreenSize(ctx); err == nil {
		snapshot.ScreenWidth = w
		snapshot.ScreenHeight = h
	}
	return snapshot
}
