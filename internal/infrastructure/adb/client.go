// Package adb drives a connected Android device through the platform
// debug bridge binary.
package adb

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/doeshing/droidai/internal/domain"
	"github.com/doeshing/droidai/internal/ports"
)

// Client wraps adb invocations with serial selection and a per-call
// timeout.
type Client struct {
	adbPath string
	serial  string
	timeout time.Duration
	logger  ports.Logger
}

// NewClient builds a Client. An empty adbPath falls back to "adb" on PATH;
// an empty serial lets adb pick the only connected device.
func NewClient(cfg domain.DeviceConfig, logger ports.Logger) *Client {
	path := cfg.AdbPath
	if path == "" {
		path = "adb"
	}
	return &Client{
		adbPath: path,
		serial:  cfg.Serial,
		timeout: domain.DefaultAdbTimeout,
		logger:  logger,
	}
}

// Run executes one adb command and returns its trimmed stdout.
func (c *Client) Run(ctx context.Context, args ...string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	full := args
	if c.serial != "" {
		full = append([]string{"-s", c.serial}, args...)
	}

	cmd := exec.CommandContext(ctx, c.adbPath, full...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = err.Error()
		}
		return "", fmt.Errorf("adb %s: %s", strings.Join(args, " "), msg)
	}
	return strings.TrimSpace(stdout.String()), nil
}

// Shell runs a command on the device via adb shell.
func (c *Client) Shell(ctx context.Context, args ...string) (string, error) {
	return c.Run(ctx, append([]string{"shell"}, args...)...)
}

// Connected reports whether at least one device is attached and
// authorized.
func (c *Client) Connected(ctx context.Context) bool {
	out, err := c.Run(ctx, "devices")
	if err != nil {
		return false
	}
	for _, line := range strings.Split(out, "\n")[1:] {
		fields := strings.Fields(line)
		if len(fields) == 2 && fields[1] == "device" {
			return true
		}
	}
	return false
}

// Path returns the adb binary path in use.
func (c *Client) Path() string {
	return c.adbPath
}
