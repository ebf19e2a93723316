package adb

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/doeshing/droidai/internal/domain"
)

type nopLogger struct{}

func (nopLogger) Debug(string, map[string]interface{})        {}
func (nopLogger) Info(string, map[string]interface{})         {}
func (nopLogger) Warn(string, map[string]interface{})         {}
func (nopLogger) Error(string, error, map[string]interface{}) {}

func TestEscapeInputText(t *testing.T) {
	cases := map[string]string{
		"hello world":  "hello%sworld",
		"it's fine":    `it\'s%sfine`,
		"a&b|c":        `a\&b\|c`,
		"plain":        "plain",
		"50% (approx)": `50%%s\(approx\)`,
	}
	for in, want := range cases {
		if got := escapeInputText(in); got != want {
			t.Errorf("escapeInputText(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestScreenSizeParsing(t *testing.T) {
	m := screenSizePattern.FindStringSubmatch("Physical size: 1080x2340")
	if m == nil || m[1] != "1080" || m[2] != "2340" {
		t.Fatalf("physical size parse = %v", m)
	}

	// Override follows the physical line; the driver takes the last match.
	out := "Physical size: 1440x3200\nOverride size: 1080x2400"
	all := screenSizePattern.FindAllStringSubmatch(out, -1)
	if len(all) != 2 || all[1][1] != "1080" || all[1][2] != "2400" {
		t.Fatalf("size lines parse = %v", all)
	}
}

// TestScreenSizeRetriesAfterFailure drives the size probe against a fake
// adb binary that fails on its first invocation and answers on the second.
func TestScreenSizeRetriesAfterFailure(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell script fake")
	}
	dir := t.TempDir()
	state := filepath.Join(dir, "probed")
	script := filepath.Join(dir, "adb")
	body := "#!/bin/sh\n" +
		"if [ ! -f \"$ADB_FAKE_STATE\" ]; then\n" +
		"  touch \"$ADB_FAKE_STATE\"\n" +
		"  echo \"error: no devices/emulators found\" >&2\n" +
		"  exit 1\n" +
		"fi\n" +
		"echo \"Physical size: 1080x2400\"\n"
	if err := os.WriteFile(script, []byte(body), 0o755); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	t.Setenv("ADB_FAKE_STATE", state)

	client := NewClient(domain.DeviceConfig{AdbPath: script}, nopLogger{})
	d := NewDriver(client, 0, nopLogger{})

	if _, _, err := d.ScreenSize(context.Background()); err == nil {
		t.Fatal("first probe should fail")
	}
	w, h, err := d.ScreenSize(context.Background())
	if err != nil {
		t.Fatalf("second probe: %v", err)
	}
	if w != 1080 || h != 2400 {
		t.Fatalf("ScreenSize = %dx%d, want 1080x2400", w, h)
	}
}

func TestCurrentFocusParsing(t *testing.T) {
	out := "  mCurrentFocus=Window{abc123 u0 com.android.chrome/com.google.android.apps.chrome.Main}"
	m := currentFocusPattern.FindStringSubmatch(out)
	if m == nil || m[1] != "com.android.chrome" {
		t.Fatalf("focus parse = %v", m)
	}
}
