package adb

import (
	"context"
	"fmt"
	"math/rand"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/doeshing/droidai/internal/domain"
	"github.com/doeshing/droidai/internal/ports"
)

const deviceScreenshotPath = "/sdcard/droidai_screen.png"

var (
	screenSizePattern   = regexp.MustCompile(`(?m)^(?:Override|Physical) size:\s*(\d+)x(\d+)`)
	currentFocusPattern = regexp.MustCompile(`mCurrentFocus=.*?\s([a-zA-Z0-9_.]+)/`)
)

// Driver implements ports.DeviceDriver on top of the adb Client.
type Driver struct {
	client *Client
	jitter int
	logger ports.Logger

	sizeMu sync.Mutex
	width  int
	height int
}

var _ ports.DeviceDriver = (*Driver)(nil)

// NewDriver builds a Driver. jitter randomizes tap points by up to that
// many pixels in each axis; taps at always-identical coordinates trip
// some apps' automation detection.
func NewDriver(client *Client, jitter int, logger ports.Logger) *Driver {
	if jitter < 0 {
		jitter = 0
	}
	return &Driver{client: client, jitter: jitter, logger: logger}
}

// Launch starts an app by package name through the launcher intent.
func (d *Driver) Launch(ctx context.Context, pkg string) error {
	_, err := d.client.Shell(ctx, "monkey", "-p", pkg, "-c", "android.intent.category.LAUNCHER", "1")
	if err != nil {
		return fmt.Errorf("launch %s: %w", pkg, err)
	}
	return nil
}

// ForceStop kills an app by package name.
func (d *Driver) ForceStop(ctx context.Context, pkg string) error {
	_, err := d.client.Shell(ctx, "am", "force-stop", pkg)
	return err
}

// Tap presses at (x, y), jittered.
func (d *Driver) Tap(ctx context.Context, x, y int) error {
	if d.jitter > 0 {
		x += rand.Intn(2*d.jitter+1) - d.jitter
		y += rand.Intn(2*d.jitter+1) - d.jitter
		if x < 0 {
			x = 0
		}
		if y < 0 {
			y = 0
		}
	}
	_, err := d.client.Shell(ctx, "input", "tap", strconv.Itoa(x), strconv.Itoa(y))
	return err
}

// TypeText types into the focused field. The input command has no proper
// quoting, so spaces become %s and shell metacharacters are escaped.
func (d *Driver) TypeText(ctx context.Context, text string) error {
	if text == "" {
		return nil
	}
	_, err := d.client.Shell(ctx, "input", "text", escapeInputText(text))
	return err
}

func escapeInputText(text string) string {
	var b strings.Builder
	for _, r := range text {
		switch r {
		case ' ':
			b.WriteString("%s")
		case '\'', '"', '`', '\\', '(', ')', '<', '>', '|', ';', '&', '*', '~', '$':
			b.WriteByte('\\')
			b.WriteRune(r)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Scroll performs one scroll gesture. Direction names the way the view
// moves: scrolling down swipes the finger upward.
func (d *Driver) Scroll(ctx context.Context, direction domain.Direction) error {
	w, h, err := d.ScreenSize(ctx)
	if err != nil {
		return err
	}

	cx, cy := w/2, h/2
	var x1, y1, x2, y2 int
	switch direction {
	case domain.DirectionDown:
		x1, y1, x2, y2 = cx, h*2/3, cx, h/3
	case domain.DirectionUp:
		x1, y1, x2, y2 = cx, h/3, cx, h*2/3
	case domain.DirectionLeft:
		x1, y1, x2, y2 = w/3, cy, w*2/3, cy
	case domain.DirectionRight:
		x1, y1, x2, y2 = w*2/3, cy, w/3, cy
	default:
		return fmt.Errorf("scroll: unknown direction %q", direction)
	}
	return d.swipeGesture(ctx, x1, y1, x2, y2, 300)
}

// Swipe performs a full-width horizontal swipe, for page or tab changes.
func (d *Driver) Swipe(ctx context.Context, direction domain.Direction) error {
	w, h, err := d.ScreenSize(ctx)
	if err != nil {
		return err
	}
	cy := h / 2
	switch direction {
	case domain.DirectionLeft:
		return d.swipeGesture(ctx, w*3/4, cy, w/4, cy, 200)
	case domain.DirectionRight:
		return d.swipeGesture(ctx, w/4, cy, w*3/4, cy, 200)
	default:
		return fmt.Errorf("swipe: unknown direction %q", direction)
	}
}

func (d *Driver) swipeGesture(ctx context.Context, x1, y1, x2, y2, durationMS int) error {
	_, err := d.client.Shell(ctx, "input", "swipe",
		strconv.Itoa(x1), strconv.Itoa(y1), strconv.Itoa(x2), strconv.Itoa(y2), strconv.Itoa(durationMS))
	return err
}

// Keyevent sends one keycode.
func (d *Driver) Keyevent(ctx context.Context, keycode string) error {
	_, err := d.client.Shell(ctx, "input", "keyevent", keycode)
	return err
}

// Wake turns the screen on.
func (d *Driver) Wake(ctx context.Context) error {
	return d.Keyevent(ctx, "KEYCODE_WAKEUP")
}

// Back presses the back button.
func (d *Driver) Back(ctx context.Context) error {
	return d.Keyevent(ctx, "KEYCODE_BACK")
}

// Home goes to the home screen.
func (d *Driver) Home(ctx context.Context) error {
	return d.Keyevent(ctx, "KEYCODE_HOME")
}

// CloseAll goes home and kills background apps.
func (d *Driver) CloseAll(ctx context.Context) error {
	if err := d.Home(ctx); err != nil {
		return err
	}
	_, err := d.client.Shell(ctx, "am", "kill-all")
	return err
}

// ScreenSize reports the display resolution. Cached after the first
// successful read; a failed probe (device briefly detached) is retried
// on the next call.
func (d *Driver) ScreenSize(ctx context.Context) (int, int, error) {
	d.sizeMu.Lock()
	defer d.sizeMu.Unlock()
	if d.width > 0 {
		return d.width, d.height, nil
	}

	out, err := d.client.Shell(ctx, "wm", "size")
	if err != nil {
		return 0, 0, err
	}
	// Override size, when present, follows the physical line and is what
	// the device actually renders at.
	all := screenSizePattern.FindAllStringSubmatch(out, -1)
	if len(all) == 0 {
		return 0, 0, fmt.Errorf("unparsable wm size output: %q", out)
	}
	m := all[len(all)-1]
	d.width, _ = strconv.Atoi(m[1])
	d.height, _ = strconv.Atoi(m[2])
	return d.width, d.height, nil
}

// CurrentApp returns the package of the focused window, or "" when it
// cannot be determined.
func (d *Driver) CurrentApp(ctx context.Context) (string, error) {
	out, err := d.client.Shell(ctx, "dumpsys", "window", "windows")
	if err != nil {
		return "", err
	}
	if m := currentFocusPattern.FindStringSubmatch(out); m != nil && strings.Contains(m[1], ".") {
		return m[1], nil
	}
	return "", nil
}

// Screenshot captures the screen to a local file.
func (d *Driver) Screenshot(ctx context.Context, dest string) error {
	if _, err := d.client.Shell(ctx, "screencap", "-p", deviceScreenshotPath); err != nil {
		return fmt.Errorf("screencap: %w", err)
	}
	if _, err := d.client.Run(ctx, "pull", deviceScreenshotPath, dest); err != nil {
		return fmt.Errorf("pull screenshot: %w", err)
	}
	_, _ = d.client.Shell(ctx, "rm", deviceScreenshotPath)
	return nil
}
