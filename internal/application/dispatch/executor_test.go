package dispatch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/doeshing/droidai/internal/application/intent"
	"github.com/doeshing/droidai/internal/domain"
	"github.com/doeshing/droidai/internal/ports"
)

type nopLogger struct{}

func (nopLogger) Debug(string, map[string]interface{})        {}
func (nopLogger) Info(string, map[string]interface{})         {}
func (nopLogger) Warn(string, map[string]interface{})         {}
func (nopLogger) Error(string, error, map[string]interface{}) {}

// fakeDriver records every primitive call.
type fakeDriver struct {
	calls      []string
	foreground string
}

func (d *fakeDriver) log(format string, args ...interface{}) {
	d.calls = append(d.calls, fmt.Sprintf(format, args...))
}

func (d *fakeDriver) Launch(_ context.Context, pkg string) error    { d.log("launch %s", pkg); return nil }
func (d *fakeDriver) ForceStop(_ context.Context, pkg string) error { d.log("stop %s", pkg); return nil }
func (d *fakeDriver) Tap(_ context.Context, x, y int) error         { d.log("tap %d %d", x, y); return nil }
func (d *fakeDriver) TypeText(_ context.Context, text string) error { d.log("type %s", text); return nil }
func (d *fakeDriver) Scroll(_ context.Context, dir domain.Direction) error {
	d.log("scroll %s", dir)
	return nil
}
func (d *fakeDriver) Swipe(_ context.Context, dir domain.Direction) error {
	d.log("swipe %s", dir)
	return nil
}
func (d *fakeDriver) Keyevent(_ context.Context, code string) error { d.log("key %s", code); return nil }
func (d *fakeDriver) Wake(context.Context) error                    { d.log("wake"); return nil }
func (d *fakeDriver) Back(context.Context) error                    { d.log("back"); return nil }
func (d *fakeDriver) Home(context.Context) error                    { d.log("home"); return nil }
func (d *fakeDriver) CloseAll(context.Context) error                { d.log("closeall"); return nil }
func (d *fakeDriver) ScreenSize(context.Context) (int, int, error)  { return 1080, 2340, nil }
func (d *fakeDriver) CurrentApp(context.Context) (string, error)    { return d.foreground, nil }
func (d *fakeDriver) Screenshot(_ context.Context, dest string) error {
	d.log("screenshot %s", dest)
	return nil
}

func (d *fakeDriver) count(prefix string) int {
	n := 0
	for _, c := range d.calls {
		if strings.HasPrefix(c, prefix) {
			n++
		}
	}
	return n
}

type fakeCatalog struct{}

func (fakeCatalog) Resolve(_ context.Context, name string) (string, string, error) {
	if name == "chrome" {
		return "com.android.chrome", "chrome", nil
	}
	if name == "whatsapp" {
		return "com.whatsapp", "whatsapp", nil
	}
	return "", "", fmt.Errorf("no match for %q", name)
}
func (fakeCatalog) Candidates(_ context.Context, name string, limit int) ([]ports.AppCandidate, error) {
	return []ports.AppCandidate{{Package: "com.android.chrome", Label: "chrome", Score: 10}}, nil
}
func (fakeCatalog) Reindex(context.Context) (int, error) { return 42, nil }

type fakePerception struct {
	found map[string][2]int
}

func (p *fakePerception) FindElement(_ context.Context, query string, position int) (int, int, bool, error) {
	if xy, ok := p.found[strings.ToLower(query)]; ok {
		return xy[0], xy[1], true, nil
	}
	return 0, 0, false, nil
}
func (p *fakePerception) DescribeScreen(context.Context) (string, error) { return "[tap] send", nil }

type fakeShortcuts struct {
	taught map[string]string
}

func (s *fakeShortcuts) Teach(shortcut, pkg, _ string) error {
	if s.taught == nil {
		s.taught = map[string]string{}
	}
	s.taught[shortcut] = pkg
	return nil
}
func (s *fakeShortcuts) Forget(shortcut string) bool {
	if _, ok := s.taught[shortcut]; !ok {
		return false
	}
	delete(s.taught, shortcut)
	return true
}
func (s *fakeShortcuts) Resolve(shortcut string) (string, bool) {
	pkg, ok := s.taught[shortcut]
	return pkg, ok
}
func (s *fakeShortcuts) Mappings() map[string]string { return s.taught }
func (s *fakeShortcuts) AliasesFor(string) []string  { return nil }

type memStore struct {
	entries map[string]domain.LearnedEntry
}

func (s *memStore) Lookup(p string) (domain.LearnedEntry, bool) { e, ok := s.entries[p]; return e, ok }
func (s *memStore) Store(e domain.LearnedEntry) error           { s.entries[e.Phrase] = e; return nil }
func (s *memStore) Forget(p string) bool {
	if _, ok := s.entries[p]; !ok {
		return false
	}
	delete(s.entries, p)
	return true
}
func (s *memStore) Entries() []domain.LearnedEntry { return nil }
func (s *memStore) IndexPairs() []domain.IndexPair {
	var pairs []domain.IndexPair
	for p := range s.entries {
		pairs = append(pairs, domain.IndexPair{Label: domain.CachedLabel(p), Phrase: p})
	}
	return pairs
}
func (s *memStore) Count() int { return len(s.entries) }

type unavailableClassifier struct{}

func (unavailableClassifier) Available() bool { return false }
func (unavailableClassifier) Classify(context.Context, string) (*ports.Classification, error) {
	return nil, nil
}

func newTestExecutor() (*Executor, *fakeDriver, *fakeShortcuts) {
	driver := &fakeDriver{foreground: "com.instagram.android"}
	shortcuts := &fakeShortcuts{}
	engine := intent.NewEngine(domain.IntentConfig{}, "whatsapp",
		&memStore{entries: map[string]domain.LearnedEntry{}}, unavailableClassifier{}, nopLogger{})
	perception := &fakePerception{found: map[string][2]int{
		"send":   {900, 2200},
		"search": {1000, 100},
		"anna":   {500, 700},
	}}
	exec := NewExecutor(engine, driver, fakeCatalog{}, perception, shortcuts, nopLogger{})
	return exec, driver, shortcuts
}

func run(t *testing.T, e *Executor, action domain.Action, mutate func(*domain.Command)) (string, error) {
	t.Helper()
	cmd := domain.NewCommand(action)
	if mutate != nil {
		mutate(&cmd)
	}
	return e.Execute(context.Background(), &domain.Resolution{Command: cmd, Tier: domain.TierMatch})
}

func TestVolumeClampsSteps(t *testing.T) {
	e, driver, _ := newTestExecutor()
	_, err := run(t, e, domain.ActionVolumeUp, func(c *domain.Command) { c.Amount = 99 })
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if got := driver.count("key KEYCODE_VOLUME_UP"); got != domain.MaxVolumeSteps {
		t.Fatalf("keyevents = %d, want %d", got, domain.MaxVolumeSteps)
	}
}

func TestScrollRepeatsAndClamps(t *testing.T) {
	e, driver, _ := newTestExecutor()
	_, err := run(t, e, domain.ActionScroll, func(c *domain.Command) {
		c.Direction = domain.DirectionDown
		c.Amount = 3
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if got := driver.count("scroll"); got != 3 {
		t.Fatalf("scrolls = %d, want 3", got)
	}

	_, _ = run(t, e, domain.ActionScroll, func(c *domain.Command) {
		c.Direction = domain.DirectionDown
		c.Amount = 50
	})
	if got := driver.count("scroll"); got != 3+domain.MaxScrollRepeat {
		t.Fatalf("scrolls = %d, want %d", got, 3+domain.MaxScrollRepeat)
	}
}

func TestTapRequiresCoordinates(t *testing.T) {
	e, _, _ := newTestExecutor()
	if _, err := run(t, e, domain.ActionTap, nil); err == nil {
		t.Fatal("Execute accepted a tap without coordinates")
	}
}

func TestVisionQuerySplitsOrdinal(t *testing.T) {
	position, target := splitOrdinal("4th mail")
	if position != 4 || target != "mail" {
		t.Fatalf("splitOrdinal = %d %q", position, target)
	}
	position, target = splitOrdinal("last message")
	if position != -1 || target != "message" {
		t.Fatalf("splitOrdinal = %d %q", position, target)
	}
	position, target = splitOrdinal("send button")
	if position != 0 || target != "send button" {
		t.Fatalf("splitOrdinal = %d %q", position, target)
	}
}

func TestSendMessageSequence(t *testing.T) {
	e, driver, _ := newTestExecutor()
	_, err := run(t, e, domain.ActionSendMessage, func(c *domain.Command) {
		c.Package = "whatsapp"
		c.Query = "anna"
		c.Text = "hello"
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	want := []string{"launch com.whatsapp", "tap 500 700", "type hello", "tap 900 2200"}
	if len(driver.calls) != len(want) {
		t.Fatalf("calls = %v, want %v", driver.calls, want)
	}
	for i := range want {
		if driver.calls[i] != want[i] {
			t.Fatalf("call %d = %q, want %q", i, driver.calls[i], want[i])
		}
	}
}

func TestMultiStepExecutesEachStep(t *testing.T) {
	e, driver, _ := newTestExecutor()
	_, err := run(t, e, domain.ActionMultiStep, func(c *domain.Command) {
		c.Query = "open chrome" + domain.MultiStepSeparator + "volume up"
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if driver.count("launch com.android.chrome") != 1 {
		t.Fatalf("chrome not launched: %v", driver.calls)
	}
	if driver.count("key KEYCODE_VOLUME_UP") != domain.DefaultVolumeSteps {
		t.Fatalf("volume steps missing: %v", driver.calls)
	}
}

func TestTeachShortcutUsesForegroundApp(t *testing.T) {
	e, _, shortcuts := newTestExecutor()
	msg, err := run(t, e, domain.ActionTeachShortcut, func(c *domain.Command) { c.Query = "insta" })
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if shortcuts.taught["insta"] != "com.instagram.android" {
		t.Fatalf("taught = %v (%s)", shortcuts.taught, msg)
	}
}

func TestShortcutBeatsCatalog(t *testing.T) {
	e, driver, shortcuts := newTestExecutor()
	_ = shortcuts.Teach("chrome", "com.custom.browser", "")

	_, err := run(t, e, domain.ActionOpenApp, func(c *domain.Command) { c.Query = "chrome" })
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if driver.count("launch com.custom.browser") != 1 {
		t.Fatalf("shortcut ignored: %v", driver.calls)
	}
}

func TestExitReturnsSentinel(t *testing.T) {
	e, _, _ := newTestExecutor()
	if _, err := run(t, e, domain.ActionExit, nil); !errors.Is(err, ErrExit) {
		t.Fatalf("err = %v, want ErrExit", err)
	}
}

func TestScreenshotCreatesDestinationDir(t *testing.T) {
	e, driver, _ := newTestExecutor()
	dir := filepath.Join(t.TempDir(), "screenshots")
	e.ScreenshotDir = dir

	msg, err := run(t, e, domain.ActionScreenshot, nil)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		t.Fatalf("destination dir not created: %v", err)
	}
	if driver.count("screenshot "+dir) != 1 {
		t.Fatalf("capture not routed into %s: %v", dir, driver.calls)
	}
	if !strings.Contains(msg, dir) {
		t.Fatalf("reply %q does not name the destination", msg)
	}
}

func TestConfirmBlocksCloseAll(t *testing.T) {
	e, driver, _ := newTestExecutor()
	e.Confirm = func(string) bool { return false }
	msg, err := run(t, e, domain.ActionCloseAll, nil)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if msg != "cancelled" || driver.count("closeall") != 0 {
		t.Fatalf("close-all ran despite refusal: %q %v", msg, driver.calls)
	}
}

func TestTeachLastNamesPreviousCommand(t *testing.T) {
	e, _, _ := newTestExecutor()
	if _, err := run(t, e, domain.ActionOpenApp, func(c *domain.Command) { c.Query = "chrome" }); err != nil {
		t.Fatalf("open: %v", err)
	}

	msg, err := run(t, e, domain.ActionTeachLast, func(c *domain.Command) { c.Query = "browser time" })
	if err != nil {
		t.Fatalf("teach: %v", err)
	}
	if !strings.Contains(msg, string(domain.ActionOpenApp)) {
		t.Fatalf("reply = %q, want the learned action named", msg)
	}

	res := e.engine.Understand(context.Background(), "browser time")
	if res == nil || res.Tier != domain.TierCache || res.Command.Action != domain.ActionOpenApp {
		t.Fatalf("Understand = %+v, want cached OPEN_APP", res)
	}
	if res.Command.Query != "chrome" {
		t.Fatalf("app = %q, want the remembered app carried through", res.Command.Query)
	}
}

func TestTeachLastIgnoresBookkeepingCommands(t *testing.T) {
	e, _, _ := newTestExecutor()
	if _, err := run(t, e, domain.ActionHome, nil); err != nil {
		t.Fatalf("home: %v", err)
	}
	if _, err := run(t, e, domain.ActionListMappings, nil); err != nil {
		t.Fatalf("list: %v", err)
	}

	msg, err := run(t, e, domain.ActionTeachLast, func(c *domain.Command) { c.Query = "reset" })
	if err != nil {
		t.Fatalf("teach: %v", err)
	}
	if !strings.Contains(msg, string(domain.ActionHome)) {
		t.Fatalf("reply = %q, want HOME taught, not the listing", msg)
	}
}

func TestTeachLastWithNothingExecuted(t *testing.T) {
	e, _, _ := newTestExecutor()
	msg, err := run(t, e, domain.ActionTeachLast, func(c *domain.Command) { c.Query = "morning" })
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if msg != "nothing recent to teach" {
		t.Fatalf("reply = %q", msg)
	}
}
