// Package dispatch executes resolved commands against the device and
// routes teaching commands back into the learning stores.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/doeshing/droidai/internal/application/intent"
	"github.com/doeshing/droidai/internal/domain"
	"github.com/doeshing/droidai/internal/ports"
)

// ErrExit signals that the user asked to end the session.
var ErrExit = errors.New("session exit requested")

// maxStepDepth bounds multi-step recursion; a step that resolves to
// another MULTI_STEP is almost certainly a loop.
const maxStepDepth = 2

var ordinalPrefixPattern = regexp.MustCompile(`^(first|second|third|fourth|fifth|last|(\d+)(?:st|nd|rd|th))\s+(.+)$`)

var mediaKeycodes = map[domain.Action]string{
	domain.ActionMediaPlay:      "KEYCODE_MEDIA_PLAY",
	domain.ActionMediaPause:     "KEYCODE_MEDIA_PAUSE",
	domain.ActionMediaPlayPause: "KEYCODE_MEDIA_PLAY_PAUSE",
	domain.ActionMediaNext:      "KEYCODE_MEDIA_NEXT",
	domain.ActionMediaPrevious:  "KEYCODE_MEDIA_PREVIOUS",
}

// Executor turns one resolved Command into device operations.
type Executor struct {
	engine     *intent.Engine
	driver     ports.DeviceDriver
	catalog    ports.AppCatalog
	perception ports.Perception
	shortcuts  ports.ShortcutStore
	logger     ports.Logger

	// Confirm gates destructive commands. nil means always proceed.
	Confirm func(prompt string) bool

	// ScreenshotDir receives SCREENSHOT captures.
	ScreenshotDir string

	lastTaught *domain.Resolution
}

// NewExecutor wires an Executor.
func NewExecutor(engine *intent.Engine, driver ports.DeviceDriver, catalog ports.AppCatalog,
	perception ports.Perception, shortcuts ports.ShortcutStore, logger ports.Logger) *Executor {
	return &Executor{
		engine:     engine,
		driver:     driver,
		catalog:    catalog,
		perception: perception,
		shortcuts:  shortcuts,
		logger:     logger,
	}
}

// Execute runs one command and returns a user-facing message. Executed
// device commands are kept as the TEACH_LAST target; bookkeeping commands
// are not, so "call that X" right after listing mappings still names the
// last real action.
func (e *Executor) Execute(ctx context.Context, res *domain.Resolution) (string, error) {
	msg, err := e.execute(ctx, res, 0)
	if err == nil {
		e.remember(res)
	}
	return msg, err
}

// metaActions never become teach-last targets.
var metaActions = map[domain.Action]struct{}{
	domain.ActionExit: {}, domain.ActionTeachLast: {}, domain.ActionTeachCustom: {},
	domain.ActionTeachShortcut: {}, domain.ActionForgetMapping: {},
	domain.ActionListMappings: {}, domain.ActionReindexApps: {},
}

func (e *Executor) execute(ctx context.Context, res *domain.Resolution, depth int) (string, error) {
	cmd := res.Command
	switch cmd.Action {

	case domain.ActionExit:
		return "bye", ErrExit

	case domain.ActionBack:
		return "back", e.driver.Back(ctx)
	case domain.ActionHome:
		return "home", e.driver.Home(ctx)
	case domain.ActionWake:
		return "awake", e.driver.Wake(ctx)

	case domain.ActionCloseAll:
		if !e.confirm("close all recent apps?") {
			return "cancelled", nil
		}
		return "closed all apps", e.driver.CloseAll(ctx)

	case domain.ActionCloseApp:
		pkg, err := e.driver.CurrentApp(ctx)
		if err != nil || pkg == "" {
			return "", fmt.Errorf("no foreground app to close")
		}
		if err := e.driver.ForceStop(ctx, pkg); err != nil {
			return "", err
		}
		return fmt.Sprintf("closed %s", pkg), e.driver.Home(ctx)

	case domain.ActionOpenApp:
		pkg, label, err := e.resolveApp(ctx, cmd.Query)
		if err != nil {
			return "", err
		}
		if err := e.driver.Launch(ctx, pkg); err != nil {
			return "", err
		}
		return fmt.Sprintf("opened %s", label), nil

	case domain.ActionFindApp:
		return e.findApp(ctx, cmd.Query)

	case domain.ActionReindexApps:
		n, err := e.catalog.Reindex(ctx)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("indexed %d apps", n), nil

	case domain.ActionTap:
		if !cmd.HasPoint() {
			return "", fmt.Errorf("tap needs coordinates, try \"tap 540 1200\"")
		}
		return fmt.Sprintf("tapped %d %d", cmd.X, cmd.Y), e.driver.Tap(ctx, cmd.X, cmd.Y)

	case domain.ActionTypeText:
		return "typed", e.driver.TypeText(ctx, cmd.Text)

	case domain.ActionTypeAndSend:
		if err := e.driver.TypeText(ctx, cmd.Text); err != nil {
			return "", err
		}
		if err := e.tapElement(ctx, "send", 0); err != nil {
			return "", err
		}
		return "typed and sent", nil

	case domain.ActionTapSend:
		return "sent", e.tapElement(ctx, "send", 0)

	case domain.ActionTypeAndEnter:
		if err := e.driver.TypeText(ctx, cmd.Text); err != nil {
			return "", err
		}
		return "typed and submitted", e.driver.Keyevent(ctx, "KEYCODE_ENTER")

	case domain.ActionSendMessage:
		return e.sendMessage(ctx, cmd)

	case domain.ActionSearchInApp:
		return e.searchInApp(ctx, cmd)

	case domain.ActionOpenContentInApp:
		return e.openContent(ctx, cmd)

	case domain.ActionScroll:
		return e.scroll(ctx, cmd)

	case domain.ActionSwipe:
		return fmt.Sprintf("swiped %s", strings.ToLower(string(cmd.Direction))), e.driver.Swipe(ctx, cmd.Direction)

	case domain.ActionKeyevent:
		return "pressed", e.driver.Keyevent(ctx, cmd.Query)

	case domain.ActionMediaPlay, domain.ActionMediaPause, domain.ActionMediaPlayPause,
		domain.ActionMediaNext, domain.ActionMediaPrevious:
		return "media", e.driver.Keyevent(ctx, mediaKeycodes[cmd.Action])

	case domain.ActionVolumeUp:
		return e.volume(ctx, "KEYCODE_VOLUME_UP", cmd.Amount)
	case domain.ActionVolumeDown:
		return e.volume(ctx, "KEYCODE_VOLUME_DOWN", cmd.Amount)

	case domain.ActionBrightnessUp:
		return "brighter", e.driver.Keyevent(ctx, "KEYCODE_BRIGHTNESS_UP")
	case domain.ActionBrightnessDown:
		return "dimmer", e.driver.Keyevent(ctx, "KEYCODE_BRIGHTNESS_DOWN")

	case domain.ActionVisionQuery:
		position, target := splitOrdinal(cmd.Query)
		if err := e.tapElement(ctx, target, position); err != nil {
			return "", err
		}
		return fmt.Sprintf("tapped %q", target), nil

	case domain.ActionFindVisual:
		x, y, found, err := e.perception.FindElement(ctx, cmd.Query, 0)
		if err != nil {
			return "", err
		}
		if !found {
			return fmt.Sprintf("%q is not on the screen", cmd.Query), nil
		}
		return fmt.Sprintf("%q is at %d %d", cmd.Query, x, y), nil

	case domain.ActionScreenInfo:
		return e.perception.DescribeScreen(ctx)

	case domain.ActionScreenshot:
		dest, err := e.screenshotPath()
		if err != nil {
			return "", err
		}
		if err := e.driver.Screenshot(ctx, dest); err != nil {
			return "", err
		}
		return fmt.Sprintf("saved %s", dest), nil

	case domain.ActionMultiStep:
		return e.multiStep(ctx, cmd, depth)

	case domain.ActionTeachLast:
		return e.teachLast(cmd)

	case domain.ActionTeachCustom:
		return e.teachCustom(ctx, cmd)

	case domain.ActionTeachShortcut:
		return e.teachShortcut(ctx, cmd)

	case domain.ActionForgetMapping:
		return e.forget(cmd.Query)

	case domain.ActionListMappings:
		return e.listMappings()
	}

	return "", fmt.Errorf("unhandled action %s", cmd.Action)
}

func (e *Executor) confirm(prompt string) bool {
	if e.Confirm == nil {
		return true
	}
	return e.Confirm(prompt)
}

// remember keeps the last executed resolution for TEACH_LAST.
func (e *Executor) remember(res *domain.Resolution) {
	if _, meta := metaActions[res.Command.Action]; meta {
		return
	}
	e.lastTaught = res
}

// resolveApp checks user shortcuts before the catalog, so taught aliases
// always win.
func (e *Executor) resolveApp(ctx context.Context, name string) (string, string, error) {
	if pkg, ok := e.shortcuts.Resolve(name); ok {
		return pkg, name, nil
	}
	return e.catalog.Resolve(ctx, name)
}

func (e *Executor) findApp(ctx context.Context, name string) (string, error) {
	candidates, err := e.catalog.Candidates(ctx, name, 5)
	if err != nil {
		return "", err
	}
	if len(candidates) == 0 {
		return fmt.Sprintf("no app matches %q", name), nil
	}
	var b strings.Builder
	for _, c := range candidates {
		fmt.Fprintf(&b, "%s  (%s)\n", c.Label, c.Package)
	}
	return strings.TrimRight(b.String(), "\n"), nil
}

func (e *Executor) tapElement(ctx context.Context, query string, position int) error {
	x, y, found, err := e.perception.FindElement(ctx, query, position)
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("could not find %q on the screen", query)
	}
	return e.driver.Tap(ctx, x, y)
}

// sendMessage opens the messaging app, picks the conversation, types and
// sends. Each stage is best-effort against whatever screen the app lands
// on; perception failures abort with a precise message.
func (e *Executor) sendMessage(ctx context.Context, cmd domain.Command) (string, error) {
	pkg, _, err := e.resolveApp(ctx, cmd.Package)
	if err != nil {
		return "", fmt.Errorf("messaging app: %w", err)
	}
	if err := e.driver.Launch(ctx, pkg); err != nil {
		return "", err
	}
	time.Sleep(1500 * time.Millisecond) // let the app draw

	if cmd.Query != "" {
		if err := e.tapElement(ctx, cmd.Query, 0); err != nil {
			return "", fmt.Errorf("contact: %w", err)
		}
	}
	if cmd.Text == "" {
		return fmt.Sprintf("opened chat with %s", cmd.Query), nil
	}
	if err := e.driver.TypeText(ctx, cmd.Text); err != nil {
		return "", err
	}
	if err := e.tapElement(ctx, "send", 0); err != nil {
		return "", err
	}
	return fmt.Sprintf("sent %q to %s", cmd.Text, cmd.Query), nil
}

func (e *Executor) searchInApp(ctx context.Context, cmd domain.Command) (string, error) {
	target := "current app"
	if cmd.Text != "" {
		pkg, label, err := e.resolveApp(ctx, cmd.Text)
		if err != nil {
			return "", err
		}
		if err := e.driver.Launch(ctx, pkg); err != nil {
			return "", err
		}
		time.Sleep(1500 * time.Millisecond)
		target = label
	}

	if err := e.tapElement(ctx, "search", 0); err != nil {
		return "", err
	}
	if err := e.driver.TypeText(ctx, cmd.Query); err != nil {
		return "", err
	}
	if err := e.driver.Keyevent(ctx, "KEYCODE_ENTER"); err != nil {
		return "", err
	}
	return fmt.Sprintf("searched %q in %s", cmd.Query, target), nil
}

func (e *Executor) openContent(ctx context.Context, cmd domain.Command) (string, error) {
	searched, err := e.searchInApp(ctx, cmd)
	if err != nil {
		return "", err
	}
	time.Sleep(1500 * time.Millisecond) // results need a beat to render

	position := cmd.Amount
	if position == 1 {
		position = 0 // best match, not strictly the first node
	}
	if err := e.tapElement(ctx, cmd.Query, position); err != nil {
		return searched + "; could not open a result", nil
	}
	return fmt.Sprintf("opened %q", cmd.Query), nil
}

func (e *Executor) scroll(ctx context.Context, cmd domain.Command) (string, error) {
	repeat := cmd.Amount
	if repeat < 1 {
		repeat = 1
	}
	if repeat > domain.MaxScrollRepeat {
		repeat = domain.MaxScrollRepeat
	}
	for i := 0; i < repeat; i++ {
		if err := e.driver.Scroll(ctx, cmd.Direction); err != nil {
			return "", err
		}
	}
	return fmt.Sprintf("scrolled %s", strings.ToLower(string(cmd.Direction))), nil
}

func (e *Executor) volume(ctx context.Context, keycode string, steps int) (string, error) {
	if steps < 1 {
		steps = 1
	}
	if steps > domain.MaxVolumeSteps {
		steps = domain.MaxVolumeSteps
	}
	for i := 0; i < steps; i++ {
		if err := e.driver.Keyevent(ctx, keycode); err != nil {
			return "", err
		}
	}
	return fmt.Sprintf("volume %d steps", steps), nil
}

func (e *Executor) multiStep(ctx context.Context, cmd domain.Command, depth int) (string, error) {
	if depth >= maxStepDepth {
		return "", fmt.Errorf("multi-step commands cannot nest")
	}

	var messages []string
	for _, step := range cmd.Steps() {
		res := e.engine.Understand(ctx, step)
		if res == nil {
			messages = append(messages, fmt.Sprintf("did not understand %q", step))
			continue
		}
		msg, err := e.execute(ctx, res, depth+1)
		if err != nil {
			return strings.Join(messages, "; "), fmt.Errorf("step %q: %w", step, err)
		}
		messages = append(messages, msg)
		time.Sleep(800 * time.Millisecond) // settle between steps
	}
	return strings.Join(messages, "; "), nil
}

func (e *Executor) teachLast(cmd domain.Command) (string, error) {
	if e.lastTaught == nil {
		return "nothing recent to teach", nil
	}
	if cmd.Query == "" {
		return "say: call that <phrase>", nil
	}
	last := e.lastTaught.Command
	slots := domain.Slots{}
	if last.Action == domain.ActionOpenApp {
		slots.App = last.Query
	}
	if err := e.engine.TeachAction(cmd.Query, last.Action, slots); err != nil {
		return "", err
	}
	return fmt.Sprintf("learned %q -> %s", cmd.Query, last.Action), nil
}

func (e *Executor) teachCustom(ctx context.Context, cmd domain.Command) (string, error) {
	target := e.engine.Understand(ctx, cmd.Text)
	if target == nil {
		return "", fmt.Errorf("cannot teach %q: %q itself is not understood", cmd.Query, cmd.Text)
	}
	slots := domain.Slots{}
	if target.Command.Action == domain.ActionOpenApp {
		slots.App = target.Command.Query
	}
	if err := e.engine.TeachAction(cmd.Query, target.Command.Action, slots); err != nil {
		return "", err
	}
	return fmt.Sprintf("learned %q -> %s", cmd.Query, target.Command.Action), nil
}

func (e *Executor) teachShortcut(ctx context.Context, cmd domain.Command) (string, error) {
	pkg, err := e.driver.CurrentApp(ctx)
	if err != nil || pkg == "" {
		return "", fmt.Errorf("open the app first, then teach the shortcut")
	}
	if err := e.shortcuts.Teach(cmd.Query, pkg, ""); err != nil {
		return "", err
	}
	return fmt.Sprintf("learned %q -> %s", cmd.Query, pkg), nil
}

func (e *Executor) forget(phrase string) (string, error) {
	forgotten := e.engine.ForgetAction(phrase)
	if e.shortcuts.Forget(phrase) {
		forgotten = true
	}
	if !forgotten {
		return fmt.Sprintf("nothing learned for %q", phrase), nil
	}
	return fmt.Sprintf("forgot %q", phrase), nil
}

func (e *Executor) listMappings() (string, error) {
	var b strings.Builder

	learned := e.engine.Learned()
	if len(learned) > 0 {
		b.WriteString("learned phrases:\n")
		for _, entry := range learned {
			fmt.Fprintf(&b, "  %q -> %s (%s)\n", entry.Phrase, entry.Action, entry.Source)
		}
	}

	mappings := e.shortcuts.Mappings()
	if len(mappings) > 0 {
		aliases := make([]string, 0, len(mappings))
		for alias := range mappings {
			aliases = append(aliases, alias)
		}
		sort.Strings(aliases)
		b.WriteString("app shortcuts:\n")
		for _, alias := range aliases {
			fmt.Fprintf(&b, "  %q -> %s\n", alias, mappings[alias])
		}
	}

	if b.Len() == 0 {
		return "nothing learned yet", nil
	}
	return strings.TrimRight(b.String(), "\n"), nil
}

// screenshotPath builds the capture destination, creating the directory
// on first use; adb pull does not create parents.
func (e *Executor) screenshotPath() (string, error) {
	dir := e.ScreenshotDir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, domain.DirectoryPermissions); err != nil {
		return "", fmt.Errorf("screenshot dir: %w", err)
	}
	return filepath.Join(dir, fmt.Sprintf("droidai_%s.png", time.Now().Format("20060102_150405"))), nil
}

// splitOrdinal peels a leading ordinal off a vision target: "4th mail"
// becomes (4, "mail"). position 0 means best match.
func splitOrdinal(query string) (int, string) {
	m := ordinalPrefixPattern.FindStringSubmatch(strings.ToLower(strings.TrimSpace(query)))
	if m == nil {
		return 0, query
	}
	switch m[1] {
	case "first":
		return 1, m[3]
	case "second":
		return 2, m[3]
	case "third":
		return 3, m[3]
	case "fourth":
		return 4, m[3]
	case "fifth":
		return 5, m[3]
	case "last":
		return -1, m[3]
	}
	if n, err := strconv.Atoi(m[2]); err == nil && n > 0 {
		return n, m[3]
	}
	return 0, query
}
