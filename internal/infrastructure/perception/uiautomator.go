// Package perception locates on-screen elements by dumping the view
// hierarchy through uiautomator and matching node text.
package perception

import (
	"context"
	"encoding/xml"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/doeshing/droidai/internal/infrastructure/adb"
	"github.com/doeshing/droidai/internal/ports"
)

const deviceDumpPath = "/sdcard/droidai_window.xml"

var boundsPattern = regexp.MustCompile(`\[(\d+),(\d+)\]\[(\d+),(\d+)\]`)

type uiNode struct {
	Text        string   `xml:"text,attr"`
	ContentDesc string   `xml:"content-desc,attr"`
	ResourceID  string   `xml:"resource-id,attr"`
	Bounds      string   `xml:"bounds,attr"`
	Clickable   string   `xml:"clickable,attr"`
	Nodes       []uiNode `xml:"node"`
}

type hierarchy struct {
	Nodes []uiNode `xml:"node"`
}

// element is one matchable node flattened out of the hierarchy.
type element struct {
	label     string
	x, y      int
	clickable bool
}

// UIAutomator implements ports.Perception via the device's accessibility
// tree. It sees what a screen reader sees, which covers native UIs well
// and games not at all.
type UIAutomator struct {
	client *adb.Client
	logger ports.Logger
}

var _ ports.Perception = (*UIAutomator)(nil)

func NewUIAutomator(client *adb.Client, logger ports.Logger) *UIAutomator {
	return &UIAutomator{client: client, logger: logger}
}

// FindElement locates the element best matching query. position selects
// the N-th match in screen order (1-based, -1 for last, 0 for best).
func (u *UIAutomator) FindElement(ctx context.Context, query string, position int) (int, int, bool, error) {
	elements, err := u.snapshot(ctx)
	if err != nil {
		return 0, 0, false, err
	}

	query = strings.ToLower(strings.TrimSpace(query))
	var matches []element
	for _, el := range elements {
		if strings.Contains(el.label, query) {
			matches = append(matches, el)
		}
	}
	if len(matches) == 0 {
		return 0, 0, false, nil
	}

	switch {
	case position == -1:
		el := matches[len(matches)-1]
		return el.x, el.y, true, nil
	case position >= 1:
		if position > len(matches) {
			return 0, 0, false, nil
		}
		el := matches[position-1]
		return el.x, el.y, true, nil
	default:
		el := pickBest(matches, query)
		return el.x, el.y, true, nil
	}
}

// pickBest prefers an exact label, then a clickable node; both beat plain
// document order.
func pickBest(matches []element, query string) element {
	for _, el := range matches {
		if el.label == query {
			return el
		}
	}
	for _, el := range matches {
		if el.clickable {
			return el
		}
	}
	return matches[0]
}

// DescribeScreen summarizes visible labeled elements, one per line.
func (u *UIAutomator) DescribeScreen(ctx context.Context) (string, error) {
	elements, err := u.snapshot(ctx)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	seen := map[string]struct{}{}
	for _, el := range elements {
		if el.label == "" {
			continue
		}
		if _, dup := seen[el.label]; dup {
			continue
		}
		seen[el.label] = struct{}{}
		if el.clickable {
			fmt.Fprintf(&b, "[tap] %s\n", el.label)
		} else {
			fmt.Fprintf(&b, "      %s\n", el.label)
		}
	}
	if b.Len() == 0 {
		return "no labeled elements visible", nil
	}
	return strings.TrimRight(b.String(), "\n"), nil
}

// snapshot dumps and parses the current view hierarchy.
func (u *UIAutomator) snapshot(ctx context.Context) ([]element, error) {
	if _, err := u.client.Shell(ctx, "uiautomator", "dump", deviceDumpPath); err != nil {
		return nil, fmt.Errorf("uiautomator dump: %w", err)
	}
	raw, err := u.client.Shell(ctx, "cat", deviceDumpPath)
	if err != nil {
		return nil, fmt.Errorf("read ui dump: %w", err)
	}
	return parseHierarchy(raw)
}

func parseHierarchy(raw string) ([]element, error) {
	var h hierarchy
	if err := xml.Unmarshal([]byte(raw), &h); err != nil {
		return nil, fmt.Errorf("parse ui dump: %w", err)
	}
	var out []element
	for _, n := range h.Nodes {
		collect(n, &out)
	}
	return out, nil
}

func collect(n uiNode, out *[]element) {
	label := strings.ToLower(strings.TrimSpace(n.Text))
	if label == "" {
		label = strings.ToLower(strings.TrimSpace(n.ContentDesc))
	}
	if label == "" {
		// Fall back to the id's trailing segment: "com.app:id/send_button"
		// still identifies the element as "send button".
		if idx := strings.LastIndex(n.ResourceID, "/"); idx >= 0 {
			label = strings.ReplaceAll(strings.ToLower(n.ResourceID[idx+1:]), "_", " ")
		}
	}

	if label != "" {
		if x, y, ok := centerOf(n.Bounds); ok {
			*out = append(*out, element{
				label:     label,
				x:         x,
				y:         y,
				clickable: n.Clickable == "true",
			})
		}
	}
	for _, child := range n.Nodes {
		collect(child, out)
	}
}

func centerOf(bounds string) (int, int, bool) {
	m := boundsPattern.FindStringSubmatch(bounds)
	if m == nil {
		return 0, 0, false
	}
	x1, _ := strconv.Atoi(m[1])
	y1, _ := strconv.Atoi(m[2])
	x2, _ := strconv.Atoi(m[3])
	y2, _ := strconv.Atoi(m[4])
	if x2 <= x1 || y2 <= y1 {
		return 0, 0, false
	}
	return (x1 + x2) / 2, (y1 + y2) / 2, true
}
