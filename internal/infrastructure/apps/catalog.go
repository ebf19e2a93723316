// Package apps resolves human app names ("chrome", "the camera") to
// installable package identifiers. The index is built from the device's
// launcher activities and cached on disk so most lookups never touch adb.
package apps

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"

	"github.com/sahilm/fuzzy"

	"github.com/doeshing/droidai/internal/domain"
	"github.com/doeshing/droidai/internal/infrastructure/adb"
	"github.com/doeshing/droidai/internal/ports"
)

// systemFallbacks map common names straight to stock packages, covering
// devices where the launcher query misses system apps.
var systemFallbacks = map[string]string{
	"settings":   "com.android.settings",
	"camera":     "com.android.camera",
	"phone":      "com.android.dialer",
	"dialer":     "com.android.dialer",
	"messages":   "com.google.android.apps.messaging",
	"contacts":   "com.android.contacts",
	"calculator": "com.google.android.calculator",
	"clock":      "com.google.android.deskclock",
	"calendar":   "com.google.android.calendar",
	"files":      "com.google.android.documentsui",
	"photos":     "com.google.android.apps.photos",
	"gallery":    "com.google.android.apps.photos",
	"chrome":     "com.android.chrome",
	"play store": "com.android.vending",
	"gmail":      "com.google.android.gm",
	"maps":       "com.google.android.apps.maps",
	"youtube":    "com.google.android.youtube",
}

// labelNoise strips branding segments that users never say.
var labelNoise = map[string]struct{}{
	"android": {}, "google": {}, "apps": {}, "app": {}, "mobile": {}, "free": {},
}

// Catalog implements ports.AppCatalog.
type Catalog struct {
	client    *adb.Client
	cachePath string
	logger    ports.Logger

	mu     sync.RWMutex
	labels map[string]string // package -> spoken label
}

var _ ports.AppCatalog = (*Catalog)(nil)

// NewCatalog loads the label cache at cachePath; a missing or corrupt
// cache starts empty and is filled by the first Resolve.
func NewCatalog(client *adb.Client, cachePath string, logger ports.Logger) *Catalog {
	c := &Catalog{client: client, cachePath: cachePath, logger: logger, labels: map[string]string{}}
	data, err := os.ReadFile(cachePath)
	if err != nil {
		return c
	}
	if err := json.Unmarshal(data, &c.labels); err != nil {
		logger.Warn("app label cache corrupt, reindexing later", map[string]interface{}{
			"path": cachePath, "error": err.Error(),
		})
		c.labels = map[string]string{}
	}
	return c
}

// Resolve maps a spoken name to a package. Resolution order: exact label,
// substring, fuzzy rank, stock-app fallback.
func (c *Catalog) Resolve(ctx context.Context, name string) (string, string, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return "", "", fmt.Errorf("apps: empty name")
	}
	if err := c.ensureIndex(ctx); err != nil {
		// No index, but the fallback table may still serve stock apps.
		if pkg, ok := systemFallbacks[name]; ok {
			return pkg, name, nil
		}
		return "", "", err
	}

	c.mu.RLock()
	labels := c.labels
	c.mu.RUnlock()

	for pkg, label := range labels {
		if label == name {
			return pkg, label, nil
		}
	}
	for pkg, label := range labels {
		if strings.Contains(label, name) || strings.Contains(name, label) {
			return pkg, label, nil
		}
	}

	if ranked, err := c.Candidates(ctx, name, 1); err == nil && len(ranked) > 0 {
		return ranked[0].Package, ranked[0].Label, nil
	}

	if pkg, ok := systemFallbacks[name]; ok {
		return pkg, name, nil
	}
	return "", "", fmt.Errorf("apps: no match for %q", name)
}

// Candidates returns up to limit fuzzy-ranked matches.
func (c *Catalog) Candidates(ctx context.Context, name string, limit int) ([]ports.AppCandidate, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if err := c.ensureIndex(ctx); err != nil {
		return nil, err
	}

	c.mu.RLock()
	pkgs := make([]string, 0, len(c.labels))
	labelList := make([]string, 0, len(c.labels))
	for pkg, label := range c.labels {
		pkgs = append(pkgs, pkg)
		labelList = append(labelList, label)
	}
	c.mu.RUnlock()

	matches := fuzzy.Find(name, labelList)
	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}

	out := make([]ports.AppCandidate, 0, len(matches))
	for _, m := range matches {
		out = append(out, ports.AppCandidate{
			Package: pkgs[m.Index],
			Label:   m.Str,
			Score:   m.Score,
		})
	}
	return out, nil
}

// Reindex rebuilds the label index from the device's launcher activities
// and rewrites the cache. Returns the number of indexed apps.
func (c *Catalog) Reindex(ctx context.Context) (int, error) {
	out, err := c.client.Shell(ctx, "cmd", "package", "query-activities", "--brief",
		"-a", "android.intent.action.MAIN", "-c", "android.intent.category.LAUNCHER")
	if err != nil {
		return 0, fmt.Errorf("query launcher activities: %w", err)
	}

	c.mu.RLock()
	prior := c.labels
	c.mu.RUnlock()

	labels := map[string]string{}
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		slash := strings.Index(line, "/")
		if slash <= 0 || strings.ContainsAny(line, " \t") {
			continue
		}
		pkg := line[:slash]
		if label, ok := prior[pkg]; ok {
			labels[pkg] = label
			continue
		}
		labels[pkg] = c.labelFor(ctx, pkg)
	}
	if len(labels) == 0 {
		return 0, fmt.Errorf("no launcher activities found")
	}

	c.mu.Lock()
	c.labels = labels
	c.mu.Unlock()

	if err := c.flush(labels); err != nil {
		c.logger.Warn("app label cache write failed", map[string]interface{}{"error": err.Error()})
	}
	c.logger.Info("app index rebuilt", map[string]interface{}{"apps": len(labels)})
	return len(labels), nil
}

func (c *Catalog) ensureIndex(ctx context.Context) error {
	c.mu.RLock()
	empty := len(c.labels) == 0
	c.mu.RUnlock()
	if !empty {
		return nil
	}
	_, err := c.Reindex(ctx)
	return err
}

func (c *Catalog) flush(labels map[string]string) error {
	if err := os.MkdirAll(filepath.Dir(c.cachePath), domain.DirectoryPermissions); err != nil {
		return err
	}
	data, err := json.MarshalIndent(labels, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(c.cachePath, data, domain.DataFilePermissions)
}

// applicationLabelPattern matches the display label in dumpsys package
// output, including locale-suffixed variants like application-label-en-US.
var applicationLabelPattern = regexp.MustCompile(`application-label(?:-[a-zA-Z-]+)?:\s*(.+)`)

// labelFor asks the device for a package's real display label and falls
// back to a label derived from the package name when dumpsys has none.
func (c *Catalog) labelFor(ctx context.Context, pkg string) string {
	out, err := c.client.Shell(ctx, "dumpsys", "package", pkg)
	if err == nil {
		if label, ok := applicationLabel(out); ok {
			return label
		}
	}
	return labelFromPackage(pkg)
}

// applicationLabel extracts the first display label from a dumpsys
// package dump, lowercased for matching against spoken names.
func applicationLabel(dump string) (string, bool) {
	m := applicationLabelPattern.FindStringSubmatch(dump)
	if m == nil {
		return "", false
	}
	label := strings.ToLower(strings.TrimSpace(m[1]))
	if label == "" {
		return "", false
	}
	return label, true
}

// labelFromPackage derives a spoken label from a package identifier:
// "com.google.android.apps.photos" becomes "photos".
func labelFromPackage(pkg string) string {
	segments := strings.Split(strings.ToLower(pkg), ".")
	var kept []string
	for i, seg := range segments {
		if i == 0 {
			// TLD-style prefix (com, org, net, vendor name), never spoken.
			continue
		}
		if _, noise := labelNoise[seg]; noise {
			continue
		}
		kept = append(kept, seg)
	}
	if len(kept) == 0 {
		return strings.ToLower(pkg)
	}
	return strings.Join(kept, " ")
}
