package cli

import (
	"testing"

	"gopkg.in/yaml.v3"
)

func parseTree(t *testing.T, doc string) map[string]interface{} {
	t.Helper()
	tree := map[string]interface{}{}
	if err := yaml.Unmarshal([]byte(doc), &tree); err != nil {
		t.Fatalf("yaml: %v", err)
	}
	return tree
}

func TestConfigValueAt(t *testing.T) {
	tree := parseTree(t, "intent:\n  top_k: 5\n  cache_path: ~/x.json\ndebug: true\n")

	if v, ok := configValueAt(tree, "intent.top_k"); !ok || v != 5 {
		t.Fatalf("intent.top_k = %v, %v", v, ok)
	}
	if v, ok := configValueAt(tree, "debug"); !ok || v != true {
		t.Fatalf("debug = %v, %v", v, ok)
	}
	if _, ok := configValueAt(tree, "intent.missing"); ok {
		t.Fatal("missing key reported present")
	}
	if _, ok := configValueAt(tree, "intent.top_k.deeper"); ok {
		t.Fatal("descended through a scalar")
	}
}

func TestSetConfigValue(t *testing.T) {
	tree := parseTree(t, "intent:\n  top_k: 5\n")

	if err := setConfigValue(tree, "intent.top_k", 9); err != nil {
		t.Fatalf("set existing: %v", err)
	}
	if v, _ := configValueAt(tree, "intent.top_k"); v != 9 {
		t.Fatalf("top_k = %v, want 9", v)
	}

	if err := setConfigValue(tree, "device.adb_path", "/opt/adb"); err != nil {
		t.Fatalf("set new section: %v", err)
	}
	if v, _ := configValueAt(tree, "device.adb_path"); v != "/opt/adb" {
		t.Fatalf("adb_path = %v", v)
	}

	if err := setConfigValue(tree, "intent.top_k.deeper", 1); err == nil {
		t.Fatal("set through a scalar did not fail")
	}
}
