package shortcuts

import (
	"path/filepath"
	"reflect"
	"testing"
)

type nopLogger struct{}

func (nopLogger) Debug(string, map[string]interface{})        {}
func (nopLogger) Info(string, map[string]interface{})         {}
func (nopLogger) Warn(string, map[string]interface{})         {}
func (nopLogger) Error(string, error, map[string]interface{}) {}

func TestTeachResolveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shortcuts.json")
	s := NewFileStore(path, nopLogger{})

	if err := s.Teach("Insta", "com.instagram.android", "instagram"); err != nil {
		t.Fatalf("Teach: %v", err)
	}

	pkg, ok := s.Resolve("insta")
	if !ok || pkg != "com.instagram.android" {
		t.Fatalf("Resolve = %q %v", pkg, ok)
	}

	// Persisted across reopen.
	reloaded := NewFileStore(path, nopLogger{})
	if pkg, ok := reloaded.Resolve("INSTA"); !ok || pkg != "com.instagram.android" {
		t.Fatalf("reloaded Resolve = %q %v", pkg, ok)
	}
}

func TestForget(t *testing.T) {
	s := NewFileStore(filepath.Join(t.TempDir(), "shortcuts.json"), nopLogger{})
	if err := s.Teach("insta", "com.instagram.android", ""); err != nil {
		t.Fatalf("Teach: %v", err)
	}
	if !s.Forget("insta") {
		t.Fatal("Forget = false")
	}
	if s.Forget("insta") {
		t.Fatal("second Forget = true")
	}
	if _, ok := s.Resolve("insta"); ok {
		t.Fatal("Resolve found forgotten shortcut")
	}
}

func TestAliasesFor(t *testing.T) {
	s := NewFileStore(filepath.Join(t.TempDir(), "shortcuts.json"), nopLogger{})
	for _, alias := range []string{"insta", "ig", "gram"} {
		if err := s.Teach(alias, "com.instagram.android", ""); err != nil {
			t.Fatalf("Teach(%q): %v", alias, err)
		}
	}
	if err := s.Teach("wa", "com.whatsapp", ""); err != nil {
		t.Fatalf("Teach: %v", err)
	}

	got := s.AliasesFor("com.instagram.android")
	want := []string{"gram", "ig", "insta"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("AliasesFor = %v, want %v", got, want)
	}
}

func TestTeachRequiresPackage(t *testing.T) {
	s := NewFileStore(filepath.Join(t.TempDir(), "shortcuts.json"), nopLogger{})
	if err := s.Teach("insta", "", ""); err == nil {
		t.Fatal("Teach accepted empty package")
	}
}
