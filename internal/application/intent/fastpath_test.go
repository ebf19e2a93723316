package intent

import (
	"testing"

	"github.com/doeshing/droidai/internal/domain"
)

func TestFastPathOrdinalWithVerb(t *testing.T) {
	cases := map[string]string{
		"tap on 4th mail":        "4th mail",
		"select the first video": "first video",
		"click 2nd result":       "2nd result",
		"open the last message":  "last message",
	}
	for in, want := range cases {
		cmd, ok := matchFastPath(in)
		if !ok {
			t.Errorf("matchFastPath(%q): no match", in)
			continue
		}
		if cmd.Action != domain.ActionVisionQuery || cmd.Query != want {
			t.Errorf("matchFastPath(%q) = %s %q, want VISION_QUERY %q", in, cmd.Action, cmd.Query, want)
		}
	}
}

func TestFastPathBareOrdinal(t *testing.T) {
	cmd, ok := matchFastPath("first video")
	if !ok || cmd.Action != domain.ActionVisionQuery || cmd.Query != "first video" {
		t.Fatalf("matchFastPath = %v %v", cmd, ok)
	}
}

func TestFastPathScreenSearch(t *testing.T) {
	cmd, ok := matchFastPath("search for the like button on the screen")
	if !ok || cmd.Action != domain.ActionVisionQuery || cmd.Query != "like" {
		t.Fatalf("matchFastPath = %s %q %v, want VISION_QUERY \"like\"", cmd.Action, cmd.Query, ok)
	}

	cmd, ok = matchFastPath("find subscribe and tap it")
	if !ok || cmd.Query != "subscribe" {
		t.Fatalf("matchFastPath = %q %v, want \"subscribe\"", cmd.Query, ok)
	}
}

func TestFastPathNoMatch(t *testing.T) {
	for _, in := range []string{
		"open chrome",
		"tap on the menu",
		"volume up",
		"",
	} {
		if _, ok := matchFastPath(in); ok {
			t.Errorf("matchFastPath(%q) matched, want no match", in)
		}
	}
}
