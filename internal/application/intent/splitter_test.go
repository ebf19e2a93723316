package intent

import (
	"reflect"
	"testing"
)

func TestSplitCompoundTwoCommands(t *testing.T) {
	got := SplitCompound("open chrome and search cats")
	want := []string{"open chrome", "search cats"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("SplitCompound = %v, want %v", got, want)
	}
}

func TestSplitCompoundSeparatorPriority(t *testing.T) {
	// " and then " outranks the " and " inside the left half.
	got := SplitCompound("open chrome and settings and then go home")
	want := []string{"open chrome and settings", "go home"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("SplitCompound = %v, want %v", got, want)
	}
}

func TestSplitCompoundLoneModifierStays(t *testing.T) {
	for _, in := range []string{
		"write hello and send",
		"type urgent and enter",
		"type my name and submit",
	} {
		if got := SplitCompound(in); got != nil {
			t.Errorf("SplitCompound(%q) = %v, want nil", in, got)
		}
	}
}

func TestSplitCompoundBackReferenceStays(t *testing.T) {
	for _, in := range []string{
		"find the like button and tap it",
		"search for subscribe and click that",
	} {
		if got := SplitCompound(in); got != nil {
			t.Errorf("SplitCompound(%q) = %v, want nil", in, got)
		}
	}
}

func TestSplitCompoundNonCommandRightHalf(t *testing.T) {
	// "dogs" does not start a command, so the "and" is part of one search.
	if got := SplitCompound("search cats and dogs"); got != nil {
		t.Fatalf("SplitCompound = %v, want nil", got)
	}
}

func TestSplitCompoundNoSeparator(t *testing.T) {
	if got := SplitCompound("open chrome"); got != nil {
		t.Fatalf("SplitCompound = %v, want nil", got)
	}
}

func TestSplitCompoundPreservesCase(t *testing.T) {
	got := SplitCompound("Open Chrome then type Hello World")
	want := []string{"Open Chrome", "type Hello World"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("SplitCompound = %v, want %v", got, want)
	}
}
