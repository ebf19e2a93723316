package match

import (
	"reflect"
	"testing"
)

func TestTokenizeLowercasesAndStripsStopwords(t *testing.T) {
	got := Tokenize("Please open THE YouTube app")
	want := []string{"open", "youtube", "app"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Tokenize() = %v, want %v", got, want)
	}
}

func TestTokenizeKeepsDigits(t *testing.T) {
	got := Tokenize("tap 540 1200")
	want := []string{"tap", "540", "1200"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Tokenize() = %v, want %v", got, want)
	}
}

func TestTokenizeEmptyAndPunctuationOnly(t *testing.T) {
	for _, input := range []string{"", "   ", "?!...,"} {
		if got := Tokenize(input); len(got) != 0 {
			t.Fatalf("Tokenize(%q) = %v, want empty", input, got)
		}
	}
}
