package match

import "testing"

func testDocs() []Document {
	return []Document{
		{Label: "VOLUME_UP", Phrase: "volume up"},
		{Label: "VOLUME_UP", Phrase: "make it louder"},
		{Label: "VOLUME_DOWN", Phrase: "volume down"},
		{Label: "OPEN_APP", Phrase: "open youtube"},
		{Label: "OPEN_APP", Phrase: "launch spotify"},
	}
}

func TestQueryRanksExactPhraseFirst(t *testing.T) {
	ix := BuildIndex(testDocs())
	matches := ix.Query("volume up", 3)
	if len(matches) == 0 {
		t.Fatal("expected matches")
	}
	if matches[0].Label != "VOLUME_UP" {
		t.Fatalf("top label = %s, want VOLUME_UP", matches[0].Label)
	}
	if matches[0].Score < 0.9 {
		t.Fatalf("exact phrase score = %f, want near 1", matches[0].Score)
	}
}

func TestQueryDeduplicatesByLabel(t *testing.T) {
	ix := BuildIndex(testDocs())
	matches := ix.Query("volume", 10)
	seen := map[string]int{}
	for _, m := range matches {
		seen[m.Label]++
	}
	for label, count := range seen {
		if count > 1 {
			t.Fatalf("label %s appeared %d times, want 1", label, count)
		}
	}
}

func TestQueryTopKTruncates(t *testing.T) {
	ix := BuildIndex(testDocs())
	matches := ix.Query("volume up down open", 1)
	if len(matches) > 1 {
		t.Fatalf("got %d matches, want at most 1", len(matches))
	}
}

func TestQueryNoTokenOverlapReturnsNothing(t *testing.T) {
	ix := BuildIndex(testDocs())
	if matches := ix.Query("zzz qqq", 3); len(matches) != 0 {
		t.Fatalf("expected no matches, got %v", matches)
	}
}

func TestQueryEmptyInputAndEmptyIndex(t *testing.T) {
	ix := BuildIndex(testDocs())
	if got := ix.Query("", 3); got != nil {
		t.Fatalf("empty query: got %v, want nil", got)
	}
	empty := BuildIndex(nil)
	if got := empty.Query("volume up", 3); got != nil {
		t.Fatalf("empty index: got %v, want nil", got)
	}
}

func TestKnowledgeDocumentsCoverEveryLabel(t *testing.T) {
	counts := map[string]int{}
	for _, doc := range KnowledgeDocuments() {
		counts[doc.Label]++
	}
	for _, label := range Labels() {
		if counts[string(label)] == 0 {
			t.Fatalf("label %s has no example phrases", label)
		}
	}
}

func TestKnowledgeDocumentsOrderIsStable(t *testing.T) {
	first := KnowledgeDocuments()
	second := KnowledgeDocuments()
	if len(first) != len(second) {
		t.Fatalf("lengths differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("document %d differs across builds: %+v vs %+v", i, first[i], second[i])
		}
	}
}

func TestKnowledgeIndexResolvesCommonPhrases(t *testing.T) {
	ix := BuildIndex(KnowledgeDocuments())
	cases := []struct {
		query string
		label string
	}{
		{"volume up", "VOLUME_UP"},
		{"blast it", "VOLUME_MAX"},
		{"go home", "HOME"},
		{"next song", "MEDIA_NEXT"},
		{"launch spotify", "OPEN_APP"},
		{"what do you see", "SCREEN_INFO"},
	}
	for _, tc := range cases {
		matches := ix.Query(tc.query, 3)
		if len(matches) == 0 {
			t.Fatalf("%q: no matches", tc.query)
		}
		if matches[0].Label != tc.label {
			t.Fatalf("%q: top label = %s, want %s", tc.query, matches[0].Label, tc.label)
		}
	}
}
