package history

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/doeshing/droidai/internal/domain"
)

func testRecord(utterance string, action domain.Action) domain.HistoryRecord {
	return domain.HistoryRecord{
		Timestamp: time.Now().UTC(),
		Utterance: utterance,
		Action:    action,
		Tier:      domain.TierMatch,
		Score:     0.9,
		Executed:  true,
		Success:   true,
	}
}

func TestFileStoreSaveAndRecords(t *testing.T) {
	f := NewFileStore(filepath.Join(t.TempDir(), "history.jsonl"))

	for _, utterance := range []string{"volume up", "open chrome", "go home"} {
		if err := f.Save(testRecord(utterance, domain.ActionVolumeUp)); err != nil {
			t.Fatalf("Save: %v", err)
		}
	}

	records, err := f.Records(0, "")
	if err != nil {
		t.Fatalf("Records: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("len = %d, want 3", len(records))
	}
	// Newest first.
	if records[0].Utterance != "go home" {
		t.Fatalf("first record = %q, want newest", records[0].Utterance)
	}
}

func TestFileStoreLimitAndSearch(t *testing.T) {
	f := NewFileStore(filepath.Join(t.TempDir(), "history.jsonl"))
	for _, u := range []string{"volume up", "volume down", "open chrome"} {
		if err := f.Save(testRecord(u, domain.ActionVolumeUp)); err != nil {
			t.Fatalf("Save: %v", err)
		}
	}

	records, err := f.Records(1, "")
	if err != nil || len(records) != 1 {
		t.Fatalf("limited Records = %v, %v", records, err)
	}

	records, err = f.Records(0, "volume")
	if err != nil || len(records) != 2 {
		t.Fatalf("searched Records = %v, %v", records, err)
	}
}

func TestFileStoreClear(t *testing.T) {
	f := NewFileStore(filepath.Join(t.TempDir(), "history.jsonl"))
	if err := f.Save(testRecord("volume up", domain.ActionVolumeUp)); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := f.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	records, err := f.Records(0, "")
	if err != nil || records != nil {
		t.Fatalf("Records after Clear = %v, %v", records, err)
	}
	// Clearing an already-missing file is fine.
	if err := f.Clear(); err != nil {
		t.Fatalf("second Clear: %v", err)
	}
}

func TestSQLiteStoreRoundTrip(t *testing.T) {
	s := NewSQLiteStore(filepath.Join(t.TempDir(), "history.db"))

	if err := s.Save(testRecord("blast it", domain.ActionVolumeUp)); err != nil {
		t.Fatalf("Save: %v", err)
	}
	records, err := s.Records(0, "")
	if err != nil {
		t.Fatalf("Records: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("len = %d, want 1", len(records))
	}
	rec := records[0]
	if rec.Utterance != "blast it" || rec.Action != domain.ActionVolumeUp || !rec.Success {
		t.Fatalf("record = %+v", rec)
	}
	if rec.Tier != domain.TierMatch {
		t.Fatalf("Tier = %s", rec.Tier)
	}

	if err := s.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	records, err = s.Records(0, "")
	if err != nil || len(records) != 0 {
		t.Fatalf("Records after Clear = %v, %v", records, err)
	}
}
