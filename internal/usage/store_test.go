package usage

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return New(filepath.Join(t.TempDir(), "usage.json"), nil)
}

func TestLastOpenedMiss(t *testing.T) {
	s := newTestStore(t)
	if _, ok := s.LastOpened("/never/opened"); ok {
		t.Error("LastOpened(miss) ok = true, want false")
	}
}

func TestRecordOpenStampsCurrentTime(t *testing.T) {
	s := newTestStore(t)
	now := time.Now()
	s.now = func() time.Time { return now }

	if err := s.RecordOpen("/repo/a"); err != nil {
		t.Fatalf("RecordOpen() error = %v", err)
	}

	got, ok := s.LastOpened("/repo/a")
	if !ok {
		t.Fatal("LastOpened ok = false after RecordOpen")
	}
	if !got.Equal(now) {
		t.Errorf("LastOpened = %v, want %v", got, now)
	}
}

func TestRecordOpenOverwritesPrior(t *testing.T) {
	s := newTestStore(t)
	earlier := time.Now().Add(-time.Hour)
	later := time.Now()

	s.now = func() time.Time { return earlier }
	if err := s.RecordOpen("/repo/a"); err != nil {
		t.Fatal(err)
	}
	s.now = func() time.Time { return later }
	if err := s.RecordOpen("/repo/a"); err != nil {
		t.Fatal(err)
	}

	got, _ := s.LastOpened("/repo/a")
	if !got.Equal(later) {
		t.Errorf("LastOpened = %v, want the later open %v", got, later)
	}
	if s.Len() != 1 {
		t.Errorf("Len() = %d, want 1", s.Len())
	}
}

func TestWriteThroughPersistence(t *testing.T) {
	file := filepath.Join(t.TempDir(), "usage.json")
	s := New(file, nil)
	if err := s.RecordOpen("/repo/a"); err != nil {
		t.Fatal(err)
	}

	reloaded := New(file, nil)
	if _, ok := reloaded.LastOpened("/repo/a"); !ok {
		t.Error("record not visible after reload")
	}
}

func TestCleanupMissingPaths(t *testing.T) {
	s := newTestStore(t)

	existing := t.TempDir()
	missing := filepath.Join(existing, "gone")
	if err := os.Mkdir(missing, 0755); err != nil {
		t.Fatal(err)
	}
	if err := s.RecordOpen(existing); err != nil {
		t.Fatal(err)
	}
	if err := s.RecordOpen(missing); err != nil {
		t.Fatal(err)
	}
	if err := os.Remove(missing); err != nil {
		t.Fatal(err)
	}

	if removed := s.CleanupMissingPaths(); removed != 1 {
		t.Errorf("CleanupMissingPaths() = %d, want 1", removed)
	}
	if _, ok := s.LastOpened(existing); !ok {
		t.Error("existing path was pruned")
	}
	if _, ok := s.LastOpened(missing); ok {
		t.Error("missing path survived cleanup")
	}
}

func TestCorruptFileResetsToEmpty(t *testing.T) {
	file := filepath.Join(t.TempDir(), "usage.json")
	if err := os.WriteFile(file, []byte("not json"), 0644); err != nil {
		t.Fatal(err)
	}

	s := New(file, nil)
	if s.Len() != 0 {
		t.Errorf("Len() = %d after corrupt load, want 0", s.Len())
	}
}
