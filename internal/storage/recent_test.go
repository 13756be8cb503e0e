package storage

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"go.uber.org/zap"
)

func newTestStore(t *testing.T) (*RecentQueryStore, *FileKeyValueStore) {
	t.Helper()
	kv, err := NewFileKeyValueStore(filepath.Join(t.TempDir(), "store.json"))
	if err != nil {
		t.Fatalf("NewFileKeyValueStore: %v", err)
	}
	return NewRecentQueryStore(kv, zap.NewNop()), kv
}

func TestRecord_MostRecentFirst(t *testing.T) {
	store, _ := newTestStore(t)

	for _, addr := range []string{"addr1", "addr2", "addr3"} {
		if err := store.Record(addr); err != nil {
			t.Fatalf("Record(%s): %v", addr, err)
		}
	}

	want := []string{"addr3", "addr2", "addr1"}
	if got := store.List(); !reflect.DeepEqual(got, want) {
		t.Errorf("List() = %v, want %v", got, want)
	}
}

func TestRecord_DeduplicatesToHead(t *testing.T) {
	store, _ := newTestStore(t)

	store.Record("addr1")
	store.Record("addr2")
	store.Record("addr1")

	want := []string{"addr1", "addr2"}
	if got := store.List(); !reflect.DeepEqual(got, want) {
		t.Errorf("List() = %v, want %v", got, want)
	}
}

func TestRecord_RepeatIsIdempotent(t *testing.T) {
	store, _ := newTestStore(t)

	store.Record("addr1")
	before := store.List()
	store.Record("addr1")
	after := store.List()

	if !reflect.DeepEqual(before, after) {
		t.Errorf("repeat Record changed list: %v -> %v", before, after)
	}
	if len(after) != 1 {
		t.Errorf("len = %d, want 1", len(after))
	}
}

func TestRecord_CapEvictsOldest(t *testing.T) {
	store, _ := newTestStore(t)

	addrs := []string{"a1", "a2", "a3", "a4", "a5", "a6", "a7"}
	for _, addr := range addrs {
		store.Record(addr)
	}

	want := []string{"a7", "a6", "a5", "a4", "a3"}
	if got := store.List(); !reflect.DeepEqual(got, want) {
		t.Errorf("List() = %v, want %v", got, want)
	}
}

func TestRemove(t *testing.T) {
	store, _ := newTestStore(t)

	store.Record("addr1")
	store.Record("addr2")
	store.Record("addr3")

	if err := store.Remove("addr2"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	want := []string{"addr3", "addr1"}
	if got := store.List(); !reflect.DeepEqual(got, want) {
		t.Errorf("List() = %v, want %v", got, want)
	}

	// Absent address removal is a no-op, not an error.
	if err := store.Remove("addr9"); err != nil {
		t.Fatalf("Remove absent: %v", err)
	}
	if got := store.List(); !reflect.DeepEqual(got, want) {
		t.Errorf("List() after absent removal = %v, want %v", got, want)
	}
}

func TestList_ReturnsCopy(t *testing.T) {
	store, _ := newTestStore(t)
	store.Record("addr1")

	got := store.List()
	got[0] = "mutated"

	if fresh := store.List(); fresh[0] != "addr1" {
		t.Errorf("List() = %v, external mutation leaked in", fresh)
	}
}

func TestRecentSearches_PersistAcrossRestart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.json")
	kv, err := NewFileKeyValueStore(path)
	if err != nil {
		t.Fatalf("NewFileKeyValueStore: %v", err)
	}

	first := NewRecentQueryStore(kv, zap.NewNop())
	first.Record("addr1")
	first.Record("addr2")

	reopened, err := NewFileKeyValueStore(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	second := NewRecentQueryStore(reopened, zap.NewNop())

	want := []string{"addr2", "addr1"}
	if got := second.List(); !reflect.DeepEqual(got, want) {
		t.Errorf("reloaded List() = %v, want %v", got, want)
	}
}

func TestNewRecentQueryStore_CorruptEntryStartsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.json")
	kv, err := NewFileKeyValueStore(path)
	if err != nil {
		t.Fatalf("NewFileKeyValueStore: %v", err)
	}
	if err := kv.Set(recentSearchesKey, "{not an array"); err != nil {
		t.Fatalf("Set: %v", err)
	}

	store := NewRecentQueryStore(kv, zap.NewNop())
	if got := store.List(); len(got) != 0 {
		t.Errorf("List() = %v, want empty after corrupt load", got)
	}

	// The store must still be usable after discarding the corrupt entry.
	if err := store.Record("addr1"); err != nil {
		t.Fatalf("Record after corrupt load: %v", err)
	}
}

func TestNewRecentQueryStore_TruncatesOversizedEntry(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.json")
	kv, err := NewFileKeyValueStore(path)
	if err != nil {
		t.Fatalf("NewFileKeyValueStore: %v", err)
	}
	if err := kv.Set(recentSearchesKey, `["a1","a2","a3","a4","a5","a6","a7"]`); err != nil {
		t.Fatalf("Set: %v", err)
	}

	store := NewRecentQueryStore(kv, zap.NewNop())
	want := []string{"a1", "a2", "a3", "a4", "a5"}
	if got := store.List(); !reflect.DeepEqual(got, want) {
		t.Errorf("List() = %v, want %v", got, want)
	}
}

func TestFileKeyValueStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kv.json")
	kv, err := NewFileKeyValueStore(path)
	if err != nil {
		t.Fatalf("NewFileKeyValueStore: %v", err)
	}

	if _, ok, err := kv.Get("missing"); err != nil || ok {
		t.Errorf("Get missing = ok %v err %v, want absent", ok, err)
	}

	if err := kv.Set("k1", "v1"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := kv.Set("k2", "v2"); err != nil {
		t.Fatalf("Set: %v", err)
	}

	value, ok, err := kv.Get("k1")
	if err != nil || !ok || value != "v1" {
		t.Errorf("Get k1 = (%q, %v, %v)", value, ok, err)
	}

	// No temp file may linger after a completed write.
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Errorf("temp file left behind: %v", err)
	}
}

func TestPreferenceStore(t *testing.T) {
	kv, err := NewFileKeyValueStore(filepath.Join(t.TempDir(), "kv.json"))
	if err != nil {
		t.Fatalf("NewFileKeyValueStore: %v", err)
	}
	prefs := NewPreferenceStore(kv)

	if got := prefs.ViewMode(); got != ViewModeGrid {
		t.Errorf("default ViewMode = %q, want %q", got, ViewModeGrid)
	}

	if err := prefs.SetViewMode(ViewModeList); err != nil {
		t.Fatalf("SetViewMode: %v", err)
	}
	if got := prefs.ViewMode(); got != ViewModeList {
		t.Errorf("ViewMode = %q, want %q", got, ViewModeList)
	}

	if err := prefs.SetViewMode("carousel"); err == nil {
		t.Error("SetViewMode accepted unknown mode")
	}
	if got := prefs.ViewMode(); got != ViewModeList {
		t.Errorf("ViewMode after rejected set = %q, want %q", got, ViewModeList)
	}
}
