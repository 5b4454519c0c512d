package dict

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/cmorgan-dev/go-dict-engine/internal/errors"
	"github.com/cmorgan-dev/go-dict-engine/model"
)

func writeDictFile(t *testing.T, dir, name string, file File, withSidecar bool) *model.Profile {
	t.Helper()

	path := filepath.Join(dir, name)
	data, err := json.Marshal(file)
	if err != nil {
		t.Fatalf("Failed to marshal dictionary file: %v", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		t.Fatalf("Failed to write dictionary file: %v", err)
	}
	if withSidecar {
		if err := os.WriteFile(SidecarPath(path), nil, 0600); err != nil {
			t.Fatalf("Failed to write sidecar: %v", err)
		}
	}
	return model.NewLeaf(file.Title, "file://"+filepath.ToSlash(path), 7)
}

func testEntries() []Entry {
	// Deliberately unsorted on disk.
	return []Entry{
		{Key: "Banana", HTML: "<p>a long yellow fruit</p>"},
		{Key: "apple", HTML: "<p>a round fruit</p>"},
		{Key: "Cherry", HTML: "<p>a small red fruit</p>"},
		{Key: "apricot", HTML: "<p>an orange fruit</p>"},
	}
}

func TestOpen_SortsEntriesByKey(t *testing.T) {
	profile := writeDictFile(t, t.TempDir(), "fruit.jdx", File{Title: "fruit", Entries: testEntries()}, false)

	d, err := Open(profile)
	if err != nil {
		t.Fatalf("Failed to open dictionary: %v", err)
	}
	defer d.Close()

	if d.EntryCount() != 4 {
		t.Fatalf("Expected 4 entries, got %d", d.EntryCount())
	}

	records, err := d.GetIndexes(0, 10)
	if err != nil {
		t.Fatalf("Failed to stream indexes: %v", err)
	}
	want := []string{"apple", "apricot", "Banana", "Cherry"}
	for i, w := range want {
		if records[i].Key != w {
			t.Errorf("Expected key %q at entry %d, got %q", w, i, records[i].Key)
		}
		if records[i].EntryNo != int64(i) {
			t.Errorf("Expected entry number %d, got %d", i, records[i].EntryNo)
		}
		if records[i].ProfileID != 7 {
			t.Errorf("Expected profile id 7, got %d", records[i].ProfileID)
		}
	}
}

func TestOpen_RejectsGroupProfile(t *testing.T) {
	group := model.NewGroup("g", 1)
	_, err := Open(group)
	if !errors.Is(err, errors.ErrInvalidParameter) {
		t.Errorf("Expected invalid-parameter error, got %v", err)
	}
}

func TestDictionary_FindIndex(t *testing.T) {
	profile := writeDictFile(t, t.TempDir(), "fruit.jdx", File{Title: "fruit", Entries: testEntries()}, false)
	d, err := Open(profile)
	if err != nil {
		t.Fatalf("Failed to open dictionary: %v", err)
	}
	defer d.Close()

	tests := []struct {
		name    string
		key     string
		prefix  bool
		partial bool
		best    bool
		wantKey string
		wantNil bool
	}{
		{name: "exact match is case-folded", key: "BANANA", wantKey: "Banana"},
		{name: "prefix match", key: "apr", prefix: true, wantKey: "apricot"},
		{name: "partial match scans the whole index", key: "err", partial: true, wantKey: "Cherry"},
		{name: "best falls back to the successor", key: "apz", best: true, wantKey: "Banana"},
		{name: "no flags and no exact match", key: "apz", wantNil: true},
		{name: "past the last key", key: "zzz", prefix: true, partial: true, best: true, wantNil: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, err := d.FindIndex(tt.key, tt.prefix, tt.partial, tt.best)
			if err != nil {
				t.Fatalf("FindIndex failed: %v", err)
			}
			if tt.wantNil {
				if rec != nil {
					t.Fatalf("Expected no match, got %q", rec.Key)
				}
				return
			}
			if rec == nil {
				t.Fatal("Expected a match, got nil")
			}
			if rec.Key != tt.wantKey {
				t.Errorf("Expected key %q, got %q", tt.wantKey, rec.Key)
			}
		})
	}
}

func TestDictionary_GetIndexes_Bounds(t *testing.T) {
	profile := writeDictFile(t, t.TempDir(), "fruit.jdx", File{Title: "fruit", Entries: testEntries()}, false)
	d, err := Open(profile)
	if err != nil {
		t.Fatalf("Failed to open dictionary: %v", err)
	}
	defer d.Close()

	if _, err := d.GetIndexes(-1, 10); !errors.Is(err, errors.ErrInvalidParameter) {
		t.Errorf("Expected invalid-parameter for negative start, got %v", err)
	}
	if _, err := d.GetIndexes(5, 10); !errors.Is(err, errors.ErrInvalidParameter) {
		t.Errorf("Expected invalid-parameter for start past the end, got %v", err)
	}

	// A start exactly at the count yields an empty stream, not an error.
	records, err := d.GetIndexes(4, 10)
	if err != nil {
		t.Fatalf("Expected no error at the boundary, got %v", err)
	}
	if len(records) != 0 {
		t.Errorf("Expected empty stream at the boundary, got %d records", len(records))
	}

	// maxCount clamps at the end.
	records, err = d.GetIndexes(3, 10)
	if err != nil {
		t.Fatalf("GetIndexes failed: %v", err)
	}
	if len(records) != 1 {
		t.Errorf("Expected 1 record from the tail, got %d", len(records))
	}
}

func TestDictionary_GetHTML(t *testing.T) {
	profile := writeDictFile(t, t.TempDir(), "fruit.jdx", File{Title: "fruit", Entries: testEntries()}, false)
	d, err := Open(profile)
	if err != nil {
		t.Fatalf("Failed to open dictionary: %v", err)
	}
	defer d.Close()

	rec, err := d.FindIndex("apple", false, false, false)
	if err != nil || rec == nil {
		t.Fatalf("Failed to find apple: %v", err)
	}
	html, err := d.GetHTML(*rec)
	if err != nil {
		t.Fatalf("GetHTML failed: %v", err)
	}
	if html != "<p>a round fruit</p>" {
		t.Errorf("Unexpected html: %q", html)
	}

	_, err = d.GetHTML(model.IndexRecord{ProfileID: 7, EntryNo: 99})
	if !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("Expected not-found for an out-of-range entry, got %v", err)
	}
}

func TestDictionary_GetData(t *testing.T) {
	file := File{
		Title:     "fruit",
		Entries:   testEntries(),
		Resources: map[string][]byte{"img/apple.png": {0x89, 0x50}},
	}
	profile := writeDictFile(t, t.TempDir(), "fruit.jdx", file, false)
	d, err := Open(profile)
	if err != nil {
		t.Fatalf("Failed to open dictionary: %v", err)
	}
	defer d.Close()

	data, mimeType, err := d.GetData("img/apple.png")
	if err != nil {
		t.Fatalf("GetData failed: %v", err)
	}
	if len(data) != 2 || mimeType != "image/png" {
		t.Errorf("Unexpected resource: %d bytes, mime %q", len(data), mimeType)
	}

	// Absent resources are reported as nil data, not an error.
	data, _, err = d.GetData("missing.css")
	if err != nil {
		t.Fatalf("Expected no error for an absent resource, got %v", err)
	}
	if data != nil {
		t.Error("Expected nil data for an absent resource")
	}
}

func TestDictionary_Fulltext(t *testing.T) {
	dir := t.TempDir()
	profile := writeDictFile(t, dir, "fruit.jdx", File{Title: "fruit", Entries: testEntries()}, true)
	d, err := Open(profile)
	if err != nil {
		t.Fatalf("Failed to open dictionary: %v", err)
	}
	defer d.Close()

	if !d.FulltextAvailable() {
		t.Fatal("Expected full-text to be available with a sidecar marker")
	}

	hits, err := d.FulltextFind("yellow", 10)
	if err != nil {
		t.Fatalf("FulltextFind failed: %v", err)
	}
	if len(hits) != 1 {
		t.Fatalf("Expected 1 hit for 'yellow', got %d", len(hits))
	}
	if hits[0].Record.Key != "Banana" {
		t.Errorf("Expected hit on Banana, got %q", hits[0].Record.Key)
	}
	if hits[0].Score <= 0 {
		t.Errorf("Expected a positive relevance score, got %f", hits[0].Score)
	}
}

func TestDictionary_FulltextWithoutSidecar(t *testing.T) {
	profile := writeDictFile(t, t.TempDir(), "fruit.jdx", File{Title: "fruit", Entries: testEntries()}, false)
	d, err := Open(profile)
	if err != nil {
		t.Fatalf("Failed to open dictionary: %v", err)
	}
	defer d.Close()

	if d.FulltextAvailable() {
		t.Error("Expected no full-text index without a sidecar marker")
	}
	if _, err := d.FulltextFind("yellow", 10); !errors.Is(err, errors.ErrInvalidParameter) {
		t.Errorf("Expected invalid-parameter error, got %v", err)
	}
}
