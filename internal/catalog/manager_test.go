package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/cmorgan-dev/go-dict-engine/internal/errors"
	"github.com/cmorgan-dev/go-dict-engine/model"
)

func touchDict(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("{}"), 0600); err != nil {
		t.Fatalf("Failed to create dictionary file: %v", err)
	}
	return path
}

func childURLs(g *model.Profile) []string {
	urls := make([]string, 0, len(g.Profiles))
	for _, p := range g.Profiles {
		urls = append(urls, p.URL)
	}
	return urls
}

func TestNewManager_EnsuresDefaultGroup(t *testing.T) {
	m := NewManager()

	def := m.Group(model.DefaultGroupID)
	if def == nil {
		t.Fatal("Expected the default group to exist")
	}
	if !def.AsUnion {
		t.Error("Expected the default group to be a union group")
	}
}

func TestManager_NextProfileID(t *testing.T) {
	m := NewManager()

	// One past the maximum id anywhere in the tree, nested leaves included.
	def := m.Group(model.DefaultGroupID)
	def.Profiles = append(def.Profiles, model.NewLeaf("a", "file:///a.jdx", 41))
	m.ReplaceGroupProfile(model.NewGroup("extra", 7))

	if got := m.NextProfileID(); got != 42 {
		t.Errorf("Expected next id 42, got %d", got)
	}
}

func TestManager_RemoveProfile(t *testing.T) {
	m := NewManager()
	def := m.Group(model.DefaultGroupID)
	def.Profiles = append(def.Profiles, model.NewLeaf("a", "file:///a.jdx", 10))

	if !m.RemoveProfile(10) {
		t.Error("Expected removal of an existing leaf to report true")
	}
	if len(def.Profiles) != 0 {
		t.Errorf("Expected the leaf to be gone, %d children remain", len(def.Profiles))
	}

	// Removing a nonexistent profile is a no-op on the tree.
	before := len(m.Groups())
	if m.RemoveProfile(999) {
		t.Error("Expected removal of an unknown id to report false")
	}
	if len(m.Groups()) != before {
		t.Error("Expected the tree to be unchanged after removing an unknown id")
	}
}

func TestManager_CreateGroup_SeedsFromDefault(t *testing.T) {
	m := NewManager()
	def := m.Group(model.DefaultGroupID)
	def.Profiles = append(def.Profiles,
		model.NewLeaf("a", "file:///a.jdx", 10),
		model.NewLeaf("b", "file:///b.jdx", 11),
	)

	g := m.CreateGroup("my set")
	if g.ProfileID != 12 {
		t.Errorf("Expected the new group to get id 12, got %d", g.ProfileID)
	}
	if len(g.Profiles) != 2 {
		t.Fatalf("Expected 2 seeded leaves, got %d", len(g.Profiles))
	}
	// Seeded leaves keep their ids so per-dictionary state stays attached.
	if g.Profiles[0].ProfileID != 10 || g.Profiles[1].ProfileID != 11 {
		t.Errorf("Expected seeded leaves to keep ids 10 and 11, got %d and %d",
			g.Profiles[0].ProfileID, g.Profiles[1].ProfileID)
	}

	// The seeds are copies: disabling one in the new group leaves the
	// default group untouched.
	g.Profiles[0].Disabled = true
	if def.Profiles[0].Disabled {
		t.Error("Expected the default group's leaf to stay enabled")
	}
}

func TestManager_RenameAndDisable(t *testing.T) {
	m := NewManager()
	def := m.Group(model.DefaultGroupID)
	def.Profiles = append(def.Profiles, model.NewLeaf("a", "file:///a.jdx", 10))

	if err := m.RenameGroup(model.DefaultGroupID, "Everything"); err != nil {
		t.Fatalf("RenameGroup failed: %v", err)
	}
	if def.Title != "Everything" {
		t.Errorf("Expected renamed title, got %q", def.Title)
	}
	if err := m.RenameGroup(999, "x"); !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("Expected not-found for an unknown group, got %v", err)
	}

	if err := m.SetProfileDisabled(model.DefaultGroupID, 10, true); err != nil {
		t.Fatalf("SetProfileDisabled failed: %v", err)
	}
	if !def.Profiles[0].Disabled {
		t.Error("Expected the leaf to be disabled")
	}
	if err := m.SetProfileDisabled(model.DefaultGroupID, 999, true); !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("Expected not-found for an unknown leaf, got %v", err)
	}
}

func TestManager_RefreshLibrary(t *testing.T) {
	dir := t.TempDir()
	pathA := touchDict(t, dir, "alpha.jdx")
	touchDict(t, dir, "beta.JDX") // extension matching is case-insensitive
	touchDict(t, dir, ".hidden.jdx")
	touchDict(t, dir, "notes.txt")

	m := NewManager()
	if err := m.RefreshLibrary([]string{dir}); err != nil {
		t.Fatalf("RefreshLibrary failed: %v", err)
	}

	def := m.Group(model.DefaultGroupID)
	if len(def.Profiles) != 2 {
		t.Fatalf("Expected 2 discovered dictionaries, got %d: %v", len(def.Profiles), childURLs(def))
	}
	if def.Profiles[0].Title != "alpha" {
		t.Errorf("Expected default title from the file stem, got %q", def.Profiles[0].Title)
	}
	firstIDs := []model.ProfileID{def.Profiles[0].ProfileID, def.Profiles[1].ProfileID}

	// Rescanning an unchanged tree is a no-op: same urls, same ids.
	if err := m.RefreshLibrary([]string{dir}); err != nil {
		t.Fatalf("Second RefreshLibrary failed: %v", err)
	}
	if len(def.Profiles) != 2 {
		t.Fatalf("Expected rescan to keep 2 dictionaries, got %d", len(def.Profiles))
	}
	for i, want := range firstIDs {
		if def.Profiles[i].ProfileID != want {
			t.Errorf("Expected leaf %d to keep id %d, got %d", i, want, def.Profiles[i].ProfileID)
		}
	}

	// A removed file drops its profile; user settings on survivors stay.
	def.Profiles[1].Disabled = true
	if err := os.Remove(pathA); err != nil {
		t.Fatalf("Failed to remove dictionary file: %v", err)
	}
	if err := m.RefreshLibrary([]string{dir}); err != nil {
		t.Fatalf("Third RefreshLibrary failed: %v", err)
	}
	if len(def.Profiles) != 1 {
		t.Fatalf("Expected 1 dictionary after removal, got %d", len(def.Profiles))
	}
	if !def.Profiles[0].Disabled {
		t.Error("Expected the surviving leaf to keep its disabled flag")
	}
}

func TestManager_RefreshLibrary_RelativeRoot(t *testing.T) {
	m := NewManager()
	err := m.RefreshLibrary([]string{"relative/dir"})
	if !errors.Is(err, errors.ErrInvalidParameter) {
		t.Errorf("Expected invalid-parameter for a relative root, got %v", err)
	}
}

func TestManager_SaveAndLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "library.json")

	m, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile on a missing file failed: %v", err)
	}
	def := m.Group(model.DefaultGroupID)
	def.Profiles = append(def.Profiles, model.NewLeaf("a", "file:///a.jdx", 10))
	m.CreateGroup("mine")
	if err := m.Save(); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	restored, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile failed: %v", err)
	}
	if len(restored.Groups()) != 2 {
		t.Fatalf("Expected 2 groups after reload, got %d", len(restored.Groups()))
	}
	leaf := restored.FindProfile(10)
	if leaf == nil || leaf.IsGroup() {
		t.Fatal("Expected leaf 10 to survive the round trip as a leaf")
	}
}

func TestURLPathRoundTrip(t *testing.T) {
	path := "/data/dicts/my dict.jdx"
	url := URLForPath(path)
	back, err := PathForURL(url)
	if err != nil {
		t.Fatalf("PathForURL failed: %v", err)
	}
	if back != path {
		t.Errorf("Expected round-tripped path %q, got %q", path, back)
	}

	if _, err := PathForURL("http://example.com/x.jdx"); !errors.Is(err, errors.ErrInvalidParameter) {
		t.Errorf("Expected invalid-parameter for a non-file url, got %v", err)
	}

	if got := FileStem(url); got != "my dict" {
		t.Errorf("Expected file stem 'my dict', got %q", got)
	}
}
