// Package catalog manages the persisted hierarchy of dictionary profiles:
// groups and leaf entries, id allocation, reordering and directory rescans.
package catalog

import (
	"log"
	"os"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/cmorgan-dev/go-dict-engine/internal/errors"
	"github.com/cmorgan-dev/go-dict-engine/internal/persistence"
	"github.com/cmorgan-dev/go-dict-engine/model"
)

const iconCacheSize = 64

// Manager owns the profile tree. It is not safe for concurrent use; the
// session serializes access with its exclusive lock.
type Manager struct {
	groups         []*model.Profile
	defaultOptions model.DictOptions
	libraryPath    string
	icons          *lru.Cache[model.ProfileID, Icon]
}

// NewManager creates an empty catalog containing only the default group.
func NewManager() *Manager {
	icons, _ := lru.New[model.ProfileID, Icon](iconCacheSize)
	m := &Manager{icons: icons}
	m.ensureDefaultGroup()
	return m
}

// LoadFromFile loads the catalog from a JSON file. A missing or empty file
// yields a fresh catalog; the default group is guaranteed to exist either
// way.
func LoadFromFile(path string) (*Manager, error) {
	m := NewManager()
	m.libraryPath = path

	var groups []*model.Profile
	err := persistence.LoadJSON(path, &groups)
	if err == os.ErrNotExist {
		return m, nil
	}
	if err != nil {
		return nil, errors.NewInvalidDataFormatError("failed to load library", err)
	}
	m.groups = groups
	m.ensureDefaultGroup()
	return m, nil
}

// Save persists the catalog to the file it was loaded from. A save failure
// leaves the in-memory mutation in place; the caller decides whether to
// retry or discard.
func (m *Manager) Save() error {
	if m.libraryPath == "" {
		return nil
	}
	if err := persistence.SaveJSON(m.libraryPath, m.groups); err != nil {
		return errors.NewInvalidDataFormatError("failed to save library", err)
	}
	return nil
}

// SetDefaultOptions sets the options inherited by newly discovered leaves.
func (m *Manager) SetDefaultOptions(opts model.DictOptions) {
	m.defaultOptions = opts
}

// Groups returns the top-level groups in catalog order.
func (m *Manager) Groups() []*model.Profile {
	return m.groups
}

// NextProfileID allocates the next id: one past the maximum id anywhere in
// the tree, nested leaves included.
func (m *Manager) NextProfileID() model.ProfileID {
	var max model.ProfileID
	for _, g := range m.groups {
		if g.ProfileID > max {
			max = g.ProfileID
		}
		for _, p := range g.Profiles {
			if p.ProfileID > max {
				max = p.ProfileID
			}
		}
	}
	return max + 1
}

func (m *Manager) ensureDefaultGroup() {
	if m.Group(model.DefaultGroupID) == nil {
		m.ReplaceGroupProfile(model.NewGroup("All databases", model.DefaultGroupID))
	}
}

// FindProfile resolves an id to a profile: top-level groups first, then
// the default group's children.
func (m *Manager) FindProfile(id model.ProfileID) *model.Profile {
	for _, g := range m.groups {
		if g.ProfileID == id {
			return g
		}
	}
	if def := m.topLevel(model.DefaultGroupID); def != nil {
		return def.Child(id)
	}
	return nil
}

func (m *Manager) topLevel(id model.ProfileID) *model.Profile {
	for _, g := range m.groups {
		if g.ProfileID == id {
			return g
		}
	}
	return nil
}

// Group resolves an id to a group profile, or nil when the id is unknown
// or names a leaf.
func (m *Manager) Group(id model.ProfileID) *model.Profile {
	p := m.FindProfile(id)
	if p == nil || !p.IsGroup() {
		return nil
	}
	return p
}

// ProfileIn returns the leaf with profileID inside the given group.
func (m *Manager) ProfileIn(groupID, profileID model.ProfileID) *model.Profile {
	g := m.Group(groupID)
	if g == nil {
		return nil
	}
	return g.Child(profileID)
}

// CreateGroup creates a new union group seeded with the default group's
// current leaf list and the default options.
func (m *Manager) CreateGroup(title string) *model.Profile {
	group := model.NewGroup(title, m.NextProfileID())
	group.Options = m.defaultOptions
	if def := m.Group(model.DefaultGroupID); def != nil {
		group.Profiles = make([]*model.Profile, len(def.Profiles))
		for i, p := range def.Profiles {
			group.Profiles[i] = p.Clone()
		}
	}
	m.ReplaceGroupProfile(group)
	return group
}

// RemoveProfile removes the profile with the given id, searching the top
// level first and then each group's children. Returns whether anything was
// removed.
func (m *Manager) RemoveProfile(id model.ProfileID) bool {
	kept := m.groups[:0]
	for _, g := range m.groups {
		if g.ProfileID != id {
			kept = append(kept, g)
		}
	}
	if len(kept) != len(m.groups) {
		m.groups = kept
		return true
	}

	for _, g := range m.groups {
		keptChildren := g.Profiles[:0]
		for _, p := range g.Profiles {
			if p.ProfileID != id {
				keptChildren = append(keptChildren, p)
			}
		}
		if len(keptChildren) != len(g.Profiles) {
			g.Profiles = keptChildren
			return true
		}
	}
	return false
}

// RenameGroup retitles a group.
func (m *Manager) RenameGroup(id model.ProfileID, title string) error {
	g := m.Group(id)
	if g == nil {
		return errors.NewProfileNotFoundError(id)
	}
	g.Title = title
	return nil
}

// SetProfileDisabled toggles a leaf inside a group. Disabled leaves are
// neither opened nor searched.
func (m *Manager) SetProfileDisabled(groupID, profileID model.ProfileID, disabled bool) error {
	g := m.Group(groupID)
	if g == nil {
		return errors.NewProfileNotFoundError(groupID)
	}
	p := g.Child(profileID)
	if p == nil {
		return errors.NewProfileNotFoundError(profileID)
	}
	p.Disabled = disabled
	return nil
}

// AdjustProfileOrder moves a leaf to newIndex within its group. An
// out-of-range index appends at the end.
func (m *Manager) AdjustProfileOrder(groupID, profileID model.ProfileID, newIndex int) error {
	g := m.Group(groupID)
	if g == nil {
		return errors.NewProfileNotFoundError(groupID)
	}
	g.MoveChild(profileID, newIndex)
	return nil
}

// AdjustGroupOrder moves a top-level group to newIndex.
func (m *Manager) AdjustGroupOrder(groupID model.ProfileID, newIndex int) error {
	var target *model.Profile
	rest := make([]*model.Profile, 0, len(m.groups))
	for _, g := range m.groups {
		if g.ProfileID == groupID {
			target = g
		} else {
			rest = append(rest, g)
		}
	}
	if target == nil {
		return errors.NewProfileNotFoundError(groupID)
	}
	if newIndex < 0 || newIndex > len(rest) {
		newIndex = len(rest)
	}
	out := make([]*model.Profile, 0, len(rest)+1)
	out = append(out, rest[:newIndex]...)
	out = append(out, target)
	out = append(out, rest[newIndex:]...)
	m.groups = out
	return nil
}

// ReplaceGroupProfile replaces the top-level group sharing the profile id,
// or appends it when no such group exists.
func (m *Manager) ReplaceGroupProfile(group *model.Profile) {
	for i, g := range m.groups {
		if g.ProfileID == group.ProfileID {
			m.groups[i] = group
			return
		}
	}
	m.groups = append(m.groups, group)
}

// RefreshLibrary rescans the library roots and merges the result into
// every group by URL identity: unchanged urls keep their profile (same id,
// same settings), new urls are appended with fresh ids, vanished urls are
// dropped. Rescanning with an unchanged filesystem is a no-op.
func (m *Manager) RefreshLibrary(roots []string) error {
	scanned, err := m.ScanDirectories(roots)
	if err != nil {
		return err
	}
	nextID := m.NextProfileID()
	for _, g := range m.groups {
		mergeProfilesByURL(g, scanned, &nextID)
	}
	log.Printf("Library refreshed: %d roots, %d dictionaries", len(roots), len(scanned.Profiles))
	return nil
}
