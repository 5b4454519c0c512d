// Package model defines the data types shared across the dictionary engine:
// catalog profiles, per-dictionary index records, merged group results and
// background jobs.
package model

// ProfileID identifies a profile (group or leaf) within the catalog.
// IDs are process-unique: a freshly allocated id always exceeds every id
// present anywhere in the tree, including nested leaves.
type ProfileID int32

const (
	// DefaultGroupID is the reserved id of the "All databases" group. The
	// catalog guarantees this group exists after loading.
	DefaultGroupID ProfileID = 1

	// InvalidProfileID is the sentinel for "no profile".
	InvalidProfileID ProfileID = -1
)

// DictOptions holds per-profile presentation options.
type DictOptions struct {
	FontFilePath string `json:"font_file_path"`
}

// Profile is one node of the catalog tree: either a group (Profiles is
// non-nil, URL empty) or a leaf referencing a single dictionary file
// (Profiles nil). Exactly one of the two holds.
//
// The `profiles` field is serialized without omitempty on purpose: a leaf
// round-trips as null, an empty group as [], preserving the group/leaf
// distinction across save/load.
type Profile struct {
	Title       string      `json:"title"`
	Description string      `json:"description"`
	URL         string      `json:"url"`
	Disabled    bool        `json:"disabled"`
	ProfileID   ProfileID   `json:"profile_id"`
	Options     DictOptions `json:"options"`

	// Group fields (set when this profile acts as a group).
	Profiles []*Profile `json:"profiles"`
	AsUnion  bool       `json:"as_union"`
}

// NewGroup creates an empty union group.
func NewGroup(title string, id ProfileID) *Profile {
	return &Profile{
		Title:     title,
		ProfileID: id,
		Profiles:  []*Profile{},
		AsUnion:   true,
	}
}

// NewLeaf creates a leaf profile pointing at url. Title defaults to the
// decoded file stem of the url and may be overridden by the caller.
func NewLeaf(title, url string, id ProfileID) *Profile {
	return &Profile{
		Title:     title,
		URL:       url,
		ProfileID: id,
	}
}

// IsGroup reports whether this profile acts as a group.
func (p *Profile) IsGroup() bool {
	return p.Profiles != nil
}

// Child returns the direct child with the given id, or nil.
func (p *Profile) Child(id ProfileID) *Profile {
	for _, c := range p.Profiles {
		if c.ProfileID == id {
			return c
		}
	}
	return nil
}

// ReplaceChild replaces the child sharing mdx.ProfileID, or appends a copy
// with nextID assigned when no such child exists.
func (p *Profile) ReplaceChild(child *Profile, nextID ProfileID) {
	if p.Profiles == nil {
		p.Profiles = []*Profile{}
	}
	for i, c := range p.Profiles {
		if c.ProfileID == child.ProfileID {
			cp := *child
			p.Profiles[i] = &cp
			return
		}
	}
	cp := *child
	cp.ProfileID = nextID
	p.Profiles = append(p.Profiles, &cp)
}

// MoveChild extracts the child with the given id and reinserts it at
// newIndex. An out-of-range index appends at the end. Unknown ids are a
// no-op. The extraction/reinsertion is stable for the remaining children.
func (p *Profile) MoveChild(id ProfileID, newIndex int) {
	var target *Profile
	rest := make([]*Profile, 0, len(p.Profiles))
	for _, c := range p.Profiles {
		if c.ProfileID == id {
			target = c
		} else {
			rest = append(rest, c)
		}
	}
	if target == nil {
		return
	}
	if newIndex < 0 || newIndex > len(rest) {
		newIndex = len(rest)
	}
	out := make([]*Profile, 0, len(rest)+1)
	out = append(out, rest[:newIndex]...)
	out = append(out, target)
	out = append(out, rest[newIndex:]...)
	p.Profiles = out
}

// Clone returns a deep copy of the profile subtree.
func (p *Profile) Clone() *Profile {
	cp := *p
	if p.Profiles != nil {
		cp.Profiles = make([]*Profile, len(p.Profiles))
		for i, c := range p.Profiles {
			cp.Profiles[i] = c.Clone()
		}
	}
	return &cp
}
