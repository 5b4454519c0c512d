package api

import (
	"github.com/cmorgan-dev/go-dict-engine/internal/catalog"
	"github.com/cmorgan-dev/go-dict-engine/internal/dict"
	"github.com/cmorgan-dev/go-dict-engine/model"
)

// ProfileView is the JSON projection of a catalog profile. It decorates
// the stored profile with derived flags: whether full-text search is
// available and whether the profile is the currently open one.
type ProfileView struct {
	Title       string            `json:"title"`
	Description string            `json:"description"`
	URL         string            `json:"url,omitempty"`
	Disabled    bool              `json:"disabled"`
	ProfileID   model.ProfileID   `json:"profile_id"`
	Options     model.DictOptions `json:"options"`
	AsUnion     bool              `json:"as_union"`
	IsGroup     bool              `json:"is_group"`
	IsActive    bool              `json:"is_active"`
	FTSEnabled  bool              `json:"is_fts_enabled"`
	Profiles    []ProfileView     `json:"profiles,omitempty"`
}

// newProfileView projects one profile subtree. A leaf's full-text flag
// probes for the sidecar marker next to its dictionary file; a group's is
// true when any child leaf carries one.
func newProfileView(p *model.Profile, activeID model.ProfileID) ProfileView {
	view := ProfileView{
		Title:       p.Title,
		Description: p.Description,
		URL:         p.URL,
		Disabled:    p.Disabled,
		ProfileID:   p.ProfileID,
		Options:     p.Options,
		AsUnion:     p.AsUnion,
		IsGroup:     p.IsGroup(),
		IsActive:    p.ProfileID == activeID,
	}
	if p.IsGroup() {
		view.Profiles = make([]ProfileView, 0, len(p.Profiles))
		for _, child := range p.Profiles {
			cv := newProfileView(child, activeID)
			view.Profiles = append(view.Profiles, cv)
			if cv.FTSEnabled && !child.Disabled {
				view.FTSEnabled = true
			}
		}
	} else {
		view.FTSEnabled = leafFTSEnabled(p)
	}
	return view
}

func leafFTSEnabled(p *model.Profile) bool {
	path, err := catalog.PathForURL(p.URL)
	if err != nil {
		return false
	}
	return dict.HasFulltextSidecar(path)
}

// newLibraryView projects the whole catalog tree.
func newLibraryView(groups []*model.Profile, activeID model.ProfileID) []ProfileView {
	views := make([]ProfileView, 0, len(groups))
	for _, g := range groups {
		views = append(views, newProfileView(g, activeID))
	}
	return views
}
