// Package group implements union search: one open dictionary per enabled
// leaf of a union profile, and the merge engine that streams per-dictionary
// results into one ordered result set keyed by normalized headword.
package group

import (
	"log"

	"github.com/cmorgan-dev/go-dict-engine/internal/errors"
	"github.com/cmorgan-dev/go-dict-engine/internal/keyword"
	"github.com/cmorgan-dev/go-dict-engine/model"
	"github.com/cmorgan-dev/go-dict-engine/services"
)

// Group holds the open dictionaries of a union profile.
type Group struct {
	profile *model.Profile
	dicts   map[model.ProfileID]services.Dictionary
}

// Open opens one dictionary per enabled leaf of the union profile.
// Disabled leaves are neither opened nor searched nor counted. Opening
// fails as a whole if any enabled leaf fails to open.
func Open(profile *model.Profile, opener services.DictionaryOpener) (*Group, error) {
	if !profile.IsGroup() || !profile.AsUnion {
		return nil, errors.NewInvalidParameterError("profile %d is not a union group", profile.ProfileID)
	}
	g := &Group{
		profile: profile,
		dicts:   make(map[model.ProfileID]services.Dictionary),
	}
	for _, child := range profile.Profiles {
		if child.Disabled || child.IsGroup() {
			continue
		}
		d, err := opener.Open(child)
		if err != nil {
			g.Close()
			return nil, err
		}
		g.dicts[child.ProfileID] = d
	}
	return g, nil
}

// Profile returns the union profile this group was opened for.
func (g *Group) Profile() *model.Profile { return g.profile }

// Dictionary returns the open dictionary for a member leaf, or nil.
func (g *Group) Dictionary(id model.ProfileID) services.Dictionary {
	return g.dicts[id]
}

// Size returns the number of open dictionaries.
func (g *Group) Size() int { return len(g.dicts) }

// FulltextAvailable reports whether any member carries a full-text index.
func (g *Group) FulltextAvailable() bool {
	for _, d := range g.dicts {
		if d.FulltextAvailable() {
			return true
		}
	}
	return false
}

// Close closes every open member.
func (g *Group) Close() {
	for id, d := range g.dicts {
		if err := d.Close(); err != nil {
			log.Printf("Warning: failed to close dictionary %d: %v", id, err)
		}
	}
	g.dicts = map[model.ProfileID]services.Dictionary{}
}

// FindBestMatchIndexes runs the incremental prefix/partial merge. Every
// member dictionary is anchored at its best match for query, streamed for
// up to perLibLimit records, and merged into a bounded ordered set keyed
// by normalized headword. Records whose normalized key sorts before the
// normalized query are discarded (collation anomalies can place the anchor
// before the query). Once the set holds perLibLimit keys, a member's
// ascending stream stops early as soon as its next candidate would sort
// after the current maximum — the bound is a best-effort cap, not an exact
// global top-K. Members are visited in group profile order so the
// near-boundary evictions are deterministic.
func (g *Group) FindBestMatchIndexes(query string, perLibLimit int) ([]model.MergedEntry, error) {
	normalizedQuery := keyword.Normalize(query)
	acc := newMergeAccumulator(perLibLimit)

	for _, child := range g.profile.Profiles {
		d := g.dicts[child.ProfileID]
		if d == nil {
			continue
		}
		anchor, err := d.FindIndex(query, true, true, true)
		if err != nil {
			return nil, err
		}
		if anchor == nil {
			continue
		}
		records, err := d.GetIndexes(anchor.EntryNo, perLibLimit)
		if err != nil {
			log.Printf("Warning: dictionary %d failed to stream from entry %d: %v", child.ProfileID, anchor.EntryNo, err)
			continue
		}
		for _, rec := range records {
			norm := keyword.Normalize(rec.Key)
			if norm < normalizedQuery {
				continue
			}
			if acc.full() && norm > acc.maxKey() {
				break
			}
			acc.insert(norm, rec)
			if acc.overBound() {
				acc.evictMax()
			}
		}
	}
	return acc.results(g.profile), nil
}

// FulltextFind merges full-text hits across the members that support it.
// Each member contributes at most perLibLimit hits ranked by its own
// relevance score; the merged set is unbounded and ordered by ascending
// normalized key. No lower-bound cutoff applies.
func (g *Group) FulltextFind(query string, perLibLimit int) ([]model.MergedEntry, error) {
	acc := newMergeAccumulator(0)

	for _, child := range g.profile.Profiles {
		d := g.dicts[child.ProfileID]
		if d == nil || !d.FulltextAvailable() {
			continue
		}
		hits, err := d.FulltextFind(query, perLibLimit)
		if err != nil {
			log.Printf("Warning: full-text search failed on dictionary %d: %v", child.ProfileID, err)
			continue
		}
		for _, hit := range hits {
			acc.insert(keyword.Normalize(hit.Record.Key), hit.Record)
		}
	}
	return acc.results(g.profile), nil
}
