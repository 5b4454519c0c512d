package group

import (
	"sort"

	"github.com/cmorgan-dev/go-dict-engine/model"
)

// mergeAccumulator is the bounded ordered map behind the merge engine:
// normalized key -> (first-seen display key, per-profile record lists).
// A limit of 0 disables the bound (full-text mode). The key count stays
// small (at most limit+1), so a sorted slice with binary-search insertion
// serves as the ordered index.
type mergeAccumulator struct {
	limit   int
	keys    []string // ascending
	entries map[string]*mergeEntry
}

type mergeEntry struct {
	displayKey string
	perProfile map[model.ProfileID][]model.IndexRecord
}

func newMergeAccumulator(limit int) *mergeAccumulator {
	return &mergeAccumulator{
		limit:   limit,
		entries: make(map[string]*mergeEntry),
	}
}

// insert adds rec under the normalized key, keeping the first-seen display
// key for the merged row.
func (m *mergeAccumulator) insert(normKey string, rec model.IndexRecord) {
	entry, ok := m.entries[normKey]
	if !ok {
		entry = &mergeEntry{
			displayKey: rec.Key,
			perProfile: make(map[model.ProfileID][]model.IndexRecord),
		}
		m.entries[normKey] = entry
		at := sort.SearchStrings(m.keys, normKey)
		m.keys = append(m.keys, "")
		copy(m.keys[at+1:], m.keys[at:])
		m.keys[at] = normKey
	}
	entry.perProfile[rec.ProfileID] = append(entry.perProfile[rec.ProfileID], rec)
}

// full reports whether the bound has been reached.
func (m *mergeAccumulator) full() bool {
	return m.limit > 0 && len(m.keys) >= m.limit
}

// overBound reports whether the bound has been exceeded.
func (m *mergeAccumulator) overBound() bool {
	return m.limit > 0 && len(m.keys) > m.limit
}

// maxKey returns the greatest normalized key currently held.
func (m *mergeAccumulator) maxKey() string {
	if len(m.keys) == 0 {
		return ""
	}
	return m.keys[len(m.keys)-1]
}

// evictMax drops the lexicographically greatest key.
func (m *mergeAccumulator) evictMax() {
	if len(m.keys) == 0 {
		return
	}
	last := m.keys[len(m.keys)-1]
	m.keys = m.keys[:len(m.keys)-1]
	delete(m.entries, last)
}

// results emits the merged rows in ascending normalized-key order. Within
// each row the per-profile sub-lists follow the child's position in the
// group's profile list, independent of dictionary open order, scan order
// or map iteration order.
func (m *mergeAccumulator) results(profile *model.Profile) []model.MergedEntry {
	out := make([]model.MergedEntry, 0, len(m.keys))
	for _, normKey := range m.keys {
		entry := m.entries[normKey]
		groups := make([]model.GroupIndex, 0, len(entry.perProfile))
		for _, child := range profile.Profiles {
			records, ok := entry.perProfile[child.ProfileID]
			if !ok {
				continue
			}
			groups = append(groups, model.GroupIndex{
				ProfileID:  child.ProfileID,
				PrimaryKey: entry.displayKey,
				Indexes:    records,
			})
		}
		out = append(out, model.MergedEntry{
			NormalizedKey: normKey,
			DisplayKey:    entry.displayKey,
			Groups:        groups,
		})
	}
	return out
}
