// Package session orchestrates the active database: which profile is open
// (none, a single dictionary, or a union group), the search calls against
// it, and the paginated result cache that every search call rebuilds.
package session

import (
	"log"
	"sync"

	"github.com/cmorgan-dev/go-dict-engine/internal/catalog"
	"github.com/cmorgan-dev/go-dict-engine/internal/errors"
	"github.com/cmorgan-dev/go-dict-engine/internal/group"
	"github.com/cmorgan-dev/go-dict-engine/internal/keyword"
	"github.com/cmorgan-dev/go-dict-engine/model"
	"github.com/cmorgan-dev/go-dict-engine/services"
)

// Session is the shared application state: the catalog, the open main
// database and the cached search results. One exclusive lock serializes
// every call that can touch the cache or the open handles — search calls
// included, since each one rebuilds the cache.
type Session struct {
	mu      sync.RWMutex
	catalog *catalog.Manager
	opener  services.DictionaryOpener

	single  services.Dictionary
	grp     *group.Group
	results []model.MergedEntry

	// onOpen, when set, observes every successful OpenMainDB (used to
	// remember the last opened profile across restarts).
	onOpen func(model.ProfileID)
}

// New creates a session over the given catalog with no database open.
func New(cat *catalog.Manager, opener services.DictionaryOpener) *Session {
	return &Session{catalog: cat, opener: opener}
}

// SetOpenHook registers the observer called after each successful open.
func (s *Session) SetOpenHook(fn func(model.ProfileID)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onOpen = fn
}

// UpdateCatalog runs fn against the catalog under the exclusive lock.
func (s *Session) UpdateCatalog(fn func(*catalog.Manager) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.catalog)
}

// ReadCatalog runs fn against the catalog under the shared lock.
func (s *Session) ReadCatalog(fn func(*catalog.Manager) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(s.catalog)
}

// OpenMainDB resolves the profile and opens it as the active database,
// replacing whatever was open before and unconditionally clearing the
// result cache. The replacement happens atomically under the exclusive
// lock: no caller can observe a half-replaced handle set.
func (s *Session) OpenMainDB(profileID model.ProfileID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closeLocked()
	s.results = nil

	if profileID == model.InvalidProfileID {
		return errors.NewInvalidParameterError("invalid profile id: %d", profileID)
	}
	profile := s.catalog.FindProfile(profileID)
	if profile == nil {
		return errors.NewInvalidParameterError("profile %d not found", profileID)
	}

	if profile.IsGroup() {
		g, err := group.Open(profile, s.opener)
		if err != nil {
			return err
		}
		s.grp = g
	} else {
		d, err := s.opener.Open(profile)
		if err != nil {
			return err
		}
		s.single = d
	}

	if s.onOpen != nil {
		s.onOpen(profileID)
	}
	return nil
}

// OpenStartupProfile reopens the last used profile, falling back to the
// default group. Empty groups and stale ids are skipped silently; startup
// proceeds with no database open.
func (s *Session) OpenStartupProfile(lastID model.ProfileID) {
	if lastID == model.InvalidProfileID {
		lastID = model.DefaultGroupID
	}

	s.mu.RLock()
	profile := s.catalog.FindProfile(lastID)
	if profile == nil || (profile.IsGroup() && len(profile.Profiles) == 0) {
		s.mu.RUnlock()
		return
	}
	s.mu.RUnlock()

	if err := s.OpenMainDB(lastID); err != nil {
		log.Printf("Warning: failed to reopen startup profile %d: %v", lastID, err)
	}
}

// Close closes the open database, if any.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closeLocked()
	s.results = nil
}

func (s *Session) closeLocked() {
	if s.single != nil {
		if err := s.single.Close(); err != nil {
			log.Printf("Warning: failed to close dictionary %d: %v", s.single.ProfileID(), err)
		}
		s.single = nil
	}
	if s.grp != nil {
		s.grp.Close()
		s.grp = nil
	}
}

// CurrentProfileID returns the open profile's id, or the invalid sentinel.
func (s *Session) CurrentProfileID() model.ProfileID {
	s.mu.RLock()
	defer s.mu.RUnlock()
	switch {
	case s.single != nil:
		return s.single.ProfileID()
	case s.grp != nil:
		return s.grp.Profile().ProfileID
	default:
		return model.InvalidProfileID
	}
}

// CurrentProfile returns the open profile, or nil when closed.
func (s *Session) CurrentProfile() *model.Profile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	switch {
	case s.single != nil:
		return s.catalog.FindProfile(s.single.ProfileID())
	case s.grp != nil:
		return s.grp.Profile()
	default:
		return nil
	}
}

// IncrementalSearch runs a prefix/partial nearest-match search. Single
// mode returns the anchor entry number and the dictionary's total entry
// count; group mode rebuilds the cache from the merge engine and returns
// (0, cache length). A query with no match returns (-1, 0). Either path
// clears any pre-existing cache first.
func (s *Session) IncrementalSearch(query string, perLibLimit int) (int64, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.results = nil
	switch {
	case s.single != nil:
		anchor, err := s.single.FindIndex(query, true, true, true)
		if err != nil {
			return -1, 0, err
		}
		if anchor == nil {
			return -1, 0, nil
		}
		return anchor.EntryNo, int(s.single.EntryCount()), nil

	case s.grp != nil:
		merged, err := s.grp.FindBestMatchIndexes(query, perLibLimit)
		if err != nil {
			return -1, 0, err
		}
		s.results = merged
		if len(merged) == 0 {
			return -1, 0, nil
		}
		return 0, len(merged), nil

	default:
		return -1, 0, errors.NewInvalidParameterError("no database opened")
	}
}

// FulltextSearch searches entry bodies and replaces the cache with the
// merged result rows, returning the cache length. Single mode preserves
// the dictionary's own relevance order; group mode orders by ascending
// normalized key.
func (s *Session) FulltextSearch(query string, perLibLimit int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.results = nil
	switch {
	case s.single != nil:
		hits, err := s.single.FulltextFind(query, perLibLimit)
		if err != nil {
			return 0, err
		}
		rows := make([]model.MergedEntry, 0, len(hits))
		for _, hit := range hits {
			rows = append(rows, model.MergedEntry{
				NormalizedKey: keyword.Normalize(hit.Record.Key),
				DisplayKey:    hit.Record.Key,
				Groups: []model.GroupIndex{{
					ProfileID:  hit.Record.ProfileID,
					PrimaryKey: hit.Record.Key,
					Indexes:    []model.IndexRecord{hit.Record},
				}},
			})
		}
		s.results = rows
		return len(rows), nil

	case s.grp != nil:
		merged, err := s.grp.FulltextFind(query, perLibLimit)
		if err != nil {
			return 0, err
		}
		s.results = merged
		return len(merged), nil

	default:
		return 0, errors.NewInvalidParameterError("no database opened")
	}
}

// ResultKeyList pages (display key, contributing dictionary count) pairs.
// A populated cache is paginated regardless of mode; single mode without a
// cache pages the dictionary index directly with a count of 1 per key;
// group mode without a cache yields an empty page — a deliberate fallback,
// not an error.
func (s *Session) ResultKeyList(start int64, maxCount int) ([]model.KeyCount, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.results) > 0 {
		if start < 0 || start >= int64(len(s.results)) {
			return nil, errors.NewInvalidParameterError("start index out of range: %d >= %d", start, len(s.results))
		}
		out := make([]model.KeyCount, 0, maxCount)
		for _, row := range s.results[start:] {
			out = append(out, model.KeyCount{Key: row.DisplayKey, Count: len(row.Groups)})
			if len(out) >= maxCount {
				break
			}
		}
		return out, nil
	}

	switch {
	case s.single != nil:
		records, err := s.single.GetIndexes(start, maxCount)
		if err != nil {
			return nil, err
		}
		out := make([]model.KeyCount, 0, len(records))
		for _, rec := range records {
			out = append(out, model.KeyCount{Key: rec.Key, Count: 1})
		}
		return out, nil

	case s.grp != nil:
		return []model.KeyCount{}, nil

	default:
		return nil, errors.NewInvalidParameterError("no database opened")
	}
}

// GroupIndexes returns the full per-dictionary breakdown for one cache
// position. The cache takes precedence regardless of mode; single mode
// without a cache synthesizes a one-entry breakdown on demand; group mode
// without a cache is an error.
func (s *Session) GroupIndexes(indexNo int) ([]model.GroupIndex, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.results) > 0 {
		if indexNo < 0 || indexNo >= len(s.results) {
			return nil, errors.NewInvalidParameterError("index out of range: %d >= %d", indexNo, len(s.results))
		}
		return s.results[indexNo].Groups, nil
	}

	switch {
	case s.single != nil:
		if indexNo < 0 || int64(indexNo) >= s.single.EntryCount() {
			return nil, errors.NewInvalidParameterError("index out of range: %d >= %d", indexNo, s.single.EntryCount())
		}
		records, err := s.single.GetIndexes(int64(indexNo), 1)
		if err != nil {
			return nil, err
		}
		if len(records) == 0 {
			return nil, errors.NewEntryNotFoundError(s.single.ProfileID(), int64(indexNo))
		}
		rec := records[0]
		return []model.GroupIndex{{
			ProfileID:  rec.ProfileID,
			PrimaryKey: rec.Key,
			Indexes:    []model.IndexRecord{rec},
		}}, nil

	case s.grp != nil:
		return nil, errors.NewInvalidParameterError("no grouped search results available")

	default:
		return nil, errors.NewInvalidParameterError("no database opened")
	}
}

// FindIndex looks a key up without touching the cache: exact-match in
// every open dictionary, one GroupIndex per dictionary that has it,
// ordered by group profile order. A closed session yields an empty list.
func (s *Session) FindIndex(key string) ([]model.GroupIndex, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch {
	case s.single != nil:
		rec, err := s.single.FindIndex(key, false, false, true)
		if err != nil {
			return nil, err
		}
		if rec == nil {
			return []model.GroupIndex{}, nil
		}
		return []model.GroupIndex{{
			ProfileID:  rec.ProfileID,
			PrimaryKey: key,
			Indexes:    []model.IndexRecord{*rec},
		}}, nil

	case s.grp != nil:
		out := []model.GroupIndex{}
		for _, child := range s.grp.Profile().Profiles {
			d := s.grp.Dictionary(child.ProfileID)
			if d == nil {
				continue
			}
			rec, err := d.FindIndex(key, false, false, true)
			if err != nil {
				return nil, err
			}
			if rec == nil {
				continue
			}
			out = append(out, model.GroupIndex{
				ProfileID:  rec.ProfileID,
				PrimaryKey: key,
				Indexes:    []model.IndexRecord{*rec},
			})
		}
		return out, nil

	default:
		return []model.GroupIndex{}, nil
	}
}

// EntryCount returns the cached result count when a cache exists, else the
// single dictionary's entry count. Group mode without a cache counts zero.
func (s *Session) EntryCount() (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.results) > 0 {
		return len(s.results), nil
	}
	switch {
	case s.single != nil:
		return int(s.single.EntryCount()), nil
	case s.grp != nil:
		return 0, nil
	default:
		return 0, errors.NewInvalidParameterError("no database opened")
	}
}

// EntryHTML renders the entry behind rec, routed to the owning open
// dictionary.
func (s *Session) EntryHTML(rec model.IndexRecord) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, err := s.dictForLocked(rec.ProfileID)
	if err != nil {
		return "", err
	}
	return d.GetHTML(rec)
}

// Data returns an embedded dictionary resource, routed by profile id.
// Absent resources yield nil data without an error.
func (s *Session) Data(profileID model.ProfileID, path string) ([]byte, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, err := s.dictForLocked(profileID)
	if err != nil {
		return nil, "", err
	}
	return d.GetData(path)
}

func (s *Session) dictForLocked(profileID model.ProfileID) (services.Dictionary, error) {
	switch {
	case s.single != nil:
		if s.single.ProfileID() != profileID {
			return nil, errors.NewInvalidParameterError("dictionary %d is not open", profileID)
		}
		return s.single, nil
	case s.grp != nil:
		d := s.grp.Dictionary(profileID)
		if d == nil {
			return nil, errors.NewInvalidParameterError("dictionary %d not found in open group", profileID)
		}
		return d, nil
	default:
		return nil, errors.NewInvalidParameterError("no database opened")
	}
}
