// Package dict implements the services.Dictionary capability over .jdx
// files: a JSON dictionary with headword entries sorted into a key index,
// optional embedded resources, and an optional full-text index (built when
// a .fts sidecar marker is present next to the file).
package dict

import (
	"mime"
	"path/filepath"
	"sort"
	"strings"

	"github.com/cmorgan-dev/go-dict-engine/internal/errors"
	"github.com/cmorgan-dev/go-dict-engine/internal/persistence"
	"github.com/cmorgan-dev/go-dict-engine/model"
	"github.com/cmorgan-dev/go-dict-engine/services"
)

// Entry is one headword record in a .jdx file.
type Entry struct {
	Key  string `json:"key"`
	HTML string `json:"html"`
}

// File is the on-disk shape of a .jdx dictionary.
type File struct {
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Entries     []Entry           `json:"entries"`
	Resources   map[string][]byte `json:"resources,omitempty"`
}

// Dictionary is an open .jdx source. Entry numbers are positions in the
// key-sorted index, so streams from GetIndexes ascend by key.
type Dictionary struct {
	profileID model.ProfileID
	title     string
	entries   []Entry  // sorted by folded key
	folded    []string // folded key per entry, same order
	resources map[string][]byte
	fts       *ftsIndex
}

var _ services.Dictionary = (*Dictionary)(nil)

// Open loads the dictionary file a leaf profile points at. When a .fts
// sidecar marker exists next to the file, a full-text index over the entry
// bodies is built in memory.
func Open(profile *model.Profile) (*Dictionary, error) {
	if profile.IsGroup() {
		return nil, errors.NewInvalidParameterError("profile %d is a group, not a dictionary", profile.ProfileID)
	}
	path, err := pathForURL(profile.URL)
	if err != nil {
		return nil, err
	}

	var file File
	if err := persistence.LoadJSON(path, &file); err != nil {
		return nil, errors.NewInvalidDataFormatError("failed to load dictionary "+path, err)
	}

	d := &Dictionary{
		profileID: profile.ProfileID,
		title:     file.Title,
		entries:   file.Entries,
		resources: file.Resources,
	}
	sort.SliceStable(d.entries, func(i, j int) bool {
		return strings.ToLower(d.entries[i].Key) < strings.ToLower(d.entries[j].Key)
	})
	d.folded = make([]string, len(d.entries))
	for i, e := range d.entries {
		d.folded[i] = strings.ToLower(e.Key)
	}

	if HasFulltextSidecar(path) {
		fts, err := buildFTSIndex(d.entries)
		if err != nil {
			return nil, errors.NewInvalidDataFormatError("failed to build full-text index for "+path, err)
		}
		d.fts = fts
	}
	return d, nil
}

// SidecarPath returns the path of the full-text marker for a dictionary
// file.
func SidecarPath(dictPath string) string {
	ext := filepath.Ext(dictPath)
	return strings.TrimSuffix(dictPath, ext) + ".fts"
}

// ProfileID implements services.Dictionary.
func (d *Dictionary) ProfileID() model.ProfileID { return d.profileID }

// Title returns the dictionary's own title from the file header.
func (d *Dictionary) Title() string { return d.title }

// EntryCount implements services.Dictionary.
func (d *Dictionary) EntryCount() int64 { return int64(len(d.entries)) }

// FindIndex implements services.Dictionary. Exact match wins over prefix,
// prefix over partial; with best set, the nearest lexicographic successor
// of the folded key is returned when nothing else matched.
func (d *Dictionary) FindIndex(key string, prefix, partial, best bool) (*model.IndexRecord, error) {
	fold := strings.ToLower(key)
	n := len(d.folded)
	at := sort.SearchStrings(d.folded, fold)

	if at < n && d.folded[at] == fold {
		return d.record(at), nil
	}
	if prefix && at < n && strings.HasPrefix(d.folded[at], fold) {
		return d.record(at), nil
	}
	if partial {
		for i, f := range d.folded {
			if strings.Contains(f, fold) {
				return d.record(i), nil
			}
		}
	}
	if best && at < n {
		return d.record(at), nil
	}
	return nil, nil
}

// GetIndexes implements services.Dictionary.
func (d *Dictionary) GetIndexes(start int64, maxCount int) ([]model.IndexRecord, error) {
	n := int64(len(d.entries))
	if start < 0 || start > n {
		return nil, errors.NewInvalidParameterError("start entry out of range: %d (count %d)", start, n)
	}
	end := start + int64(maxCount)
	if end > n {
		end = n
	}
	records := make([]model.IndexRecord, 0, end-start)
	for i := start; i < end; i++ {
		records = append(records, *d.record(int(i)))
	}
	return records, nil
}

// GetHTML implements services.Dictionary.
func (d *Dictionary) GetHTML(rec model.IndexRecord) (string, error) {
	if rec.EntryNo < 0 || rec.EntryNo >= int64(len(d.entries)) {
		return "", errors.NewEntryNotFoundError(d.profileID, rec.EntryNo)
	}
	return d.entries[rec.EntryNo].HTML, nil
}

// GetData implements services.Dictionary. Absent resources yield nil data
// without an error, matching the optional semantics of the capability.
func (d *Dictionary) GetData(path string) ([]byte, string, error) {
	data, ok := d.resources[path]
	if !ok {
		return nil, "", nil
	}
	mimeType := mime.TypeByExtension(filepath.Ext(path))
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}
	return data, mimeType, nil
}

// FulltextAvailable implements services.Dictionary.
func (d *Dictionary) FulltextAvailable() bool { return d.fts != nil }

// Close implements services.Dictionary.
func (d *Dictionary) Close() error {
	if d.fts != nil {
		return d.fts.close()
	}
	return nil
}

func (d *Dictionary) record(i int) *model.IndexRecord {
	return &model.IndexRecord{
		ProfileID: d.profileID,
		EntryNo:   int64(i),
		Key:       d.entries[i].Key,
	}
}
