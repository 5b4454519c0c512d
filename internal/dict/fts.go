package dict

import (
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strconv"

	"github.com/blevesearch/bleve/v2"

	"github.com/cmorgan-dev/go-dict-engine/internal/errors"
	"github.com/cmorgan-dev/go-dict-engine/model"
)

// ftsDocument is the shape indexed per entry.
type ftsDocument struct {
	Key     string `json:"key"`
	Content string `json:"content"`
}

// ftsIndex wraps a mem-only bleve index over the dictionary's entries,
// keyed by entry number.
type ftsIndex struct {
	index bleve.Index
}

var tagPattern = regexp.MustCompile(`<[^>]*>`)

// HasFulltextSidecar reports whether a dictionary file carries the marker
// enabling full-text search.
func HasFulltextSidecar(dictPath string) bool {
	info, err := os.Stat(SidecarPath(dictPath))
	return err == nil && !info.IsDir()
}

func buildFTSIndex(entries []Entry) (*ftsIndex, error) {
	mapping := bleve.NewIndexMapping()
	index, err := bleve.NewMemOnly(mapping)
	if err != nil {
		return nil, err
	}
	batch := index.NewBatch()
	for i, e := range entries {
		doc := ftsDocument{
			Key:     e.Key,
			Content: tagPattern.ReplaceAllString(e.HTML, " "),
		}
		if err := batch.Index(strconv.Itoa(i), doc); err != nil {
			index.Close()
			return nil, err
		}
	}
	if err := index.Batch(batch); err != nil {
		index.Close()
		return nil, err
	}
	return &ftsIndex{index: index}, nil
}

// FulltextFind implements services.Dictionary. Hits are returned in this
// dictionary's own relevance order, capped at limit; the caller merges
// across dictionaries by normalized key.
func (d *Dictionary) FulltextFind(query string, limit int) ([]model.ScoredRecord, error) {
	if d.fts == nil {
		return nil, errors.NewInvalidParameterError("dictionary %d has no full-text index", d.profileID)
	}
	matchQuery := bleve.NewMatchQuery(query)
	request := bleve.NewSearchRequest(matchQuery)
	request.Size = limit

	result, err := d.fts.index.Search(request)
	if err != nil {
		return nil, errors.NewInvalidDataFormatError("full-text search failed", err)
	}

	records := make([]model.ScoredRecord, 0, len(result.Hits))
	for _, hit := range result.Hits {
		entryNo, err := strconv.Atoi(hit.ID)
		if err != nil || entryNo < 0 || entryNo >= len(d.entries) {
			continue
		}
		records = append(records, model.ScoredRecord{
			Score:  hit.Score,
			Record: *d.record(entryNo),
		})
	}
	return records, nil
}

func (f *ftsIndex) close() error {
	return f.index.Close()
}

func pathForURL(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", errors.NewInvalidParameterError("malformed url %q: %v", raw, err)
	}
	if u.Scheme != "file" || u.Path == "" {
		return "", errors.NewInvalidParameterError("not a file url: %q", raw)
	}
	return filepath.FromSlash(u.Path), nil
}
