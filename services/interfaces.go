package services

import (
	"github.com/cmorgan-dev/go-dict-engine/model"
)

// Dictionary is the capability surface of one open dictionary source. The
// engine core only ever talks to dictionaries through this interface; the
// on-disk format behind it is a collaborator detail.
type Dictionary interface {
	// ProfileID identifies the catalog leaf this dictionary was opened for.
	ProfileID() model.ProfileID

	// EntryCount returns the number of headword entries.
	EntryCount() int64

	// FindIndex locates the entry best matching key. Exact match takes
	// priority over prefix, then partial; best breaks residual ties by the
	// nearest lexicographic successor. Returns nil when nothing matches.
	FindIndex(key string, prefix, partial, best bool) (*model.IndexRecord, error)

	// GetIndexes returns up to maxCount records starting at entry number
	// start, ordered by increasing entry number.
	GetIndexes(start int64, maxCount int) ([]model.IndexRecord, error)

	// FulltextFind searches indexed entry bodies, returning up to limit
	// scored records. Only valid when FulltextAvailable reports true.
	FulltextFind(query string, limit int) ([]model.ScoredRecord, error)

	// FulltextAvailable reports whether this dictionary carries a
	// full-text index.
	FulltextAvailable() bool

	// GetHTML renders the entry behind rec.
	GetHTML(rec model.IndexRecord) (string, error)

	// GetData returns an embedded resource by path plus its mime type.
	GetData(path string) ([]byte, string, error)

	// Close releases the dictionary's resources.
	Close() error
}

// DictionaryOpener opens the dictionary a leaf profile points at.
type DictionaryOpener interface {
	Open(profile *model.Profile) (Dictionary, error)
}

// OpenerFunc adapts a function to the DictionaryOpener interface.
type OpenerFunc func(profile *model.Profile) (Dictionary, error)

// Open calls f.
func (f OpenerFunc) Open(profile *model.Profile) (Dictionary, error) {
	return f(profile)
}

// JobManager defines operations for managing background jobs
type JobManager interface {
	GetJob(jobID string) (*model.Job, error)
	ListJobs(jobType model.JobType, status *model.JobStatus) []*model.Job
}
