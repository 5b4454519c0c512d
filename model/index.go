package model

// IndexRecord is a handle into one dictionary: the entry number plus the
// raw headword it was indexed under. Records are owned by the dictionary
// that produced them and are only meaningful against it.
type IndexRecord struct {
	ProfileID ProfileID `json:"profile_id"`
	EntryNo   int64     `json:"entry_no"`
	Key       string    `json:"key"`
}

// ScoredRecord is a full-text hit: the per-dictionary relevance score and
// the matched record. Scores rank hits within one dictionary's own result
// set only, never across dictionaries.
type ScoredRecord struct {
	Score  float64     `json:"score"`
	Record IndexRecord `json:"record"`
}

// GroupIndex collects the records a single dictionary contributed to one
// merged result. PrimaryKey is the first-seen display key for the result.
type GroupIndex struct {
	ProfileID  ProfileID     `json:"profile_id"`
	PrimaryKey string        `json:"primary_key"`
	Indexes    []IndexRecord `json:"indexes"`
}

// MergedEntry is one row of a merged result set: all records across the
// open dictionaries that share NormalizedKey, one GroupIndex per
// contributing dictionary, ordered by the group's profile order.
type MergedEntry struct {
	NormalizedKey string       `json:"normalized_key"`
	DisplayKey    string       `json:"display_key"`
	Groups        []GroupIndex `json:"groups"`
}

// KeyCount is one row of a paginated result key list: a display key and
// the number of dictionaries contributing entries under it.
type KeyCount struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}
