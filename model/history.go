package model

// HistoryEntry records one looked-up headword.
type HistoryEntry struct {
	ID          string    `json:"id"`
	Keyword     string    `json:"keyword"`
	ProfileID   ProfileID `json:"profile_id"`
	ProfileName string    `json:"profile_name"`
	VisitedAt   int64     `json:"visited_at"` // unix milliseconds
}

// FavoriteEntry is a user-saved headword.
type FavoriteEntry struct {
	ID          string    `json:"id"`
	Keyword     string    `json:"keyword"`
	ProfileID   ProfileID `json:"profile_id"`
	ProfileName string    `json:"profile_name"`
	CreatedAt   int64     `json:"created_at"` // unix milliseconds
}
