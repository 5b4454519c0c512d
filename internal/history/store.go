// Package history persists lookup history and favorites in a local SQLite
// database. Both tables are capped: inserting past the cap trims the oldest
// rows so the file stays small.
package history

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/cmorgan-dev/go-dict-engine/model"
)

const maxEntries = 1000

// Store is the history and favorites database. Safe for concurrent use;
// database/sql serializes access to the underlying connection.
type Store struct {
	db *sql.DB
}

// Open opens (and if needed initializes) the database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}
	s := &Store{db: db}
	if err := s.init(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) init() error {
	const schema = `
CREATE TABLE IF NOT EXISTS history (
	id TEXT PRIMARY KEY,
	keyword TEXT NOT NULL,
	profile_id INTEGER NOT NULL,
	profile_name TEXT NOT NULL,
	visited_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_history_visited_at ON history(visited_at DESC);
CREATE TABLE IF NOT EXISTS favorites (
	id TEXT PRIMARY KEY,
	keyword TEXT NOT NULL,
	profile_id INTEGER NOT NULL,
	profile_name TEXT NOT NULL,
	created_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_favorites_created_at ON favorites(created_at DESC);
`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to initialize history schema: %w", err)
	}
	return nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// AddHistory records a lookup, trimming the table to the newest maxEntries.
func (s *Store) AddHistory(keyword string, profileID model.ProfileID, profileName string) (*model.HistoryEntry, error) {
	entry := &model.HistoryEntry{
		ID:          uuid.New().String(),
		Keyword:     keyword,
		ProfileID:   profileID,
		ProfileName: profileName,
		VisitedAt:   time.Now().UnixMilli(),
	}
	_, err := s.db.Exec(
		`INSERT INTO history (id, keyword, profile_id, profile_name, visited_at) VALUES (?, ?, ?, ?, ?)`,
		entry.ID, entry.Keyword, entry.ProfileID, entry.ProfileName, entry.VisitedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert history entry: %w", err)
	}
	_, err = s.db.Exec(
		`DELETE FROM history WHERE id NOT IN (
			SELECT id FROM history ORDER BY visited_at DESC, id LIMIT ?
		)`, maxEntries,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to trim history: %w", err)
	}
	return entry, nil
}

// ListHistory returns up to limit entries, newest first. A limit of 0 means
// no cap beyond the table's own.
func (s *Store) ListHistory(limit int) ([]model.HistoryEntry, error) {
	if limit <= 0 {
		limit = maxEntries
	}
	rows, err := s.db.Query(
		`SELECT id, keyword, profile_id, profile_name, visited_at
		 FROM history ORDER BY visited_at DESC, id LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	entries := []model.HistoryEntry{}
	for rows.Next() {
		var e model.HistoryEntry
		if err := rows.Scan(&e.ID, &e.Keyword, &e.ProfileID, &e.ProfileName, &e.VisitedAt); err != nil {
			return nil, fmt.Errorf("failed to scan history entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// DeleteHistory removes one entry by id. Returns false if it was absent.
func (s *Store) DeleteHistory(id string) (bool, error) {
	res, err := s.db.Exec(`DELETE FROM history WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete history entry: %w", err)
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// ClearHistory removes every history entry.
func (s *Store) ClearHistory() error {
	if _, err := s.db.Exec(`DELETE FROM history`); err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}
	return nil
}

// AddFavorite saves a keyword as a favorite. Re-adding an existing
// keyword/profile pair refreshes its timestamp instead of duplicating.
func (s *Store) AddFavorite(keyword string, profileID model.ProfileID, profileName string) (*model.FavoriteEntry, error) {
	existing, err := s.findFavorite(keyword, profileID)
	if err != nil {
		return nil, err
	}
	now := time.Now().UnixMilli()
	if existing != nil {
		if _, err := s.db.Exec(`UPDATE favorites SET created_at = ? WHERE id = ?`, now, existing.ID); err != nil {
			return nil, fmt.Errorf("failed to refresh favorite: %w", err)
		}
		existing.CreatedAt = now
		return existing, nil
	}

	entry := &model.FavoriteEntry{
		ID:          uuid.New().String(),
		Keyword:     keyword,
		ProfileID:   profileID,
		ProfileName: profileName,
		CreatedAt:   now,
	}
	_, err = s.db.Exec(
		`INSERT INTO favorites (id, keyword, profile_id, profile_name, created_at) VALUES (?, ?, ?, ?, ?)`,
		entry.ID, entry.Keyword, entry.ProfileID, entry.ProfileName, entry.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert favorite: %w", err)
	}
	_, err = s.db.Exec(
		`DELETE FROM favorites WHERE id NOT IN (
			SELECT id FROM favorites ORDER BY created_at DESC, id LIMIT ?
		)`, maxEntries,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to trim favorites: %w", err)
	}
	return entry, nil
}

func (s *Store) findFavorite(keyword string, profileID model.ProfileID) (*model.FavoriteEntry, error) {
	row := s.db.QueryRow(
		`SELECT id, keyword, profile_id, profile_name, created_at
		 FROM favorites WHERE keyword = ? AND profile_id = ?`, keyword, profileID,
	)
	var e model.FavoriteEntry
	err := row.Scan(&e.ID, &e.Keyword, &e.ProfileID, &e.ProfileName, &e.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up favorite: %w", err)
	}
	return &e, nil
}

// ListFavorites returns favorites, newest first.
func (s *Store) ListFavorites(limit int) ([]model.FavoriteEntry, error) {
	if limit <= 0 {
		limit = maxEntries
	}
	rows, err := s.db.Query(
		`SELECT id, keyword, profile_id, profile_name, created_at
		 FROM favorites ORDER BY created_at DESC, id LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query favorites: %w", err)
	}
	defer rows.Close()

	entries := []model.FavoriteEntry{}
	for rows.Next() {
		var e model.FavoriteEntry
		if err := rows.Scan(&e.ID, &e.Keyword, &e.ProfileID, &e.ProfileName, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan favorite: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// DeleteFavorite removes one favorite by id. Returns false if absent.
func (s *Store) DeleteFavorite(id string) (bool, error) {
	res, err := s.db.Exec(`DELETE FROM favorites WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete favorite: %w", err)
	}
	n, err := res.RowsAffected()
	return n > 0, err
}
