package datastore

import (
	"fmt"
	"time"
)

// AddHistory appends a detected-version record for a client.
func (s *Store) AddHistory(client, version string, recordedAt time.Time) error {
	query := `INSERT INTO history (client, version, recorded_at) VALUES (?, ?, ?)`
	if _, err := s.db.Exec(query, client, version, recordedAt.UTC().Format(time.RFC3339)); err != nil {
		return fmt.Errorf("failed to add history for %s: %w", client, err)
	}
	return nil
}

// History returns up to limit most recent detected versions for a client,
// newest first.
func (s *Store) History(client string, limit int) ([]HistoryEntry, error) {
	query := `SELECT client, version, recorded_at FROM history WHERE client = ? ORDER BY recorded_at DESC, id DESC LIMIT ?`
	rows, err := s.db.Query(query, client, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query history for %s: %w", client, err)
	}
	defer rows.Close()

	var entries []HistoryEntry
	for rows.Next() {
		var entry HistoryEntry
		var recordedAt string
		if err := rows.Scan(&entry.Client, &entry.Version, &recordedAt); err != nil {
			return nil, fmt.Errorf("failed to scan history row: %w", err)
		}
		if parsed, err := time.Parse(time.RFC3339, recordedAt); err == nil {
			entry.RecordedAt = parsed
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate history rows: %w", err)
	}
	return entries, nil
}
