package datastore

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

// GetStatus returns the persisted state for a client. The second return
// value reports whether a row exists; the engine must never treat a
// missing row as an error.
func (s *Store) GetStatus(client string) (VersionState, bool, error) {
	query := `SELECT client, version, publish_date, channel_id, updated FROM status WHERE client = ?`

	var state VersionState
	var updated int64
	err := s.db.QueryRow(query, client).Scan(&state.Client, &state.Version, &state.PublishDate, &state.ChannelID, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return VersionState{}, false, nil
	}
	if err != nil {
		return VersionState{}, false, fmt.Errorf("failed to query status for %s: %w", client, err)
	}
	state.Updated = updated != 0

	// Rows written before version and publish date were split into
	// separate columns encode both as "<version>|<date>".
	if state.PublishDate == "" {
		if version, date, found := strings.Cut(state.Version, "|"); found {
			state.Version = version
			state.PublishDate = date
		}
	}

	return state, true, nil
}

// UpsertStatus inserts or fully replaces the state row for a client.
func (s *Store) UpsertStatus(state VersionState) error {
	query := `
	INSERT INTO status (client, version, publish_date, channel_id, updated)
	VALUES (?, ?, ?, ?, ?)
	ON CONFLICT(client) DO UPDATE SET
		version = excluded.version,
		publish_date = excluded.publish_date,
		channel_id = excluded.channel_id,
		updated = excluded.updated;
	`
	updated := 0
	if state.Updated {
		updated = 1
	}
	if _, err := s.db.Exec(query, state.Client, state.Version, state.PublishDate, state.ChannelID, updated); err != nil {
		return fmt.Errorf("failed to upsert status for %s: %w", state.Client, err)
	}

	s.logger.Debug().
		Str("client", state.Client).
		Str("version", state.Version).
		Uint64("channel_id", state.ChannelID).
		Msg("Status upserted")
	return nil
}

// DeleteStatus removes the state row for a client.
func (s *Store) DeleteStatus(client string) error {
	if _, err := s.db.Exec(`DELETE FROM status WHERE client = ?`, client); err != nil {
		return fmt.Errorf("failed to delete status for %s: %w", client, err)
	}
	return nil
}
