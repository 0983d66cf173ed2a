package datastore

import (
	"database/sql"
	"errors"
	"fmt"
)

// UpsertChannel creates or replaces a channel binding.
func (s *Store) UpsertChannel(binding ChannelBinding) error {
	query := `
	INSERT INTO channel (channel_id, updated_text, not_updated_text)
	VALUES (?, ?, ?)
	ON CONFLICT(channel_id) DO UPDATE SET
		updated_text = excluded.updated_text,
		not_updated_text = excluded.not_updated_text;
	`
	if _, err := s.db.Exec(query, binding.ChannelID, binding.UpdatedText, binding.NotUpdatedText); err != nil {
		return fmt.Errorf("failed to upsert channel %d: %w", binding.ChannelID, err)
	}
	return nil
}

// GetChannel returns the binding for a channel id; the second return value
// reports whether a binding exists.
func (s *Store) GetChannel(channelID uint64) (ChannelBinding, bool, error) {
	query := `SELECT channel_id, updated_text, not_updated_text FROM channel WHERE channel_id = ?`

	var binding ChannelBinding
	err := s.db.QueryRow(query, channelID).Scan(&binding.ChannelID, &binding.UpdatedText, &binding.NotUpdatedText)
	if errors.Is(err, sql.ErrNoRows) {
		return ChannelBinding{}, false, nil
	}
	if err != nil {
		return ChannelBinding{}, false, fmt.Errorf("failed to query channel %d: %w", channelID, err)
	}
	return binding, true, nil
}

// SetLogChannel records the process-wide log channel. The first write wins;
// later writes are ignored.
func (s *Store) SetLogChannel(channelID uint64) error {
	query := `INSERT INTO log_channel (channel_id) VALUES (?) ON CONFLICT(channel_id) DO NOTHING`
	if _, err := s.db.Exec(query, channelID); err != nil {
		return fmt.Errorf("failed to set log channel %d: %w", channelID, err)
	}
	return nil
}

// GetLogChannel returns the configured log channel id, or 0 when unset.
func (s *Store) GetLogChannel() (uint64, error) {
	var channelID uint64
	err := s.db.QueryRow(`SELECT channel_id FROM log_channel LIMIT 1`).Scan(&channelID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to query log channel: %w", err)
	}
	return channelID, nil
}
