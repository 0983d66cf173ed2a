package datastore

import "time"

// VersionState is the persisted last-known state for one watched client.
// Version and PublishDate are stored as separate columns; PublishDate is
// the raw date string the source reported (empty when the source has no
// date dimension).
type VersionState struct {
	Client      string
	Version     string
	PublishDate string
	ChannelID   uint64
	Updated     bool
}

// ChannelBinding holds the two display names a bound channel toggles
// between.
type ChannelBinding struct {
	ChannelID      uint64
	UpdatedText    string
	NotUpdatedText string
}

// HistoryEntry records one detected version for a client.
type HistoryEntry struct {
	Client     string
	Version    string
	RecordedAt time.Time
}
