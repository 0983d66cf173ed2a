package datastore

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(filepath.Join(t.TempDir(), "botdata.db"), zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestStatus_MissingRow(t *testing.T) {
	store := newTestStore(t)

	state, exists, err := store.GetStatus("Windows")
	require.NoError(t, err)
	assert.False(t, exists)
	assert.Equal(t, VersionState{}, state)
}

func TestStatus_UpsertAndGet(t *testing.T) {
	store := newTestStore(t)

	original := VersionState{
		Client:      "IOS",
		Version:     "2.671.0",
		PublishDate: "01/10/2024",
		ChannelID:   42,
		Updated:     false,
	}
	require.NoError(t, store.UpsertStatus(original))

	state, exists, err := store.GetStatus("IOS")
	require.NoError(t, err)
	require.True(t, exists)
	assert.Equal(t, original, state)

	// Full replace on conflict.
	original.Version = "2.672.0"
	original.Updated = true
	require.NoError(t, store.UpsertStatus(original))

	state, _, err = store.GetStatus("IOS")
	require.NoError(t, err)
	assert.Equal(t, "2.672.0", state.Version)
	assert.True(t, state.Updated)
}

func TestStatus_LegacyCompositeVersionSplitsOnRead(t *testing.T) {
	store := newTestStore(t)

	// Rows written before the publish date moved to its own column.
	_, err := store.db.Exec(
		`INSERT INTO status (client, version, channel_id, updated) VALUES (?, ?, ?, ?)`,
		"IOS", "2.671.0|01/10/2024", 0, 0,
	)
	require.NoError(t, err)

	state, exists, err := store.GetStatus("IOS")
	require.NoError(t, err)
	require.True(t, exists)
	assert.Equal(t, "2.671.0", state.Version)
	assert.Equal(t, "01/10/2024", state.PublishDate)
}

func TestStatus_Delete(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.UpsertStatus(VersionState{Client: "Mac", Version: "2.671.0"}))
	require.NoError(t, store.DeleteStatus("Mac"))

	_, exists, err := store.GetStatus("Mac")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestChannel_UpsertAndGet(t *testing.T) {
	store := newTestStore(t)

	binding := ChannelBinding{ChannelID: 42, UpdatedText: "updated", NotUpdatedText: "not-updated"}
	require.NoError(t, store.UpsertChannel(binding))

	got, exists, err := store.GetChannel(42)
	require.NoError(t, err)
	require.True(t, exists)
	assert.Equal(t, binding, got)

	binding.NotUpdatedText = "broken"
	require.NoError(t, store.UpsertChannel(binding))
	got, _, err = store.GetChannel(42)
	require.NoError(t, err)
	assert.Equal(t, "broken", got.NotUpdatedText)

	_, exists, err = store.GetChannel(999)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestLogChannel_FirstWriteWins(t *testing.T) {
	store := newTestStore(t)

	got, err := store.GetLogChannel()
	require.NoError(t, err)
	assert.Zero(t, got)

	require.NoError(t, store.SetLogChannel(100))
	require.NoError(t, store.SetLogChannel(200))

	got, err = store.GetLogChannel()
	require.NoError(t, err)
	assert.Equal(t, uint64(100), got)
}

func TestVerifiedUsers(t *testing.T) {
	store := newTestStore(t)

	verified, err := store.IsVerifiedUser(7)
	require.NoError(t, err)
	assert.False(t, verified)

	require.NoError(t, store.AddVerifiedUser(7))
	require.NoError(t, store.AddVerifiedUser(7)) // idempotent

	verified, err = store.IsVerifiedUser(7)
	require.NoError(t, err)
	assert.True(t, verified)

	require.NoError(t, store.RemoveVerifiedUser(7))
	verified, err = store.IsVerifiedUser(7)
	require.NoError(t, err)
	assert.False(t, verified)
}

func TestVerifiedRoles(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.AddVerifiedRole(1))
	require.NoError(t, store.AddVerifiedRole(2))

	roles, err := store.VerifiedRoles()
	require.NoError(t, err)
	assert.ElementsMatch(t, []uint64{1, 2}, roles)

	require.NoError(t, store.RemoveVerifiedRole(1))
	roles, err = store.VerifiedRoles()
	require.NoError(t, err)
	assert.Equal(t, []uint64{2}, roles)
}

func TestIsAuthorized(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.AddVerifiedUser(10))
	require.NoError(t, store.AddVerifiedRole(77))

	cases := []struct {
		name    string
		userID  uint64
		roleIDs []uint64
		want    bool
	}{
		{"owner", 1, nil, true},
		{"verified user", 10, nil, true},
		{"verified role", 55, []uint64{3, 77}, true},
		{"unverified", 55, []uint64{3}, false},
		{"no roles", 55, nil, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := store.IsAuthorized(tc.userID, tc.roleIDs, 1)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestHistory(t *testing.T) {
	store := newTestStore(t)

	base := time.Date(2024, time.January, 10, 12, 0, 0, 0, time.UTC)
	require.NoError(t, store.AddHistory("Windows", "2.670.0", base))
	require.NoError(t, store.AddHistory("Windows", "2.671.0", base.Add(time.Hour)))
	require.NoError(t, store.AddHistory("Windows", "2.672.0", base.Add(2*time.Hour)))
	require.NoError(t, store.AddHistory("Mac", "2.600.0", base))

	entries, err := store.History("Windows", 2)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "2.672.0", entries[0].Version, "newest first")
	assert.Equal(t, "2.671.0", entries[1].Version)

	entries, err = store.History("Linux", 10)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
