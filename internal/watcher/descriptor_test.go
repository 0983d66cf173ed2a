package watcher

import (
	"testing"
	"time"

	"github.com/riisdev/updatebot/internal/source"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDescriptor(t *testing.T) {
	date := time.Date(2024, time.January, 10, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "2.671.0|01/10/2024", EncodeDescriptor("2.671.0", date))
	assert.Equal(t, "2.671.0", EncodeDescriptor("2.671.0", time.Time{}))
}

func TestDecodeDescriptor(t *testing.T) {
	version, date := DecodeDescriptor("2.671.0|01/10/2024")
	assert.Equal(t, "2.671.0", version)
	assert.Equal(t, time.Date(2024, time.January, 10, 0, 0, 0, 0, time.UTC), date)

	version, date = DecodeDescriptor("2.671.0")
	assert.Equal(t, "2.671.0", version)
	assert.True(t, date.IsZero())

	version, date = DecodeDescriptor("2.671.0|not a date")
	assert.Equal(t, "2.671.0", version)
	assert.True(t, date.IsZero(), "unparseable date degrades to the minimum sentinel")
}

func TestDescriptorRoundTrip_AllDateFormats(t *testing.T) {
	// Any stored date, whichever legacy format it was written in, must
	// survive decode-encode-decode with the same (version, date) pair.
	rawDates := []string{
		"01/15/2024 13:37:00",
		"15 Jan, 2024 13:37:00",
		"5 Jan, 2024 13:37:00",
		"Jan 5, 2024 13:37:00",
		"Jan 15, 2024 13:37:00",
		"15 Jan 2024 13:37:00",
		"5 Jan 2024 13:37:00",
		"Jan 5 2024 13:37:00",
		"Jan 15 2024 13:37:00",
		"01/15/2024",
		"15 Jan, 2024",
		"5 Jan, 2024",
		"Jan 5, 2024",
		"Jan 15, 2024",
		"15 Jan 2024",
		"5 Jan 2024",
		"Jan 5 2024",
		"Jan 15 2024",
	}

	for _, raw := range rawDates {
		wantDate, ok := source.ParseDate(raw)
		require.True(t, ok, "fixture date %q must parse", raw)

		version, date := DecodeDescriptor("2.671.0|" + raw)
		require.Equal(t, "2.671.0", version, "raw %q", raw)
		require.Equal(t, wantDate, date, "raw %q", raw)

		reVersion, reDate := DecodeDescriptor(EncodeDescriptor(version, date))
		assert.Equal(t, version, reVersion, "raw %q", raw)
		assert.Equal(t, date, reDate, "raw %q", raw)
	}
}

func TestBareVersion(t *testing.T) {
	assert.Equal(t, "2.671.0", BareVersion("2.671.0|01/10/2024"))
	assert.Equal(t, "2.671.0", BareVersion("2.671.0"))
	assert.Equal(t, "", BareVersion(""))
}
