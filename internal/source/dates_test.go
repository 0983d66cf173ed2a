package source

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate_AllowedFormats(t *testing.T) {
	want := time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC)

	inputs := []string{
		"01/15/2024 13:37:00",
		"15 Jan, 2024 13:37:00",
		"Jan 15, 2024 13:37:00",
		"15 Jan 2024 13:37:00",
		"Jan 15 2024 13:37:00",
		"01/15/2024",
		"15 Jan, 2024",
		"Jan 15, 2024",
		"15 Jan 2024",
		"Jan 15 2024",
	}

	for _, input := range inputs {
		parsed, ok := ParseDate(input)
		require.True(t, ok, "expected %q to parse", input)
		assert.Equal(t, want, parsed, "input %q", input)
	}
}

func TestParseDate_SingleDigitDay(t *testing.T) {
	want := time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC)

	for _, input := range []string{"5 Mar, 2024", "Mar 5, 2024", "5 Mar 2024", "Mar 5 2024"} {
		parsed, ok := ParseDate(input)
		require.True(t, ok, "expected %q to parse", input)
		assert.Equal(t, want, parsed, "input %q", input)
	}
}

func TestParseDate_TimeOfDayDiscarded(t *testing.T) {
	parsed, ok := ParseDate("Jan 15, 2024 23:59:59")
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC), parsed)
}

func TestParseDate_Unparseable(t *testing.T) {
	for _, input := range []string{"", "   ", "yesterday", "2024-01-15", "15/01/2024 hello"} {
		parsed, ok := ParseDate(input)
		assert.False(t, ok, "expected %q not to parse", input)
		assert.True(t, parsed.IsZero(), "expected zero time for %q", input)
	}
}

func TestFormatDate(t *testing.T) {
	date := time.Date(2024, time.January, 5, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "01/05/2024", FormatDate(date))
	assert.Equal(t, "", FormatDate(time.Time{}))
}

func TestFormatDate_RoundTrip(t *testing.T) {
	date := time.Date(2024, time.December, 31, 0, 0, 0, 0, time.UTC)
	parsed, ok := ParseDate(FormatDate(date))
	require.True(t, ok)
	assert.Equal(t, date, parsed)
}
