package watcher

import (
	"strings"
	"time"

	"github.com/riisdev/updatebot/internal/source"
)

// Version descriptors historically persisted a source's version and
// publish date as one delimited string. The store now keeps them in
// separate columns; these helpers remain the compatibility codec for
// pre-existing rows and the wire form used in a few admin displays.

// EncodeDescriptor renders a (version, date) pair as a composite
// descriptor. A zero date yields the bare version token.
func EncodeDescriptor(version string, date time.Time) string {
	if date.IsZero() {
		return version
	}
	return version + "|" + source.FormatDate(date)
}

// DecodeDescriptor splits a composite descriptor into its version token
// and publish date. A missing or unparseable date yields the zero time,
// which compares as "always older".
func DecodeDescriptor(descriptor string) (string, time.Time) {
	version, rawDate, found := strings.Cut(descriptor, "|")
	if !found {
		return descriptor, time.Time{}
	}
	date, _ := source.ParseDate(rawDate)
	return version, date
}

// BareVersion strips the date component from a composite descriptor.
func BareVersion(descriptor string) string {
	version, _, _ := strings.Cut(descriptor, "|")
	return version
}
