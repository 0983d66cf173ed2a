package watcher

import (
	"github.com/riisdev/updatebot/internal/datastore"
	"github.com/riisdev/updatebot/internal/source"
)

// Decision is the outcome of comparing a fresh signal against persisted
// state.
type Decision struct {
	Changed    bool
	OldVersion string
	NewState   datastore.VersionState
}

// Decide determines whether a genuine update occurred. It is a pure
// function of its inputs: running it twice with the same signal and prior
// state yields the same decision.
//
// An update requires a differing version token AND, when the source has a
// date dimension, a strictly newer publish date. Storefronts occasionally
// re-serve a stale version string after the listing date advanced, and
// re-publishes can repeat a version under a fresh date; gating on both
// avoids false positives from either.
func Decide(src source.Source, prior datastore.VersionState, sig source.FetchResult) Decision {
	priorDate, _ := source.ParseDate(prior.PublishDate)

	if sig.Version == prior.Version {
		return Decision{}
	}
	if src.HasDateDimension() && !sig.Date.After(priorDate) {
		return Decision{}
	}

	newState := prior
	newState.Client = src.Key
	newState.Version = sig.Version
	newState.PublishDate = source.FormatDate(sig.Date)
	// A fresh version starts not-yet-declared-updated; an operator flips
	// it once compatibility is confirmed.
	newState.Updated = false

	return Decision{
		Changed:    true,
		OldVersion: prior.Version,
		NewState:   newState,
	}
}
