package watcher

import (
	"context"
	"time"

	"github.com/riisdev/updatebot/internal/datastore"
	"github.com/riisdev/updatebot/internal/source"

	"github.com/rs/zerolog"
)

// StateStore is the slice of the persistence layer the engine needs.
type StateStore interface {
	GetStatus(client string) (datastore.VersionState, bool, error)
	UpsertStatus(state datastore.VersionState) error
	AddHistory(client, version string, recordedAt time.Time) error
}

// VersionFetcher obtains the current raw signal for a source.
type VersionFetcher interface {
	Fetch(ctx context.Context, src source.Source) (source.FetchResult, error)
}

// Notifier announces a detected change. Delivery is best-effort; the
// persisted state transition is authoritative regardless of its outcome.
type Notifier interface {
	Notify(ctx context.Context, event ChangeEvent) error
}

// ChangeEvent describes one detected update. It is consumed within the
// tick that produced it and never queued or retried.
type ChangeEvent struct {
	SourceKey  string
	SourceName string
	OldVersion string
	NewVersion string
	ChannelID  uint64
}

// Pipeline runs one source through fetch, detect, persist, and notify.
type Pipeline struct {
	store    StateStore
	fetcher  VersionFetcher
	notifier Notifier
	logger   zerolog.Logger
}

// NewPipeline creates a new Pipeline.
func NewPipeline(store StateStore, fetcher VersionFetcher, notifier Notifier, logger zerolog.Logger) *Pipeline {
	return &Pipeline{
		store:    store,
		fetcher:  fetcher,
		notifier: notifier,
		logger:   logger.With().Str("component", "Pipeline").Logger(),
	}
}

// Run executes the per-source pipeline. Every failure is handled locally:
// the method never returns an error and never panics, so one source can
// never disturb its siblings in a tick.
func (p *Pipeline) Run(ctx context.Context, src source.Source) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error().Str("source", src.Key).Interface("panic", r).Msg("Recovered panic in source pipeline")
		}
	}()

	log := p.logger.With().Str("source", src.Key).Logger()

	prior, exists, err := p.store.GetStatus(src.Key)
	if err != nil {
		log.Error().Err(err).Msg("Failed to load prior state, skipping tick for source")
		return
	}
	if !exists {
		// Only an explicit watch action creates state; the engine never
		// auto-creates it.
		log.Debug().Msg("Source is not being watched, skipping")
		return
	}

	sig, err := p.fetcher.Fetch(ctx, src)
	if err != nil {
		log.Warn().Err(err).Msg("Fetch failed, will retry next tick")
		return
	}

	decision := Decide(src, prior, sig)
	if !decision.Changed {
		log.Debug().Str("version", sig.Version).Msg("No update detected")
		return
	}

	log.Info().
		Str("old_version", decision.OldVersion).
		Str("new_version", decision.NewState.Version).
		Msg("Update detected")

	// A detected-but-unpersisted change must not be announced.
	if err := p.store.UpsertStatus(decision.NewState); err != nil {
		log.Error().Err(err).Msg("Failed to persist new state, notification suppressed")
		return
	}

	if err := p.store.AddHistory(src.Key, decision.NewState.Version, time.Now().UTC()); err != nil {
		log.Warn().Err(err).Msg("Failed to record version history")
	}

	event := ChangeEvent{
		SourceKey:  src.Key,
		SourceName: src.Name,
		OldVersion: BareVersion(decision.OldVersion),
		NewVersion: decision.NewState.Version,
		ChannelID:  decision.NewState.ChannelID,
	}
	if err := p.notifier.Notify(ctx, event); err != nil {
		log.Warn().Err(err).Msg("Notification failed; state change remains recorded")
	}
}
