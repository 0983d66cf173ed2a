package notifier

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/riisdev/updatebot/internal/datastore"
	"github.com/riisdev/updatebot/internal/watcher"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog"
)

const alertColor = 0xFF0000

// ChannelStore is the slice of the persistence layer the notifier reads.
type ChannelStore interface {
	GetChannel(channelID uint64) (datastore.ChannelBinding, bool, error)
	GetLogChannel() (uint64, error)
}

// DiscordNotifier announces detected updates: it renames the bound
// channel to its not-updated display text and posts an alert embed to the
// process-wide log channel. Both effects are best-effort; a failed
// notification never rolls back the persisted state change.
type DiscordNotifier struct {
	messenger   Messenger
	store       ChannelStore
	guildID     string
	productName string
	logger      zerolog.Logger
}

// NewDiscordNotifier creates a new DiscordNotifier.
func NewDiscordNotifier(messenger Messenger, store ChannelStore, guildID, productName string, logger zerolog.Logger) *DiscordNotifier {
	return &DiscordNotifier{
		messenger:   messenger,
		store:       store,
		guildID:     guildID,
		productName: productName,
		logger:      logger.With().Str("component", "DiscordNotifier").Logger(),
	}
}

// Notify handles one change event. A changed version always resets the
// bound channel's visible status to not-yet-confirmed-updated before the
// alert is posted.
func (n *DiscordNotifier) Notify(ctx context.Context, event watcher.ChangeEvent) error {
	log := n.logger.With().Str("source", event.SourceKey).Logger()

	if event.ChannelID != 0 {
		if err := n.resetBoundChannel(event.ChannelID); err != nil {
			log.Warn().Err(err).Uint64("channel_id", event.ChannelID).Msg("Failed to reset bound channel name")
		}
	}

	logChannelID, err := n.store.GetLogChannel()
	if err != nil {
		return err
	}
	if logChannelID == 0 {
		log.Debug().Msg("No log channel configured, skipping alert")
		return nil
	}
	channelID, ok := n.resolveChannel(logChannelID)
	if !ok {
		log.Warn().Uint64("channel_id", logChannelID).Msg("Log channel not found in guild, skipping alert")
		return nil
	}

	embed := &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("%s Update Detected", event.SourceName),
		Description: fmt.Sprintf("Version: ``%s``\nOld Version: ``%s``", event.NewVersion, event.OldVersion),
		Color:       alertColor,
		Timestamp:   time.Now().UTC().Format(time.RFC3339),
		Footer: &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("%s Update Bot", n.productName),
		},
	}

	if err := n.messenger.SendEmbed(channelID, embed); err != nil {
		return err
	}

	log.Info().
		Str("new_version", event.NewVersion).
		Str("old_version", event.OldVersion).
		Msg("Update alert posted")
	return nil
}

// resetBoundChannel renames the bound channel to its configured
// not-updated text.
func (n *DiscordNotifier) resetBoundChannel(boundID uint64) error {
	channelID, ok := n.resolveChannel(boundID)
	if !ok {
		return fmt.Errorf("bound channel %d not found in guild %s", boundID, n.guildID)
	}

	binding, exists, err := n.store.GetChannel(boundID)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("no binding recorded for channel %d", boundID)
	}

	return n.messenger.RenameChannel(channelID, binding.NotUpdatedText)
}

// resolveChannel confirms a channel id exists in the bound guild and
// returns its string form.
func (n *DiscordNotifier) resolveChannel(id uint64) (string, bool) {
	channels, err := n.messenger.GuildChannels(n.guildID)
	if err != nil {
		n.logger.Warn().Err(err).Str("guild_id", n.guildID).Msg("Failed to list guild channels")
		return "", false
	}

	want := strconv.FormatUint(id, 10)
	for _, channel := range channels {
		if channel.ID == want {
			return channel.ID, true
		}
	}
	return "", false
}
