package bot

import (
	"context"
	"fmt"
	"time"

	"github.com/riisdev/updatebot/internal/config"
	"github.com/riisdev/updatebot/internal/datastore"
	"github.com/riisdev/updatebot/internal/notifier"
	"github.com/riisdev/updatebot/internal/source"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// AdminStore is the slice of the persistence layer the admin surface
// drives. The bot layer owns permission checks and response formatting;
// the store only exposes the operations and the authorization predicate.
type AdminStore interface {
	GetStatus(client string) (datastore.VersionState, bool, error)
	UpsertStatus(state datastore.VersionState) error
	DeleteStatus(client string) error
	GetChannel(channelID uint64) (datastore.ChannelBinding, bool, error)
	UpsertChannel(binding datastore.ChannelBinding) error
	SetLogChannel(channelID uint64) error
	AddVerifiedUser(discordID uint64) error
	RemoveVerifiedUser(discordID uint64) error
	AddVerifiedRole(roleID uint64) error
	RemoveVerifiedRole(roleID uint64) error
	IsAuthorized(userID uint64, roleIDs []uint64, ownerID uint64) (bool, error)
	History(client string, limit int) ([]datastore.HistoryEntry, error)
}

// Bot is the Discord admin surface: slash commands for managing watched
// clients, channel bindings, verified users/roles, and the log channel.
type Bot struct {
	session     *discordgo.Session
	messenger   notifier.Messenger
	store       AdminStore
	sources     []source.Source
	discordCfg  config.DiscordConfig
	productCfg  config.ProductConfig
	rateLimiter *rate.Limiter
	logger      zerolog.Logger
}

// New creates a new Bot around an existing discordgo session.
func New(session *discordgo.Session, messenger notifier.Messenger, store AdminStore, sources []source.Source, discordCfg config.DiscordConfig, productCfg config.ProductConfig, logger zerolog.Logger) *Bot {
	bot := &Bot{
		session:     session,
		messenger:   messenger,
		store:       store,
		sources:     sources,
		discordCfg:  discordCfg,
		productCfg:  productCfg,
		rateLimiter: rate.NewLimiter(rate.Every(2*time.Second), 10),
		logger:      logger.With().Str("component", "Bot").Logger(),
	}

	session.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildMessages | discordgo.IntentMessageContent
	session.AddHandler(bot.onReady)
	session.AddHandler(bot.onInteractionCreate)

	return bot
}

// Start opens the Discord session, sets presence, and blocks until the
// context is cancelled.
func (b *Bot) Start(ctx context.Context) error {
	if err := b.session.Open(); err != nil {
		return fmt.Errorf("failed to open Discord session: %w", err)
	}

	if err := b.session.UpdateStatusComplex(discordgo.UpdateStatusData{
		Status: string(discordgo.StatusDoNotDisturb),
		Activities: []*discordgo.Activity{
			{
				Name: "Checking for updates...",
				Type: discordgo.ActivityTypeStreaming,
				URL:  b.productCfg.URL,
			},
		},
	}); err != nil {
		b.logger.Warn().Err(err).Msg("Failed to set bot presence")
	}

	<-ctx.Done()

	b.logger.Info().Msg("Shutting down Discord session")
	return b.session.Close()
}

// onReady registers the guild slash commands once the gateway is up.
func (b *Bot) onReady(s *discordgo.Session, event *discordgo.Ready) {
	b.logger.Info().
		Str("username", event.User.Username).
		Msg("Discord bot is ready")

	if err := b.registerCommands(s); err != nil {
		b.logger.Error().Err(err).Msg("Failed to register commands")
	}
}

// onInteractionCreate routes slash-command interactions.
func (b *Bot) onInteractionCreate(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}

	if !b.rateLimiter.Allow() {
		b.logger.Warn().Str("command", i.ApplicationCommandData().Name).Msg("Rate limit exceeded for interaction")
		_ = s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
			Type: discordgo.InteractionResponseChannelMessageWithSource,
			Data: &discordgo.InteractionResponseData{
				Content: "Rate limit exceeded. Please wait before sending another command.",
				Flags:   discordgo.MessageFlagsEphemeral,
			},
		})
		return
	}

	b.handleCommand(s, i)
}
