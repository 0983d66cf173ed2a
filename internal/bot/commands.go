package bot

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/riisdev/updatebot/internal/datastore"

	"github.com/bwmarrin/discordgo"
)

const historyDisplayLimit = 10

// registerCommands registers the admin slash commands for the bound guild.
func (b *Bot) registerCommands(s *discordgo.Session) error {
	clientOption := &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionString,
		Name:        "client",
		Description: "Watched client",
		Required:    true,
		Choices:     b.clientChoices(),
	}

	commands := []*discordgo.ApplicationCommand{
		{
			Name:        "watch",
			Description: "Watches a client for updates, without updating a channel.",
			Options:     []*discordgo.ApplicationCommandOption{clientOption},
		},
		{
			Name:        "unwatch",
			Description: "Unwatches a client for updates.",
			Options:     []*discordgo.ApplicationCommandOption{clientOption},
		},
		{
			Name:        "update-channel",
			Description: "Updates bind between client and channel",
			Options: []*discordgo.ApplicationCommandOption{
				clientOption,
				{
					Type:        discordgo.ApplicationCommandOptionChannel,
					Name:        "channel",
					Description: "Channel whose name reflects update state",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "updated-name",
					Description: "Channel name while the client is updated",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "not-updated-name",
					Description: "Channel name while the client is not updated",
					Required:    true,
				},
			},
		},
		{
			Name:        "updated",
			Description: "Declares a client as updated.",
			Options:     []*discordgo.ApplicationCommandOption{clientOption},
		},
		{
			Name:        "un-update",
			Description: "Declares a client as not updated.",
			Options:     []*discordgo.ApplicationCommandOption{clientOption},
		},
		{
			Name:        "add-user",
			Description: "Allows a user to set statuses",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionUser,
					Name:        "user",
					Description: "User to verify",
					Required:    true,
				},
			},
		},
		{
			Name:        "remove-user",
			Description: "Disallows a user to set statuses",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionUser,
					Name:        "user",
					Description: "User to remove",
					Required:    true,
				},
			},
		},
		{
			Name:        "add-role",
			Description: "Allows a role to set statuses",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionRole,
					Name:        "role",
					Description: "Role to verify",
					Required:    true,
				},
			},
		},
		{
			Name:        "remove-role",
			Description: "Disallows a role to set statuses",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionRole,
					Name:        "role",
					Description: "Role to remove",
					Required:    true,
				},
			},
		},
		{
			Name:        "set-log",
			Description: "Set log channel to display update logs",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionChannel,
					Name:        "channel",
					Description: "Channel that receives update alerts",
					Required:    true,
				},
			},
		},
		{
			Name:        "history",
			Description: "Shows recently detected versions for a client.",
			Options:     []*discordgo.ApplicationCommandOption{clientOption},
		},
	}

	for _, command := range commands {
		if _, err := s.ApplicationCommandCreate(s.State.User.ID, b.discordCfg.GuildID, command); err != nil {
			return fmt.Errorf("failed to register command %s: %w", command.Name, err)
		}
	}

	b.logger.Info().Int("count", len(commands)).Msg("Slash commands registered")
	return nil
}

func (b *Bot) clientChoices() []*discordgo.ApplicationCommandOptionChoice {
	choices := make([]*discordgo.ApplicationCommandOptionChoice, 0, len(b.sources))
	for _, src := range b.sources {
		choices = append(choices, &discordgo.ApplicationCommandOptionChoice{
			Name:  src.Name,
			Value: src.Key,
		})
	}
	return choices
}

// handleCommand defers the interaction, checks authorization, and routes
// to the matching handler. Handlers return the follow-up message text.
func (b *Bot) handleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	data := i.ApplicationCommandData()

	if err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
	}); err != nil {
		b.logger.Error().Err(err).Str("command", data.Name).Msg("Failed to defer interaction response")
		return
	}

	var response string

	authorized, err := b.isAuthorized(i)
	switch {
	case err != nil:
		b.logger.Error().Err(err).Str("command", data.Name).Msg("Authorization check failed")
		response = "Failed to check permissions, try again later"
	case !authorized:
		response = "You do not have permission for this command"
	default:
		response, err = b.dispatch(data)
		if err != nil {
			b.logger.Error().Err(err).Str("command", data.Name).Msg("Command execution failed")
			response = fmt.Sprintf("Error: %v", err)
		}
	}

	if _, err := s.FollowupMessageCreate(i.Interaction, true, &discordgo.WebhookParams{
		Content: response,
	}); err != nil {
		b.logger.Error().Err(err).Str("command", data.Name).Msg("Failed to send follow-up message")
	}
}

func (b *Bot) dispatch(data discordgo.ApplicationCommandInteractionData) (string, error) {
	options := optionMap(data.Options)

	switch data.Name {
	case "watch":
		return b.handleWatch(options)
	case "unwatch":
		return b.handleUnwatch(options)
	case "update-channel":
		return b.handleUpdateChannel(options)
	case "updated":
		return b.handleSetUpdated(options, true)
	case "un-update":
		return b.handleSetUpdated(options, false)
	case "add-user":
		return b.handleAddUser(options)
	case "remove-user":
		return b.handleRemoveUser(options)
	case "add-role":
		return b.handleAddRole(options)
	case "remove-role":
		return b.handleRemoveRole(options)
	case "set-log":
		return b.handleSetLog(options)
	case "history":
		return b.handleHistory(options)
	default:
		return "Unknown command", nil
	}
}

// isAuthorized evaluates the store's authorization predicate for the
// interaction's member.
func (b *Bot) isAuthorized(i *discordgo.InteractionCreate) (bool, error) {
	if i.Member == nil || i.Member.User == nil {
		return false, nil
	}

	userID, err := strconv.ParseUint(i.Member.User.ID, 10, 64)
	if err != nil {
		return false, fmt.Errorf("unparseable user id %q: %w", i.Member.User.ID, err)
	}

	roleIDs := make([]uint64, 0, len(i.Member.Roles))
	for _, role := range i.Member.Roles {
		if roleID, err := strconv.ParseUint(role, 10, 64); err == nil {
			roleIDs = append(roleIDs, roleID)
		}
	}

	ownerID, _ := strconv.ParseUint(b.discordCfg.OwnerID, 10, 64)
	return b.store.IsAuthorized(userID, roleIDs, ownerID)
}

func (b *Bot) handleWatch(options commandOptions) (string, error) {
	client := options.client()

	state, exists, err := b.store.GetStatus(client)
	if err != nil {
		return "", err
	}
	if !exists {
		state = datastore.VersionState{Client: client}
	}
	// Watching without a channel always clears any previous binding.
	state.ChannelID = 0
	if err := b.store.UpsertStatus(state); err != nil {
		return "", err
	}

	return fmt.Sprintf("Successfully started watching **%s**", client), nil
}

func (b *Bot) handleUnwatch(options commandOptions) (string, error) {
	client := options.client()

	if err := b.store.DeleteStatus(client); err != nil {
		return "", err
	}
	return fmt.Sprintf("Successfully stopped watching **%s**", client), nil
}

func (b *Bot) handleUpdateChannel(options commandOptions) (string, error) {
	client := options.client()
	channelID := options.channelID()
	updatedName := options.str("updated-name")
	notUpdatedName := options.str("not-updated-name")

	if channelID == 0 {
		return "", fmt.Errorf("channel option is required")
	}

	if err := b.store.UpsertChannel(datastore.ChannelBinding{
		ChannelID:      channelID,
		UpdatedText:    updatedName,
		NotUpdatedText: notUpdatedName,
	}); err != nil {
		return "", err
	}

	state, exists, err := b.store.GetStatus(client)
	if err != nil {
		return "", err
	}
	if !exists {
		state = datastore.VersionState{Client: client}
	}
	state.ChannelID = channelID
	if err := b.store.UpsertStatus(state); err != nil {
		return "", err
	}

	return fmt.Sprintf("Successfully bound **%s** to <#%d>, with text ``%s`` and ``%s``",
		client, channelID, updatedName, notUpdatedName), nil
}

func (b *Bot) handleSetUpdated(options commandOptions, updated bool) (string, error) {
	client := options.client()

	state, exists, err := b.store.GetStatus(client)
	if err != nil {
		return "", err
	}
	if !exists {
		return fmt.Sprintf("Failed to update **%s**, client isn't initialized", client), nil
	}

	state.Updated = updated
	if err := b.store.UpsertStatus(state); err != nil {
		return "", err
	}

	if state.ChannelID == 0 {
		return fmt.Sprintf("Successfully updated **%s** (no channel bound)", client), nil
	}

	binding, bindingExists, err := b.store.GetChannel(state.ChannelID)
	if err != nil {
		return "", err
	}
	if !bindingExists {
		return "Failed to update bound channel, no binding recorded.", nil
	}

	name := binding.NotUpdatedText
	if updated {
		name = binding.UpdatedText
	}
	if err := b.messenger.RenameChannel(strconv.FormatUint(state.ChannelID, 10), name); err != nil {
		b.logger.Warn().Err(err).Uint64("channel_id", state.ChannelID).Msg("Failed to rename bound channel")
		return "Failed to update bound channel, not found.", nil
	}

	return fmt.Sprintf("Successfully updated **%s**", client), nil
}

func (b *Bot) handleAddUser(options commandOptions) (string, error) {
	userID, name := options.user()
	if userID == 0 {
		return "", fmt.Errorf("user option is required")
	}
	if err := b.store.AddVerifiedUser(userID); err != nil {
		return "", err
	}
	return fmt.Sprintf("Successfully added %s to the verified users list", name), nil
}

func (b *Bot) handleRemoveUser(options commandOptions) (string, error) {
	userID, name := options.user()
	if userID == 0 {
		return "", fmt.Errorf("user option is required")
	}
	if err := b.store.RemoveVerifiedUser(userID); err != nil {
		return "", err
	}
	return fmt.Sprintf("Successfully removed %s from the verified users list", name), nil
}

func (b *Bot) handleAddRole(options commandOptions) (string, error) {
	roleID, name := options.role()
	if roleID == 0 {
		return "", fmt.Errorf("role option is required")
	}
	if err := b.store.AddVerifiedRole(roleID); err != nil {
		return "", err
	}
	return fmt.Sprintf("Successfully added %s to the verified roles list", name), nil
}

func (b *Bot) handleRemoveRole(options commandOptions) (string, error) {
	roleID, name := options.role()
	if roleID == 0 {
		return "", fmt.Errorf("role option is required")
	}
	if err := b.store.RemoveVerifiedRole(roleID); err != nil {
		return "", err
	}
	return fmt.Sprintf("Successfully removed %s from the verified roles list", name), nil
}

func (b *Bot) handleSetLog(options commandOptions) (string, error) {
	channelID := options.channelID()
	if channelID == 0 {
		return "", fmt.Errorf("channel option is required")
	}
	if err := b.store.SetLogChannel(channelID); err != nil {
		return "", err
	}
	return fmt.Sprintf("Successfully set <#%d> as the log channel", channelID), nil
}

func (b *Bot) handleHistory(options commandOptions) (string, error) {
	client := options.client()

	entries, err := b.store.History(client, historyDisplayLimit)
	if err != nil {
		return "", err
	}
	if len(entries) == 0 {
		return fmt.Sprintf("No recorded versions for **%s**", client), nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Recent versions for **%s**:\n", client)
	for _, entry := range entries {
		fmt.Fprintf(&sb, "``%s`` at %s\n", entry.Version, entry.RecordedAt.Format("2006-01-02 15:04"))
	}
	return sb.String(), nil
}
