package notifier

import (
	"github.com/bwmarrin/discordgo"
)

// Messenger is the slice of the messaging platform the notifier needs:
// list a guild's channels, rename one, and post an embed.
type Messenger interface {
	GuildChannels(guildID string) ([]*discordgo.Channel, error)
	RenameChannel(channelID, name string) error
	SendEmbed(channelID string, embed *discordgo.MessageEmbed) error
}

// SessionMessenger adapts a live discordgo session to the Messenger
// interface.
type SessionMessenger struct {
	session *discordgo.Session
}

// NewSessionMessenger creates a Messenger backed by a discordgo session.
func NewSessionMessenger(session *discordgo.Session) *SessionMessenger {
	return &SessionMessenger{session: session}
}

// GuildChannels lists the channels of a guild.
func (m *SessionMessenger) GuildChannels(guildID string) ([]*discordgo.Channel, error) {
	return m.session.GuildChannels(guildID)
}

// RenameChannel changes a channel's display name.
func (m *SessionMessenger) RenameChannel(channelID, name string) error {
	_, err := m.session.ChannelEditComplex(channelID, &discordgo.ChannelEdit{Name: name})
	return err
}

// SendEmbed posts an embed message to a channel.
func (m *SessionMessenger) SendEmbed(channelID string, embed *discordgo.MessageEmbed) error {
	_, err := m.session.ChannelMessageSendEmbed(channelID, embed)
	return err
}
