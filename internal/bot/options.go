package bot

import (
	"fmt"
	"strconv"

	"github.com/bwmarrin/discordgo"
)

// commandOptions gives name-based access to a command's options.
type commandOptions map[string]*discordgo.ApplicationCommandInteractionDataOption

func optionMap(options []*discordgo.ApplicationCommandInteractionDataOption) commandOptions {
	mapped := make(commandOptions, len(options))
	for _, option := range options {
		mapped[option.Name] = option
	}
	return mapped
}

func (o commandOptions) str(name string) string {
	option, ok := o[name]
	if !ok {
		return ""
	}
	value, _ := option.Value.(string)
	return value
}

// client returns the selected client key.
func (o commandOptions) client() string {
	return o.str("client")
}

// channelID returns the selected channel's id, or 0 when absent.
func (o commandOptions) channelID() uint64 {
	return parseSnowflake(o.str("channel"))
}

// user returns the selected user's id and a mention for display.
func (o commandOptions) user() (uint64, string) {
	id := parseSnowflake(o.str("user"))
	return id, fmt.Sprintf("<@%d>", id)
}

// role returns the selected role's id and a mention for display.
func (o commandOptions) role() (uint64, string) {
	id := parseSnowflake(o.str("role"))
	return id, fmt.Sprintf("<@&%d>", id)
}

func parseSnowflake(raw string) uint64 {
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0
	}
	return id
}
