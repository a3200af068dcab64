package discord

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"

	"eventbot/internal/domain"
)

func (b *Bot) handleSubscription(ctx context.Context, i *discordgo.InteractionCreate, data discordgo.ApplicationCommandInteractionData) {
	if len(data.Options) == 0 {
		return
	}
	author := interactionUser(i)
	authorID, err := parseSnowflake(author.ID)
	if err != nil {
		b.replyEphemeral(i, genericErrorReply)
		return
	}

	sub := data.Options[0]
	switch sub.Name {
	case "subscribe":
		b.subscribe(ctx, i, authorID, author.Username, sub, data)
	case "unsubscribe":
		b.unsubscribe(ctx, i, authorID, sub, data)
	case "list":
		b.listSubscriptions(ctx, i, authorID)
	}
}

// resolvedUserOption returns the user referenced by the named option,
// resolved from the interaction payload.
func resolvedUserOption(data discordgo.ApplicationCommandInteractionData, opts map[string]*discordgo.ApplicationCommandInteractionDataOption, name string) *discordgo.User {
	o, ok := opts[name]
	if !ok {
		return nil
	}
	id, ok := o.Value.(string)
	if !ok || data.Resolved == nil {
		return nil
	}
	return data.Resolved.Users[id]
}

func (b *Bot) subscribe(ctx context.Context, i *discordgo.InteractionCreate, authorID int64, authorName string, sub *discordgo.ApplicationCommandInteractionDataOption, data discordgo.ApplicationCommandInteractionData) {
	creator := resolvedUserOption(data, optionMap(sub.Options), "creator")
	if creator == nil {
		b.replyEphemeral(i, genericErrorReply)
		return
	}
	creatorID, err := parseSnowflake(creator.ID)
	if err != nil {
		b.replyEphemeral(i, genericErrorReply)
		return
	}

	err = b.subscriptions.Subscribe(ctx, authorID, authorName, creatorID, creator.Username)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			b.replyEphemeral(i, "You can't subscribe to yourself.")
		case errors.Is(err, domain.ErrNotEventCreator):
			b.replyEphemeral(i, fmt.Sprintf("❌ You can't subscribe to %s because they are not an event creator.", creator.Mention()))
		case errors.Is(err, domain.ErrAlreadySubscribed):
			b.replyEphemeral(i, fmt.Sprintf("You are already subscribed to %s.", creator.Mention()))
		default:
			b.logger.Error("subscribe", "subscriber_id", authorID, "creator_id", creatorID, "err", err)
			b.replyEphemeral(i, genericErrorReply)
		}
		return
	}
	b.replyEphemeral(i, fmt.Sprintf("✅ You are now subscribed to notifications from %s!", creator.Mention()))
}

func (b *Bot) unsubscribe(ctx context.Context, i *discordgo.InteractionCreate, authorID int64, sub *discordgo.ApplicationCommandInteractionDataOption, data discordgo.ApplicationCommandInteractionData) {
	creator := resolvedUserOption(data, optionMap(sub.Options), "creator")
	if creator == nil {
		b.replyEphemeral(i, genericErrorReply)
		return
	}
	creatorID, err := parseSnowflake(creator.ID)
	if err != nil {
		b.replyEphemeral(i, genericErrorReply)
		return
	}

	removed, err := b.subscriptions.Unsubscribe(ctx, authorID, creatorID)
	if err != nil {
		b.logger.Error("unsubscribe", "subscriber_id", authorID, "creator_id", creatorID, "err", err)
		b.replyEphemeral(i, genericErrorReply)
		return
	}
	if removed {
		b.replyEphemeral(i, fmt.Sprintf("🗑️ You unsubscribed from %s.", creator.Mention()))
	} else {
		b.replyEphemeral(i, fmt.Sprintf("You were not subscribed to %s.", creator.Mention()))
	}
}

func (b *Bot) listSubscriptions(ctx context.Context, i *discordgo.InteractionCreate, authorID int64) {
	creators, err := b.subscriptions.List(ctx, authorID)
	if err != nil {
		b.logger.Error("list subscriptions", "subscriber_id", authorID, "err", err)
		b.replyEphemeral(i, genericErrorReply)
		return
	}
	if len(creators) == 0 {
		b.replyEphemeral(i, "You have no active subscriptions yet.")
		return
	}

	lines := make([]string, 0, len(creators))
	for _, c := range creators {
		lines = append(lines, fmt.Sprintf("- <@%d>", c.ID))
	}
	embed := &discordgo.MessageEmbed{
		Title:       "🔔 Your subscriptions",
		Description: "You receive notifications about new events from these users:",
		Color:       0x5865F2,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Event creators", Value: strings.Join(lines, "\n")},
		},
	}
	b.replyEphemeralEmbed(i, embed)
}
