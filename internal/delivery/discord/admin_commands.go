package discord

import (
	"context"
	"errors"
	"fmt"

	"github.com/bwmarrin/discordgo"

	"eventbot/internal/domain"
)

func (b *Bot) handleAdmin(ctx context.Context, i *discordgo.InteractionCreate, data discordgo.ApplicationCommandInteractionData) {
	if len(data.Options) == 0 || data.Options[0].Name != "setrole" {
		return
	}

	// Admin commands are gated on platform-level ownership of the bot
	// application, not on the stored role column.
	actor := interactionUser(i)
	if b.ownerID == "" || actor.ID != b.ownerID {
		b.replyEphemeral(i, "Only the bot owner can use admin commands.")
		return
	}

	opts := optionMap(data.Options[0].Options)
	target := resolvedUserOption(data, opts, "user")
	if target == nil {
		b.replyEphemeral(i, genericErrorReply)
		return
	}
	targetID, err := parseSnowflake(target.ID)
	if err != nil {
		b.replyEphemeral(i, genericErrorReply)
		return
	}
	role := opts["role"].StringValue()

	if err := b.users.SetRole(ctx, targetID, target.Username, role); err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			b.replyEphemeral(i, fmt.Sprintf("Unknown role '%s'.", role))
			return
		}
		b.logger.Error("set role", "target_id", targetID, "role", role, "err", err)
		b.replyEphemeral(i, genericErrorReply)
		return
	}
	b.replyEphemeral(i, fmt.Sprintf("%s was given the role `%s`.", target.Mention(), role))
}
