package discord

import (
	"context"

	"github.com/bwmarrin/discordgo"

	discordadapter "eventbot/internal/adapters/discord"
)

// onReactionAdd feeds approval reactions into the slot-assignment workflow.
// The bot's own reactions and any emoji other than the approval marker are
// filtered out here; every other guard lives in the service, which treats
// the signal as redeliverable.
func (b *Bot) onReactionAdd(s *discordgo.Session, r *discordgo.MessageReactionAdd) {
	if r.UserID == s.State.User.ID || r.Emoji.Name != discordadapter.ApproveEmoji {
		return
	}
	actorID, err := parseSnowflake(r.UserID)
	if err != nil {
		return
	}
	messageID, err := parseSnowflake(r.MessageID)
	if err != nil {
		return
	}
	if err := b.events.Approve(context.Background(), messageID, actorID); err != nil {
		b.logger.Error("process approval", "message_id", r.MessageID, "actor_id", r.UserID, "err", err)
	}
}
