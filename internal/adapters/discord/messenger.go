package discord

import (
	"context"
	"fmt"
	"strconv"

	"github.com/bwmarrin/discordgo"

	"eventbot/internal/domain"
)

// ApproveEmoji is the reaction that approves a signup request.
const ApproveEmoji = "✅"

// Messenger implements domain.Messenger on top of a discordgo session.
type Messenger struct {
	session *discordgo.Session
}

func NewMessenger(session *discordgo.Session) *Messenger {
	return &Messenger{session: session}
}

func (m *Messenger) PublishAnnouncement(ctx context.Context, channelID int64, a *domain.EventAnnouncement) (int64, error) {
	msg, err := m.session.ChannelMessageSendComplex(snowflake(channelID), &discordgo.MessageSend{
		Embeds:     []*discordgo.MessageEmbed{renderAnnouncement(a)},
		Components: []discordgo.MessageComponent{signupRow(a.EventID)},
	}, discordgo.WithContext(ctx))
	if err != nil {
		return 0, fmt.Errorf("send announcement: %w", err)
	}
	return parseSnowflake(msg.ID)
}

func (m *Messenger) EditAnnouncement(ctx context.Context, channelID, messageID int64, a *domain.EventAnnouncement) error {
	edit := discordgo.NewMessageEdit(snowflake(channelID), snowflake(messageID))
	edit.SetEmbeds([]*discordgo.MessageEmbed{renderAnnouncement(a)})
	if _, err := m.session.ChannelMessageEditComplex(edit, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("edit announcement: %w", err)
	}
	return nil
}

func (m *Messenger) CreateDiscussionThread(ctx context.Context, channelID, messageID int64, title string) (int64, error) {
	thread, err := m.session.MessageThreadStartComplex(snowflake(channelID), snowflake(messageID), &discordgo.ThreadStart{
		Name:                truncate(title, 100),
		AutoArchiveDuration: 1440,
	}, discordgo.WithContext(ctx))
	if err != nil {
		return 0, fmt.Errorf("start thread: %w", err)
	}
	return parseSnowflake(thread.ID)
}

func (m *Messenger) SendApprovalPrompt(ctx context.Context, threadID int64, p *domain.ApprovalPrompt) (int64, error) {
	content := fmt.Sprintf("<@%d> requested slot `%d. %s`. <@%d>, react with %s to approve.",
		p.RequesterID, p.SlotNumber, p.RoleName, p.OwnerID, ApproveEmoji)
	msg, err := m.session.ChannelMessageSend(snowflake(threadID), content, discordgo.WithContext(ctx))
	if err != nil {
		return 0, fmt.Errorf("send approval prompt: %w", err)
	}
	if err := m.session.MessageReactionAdd(snowflake(threadID), msg.ID, ApproveEmoji, discordgo.WithContext(ctx)); err != nil {
		return 0, fmt.Errorf("attach approval reaction: %w", err)
	}
	return parseSnowflake(msg.ID)
}

func (m *Messenger) MarkPromptApproved(ctx context.Context, threadID, messageID int64, p *domain.ApprovalPrompt) error {
	content := fmt.Sprintf("%s Request from <@%d> for slot `%d. %s` **approved**.",
		ApproveEmoji, p.RequesterID, p.SlotNumber, p.RoleName)
	edit := discordgo.NewMessageEdit(snowflake(threadID), snowflake(messageID))
	edit.SetContent(content)
	if _, err := m.session.ChannelMessageEditComplex(edit, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("edit approval prompt: %w", err)
	}
	if err := m.session.MessageReactionsRemoveAll(snowflake(threadID), snowflake(messageID), discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("clear prompt reactions: %w", err)
	}
	return nil
}

func (m *Messenger) NotifySubscriber(ctx context.Context, userID int64, a *domain.EventAnnouncement) error {
	channel, err := m.session.UserChannelCreate(snowflake(userID), discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("open dm channel: %w", err)
	}
	_, err = m.session.ChannelMessageSendComplex(channel.ID, &discordgo.MessageSend{
		Content: fmt.Sprintf("🔔 <@%d> published a new event!", a.OwnerID),
		Embeds:  []*discordgo.MessageEmbed{renderAnnouncement(a)},
	}, discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("send dm: %w", err)
	}
	return nil
}

func snowflake(id int64) string {
	return strconv.FormatInt(id, 10)
}

func parseSnowflake(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse snowflake %q: %w", s, err)
	}
	return id, nil
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
