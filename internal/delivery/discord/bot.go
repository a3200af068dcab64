package discord

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/bwmarrin/discordgo"

	"eventbot/internal/domain"
)

// Bot wires the slash-command surface and gateway events to the domain
// services.
type Bot struct {
	session       *discordgo.Session
	logger        *slog.Logger
	users         domain.UserService
	events        domain.EventService
	templates     domain.TemplateService
	subscriptions domain.SubscriptionService

	// testGuildID scopes command registration to one guild during
	// development; empty means global registration.
	testGuildID string
	// ownerID is the bot application's owner, the only user allowed to
	// run /admin commands.
	ownerID string
}

func NewBot(
	session *discordgo.Session,
	logger *slog.Logger,
	users domain.UserService,
	events domain.EventService,
	templates domain.TemplateService,
	subscriptions domain.SubscriptionService,
	testGuildID string,
) *Bot {
	return &Bot{
		session:       session,
		logger:        logger,
		users:         users,
		events:        events,
		templates:     templates,
		subscriptions: subscriptions,
		testGuildID:   testGuildID,
	}
}

// Start opens the gateway connection and registers the command surface.
func (b *Bot) Start() error {
	b.session.AddHandler(b.onInteractionCreate)
	b.session.AddHandler(b.onReactionAdd)
	b.session.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsGuildMessageReactions |
		discordgo.IntentsDirectMessages

	if err := b.session.Open(); err != nil {
		return fmt.Errorf("open gateway: %w", err)
	}

	app, err := b.session.Application("@me")
	if err != nil {
		return fmt.Errorf("fetch application: %w", err)
	}
	if app.Owner != nil {
		b.ownerID = app.Owner.ID
	}

	if _, err := b.session.ApplicationCommandBulkOverwrite(b.session.State.User.ID, b.testGuildID, commands); err != nil {
		return fmt.Errorf("register commands: %w", err)
	}

	b.logger.Info("bot ready", "user", b.session.State.User.Username)
	return nil
}

// Close shuts the gateway connection down.
func (b *Bot) Close() error {
	return b.session.Close()
}

func (b *Bot) onInteractionCreate(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()
	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		data := i.ApplicationCommandData()
		switch data.Name {
		case "admin":
			b.handleAdmin(ctx, i, data)
		case "event":
			b.handleEvent(ctx, i, data)
		case "template":
			b.handleTemplate(ctx, i, data)
		case "subscription":
			b.handleSubscription(ctx, i, data)
		}
	case discordgo.InteractionApplicationCommandAutocomplete:
		b.handleTemplateAutocomplete(ctx, i)
	case discordgo.InteractionMessageComponent:
		b.handleSignupButton(ctx, i)
	case discordgo.InteractionModalSubmit:
		b.handleSignupModal(ctx, i)
	}
}

// interactionUser returns the invoking user regardless of whether the
// interaction came from a guild or a DM.
func interactionUser(i *discordgo.InteractionCreate) *discordgo.User {
	if i.Member != nil {
		return i.Member.User
	}
	return i.User
}

func optionMap(options []*discordgo.ApplicationCommandInteractionDataOption) map[string]*discordgo.ApplicationCommandInteractionDataOption {
	m := make(map[string]*discordgo.ApplicationCommandInteractionDataOption, len(options))
	for _, o := range options {
		m[o.Name] = o
	}
	return m
}

func parseSnowflake(s string) (int64, error) {
	return strconv.ParseInt(s, 10, 64)
}
