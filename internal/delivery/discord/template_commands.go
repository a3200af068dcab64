package discord

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"

	"eventbot/internal/domain"
)

func (b *Bot) handleTemplate(ctx context.Context, i *discordgo.InteractionCreate, data discordgo.ApplicationCommandInteractionData) {
	if len(data.Options) == 0 {
		return
	}
	guildID, err := parseSnowflake(i.GuildID)
	if err != nil {
		b.replyEphemeral(i, "Template commands only work inside a server.")
		return
	}

	sub := data.Options[0]
	switch sub.Name {
	case "create":
		b.templateCreate(ctx, i, guildID, optionMap(sub.Options))
	case "list":
		b.templateList(ctx, i, guildID)
	case "delete":
		b.templateDelete(ctx, i, guildID, optionMap(sub.Options))
	}
}

func (b *Bot) templateCreate(ctx context.Context, i *discordgo.InteractionCreate, guildID int64, opts map[string]*discordgo.ApplicationCommandInteractionDataOption) {
	name := opts["name"].StringValue()
	roles := opts["roles"].StringValue()

	t, err := b.templates.Create(ctx, guildID, name, roles)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrAlreadyExists):
			b.replyEphemeral(i, fmt.Sprintf("A template named **%s** already exists on this server.", name))
		case errors.Is(err, domain.ErrNoRolesResolved):
			b.replyEphemeral(i, "You didn't provide any roles!")
		case errors.Is(err, domain.ErrInvalidInput):
			b.replyEphemeral(i, "The template needs a name.")
		default:
			b.logger.Error("create template", "guild_id", guildID, "name", name, "err", err)
			b.replyEphemeral(i, genericErrorReply)
		}
		return
	}
	b.replyEphemeral(i, fmt.Sprintf("✅ Template **%s** created with %d roles.", t.Name, len(t.Roles)))
}

func (b *Bot) templateList(ctx context.Context, i *discordgo.InteractionCreate, guildID int64) {
	templates, err := b.templates.List(ctx, guildID)
	if err != nil {
		b.logger.Error("list templates", "guild_id", guildID, "err", err)
		b.replyEphemeral(i, genericErrorReply)
		return
	}
	if len(templates) == 0 {
		b.replyEphemeral(i, "This server has no templates yet.")
		return
	}

	embed := &discordgo.MessageEmbed{
		Title: "📋 Role templates on this server",
		Color: 0x5865F2,
	}
	for _, t := range templates {
		roles := strings.Join(t.RoleNames(), ", ")
		if roles == "" {
			roles = "No roles"
		}
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  fmt.Sprintf("🔹 %s", t.Name),
			Value: fmt.Sprintf("`%s`", roles),
		})
	}
	b.replyEphemeralEmbed(i, embed)
}

func (b *Bot) templateDelete(ctx context.Context, i *discordgo.InteractionCreate, guildID int64, opts map[string]*discordgo.ApplicationCommandInteractionDataOption) {
	name := opts["name"].StringValue()
	if err := b.templates.Delete(ctx, guildID, name); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			b.replyEphemeral(i, fmt.Sprintf("Couldn't find a template named **%s**.", name))
			return
		}
		b.logger.Error("delete template", "guild_id", guildID, "name", name, "err", err)
		b.replyEphemeral(i, genericErrorReply)
		return
	}
	b.replyEphemeral(i, fmt.Sprintf("🗑️ Template **%s** was deleted.", name))
}

// handleTemplateAutocomplete serves template-name suggestions for
// /event create and /template delete.
func (b *Bot) handleTemplateAutocomplete(ctx context.Context, i *discordgo.InteractionCreate) {
	guildID, err := parseSnowflake(i.GuildID)
	if err != nil {
		return
	}
	input := focusedOptionValue(i.ApplicationCommandData().Options)

	templates, err := b.templates.List(ctx, guildID)
	if err != nil {
		b.logger.Warn("autocomplete templates", "guild_id", guildID, "err", err)
		return
	}

	choices := make([]*discordgo.ApplicationCommandOptionChoice, 0, len(templates))
	for _, t := range templates {
		if input != "" && !strings.Contains(strings.ToLower(t.Name), strings.ToLower(input)) {
			continue
		}
		choices = append(choices, &discordgo.ApplicationCommandOptionChoice{Name: t.Name, Value: t.Name})
		if len(choices) == 25 {
			break
		}
	}

	err = b.session.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionApplicationCommandAutocompleteResult,
		Data: &discordgo.InteractionResponseData{Choices: choices},
	})
	if err != nil {
		b.logger.Warn("autocomplete respond", "err", err)
	}
}

// focusedOptionValue finds the option currently being typed, descending into
// subcommands.
func focusedOptionValue(options []*discordgo.ApplicationCommandInteractionDataOption) string {
	for _, o := range options {
		if o.Focused {
			return o.StringValue()
		}
		if v := focusedOptionValue(o.Options); v != "" {
			return v
		}
	}
	return ""
}
