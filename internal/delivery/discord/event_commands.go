package discord

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"

	discordadapter "eventbot/internal/adapters/discord"
	"eventbot/internal/domain"
)

func (b *Bot) handleEvent(ctx context.Context, i *discordgo.InteractionCreate, data discordgo.ApplicationCommandInteractionData) {
	if len(data.Options) == 0 || data.Options[0].Name != "create" {
		return
	}
	// Publishing the announcement involves outbound calls, so
	// acknowledge first.
	if !b.deferEphemeral(i) {
		return
	}

	user := interactionUser(i)
	ownerID, err := parseSnowflake(user.ID)
	if err != nil {
		b.followupEphemeral(i, genericErrorReply)
		return
	}
	guildID, _ := parseSnowflake(i.GuildID)
	channelID, err := parseSnowflake(i.ChannelID)
	if err != nil {
		b.followupEphemeral(i, genericErrorReply)
		return
	}

	opts := optionMap(data.Options[0].Options)
	p := domain.CreateEventParams{
		OwnerID:     ownerID,
		OwnerName:   user.Username,
		GuildID:     guildID,
		ChannelID:   channelID,
		Title:       opts["title"].StringValue(),
		Description: opts["description"].StringValue(),
		DateTime:    opts["date_time"].StringValue(),
	}
	if o, ok := opts["template"]; ok {
		p.Template = o.StringValue()
	}
	if o, ok := opts["roles"]; ok {
		p.Roles = o.StringValue()
	}

	event, err := b.events.Create(ctx, p)
	if err != nil {
		b.followupEphemeral(i, createEventReply(err, p))
		if !isDomainErr(err) {
			b.logger.Error("create event", "owner_id", ownerID, "err", err)
		}
		return
	}
	b.followupEphemeral(i, fmt.Sprintf("Event '%s' created!", event.Title))
}

func createEventReply(err error, p domain.CreateEventParams) string {
	switch {
	case errors.Is(err, domain.ErrUnauthorized):
		return "You don't have permission to create events."
	case errors.Is(err, domain.ErrInvalidInput):
		return "Specify either a template or a role list, but not both."
	case errors.Is(err, domain.ErrTemplateNotFound):
		return fmt.Sprintf("Template '%s' was not found.", p.Template)
	case errors.Is(err, domain.ErrNoRolesResolved):
		return "Couldn't resolve any roles from your input."
	case errors.Is(err, domain.ErrInvalidDateTime):
		return "Invalid date format. Use HH:MM DD.MM, HH:MM DD.MM.YYYY, DD.MM or DD.MM.YYYY."
	default:
		return genericErrorReply
	}
}

func (b *Bot) handleSignupButton(ctx context.Context, i *discordgo.InteractionCreate) {
	data := i.MessageComponentData()
	eventID, ok := discordadapter.EventIDFromCustomID(data.CustomID)
	if !ok {
		return
	}

	if _, err := b.events.GetByID(ctx, eventID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			b.replyEphemeral(i, "This event no longer exists. It may have been deleted.")
			return
		}
		b.logger.Error("load event for signup", "event_id", eventID, "err", err)
		b.replyEphemeral(i, genericErrorReply)
		return
	}

	err := b.session.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseModal,
		Data: &discordgo.InteractionResponseData{
			CustomID: discordadapter.SignupModalID(eventID),
			Title:    "Event signup",
			Components: []discordgo.MessageComponent{
				discordgo.ActionsRow{
					Components: []discordgo.MessageComponent{
						discordgo.TextInput{
							CustomID:    "slot_numbers",
							Label:       "Slot numbers, comma separated",
							Style:       discordgo.TextInputShort,
							Placeholder: "e.g. 1 or 2, 4",
							Required:    true,
							MaxLength:   50,
						},
					},
				},
			},
		},
	})
	if err != nil {
		b.logger.Warn("open signup modal", "event_id", eventID, "err", err)
	}
}

func (b *Bot) handleSignupModal(ctx context.Context, i *discordgo.InteractionCreate) {
	data := i.ModalSubmitData()
	eventID, ok := discordadapter.EventIDFromCustomID(data.CustomID)
	if !ok {
		return
	}
	input := modalTextValue(data, "slot_numbers")

	if !b.deferEphemeral(i) {
		return
	}

	user := interactionUser(i)
	requesterID, err := parseSnowflake(user.ID)
	if err != nil {
		b.followupEphemeral(i, genericErrorReply)
		return
	}

	result, err := b.events.SubmitSignup(ctx, eventID, requesterID, input)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrMalformedInput):
			b.followupEphemeral(i, "Invalid format. Enter only slot numbers separated by commas.")
		case errors.Is(err, domain.ErrNoValidSlots):
			b.followupEphemeral(i, "Those slots don't exist, are already taken, or were entered incorrectly.")
		case errors.Is(err, domain.ErrNotFound):
			b.followupEphemeral(i, "This event no longer exists. It may have been deleted.")
		default:
			b.logger.Error("submit signup", "event_id", eventID, "requester_id", requesterID, "err", err)
			b.followupEphemeral(i, genericErrorReply)
		}
		return
	}

	numbers := make([]string, 0, len(result.SlotNumbers))
	for _, n := range result.SlotNumbers {
		numbers = append(numbers, fmt.Sprintf("%d", n))
	}
	b.followupEphemeral(i, fmt.Sprintf("Your requests for slots %s were sent to <#%d> for approval.",
		strings.Join(numbers, ", "), result.ThreadID))
}

// modalTextValue digs the named text input's value out of a modal
// submission.
func modalTextValue(data discordgo.ModalSubmitInteractionData, customID string) string {
	for _, c := range data.Components {
		row, ok := c.(*discordgo.ActionsRow)
		if !ok {
			continue
		}
		for _, rc := range row.Components {
			if input, ok := rc.(*discordgo.TextInput); ok && input.CustomID == customID {
				return input.Value
			}
		}
	}
	return ""
}

// isDomainErr reports whether err is one of the expected domain kinds that
// already map to a friendly reply.
func isDomainErr(err error) bool {
	for _, kind := range []error{
		domain.ErrNotFound,
		domain.ErrUnauthorized,
		domain.ErrInvalidInput,
		domain.ErrAlreadyExists,
		domain.ErrTemplateNotFound,
		domain.ErrNoRolesResolved,
		domain.ErrInvalidDateTime,
		domain.ErrMalformedInput,
		domain.ErrNoValidSlots,
		domain.ErrAlreadySubscribed,
		domain.ErrNotEventCreator,
	} {
		if errors.Is(err, kind) {
			return true
		}
	}
	return false
}
