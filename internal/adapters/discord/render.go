package discord

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/bwmarrin/discordgo"

	"eventbot/internal/domain"
)

const announcementColor = 0x57F287

// Custom-id prefixes for the interactive affordances. The event id travels
// inside the custom id so an interaction identifies its event directly,
// never by re-parsing rendered text.
const (
	signupButtonPrefix = "signup"
	signupModalPrefix  = "signup_modal"
)

// SignupButtonID returns the custom id of an event's sign-up button.
func SignupButtonID(eventID int64) string {
	return fmt.Sprintf("%s:%d", signupButtonPrefix, eventID)
}

// SignupModalID returns the custom id of an event's slot-number modal.
func SignupModalID(eventID int64) string {
	return fmt.Sprintf("%s:%d", signupModalPrefix, eventID)
}

// EventIDFromCustomID extracts the event id from a sign-up button or modal
// custom id. ok is false for custom ids owned by something else.
func EventIDFromCustomID(customID string) (eventID int64, ok bool) {
	prefix, rest, found := strings.Cut(customID, ":")
	if !found || (prefix != signupButtonPrefix && prefix != signupModalPrefix) {
		return 0, false
	}
	id, err := strconv.ParseInt(rest, 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

func renderAnnouncement(a *domain.EventAnnouncement) *discordgo.MessageEmbed {
	unix := a.StartsAt.Unix()

	lines := make([]string, 0, len(a.Slots))
	for _, s := range a.Slots {
		occupant := "**[Open]**"
		if s.OccupantID != 0 {
			occupant = fmt.Sprintf("<@%d>", s.OccupantID)
		}
		lines = append(lines, fmt.Sprintf("`%d.` %s: %s", s.Number, s.RoleName, occupant))
	}
	roster := strings.Join(lines, "\n")
	if roster == "" {
		roster = "No slots defined."
	}

	return &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("📅 %s", a.Title),
		Description: a.Description,
		Color:       announcementColor,
		Fields: []*discordgo.MessageEmbedField{
			{
				Name:  "When",
				Value: fmt.Sprintf("<t:%d:F> (<t:%d:R>)", unix, unix),
			},
			{
				Name:  "Roster",
				Value: roster,
			},
		},
		Footer: &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("Event #%d", a.EventID),
		},
	}
}

func signupRow(eventID int64) discordgo.MessageComponent {
	return discordgo.ActionsRow{
		Components: []discordgo.MessageComponent{
			discordgo.Button{
				Label:    "Sign up",
				Style:    discordgo.SuccessButton,
				CustomID: SignupButtonID(eventID),
			},
		},
	}
}
