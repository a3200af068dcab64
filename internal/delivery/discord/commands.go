package discord

import "github.com/bwmarrin/discordgo"

// commands is the full slash-command surface, registered in one bulk
// overwrite at startup.
var commands = []*discordgo.ApplicationCommand{
	{
		Name:        "admin",
		Description: "Administrative commands",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "setrole",
				Description: "Set a user's bot role",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Type:        discordgo.ApplicationCommandOptionUser,
						Name:        "user",
						Description: "Target user",
						Required:    true,
					},
					{
						Type:        discordgo.ApplicationCommandOptionString,
						Name:        "role",
						Description: "Role to assign",
						Required:    true,
						Choices: []*discordgo.ApplicationCommandOptionChoice{
							{Name: "user", Value: "user"},
							{Name: "event_creator", Value: "event_creator"},
							{Name: "admin", Value: "admin"},
						},
					},
				},
			},
		},
	},
	{
		Name:        "event",
		Description: "Event management commands",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "create",
				Description: "Create a new event with signup slots",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Type:        discordgo.ApplicationCommandOptionString,
						Name:        "title",
						Description: "Event title",
						Required:    true,
					},
					{
						Type:        discordgo.ApplicationCommandOptionString,
						Name:        "description",
						Description: "Event description",
						Required:    true,
					},
					{
						Type:        discordgo.ApplicationCommandOptionString,
						Name:        "date_time",
						Description: "Date, e.g. 18:30 25.12 or 25.12.2026",
						Required:    true,
					},
					{
						Type:         discordgo.ApplicationCommandOptionString,
						Name:         "template",
						Description:  "Use a saved role template",
						Autocomplete: true,
					},
					{
						Type:        discordgo.ApplicationCommandOptionString,
						Name:        "roles",
						Description: "Roles separated by '|' when no template is used",
					},
				},
			},
		},
	},
	{
		Name:        "template",
		Description: "Role template management",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "create",
				Description: "Create a new template",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Type:        discordgo.ApplicationCommandOptionString,
						Name:        "name",
						Description: "Template name, e.g. 'Raid 10'",
						Required:    true,
					},
					{
						Type:        discordgo.ApplicationCommandOptionString,
						Name:        "roles",
						Description: "Roles separated by '|', e.g. 'tank|healer|dps'",
						Required:    true,
					},
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "list",
				Description: "List this server's templates",
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "delete",
				Description: "Delete a template",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Type:         discordgo.ApplicationCommandOptionString,
						Name:         "name",
						Description:  "Template to delete",
						Required:     true,
						Autocomplete: true,
					},
				},
			},
		},
	},
	{
		Name:        "subscription",
		Description: "Subscriptions to event creators",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "subscribe",
				Description: "Get notified when a creator publishes a new event",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Type:        discordgo.ApplicationCommandOptionUser,
						Name:        "creator",
						Description: "Event creator to follow",
						Required:    true,
					},
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "unsubscribe",
				Description: "Stop notifications from a creator",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Type:        discordgo.ApplicationCommandOptionUser,
						Name:        "creator",
						Description: "Event creator to unfollow",
						Required:    true,
					},
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "list",
				Description: "Show your subscriptions",
			},
		},
	},
}
