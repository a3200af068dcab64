package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventbot/internal/domain"
)

type eventTestEnv struct {
	svc           domain.EventService
	events        *fakeEventRepo
	templates     *fakeTemplateRepo
	users         *fakeUserRepo
	subscriptions *fakeSubscriptionRepo
	messenger     *fakeMessenger
}

func newEventTestEnv() *eventTestEnv {
	users := newFakeUserRepo()
	env := &eventTestEnv{
		events:        newFakeEventRepo(),
		templates:     newFakeTemplateRepo(),
		users:         users,
		subscriptions: newFakeSubscriptionRepo(users),
		messenger:     newFakeMessenger(),
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	env.svc = NewEventService(env.events, env.templates, env.users, env.subscriptions, env.messenger, logger, 5*time.Second)
	return env
}

const (
	ownerID   int64 = 10
	channelID int64 = 777
	guildID   int64 = 42
)

func (env *eventTestEnv) createParams() domain.CreateEventParams {
	return domain.CreateEventParams{
		OwnerID:     ownerID,
		OwnerName:   "alice",
		GuildID:     guildID,
		ChannelID:   channelID,
		Title:       "Weekly raid",
		Description: "Bring potions",
		DateTime:    "18:30 25.12.2099",
		Roles:       "tank|healer|dps",
	}
}

// seedEvent persists an announced event with the given role slots and returns
// it, bypassing the creation workflow.
func (env *eventTestEnv) seedEvent(t *testing.T, roles ...string) *domain.Event {
	t.Helper()
	event := &domain.Event{
		OwnerID:   ownerID,
		Title:     "Weekly raid",
		StartsAt:  time.Now().Add(24 * time.Hour),
		ChannelID: channelID,
		MessageID: 900,
	}
	for i, name := range roles {
		event.Slots = append(event.Slots, &domain.EventSlot{Number: i + 1, RoleName: name})
	}
	require.NoError(t, env.events.CreateWithSlots(context.Background(), event))
	return event
}

func TestEventService_Create(t *testing.T) {
	t.Run("creates numbered slots from explicit roles", func(t *testing.T) {
		env := newEventTestEnv()
		env.users.seed(ownerID, "alice", domain.RoleEventCreator)

		event, err := env.svc.Create(context.Background(), env.createParams())

		require.NoError(t, err)
		require.Len(t, event.Slots, 3)
		for i, want := range []string{"tank", "healer", "dps"} {
			assert.Equal(t, i+1, event.Slots[i].Number)
			assert.Equal(t, want, event.Slots[i].RoleName)
			assert.True(t, event.Slots[i].Open())
		}
	})

	t.Run("publishes announcement and persists its ids", func(t *testing.T) {
		env := newEventTestEnv()
		env.users.seed(ownerID, "alice", domain.RoleEventCreator)

		event, err := env.svc.Create(context.Background(), env.createParams())

		require.NoError(t, err)
		require.Len(t, env.messenger.published, 1)
		assert.Equal(t, channelID, env.messenger.published[0].channelID)
		assert.Equal(t, channelID, event.ChannelID)
		assert.NotZero(t, event.MessageID)

		stored, err := env.events.GetByID(context.Background(), event.ID)
		require.NoError(t, err)
		assert.Equal(t, event.MessageID, stored.MessageID)
	})

	t.Run("rejects users without the creator role", func(t *testing.T) {
		env := newEventTestEnv()
		env.users.seed(ownerID, "alice", domain.RoleUser)

		_, err := env.svc.Create(context.Background(), env.createParams())

		assert.ErrorIs(t, err, domain.ErrUnauthorized)
		assert.Empty(t, env.messenger.published)
	})

	t.Run("admins may create events", func(t *testing.T) {
		env := newEventTestEnv()
		env.users.seed(ownerID, "alice", domain.RoleAdmin)

		_, err := env.svc.Create(context.Background(), env.createParams())

		assert.NoError(t, err)
	})

	t.Run("rejects template and roles together", func(t *testing.T) {
		env := newEventTestEnv()
		env.users.seed(ownerID, "alice", domain.RoleEventCreator)

		p := env.createParams()
		p.Template = "raid"
		_, err := env.svc.Create(context.Background(), p)

		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("rejects neither template nor roles", func(t *testing.T) {
		env := newEventTestEnv()
		env.users.seed(ownerID, "alice", domain.RoleEventCreator)

		p := env.createParams()
		p.Roles = ""
		_, err := env.svc.Create(context.Background(), p)

		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("unknown template", func(t *testing.T) {
		env := newEventTestEnv()
		env.users.seed(ownerID, "alice", domain.RoleEventCreator)

		p := env.createParams()
		p.Roles = ""
		p.Template = "raid"
		_, err := env.svc.Create(context.Background(), p)

		assert.ErrorIs(t, err, domain.ErrTemplateNotFound)
	})

	t.Run("resolves roles from a template", func(t *testing.T) {
		env := newEventTestEnv()
		env.users.seed(ownerID, "alice", domain.RoleEventCreator)
		require.NoError(t, env.templates.CreateWithRoles(context.Background(), &domain.Template{
			GuildID: guildID,
			Name:    "raid",
			Roles: []*domain.TemplateRole{
				{RoleName: "tank"},
				{RoleName: "healer"},
			},
		}))

		p := env.createParams()
		p.Roles = ""
		p.Template = "raid"
		event, err := env.svc.Create(context.Background(), p)

		require.NoError(t, err)
		require.Len(t, event.Slots, 2)
		assert.Equal(t, "tank", event.Slots[0].RoleName)
		assert.Equal(t, "healer", event.Slots[1].RoleName)
	})

	t.Run("roles that resolve to nothing", func(t *testing.T) {
		env := newEventTestEnv()
		env.users.seed(ownerID, "alice", domain.RoleEventCreator)

		p := env.createParams()
		p.Roles = " | | "
		_, err := env.svc.Create(context.Background(), p)

		assert.ErrorIs(t, err, domain.ErrNoRolesResolved)
	})

	t.Run("unparseable date", func(t *testing.T) {
		env := newEventTestEnv()
		env.users.seed(ownerID, "alice", domain.RoleEventCreator)

		p := env.createParams()
		p.DateTime = "next tuesday"
		_, err := env.svc.Create(context.Background(), p)

		assert.ErrorIs(t, err, domain.ErrInvalidDateTime)
		assert.Empty(t, env.events.byID)
	})

	t.Run("notifies subscribers excluding the owner, tolerating failures", func(t *testing.T) {
		env := newEventTestEnv()
		env.users.seed(ownerID, "alice", domain.RoleEventCreator)
		env.users.seed(20, "bob", domain.RoleUser)
		env.users.seed(30, "carol", domain.RoleUser)
		require.NoError(t, env.subscriptions.Add(context.Background(), ownerID, ownerID))
		require.NoError(t, env.subscriptions.Add(context.Background(), 20, ownerID))
		require.NoError(t, env.subscriptions.Add(context.Background(), 30, ownerID))
		env.messenger.notifyErr[20] = errors.New("cannot send messages to this user")

		_, err := env.svc.Create(context.Background(), env.createParams())

		require.NoError(t, err)
		assert.Equal(t, []int64{30}, env.messenger.notified)
	})
}

func TestEventService_SubmitSignup(t *testing.T) {
	t.Run("malformed input creates nothing", func(t *testing.T) {
		env := newEventTestEnv()
		event := env.seedEvent(t, "tank", "healer", "dps")

		_, err := env.svc.SubmitSignup(context.Background(), event.ID, 20, "1, 2, 2, abc")

		assert.ErrorIs(t, err, domain.ErrMalformedInput)
		assert.Empty(t, env.messenger.prompts)
		assert.Empty(t, env.events.requests)
	})

	t.Run("unknown event", func(t *testing.T) {
		env := newEventTestEnv()

		_, err := env.svc.SubmitSignup(context.Background(), 404, 20, "1")

		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("keeps only requested open slots", func(t *testing.T) {
		env := newEventTestEnv()
		event := env.seedEvent(t, "tank", "healer", "dps")
		event.Slots[1].OccupantID = 99 // slot 2 taken

		result, err := env.svc.SubmitSignup(context.Background(), event.ID, 20, "2,3")

		require.NoError(t, err)
		assert.Equal(t, []int{3}, result.SlotNumbers)
		require.Len(t, env.messenger.prompts, 1)
		assert.Equal(t, 3, env.messenger.prompts[0].prompt.SlotNumber)
	})

	t.Run("all requested slots occupied or unknown", func(t *testing.T) {
		env := newEventTestEnv()
		event := env.seedEvent(t, "tank")
		event.Slots[0].OccupantID = 99

		_, err := env.svc.SubmitSignup(context.Background(), event.ID, 20, "1,5")

		assert.ErrorIs(t, err, domain.ErrNoValidSlots)
		assert.Empty(t, env.messenger.prompts)
	})

	t.Run("duplicate numbers collapse to one prompt", func(t *testing.T) {
		env := newEventTestEnv()
		event := env.seedEvent(t, "tank", "healer")

		result, err := env.svc.SubmitSignup(context.Background(), event.ID, 20, "1,1,2")

		require.NoError(t, err)
		assert.Equal(t, []int{1, 2}, result.SlotNumbers)
		assert.Len(t, env.messenger.prompts, 2)
	})

	t.Run("creates the discussion thread once and reuses it", func(t *testing.T) {
		env := newEventTestEnv()
		event := env.seedEvent(t, "tank", "healer")

		first, err := env.svc.SubmitSignup(context.Background(), event.ID, 20, "1")
		require.NoError(t, err)
		second, err := env.svc.SubmitSignup(context.Background(), event.ID, 30, "2")
		require.NoError(t, err)

		assert.Equal(t, 1, env.messenger.threads)
		assert.Equal(t, 1, env.events.setThreadCalls)
		assert.Equal(t, first.ThreadID, second.ThreadID)
		assert.Equal(t, first.ThreadID, event.ThreadID)
	})

	t.Run("records one request per prompt message", func(t *testing.T) {
		env := newEventTestEnv()
		event := env.seedEvent(t, "tank", "healer")

		_, err := env.svc.SubmitSignup(context.Background(), event.ID, 20, "1,2")

		require.NoError(t, err)
		require.Len(t, env.events.requests, 2)
		for _, p := range env.messenger.prompts {
			req, err := env.events.GetSignupRequest(context.Background(), p.messageID)
			require.NoError(t, err)
			assert.EqualValues(t, 20, req.RequesterID)
		}
	})
}

func TestEventService_Approve(t *testing.T) {
	// signup submits a request for the given slot and returns the prompt
	// message id the approval reaction would arrive on.
	signup := func(t *testing.T, env *eventTestEnv, eventID, requesterID int64, slots string) int64 {
		t.Helper()
		_, err := env.svc.SubmitSignup(context.Background(), eventID, requesterID, slots)
		require.NoError(t, err)
		return env.messenger.prompts[len(env.messenger.prompts)-1].messageID
	}

	t.Run("owner approval assigns the slot and re-renders", func(t *testing.T) {
		env := newEventTestEnv()
		event := env.seedEvent(t, "tank", "healer")
		promptID := signup(t, env, event.ID, 20, "1")

		err := env.svc.Approve(context.Background(), promptID, ownerID)

		require.NoError(t, err)
		assert.EqualValues(t, 20, event.Slots[0].OccupantID)
		require.Len(t, env.messenger.edits, 1)
		assert.EqualValues(t, 20, env.messenger.edits[0].view.Slots[0].OccupantID)
		assert.Equal(t, []int64{promptID}, env.messenger.approved)
	})

	t.Run("unknown prompt message no-ops", func(t *testing.T) {
		env := newEventTestEnv()

		err := env.svc.Approve(context.Background(), 123456, ownerID)

		assert.NoError(t, err)
		assert.Zero(t, env.events.assignCalls)
	})

	t.Run("non-owner reaction no-ops", func(t *testing.T) {
		env := newEventTestEnv()
		event := env.seedEvent(t, "tank")
		promptID := signup(t, env, event.ID, 20, "1")

		err := env.svc.Approve(context.Background(), promptID, 20)

		assert.NoError(t, err)
		assert.True(t, event.Slots[0].Open())
		assert.Zero(t, env.events.assignCalls)
	})

	t.Run("first approval wins when two requests race for a slot", func(t *testing.T) {
		env := newEventTestEnv()
		event := env.seedEvent(t, "tank")
		firstPrompt := signup(t, env, event.ID, 20, "1")
		secondPrompt := signup(t, env, event.ID, 30, "1")

		require.NoError(t, env.svc.Approve(context.Background(), firstPrompt, ownerID))
		require.NoError(t, env.svc.Approve(context.Background(), secondPrompt, ownerID))

		assert.EqualValues(t, 20, event.Slots[0].OccupantID)
		assert.Equal(t, 1, env.events.assignCalls)
	})

	t.Run("duplicate approval of the same prompt no-ops", func(t *testing.T) {
		env := newEventTestEnv()
		event := env.seedEvent(t, "tank")
		promptID := signup(t, env, event.ID, 20, "1")

		require.NoError(t, env.svc.Approve(context.Background(), promptID, ownerID))
		require.NoError(t, env.svc.Approve(context.Background(), promptID, ownerID))

		assert.EqualValues(t, 20, event.Slots[0].OccupantID)
		assert.Equal(t, 1, env.events.assignCalls)
		assert.Len(t, env.messenger.approved, 1)
	})

	t.Run("re-render failures do not undo the assignment", func(t *testing.T) {
		env := newEventTestEnv()
		event := env.seedEvent(t, "tank")
		promptID := signup(t, env, event.ID, 20, "1")
		env.messenger.editErr = errors.New("message deleted")
		env.messenger.markErr = errors.New("thread archived")

		err := env.svc.Approve(context.Background(), promptID, ownerID)

		assert.NoError(t, err)
		assert.EqualValues(t, 20, event.Slots[0].OccupantID)
	})
}

func TestParseSlotNumbers(t *testing.T) {
	tests := []struct {
		input   string
		want    []int
		wantErr bool
	}{
		{input: "1", want: []int{1}},
		{input: " 3 , 1 , 2 ", want: []int{1, 2, 3}},
		{input: "2,2,2", want: []int{2}},
		{input: "1, 2, 2, abc", wantErr: true},
		{input: "", wantErr: true},
		{input: "1;2", wantErr: true},
		{input: "1.5", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := parseSlotNumbers(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrMalformedInput)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSplitRoles(t *testing.T) {
	assert.Equal(t, []string{"tank", "healer", "dps"}, splitRoles("tank| healer |dps"))
	assert.Equal(t, []string{"solo"}, splitRoles("solo"))
	assert.Nil(t, splitRoles(" | | "))
}
