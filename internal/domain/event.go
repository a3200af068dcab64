package domain

import (
	"context"
	"time"
)

// Event represents a scheduled community event with a fixed roster of slots.
// MessageID/ChannelID are set once the announcement is published; ThreadID is
// zero until the first signup creates the discussion thread.
type Event struct {
	ID          int64        `json:"id"`
	OwnerID     int64        `json:"owner_id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	StartsAt    time.Time    `json:"starts_at"`
	ChannelID   int64        `json:"channel_id"`
	MessageID   int64        `json:"message_id"`
	ThreadID    int64        `json:"thread_id"`
	Slots       []*EventSlot `json:"slots"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// SlotByNumber returns the slot with the given 1-based number, or nil.
func (e *Event) SlotByNumber(n int) *EventSlot {
	for _, s := range e.Slots {
		if s.Number == n {
			return s
		}
	}
	return nil
}

// EventSlot is a named position within an event that exactly one user may
// occupy. OccupantID is zero while the slot is open.
type EventSlot struct {
	ID         int64  `json:"id"`
	EventID    int64  `json:"event_id"`
	Number     int    `json:"number"`
	RoleName   string `json:"role_name"`
	OccupantID int64  `json:"occupant_id"`
}

// Open reports whether the slot has no occupant yet.
func (s *EventSlot) Open() bool {
	return s.OccupantID == 0
}

// SignupRequest is one pending approval prompt in an event's discussion
// thread, keyed by the prompt message's snowflake id. Rows are never deleted;
// a processed request survives as an audit trail.
type SignupRequest struct {
	MessageID   int64     `json:"message_id"`
	SlotID      int64     `json:"slot_id"`
	RequesterID int64     `json:"requester_id"`
	CreatedAt   time.Time `json:"created_at"`
}

// EventRepository defines the interface for event storage.
type EventRepository interface {
	// CreateWithSlots inserts the event and one slot per entry of
	// e.Slots in a single transaction, filling in generated ids.
	CreateWithSlots(ctx context.Context, e *Event) error
	// GetByID returns the event with slots eagerly loaded, ordered by
	// slot number ascending.
	GetByID(ctx context.Context, id int64) (*Event, error)
	SetAnnouncement(ctx context.Context, eventID, channelID, messageID int64) error
	SetThread(ctx context.Context, eventID, threadID int64) error
	GetSlot(ctx context.Context, slotID int64) (*EventSlot, error)
	AssignSlot(ctx context.Context, slotID, userID int64) error
	CreateSignupRequest(ctx context.Context, r *SignupRequest) error
	// GetSignupRequest looks a request up by its prompt message id.
	GetSignupRequest(ctx context.Context, messageID int64) (*SignupRequest, error)
	// Delete removes the event; slots and signup requests cascade.
	Delete(ctx context.Context, id int64) error
}

// CreateEventParams is the input to EventService.Create. Exactly one of
// Template or Roles must be set.
type CreateEventParams struct {
	OwnerID     int64
	OwnerName   string
	GuildID     int64
	ChannelID   int64
	Title       string
	Description string
	// DateTime is the raw user-supplied string, e.g. "18:30 25.12" or
	// "25.12.2026".
	DateTime string
	// Template names a role template of the guild.
	Template string
	// Roles is an explicit '|'-separated role list.
	Roles string
}

// SignupResult describes what a signup submission produced.
type SignupResult struct {
	// SlotNumbers are the requested slots that were open and now carry a
	// pending approval prompt.
	SlotNumbers []int
	// ThreadID is the event's discussion thread the prompts went to.
	ThreadID int64
}

// EventService defines the event-creation and slot-assignment workflows.
type EventService interface {
	// Create validates authorization and input, persists the event with
	// its slots, publishes the announcement, and notifies subscribers of
	// the owner best-effort.
	Create(ctx context.Context, p CreateEventParams) (*Event, error)
	// SubmitSignup turns a comma-separated slot-number string into
	// pending approval prompts in the event's discussion thread,
	// creating the thread on first use.
	SubmitSignup(ctx context.Context, eventID, requesterID int64, input string) (*SignupResult, error)
	// Approve processes an approval reaction on a prompt message. Every
	// failed guard (unknown prompt, missing slot, non-owner actor,
	// occupied slot) is a silent no-op since the trigger is an
	// uncontrolled external signal that may be duplicated or raced.
	Approve(ctx context.Context, promptMessageID, actorID int64) error
	GetByID(ctx context.Context, id int64) (*Event, error)
}
