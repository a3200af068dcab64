package domain

import (
	"context"
	"time"
)

// EventAnnouncement is the renderable view of an event's current state. It is
// what the public announcement, subscriber notifications, and announcement
// re-renders are built from.
type EventAnnouncement struct {
	EventID     int64
	Title       string
	Description string
	StartsAt    time.Time
	OwnerID     int64
	Slots       []AnnouncementSlot
}

// AnnouncementSlot is one roster line of an announcement. OccupantID zero
// renders as a free slot.
type AnnouncementSlot struct {
	Number     int
	RoleName   string
	OccupantID int64
}

// ApprovalPrompt is the renderable view of one pending signup request.
type ApprovalPrompt struct {
	EventID     int64
	SlotNumber  int
	RoleName    string
	RequesterID int64
	OwnerID     int64
}

// Messenger is the outbound chat-platform port. Implementations own message
// rendering; the workflows only decide what to send and where. All ids are
// platform snowflakes.
type Messenger interface {
	// PublishAnnouncement posts the announcement with its sign-up
	// affordance and returns the new message id.
	PublishAnnouncement(ctx context.Context, channelID int64, a *EventAnnouncement) (messageID int64, err error)
	// EditAnnouncement re-renders an existing announcement in place.
	EditAnnouncement(ctx context.Context, channelID, messageID int64, a *EventAnnouncement) error
	// CreateDiscussionThread starts a thread attached to the
	// announcement message and returns the thread id.
	CreateDiscussionThread(ctx context.Context, channelID, messageID int64, title string) (threadID int64, err error)
	// SendApprovalPrompt posts one pending-request prompt with the
	// approval affordance attached and returns the prompt message id.
	SendApprovalPrompt(ctx context.Context, threadID int64, p *ApprovalPrompt) (messageID int64, err error)
	// MarkPromptApproved rewrites the prompt as approved and removes the
	// approval affordance.
	MarkPromptApproved(ctx context.Context, threadID, messageID int64, p *ApprovalPrompt) error
	// NotifySubscriber direct-messages the announcement to one
	// subscriber.
	NotifySubscriber(ctx context.Context, userID int64, a *EventAnnouncement) error
}
