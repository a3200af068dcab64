package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"time"

	"eventbot/internal/domain"
)

type eventService struct {
	eventRepo        domain.EventRepository
	templateRepo     domain.TemplateRepository
	userRepo         domain.UserRepository
	subscriptionRepo domain.SubscriptionRepository
	messenger        domain.Messenger
	logger           *slog.Logger
	contextTimeout   time.Duration
}

func NewEventService(
	eventRepo domain.EventRepository,
	templateRepo domain.TemplateRepository,
	userRepo domain.UserRepository,
	subscriptionRepo domain.SubscriptionRepository,
	messenger domain.Messenger,
	logger *slog.Logger,
	timeout time.Duration,
) domain.EventService {
	return &eventService{
		eventRepo:        eventRepo,
		templateRepo:     templateRepo,
		userRepo:         userRepo,
		subscriptionRepo: subscriptionRepo,
		messenger:        messenger,
		logger:           logger,
		contextTimeout:   timeout,
	}
}

func (s *eventService) Create(ctx context.Context, p domain.CreateEventParams) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	user, err := s.userRepo.GetOrCreate(ctx, p.OwnerID, p.OwnerName)
	if err != nil {
		return nil, fmt.Errorf("get or create user: %w", err)
	}
	if !user.CanCreateEvents() {
		return nil, domain.ErrUnauthorized
	}

	// Template and explicit roles are two alternatives of one input:
	// exactly one must be present.
	hasTemplate := strings.TrimSpace(p.Template) != ""
	hasRoles := strings.TrimSpace(p.Roles) != ""
	if hasTemplate == hasRoles {
		return nil, domain.ErrInvalidInput
	}

	var roleNames []string
	if hasTemplate {
		tpl, err := s.templateRepo.GetByName(ctx, p.GuildID, strings.TrimSpace(p.Template))
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, domain.ErrTemplateNotFound
			}
			return nil, fmt.Errorf("get template: %w", err)
		}
		roleNames = tpl.RoleNames()
	} else {
		roleNames = splitRoles(p.Roles)
	}
	if len(roleNames) == 0 {
		return nil, domain.ErrNoRolesResolved
	}

	startsAt, err := ParseEventTime(p.DateTime, time.Now())
	if err != nil {
		return nil, err
	}

	now := time.Now()
	event := &domain.Event{
		OwnerID:     p.OwnerID,
		Title:       p.Title,
		Description: p.Description,
		StartsAt:    startsAt,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	for i, name := range roleNames {
		event.Slots = append(event.Slots, &domain.EventSlot{Number: i + 1, RoleName: name})
	}
	if err := s.eventRepo.CreateWithSlots(ctx, event); err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}

	view := AnnouncementFor(event)
	messageID, err := s.messenger.PublishAnnouncement(ctx, p.ChannelID, view)
	if err != nil {
		return nil, fmt.Errorf("publish announcement: %w", err)
	}
	event.ChannelID = p.ChannelID
	event.MessageID = messageID
	if err := s.eventRepo.SetAnnouncement(ctx, event.ID, p.ChannelID, messageID); err != nil {
		return nil, fmt.Errorf("save announcement ids: %w", err)
	}

	s.notifySubscribers(ctx, event, view)

	return event, nil
}

// notifySubscribers direct-messages the announcement to every subscriber of
// the owner, excluding the owner. Delivery is best-effort: a blocked DM or a
// departed subscriber must not fail event creation.
func (s *eventService) notifySubscribers(ctx context.Context, event *domain.Event, view *domain.EventAnnouncement) {
	subscribers, err := s.subscriptionRepo.ListSubscribers(ctx, event.OwnerID)
	if err != nil {
		s.logger.Error("list subscribers", "event_id", event.ID, "owner_id", event.OwnerID, "err", err)
		return
	}
	for _, id := range subscribers {
		if id == event.OwnerID {
			continue
		}
		if err := s.messenger.NotifySubscriber(ctx, id, view); err != nil {
			s.logger.Warn("notify subscriber", "event_id", event.ID, "subscriber_id", id, "err", err)
		}
	}
}

func (s *eventService) SubmitSignup(ctx context.Context, eventID, requesterID int64, input string) (*domain.SignupResult, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	numbers, err := parseSlotNumbers(input)
	if err != nil {
		return nil, err
	}

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}

	requested := make(map[int]bool, len(numbers))
	for _, n := range numbers {
		requested[n] = true
	}
	var valid []*domain.EventSlot
	for _, slot := range event.Slots {
		if requested[slot.Number] && slot.Open() {
			valid = append(valid, slot)
		}
	}
	if len(valid) == 0 {
		return nil, domain.ErrNoValidSlots
	}

	threadID := event.ThreadID
	if threadID == 0 {
		threadID, err = s.messenger.CreateDiscussionThread(ctx, event.ChannelID, event.MessageID,
			fmt.Sprintf("Signups: %s", event.Title))
		if err != nil {
			return nil, fmt.Errorf("create discussion thread: %w", err)
		}
		if err := s.eventRepo.SetThread(ctx, event.ID, threadID); err != nil {
			return nil, fmt.Errorf("save thread id: %w", err)
		}
	}

	result := &domain.SignupResult{ThreadID: threadID}
	for _, slot := range valid {
		prompt := &domain.ApprovalPrompt{
			EventID:     event.ID,
			SlotNumber:  slot.Number,
			RoleName:    slot.RoleName,
			RequesterID: requesterID,
			OwnerID:     event.OwnerID,
		}
		messageID, err := s.messenger.SendApprovalPrompt(ctx, threadID, prompt)
		if err != nil {
			return nil, fmt.Errorf("send approval prompt for slot %d: %w", slot.Number, err)
		}
		req := &domain.SignupRequest{
			MessageID:   messageID,
			SlotID:      slot.ID,
			RequesterID: requesterID,
			CreatedAt:   time.Now(),
		}
		if err := s.eventRepo.CreateSignupRequest(ctx, req); err != nil {
			return nil, fmt.Errorf("create signup request for slot %d: %w", slot.Number, err)
		}
		result.SlotNumbers = append(result.SlotNumbers, slot.Number)
	}
	return result, nil
}

// Approve processes one approval signal. The trigger is an uncontrolled
// external reaction event that may be duplicated or raced, so authoritative
// state is reconstructed from storage on every invocation and every failed
// guard is a silent no-op.
func (s *eventService) Approve(ctx context.Context, promptMessageID, actorID int64) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	req, err := s.eventRepo.GetSignupRequest(ctx, promptMessageID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("get signup request: %w", err)
	}

	slot, err := s.eventRepo.GetSlot(ctx, req.SlotID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("get slot: %w", err)
	}

	event, err := s.eventRepo.GetByID(ctx, slot.EventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("get event: %w", err)
	}

	// Only the owner decides.
	if actorID != event.OwnerID {
		return nil
	}
	// First approval wins; a later signal for an occupied slot no-ops.
	if !slot.Open() {
		return nil
	}

	if err := s.eventRepo.AssignSlot(ctx, slot.ID, req.RequesterID); err != nil {
		return fmt.Errorf("assign slot: %w", err)
	}

	// The assignment is committed. Both re-renders below are independent
	// and best-effort: a deleted message or lost permission is logged,
	// never rolled back.
	updated, err := s.eventRepo.GetByID(ctx, event.ID)
	if err != nil {
		s.logger.Error("reload event after assignment", "event_id", event.ID, "err", err)
		return nil
	}
	if updated.ChannelID != 0 && updated.MessageID != 0 {
		if err := s.messenger.EditAnnouncement(ctx, updated.ChannelID, updated.MessageID, AnnouncementFor(updated)); err != nil {
			s.logger.Warn("update announcement", "event_id", updated.ID, "err", err)
		}
	}
	prompt := &domain.ApprovalPrompt{
		EventID:     updated.ID,
		SlotNumber:  slot.Number,
		RoleName:    slot.RoleName,
		RequesterID: req.RequesterID,
		OwnerID:     updated.OwnerID,
	}
	if err := s.messenger.MarkPromptApproved(ctx, updated.ThreadID, req.MessageID, prompt); err != nil {
		s.logger.Warn("update approval prompt", "event_id", updated.ID, "message_id", req.MessageID, "err", err)
	}
	return nil
}

func (s *eventService) GetByID(ctx context.Context, id int64) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()
	return s.eventRepo.GetByID(ctx, id)
}

// AnnouncementFor builds the renderable announcement view from an event's
// current state.
func AnnouncementFor(e *domain.Event) *domain.EventAnnouncement {
	a := &domain.EventAnnouncement{
		EventID:     e.ID,
		Title:       e.Title,
		Description: e.Description,
		StartsAt:    e.StartsAt,
		OwnerID:     e.OwnerID,
	}
	for _, s := range e.Slots {
		a.Slots = append(a.Slots, domain.AnnouncementSlot{
			Number:     s.Number,
			RoleName:   s.RoleName,
			OccupantID: s.OccupantID,
		})
	}
	return a
}

// parseSlotNumbers parses a free-text comma-separated slot-number list into
// sorted distinct integers. Any token that is not an integer makes the whole
// input malformed.
func parseSlotNumbers(input string) ([]int, error) {
	seen := make(map[int]bool)
	for _, part := range strings.Split(input, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, domain.ErrMalformedInput
		}
		seen[n] = true
	}
	if len(seen) == 0 {
		return nil, domain.ErrMalformedInput
	}
	numbers := make([]int, 0, len(seen))
	for n := range seen {
		numbers = append(numbers, n)
	}
	sort.Ints(numbers)
	return numbers, nil
}

// splitRoles splits a '|'-delimited role list, trimming and dropping empty
// entries.
func splitRoles(roles string) []string {
	var out []string
	for _, r := range strings.Split(roles, "|") {
		if r = strings.TrimSpace(r); r != "" {
			out = append(out, r)
		}
	}
	return out
}
