package services

import (
	"context"
	"sort"

	"eventbot/internal/domain"
)

// In-memory fakes shared by the service tests in this package.

type fakeUserRepo struct {
	byID map[int64]*domain.User
	err  error // if set, every method returns this error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byID: make(map[int64]*domain.User)}
}

func (f *fakeUserRepo) seed(id int64, username string, role domain.Role) *domain.User {
	u := &domain.User{ID: id, Username: username, Role: role}
	f.byID[id] = u
	return u
}

func (f *fakeUserRepo) GetOrCreate(ctx context.Context, id int64, username string) (*domain.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	if u, ok := f.byID[id]; ok {
		u.Username = username
		return u, nil
	}
	u := &domain.User{ID: id, Username: username, Role: domain.RoleUser}
	f.byID[id] = u
	return u, nil
}

func (f *fakeUserRepo) Get(ctx context.Context, id int64) (*domain.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	if u, ok := f.byID[id]; ok {
		return u, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeUserRepo) SetRole(ctx context.Context, id int64, role domain.Role) error {
	if f.err != nil {
		return f.err
	}
	u, ok := f.byID[id]
	if !ok {
		return domain.ErrNotFound
	}
	u.Role = role
	return nil
}

type fakeEventRepo struct {
	byID     map[int64]*domain.Event
	requests map[int64]*domain.SignupRequest

	nextEventID int64
	nextSlotID  int64

	createErr      error
	setThreadCalls int
	assignCalls    int
}

func newFakeEventRepo() *fakeEventRepo {
	return &fakeEventRepo{
		byID:        make(map[int64]*domain.Event),
		requests:    make(map[int64]*domain.SignupRequest),
		nextEventID: 1,
		nextSlotID:  1,
	}
}

func (f *fakeEventRepo) CreateWithSlots(ctx context.Context, e *domain.Event) error {
	if f.createErr != nil {
		return f.createErr
	}
	e.ID = f.nextEventID
	f.nextEventID++
	for _, s := range e.Slots {
		s.ID = f.nextSlotID
		s.EventID = e.ID
		f.nextSlotID++
	}
	f.byID[e.ID] = e
	return nil
}

func (f *fakeEventRepo) GetByID(ctx context.Context, id int64) (*domain.Event, error) {
	if e, ok := f.byID[id]; ok {
		return e, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeEventRepo) SetAnnouncement(ctx context.Context, eventID, channelID, messageID int64) error {
	e, ok := f.byID[eventID]
	if !ok {
		return domain.ErrNotFound
	}
	e.ChannelID = channelID
	e.MessageID = messageID
	return nil
}

func (f *fakeEventRepo) SetThread(ctx context.Context, eventID, threadID int64) error {
	e, ok := f.byID[eventID]
	if !ok {
		return domain.ErrNotFound
	}
	f.setThreadCalls++
	e.ThreadID = threadID
	return nil
}

func (f *fakeEventRepo) GetSlot(ctx context.Context, slotID int64) (*domain.EventSlot, error) {
	for _, e := range f.byID {
		for _, s := range e.Slots {
			if s.ID == slotID {
				return s, nil
			}
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeEventRepo) AssignSlot(ctx context.Context, slotID, userID int64) error {
	slot, err := f.GetSlot(ctx, slotID)
	if err != nil {
		return err
	}
	f.assignCalls++
	slot.OccupantID = userID
	return nil
}

func (f *fakeEventRepo) CreateSignupRequest(ctx context.Context, r *domain.SignupRequest) error {
	f.requests[r.MessageID] = r
	return nil
}

func (f *fakeEventRepo) GetSignupRequest(ctx context.Context, messageID int64) (*domain.SignupRequest, error) {
	if r, ok := f.requests[messageID]; ok {
		return r, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeEventRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := f.byID[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

type fakeTemplateRepo struct {
	templates []*domain.Template
	nextID    int64
}

func newFakeTemplateRepo() *fakeTemplateRepo {
	return &fakeTemplateRepo{nextID: 1}
}

func (f *fakeTemplateRepo) CreateWithRoles(ctx context.Context, t *domain.Template) error {
	for _, existing := range f.templates {
		if existing.GuildID == t.GuildID && existing.Name == t.Name {
			return domain.ErrAlreadyExists
		}
	}
	t.ID = f.nextID
	f.nextID++
	for _, r := range t.Roles {
		r.ID = f.nextID
		r.TemplateID = t.ID
		f.nextID++
	}
	f.templates = append(f.templates, t)
	return nil
}

func (f *fakeTemplateRepo) GetByName(ctx context.Context, guildID int64, name string) (*domain.Template, error) {
	for _, t := range f.templates {
		if t.GuildID == guildID && t.Name == name {
			return t, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeTemplateRepo) ListByGuild(ctx context.Context, guildID int64) ([]*domain.Template, error) {
	out := make([]*domain.Template, 0)
	for _, t := range f.templates {
		if t.GuildID == guildID {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f *fakeTemplateRepo) Delete(ctx context.Context, guildID int64, name string) error {
	for i, t := range f.templates {
		if t.GuildID == guildID && t.Name == name {
			f.templates = append(f.templates[:i], f.templates[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

type fakeSubscriptionRepo struct {
	subs  []*domain.Subscription
	users *fakeUserRepo

	listErr error
}

func newFakeSubscriptionRepo(users *fakeUserRepo) *fakeSubscriptionRepo {
	return &fakeSubscriptionRepo{users: users}
}

func (f *fakeSubscriptionRepo) Add(ctx context.Context, subscriberID, creatorID int64) error {
	for _, s := range f.subs {
		if s.SubscriberID == subscriberID && s.CreatorID == creatorID {
			return domain.ErrAlreadySubscribed
		}
	}
	f.subs = append(f.subs, &domain.Subscription{SubscriberID: subscriberID, CreatorID: creatorID})
	return nil
}

func (f *fakeSubscriptionRepo) Remove(ctx context.Context, subscriberID, creatorID int64) (bool, error) {
	for i, s := range f.subs {
		if s.SubscriberID == subscriberID && s.CreatorID == creatorID {
			f.subs = append(f.subs[:i], f.subs[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeSubscriptionRepo) ListCreators(ctx context.Context, subscriberID int64) ([]*domain.User, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]*domain.User, 0)
	for _, s := range f.subs {
		if s.SubscriberID != subscriberID {
			continue
		}
		if u, ok := f.users.byID[s.CreatorID]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

func (f *fakeSubscriptionRepo) ListSubscribers(ctx context.Context, creatorID int64) ([]int64, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]int64, 0)
	for _, s := range f.subs {
		if s.CreatorID == creatorID {
			out = append(out, s.SubscriberID)
		}
	}
	return out, nil
}

type publishedAnnouncement struct {
	channelID int64
	view      *domain.EventAnnouncement
}

type sentPrompt struct {
	threadID  int64
	messageID int64
	prompt    *domain.ApprovalPrompt
}

type fakeMessenger struct {
	nextMessageID int64
	nextThreadID  int64

	published []publishedAnnouncement
	edits     []publishedAnnouncement
	threads   int
	prompts   []sentPrompt
	approved  []int64
	notified  []int64

	publishErr error
	threadErr  error
	promptErr  error
	editErr    error
	markErr    error
	notifyErr  map[int64]error
}

func newFakeMessenger() *fakeMessenger {
	return &fakeMessenger{
		nextMessageID: 1000,
		nextThreadID:  5000,
		notifyErr:     make(map[int64]error),
	}
}

func (f *fakeMessenger) PublishAnnouncement(ctx context.Context, channelID int64, a *domain.EventAnnouncement) (int64, error) {
	if f.publishErr != nil {
		return 0, f.publishErr
	}
	f.nextMessageID++
	f.published = append(f.published, publishedAnnouncement{channelID: channelID, view: a})
	return f.nextMessageID, nil
}

func (f *fakeMessenger) EditAnnouncement(ctx context.Context, channelID, messageID int64, a *domain.EventAnnouncement) error {
	if f.editErr != nil {
		return f.editErr
	}
	f.edits = append(f.edits, publishedAnnouncement{channelID: channelID, view: a})
	return nil
}

func (f *fakeMessenger) CreateDiscussionThread(ctx context.Context, channelID, messageID int64, title string) (int64, error) {
	if f.threadErr != nil {
		return 0, f.threadErr
	}
	f.threads++
	f.nextThreadID++
	return f.nextThreadID, nil
}

func (f *fakeMessenger) SendApprovalPrompt(ctx context.Context, threadID int64, p *domain.ApprovalPrompt) (int64, error) {
	if f.promptErr != nil {
		return 0, f.promptErr
	}
	f.nextMessageID++
	f.prompts = append(f.prompts, sentPrompt{threadID: threadID, messageID: f.nextMessageID, prompt: p})
	return f.nextMessageID, nil
}

func (f *fakeMessenger) MarkPromptApproved(ctx context.Context, threadID, messageID int64, p *domain.ApprovalPrompt) error {
	if f.markErr != nil {
		return f.markErr
	}
	f.approved = append(f.approved, messageID)
	return nil
}

func (f *fakeMessenger) NotifySubscriber(ctx context.Context, userID int64, a *domain.EventAnnouncement) error {
	if err, ok := f.notifyErr[userID]; ok {
		return err
	}
	f.notified = append(f.notified, userID)
	return nil
}
