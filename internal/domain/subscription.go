package domain

import (
	"context"
	"time"
)

// Subscription is a (subscriber, creator) relation: the subscriber is
// notified whenever the creator publishes a new event.
type Subscription struct {
	SubscriberID int64     `json:"subscriber_id"`
	CreatorID    int64     `json:"creator_id"`
	CreatedAt    time.Time `json:"created_at"`
}

// SubscriptionRepository defines the interface for subscription storage.
// It performs no role validation; that is the calling service's concern.
type SubscriptionRepository interface {
	// Add inserts the pair; a duplicate yields ErrAlreadySubscribed.
	Add(ctx context.Context, subscriberID, creatorID int64) error
	// Remove deletes the pair and reports whether a row actually
	// existed, so callers can distinguish a no-op from a real removal.
	Remove(ctx context.Context, subscriberID, creatorID int64) (removed bool, err error)
	// ListCreators returns the creators the subscriber follows.
	ListCreators(ctx context.Context, subscriberID int64) ([]*User, error)
	// ListSubscribers returns the ids of everyone following the creator.
	ListSubscribers(ctx context.Context, creatorID int64) ([]int64, error)
}

// SubscriptionService defines the subscribe/unsubscribe workflow.
type SubscriptionService interface {
	// Subscribe validates that the target holds the event-creator role
	// and that the subscriber is not subscribing to themselves.
	Subscribe(ctx context.Context, subscriberID int64, subscriberName string, creatorID int64, creatorName string) error
	// Unsubscribe reports whether a subscription was actually removed.
	Unsubscribe(ctx context.Context, subscriberID, creatorID int64) (bool, error)
	List(ctx context.Context, subscriberID int64) ([]*User, error)
}
