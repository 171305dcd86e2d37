package repository

import (
	"context"

	"streamhub/domain/model"
)

type ISubscription interface {
	Find(ctx context.Context, subscriberID, channelID string) (*model.Subscription, error)
	// Create returns ErrConflict when the pair already exists.
	Create(ctx context.Context, sub *model.Subscription) error
	// Delete reports whether an edge was removed.
	Delete(ctx context.Context, id string) (bool, error)
	ListSubscribers(ctx context.Context, channelID string) ([]model.SubscriberEntry, error)
	ListSubscriptions(ctx context.Context, subscriberID string) ([]model.SubscribedChannel, error)
}
