package persistence

import (
	"context"

	"streamhub/domain/model"
	"streamhub/domain/query"
	"streamhub/domain/repository"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

type SubscriptionMongoRepository struct {
	db *mongo.Database
}

func NewSubscriptionMongoRepository(db *mongo.Database) repository.ISubscription {
	return &SubscriptionMongoRepository{db: db}
}

func (r *SubscriptionMongoRepository) subscriptions() *mongo.Collection {
	return r.db.Collection(query.Subscriptions)
}

func (r *SubscriptionMongoRepository) Find(ctx context.Context, subscriberID, channelID string) (*model.Subscription, error) {
	var sub model.Subscription
	filter := bson.D{{Key: "subscriber", Value: subscriberID}, {Key: "channel", Value: channelID}}
	if err := r.subscriptions().FindOne(ctx, filter).Decode(&sub); err != nil {
		return nil, mongoErr(err)
	}
	return &sub, nil
}

// Create relies on the unique (subscriber, channel) index.
func (r *SubscriptionMongoRepository) Create(ctx context.Context, sub *model.Subscription) error {
	_, err := r.subscriptions().InsertOne(ctx, sub)
	return mongoErr(err)
}

func (r *SubscriptionMongoRepository) Delete(ctx context.Context, id string) (bool, error) {
	res, err := r.subscriptions().DeleteOne(ctx, bson.D{{Key: "_id", Value: id}})
	if err != nil {
		return false, mongoErr(err)
	}
	return res.DeletedCount > 0, nil
}

func (r *SubscriptionMongoRepository) ListSubscribers(ctx context.Context, channelID string) ([]model.SubscriberEntry, error) {
	out := []model.SubscriberEntry{}
	if err := aggregate(ctx, r.subscriptions(), query.ChannelSubscribers(channelID), &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *SubscriptionMongoRepository) ListSubscriptions(ctx context.Context, subscriberID string) ([]model.SubscribedChannel, error) {
	out := []model.SubscribedChannel{}
	if err := aggregate(ctx, r.subscriptions(), query.SubscribedChannels(subscriberID), &out); err != nil {
		return nil, err
	}
	return out, nil
}
