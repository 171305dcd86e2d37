package persistence

import (
	"context"

	"streamhub/domain/model"
	"streamhub/domain/query"
	"streamhub/domain/repository"
	"streamhub/infrastructure/utils"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

type TweetMongoRepository struct {
	db *mongo.Database
}

func NewTweetMongoRepository(db *mongo.Database) repository.ITweet {
	return &TweetMongoRepository{db: db}
}

func (r *TweetMongoRepository) tweets() *mongo.Collection {
	return r.db.Collection(query.Tweets)
}

func (r *TweetMongoRepository) Create(ctx context.Context, tweet *model.Tweet) error {
	_, err := r.tweets().InsertOne(ctx, tweet)
	return mongoErr(err)
}

func (r *TweetMongoRepository) FindByID(ctx context.Context, id string) (*model.Tweet, error) {
	var tweet model.Tweet
	if err := r.tweets().FindOne(ctx, bson.D{{Key: "_id", Value: id}}).Decode(&tweet); err != nil {
		return nil, mongoErr(err)
	}
	return &tweet, nil
}

func (r *TweetMongoRepository) UpdateContent(ctx context.Context, id, content string) (*model.Tweet, error) {
	update := bson.D{{Key: "$set", Value: bson.D{
		{Key: "content", Value: content},
		{Key: "updatedAt", Value: utils.GetCurrentTime()},
	}}}
	var tweet model.Tweet
	err := r.tweets().FindOneAndUpdate(ctx, bson.D{{Key: "_id", Value: id}}, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&tweet)
	if err != nil {
		return nil, mongoErr(err)
	}
	return &tweet, nil
}

func (r *TweetMongoRepository) Delete(ctx context.Context, id string) error {
	res, err := r.tweets().DeleteOne(ctx, bson.D{{Key: "_id", Value: id}})
	if err != nil {
		return mongoErr(err)
	}
	if res.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *TweetMongoRepository) ListByOwnerWithOwner(ctx context.Context, ownerID string) ([]model.TweetWithOwner, error) {
	out := []model.TweetWithOwner{}
	if err := aggregate(ctx, r.tweets(), query.TweetsWithOwner(ownerID), &out); err != nil {
		return nil, err
	}
	return out, nil
}
