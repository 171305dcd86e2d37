package persistence

import (
	"context"

	"streamhub/domain/model"
	"streamhub/domain/query"
	"streamhub/domain/repository"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

type VideoMongoRepository struct {
	db *mongo.Database
}

func NewVideoMongoRepository(db *mongo.Database) repository.IVideo {
	return &VideoMongoRepository{db: db}
}

func (r *VideoMongoRepository) videos() *mongo.Collection {
	return r.db.Collection(query.Videos)
}

func (r *VideoMongoRepository) Create(ctx context.Context, video *model.Video) error {
	_, err := r.videos().InsertOne(ctx, video)
	return mongoErr(err)
}

func (r *VideoMongoRepository) FindByID(ctx context.Context, id string) (*model.Video, error) {
	var video model.Video
	if err := r.videos().FindOne(ctx, bson.D{{Key: "_id", Value: id}}).Decode(&video); err != nil {
		return nil, mongoErr(err)
	}
	return &video, nil
}

func (r *VideoMongoRepository) IncrementViews(ctx context.Context, id string) error {
	res, err := r.videos().UpdateOne(ctx, bson.D{{Key: "_id", Value: id}}, bson.D{{Key: "$inc", Value: bson.D{{Key: "views", Value: 1}}}})
	if err != nil {
		return mongoErr(err)
	}
	if res.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}
