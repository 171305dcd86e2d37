package persistence

import (
	"context"
	"errors"

	"streamhub/domain/model"
	"streamhub/domain/query"
	"streamhub/domain/repository"
	"streamhub/infrastructure/logger"
	"streamhub/infrastructure/utils"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// mongoErr maps driver errors onto the repository sentinels.
func mongoErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return repository.ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return repository.ErrConflict
	default:
		return err
	}
}

type UserMongoRepository struct {
	db *mongo.Database
}

func NewUserMongoRepository(db *mongo.Database) repository.IUser {
	return &UserMongoRepository{db: db}
}

func (r *UserMongoRepository) users() *mongo.Collection {
	return r.db.Collection(query.Users)
}

func (r *UserMongoRepository) Create(ctx context.Context, user *model.User) error {
	if user.WatchHistory == nil {
		user.WatchHistory = []string{}
	}
	_, err := r.users().InsertOne(ctx, user)
	return mongoErr(err)
}

func (r *UserMongoRepository) findOne(ctx context.Context, filter bson.D) (*model.User, error) {
	var user model.User
	if err := r.users().FindOne(ctx, filter).Decode(&user); err != nil {
		return nil, mongoErr(err)
	}
	return &user, nil
}

func (r *UserMongoRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	return r.findOne(ctx, bson.D{{Key: "_id", Value: id}})
}

func (r *UserMongoRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	return r.findOne(ctx, bson.D{{Key: "username", Value: username}})
}

func (r *UserMongoRepository) FindByUsernameOrEmail(ctx context.Context, username, email string) (*model.User, error) {
	or := bson.A{}
	if username != "" {
		or = append(or, bson.D{{Key: "username", Value: username}})
	}
	if email != "" {
		or = append(or, bson.D{{Key: "email", Value: email}})
	}
	if len(or) == 0 {
		return nil, repository.ErrNotFound
	}
	return r.findOne(ctx, bson.D{{Key: "$or", Value: or}})
}

func userUpdateDoc(update model.UserUpdate) bson.D {
	set := bson.D{{Key: "updatedAt", Value: utils.GetCurrentTime()}}
	add := func(key string, value *string) {
		if value != nil {
			set = append(set, bson.E{Key: key, Value: *value})
		}
	}
	add("fullName", update.FullName)
	add("email", update.Email)
	add("avatar", update.Avatar)
	add("avatarPublicId", update.AvatarPublicID)
	add("coverImage", update.CoverImage)
	add("coverImagePublicId", update.CoverImagePublicID)
	add("password", update.Password)
	return bson.D{{Key: "$set", Value: set}}
}

func (r *UserMongoRepository) UpdateFields(ctx context.Context, id string, update model.UserUpdate) (*model.User, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var user model.User
	err := r.users().FindOneAndUpdate(ctx, bson.D{{Key: "_id", Value: id}}, userUpdateDoc(update), opts).Decode(&user)
	if err != nil {
		return nil, mongoErr(err)
	}
	return &user, nil
}

func (r *UserMongoRepository) SetRefreshToken(ctx context.Context, id, token string) error {
	var update bson.D
	if token == "" {
		update = bson.D{{Key: "$unset", Value: bson.D{{Key: "refreshToken", Value: 1}}}}
	} else {
		update = bson.D{{Key: "$set", Value: bson.D{{Key: "refreshToken", Value: token}}}}
	}
	res, err := r.users().UpdateOne(ctx, bson.D{{Key: "_id", Value: id}}, update)
	if err != nil {
		return mongoErr(err)
	}
	if res.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *UserMongoRepository) DeleteByID(ctx context.Context, id string) error {
	res, err := r.users().DeleteOne(ctx, bson.D{{Key: "_id", Value: id}})
	if err != nil {
		return mongoErr(err)
	}
	if res.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *UserMongoRepository) ChannelProfile(ctx context.Context, username, viewerID string) (*model.ChannelProfile, error) {
	var profiles []model.ChannelProfile
	if err := r.aggregate(ctx, query.ChannelProfile(username, viewerID), &profiles); err != nil {
		return nil, err
	}
	if len(profiles) == 0 {
		return nil, repository.ErrNotFound
	}
	return &profiles[0], nil
}

type watchHistoryDoc struct {
	WatchHistory  []string             `bson:"watchHistory"`
	WatchedVideos []model.WatchedVideo `bson:"watchedVideos"`
}

func (r *UserMongoRepository) WatchHistory(ctx context.Context, userID string) ([]model.WatchedVideo, error) {
	var docs []watchHistoryDoc
	if err := r.aggregate(ctx, query.WatchHistory(userID), &docs); err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, repository.ErrNotFound
	}
	return orderByIDs(docs[0].WatchHistory, docs[0].WatchedVideos), nil
}

// orderByIDs returns videos in the order of ids, skipping ids with no joined video.
func orderByIDs(ids []string, videos []model.WatchedVideo) []model.WatchedVideo {
	byID := make(map[string]model.WatchedVideo, len(videos))
	for _, v := range videos {
		byID[v.ID] = v
	}
	out := make([]model.WatchedVideo, 0, len(ids))
	for _, id := range ids {
		if v, ok := byID[id]; ok {
			out = append(out, v)
		}
	}
	return out
}

// PushWatchHistory rewrites the array in one update so concurrent watches cannot duplicate an entry.
func (r *UserMongoRepository) PushWatchHistory(ctx context.Context, userID, videoID string) error {
	update := mongo.Pipeline{
		{{Key: "$set", Value: bson.D{{Key: "watchHistory", Value: bson.D{{Key: "$concatArrays", Value: bson.A{
			bson.A{videoID},
			bson.D{{Key: "$filter", Value: bson.D{
				{Key: "input", Value: bson.D{{Key: "$ifNull", Value: bson.A{"$watchHistory", bson.A{}}}}},
				{Key: "cond", Value: bson.D{{Key: "$ne", Value: bson.A{"$$this", videoID}}}},
			}}},
		}}}}}}},
	}
	res, err := r.users().UpdateOne(ctx, bson.D{{Key: "_id", Value: userID}}, update)
	if err != nil {
		return mongoErr(err)
	}
	if res.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *UserMongoRepository) aggregate(ctx context.Context, p *query.Pipeline, out interface{}) error {
	return aggregate(ctx, r.users(), p, out)
}

func aggregate(ctx context.Context, collection *mongo.Collection, p *query.Pipeline, out interface{}) error {
	cursor, err := collection.Aggregate(ctx, ToMongoPipeline(p))
	if err != nil {
		logger.GetLogger().WithField("error", err).WithField("collection", collection.Name()).Error("Error while aggregate")
		return err
	}
	defer func(cursor *mongo.Cursor, ctx context.Context) {
		if err := cursor.Close(ctx); err != nil {
			logger.GetLogger().WithField("error", err).Error("Error while closing cursor")
		}
	}(cursor, ctx)
	return cursor.All(ctx, out)
}
