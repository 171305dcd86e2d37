package repository

import (
	"context"

	"streamhub/domain/model"
)

type ITweet interface {
	Create(ctx context.Context, tweet *model.Tweet) error
	FindByID(ctx context.Context, id string) (*model.Tweet, error)
	UpdateContent(ctx context.Context, id, content string) (*model.Tweet, error)
	Delete(ctx context.Context, id string) error
	ListByOwnerWithOwner(ctx context.Context, ownerID string) ([]model.TweetWithOwner, error)
}
