package repository

import (
	"context"

	"streamhub/domain/model"
)

// IBlobStore stores uploaded media. Upload never removes localPath; the caller owns it.
type IBlobStore interface {
	Upload(ctx context.Context, localPath string) (*model.UploadedAsset, error)
	Delete(ctx context.Context, publicID string) error
}

// IEventPublisher delivers domain events to a message broker.
type IEventPublisher interface {
	Publish(ctx context.Context, event model.DomainEvent) error
}

// IUserCache caches sanitized users by id.
type IUserCache interface {
	Get(ctx context.Context, id string) (*model.User, bool)
	Set(ctx context.Context, user *model.User)
	Invalidate(ctx context.Context, id string)
}
