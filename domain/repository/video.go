package repository

import (
	"context"

	"streamhub/domain/model"
)

type IVideo interface {
	Create(ctx context.Context, video *model.Video) error
	FindByID(ctx context.Context, id string) (*model.Video, error)
	IncrementViews(ctx context.Context, id string) error
}
