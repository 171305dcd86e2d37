package repository

import (
	"context"

	"streamhub/domain/model"
)

// IUser is the credential store boundary.
type IUser interface {
	Create(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, id string) (*model.User, error)
	FindByUsername(ctx context.Context, username string) (*model.User, error)
	// FindByUsernameOrEmail matches either field; empty arguments are ignored.
	FindByUsernameOrEmail(ctx context.Context, username, email string) (*model.User, error)
	UpdateFields(ctx context.Context, id string, update model.UserUpdate) (*model.User, error)
	// SetRefreshToken overwrites the stored refresh token; an empty token clears it.
	SetRefreshToken(ctx context.Context, id, token string) error
	DeleteByID(ctx context.Context, id string) error

	// ChannelProfile resolves username and derives its counts from one read of the edge set.
	ChannelProfile(ctx context.Context, username, viewerID string) (*model.ChannelProfile, error)
	// WatchHistory returns the watched videos most-recent-first with public owner projections.
	WatchHistory(ctx context.Context, userID string) ([]model.WatchedVideo, error)
	// PushWatchHistory moves videoID to the front of the user's history.
	PushWatchHistory(ctx context.Context, userID, videoID string) error
}
