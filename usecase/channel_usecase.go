package usecase

import (
	"context"
	"strings"

	"streamhub/domain/apperror"
	"streamhub/domain/model"
	"streamhub/domain/repository"
)

// IChannelUsecase builds the read views derived from the subscription graph and content stores.
type IChannelUsecase interface {
	ChannelProfile(ctx context.Context, username, viewerID string) (*model.ChannelProfile, error)
	WatchHistory(ctx context.Context, userID string) ([]model.WatchedVideo, error)
}

type ChannelUsecase struct {
	userRepository repository.IUser
}

func NewChannelUsecase(userRepository repository.IUser) IChannelUsecase {
	return &ChannelUsecase{userRepository: userRepository}
}

func (u *ChannelUsecase) ChannelProfile(ctx context.Context, username, viewerID string) (*model.ChannelProfile, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	if username == "" {
		return nil, apperror.Validation("Username is missing")
	}
	profile, err := u.userRepository.ChannelProfile(ctx, username, viewerID)
	if err != nil {
		return nil, storeError(err, "Channel does not exist")
	}
	return profile, nil
}

func (u *ChannelUsecase) WatchHistory(ctx context.Context, userID string) ([]model.WatchedVideo, error) {
	history, err := u.userRepository.WatchHistory(ctx, userID)
	if err != nil {
		return nil, storeError(err, "User does not exist")
	}
	if history == nil {
		history = []model.WatchedVideo{}
	}
	return history, nil
}
