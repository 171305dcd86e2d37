package usecase

import (
	"context"
	"strings"

	"streamhub/domain/apperror"
	"streamhub/domain/model"
	"streamhub/domain/repository"
	"streamhub/infrastructure/utils"

	"github.com/google/uuid"
)

type ITweetUsecase interface {
	Create(ctx context.Context, ownerID, content string) (*model.Tweet, error)
	// ListByOwner returns the user's tweets with the sanitized owner document flattened in.
	ListByOwner(ctx context.Context, userID string) ([]model.TweetWithOwner, error)
	Update(ctx context.Context, userID, tweetID, content string) (*model.Tweet, error)
	Delete(ctx context.Context, userID, tweetID string) error
}

type TweetUsecase struct {
	userRepository  repository.IUser
	tweetRepository repository.ITweet
}

func NewTweetUsecase(userRepository repository.IUser, tweetRepository repository.ITweet) ITweetUsecase {
	return &TweetUsecase{userRepository: userRepository, tweetRepository: tweetRepository}
}

func (u *TweetUsecase) Create(ctx context.Context, ownerID, content string) (*model.Tweet, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, apperror.Validation("Content is required")
	}
	now := utils.GetCurrentTime()
	tweet := &model.Tweet{ID: uuid.NewString(), Content: content, Owner: ownerID, CreatedAt: now, UpdatedAt: now}
	if err := u.tweetRepository.Create(ctx, tweet); err != nil {
		return nil, storeError(err, "")
	}
	return tweet, nil
}

func (u *TweetUsecase) ListByOwner(ctx context.Context, userID string) ([]model.TweetWithOwner, error) {
	if err := validateID(userID, "user id"); err != nil {
		return nil, err
	}
	if _, err := u.userRepository.FindByID(ctx, userID); err != nil {
		return nil, storeError(err, "User does not exist")
	}
	tweets, err := u.tweetRepository.ListByOwnerWithOwner(ctx, userID)
	if err != nil {
		return nil, storeError(err, "User does not exist")
	}
	if tweets == nil {
		tweets = []model.TweetWithOwner{}
	}
	return tweets, nil
}

func (u *TweetUsecase) Update(ctx context.Context, userID, tweetID, content string) (*model.Tweet, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, apperror.Validation("Content is required")
	}
	if _, err := u.ownedTweet(ctx, userID, tweetID); err != nil {
		return nil, err
	}
	tweet, err := u.tweetRepository.UpdateContent(ctx, tweetID, content)
	if err != nil {
		return nil, storeError(err, "Tweet not found")
	}
	return tweet, nil
}

func (u *TweetUsecase) Delete(ctx context.Context, userID, tweetID string) error {
	if _, err := u.ownedTweet(ctx, userID, tweetID); err != nil {
		return err
	}
	if err := u.tweetRepository.Delete(ctx, tweetID); err != nil {
		return storeError(err, "Tweet not found")
	}
	return nil
}

func (u *TweetUsecase) ownedTweet(ctx context.Context, userID, tweetID string) (*model.Tweet, error) {
	if err := validateID(tweetID, "tweet id"); err != nil {
		return nil, err
	}
	tweet, err := u.tweetRepository.FindByID(ctx, tweetID)
	if err != nil {
		return nil, storeError(err, "Tweet not found")
	}
	if tweet.Owner != userID {
		return nil, apperror.Forbidden("You are not the owner of this tweet")
	}
	return tweet, nil
}
