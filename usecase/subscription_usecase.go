package usecase

import (
	"context"
	"errors"

	"streamhub/domain/apperror"
	"streamhub/domain/model"
	"streamhub/domain/repository"
	"streamhub/infrastructure/logger"
	"streamhub/infrastructure/metrics"
	"streamhub/infrastructure/utils"

	"github.com/google/uuid"
)

type ISubscriptionUsecase interface {
	// Toggle flips the edge (subscriberID, channelID) and reports the resulting state.
	Toggle(ctx context.Context, subscriberID, channelID string) (model.SubscriptionState, error)
	ListSubscribers(ctx context.Context, channelID string) ([]model.SubscriberEntry, error)
	ListSubscriptions(ctx context.Context, subscriberID string) ([]model.SubscribedChannel, error)
}

type SubscriptionUsecase struct {
	userRepository         repository.IUser
	subscriptionRepository repository.ISubscription
	publisher              repository.IEventPublisher
}

func NewSubscriptionUsecase(userRepository repository.IUser, subscriptionRepository repository.ISubscription, publisher repository.IEventPublisher) ISubscriptionUsecase {
	if publisher == nil {
		publisher = noopPublisher{}
	}
	return &SubscriptionUsecase{
		userRepository:         userRepository,
		subscriptionRepository: subscriptionRepository,
		publisher:              publisher,
	}
}

// Toggle is not serialized per pair. Two concurrent toggles race on the store's unique (subscriber, channel)
// index: a create that loses reports Subscribed, a delete that loses reports Unsubscribed.
func (u *SubscriptionUsecase) Toggle(ctx context.Context, subscriberID, channelID string) (model.SubscriptionState, error) {
	if err := validateID(channelID, "channel id"); err != nil {
		return "", err
	}
	if _, err := u.userRepository.FindByID(ctx, channelID); err != nil {
		return "", storeError(err, "Channel does not exist")
	}
	if subscriberID == channelID {
		return "", apperror.InvalidOperation("You cannot subscribe to your own channel")
	}

	state, err := u.flip(ctx, subscriberID, channelID)
	if err != nil {
		return "", err
	}

	metrics.SubscriptionToggles.WithLabelValues(string(state)).Inc()
	publishEvent(ctx, u.publisher, model.EventSubscriptionToggled, map[string]string{
		"subscriberId": subscriberID,
		"channelId":    channelID,
		"state":        string(state),
	})
	return state, nil
}

func (u *SubscriptionUsecase) flip(ctx context.Context, subscriberID, channelID string) (model.SubscriptionState, error) {
	existing, err := u.subscriptionRepository.Find(ctx, subscriberID, channelID)
	switch {
	case err == nil:
		if _, err := u.subscriptionRepository.Delete(ctx, existing.ID); err != nil {
			logger.GetLogger().WithField("error", err).Error("Error while delete subscription")
			return "", apperror.Persistence(errSomethingWrong, err)
		}
		return model.Unsubscribed, nil
	case errors.Is(err, repository.ErrNotFound):
		now := utils.GetCurrentTime()
		sub := &model.Subscription{
			ID:         uuid.NewString(),
			Subscriber: subscriberID,
			Channel:    channelID,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		if err := u.subscriptionRepository.Create(ctx, sub); err != nil && !errors.Is(err, repository.ErrConflict) {
			logger.GetLogger().WithField("error", err).Error("Error while create subscription")
			return "", apperror.Persistence(errSomethingWrong, err)
		}
		return model.Subscribed, nil
	default:
		logger.GetLogger().WithField("error", err).Error("Error while find subscription")
		return "", apperror.Persistence(errSomethingWrong, err)
	}
}

func (u *SubscriptionUsecase) ListSubscribers(ctx context.Context, channelID string) ([]model.SubscriberEntry, error) {
	if err := validateID(channelID, "channel id"); err != nil {
		return nil, err
	}
	if _, err := u.userRepository.FindByID(ctx, channelID); err != nil {
		return nil, storeError(err, "Channel does not exist")
	}
	subscribers, err := u.subscriptionRepository.ListSubscribers(ctx, channelID)
	if err != nil {
		return nil, storeError(err, "Channel does not exist")
	}
	return subscribers, nil
}

func (u *SubscriptionUsecase) ListSubscriptions(ctx context.Context, subscriberID string) ([]model.SubscribedChannel, error) {
	if err := validateID(subscriberID, "subscriber id"); err != nil {
		return nil, err
	}
	if _, err := u.userRepository.FindByID(ctx, subscriberID); err != nil {
		return nil, storeError(err, "Subscriber does not exist")
	}
	channels, err := u.subscriptionRepository.ListSubscriptions(ctx, subscriberID)
	if err != nil {
		return nil, storeError(err, "Subscriber does not exist")
	}
	return channels, nil
}
