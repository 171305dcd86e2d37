package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"streamhub/domain/apperror"
	"streamhub/domain/model"
	"streamhub/domain/repository"
	"streamhub/infrastructure/logger"
	"streamhub/infrastructure/utils"

	"github.com/google/uuid"
)

const errSomethingWrong = "Something went wrong"

var errPasswordTooLong = apperror.Validation(fmt.Sprintf("Password must be at most %d bytes", utils.MaxPasswordBytes))

func hashPassword(password string) (string, error) {
	hash, err := utils.HashPassword(password)
	if errors.Is(err, utils.ErrPasswordTooLong) {
		return "", errPasswordTooLong
	}
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("Error while hash password")
		return "", apperror.Wrap(apperror.KindInternal, errSomethingWrong, err)
	}
	return hash, nil
}

type noopUserCache struct{}

func (noopUserCache) Get(context.Context, string) (*model.User, bool) { return nil, false }
func (noopUserCache) Set(context.Context, *model.User)                {}
func (noopUserCache) Invalidate(context.Context, string)              {}

type noopPublisher struct{}

func (noopPublisher) Publish(context.Context, model.DomainEvent) error { return nil }

// publishEvent is best-effort and runs inline: the state change is already persisted, so failures are only logged.
func publishEvent(ctx context.Context, publisher repository.IEventPublisher, eventType string, attrs map[string]string) {
	event := model.DomainEvent{Type: eventType, OccurredAt: utils.GetCurrentTime(), Attributes: attrs}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if err := publisher.Publish(ctx, event); err != nil {
		logger.GetLogger().WithField("error", err).WithField("event", eventType).Warn("Error while publish domain event")
	}
}

// validateID rejects ids that are not uuids.
func validateID(id, name string) error {
	if _, err := uuid.Parse(strings.TrimSpace(id)); err != nil {
		return apperror.Validation("Invalid " + name)
	}
	return nil
}

// storeError maps a repository failure to an AppError. ErrNotFound becomes NotFound(notFound).
func storeError(err error, notFound string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperror.NotFound(notFound)
	}
	logger.GetLogger().WithField("error", err).Error("Error while access store")
	return apperror.Persistence(errSomethingWrong, err)
}
