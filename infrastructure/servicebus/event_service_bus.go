package servicebus

import (
	"context"
	"encoding/json"

	"streamhub/domain/model"
	"streamhub/domain/repository"
	"streamhub/infrastructure/logger"

	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/Azure/azure-sdk-for-go/sdk/messaging/azservicebus"
)

// NewServiceBus connects to namespace (e.g. "streamhub.servicebus.windows.net") with the default Azure credential chain.
func NewServiceBus(namespace string) (*azservicebus.Client, error) {
	cred, err := azidentity.NewDefaultAzureCredential(nil)
	if err != nil {
		return nil, err
	}
	return azservicebus.NewClient(namespace, cred, nil)
}

type messageSender interface {
	SendMessage(ctx context.Context, message *azservicebus.Message, options *azservicebus.SendMessageOptions) error
	Close(ctx context.Context) error
}

type EventServiceBus struct {
	sender messageSender
}

// NewEventServiceBus opens a sender for the queue or topic.
func NewEventServiceBus(client *azservicebus.Client, queueOrTopic string) (*EventServiceBus, error) {
	sender, err := client.NewSender(queueOrTopic, nil)
	if err != nil {
		logger.GetLogger().
			WithField("error", err).
			Error("Error while making new sender service bus.")
		return nil, err
	}
	return newEventServiceBus(sender), nil
}

func newEventServiceBus(sender messageSender) *EventServiceBus {
	return &EventServiceBus{sender: sender}
}

var _ repository.IEventPublisher = (*EventServiceBus)(nil)

func (b *EventServiceBus) Publish(ctx context.Context, event model.DomainEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return err
	}

	contentType := "application/json"
	subject := event.Type
	msg := &azservicebus.Message{
		Body:                  body,
		ContentType:           &contentType,
		Subject:               &subject,
		ApplicationProperties: map[string]any{"type": event.Type},
	}
	if err := b.sender.SendMessage(ctx, msg, nil); err != nil {
		logger.GetLogger().WithField("error", err).Error("Error while sending message.")
		return err
	}
	return nil
}

func (b *EventServiceBus) Close(ctx context.Context) error {
	if err := b.sender.Close(ctx); err != nil {
		logger.GetLogger().
			WithField("error", err).
			Error("Error while closing sender.")
		return err
	}
	return nil
}
