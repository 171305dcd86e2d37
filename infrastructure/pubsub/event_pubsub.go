package pubsub

import (
	"context"
	"encoding/json"
	"sync"

	"streamhub/domain/model"
	"streamhub/domain/repository"
	"streamhub/infrastructure/logger"

	"cloud.google.com/go/pubsub"
	"google.golang.org/api/option"
)

// NewPubSub opens a Pub/Sub client for the project.
func NewPubSub(ctx context.Context, projectID string, opts ...option.ClientOption) (*pubsub.Client, error) {
	return pubsub.NewClient(ctx, projectID, opts...)
}

type EventPubSub struct {
	client    *pubsub.Client
	topicName string

	mu    sync.Mutex
	topic *pubsub.Topic
}

func NewEventPubSub(client *pubsub.Client, topicName string) *EventPubSub {
	return &EventPubSub{client: client, topicName: topicName}
}

var _ repository.IEventPublisher = (*EventPubSub)(nil)

// Publish encodes the event as JSON and waits for the server id.
func (p *EventPubSub) Publish(ctx context.Context, event model.DomainEvent) error {
	topic, err := p.ensureTopic(ctx)
	if err != nil {
		return err
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	msg := &pubsub.Message{
		Data:       payload,
		Attributes: map[string]string{"type": event.Type},
	}

	serverID, err := topic.Publish(ctx, msg).Get(ctx)
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("Error while publishing event")
		return err
	}

	logger.GetLogger().WithField("server ID", serverID).WithField("type", event.Type).Debug("Event published")
	return nil
}

// ensureTopic looks the topic up once and creates it when missing.
func (p *EventPubSub) ensureTopic(ctx context.Context) (*pubsub.Topic, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.topic != nil {
		return p.topic, nil
	}

	topic := p.client.Topic(p.topicName)
	exists, err := topic.Exists(ctx)
	if err != nil {
		return nil, err
	}
	if !exists {
		logger.GetLogger().WithField("topic", p.topicName).Info("Topic doesn't exist, creating it")
		if topic, err = p.client.CreateTopic(ctx, p.topicName); err != nil {
			return nil, err
		}
	}
	p.topic = topic
	return topic, nil
}

// Close flushes pending messages.
func (p *EventPubSub) Close() error {
	p.mu.Lock()
	if p.topic != nil {
		p.topic.Stop()
	}
	p.mu.Unlock()
	return p.client.Close()
}
