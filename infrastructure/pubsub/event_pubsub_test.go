package pubsub_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"streamhub/domain/model"
	"streamhub/infrastructure/pubsub"

	"cloud.google.com/go/pubsub/pstest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

func newFakeClient(t *testing.T) (*pstest.Server, *pubsub.EventPubSub) {
	t.Helper()
	srv := pstest.NewServer()
	t.Cleanup(func() { _ = srv.Close() })

	client, err := pubsub.NewPubSub(context.Background(), "streamhub-test",
		option.WithEndpoint(srv.Addr),
		option.WithoutAuthentication(),
		option.WithGRPCDialOption(grpc.WithTransportCredentials(insecure.NewCredentials())),
	)
	require.NoError(t, err)

	publisher := pubsub.NewEventPubSub(client, "streamhub-events")
	t.Cleanup(func() { _ = publisher.Close() })
	return srv, publisher
}

func TestEventPubSub_PublishCreatesTopicAndEncodesEvent(t *testing.T) {
	srv, publisher := newFakeClient(t)

	event := model.DomainEvent{
		Type:       model.EventSubscriptionToggled,
		OccurredAt: time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
		Attributes: map[string]string{"channelId": "c-1", "state": "subscribed"},
	}
	require.NoError(t, publisher.Publish(context.Background(), event))
	require.NoError(t, publisher.Publish(context.Background(), event))

	msgs := srv.Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, model.EventSubscriptionToggled, msgs[0].Attributes["type"])

	var got model.DomainEvent
	require.NoError(t, json.Unmarshal(msgs[0].Data, &got))
	assert.Equal(t, event, got)
}
