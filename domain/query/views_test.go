package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChannelProfileView(t *testing.T) {
	stages := ChannelProfile("alice", "viewer").Stages()
	require.Len(t, stages, 5)

	assert.Equal(t, StageMatch, stages[0].Kind)
	assert.Equal(t, "alice", stages[0].Value)
	assert.Equal(t, "channel", stages[1].ForeignField)
	assert.Equal(t, "subscriber", stages[2].ForeignField)

	// all three derived fields are computed in one stage over the same joins
	require.Equal(t, StageAddFields, stages[3].Kind)
	require.Len(t, stages[3].Fields, 3)
	assert.Equal(t, Expr{Kind: ExprIn, Field: "subscribers.subscriber", Value: "viewer"}, stages[3].Fields[2].Expr)

	assert.NotContains(t, stages[4].Include, "password")
}

func TestWatchHistoryView_NestedOwnerJoin(t *testing.T) {
	stages := WatchHistory("u1").Stages()
	require.Len(t, stages, 3)

	lookup := stages[1]
	assert.Equal(t, Videos, lookup.From)
	require.NotNil(t, lookup.Sub)

	sub := lookup.Sub.Stages()
	require.Len(t, sub, 2)
	assert.Equal(t, Users, sub[0].From)
	assert.Equal(t, []string{"username", "fullName", "avatar"}, sub[0].Sub.Stages()[0].Include)
	assert.Equal(t, ExprFirst, sub[1].Fields[0].Expr.Kind)
}

func TestTweetsWithOwnerView_DropsCredentials(t *testing.T) {
	stages := TweetsWithOwner("u1").Stages()
	require.Len(t, stages, 3)
	assert.Equal(t, []string{"password", "refreshToken"}, stages[1].Sub.Stages()[0].Exclude)
}

func TestSubscriptionViews(t *testing.T) {
	subscribers := ChannelSubscribers("c1").Stages()
	assert.Equal(t, "channel", subscribers[0].Field)
	assert.Equal(t, "subscriber", subscribers[1].As)

	channels := SubscribedChannels("s1").Stages()
	assert.Equal(t, "subscriber", channels[0].Field)
	assert.Equal(t, "channel", channels[1].As)
	assert.False(t, channels[2].PreserveEmpty)
}
