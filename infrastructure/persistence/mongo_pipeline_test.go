package persistence

import (
	"testing"

	"streamhub/domain/query"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
)

func TestToMongoPipeline_ChannelProfile(t *testing.T) {
	pipeline := ToMongoPipeline(query.ChannelProfile("alice", "viewer-1"))
	require.Len(t, pipeline, 5)

	assert.Equal(t, bson.D{{Key: "$match", Value: bson.D{{Key: "username", Value: "alice"}}}}, pipeline[0])
	assert.Equal(t, bson.D{{Key: "$lookup", Value: bson.D{
		{Key: "from", Value: "subscriptions"},
		{Key: "localField", Value: "_id"},
		{Key: "foreignField", Value: "channel"},
		{Key: "as", Value: "subscribers"},
	}}}, pipeline[1])

	addFields := pipeline[3][0]
	assert.Equal(t, "$addFields", addFields.Key)
	fields := addFields.Value.(bson.D)
	require.Len(t, fields, 3)
	assert.Equal(t, "isSubscribed", fields[2].Key)
	cond := fields[2].Value.(bson.D)[0].Value.(bson.D)
	in := cond[0].Value.(bson.D)[0]
	assert.Equal(t, "$in", in.Key)
	assert.Equal(t, "viewer-1", in.Value.(bson.A)[0])
}

func TestToMongoPipeline_NestedLookup(t *testing.T) {
	pipeline := ToMongoPipeline(query.WatchHistory("u1"))
	require.Len(t, pipeline, 3)

	lookup := pipeline[1][0].Value.(bson.D)
	require.Len(t, lookup, 5)
	assert.Equal(t, "pipeline", lookup[4].Key)
	sub := lookup[4].Value.(bson.A)
	require.Len(t, sub, 2)

	ownerLookup := sub[0].(bson.D)[0].Value.(bson.D)
	assert.Equal(t, "users", ownerLookup[0].Value)
	assert.Equal(t, bson.D{{Key: "$first", Value: "$owner"}}, sub[1].(bson.D)[0].Value.(bson.D)[0].Value)
}

func TestToMongoPipeline_UnwindAndProject(t *testing.T) {
	pipeline := ToMongoPipeline(query.New().Unwind("channel", false).Exclude("password"))
	assert.Equal(t, bson.D{{Key: "$unwind", Value: bson.D{
		{Key: "path", Value: "$channel"},
		{Key: "preserveNullAndEmptyArrays", Value: false},
	}}}, pipeline[0])
	assert.Equal(t, bson.D{{Key: "$project", Value: bson.D{{Key: "password", Value: 0}}}}, pipeline[1])
}
