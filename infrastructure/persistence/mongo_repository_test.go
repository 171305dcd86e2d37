package persistence

import (
	"errors"
	"testing"

	"streamhub/domain/model"
	"streamhub/domain/repository"
	"streamhub/infrastructure/configuration"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

func TestMongoErr(t *testing.T) {
	assert.NoError(t, mongoErr(nil))
	assert.ErrorIs(t, mongoErr(mongo.ErrNoDocuments), repository.ErrNotFound)

	dup := mongo.WriteException{WriteErrors: []mongo.WriteError{{Code: 11000, Message: "E11000 duplicate key"}}}
	assert.ErrorIs(t, mongoErr(dup), repository.ErrConflict)

	other := errors.New("socket closed")
	assert.Equal(t, other, mongoErr(other))
}

func TestOrderByIDs_RestoresHistoryOrder(t *testing.T) {
	videos := []model.WatchedVideo{{ID: "a"}, {ID: "b"}, {ID: "c"}}
	got := orderByIDs([]string{"c", "missing", "a", "b"}, videos)
	ids := []string{}
	for _, v := range got {
		ids = append(ids, v.ID)
	}
	assert.Equal(t, []string{"c", "a", "b"}, ids)
	assert.Empty(t, orderByIDs(nil, videos))
}

func TestUserUpdateDoc_OnlySetsProvidedFields(t *testing.T) {
	name := "Alice"
	doc := userUpdateDoc(model.UserUpdate{FullName: &name})
	set := doc[0].Value.(bson.D)
	keys := []string{}
	for _, e := range set {
		keys = append(keys, e.Key)
	}
	assert.Equal(t, []string{"updatedAt", "fullName"}, keys)
}

func TestMongoURI(t *testing.T) {
	assert.Equal(t, "mongodb://localhost:27017", mongoURI(configDb("", "", "", "")))
	assert.Equal(t, "mongodb://root:p%40ss@db:27018", mongoURI(configDb("db", "27018", "root", "p@ss")))
}

func configDb(host, port, user, password string) configuration.Db {
	return configuration.Db{Host: host, Port: port, User: user, Password: password}
}
