package model

import "time"

type Tweet struct {
	ID        string    `json:"_id"       bson:"_id"`
	Content   string    `json:"content"   bson:"content"`
	Owner     string    `json:"owner"     bson:"owner"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}

// TweetWithOwner is a tweet with its owner document flattened in place of the owner id.
type TweetWithOwner struct {
	ID        string    `json:"_id"       bson:"_id"`
	Content   string    `json:"content"   bson:"content"`
	Owner     User      `json:"owner"     bson:"owner"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}
