package model

import "time"

// Subscription is the edge "Subscriber subscribes to Channel". At most one per pair.
type Subscription struct {
	ID         string    `json:"_id"        bson:"_id"`
	Subscriber string    `json:"subscriber" bson:"subscriber"`
	Channel    string    `json:"channel"    bson:"channel"`
	CreatedAt  time.Time `json:"createdAt"  bson:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"  bson:"updatedAt"`
}

// SubscriptionState is the outcome of a toggle.
type SubscriptionState string

const (
	Subscribed   SubscriptionState = "subscribed"
	Unsubscribed SubscriptionState = "unsubscribed"
)

// SubscriberEntry is one subscriber of a channel.
type SubscriberEntry struct {
	Subscriber   UserSummary `json:"subscriber"   bson:"subscriber"`
	SubscribedAt time.Time   `json:"subscribedAt" bson:"createdAt"`
}

// SubscribedChannel is one channel a user subscribes to.
type SubscribedChannel struct {
	Channel      UserSummary `json:"channel"      bson:"channel"`
	SubscribedAt time.Time   `json:"subscribedAt" bson:"createdAt"`
}

// ChannelProfile is the channel page of a user as seen by a viewer.
type ChannelProfile struct {
	ID                        string `json:"_id"                       bson:"_id"`
	Username                  string `json:"username"                  bson:"username"`
	FullName                  string `json:"fullName"                  bson:"fullName"`
	Email                     string `json:"email"                     bson:"email"`
	Avatar                    string `json:"avatar"                    bson:"avatar"`
	CoverImage                string `json:"coverImage"                bson:"coverImage"`
	SubscribersCount          int64  `json:"subscribersCount"          bson:"subscribersCount"`
	ChannelsSubscribedToCount int64  `json:"channelsSubscribedToCount" bson:"channelsSubscribedToCount"`
	IsSubscribed              bool   `json:"isSubscribed"              bson:"isSubscribed"`
}
