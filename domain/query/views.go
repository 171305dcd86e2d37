package query

// Collection names used by the read views.
const (
	Users         = "users"
	Subscriptions = "subscriptions"
	Tweets        = "tweets"
	Videos        = "videos"
)

func publicUser() *Pipeline {
	return New().Include("username", "fullName", "avatar")
}

// ChannelProfile resolves username and derives both counts and the viewer flag from the same join.
func ChannelProfile(username, viewerID string) *Pipeline {
	return New().
		Match("username", username).
		Lookup(Subscriptions, "_id", "channel", "subscribers", nil).
		Lookup(Subscriptions, "_id", "subscriber", "subscribedTo", nil).
		AddSize("subscribersCount", "subscribers").
		AddSize("channelsSubscribedToCount", "subscribedTo").
		AddIn("isSubscribed", viewerID, "subscribers.subscriber").
		Include("fullName", "username", "email", "avatar", "coverImage",
			"subscribersCount", "channelsSubscribedToCount", "isSubscribed")
}

// WatchHistory joins the user's watched videos into watchedVideos, each with a public owner.
// The join does not keep the order of watchHistory; callers reorder by it.
func WatchHistory(userID string) *Pipeline {
	withOwner := New().
		Lookup(Users, "owner", "_id", "owner", publicUser()).
		AddFirst("owner", "owner")
	return New().
		Match("_id", userID).
		Lookup(Videos, "watchHistory", "_id", "watchedVideos", withOwner).
		Include("watchHistory", "watchedVideos")
}

// TweetsWithOwner lists ownerID's tweets with the owner document, minus credentials, in place of the id.
func TweetsWithOwner(ownerID string) *Pipeline {
	return New().
		Match("owner", ownerID).
		Lookup(Users, "owner", "_id", "owner", New().Exclude("password", "refreshToken")).
		AddFirst("owner", "owner")
}

// ChannelSubscribers lists the subscribers of channelID.
func ChannelSubscribers(channelID string) *Pipeline {
	return New().
		Match("channel", channelID).
		Lookup(Users, "subscriber", "_id", "subscriber", publicUser()).
		Unwind("subscriber", false).
		Include("subscriber", "createdAt")
}

// SubscribedChannels lists the channels subscriberID subscribes to.
func SubscribedChannels(subscriberID string) *Pipeline {
	return New().
		Match("subscriber", subscriberID).
		Lookup(Users, "channel", "_id", "channel", publicUser()).
		Unwind("channel", false).
		Include("channel", "createdAt")
}
