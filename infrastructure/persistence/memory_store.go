package persistence

import (
	"context"
	"sort"
	"sync"

	"streamhub/domain/model"
	"streamhub/domain/repository"
	"streamhub/infrastructure/utils"
)

// MemoryStore keeps every collection behind one lock so joined reads see a single snapshot.
type MemoryStore struct {
	mu            sync.RWMutex
	users         map[string]*model.User
	subscriptions map[string]*model.Subscription
	tweets        map[string]*model.Tweet
	videos        map[string]*model.Video
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:         make(map[string]*model.User),
		subscriptions: make(map[string]*model.Subscription),
		tweets:        make(map[string]*model.Tweet),
		videos:        make(map[string]*model.Video),
	}
}

type UserMemoryRepository struct{ s *MemoryStore }

func NewUserMemoryRepository(s *MemoryStore) repository.IUser {
	return &UserMemoryRepository{s: s}
}

func cloneUser(u *model.User) *model.User {
	c := *u
	c.WatchHistory = append([]string(nil), u.WatchHistory...)
	return &c
}

func (r *UserMemoryRepository) Create(_ context.Context, user *model.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[user.ID]; ok {
		return repository.ErrConflict
	}
	for _, u := range r.s.users {
		if u.Username == user.Username || u.Email == user.Email {
			return repository.ErrConflict
		}
	}
	r.s.users[user.ID] = cloneUser(user)
	return nil
}

func (r *UserMemoryRepository) FindByID(_ context.Context, id string) (*model.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return cloneUser(u), nil
}

func (r *UserMemoryRepository) FindByUsername(_ context.Context, username string) (*model.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if u := r.s.userByUsername(username); u != nil {
		return cloneUser(u), nil
	}
	return nil, repository.ErrNotFound
}

func (r *UserMemoryRepository) FindByUsernameOrEmail(_ context.Context, username, email string) (*model.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, u := range r.s.users {
		if (username != "" && u.Username == username) || (email != "" && u.Email == email) {
			return cloneUser(u), nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *UserMemoryRepository) UpdateFields(_ context.Context, id string, update model.UserUpdate) (*model.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if update.Email != nil {
		for _, other := range r.s.users {
			if other.ID != id && other.Email == *update.Email {
				return nil, repository.ErrConflict
			}
		}
	}
	applyUserUpdate(u, update)
	u.UpdatedAt = utils.GetCurrentTime()
	return cloneUser(u), nil
}

func applyUserUpdate(u *model.User, update model.UserUpdate) {
	if update.FullName != nil {
		u.FullName = *update.FullName
	}
	if update.Email != nil {
		u.Email = *update.Email
	}
	if update.Avatar != nil {
		u.Avatar = *update.Avatar
	}
	if update.AvatarPublicID != nil {
		u.AvatarPublicID = *update.AvatarPublicID
	}
	if update.CoverImage != nil {
		u.CoverImage = *update.CoverImage
	}
	if update.CoverImagePublicID != nil {
		u.CoverImagePublicID = *update.CoverImagePublicID
	}
	if update.Password != nil {
		u.Password = *update.Password
	}
}

func (r *UserMemoryRepository) SetRefreshToken(_ context.Context, id, token string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.RefreshToken = token
	return nil
}

func (r *UserMemoryRepository) DeleteByID(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.users, id)
	return nil
}

func (r *UserMemoryRepository) ChannelProfile(_ context.Context, username, viewerID string) (*model.ChannelProfile, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	u := r.s.userByUsername(username)
	if u == nil {
		return nil, repository.ErrNotFound
	}
	profile := &model.ChannelProfile{
		ID:         u.ID,
		Username:   u.Username,
		FullName:   u.FullName,
		Email:      u.Email,
		Avatar:     u.Avatar,
		CoverImage: u.CoverImage,
	}
	for _, sub := range r.s.subscriptions {
		if sub.Channel == u.ID {
			profile.SubscribersCount++
			if viewerID != "" && sub.Subscriber == viewerID {
				profile.IsSubscribed = true
			}
		}
		if sub.Subscriber == u.ID {
			profile.ChannelsSubscribedToCount++
		}
	}
	return profile, nil
}

func (r *UserMemoryRepository) WatchHistory(_ context.Context, userID string) ([]model.WatchedVideo, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	u, ok := r.s.users[userID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	history := make([]model.WatchedVideo, 0, len(u.WatchHistory))
	for _, videoID := range u.WatchHistory {
		v, ok := r.s.videos[videoID]
		if !ok {
			continue
		}
		item := model.WatchedVideo{
			ID:          v.ID,
			VideoFile:   v.VideoFile,
			Thumbnail:   v.Thumbnail,
			Title:       v.Title,
			Description: v.Description,
			Views:       v.Views,
			CreatedAt:   v.CreatedAt,
		}
		if owner, ok := r.s.users[v.Owner]; ok {
			item.Owner = owner.Summary()
		}
		history = append(history, item)
	}
	return history, nil
}

func (r *UserMemoryRepository) PushWatchHistory(_ context.Context, userID, videoID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[userID]
	if !ok {
		return repository.ErrNotFound
	}
	u.WatchHistory = prependUnique(u.WatchHistory, videoID)
	return nil
}

// prependUnique moves id to the front of ids, dropping any earlier occurrence.
func prependUnique(ids []string, id string) []string {
	out := make([]string, 0, len(ids)+1)
	out = append(out, id)
	for _, existing := range ids {
		if existing != id {
			out = append(out, existing)
		}
	}
	return out
}

func (s *MemoryStore) userByUsername(username string) *model.User {
	for _, u := range s.users {
		if u.Username == username {
			return u
		}
	}
	return nil
}

type SubscriptionMemoryRepository struct{ s *MemoryStore }

func NewSubscriptionMemoryRepository(s *MemoryStore) repository.ISubscription {
	return &SubscriptionMemoryRepository{s: s}
}

func (r *SubscriptionMemoryRepository) Find(_ context.Context, subscriberID, channelID string) (*model.Subscription, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, sub := range r.s.subscriptions {
		if sub.Subscriber == subscriberID && sub.Channel == channelID {
			c := *sub
			return &c, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *SubscriptionMemoryRepository) Create(_ context.Context, sub *model.Subscription) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.subscriptions {
		if existing.Subscriber == sub.Subscriber && existing.Channel == sub.Channel {
			return repository.ErrConflict
		}
	}
	c := *sub
	r.s.subscriptions[sub.ID] = &c
	return nil
}

func (r *SubscriptionMemoryRepository) Delete(_ context.Context, id string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.subscriptions[id]; !ok {
		return false, nil
	}
	delete(r.s.subscriptions, id)
	return true, nil
}

func (r *SubscriptionMemoryRepository) ListSubscribers(_ context.Context, channelID string) ([]model.SubscriberEntry, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	edges := r.s.edges(func(sub *model.Subscription) bool { return sub.Channel == channelID })
	out := make([]model.SubscriberEntry, 0, len(edges))
	for _, sub := range edges {
		if u, ok := r.s.users[sub.Subscriber]; ok {
			out = append(out, model.SubscriberEntry{Subscriber: u.Summary(), SubscribedAt: sub.CreatedAt})
		}
	}
	return out, nil
}

func (r *SubscriptionMemoryRepository) ListSubscriptions(_ context.Context, subscriberID string) ([]model.SubscribedChannel, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	edges := r.s.edges(func(sub *model.Subscription) bool { return sub.Subscriber == subscriberID })
	out := make([]model.SubscribedChannel, 0, len(edges))
	for _, sub := range edges {
		if u, ok := r.s.users[sub.Channel]; ok {
			out = append(out, model.SubscribedChannel{Channel: u.Summary(), SubscribedAt: sub.CreatedAt})
		}
	}
	return out, nil
}

// edges returns matching subscriptions oldest first. Callers hold the lock.
func (s *MemoryStore) edges(match func(*model.Subscription) bool) []*model.Subscription {
	var out []*model.Subscription
	for _, sub := range s.subscriptions {
		if match(sub) {
			out = append(out, sub)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

type TweetMemoryRepository struct{ s *MemoryStore }

func NewTweetMemoryRepository(s *MemoryStore) repository.ITweet {
	return &TweetMemoryRepository{s: s}
}

func (r *TweetMemoryRepository) Create(_ context.Context, tweet *model.Tweet) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c := *tweet
	r.s.tweets[tweet.ID] = &c
	return nil
}

func (r *TweetMemoryRepository) FindByID(_ context.Context, id string) (*model.Tweet, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	t, ok := r.s.tweets[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	c := *t
	return &c, nil
}

func (r *TweetMemoryRepository) UpdateContent(_ context.Context, id, content string) (*model.Tweet, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t, ok := r.s.tweets[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	t.Content = content
	t.UpdatedAt = utils.GetCurrentTime()
	c := *t
	return &c, nil
}

func (r *TweetMemoryRepository) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.tweets[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.tweets, id)
	return nil
}

func (r *TweetMemoryRepository) ListByOwnerWithOwner(_ context.Context, ownerID string) ([]model.TweetWithOwner, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	owner, ok := r.s.users[ownerID]
	if !ok {
		return []model.TweetWithOwner{}, nil
	}
	sanitized := cloneUser(owner).Sanitized()
	out := []model.TweetWithOwner{}
	for _, t := range r.s.tweets {
		if t.Owner != ownerID {
			continue
		}
		out = append(out, model.TweetWithOwner{
			ID:        t.ID,
			Content:   t.Content,
			Owner:     sanitized,
			CreatedAt: t.CreatedAt,
			UpdatedAt: t.UpdatedAt,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

type VideoMemoryRepository struct{ s *MemoryStore }

func NewVideoMemoryRepository(s *MemoryStore) repository.IVideo {
	return &VideoMemoryRepository{s: s}
}

func (r *VideoMemoryRepository) Create(_ context.Context, video *model.Video) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c := *video
	r.s.videos[video.ID] = &c
	return nil
}

func (r *VideoMemoryRepository) FindByID(_ context.Context, id string) (*model.Video, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	v, ok := r.s.videos[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	c := *v
	return &c, nil
}

func (r *VideoMemoryRepository) IncrementViews(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	v, ok := r.s.videos[id]
	if !ok {
		return repository.ErrNotFound
	}
	v.Views++
	return nil
}
