package persistence

import (
	"context"
	"database/sql"

	"streamhub/domain/model"
	"streamhub/domain/repository"
)

type SubscriptionPostgresRepository struct {
	db *sql.DB
}

func NewSubscriptionPostgresRepository(db *sql.DB) repository.ISubscription {
	return &SubscriptionPostgresRepository{db: db}
}

func (r *SubscriptionPostgresRepository) Find(ctx context.Context, subscriberID, channelID string) (*model.Subscription, error) {
	var sub model.Subscription
	err := r.db.QueryRowContext(ctx, `SELECT id, subscriber_id, channel_id, created_at, updated_at
	FROM subscriptions
	WHERE subscriber_id = $1 AND channel_id = $2`, subscriberID, channelID).
		Scan(&sub.ID, &sub.Subscriber, &sub.Channel, &sub.CreatedAt, &sub.UpdatedAt)
	if err != nil {
		return nil, pqErr(err)
	}
	return &sub, nil
}

// Create relies on UNIQUE (subscriber_id, channel_id).
func (r *SubscriptionPostgresRepository) Create(ctx context.Context, sub *model.Subscription) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO subscriptions (id, subscriber_id, channel_id, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5)`, sub.ID, sub.Subscriber, sub.Channel, sub.CreatedAt, sub.UpdatedAt)
	return pqErr(err)
}

func (r *SubscriptionPostgresRepository) Delete(ctx context.Context, id string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM subscriptions WHERE id = $1`, id)
	if err != nil {
		return false, pqErr(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *SubscriptionPostgresRepository) ListSubscribers(ctx context.Context, channelID string) ([]model.SubscriberEntry, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT u.id, u.username, u.full_name, u.avatar, s.created_at
	FROM subscriptions AS s
	JOIN users AS u ON u.id = s.subscriber_id
	WHERE s.channel_id = $1
	ORDER BY s.created_at, s.id`, channelID)
	if err != nil {
		return nil, pqErr(err)
	}
	defer rows.Close()

	out := []model.SubscriberEntry{}
	for rows.Next() {
		var e model.SubscriberEntry
		if err := rows.Scan(&e.Subscriber.ID, &e.Subscriber.Username, &e.Subscriber.FullName, &e.Subscriber.Avatar, &e.SubscribedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *SubscriptionPostgresRepository) ListSubscriptions(ctx context.Context, subscriberID string) ([]model.SubscribedChannel, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT u.id, u.username, u.full_name, u.avatar, s.created_at
	FROM subscriptions AS s
	JOIN users AS u ON u.id = s.channel_id
	WHERE s.subscriber_id = $1
	ORDER BY s.created_at, s.id`, subscriberID)
	if err != nil {
		return nil, pqErr(err)
	}
	defer rows.Close()

	out := []model.SubscribedChannel{}
	for rows.Next() {
		var e model.SubscribedChannel
		if err := rows.Scan(&e.Channel.ID, &e.Channel.Username, &e.Channel.FullName, &e.Channel.Avatar, &e.SubscribedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
