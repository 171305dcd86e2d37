package persistence

import (
	"context"
	"database/sql"

	"streamhub/domain/model"
	"streamhub/domain/repository"
	"streamhub/infrastructure/utils"
)

type TweetPostgresRepository struct {
	db *sql.DB
}

func NewTweetPostgresRepository(db *sql.DB) repository.ITweet {
	return &TweetPostgresRepository{db: db}
}

func scanTweet(row rowScanner) (*model.Tweet, error) {
	var t model.Tweet
	if err := row.Scan(&t.ID, &t.Content, &t.Owner, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, pqErr(err)
	}
	return &t, nil
}

func (r *TweetPostgresRepository) Create(ctx context.Context, tweet *model.Tweet) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO tweets (id, content, owner_id, created_at, updated_at) VALUES ($1, $2, $3, $4, $5)`,
		tweet.ID, tweet.Content, tweet.Owner, tweet.CreatedAt, tweet.UpdatedAt)
	return pqErr(err)
}

func (r *TweetPostgresRepository) FindByID(ctx context.Context, id string) (*model.Tweet, error) {
	return scanTweet(r.db.QueryRowContext(ctx, `SELECT id, content, owner_id, created_at, updated_at FROM tweets WHERE id = $1`, id))
}

func (r *TweetPostgresRepository) UpdateContent(ctx context.Context, id, content string) (*model.Tweet, error) {
	return scanTweet(r.db.QueryRowContext(ctx, `UPDATE tweets SET content = $1, updated_at = $2 WHERE id = $3
	RETURNING id, content, owner_id, created_at, updated_at`, content, utils.GetCurrentTime(), id))
}

func (r *TweetPostgresRepository) Delete(ctx context.Context, id string) error {
	return affected(r.db.ExecContext(ctx, `DELETE FROM tweets WHERE id = $1`, id))
}

// ListByOwnerWithOwner joins the owner without its credential columns.
func (r *TweetPostgresRepository) ListByOwnerWithOwner(ctx context.Context, ownerID string) ([]model.TweetWithOwner, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT t.id, t.content, t.created_at, t.updated_at,
	u.id, u.username, u.email, u.full_name, u.avatar, u.cover_image, u.created_at, u.updated_at
	FROM tweets AS t
	JOIN users AS u ON u.id = t.owner_id
	WHERE t.owner_id = $1
	ORDER BY t.created_at, t.id`, ownerID)
	if err != nil {
		return nil, pqErr(err)
	}
	defer rows.Close()

	out := []model.TweetWithOwner{}
	for rows.Next() {
		var t model.TweetWithOwner
		o := &t.Owner
		if err := rows.Scan(&t.ID, &t.Content, &t.CreatedAt, &t.UpdatedAt,
			&o.ID, &o.Username, &o.Email, &o.FullName, &o.Avatar, &o.CoverImage, &o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
