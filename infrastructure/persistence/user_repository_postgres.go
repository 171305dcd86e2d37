package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"streamhub/domain/model"
	"streamhub/domain/repository"
	"streamhub/infrastructure/logger"
	"streamhub/infrastructure/utils"

	"github.com/lib/pq"
)

const userColumns = `u.id, u.username, u.email, u.full_name, u.avatar, u.avatar_public_id, u.cover_image, u.cover_image_public_id,
	u.password, COALESCE(u.refresh_token, ''),
	COALESCE((SELECT array_agg(w.video_id ORDER BY w.watched_at DESC) FROM watch_history AS w WHERE w.user_id = u.id), '{}'),
	u.created_at, u.updated_at`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanUser(row rowScanner) (*model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.FullName, &u.Avatar, &u.AvatarPublicID, &u.CoverImage,
		&u.CoverImagePublicID, &u.Password, &u.RefreshToken, pq.Array(&u.WatchHistory), &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, pqErr(err)
	}
	return &u, nil
}

type UserPostgresRepository struct {
	db *sql.DB
}

func NewUserPostgresRepository(db *sql.DB) repository.IUser {
	return &UserPostgresRepository{db: db}
}

func (r *UserPostgresRepository) Create(ctx context.Context, user *model.User) error {
	stmt, err := r.db.PrepareContext(ctx, `INSERT INTO users (id, username, email, full_name, avatar, avatar_public_id, cover_image,
	cover_image_public_id, password, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`)
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("Error while prepare statement")
		return err
	}
	defer stmt.Close()

	_, err = stmt.ExecContext(ctx, user.ID, user.Username, user.Email, user.FullName, user.Avatar, user.AvatarPublicID,
		user.CoverImage, user.CoverImagePublicID, user.Password, user.CreatedAt, user.UpdatedAt)
	return pqErr(err)
}

func (r *UserPostgresRepository) findOne(ctx context.Context, where string, args ...interface{}) (*model.User, error) {
	stmt, err := r.db.PrepareContext(ctx, `SELECT `+userColumns+`
	FROM users AS u
	WHERE `+where)
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("Error while prepare statement")
		return nil, err
	}
	defer stmt.Close()
	return scanUser(stmt.QueryRowContext(ctx, args...))
}

func (r *UserPostgresRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	return r.findOne(ctx, `u.id = $1`, id)
}

func (r *UserPostgresRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	return r.findOne(ctx, `u.username = $1`, username)
}

func (r *UserPostgresRepository) FindByUsernameOrEmail(ctx context.Context, username, email string) (*model.User, error) {
	if username == "" && email == "" {
		return nil, repository.ErrNotFound
	}
	return r.findOne(ctx, `($1 <> '' AND u.username = $1) OR ($2 <> '' AND u.email = $2) LIMIT 1`, username, email)
}

func (r *UserPostgresRepository) UpdateFields(ctx context.Context, id string, update model.UserUpdate) (*model.User, error) {
	sets := []string{"updated_at = $1"}
	args := []interface{}{utils.GetCurrentTime()}
	add := func(column string, value *string) {
		if value != nil {
			args = append(args, *value)
			sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
		}
	}
	add("full_name", update.FullName)
	add("email", update.Email)
	add("avatar", update.Avatar)
	add("avatar_public_id", update.AvatarPublicID)
	add("cover_image", update.CoverImage)
	add("cover_image_public_id", update.CoverImagePublicID)
	add("password", update.Password)
	args = append(args, id)

	q := fmt.Sprintf(`UPDATE users AS u SET %s WHERE u.id = $%d RETURNING %s`, strings.Join(sets, ", "), len(args), userColumns)
	return scanUser(r.db.QueryRowContext(ctx, q, args...))
}

func (r *UserPostgresRepository) SetRefreshToken(ctx context.Context, id, token string) error {
	return affected(r.db.ExecContext(ctx, `UPDATE users SET refresh_token = NULLIF($1, '') WHERE id = $2`, token, id))
}

func (r *UserPostgresRepository) DeleteByID(ctx context.Context, id string) error {
	return affected(r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id))
}

// ChannelProfile reads the counts and the viewer flag in one statement, so they share a snapshot.
func (r *UserPostgresRepository) ChannelProfile(ctx context.Context, username, viewerID string) (*model.ChannelProfile, error) {
	row := r.db.QueryRowContext(ctx, `SELECT u.id, u.username, u.full_name, u.email, u.avatar, u.cover_image,
	(SELECT COUNT(*) FROM subscriptions AS s WHERE s.channel_id = u.id),
	(SELECT COUNT(*) FROM subscriptions AS s WHERE s.subscriber_id = u.id),
	EXISTS (SELECT 1 FROM subscriptions AS s WHERE s.channel_id = u.id AND s.subscriber_id = $2)
	FROM users AS u
	WHERE u.username = $1`, username, viewerID)

	var p model.ChannelProfile
	err := row.Scan(&p.ID, &p.Username, &p.FullName, &p.Email, &p.Avatar, &p.CoverImage,
		&p.SubscribersCount, &p.ChannelsSubscribedToCount, &p.IsSubscribed)
	if err != nil {
		return nil, pqErr(err)
	}
	return &p, nil
}

func (r *UserPostgresRepository) WatchHistory(ctx context.Context, userID string) ([]model.WatchedVideo, error) {
	var exists bool
	if err := r.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE id = $1)`, userID).Scan(&exists); err != nil {
		return nil, pqErr(err)
	}
	if !exists {
		return nil, repository.ErrNotFound
	}

	rows, err := r.db.QueryContext(ctx, `SELECT v.id, v.video_file, v.thumbnail, v.title, v.description, v.views, v.created_at,
	COALESCE(o.id, ''), COALESCE(o.username, ''), COALESCE(o.full_name, ''), COALESCE(o.avatar, '')
	FROM watch_history AS w
	JOIN videos AS v ON v.id = w.video_id
	LEFT JOIN users AS o ON o.id = v.owner_id
	WHERE w.user_id = $1
	ORDER BY w.watched_at DESC`, userID)
	if err != nil {
		return nil, pqErr(err)
	}
	defer rows.Close()

	history := []model.WatchedVideo{}
	for rows.Next() {
		var v model.WatchedVideo
		if err := rows.Scan(&v.ID, &v.VideoFile, &v.Thumbnail, &v.Title, &v.Description, &v.Views, &v.CreatedAt,
			&v.Owner.ID, &v.Owner.Username, &v.Owner.FullName, &v.Owner.Avatar); err != nil {
			return nil, err
		}
		history = append(history, v)
	}
	return history, rows.Err()
}

// PushWatchHistory upserts the watch time; the (user_id, video_id) key keeps entries unique.
func (r *UserPostgresRepository) PushWatchHistory(ctx context.Context, userID, videoID string) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO watch_history (user_id, video_id, watched_at) VALUES ($1, $2, $3)
	ON CONFLICT (user_id, video_id) DO UPDATE SET watched_at = EXCLUDED.watched_at`, userID, videoID, utils.GetCurrentTime())
	return pqErr(err)
}
