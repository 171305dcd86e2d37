package persistence

import (
	"context"
	"database/sql"

	"streamhub/domain/model"
	"streamhub/domain/repository"
)

type VideoPostgresRepository struct {
	db *sql.DB
}

func NewVideoPostgresRepository(db *sql.DB) repository.IVideo {
	return &VideoPostgresRepository{db: db}
}

func (r *VideoPostgresRepository) Create(ctx context.Context, video *model.Video) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO videos (id, video_file, video_public_id, thumbnail, thumbnail_public_id,
	title, description, views, is_published, owner_id, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		video.ID, video.VideoFile, video.VideoPublicID, video.Thumbnail, video.ThumbnailPublicID,
		video.Title, video.Description, video.Views, video.IsPublished, video.Owner, video.CreatedAt, video.UpdatedAt)
	return pqErr(err)
}

func (r *VideoPostgresRepository) FindByID(ctx context.Context, id string) (*model.Video, error) {
	var v model.Video
	err := r.db.QueryRowContext(ctx, `SELECT id, video_file, video_public_id, thumbnail, thumbnail_public_id,
	title, description, views, is_published, owner_id, created_at, updated_at
	FROM videos WHERE id = $1`, id).
		Scan(&v.ID, &v.VideoFile, &v.VideoPublicID, &v.Thumbnail, &v.ThumbnailPublicID,
			&v.Title, &v.Description, &v.Views, &v.IsPublished, &v.Owner, &v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		return nil, pqErr(err)
	}
	return &v, nil
}

func (r *VideoPostgresRepository) IncrementViews(ctx context.Context, id string) error {
	return affected(r.db.ExecContext(ctx, `UPDATE videos SET views = views + 1 WHERE id = $1`, id))
}
