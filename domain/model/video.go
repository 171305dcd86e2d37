package model

import "time"

type Video struct {
	ID                string    `json:"_id"         bson:"_id"`
	VideoFile         string    `json:"videoFile"   bson:"videoFile"`
	VideoPublicID     string    `json:"-"           bson:"videoPublicId"`
	Thumbnail         string    `json:"thumbnail"   bson:"thumbnail"`
	ThumbnailPublicID string    `json:"-"           bson:"thumbnailPublicId"`
	Title             string    `json:"title"       bson:"title"`
	Description       string    `json:"description" bson:"description"`
	Views             int64     `json:"views"       bson:"views"`
	IsPublished       bool      `json:"isPublished" bson:"isPublished"`
	Owner             string    `json:"owner"       bson:"owner"`
	CreatedAt         time.Time `json:"createdAt"   bson:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"   bson:"updatedAt"`
}

// WatchedVideo is a watch-history entry with the owner reduced to its public subset.
type WatchedVideo struct {
	ID          string      `json:"_id"         bson:"_id"`
	VideoFile   string      `json:"videoFile"   bson:"videoFile"`
	Thumbnail   string      `json:"thumbnail"   bson:"thumbnail"`
	Title       string      `json:"title"       bson:"title"`
	Description string      `json:"description" bson:"description"`
	Views       int64       `json:"views"       bson:"views"`
	Owner       UserSummary `json:"owner"       bson:"owner"`
	CreatedAt   time.Time   `json:"createdAt"   bson:"createdAt"`
}

// UploadedAsset is what the blob store returns for a stored file.
type UploadedAsset struct {
	URL      string `json:"url"`
	PublicID string `json:"publicId"`
}
