package usecase

import (
	"context"
	"strings"

	"streamhub/domain/apperror"
	"streamhub/domain/dto"
	"streamhub/domain/model"
	"streamhub/domain/repository"
	"streamhub/infrastructure/logger"
	"streamhub/infrastructure/utils"

	"github.com/google/uuid"
)

type IVideoUsecase interface {
	Publish(ctx context.Context, ownerID string, req dto.ReqPublishVideo, files dto.PublishFiles) (*model.Video, error)
	Get(ctx context.Context, videoID string) (*model.Video, error)
	// Watch counts a view and moves the video to the front of the viewer's history.
	Watch(ctx context.Context, userID, videoID string) (*model.Video, error)
}

type VideoUsecase struct {
	userRepository  repository.IUser
	videoRepository repository.IVideo
	blobStore       repository.IBlobStore
}

func NewVideoUsecase(userRepository repository.IUser, videoRepository repository.IVideo, blobStore repository.IBlobStore) IVideoUsecase {
	return &VideoUsecase{userRepository: userRepository, videoRepository: videoRepository, blobStore: blobStore}
}

func (u *VideoUsecase) Publish(ctx context.Context, ownerID string, req dto.ReqPublishVideo, files dto.PublishFiles) (*model.Video, error) {
	title := strings.TrimSpace(req.Title)
	description := strings.TrimSpace(req.Description)
	if title == "" || description == "" {
		return nil, apperror.Validation("Title and description are required")
	}
	if files.VideoPath == "" || files.ThumbnailPath == "" {
		return nil, apperror.Validation("Video file and thumbnail are required")
	}

	videoFile, err := u.blobStore.Upload(ctx, files.VideoPath)
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("Error while upload video file")
		return nil, apperror.UploadFailed("Failed to upload video file", err)
	}
	thumbnail, err := u.blobStore.Upload(ctx, files.ThumbnailPath)
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("Error while upload thumbnail")
		u.discard(ctx, videoFile.PublicID)
		return nil, apperror.UploadFailed("Failed to upload thumbnail", err)
	}

	now := utils.GetCurrentTime()
	video := &model.Video{
		ID:                uuid.NewString(),
		VideoFile:         videoFile.URL,
		VideoPublicID:     videoFile.PublicID,
		Thumbnail:         thumbnail.URL,
		ThumbnailPublicID: thumbnail.PublicID,
		Title:             title,
		Description:       description,
		IsPublished:       true,
		Owner:             ownerID,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := u.videoRepository.Create(ctx, video); err != nil {
		u.discard(ctx, videoFile.PublicID, thumbnail.PublicID)
		return nil, storeError(err, "")
	}
	return video, nil
}

func (u *VideoUsecase) Get(ctx context.Context, videoID string) (*model.Video, error) {
	if err := validateID(videoID, "video id"); err != nil {
		return nil, err
	}
	video, err := u.videoRepository.FindByID(ctx, videoID)
	if err != nil {
		return nil, storeError(err, "Video not found")
	}
	return video, nil
}

func (u *VideoUsecase) Watch(ctx context.Context, userID, videoID string) (*model.Video, error) {
	if _, err := u.Get(ctx, videoID); err != nil {
		return nil, err
	}
	if err := u.videoRepository.IncrementViews(ctx, videoID); err != nil {
		return nil, storeError(err, "Video not found")
	}
	if err := u.userRepository.PushWatchHistory(ctx, userID, videoID); err != nil {
		return nil, storeError(err, "User does not exist")
	}
	return u.Get(ctx, videoID)
}

func (u *VideoUsecase) discard(ctx context.Context, publicIDs ...string) {
	for _, id := range publicIDs {
		if err := u.blobStore.Delete(ctx, id); err != nil {
			logger.GetLogger().WithField("error", err).WithField("public_id", id).Warn("Error while delete blob")
		}
	}
}
