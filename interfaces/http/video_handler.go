package http

import (
	"net/http"

	"streamhub/domain/apperror"
	"streamhub/domain/dto"
	"streamhub/interfaces/middleware"
	"streamhub/usecase"

	"github.com/gin-gonic/gin"
)

type IVideoHandler interface {
	PublishVideo(c *gin.Context)
	GetVideo(c *gin.Context)
	WatchVideo(c *gin.Context)
}

type VideoHandler struct {
	videoUsecase usecase.IVideoUsecase
	uploadDir    string
}

func NewVideoHandler(videoUsecase usecase.IVideoUsecase, uploadDir string) IVideoHandler {
	return &VideoHandler{videoUsecase: videoUsecase, uploadDir: uploadDir}
}

func (h *VideoHandler) PublishVideo(c *gin.Context) {
	var req dto.ReqPublishVideo
	if err := c.ShouldBind(&req); err != nil {
		respondError(c, apperror.Validation("Invalid video form"))
		return
	}

	files := newTempFiles(h.uploadDir)
	defer files.Cleanup()

	videoPath, err := files.Save(c, "videoFile", true)
	if err != nil {
		respondError(c, err)
		return
	}
	thumbnailPath, err := files.Save(c, "thumbnail", true)
	if err != nil {
		respondError(c, err)
		return
	}

	video, err := h.videoUsecase.Publish(c.Request.Context(), c.GetString(middleware.ContextUserIDKey), req,
		dto.PublishFiles{VideoPath: videoPath, ThumbnailPath: thumbnailPath})
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusCreated, video, "Video published successfully")
}

func (h *VideoHandler) GetVideo(c *gin.Context) {
	video, err := h.videoUsecase.Get(c.Request.Context(), c.Param("videoId"))
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, video, "Video fetched successfully")
}

func (h *VideoHandler) WatchVideo(c *gin.Context) {
	video, err := h.videoUsecase.Watch(c.Request.Context(), c.GetString(middleware.ContextUserIDKey), c.Param("videoId"))
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, video, "Video view recorded")
}
