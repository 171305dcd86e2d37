package http

import (
	"net/http"

	"streamhub/domain/apperror"
	"streamhub/domain/dto"
	"streamhub/interfaces/middleware"
	"streamhub/usecase"

	"github.com/gin-gonic/gin"
)

type ITweetHandler interface {
	CreateTweet(c *gin.Context)
	GetUserTweets(c *gin.Context)
	UpdateTweet(c *gin.Context)
	DeleteTweet(c *gin.Context)
}

type TweetHandler struct {
	tweetUsecase usecase.ITweetUsecase
}

func NewTweetHandler(tweetUsecase usecase.ITweetUsecase) ITweetHandler {
	return &TweetHandler{tweetUsecase: tweetUsecase}
}

func (h *TweetHandler) CreateTweet(c *gin.Context) {
	var req dto.ReqTweet
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperror.Validation("Invalid request body"))
		return
	}
	tweet, err := h.tweetUsecase.Create(c.Request.Context(), c.GetString(middleware.ContextUserIDKey), req.Content)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusCreated, tweet, "Tweet created successfully")
}

func (h *TweetHandler) GetUserTweets(c *gin.Context) {
	tweets, err := h.tweetUsecase.ListByOwner(c.Request.Context(), c.Param("userId"))
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, tweets, "Tweets fetched successfully")
}

func (h *TweetHandler) UpdateTweet(c *gin.Context) {
	var req dto.ReqTweet
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperror.Validation("Invalid request body"))
		return
	}
	tweet, err := h.tweetUsecase.Update(c.Request.Context(), c.GetString(middleware.ContextUserIDKey), c.Param("tweetId"), req.Content)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, tweet, "Tweet updated successfully")
}

func (h *TweetHandler) DeleteTweet(c *gin.Context) {
	if err := h.tweetUsecase.Delete(c.Request.Context(), c.GetString(middleware.ContextUserIDKey), c.Param("tweetId")); err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{}, "Tweet deleted successfully")
}
