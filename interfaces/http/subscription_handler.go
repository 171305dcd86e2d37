package http

import (
	"net/http"

	"streamhub/domain/model"
	"streamhub/interfaces/middleware"
	"streamhub/usecase"

	"github.com/gin-gonic/gin"
)

type ISubscriptionHandler interface {
	ToggleSubscription(c *gin.Context)
	ListChannelSubscribers(c *gin.Context)
	ListSubscribedChannels(c *gin.Context)
}

type SubscriptionHandler struct {
	subscriptionUsecase usecase.ISubscriptionUsecase
}

func NewSubscriptionHandler(subscriptionUsecase usecase.ISubscriptionUsecase) ISubscriptionHandler {
	return &SubscriptionHandler{subscriptionUsecase: subscriptionUsecase}
}

func (h *SubscriptionHandler) ToggleSubscription(c *gin.Context) {
	state, err := h.subscriptionUsecase.Toggle(c.Request.Context(), c.GetString(middleware.ContextUserIDKey), c.Param("channelId"))
	if err != nil {
		respondError(c, err)
		return
	}
	message := "Subscribed successfully"
	if state == model.Unsubscribed {
		message = "Unsubscribed successfully"
	}
	respond(c, http.StatusOK, gin.H{"state": state, "subscribed": state == model.Subscribed}, message)
}

// ListChannelSubscribers lists the subscribers of :channelId.
func (h *SubscriptionHandler) ListChannelSubscribers(c *gin.Context) {
	subscribers, err := h.subscriptionUsecase.ListSubscribers(c.Request.Context(), c.Param("channelId"))
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, subscribers, "Subscribers fetched successfully")
}

// ListSubscribedChannels lists the channels :subscriberId subscribes to.
func (h *SubscriptionHandler) ListSubscribedChannels(c *gin.Context) {
	channels, err := h.subscriptionUsecase.ListSubscriptions(c.Request.Context(), c.Param("subscriberId"))
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, channels, "Subscribed channels fetched successfully")
}
