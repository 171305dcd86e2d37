package server

import (
	"time"

	httpHandler "streamhub/interfaces/http"
	"streamhub/interfaces/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var defaultOrigins = []string{"http://localhost:3000", "http://localhost:5173"}

func InitiateRouter(
	userHandler httpHandler.IUserHandler,
	subscriptionHandler httpHandler.ISubscriptionHandler,
	tweetHandler httpHandler.ITweetHandler,
	videoHandler httpHandler.IVideoHandler,
	healthHandler httpHandler.IHealthHandler,
	auth gin.HandlerFunc,
	rateLimiter *middleware.RateLimiter,
	corsOrigins []string,
) *gin.Engine {
	if len(corsOrigins) == 0 {
		corsOrigins = defaultOrigins
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     corsOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/healthz", healthHandler.Healthz)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")

	users := v1.Group("/users")
	{
		limited := users.Group("")
		limited.Use(rateLimiter.Middleware())
		limited.POST("/register", userHandler.Register)
		limited.POST("/login", userHandler.Login)
		limited.POST("/refresh-token", userHandler.RefreshAccessToken)

		secured := users.Group("")
		secured.Use(auth)
		secured.POST("/logout", userHandler.Logout)
		secured.POST("/change-password", userHandler.ChangePassword)
		secured.GET("/current-user", userHandler.CurrentUser)
		secured.PATCH("/update-account-details", userHandler.UpdateAccount)
		secured.PATCH("/avatar-update", userHandler.UpdateAvatar)
		secured.PATCH("/cover-image-update", userHandler.UpdateCoverImage)
		secured.GET("/c/:username", userHandler.ChannelProfile)
		secured.GET("/watch-history", userHandler.WatchHistory)
	}

	subscriptions := v1.Group("/subscriptions")
	subscriptions.Use(auth)
	{
		subscriptions.POST("/c/:channelId", subscriptionHandler.ToggleSubscription)
		subscriptions.GET("/c/:channelId", subscriptionHandler.ListChannelSubscribers)
		subscriptions.GET("/u/:subscriberId", subscriptionHandler.ListSubscribedChannels)
	}

	tweets := v1.Group("/tweets")
	tweets.Use(auth)
	{
		tweets.POST("", tweetHandler.CreateTweet)
		tweets.GET("/user/:userId", tweetHandler.GetUserTweets)
		tweets.PATCH("/:tweetId", tweetHandler.UpdateTweet)
		tweets.DELETE("/:tweetId", tweetHandler.DeleteTweet)
	}

	videos := v1.Group("/videos")
	videos.Use(auth)
	{
		videos.POST("", videoHandler.PublishVideo)
		videos.GET("/:videoId", videoHandler.GetVideo)
		videos.POST("/:videoId/watch", videoHandler.WatchVideo)
	}

	return router
}
