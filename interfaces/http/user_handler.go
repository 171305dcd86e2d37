package http

import (
	"net/http"
	"time"

	"streamhub/domain/apperror"
	"streamhub/domain/dto"
	"streamhub/infrastructure/configuration"
	"streamhub/infrastructure/logger"
	"streamhub/interfaces/middleware"
	"streamhub/usecase"

	"github.com/gin-gonic/gin"
)

const RefreshTokenCookie = "refreshToken"

type IUserHandler interface {
	Register(c *gin.Context)
	Login(c *gin.Context)
	Logout(c *gin.Context)
	RefreshAccessToken(c *gin.Context)
	ChangePassword(c *gin.Context)
	CurrentUser(c *gin.Context)
	UpdateAccount(c *gin.Context)
	UpdateAvatar(c *gin.Context)
	UpdateCoverImage(c *gin.Context)
	ChannelProfile(c *gin.Context)
	WatchHistory(c *gin.Context)
}

type UserHandler struct {
	userUsecase    usecase.IUserUsecase
	channelUsecase usecase.IChannelUsecase
	auth           configuration.Auth
	uploadDir      string
}

func NewUserHandler(userUsecase usecase.IUserUsecase, channelUsecase usecase.IChannelUsecase, auth configuration.Auth, uploadDir string) IUserHandler {
	return &UserHandler{userUsecase: userUsecase, channelUsecase: channelUsecase, auth: auth, uploadDir: uploadDir}
}

func (userHandler *UserHandler) Register(c *gin.Context) {
	var req dto.ReqRegister
	if err := c.ShouldBind(&req); err != nil {
		logger.GetLogger().WithField("error", err).Error(ErrorUnmarshal)
		respondError(c, apperror.Validation("Invalid registration form"))
		return
	}

	files := newTempFiles(userHandler.uploadDir)
	defer files.Cleanup()

	avatarPath, err := files.Save(c, "avatar", true)
	if err != nil {
		respondError(c, err)
		return
	}
	coverPath, err := files.Save(c, "coverImage", false)
	if err != nil {
		respondError(c, err)
		return
	}

	user, err := userHandler.userUsecase.Register(c.Request.Context(), req, dto.RegisterFiles{AvatarPath: avatarPath, CoverImagePath: coverPath})
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusCreated, user, "User registered successfully")
}

func (userHandler *UserHandler) Login(c *gin.Context) {
	var req dto.ReqLogin
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.GetLogger().WithField("error", err).Error(ErrorUnmarshal)
		respondError(c, apperror.Validation("Invalid request body"))
		return
	}

	res, err := userHandler.userUsecase.Login(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	userHandler.setAuthCookies(c, res.AccessToken, res.RefreshToken)
	respond(c, http.StatusOK, res, "User logged in successfully")
}

func (userHandler *UserHandler) Logout(c *gin.Context) {
	if err := userHandler.userUsecase.Logout(c.Request.Context(), c.GetString(middleware.ContextUserIDKey)); err != nil {
		respondError(c, err)
		return
	}
	userHandler.clearAuthCookies(c)
	respond(c, http.StatusOK, gin.H{}, "User logged out")
}

func (userHandler *UserHandler) RefreshAccessToken(c *gin.Context) {
	token, _ := c.Cookie(RefreshTokenCookie)
	if token == "" {
		var req dto.ReqRefreshToken
		if err := c.ShouldBindJSON(&req); err == nil {
			token = req.RefreshToken
		}
	}

	res, err := userHandler.userUsecase.RefreshAccessToken(c.Request.Context(), token)
	if err != nil {
		respondError(c, err)
		return
	}
	userHandler.setAuthCookies(c, res.AccessToken, res.RefreshToken)
	respond(c, http.StatusOK, res, "Access token refreshed")
}

func (userHandler *UserHandler) ChangePassword(c *gin.Context) {
	var req dto.ReqChangePassword
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperror.Validation("Invalid request body"))
		return
	}
	if err := userHandler.userUsecase.ChangePassword(c.Request.Context(), c.GetString(middleware.ContextUserIDKey), req); err != nil {
		respondError(c, err)
		return
	}
	userHandler.clearAuthCookies(c)
	respond(c, http.StatusOK, gin.H{}, "Password changed successfully")
}

func (userHandler *UserHandler) CurrentUser(c *gin.Context) {
	user, err := userHandler.userUsecase.CurrentUser(c.Request.Context(), c.GetString(middleware.ContextUserIDKey))
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, user, "User fetched successfully")
}

func (userHandler *UserHandler) UpdateAccount(c *gin.Context) {
	var req dto.ReqUpdateAccount
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperror.Validation("Invalid request body"))
		return
	}
	user, err := userHandler.userUsecase.UpdateAccount(c.Request.Context(), c.GetString(middleware.ContextUserIDKey), req)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, user, "Account details updated successfully")
}

func (userHandler *UserHandler) UpdateAvatar(c *gin.Context) {
	files := newTempFiles(userHandler.uploadDir)
	defer files.Cleanup()

	path, err := files.Save(c, "avatar", true)
	if err != nil {
		respondError(c, err)
		return
	}
	user, err := userHandler.userUsecase.UpdateAvatar(c.Request.Context(), c.GetString(middleware.ContextUserIDKey), path)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, user, "Avatar image updated successfully")
}

func (userHandler *UserHandler) UpdateCoverImage(c *gin.Context) {
	files := newTempFiles(userHandler.uploadDir)
	defer files.Cleanup()

	path, err := files.Save(c, "coverImage", true)
	if err != nil {
		respondError(c, err)
		return
	}
	user, err := userHandler.userUsecase.UpdateCoverImage(c.Request.Context(), c.GetString(middleware.ContextUserIDKey), path)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, user, "Cover image updated successfully")
}

func (userHandler *UserHandler) ChannelProfile(c *gin.Context) {
	profile, err := userHandler.channelUsecase.ChannelProfile(c.Request.Context(), c.Param("username"), c.GetString(middleware.ContextUserIDKey))
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, profile, "User channel fetched successfully")
}

func (userHandler *UserHandler) WatchHistory(c *gin.Context) {
	history, err := userHandler.channelUsecase.WatchHistory(c.Request.Context(), c.GetString(middleware.ContextUserIDKey))
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, history, "Watch history fetched successfully")
}

func (userHandler *UserHandler) setAuthCookies(c *gin.Context, accessToken, refreshToken string) {
	userHandler.setCookie(c, middleware.AccessTokenCookie, accessToken, userHandler.auth.AccessTokenExpiry)
	userHandler.setCookie(c, RefreshTokenCookie, refreshToken, userHandler.auth.RefreshTokenExpiry)
}

func (userHandler *UserHandler) clearAuthCookies(c *gin.Context) {
	userHandler.setCookie(c, middleware.AccessTokenCookie, "", -time.Second)
	userHandler.setCookie(c, RefreshTokenCookie, "", -time.Second)
}

func (userHandler *UserHandler) setCookie(c *gin.Context, name, value string, ttl time.Duration) {
	maxAge := int(ttl.Seconds())
	if ttl < 0 {
		maxAge = -1
	}
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   userHandler.auth.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}
