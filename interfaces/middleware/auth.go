package middleware

import (
	"errors"
	"strings"

	"streamhub/domain/apperror"
	"streamhub/domain/dto"
	"streamhub/domain/model"
	"streamhub/domain/repository"
	"streamhub/infrastructure/logger"
	"streamhub/usecase"

	"github.com/gin-gonic/gin"
)

const (
	// ContextUserKey holds the sanitized *model.User of the caller.
	ContextUserKey = "user"
	// ContextUserIDKey holds the caller's id.
	ContextUserIDKey = "user_id"

	AccessTokenCookie = "accessToken"
)

// Auth resolves the access token to a user. The cookie wins over the Authorization header.
func Auth(tokenUsecase usecase.ITokenUsecase, userRepository repository.IUser, userCache repository.IUserCache) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		token := extractToken(ctx)
		if token == "" {
			abort(ctx, apperror.Unauthorized("Unauthorized request"))
			return
		}

		claims, err := tokenUsecase.VerifyAccessToken(token)
		if err != nil {
			abort(ctx, err)
			return
		}

		user, err := resolveUser(ctx, userRepository, userCache, claims.UserID)
		if err != nil {
			abort(ctx, err)
			return
		}

		ctx.Set(ContextUserKey, user)
		ctx.Set(ContextUserIDKey, user.ID)
		ctx.Next()
	}
}

func extractToken(ctx *gin.Context) string {
	if cookie, err := ctx.Cookie(AccessTokenCookie); err == nil && cookie != "" {
		return cookie
	}
	authorization := ctx.GetHeader("Authorization")
	if token, ok := strings.CutPrefix(authorization, "Bearer "); ok {
		return strings.TrimSpace(token)
	}
	return ""
}

func resolveUser(ctx *gin.Context, userRepository repository.IUser, userCache repository.IUserCache, id string) (*model.User, error) {
	reqCtx := ctx.Request.Context()
	if userCache != nil {
		if user, ok := userCache.Get(reqCtx, id); ok {
			return user, nil
		}
	}
	user, err := userRepository.FindByID(reqCtx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.Unauthorized("Invalid access token")
		}
		logger.GetLogger().WithField("error", err).Error("Error while resolve user from token")
		return nil, apperror.Persistence("Something went wrong", err)
	}
	sanitized := user.Sanitized()
	if userCache != nil {
		userCache.Set(reqCtx, &sanitized)
	}
	return &sanitized, nil
}

func abort(ctx *gin.Context, err error) {
	status := apperror.HTTPStatus(err)
	ctx.AbortWithStatusJSON(status, dto.ErrRes{StatusCode: status, Message: apperror.PublicMessage(err), Success: false})
}

// CurrentUser returns the user attached by Auth.
func CurrentUser(ctx *gin.Context) (*model.User, bool) {
	value, ok := ctx.Get(ContextUserKey)
	if !ok {
		return nil, false
	}
	user, ok := value.(*model.User)
	return user, ok
}
