package usecase

import (
	"context"
	"errors"

	"streamhub/domain/apperror"
	"streamhub/domain/model"
	"streamhub/domain/repository"
	"streamhub/infrastructure/configuration"
	"streamhub/infrastructure/logger"
	"streamhub/infrastructure/metrics"
	"streamhub/infrastructure/utils"

	"github.com/golang-jwt/jwt"
	"github.com/google/uuid"
)

// ITokenUsecase mints, verifies and revokes access and refresh tokens.
type ITokenUsecase interface {
	// IssueTokenPair signs a new pair and stores the refresh token on the user, replacing any previous one.
	IssueTokenPair(ctx context.Context, userID string) (*model.TokenPair, error)
	VerifyAccessToken(token string) (*model.UserClaims, error)
	// VerifyRefreshToken checks signature and expiry only. Callers must compare against the stored value.
	VerifyRefreshToken(token string) (*model.UserClaims, error)
	Revoke(ctx context.Context, userID string) error
}

type tokenUsecase struct {
	userRepository repository.IUser
	auth           configuration.Auth
}

func NewTokenUsecase(userRepository repository.IUser, auth configuration.Auth) ITokenUsecase {
	return &tokenUsecase{userRepository: userRepository, auth: auth}
}

func (u *tokenUsecase) IssueTokenPair(ctx context.Context, userID string) (*model.TokenPair, error) {
	user, err := u.userRepository.FindByID(ctx, userID)
	if err != nil {
		logger.GetLogger().WithField("error", err).WithField("user_id", userID).Error("Error while load user for token issue")
		return nil, apperror.Persistence("Something went wrong while generating tokens", err)
	}

	now := utils.GetCurrentTime()
	access := model.UserClaims{
		StandardClaims: jwt.StandardClaims{
			Subject:   user.ID,
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(u.auth.AccessTokenExpiry).Unix(),
		},
		UserID:   user.ID,
		Email:    user.Email,
		UserName: user.Username,
		FullName: user.FullName,
		Type:     model.AccessToken,
	}
	refresh := model.UserClaims{
		StandardClaims: jwt.StandardClaims{
			Id:        uuid.NewString(),
			Subject:   user.ID,
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(u.auth.RefreshTokenExpiry).Unix(),
		},
		UserID: user.ID,
		Type:   model.RefreshToken,
	}

	accessToken, err := utils.GenerateToken(access, u.auth.AccessTokenSecret)
	if err != nil {
		return nil, apperror.Wrap(apperror.KindInternal, "Something went wrong while generating tokens", err)
	}
	refreshToken, err := utils.GenerateToken(refresh, u.auth.RefreshTokenSecret)
	if err != nil {
		return nil, apperror.Wrap(apperror.KindInternal, "Something went wrong while generating tokens", err)
	}

	if err := u.userRepository.SetRefreshToken(ctx, user.ID, refreshToken); err != nil {
		logger.GetLogger().WithField("error", err).WithField("user_id", userID).Error("Error while store refresh token")
		return nil, apperror.Persistence("Something went wrong while generating tokens", err)
	}

	return &model.TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

func (u *tokenUsecase) VerifyAccessToken(token string) (*model.UserClaims, error) {
	return u.verify(token, u.auth.AccessTokenSecret, model.AccessToken)
}

func (u *tokenUsecase) VerifyRefreshToken(token string) (*model.UserClaims, error) {
	return u.verify(token, u.auth.RefreshTokenSecret, model.RefreshToken)
}

func (u *tokenUsecase) verify(token, secret string, typ model.TokenType) (*model.UserClaims, error) {
	var claims model.UserClaims
	err := utils.ParseToken(token, secret, &claims)
	switch {
	case errors.Is(err, utils.ErrTokenExpired):
		metrics.TokenVerifications.WithLabelValues(string(typ), "expired").Inc()
		return nil, apperror.TokenExpired(string(typ) + " token expired")
	case err != nil:
		metrics.TokenVerifications.WithLabelValues(string(typ), "invalid").Inc()
		return nil, apperror.Wrap(apperror.KindTokenInvalid, "Invalid "+string(typ)+" token", err)
	}
	if claims.Type != typ || claims.UserID == "" {
		metrics.TokenVerifications.WithLabelValues(string(typ), "invalid").Inc()
		return nil, apperror.TokenInvalid("Invalid " + string(typ) + " token")
	}
	metrics.TokenVerifications.WithLabelValues(string(typ), "ok").Inc()
	return &claims, nil
}

func (u *tokenUsecase) Revoke(ctx context.Context, userID string) error {
	if err := u.userRepository.SetRefreshToken(ctx, userID, ""); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperror.NotFound("User does not exist")
		}
		logger.GetLogger().WithField("error", err).WithField("user_id", userID).Error("Error while revoke refresh token")
		return apperror.Persistence("Something went wrong while revoking session", err)
	}
	return nil
}
