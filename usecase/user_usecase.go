package usecase

import (
	"context"
	"errors"
	"strings"

	"streamhub/domain/apperror"
	"streamhub/domain/dto"
	"streamhub/domain/model"
	"streamhub/domain/repository"
	"streamhub/infrastructure/logger"
	"streamhub/infrastructure/metrics"
	"streamhub/infrastructure/utils"

	"github.com/google/uuid"
)

type IUserUsecase interface {
	Register(ctx context.Context, req dto.ReqRegister, files dto.RegisterFiles) (*model.User, error)
	Login(ctx context.Context, req dto.ReqLogin) (*dto.ResLogin, error)
	Logout(ctx context.Context, userID string) error
	RefreshAccessToken(ctx context.Context, refreshToken string) (*dto.ResLogin, error)
	ChangePassword(ctx context.Context, userID string, req dto.ReqChangePassword) error
	CurrentUser(ctx context.Context, userID string) (*model.User, error)
	UpdateAccount(ctx context.Context, userID string, req dto.ReqUpdateAccount) (*model.User, error)
	UpdateAvatar(ctx context.Context, userID, localPath string) (*model.User, error)
	UpdateCoverImage(ctx context.Context, userID, localPath string) (*model.User, error)
}

type UserUsecase struct {
	userRepository repository.IUser
	tokenUsecase   ITokenUsecase
	blobStore      repository.IBlobStore
	userCache      repository.IUserCache
	publisher      repository.IEventPublisher
}

// NewUserUsecase wires the account operations. userCache and publisher may be nil.
func NewUserUsecase(
	userRepository repository.IUser,
	tokenUsecase ITokenUsecase,
	blobStore repository.IBlobStore,
	userCache repository.IUserCache,
	publisher repository.IEventPublisher,
) IUserUsecase {
	if userCache == nil {
		userCache = noopUserCache{}
	}
	if publisher == nil {
		publisher = noopPublisher{}
	}
	return &UserUsecase{
		userRepository: userRepository,
		tokenUsecase:   tokenUsecase,
		blobStore:      blobStore,
		userCache:      userCache,
		publisher:      publisher,
	}
}

func (u *UserUsecase) Register(ctx context.Context, req dto.ReqRegister, files dto.RegisterFiles) (*model.User, error) {
	fullName := strings.TrimSpace(req.FullName)
	email := strings.ToLower(strings.TrimSpace(req.Email))
	username := strings.ToLower(strings.TrimSpace(req.Username))
	if fullName == "" || email == "" || username == "" || strings.TrimSpace(req.Password) == "" {
		return nil, apperror.Validation("All fields are required")
	}
	if len(req.Password) > utils.MaxPasswordBytes {
		return nil, errPasswordTooLong
	}
	if files.AvatarPath == "" {
		return nil, apperror.Validation("Avatar file is required")
	}

	existing, err := u.userRepository.FindByUsernameOrEmail(ctx, username, email)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, storeError(err, "")
	}
	if existing != nil {
		return nil, apperror.Conflict("User with email or username already exists")
	}

	avatar, err := u.blobStore.Upload(ctx, files.AvatarPath)
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("Error while upload avatar")
		return nil, apperror.UploadFailed("Failed to upload avatar", err)
	}
	uploaded := []string{avatar.PublicID}

	var cover model.UploadedAsset
	if files.CoverImagePath != "" {
		c, err := u.blobStore.Upload(ctx, files.CoverImagePath)
		if err != nil {
			logger.GetLogger().WithField("error", err).Error("Error while upload cover image")
			u.discardBlobs(ctx, uploaded...)
			return nil, apperror.UploadFailed("Failed to upload cover image", err)
		}
		cover = *c
		uploaded = append(uploaded, c.PublicID)
	}

	hash, err := hashPassword(req.Password)
	if err != nil {
		u.discardBlobs(ctx, uploaded...)
		return nil, err
	}

	now := utils.GetCurrentTime()
	user := &model.User{
		ID:                 uuid.NewString(),
		Username:           username,
		Email:              email,
		FullName:           fullName,
		Avatar:             avatar.URL,
		AvatarPublicID:     avatar.PublicID,
		CoverImage:         cover.URL,
		CoverImagePublicID: cover.PublicID,
		Password:           hash,
		WatchHistory:       []string{},
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if err := u.userRepository.Create(ctx, user); err != nil {
		u.discardBlobs(ctx, uploaded...)
		if errors.Is(err, repository.ErrConflict) {
			return nil, apperror.Conflict("User with email or username already exists")
		}
		return nil, storeError(err, "")
	}

	created, err := u.userRepository.FindByID(ctx, user.ID)
	if err != nil {
		logger.GetLogger().WithField("error", err).WithField("user_id", user.ID).Error("Error while read back registered user")
		if delErr := u.userRepository.DeleteByID(ctx, user.ID); delErr != nil {
			logger.GetLogger().WithField("error", delErr).WithField("user_id", user.ID).Error("Error while roll back registered user")
		}
		u.discardBlobs(ctx, uploaded...)
		return nil, apperror.Persistence("Something went wrong while registering the user", err)
	}

	publishEvent(ctx, u.publisher, model.EventUserRegistered, map[string]string{
		"userId":   created.ID,
		"username": created.Username,
	})
	sanitized := created.Sanitized()
	return &sanitized, nil
}

func (u *UserUsecase) Login(ctx context.Context, req dto.ReqLogin) (*dto.ResLogin, error) {
	username := strings.ToLower(strings.TrimSpace(req.Username))
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if username == "" && email == "" {
		return nil, apperror.Validation("Username or email is required")
	}
	if req.Password == "" {
		return nil, apperror.Validation("Password is required")
	}

	user, err := u.userRepository.FindByUsernameOrEmail(ctx, username, email)
	if err != nil {
		return nil, storeError(err, "User does not exist")
	}
	if !utils.CheckPassword(user.Password, req.Password) {
		return nil, apperror.Unauthorized("Invalid user credentials")
	}

	pair, err := u.tokenUsecase.IssueTokenPair(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	metrics.TokensIssued.WithLabelValues("login").Inc()

	sanitized := user.Sanitized()
	return &dto.ResLogin{User: &sanitized, AccessToken: pair.AccessToken, RefreshToken: pair.RefreshToken}, nil
}

func (u *UserUsecase) Logout(ctx context.Context, userID string) error {
	if err := u.tokenUsecase.Revoke(ctx, userID); err != nil {
		return err
	}
	u.userCache.Invalidate(ctx, userID)
	return nil
}

// RefreshAccessToken rotates the pair. A verified token that differs from the stored one was already
// rotated or revoked and is rejected.
func (u *UserUsecase) RefreshAccessToken(ctx context.Context, refreshToken string) (*dto.ResLogin, error) {
	if refreshToken == "" {
		return nil, apperror.Unauthorized("Unauthorized request")
	}
	claims, err := u.tokenUsecase.VerifyRefreshToken(refreshToken)
	if err != nil {
		return nil, err
	}

	user, err := u.userRepository.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.TokenInvalid("Invalid refresh token")
		}
		return nil, storeError(err, "")
	}
	if user.RefreshToken == "" || user.RefreshToken != refreshToken {
		metrics.RefreshReuse.Inc()
		logger.GetLogger().WithField("user_id", user.ID).Warn("Stale refresh token presented")
		return nil, apperror.TokenInvalid("Refresh token is expired or used")
	}

	pair, err := u.tokenUsecase.IssueTokenPair(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	metrics.TokensIssued.WithLabelValues("refresh").Inc()
	return &dto.ResLogin{AccessToken: pair.AccessToken, RefreshToken: pair.RefreshToken}, nil
}

func (u *UserUsecase) ChangePassword(ctx context.Context, userID string, req dto.ReqChangePassword) error {
	if req.OldPassword == "" || strings.TrimSpace(req.NewPassword) == "" {
		return apperror.Validation("Old and new password are required")
	}
	if len(req.NewPassword) > utils.MaxPasswordBytes {
		return errPasswordTooLong
	}
	user, err := u.userRepository.FindByID(ctx, userID)
	if err != nil {
		return storeError(err, "User does not exist")
	}
	if !utils.CheckPassword(user.Password, req.OldPassword) {
		return apperror.Validation("Invalid old password")
	}

	hash, err := hashPassword(req.NewPassword)
	if err != nil {
		return err
	}
	if _, err := u.userRepository.UpdateFields(ctx, userID, model.UserUpdate{Password: &hash}); err != nil {
		return storeError(err, "User does not exist")
	}
	return u.tokenUsecase.Revoke(ctx, userID)
}

func (u *UserUsecase) CurrentUser(ctx context.Context, userID string) (*model.User, error) {
	user, err := u.userRepository.FindByID(ctx, userID)
	if err != nil {
		return nil, storeError(err, "User does not exist")
	}
	sanitized := user.Sanitized()
	return &sanitized, nil
}

func (u *UserUsecase) UpdateAccount(ctx context.Context, userID string, req dto.ReqUpdateAccount) (*model.User, error) {
	fullName := strings.TrimSpace(req.FullName)
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if fullName == "" || email == "" {
		return nil, apperror.Validation("All fields are required")
	}

	user, err := u.userRepository.UpdateFields(ctx, userID, model.UserUpdate{FullName: &fullName, Email: &email})
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, apperror.Conflict("Email is already in use")
		}
		return nil, storeError(err, "User does not exist")
	}
	u.userCache.Invalidate(ctx, userID)
	sanitized := user.Sanitized()
	return &sanitized, nil
}

func (u *UserUsecase) UpdateAvatar(ctx context.Context, userID, localPath string) (*model.User, error) {
	return u.replaceImage(ctx, userID, localPath, "Avatar", func(current *model.User, asset *model.UploadedAsset) (model.UserUpdate, string) {
		return model.UserUpdate{Avatar: &asset.URL, AvatarPublicID: &asset.PublicID}, current.AvatarPublicID
	})
}

func (u *UserUsecase) UpdateCoverImage(ctx context.Context, userID, localPath string) (*model.User, error) {
	return u.replaceImage(ctx, userID, localPath, "Cover image", func(current *model.User, asset *model.UploadedAsset) (model.UserUpdate, string) {
		return model.UserUpdate{CoverImage: &asset.URL, CoverImagePublicID: &asset.PublicID}, current.CoverImagePublicID
	})
}

// replaceImage uploads the new file before touching the user and drops the old blob only after the update landed.
func (u *UserUsecase) replaceImage(
	ctx context.Context,
	userID, localPath, label string,
	build func(current *model.User, asset *model.UploadedAsset) (model.UserUpdate, string),
) (*model.User, error) {
	if localPath == "" {
		return nil, apperror.Validation(label + " file is missing")
	}
	current, err := u.userRepository.FindByID(ctx, userID)
	if err != nil {
		return nil, storeError(err, "User does not exist")
	}

	asset, err := u.blobStore.Upload(ctx, localPath)
	if err != nil {
		logger.GetLogger().WithField("error", err).WithField("user_id", userID).Error("Error while upload " + strings.ToLower(label))
		return nil, apperror.UploadFailed("Error while uploading "+strings.ToLower(label), err)
	}

	update, oldPublicID := build(current, asset)
	user, err := u.userRepository.UpdateFields(ctx, userID, update)
	if err != nil {
		u.discardBlobs(ctx, asset.PublicID)
		return nil, storeError(err, "User does not exist")
	}
	u.discardBlobs(ctx, oldPublicID)
	u.userCache.Invalidate(ctx, userID)

	sanitized := user.Sanitized()
	return &sanitized, nil
}

// discardBlobs deletes blobs best-effort.
func (u *UserUsecase) discardBlobs(ctx context.Context, publicIDs ...string) {
	for _, id := range publicIDs {
		if id == "" {
			continue
		}
		if err := u.blobStore.Delete(ctx, id); err != nil {
			logger.GetLogger().WithField("error", err).WithField("public_id", id).Warn("Error while delete blob")
		}
	}
}
