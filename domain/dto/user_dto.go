package dto

import "streamhub/domain/model"

// ReqRegister holds the text fields of the multipart registration form.
type ReqRegister struct {
	FullName string `form:"fullName"`
	Email    string `form:"email"`
	Username string `form:"username"`
	Password string `form:"password"`
}

// RegisterFiles are local temporary paths of the uploaded registration files.
// CoverImagePath is empty when no cover image was sent.
type RegisterFiles struct {
	AvatarPath     string
	CoverImagePath string
}

type ReqLogin struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type ReqRefreshToken struct {
	RefreshToken string `json:"refreshToken"`
}

type ReqChangePassword struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

type ReqUpdateAccount struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
}

// ResLogin is returned by login and refresh.
type ResLogin struct {
	User         *model.User `json:"user,omitempty"`
	AccessToken  string      `json:"accessToken"`
	RefreshToken string      `json:"refreshToken"`
}
