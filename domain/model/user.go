package model

import "time"

// User is the account document. Password and RefreshToken never leave the server.
type User struct {
	ID                 string    `json:"_id"          bson:"_id"`
	Username           string    `json:"username"     bson:"username"`
	Email              string    `json:"email"        bson:"email"`
	FullName           string    `json:"fullName"     bson:"fullName"`
	Avatar             string    `json:"avatar"       bson:"avatar"`
	AvatarPublicID     string    `json:"-"            bson:"avatarPublicId"`
	CoverImage         string    `json:"coverImage"   bson:"coverImage"`
	CoverImagePublicID string    `json:"-"            bson:"coverImagePublicId"`
	Password           string    `json:"-"            bson:"password"`
	RefreshToken       string    `json:"-"            bson:"refreshToken"`
	WatchHistory       []string  `json:"watchHistory" bson:"watchHistory"`
	CreatedAt          time.Time `json:"createdAt"    bson:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"    bson:"updatedAt"`
}

// Sanitized returns a copy without credential fields, safe to keep in a request context or cache.
func (u User) Sanitized() User {
	u.Password = ""
	u.RefreshToken = ""
	return u
}

// Summary is the public subset of the user.
func (u User) Summary() UserSummary {
	return UserSummary{ID: u.ID, Username: u.Username, FullName: u.FullName, Avatar: u.Avatar}
}

// UserSummary is the public identity subset used in joined projections.
type UserSummary struct {
	ID       string `json:"_id"      bson:"_id"`
	Username string `json:"username" bson:"username"`
	FullName string `json:"fullName" bson:"fullName"`
	Avatar   string `json:"avatar"   bson:"avatar"`
}

// UserUpdate carries the fields to change; nil fields are left untouched.
type UserUpdate struct {
	FullName           *string
	Email              *string
	Avatar             *string
	AvatarPublicID     *string
	CoverImage         *string
	CoverImagePublicID *string
	Password           *string
}

// IsEmpty reports whether the update changes nothing.
func (u UserUpdate) IsEmpty() bool {
	return u.FullName == nil && u.Email == nil && u.Avatar == nil && u.AvatarPublicID == nil &&
		u.CoverImage == nil && u.CoverImagePublicID == nil && u.Password == nil
}
