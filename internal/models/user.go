package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	UsersColName = "users"
)

type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	FirstName    string             `bson:"first_name" json:"first_name" validate:"required"`
	LastName     string             `bson:"last_name" json:"last_name" validate:"required"`
	Email        string             `bson:"email" json:"email" validate:"required,email"`
	Password     string             `bson:"password" json:"-"`
	Bio          string             `bson:"bio,omitempty" json:"bio,omitempty"`
	ProfilePhoto string             `bson:"profile_photo,omitempty" json:"profile_photo,omitempty"`

	IsBlocked         bool `bson:"is_blocked" json:"is_blocked"`
	IsAdmin           bool `bson:"is_admin" json:"is_admin"`
	IsAccountVerified bool `bson:"is_account_verified" json:"is_account_verified"`

	Followers []primitive.ObjectID `bson:"followers,omitempty" json:"followers,omitempty"`
	Following []primitive.ObjectID `bson:"following,omitempty" json:"following,omitempty"`
	ViewedBy  []primitive.ObjectID `bson:"viewed_by,omitempty" json:"viewed_by,omitempty"`

	// Token fields hold a sha256 digest, never the raw token. A token and
	// its expiry are set together and cleared together.
	AccountVerificationToken        string    `bson:"account_verification_token,omitempty" json:"-"`
	AccountVerificationTokenExpires time.Time `bson:"account_verification_token_expires,omitempty" json:"-"`
	PasswordResetToken              string    `bson:"password_reset_token,omitempty" json:"-"`
	PasswordResetExpires            time.Time `bson:"password_reset_expires,omitempty" json:"-"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// PublicUser is the projection returned to clients. It never carries the
// password hash or token digests.
type PublicUser struct {
	ID                primitive.ObjectID   `json:"id"`
	FirstName         string               `json:"first_name"`
	LastName          string               `json:"last_name"`
	Email             string               `json:"email"`
	Bio               string               `json:"bio,omitempty"`
	ProfilePhoto      string               `json:"profile_photo,omitempty"`
	IsBlocked         bool                 `json:"is_blocked"`
	IsAdmin           bool                 `json:"is_admin"`
	IsAccountVerified bool                 `json:"is_account_verified"`
	Followers         []primitive.ObjectID `json:"followers,omitempty"`
	Following         []primitive.ObjectID `json:"following,omitempty"`
	ViewedBy          []primitive.ObjectID `json:"viewed_by,omitempty"`
	CreatedAt         time.Time            `json:"created_at"`
	UpdatedAt         time.Time            `json:"updated_at"`
}

func (u *User) Public() *PublicUser {
	return &PublicUser{
		ID:                u.ID,
		FirstName:         u.FirstName,
		LastName:          u.LastName,
		Email:             u.Email,
		Bio:               u.Bio,
		ProfilePhoto:      u.ProfilePhoto,
		IsBlocked:         u.IsBlocked,
		IsAdmin:           u.IsAdmin,
		IsAccountVerified: u.IsAccountVerified,
		Followers:         u.Followers,
		Following:         u.Following,
		ViewedBy:          u.ViewedBy,
		CreatedAt:         u.CreatedAt,
		UpdatedAt:         u.UpdatedAt,
	}
}

// IsFollowedBy reports whether viewerId is already in the followers set.
func (u *User) IsFollowedBy(viewerId primitive.ObjectID) bool {
	for _, id := range u.Followers {
		if id == viewerId {
			return true
		}
	}
	return false
}

func (u *User) BeforeCreate() error {
	if u.ID.IsZero() {
		u.ID = primitive.NewObjectID()
	}
	return nil
}

type RegisterRequest struct {
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type FollowRequest struct {
	TargetID string `json:"target_id" binding:"required"`
}

type UpdateProfileRequest struct {
	FirstName    *string `json:"first_name,omitempty"`
	LastName     *string `json:"last_name,omitempty"`
	Bio          *string `json:"bio,omitempty"`
	ProfilePhoto *string `json:"profile_photo,omitempty"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type ResetPasswordRequest struct {
	Token    string `json:"token" binding:"required"`
	Password string `json:"password" binding:"required,min=8"`
}

type VerifyAccountRequest struct {
	Token string `json:"token" binding:"required"`
}
