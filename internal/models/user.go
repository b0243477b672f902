package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// User is either a local account (email + password hash) or a Kakao-linked
// account (kakaoId). Sensitive fields never leave the server as JSON.
type User struct {
	ID                 bson.ObjectID `bson:"_id,omitempty" json:"_id"`
	KakaoID            string        `bson:"kakaoId,omitempty" json:"-"`
	Email              string        `bson:"email,omitempty" json:"email,omitempty"`
	Password           string        `bson:"password,omitempty" json:"-"`
	Nickname           string        `bson:"nickname" json:"nickname"`
	ProfileImage       string        `bson:"profileImage,omitempty" json:"profileImage,omitempty"`
	RefreshToken       string        `bson:"refreshToken,omitempty" json:"-"`
	Gender             Gender        `bson:"gender,omitempty" json:"gender,omitempty"`
	School             School        `bson:"school,omitempty" json:"school,omitempty"`
	MarketingAgreement bool          `bson:"marketingAgreement" json:"marketingAgreement"`
	CreatedAt          time.Time     `bson:"createdAt" json:"createdAt"`
	UpdatedAt          time.Time     `bson:"updatedAt" json:"updatedAt"`
}

// ProfileComplete reports whether the fields Kakao cannot supply are set.
func (u *User) ProfileComplete() bool {
	return u.School != "" && u.Gender != ""
}

// UserSummary is the user payload returned next to a session token.
type UserSummary struct {
	ID       string `json:"id"`
	Nickname string `json:"nickname"`
	Email    string `json:"email,omitempty"`
}

// UserProfile is the self-view of an account.
type UserProfile struct {
	ID                 string    `json:"_id"`
	Email              string    `json:"email,omitempty"`
	Nickname           string    `json:"nickname"`
	ProfileImage       string    `json:"profileImage,omitempty"`
	Gender             Gender    `json:"gender,omitempty"`
	School             School    `json:"school,omitempty"`
	MarketingAgreement bool      `json:"marketingAgreement"`
	CreatedAt          time.Time `json:"createdAt"`
}

type Claims struct {
	jwt.RegisteredClaims
	UserID   string `json:"userId"`
	Nickname string `json:"nickname"`
}
