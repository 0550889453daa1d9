package model

import "github.com/golang-jwt/jwt/v5"

// RefreshToken is the stored (hashed) refresh token for a user. One row
// per user; a new signin replaces the previous token.
type RefreshToken struct {
	UserID    uint   `gorm:"primarykey" json:"userId"`
	TokenHash string `gorm:"not null" json:"-"`
	CreatedAt int64  `json:"createdAt"` // creation time in seconds
	Revoked   bool   `json:"revoked"`   // whether the token is revoked
	ExpiresAt int64  `json:"expiresAt"` // expiry time in seconds
}

func (RefreshToken) TableName() string {
	return "refresh_tokens"
}

type AccessClaims struct {
	UserID uint `json:"userId"`
	Role   Role `json:"role,omitempty"`
	jwt.RegisteredClaims
}

type RefreshClaims struct {
	UserID  uint   `json:"userId"`
	TokenID string `json:"tokenId,omitempty"` // For refresh token tracking
	jwt.RegisteredClaims
}
