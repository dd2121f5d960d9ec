package types

import (
	"github.com/golang-jwt/jwt/v5"
)

// TokenClaims represents the claims in a bearer token. The registered ID
// (jti) is the key of the token row backing it.
type TokenClaims struct {
	jwt.RegisteredClaims
	UserID uint `json:"user_id"`
}
