package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// JWTCodec issues HS256 tokens carrying the user id and email.
type JWTCodec struct {
	secret []byte
	expiry time.Duration
}

func NewJWTCodec(secret string, expiry time.Duration) *JWTCodec {
	return &JWTCodec{secret: []byte(secret), expiry: expiry}
}

func (c *JWTCodec) Issue(id Identity) (string, error) {
	claims := jwt.MapClaims{
		"user_id": id.UserID.String(),
		"email":   id.Email,
		"exp":     time.Now().Add(c.expiry).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(c.secret)
}

func (c *JWTCodec) Parse(tokenStr string) (Identity, error) {
	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
		return c.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return Identity{}, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || claims["user_id"] == nil {
		return Identity{}, errors.New("invalid claims")
	}

	raw, ok := claims["user_id"].(string)
	if !ok {
		return Identity{}, errors.New("invalid claims")
	}
	userID, err := uuid.Parse(raw)
	if err != nil {
		return Identity{}, errors.New("invalid user ID in token")
	}

	email, _ := claims["email"].(string)
	return Identity{UserID: userID, Email: email}, nil
}
