package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	ModeLegacy = "legacy"
	ModeJWT    = "jwt"

	DefaultPrefix = "fake-token"
)

var ErrInvalidToken = errors.New("invalid token")

// Identity is what a token says about its bearer. Legacy tokens only carry
// the email; JWTs carry both fields.
type Identity struct {
	UserID uuid.UUID
	Email  string
}

type TokenCodec interface {
	Issue(id Identity) (string, error)
	Parse(token string) (Identity, error)
}

// PrefixCodec is the cleartext "<prefix>-<email>" scheme. It is not signed and
// never expires.
type PrefixCodec struct {
	prefix string
}

func NewPrefixCodec(prefix string) *PrefixCodec {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &PrefixCodec{prefix: strings.TrimSuffix(prefix, "-") + "-"}
}

func (c *PrefixCodec) Issue(id Identity) (string, error) {
	if id.Email == "" {
		return "", errors.New("identity has no email")
	}
	return c.prefix + id.Email, nil
}

func (c *PrefixCodec) Parse(token string) (Identity, error) {
	token = strings.TrimSpace(token)
	if !strings.HasPrefix(token, c.prefix) {
		return Identity{}, ErrInvalidToken
	}
	email := token[len(c.prefix):]
	if email == "" || !strings.Contains(email, "@") {
		return Identity{}, ErrInvalidToken
	}
	return Identity{Email: strings.ToLower(email)}, nil
}

// NewTokenCodec picks the codec for the configured mode.
func NewTokenCodec(mode, prefix, secret string, expiry time.Duration) (TokenCodec, error) {
	switch mode {
	case "", ModeLegacy:
		return NewPrefixCodec(prefix), nil
	case ModeJWT:
		if secret == "" {
			return nil, errors.New("jwt token mode requires a secret")
		}
		return NewJWTCodec(secret, expiry), nil
	}
	return nil, fmt.Errorf("unknown token mode %q", mode)
}

// ExtractToken pulls the token out of an Authorization header value. Both the
// "Token" and "Bearer" schemes are accepted.
func ExtractToken(header string) (string, bool) {
	scheme, value, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok {
		return "", false
	}
	switch scheme {
	case "Token", "Bearer":
	default:
		return "", false
	}
	value = strings.TrimSpace(value)
	return value, value != ""
}
