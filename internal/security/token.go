package security

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type Claims struct {
	UID string `json:"uid"`
	jwt.RegisteredClaims
}

// MakeToken signs a session token for uid. The jti and iat claims make
// every issuance a distinct string, so the allow-list can tell sessions
// apart. There is no expiry claim: a token stays structurally valid
// forever and is only invalidated by removing it from the user's token
// set.
func MakeToken(secret, uid string) (string, error) {
	c := Claims{
		UID: uid,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:  uid,
			ID:       uuid.NewString(),
			IssuedAt: jwt.NewNumericDate(time.Now()),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	return t.SignedString([]byte(secret))
}

// ParseToken verifies the signature and returns the embedded user id.
// It fails closed: any tampering, unexpected signing method, or wrong
// secret yields an error.
func ParseToken(secret, token string) (string, error) {
	t, err := jwt.ParseWithClaims(token, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		return "", err
	}
	c, ok := t.Claims.(*Claims)
	if !ok || !t.Valid {
		return "", errors.New("invalid token")
	}
	uid := c.UID
	if uid == "" {
		uid = c.Subject
	}
	if uid == "" {
		return "", errors.New("token has no uid")
	}
	return uid, nil
}
