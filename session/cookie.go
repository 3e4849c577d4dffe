package session

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/hkdf"
)

const CookieName = "bv_visitor"

var ErrBadCookie = errors.New("session: invalid visitor cookie")

type Claims struct {
	VisitorID string `json:"visitorId"`
	jwt.RegisteredClaims
}

// CookieSigner issues and verifies the visitor cookie. The cookie only names
// the visitor; the user id lives in Storage.
type CookieSigner struct {
	key []byte
}

func NewCookieSigner(secret string) (*CookieSigner, error) {
	if secret == "" {
		return nil, errors.New("session: empty cookie secret")
	}
	key, err := deriveKey([]byte(secret), "visitor-cookie")
	if err != nil {
		return nil, err
	}
	return &CookieSigner{key: key}, nil
}

func deriveKey(secret []byte, info string) ([]byte, error) {
	h := hkdf.New(sha256.New, secret, nil, []byte(info))
	out := make([]byte, 32)
	if _, err := io.ReadFull(h, out); err != nil {
		return nil, fmt.Errorf("derive %s key: %w", info, err)
	}
	return out, nil
}

// Issue mints a fresh visitor id and its signed token.
func (s *CookieSigner) Issue() (visitor, token string, err error) {
	visitor = uuid.NewString()
	claims := &Claims{
		VisitorID: visitor,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt: jwt.NewNumericDate(time.Now()),
		},
	}
	token, err = jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.key)
	if err != nil {
		return "", "", fmt.Errorf("sign visitor cookie: %w", err)
	}
	return visitor, token, nil
}

func (s *CookieSigner) Parse(token string) (string, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.key, nil
	})
	if err != nil || !parsed.Valid {
		return "", ErrBadCookie
	}
	if _, err := uuid.Parse(claims.VisitorID); err != nil {
		return "", ErrBadCookie
	}
	return claims.VisitorID, nil
}
