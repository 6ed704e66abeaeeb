package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrMissingToken は接続要求にトークンが付いていない場合に返されるエラーです。
	ErrMissingToken = errors.New("missing access token")
	// ErrInvalidToken は署名や有効期限の検証に失敗した場合に返されるエラーです。
	ErrInvalidToken = errors.New("invalid access token")
)

const tokenIssuer = "flinch"

// TokenVerifier はHS256で署名された接続トークンを発行・検証します。
type TokenVerifier struct {
	secret []byte
	now    func() time.Time
}

// NewTokenVerifier はsecretが空ならnilを返す。nilのVerifierは検証を行わない。
func NewTokenVerifier(secret string) *TokenVerifier {
	if secret == "" {
		return nil
	}
	return &TokenVerifier{secret: []byte(secret), now: time.Now}
}

// Issue はsubject宛てのトークンを発行します。
func (v *TokenVerifier) Issue(subject string, ttl time.Duration) (string, error) {
	now := v.now()
	claims := jwt.RegisteredClaims{
		Issuer:    tokenIssuer,
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(v.secret)
}

// Verify はトークンを検証しsubjectを返します。
func (v *TokenVerifier) Verify(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", ErrMissingToken
	}
	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(raw, &claims, func(*jwt.Token) (any, error) {
		return v.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(v.now),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	return claims.Subject, nil
}

// tokenFromRequest はAuthorizationヘッダかtokenクエリからトークンを取り出す
func tokenFromRequest(r *http.Request) string {
	if auth := r.Header.Get("Authorization"); auth != "" {
		if token, ok := strings.CutPrefix(auth, "Bearer "); ok {
			return token
		}
	}
	return r.URL.Query().Get("token")
}
