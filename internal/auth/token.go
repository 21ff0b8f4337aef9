package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

var (
	ErrInvalidToken   = errors.New("invalid token")
	ErrWrongTokenType = errors.New("wrong token type")
)

type Claims struct {
	UserID    string `json:"user_id"`
	TokenType string `json:"typ"`
	jwt.RegisteredClaims
}

func GenerateToken(secret, userID string, ttl time.Duration) (string, error) {
	return generate(secret, userID, TokenTypeAccess, ttl)
}

// ParseToken validates signature and expiry and only accepts access tokens.
func ParseToken(secret, token string) (*Claims, error) {
	return parse(secret, token, TokenTypeAccess)
}

func generate(secret, userID, tokenType string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID:    userID,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

func parse(secret, token, tokenType string) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(secret), nil
	})
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	if claims.TokenType != tokenType {
		return nil, ErrWrongTokenType
	}
	if claims.UserID == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// Issuer hands out access/refresh token pairs for a verified user.
type Issuer struct {
	secret     string
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewIssuer(secret string, accessTTL, refreshTTL time.Duration) *Issuer {
	return &Issuer{secret: secret, accessTTL: accessTTL, refreshTTL: refreshTTL}
}

func (i *Issuer) AccessToken(userID string) (string, error) {
	return generate(i.secret, userID, TokenTypeAccess, i.accessTTL)
}

func (i *Issuer) RefreshToken(userID string) (string, error) {
	return generate(i.secret, userID, TokenTypeRefresh, i.refreshTTL)
}

// ParseRefresh returns the user id carried by a valid refresh token.
func (i *Issuer) ParseRefresh(token string) (string, error) {
	claims, err := parse(i.secret, token, TokenTypeRefresh)
	if err != nil {
		return "", err
	}
	return claims.UserID, nil
}
