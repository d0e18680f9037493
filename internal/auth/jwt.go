package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
)

// DefaultTokenTTL is the session lifetime used when none is configured.
// Tokens are stateless; there is no revocation, so a token stays valid
// until it expires even if the account changes in the meantime.
const DefaultTokenTTL = 7 * 24 * time.Hour

// Claims represents the claims in the session token
type Claims struct {
	jwt.RegisteredClaims
	AccountID string `json:"account_id"`
	Email     string `json:"email"`
}

// TokenMaker issues and validates signed session tokens
type TokenMaker struct {
	secretKey string
	ttl       time.Duration
	now       func() time.Time
}

func NewTokenMaker(secretKey string, ttl time.Duration) *TokenMaker {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenMaker{secretKey: secretKey, ttl: ttl, now: time.Now}
}

// WithTimeFunc overrides the clock, for expiry tests
func (maker *TokenMaker) WithTimeFunc(now func() time.Time) *TokenMaker {
	maker.now = now
	return maker
}

// CreateToken creates a signed token for an account
func (maker *TokenMaker) CreateToken(accountID, email string) (string, error) {
	now := maker.now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   accountID,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(maker.ttl)),
		},
		AccountID: accountID,
		Email:     email,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(maker.secretKey))
}

// VerifyToken checks the signature and expiry; any failure rejects the token
func (maker *TokenMaker) VerifyToken(tokenString string) (*Claims, error) {
	keyFunc := func(token *jwt.Token) (interface{}, error) {
		_, ok := token.Method.(*jwt.SigningMethodHMAC)
		if !ok {
			return nil, ErrInvalidToken
		}
		return []byte(maker.secretKey), nil
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, keyFunc, jwt.WithTimeFunc(maker.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || claims.AccountID == "" {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
