// Package auth issues and verifies session tokens, hashes passwords, and
// carries the authenticated principal through a request context.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/usersvc/internal/common"
	"github.com/dmitrijs2005/usersvc/internal/server/models"
	"github.com/golang-jwt/jwt/v5"
)

// TokenConfig is everything the issuer needs; it is built once at startup.
type TokenConfig struct {
	SecretKey    []byte
	Validity     time.Duration
	CookieName   string
	CookieSecure bool
}

// Claims is the session claim carried inside the token.
type Claims struct {
	jwt.RegisteredClaims
	UserID int64       `json:"id"`
	Email  string      `json:"email"`
	Role   models.Role `json:"role"`
}

// Principal converts verified claims into the acting identity.
func (c Claims) Principal() *models.Principal {
	return &models.Principal{ID: c.UserID, Email: c.Email, Role: c.Role}
}

// ClaimsFor builds the claims for a stored user.
func ClaimsFor(u *models.User) Claims {
	return Claims{UserID: u.ID, Email: u.Email, Role: u.Role}
}

type TokenIssuer struct {
	cfg TokenConfig
	now func() time.Time
}

func NewTokenIssuer(cfg TokenConfig) *TokenIssuer {
	if cfg.CookieName == "" {
		cfg.CookieName = common.SessionCookieName
	}
	return &TokenIssuer{cfg: cfg, now: time.Now}
}

// Issue signs c with HS256 and an expiry of now+Validity. Any registered
// claims set by the caller are replaced.
func (i *TokenIssuer) Issue(c Claims) (string, time.Time, error) {
	now := i.now()
	expires := now.Add(i.cfg.Validity)
	c.RegisteredClaims = jwt.RegisteredClaims{
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expires),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(i.cfg.SecretKey)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return token, expires, nil
}

// Verify checks signature and expiry. Expired tokens yield
// common.ErrTokenExpired, every other failure common.ErrInvalidToken.
func (i *TokenIssuer) Verify(tokenString string) (Claims, error) {
	claims := Claims{}

	token, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (any, error) {
		return i.cfg.SecretKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(i.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Claims{}, common.ErrTokenExpired
		}
		return Claims{}, fmt.Errorf("%w: %w", common.ErrInvalidToken, err)
	}

	if !token.Valid {
		return Claims{}, common.ErrInvalidToken
	}
	if _, err := models.ParseRole(string(claims.Role)); err != nil {
		return Claims{}, fmt.Errorf("%w: %w", common.ErrInvalidToken, err)
	}

	return claims, nil
}
