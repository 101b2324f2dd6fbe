// Package auth issues and validates the session credentials for the API.
//
// A successful login yields a pair of HS256-signed JWTs bound to the
// employee's ID and role: a short-lived access token and a longer-lived
// refresh token. Tokens only identify the principal, authorization
// decisions are made per request against the current employee record.
package auth

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"os"
	"time"

	"github.com/expenseflow/backend/internal/policy"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	AccessTokenLifetime  = 7 * 24 * time.Hour
	RefreshTokenLifetime = 30 * 24 * time.Hour
)

var (
	ErrTokenInvalid = errors.New("the token is not valid")
	ErrTokenExpired = errors.New("the token has expired")
)

var secret = initSecret()

// initSecret reads the signing secret from the environment. Without a
// configured secret a random one is generated, which invalidates all
// sessions on restart.
func initSecret() []byte {
	if s, ok := os.LookupEnv("JWT_SECRET"); ok && s != "" {
		return []byte(s)
	}

	b := make([]byte, 32)
	_, _ = rand.Read(b)
	log.Warn().Msg("JWT_SECRET is not set, using a random secret. All sessions are invalidated on restart")
	return []byte(hex.EncodeToString(b))
}

// Claims are the JWT claims carried by both token types.
type Claims struct {
	EmployeeID uuid.UUID   `json:"employeeId"`
	Role       policy.Role `json:"role"`
	Refresh    bool        `json:"refresh,omitempty"`
	jwt.RegisteredClaims
}

// TokenPair is the session credential issued at login and refresh.
type TokenPair struct {
	AccessToken  string    `json:"accessToken"`
	RefreshToken string    `json:"refreshToken"`
	ExpiresAt    time.Time `json:"expiresAt"` // Expiry of the access token
}

// IssueTokens creates a new access and refresh token pair for the
// employee.
func IssueTokens(employeeID uuid.UUID, role policy.Role) (TokenPair, error) {
	now := time.Now().In(time.UTC)
	accessExpiry := now.Add(AccessTokenLifetime)

	access, err := sign(Claims{
		EmployeeID: employeeID,
		Role:       role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(accessExpiry),
		},
	})
	if err != nil {
		return TokenPair{}, err
	}

	refresh, err := sign(Claims{
		EmployeeID: employeeID,
		Role:       role,
		Refresh:    true,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(RefreshTokenLifetime)),
		},
	})
	if err != nil {
		return TokenPair{}, err
	}

	return TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresAt:    accessExpiry,
	}, nil
}

func sign(claims Claims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// Parse validates the token signature and expiry and returns its claims.
func Parse(tokenString string) (Claims, error) {
	var claims Claims

	token, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrTokenInvalid
		}
		return secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Claims{}, ErrTokenExpired
		}
		return Claims{}, ErrTokenInvalid
	}

	if !token.Valid || claims.EmployeeID == uuid.Nil {
		return Claims{}, ErrTokenInvalid
	}

	return claims, nil
}
