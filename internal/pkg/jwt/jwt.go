package jwt

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

const TokenTypeAccess = "access"

var ErrInvalidClaims = errors.New("invalid token claims")

type Service interface {
	GenerateAccessToken(userID int64, email string, roles []string) (token string, expiresAt int64, err error)
	// ExpiresIn is the access token lifetime in seconds
	ExpiresIn() int64
	JWTAuth() *jwtauth.JWTAuth
	RevokeToken(ctx context.Context, token string) error
	IsTokenRevoked(ctx context.Context, token string) (bool, error)
}

type JWTService struct {
	accessTokenExpiration time.Duration
	tokenAuth             *jwtauth.JWTAuth
	revocations           RevocationStore
}

func NewJWTService(secretKey string, accessTokenExpirationTime string, revocations RevocationStore) (Service, error) {
	expDuration, err := time.ParseDuration(accessTokenExpirationTime)
	if err != nil {
		return nil, fmt.Errorf("invalid access token expiration: %w", err)
	}
	if revocations == nil {
		revocations = NewMemoryRevocationStore()
	}
	return &JWTService{
		accessTokenExpiration: expDuration,
		tokenAuth:             jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(30*time.Second)),
		revocations:           revocations,
	}, nil
}

func (j *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

func (j *JWTService) ExpiresIn() int64 {
	return int64(j.accessTokenExpiration / time.Second)
}

func (j *JWTService) GenerateAccessToken(userID int64, email string, roles []string) (token string, expiresAt int64, err error) {
	expiresAt = time.Now().Add(j.accessTokenExpiration).Unix()

	claims := map[string]interface{}{
		"user_id": strconv.FormatInt(userID, 10),
		"email":   email,
		"roles":   roles,
		"type":    TokenTypeAccess,
		"exp":     expiresAt,
	}

	_, tokenString, err := j.tokenAuth.Encode(claims)
	return tokenString, expiresAt, err
}

// RevokeToken blocks token until it would have expired anyway
func (j *JWTService) RevokeToken(ctx context.Context, token string) error {
	parsed, err := j.tokenAuth.Decode(token)
	if err != nil {
		return err
	}
	expiresAt := parsed.Expiration()
	if expiresAt.IsZero() {
		expiresAt = time.Now().Add(j.accessTokenExpiration)
	}
	return j.revocations.Revoke(ctx, HashToken(token), expiresAt)
}

func (j *JWTService) IsTokenRevoked(ctx context.Context, token string) (bool, error) {
	return j.revocations.IsRevoked(ctx, HashToken(token))
}

// HashToken hashes the input string using SHA256 and encodes the result in base64.
func HashToken(token string) string {
	hash := sha256.Sum256([]byte(token))
	return base64.StdEncoding.EncodeToString(hash[:])
}

// UserIDFromClaims reads the user_id claim set by GenerateAccessToken
func UserIDFromClaims(claims map[string]interface{}) (int64, error) {
	raw, ok := claims["user_id"].(string)
	if !ok {
		return 0, ErrInvalidClaims
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, ErrInvalidClaims
	}
	return id, nil
}

// RolesFromClaims reads the roles claim; unknown shapes yield no roles
func RolesFromClaims(claims map[string]interface{}) []string {
	switch v := claims["roles"].(type) {
	case []string:
		return v
	case []interface{}:
		roles := make([]string, 0, len(v))
		for _, r := range v {
			if s, ok := r.(string); ok {
				roles = append(roles, s)
			}
		}
		return roles
	}
	return nil
}
