package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/openshelf-io/catalog/internal/config"
)

// CatalogClaims are the claims carried by catalog API tokens. Scopes name
// the write operations the bearer may perform.
type CatalogClaims struct {
	Scopes []string `json:"scopes"`
	jwt.RegisteredClaims
}

// GenerateAPIToken mints an HS256 token for the given subject with the
// configured expiry.
func GenerateAPIToken(subject uuid.UUID, scopes []string, cfg *config.Config) (string, error) {
	expiry := time.Now().Add(time.Hour * 24 * time.Duration(cfg.JWTConfig.ExpireDelta))

	claims := &CatalogClaims{
		Scopes: scopes,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiry),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    "https://catalog.openshelf.io/",
			Subject:   subject.String(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(cfg.JWTConfig.ApiSecret))
}

// ValidateAPIToken parses the token, verifies its HMAC signature against the
// API secret and checks that it has not expired.
func ValidateAPIToken(tokenString string, secret string) (*CatalogClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &CatalogClaims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*CatalogClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}

	if claims.ExpiresAt == nil {
		return nil, errors.New("token is missing an expiry")
	}
	if claims.ExpiresAt.Before(time.Now()) {
		return nil, errors.New("token has expired")
	}

	return claims, nil
}
