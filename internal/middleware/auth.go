package middleware

import (
	"errors"

	"github.com/ahmetcoskunkizilkaya/harmony-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/harmony-backend/internal/services"
	"github.com/ahmetcoskunkizilkaya/harmony-backend/internal/session"
	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// JWTProtected rejects requests without a valid bearer token. Failures are
// returned as credential errors so the app ErrorHandler renders them.
func JWTProtected(cfg *config.Config) fiber.Handler {
	key := []byte(cfg.JWTSecret)
	return jwtware.New(jwtware.Config{
		SigningKey:         jwtware.SigningKey{JWTAlg: jwtware.HS256, Key: key},
		ContextKey:         session.LocalsKey,
		TokenProcessorFunc: strictToken(key),
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return credentialError(err)
		},
	})
}

// strictToken rejects tokens whose segments are not canonical base64url.
// jwtware parses leniently, which lets the unused low bits of the last
// signature character change without invalidating the signature.
func strictToken(key []byte) func(string) (string, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithStrictDecoding(),
	)
	return func(token string) (string, error) {
		_, err := parser.Parse(token, func(*jwt.Token) (interface{}, error) {
			return key, nil
		})
		if err != nil {
			return "", err
		}
		return token, nil
	}
}

func credentialError(err error) error {
	switch {
	case errors.Is(err, jwtware.ErrJWTMissingOrMalformed):
		return services.ErrCredentialMissing
	case errors.Is(err, jwt.ErrTokenExpired):
		return services.ErrCredentialExpired
	default:
		return services.ErrCredentialMalformed
	}
}
