package middleware

import (
	"strings"
	"time"

	"github.com/chngmn/Quizly-server/internal/models"
	"github.com/gofiber/fiber/v3"
	"github.com/rs/zerolog/log"
)

const (
	UserIDKey   = "userId"
	NicknameKey = "nickname"
)

type TokenVerifier interface {
	VerifyToken(tokenString string) (*models.Claims, error)
}

// RequireAuth rejects requests without a valid bearer token and stores the
// token's user id and nickname in the request locals.
func RequireAuth(verifier TokenVerifier) fiber.Handler {
	return func(c fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Missing authorization token",
			})
		}

		claims, err := verifier.VerifyToken(strings.TrimSpace(authHeader[7:]))
		if err != nil {
			log.Debug().Err(err).Str("path", c.Path()).Msg("token validation failed")
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid or expired token",
			})
		}

		c.Locals(UserIDKey, claims.UserID)
		c.Locals(NicknameKey, claims.Nickname)
		return c.Next()
	}
}

// UserID returns the authenticated caller, or "" on public routes.
func UserID(c fiber.Ctx) string {
	return fiber.Locals[string](c, UserIDKey)
}

func RequestLogger() fiber.Handler {
	return func(c fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}

		event := log.Info()
		if status >= fiber.StatusInternalServerError {
			event = log.Error().Err(err)
		}
		event.
			Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("ip", c.IP()).
			Msg("request")
		return err
	}
}
