package middleware

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// UserIDLocalKey is the key under which the authenticated user ID is stored
// in Fiber's context locals.
const UserIDLocalKey = "user_id"

// Auth verifies a Bearer JWT and stores the user_id claim in context locals.
// Token issuance belongs to the identity provider; this middleware only
// verifies HMAC-signed tokens it is handed.
func Auth(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		tokenString, found := strings.CutPrefix(header, "Bearer ")
		if !found || tokenString == "" {
			return fiber.ErrUnauthorized
		}

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			return fiber.ErrUnauthorized
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			return fiber.ErrUnauthorized
		}
		userID, ok := claims["user_id"].(string)
		if !ok || userID == "" {
			return fiber.ErrUnauthorized
		}

		c.Locals(UserIDLocalKey, userID)
		return c.Next()
	}
}

// UserIDFromCtx returns the authenticated user ID, if any.
func UserIDFromCtx(c *fiber.Ctx) string {
	if v := c.Locals(UserIDLocalKey); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}
