// middleware/admin_auth.go
package middleware

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// AdminAuthMiddleware guards token-granting and other administrative routes.
// It validates an HS256 bearer token signed with ADMIN_JWT_SECRET and
// requires the "admin" role claim; token issuance belongs to the identity
// service, not this one.
func AdminAuthMiddleware() fiber.Handler {
	secret := os.Getenv("ADMIN_JWT_SECRET")
	if secret == "" {
		log.Fatal("❌ ADMIN_JWT_SECRET is not set — admin endpoints cannot authenticate")
	}

	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			log.Printf("🚫 [ADMIN_AUTH] Missing Authorization header for %s", c.Path())
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"error":   "admin authentication token missing",
			})
		}

		tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenStr == authHeader {
			tokenStr = authHeader
		}

		claims := jwt.MapClaims{}
		token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			log.Printf("❌ [ADMIN_AUTH] Invalid token for %s: %v", c.Path(), err)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"error":   "invalid admin authentication token",
			})
		}

		if role, _ := claims["role"].(string); role != "admin" {
			log.Printf("🚫 [ADMIN_AUTH] Token without admin role rejected for %s", c.Path())
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"success": false,
				"error":   "admin role required",
			})
		}

		if sub, _ := claims["sub"].(string); sub != "" {
			c.Locals("admin_subject", sub)
		}
		return c.Next()
	}
}
