package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"

	"github.com/noah-isme/bioscizone-api/internal/utils"
)

// Locals keys populated by JWTProtected.
const (
	LocalsUsername = "admin_username"
	LocalsRole     = "user_role"
)

const (
	defaultRole       = "admin"
	invalidCredential = "Could not validate credentials"
)

// JWTProtected validates HS256 bearer tokens and exposes the subject and role to handlers.
func JWTProtected(secret string) fiber.Handler {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	)

	return func(c *fiber.Ctx) error {
		authorization := strings.TrimSpace(c.Get(fiber.HeaderAuthorization))
		const bearer = "bearer "
		if len(authorization) <= len(bearer) || !strings.EqualFold(authorization[:len(bearer)], bearer) {
			return unauthorized(c)
		}

		tokenString := strings.TrimSpace(authorization[len(bearer):])
		claims := jwt.MapClaims{}
		token, err := parser.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			return unauthorized(c)
		}

		subject, err := claims.GetSubject()
		if err != nil || strings.TrimSpace(subject) == "" {
			return unauthorized(c)
		}

		c.Locals(LocalsUsername, subject)
		c.Locals(LocalsRole, extractRole(claims))

		return c.Next()
	}
}

func unauthorized(c *fiber.Ctx) error {
	c.Set(fiber.HeaderWWWAuthenticate, "Bearer")
	return utils.Fail(c, fiber.StatusUnauthorized, invalidCredential)
}

// extractRole reads the role claim, defaulting to a plain admin.
func extractRole(claims jwt.MapClaims) string {
	if value, ok := claims["role"].(string); ok {
		if role := strings.ToLower(strings.TrimSpace(value)); role != "" {
			return role
		}
	}
	return defaultRole
}
