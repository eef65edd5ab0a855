package middleware

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/bioscizone-api/internal/utils"
)

// RequireRole ensures that the authenticated user possesses one of the allowed roles.
// The denial detail names the first role, e.g. "Superadmin access required".
func RequireRole(roles ...string) fiber.Handler {
	allowed := make(map[string]struct{}, len(roles))
	for _, role := range roles {
		normalized := strings.ToLower(strings.TrimSpace(role))
		if normalized != "" {
			allowed[normalized] = struct{}{}
		}
	}

	detail := "Insufficient permissions"
	if len(roles) > 0 && strings.TrimSpace(roles[0]) != "" {
		first := strings.ToLower(strings.TrimSpace(roles[0]))
		detail = fmt.Sprintf("%s%s access required", strings.ToUpper(first[:1]), first[1:])
	}

	return func(c *fiber.Ctx) error {
		role := normalizeRoleValue(c.Locals(LocalsRole))
		if _, ok := allowed[role]; !ok {
			return utils.Fail(c, fiber.StatusForbidden, detail)
		}
		return c.Next()
	}
}

func normalizeRoleValue(value interface{}) string {
	switch v := value.(type) {
	case string:
		return strings.ToLower(strings.TrimSpace(v))
	case fmt.Stringer:
		return strings.ToLower(strings.TrimSpace(v.String()))
	default:
		if value == nil {
			return ""
		}
		return strings.ToLower(strings.TrimSpace(fmt.Sprintf("%v", value)))
	}
}
