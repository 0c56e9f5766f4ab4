package middleware

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/jam-build-shoplist/internal/identity"
	"github.com/localnerve/jam-build-shoplist/internal/types"
	"github.com/localnerve/jam-build-shoplist/internal/utils"
)

// LocalIdentity is the fiber.Locals key holding the resolved identity
const LocalIdentity = "identity"

// Authenticate resolves the caller with resolver and stores the identity in
// the request context. Requests without an identity are rejected with 401.
func Authenticate(resolver identity.Resolver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := resolver.Resolve(c.UserContext(), c)
		if err != nil {
			if errors.Is(err, identity.ErrNoIdentity) {
				return utils.AppErrorResponse(c, "authentication",
					types.Unauthenticated(fmt.Sprintf("Caller identity is missing or invalid: %v", err)), nil)
			}
			return utils.AppErrorResponse(c, "authentication", types.SystemError(err), nil)
		}

		c.Locals(LocalIdentity, id)
		return c.Next()
	}
}
