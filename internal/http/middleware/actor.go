package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"

	"docport/internal/model"
)

const (
	// ActorIDHeader carries the authenticated user id, set by the upstream gateway.
	ActorIDHeader = "X-Actor-ID"
	// OrgIDHeader carries the organization the user acts for.
	OrgIDHeader = "X-Org-ID"
	// ActorLocalKey is the key used to store the model.Actor in Fiber's context locals.
	ActorLocalKey = "actor"
)

// Actor reads the caller's identity from the gateway headers and stores it in
// locals. Requests without both headers are rejected with 401. The values are
// copied out of the request buffer since handlers persist them.
func Actor() fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor := model.Actor{
			UserID: utils.CopyString(strings.TrimSpace(c.Get(ActorIDHeader))),
			OrgID:  utils.CopyString(strings.TrimSpace(c.Get(OrgIDHeader))),
		}
		if actor.UserID == "" || actor.OrgID == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "actor headers are required")
		}
		c.Locals(ActorLocalKey, actor)
		return c.Next()
	}
}

// ActorFrom returns the actor stored by Actor, or the zero Actor.
func ActorFrom(c *fiber.Ctx) model.Actor {
	actor, _ := c.Locals(ActorLocalKey).(model.Actor)
	return actor
}
