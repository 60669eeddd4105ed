package middleware

import (
	"errors"
	"strings"

	"hostel_manager/constants"
	"hostel_manager/helper"
	"hostel_manager/model"
	"hostel_manager/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const (
	callerKey       = "caller"
	RequestIDHeader = "X-Request-ID"
)

// Protected accepts the token from the access_token cookie or an
// "Authorization: Bearer" header and stores the caller in c.Locals.
func Protected(secret []byte) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := c.Cookies("access_token")
		if token == "" {
			auth := c.Get(fiber.HeaderAuthorization)
			if strings.HasPrefix(auth, "Bearer ") {
				token = strings.TrimPrefix(auth, "Bearer ")
			}
		}
		if token == "" {
			return utils.ErrorResponse(c, fiber.StatusUnauthorized, constants.MISSING_TOKEN, errors.New("no token"))
		}

		caller, err := helper.ParseToken(secret, token)
		if err != nil {
			return utils.ErrorResponse(c, fiber.StatusUnauthorized, constants.INVALID_TOKEN, err)
		}

		c.Locals(callerKey, caller)
		return c.Next()
	}
}

// RequireRole must run after Protected.
func RequireRole(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		caller, ok := GetCaller(c)
		if !ok {
			return utils.ErrorResponse(c, fiber.StatusUnauthorized, constants.MISSING_TOKEN, errors.New("no caller"))
		}
		for _, r := range roles {
			if caller.Role == r {
				return c.Next()
			}
		}
		return utils.ErrorResponse(c, fiber.StatusForbidden, constants.NOT_PERMISSION, errors.New("role "+caller.Role+" not allowed"))
	}
}

func GetCaller(c *fiber.Ctx) (model.Caller, bool) {
	caller, ok := c.Locals(callerKey).(model.Caller)
	return caller, ok
}

// RequestID echoes the caller's X-Request-ID or generates one.
func RequestID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Get(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Locals("requestId", id)
		c.Set(RequestIDHeader, id)
		return c.Next()
	}
}
