package validate

import (
	"errors"
	"fmt"
	"strconv"

	"hostel_manager/constants"
	"hostel_manager/utils"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// Locals keys written by this package.
const (
	InputKey  = "input"
	FilterKey = "filter"
)

var validate = validator.New()

func parseID(raw string) (uint, error) {
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || v == 0 {
		return 0, fmt.Errorf("%q is not a positive id", raw)
	}
	return uint(v), nil
}

// GetById parses each named route param as an id and stores it in c.Locals under the same name.
func GetById(keys ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		for _, key := range keys {
			id, err := parseID(c.Params(key))
			if err != nil {
				return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.DATA_INPUT_IS_NOT_NUMBER, fmt.Errorf("%s: %w", key, err))
			}
			c.Locals(key, id)
		}
		return c.Next()
	}
}

// ID reads an id stored by GetById.
func ID(c *fiber.Ctx, key string) uint {
	id, _ := c.Locals(key).(uint)
	return id
}

// body parses and validates the JSON body into T and stores it under InputKey.
func body[T any]() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var input T
		if err := c.BodyParser(&input); err != nil {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.INVALID_INPUT, err)
		}
		if err := validate.Struct(&input); err != nil {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.INVALID_INPUT, err)
		}
		c.Locals(InputKey, input)
		return c.Next()
	}
}

// optionalID parses an optional query parameter.
func optionalID(c *fiber.Ctx, key string) (*uint, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	id, err := parseID(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", key, err)
	}
	return &id, nil
}

func requiredID(c *fiber.Ctx, key string) (uint, error) {
	id, err := optionalID(c, key)
	if err != nil {
		return 0, err
	}
	if id == nil {
		return 0, errors.New(key + " is required")
	}
	return *id, nil
}
