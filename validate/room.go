package validate

import (
	"hostel_manager/model"

	"github.com/gofiber/fiber/v2"
)

func RoomInput() fiber.Handler { return body[model.RoomInput]() }
