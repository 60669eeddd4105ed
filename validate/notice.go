package validate

import (
	"hostel_manager/model"

	"github.com/gofiber/fiber/v2"
)

func Notice() fiber.Handler { return body[model.NoticeInput]() }
