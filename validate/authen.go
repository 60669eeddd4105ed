package validate

import (
	"hostel_manager/model"

	"github.com/gofiber/fiber/v2"
)

func Register() fiber.Handler { return body[model.RegisterInput]() }

func Login() fiber.Handler { return body[model.LoginInput]() }
