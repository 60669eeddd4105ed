package validate

import (
	"strings"

	"hostel_manager/constants"
	"hostel_manager/model"
	"hostel_manager/utils"

	"github.com/gofiber/fiber/v2"
)

type CreateBookingInput struct {
	StudentID uint
	RoomID    uint
}

// CreateBooking reads ?studentId&roomId.
func CreateBooking() fiber.Handler {
	return func(c *fiber.Ctx) error {
		studentID, err := requiredID(c, "studentId")
		if err != nil {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.INVALID_INPUT, err)
		}
		roomID, err := requiredID(c, "roomId")
		if err != nil {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.INVALID_INPUT, err)
		}
		c.Locals(InputKey, CreateBookingInput{StudentID: studentID, RoomID: roomID})
		return c.Next()
	}
}

// ResolveBooking reads ?status&adminRemarks.
func ResolveBooking() fiber.Handler {
	return func(c *fiber.Ctx) error {
		input := model.ResolveBookingInput{
			Status:       model.BookingStatus(strings.ToUpper(strings.TrimSpace(c.Query("status")))),
			AdminRemarks: utils.StringPtr(c.Query("adminRemarks")),
		}
		if err := validate.Struct(&input); err != nil {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.INVALID_INPUT, err)
		}
		c.Locals(InputKey, input)
		return c.Next()
	}
}

// BookingFilter reads the optional studentId, roomId and status filters.
func BookingFilter() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var filter model.BookingRequestFilter
		var err error
		if filter.StudentID, err = optionalID(c, "studentId"); err != nil {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.INVALID_INPUT, err)
		}
		if filter.RoomID, err = optionalID(c, "roomId"); err != nil {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.INVALID_INPUT, err)
		}
		if raw := c.Query("status"); raw != "" {
			status := model.BookingStatus(strings.ToUpper(raw))
			if !status.Valid() {
				return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.INVALID_INPUT, fiber.NewError(fiber.StatusBadRequest, "unknown status "+raw))
			}
			filter.Status = &status
		}
		c.Locals(FilterKey, filter)
		return c.Next()
	}
}
