package validate

import (
	"strings"

	"hostel_manager/constants"
	"hostel_manager/model"
	"hostel_manager/utils"

	"github.com/gofiber/fiber/v2"
)

func CreateMaintenance() fiber.Handler { return body[model.CreateMaintenanceInput]() }

func UpdateMaintenance() fiber.Handler { return body[model.UpdateMaintenanceInput]() }

func MaintenanceFilter() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var filter model.MaintenanceFilter
		var err error
		if filter.RoomID, err = optionalID(c, "roomId"); err != nil {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.INVALID_INPUT, err)
		}
		if raw := c.Query("status"); raw != "" {
			status := model.MaintenanceStatus(strings.ToUpper(raw))
			switch status {
			case model.MaintenancePending, model.MaintenanceInProgress, model.MaintenanceCompleted, model.MaintenanceCancelled:
			default:
				return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.INVALID_INPUT, fiber.NewError(fiber.StatusBadRequest, "unknown status "+raw))
			}
			filter.Status = &status
		}
		c.Locals(FilterKey, filter)
		return c.Next()
	}
}
