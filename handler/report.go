package handler

import (
	"fmt"
	"time"

	"hostel_manager/utils"

	"github.com/gofiber/fiber/v2"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// RoomReport downloads the current occupancy of every room as an XLSX workbook.
func (h *Handler) RoomReport(c *fiber.Ctx) error {
	rooms, err := h.Svc.Rooms.ListRooms(c.UserContext())
	if err != nil {
		return h.respondError(c, err)
	}
	now := time.Now()
	data, err := utils.BuildOccupancyReport(rooms, now)
	if err != nil {
		return h.respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, xlsxContentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="room-occupancy-%s.xlsx"`, now.Format("20060102")))
	return c.Status(fiber.StatusOK).Send(data)
}
