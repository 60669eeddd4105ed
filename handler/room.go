package handler

import (
	"hostel_manager/model"
	"hostel_manager/utils"
	"hostel_manager/validate"

	"github.com/gofiber/fiber/v2"
)

func (h *Handler) GetRooms(c *fiber.Ctx) error {
	rooms, err := h.Svc.Rooms.ListRooms(c.UserContext())
	if err != nil {
		return h.respondError(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, rooms)
}

func (h *Handler) GetRoomById(c *fiber.Ctx) error {
	room, err := h.Svc.Rooms.GetRoom(c.UserContext(), validate.ID(c, "roomId"))
	if err != nil {
		return h.respondError(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, room)
}

func (h *Handler) GetRoomOccupancy(c *fiber.Ctx) error {
	occ, err := h.Svc.Rooms.GetOccupancy(c.UserContext(), validate.ID(c, "roomId"))
	if err != nil {
		return h.respondError(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, occ)
}

func (h *Handler) CreateRoom(c *fiber.Ctx) error {
	input := c.Locals(validate.InputKey).(model.RoomInput)
	room, err := h.Svc.Rooms.CreateRoom(c.UserContext(), input.RoomNumber, input.Capacity)
	if err != nil {
		return h.respondError(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusCreated, room)
}

func (h *Handler) EditRoom(c *fiber.Ctx) error {
	input := c.Locals(validate.InputKey).(model.RoomInput)
	room, err := h.Svc.Rooms.UpdateRoom(c.UserContext(), validate.ID(c, "roomId"), input.RoomNumber, input.Capacity)
	if err != nil {
		return h.respondError(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, room)
}

func (h *Handler) DeleteRoom(c *fiber.Ctx) error {
	if err := h.Svc.Rooms.DeleteRoom(c.UserContext(), validate.ID(c, "roomId")); err != nil {
		return h.respondError(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, nil)
}

func (h *Handler) AllocateRoom(c *fiber.Ctx) error {
	ctx := c.UserContext()
	roomID := validate.ID(c, "roomId")
	if _, err := h.Svc.Allocation.Allocate(ctx, roomID, validate.ID(c, "studentId")); err != nil {
		return h.respondError(c, err)
	}
	room, err := h.Svc.Rooms.GetRoom(ctx, roomID)
	if err != nil {
		return h.respondError(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, room)
}

func (h *Handler) DeallocateRoom(c *fiber.Ctx) error {
	ctx := c.UserContext()
	roomID := validate.ID(c, "roomId")
	if _, err := h.Svc.Allocation.Deallocate(ctx, roomID); err != nil {
		return h.respondError(c, err)
	}
	room, err := h.Svc.Rooms.GetRoom(ctx, roomID)
	if err != nil {
		return h.respondError(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, room)
}

func (h *Handler) DeallocateStudent(c *fiber.Ctx) error {
	ctx := c.UserContext()
	roomID := validate.ID(c, "roomId")
	if _, err := h.Svc.Allocation.DeallocateStudent(ctx, roomID, validate.ID(c, "studentId")); err != nil {
		return h.respondError(c, err)
	}
	room, err := h.Svc.Rooms.GetRoom(ctx, roomID)
	if err != nil {
		return h.respondError(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, room)
}
