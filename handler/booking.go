package handler

import (
	"errors"

	"hostel_manager/constants"
	"hostel_manager/model"
	"hostel_manager/utils"
	"hostel_manager/validate"

	"github.com/gofiber/fiber/v2"
)

// CreateBookingRequest files a request. Students may only file for themselves.
func (h *Handler) CreateBookingRequest(c *fiber.Ctx) error {
	input := c.Locals(validate.InputKey).(validate.CreateBookingInput)
	if !isAdmin(c) {
		self, err := h.ownStudent(c)
		if err != nil {
			return h.respondError(c, err)
		}
		if self.ID != input.StudentID {
			return utils.ErrorResponse(c, fiber.StatusForbidden, constants.NOT_PERMISSION, errors.New("students can only request rooms for themselves"))
		}
	}
	req, err := h.Svc.Bookings.CreateRequest(c.UserContext(), input.StudentID, input.RoomID)
	if err != nil {
		return h.respondError(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusCreated, req)
}

// GetBookingRequests lists all requests for admins and only their own for students.
func (h *Handler) GetBookingRequests(c *fiber.Ctx) error {
	filter := c.Locals(validate.FilterKey).(model.BookingRequestFilter)
	if !isAdmin(c) {
		self, err := h.ownStudent(c)
		if err != nil {
			return h.respondError(c, err)
		}
		filter.StudentID = &self.ID
	}
	reqs, err := h.Svc.Bookings.ListRequests(c.UserContext(), filter)
	if err != nil {
		return h.respondError(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, reqs)
}

func (h *Handler) GetBookingRequestById(c *fiber.Ctx) error {
	req, err := h.Svc.Bookings.GetRequest(c.UserContext(), validate.ID(c, "id"))
	if err != nil {
		return h.respondError(c, err)
	}
	if !isAdmin(c) {
		self, err := h.ownStudent(c)
		if err != nil {
			return h.respondError(c, err)
		}
		if self.ID != req.StudentID {
			return utils.ErrorResponse(c, fiber.StatusForbidden, constants.NOT_PERMISSION, errors.New("not your booking request"))
		}
	}
	return utils.SuccessResponse(c, fiber.StatusOK, req)
}

func (h *Handler) ResolveBookingRequest(c *fiber.Ctx) error {
	input := c.Locals(validate.InputKey).(model.ResolveBookingInput)
	req, err := h.Svc.Bookings.ResolveRequest(c.UserContext(), validate.ID(c, "id"), input.Status, input.AdminRemarks)
	if err != nil {
		return h.respondError(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, req)
}

func (h *Handler) CancelBookingRequest(c *fiber.Ctx) error {
	self, err := h.ownStudent(c)
	if err != nil {
		return h.respondError(c, err)
	}
	req, err := h.Svc.Bookings.CancelRequest(c.UserContext(), validate.ID(c, "id"), self.ID)
	if err != nil {
		return h.respondError(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, req)
}

func (h *Handler) DeleteBookingRequest(c *fiber.Ctx) error {
	if err := h.Svc.Bookings.DeleteRequest(c.UserContext(), validate.ID(c, "id")); err != nil {
		return h.respondError(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, nil)
}
