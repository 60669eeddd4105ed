package handler

import (
	"hostel_manager/utils"
	"hostel_manager/validate"

	"github.com/gofiber/fiber/v2"
)

// GetStudents backfills missing student records before listing.
func (h *Handler) GetStudents(c *fiber.Ctx) error {
	students, err := h.Svc.Students.EnsureStudentsForAllUsers(c.UserContext())
	if err != nil {
		return h.respondError(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, students)
}

func (h *Handler) GetUnhousedStudents(c *fiber.Ctx) error {
	students, err := h.Svc.Students.ListUnhousedStudents(c.UserContext())
	if err != nil {
		return h.respondError(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, students)
}

func (h *Handler) GetStudentById(c *fiber.Ctx) error {
	student, err := h.Svc.Students.GetStudent(c.UserContext(), validate.ID(c, "studentId"))
	if err != nil {
		return h.respondError(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, student)
}

func (h *Handler) CreateStudentForUser(c *fiber.Ctx) error {
	ctx := c.UserContext()
	student, err := h.Svc.Students.EnsureStudentForUser(ctx, validate.ID(c, "userId"))
	if err != nil {
		return h.respondError(c, err)
	}
	view, err := h.Svc.Students.GetStudent(ctx, student.ID)
	if err != nil {
		return h.respondError(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, view)
}

func (h *Handler) DeleteStudent(c *fiber.Ctx) error {
	if err := h.Svc.Students.DeleteStudent(c.UserContext(), validate.ID(c, "studentId")); err != nil {
		return h.respondError(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, nil)
}

func (h *Handler) UnassignStudent(c *fiber.Ctx) error {
	ctx := c.UserContext()
	id := validate.ID(c, "studentId")
	if err := h.Svc.Students.UnassignStudent(ctx, id); err != nil {
		return h.respondError(c, err)
	}
	view, err := h.Svc.Students.GetStudent(ctx, id)
	if err != nil {
		return h.respondError(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, view)
}

func (h *Handler) StudentProfile(c *fiber.Ctx) error {
	view, err := h.Svc.Students.Profile(c.UserContext(), caller(c))
	if err != nil {
		return h.respondError(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, view)
}
