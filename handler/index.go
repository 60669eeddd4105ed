package handler

import (
	"errors"

	"hostel_manager/config"
	"hostel_manager/constants"
	"hostel_manager/helper"
	"hostel_manager/middleware"
	"hostel_manager/model"
	"hostel_manager/service"
	"hostel_manager/utils"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Handler struct {
	DB  *gorm.DB
	Svc *service.Service
	Cfg *config.Config
	Log *zap.Logger
	Hub *helper.OccupancyHub
}

func New(db *gorm.DB, svc *service.Service, cfg *config.Config, log *zap.Logger, hub *helper.OccupancyHub) *Handler {
	return &Handler{DB: db, Svc: svc, Cfg: cfg, Log: log, Hub: hub}
}

// respondError maps service errors onto HTTP statuses.
func (h *Handler) respondError(c *fiber.Ctx, err error) error {
	switch {
	case service.IsNotFound(err):
		return utils.ErrorResponse(c, fiber.StatusNotFound, constants.NOT_FOUND, err)
	case service.IsValidation(err):
		return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.INVALID_INPUT, err)
	case service.IsConflict(err), service.IsCapacity(err):
		return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.REQUEST_REJECTED, err)
	}
	h.Log.Error("request failed",
		zap.String("method", c.Method()),
		zap.String("path", c.Path()),
		zap.Any("requestId", c.Locals("requestId")),
		zap.Error(err))
	return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, errors.New("internal error"))
}

func caller(c *fiber.Ctx) model.Caller {
	caller, _ := middleware.GetCaller(c)
	return caller
}

func isAdmin(c *fiber.Ctx) bool {
	return caller(c).Role == constants.ROLE_ADMIN
}

// ownStudent resolves the calling student's record, creating it on first use.
func (h *Handler) ownStudent(c *fiber.Ctx) (*model.Student, error) {
	return h.Svc.Students.EnsureStudentForUser(c.UserContext(), caller(c).UserID)
}
