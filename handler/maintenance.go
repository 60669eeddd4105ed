package handler

import (
	"errors"
	"strings"
	"time"

	"hostel_manager/constants"
	"hostel_manager/model"
	"hostel_manager/service"
	"hostel_manager/utils"
	"hostel_manager/validate"

	"github.com/gofiber/fiber/v2"
	"github.com/jinzhu/copier"
	"gorm.io/gorm"
)

func maintenanceView(r model.MaintenanceRequest) (model.MaintenanceView, error) {
	var v model.MaintenanceView
	if err := copier.Copy(&v, &r); err != nil {
		return v, err
	}
	v.RoomNumber = r.Room.RoomNumber
	v.StudentName = r.Student.User.Name
	return v, nil
}

func (h *Handler) loadMaintenance(c *fiber.Ctx, id uint) (*model.MaintenanceRequest, error) {
	var r model.MaintenanceRequest
	err := h.DB.WithContext(c.UserContext()).Preload("Room").Preload("Student.User").First(&r, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &service.NotFoundError{Entity: "maintenance request", ID: id}
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// CreateMaintenanceRequest files a ticket for the caller's own room.
func (h *Handler) CreateMaintenanceRequest(c *fiber.Ctx) error {
	input := c.Locals(validate.InputKey).(model.CreateMaintenanceInput)
	self, err := h.ownStudent(c)
	if err != nil {
		return h.respondError(c, err)
	}
	if self.RoomID == nil || *self.RoomID != input.RoomID {
		return h.respondError(c, &service.ValidationError{Field: "roomId", Message: "you can only report issues for your own room"})
	}

	r := model.MaintenanceRequest{
		RoomID:      input.RoomID,
		StudentID:   self.ID,
		Description: strings.TrimSpace(input.Description),
		Status:      model.MaintenancePending,
	}
	if r.Description == "" {
		return h.respondError(c, &service.ValidationError{Field: "description", Message: "description is required"})
	}
	if err := h.DB.WithContext(c.UserContext()).Create(&r).Error; err != nil {
		return h.respondError(c, err)
	}
	created, err := h.loadMaintenance(c, r.ID)
	if err != nil {
		return h.respondError(c, err)
	}
	view, err := maintenanceView(*created)
	if err != nil {
		return h.respondError(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusCreated, view)
}

func (h *Handler) GetMaintenanceRequests(c *fiber.Ctx) error {
	filter := c.Locals(validate.FilterKey).(model.MaintenanceFilter)
	q := h.DB.WithContext(c.UserContext()).Preload("Room").Preload("Student.User")
	if !isAdmin(c) {
		self, err := h.ownStudent(c)
		if err != nil {
			return h.respondError(c, err)
		}
		q = q.Where("student_id = ?", self.ID)
	}
	if filter.RoomID != nil {
		q = q.Where("room_id = ?", *filter.RoomID)
	}
	if filter.Status != nil {
		q = q.Where("status = ?", *filter.Status)
	}

	var reqs []model.MaintenanceRequest
	if err := q.Order("created_at DESC").Order("id DESC").Find(&reqs).Error; err != nil {
		return h.respondError(c, err)
	}
	out := make([]model.MaintenanceView, 0, len(reqs))
	for _, r := range reqs {
		v, err := maintenanceView(r)
		if err != nil {
			return h.respondError(c, err)
		}
		out = append(out, v)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, out)
}

func (h *Handler) GetMaintenanceRequestById(c *fiber.Ctx) error {
	r, err := h.loadMaintenance(c, validate.ID(c, "id"))
	if err != nil {
		return h.respondError(c, err)
	}
	if !isAdmin(c) {
		self, err := h.ownStudent(c)
		if err != nil {
			return h.respondError(c, err)
		}
		if self.ID != r.StudentID {
			return utils.ErrorResponse(c, fiber.StatusForbidden, constants.NOT_PERMISSION, errors.New("not your maintenance request"))
		}
	}
	view, err := maintenanceView(*r)
	if err != nil {
		return h.respondError(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, view)
}

// UpdateMaintenanceRequest sets status and remarks. COMPLETED stamps resolved_at.
func (h *Handler) UpdateMaintenanceRequest(c *fiber.Ctx) error {
	input := c.Locals(validate.InputKey).(model.UpdateMaintenanceInput)
	r, err := h.loadMaintenance(c, validate.ID(c, "id"))
	if err != nil {
		return h.respondError(c, err)
	}

	updates := map[string]any{"status": input.Status, "remarks": input.Remarks}
	if input.Status == model.MaintenanceCompleted {
		updates["resolved_at"] = time.Now()
	}
	if err := h.DB.WithContext(c.UserContext()).Model(r).Updates(updates).Error; err != nil {
		return h.respondError(c, err)
	}
	updated, err := h.loadMaintenance(c, r.ID)
	if err != nil {
		return h.respondError(c, err)
	}
	view, err := maintenanceView(*updated)
	if err != nil {
		return h.respondError(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, view)
}

func (h *Handler) DeleteMaintenanceRequest(c *fiber.Ctx) error {
	id := validate.ID(c, "id")
	res := h.DB.WithContext(c.UserContext()).Delete(&model.MaintenanceRequest{}, id)
	if res.Error != nil {
		return h.respondError(c, res.Error)
	}
	if res.RowsAffected == 0 {
		return h.respondError(c, &service.NotFoundError{Entity: "maintenance request", ID: id})
	}
	return utils.SuccessResponse(c, fiber.StatusOK, nil)
}
