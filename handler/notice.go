package handler

import (
	"errors"
	"strings"

	"hostel_manager/constants"
	"hostel_manager/model"
	"hostel_manager/service"
	"hostel_manager/utils"
	"hostel_manager/validate"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// GetNotices returns notices newest first, paged by ?limit&page.
func (h *Handler) GetNotices(c *fiber.Ctx) error {
	var page model.Pagination
	if err := c.QueryParser(&page); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.INVALID_INPUT, err)
	}
	q := h.DB.WithContext(c.UserContext()).Model(&model.Notice{}).Session(&gorm.Session{})
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return h.respondError(c, err)
	}

	var notices []model.Notice
	err := utils.ApplyPagination(q, page.Limit, page.Page).
		Preload("CreatedBy").Order("created_at DESC").Order("id DESC").Find(&notices).Error
	if err != nil {
		return h.respondError(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, &model.ResponseCustom{
		Rows:       notices,
		Limit:      page.Limit,
		Page:       page.Page,
		TotalCount: total,
	})
}

func (h *Handler) CreateNotice(c *fiber.Ctx) error {
	input := c.Locals(validate.InputKey).(model.NoticeInput)
	author := caller(c).UserID
	notice := model.Notice{
		Title:       strings.TrimSpace(input.Title),
		Content:     strings.TrimSpace(input.Content),
		CreatedByID: &author,
	}
	if notice.Title == "" || notice.Content == "" {
		return h.respondError(c, &service.ValidationError{Field: "title", Message: "title and content are required"})
	}
	if err := h.DB.WithContext(c.UserContext()).Create(&notice).Error; err != nil {
		return h.respondError(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusCreated, notice)
}

func (h *Handler) EditNotice(c *fiber.Ctx) error {
	input := c.Locals(validate.InputKey).(model.NoticeInput)
	id := validate.ID(c, "id")
	db := h.DB.WithContext(c.UserContext())

	var notice model.Notice
	if err := db.First(&notice, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return h.respondError(c, &service.NotFoundError{Entity: "notice", ID: id})
		}
		return h.respondError(c, err)
	}
	notice.Title = strings.TrimSpace(input.Title)
	notice.Content = strings.TrimSpace(input.Content)
	if notice.Title == "" || notice.Content == "" {
		return h.respondError(c, &service.ValidationError{Field: "title", Message: "title and content are required"})
	}
	if err := db.Save(&notice).Error; err != nil {
		return h.respondError(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, notice)
}

func (h *Handler) DeleteNotice(c *fiber.Ctx) error {
	id := validate.ID(c, "id")
	res := h.DB.WithContext(c.UserContext()).Delete(&model.Notice{}, id)
	if res.Error != nil {
		return h.respondError(c, res.Error)
	}
	if res.RowsAffected == 0 {
		return h.respondError(c, &service.NotFoundError{Entity: "notice", ID: id})
	}
	return utils.SuccessResponse(c, fiber.StatusOK, nil)
}
