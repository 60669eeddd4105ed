package handler

import (
	"errors"
	"strings"
	"time"

	"hostel_manager/constants"
	"hostel_manager/helper"
	"hostel_manager/model"
	"hostel_manager/utils"
	"hostel_manager/validate"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func (h *Handler) setTokenCookie(c *fiber.Ctx, token model.TokenData) {
	c.Cookie(&fiber.Cookie{
		Name:     "access_token",
		Value:    token.AccessToken,
		HTTPOnly: true,
		SameSite: "Lax",
		Secure:   h.Cfg.AppEnv == "production",
		Path:     "/",
		Expires:  time.Unix(token.ExpiresAt, 0),
	})
}

func (h *Handler) issue(c *fiber.Ctx, user model.User, studentID *uint, message string) error {
	token, err := helper.GenerateAccessToken([]byte(h.Cfg.JWTSecret), model.Caller{UserID: user.ID, Email: user.Email, Role: user.Role}, h.Cfg.JWTTTL)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}
	h.setTokenCookie(c, token)
	return utils.SuccessResponse(c, fiber.StatusOK, model.AuthResponse{
		Token:     token.AccessToken,
		Message:   message,
		Role:      user.Role,
		UserID:    user.ID,
		StudentID: studentID,
		ExpiresAt: token.ExpiresAt,
	})
}

// Register signs up a student. The user and the student record are created together.
func (h *Handler) Register(c *fiber.Ctx) error {
	input, ok := c.Locals(validate.InputKey).(model.RegisterInput)
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.ERROR_PARSE_DATA_TO_LOCALS, errors.New("invalid input"))
	}
	if input.Role != "" && input.Role != constants.ROLE_STUDENT {
		return utils.ErrorResponse(c, fiber.StatusForbidden, constants.NOT_ADMIN, errors.New("only students can self-register"))
	}

	hash, err := helper.HashPassword(input.Password)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}
	user := model.User{
		Name:     strings.TrimSpace(input.Name),
		Email:    strings.ToLower(strings.TrimSpace(input.Email)),
		Password: hash,
		Role:     constants.ROLE_STUDENT,
	}
	var student model.Student
	err = h.DB.WithContext(c.UserContext()).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&model.User{}).Where("email = ?", user.Email).Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return gorm.ErrDuplicatedKey
		}
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		student = model.Student{UserID: user.ID}
		return tx.Create(&student).Error
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.EMAIL_ALREADY_EXISTS, errors.New("email already exists"))
	}
	if err != nil {
		return h.respondError(c, err)
	}

	h.Log.Info("student registered", zap.Uint("userId", user.ID), zap.Uint("studentId", student.ID))
	return h.issue(c, user, &student.ID, "Registration successful")
}

func (h *Handler) Login(c *fiber.Ctx) error {
	input, ok := c.Locals(validate.InputKey).(model.LoginInput)
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.MISSING_LOGIN_INPUT, errors.New("email and password are required"))
	}

	var user model.User
	err := h.DB.WithContext(c.UserContext()).Where("email = ?", strings.ToLower(strings.TrimSpace(input.Email))).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) || (err == nil && !helper.CheckPasswordHash(input.Password, user.Password)) {
		return utils.ErrorResponse(c, fiber.StatusUnauthorized, constants.INVALID_CREDENTIALS, errors.New("invalid credentials"))
	}
	if err != nil {
		return h.respondError(c, err)
	}

	var studentID *uint
	if user.Role == constants.ROLE_STUDENT {
		student, err := h.Svc.Students.EnsureStudentForUser(c.UserContext(), user.ID)
		if err != nil {
			return h.respondError(c, err)
		}
		studentID = &student.ID
	}
	return h.issue(c, user, studentID, "Login successful")
}

func (h *Handler) Logout(c *fiber.Ctx) error {
	c.ClearCookie("access_token")
	return utils.SuccessResponse(c, fiber.StatusOK, nil)
}

func (h *Handler) Me(c *fiber.Ctx) error {
	var user model.User
	if err := h.DB.WithContext(c.UserContext()).First(&user, caller(c).UserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.ErrorResponse(c, fiber.StatusUnauthorized, constants.INVALID_TOKEN, errors.New("user no longer exists"))
		}
		return h.respondError(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, model.UserDisplay{ID: user.ID, Name: user.Name, Email: user.Email, Role: user.Role})
}
