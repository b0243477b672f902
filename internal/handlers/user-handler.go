package handlers

import (
	"github.com/chngmn/Quizly-server/internal/middleware"
	"github.com/chngmn/Quizly-server/internal/service"
	"github.com/gofiber/fiber/v3"
)

type UserHandler struct {
	userService *service.UserService
}

func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

func (h *UserHandler) RegisterRoutes(app *fiber.App, requireAuth fiber.Handler) {
	userGroup := app.Group("/api/user", requireAuth)
	userGroup.Get("/profile", h.GetProfile)
	userGroup.Put("/profile", h.UpdateProfile)
	userGroup.Put("/password", h.ChangePassword)
	userGroup.Delete("/", h.DeleteAccount)
}

func (h *UserHandler) GetProfile(c fiber.Ctx) error {
	profile, err := h.userService.GetProfile(c.Context(), middleware.UserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(profile)
}

type updateProfileRequest struct {
	Nickname           *string `json:"nickname" validate:"omitempty,min=1,max=30"`
	Gender             *string `json:"gender"`
	School             *string `json:"school"`
	ProfileImage       *string `json:"profileImage"`
	MarketingAgreement *bool   `json:"marketingAgreement"`
}

func (h *UserHandler) UpdateProfile(c fiber.Ctx) error {
	var req updateProfileRequest
	if err := parseBody(c, &req); err != nil {
		return respondError(c, err)
	}

	profile, err := h.userService.UpdateProfile(c.Context(), middleware.UserID(c), service.ProfileUpdate{
		Nickname:           req.Nickname,
		Gender:             req.Gender,
		School:             req.School,
		ProfileImage:       req.ProfileImage,
		MarketingAgreement: req.MarketingAgreement,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(profile)
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required"`
}

func (h *UserHandler) ChangePassword(c fiber.Ctx) error {
	var req changePasswordRequest
	if err := parseBody(c, &req); err != nil {
		return respondError(c, err)
	}

	if err := h.userService.ChangePassword(c.Context(), middleware.UserID(c), req.CurrentPassword, req.NewPassword); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Password changed"})
}

func (h *UserHandler) DeleteAccount(c fiber.Ctx) error {
	if err := h.userService.DeleteAccount(c.Context(), middleware.UserID(c)); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Account deleted"})
}
