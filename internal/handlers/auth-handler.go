package handlers

import (
	"github.com/chngmn/Quizly-server/internal/service"
	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type AuthURLProvider interface {
	GetAuthURL(state string) string
}

type AuthHandler struct {
	userService *service.UserService
	kakao       AuthURLProvider
}

func NewAuthHandler(userService *service.UserService, kakao AuthURLProvider) *AuthHandler {
	return &AuthHandler{
		userService: userService,
		kakao:       kakao,
	}
}

func (h *AuthHandler) RegisterRoutes(app *fiber.App) {
	authGroup := app.Group("/api/auth")
	authGroup.Post("/signup", h.Signup)
	authGroup.Post("/login", h.Login)
	authGroup.Get("/kakao/url", h.KakaoAuthURL)
	authGroup.Post("/kakao", h.KakaoLogin)
	authGroup.Post("/kakao/complete-signup", h.CompleteKakaoSignup)
}

type signupRequest struct {
	Email              string `json:"email" validate:"required"`
	Nickname           string `json:"nickname" validate:"required"`
	Password           string `json:"password" validate:"required"`
	Gender             string `json:"gender"`
	School             string `json:"school"`
	MarketingAgreement bool   `json:"marketingAgreement"`
}

func (h *AuthHandler) Signup(c fiber.Ctx) error {
	var req signupRequest
	if err := parseBody(c, &req); err != nil {
		registrationAttempts.WithLabelValues("failure", "local").Inc()
		return respondError(c, err)
	}

	res, err := h.userService.Signup(c.Context(), service.SignupInput{
		Email:              req.Email,
		Nickname:           req.Nickname,
		Password:           req.Password,
		Gender:             req.Gender,
		School:             req.School,
		MarketingAgreement: req.MarketingAgreement,
	})
	registrationAttempts.WithLabelValues(outcome(err), "local").Inc()
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Signup successful",
		"token":   res.Token,
		"user":    res.User,
	})
}

type loginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func (h *AuthHandler) Login(c fiber.Ctx) error {
	var req loginRequest
	if err := parseBody(c, &req); err != nil {
		loginAttempts.WithLabelValues("failure", "local").Inc()
		return respondError(c, err)
	}

	res, err := h.userService.Login(c.Context(), req.Email, req.Password)
	loginAttempts.WithLabelValues(outcome(err), "local").Inc()
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Login successful",
		"token":   res.Token,
		"user":    res.User,
	})
}

func (h *AuthHandler) KakaoAuthURL(c fiber.Ctx) error {
	state := uuid.NewString()
	return c.JSON(fiber.Map{
		"url":   h.kakao.GetAuthURL(state),
		"state": state,
	})
}

type kakaoLoginRequest struct {
	Code string `json:"code" validate:"required"`
}

func (h *AuthHandler) KakaoLogin(c fiber.Ctx) error {
	var req kakaoLoginRequest
	if err := parseBody(c, &req); err != nil {
		loginAttempts.WithLabelValues("failure", "kakao").Inc()
		return respondError(c, err)
	}

	res, err := h.userService.KakaoLogin(c.Context(), req.Code)
	loginAttempts.WithLabelValues(outcome(err), "kakao").Inc()
	if err != nil {
		return respondError(c, err)
	}

	if res.NeedsAdditionalInfo {
		return c.JSON(fiber.Map{
			"needsAdditionalInfo": true,
			"kakaoId":             res.KakaoID,
			"nickname":            res.Nickname,
			"profileImage":        res.ProfileImage,
			"refreshToken":        res.RefreshToken,
		})
	}
	return c.JSON(fiber.Map{
		"message": "Login successful",
		"token":   res.Auth.Token,
		"user":    res.Auth.User,
	})
}

type completeSignupRequest struct {
	KakaoID            string `json:"kakaoId" validate:"required"`
	Nickname           string `json:"nickname" validate:"required"`
	Gender             string `json:"gender" validate:"required"`
	School             string `json:"school" validate:"required"`
	MarketingAgreement *bool  `json:"marketingAgreement"`
}

func (h *AuthHandler) CompleteKakaoSignup(c fiber.Ctx) error {
	var req completeSignupRequest
	if err := parseBody(c, &req); err != nil {
		registrationAttempts.WithLabelValues("failure", "kakao").Inc()
		return respondError(c, err)
	}

	res, err := h.userService.CompleteKakaoSignup(c.Context(), service.CompleteSignupInput{
		KakaoID:            req.KakaoID,
		Nickname:           req.Nickname,
		Gender:             req.Gender,
		School:             req.School,
		MarketingAgreement: req.MarketingAgreement,
	})
	registrationAttempts.WithLabelValues(outcome(err), "kakao").Inc()
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Signup completed",
		"token":   res.Token,
		"user":    res.User,
	})
}
