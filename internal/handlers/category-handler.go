package handlers

import (
	"github.com/chngmn/Quizly-server/internal/service"
	"github.com/gofiber/fiber/v3"
)

type CategoryHandler struct {
	categoryService *service.CategoryService
}

func NewCategoryHandler(categoryService *service.CategoryService) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService}
}

func (h *CategoryHandler) RegisterRoutes(app *fiber.App) {
	app.Get("/api/majors", h.GetMajors)
	app.Get("/api/majors/quiz-counts", h.GetQuizCounts)
	app.Get("/api/subjects/:majorId", h.GetSubjects)
}

func (h *CategoryHandler) GetMajors(c fiber.Ctx) error {
	majors, err := h.categoryService.Majors(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(majors)
}

func (h *CategoryHandler) GetQuizCounts(c fiber.Ctx) error {
	counts, err := h.categoryService.QuizCounts(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(counts)
}

func (h *CategoryHandler) GetSubjects(c fiber.Ctx) error {
	subjects, err := h.categoryService.SubjectsByMajor(c.Context(), c.Params("majorId"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(subjects)
}
