package handlers

import (
	"github.com/chngmn/Quizly-server/internal/middleware"
	"github.com/chngmn/Quizly-server/internal/service"
	"github.com/gofiber/fiber/v3"
)

type RecordHandler struct {
	recordService *service.RecordService
}

func NewRecordHandler(recordService *service.RecordService) *RecordHandler {
	return &RecordHandler{recordService: recordService}
}

func (h *RecordHandler) RegisterRoutes(app *fiber.App, requireAuth fiber.Handler) {
	recordGroup := app.Group("/api/records", requireAuth)
	recordGroup.Post("/", h.SubmitRecord)
	recordGroup.Get("/wrong-answers", h.GetWrongAnswers)
	recordGroup.Get("/solved-quizzes", h.GetSolvedQuizzes)
	recordGroup.Get("/total-quizzes-taken", h.GetTotalQuizzesTaken)
}

type submitRecordRequest struct {
	QuizID        string `json:"quizId" validate:"required"`
	IsCorrect     *bool  `json:"isCorrect" validate:"required"`
	UserAnswer    any    `json:"userAnswer"`
	CorrectAnswer any    `json:"correctAnswer"`
}

func (h *RecordHandler) SubmitRecord(c fiber.Ctx) error {
	var req submitRecordRequest
	if err := parseBody(c, &req); err != nil {
		return respondError(c, err)
	}

	record, err := h.recordService.Submit(c.Context(), middleware.UserID(c), req.QuizID, service.Submission{
		IsCorrect:     *req.IsCorrect,
		UserAnswer:    normalizeAnswer(req.UserAnswer),
		CorrectAnswer: normalizeAnswer(req.CorrectAnswer),
	})
	if err != nil {
		return respondError(c, err)
	}

	result := "wrong"
	if record.IsCorrect {
		result = "correct"
	}
	recordSubmissions.WithLabelValues(result).Inc()
	return c.JSON(record)
}

func (h *RecordHandler) GetWrongAnswers(c fiber.Ctx) error {
	answers, err := h.recordService.WrongAnswers(c.Context(), middleware.UserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(answers)
}

func (h *RecordHandler) GetSolvedQuizzes(c fiber.Ctx) error {
	solved, err := h.recordService.SolvedQuizzes(c.Context(), middleware.UserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(solved)
}

func (h *RecordHandler) GetTotalQuizzesTaken(c fiber.Ctx) error {
	total, err := h.recordService.TotalTaken(c.Context(), middleware.UserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"totalQuizzesTaken": total})
}
