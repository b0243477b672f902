package handlers

import (
	"encoding/json"
	"io"
	"mime/multipart"
	"strconv"
	"strings"

	"github.com/chngmn/Quizly-server/internal/middleware"
	"github.com/chngmn/Quizly-server/internal/service"
	"github.com/gofiber/fiber/v3"
)

type QuizHandler struct {
	quizService *service.QuizService
}

func NewQuizHandler(quizService *service.QuizService) *QuizHandler {
	return &QuizHandler{quizService: quizService}
}

func (h *QuizHandler) RegisterRoutes(app *fiber.App, requireAuth fiber.Handler) {
	quizGroup := app.Group("/api/quizzes")
	quizGroup.Get("/", h.ListQuizzes)
	quizGroup.Post("/", h.CreateQuiz, requireAuth)
	quizGroup.Get("/myquizzes", h.ListMyQuizzes, requireAuth)
	quizGroup.Get("/:id", h.GetQuiz)
	quizGroup.Put("/:id", h.UpdateQuiz, requireAuth)
	quizGroup.Delete("/:id", h.DeleteQuiz, requireAuth)
}

type createQuizRequest struct {
	Title       string   `json:"title" validate:"required"`
	Description string   `json:"description"`
	Major       string   `json:"major" validate:"required"`
	Subject     string   `json:"subject" validate:"required"`
	Type        string   `json:"type" validate:"required"`
	Content     string   `json:"content" validate:"required"`
	Options     []string `json:"options"`
	Answer      any      `json:"answer"`
	Explanation string   `json:"explanation"`
}

func (h *QuizHandler) CreateQuiz(c fiber.Ctx) error {
	var (
		req     createQuizRequest
		uploads []service.FileUpload
		err     error
	)
	if strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEMultipartForm) {
		req, uploads, err = parseMultipartQuiz(c)
		if err == nil {
			err = validateStruct(&req)
		}
	} else {
		err = parseBody(c, &req)
	}
	if err != nil {
		return respondError(c, err)
	}

	quiz, err := h.quizService.Create(c.Context(), middleware.UserID(c), service.CreateQuizInput{
		Title:       req.Title,
		Description: req.Description,
		Major:       req.Major,
		Subject:     req.Subject,
		Type:        req.Type,
		Content:     req.Content,
		Options:     req.Options,
		Answer:      normalizeAnswer(req.Answer),
		Explanation: req.Explanation,
	}, uploads)
	if err != nil {
		return respondError(c, err)
	}

	quizzesCreated.WithLabelValues(string(quiz.Type)).Inc()
	return c.Status(fiber.StatusCreated).JSON(quiz)
}

// parseMultipartQuiz reads the quiz fields and "files" parts of a multipart
// form. options and answer may arrive as JSON-encoded strings.
func parseMultipartQuiz(c fiber.Ctx) (createQuizRequest, []service.FileUpload, error) {
	var req createQuizRequest
	form, err := c.MultipartForm()
	if err != nil {
		return req, nil, &badRequest{msg: "Invalid multipart form"}
	}

	value := func(key string) string {
		if v := form.Value[key]; len(v) > 0 {
			return v[0]
		}
		return ""
	}
	req.Title = value("title")
	req.Description = value("description")
	req.Major = value("major")
	req.Subject = value("subject")
	req.Type = value("type")
	req.Content = value("content")
	req.Explanation = value("explanation")

	if raw := value("options"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &req.Options); err != nil {
			return req, nil, &badRequest{msg: "options must be a JSON array of strings"}
		}
	}
	if raw := value("answer"); raw != "" {
		req.Answer = raw
		if strings.HasPrefix(strings.TrimSpace(raw), "[") {
			var list []string
			if err := json.Unmarshal([]byte(raw), &list); err != nil {
				return req, nil, &badRequest{msg: "answer must be a string or a JSON array of strings"}
			}
			req.Answer = list
		}
	}

	uploads := make([]service.FileUpload, 0, len(form.File["files"]))
	for _, fh := range form.File["files"] {
		uploads = append(uploads, fileUpload(fh))
	}
	return req, uploads, nil
}

func fileUpload(fh *multipart.FileHeader) service.FileUpload {
	return service.FileUpload{
		Name:        fh.Filename,
		Size:        fh.Size,
		ContentType: fh.Header.Get(fiber.HeaderContentType),
		Open: func() (io.ReadCloser, error) {
			f, err := fh.Open()
			if err != nil {
				return nil, err
			}
			return f, nil
		},
	}
}

// normalizeAnswer turns a decoded JSON list of strings into []string.
func normalizeAnswer(answer any) any {
	list, ok := answer.([]any)
	if !ok {
		return answer
	}
	out := make([]string, 0, len(list))
	for _, item := range list {
		s, ok := item.(string)
		if !ok {
			return answer
		}
		out = append(out, s)
	}
	return out
}

func (h *QuizHandler) ListQuizzes(c fiber.Ctx) error {
	in := service.ListQuizzesInput{
		Major:   c.Query("major"),
		Subject: c.Query("subject"),
		Type:    c.Query("type"),
	}
	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit <= 0 {
			return respondError(c, &badRequest{msg: "limit must be a positive integer"})
		}
		in.Limit = limit
	}

	quizzes, err := h.quizService.List(c.Context(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(quizzes)
}

func (h *QuizHandler) ListMyQuizzes(c fiber.Ctx) error {
	quizzes, err := h.quizService.ListMine(c.Context(), middleware.UserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(quizzes)
}

func (h *QuizHandler) GetQuiz(c fiber.Ctx) error {
	quiz, err := h.quizService.Get(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(quiz)
}

type updateQuizRequest struct {
	Title       *string   `json:"title"`
	Description *string   `json:"description"`
	Major       *string   `json:"major"`
	Subject     *string   `json:"subject"`
	Type        *string   `json:"type"`
	Content     *string   `json:"content"`
	Options     *[]string `json:"options"`
	Answer      any       `json:"answer"`
	Explanation *string   `json:"explanation"`
}

func (h *QuizHandler) UpdateQuiz(c fiber.Ctx) error {
	var req updateQuizRequest
	if err := parseBody(c, &req); err != nil {
		return respondError(c, err)
	}

	quiz, err := h.quizService.Update(c.Context(), middleware.UserID(c), c.Params("id"), service.UpdateQuizInput{
		Title:       req.Title,
		Description: req.Description,
		Major:       req.Major,
		Subject:     req.Subject,
		Type:        req.Type,
		Content:     req.Content,
		Options:     req.Options,
		Answer:      normalizeAnswer(req.Answer),
		Explanation: req.Explanation,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(quiz)
}

func (h *QuizHandler) DeleteQuiz(c fiber.Ctx) error {
	if err := h.quizService.Delete(c.Context(), middleware.UserID(c), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Quiz deleted"})
}
