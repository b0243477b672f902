package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/chngmn/Quizly-server/internal/events"
	"github.com/chngmn/Quizly-server/internal/models"
	"github.com/chngmn/Quizly-server/internal/repository"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/v2/bson"
)

type FileStore interface {
	Save(ctx context.Context, originalName string, r io.Reader, size int64, contentType string) (models.QuizFile, error)
	Remove(ctx context.Context, key string) error
}

// FileUpload is one attachment of a create request.
type FileUpload struct {
	Name        string
	Size        int64
	ContentType string
	Open        func() (io.ReadCloser, error)
}

type CreateQuizInput struct {
	Title       string
	Description string
	Major       string
	Subject     string
	Type        string
	Content     string
	Options     []string
	Answer      any
	Explanation string
}

// UpdateQuizInput changes only the non-nil fields.
type UpdateQuizInput struct {
	Title       *string
	Description *string
	Major       *string
	Subject     *string
	Type        *string
	Content     *string
	Options     *[]string
	Answer      any
	Explanation *string
}

type ListQuizzesInput struct {
	Major   string
	Subject string
	Type    string
	Limit   int
}

type QuizService struct {
	quizzes   QuizStore
	files     FileStore
	cache     Cache
	publisher events.Publisher
}

func NewQuizService(quizzes QuizStore, files FileStore, cache Cache, publisher events.Publisher) *QuizService {
	return &QuizService{
		quizzes:   quizzes,
		files:     files,
		cache:     cache,
		publisher: publisher,
	}
}

func (s *QuizService) Create(ctx context.Context, creatorID string, in CreateQuizInput, uploads []FileUpload) (*models.Quiz, error) {
	uid, err := callerID(creatorID)
	if err != nil {
		return nil, err
	}

	quiz := &models.Quiz{
		Title:       strings.TrimSpace(in.Title),
		Description: in.Description,
		Creator:     uid,
		Type:        models.QuizType(in.Type),
		Content:     in.Content,
		Options:     in.Options,
		Answer:      in.Answer,
		Explanation: in.Explanation,
	}
	if quiz.Title == "" || in.Major == "" || in.Subject == "" || in.Type == "" || strings.TrimSpace(quiz.Content) == "" {
		return nil, validationError("title, major, subject, type and content are required")
	}
	if quiz.Major, err = parseID(in.Major, "major"); err != nil {
		return nil, err
	}
	if quiz.Subject, err = parseID(in.Subject, "subject"); err != nil {
		return nil, err
	}
	if err := validateQuiz(quiz); err != nil {
		return nil, err
	}

	for _, up := range uploads {
		file, err := s.saveUpload(ctx, up)
		if err != nil {
			s.removeFiles(ctx, quiz.Files)
			return nil, err
		}
		quiz.Files = append(quiz.Files, file)
	}

	if err := s.quizzes.Create(ctx, quiz); err != nil {
		s.removeFiles(ctx, quiz.Files)
		return nil, fmt.Errorf("create quiz: %w", err)
	}

	s.invalidateCounts(ctx)
	if err := s.publisher.PublishQuizCreated(ctx, quiz.ID.Hex(), creatorID, quiz.Type); err != nil {
		log.Warn().Err(err).Str("quiz_id", quiz.ID.Hex()).Msg("failed to publish quiz.created")
	}
	return quiz, nil
}

func (s *QuizService) saveUpload(ctx context.Context, up FileUpload) (models.QuizFile, error) {
	r, err := up.Open()
	if err != nil {
		return models.QuizFile{}, fmt.Errorf("open upload %s: %w", up.Name, err)
	}
	defer r.Close()

	file, err := s.files.Save(ctx, up.Name, r, up.Size, up.ContentType)
	if err != nil {
		return models.QuizFile{}, fmt.Errorf("store upload %s: %w", up.Name, err)
	}
	return file, nil
}

func validateQuiz(quiz *models.Quiz) error {
	if !quiz.Type.Valid() {
		return validationError("invalid quiz type")
	}
	if quiz.Type != models.QuizTypeExamArchive && answerMissing(quiz.Answer) {
		return validationError("answer is required")
	}
	return nil
}

func answerMissing(answer any) bool {
	switch a := answer.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(a) == ""
	case []string:
		return len(a) == 0
	case []any:
		return len(a) == 0
	case bson.A:
		return len(a) == 0
	}
	return false
}

func (s *QuizService) Get(ctx context.Context, id string) (*models.QuizDetail, error) {
	qid, err := parseID(id, "quiz")
	if err != nil {
		return nil, err
	}
	detail, err := s.quizzes.FindDetailByID(ctx, qid)
	if err != nil {
		return nil, fmt.Errorf("find quiz: %w", err)
	}
	if detail == nil {
		return nil, notFound("quiz not found")
	}
	return detail, nil
}

func (s *QuizService) List(ctx context.Context, in ListQuizzesInput) ([]models.QuizDetail, error) {
	var filter models.QuizFilter
	if in.Major != "" {
		id, err := parseID(in.Major, "major")
		if err != nil {
			return nil, err
		}
		filter.Major = &id
	}
	if in.Subject != "" {
		id, err := parseID(in.Subject, "subject")
		if err != nil {
			return nil, err
		}
		filter.Subject = &id
	}
	if in.Type != "" {
		filter.Type = models.QuizType(in.Type)
		if !filter.Type.Valid() {
			return nil, validationError("invalid quiz type")
		}
	}
	if in.Limit < 0 {
		return nil, validationError("limit must be positive")
	}
	filter.Limit = in.Limit

	quizzes, err := s.quizzes.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list quizzes: %w", err)
	}
	return quizzes, nil
}

func (s *QuizService) ListMine(ctx context.Context, userID string) ([]models.QuizDetail, error) {
	uid, err := callerID(userID)
	if err != nil {
		return nil, err
	}
	quizzes, err := s.quizzes.List(ctx, models.QuizFilter{Creator: &uid})
	if err != nil {
		return nil, fmt.Errorf("list quizzes: %w", err)
	}
	return quizzes, nil
}

// ownedQuiz loads a quiz and checks that userID created it.
func (s *QuizService) ownedQuiz(ctx context.Context, userID, id string) (*models.Quiz, error) {
	uid, err := callerID(userID)
	if err != nil {
		return nil, err
	}
	qid, err := parseID(id, "quiz")
	if err != nil {
		return nil, err
	}
	quiz, err := s.quizzes.FindByID(ctx, qid)
	if err != nil {
		return nil, fmt.Errorf("find quiz: %w", err)
	}
	if quiz == nil {
		return nil, notFound("quiz not found")
	}
	if quiz.Creator != uid {
		return nil, forbidden("only the creator can modify this quiz")
	}
	return quiz, nil
}

func (s *QuizService) Update(ctx context.Context, userID, id string, in UpdateQuizInput) (*models.Quiz, error) {
	quiz, err := s.ownedQuiz(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if in.Title != nil {
		if strings.TrimSpace(*in.Title) == "" {
			return nil, validationError("title cannot be empty")
		}
		quiz.Title = strings.TrimSpace(*in.Title)
	}
	if in.Content != nil {
		if strings.TrimSpace(*in.Content) == "" {
			return nil, validationError("content cannot be empty")
		}
		quiz.Content = *in.Content
	}
	if in.Description != nil {
		quiz.Description = *in.Description
	}
	if in.Explanation != nil {
		quiz.Explanation = *in.Explanation
	}
	if in.Options != nil {
		quiz.Options = *in.Options
	}
	if in.Answer != nil {
		quiz.Answer = in.Answer
	}
	if in.Type != nil {
		quiz.Type = models.QuizType(*in.Type)
	}
	majorChanged := false
	if in.Major != nil {
		major, err := parseID(*in.Major, "major")
		if err != nil {
			return nil, err
		}
		majorChanged = major != quiz.Major
		quiz.Major = major
	}
	if in.Subject != nil {
		if quiz.Subject, err = parseID(*in.Subject, "subject"); err != nil {
			return nil, err
		}
	}
	if err := validateQuiz(quiz); err != nil {
		return nil, err
	}

	if err := s.quizzes.Update(ctx, quiz); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, notFound("quiz not found")
		}
		return nil, fmt.Errorf("update quiz: %w", err)
	}
	if majorChanged {
		s.invalidateCounts(ctx)
	}
	return quiz, nil
}

// Delete removes the quiz, then its attachments. Attachment removal is best
// effort.
func (s *QuizService) Delete(ctx context.Context, userID, id string) error {
	quiz, err := s.ownedQuiz(ctx, userID, id)
	if err != nil {
		return err
	}

	if err := s.quizzes.Delete(ctx, quiz.ID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound("quiz not found")
		}
		return fmt.Errorf("delete quiz: %w", err)
	}
	s.removeFiles(ctx, quiz.Files)

	s.invalidateCounts(ctx)
	if err := s.publisher.PublishQuizDeleted(ctx, quiz.ID.Hex(), userID); err != nil {
		log.Warn().Err(err).Str("quiz_id", quiz.ID.Hex()).Msg("failed to publish quiz.deleted")
	}
	return nil
}

func (s *QuizService) removeFiles(ctx context.Context, files []models.QuizFile) {
	for _, f := range files {
		if err := s.files.Remove(ctx, f.Key); err != nil {
			log.Error().Err(err).Str("key", f.Key).Msg("failed to remove quiz file")
		}
	}
}

func (s *QuizService) invalidateCounts(ctx context.Context) {
	if err := s.cache.Delete(ctx, quizCountsCacheKey); err != nil {
		log.Warn().Err(err).Msg("failed to invalidate quiz counts cache")
	}
}
