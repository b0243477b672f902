package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/chngmn/Quizly-server/internal/events"
	"github.com/chngmn/Quizly-server/internal/models"
	"github.com/chngmn/Quizly-server/internal/repository"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/v2/bson"
)

const maxSubmitAttempts = 3

type Submission struct {
	IsCorrect  bool
	UserAnswer any
	// CorrectAnswer overrides the quiz's stored answer in the wrong-answer
	// snapshot when non-nil.
	CorrectAnswer any
}

type RecordService struct {
	records   RecordStore
	quizzes   QuizStore
	publisher events.Publisher
	now       func() time.Time
	// backfillTimeout bounds the detached everWrong write.
	backfillTimeout time.Duration
}

func NewRecordService(records RecordStore, quizzes QuizStore, publisher events.Publisher) *RecordService {
	return &RecordService{
		records:         records,
		quizzes:         quizzes,
		publisher:       publisher,
		now:             time.Now,
		backfillTimeout: 10 * time.Second,
	}
}

// Submit folds one graded submission into the caller's record for the quiz.
// The write is a compare-and-set on (user, quiz); a lost race re-reads the
// record and applies the submission again.
func (s *RecordService) Submit(ctx context.Context, userID, quizID string, sub Submission) (*models.Record, error) {
	uid, err := callerID(userID)
	if err != nil {
		return nil, err
	}
	qid, err := parseID(quizID, "quiz")
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

	canonical := sub.CorrectAnswer
	if canonical == nil {
		canonical = quiz.Answer
	}

	for attempt := 0; attempt < maxSubmitAttempts; attempt++ {
		existing, err := s.records.FindByUserQuiz(ctx, uid, qid)
		if err != nil {
			return nil, fmt.Errorf("find record: %w", err)
		}

		var record *models.Record
		if existing == nil {
			record = newRecord(uid, qid, sub, canonical, s.now())
			err = s.records.Insert(ctx, record)
		} else {
			expected := existing.Version
			record = applySubmission(existing, sub, canonical, s.now())
			err = s.records.Replace(ctx, record, expected)
		}

		if errors.Is(err, repository.ErrConflict) {
			log.Debug().Str("user_id", userID).Str("quiz_id", quizID).Int("attempt", attempt+1).Msg("record write conflict, retrying")
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("save record: %w", err)
		}

		if err := s.publisher.PublishRecordSubmitted(ctx, userID, quizID, sub.IsCorrect); err != nil {
			log.Warn().Err(err).Str("quiz_id", quizID).Msg("failed to publish record.submitted")
		}
		return record, nil
	}

	return nil, fmt.Errorf("save record for quiz %s: gave up after %d attempts: %w", quizID, maxSubmitAttempts, repository.ErrConflict)
}

func newRecord(userID, quizID bson.ObjectID, sub Submission, canonical any, now time.Time) *models.Record {
	everWrong := !sub.IsCorrect
	record := &models.Record{
		User:         userID,
		Quiz:         quizID,
		IsCorrect:    sub.IsCorrect,
		UserAnswer:   sub.UserAnswer,
		EverWrong:    &everWrong,
		WrongQuizzes: []models.WrongQuiz{},
		Version:      1,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if !sub.IsCorrect {
		record.WrongQuizzes = append(record.WrongQuizzes, wrongEntry(quizID, sub, canonical, now))
	}
	return record
}

// applySubmission moves an existing record to its next state. A correct
// answer drops the quiz's wrong entry but never clears EverWrong; a wrong
// answer keeps the first wrong entry instead of adding another.
func applySubmission(record *models.Record, sub Submission, canonical any, now time.Time) *models.Record {
	if record.EverWrong == nil {
		// legacy record: derive the flag from the state being replaced
		everWrong := !record.IsCorrect
		record.EverWrong = &everWrong
	}
	record.IsCorrect = sub.IsCorrect
	record.UserAnswer = sub.UserAnswer
	record.UpdatedAt = now
	record.Version++

	if sub.IsCorrect {
		kept := make([]models.WrongQuiz, 0, len(record.WrongQuizzes))
		for _, w := range record.WrongQuizzes {
			if w.Quiz != record.Quiz {
				kept = append(kept, w)
			}
		}
		record.WrongQuizzes = kept
		return record
	}

	everWrong := true
	record.EverWrong = &everWrong
	if record.WrongQuizzes == nil {
		record.WrongQuizzes = []models.WrongQuiz{}
	}
	if !record.HasWrongEntry(record.Quiz) {
		record.WrongQuizzes = append(record.WrongQuizzes, wrongEntry(record.Quiz, sub, canonical, now))
	}
	return record
}

func wrongEntry(quizID bson.ObjectID, sub Submission, canonical any, now time.Time) models.WrongQuiz {
	return models.WrongQuiz{
		Quiz:            quizID,
		SubmittedAnswer: sub.UserAnswer,
		CorrectAnswer:   canonical,
		WrongAt:         now,
	}
}

// WrongAnswers returns one entry per quiz the user has an open wrong answer
// for, newest first. Entries for deleted quizzes are dropped.
func (s *RecordService) WrongAnswers(ctx context.Context, userID string) ([]models.WrongAnswer, error) {
	uid, err := callerID(userID)
	if err != nil {
		return nil, err
	}
	records, err := s.records.FindByUser(ctx, uid)
	if err != nil {
		return nil, fmt.Errorf("find records: %w", err)
	}

	latest := map[bson.ObjectID]models.WrongQuiz{}
	for _, r := range records {
		for _, w := range r.WrongQuizzes {
			if cur, ok := latest[w.Quiz]; !ok || w.WrongAt.After(cur.WrongAt) {
				latest[w.Quiz] = w
			}
		}
	}

	ids := make([]bson.ObjectID, 0, len(latest))
	for id := range latest {
		ids = append(ids, id)
	}
	quizzes, err := s.quizzes.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("find quizzes: %w", err)
	}

	answers := make([]models.WrongAnswer, 0, len(latest))
	for id, w := range latest {
		quiz, ok := quizzes[id]
		if !ok {
			continue
		}
		answers = append(answers, models.WrongAnswer{WrongQuiz: w, QuizInfo: quiz})
	}
	sort.Slice(answers, func(i, j int) bool {
		if !answers[i].WrongAt.Equal(answers[j].WrongAt) {
			return answers[i].WrongAt.After(answers[j].WrongAt)
		}
		return answers[i].Quiz.Hex() < answers[j].Quiz.Hex()
	})
	return answers, nil
}

// SolvedQuizzes lists the user's records joined with their quizzes. Records
// missing EverWrong get it derived from IsCorrect, in the response and, in
// the background, in storage.
func (s *RecordService) SolvedQuizzes(ctx context.Context, userID string) ([]models.SolvedQuiz, error) {
	uid, err := callerID(userID)
	if err != nil {
		return nil, err
	}
	records, err := s.records.FindByUser(ctx, uid)
	if err != nil {
		return nil, fmt.Errorf("find records: %w", err)
	}

	ids := make([]bson.ObjectID, 0, len(records))
	for _, r := range records {
		ids = append(ids, r.Quiz)
	}
	quizzes, err := s.quizzes.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("find quizzes: %w", err)
	}

	solved := make([]models.SolvedQuiz, 0, len(records))
	backfill := map[bson.ObjectID]bool{}
	for _, r := range records {
		quiz, ok := quizzes[r.Quiz]
		if !ok {
			continue
		}
		if r.EverWrong == nil {
			everWrong := !r.IsCorrect
			r.EverWrong = &everWrong
			backfill[r.ID] = everWrong
		}
		if r.WrongQuizzes == nil {
			r.WrongQuizzes = []models.WrongQuiz{}
		}
		solved = append(solved, models.SolvedQuiz{Record: r, QuizInfo: quiz})
	}

	if len(backfill) > 0 {
		go s.backfillEverWrong(backfill)
	}
	return solved, nil
}

func (s *RecordService) backfillEverWrong(values map[bson.ObjectID]bool) {
	ctx, cancel := context.WithTimeout(context.Background(), s.backfillTimeout)
	defer cancel()

	for id, everWrong := range values {
		if err := s.records.SetEverWrong(ctx, id, everWrong); err != nil {
			log.Error().Err(err).Str("record_id", id.Hex()).Msg("failed to backfill everWrong")
		}
	}
}

func (s *RecordService) TotalTaken(ctx context.Context, userID string) (int64, error) {
	uid, err := callerID(userID)
	if err != nil {
		return 0, err
	}
	n, err := s.records.CountByUser(ctx, uid)
	if err != nil {
		return 0, fmt.Errorf("count records: %w", err)
	}
	return n, nil
}
