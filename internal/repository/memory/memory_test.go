package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/chngmn/Quizly-server/internal/models"
	"github.com/chngmn/Quizly-server/internal/repository"
	"go.mongodb.org/mongo-driver/v2/bson"
)

func TestRecordStoreInsertConflict(t *testing.T) {
	store := NewDB().Records()
	ctx := context.Background()
	user, quiz := bson.NewObjectID(), bson.NewObjectID()

	if err := store.Insert(ctx, &models.Record{User: user, Quiz: quiz}); err != nil {
		t.Fatalf("first insert failed: %v", err)
	}
	err := store.Insert(ctx, &models.Record{User: user, Quiz: quiz})
	if !errors.Is(err, repository.ErrConflict) {
		t.Errorf("expected ErrConflict on duplicate (user, quiz), got %v", err)
	}
}

func TestRecordStoreReplaceChecksVersion(t *testing.T) {
	store := NewDB().Records()
	ctx := context.Background()

	rec := &models.Record{User: bson.NewObjectID(), Quiz: bson.NewObjectID(), Version: 1}
	if err := store.Insert(ctx, rec); err != nil {
		t.Fatalf("insert failed: %v", err)
	}

	stale := *rec
	stale.Version = 2
	if err := store.Replace(ctx, &stale, 0); !errors.Is(err, repository.ErrConflict) {
		t.Errorf("expected ErrConflict for stale version, got %v", err)
	}

	fresh := *rec
	fresh.Version = 2
	fresh.IsCorrect = true
	if err := store.Replace(ctx, &fresh, 1); err != nil {
		t.Fatalf("replace with current version failed: %v", err)
	}

	got, _ := store.Get(rec.ID)
	if !got.IsCorrect || got.Version != 2 {
		t.Errorf("replace not applied: %+v", got)
	}
}

func TestRecordStoreReturnsCopies(t *testing.T) {
	store := NewDB().Records()
	ctx := context.Background()
	user, quiz := bson.NewObjectID(), bson.NewObjectID()

	store.Put(models.Record{User: user, Quiz: quiz, WrongQuizzes: []models.WrongQuiz{{Quiz: quiz}}})

	found, _ := store.FindByUserQuiz(ctx, user, quiz)
	found.WrongQuizzes[0].SubmittedAnswer = "changed"

	again, _ := store.FindByUserQuiz(ctx, user, quiz)
	if again.WrongQuizzes[0].SubmittedAnswer != nil {
		t.Errorf("mutating a returned record leaked into the store")
	}
}

func TestQuizStoreListSample(t *testing.T) {
	db := NewDB()
	quizzes := db.Quizzes()
	ctx := context.Background()
	major := bson.NewObjectID()

	for i := 0; i < 5; i++ {
		_ = quizzes.Create(ctx, &models.Quiz{Major: major, Type: models.QuizTypeOX})
	}
	_ = quizzes.Create(ctx, &models.Quiz{Major: bson.NewObjectID(), Type: models.QuizTypeOX})

	got, err := quizzes.List(ctx, models.QuizFilter{Major: &major, Limit: 3})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 sampled quizzes, got %d", len(got))
	}
	for _, q := range got {
		if q.Major != major {
			t.Errorf("sample contains quiz outside the filter")
		}
	}
}
