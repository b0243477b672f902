package service

import (
	"context"
	"testing"

	"github.com/chngmn/Quizly-server/internal/models"
	"github.com/chngmn/Quizly-server/internal/repository/memory"
)

func seededCategories(t *testing.T, cache Cache) (*CategoryService, *memory.DB) {
	t.Helper()
	db := memory.NewDB()
	s := NewCategoryService(db.Majors(), db.Subjects(), db.Quizzes(), cache)
	if err := s.Seed(context.Background(), DefaultCatalog); err != nil {
		t.Fatalf("Seed failed: %v", err)
	}
	return s, db
}

func TestSeedAndSubjects(t *testing.T) {
	s, _ := seededCategories(t, newTestCache())
	ctx := context.Background()

	majors, err := s.Majors(ctx)
	if err != nil {
		t.Fatalf("Majors failed: %v", err)
	}
	if len(majors) != len(DefaultCatalog) {
		t.Fatalf("expected %d majors, got %d", len(DefaultCatalog), len(majors))
	}

	total := 0
	for _, m := range majors {
		subjects, err := s.SubjectsByMajor(ctx, m.ID.Hex())
		if err != nil {
			t.Fatalf("SubjectsByMajor failed: %v", err)
		}
		for _, sub := range subjects {
			if sub.Major != m.ID {
				t.Errorf("subject %s listed under the wrong major", sub.Name)
			}
		}
		total += len(subjects)
	}
	if total != 13 {
		t.Errorf("expected 13 subjects, got %d", total)
	}

	// reseeding replaces instead of duplicating
	if err := s.Seed(ctx, DefaultCatalog); err != nil {
		t.Fatalf("reseed failed: %v", err)
	}
	majors, _ = s.Majors(ctx)
	if len(majors) != len(DefaultCatalog) {
		t.Errorf("reseed duplicated majors: %d", len(majors))
	}

	_, err = s.SubjectsByMajor(ctx, "bad")
	assertKind(t, err, ErrValidation)
}

func TestQuizCountsIncludeEmptyMajors(t *testing.T) {
	cache := newMemCache()
	s, db := seededCategories(t, cache)
	ctx := context.Background()

	majors, _ := s.Majors(ctx)
	target := majors[0]
	for i := 0; i < 3; i++ {
		db.Quizzes().Create(ctx, &models.Quiz{Title: "q", Major: target.ID, Type: models.QuizTypeOX, Answer: "O"})
	}

	counts, err := s.QuizCounts(ctx)
	if err != nil {
		t.Fatalf("QuizCounts failed: %v", err)
	}
	if len(counts) != len(majors) {
		t.Fatalf("every major must be listed, got %d", len(counts))
	}
	for _, c := range counts {
		want := int64(0)
		if c.MajorID == target.ID {
			want = 3
		}
		if c.Count != want {
			t.Errorf("%s: count %d, want %d", c.Name, c.Count, want)
		}
	}
	if !cache.has(quizCountsCacheKey) {
		t.Errorf("counts should be cached")
	}

	// served from cache until refreshed
	db.Quizzes().Create(ctx, &models.Quiz{Title: "q", Major: target.ID, Type: models.QuizTypeOX, Answer: "O"})
	counts, _ = s.QuizCounts(ctx)
	if countFor(counts, target.ID.Hex()) != 3 {
		t.Errorf("expected cached count 3")
	}
	counts, _ = s.RefreshQuizCounts(ctx)
	if countFor(counts, target.ID.Hex()) != 4 {
		t.Errorf("expected refreshed count 4")
	}
}

func countFor(counts []models.MajorQuizCount, majorID string) int64 {
	for _, c := range counts {
		if c.MajorID.Hex() == majorID {
			return c.Count
		}
	}
	return -1
}
