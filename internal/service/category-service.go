package service

import (
	"context"
	"fmt"

	"github.com/chngmn/Quizly-server/internal/models"
	"github.com/rs/zerolog/log"
)

const (
	majorsCacheKey     = "quizly:majors"
	quizCountsCacheKey = "quizly:majors:quiz-counts"
	subjectsKeyPrefix  = "quizly:subjects:"
)

type SeedMajor struct {
	Name     string
	Subjects []string
}

// DefaultCatalog is what cmd/seed writes when no other catalog is given.
var DefaultCatalog = []SeedMajor{
	{Name: "전산학/컴퓨터과학", Subjects: []string{"운영체제", "자료구조", "알고리즘", "데이터베이스"}},
	{Name: "전자공학", Subjects: []string{"회로이론", "디지털논리회로", "전자기학"}},
	{Name: "기계공학", Subjects: []string{"열역학", "유체역학", "재료역학"}},
	{Name: "경영학", Subjects: []string{"경영전략", "마케팅", "회계학"}},
}

type CategoryService struct {
	majors   MajorStore
	subjects SubjectStore
	quizzes  QuizStore
	cache    Cache
}

func NewCategoryService(majors MajorStore, subjects SubjectStore, quizzes QuizStore, cache Cache) *CategoryService {
	return &CategoryService{
		majors:   majors,
		subjects: subjects,
		quizzes:  quizzes,
		cache:    cache,
	}
}

func (s *CategoryService) Majors(ctx context.Context) ([]models.Major, error) {
	var majors []models.Major
	if s.cached(ctx, majorsCacheKey, &majors) {
		return majors, nil
	}

	majors, err := s.majors.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("find majors: %w", err)
	}
	s.store(ctx, majorsCacheKey, majors)
	return majors, nil
}

func (s *CategoryService) SubjectsByMajor(ctx context.Context, majorID string) ([]models.Subject, error) {
	mid, err := parseID(majorID, "major")
	if err != nil {
		return nil, err
	}

	key := subjectsKeyPrefix + mid.Hex()
	var subjects []models.Subject
	if s.cached(ctx, key, &subjects) {
		return subjects, nil
	}

	subjects, err = s.subjects.FindByMajor(ctx, mid)
	if err != nil {
		return nil, fmt.Errorf("find subjects: %w", err)
	}
	s.store(ctx, key, subjects)
	return subjects, nil
}

// QuizCounts returns the number of quizzes per major, majors without quizzes
// included.
func (s *CategoryService) QuizCounts(ctx context.Context) ([]models.MajorQuizCount, error) {
	var counts []models.MajorQuizCount
	if s.cached(ctx, quizCountsCacheKey, &counts) {
		return counts, nil
	}
	return s.RefreshQuizCounts(ctx)
}

// RefreshQuizCounts recomputes the per-major counts and overwrites the cache.
func (s *CategoryService) RefreshQuizCounts(ctx context.Context) ([]models.MajorQuizCount, error) {
	majors, err := s.majors.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("find majors: %w", err)
	}
	byMajor, err := s.quizzes.CountByMajor(ctx)
	if err != nil {
		return nil, fmt.Errorf("count quizzes: %w", err)
	}

	counts := make([]models.MajorQuizCount, 0, len(majors))
	for _, m := range majors {
		counts = append(counts, models.MajorQuizCount{MajorID: m.ID, Name: m.Name, Count: byMajor[m.ID]})
	}
	s.store(ctx, quizCountsCacheKey, counts)
	return counts, nil
}

// Seed replaces all majors and subjects with catalog.
func (s *CategoryService) Seed(ctx context.Context, catalog []SeedMajor) error {
	old, err := s.majors.FindAll(ctx)
	if err != nil {
		return fmt.Errorf("find majors: %w", err)
	}

	if err := s.subjects.DeleteAll(ctx); err != nil {
		return fmt.Errorf("clear subjects: %w", err)
	}
	if err := s.majors.DeleteAll(ctx); err != nil {
		return fmt.Errorf("clear majors: %w", err)
	}

	for _, entry := range catalog {
		major := &models.Major{Name: entry.Name}
		if err := s.majors.Insert(ctx, major); err != nil {
			return fmt.Errorf("insert major %s: %w", entry.Name, err)
		}
		for _, name := range entry.Subjects {
			if err := s.subjects.Insert(ctx, &models.Subject{Name: name, Major: major.ID}); err != nil {
				return fmt.Errorf("insert subject %s: %w", name, err)
			}
		}
		log.Info().Str("major", entry.Name).Int("subjects", len(entry.Subjects)).Msg("seeded major")
	}

	keys := []string{majorsCacheKey, quizCountsCacheKey}
	for _, m := range old {
		keys = append(keys, subjectsKeyPrefix+m.ID.Hex())
	}
	if err := s.cache.Delete(ctx, keys...); err != nil {
		log.Warn().Err(err).Msg("failed to invalidate category cache")
	}
	return nil
}

func (s *CategoryService) cached(ctx context.Context, key string, dst any) bool {
	found, err := s.cache.GetStructCached(ctx, key, dst)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("cache read failed")
		return false
	}
	return found
}

func (s *CategoryService) store(ctx context.Context, key string, value any) {
	if err := s.cache.SaveStructCached(ctx, key, value); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("cache write failed")
	}
}
