package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/chngmn/Quizly-server/internal/models"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

type QuizCountRefresher interface {
	RefreshQuizCounts(ctx context.Context) ([]models.MajorQuizCount, error)
}

// Start schedules the quiz-count cache refresh on spec and starts the cron
// runner. The caller stops it on shutdown.
func Start(spec string, refresher QuizCountRefresher, timeout time.Duration) (*cron.Cron, error) {
	c := cron.New()
	if _, err := c.AddFunc(spec, refreshJob(refresher, timeout)); err != nil {
		return nil, fmt.Errorf("invalid schedule %q: %w", spec, err)
	}
	c.Start()
	log.Info().Str("spec", spec).Msg("quiz count scheduler started")
	return c, nil
}

func refreshJob(refresher QuizCountRefresher, timeout time.Duration) func() {
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		start := time.Now()
		counts, err := refresher.RefreshQuizCounts(ctx)
		if err != nil {
			log.Error().Err(err).Msg("failed to refresh quiz counts")
			return
		}
		log.Debug().Int("majors", len(counts)).Dur("took", time.Since(start)).Msg("refreshed quiz counts")
	}
}
