// Command seed replaces the majors and subjects with the default catalog.
package main

import (
	"context"
	"time"

	"github.com/chngmn/Quizly-server/internal/config"
	"github.com/chngmn/Quizly-server/internal/database/mongo"
	"github.com/chngmn/Quizly-server/internal/database/redis"
	"github.com/chngmn/Quizly-server/internal/logging"
	"github.com/chngmn/Quizly-server/internal/repository"
	"github.com/chngmn/Quizly-server/internal/service"
	"github.com/rs/zerolog/log"
)

func main() {
	cfg := config.Load()

	if logFile, err := logging.Setup(cfg.Log.Dir, cfg.Log.Level); err == nil {
		defer logFile.Close()
	}

	if err := mongo.InitMongoDB(&cfg.MongoDB); err != nil {
		log.Fatal().Err(err).Msg("failed to initialize MongoDB")
	}
	defer mongo.CloseDB()

	if err := redis.InitRedis(&cfg.Redis); err != nil {
		log.Warn().Err(err).Msg("failed to connect to Redis, cached categories will expire on their own")
	}
	defer redis.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	repos := repository.NewRepositories(mongo.Database, redis.Client, cfg.Redis.CacheTTL)
	if err := repos.InitializeIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to initialize indexes")
	}

	categories := service.NewCategoryService(repos.MajorRepository, repos.SubjectRepository, repos.QuizRepository, repos.RedisRepository)
	if err := categories.Seed(ctx, service.DefaultCatalog); err != nil {
		log.Fatal().Err(err).Msg("seeding failed")
	}
	log.Info().Int("majors", len(service.DefaultCatalog)).Msg("seed complete")
}
