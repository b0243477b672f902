package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/chngmn/Quizly-server/internal/config"
	"github.com/chngmn/Quizly-server/internal/database/minio"
	"github.com/chngmn/Quizly-server/internal/database/mongo"
	"github.com/chngmn/Quizly-server/internal/database/redis"
	"github.com/chngmn/Quizly-server/internal/events"
	grpcServer "github.com/chngmn/Quizly-server/internal/grpc"
	"github.com/chngmn/Quizly-server/internal/handlers"
	"github.com/chngmn/Quizly-server/internal/logging"
	"github.com/chngmn/Quizly-server/internal/middleware"
	"github.com/chngmn/Quizly-server/internal/repository"
	"github.com/chngmn/Quizly-server/internal/scheduler"
	"github.com/chngmn/Quizly-server/internal/service"
	"github.com/chngmn/Quizly-server/internal/storage"
	"github.com/chngmn/Quizly-server/pkg/discovery"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	recoverer "github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/gofiber/fiber/v3/middleware/static"
	"github.com/rs/zerolog/log"
)

// ServiceContainer holds all service dependencies
type ServiceContainer struct {
	Repositories    *repository.Repositories
	JWTService      *service.JWTService
	KakaoService    *service.KakaoOAuthService
	UserService     *service.UserService
	QuizService     *service.QuizService
	RecordService   *service.RecordService
	CategoryService *service.CategoryService
	EventPublisher  events.Publisher
}

func main() {
	cfg := config.Load()

	logFile, err := logging.Setup(cfg.Log.Dir, cfg.Log.Level)
	if err != nil {
		log.Warn().Err(err).Msg("failed to set up file logging")
	} else {
		defer logFile.Close()
	}

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	if err := mongo.InitMongoDB(&cfg.MongoDB); err != nil {
		log.Fatal().Err(err).Msg("failed to initialize MongoDB")
	}
	defer mongo.CloseDB()

	if err := redis.InitRedis(&cfg.Redis); err != nil {
		log.Warn().Err(err).Msg("failed to connect to Redis, caching is disabled")
	}
	defer redis.Close()

	repos := repository.NewRepositories(mongo.Database, redis.Client, cfg.Redis.CacheTTL)
	indexCtx, indexCancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := repos.InitializeIndexes(indexCtx); err != nil {
		log.Fatal().Err(err).Msg("failed to initialize indexes")
	}
	indexCancel()

	fileStore, err := newFileStore(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize file storage")
	}

	eventPublisher, err := events.NewEventPublisher(cfg.RabbitMQ.URI, cfg.RabbitMQ.Exchange)
	if err != nil {
		log.Warn().Err(err).Msg("failed to initialize event publisher, events are disabled")
		eventPublisher, _ = events.NewEventPublisher("", "")
	}
	defer eventPublisher.Close()

	jwtService := service.NewJWTService(&cfg.JWT)
	kakaoService := service.NewKakaoOAuthService(&cfg.Kakao)
	container := &ServiceContainer{
		Repositories:    repos,
		JWTService:      jwtService,
		KakaoService:    kakaoService,
		UserService:     service.NewUserService(repos.UserRepository, jwtService, kakaoService, eventPublisher),
		QuizService:     service.NewQuizService(repos.QuizRepository, fileStore, repos.RedisRepository, eventPublisher),
		RecordService:   service.NewRecordService(repos.RecordRepository, repos.QuizRepository, eventPublisher),
		CategoryService: service.NewCategoryService(repos.MajorRepository, repos.SubjectRepository, repos.QuizRepository, repos.RedisRepository),
		EventPublisher:  eventPublisher,
	}

	quizCountCron, err := scheduler.Start(cfg.Scheduler.QuizCountSpec, container.CategoryService, 30*time.Second)
	if err != nil {
		log.Warn().Err(err).Msg("quiz count scheduler is disabled")
	} else {
		defer quizCountCron.Stop()
	}

	if cfg.Consul.Enabled {
		serviceRegistry, err := discovery.NewServiceRegistry(
			cfg.Consul.Address,
			cfg.Server.ServiceName,
			cfg.Server.ServiceID,
			cfg.Server.ServiceAddress,
			cfg.Server.Port,
		)
		if err != nil {
			log.Warn().Err(err).Msg("failed to initialize service discovery")
		} else if err := serviceRegistry.Register(); err != nil {
			log.Warn().Err(err).Msg("failed to register with Consul")
		} else {
			defer serviceRegistry.Deregister()
		}
	}

	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		BodyLimit:    cfg.Server.BodyLimitMB * 1024 * 1024,
		ErrorHandler: handlers.ErrorHandler,
	})
	app.Use(recoverer.New())
	app.Use(cors.New(cors.Config{AllowOrigins: cfg.Server.AllowOrigins}))
	app.Use(middleware.RequestLogger())

	if local, ok := fileStore.(*storage.LocalStore); ok {
		app.Get(cfg.Storage.PublicURL+"*", static.New(local.Dir()))
	}

	requireAuth := middleware.RequireAuth(container.JWTService)
	handlers.NewHealthHandler(mongo.Ping).RegisterRoutes(app)
	handlers.RegisterMetrics(app)
	handlers.NewAuthHandler(container.UserService, container.KakaoService).RegisterRoutes(app)
	handlers.NewUserHandler(container.UserService).RegisterRoutes(app, requireAuth)
	handlers.NewCategoryHandler(container.CategoryService).RegisterRoutes(app)
	handlers.NewQuizHandler(container.QuizService).RegisterRoutes(app, requireAuth)
	handlers.NewRecordHandler(container.RecordService).RegisterRoutes(app, requireAuth)

	// Setup graceful shutdown
	shutdownChan := make(chan os.Signal, 1)
	doneChan := make(chan bool, 1)
	signal.Notify(shutdownChan, syscall.SIGINT, syscall.SIGTERM)

	watchCtx, stopWatch := context.WithCancel(context.Background())
	defer stopWatch()

	var healthServer *grpcServer.HealthServer
	if cfg.Grpc.Port != "" {
		healthServer = grpcServer.NewHealthServer(cfg.Server.ServiceName, mongo.Ping)
		go healthServer.Watch(watchCtx, 10*time.Second)
		go func() {
			if err := healthServer.Serve(cfg.Grpc.Port); err != nil {
				log.Error().Err(err).Msg("gRPC health server stopped")
			}
		}()
	}

	go func() {
		addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
		log.Info().Str("addr", addr).Msg("starting server")
		if err := app.Listen(addr); err != nil {
			log.Fatal().Err(err).Msg("error starting server")
		}
		doneChan <- true
	}()

	<-shutdownChan
	log.Info().Msg("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Error().Err(err).Msg("error shutting down HTTP server")
	}
	if healthServer != nil {
		stopWatch()
		healthServer.Stop()
	}

	<-doneChan
	log.Info().Msg("server exited, goodbye!")
}

func newFileStore(cfg *config.Config) (storage.FileStore, error) {
	if cfg.Storage.Backend == "minio" {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := minio.InitMinioClient(ctx, &cfg.MinIO); err != nil {
			return nil, err
		}
		return storage.NewMinioStore(&cfg.MinIO), nil
	}
	return storage.NewLocalStore(cfg.Storage.LocalDir, cfg.Storage.PublicURL)
}
