package repository

import (
	"context"
	"time"

	redis_v9 "github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

type Repositories struct {
	UserRepository    *UserRepository
	QuizRepository    *QuizRepository
	RecordRepository  *RecordRepository
	MajorRepository   *MajorRepository
	SubjectRepository *SubjectRepository
	RedisRepository   *RedisRepo
}

func NewRepositories(db *mongo.Database, cache *redis_v9.Client, cacheTTL time.Duration) *Repositories {
	return &Repositories{
		UserRepository:    NewUserRepository(db),
		QuizRepository:    NewQuizRepository(db),
		RecordRepository:  NewRecordRepository(db),
		MajorRepository:   NewMajorRepository(db),
		SubjectRepository: NewSubjectRepository(db),
		RedisRepository:   NewRedisRepo(cache, cacheTTL),
	}
}

func (r *Repositories) InitializeIndexes(ctx context.Context) error {
	initializers := []func(context.Context) error{
		r.UserRepository.InitializeIndexes,
		r.QuizRepository.InitializeIndexes,
		r.RecordRepository.InitializeIndexes,
		r.MajorRepository.InitializeIndexes,
		r.SubjectRepository.InitializeIndexes,
	}
	for _, initialize := range initializers {
		if err := initialize(ctx); err != nil {
			return err
		}
	}
	return nil
}
