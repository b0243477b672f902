package service

import (
	"context"

	"github.com/chngmn/Quizly-server/internal/models"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// Find methods return (nil, nil) when nothing matches.

type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id bson.ObjectID) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByKakaoID(ctx context.Context, kakaoID string) (*models.User, error)
	FindByNicknameExcluding(ctx context.Context, nickname string, excludeID bson.ObjectID) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id bson.ObjectID) error
}

type QuizStore interface {
	Create(ctx context.Context, quiz *models.Quiz) error
	FindByID(ctx context.Context, id bson.ObjectID) (*models.Quiz, error)
	FindByIDs(ctx context.Context, ids []bson.ObjectID) (map[bson.ObjectID]*models.Quiz, error)
	FindDetailByID(ctx context.Context, id bson.ObjectID) (*models.QuizDetail, error)
	List(ctx context.Context, filter models.QuizFilter) ([]models.QuizDetail, error)
	Update(ctx context.Context, quiz *models.Quiz) error
	Delete(ctx context.Context, id bson.ObjectID) error
	CountByMajor(ctx context.Context) (map[bson.ObjectID]int64, error)
}

// RecordStore writes are compare-and-set: Insert fails with
// repository.ErrConflict if the (user, quiz) record exists, Replace fails
// with it if the stored version differs from expected.
type RecordStore interface {
	FindByUserQuiz(ctx context.Context, userID, quizID bson.ObjectID) (*models.Record, error)
	Insert(ctx context.Context, record *models.Record) error
	Replace(ctx context.Context, record *models.Record, expected int64) error
	FindByUser(ctx context.Context, userID bson.ObjectID) ([]models.Record, error)
	CountByUser(ctx context.Context, userID bson.ObjectID) (int64, error)
	SetEverWrong(ctx context.Context, id bson.ObjectID, value bool) error
}

type MajorStore interface {
	FindAll(ctx context.Context) ([]models.Major, error)
	FindByID(ctx context.Context, id bson.ObjectID) (*models.Major, error)
	Insert(ctx context.Context, major *models.Major) error
	DeleteAll(ctx context.Context) error
}

type SubjectStore interface {
	FindByMajor(ctx context.Context, majorID bson.ObjectID) ([]models.Subject, error)
	FindByID(ctx context.Context, id bson.ObjectID) (*models.Subject, error)
	Insert(ctx context.Context, subject *models.Subject) error
	DeleteAll(ctx context.Context) error
}

type Cache interface {
	SaveStructCached(ctx context.Context, key string, model any) error
	GetStructCached(ctx context.Context, key string, model any) (bool, error)
	Delete(ctx context.Context, keys ...string) error
}
