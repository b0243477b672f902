package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/chngmn/Quizly-server/internal/models"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

type MajorRepository struct {
	collection *mongo.Collection
}

func NewMajorRepository(db *mongo.Database) *MajorRepository {
	return &MajorRepository{
		collection: db.Collection("majors"),
	}
}

func (r *MajorRepository) InitializeIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "name", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("failed to create major indexes: %w", err)
	}
	return nil
}

func (r *MajorRepository) FindAll(ctx context.Context) ([]models.Major, error) {
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	majors := []models.Major{}
	if err := cursor.All(ctx, &majors); err != nil {
		return nil, err
	}
	return majors, nil
}

func (r *MajorRepository) FindByID(ctx context.Context, id bson.ObjectID) (*models.Major, error) {
	var major models.Major
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&major)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &major, nil
}

func (r *MajorRepository) Insert(ctx context.Context, major *models.Major) error {
	if major.ID.IsZero() {
		major.ID = bson.NewObjectID()
	}
	_, err := r.collection.InsertOne(ctx, major)
	if mongo.IsDuplicateKeyError(err) {
		return ErrConflict
	}
	return err
}

func (r *MajorRepository) DeleteAll(ctx context.Context) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{})
	return err
}

type SubjectRepository struct {
	collection *mongo.Collection
}

func NewSubjectRepository(db *mongo.Database) *SubjectRepository {
	return &SubjectRepository{
		collection: db.Collection("subjects"),
	}
}

func (r *SubjectRepository) InitializeIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "name", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "major", Value: 1}},
		},
	}
	if _, err := r.collection.Indexes().CreateMany(ctx, indexes); err != nil {
		return fmt.Errorf("failed to create subject indexes: %w", err)
	}
	return nil
}

func (r *SubjectRepository) FindByMajor(ctx context.Context, majorID bson.ObjectID) ([]models.Subject, error) {
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{"major": majorID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	subjects := []models.Subject{}
	if err := cursor.All(ctx, &subjects); err != nil {
		return nil, err
	}
	return subjects, nil
}

func (r *SubjectRepository) FindByID(ctx context.Context, id bson.ObjectID) (*models.Subject, error) {
	var subject models.Subject
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&subject)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &subject, nil
}

func (r *SubjectRepository) Insert(ctx context.Context, subject *models.Subject) error {
	if subject.ID.IsZero() {
		subject.ID = bson.NewObjectID()
	}
	_, err := r.collection.InsertOne(ctx, subject)
	if mongo.IsDuplicateKeyError(err) {
		return ErrConflict
	}
	return err
}

func (r *SubjectRepository) DeleteAll(ctx context.Context) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{})
	return err
}
