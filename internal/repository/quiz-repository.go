package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/chngmn/Quizly-server/internal/models"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

type QuizRepository struct {
	collection *mongo.Collection
}

func NewQuizRepository(db *mongo.Database) *QuizRepository {
	return &QuizRepository{
		collection: db.Collection("quizzes"),
	}
}

func (r *QuizRepository) InitializeIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "major", Value: 1}, {Key: "subject", Value: 1}, {Key: "type", Value: 1}}},
		{Keys: bson.D{{Key: "creator", Value: 1}, {Key: "createdAt", Value: -1}}},
	}

	if _, err := r.collection.Indexes().CreateMany(ctx, indexes); err != nil {
		return fmt.Errorf("failed to create quiz indexes: %w", err)
	}
	return nil
}

func (r *QuizRepository) Create(ctx context.Context, quiz *models.Quiz) error {
	if quiz.ID.IsZero() {
		quiz.ID = bson.NewObjectID()
	}
	now := time.Now()
	quiz.CreatedAt = now
	quiz.UpdatedAt = now

	_, err := r.collection.InsertOne(ctx, quiz)
	return err
}

func (r *QuizRepository) FindByID(ctx context.Context, id bson.ObjectID) (*models.Quiz, error) {
	var quiz models.Quiz
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&quiz)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &quiz, nil
}

// FindByIDs returns the quizzes that still exist, keyed by id.
func (r *QuizRepository) FindByIDs(ctx context.Context, ids []bson.ObjectID) (map[bson.ObjectID]*models.Quiz, error) {
	found := make(map[bson.ObjectID]*models.Quiz, len(ids))
	if len(ids) == 0 {
		return found, nil
	}

	cursor, err := r.collection.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var quizzes []*models.Quiz
	if err := cursor.All(ctx, &quizzes); err != nil {
		return nil, err
	}
	for _, q := range quizzes {
		found[q.ID] = q
	}
	return found, nil
}

func (r *QuizRepository) FindDetailByID(ctx context.Context, id bson.ObjectID) (*models.QuizDetail, error) {
	pipeline := append(mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"_id": id}}},
	}, joinStages()...)

	details, err := r.aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	if len(details) == 0 {
		return nil, nil
	}
	return &details[0], nil
}

// List filters quizzes and joins creator and category names. A positive
// limit returns a random sample of that size instead of a sorted listing.
func (r *QuizRepository) List(ctx context.Context, filter models.QuizFilter) ([]models.QuizDetail, error) {
	match := bson.M{}
	if filter.Major != nil {
		match["major"] = *filter.Major
	}
	if filter.Subject != nil {
		match["subject"] = *filter.Subject
	}
	if filter.Type != "" {
		match["type"] = filter.Type
	}
	if filter.Creator != nil {
		match["creator"] = *filter.Creator
	}

	pipeline := mongo.Pipeline{{{Key: "$match", Value: match}}}
	if filter.Limit > 0 {
		pipeline = append(pipeline, bson.D{{Key: "$sample", Value: bson.M{"size": filter.Limit}}})
	} else {
		pipeline = append(pipeline, bson.D{{Key: "$sort", Value: bson.D{{Key: "createdAt", Value: -1}}}})
	}
	pipeline = append(pipeline, joinStages()...)

	return r.aggregate(ctx, pipeline)
}

func (r *QuizRepository) aggregate(ctx context.Context, pipeline mongo.Pipeline) ([]models.QuizDetail, error) {
	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	details := []models.QuizDetail{}
	if err := cursor.All(ctx, &details); err != nil {
		return nil, err
	}
	return details, nil
}

func joinStages() []bson.D {
	lookup := func(from, local, as string, project bson.D) []bson.D {
		return []bson.D{
			{{Key: "$lookup", Value: bson.D{
				{Key: "from", Value: from},
				{Key: "localField", Value: local},
				{Key: "foreignField", Value: "_id"},
				{Key: "pipeline", Value: bson.A{bson.D{{Key: "$project", Value: project}}}},
				{Key: "as", Value: as},
			}}},
			{{Key: "$unwind", Value: bson.D{
				{Key: "path", Value: "$" + as},
				{Key: "preserveNullAndEmptyArrays", Value: true},
			}}},
		}
	}

	var stages []bson.D
	stages = append(stages, lookup("users", "creator", "creatorInfo", bson.D{{Key: "nickname", Value: 1}})...)
	stages = append(stages, lookup("majors", "major", "majorInfo", bson.D{{Key: "name", Value: 1}})...)
	stages = append(stages, lookup("subjects", "subject", "subjectInfo", bson.D{{Key: "name", Value: 1}, {Key: "major", Value: 1}})...)
	return stages
}

func (r *QuizRepository) Update(ctx context.Context, quiz *models.Quiz) error {
	quiz.UpdatedAt = time.Now()

	result, err := r.collection.ReplaceOne(ctx, bson.M{"_id": quiz.ID}, quiz)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *QuizRepository) Delete(ctx context.Context, id bson.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// CountByMajor returns the number of quizzes per major id.
func (r *QuizRepository) CountByMajor(ctx context.Context) (map[bson.ObjectID]int64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$major"},
			{Key: "count", Value: bson.M{"$sum": 1}},
		}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Major bson.ObjectID `bson:"_id"`
		Count int64         `bson:"count"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, err
	}

	counts := make(map[bson.ObjectID]int64, len(rows))
	for _, row := range rows {
		counts[row.Major] = row.Count
	}
	return counts, nil
}
