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

// RecordRepository stores one attempt record per (user, quiz). Writes are
// guarded by the unique (user, quiz) index on insert and by the version
// counter on replace.
type RecordRepository struct {
	collection *mongo.Collection
}

func NewRecordRepository(db *mongo.Database) *RecordRepository {
	return &RecordRepository{
		collection: db.Collection("records"),
	}
}

func (r *RecordRepository) InitializeIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "user", Value: 1}, {Key: "quiz", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}

	if _, err := r.collection.Indexes().CreateMany(ctx, indexes); err != nil {
		return fmt.Errorf("failed to create record indexes: %w", err)
	}
	return nil
}

func (r *RecordRepository) FindByUserQuiz(ctx context.Context, userID, quizID bson.ObjectID) (*models.Record, error) {
	var record models.Record
	err := r.collection.FindOne(ctx, bson.M{"user": userID, "quiz": quizID}).Decode(&record)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}

// Insert creates the record, returning ErrConflict when another writer
// created the (user, quiz) record first.
func (r *RecordRepository) Insert(ctx context.Context, record *models.Record) error {
	if record.ID.IsZero() {
		record.ID = bson.NewObjectID()
	}

	_, err := r.collection.InsertOne(ctx, record)
	if mongo.IsDuplicateKeyError(err) {
		return ErrConflict
	}
	return err
}

// Replace swaps in record if the stored version still equals expected.
func (r *RecordRepository) Replace(ctx context.Context, record *models.Record, expected int64) error {
	filter := bson.M{"_id": record.ID, "version": expected}
	if expected == 0 {
		// documents written before versioning have no version field
		filter["version"] = bson.M{"$in": bson.A{int64(0), nil}}
	}

	result, err := r.collection.ReplaceOne(ctx, filter, record)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrConflict
	}
	return nil
}

func (r *RecordRepository) FindByUser(ctx context.Context, userID bson.ObjectID) ([]models.Record, error) {
	opts := options.Find().SetSort(bson.D{{Key: "updatedAt", Value: -1}})

	cursor, err := r.collection.Find(ctx, bson.M{"user": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	records := []models.Record{}
	if err := cursor.All(ctx, &records); err != nil {
		return nil, err
	}
	return records, nil
}

func (r *RecordRepository) CountByUser(ctx context.Context, userID bson.ObjectID) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"user": userID})
}

// SetEverWrong fills the flag on a record that does not have it yet.
func (r *RecordRepository) SetEverWrong(ctx context.Context, id bson.ObjectID, value bool) error {
	_, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id, "everWrong": bson.M{"$exists": false}},
		bson.M{"$set": bson.M{"everWrong": value}},
	)
	return err
}
