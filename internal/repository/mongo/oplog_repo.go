package mongo

import (
	"coachdesk/coach-admin/internal/domain"
	"coachdesk/coach-admin/internal/repository"
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const oplogCollectionName = "operation_log"

// mongoOperationLogRepository implements repository.OperationLogRepository
type mongoOperationLogRepository struct {
	collection *mongo.Collection
}

// NewMongoOperationLogRepository creates a new operation log repository.
func NewMongoOperationLogRepository(db *mongo.Database) repository.OperationLogRepository {
	return &mongoOperationLogRepository{
		collection: db.Collection(oplogCollectionName),
	}
}

// Create inserts a pending operation record. The record is written before the
// destructive work begins so an interrupted run can be replayed.
func (r *mongoOperationLogRepository) Create(ctx context.Context, record *domain.OperationRecord) (primitive.ObjectID, error) {
	if record.Kind == "" || record.ClientID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("operation record requires kind and clientId")
	}
	record.ID = primitive.NewObjectID()
	record.Status = domain.OpPending
	record.CreatedAt = time.Now().UTC()

	result, err := r.collection.InsertOne(ctx, record)
	if err != nil {
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted record ID")
	}
	return insertedID, nil
}

// MarkCompleted stamps a record completed once all of its deletes finished.
func (r *mongoOperationLogRepository) MarkCompleted(ctx context.Context, id primitive.ObjectID) error {
	now := time.Now().UTC()
	update := bson.M{
		"$set": bson.M{
			"status":      domain.OpCompleted,
			"completedAt": now,
		},
	}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// ListPending retrieves all records still awaiting completion, oldest first.
func (r *mongoOperationLogRepository) ListPending(ctx context.Context) ([]domain.OperationRecord, error) {
	filter := bson.M{"status": domain.OpPending}
	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var records []domain.OperationRecord
	if err = cursor.All(ctx, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// EnsureOperationLogIndexes creates necessary indexes. Call during startup.
func EnsureOperationLogIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "status", Value: 1}, {Key: "createdAt", Value: 1}},
			Options: options.Index(),
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		// log.Printf("WARN: Failed to create indexes for collection %s: %v", collection.Name(), err)
	}
}
