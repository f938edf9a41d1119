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

const programCollectionName = "client_programs"

// mongoProgramRepository implements repository.ClientProgramRepository
type mongoProgramRepository struct {
	collection *mongo.Collection
}

// NewMongoProgramRepository creates a new client program repository.
func NewMongoProgramRepository(db *mongo.Database) repository.ClientProgramRepository {
	return &mongoProgramRepository{
		collection: db.Collection(programCollectionName),
	}
}

// Create inserts a new client program aggregate.
func (r *mongoProgramRepository) Create(ctx context.Context, program *domain.ClientProgram) (primitive.ObjectID, error) {
	if program.ClientID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("program requires clientId")
	}
	program.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	program.CreatedAt = now
	program.UpdatedAt = now
	if program.Status == "" {
		program.Status = domain.ProgramActive
	}
	if program.Periods == nil {
		program.Periods = []domain.Period{}
	}

	result, err := r.collection.InsertOne(ctx, program)
	if err != nil {
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted program ID")
	}
	return insertedID, nil
}

// GetByID retrieves a single program by its ID.
func (r *mongoProgramRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.ClientProgram, error) {
	var program domain.ClientProgram
	filter := bson.M{"_id": id}
	err := r.collection.FindOne(ctx, filter).Decode(&program)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &program, nil
}

// GetActiveByClient retrieves the client's active program. A client has at
// most one active program at a time.
func (r *mongoProgramRepository) GetActiveByClient(ctx context.Context, clientID primitive.ObjectID) (*domain.ClientProgram, error) {
	var program domain.ClientProgram
	filter := bson.M{
		"clientId": clientID,
		"status":   domain.ProgramActive,
	}
	// Newest first in case legacy data has more than one active program.
	findOptions := options.FindOne().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	err := r.collection.FindOne(ctx, filter, findOptions).Decode(&program)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &program, nil
}

// ReplacePeriods rewrites the embedded periods array wholesale. Period
// mutations always go through the aggregate, so a full replace keeps the
// document consistent with what the service computed.
func (r *mongoProgramRepository) ReplacePeriods(ctx context.Context, programID primitive.ObjectID, periods []domain.Period) error {
	if programID == primitive.NilObjectID {
		return errors.New("program ID is required for period update")
	}
	if periods == nil {
		periods = []domain.Period{}
	}

	filter := bson.M{"_id": programID}
	update := bson.M{
		"$set": bson.M{
			"periods":   periods,
			"updatedAt": time.Now().UTC(),
		},
	}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Delete removes a program document.
func (r *mongoProgramRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	if id == primitive.NilObjectID {
		return errors.New("program ID is required for deletion")
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureProgramIndexes creates necessary indexes. Call during startup.
func EnsureProgramIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			// Main query pattern: the active program for a client.
			Keys:    bson.D{{Key: "clientId", Value: 1}, {Key: "status", Value: 1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "clientId", Value: 1}},
			Options: options.Index(),
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		// log.Printf("WARN: Failed to create indexes for collection %s: %v", collection.Name(), err)
	}
}
