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

const (
	movementCollectionName        = "movements"
	workoutTemplateCollectionName = "workout_templates"
)

// mongoMovementRepository implements repository.MovementRepository
type mongoMovementRepository struct {
	collection *mongo.Collection
}

// NewMongoMovementRepository creates a new movement library repository.
func NewMongoMovementRepository(db *mongo.Database) repository.MovementRepository {
	return &mongoMovementRepository{
		collection: db.Collection(movementCollectionName),
	}
}

// Create inserts a new movement.
func (r *mongoMovementRepository) Create(ctx context.Context, movement *domain.Movement) (primitive.ObjectID, error) {
	if movement.Name == "" {
		return primitive.NilObjectID, errors.New("movement name is required")
	}
	movement.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	movement.CreatedAt = now
	movement.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, movement)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return primitive.NilObjectID, errors.New("movement with this name already exists")
		}
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted movement ID")
	}
	return insertedID, nil
}

// GetByID retrieves a single movement.
func (r *mongoMovementRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Movement, error) {
	var movement domain.Movement
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&movement)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &movement, nil
}

// List retrieves the whole movement library in display order.
func (r *mongoMovementRepository) List(ctx context.Context) ([]domain.Movement, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "order", Value: 1}, {Key: "name", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var movements []domain.Movement
	if err = cursor.All(ctx, &movements); err != nil {
		return nil, err
	}
	return movements, nil
}

// Update replaces the mutable fields of a movement.
func (r *mongoMovementRepository) Update(ctx context.Context, movement *domain.Movement) error {
	if movement.ID == primitive.NilObjectID {
		return errors.New("movement ID is required for update")
	}
	update := bson.M{
		"$set": bson.M{
			"name":        movement.Name,
			"muscleGroup": movement.MuscleGroup,
			"equipment":   movement.Equipment,
			"description": movement.Description,
			"videoUrl":    movement.VideoURL,
			"order":       movement.Order,
			"updatedAt":   time.Now().UTC(),
		},
	}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": movement.ID}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Delete removes a movement.
func (r *mongoMovementRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// mongoWorkoutTemplateRepository implements repository.WorkoutTemplateRepository
type mongoWorkoutTemplateRepository struct {
	collection *mongo.Collection
}

// NewMongoWorkoutTemplateRepository creates a new workout template repository.
func NewMongoWorkoutTemplateRepository(db *mongo.Database) repository.WorkoutTemplateRepository {
	return &mongoWorkoutTemplateRepository{
		collection: db.Collection(workoutTemplateCollectionName),
	}
}

// Create inserts a new workout template.
func (r *mongoWorkoutTemplateRepository) Create(ctx context.Context, template *domain.WorkoutTemplate) (primitive.ObjectID, error) {
	if template.Name == "" {
		return primitive.NilObjectID, errors.New("workout template name is required")
	}
	template.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	template.CreatedAt = now
	template.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, template)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return primitive.NilObjectID, errors.New("workout template with this name already exists")
		}
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted workout template ID")
	}
	return insertedID, nil
}

// GetByID retrieves a single workout template.
func (r *mongoWorkoutTemplateRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.WorkoutTemplate, error) {
	var template domain.WorkoutTemplate
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&template)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &template, nil
}

// List retrieves all workout templates in display order.
func (r *mongoWorkoutTemplateRepository) List(ctx context.Context) ([]domain.WorkoutTemplate, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "order", Value: 1}, {Key: "name", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var templates []domain.WorkoutTemplate
	if err = cursor.All(ctx, &templates); err != nil {
		return nil, err
	}
	return templates, nil
}

// Update replaces the mutable fields of a workout template.
func (r *mongoWorkoutTemplateRepository) Update(ctx context.Context, template *domain.WorkoutTemplate) error {
	if template.ID == primitive.NilObjectID {
		return errors.New("workout template ID is required for update")
	}
	update := bson.M{
		"$set": bson.M{
			"name":         template.Name,
			"categoryName": template.CategoryName,
			"warmups":      template.Warmups,
			"rounds":       template.Rounds,
			"order":        template.Order,
			"updatedAt":    time.Now().UTC(),
		},
	}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": template.ID}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Delete removes a workout template.
func (r *mongoWorkoutTemplateRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureLibraryIndexes creates indexes for the movement and workout template
// collections. Call during startup.
func EnsureLibraryIndexes(ctx context.Context, db *mongo.Database) {
	nameUnique := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "name", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}
	for _, name := range []string{movementCollectionName, workoutTemplateCollectionName} {
		_, err := db.Collection(name).Indexes().CreateMany(ctx, nameUnique)
		if err != nil {
			// log.Printf("WARN: Failed to create indexes for collection %s: %v", name, err)
		}
	}
}
