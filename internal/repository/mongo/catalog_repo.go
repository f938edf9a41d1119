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
	periodConfigCollectionName = "period_configs"
	categoryCollectionName     = "workout_categories"
	weekTemplateCollectionName = "week_templates"
)

// mongoPeriodConfigRepository implements repository.PeriodConfigRepository
type mongoPeriodConfigRepository struct {
	collection *mongo.Collection
}

// NewMongoPeriodConfigRepository creates a new period catalog repository.
func NewMongoPeriodConfigRepository(db *mongo.Database) repository.PeriodConfigRepository {
	return &mongoPeriodConfigRepository{
		collection: db.Collection(periodConfigCollectionName),
	}
}

// Create inserts a new period config.
func (r *mongoPeriodConfigRepository) Create(ctx context.Context, config *domain.PeriodConfig) (primitive.ObjectID, error) {
	if config.Name == "" {
		return primitive.NilObjectID, errors.New("period config name is required")
	}
	config.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	config.CreatedAt = now
	config.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, config)
	if err != nil {
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted config ID")
	}
	return insertedID, nil
}

// GetByID retrieves a single period config.
func (r *mongoPeriodConfigRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.PeriodConfig, error) {
	var config domain.PeriodConfig
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&config)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &config, nil
}

// List retrieves all period configs in display order.
func (r *mongoPeriodConfigRepository) List(ctx context.Context) ([]domain.PeriodConfig, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "order", Value: 1}, {Key: "name", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var configs []domain.PeriodConfig
	if err = cursor.All(ctx, &configs); err != nil {
		return nil, err
	}
	return configs, nil
}

// Update replaces the mutable fields of a period config.
func (r *mongoPeriodConfigRepository) Update(ctx context.Context, config *domain.PeriodConfig) error {
	if config.ID == primitive.NilObjectID {
		return errors.New("period config ID is required for update")
	}
	update := bson.M{
		"$set": bson.M{
			"name":      config.Name,
			"color":     config.Color,
			"focus":     config.Focus,
			"order":     config.Order,
			"updatedAt": time.Now().UTC(),
		},
	}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": config.ID}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Delete removes a period config.
func (r *mongoPeriodConfigRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// mongoCategoryRepository implements repository.CategoryRepository
type mongoCategoryRepository struct {
	collection *mongo.Collection
}

// NewMongoCategoryRepository creates a new workout category repository.
func NewMongoCategoryRepository(db *mongo.Database) repository.CategoryRepository {
	return &mongoCategoryRepository{
		collection: db.Collection(categoryCollectionName),
	}
}

// Create inserts a new workout category.
func (r *mongoCategoryRepository) Create(ctx context.Context, category *domain.WorkoutCategory) (primitive.ObjectID, error) {
	if category.Name == "" {
		return primitive.NilObjectID, errors.New("category name is required")
	}
	category.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	category.CreatedAt = now
	category.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, category)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return primitive.NilObjectID, errors.New("category with this name already exists")
		}
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted category ID")
	}
	return insertedID, nil
}

// GetByName retrieves a category by its exact name. Categories are referenced
// by name throughout the schedule, so name is the lookup key.
func (r *mongoCategoryRepository) GetByName(ctx context.Context, name string) (*domain.WorkoutCategory, error) {
	var category domain.WorkoutCategory
	err := r.collection.FindOne(ctx, bson.M{"name": name}).Decode(&category)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &category, nil
}

// List retrieves all categories in display order.
func (r *mongoCategoryRepository) List(ctx context.Context) ([]domain.WorkoutCategory, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "order", Value: 1}, {Key: "name", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var categories []domain.WorkoutCategory
	if err = cursor.All(ctx, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

// Update replaces the mutable fields of a category.
func (r *mongoCategoryRepository) Update(ctx context.Context, category *domain.WorkoutCategory) error {
	if category.ID == primitive.NilObjectID {
		return errors.New("category ID is required for update")
	}
	update := bson.M{
		"$set": bson.M{
			"name":      category.Name,
			"color":     category.Color,
			"order":     category.Order,
			"updatedAt": time.Now().UTC(),
		},
	}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": category.ID}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Delete removes a category.
func (r *mongoCategoryRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// mongoWeekTemplateRepository implements repository.WeekTemplateRepository
type mongoWeekTemplateRepository struct {
	collection *mongo.Collection
}

// NewMongoWeekTemplateRepository creates a new week template repository.
func NewMongoWeekTemplateRepository(db *mongo.Database) repository.WeekTemplateRepository {
	return &mongoWeekTemplateRepository{
		collection: db.Collection(weekTemplateCollectionName),
	}
}

// Create inserts a new week template.
func (r *mongoWeekTemplateRepository) Create(ctx context.Context, template *domain.WeekTemplate) (primitive.ObjectID, error) {
	if template.Name == "" {
		return primitive.NilObjectID, errors.New("template name is required")
	}
	template.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	template.CreatedAt = now
	template.UpdatedAt = now
	if template.Days == nil {
		template.Days = []domain.WeekTemplateDay{}
	}

	result, err := r.collection.InsertOne(ctx, template)
	if err != nil {
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted template ID")
	}
	return insertedID, nil
}

// GetByID retrieves a single week template.
func (r *mongoWeekTemplateRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.WeekTemplate, error) {
	var template domain.WeekTemplate
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&template)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &template, nil
}

// List retrieves all week templates in display order.
func (r *mongoWeekTemplateRepository) List(ctx context.Context) ([]domain.WeekTemplate, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "order", Value: 1}, {Key: "name", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var templates []domain.WeekTemplate
	if err = cursor.All(ctx, &templates); err != nil {
		return nil, err
	}
	return templates, nil
}

// Update replaces the mutable fields of a week template.
func (r *mongoWeekTemplateRepository) Update(ctx context.Context, template *domain.WeekTemplate) error {
	if template.ID == primitive.NilObjectID {
		return errors.New("template ID is required for update")
	}
	update := bson.M{
		"$set": bson.M{
			"name":      template.Name,
			"color":     template.Color,
			"days":      template.Days,
			"order":     template.Order,
			"updatedAt": time.Now().UTC(),
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

// Delete removes a week template.
func (r *mongoWeekTemplateRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureCatalogIndexes creates indexes for the catalog collections. Call
// during startup.
func EnsureCatalogIndexes(ctx context.Context, db *mongo.Database) {
	nameUnique := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "name", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}
	for _, name := range []string{periodConfigCollectionName, categoryCollectionName, weekTemplateCollectionName} {
		_, err := db.Collection(name).Indexes().CreateMany(ctx, nameUnique)
		if err != nil {
			// log.Printf("WARN: Failed to create indexes for collection %s: %v", name, err)
		}
	}
}
