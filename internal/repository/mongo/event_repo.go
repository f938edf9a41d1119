package mongo

import (
	"coachdesk/coach-admin/internal/domain"
	"coachdesk/coach-admin/internal/repository"
	"context"
	"errors"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const eventCollectionName = "calendar_events"

// mongoEventRepository implements repository.CalendarEventRepository
type mongoEventRepository struct {
	collection *mongo.Collection
}

// NewMongoEventRepository creates a new calendar event repository.
func NewMongoEventRepository(db *mongo.Database) repository.CalendarEventRepository {
	return &mongoEventRepository{
		collection: db.Collection(eventCollectionName),
	}
}

// Create inserts a new calendar event.
func (r *mongoEventRepository) Create(ctx context.Context, event *domain.CalendarEvent) (primitive.ObjectID, error) {
	if event.Summary == "" {
		return primitive.NilObjectID, errors.New("event summary is required")
	}
	event.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	event.CreatedAt = now
	event.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, event)
	if err != nil {
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted event ID")
	}
	return insertedID, nil
}

// GetByID retrieves a single event by its ID.
func (r *mongoEventRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.CalendarEvent, error) {
	var event domain.CalendarEvent
	filter := bson.M{"_id": id}
	err := r.collection.FindOne(ctx, filter).Decode(&event)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &event, nil
}

// rangeFilter matches events that intersect the inclusive day range.
func rangeFilter(start, end time.Time) bson.M {
	return bson.M{
		"start": bson.M{"$lte": domain.DayEnd(end)},
		"end":   bson.M{"$gte": domain.DayStart(start)},
	}
}

// ListByRange retrieves all events intersecting the range, oldest first.
func (r *mongoEventRepository) ListByRange(ctx context.Context, start, end time.Time) ([]domain.CalendarEvent, error) {
	return r.findEvents(ctx, rangeFilter(start, end))
}

// ListByClientAndRange retrieves a client's events inside the range. Events
// written before structured linking carry the client only inside the
// description metadata block, so the filter matches either representation.
func (r *mongoEventRepository) ListByClientAndRange(ctx context.Context, clientID primitive.ObjectID, start, end time.Time) ([]domain.CalendarEvent, error) {
	filter := rangeFilter(start, end)
	filter["$or"] = bson.A{
		bson.M{"clientId": clientID},
		bson.M{"description": primitive.Regex{
			Pattern: "client=" + clientID.Hex(),
		}},
	}
	return r.findEvents(ctx, filter)
}

// ListBySummaryAndRange retrieves events inside the range whose summary
// contains the given substring, case-insensitively. Used as a straggler
// match for events that lost their metadata.
func (r *mongoEventRepository) ListBySummaryAndRange(ctx context.Context, summarySubstring string, start, end time.Time) ([]domain.CalendarEvent, error) {
	if summarySubstring == "" {
		return []domain.CalendarEvent{}, nil
	}
	filter := rangeFilter(start, end)
	filter["summary"] = primitive.Regex{
		Pattern: regexp.QuoteMeta(summarySubstring),
		Options: "i",
	}
	return r.findEvents(ctx, filter)
}

func (r *mongoEventRepository) findEvents(ctx context.Context, filter bson.M) ([]domain.CalendarEvent, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "start", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var events []domain.CalendarEvent
	if err = cursor.All(ctx, &events); err != nil {
		return nil, err
	}
	if err = cursor.Err(); err != nil {
		return nil, err
	}
	return events, nil
}

// Update replaces the mutable fields of an event.
func (r *mongoEventRepository) Update(ctx context.Context, event *domain.CalendarEvent) error {
	if event.ID == primitive.NilObjectID {
		return errors.New("event ID is required for update")
	}

	filter := bson.M{"_id": event.ID}
	updateDoc := bson.M{
		"$set": bson.M{
			"summary":         event.Summary,
			"description":     event.Description,
			"start":           event.Start,
			"end":             event.End,
			"timeZone":        event.TimeZone,
			"clientId":        event.ClientID,
			"category":        event.Category,
			"linkedWorkoutId": event.LinkedWorkoutID,
			"periodId":        event.PeriodID,
			"updatedAt":       time.Now().UTC(),
		},
	}

	result, err := r.collection.UpdateOne(ctx, filter, updateDoc)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Delete removes an event document.
func (r *mongoEventRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	if id == primitive.NilObjectID {
		return errors.New("event ID is required for deletion")
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

// EnsureEventIndexes creates necessary indexes. Call during startup.
func EnsureEventIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			// Range scans anchor on start; end is checked per document.
			Keys:    bson.D{{Key: "start", Value: 1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "clientId", Value: 1}, {Key: "start", Value: 1}},
			Options: options.Index().SetSparse(true),
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		// log.Printf("WARN: Failed to create indexes for collection %s: %v", collection.Name(), err)
	}
}
