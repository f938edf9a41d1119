package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DefaultCategoryColor is used when a category name has no catalog entry.
const DefaultCategoryColor = "#6b7280"

// PeriodConfig is a reusable period definition (e.g. "Hypertrophy Block")
// that period assignments reference by ID.
type PeriodConfig struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name      string             `bson:"name" json:"name"`
	Color     string             `bson:"color" json:"color"`
	Focus     string             `bson:"focus,omitempty" json:"focus,omitempty"`
	Order     int                `bson:"order" json:"order"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// WorkoutCategory is a named, colored session type ("Strength", "Cardio
// Day", ...). Day entries and workouts reference categories by name.
type WorkoutCategory struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name      string             `bson:"name" json:"name"`
	Color     string             `bson:"color" json:"color"`
	Order     int                `bson:"order" json:"order"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// WeekTemplateDay maps one weekday of a template to a category. Weekdays
// absent from the template yield no day entry when the template is expanded.
type WeekTemplateDay struct {
	Day             string `bson:"day" json:"day"` // weekday name, e.g. "Monday"
	WorkoutCategory string `bson:"workoutCategory" json:"workoutCategory"`
}

// WeekTemplate is a reusable weekday→category pattern used to bulk-populate
// a period's days.
type WeekTemplate struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name      string             `bson:"name" json:"name"`
	Color     string             `bson:"color,omitempty" json:"color,omitempty"`
	Days      []WeekTemplateDay  `bson:"days" json:"days"`
	Order     int                `bson:"order" json:"order"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// CategoryFor returns the category the template assigns to the given
// weekday, or "" when the weekday has no template entry.
func (t *WeekTemplate) CategoryFor(weekday time.Weekday) string {
	name := weekday.String()
	for _, d := range t.Days {
		if d.Day == name {
			return d.WorkoutCategory
		}
	}
	return ""
}
