package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Movement is one entry in the movement library ("Back Squat", "Row", ...).
// Workout rounds reference movements by ID hex in MovementUsage.
type Movement struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"`
	MuscleGroup string             `bson:"muscleGroup,omitempty" json:"muscleGroup,omitempty"`
	Equipment   string             `bson:"equipment,omitempty" json:"equipment,omitempty"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	VideoURL    string             `bson:"videoUrl,omitempty" json:"videoUrl,omitempty"`
	Order       int                `bson:"order" json:"order"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// WorkoutTemplate is a reusable workout structure: warmups plus rounds of
// movements. Assigning it to an event stamps the structure onto the created
// workout, which keeps the template ID in AppliedTemplateID.
type WorkoutTemplate struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name         string             `bson:"name" json:"name"`
	CategoryName string             `bson:"categoryName,omitempty" json:"categoryName,omitempty"`
	Warmups      []WorkoutWarmup    `bson:"warmups,omitempty" json:"warmups,omitempty"`
	Rounds       []WorkoutRound     `bson:"rounds,omitempty" json:"rounds,omitempty"`
	Order        int                `bson:"order" json:"order"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`
}
