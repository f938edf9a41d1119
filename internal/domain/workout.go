package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ClientWorkout is a concrete scheduled session for a client on a date. It
// references its owning period by embedded ID; the reference may be empty
// (quick workouts) or stale, so deletion flows query by date range instead.
type ClientWorkout struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ClientID          primitive.ObjectID `bson:"clientId" json:"clientId"`
	PeriodID          string             `bson:"periodId,omitempty" json:"periodId,omitempty"`
	Date              time.Time          `bson:"date" json:"date"`
	DayOfWeek         int                `bson:"dayOfWeek" json:"dayOfWeek"` // 0=Sunday .. 6=Saturday
	CategoryName      string             `bson:"categoryName" json:"categoryName"`
	AppliedTemplateID primitive.ObjectID `bson:"appliedTemplateId,omitempty" json:"appliedTemplateId,omitempty"`
	Title             string             `bson:"title,omitempty" json:"title,omitempty"`
	Time              string             `bson:"time,omitempty" json:"time,omitempty"` // HH:MM
	Warmups           []WorkoutWarmup    `bson:"warmups,omitempty" json:"warmups,omitempty"`
	Rounds            []WorkoutRound     `bson:"rounds,omitempty" json:"rounds,omitempty"`
	CreatedBy         string             `bson:"createdBy,omitempty" json:"createdBy,omitempty"`
	CreatedAt         time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt         time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// WorkoutWarmup is one ordered warmup line.
type WorkoutWarmup struct {
	Ordinal int    `bson:"ordinal" json:"ordinal"`
	Text    string `bson:"text" json:"text"`
}

// WorkoutRound groups movements performed for a number of sets.
type WorkoutRound struct {
	Ordinal     int             `bson:"ordinal" json:"ordinal"`
	Sets        int             `bson:"sets" json:"sets"`
	SectionName string          `bson:"sectionName,omitempty" json:"sectionName,omitempty"`
	Movements   []MovementUsage `bson:"movements,omitempty" json:"movements,omitempty"`
}

// MovementUsage is one movement inside a round with its target workload.
type MovementUsage struct {
	Ordinal    int    `bson:"ordinal" json:"ordinal"`
	MovementID string `bson:"movementId" json:"movementId"`
	Note       string `bson:"note,omitempty" json:"note,omitempty"`
	Reps       string `bson:"reps,omitempty" json:"reps,omitempty"` // e.g. "10", "8-12", "AMRAP"
	Weight     string `bson:"weight,omitempty" json:"weight,omitempty"`
	Tempo      string `bson:"tempo,omitempty" json:"tempo,omitempty"`
	RPE        string `bson:"rpe,omitempty" json:"rpe,omitempty"`
}
