package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// OperationKind identifies a multi-store mutation sequence.
type OperationKind string

const (
	OpDeletePeriod    OperationKind = "delete_period"
	OpClearAllPeriods OperationKind = "clear_all_periods"
)

// OperationStatus tracks whether a recorded intent has finished.
type OperationStatus string

const (
	OpPending   OperationStatus = "pending"
	OpCompleted OperationStatus = "completed"
)

// OperationRecord is a durable intent record written before a destructive
// multi-store sequence (delete period, clear all) and marked complete after.
// A record left pending by a crash is re-executed on startup; the payload
// carries everything needed to replay the sequence idempotently.
type OperationRecord struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Kind        OperationKind      `bson:"kind" json:"kind"`
	ClientID    primitive.ObjectID `bson:"clientId" json:"clientId"`
	ProgramID   primitive.ObjectID `bson:"programId,omitempty" json:"programId,omitempty"`
	PeriodID    string             `bson:"periodId,omitempty" json:"periodId,omitempty"`
	RangeStart  time.Time          `bson:"rangeStart" json:"rangeStart"`
	RangeEnd    time.Time          `bson:"rangeEnd" json:"rangeEnd"`
	ClientName  string             `bson:"clientName,omitempty" json:"clientName,omitempty"` // For the summary straggler match on replay
	Status      OperationStatus    `bson:"status" json:"status"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	CompletedAt *time.Time         `bson:"completedAt,omitempty" json:"completedAt,omitempty"`
}
