package repository

import (
	"coachdesk/coach-admin/internal/domain"
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Error constants for the repository layer.
var (
	ErrNotFound     = RepositoryError("not found")
	ErrUpdateFailed = RepositoryError("update failed")
	ErrDeleteFailed = RepositoryError("delete failed")
)

// RepositoryError helps distinguish repository errors.
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// UserRepository stores staff logins.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
}

// ClientRepository stores the coached-client roster.
type ClientRepository interface {
	Create(ctx context.Context, client *domain.Client) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Client, error)
	List(ctx context.Context, includeDeleted bool) ([]domain.Client, error)
	Update(ctx context.Context, client *domain.Client) error
	SoftDelete(ctx context.Context, id primitive.ObjectID) error
}

// ClientProgramRepository stores the program aggregate that owns a client's
// periods. Period mutations rewrite the embedded periods array, matching how
// the aggregate is owned.
type ClientProgramRepository interface {
	Create(ctx context.Context, program *domain.ClientProgram) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.ClientProgram, error)
	GetActiveByClient(ctx context.Context, clientID primitive.ObjectID) (*domain.ClientProgram, error)
	ReplacePeriods(ctx context.Context, programID primitive.ObjectID, periods []domain.Period) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// WorkoutRepository stores concrete scheduled workouts. Range queries are
// inclusive on both ends; deletion flows look up by range rather than by
// period reference so stale links cannot strand records.
type WorkoutRepository interface {
	Create(ctx context.Context, workout *domain.ClientWorkout) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.ClientWorkout, error)
	ListByDateRange(ctx context.Context, clientID primitive.ObjectID, start, end time.Time) ([]domain.ClientWorkout, error)
	Update(ctx context.Context, workout *domain.ClientWorkout) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// CalendarEventRepository is the local mirror of the external calendar
// provider. ListByClientAndRange matches events by structured client field
// or by legacy description metadata.
type CalendarEventRepository interface {
	Create(ctx context.Context, event *domain.CalendarEvent) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.CalendarEvent, error)
	ListByRange(ctx context.Context, start, end time.Time) ([]domain.CalendarEvent, error)
	ListByClientAndRange(ctx context.Context, clientID primitive.ObjectID, start, end time.Time) ([]domain.CalendarEvent, error)
	ListBySummaryAndRange(ctx context.Context, summarySubstring string, start, end time.Time) ([]domain.CalendarEvent, error)
	Update(ctx context.Context, event *domain.CalendarEvent) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// PeriodConfigRepository stores the reusable period catalog.
type PeriodConfigRepository interface {
	Create(ctx context.Context, config *domain.PeriodConfig) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.PeriodConfig, error)
	List(ctx context.Context) ([]domain.PeriodConfig, error)
	Update(ctx context.Context, config *domain.PeriodConfig) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// CategoryRepository stores workout categories.
type CategoryRepository interface {
	Create(ctx context.Context, category *domain.WorkoutCategory) (primitive.ObjectID, error)
	GetByName(ctx context.Context, name string) (*domain.WorkoutCategory, error)
	List(ctx context.Context) ([]domain.WorkoutCategory, error)
	Update(ctx context.Context, category *domain.WorkoutCategory) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// WeekTemplateRepository stores weekday→category templates.
type WeekTemplateRepository interface {
	Create(ctx context.Context, template *domain.WeekTemplate) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.WeekTemplate, error)
	List(ctx context.Context) ([]domain.WeekTemplate, error)
	Update(ctx context.Context, template *domain.WeekTemplate) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// MovementRepository stores the movement library.
type MovementRepository interface {
	Create(ctx context.Context, movement *domain.Movement) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Movement, error)
	List(ctx context.Context) ([]domain.Movement, error)
	Update(ctx context.Context, movement *domain.Movement) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// WorkoutTemplateRepository stores reusable workout structures.
type WorkoutTemplateRepository interface {
	Create(ctx context.Context, template *domain.WorkoutTemplate) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.WorkoutTemplate, error)
	List(ctx context.Context) ([]domain.WorkoutTemplate, error)
	Update(ctx context.Context, template *domain.WorkoutTemplate) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// OperationLogRepository stores durable intent records for destructive
// multi-store sequences.
type OperationLogRepository interface {
	Create(ctx context.Context, record *domain.OperationRecord) (primitive.ObjectID, error)
	MarkCompleted(ctx context.Context, id primitive.ObjectID) error
	ListPending(ctx context.Context) ([]domain.OperationRecord, error)
}
