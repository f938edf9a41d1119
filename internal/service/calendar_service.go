package service

import (
	"coachdesk/coach-admin/internal/domain"
	"coachdesk/coach-admin/internal/repository"
	"context"
	"errors"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrEventNotFound      = errors.New("calendar event not found")
	ErrEventAlreadyLinked = errors.New("event already has a linked workout")
	ErrCategoryRequired   = errors.New("a workout category is required to assign this event")
)

// CreateEventInput carries the fields for a new mirrored calendar event.
type CreateEventInput struct {
	Summary     string
	Description string
	Start       time.Time
	End         time.Time
	TimeZone    string
	ClientID    *primitive.ObjectID
	Category    string
}

// --- Service Interface ---

// CalendarService manages the local mirror of provider events and the links
// between an event, a client, and a workout record.
type CalendarService interface {
	CreateScheduleEvent(ctx context.Context, in CreateEventInput) (*domain.CalendarEvent, error)
	ListEvents(ctx context.Context, start, end time.Time) ([]domain.CalendarEvent, error)
	DeleteEvent(ctx context.Context, eventID primitive.ObjectID) error
	AssignClientToEvent(ctx context.Context, eventID, clientID primitive.ObjectID, category string, templateID primitive.ObjectID) (*domain.CalendarEvent, error)
	UnassignClientFromEvent(ctx context.Context, eventID primitive.ObjectID, deleteWorkout bool) (*domain.CalendarEvent, error)
}

// --- Service Implementation ---

type calendarService struct {
	eventRepo           repository.CalendarEventRepository
	workoutRepo         repository.WorkoutRepository
	programRepo         repository.ClientProgramRepository
	clientRepo          repository.ClientRepository
	workoutTemplateRepo repository.WorkoutTemplateRepository
}

// NewCalendarService creates a new instance of calendarService.
func NewCalendarService(
	eventRepo repository.CalendarEventRepository,
	workoutRepo repository.WorkoutRepository,
	programRepo repository.ClientProgramRepository,
	clientRepo repository.ClientRepository,
	workoutTemplateRepo repository.WorkoutTemplateRepository,
) CalendarService {
	return &calendarService{
		eventRepo:           eventRepo,
		workoutRepo:         workoutRepo,
		programRepo:         programRepo,
		clientRepo:          clientRepo,
		workoutTemplateRepo: workoutTemplateRepo,
	}
}

// CreateScheduleEvent creates a mirrored event. When a client link is given
// the description metadata is generated alongside the structured fields.
func (s *calendarService) CreateScheduleEvent(ctx context.Context, in CreateEventInput) (*domain.CalendarEvent, error) {
	if in.Summary == "" {
		return nil, errors.New("event summary is required")
	}
	if in.Start.IsZero() || in.End.IsZero() || in.End.Before(in.Start) {
		return nil, ErrInvalidDateRange
	}

	event := &domain.CalendarEvent{
		Summary:     in.Summary,
		Description: in.Description,
		Start:       in.Start,
		End:         in.End,
		TimeZone:    in.TimeZone,
		ClientID:    in.ClientID,
		Category:    in.Category,
	}
	if in.ClientID != nil || in.Category != "" {
		md := domain.EventMetadata{Category: in.Category}
		if in.ClientID != nil {
			md.ClientID = in.ClientID.Hex()
		}
		event.Description = domain.FormatEventDescription(in.Description, md)
	}

	id, err := s.eventRepo.Create(ctx, event)
	if err != nil {
		return nil, err
	}
	event.ID = id
	return event, nil
}

// ListEvents retrieves all mirrored events intersecting the range.
func (s *calendarService) ListEvents(ctx context.Context, start, end time.Time) ([]domain.CalendarEvent, error) {
	if start.IsZero() || end.IsZero() || end.Before(start) {
		return nil, ErrInvalidDateRange
	}
	return s.eventRepo.ListByRange(ctx, start, end)
}

// DeleteEvent removes a mirrored event.
func (s *calendarService) DeleteEvent(ctx context.Context, eventID primitive.ObjectID) error {
	err := s.eventRepo.Delete(ctx, eventID)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrEventNotFound
	}
	return err
}

// AssignClientToEvent links a client to an unlinked event: resolves the
// owning period for the event's date, creates the backing workout, and
// stamps the link onto the event (structured fields plus regenerated
// description metadata). A non-nil templateID copies the workout template's
// structure onto the created workout.
func (s *calendarService) AssignClientToEvent(ctx context.Context, eventID, clientID primitive.ObjectID, category string, templateID primitive.ObjectID) (*domain.CalendarEvent, error) {
	if clientID == primitive.NilObjectID {
		return nil, errors.New("client ID is required")
	}

	var template *domain.WorkoutTemplate
	if templateID != primitive.NilObjectID {
		t, terr := s.workoutTemplateRepo.GetByID(ctx, templateID)
		if terr != nil {
			if errors.Is(terr, repository.ErrNotFound) {
				return nil, ErrCatalogEntryNotFound
			}
			return nil, terr
		}
		template = t
	}

	// 1. Fetch and guard the event.
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}
	if event.HasLinkedWorkout() {
		return nil, ErrEventAlreadyLinked
	}

	// 2. Verify the client exists.
	client, err := s.clientRepo.GetByID(ctx, clientID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, err
	}

	// 3. Resolve the owning period; quick workouts carry no period link.
	date := domain.DayStart(event.Start)
	periodID := ""
	var periodDay *domain.PeriodDay
	if program, perr := s.programRepo.GetActiveByClient(ctx, clientID); perr == nil {
		if period := program.PeriodContaining(date); period != nil {
			periodID = period.ID
			if idx := period.DayIndex(date); idx >= 0 {
				periodDay = &period.Days[idx]
			}
		}
	} else if !errors.Is(perr, repository.ErrNotFound) {
		return nil, perr
	}

	// 4. Resolve the category: explicit wins, then the template's, then what
	// the event already carries, then the scheduled category for that date.
	if category == "" && template != nil {
		category = template.CategoryName
	}
	if category == "" {
		category = event.Category
	}
	if category == "" {
		category = domain.ParseEventMetadata(event.Description).Category
	}
	if category == "" && periodDay != nil {
		category = periodDay.WorkoutCategory
	}
	if category == "" {
		return nil, ErrCategoryRequired
	}

	// 5. Create the backing workout, carrying the event's start time and the
	// template structure when one was chosen.
	workout := &domain.ClientWorkout{
		ClientID:     clientID,
		PeriodID:     periodID,
		Date:         date,
		CategoryName: category,
	}
	if template != nil {
		workout.AppliedTemplateID = template.ID
		workout.Title = template.Name
		workout.Warmups = template.Warmups
		workout.Rounds = template.Rounds
	}
	if !event.Start.Equal(date) {
		workout.Time = event.Start.UTC().Format("15:04")
	}
	workoutID, err := s.workoutRepo.Create(ctx, workout)
	if err != nil {
		return nil, err
	}

	// 6. Stamp the link onto the event.
	event.ClientID = &clientID
	event.Category = category
	event.LinkedWorkoutID = &workoutID
	event.PeriodID = periodID
	event.Description = domain.FormatEventDescription(event.Description, domain.EventMetadata{
		ClientID:  clientID.Hex(),
		Category:  category,
		WorkoutID: workoutID.Hex(),
		PeriodID:  periodID,
	})
	if err := s.eventRepo.Update(ctx, event); err != nil {
		// The workout exists but the event was not stamped; the caller's
		// refresh will show the workout and the event stays assignable.
		log.Printf("ERROR: created workout %s for client %s but failed to stamp event %s: %v",
			workoutID.Hex(), client.Name, eventID.Hex(), err)
		return nil, err
	}
	return event, nil
}

// UnassignClientFromEvent clears the link fields and strips the metadata
// block. The linked workout is deleted best-effort when requested.
func (s *calendarService) UnassignClientFromEvent(ctx context.Context, eventID primitive.ObjectID, deleteWorkout bool) (*domain.CalendarEvent, error) {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}

	if deleteWorkout {
		workoutID := primitive.NilObjectID
		if event.LinkedWorkoutID != nil {
			workoutID = *event.LinkedWorkoutID
		} else if hex := domain.ParseEventMetadata(event.Description).WorkoutID; hex != "" {
			if id, herr := primitive.ObjectIDFromHex(hex); herr == nil {
				workoutID = id
			}
		}
		if workoutID != primitive.NilObjectID {
			if derr := s.workoutRepo.Delete(ctx, workoutID); derr != nil && !errors.Is(derr, repository.ErrNotFound) {
				log.Printf("WARN: failed to delete workout %s while unassigning event %s: %v",
					workoutID.Hex(), eventID.Hex(), derr)
			}
		}
	}

	event.ClientID = nil
	event.Category = ""
	event.LinkedWorkoutID = nil
	event.PeriodID = ""
	event.Description = domain.StripEventMetadata(event.Description)
	if err := s.eventRepo.Update(ctx, event); err != nil {
		return nil, err
	}
	return event, nil
}
