package service

import (
	"coachdesk/coach-admin/internal/domain"
	"coachdesk/coach-admin/internal/repository"
	"coachdesk/coach-admin/internal/storage"
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrInvalidDateRange = errors.New("start date must not be after end date")
	ErrProgramNotFound  = errors.New("client program not found")
	ErrPeriodNotFound   = errors.New("period not found in program")
	ErrTemplateNotFound = errors.New("week template not found")
)

// RemoveCategoryMarker is the sentinel category a caller passes to
// MoveOrChangeCategory to mean "remove this day" instead of assigning.
const RemoveCategoryMarker = "__REMOVE__"

// quickPeriodColor is the display color of the synthetic catch-all period.
const quickPeriodColor = "#10b981"

// PeriodOverlapError reports which existing period clashes with a requested
// assignment range.
type PeriodOverlapError struct {
	PeriodID   string
	PeriodName string
	StartDate  time.Time
	EndDate    time.Time
}

func (e *PeriodOverlapError) Error() string {
	return fmt.Sprintf("date range overlaps existing period %q (%s - %s)",
		e.PeriodName, e.StartDate.Format("2006-01-02"), e.EndDate.Format("2006-01-02"))
}

// AssignPeriodInput carries everything needed to assign a new period to a
// client. DayOverrides replace whatever the week template derives for their
// date; DeletedDates are dates the caller explicitly cleared, which stay
// uncategorized even when the template matches them.
type AssignPeriodInput struct {
	PeriodConfigID string
	PeriodName     string
	PeriodColor    string
	StartDate      time.Time
	EndDate        time.Time
	WeekTemplateID primitive.ObjectID
	DayOverrides   []domain.PeriodDay
	DeletedDates   []time.Time
	CreatedBy      string
}

// --- Service Interface ---

// ReconciliationService propagates a single scheduling intent into consistent
// mutations across the program's periods, the client's workouts, and the
// mirrored calendar events. All mutating operations are serialized per client.
type ReconciliationService interface {
	GetProgram(ctx context.Context, clientID primitive.ObjectID) (*domain.ClientProgram, error)
	ListWorkouts(ctx context.Context, clientID primitive.ObjectID, start, end time.Time) ([]domain.ClientWorkout, error)
	AssignPeriod(ctx context.Context, clientID primitive.ObjectID, in AssignPeriodInput) (*domain.Period, error)
	MoveOrChangeCategory(ctx context.Context, clientID primitive.ObjectID, fromDate, toDate time.Time, category string) (*domain.ClientProgram, error)
	RemoveDay(ctx context.Context, clientID primitive.ObjectID, date time.Time) (*domain.ClientProgram, error)
	DeletePeriod(ctx context.Context, programID primitive.ObjectID, periodID string) error
	ClearAllPeriods(ctx context.Context, clientID primitive.ObjectID) error
	ApplyWeekTemplate(ctx context.Context, programID primitive.ObjectID, periodID string, weekTemplateID primitive.ObjectID) (*domain.Period, error)
	ResumePendingOperations(ctx context.Context) error
}

// clientLocker hands out one mutex per client so read-modify-write cycles on
// the same program document cannot interleave.
type clientLocker struct {
	mu    sync.Mutex
	locks map[primitive.ObjectID]*sync.Mutex
}

func newClientLocker() *clientLocker {
	return &clientLocker{locks: make(map[primitive.ObjectID]*sync.Mutex)}
}

// Lock acquires the client's mutex and returns the unlock function.
func (c *clientLocker) Lock(clientID primitive.ObjectID) func() {
	c.mu.Lock()
	m, ok := c.locks[clientID]
	if !ok {
		m = &sync.Mutex{}
		c.locks[clientID] = m
	}
	c.mu.Unlock()
	m.Lock()
	return m.Unlock
}

// --- Service Implementation ---

type reconciliationService struct {
	programRepo  repository.ClientProgramRepository
	eventRepo    repository.CalendarEventRepository
	workoutRepo  repository.WorkoutRepository
	templateRepo repository.WeekTemplateRepository
	categoryRepo repository.CategoryRepository
	clientRepo   repository.ClientRepository
	oplogRepo    repository.OperationLogRepository
	archive      storage.ArchiveStore // nil when archival is disabled
	locks        *clientLocker
}

// NewReconciliationService creates a new instance of reconciliationService.
// archive may be nil, in which case pre-delete snapshots are skipped.
func NewReconciliationService(
	programRepo repository.ClientProgramRepository,
	eventRepo repository.CalendarEventRepository,
	workoutRepo repository.WorkoutRepository,
	templateRepo repository.WeekTemplateRepository,
	categoryRepo repository.CategoryRepository,
	clientRepo repository.ClientRepository,
	oplogRepo repository.OperationLogRepository,
	archive storage.ArchiveStore,
) ReconciliationService {
	return &reconciliationService{
		programRepo:  programRepo,
		eventRepo:    eventRepo,
		workoutRepo:  workoutRepo,
		templateRepo: templateRepo,
		categoryRepo: categoryRepo,
		clientRepo:   clientRepo,
		oplogRepo:    oplogRepo,
		archive:      archive,
		locks:        newClientLocker(),
	}
}

// GetProgram retrieves the client's active program (the refresh read).
func (s *reconciliationService) GetProgram(ctx context.Context, clientID primitive.ObjectID) (*domain.ClientProgram, error) {
	if clientID == primitive.NilObjectID {
		return nil, errors.New("client ID is required")
	}
	program, err := s.programRepo.GetActiveByClient(ctx, clientID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProgramNotFound
		}
		return nil, err
	}
	return program, nil
}

// ListWorkouts retrieves the client's workouts in the inclusive range.
func (s *reconciliationService) ListWorkouts(ctx context.Context, clientID primitive.ObjectID, start, end time.Time) ([]domain.ClientWorkout, error) {
	if clientID == primitive.NilObjectID {
		return nil, errors.New("client ID is required")
	}
	if start.IsZero() || end.IsZero() || domain.DayStart(start).After(domain.DayEnd(end)) {
		return nil, ErrInvalidDateRange
	}
	return s.workoutRepo.ListByDateRange(ctx, clientID, start, end)
}

// === Period Assignment ===

// AssignPeriod validates and persists a new period on the client's program.
// Only the period is written; workouts and events are created lazily later.
func (s *reconciliationService) AssignPeriod(ctx context.Context, clientID primitive.ObjectID, in AssignPeriodInput) (*domain.Period, error) {
	// 1. Validate input before any mutation.
	if clientID == primitive.NilObjectID {
		return nil, errors.New("client ID is required")
	}
	if in.StartDate.IsZero() || in.EndDate.IsZero() || domain.DayStart(in.StartDate).After(domain.DayEnd(in.EndDate)) {
		return nil, ErrInvalidDateRange
	}

	unlock := s.locks.Lock(clientID)
	defer unlock()

	// 2. Load or create the program aggregate.
	program, err := s.programRepo.GetActiveByClient(ctx, clientID)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
		program = &domain.ClientProgram{
			ClientID:  clientID,
			StartDate: domain.DayStart(in.StartDate),
			EndDate:   domain.DayEnd(in.EndDate),
			Status:    domain.ProgramActive,
			Periods:   []domain.Period{},
			CreatedBy: in.CreatedBy,
		}
		if program.ID, err = s.programRepo.Create(ctx, program); err != nil {
			return nil, err
		}
	}

	// 3. Reject ranges that clash with an existing period.
	for i := range program.Periods {
		p := &program.Periods[i]
		if domain.RangesOverlap(in.StartDate, in.EndDate, p.StartDate, p.EndDate) {
			return nil, &PeriodOverlapError{
				PeriodID:   p.ID,
				PeriodName: p.PeriodName,
				StartDate:  p.StartDate,
				EndDate:    p.EndDate,
			}
		}
	}

	// 4. Expand the week template across the range, apply overrides.
	days, err := s.expandDays(ctx, in)
	if err != nil {
		return nil, err
	}

	period := domain.Period{
		ID:             domain.PeriodIDPrefix + uuid.NewString(),
		PeriodConfigID: in.PeriodConfigID,
		PeriodName:     in.PeriodName,
		PeriodColor:    in.PeriodColor,
		StartDate:      domain.DayStart(in.StartDate),
		EndDate:        domain.DayStart(in.EndDate),
		WeekTemplateID: in.WeekTemplateID,
		Days:           days,
	}

	// 5. Persist the period on the aggregate.
	program.Periods = append(program.Periods, period)
	if err := s.programRepo.ReplacePeriods(ctx, program.ID, program.Periods); err != nil {
		return nil, err
	}
	return &period, nil
}

// expandDays derives the day entries for a new period: week template first,
// then per-day overrides on top, skipping explicitly deleted dates. Dates
// with neither a template match nor an override get no entry at all.
func (s *reconciliationService) expandDays(ctx context.Context, in AssignPeriodInput) ([]domain.PeriodDay, error) {
	var template *domain.WeekTemplate
	if in.WeekTemplateID != primitive.NilObjectID {
		t, err := s.templateRepo.GetByID(ctx, in.WeekTemplateID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, ErrTemplateNotFound
			}
			return nil, err
		}
		template = t
	}

	overrides := make(map[time.Time]domain.PeriodDay, len(in.DayOverrides))
	for _, o := range in.DayOverrides {
		overrides[domain.DayStart(o.Date)] = o
	}
	deleted := make(map[time.Time]bool, len(in.DeletedDates))
	for _, d := range in.DeletedDates {
		deleted[domain.DayStart(d)] = true
	}

	colors := map[string]string{}
	days := []domain.PeriodDay{}
	end := domain.DayEnd(in.EndDate)
	for d := domain.DayStart(in.StartDate); !d.After(end); d = d.AddDate(0, 0, 1) {
		if deleted[d] {
			continue
		}
		if o, ok := overrides[d]; ok {
			o.Date = d
			if o.WorkoutCategoryColor == "" {
				o.WorkoutCategoryColor = s.categoryColor(ctx, o.WorkoutCategory, colors)
			}
			days = append(days, o)
			continue
		}
		if template == nil {
			continue
		}
		category := template.CategoryFor(d.Weekday())
		if category == "" {
			continue
		}
		days = append(days, domain.PeriodDay{
			Date:                 d,
			WorkoutCategory:      category,
			WorkoutCategoryColor: s.categoryColor(ctx, category, colors),
			IsAllDay:             true,
		})
	}
	return days, nil
}

// categoryColor resolves a category's display color by name, memoized in
// colors for the duration of one operation.
func (s *reconciliationService) categoryColor(ctx context.Context, name string, colors map[string]string) string {
	if c, ok := colors[name]; ok {
		return c
	}
	color := domain.DefaultCategoryColor
	if category, err := s.categoryRepo.GetByName(ctx, name); err == nil && category.Color != "" {
		color = category.Color
	}
	colors[name] = color
	return color
}

// === Day Moves ===

// MoveOrChangeCategory moves a day entry between dates or rewrites its
// category in place. A missing program or owning period is created on the
// fly rather than rejected.
func (s *reconciliationService) MoveOrChangeCategory(ctx context.Context, clientID primitive.ObjectID, fromDate, toDate time.Time, category string) (*domain.ClientProgram, error) {
	if category == RemoveCategoryMarker {
		return s.RemoveDay(ctx, clientID, fromDate)
	}
	if clientID == primitive.NilObjectID {
		return nil, errors.New("client ID is required")
	}

	unlock := s.locks.Lock(clientID)
	defer unlock()

	colors := map[string]string{}
	color := s.categoryColor(ctx, category, colors)

	// No program yet: back the change with a synthetic catch-all period so
	// unplanned sessions always have somewhere to live. The entry goes into
	// the fresh quick period directly, whatever its date.
	program, err := s.programRepo.GetActiveByClient(ctx, clientID)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
		program, err = s.createQuickProgram(ctx, clientID)
		if err != nil {
			return nil, err
		}
		program.Periods[0].Days = append(program.Periods[0].Days, domain.PeriodDay{
			Date:                 domain.DayStart(toDate),
			WorkoutCategory:      category,
			WorkoutCategoryColor: color,
			IsAllDay:             true,
		})
		return s.persistPeriods(ctx, program)
	}

	period := program.PeriodContaining(fromDate)
	if period == nil {
		// One-off: a brand-new single-day period instead of stretching an
		// existing one. Anchored at the source date.
		oneOff := domain.Period{
			ID:          domain.OneOffPeriodPrefix + uuid.NewString(),
			PeriodName:  domain.OneOffNamePrefix + category,
			PeriodColor: color,
			StartDate:   domain.DayStart(fromDate),
			EndDate:     domain.DayStart(fromDate),
			Days: []domain.PeriodDay{{
				Date:                 domain.DayStart(fromDate),
				WorkoutCategory:      category,
				WorkoutCategoryColor: color,
				IsAllDay:             true,
			}},
		}
		program.Periods = append(program.Periods, oneOff)
		return s.persistPeriods(ctx, program)
	}

	idx := period.DayIndex(fromDate)
	switch {
	case domain.SameDay(fromDate, toDate):
		if idx >= 0 {
			// Pure category change, entry timing untouched.
			period.Days[idx].WorkoutCategory = category
			period.Days[idx].WorkoutCategoryColor = color
		} else {
			period.Days = append(period.Days, domain.PeriodDay{
				Date:                 domain.DayStart(fromDate),
				WorkoutCategory:      category,
				WorkoutCategoryColor: color,
				IsAllDay:             true,
			})
		}
	case idx >= 0:
		// A move: drop the source entry, carry its timing to the target.
		moved := period.Days[idx]
		period.Days = append(period.Days[:idx], period.Days[idx+1:]...)
		period.Days = append(period.Days, domain.PeriodDay{
			Date:                 domain.DayStart(toDate),
			WorkoutCategory:      category,
			WorkoutCategoryColor: color,
			Time:                 moved.Time,
			IsAllDay:             moved.IsAllDay,
		})
		extendPeriodRange(period, toDate)
	default:
		// Nothing at the source date; a fresh entry goes there, not at the
		// target.
		period.Days = append(period.Days, domain.PeriodDay{
			Date:                 domain.DayStart(fromDate),
			WorkoutCategory:      category,
			WorkoutCategoryColor: color,
			IsAllDay:             true,
		})
	}

	return s.persistPeriods(ctx, program)
}

// extendPeriodRange widens the period bounds when a moved day lands outside
// them.
func extendPeriodRange(p *domain.Period, date time.Time) {
	d := domain.DayStart(date)
	if d.Before(domain.DayStart(p.StartDate)) {
		p.StartDate = d
	}
	if d.After(domain.DayEnd(p.EndDate)) {
		p.EndDate = d
	}
}

// createQuickProgram creates a program holding only the synthetic
// "Ongoing" quick-workout period (now through the far-future end date).
func (s *reconciliationService) createQuickProgram(ctx context.Context, clientID primitive.ObjectID) (*domain.ClientProgram, error) {
	now := domain.DayStart(time.Now().UTC())
	program := &domain.ClientProgram{
		ClientID:  clientID,
		StartDate: now,
		EndDate:   domain.QuickPeriodEndDate,
		Status:    domain.ProgramActive,
		Periods: []domain.Period{{
			ID:          domain.QuickPeriodIDPrefix + uuid.NewString(),
			PeriodName:  domain.QuickPeriodName,
			PeriodColor: quickPeriodColor,
			StartDate:   now,
			EndDate:     domain.QuickPeriodEndDate,
			Days:        []domain.PeriodDay{},
		}},
	}
	id, err := s.programRepo.Create(ctx, program)
	if err != nil {
		return nil, err
	}
	program.ID = id
	return program, nil
}

// persistPeriods writes the mutated periods array back. Failures are logged;
// the caller re-fetches state either way, so the in-memory program is
// returned alongside the error.
func (s *reconciliationService) persistPeriods(ctx context.Context, program *domain.ClientProgram) (*domain.ClientProgram, error) {
	if err := s.programRepo.ReplacePeriods(ctx, program.ID, program.Periods); err != nil {
		log.Printf("ERROR: failed to persist periods for program %s: %v", program.ID.Hex(), err)
		return program, err
	}
	return program, nil
}

// === Day Removal ===

// RemoveDay clears the entry at date from its owning period. Removing the
// only day of a one-off period deletes the whole period. Missing program,
// period, or entry is a logged no-op.
func (s *reconciliationService) RemoveDay(ctx context.Context, clientID primitive.ObjectID, date time.Time) (*domain.ClientProgram, error) {
	if clientID == primitive.NilObjectID {
		return nil, errors.New("client ID is required")
	}

	unlock := s.locks.Lock(clientID)
	defer unlock()

	program, err := s.programRepo.GetActiveByClient(ctx, clientID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			log.Printf("RemoveDay: no program for client %s, nothing to remove", clientID.Hex())
			return nil, nil
		}
		return nil, err
	}

	period := program.PeriodContaining(date)
	if period == nil {
		log.Printf("RemoveDay: no period contains %s for client %s", date.Format("2006-01-02"), clientID.Hex())
		return program, nil
	}

	idx := period.DayIndex(date)
	if idx < 0 {
		log.Printf("RemoveDay: no day entry at %s in period %s", date.Format("2006-01-02"), period.ID)
		return program, nil
	}

	if period.IsOneOff() && len(period.Days) == 1 {
		// Last day of a one-off period takes the period with it.
		for i := range program.Periods {
			if program.Periods[i].ID == period.ID {
				program.Periods = append(program.Periods[:i], program.Periods[i+1:]...)
				break
			}
		}
	} else {
		period.Days = append(period.Days[:idx], period.Days[idx+1:]...)
	}

	return s.persistPeriods(ctx, program)
}

// === Destructive Operations ===

// DeletePeriod removes a period and every workout and calendar event in its
// date range, as one oplog-guarded logical unit. Workouts are matched by
// range, not by period reference: stale or missing links still get cleaned.
func (s *reconciliationService) DeletePeriod(ctx context.Context, programID primitive.ObjectID, periodID string) error {
	// The first read only resolves the owning client for the lock. The
	// document is re-read under the lock so a mutation committed in between
	// is not overwritten by a stale periods array.
	program, err := s.programRepo.GetByID(ctx, programID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrProgramNotFound
		}
		return err
	}

	unlock := s.locks.Lock(program.ClientID)
	defer unlock()

	program, err = s.programRepo.GetByID(ctx, programID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrProgramNotFound
		}
		return err
	}
	period := program.PeriodByID(periodID)
	if period == nil {
		return ErrPeriodNotFound
	}

	start, end := domain.DayStart(period.StartDate), domain.DayEnd(period.EndDate)

	// Record intent before touching anything, so a crash mid-sequence can be
	// replayed at startup.
	record := &domain.OperationRecord{
		Kind:       domain.OpDeletePeriod,
		ClientID:   program.ClientID,
		ProgramID:  programID,
		PeriodID:   periodID,
		RangeStart: start,
		RangeEnd:   end,
	}
	recordID, err := s.oplogRepo.Create(ctx, record)
	if err != nil {
		return err
	}

	events := s.listEventsInRange(ctx, program.ClientID, start, end, "")
	workouts := s.listWorkoutsInRange(ctx, program.ClientID, start, end)
	s.archiveSnapshot(ctx, program.ClientID, periodID, map[string]any{
		"period":   period,
		"events":   events,
		"workouts": workouts,
	})

	s.deleteEvents(ctx, events)
	s.deleteWorkouts(ctx, workouts)

	remaining := make([]domain.Period, 0, len(program.Periods)-1)
	for _, p := range program.Periods {
		if p.ID != periodID {
			remaining = append(remaining, p)
		}
	}
	if err := s.programRepo.ReplacePeriods(ctx, programID, remaining); err != nil {
		return err
	}

	if err := s.oplogRepo.MarkCompleted(ctx, recordID); err != nil {
		log.Printf("WARN: failed to mark operation %s completed: %v", recordID.Hex(), err)
	}
	return nil
}

// ClearAllPeriods wipes the client's schedule: every event and workout in the
// union range of all periods, then all periods in one batch. Zero periods
// degrades to a hundred-year sweep plus a client-name match against event
// summaries to catch stragglers that lost their metadata.
func (s *reconciliationService) ClearAllPeriods(ctx context.Context, clientID primitive.ObjectID) error {
	if clientID == primitive.NilObjectID {
		return errors.New("client ID is required")
	}

	unlock := s.locks.Lock(clientID)
	defer unlock()

	var program *domain.ClientProgram
	program, err := s.programRepo.GetActiveByClient(ctx, clientID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return err
	}

	var start, end time.Time
	var clientName string
	var haveRange bool
	if program != nil {
		start, end, haveRange = program.UnionRange()
	}
	if !haveRange {
		start = time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)
		end = time.Date(2100, time.December, 31, 23, 59, 59, 0, time.UTC)
		if client, cerr := s.clientRepo.GetByID(ctx, clientID); cerr == nil {
			clientName = client.Name
		}
	}

	record := &domain.OperationRecord{
		Kind:       domain.OpClearAllPeriods,
		ClientID:   clientID,
		RangeStart: start,
		RangeEnd:   end,
		ClientName: clientName,
	}
	if program != nil {
		record.ProgramID = program.ID
	}
	recordID, err := s.oplogRepo.Create(ctx, record)
	if err != nil {
		return err
	}

	events := s.listEventsInRange(ctx, clientID, start, end, clientName)
	workouts := s.listWorkoutsInRange(ctx, clientID, start, end)
	snapshot := map[string]any{"events": events, "workouts": workouts}
	if program != nil {
		snapshot["periods"] = program.Periods
	}
	s.archiveSnapshot(ctx, clientID, "all-periods", snapshot)

	s.deleteEvents(ctx, events)
	s.deleteWorkouts(ctx, workouts)

	if program != nil {
		if err := s.programRepo.ReplacePeriods(ctx, program.ID, []domain.Period{}); err != nil {
			return err
		}
	}

	if err := s.oplogRepo.MarkCompleted(ctx, recordID); err != nil {
		log.Printf("WARN: failed to mark operation %s completed: %v", recordID.Hex(), err)
	}
	return nil
}

// listEventsInRange collects every calendar event linked to the client in
// the range. A non-empty summaryMatch additionally sweeps events whose
// summary mentions the client, deduplicated by ID.
func (s *reconciliationService) listEventsInRange(ctx context.Context, clientID primitive.ObjectID, start, end time.Time, summaryMatch string) []domain.CalendarEvent {
	events, err := s.eventRepo.ListByClientAndRange(ctx, clientID, start, end)
	if err != nil {
		log.Printf("ERROR: failed to list events for client %s: %v", clientID.Hex(), err)
		events = nil
	}
	if summaryMatch != "" {
		extra, err := s.eventRepo.ListBySummaryAndRange(ctx, summaryMatch, start, end)
		if err != nil {
			log.Printf("ERROR: failed to list events by summary %q: %v", summaryMatch, err)
		} else {
			seen := make(map[primitive.ObjectID]bool, len(events))
			for _, e := range events {
				seen[e.ID] = true
			}
			for _, e := range extra {
				if !seen[e.ID] {
					events = append(events, e)
				}
			}
		}
	}
	return events
}

func (s *reconciliationService) listWorkoutsInRange(ctx context.Context, clientID primitive.ObjectID, start, end time.Time) []domain.ClientWorkout {
	workouts, err := s.workoutRepo.ListByDateRange(ctx, clientID, start, end)
	if err != nil {
		log.Printf("ERROR: failed to list workouts for client %s: %v", clientID.Hex(), err)
		return nil
	}
	return workouts
}

// deleteEvents removes events per item so one failure does not block the
// rest.
func (s *reconciliationService) deleteEvents(ctx context.Context, events []domain.CalendarEvent) {
	for _, e := range events {
		if err := s.eventRepo.Delete(ctx, e.ID); err != nil {
			log.Printf("WARN: failed to delete event %s, continuing: %v", e.ID.Hex(), err)
		}
	}
}

// deleteWorkouts removes workouts per item, same best-effort semantics.
func (s *reconciliationService) deleteWorkouts(ctx context.Context, workouts []domain.ClientWorkout) {
	for _, w := range workouts {
		if err := s.workoutRepo.Delete(ctx, w.ID); err != nil {
			log.Printf("WARN: failed to delete workout %s, continuing: %v", w.ID.Hex(), err)
		}
	}
}

// archiveSnapshot writes a best-effort JSON snapshot before a destructive
// operation. Failures are logged, never fatal.
func (s *reconciliationService) archiveSnapshot(ctx context.Context, clientID primitive.ObjectID, label string, payload map[string]any) {
	if s.archive == nil {
		return
	}
	key := fmt.Sprintf("schedules/%s/%s-%d.json", clientID.Hex(), label, time.Now().UTC().Unix())
	if err := s.archive.PutSnapshot(ctx, key, payload); err != nil {
		log.Printf("WARN: failed to archive snapshot %s: %v", key, err)
	}
}

// === Template Re-application ===

// ApplyWeekTemplate rebuilds every day in the period's range from the
// template's weekday pattern, replacing the days collection wholesale.
// Per-day time overrides do not survive a re-apply.
func (s *reconciliationService) ApplyWeekTemplate(ctx context.Context, programID primitive.ObjectID, periodID string, weekTemplateID primitive.ObjectID) (*domain.Period, error) {
	// Resolve the owning client, then re-read under the lock so the periods
	// array written back below reflects any mutation committed in between.
	program, err := s.programRepo.GetByID(ctx, programID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProgramNotFound
		}
		return nil, err
	}

	unlock := s.locks.Lock(program.ClientID)
	defer unlock()

	program, err = s.programRepo.GetByID(ctx, programID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProgramNotFound
		}
		return nil, err
	}
	period := program.PeriodByID(periodID)
	if period == nil {
		return nil, ErrPeriodNotFound
	}
	template, err := s.templateRepo.GetByID(ctx, weekTemplateID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTemplateNotFound
		}
		return nil, err
	}

	colors := map[string]string{}
	days := []domain.PeriodDay{}
	end := domain.DayEnd(period.EndDate)
	for d := domain.DayStart(period.StartDate); !d.After(end); d = d.AddDate(0, 0, 1) {
		category := template.CategoryFor(d.Weekday())
		if category == "" {
			continue
		}
		days = append(days, domain.PeriodDay{
			Date:                 d,
			WorkoutCategory:      category,
			WorkoutCategoryColor: s.categoryColor(ctx, category, colors),
			IsAllDay:             true,
		})
	}

	period.Days = days
	period.WeekTemplateID = weekTemplateID
	if err := s.programRepo.ReplacePeriods(ctx, programID, program.Periods); err != nil {
		return nil, err
	}
	return period, nil
}

// === Crash Recovery ===

// ResumePendingOperations replays destructive sequences that were recorded
// but never marked complete. The deletes are idempotent, so replaying a
// partially finished operation only removes what is still there. Called once
// at startup.
func (s *reconciliationService) ResumePendingOperations(ctx context.Context) error {
	pending, err := s.oplogRepo.ListPending(ctx)
	if err != nil {
		return err
	}
	for _, rec := range pending {
		log.Printf("Resuming pending %s operation %s for client %s", rec.Kind, rec.ID.Hex(), rec.ClientID.Hex())
		if err := s.replayOperation(ctx, rec); err != nil {
			log.Printf("WARN: replay of operation %s failed, leaving pending: %v", rec.ID.Hex(), err)
			continue
		}
		if err := s.oplogRepo.MarkCompleted(ctx, rec.ID); err != nil {
			log.Printf("WARN: failed to mark operation %s completed: %v", rec.ID.Hex(), err)
		}
	}
	return nil
}

func (s *reconciliationService) replayOperation(ctx context.Context, rec domain.OperationRecord) error {
	unlock := s.locks.Lock(rec.ClientID)
	defer unlock()

	s.deleteEvents(ctx, s.listEventsInRange(ctx, rec.ClientID, rec.RangeStart, rec.RangeEnd, rec.ClientName))
	s.deleteWorkouts(ctx, s.listWorkoutsInRange(ctx, rec.ClientID, rec.RangeStart, rec.RangeEnd))

	if rec.ProgramID == primitive.NilObjectID {
		return nil
	}
	program, err := s.programRepo.GetByID(ctx, rec.ProgramID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil // program already gone, nothing left to do
		}
		return err
	}

	switch rec.Kind {
	case domain.OpClearAllPeriods:
		return s.programRepo.ReplacePeriods(ctx, program.ID, []domain.Period{})
	case domain.OpDeletePeriod:
		if program.PeriodByID(rec.PeriodID) == nil {
			return nil
		}
		remaining := make([]domain.Period, 0, len(program.Periods))
		for _, p := range program.Periods {
			if p.ID != rec.PeriodID {
				remaining = append(remaining, p)
			}
		}
		return s.programRepo.ReplacePeriods(ctx, program.ID, remaining)
	}
	return nil
}
