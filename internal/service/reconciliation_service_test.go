package service

import (
	"coachdesk/coach-admin/internal/domain"
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func seedPeriod(t *testing.T, env *testEnv, clientID primitive.ObjectID, start, end time.Time) *domain.Period {
	t.Helper()
	period, err := env.recon.AssignPeriod(context.Background(), clientID, AssignPeriodInput{
		PeriodName:  "Base Block",
		PeriodColor: "#3b82f6",
		StartDate:   start,
		EndDate:     end,
	})
	require.NoError(t, err)
	return period
}

func seedMWFTemplate(t *testing.T, env *testEnv) primitive.ObjectID {
	t.Helper()
	tpl := &domain.WeekTemplate{
		Name: "MWF",
		Days: []domain.WeekTemplateDay{
			{Day: "Monday", WorkoutCategory: "Workout"},
			{Day: "Wednesday", WorkoutCategory: "Workout"},
			{Day: "Friday", WorkoutCategory: "Workout"},
		},
	}
	id, err := env.templates.Create(context.Background(), tpl)
	require.NoError(t, err)
	return id
}

func TestAssignPeriod_RejectsOverlap(t *testing.T) {
	env := newTestEnv()
	clientID := primitive.NewObjectID()
	ctx := context.Background()

	existing := seedPeriod(t, env, clientID, date(2024, time.January, 1), date(2024, time.January, 31))

	// A range sharing even one day with an existing period is rejected.
	_, err := env.recon.AssignPeriod(ctx, clientID, AssignPeriodInput{
		PeriodName: "Clash",
		StartDate:  date(2024, time.January, 31),
		EndDate:    date(2024, time.February, 15),
	})
	var overlap *PeriodOverlapError
	require.ErrorAs(t, err, &overlap)
	assert.Equal(t, existing.ID, overlap.PeriodID)
	assert.Equal(t, "Base Block", overlap.PeriodName)

	// An adjacent, non-overlapping range is fine.
	_, err = env.recon.AssignPeriod(ctx, clientID, AssignPeriodInput{
		PeriodName: "Next Block",
		StartDate:  date(2024, time.February, 1),
		EndDate:    date(2024, time.February, 15),
	})
	require.NoError(t, err)

	program, err := env.recon.GetProgram(ctx, clientID)
	require.NoError(t, err)
	assert.Len(t, program.Periods, 2)
}

func TestAssignPeriod_RejectsInvertedRange(t *testing.T) {
	env := newTestEnv()
	_, err := env.recon.AssignPeriod(context.Background(), primitive.NewObjectID(), AssignPeriodInput{
		PeriodName: "Backwards",
		StartDate:  date(2024, time.March, 10),
		EndDate:    date(2024, time.March, 1),
	})
	require.ErrorIs(t, err, ErrInvalidDateRange)
}

func TestAssignPeriod_ExpandsWeekTemplate(t *testing.T) {
	env := newTestEnv()
	clientID := primitive.NewObjectID()
	templateID := seedMWFTemplate(t, env)

	// 2024-01-01 is a Monday, so the first week holds Mon/Wed/Fri.
	period, err := env.recon.AssignPeriod(context.Background(), clientID, AssignPeriodInput{
		PeriodName:     "Templated",
		StartDate:      date(2024, time.January, 1),
		EndDate:        date(2024, time.January, 7),
		WeekTemplateID: templateID,
	})
	require.NoError(t, err)
	require.Len(t, period.Days, 3)
	assert.True(t, domain.SameDay(period.Days[0].Date, date(2024, time.January, 1)))
	assert.True(t, domain.SameDay(period.Days[1].Date, date(2024, time.January, 3)))
	assert.True(t, domain.SameDay(period.Days[2].Date, date(2024, time.January, 5)))
	for _, d := range period.Days {
		assert.Equal(t, "Workout", d.WorkoutCategory)
		assert.True(t, d.IsAllDay)
	}
}

func TestAssignPeriod_OverridesAndDeletedDates(t *testing.T) {
	env := newTestEnv()
	clientID := primitive.NewObjectID()
	templateID := seedMWFTemplate(t, env)

	period, err := env.recon.AssignPeriod(context.Background(), clientID, AssignPeriodInput{
		PeriodName:     "Adjusted",
		StartDate:      date(2024, time.January, 1),
		EndDate:        date(2024, time.January, 7),
		WeekTemplateID: templateID,
		DayOverrides: []domain.PeriodDay{
			{Date: date(2024, time.January, 3), WorkoutCategory: "Recovery", IsAllDay: true},
		},
		DeletedDates: []time.Time{date(2024, time.January, 5)},
	})
	require.NoError(t, err)
	require.Len(t, period.Days, 2)
	assert.Equal(t, "Workout", period.Days[0].WorkoutCategory)
	assert.Equal(t, "Recovery", period.Days[1].WorkoutCategory)
}

func TestMoveOrChangeCategory_SameDayIsIdempotent(t *testing.T) {
	env := newTestEnv()
	clientID := primitive.NewObjectID()
	ctx := context.Background()
	seedPeriod(t, env, clientID, date(2024, time.January, 1), date(2024, time.January, 31))

	day := date(2024, time.January, 10)
	first, err := env.recon.MoveOrChangeCategory(ctx, clientID, day, day, "Strength")
	require.NoError(t, err)
	second, err := env.recon.MoveOrChangeCategory(ctx, clientID, day, day, "Strength")
	require.NoError(t, err)

	require.Len(t, second.Periods, 1)
	assert.Equal(t, len(first.Periods[0].Days), len(second.Periods[0].Days))
	require.Len(t, second.Periods[0].Days, 1)
	entry := second.Periods[0].Days[0]
	assert.True(t, domain.SameDay(entry.Date, day))
	assert.Equal(t, "Strength", entry.WorkoutCategory)
}

func TestMoveOrChangeCategory_MoveRoundTrip(t *testing.T) {
	env := newTestEnv()
	clientID := primitive.NewObjectID()
	ctx := context.Background()
	seedPeriod(t, env, clientID, date(2024, time.January, 1), date(2024, time.January, 31))

	from := date(2024, time.January, 8)
	to := date(2024, time.January, 12)
	_, err := env.recon.MoveOrChangeCategory(ctx, clientID, from, from, "Conditioning")
	require.NoError(t, err)
	program, err := env.recon.GetProgram(ctx, clientID)
	require.NoError(t, err)
	original := program.Periods[0].Days[0]

	// Move there and back; the schedule must end up where it started.
	_, err = env.recon.MoveOrChangeCategory(ctx, clientID, from, to, "Conditioning")
	require.NoError(t, err)
	program, err = env.recon.GetProgram(ctx, clientID)
	require.NoError(t, err)
	require.Len(t, program.Periods[0].Days, 1)
	assert.True(t, domain.SameDay(program.Periods[0].Days[0].Date, to))

	_, err = env.recon.MoveOrChangeCategory(ctx, clientID, to, from, "Conditioning")
	require.NoError(t, err)
	program, err = env.recon.GetProgram(ctx, clientID)
	require.NoError(t, err)
	require.Len(t, program.Periods[0].Days, 1)
	restored := program.Periods[0].Days[0]
	assert.True(t, restored.Date.Equal(original.Date))
	assert.Equal(t, original.WorkoutCategory, restored.WorkoutCategory)
	assert.Equal(t, original.WorkoutCategoryColor, restored.WorkoutCategoryColor)
	assert.Equal(t, original.Time, restored.Time)
	assert.Equal(t, original.IsAllDay, restored.IsAllDay)
}

func TestMoveOrChangeCategory_CreatesQuickPeriodWhenNoProgram(t *testing.T) {
	env := newTestEnv()
	clientID := primitive.NewObjectID()
	ctx := context.Background()

	day := date(2024, time.June, 3)
	program, err := env.recon.MoveOrChangeCategory(ctx, clientID, day, day, "Cardio Day")
	require.NoError(t, err)

	require.Len(t, program.Periods, 1)
	quick := program.Periods[0]
	assert.True(t, strings.HasPrefix(quick.ID, domain.QuickPeriodIDPrefix))
	assert.True(t, quick.IsQuickPeriod())
	assert.Equal(t, domain.QuickPeriodName, quick.PeriodName)
	assert.True(t, quick.EndDate.Equal(domain.QuickPeriodEndDate))
	require.Len(t, quick.Days, 1)
	assert.True(t, domain.SameDay(quick.Days[0].Date, day))
	assert.Equal(t, "Cardio Day", quick.Days[0].WorkoutCategory)

	// The program was persisted, not just returned.
	stored, err := env.recon.GetProgram(ctx, clientID)
	require.NoError(t, err)
	require.Len(t, stored.Periods, 1)
	require.Len(t, stored.Periods[0].Days, 1)
}

func TestMoveOrChangeCategory_CreatesOneOffOutsidePeriods(t *testing.T) {
	env := newTestEnv()
	clientID := primitive.NewObjectID()
	ctx := context.Background()
	seedPeriod(t, env, clientID, date(2024, time.January, 1), date(2024, time.January, 31))

	day := date(2024, time.March, 5)
	program, err := env.recon.MoveOrChangeCategory(ctx, clientID, day, day, "Mobility")
	require.NoError(t, err)

	require.Len(t, program.Periods, 2)
	oneOff := program.Periods[1]
	assert.True(t, oneOff.IsOneOff())
	assert.Equal(t, domain.OneOffNamePrefix+"Mobility", oneOff.PeriodName)
	assert.True(t, domain.SameDay(oneOff.StartDate, day))
	assert.True(t, domain.SameDay(oneOff.EndDate, day))
	require.Len(t, oneOff.Days, 1)
}

func TestMoveOrChangeCategory_OneOffAnchorsAtSourceDate(t *testing.T) {
	env := newTestEnv()
	clientID := primitive.NewObjectID()
	ctx := context.Background()
	seedPeriod(t, env, clientID, date(2024, time.January, 1), date(2024, time.January, 31))

	// A move whose source date sits outside every period creates the one-off
	// at the source, not at the target.
	from := date(2024, time.March, 5)
	to := date(2024, time.March, 8)
	program, err := env.recon.MoveOrChangeCategory(ctx, clientID, from, to, "Mobility")
	require.NoError(t, err)

	require.Len(t, program.Periods, 2)
	oneOff := program.Periods[1]
	assert.True(t, oneOff.IsOneOff())
	assert.True(t, domain.SameDay(oneOff.StartDate, from))
	assert.True(t, domain.SameDay(oneOff.EndDate, from))
	require.Len(t, oneOff.Days, 1)
	assert.True(t, domain.SameDay(oneOff.Days[0].Date, from))
}

func TestMoveOrChangeCategory_MissingSourceEntryFillsSourceDate(t *testing.T) {
	env := newTestEnv()
	clientID := primitive.NewObjectID()
	ctx := context.Background()
	period := seedPeriod(t, env, clientID, date(2024, time.January, 1), date(2024, time.January, 31))

	// The source day has no entry: the fresh entry lands on the source date.
	program, err := env.recon.MoveOrChangeCategory(ctx, clientID,
		date(2024, time.January, 10), date(2024, time.January, 12), "Strength")
	require.NoError(t, err)

	got := program.PeriodByID(period.ID)
	require.NotNil(t, got)
	require.Len(t, got.Days, 1)
	assert.True(t, domain.SameDay(got.Days[0].Date, date(2024, time.January, 10)))
	assert.Equal(t, "Strength", got.Days[0].WorkoutCategory)
}

func TestMoveOrChangeCategory_RemoveMarkerRemovesDay(t *testing.T) {
	env := newTestEnv()
	clientID := primitive.NewObjectID()
	ctx := context.Background()
	seedPeriod(t, env, clientID, date(2024, time.January, 1), date(2024, time.January, 31))

	day := date(2024, time.January, 15)
	_, err := env.recon.MoveOrChangeCategory(ctx, clientID, day, day, "Strength")
	require.NoError(t, err)

	program, err := env.recon.MoveOrChangeCategory(ctx, clientID, day, day, RemoveCategoryMarker)
	require.NoError(t, err)
	assert.Empty(t, program.Periods[0].Days)
}

func TestRemoveDay_LastOneOffDayDeletesPeriod(t *testing.T) {
	env := newTestEnv()
	clientID := primitive.NewObjectID()
	ctx := context.Background()
	seedPeriod(t, env, clientID, date(2024, time.January, 1), date(2024, time.January, 31))

	day := date(2024, time.March, 5)
	_, err := env.recon.MoveOrChangeCategory(ctx, clientID, day, day, "Mobility")
	require.NoError(t, err)

	program, err := env.recon.RemoveDay(ctx, clientID, day)
	require.NoError(t, err)
	require.Len(t, program.Periods, 1)
	assert.Equal(t, "Base Block", program.Periods[0].PeriodName)
}

func TestRemoveDay_MissingEntryIsNoOp(t *testing.T) {
	env := newTestEnv()
	clientID := primitive.NewObjectID()
	ctx := context.Background()
	seedPeriod(t, env, clientID, date(2024, time.January, 1), date(2024, time.January, 31))

	program, err := env.recon.RemoveDay(ctx, clientID, date(2024, time.January, 20))
	require.NoError(t, err)
	require.NotNil(t, program)
	assert.Len(t, program.Periods, 1)

	// No program at all is also a quiet no-op.
	program, err = env.recon.RemoveDay(ctx, primitive.NewObjectID(), date(2024, time.January, 20))
	require.NoError(t, err)
	assert.Nil(t, program)
}

func TestDeletePeriod_PurgesRangeAndArchives(t *testing.T) {
	env := newTestEnv()
	clientID := primitive.NewObjectID()
	otherClient := primitive.NewObjectID()
	ctx := context.Background()

	period := seedPeriod(t, env, clientID, date(2024, time.January, 1), date(2024, time.January, 31))
	program, err := env.recon.GetProgram(ctx, clientID)
	require.NoError(t, err)

	inRange := &domain.CalendarEvent{
		Summary:  "Alice - Strength",
		Start:    date(2024, time.January, 10).Add(9 * time.Hour),
		End:      date(2024, time.January, 10).Add(10 * time.Hour),
		ClientID: &clientID,
	}
	outOfRange := &domain.CalendarEvent{
		Summary:  "Alice - Strength",
		Start:    date(2024, time.February, 10).Add(9 * time.Hour),
		End:      date(2024, time.February, 10).Add(10 * time.Hour),
		ClientID: &clientID,
	}
	foreign := &domain.CalendarEvent{
		Summary:  "Bob - Cardio",
		Start:    date(2024, time.January, 10).Add(11 * time.Hour),
		End:      date(2024, time.January, 10).Add(12 * time.Hour),
		ClientID: &otherClient,
	}
	for _, e := range []*domain.CalendarEvent{inRange, outOfRange, foreign} {
		_, err := env.events.Create(ctx, e)
		require.NoError(t, err)
	}
	_, err = env.workouts.Create(ctx, &domain.ClientWorkout{
		ClientID: clientID, Date: date(2024, time.January, 12), CategoryName: "Strength",
	})
	require.NoError(t, err)
	_, err = env.workouts.Create(ctx, &domain.ClientWorkout{
		ClientID: clientID, Date: date(2024, time.February, 12), CategoryName: "Strength",
	})
	require.NoError(t, err)

	require.NoError(t, env.recon.DeletePeriod(ctx, program.ID, period.ID))

	// The period is gone and only in-range records owned by the client went
	// with it.
	program, err = env.recon.GetProgram(ctx, clientID)
	require.NoError(t, err)
	assert.Empty(t, program.Periods)
	assert.NotContains(t, env.events.events, inRange.ID)
	assert.Contains(t, env.events.events, outOfRange.ID)
	assert.Contains(t, env.events.events, foreign.ID)
	remaining, err := env.recon.ListWorkouts(ctx, clientID, date(2024, time.January, 1), date(2024, time.December, 31))
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.True(t, domain.SameDay(remaining[0].Date, date(2024, time.February, 12)))

	// The intent record went pending -> completed, and a snapshot was taken
	// before anything was removed.
	pending, err := env.oplog.ListPending(ctx)
	require.NoError(t, err)
	assert.Empty(t, pending)
	assert.Len(t, env.archive.snapshots, 1)
}

func TestDeletePeriod_UnknownPeriod(t *testing.T) {
	env := newTestEnv()
	clientID := primitive.NewObjectID()
	ctx := context.Background()
	seedPeriod(t, env, clientID, date(2024, time.January, 1), date(2024, time.January, 31))
	program, err := env.recon.GetProgram(ctx, clientID)
	require.NoError(t, err)

	err = env.recon.DeletePeriod(ctx, program.ID, "period-does-not-exist")
	require.ErrorIs(t, err, ErrPeriodNotFound)
	err = env.recon.DeletePeriod(ctx, primitive.NewObjectID(), "period-does-not-exist")
	require.ErrorIs(t, err, ErrProgramNotFound)
}

func TestDeletePeriod_KeepsChangesCommittedBeforeLock(t *testing.T) {
	env := newTestEnv()
	clientID := primitive.NewObjectID()
	ctx := context.Background()

	period := seedPeriod(t, env, clientID, date(2024, time.January, 1), date(2024, time.January, 31))
	program, err := env.recon.GetProgram(ctx, clientID)
	require.NoError(t, err)

	// Park DeletePeriod right after its first program read so a competing
	// write can land before it takes the client lock.
	entered := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once
	env.programs.afterGetByID = func() {
		once.Do(func() {
			close(entered)
			<-release
		})
	}

	done := make(chan error, 1)
	go func() {
		done <- env.recon.DeletePeriod(ctx, program.ID, period.ID)
	}()
	<-entered

	oneOffDay := date(2024, time.June, 3)
	_, err = env.recon.MoveOrChangeCategory(ctx, clientID, oneOffDay, oneOffDay, "Mobility")
	require.NoError(t, err)

	close(release)
	require.NoError(t, <-done)

	// The one-off committed in the window survives the delete.
	got, err := env.recon.GetProgram(ctx, clientID)
	require.NoError(t, err)
	require.Len(t, got.Periods, 1)
	assert.True(t, got.Periods[0].IsOneOff())
	assert.True(t, domain.SameDay(got.Periods[0].StartDate, oneOffDay))
}

func TestApplyWeekTemplate_KeepsChangesCommittedBeforeLock(t *testing.T) {
	env := newTestEnv()
	clientID := primitive.NewObjectID()
	ctx := context.Background()
	templateID := seedMWFTemplate(t, env)

	period := seedPeriod(t, env, clientID, date(2024, time.January, 1), date(2024, time.January, 7))
	program, err := env.recon.GetProgram(ctx, clientID)
	require.NoError(t, err)

	entered := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once
	env.programs.afterGetByID = func() {
		once.Do(func() {
			close(entered)
			<-release
		})
	}

	done := make(chan error, 1)
	go func() {
		_, aerr := env.recon.ApplyWeekTemplate(ctx, program.ID, period.ID, templateID)
		done <- aerr
	}()
	<-entered

	oneOffDay := date(2024, time.June, 3)
	_, err = env.recon.MoveOrChangeCategory(ctx, clientID, oneOffDay, oneOffDay, "Mobility")
	require.NoError(t, err)

	close(release)
	require.NoError(t, <-done)

	got, err := env.recon.GetProgram(ctx, clientID)
	require.NoError(t, err)
	require.Len(t, got.Periods, 2)
	rebuilt := got.PeriodByID(period.ID)
	require.NotNil(t, rebuilt)
	assert.Equal(t, templateID, rebuilt.WeekTemplateID)
	assert.True(t, got.Periods[1].IsOneOff())
}

func TestClearAllPeriods_SingleUnionRangeQuery(t *testing.T) {
	env := newTestEnv()
	clientID := primitive.NewObjectID()
	ctx := context.Background()

	seedPeriod(t, env, clientID, date(2024, time.January, 1), date(2024, time.January, 31))
	_, err := env.recon.AssignPeriod(ctx, clientID, AssignPeriodInput{
		PeriodName: "Spring Block",
		StartDate:  date(2024, time.March, 1),
		EndDate:    date(2024, time.March, 31),
	})
	require.NoError(t, err)

	require.NoError(t, env.recon.ClearAllPeriods(ctx, clientID))

	// One query per store spanning the union of both periods, February
	// included, not one query per period.
	require.Len(t, env.events.clientRangeCalls, 1)
	require.Len(t, env.workouts.rangeCalls, 1)
	eventCall := env.events.clientRangeCalls[0]
	assert.True(t, eventCall.start.Equal(domain.DayStart(date(2024, time.January, 1))))
	assert.True(t, eventCall.end.Equal(domain.DayEnd(date(2024, time.March, 31))))
	workoutCall := env.workouts.rangeCalls[0]
	assert.True(t, workoutCall.start.Equal(domain.DayStart(date(2024, time.January, 1))))
	assert.True(t, workoutCall.end.Equal(domain.DayEnd(date(2024, time.March, 31))))

	// No summary sweep when the union range came from real periods.
	assert.Empty(t, env.events.summaryCalls)

	program, err := env.recon.GetProgram(ctx, clientID)
	require.NoError(t, err)
	assert.Empty(t, program.Periods)

	pending, err := env.oplog.ListPending(ctx)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestClearAllPeriods_NoPeriodsFallsBackToWideSweep(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	client := &domain.Client{Name: "Alice Smith"}
	clientID, err := env.clients.Create(ctx, client)
	require.NoError(t, err)

	// A straggler event that lost its structured link but still mentions the
	// client in its summary.
	straggler := &domain.CalendarEvent{
		Summary: "Alice Smith - Strength",
		Start:   date(2024, time.May, 2).Add(8 * time.Hour),
		End:     date(2024, time.May, 2).Add(9 * time.Hour),
	}
	_, err = env.events.Create(ctx, straggler)
	require.NoError(t, err)

	require.NoError(t, env.recon.ClearAllPeriods(ctx, clientID))

	require.Len(t, env.events.summaryCalls, 1)
	assert.Equal(t, "Alice Smith", env.events.summaryCalls[0])
	assert.NotContains(t, env.events.events, straggler.ID)

	// Fallback range spans the hundred-year sweep.
	require.Len(t, env.events.clientRangeCalls, 1)
	call := env.events.clientRangeCalls[0]
	assert.Equal(t, 2000, call.start.Year())
	assert.Equal(t, 2100, call.end.Year())
}

func TestApplyWeekTemplate_RebuildsDays(t *testing.T) {
	env := newTestEnv()
	clientID := primitive.NewObjectID()
	ctx := context.Background()
	templateID := seedMWFTemplate(t, env)

	period := seedPeriod(t, env, clientID, date(2024, time.January, 1), date(2024, time.January, 7))
	program, err := env.recon.GetProgram(ctx, clientID)
	require.NoError(t, err)

	// Hand-placed entries do not survive a template re-apply.
	_, err = env.recon.MoveOrChangeCategory(ctx, clientID, date(2024, time.January, 2), date(2024, time.January, 2), "Recovery")
	require.NoError(t, err)

	applied, err := env.recon.ApplyWeekTemplate(ctx, program.ID, period.ID, templateID)
	require.NoError(t, err)
	require.Len(t, applied.Days, 3)
	assert.True(t, domain.SameDay(applied.Days[0].Date, date(2024, time.January, 1)))
	assert.True(t, domain.SameDay(applied.Days[1].Date, date(2024, time.January, 3)))
	assert.True(t, domain.SameDay(applied.Days[2].Date, date(2024, time.January, 5)))
	for _, d := range applied.Days {
		assert.Equal(t, "Workout", d.WorkoutCategory)
	}
	assert.Equal(t, templateID, applied.WeekTemplateID)

	_, err = env.recon.ApplyWeekTemplate(ctx, program.ID, period.ID, primitive.NewObjectID())
	require.ErrorIs(t, err, ErrTemplateNotFound)
}

func TestResumePendingOperations_ReplaysDeletePeriod(t *testing.T) {
	env := newTestEnv()
	clientID := primitive.NewObjectID()
	ctx := context.Background()

	period := seedPeriod(t, env, clientID, date(2024, time.January, 1), date(2024, time.January, 31))
	program, err := env.recon.GetProgram(ctx, clientID)
	require.NoError(t, err)

	event := &domain.CalendarEvent{
		Summary:  "Alice - Strength",
		Start:    date(2024, time.January, 10).Add(9 * time.Hour),
		End:      date(2024, time.January, 10).Add(10 * time.Hour),
		ClientID: &clientID,
	}
	_, err = env.events.Create(ctx, event)
	require.NoError(t, err)
	workoutID, err := env.workouts.Create(ctx, &domain.ClientWorkout{
		ClientID: clientID, Date: date(2024, time.January, 12), CategoryName: "Strength",
	})
	require.NoError(t, err)

	// Simulate a crash after the intent was recorded but before anything was
	// deleted.
	_, err = env.oplog.Create(ctx, &domain.OperationRecord{
		Kind:       domain.OpDeletePeriod,
		ClientID:   clientID,
		ProgramID:  program.ID,
		PeriodID:   period.ID,
		RangeStart: domain.DayStart(period.StartDate),
		RangeEnd:   domain.DayEnd(period.EndDate),
	})
	require.NoError(t, err)

	require.NoError(t, env.recon.ResumePendingOperations(ctx))

	assert.NotContains(t, env.events.events, event.ID)
	assert.NotContains(t, env.workouts.workouts, workoutID)
	program, err = env.recon.GetProgram(ctx, clientID)
	require.NoError(t, err)
	assert.Empty(t, program.Periods)

	pending, err := env.oplog.ListPending(ctx)
	require.NoError(t, err)
	assert.Empty(t, pending)

	// Replaying with nothing left is harmless.
	require.NoError(t, env.recon.ResumePendingOperations(ctx))
}

func TestListWorkouts_ValidatesRange(t *testing.T) {
	env := newTestEnv()
	_, err := env.recon.ListWorkouts(context.Background(), primitive.NewObjectID(),
		date(2024, time.February, 1), date(2024, time.January, 1))
	require.ErrorIs(t, err, ErrInvalidDateRange)
}
