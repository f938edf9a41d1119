package domain

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProgramStatus tracks the lifecycle of a client program.
type ProgramStatus string

const (
	ProgramActive    ProgramStatus = "active"
	ProgramCompleted ProgramStatus = "completed"
	ProgramPaused    ProgramStatus = "paused"
	ProgramCancelled ProgramStatus = "cancelled"
)

// Period ID prefixes. Quick-workout and one-off periods are synthetic
// periods created on the fly rather than assigned from the catalog.
const (
	PeriodIDPrefix      = "period-"
	QuickPeriodIDPrefix = "quick-period-"
	OneOffPeriodPrefix  = "oneoff-"

	// OneOffNamePrefix marks auto-created single-day periods. RemoveDay
	// deletes the whole period when its last day goes away.
	OneOffNamePrefix = "One-off: "

	// QuickPeriodName is the display name of the synthetic catch-all period
	// backing unplanned sessions.
	QuickPeriodName = "Ongoing"
)

// QuickPeriodEndDate is the far-future end of the catch-all quick-workout
// period.
var QuickPeriodEndDate = time.Date(2099, time.December, 31, 0, 0, 0, 0, time.UTC)

// ClientProgram is the aggregate owning a client's assigned periods.
// Periods are embedded documents, not top-level records.
type ClientProgram struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ClientID  primitive.ObjectID `bson:"clientId" json:"clientId"`
	StartDate time.Time          `bson:"startDate" json:"startDate"`
	EndDate   time.Time          `bson:"endDate" json:"endDate"`
	Status    ProgramStatus      `bson:"status" json:"status"`
	Periods   []Period           `bson:"periods" json:"periods"`
	CreatedBy string             `bson:"createdBy,omitempty" json:"createdBy,omitempty"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// Period is a client's assigned date range with a per-day workout-category
// schedule. Bounds are inclusive at calendar-day granularity.
type Period struct {
	ID             string             `bson:"id" json:"id"`
	PeriodConfigID string             `bson:"periodConfigId,omitempty" json:"periodConfigId,omitempty"`
	PeriodName     string             `bson:"periodName" json:"periodName"`
	PeriodColor    string             `bson:"periodColor" json:"periodColor"`
	StartDate      time.Time          `bson:"startDate" json:"startDate"`
	EndDate        time.Time          `bson:"endDate" json:"endDate"`
	WeekTemplateID primitive.ObjectID `bson:"weekTemplateId,omitempty" json:"weekTemplateId,omitempty"`
	Days           []PeriodDay        `bson:"days" json:"days"`
}

// PeriodDay assigns a workout category to one calendar date inside a
// period. Dates with no entry are uncategorized. At most one entry exists
// per date.
type PeriodDay struct {
	Date                 time.Time `bson:"date" json:"date"`
	WorkoutCategory      string    `bson:"workoutCategory" json:"workoutCategory"`
	WorkoutCategoryColor string    `bson:"workoutCategoryColor" json:"workoutCategoryColor"`
	Time                 string    `bson:"time,omitempty" json:"time,omitempty"` // HH:MM, empty for all-day
	IsAllDay             bool      `bson:"isAllDay" json:"isAllDay"`
}

// IsOneOff reports whether the period is an auto-created single-day period.
func (p *Period) IsOneOff() bool {
	return strings.HasPrefix(p.PeriodName, OneOffNamePrefix)
}

// IsQuickPeriod reports whether the period is the synthetic catch-all bucket
// for unplanned sessions.
func (p *Period) IsQuickPeriod() bool {
	return strings.HasPrefix(p.ID, QuickPeriodIDPrefix)
}

// ContainsDate reports whether date falls inside the period's inclusive
// range at day granularity.
func (p *Period) ContainsDate(date time.Time) bool {
	return DateInRange(date, p.StartDate, p.EndDate)
}

// DayIndex returns the index of the day entry for date, or -1.
func (p *Period) DayIndex(date time.Time) int {
	for i, d := range p.Days {
		if SameDay(d.Date, date) {
			return i
		}
	}
	return -1
}

// PeriodContaining returns the first period whose range contains date, or
// nil. Periods of one client must not overlap, so order is irrelevant.
func (cp *ClientProgram) PeriodContaining(date time.Time) *Period {
	for i := range cp.Periods {
		if cp.Periods[i].ContainsDate(date) {
			return &cp.Periods[i]
		}
	}
	return nil
}

// PeriodByID returns the period with the given embedded ID, or nil.
func (cp *ClientProgram) PeriodByID(periodID string) *Period {
	for i := range cp.Periods {
		if cp.Periods[i].ID == periodID {
			return &cp.Periods[i]
		}
	}
	return nil
}

// UnionRange returns the smallest day range covering every period, and false
// when the program has no periods.
func (cp *ClientProgram) UnionRange() (start, end time.Time, ok bool) {
	for _, p := range cp.Periods {
		ps, pe := DayStart(p.StartDate), DayEnd(p.EndDate)
		if !ok {
			start, end, ok = ps, pe, true
			continue
		}
		if ps.Before(start) {
			start = ps
		}
		if pe.After(end) {
			end = pe
		}
	}
	return start, end, ok
}
