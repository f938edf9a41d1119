package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestFormatEventDescription(t *testing.T) {
	md := EventMetadata{
		ClientID:  "665f1a2b3c4d5e6f7a8b9c0d",
		Category:  "Cardio Day",
		WorkoutID: "775f1a2b3c4d5e6f7a8b9c0d",
		PeriodID:  "period-abc",
	}
	out := FormatEventDescription("Bring a towel", md)

	assert.Equal(t,
		"Workout Category: Cardio Day\nBring a towel\n"+
			"[Metadata: client=665f1a2b3c4d5e6f7a8b9c0d, category=Cardio Day, workoutId=775f1a2b3c4d5e6f7a8b9c0d, periodId=period-abc]",
		out)

	// Reformatting a description that already carries a block must not stack
	// category lines or blocks.
	again := FormatEventDescription(out, md)
	assert.Equal(t, out, again)

	// Empty metadata leaves the body untouched.
	assert.Equal(t, "Bring a towel", FormatEventDescription("Bring a towel", EventMetadata{}))
}

func TestParseEventMetadata(t *testing.T) {
	desc := "Workout Category: Strength\nNotes here\n" +
		"[Metadata: client=665f1a2b3c4d5e6f7a8b9c0d, category=Strength, workoutId=775f1a2b3c4d5e6f7a8b9c0d, periodId=period-abc]"
	md := ParseEventMetadata(desc)
	assert.Equal(t, "665f1a2b3c4d5e6f7a8b9c0d", md.ClientID)
	assert.Equal(t, "Strength", md.Category)
	assert.Equal(t, "775f1a2b3c4d5e6f7a8b9c0d", md.WorkoutID)
	assert.Equal(t, "period-abc", md.PeriodID)

	// "none" placeholders written by older clients count as absent.
	md = ParseEventMetadata("[Metadata: client=none, workoutId=none, periodId=none]")
	assert.Empty(t, md.ClientID)
	assert.Empty(t, md.WorkoutID)
	assert.Empty(t, md.PeriodID)

	// A category line without a block still yields the category.
	md = ParseEventMetadata("Workout Category: Mobility\nfree text")
	assert.Equal(t, "Mobility", md.Category)

	assert.Equal(t, EventMetadata{}, ParseEventMetadata(""))
	assert.Equal(t, EventMetadata{}, ParseEventMetadata("just a note"))
}

func TestStripEventMetadata(t *testing.T) {
	desc := "Workout Category: Strength\nUser notes stay\n[Metadata: client=abc, workoutId=def]"
	assert.Equal(t, "User notes stay", StripEventMetadata(desc))
	assert.Equal(t, "", StripEventMetadata("[Metadata: client=abc]"))
	assert.Equal(t, "plain", StripEventMetadata("plain"))
}

func TestHasLinkedWorkout(t *testing.T) {
	var e CalendarEvent
	assert.False(t, e.HasLinkedWorkout())

	id := primitive.NewObjectID()
	e.LinkedWorkoutID = &id
	assert.True(t, e.HasLinkedWorkout())

	// Legacy events carry the link only in the description.
	legacy := CalendarEvent{Description: "[Metadata: workoutId=" + id.Hex() + "]"}
	assert.True(t, legacy.HasLinkedWorkout())
	none := CalendarEvent{Description: "[Metadata: workoutId=none]"}
	assert.False(t, none.HasLinkedWorkout())
}

func TestLinkedClientHex(t *testing.T) {
	id := primitive.NewObjectID()

	structured := CalendarEvent{ClientID: &id}
	assert.Equal(t, id.Hex(), structured.LinkedClientHex())

	legacy := CalendarEvent{Description: "[Metadata: client=" + id.Hex() + ", category=Strength]"}
	assert.Equal(t, id.Hex(), legacy.LinkedClientHex())

	// Structured field wins over stale metadata.
	other := primitive.NewObjectID()
	both := CalendarEvent{ClientID: &id, Description: "[Metadata: client=" + other.Hex() + "]"}
	assert.Equal(t, id.Hex(), both.LinkedClientHex())

	var unlinked CalendarEvent
	assert.Empty(t, unlinked.LinkedClientHex())
}
