package domain

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CalendarEvent mirrors an event from the external calendar provider. The
// structured link fields (ClientID, Category, LinkedWorkoutID, PeriodID) are
// the source of truth; the bracketed metadata block inside Description is
// generated from them so the link survives round-trips through the provider,
// and is parsed only when ingesting foreign events that lack the fields.
type CalendarEvent struct {
	ID              primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Summary         string              `bson:"summary" json:"summary"`
	Description     string              `bson:"description,omitempty" json:"description,omitempty"`
	Start           time.Time           `bson:"start" json:"start"`
	End             time.Time           `bson:"end" json:"end"`
	TimeZone        string              `bson:"timeZone,omitempty" json:"timeZone,omitempty"`
	ClientID        *primitive.ObjectID `bson:"clientId,omitempty" json:"clientId,omitempty"`
	Category        string              `bson:"category,omitempty" json:"category,omitempty"`
	LinkedWorkoutID *primitive.ObjectID `bson:"linkedWorkoutId,omitempty" json:"linkedWorkoutId,omitempty"`
	PeriodID        string              `bson:"periodId,omitempty" json:"periodId,omitempty"`
	CreatedAt       time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time           `bson:"updatedAt" json:"updatedAt"`
}

// HasLinkedWorkout reports whether the event already points at a workout
// record, either through the structured field or legacy description
// metadata.
func (e *CalendarEvent) HasLinkedWorkout() bool {
	if e.LinkedWorkoutID != nil && !e.LinkedWorkoutID.IsZero() {
		return true
	}
	return ParseEventMetadata(e.Description).WorkoutID != ""
}

// LinkedClientHex returns the linked client ID as a hex string, falling back
// to description metadata for events imported before structured fields
// existed. Empty when the event is unlinked.
func (e *CalendarEvent) LinkedClientHex() string {
	if e.ClientID != nil && !e.ClientID.IsZero() {
		return e.ClientID.Hex()
	}
	return ParseEventMetadata(e.Description).ClientID
}

// EventMetadata is the link information carried in an event description's
// bracketed metadata block.
type EventMetadata struct {
	ClientID  string
	Category  string
	WorkoutID string
	PeriodID  string
}

var (
	metadataBlockRe = regexp.MustCompile(`\n?\[Metadata:[^\]]*\]`)
	clientRe        = regexp.MustCompile(`client=([^,\s\]]+)`)
	categoryRe      = regexp.MustCompile(`category=([^,\]]+)`)
	workoutRe       = regexp.MustCompile(`workoutId=([^,\s\]]+)`)
	periodRe        = regexp.MustCompile(`periodId=([^,\s\]]+)`)
	categoryLineRe  = regexp.MustCompile(`(?m)^Workout Category:\s*([^\n]+)\n?`)
)

// FormatEventDescription renders the canonical description for a linked
// event: a human-readable category line followed by the metadata block.
func FormatEventDescription(body string, md EventMetadata) string {
	parts := make([]string, 0, 4)
	if md.ClientID != "" {
		parts = append(parts, "client="+md.ClientID)
	}
	if md.Category != "" {
		parts = append(parts, "category="+md.Category)
	}
	if md.WorkoutID != "" {
		parts = append(parts, "workoutId="+md.WorkoutID)
	}
	if md.PeriodID != "" {
		parts = append(parts, "periodId="+md.PeriodID)
	}

	out := StripEventMetadata(body)
	if md.Category != "" {
		out = strings.TrimSpace("Workout Category: " + md.Category + "\n" + out)
	}
	if len(parts) == 0 {
		return out
	}
	block := fmt.Sprintf("[Metadata: %s]", strings.Join(parts, ", "))
	if out == "" {
		return block
	}
	return out + "\n" + block
}

// ParseEventMetadata extracts link metadata from a description. Values equal
// to "none" are treated as absent, matching what older clients wrote.
func ParseEventMetadata(description string) EventMetadata {
	var md EventMetadata
	if description == "" {
		return md
	}
	if m := clientRe.FindStringSubmatch(description); m != nil && m[1] != "none" {
		md.ClientID = strings.TrimSpace(m[1])
	}
	if m := workoutRe.FindStringSubmatch(description); m != nil && m[1] != "none" {
		md.WorkoutID = strings.TrimSpace(m[1])
	}
	if m := periodRe.FindStringSubmatch(description); m != nil && m[1] != "none" {
		md.PeriodID = strings.TrimSpace(m[1])
	}
	if m := categoryLineRe.FindStringSubmatch(description); m != nil {
		md.Category = strings.TrimSpace(m[1])
	} else if m := categoryRe.FindStringSubmatch(description); m != nil && m[1] != "none" {
		md.Category = strings.TrimSpace(m[1])
	}
	return md
}

// StripEventMetadata removes the metadata block and the generated category
// line, returning only the user-authored description body.
func StripEventMetadata(description string) string {
	out := metadataBlockRe.ReplaceAllString(description, "")
	out = categoryLineRe.ReplaceAllString(out, "")
	return strings.TrimSpace(out)
}
