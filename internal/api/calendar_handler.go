package api

import (
	"coachdesk/coach-admin/internal/domain"
	"coachdesk/coach-admin/internal/service"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CalendarHandler exposes the mirrored calendar events and their links.
type CalendarHandler struct {
	calendarService service.CalendarService
}

// NewCalendarHandler creates a new CalendarHandler.
func NewCalendarHandler(calendarService service.CalendarService) *CalendarHandler {
	return &CalendarHandler{calendarService: calendarService}
}

// --- Request/Response Structs ---

type CreateEventRequest struct {
	Summary     string    `json:"summary" binding:"required"`
	Description string    `json:"description"`
	Start       time.Time `json:"start" binding:"required"`
	End         time.Time `json:"end" binding:"required"`
	TimeZone    string    `json:"timeZone"`
	ClientID    string    `json:"clientId"`
	Category    string    `json:"category"`
}

type AssignEventRequest struct {
	ClientID          string `json:"clientId" binding:"required"`
	Category          string `json:"category"`
	WorkoutTemplateID string `json:"workoutTemplateId"`
}

type UnassignEventRequest struct {
	DeleteWorkout bool `json:"deleteWorkout"`
}

type EventResponse struct {
	ID              string    `json:"id"`
	Summary         string    `json:"summary"`
	Description     string    `json:"description,omitempty"`
	Start           time.Time `json:"start"`
	End             time.Time `json:"end"`
	TimeZone        string    `json:"timeZone,omitempty"`
	ClientID        string    `json:"clientId,omitempty"`
	Category        string    `json:"category,omitempty"`
	LinkedWorkoutID string    `json:"linkedWorkoutId,omitempty"`
	PeriodID        string    `json:"periodId,omitempty"`
}

// --- Handler Methods ---

// CreateEvent creates a mirrored schedule event.
func (h *CalendarHandler) CreateEvent(c *gin.Context) {
	var req CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	in := service.CreateEventInput{
		Summary:     req.Summary,
		Description: req.Description,
		Start:       req.Start,
		End:         req.End,
		TimeZone:    req.TimeZone,
		Category:    req.Category,
	}
	if req.ClientID != "" {
		clientID, cerr := primitive.ObjectIDFromHex(req.ClientID)
		if cerr != nil {
			abortWithError(c, http.StatusBadRequest, "Invalid clientId format")
			return
		}
		in.ClientID = &clientID
	}

	event, err := h.calendarService.CreateScheduleEvent(c.Request.Context(), in)
	if err != nil {
		if errors.Is(err, service.ErrInvalidDateRange) {
			abortWithError(c, http.StatusBadRequest, err.Error())
			return
		}
		abortWithError(c, http.StatusInternalServerError, "Failed to create event")
		return
	}
	c.JSON(http.StatusCreated, MapEventToResponse(event))
}

// ListEvents returns events intersecting the ?start=&end= range.
func (h *CalendarHandler) ListEvents(c *gin.Context) {
	start, err := parseDateQuery(c, "start")
	if err != nil {
		return
	}
	end, err := parseDateQuery(c, "end")
	if err != nil {
		return
	}

	events, err := h.calendarService.ListEvents(c.Request.Context(), start, end)
	if err != nil {
		if errors.Is(err, service.ErrInvalidDateRange) {
			abortWithError(c, http.StatusBadRequest, err.Error())
			return
		}
		abortWithError(c, http.StatusInternalServerError, "Failed to list events")
		return
	}
	resp := make([]EventResponse, 0, len(events))
	for i := range events {
		resp = append(resp, MapEventToResponse(&events[i]))
	}
	c.JSON(http.StatusOK, resp)
}

// DeleteEvent removes a mirrored event.
func (h *CalendarHandler) DeleteEvent(c *gin.Context) {
	id, err := parseObjectIDParam(c, "id")
	if err != nil {
		return
	}
	if err := h.calendarService.DeleteEvent(c.Request.Context(), id); err != nil {
		if errors.Is(err, service.ErrEventNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
			return
		}
		abortWithError(c, http.StatusInternalServerError, "Failed to delete event")
		return
	}
	c.Status(http.StatusNoContent)
}

// AssignEvent links a client (and workout) to an event.
func (h *CalendarHandler) AssignEvent(c *gin.Context) {
	id, err := parseObjectIDParam(c, "id")
	if err != nil {
		return
	}
	var req AssignEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	clientID, err := primitive.ObjectIDFromHex(req.ClientID)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid clientId format")
		return
	}
	templateID := primitive.NilObjectID
	if req.WorkoutTemplateID != "" {
		templateID, err = primitive.ObjectIDFromHex(req.WorkoutTemplateID)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, "Invalid workoutTemplateId format")
			return
		}
	}

	event, err := h.calendarService.AssignClientToEvent(c.Request.Context(), id, clientID, req.Category, templateID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEventNotFound), errors.Is(err, service.ErrClientNotFound):
			abortWithError(c, http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrEventAlreadyLinked):
			abortWithError(c, http.StatusConflict, err.Error())
		case errors.Is(err, service.ErrCategoryRequired), errors.Is(err, service.ErrCatalogEntryNotFound):
			abortWithError(c, http.StatusBadRequest, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to assign event")
		}
		return
	}
	c.JSON(http.StatusOK, MapEventToResponse(event))
}

// UnassignEvent clears an event's client link.
func (h *CalendarHandler) UnassignEvent(c *gin.Context) {
	id, err := parseObjectIDParam(c, "id")
	if err != nil {
		return
	}
	var req UnassignEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	event, err := h.calendarService.UnassignClientFromEvent(c.Request.Context(), id, req.DeleteWorkout)
	if err != nil {
		if errors.Is(err, service.ErrEventNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
			return
		}
		abortWithError(c, http.StatusInternalServerError, "Failed to unassign event")
		return
	}
	c.JSON(http.StatusOK, MapEventToResponse(event))
}

// MapEventToResponse converts a domain CalendarEvent to its DTO.
func MapEventToResponse(event *domain.CalendarEvent) EventResponse {
	if event == nil {
		return EventResponse{}
	}
	resp := EventResponse{
		ID:          event.ID.Hex(),
		Summary:     event.Summary,
		Description: event.Description,
		Start:       event.Start,
		End:         event.End,
		TimeZone:    event.TimeZone,
		Category:    event.Category,
		PeriodID:    event.PeriodID,
	}
	if event.ClientID != nil {
		resp.ClientID = event.ClientID.Hex()
	}
	if event.LinkedWorkoutID != nil {
		resp.LinkedWorkoutID = event.LinkedWorkoutID.Hex()
	}
	return resp
}
