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

// ScheduleHandler exposes the period/workout reconciliation operations.
type ScheduleHandler struct {
	reconService service.ReconciliationService
}

// NewScheduleHandler creates a new ScheduleHandler.
func NewScheduleHandler(reconService service.ReconciliationService) *ScheduleHandler {
	return &ScheduleHandler{reconService: reconService}
}

// --- Request/Response Structs ---

type DayOverrideRequest struct {
	Date            time.Time `json:"date" binding:"required"`
	WorkoutCategory string    `json:"workoutCategory" binding:"required"`
	Time            string    `json:"time"`
	IsAllDay        bool      `json:"isAllDay"`
}

type AssignPeriodRequest struct {
	PeriodConfigID string               `json:"periodConfigId"`
	PeriodName     string               `json:"periodName" binding:"required"`
	PeriodColor    string               `json:"periodColor"`
	StartDate      time.Time            `json:"startDate" binding:"required"`
	EndDate        time.Time            `json:"endDate" binding:"required"`
	WeekTemplateID string               `json:"weekTemplateId"`
	DayOverrides   []DayOverrideRequest `json:"dayOverrides"`
	DeletedDates   []time.Time          `json:"deletedDates"`
}

type MoveDayRequest struct {
	FromDate time.Time `json:"fromDate" binding:"required"`
	ToDate   time.Time `json:"toDate" binding:"required"`
	Category string    `json:"category" binding:"required"`
}

type ApplyWeekTemplateRequest struct {
	WeekTemplateID string `json:"weekTemplateId" binding:"required"`
}

type PeriodDayResponse struct {
	Date                 time.Time `json:"date"`
	WorkoutCategory      string    `json:"workoutCategory"`
	WorkoutCategoryColor string    `json:"workoutCategoryColor"`
	Time                 string    `json:"time,omitempty"`
	IsAllDay             bool      `json:"isAllDay"`
}

type PeriodResponse struct {
	ID             string              `json:"id"`
	PeriodConfigID string              `json:"periodConfigId,omitempty"`
	PeriodName     string              `json:"periodName"`
	PeriodColor    string              `json:"periodColor,omitempty"`
	StartDate      time.Time           `json:"startDate"`
	EndDate        time.Time           `json:"endDate"`
	WeekTemplateID string              `json:"weekTemplateId,omitempty"`
	Days           []PeriodDayResponse `json:"days"`
}

type ProgramResponse struct {
	ID        string           `json:"id"`
	ClientID  string           `json:"clientId"`
	StartDate time.Time        `json:"startDate"`
	EndDate   time.Time        `json:"endDate"`
	Status    string           `json:"status"`
	Periods   []PeriodResponse `json:"periods"`
}

type WorkoutResponse struct {
	ID           string    `json:"id"`
	ClientID     string    `json:"clientId"`
	PeriodID     string    `json:"periodId,omitempty"`
	Date         time.Time `json:"date"`
	DayOfWeek    int       `json:"dayOfWeek"`
	CategoryName string    `json:"categoryName"`
	Title        string    `json:"title,omitempty"`
	Time         string    `json:"time,omitempty"`
}

// --- Handler Methods ---

// GetProgram returns the client's active program with all periods.
func (h *ScheduleHandler) GetProgram(c *gin.Context) {
	clientID, err := parseObjectIDParam(c, "clientId")
	if err != nil {
		return
	}
	program, err := h.reconService.GetProgram(c.Request.Context(), clientID)
	if err != nil {
		if errors.Is(err, service.ErrProgramNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
			return
		}
		abortWithError(c, http.StatusInternalServerError, "Failed to fetch program")
		return
	}
	c.JSON(http.StatusOK, MapProgramToResponse(program))
}

// AssignPeriod assigns a new period to the client.
func (h *ScheduleHandler) AssignPeriod(c *gin.Context) {
	clientID, err := parseObjectIDParam(c, "clientId")
	if err != nil {
		return
	}
	var req AssignPeriodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	in := service.AssignPeriodInput{
		PeriodConfigID: req.PeriodConfigID,
		PeriodName:     req.PeriodName,
		PeriodColor:    req.PeriodColor,
		StartDate:      req.StartDate,
		EndDate:        req.EndDate,
		DeletedDates:   req.DeletedDates,
	}
	if req.WeekTemplateID != "" {
		templateID, terr := primitive.ObjectIDFromHex(req.WeekTemplateID)
		if terr != nil {
			abortWithError(c, http.StatusBadRequest, "Invalid weekTemplateId format")
			return
		}
		in.WeekTemplateID = templateID
	}
	for _, o := range req.DayOverrides {
		in.DayOverrides = append(in.DayOverrides, domain.PeriodDay{
			Date:            o.Date,
			WorkoutCategory: o.WorkoutCategory,
			Time:            o.Time,
			IsAllDay:        o.IsAllDay,
		})
	}
	if uid, uerr := getUserIDFromContext(c); uerr == nil {
		in.CreatedBy = uid
	}

	period, err := h.reconService.AssignPeriod(c.Request.Context(), clientID, in)
	if err != nil {
		var overlap *service.PeriodOverlapError
		switch {
		case errors.As(err, &overlap):
			abortWithError(c, http.StatusConflict, overlap.Error())
		case errors.Is(err, service.ErrInvalidDateRange):
			abortWithError(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrTemplateNotFound):
			abortWithError(c, http.StatusNotFound, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to assign period")
		}
		return
	}
	c.JSON(http.StatusCreated, MapPeriodToResponse(period))
}

// MoveDay moves a day entry or changes its category in place.
func (h *ScheduleHandler) MoveDay(c *gin.Context) {
	clientID, err := parseObjectIDParam(c, "clientId")
	if err != nil {
		return
	}
	var req MoveDayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	program, err := h.reconService.MoveOrChangeCategory(c.Request.Context(), clientID, req.FromDate, req.ToDate, req.Category)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to apply schedule change")
		return
	}
	c.JSON(http.StatusOK, MapProgramToResponse(program))
}

// RemoveDay clears the day entry at the ?date= query parameter.
func (h *ScheduleHandler) RemoveDay(c *gin.Context) {
	clientID, err := parseObjectIDParam(c, "clientId")
	if err != nil {
		return
	}
	date, err := parseDateQuery(c, "date")
	if err != nil {
		return
	}

	program, err := h.reconService.RemoveDay(c.Request.Context(), clientID, date)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to remove day")
		return
	}
	if program == nil {
		c.Status(http.StatusNoContent)
		return
	}
	c.JSON(http.StatusOK, MapProgramToResponse(program))
}

// DeletePeriod removes a period and everything scheduled inside its range.
func (h *ScheduleHandler) DeletePeriod(c *gin.Context) {
	programID, err := parseObjectIDParam(c, "programId")
	if err != nil {
		return
	}
	periodID := c.Param("periodId")
	if periodID == "" {
		abortWithError(c, http.StatusBadRequest, "Period ID is required")
		return
	}

	if err := h.reconService.DeletePeriod(c.Request.Context(), programID, periodID); err != nil {
		switch {
		case errors.Is(err, service.ErrProgramNotFound), errors.Is(err, service.ErrPeriodNotFound):
			abortWithError(c, http.StatusNotFound, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to delete period")
		}
		return
	}
	c.Status(http.StatusNoContent)
}

// ClearAllPeriods wipes the client's entire schedule.
func (h *ScheduleHandler) ClearAllPeriods(c *gin.Context) {
	clientID, err := parseObjectIDParam(c, "clientId")
	if err != nil {
		return
	}
	if err := h.reconService.ClearAllPeriods(c.Request.Context(), clientID); err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to clear periods")
		return
	}
	c.Status(http.StatusNoContent)
}

// ApplyWeekTemplate rebuilds a period's days from a template.
func (h *ScheduleHandler) ApplyWeekTemplate(c *gin.Context) {
	programID, err := parseObjectIDParam(c, "programId")
	if err != nil {
		return
	}
	periodID := c.Param("periodId")
	var req ApplyWeekTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	templateID, err := primitive.ObjectIDFromHex(req.WeekTemplateID)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid weekTemplateId format")
		return
	}

	period, err := h.reconService.ApplyWeekTemplate(c.Request.Context(), programID, periodID, templateID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrProgramNotFound),
			errors.Is(err, service.ErrPeriodNotFound),
			errors.Is(err, service.ErrTemplateNotFound):
			abortWithError(c, http.StatusNotFound, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to apply template")
		}
		return
	}
	c.JSON(http.StatusOK, MapPeriodToResponse(period))
}

// ListWorkouts returns the client's workouts in the ?start=&end= range.
func (h *ScheduleHandler) ListWorkouts(c *gin.Context) {
	clientID, err := parseObjectIDParam(c, "clientId")
	if err != nil {
		return
	}
	start, err := parseDateQuery(c, "start")
	if err != nil {
		return
	}
	end, err := parseDateQuery(c, "end")
	if err != nil {
		return
	}

	workouts, err := h.reconService.ListWorkouts(c.Request.Context(), clientID, start, end)
	if err != nil {
		if errors.Is(err, service.ErrInvalidDateRange) {
			abortWithError(c, http.StatusBadRequest, err.Error())
			return
		}
		abortWithError(c, http.StatusInternalServerError, "Failed to list workouts")
		return
	}
	resp := make([]WorkoutResponse, 0, len(workouts))
	for i := range workouts {
		resp = append(resp, MapWorkoutToResponse(&workouts[i]))
	}
	c.JSON(http.StatusOK, resp)
}

// --- Mappers ---

func MapProgramToResponse(program *domain.ClientProgram) ProgramResponse {
	if program == nil {
		return ProgramResponse{}
	}
	resp := ProgramResponse{
		ID:        program.ID.Hex(),
		ClientID:  program.ClientID.Hex(),
		StartDate: program.StartDate,
		EndDate:   program.EndDate,
		Status:    string(program.Status),
		Periods:   make([]PeriodResponse, 0, len(program.Periods)),
	}
	for i := range program.Periods {
		resp.Periods = append(resp.Periods, MapPeriodToResponse(&program.Periods[i]))
	}
	return resp
}

func MapPeriodToResponse(period *domain.Period) PeriodResponse {
	if period == nil {
		return PeriodResponse{}
	}
	resp := PeriodResponse{
		ID:             period.ID,
		PeriodConfigID: period.PeriodConfigID,
		PeriodName:     period.PeriodName,
		PeriodColor:    period.PeriodColor,
		StartDate:      period.StartDate,
		EndDate:        period.EndDate,
		Days:           make([]PeriodDayResponse, 0, len(period.Days)),
	}
	if period.WeekTemplateID != primitive.NilObjectID {
		resp.WeekTemplateID = period.WeekTemplateID.Hex()
	}
	for _, d := range period.Days {
		resp.Days = append(resp.Days, PeriodDayResponse{
			Date:                 d.Date,
			WorkoutCategory:      d.WorkoutCategory,
			WorkoutCategoryColor: d.WorkoutCategoryColor,
			Time:                 d.Time,
			IsAllDay:             d.IsAllDay,
		})
	}
	return resp
}

func MapWorkoutToResponse(w *domain.ClientWorkout) WorkoutResponse {
	if w == nil {
		return WorkoutResponse{}
	}
	return WorkoutResponse{
		ID:           w.ID.Hex(),
		ClientID:     w.ClientID.Hex(),
		PeriodID:     w.PeriodID,
		Date:         w.Date,
		DayOfWeek:    w.DayOfWeek,
		CategoryName: w.CategoryName,
		Title:        w.Title,
		Time:         w.Time,
	}
}

// parseDateQuery reads a query parameter as either a date ("2006-01-02") or
// an RFC 3339 timestamp, aborting with a 400 on anything else.
func parseDateQuery(c *gin.Context, name string) (time.Time, error) {
	raw := c.Query(name)
	if raw == "" {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Query parameter %q is required", name))
		return time.Time{}, errors.New("missing query parameter")
	}
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Invalid %q date format", name))
		return time.Time{}, err
	}
	return t, nil
}
