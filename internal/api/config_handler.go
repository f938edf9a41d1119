package api

import (
	"coachdesk/coach-admin/internal/domain"
	"coachdesk/coach-admin/internal/service"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

// ConfigHandler exposes the configuration catalog.
type ConfigHandler struct {
	catalogService service.CatalogService
}

// NewConfigHandler creates a new ConfigHandler.
func NewConfigHandler(catalogService service.CatalogService) *ConfigHandler {
	return &ConfigHandler{catalogService: catalogService}
}

// --- Request/Response Structs ---

type PeriodConfigRequest struct {
	Name  string `json:"name" binding:"required"`
	Color string `json:"color"`
	Focus string `json:"focus"`
	Order int    `json:"order"`
}

type CategoryRequest struct {
	Name  string `json:"name" binding:"required"`
	Color string `json:"color"`
	Order int    `json:"order"`
}

type WeekTemplateDayRequest struct {
	Day             string `json:"day" binding:"required"`
	WorkoutCategory string `json:"workoutCategory" binding:"required"`
}

type WeekTemplateRequest struct {
	Name  string                   `json:"name" binding:"required"`
	Color string                   `json:"color"`
	Days  []WeekTemplateDayRequest `json:"days"`
	Order int                      `json:"order"`
}

type MovementRequest struct {
	Name        string `json:"name" binding:"required"`
	MuscleGroup string `json:"muscleGroup"`
	Equipment   string `json:"equipment"`
	Description string `json:"description"`
	VideoURL    string `json:"videoUrl"`
	Order       int    `json:"order"`
}

type MovementUsageRequest struct {
	Ordinal    int    `json:"ordinal"`
	MovementID string `json:"movementId" binding:"required"`
	Note       string `json:"note"`
	Reps       string `json:"reps"`
	Weight     string `json:"weight"`
	Tempo      string `json:"tempo"`
	RPE        string `json:"rpe"`
}

type WorkoutRoundRequest struct {
	Ordinal     int                    `json:"ordinal"`
	Sets        int                    `json:"sets" binding:"required"`
	SectionName string                 `json:"sectionName"`
	Movements   []MovementUsageRequest `json:"movements"`
}

type WorkoutWarmupRequest struct {
	Ordinal int    `json:"ordinal"`
	Text    string `json:"text" binding:"required"`
}

type WorkoutTemplateRequest struct {
	Name         string                 `json:"name" binding:"required"`
	CategoryName string                 `json:"categoryName"`
	Warmups      []WorkoutWarmupRequest `json:"warmups"`
	Rounds       []WorkoutRoundRequest  `json:"rounds"`
	Order        int                    `json:"order"`
}

// --- Period Configs ---

func (h *ConfigHandler) CreatePeriodConfig(c *gin.Context) {
	var req PeriodConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	config, err := h.catalogService.CreatePeriodConfig(c.Request.Context(), &domain.PeriodConfig{
		Name:  req.Name,
		Color: req.Color,
		Focus: req.Focus,
		Order: req.Order,
	})
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to create period config")
		return
	}
	c.JSON(http.StatusCreated, config)
}

func (h *ConfigHandler) ListPeriodConfigs(c *gin.Context) {
	configs, err := h.catalogService.ListPeriodConfigs(c.Request.Context())
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to list period configs")
		return
	}
	c.JSON(http.StatusOK, configs)
}

func (h *ConfigHandler) UpdatePeriodConfig(c *gin.Context) {
	id, err := parseObjectIDParam(c, "id")
	if err != nil {
		return
	}
	var req PeriodConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	config := &domain.PeriodConfig{ID: id, Name: req.Name, Color: req.Color, Focus: req.Focus, Order: req.Order}
	if err := h.catalogService.UpdatePeriodConfig(c.Request.Context(), config); err != nil {
		if errors.Is(err, service.ErrCatalogEntryNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
			return
		}
		abortWithError(c, http.StatusInternalServerError, "Failed to update period config")
		return
	}
	c.JSON(http.StatusOK, config)
}

func (h *ConfigHandler) DeletePeriodConfig(c *gin.Context) {
	id, err := parseObjectIDParam(c, "id")
	if err != nil {
		return
	}
	if err := h.catalogService.DeletePeriodConfig(c.Request.Context(), id); err != nil {
		if errors.Is(err, service.ErrCatalogEntryNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
			return
		}
		abortWithError(c, http.StatusInternalServerError, "Failed to delete period config")
		return
	}
	c.Status(http.StatusNoContent)
}

// --- Workout Categories ---

func (h *ConfigHandler) CreateCategory(c *gin.Context) {
	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	category, err := h.catalogService.CreateCategory(c.Request.Context(), &domain.WorkoutCategory{
		Name:  req.Name,
		Color: req.Color,
		Order: req.Order,
	})
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to create category")
		return
	}
	c.JSON(http.StatusCreated, category)
}

func (h *ConfigHandler) ListCategories(c *gin.Context) {
	categories, err := h.catalogService.ListCategories(c.Request.Context())
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to list categories")
		return
	}
	c.JSON(http.StatusOK, categories)
}

func (h *ConfigHandler) UpdateCategory(c *gin.Context) {
	id, err := parseObjectIDParam(c, "id")
	if err != nil {
		return
	}
	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	category := &domain.WorkoutCategory{ID: id, Name: req.Name, Color: req.Color, Order: req.Order}
	if err := h.catalogService.UpdateCategory(c.Request.Context(), category); err != nil {
		if errors.Is(err, service.ErrCatalogEntryNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
			return
		}
		abortWithError(c, http.StatusInternalServerError, "Failed to update category")
		return
	}
	c.JSON(http.StatusOK, category)
}

func (h *ConfigHandler) DeleteCategory(c *gin.Context) {
	id, err := parseObjectIDParam(c, "id")
	if err != nil {
		return
	}
	if err := h.catalogService.DeleteCategory(c.Request.Context(), id); err != nil {
		if errors.Is(err, service.ErrCatalogEntryNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
			return
		}
		abortWithError(c, http.StatusInternalServerError, "Failed to delete category")
		return
	}
	c.Status(http.StatusNoContent)
}

// --- Week Templates ---

func (h *ConfigHandler) CreateWeekTemplate(c *gin.Context) {
	var req WeekTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	template, err := h.catalogService.CreateWeekTemplate(c.Request.Context(), mapWeekTemplateRequest(req))
	if err != nil {
		if errors.Is(err, service.ErrInvalidWeekday) {
			abortWithError(c, http.StatusBadRequest, err.Error())
			return
		}
		abortWithError(c, http.StatusInternalServerError, "Failed to create week template")
		return
	}
	c.JSON(http.StatusCreated, template)
}

func (h *ConfigHandler) ListWeekTemplates(c *gin.Context) {
	templates, err := h.catalogService.ListWeekTemplates(c.Request.Context())
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to list week templates")
		return
	}
	c.JSON(http.StatusOK, templates)
}

func (h *ConfigHandler) UpdateWeekTemplate(c *gin.Context) {
	id, err := parseObjectIDParam(c, "id")
	if err != nil {
		return
	}
	var req WeekTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	template := mapWeekTemplateRequest(req)
	template.ID = id
	if err := h.catalogService.UpdateWeekTemplate(c.Request.Context(), template); err != nil {
		switch {
		case errors.Is(err, service.ErrCatalogEntryNotFound):
			abortWithError(c, http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrInvalidWeekday):
			abortWithError(c, http.StatusBadRequest, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to update week template")
		}
		return
	}
	c.JSON(http.StatusOK, template)
}

func (h *ConfigHandler) DeleteWeekTemplate(c *gin.Context) {
	id, err := parseObjectIDParam(c, "id")
	if err != nil {
		return
	}
	if err := h.catalogService.DeleteWeekTemplate(c.Request.Context(), id); err != nil {
		if errors.Is(err, service.ErrCatalogEntryNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
			return
		}
		abortWithError(c, http.StatusInternalServerError, "Failed to delete week template")
		return
	}
	c.Status(http.StatusNoContent)
}

// --- Movement Library ---

func (h *ConfigHandler) CreateMovement(c *gin.Context) {
	var req MovementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	movement, err := h.catalogService.CreateMovement(c.Request.Context(), mapMovementRequest(req))
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to create movement")
		return
	}
	c.JSON(http.StatusCreated, movement)
}

func (h *ConfigHandler) ListMovements(c *gin.Context) {
	movements, err := h.catalogService.ListMovements(c.Request.Context())
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to list movements")
		return
	}
	c.JSON(http.StatusOK, movements)
}

func (h *ConfigHandler) UpdateMovement(c *gin.Context) {
	id, err := parseObjectIDParam(c, "id")
	if err != nil {
		return
	}
	var req MovementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	movement := mapMovementRequest(req)
	movement.ID = id
	if err := h.catalogService.UpdateMovement(c.Request.Context(), movement); err != nil {
		if errors.Is(err, service.ErrCatalogEntryNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
			return
		}
		abortWithError(c, http.StatusInternalServerError, "Failed to update movement")
		return
	}
	c.JSON(http.StatusOK, movement)
}

func (h *ConfigHandler) DeleteMovement(c *gin.Context) {
	id, err := parseObjectIDParam(c, "id")
	if err != nil {
		return
	}
	if err := h.catalogService.DeleteMovement(c.Request.Context(), id); err != nil {
		if errors.Is(err, service.ErrCatalogEntryNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
			return
		}
		abortWithError(c, http.StatusInternalServerError, "Failed to delete movement")
		return
	}
	c.Status(http.StatusNoContent)
}

// --- Workout Templates ---

func (h *ConfigHandler) CreateWorkoutTemplate(c *gin.Context) {
	var req WorkoutTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	template, err := h.catalogService.CreateWorkoutTemplate(c.Request.Context(), mapWorkoutTemplateRequest(req))
	if err != nil {
		if errors.Is(err, service.ErrInvalidRound) {
			abortWithError(c, http.StatusBadRequest, err.Error())
			return
		}
		abortWithError(c, http.StatusInternalServerError, "Failed to create workout template")
		return
	}
	c.JSON(http.StatusCreated, template)
}

func (h *ConfigHandler) ListWorkoutTemplates(c *gin.Context) {
	templates, err := h.catalogService.ListWorkoutTemplates(c.Request.Context())
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to list workout templates")
		return
	}
	c.JSON(http.StatusOK, templates)
}

func (h *ConfigHandler) UpdateWorkoutTemplate(c *gin.Context) {
	id, err := parseObjectIDParam(c, "id")
	if err != nil {
		return
	}
	var req WorkoutTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	template := mapWorkoutTemplateRequest(req)
	template.ID = id
	if err := h.catalogService.UpdateWorkoutTemplate(c.Request.Context(), template); err != nil {
		switch {
		case errors.Is(err, service.ErrCatalogEntryNotFound):
			abortWithError(c, http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrInvalidRound):
			abortWithError(c, http.StatusBadRequest, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to update workout template")
		}
		return
	}
	c.JSON(http.StatusOK, template)
}

func (h *ConfigHandler) DeleteWorkoutTemplate(c *gin.Context) {
	id, err := parseObjectIDParam(c, "id")
	if err != nil {
		return
	}
	if err := h.catalogService.DeleteWorkoutTemplate(c.Request.Context(), id); err != nil {
		if errors.Is(err, service.ErrCatalogEntryNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
			return
		}
		abortWithError(c, http.StatusInternalServerError, "Failed to delete workout template")
		return
	}
	c.Status(http.StatusNoContent)
}

func mapMovementRequest(req MovementRequest) *domain.Movement {
	return &domain.Movement{
		Name:        req.Name,
		MuscleGroup: req.MuscleGroup,
		Equipment:   req.Equipment,
		Description: req.Description,
		VideoURL:    req.VideoURL,
		Order:       req.Order,
	}
}

func mapWorkoutTemplateRequest(req WorkoutTemplateRequest) *domain.WorkoutTemplate {
	template := &domain.WorkoutTemplate{
		Name:         req.Name,
		CategoryName: req.CategoryName,
		Order:        req.Order,
	}
	for _, w := range req.Warmups {
		template.Warmups = append(template.Warmups, domain.WorkoutWarmup{Ordinal: w.Ordinal, Text: w.Text})
	}
	for _, r := range req.Rounds {
		round := domain.WorkoutRound{Ordinal: r.Ordinal, Sets: r.Sets, SectionName: r.SectionName}
		for _, m := range r.Movements {
			round.Movements = append(round.Movements, domain.MovementUsage{
				Ordinal:    m.Ordinal,
				MovementID: m.MovementID,
				Note:       m.Note,
				Reps:       m.Reps,
				Weight:     m.Weight,
				Tempo:      m.Tempo,
				RPE:        m.RPE,
			})
		}
		template.Rounds = append(template.Rounds, round)
	}
	return template
}

func mapWeekTemplateRequest(req WeekTemplateRequest) *domain.WeekTemplate {
	template := &domain.WeekTemplate{
		Name:  req.Name,
		Color: req.Color,
		Order: req.Order,
		Days:  make([]domain.WeekTemplateDay, 0, len(req.Days)),
	}
	for _, d := range req.Days {
		template.Days = append(template.Days, domain.WeekTemplateDay{
			Day:             d.Day,
			WorkoutCategory: d.WorkoutCategory,
		})
	}
	return template
}
