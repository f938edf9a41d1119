package service

import (
	"coachdesk/coach-admin/internal/domain"
	"coachdesk/coach-admin/internal/repository"
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrCatalogEntryNotFound = errors.New("catalog entry not found")
	ErrInvalidWeekday       = errors.New("template day must be a weekday name")
	ErrInvalidRound         = errors.New("workout rounds need at least one set and a movement reference per entry")
)

// --- Service Interface ---

// CatalogService manages the reusable configuration catalog: period
// definitions, workout categories, and week templates.
type CatalogService interface {
	CreatePeriodConfig(ctx context.Context, config *domain.PeriodConfig) (*domain.PeriodConfig, error)
	ListPeriodConfigs(ctx context.Context) ([]domain.PeriodConfig, error)
	UpdatePeriodConfig(ctx context.Context, config *domain.PeriodConfig) error
	DeletePeriodConfig(ctx context.Context, id primitive.ObjectID) error

	CreateCategory(ctx context.Context, category *domain.WorkoutCategory) (*domain.WorkoutCategory, error)
	ListCategories(ctx context.Context) ([]domain.WorkoutCategory, error)
	UpdateCategory(ctx context.Context, category *domain.WorkoutCategory) error
	DeleteCategory(ctx context.Context, id primitive.ObjectID) error

	CreateWeekTemplate(ctx context.Context, template *domain.WeekTemplate) (*domain.WeekTemplate, error)
	GetWeekTemplate(ctx context.Context, id primitive.ObjectID) (*domain.WeekTemplate, error)
	ListWeekTemplates(ctx context.Context) ([]domain.WeekTemplate, error)
	UpdateWeekTemplate(ctx context.Context, template *domain.WeekTemplate) error
	DeleteWeekTemplate(ctx context.Context, id primitive.ObjectID) error

	CreateMovement(ctx context.Context, movement *domain.Movement) (*domain.Movement, error)
	ListMovements(ctx context.Context) ([]domain.Movement, error)
	UpdateMovement(ctx context.Context, movement *domain.Movement) error
	DeleteMovement(ctx context.Context, id primitive.ObjectID) error

	CreateWorkoutTemplate(ctx context.Context, template *domain.WorkoutTemplate) (*domain.WorkoutTemplate, error)
	GetWorkoutTemplate(ctx context.Context, id primitive.ObjectID) (*domain.WorkoutTemplate, error)
	ListWorkoutTemplates(ctx context.Context) ([]domain.WorkoutTemplate, error)
	UpdateWorkoutTemplate(ctx context.Context, template *domain.WorkoutTemplate) error
	DeleteWorkoutTemplate(ctx context.Context, id primitive.ObjectID) error
}

// --- Service Implementation ---

type catalogService struct {
	periodConfigRepo    repository.PeriodConfigRepository
	categoryRepo        repository.CategoryRepository
	templateRepo        repository.WeekTemplateRepository
	movementRepo        repository.MovementRepository
	workoutTemplateRepo repository.WorkoutTemplateRepository
}

// NewCatalogService creates a new instance of catalogService.
func NewCatalogService(
	periodConfigRepo repository.PeriodConfigRepository,
	categoryRepo repository.CategoryRepository,
	templateRepo repository.WeekTemplateRepository,
	movementRepo repository.MovementRepository,
	workoutTemplateRepo repository.WorkoutTemplateRepository,
) CatalogService {
	return &catalogService{
		periodConfigRepo:    periodConfigRepo,
		categoryRepo:        categoryRepo,
		templateRepo:        templateRepo,
		movementRepo:        movementRepo,
		workoutTemplateRepo: workoutTemplateRepo,
	}
}

// === Period Configs ===

func (s *catalogService) CreatePeriodConfig(ctx context.Context, config *domain.PeriodConfig) (*domain.PeriodConfig, error) {
	if config.Name == "" {
		return nil, errors.New("period config name is required")
	}
	id, err := s.periodConfigRepo.Create(ctx, config)
	if err != nil {
		return nil, err
	}
	config.ID = id
	return config, nil
}

func (s *catalogService) ListPeriodConfigs(ctx context.Context) ([]domain.PeriodConfig, error) {
	return s.periodConfigRepo.List(ctx)
}

func (s *catalogService) UpdatePeriodConfig(ctx context.Context, config *domain.PeriodConfig) error {
	err := s.periodConfigRepo.Update(ctx, config)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrCatalogEntryNotFound
	}
	return err
}

func (s *catalogService) DeletePeriodConfig(ctx context.Context, id primitive.ObjectID) error {
	err := s.periodConfigRepo.Delete(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrCatalogEntryNotFound
	}
	return err
}

// === Workout Categories ===

func (s *catalogService) CreateCategory(ctx context.Context, category *domain.WorkoutCategory) (*domain.WorkoutCategory, error) {
	if category.Name == "" {
		return nil, errors.New("category name is required")
	}
	if category.Color == "" {
		category.Color = domain.DefaultCategoryColor
	}
	id, err := s.categoryRepo.Create(ctx, category)
	if err != nil {
		return nil, err
	}
	category.ID = id
	return category, nil
}

func (s *catalogService) ListCategories(ctx context.Context) ([]domain.WorkoutCategory, error) {
	return s.categoryRepo.List(ctx)
}

func (s *catalogService) UpdateCategory(ctx context.Context, category *domain.WorkoutCategory) error {
	err := s.categoryRepo.Update(ctx, category)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrCatalogEntryNotFound
	}
	return err
}

func (s *catalogService) DeleteCategory(ctx context.Context, id primitive.ObjectID) error {
	err := s.categoryRepo.Delete(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrCatalogEntryNotFound
	}
	return err
}

// === Week Templates ===

func (s *catalogService) CreateWeekTemplate(ctx context.Context, template *domain.WeekTemplate) (*domain.WeekTemplate, error) {
	if template.Name == "" {
		return nil, errors.New("template name is required")
	}
	if err := validateTemplateDays(template.Days); err != nil {
		return nil, err
	}
	id, err := s.templateRepo.Create(ctx, template)
	if err != nil {
		return nil, err
	}
	template.ID = id
	return template, nil
}

func (s *catalogService) GetWeekTemplate(ctx context.Context, id primitive.ObjectID) (*domain.WeekTemplate, error) {
	template, err := s.templateRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrCatalogEntryNotFound
		}
		return nil, err
	}
	return template, nil
}

func (s *catalogService) ListWeekTemplates(ctx context.Context) ([]domain.WeekTemplate, error) {
	return s.templateRepo.List(ctx)
}

func (s *catalogService) UpdateWeekTemplate(ctx context.Context, template *domain.WeekTemplate) error {
	if err := validateTemplateDays(template.Days); err != nil {
		return err
	}
	err := s.templateRepo.Update(ctx, template)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrCatalogEntryNotFound
	}
	return err
}

func (s *catalogService) DeleteWeekTemplate(ctx context.Context, id primitive.ObjectID) error {
	err := s.templateRepo.Delete(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrCatalogEntryNotFound
	}
	return err
}

// === Movement Library ===

func (s *catalogService) CreateMovement(ctx context.Context, movement *domain.Movement) (*domain.Movement, error) {
	if movement.Name == "" {
		return nil, errors.New("movement name is required")
	}
	id, err := s.movementRepo.Create(ctx, movement)
	if err != nil {
		return nil, err
	}
	movement.ID = id
	return movement, nil
}

func (s *catalogService) ListMovements(ctx context.Context) ([]domain.Movement, error) {
	return s.movementRepo.List(ctx)
}

func (s *catalogService) UpdateMovement(ctx context.Context, movement *domain.Movement) error {
	err := s.movementRepo.Update(ctx, movement)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrCatalogEntryNotFound
	}
	return err
}

func (s *catalogService) DeleteMovement(ctx context.Context, id primitive.ObjectID) error {
	err := s.movementRepo.Delete(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrCatalogEntryNotFound
	}
	return err
}

// === Workout Templates ===

func (s *catalogService) CreateWorkoutTemplate(ctx context.Context, template *domain.WorkoutTemplate) (*domain.WorkoutTemplate, error) {
	if template.Name == "" {
		return nil, errors.New("workout template name is required")
	}
	if err := validateWorkoutRounds(template.Rounds); err != nil {
		return nil, err
	}
	id, err := s.workoutTemplateRepo.Create(ctx, template)
	if err != nil {
		return nil, err
	}
	template.ID = id
	return template, nil
}

func (s *catalogService) GetWorkoutTemplate(ctx context.Context, id primitive.ObjectID) (*domain.WorkoutTemplate, error) {
	template, err := s.workoutTemplateRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrCatalogEntryNotFound
		}
		return nil, err
	}
	return template, nil
}

func (s *catalogService) ListWorkoutTemplates(ctx context.Context) ([]domain.WorkoutTemplate, error) {
	return s.workoutTemplateRepo.List(ctx)
}

func (s *catalogService) UpdateWorkoutTemplate(ctx context.Context, template *domain.WorkoutTemplate) error {
	if err := validateWorkoutRounds(template.Rounds); err != nil {
		return err
	}
	err := s.workoutTemplateRepo.Update(ctx, template)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrCatalogEntryNotFound
	}
	return err
}

func (s *catalogService) DeleteWorkoutTemplate(ctx context.Context, id primitive.ObjectID) error {
	err := s.workoutTemplateRepo.Delete(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrCatalogEntryNotFound
	}
	return err
}

// validateWorkoutRounds rejects rounds with no sets and movement entries that
// reference nothing, so stamped workouts never carry unresolvable rounds.
func validateWorkoutRounds(rounds []domain.WorkoutRound) error {
	for _, round := range rounds {
		if round.Sets < 1 {
			return ErrInvalidRound
		}
		for _, m := range round.Movements {
			if m.MovementID == "" {
				return ErrInvalidRound
			}
		}
	}
	return nil
}

// validateTemplateDays checks every day entry names a real weekday, so
// CategoryFor lookups cannot silently miss.
func validateTemplateDays(days []domain.WeekTemplateDay) error {
	for _, d := range days {
		if !isWeekdayName(d.Day) {
			return ErrInvalidWeekday
		}
	}
	return nil
}

func isWeekdayName(name string) bool {
	for wd := time.Sunday; wd <= time.Saturday; wd++ {
		if wd.String() == name {
			return true
		}
	}
	return false
}
