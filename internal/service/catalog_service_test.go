package service

import (
	"coachdesk/coach-admin/internal/domain"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newCatalogEnv() (*testEnv, CatalogService) {
	env := newTestEnv()
	catalog := NewCatalogService(
		newFakePeriodConfigRepo(), env.categories, env.templates,
		env.movements, env.workoutTemplates,
	)
	return env, catalog
}

func TestCreateCategory_DefaultsColor(t *testing.T) {
	_, catalog := newCatalogEnv()
	ctx := context.Background()

	category, err := catalog.CreateCategory(ctx, &domain.WorkoutCategory{Name: "Recovery"})
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultCategoryColor, category.Color)

	_, err = catalog.CreateCategory(ctx, &domain.WorkoutCategory{})
	require.Error(t, err)
}

func TestCreateWeekTemplate_RejectsBogusWeekday(t *testing.T) {
	_, catalog := newCatalogEnv()
	_, err := catalog.CreateWeekTemplate(context.Background(), &domain.WeekTemplate{
		Name: "Broken",
		Days: []domain.WeekTemplateDay{{Day: "Moonday", WorkoutCategory: "Strength"}},
	})
	require.ErrorIs(t, err, ErrInvalidWeekday)
}

func TestCreateMovement_RequiresName(t *testing.T) {
	env, catalog := newCatalogEnv()
	ctx := context.Background()

	_, err := catalog.CreateMovement(ctx, &domain.Movement{Equipment: "Barbell"})
	require.Error(t, err)

	movement, err := catalog.CreateMovement(ctx, &domain.Movement{
		Name:        "Back Squat",
		MuscleGroup: "Legs",
		Equipment:   "Barbell",
	})
	require.NoError(t, err)
	assert.NotEqual(t, primitive.NilObjectID, movement.ID)
	assert.Contains(t, env.movements.movements, movement.ID)
}

func TestUpdateMovement_UnknownIsNotFound(t *testing.T) {
	_, catalog := newCatalogEnv()
	err := catalog.UpdateMovement(context.Background(), &domain.Movement{
		ID:   primitive.NewObjectID(),
		Name: "Ghost",
	})
	require.ErrorIs(t, err, ErrCatalogEntryNotFound)
}

func TestCreateWorkoutTemplate_ValidatesRounds(t *testing.T) {
	_, catalog := newCatalogEnv()
	ctx := context.Background()

	// A round with zero sets is rejected.
	_, err := catalog.CreateWorkoutTemplate(ctx, &domain.WorkoutTemplate{
		Name:   "Bad Sets",
		Rounds: []domain.WorkoutRound{{Ordinal: 1, Sets: 0}},
	})
	require.ErrorIs(t, err, ErrInvalidRound)

	// A movement entry with no reference is rejected.
	_, err = catalog.CreateWorkoutTemplate(ctx, &domain.WorkoutTemplate{
		Name: "Bad Movement",
		Rounds: []domain.WorkoutRound{{
			Ordinal:   1,
			Sets:      3,
			Movements: []domain.MovementUsage{{Ordinal: 1, Reps: "10"}},
		}},
	})
	require.ErrorIs(t, err, ErrInvalidRound)

	template, err := catalog.CreateWorkoutTemplate(ctx, &domain.WorkoutTemplate{
		Name:         "Lower Body A",
		CategoryName: "Strength",
		Rounds: []domain.WorkoutRound{{
			Ordinal: 1,
			Sets:    4,
			Movements: []domain.MovementUsage{{
				Ordinal:    1,
				MovementID: primitive.NewObjectID().Hex(),
				Reps:       "8-10",
			}},
		}},
	})
	require.NoError(t, err)
	assert.NotEqual(t, primitive.NilObjectID, template.ID)

	got, err := catalog.GetWorkoutTemplate(ctx, template.ID)
	require.NoError(t, err)
	assert.Equal(t, "Lower Body A", got.Name)
}

func TestDeleteWorkoutTemplate_UnknownIsNotFound(t *testing.T) {
	_, catalog := newCatalogEnv()
	err := catalog.DeleteWorkoutTemplate(context.Background(), primitive.NewObjectID())
	require.ErrorIs(t, err, ErrCatalogEntryNotFound)
}
