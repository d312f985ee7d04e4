package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alexanderramin/braindump/internal/domain"
	"github.com/alexanderramin/braindump/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlanRepo_CreateAndGetByID(t *testing.T) {
	db := testutil.NewTestDB(t)
	plans := NewSQLitePlanRepo(db)
	tasks := NewSQLitePlanTaskRepo(db)
	ctx := context.Background()

	c := domain.Constraints{Mode: domain.ModeToday, TimeAvailable: domain.TimeLow, EnergyLevel: domain.EnergyDrained, FocusArea: "money"}
	p := testutil.NewTestPlan(testutil.WithConstraints(c))
	p.BudgetMin, p.AllocatedMin, p.MaxTasks = 90, 50, 3
	require.NoError(t, plans.Create(ctx, p))

	require.NoError(t, tasks.CreateBatch(ctx, []domain.PlanTask{
		testutil.NewTestPlanTask(p.ID, "second", testutil.WithRank(2)),
		testutil.NewTestPlanTask(p.ID, "first", testutil.WithRank(1), testutil.WithSection(domain.SectionDoFirst)),
	}))

	fetched, err := plans.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.OwnerID, fetched.OwnerID)
	assert.Equal(t, p.BrainDump, fetched.BrainDump)
	assert.Equal(t, c, fetched.Constraints)
	assert.Equal(t, 90, fetched.BudgetMin)
	assert.Equal(t, 50, fetched.AllocatedMin)
	assert.Equal(t, 3, fetched.MaxTasks)
	assert.True(t, p.CreatedAt.Equal(fetched.CreatedAt))
	require.Len(t, fetched.Tasks, 2)
	assert.Equal(t, "first", fetched.Tasks[0].Title, "tasks come back in rank order")
	assert.Equal(t, "second", fetched.Tasks[1].Title)
}

func TestPlanRepo_GetByID_NotFound(t *testing.T) {
	db := testutil.NewTestDB(t)
	_, err := NewSQLitePlanRepo(db).GetByID(context.Background(), "nonexistent")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPlanRepo_ListByOwner_NewestFirst(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLitePlanRepo(db)
	ctx := context.Background()

	base := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	for i, owner := range []string{"ann", "ann", "bob", "ann"} {
		p := testutil.NewTestPlan(testutil.WithOwner(owner), testutil.WithCreatedAt(base.Add(time.Duration(i)*time.Hour)))
		p.BrainDump = owner + string(rune('0'+i))
		require.NoError(t, repo.Create(ctx, p))
	}

	got, err := repo.ListByOwner(ctx, "ann", 0)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "ann3", got[0].BrainDump)
	assert.Equal(t, "ann1", got[1].BrainDump)
	assert.Equal(t, "ann0", got[2].BrainDump)
	assert.Empty(t, got[0].Tasks, "headers only")

	limited, err := repo.ListByOwner(ctx, "ann", 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)

	none, err := repo.ListByOwner(ctx, "carol", 10)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestPlanRepo_ListWithTasks(t *testing.T) {
	db := testutil.NewTestDB(t)
	plans := NewSQLitePlanRepo(db)
	ctx := context.Background()

	p := testutil.NewTestPlan()
	require.NoError(t, plans.Create(ctx, p))
	require.NoError(t, NewSQLitePlanTaskRepo(db).CreateBatch(ctx, []domain.PlanTask{
		testutil.NewTestPlanTask(p.ID, "only"),
	}))

	got, err := plans.ListWithTasks(ctx, p.OwnerID, 5)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Len(t, got[0].Tasks, 1)
}

func TestPlanRepo_LatestByOwner(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLitePlanRepo(db)
	ctx := context.Background()

	_, err := repo.LatestByOwner(ctx, "local")
	assert.ErrorIs(t, err, ErrNotFound)

	old := testutil.NewTestPlan(testutil.WithCreatedAt(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)))
	recent := testutil.NewTestPlan(testutil.WithCreatedAt(time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)))
	require.NoError(t, repo.Create(ctx, recent))
	require.NoError(t, repo.Create(ctx, old))

	got, err := repo.LatestByOwner(ctx, "local")
	require.NoError(t, err)
	assert.Equal(t, recent.ID, got.ID)
}

func TestPlanRepo_OwnerOfAndTouch(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLitePlanRepo(db)
	ctx := context.Background()

	p := testutil.NewTestPlan(testutil.WithOwner("ann"))
	require.NoError(t, repo.Create(ctx, p))

	owner, err := repo.OwnerOf(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "ann", owner)
	_, err = repo.OwnerOf(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	later := p.UpdatedAt.Add(time.Hour)
	require.NoError(t, repo.Touch(ctx, p.ID, later))
	fetched, err := repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, later.Equal(fetched.UpdatedAt))
	assert.True(t, p.CreatedAt.Equal(fetched.CreatedAt))

	assert.ErrorIs(t, repo.Touch(ctx, "missing", later), ErrNotFound)
}

// TestPlanRepo_DeleteCascadesToTasks verifies plans -> plan_tasks cascade.
func TestPlanRepo_DeleteCascadesToTasks(t *testing.T) {
	db := testutil.NewTestDB(t)
	plans := NewSQLitePlanRepo(db)
	tasks := NewSQLitePlanTaskRepo(db)
	ctx := context.Background()

	p := testutil.NewTestPlan()
	require.NoError(t, plans.Create(ctx, p))
	task := testutil.NewTestPlanTask(p.ID, "Task")
	require.NoError(t, tasks.CreateBatch(ctx, []domain.PlanTask{task}))

	require.NoError(t, plans.Delete(ctx, p.ID))

	_, err := tasks.GetByID(ctx, task.ID)
	assert.ErrorIs(t, err, ErrNotFound, "task should be cascade-deleted with its plan")
	assert.ErrorIs(t, plans.Delete(ctx, p.ID), ErrNotFound)
}
