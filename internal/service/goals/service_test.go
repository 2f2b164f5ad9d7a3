package goals

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/resaledesk/internal/calc"
	"github.com/mamadbah2/resaledesk/internal/domain/models"
	"github.com/mamadbah2/resaledesk/internal/repository/memory"
)

type mockGoalRepo struct {
	mock.Mock
}

func (m *mockGoalRepo) ListGoals(ctx context.Context) ([]models.Goal, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.Goal), args.Error(1)
}

func (m *mockGoalRepo) GetGoal(ctx context.Context, id string) (models.Goal, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(models.Goal), args.Error(1)
}

func (m *mockGoalRepo) SaveGoal(ctx context.Context, goal models.Goal) error {
	return m.Called(ctx, goal).Error(0)
}

func (m *mockGoalRepo) DeleteGoal(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockGoalRepo) ReplaceGoals(ctx context.Context, goals []models.Goal) error {
	return m.Called(ctx, goals).Error(0)
}

func TestRecompute_RevenueGoal(t *testing.T) {
	goals := []models.Goal{{ID: "g", Type: models.GoalRevenue, Current: 0, Target: 100}}

	updated, changed := Recompute(goals, calc.InventoryStats{TotalSold: 45})

	require.Len(t, updated, 1)
	assert.Equal(t, 45.0, updated[0].Current)
	assert.Equal(t, 100.0, updated[0].Target)
	assert.Equal(t, []int{0}, changed)
	assert.Zero(t, goals[0].Current, "input must not be mutated")
}

func TestRecompute_CustomGoalUntouched(t *testing.T) {
	goals := []models.Goal{
		{ID: "c", Type: models.GoalCustom, Current: 7, Target: 10},
		{ID: "p", Type: models.GoalProfit, Current: 12.5},
		{ID: "n", Type: models.GoalItemsSold, Current: 1},
	}

	updated, changed := Recompute(goals, calc.InventoryStats{TotalProfit: 12.5, ItemsSold: 3})

	assert.Equal(t, 7.0, updated[0].Current)
	assert.Equal(t, 12.5, updated[1].Current)
	assert.Equal(t, 3.0, updated[2].Current)
	assert.Equal(t, []int{2}, changed)
}

func TestService_RefreshPersistsOnlyChangedGoals(t *testing.T) {
	ctx := context.Background()
	inventory := memory.NewStore()
	sell := 45.0
	require.NoError(t, inventory.SaveInventoryItem(ctx, models.InventoryItem{ID: "i", PurchasePrice: 10, ActualSellPrice: &sell, SoldDate: "2025-06-20", Status: models.StatusSold}))

	stored := []models.Goal{
		{ID: "rev", Type: models.GoalRevenue, Current: 0, Target: 100},
		{ID: "items", Type: models.GoalItemsSold, Current: 1, Target: 5},
		{ID: "custom", Type: models.GoalCustom, Current: 3, Target: 4},
	}

	repo := new(mockGoalRepo)
	repo.On("ListGoals", ctx).Return(stored, nil)
	repo.On("SaveGoal", ctx, mock.MatchedBy(func(g models.Goal) bool { return g.ID == "rev" && g.Current == 45 })).Return(nil).Once()

	svc := NewService(repo, inventory, nil)
	updated, err := svc.Refresh(ctx)
	require.NoError(t, err)

	require.Len(t, updated, 3)
	assert.Equal(t, 45.0, updated[0].Current)
	assert.Equal(t, 1.0, updated[1].Current)
	assert.Equal(t, 3.0, updated[2].Current)
	repo.AssertExpectations(t)
	repo.AssertNumberOfCalls(t, "SaveGoal", 1)
}

func TestService_CreateStartsAtZero(t *testing.T) {
	svc := NewService(memory.NewStore(), memory.NewStore(), nil)

	goal, err := svc.Create(context.Background(), models.Goal{Title: "Q3 revenue", Type: models.GoalRevenue, Target: 500, Current: 99, Period: models.PeriodMonthly, Deadline: "2025-09-30"})
	require.NoError(t, err)
	assert.Zero(t, goal.Current)

	_, err = svc.Create(context.Background(), models.Goal{Title: "bad", Type: "visits", Period: models.PeriodDaily})
	assert.ErrorIs(t, err, ErrInvalidGoal)
}

func TestService_UpdateKeepsDerivedCurrent(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	svc := NewService(store, store, nil)
	require.NoError(t, store.SaveGoal(ctx, models.Goal{ID: "g", Title: "Profit", Type: models.GoalProfit, Current: 20, Target: 50, Period: models.PeriodWeekly}))
	require.NoError(t, store.SaveGoal(ctx, models.Goal{ID: "c", Title: "Photos", Type: models.GoalCustom, Current: 2, Target: 50, Period: models.PeriodWeekly}))

	updated, err := svc.Update(ctx, "g", models.Goal{Title: "Profit", Type: models.GoalProfit, Current: 999, Target: 80, Period: models.PeriodWeekly})
	require.NoError(t, err)
	assert.Equal(t, 20.0, updated.Current)
	assert.Equal(t, 80.0, updated.Target)

	custom, err := svc.Update(ctx, "c", models.Goal{Title: "Photos", Type: models.GoalCustom, Current: 9, Target: 50, Period: models.PeriodWeekly})
	require.NoError(t, err)
	assert.Equal(t, 9.0, custom.Current)
}

func TestWithProgress(t *testing.T) {
	out := WithProgress([]models.Goal{{Target: 200, Current: 50}, {Target: 0, Current: 5}})

	assert.Equal(t, 25.0, out[0].Percent)
	assert.Equal(t, 150.0, out[0].Remaining)
	assert.Zero(t, out[1].Percent)
	assert.Zero(t, out[1].Remaining)
}
