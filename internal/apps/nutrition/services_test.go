package nutrition

import (
	"context"
	"errors"
	"testing"

	"github.com/ahmetcoskunkizilkaya/nutriquest/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/nutriquest/internal/apps/progression"
	"github.com/ahmetcoskunkizilkaya/nutriquest/internal/dto"
	"github.com/ahmetcoskunkizilkaya/nutriquest/internal/xp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newLogService(t *testing.T) (*LogService, *progression.Ledger, *gorm.DB) {
	t.Helper()
	db := openDB(t)
	ledger := progression.NewLedger(db, 2500)
	return NewLogService(db, ledger), ledger, db
}

func meal(name string, cal float64) LogFoodRequest {
	return LogFoodRequest{Name: name, Calories: dto.Num(cal), Protein: dto.Num(10), Carbs: dto.Num(20), Fats: dto.Num(5)}
}

func TestLogFoodAwardsXPAndStartsStreak(t *testing.T) {
	svc, ledger, db := newLogService(t)
	ctx := context.Background()
	user := uuid.New()

	res, err := svc.LogFood(ctx, user, "2024-04-01", meal("Oatmeal", 350))
	require.NoError(t, err)
	assert.Equal(t, "Oatmeal", res.Entry.Name)
	assert.Equal(t, "2024-04-01", res.Entry.Date)
	require.NotNil(t, res.Award)
	assert.Equal(t, xp.LogFood, res.Award.XP)
	require.NotNil(t, res.Streak)
	assert.Equal(t, 1, res.Streak.Streak)
	assert.Nil(t, res.GoalAward)

	var cache DailyLog
	require.NoError(t, db.Where("user_id = ? AND date = ?", user, "2024-04-01").First(&cache).Error)
	assert.Equal(t, int64(350), cache.TotalCalories)

	_, err = svc.LogFood(ctx, user, "2024-04-01", meal("Apple", 95))
	require.NoError(t, err)
	require.NoError(t, db.Where("user_id = ? AND date = ?", user, "2024-04-01").First(&cache).Error)
	assert.Equal(t, int64(445), cache.TotalCalories, "cache tracks the authoritative sum")

	p, err := ledger.Profile(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, 2*xp.LogFood, p.XP)
}

func TestLogFoodNextDayExtendsStreak(t *testing.T) {
	svc, _, _ := newLogService(t)
	ctx := context.Background()
	user := uuid.New()

	_, err := svc.LogFood(ctx, user, "2024-04-01", meal("Eggs", 200))
	require.NoError(t, err)

	res, err := svc.LogFood(ctx, user, "2024-04-02", meal("Eggs", 200))
	require.NoError(t, err)
	assert.Equal(t, 2, res.Streak.Streak)
	require.NotNil(t, res.Streak.Award)
	assert.Equal(t, 2*xp.LogFood+xp.MaintainStreak, res.Streak.Award.XP)
}

func TestLogFoodGoalAwardedOncePerDay(t *testing.T) {
	svc, ledger, _ := newLogService(t)
	ctx := context.Background()
	user := uuid.New()

	res, err := svc.LogFood(ctx, user, "2024-04-01", meal("Lunch", 1500))
	require.NoError(t, err)
	assert.Nil(t, res.GoalAward)

	res, err = svc.LogFood(ctx, user, "2024-04-01", meal("Dinner", 1000))
	require.NoError(t, err)
	require.NotNil(t, res.GoalAward, "2500 reaches the default goal")
	assert.Equal(t, xp.CompleteGoal, res.GoalAward.Amount)
	assert.Equal(t, int64(2500), res.DayCalories)

	res, err = svc.LogFood(ctx, user, "2024-04-01", meal("Snack", 200))
	require.NoError(t, err)
	assert.Nil(t, res.GoalAward)

	p, err := ledger.Profile(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, 3*xp.LogFood+xp.CompleteGoal, p.XP)
}

func TestLogFoodValidationWritesNothing(t *testing.T) {
	svc, _, db := newLogService(t)

	req := LogFoodRequest{
		Name:     " ",
		Calories: dto.Numeric{Set: true},
		Protein:  dto.Num(-1),
		Carbs:    dto.Num(12),
	}
	_, err := svc.LogFood(context.Background(), uuid.New(), "2024-04-01", req)

	var ve *apperr.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, []string{"calories", "name", "protein"}, ve.Fields)

	var entries, profiles int64
	db.Model(&LogEntry{}).Count(&entries)
	db.Model(&progression.Profile{}).Count(&profiles)
	assert.Zero(t, entries)
	assert.Zero(t, profiles)
}

func TestLogFoodRejectsFractionalCalories(t *testing.T) {
	svc, _, _ := newLogService(t)
	_, err := svc.LogFood(context.Background(), uuid.New(), "2024-04-01", meal("Tea", 2.5))
	assert.True(t, apperr.IsValidation(err))
}

func TestLogFoodKeepsEntryWhenAwardFails(t *testing.T) {
	svc, _, db := newLogService(t)
	require.NoError(t, db.Migrator().DropTable(&progression.Profile{}))
	user := uuid.New()

	res, err := svc.LogFood(context.Background(), user, "2024-04-01", meal("Soup", 300))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAwardFailed)
	assert.True(t, apperr.IsStorage(err))
	require.NotNil(t, res)
	assert.Nil(t, res.Award)

	var stored LogEntry
	require.NoError(t, db.First(&stored, "id = ?", res.Entry.ID).Error)
	assert.Equal(t, "Soup", stored.Name)
}

func TestLogWater(t *testing.T) {
	svc, _, _ := newLogService(t)
	ctx := context.Background()
	user := uuid.New()

	for _, bad := range []dto.Numeric{dto.Num(0), dto.Num(-250), dto.Num(2.5), {Set: true}} {
		_, err := svc.LogWater(ctx, user, "2024-04-01", bad)
		assert.True(t, apperr.IsValidation(err))
	}

	_, err := svc.LogWater(ctx, user, "2024-04-01", dto.Num(250))
	require.NoError(t, err)
	res, err := svc.LogWater(ctx, user, "2024-04-01", dto.Num(500))
	require.NoError(t, err)
	assert.Equal(t, int64(500), res.Entry.AmountMl)
	assert.Equal(t, int64(750), res.DayTotal)
}

func TestListEntries(t *testing.T) {
	svc, _, _ := newLogService(t)
	ctx := context.Background()
	user := uuid.New()

	_, err := svc.LogFood(ctx, user, "2024-04-01", meal("Toast", 150))
	require.NoError(t, err)
	_, err = svc.LogFood(ctx, user, "2024-04-02", meal("Rice", 400))
	require.NoError(t, err)

	entries, err := svc.ListEntries(ctx, user, "2024-04-02")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "Rice", entries[0].Name)

	empty, err := svc.ListEntries(ctx, user, "2024-04-03")
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}
