package nutrition

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ahmetcoskunkizilkaya/nutriquest/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/nutriquest/internal/apps/progression"
	"github.com/ahmetcoskunkizilkaya/nutriquest/internal/calendar"
	"github.com/ahmetcoskunkizilkaya/nutriquest/internal/dto"
	"github.com/ahmetcoskunkizilkaya/nutriquest/internal/requestctx"
	"github.com/ahmetcoskunkizilkaya/nutriquest/internal/xp"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrAwardFailed means the entry was saved but a follow-up XP step was not.
// The entry stands; callers report partial success.
var ErrAwardFailed = errors.New("entry saved but xp award failed")

const (
	maxNameLen     = 200
	maxCalories    = 20000
	maxMacroGrams  = 5000.0
	maxWaterPerLog = 5000
)

type LogService struct {
	db     *gorm.DB
	ledger *progression.Ledger
}

func NewLogService(db *gorm.DB, ledger *progression.Ledger) *LogService {
	return &LogService{db: db, ledger: ledger}
}

func validateFood(req LogFoodRequest) (LogEntry, error) {
	var fe apperr.FieldErrors
	var e LogEntry

	e.Name = strings.TrimSpace(req.Name)
	if e.Name == "" || len(e.Name) > maxNameLen {
		fe.Add("name")
	}
	if cal, ok := req.Calories.Int(); ok && cal >= 0 && cal <= maxCalories {
		e.Calories = cal
	} else {
		fe.Add("calories")
	}

	macro := func(field string, n dto.Numeric, dst *float64) {
		if !n.Set {
			return
		}
		if !n.Valid || n.Value < 0 || n.Value > maxMacroGrams {
			fe.Add(field)
			return
		}
		*dst = n.Value
	}
	macro("protein", req.Protein, &e.Protein)
	macro("carbs", req.Carbs, &e.Carbs)
	macro("fats", req.Fats, &e.Fats)

	e.IsCheatMeal = req.IsCheatMeal
	return e, fe.Err()
}

// LogFood saves the entry and refreshes the day's cache in one transaction,
// then awards XP: the log reward, the logging-streak reward, and the daily
// goal reward the first time the day's calories reach the goal.
func (s *LogService) LogFood(ctx context.Context, userID uuid.UUID, day string, req LogFoodRequest) (*FoodLogResult, error) {
	entry, err := validateFood(req)
	if err != nil {
		return nil, err
	}
	if !calendar.Valid(day) {
		return nil, apperr.Invalid("expected YYYY-MM-DD", "date")
	}
	entry.UserID = userID
	entry.Date = day

	var dayCalories int64
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&entry).Error; err != nil {
			return err
		}
		total, err := refreshDailyLog(tx, userID, day)
		dayCalories = total
		return err
	})
	if err != nil {
		return nil, apperr.Storage("log food", err)
	}

	result := &FoodLogResult{Entry: entry, DayCalories: dayCalories}

	award, err := s.ledger.Apply(ctx, userID, xp.ActionLogFood)
	if err != nil {
		return result, fmt.Errorf("%w: %w", ErrAwardFailed, err)
	}
	result.Award = &award

	streak, err := s.ledger.RecordLoggingDay(ctx, userID, day)
	if err != nil {
		return result, fmt.Errorf("%w: %w", ErrAwardFailed, err)
	}
	result.Streak = &streak

	goalAward, err := s.awardGoal(ctx, userID, day, dayCalories)
	if err != nil {
		return result, fmt.Errorf("%w: %w", ErrAwardFailed, err)
	}
	result.GoalAward = goalAward

	return result, nil
}

// refreshDailyLog rewrites the cached total from the authoritative sum.
func refreshDailyLog(tx *gorm.DB, userID uuid.UUID, day string) (int64, error) {
	var total int64
	err := tx.Model(&LogEntry{}).
		Scopes(requestctx.ForUser(userID), requestctx.OnDay(day)).
		Select("CAST(COALESCE(SUM(calories), 0) AS BIGINT)").
		Scan(&total).Error
	if err != nil {
		return 0, err
	}

	row := DailyLog{UserID: userID, Date: day, TotalCalories: total}
	err = tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "date"}},
		DoUpdates: clause.AssignmentColumns([]string{"total_calories", "updated_at"}),
	}).Create(&row).Error
	return total, err
}

// awardGoal pays CompleteGoal at most once per user and day. The flag flip is
// conditional, so concurrent logs cannot both win it.
func (s *LogService) awardGoal(ctx context.Context, userID uuid.UUID, day string, dayCalories int64) (*progression.Award, error) {
	profile, err := s.ledger.Profile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if profile.DailyCalorieGoal <= 0 || dayCalories < int64(profile.DailyCalorieGoal) {
		return nil, nil
	}

	res := s.db.WithContext(ctx).Model(&DailyLog{}).
		Scopes(requestctx.ForUser(userID), requestctx.OnDay(day)).
		Where("goal_awarded = ?", false).
		Update("goal_awarded", true)
	if res.Error != nil {
		return nil, apperr.Storage("flag goal", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, nil
	}

	award, err := s.ledger.Apply(ctx, userID, xp.ActionCompleteGoal)
	if err != nil {
		// give the next log a chance to pay it
		if rerr := s.db.WithContext(ctx).Model(&DailyLog{}).
			Scopes(requestctx.ForUser(userID), requestctx.OnDay(day)).
			Update("goal_awarded", false).Error; rerr != nil {
			slog.Error("failed to reset goal flag", "user_id", userID.String(), "date", day, "error", rerr.Error())
		}
		return nil, err
	}
	return &award, nil
}

func (s *LogService) LogWater(ctx context.Context, userID uuid.UUID, day string, amount dto.Numeric) (*WaterLogResult, error) {
	ml, ok := amount.Int()
	if !ok || ml <= 0 || ml > maxWaterPerLog {
		return nil, apperr.Invalid("amount must be a positive integer of millilitres", "amount_ml")
	}
	if !calendar.Valid(day) {
		return nil, apperr.Invalid("expected YYYY-MM-DD", "date")
	}

	entry := WaterLog{UserID: userID, Date: day, AmountMl: ml}
	db := s.db.WithContext(ctx)
	if err := db.Create(&entry).Error; err != nil {
		return nil, apperr.Storage("log water", err)
	}

	var total int64
	err := db.Model(&WaterLog{}).
		Scopes(requestctx.ForUser(userID), requestctx.OnDay(day)).
		Select("CAST(COALESCE(SUM(amount_ml), 0) AS BIGINT)").
		Scan(&total).Error
	if err != nil {
		return nil, apperr.Storage("water total", err)
	}
	return &WaterLogResult{Entry: entry, DayTotal: total}, nil
}

func (s *LogService) ListEntries(ctx context.Context, userID uuid.UUID, day string) ([]LogEntry, error) {
	if !calendar.Valid(day) {
		return nil, apperr.Invalid("expected YYYY-MM-DD", "date")
	}
	entries := []LogEntry{}
	err := s.db.WithContext(ctx).
		Scopes(requestctx.ForUser(userID), requestctx.OnDay(day)).
		Order("created_at ASC").
		Find(&entries).Error
	if err != nil {
		return nil, apperr.Storage("list entries", err)
	}
	return entries, nil
}
