package progression

import (
	"context"
	"errors"
	"fmt"

	"github.com/ahmetcoskunkizilkaya/nutriquest/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/nutriquest/internal/calendar"
	"github.com/ahmetcoskunkizilkaya/nutriquest/internal/metrics"
	"github.com/ahmetcoskunkizilkaya/nutriquest/internal/xp"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrProfileNotFound = fmt.Errorf("profile %w", apperr.ErrNotFound)

// Ledger owns every XP mutation. Increments happen in the database
// (xp = xp + n) so concurrent awards to one profile never lose an update.
type Ledger struct {
	db          *gorm.DB
	defaultGoal int
}

func NewLedger(db *gorm.DB, defaultGoal int) *Ledger {
	if defaultGoal <= 0 {
		defaultGoal = 2500
	}
	return &Ledger{db: db, defaultGoal: defaultGoal}
}

// EnsureProfile creates the profile row if it does not exist yet. It is safe
// to call concurrently and repeatedly.
func (l *Ledger) EnsureProfile(ctx context.Context, userID uuid.UUID) (*Profile, error) {
	db := l.db.WithContext(ctx)
	if err := l.ensure(db, userID); err != nil {
		return nil, apperr.Storage("ensure profile", err)
	}
	return l.load(db, userID)
}

func (l *Ledger) ensure(tx *gorm.DB, userID uuid.UUID) error {
	if userID == uuid.Nil {
		return apperr.Invalid("user id is required", "user_id")
	}
	p := Profile{
		ID:               userID,
		Level:            1,
		DailyCalorieGoal: l.defaultGoal,
	}
	return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&p).Error
}

func (l *Ledger) load(tx *gorm.DB, userID uuid.UUID) (*Profile, error) {
	var p Profile
	if err := tx.First(&p, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, apperr.Storage("load profile", err)
	}
	return &p, nil
}

// Profile returns a snapshot, provisioning the row first.
func (l *Ledger) Profile(ctx context.Context, userID uuid.UUID) (*Profile, error) {
	return l.EnsureProfile(ctx, userID)
}

// AwardXP applies an arbitrary positive amount.
func (l *Ledger) AwardXP(ctx context.Context, userID uuid.UUID, amount int64) (Award, error) {
	return l.award(ctx, userID, amount, "")
}

// Apply awards the reward-table value for action.
func (l *Ledger) Apply(ctx context.Context, userID uuid.UUID, action xp.Action) (Award, error) {
	amount, ok := xp.RewardFor(action)
	if !ok {
		return Award{}, apperr.Invalid("unknown action "+string(action), "action")
	}
	return l.award(ctx, userID, amount, action)
}

func (l *Ledger) award(ctx context.Context, userID uuid.UUID, amount int64, action xp.Action) (Award, error) {
	if amount <= 0 {
		return Award{}, apperr.Invalid("amount must be a positive integer", "amount")
	}

	var newXP int64
	err := l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := l.ensure(tx, userID); err != nil {
			return err
		}

		res := tx.Model(&Profile{}).Where("id = ?", userID).
			Update("xp", gorm.Expr("xp + ?", amount))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrProfileNotFound
		}

		var p Profile
		if err := tx.Select("xp").First(&p, "id = ?", userID).Error; err != nil {
			return err
		}
		newXP = p.XP

		return tx.Model(&Profile{}).Where("id = ?", userID).
			Updates(map[string]interface{}{"level": xp.CalculateLevel(newXP)}).Error
	})
	if err != nil {
		return Award{}, apperr.Storage("award xp", err)
	}

	// exact: the increment above is the only writer of this delta
	prev := xp.CalculateLevel(newXP - amount)
	a := Award{
		Amount:        amount,
		XP:            newXP,
		Level:         xp.CalculateLevel(newXP),
		PreviousLevel: prev,
	}
	a.LeveledUp = a.Level > prev

	metrics.RecordXP(string(action), amount, a.LeveledUp)
	return a, nil
}

// RecordLoggingDay advances the profile's logging streak for day. The first
// log on the day after the previous one extends the streak and earns the
// streak reward; a gap resets it to 1; a repeat log on the same day does nothing.
func (l *Ledger) RecordLoggingDay(ctx context.Context, userID uuid.UUID, day string) (StreakResult, error) {
	yesterday, err := calendar.AddDays(day, -1)
	if err != nil {
		return StreakResult{}, apperr.Invalid(err.Error(), "date")
	}

	var extended bool
	var streak int
	err = l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := l.ensure(tx, userID); err != nil {
			return err
		}

		res := tx.Model(&Profile{}).
			Where("id = ? AND last_log_date = ?", userID, yesterday).
			Updates(map[string]interface{}{
				"streak":        gorm.Expr("streak + 1"),
				"last_log_date": day,
			})
		if res.Error != nil {
			return res.Error
		}
		extended = res.RowsAffected == 1

		if !extended {
			// '' sorts before every date, so a first-ever log lands here too
			res = tx.Model(&Profile{}).
				Where("id = ? AND last_log_date < ?", userID, yesterday).
				Updates(map[string]interface{}{
					"streak":        1,
					"last_log_date": day,
				})
			if res.Error != nil {
				return res.Error
			}
		}

		var p Profile
		if err := tx.Select("streak").First(&p, "id = ?", userID).Error; err != nil {
			return err
		}
		streak = p.Streak
		return nil
	})
	if err != nil {
		return StreakResult{}, apperr.Storage("record logging day", err)
	}

	result := StreakResult{Streak: streak, Extended: extended}
	if extended {
		award, err := l.Apply(ctx, userID, xp.ActionMaintainStreak)
		if err != nil {
			return result, err
		}
		result.Award = &award
	}
	return result, nil
}
