package habits

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/ahmetcoskunkizilkaya/nutriquest/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/nutriquest/internal/apps/progression"
	"github.com/ahmetcoskunkizilkaya/nutriquest/internal/calendar"
	"github.com/ahmetcoskunkizilkaya/nutriquest/internal/metrics"
	"github.com/ahmetcoskunkizilkaya/nutriquest/internal/requestctx"
	"github.com/ahmetcoskunkizilkaya/nutriquest/internal/xp"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrHabitNotFound = fmt.Errorf("habit %w", apperr.ErrNotFound)
	// ErrAwardFailed means the toggle committed but its XP did not.
	ErrAwardFailed = errors.New("habit completed but xp award failed")
)

const (
	maxHabitName = 100
	maxIconRunes = 4
	defaultIcon  = "✅"
)

type Service struct {
	db     *gorm.DB
	ledger *progression.Ledger
	now    func() time.Time
}

func NewService(db *gorm.DB, ledger *progression.Ledger) *Service {
	return &Service{db: db, ledger: ledger, now: time.Now}
}

// ListForDay returns the user's habits with their completion state on day,
// seeding the starter set on first use.
func (s *Service) ListForDay(ctx context.Context, userID uuid.UUID, day string) ([]HabitStatus, error) {
	if !calendar.Valid(day) {
		return nil, apperr.Invalid("expected YYYY-MM-DD", "date")
	}
	db := s.db.WithContext(ctx)

	err := db.Transaction(func(tx *gorm.DB) error {
		return seedDefaults(tx, userID, s.now())
	})
	if err != nil {
		return nil, apperr.Storage("seed habits", err)
	}

	var habits []Habit
	if err := db.Scopes(requestctx.ForUser(userID)).
		Order("position ASC, created_at ASC").
		Find(&habits).Error; err != nil {
		return nil, apperr.Storage("list habits", err)
	}

	out := make([]HabitStatus, len(habits))
	if len(habits) == 0 {
		return out, nil
	}

	ids := make([]uuid.UUID, len(habits))
	for i, h := range habits {
		ids[i] = h.ID
	}
	var done []uuid.UUID
	if err := db.Model(&HabitCompletion{}).
		Where("habit_id IN ?", ids).
		Scopes(requestctx.OnDay(day)).
		Pluck("habit_id", &done).Error; err != nil {
		return nil, apperr.Storage("list completions", err)
	}
	completed := make(map[uuid.UUID]bool, len(done))
	for _, id := range done {
		completed[id] = true
	}

	for i, h := range habits {
		out[i] = HabitStatus{Habit: h, Completed: completed[h.ID]}
	}
	return out, nil
}

func (s *Service) Create(ctx context.Context, userID uuid.UUID, req CreateHabitRequest) (*Habit, error) {
	var fe apperr.FieldErrors
	name := strings.TrimSpace(req.Name)
	if name == "" || utf8.RuneCountInString(name) > maxHabitName {
		fe.Add("name")
	}
	icon := strings.TrimSpace(req.Icon)
	if icon == "" {
		icon = defaultIcon
	}
	if utf8.RuneCountInString(icon) > maxIconRunes {
		fe.Add("icon")
	}
	if err := fe.Err(); err != nil {
		return nil, err
	}

	h := Habit{UserID: userID, Name: name, Icon: icon}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// a user who creates before ever listing should not get starters later
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).
			Create(&HabitSeed{UserID: userID, SeededAt: s.now()}).Error; err != nil {
			return err
		}
		var last struct{ MaxPosition int }
		if err := tx.Model(&Habit{}).Scopes(requestctx.ForUser(userID)).
			Select("COALESCE(MAX(position), -1) AS max_position").
			Scan(&last).Error; err != nil {
			return err
		}
		h.Position = last.MaxPosition + 1
		return tx.Create(&h).Error
	})
	if err != nil {
		return nil, apperr.Storage("create habit", err)
	}
	return &h, nil
}

func (s *Service) Delete(ctx context.Context, userID, habitID uuid.UUID) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Scopes(requestctx.ForUser(userID)).Where("id = ?", habitID).Delete(&Habit{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrHabitNotFound
		}
		return tx.Where("habit_id = ?", habitID).Delete(&HabitCompletion{}).Error
	})
	return apperr.Storage("delete habit", err)
}

// Toggle flips the habit's state for day. The completion row is the source of
// truth: the streak moves only when the insert or delete actually changed a
// row, so racing toggles cannot double count.
func (s *Service) Toggle(ctx context.Context, userID, habitID uuid.UUID, day string) (*ToggleResult, error) {
	if !calendar.Valid(day) {
		return nil, apperr.Invalid("expected YYYY-MM-DD", "date")
	}

	result := &ToggleResult{HabitID: habitID, Date: day}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var h Habit
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Scopes(requestctx.ForUser(userID)).
			First(&h, "id = ?", habitID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrHabitNotFound
			}
			return err
		}

		insert := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "habit_id"}, {Name: "date"}},
			DoNothing: true,
		}).Create(&HabitCompletion{HabitID: habitID, Date: day})
		if insert.Error != nil {
			return insert.Error
		}

		if insert.RowsAffected == 1 {
			result.Completed = true
			if err := tx.Model(&Habit{}).Where("id = ?", habitID).
				Update("streak", gorm.Expr("streak + 1")).Error; err != nil {
				return err
			}
		} else {
			del := tx.Where("habit_id = ? AND date = ?", habitID, day).Delete(&HabitCompletion{})
			if del.Error != nil {
				return del.Error
			}
			if del.RowsAffected == 1 {
				if err := tx.Model(&Habit{}).Where("id = ? AND streak > 0", habitID).
					Update("streak", gorm.Expr("streak - 1")).Error; err != nil {
					return err
				}
			}
		}

		if err := tx.Select("streak").First(&h, "id = ?", habitID).Error; err != nil {
			return err
		}
		result.Streak = h.Streak
		return nil
	})
	if err != nil {
		return nil, apperr.Storage("toggle habit", err)
	}
	metrics.RecordHabitToggle(result.Completed)

	// undo keeps the XP already paid
	if result.Completed {
		award, err := s.ledger.Apply(ctx, userID, xp.ActionHabitCompletion)
		if err != nil {
			return result, fmt.Errorf("%w: %w", ErrAwardFailed, err)
		}
		result.Award = &award
	}
	return result, nil
}
