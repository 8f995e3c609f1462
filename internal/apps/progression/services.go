package progression

import (
	"context"
	"strings"

	"github.com/ahmetcoskunkizilkaya/nutriquest/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/nutriquest/internal/dto"
	"github.com/ahmetcoskunkizilkaya/nutriquest/internal/xp"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	maxAge    = 150
	maxWeight = 700.0
	maxHeight = 300.0
	maxGoal   = 20000
)

// ProfileService handles onboarding and profile edits. XP, level and streak
// are owned by the Ledger and never written here.
type ProfileService struct {
	db     *gorm.DB
	ledger *Ledger
}

func NewProfileService(db *gorm.DB, ledger *Ledger) *ProfileService {
	return &ProfileService{db: db, ledger: ledger}
}

type profileFields struct {
	name       string
	age        int
	sex        string
	weight     float64
	height     float64
	goalType   string
	goalWeight *float64
	goal       int
}

func validateCreate(req CreateProfileRequest) (profileFields, error) {
	var fe apperr.FieldErrors
	var f profileFields

	f.name = strings.TrimSpace(req.Name)
	if f.name == "" {
		fe.Add("name")
	}
	if age, ok := checkInt(req.Age, 1, maxAge); ok {
		f.age = age
	} else {
		fe.Add("age")
	}
	if sex, ok := checkSex(req.Sex); ok {
		f.sex = sex
	} else {
		fe.Add("sex")
	}
	if w, ok := checkFloat(req.Weight, maxWeight); ok {
		f.weight = w
	} else {
		fe.Add("weight")
	}
	if h, ok := checkFloat(req.Height, maxHeight); ok {
		f.height = h
	} else {
		fe.Add("height")
	}
	if g, ok := checkGoalType(req.GoalType); ok {
		f.goalType = g
	} else {
		fe.Add("goal_type")
	}
	if goal, ok := checkInt(req.DailyCalorieGoal, 1, maxGoal); ok {
		f.goal = goal
	} else {
		fe.Add("daily_calorie_goal")
	}
	if req.GoalWeight.Set {
		if gw, ok := checkFloat(req.GoalWeight, maxWeight); ok {
			f.goalWeight = &gw
		} else {
			fe.Add("goal_weight")
		}
	}

	return f, fe.Err()
}

// CreateProfile fills in the onboarding fields. The row may already exist
// from auto-provisioning; its XP, level and streak are preserved.
func (s *ProfileService) CreateProfile(ctx context.Context, userID uuid.UUID, req CreateProfileRequest, day string) (*Profile, error) {
	f, err := validateCreate(req)
	if err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.ledger.ensure(tx, userID); err != nil {
			return err
		}
		current, err := s.ledger.load(tx, userID)
		if err != nil {
			return err
		}

		if err := tx.Model(&Profile{}).Where("id = ?", userID).Updates(map[string]interface{}{
			"name":               f.name,
			"age":                f.age,
			"sex":                f.sex,
			"weight":             f.weight,
			"height":             f.height,
			"goal_type":          f.goalType,
			"goal_weight":        f.goalWeight,
			"daily_calorie_goal": f.goal,
			"onboarded":          true,
		}).Error; err != nil {
			return err
		}

		if !current.Onboarded || current.Weight != f.weight {
			return tx.Create(&WeightHistory{UserID: userID, Weight: f.weight, Date: day}).Error
		}
		return nil
	})
	if err != nil {
		return nil, apperr.Storage("create profile", err)
	}
	return s.ledger.load(s.db.WithContext(ctx), userID)
}

// UpdateProfile applies a partial update. A weight change appends history.
func (s *ProfileService) UpdateProfile(ctx context.Context, userID uuid.UUID, req UpdateProfileRequest, day string) (*Profile, error) {
	var fe apperr.FieldErrors
	updates := map[string]interface{}{}

	if req.Name != nil {
		if name := strings.TrimSpace(*req.Name); name != "" {
			updates["name"] = name
		} else {
			fe.Add("name")
		}
	}
	if req.Age.Set {
		if age, ok := checkInt(req.Age, 1, maxAge); ok {
			updates["age"] = age
		} else {
			fe.Add("age")
		}
	}
	if req.Sex != nil {
		if sex, ok := checkSex(*req.Sex); ok {
			updates["sex"] = sex
		} else {
			fe.Add("sex")
		}
	}
	var newWeight *float64
	if req.Weight.Set {
		if w, ok := checkFloat(req.Weight, maxWeight); ok {
			updates["weight"] = w
			newWeight = &w
		} else {
			fe.Add("weight")
		}
	}
	if req.Height.Set {
		if h, ok := checkFloat(req.Height, maxHeight); ok {
			updates["height"] = h
		} else {
			fe.Add("height")
		}
	}
	if req.GoalType != nil {
		if g, ok := checkGoalType(*req.GoalType); ok {
			updates["goal_type"] = g
		} else {
			fe.Add("goal_type")
		}
	}
	if req.GoalWeight.Set {
		if gw, ok := checkFloat(req.GoalWeight, maxWeight); ok {
			updates["goal_weight"] = gw
		} else {
			fe.Add("goal_weight")
		}
	}
	if req.DailyCalorieGoal.Set {
		if goal, ok := checkInt(req.DailyCalorieGoal, 1, maxGoal); ok {
			updates["daily_calorie_goal"] = goal
		} else {
			fe.Add("daily_calorie_goal")
		}
	}
	if err := fe.Err(); err != nil {
		return nil, err
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.ledger.ensure(tx, userID); err != nil {
			return err
		}
		if len(updates) == 0 {
			return nil
		}
		current, err := s.ledger.load(tx, userID)
		if err != nil {
			return err
		}
		if err := tx.Model(&Profile{}).Where("id = ?", userID).Updates(updates).Error; err != nil {
			return err
		}
		if newWeight != nil && *newWeight != current.Weight {
			return tx.Create(&WeightHistory{UserID: userID, Weight: *newWeight, Date: day}).Error
		}
		return nil
	})
	if err != nil {
		return nil, apperr.Storage("update profile", err)
	}
	return s.ledger.load(s.db.WithContext(ctx), userID)
}

// WeightHistory returns up to limit most recent entries, oldest first.
func (s *ProfileService) WeightHistory(ctx context.Context, userID uuid.UUID, limit int) ([]WeightHistory, error) {
	if limit <= 0 || limit > 365 {
		limit = 90
	}
	var rows []WeightHistory
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("date DESC, created_at DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, apperr.Storage("weight history", err)
	}
	for i, j := 0, len(rows)-1; i < j; i, j = i+1, j-1 {
		rows[i], rows[j] = rows[j], rows[i]
	}
	return rows, nil
}

// Snapshot wraps the profile with level-progress figures for display.
func Snapshot(p *Profile) ProfileResponse {
	return ProfileResponse{
		Profile:       *p,
		XPToNextLevel: xp.XPToNextLevel(p.XP),
		NextLevelXP:   xp.CalculateNextLevelXP(p.Level),
		LevelProgress: xp.LevelProgress(p.XP),
	}
}

func checkInt(n dto.Numeric, min, max int64) (int, bool) {
	v, ok := n.Int()
	if !ok || v < min || v > max {
		return 0, false
	}
	return int(v), true
}

func checkFloat(n dto.Numeric, max float64) (float64, bool) {
	if !n.Valid || n.Value <= 0 || n.Value > max {
		return 0, false
	}
	return n.Value, true
}

func checkSex(s string) (string, bool) {
	switch v := strings.ToLower(strings.TrimSpace(s)); v {
	case SexMale, SexFemale, SexOther:
		return v, true
	}
	return "", false
}

func checkGoalType(s string) (string, bool) {
	switch v := strings.ToLower(strings.TrimSpace(s)); v {
	case GoalLoss, GoalMaintain, GoalGain:
		return v, true
	}
	return "", false
}
