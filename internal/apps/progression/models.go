package progression

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/nutriquest/internal/dto"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Profile is keyed by the identity provider's subject. Level is always
// recomputed from XP; nothing sets it independently.
type Profile struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name             string    `gorm:"size:120" json:"name"`
	Age              int       `json:"age"`
	Sex              string    `gorm:"size:10" json:"sex"`
	Weight           float64   `json:"weight"`
	Height           float64   `json:"height"`
	GoalType         string    `gorm:"size:10" json:"goal_type"`
	GoalWeight       *float64  `json:"goal_weight"`
	DailyCalorieGoal int       `gorm:"not null" json:"daily_calorie_goal"`
	XP               int64     `gorm:"not null;default:0" json:"xp"`
	Level            int       `gorm:"not null;default:1" json:"level"`
	Streak           int       `gorm:"not null;default:0" json:"streak"`
	LastLogDate      string    `gorm:"size:10;not null;default:''" json:"last_log_date"`
	Onboarded        bool      `gorm:"not null;default:false" json:"onboarded"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

type WeightHistory struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index:idx_weight_user_date" json:"user_id"`
	Weight    float64   `gorm:"not null" json:"weight"`
	Date      string    `gorm:"size:10;not null;index:idx_weight_user_date" json:"date"`
	CreatedAt time.Time `json:"created_at"`
}

func (w *WeightHistory) BeforeCreate(tx *gorm.DB) error {
	if w.ID == uuid.Nil {
		w.ID = uuid.New()
	}
	return nil
}

const (
	SexMale   = "male"
	SexFemale = "female"
	SexOther  = "other"

	GoalLoss     = "loss"
	GoalMaintain = "maintain"
	GoalGain     = "gain"
)

// --- DTOs ---

type CreateProfileRequest struct {
	Name             string      `json:"name"`
	Age              dto.Numeric `json:"age"`
	Sex              string      `json:"sex"`
	Weight           dto.Numeric `json:"weight"`
	Height           dto.Numeric `json:"height"`
	GoalType         string      `json:"goal_type"`
	GoalWeight       dto.Numeric `json:"goal_weight"`
	DailyCalorieGoal dto.Numeric `json:"daily_calorie_goal"`
}

// UpdateProfileRequest is a partial update; absent fields are left alone.
type UpdateProfileRequest struct {
	Name             *string     `json:"name"`
	Age              dto.Numeric `json:"age"`
	Sex              *string     `json:"sex"`
	Weight           dto.Numeric `json:"weight"`
	Height           dto.Numeric `json:"height"`
	GoalType         *string     `json:"goal_type"`
	GoalWeight       dto.Numeric `json:"goal_weight"`
	DailyCalorieGoal dto.Numeric `json:"daily_calorie_goal"`
}

type AwardRequest struct {
	Amount dto.Numeric `json:"amount"`
}

// Award reports the outcome of one XP application.
type Award struct {
	Amount        int64 `json:"amount"`
	XP            int64 `json:"xp"`
	Level         int   `json:"level"`
	PreviousLevel int   `json:"previous_level"`
	LeveledUp     bool  `json:"leveled_up"`
}

// StreakResult is the outcome of recording a logging day.
type StreakResult struct {
	Streak   int    `json:"streak"`
	Extended bool   `json:"extended"`
	Award    *Award `json:"award,omitempty"`
}

type ProfileResponse struct {
	Profile
	XPToNextLevel int64   `json:"xp_to_next_level"`
	NextLevelXP   int64   `json:"next_level_xp"`
	LevelProgress float64 `json:"level_progress"`
}
