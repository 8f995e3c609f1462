package nutrition

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/nutriquest/internal/apps/progression"
	"github.com/ahmetcoskunkizilkaya/nutriquest/internal/dto"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// LogEntry is immutable once written.
type LogEntry struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;index:idx_log_entries_user_date" json:"user_id"`
	Name        string    `gorm:"size:200;not null" json:"name"`
	Calories    int64     `gorm:"not null;default:0" json:"calories"`
	Protein     float64   `gorm:"not null;default:0" json:"protein"`
	Carbs       float64   `gorm:"not null;default:0" json:"carbs"`
	Fats        float64   `gorm:"not null;default:0" json:"fats"`
	IsCheatMeal bool      `gorm:"not null;default:false" json:"is_cheat_meal"`
	Date        string    `gorm:"size:10;not null;index:idx_log_entries_user_date" json:"date"`
	CreatedAt   time.Time `json:"created_at"`
}

type WaterLog struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index:idx_water_logs_user_date" json:"user_id"`
	Date      string    `gorm:"size:10;not null;index:idx_water_logs_user_date" json:"date"`
	AmountMl  int64     `gorm:"not null" json:"amount_ml"`
	CreatedAt time.Time `json:"created_at"`
}

// DailyLog caches the day's calorie total. The sum over log_entries is
// authoritative; this row is rewritten from it on every insert.
type DailyLog struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID        uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_daily_logs_user_date" json:"user_id"`
	Date          string    `gorm:"size:10;not null;uniqueIndex:idx_daily_logs_user_date" json:"date"`
	TotalCalories int64     `gorm:"not null;default:0" json:"total_calories"`
	GoalAwarded   bool      `gorm:"not null;default:false" json:"goal_awarded"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (e *LogEntry) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

func (w *WaterLog) BeforeCreate(tx *gorm.DB) error {
	if w.ID == uuid.Nil {
		w.ID = uuid.New()
	}
	return nil
}

func (d *DailyLog) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}

// DayTotals is one aggregated calendar day. Zero entries give all zeros.
type DayTotals struct {
	Date           string  `json:"date"`
	Calories       int64   `json:"calories"`
	Protein        float64 `json:"protein"`
	Carbs          float64 `json:"carbs"`
	Fats           float64 `json:"fats"`
	CheatMealCount int64   `json:"cheat_meal_count"`
	EntryCount     int64   `json:"entry_count"`
}

type WaterDay struct {
	Date     string `json:"date"`
	AmountMl int64  `json:"amount_ml"`
}

// --- DTOs ---

type LogFoodRequest struct {
	Name        string      `json:"name"`
	Calories    dto.Numeric `json:"calories"`
	Protein     dto.Numeric `json:"protein"`
	Carbs       dto.Numeric `json:"carbs"`
	Fats        dto.Numeric `json:"fats"`
	IsCheatMeal bool        `json:"is_cheat_meal"`
}

type LogWaterRequest struct {
	AmountMl dto.Numeric `json:"amount_ml"`
}

// FoodLogResult carries the saved entry plus whatever XP the log earned.
type FoodLogResult struct {
	Entry       LogEntry                  `json:"entry"`
	Award       *progression.Award        `json:"award,omitempty"`
	Streak      *progression.StreakResult `json:"streak,omitempty"`
	GoalAward   *progression.Award        `json:"goal_award,omitempty"`
	DayCalories int64                     `json:"day_calories"`
	Warning     string                    `json:"warning,omitempty"`
}

type WaterLogResult struct {
	Entry    WaterLog `json:"entry"`
	DayTotal int64    `json:"day_total_ml"`
}

type WindowResponse struct {
	Start string      `json:"start"`
	End   string      `json:"end"`
	Days  []DayTotals `json:"days"`
}

type WaterWindowResponse struct {
	Start string     `json:"start"`
	End   string     `json:"end"`
	Days  []WaterDay `json:"days"`
}

type ConsistencyResponse struct {
	End    string   `json:"end"`
	Days   int      `json:"days"`
	Active []string `json:"active"`
}
