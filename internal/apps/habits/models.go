package habits

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/nutriquest/internal/apps/progression"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Habit struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	Name      string    `gorm:"size:100;not null" json:"name"`
	Icon      string    `gorm:"size:16" json:"icon"`
	Position  int       `gorm:"not null;default:0" json:"position"`
	Streak    int       `gorm:"not null;default:0" json:"streak"`
	CreatedAt time.Time `json:"created_at"`
}

// HabitCompletion marks a habit done on a day. At most one row per
// (habit_id, date); its presence is the completed state.
type HabitCompletion struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	HabitID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_habit_completions_habit_date" json:"habit_id"`
	Date      string    `gorm:"size:10;not null;uniqueIndex:idx_habit_completions_habit_date" json:"date"`
	CreatedAt time.Time `json:"created_at"`
}

// HabitSeed records that a user's starter habits were handed out.
type HabitSeed struct {
	UserID   uuid.UUID `gorm:"type:uuid;primaryKey" json:"user_id"`
	SeededAt time.Time `gorm:"not null" json:"seeded_at"`
}

func (h *Habit) BeforeCreate(tx *gorm.DB) error {
	if h.ID == uuid.Nil {
		h.ID = uuid.New()
	}
	return nil
}

func (c *HabitCompletion) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

type HabitStatus struct {
	Habit
	Completed bool `json:"completed"`
}

type ToggleResult struct {
	HabitID   uuid.UUID          `json:"habit_id"`
	Date      string             `json:"date"`
	Completed bool               `json:"completed"`
	Streak    int                `json:"streak"`
	Award     *progression.Award `json:"award,omitempty"`
	Warning   string             `json:"warning,omitempty"`
}

// --- DTOs ---

type CreateHabitRequest struct {
	Name string `json:"name"`
	Icon string `json:"icon"`
}
