package habits

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type starter struct {
	Name string
	Icon string
}

// DefaultHabits are handed to every new user exactly once.
var DefaultHabits = []starter{
	{Name: "Drink 8 glasses of water", Icon: "💧"},
	{Name: "Eat a serving of vegetables", Icon: "🥦"},
	{Name: "No late-night snacks", Icon: "🌙"},
}

// seedDefaults gives userID the starter habits unless they were seeded before
// or the user already has habits. The seed marker insert decides the winner
// when first requests race.
func seedDefaults(tx *gorm.DB, userID uuid.UUID, now time.Time) error {
	marker := tx.Clauses(clause.OnConflict{DoNothing: true}).
		Create(&HabitSeed{UserID: userID, SeededAt: now})
	if marker.Error != nil {
		return marker.Error
	}
	if marker.RowsAffected != 1 {
		return nil
	}

	var count int64
	if err := tx.Model(&Habit{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	rows := make([]Habit, len(DefaultHabits))
	for i, d := range DefaultHabits {
		rows[i] = Habit{UserID: userID, Name: d.Name, Icon: d.Icon, Position: i}
	}
	return tx.Create(&rows).Error
}
