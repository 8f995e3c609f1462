// Package dashboard turns aggregator, ledger and habit outputs into the
// read-only numbers the home screen draws.
package dashboard

import (
	"context"
	"math"

	"github.com/ahmetcoskunkizilkaya/nutriquest/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/nutriquest/internal/apps/habits"
	"github.com/ahmetcoskunkizilkaya/nutriquest/internal/apps/nutrition"
	"github.com/ahmetcoskunkizilkaya/nutriquest/internal/apps/progression"
	"github.com/ahmetcoskunkizilkaya/nutriquest/internal/calendar"
	"github.com/google/uuid"
)

const (
	HeatmapDays = 30
	WeekDays    = 7

	highCalories   = 2500
	mediumCalories = 1500
)

type Tier string

const (
	TierNone   Tier = "none"
	TierLow    Tier = "low"
	TierMedium Tier = "medium"
	TierHigh   Tier = "high"
)

// RingPercent is min(100, current/goal*100). A non-positive goal yields 0.
func RingPercent(current int64, goal int) float64 {
	if goal <= 0 || current <= 0 {
		return 0
	}
	return math.Min(100, float64(current)/float64(goal)*100)
}

type MacroBars struct {
	Protein float64 `json:"protein"`
	Carbs   float64 `json:"carbs"`
	Fats    float64 `json:"fats"`
}

// Bars gives each macro's share of total grams as a percentage.
func Bars(protein, carbs, fats float64) MacroBars {
	total := protein + carbs + fats
	if total <= 0 {
		return MacroBars{}
	}
	return MacroBars{
		Protein: protein / total * 100,
		Carbs:   carbs / total * 100,
		Fats:    fats / total * 100,
	}
}

// HeatmapTier buckets a day by calories; days without entries are TierNone.
func HeatmapTier(t nutrition.DayTotals) Tier {
	switch {
	case t.EntryCount == 0:
		return TierNone
	case t.Calories > highCalories:
		return TierHigh
	case t.Calories > mediumCalories:
		return TierMedium
	}
	return TierLow
}

type HeatCell struct {
	Date     string `json:"date"`
	Calories int64  `json:"calories"`
	Tier     Tier   `json:"tier"`
}

type View struct {
	Date        string                      `json:"date"`
	Profile     progression.ProfileResponse `json:"profile"`
	Today       nutrition.DayTotals         `json:"today"`
	Ring        float64                     `json:"ring_percent"`
	Macros      MacroBars                   `json:"macros"`
	WaterMl     int64                       `json:"water_ml"`
	Week        []nutrition.DayTotals       `json:"week"`
	Heatmap     []HeatCell                  `json:"heatmap"`
	Consistency []string                    `json:"consistency"`
	Habits      []habits.HabitStatus        `json:"habits"`
	HabitsDone  int                         `json:"habits_done"`
}

type Presenter struct {
	ledger     *progression.Ledger
	aggregator *nutrition.Aggregator
	habits     *habits.Service
}

func NewPresenter(ledger *progression.Ledger, aggregator *nutrition.Aggregator, habitService *habits.Service) *Presenter {
	return &Presenter{ledger: ledger, aggregator: aggregator, habits: habitService}
}

// Build assembles the dashboard for today. Every read uses the same day.
func (p *Presenter) Build(ctx context.Context, userID uuid.UUID, today string) (*View, error) {
	if !calendar.Valid(today) {
		return nil, apperr.Invalid("expected YYYY-MM-DD", "date")
	}

	profile, err := p.ledger.Profile(ctx, userID)
	if err != nil {
		return nil, err
	}

	heatStart, _ := calendar.AddDays(today, -(HeatmapDays - 1))
	month, err := p.aggregator.WindowTotals(ctx, userID, heatStart, today)
	if err != nil {
		return nil, err
	}
	todayTotals := month[len(month)-1]

	water, err := p.aggregator.WaterTotal(ctx, userID, today)
	if err != nil {
		return nil, err
	}

	consistency, err := p.aggregator.ConsistencyWindow(ctx, userID, today, nutrition.DefaultConsistencyDays)
	if err != nil {
		return nil, err
	}

	habitList, err := p.habits.ListForDay(ctx, userID, today)
	if err != nil {
		return nil, err
	}
	done := 0
	for _, h := range habitList {
		if h.Completed {
			done++
		}
	}

	heatmap := make([]HeatCell, len(month))
	for i, d := range month {
		heatmap[i] = HeatCell{Date: d.Date, Calories: d.Calories, Tier: HeatmapTier(d)}
	}

	return &View{
		Date:        today,
		Profile:     progression.Snapshot(profile),
		Today:       todayTotals,
		Ring:        RingPercent(todayTotals.Calories, profile.DailyCalorieGoal),
		Macros:      Bars(todayTotals.Protein, todayTotals.Carbs, todayTotals.Fats),
		WaterMl:     water,
		Week:        month[len(month)-WeekDays:],
		Heatmap:     heatmap,
		Consistency: consistency,
		Habits:      habitList,
		HabitsDone:  done,
	}, nil
}
