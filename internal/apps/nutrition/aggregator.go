package nutrition

import (
	"context"

	"github.com/ahmetcoskunkizilkaya/nutriquest/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/nutriquest/internal/calendar"
	"github.com/ahmetcoskunkizilkaya/nutriquest/internal/requestctx"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	MaxWindowDays          = 366
	DefaultConsistencyDays = 28
)

// CAST keeps integer sums integral on postgres, where SUM(bigint) is numeric.
const totalsSelect = `CAST(COALESCE(SUM(calories), 0) AS BIGINT) AS calories,
	COALESCE(SUM(protein), 0) AS protein,
	COALESCE(SUM(carbs), 0) AS carbs,
	COALESCE(SUM(fats), 0) AS fats,
	CAST(COALESCE(SUM(CASE WHEN is_cheat_meal THEN 1 ELSE 0 END), 0) AS BIGINT) AS cheat_meal_count,
	COUNT(*) AS entry_count`

// Aggregator computes totals on demand from raw rows. Days are bucketed by
// their stored calendar-day string, never by timestamp arithmetic.
type Aggregator struct {
	db *gorm.DB
}

func NewAggregator(db *gorm.DB) *Aggregator {
	return &Aggregator{db: db}
}

func (a *Aggregator) DailyTotals(ctx context.Context, userID uuid.UUID, day string) (DayTotals, error) {
	if !calendar.Valid(day) {
		return DayTotals{}, apperr.Invalid("expected YYYY-MM-DD", "date")
	}

	t := DayTotals{Date: day}
	err := a.db.WithContext(ctx).Model(&LogEntry{}).
		Scopes(requestctx.ForUser(userID), requestctx.OnDay(day)).
		Select(totalsSelect).
		Scan(&t).Error
	if err != nil {
		return DayTotals{}, apperr.Storage("daily totals", err)
	}
	t.Date = day
	return t, nil
}

// WindowTotals returns exactly one bucket per day in [start, end], ascending,
// with empty days zero-filled.
func (a *Aggregator) WindowTotals(ctx context.Context, userID uuid.UUID, start, end string) ([]DayTotals, error) {
	days, err := windowDays(start, end)
	if err != nil {
		return nil, err
	}

	var rows []DayTotals
	err = a.db.WithContext(ctx).Model(&LogEntry{}).
		Scopes(requestctx.ForUser(userID)).
		Where("date BETWEEN ? AND ?", start, end).
		Select("date, " + totalsSelect).
		Group("date").
		Scan(&rows).Error
	if err != nil {
		return nil, apperr.Storage("window totals", err)
	}

	byDay := make(map[string]DayTotals, len(rows))
	for _, r := range rows {
		byDay[r.Date] = r
	}

	out := make([]DayTotals, len(days))
	for i, d := range days {
		t := byDay[d]
		t.Date = d
		out[i] = t
	}
	return out, nil
}

func (a *Aggregator) WaterTotal(ctx context.Context, userID uuid.UUID, day string) (int64, error) {
	if !calendar.Valid(day) {
		return 0, apperr.Invalid("expected YYYY-MM-DD", "date")
	}

	var total int64
	err := a.db.WithContext(ctx).Model(&WaterLog{}).
		Scopes(requestctx.ForUser(userID), requestctx.OnDay(day)).
		Select("CAST(COALESCE(SUM(amount_ml), 0) AS BIGINT)").
		Scan(&total).Error
	if err != nil {
		return 0, apperr.Storage("water total", err)
	}
	return total, nil
}

func (a *Aggregator) WaterWindow(ctx context.Context, userID uuid.UUID, start, end string) ([]WaterDay, error) {
	days, err := windowDays(start, end)
	if err != nil {
		return nil, err
	}

	var rows []WaterDay
	err = a.db.WithContext(ctx).Model(&WaterLog{}).
		Scopes(requestctx.ForUser(userID)).
		Where("date BETWEEN ? AND ?", start, end).
		Select("date, CAST(COALESCE(SUM(amount_ml), 0) AS BIGINT) AS amount_ml").
		Group("date").
		Scan(&rows).Error
	if err != nil {
		return nil, apperr.Storage("water window", err)
	}

	byDay := make(map[string]int64, len(rows))
	for _, r := range rows {
		byDay[r.Date] = r.AmountMl
	}

	out := make([]WaterDay, len(days))
	for i, d := range days {
		out[i] = WaterDay{Date: d, AmountMl: byDay[d]}
	}
	return out, nil
}

// ConsistencyWindow lists, ascending, the days in the trailing n-day window
// ending at today that have at least one food entry.
func (a *Aggregator) ConsistencyWindow(ctx context.Context, userID uuid.UUID, today string, n int) ([]string, error) {
	if n <= 0 {
		n = DefaultConsistencyDays
	}
	if n > MaxWindowDays {
		return nil, apperr.Invalid("window too large", "days")
	}
	start, err := calendar.AddDays(today, -(n - 1))
	if err != nil {
		return nil, apperr.Invalid("expected YYYY-MM-DD", "date")
	}

	var active []string
	err = a.db.WithContext(ctx).Model(&LogEntry{}).
		Scopes(requestctx.ForUser(userID)).
		Where("date BETWEEN ? AND ?", start, today).
		Distinct().
		Order("date ASC").
		Pluck("date", &active).Error
	if err != nil {
		return nil, apperr.Storage("consistency window", err)
	}
	if active == nil {
		active = []string{}
	}
	return active, nil
}

func windowDays(start, end string) ([]string, error) {
	var fe apperr.FieldErrors
	if !calendar.Valid(start) {
		fe.Add("start")
	}
	if !calendar.Valid(end) {
		fe.Add("end")
	}
	if err := fe.Err(); err != nil {
		return nil, err
	}
	if end < start {
		return nil, apperr.Invalid("end is before start", "end")
	}

	n, _ := calendar.Span(start, end)
	if n > MaxWindowDays {
		return nil, apperr.Invalid("window exceeds 366 days", "end")
	}
	return calendar.Range(start, end)
}
