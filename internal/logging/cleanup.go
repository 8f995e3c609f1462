package logging

import (
	"log/slog"
	"time"

	"github.com/ahmetcoskunkizilkaya/nutriquest/internal/metrics"
	"github.com/ahmetcoskunkizilkaya/nutriquest/internal/models"
	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

// PurgeOlderThan deletes system_logs rows older than the retention window.
func PurgeOlderThan(db *gorm.DB, retention time.Duration, now time.Time) (int64, error) {
	cutoff := now.Add(-retention)
	result := db.Where("timestamp < ?", cutoff).Delete(&models.SystemLog{})
	return result.RowsAffected, result.Error
}

// StartCleanup schedules the retention purge. The returned cron must be stopped
// on shutdown.
func StartCleanup(db *gorm.DB, spec string, retentionDays int) (*cron.Cron, error) {
	if retentionDays <= 0 {
		retentionDays = 30
	}
	retention := time.Duration(retentionDays) * 24 * time.Hour

	c := cron.New()
	_, err := c.AddFunc(spec, func() {
		deleted, err := PurgeOlderThan(db, retention, time.Now())
		metrics.RecordLogCleanup(err == nil)
		if err != nil {
			slog.Error("log cleanup failed", "error", err)
			return
		}
		if deleted > 0 {
			slog.Info("log cleanup completed", "deleted", deleted)
		}
	})
	if err != nil {
		return nil, err
	}
	c.Start()
	return c, nil
}
