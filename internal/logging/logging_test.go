package logging

import (
	"bytes"
	"log/slog"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/nutriquest/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.SystemLog{}))
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	return db
}

func TestDBHandlerPersistsErrorsOnly(t *testing.T) {
	db := newTestDB(t)
	h := NewDBHandler(db, time.Hour)

	var out bytes.Buffer
	log := slog.New(NewMultiHandler(NewJSONHandler(&out), h)).With("request_id", "req-1")

	log.Info("fine")
	log.Error("award failed", "user_id", "u-1", "action", "log_food", "error", "boom", "habit", "water")
	h.Stop()

	var rows []models.SystemLog
	require.NoError(t, db.Find(&rows).Error)
	require.Len(t, rows, 1)

	row := rows[0]
	assert.Equal(t, "award failed", row.Message)
	assert.Equal(t, "ERROR", row.Level)
	assert.Equal(t, "req-1", row.RequestID)
	require.NotNil(t, row.UserID)
	assert.Equal(t, "u-1", *row.UserID)
	assert.Equal(t, "log_food", row.Action)
	assert.Equal(t, "boom", row.Error)
	assert.JSONEq(t, `{"habit":"water"}`, string(row.Extra))

	assert.Contains(t, out.String(), `"msg":"fine"`)
	assert.Contains(t, out.String(), `"msg":"award failed"`)
}

func TestDBHandlerStopIsIdempotent(t *testing.T) {
	h := NewDBHandler(newTestDB(t), time.Hour)
	h.Stop()
	h.Stop()
}

func TestPurgeOlderThan(t *testing.T) {
	db := newTestDB(t)
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, db.Create(&models.SystemLog{Timestamp: now.AddDate(0, 0, -40), Level: "ERROR"}).Error)
	require.NoError(t, db.Create(&models.SystemLog{Timestamp: now.AddDate(0, 0, -1), Level: "ERROR"}).Error)

	deleted, err := PurgeOlderThan(db, 30*24*time.Hour, now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	var count int64
	db.Model(&models.SystemLog{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestStartCleanupRejectsBadSchedule(t *testing.T) {
	_, err := StartCleanup(newTestDB(t), "not a schedule", 30)
	assert.Error(t, err)
}
