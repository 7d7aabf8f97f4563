package services

import (
	"time"

	"github.com/studyflow/studyflow-backend/internal/database"
	"github.com/studyflow/studyflow-backend/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupTestDB initializes an in-memory SQLite DB shared by the
// services tests. Each test uses unique user IDs to stay isolated.
func setupTestDB() {
	db, _ := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	database.DB = db
	database.DB.AutoMigrate(
		&models.User{},
		&models.ProgressionRecord{},
		&models.Badge{},
		&models.UserBadge{},
		&models.DailyQuestSet{},
		&models.DailyQuest{},
		&models.Notification{},
	)
}

// pinClock freezes the service clock and returns a restore func.
func pinClock(t time.Time) func() {
	prev := timeNow
	timeNow = func() time.Time { return t }
	return func() { timeNow = prev }
}

func seedProgression(rec models.ProgressionRecord) {
	if rec.CurrentLevel == 0 {
		rec.CurrentLevel = LevelFromXP(rec.CurrentXP)
	}
	database.DB.Create(&rec)
}
